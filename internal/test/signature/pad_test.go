package signature_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"dealer-admin-backend/internal/document"
	"dealer-admin-backend/internal/signature"
)

func TestPad_NotReadyBeforeSizing(t *testing.T) {
	pad := signature.NewPad()

	assert.False(t, pad.Ready())
	assert.ErrorIs(t, pad.PointerDown(signature.PointerEvent{Type: signature.EventDown}), signature.ErrSurfaceNotReady)
	assert.ErrorIs(t, pad.Clear(), signature.ErrSurfaceNotReady)
	assert.Nil(t, pad.Image())
	assert.True(t, pad.Blank())
}

func TestPad_CoordinateRescaling(t *testing.T) {
	pad := signature.NewPad()
	pad.EnsureBacking(400, 100)

	// Displayed at half the backing resolution, offset on screen by
	// (50, 10). Screen point (150, 30) must land at canvas (200, 40).
	ev := signature.PointerEvent{
		Type:          signature.EventDown,
		X:             150,
		Y:             30,
		SurfaceLeft:   50,
		SurfaceTop:    10,
		DisplayWidth:  200,
		DisplayHeight: 50,
	}
	assert.NoError(t, pad.PointerDown(ev))

	img := pad.Image()
	r, g, b, _ := img.At(200, 40).RGBA()
	assert.True(t, r < 0xffff && g < 0xffff && b < 0xffff, "expected ink at rescaled point")

	r, g, b, _ = img.At(100, 40).RGBA()
	assert.True(t, r == 0xffff && g == 0xffff && b == 0xffff, "expected no ink away from the stroke")
}

func TestPad_SnapshotOnPointerUp(t *testing.T) {
	pad := signature.NewPad()
	pad.EnsureBacking(300, 100)

	assert.NoError(t, pad.PointerDown(event(signature.EventDown, 20, 50)))
	assert.NoError(t, pad.PointerMove(event(signature.EventMove, 120, 60)))
	assert.False(t, pad.Snapshot().Present, "snapshot exports on stroke end, not mid-stroke")

	assert.NoError(t, pad.PointerUp(event(signature.EventUp, 120, 60)))

	snap := pad.Snapshot()
	assert.True(t, snap.Present)
	assert.True(t, strings.HasPrefix(snap.Raster.Data, "data:image/png;base64,"))
	assert.Equal(t, document.OriginCaptured, snap.Raster.Origin)
	assert.False(t, snap.CapturedAt.IsZero())
}

func TestPad_MoveWithoutDownIsIgnored(t *testing.T) {
	pad := signature.NewPad()
	pad.EnsureBacking(300, 100)

	assert.NoError(t, pad.PointerMove(event(signature.EventMove, 50, 50)))
	assert.NoError(t, pad.PointerUp(event(signature.EventUp, 50, 50)))

	assert.True(t, pad.Blank())
	assert.False(t, pad.Snapshot().Present)
}

func TestPad_ResizePreservesInk(t *testing.T) {
	pad := signature.NewPad()
	pad.EnsureBacking(300, 100)

	assert.NoError(t, pad.PointerDown(event(signature.EventDown, 20, 50)))
	assert.NoError(t, pad.PointerMove(event(signature.EventMove, 120, 60)))
	assert.NoError(t, pad.PointerUp(event(signature.EventUp, 120, 60)))
	assert.False(t, pad.Blank())

	pad.EnsureBacking(600, 200)

	bounds := pad.Image().Bounds()
	assert.Equal(t, 600, bounds.Dx())
	assert.Equal(t, 200, bounds.Dy())
	assert.False(t, pad.Blank(), "resize must not wipe already-drawn ink")
}

func TestPad_Clear(t *testing.T) {
	pad := signature.NewPad()
	pad.EnsureBacking(300, 100)

	assert.NoError(t, pad.PointerDown(event(signature.EventDown, 20, 50)))
	assert.NoError(t, pad.PointerUp(event(signature.EventUp, 20, 50)))
	assert.False(t, pad.Blank())
	assert.True(t, pad.Snapshot().Present)

	assert.NoError(t, pad.Clear())

	assert.True(t, pad.Blank())
	assert.False(t, pad.Snapshot().Present)
}

func event(typ signature.EventType, x, y float64) signature.PointerEvent {
	return signature.PointerEvent{
		Type:          typ,
		X:             x,
		Y:             y,
		DisplayWidth:  300,
		DisplayHeight: 100,
	}
}
