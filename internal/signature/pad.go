package signature

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"time"

	"github.com/fogleman/gg"

	"dealer-admin-backend/internal/document"
)

// ErrSurfaceNotReady is returned when a drawing or clear command arrives
// before the backing store has been sized. Callers treat it as a no-op.
var ErrSurfaceNotReady = errors.New("signature surface not sized yet")

// EventType is the normalized pointer event kind. Touch streams
// (touchstart/touchmove/touchend) map onto the same four values.
type EventType string

const (
	EventDown  EventType = "down"
	EventMove  EventType = "move"
	EventUp    EventType = "up"
	EventLeave EventType = "leave"
)

// PointerEvent is one pointer report in on-screen coordinates, together
// with the surface geometry needed to rescale into canvas space.
type PointerEvent struct {
	Type          EventType
	X             float64
	Y             float64
	SurfaceLeft   float64
	SurfaceTop    float64
	DisplayWidth  float64
	DisplayHeight float64
}

const (
	strokeWidth = 2.5
	inkShade    = 0.1
)

// Pad captures a freehand stroke sequence into a raster backing store and
// exposes the result as a SignatureSnapshot. It is a two-state machine
// (idle / drawing); cross-surface routing is the owner's concern.
type Pad struct {
	dc      *gg.Context
	width   int
	height  int
	drawing bool
	inked   bool
	lastX   float64
	lastY   float64
	snap    document.SignatureSnapshot
}

func NewPad() *Pad {
	return &Pad{}
}

// Ready reports whether the backing store has been sized.
func (p *Pad) Ready() bool {
	return p.dc != nil
}

// EnsureBacking sizes the backing store to w×h pixels. Reallocating a
// raster buffer discards its pixels, so an already-drawn surface is
// snapshotted first and painted back after the resize. Only a surface that
// has never been sized is initialized destructively.
func (p *Pad) EnsureBacking(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if p.dc != nil && p.width == w && p.height == h {
		return
	}

	var prior image.Image
	if p.dc != nil {
		prior = p.dc.Image()
	}

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	if prior != nil {
		dc.DrawImage(prior, 0, 0)
	}

	dc.SetRGB(inkShade, inkShade, inkShade)
	dc.SetLineWidth(strokeWidth)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	p.dc = dc
	p.width = w
	p.height = h
}

// PointerDown begins a stroke at the event position.
func (p *Pad) PointerDown(ev PointerEvent) error {
	if p.dc == nil {
		return ErrSurfaceNotReady
	}
	x, y := p.canvasPoint(ev)
	p.drawing = true
	p.lastX, p.lastY = x, y
	p.dc.DrawCircle(x, y, strokeWidth/2)
	p.dc.Fill()
	p.inked = true
	return nil
}

// PointerMove extends the active stroke and renders the segment
// immediately so ink stays visible while drawing.
func (p *Pad) PointerMove(ev PointerEvent) error {
	if p.dc == nil {
		return ErrSurfaceNotReady
	}
	if !p.drawing {
		return nil
	}
	x, y := p.canvasPoint(ev)
	p.dc.DrawLine(p.lastX, p.lastY, x, y)
	p.dc.Stroke()
	p.lastX, p.lastY = x, y
	p.inked = true
	return nil
}

// PointerUp ends the stroke and exports the current raster as the stored
// snapshot. Leave events while drawing end the stroke the same way.
func (p *Pad) PointerUp(ev PointerEvent) error {
	if p.dc == nil {
		return ErrSurfaceNotReady
	}
	if !p.drawing {
		return nil
	}
	p.drawing = false
	if p.inked {
		p.exportSnapshot()
	}
	return nil
}

// Clear erases the raster and resets the stored snapshot. Valid in any
// state; a no-op on a surface that was never sized.
func (p *Pad) Clear() error {
	if p.dc == nil {
		p.snap = document.SignatureSnapshot{}
		return ErrSurfaceNotReady
	}
	p.dc.SetRGB(1, 1, 1)
	p.dc.Clear()
	p.dc.SetRGB(inkShade, inkShade, inkShade)
	p.drawing = false
	p.inked = false
	p.snap = document.SignatureSnapshot{}
	return nil
}

// Snapshot returns the last exported signature state.
func (p *Pad) Snapshot() document.SignatureSnapshot {
	return p.snap
}

// Image exposes the current raster, or nil before sizing.
func (p *Pad) Image() image.Image {
	if p.dc == nil {
		return nil
	}
	return p.dc.Image()
}

// Blank reports whether the raster holds no ink.
func (p *Pad) Blank() bool {
	img := p.Image()
	if img == nil {
		return true
	}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			wr, wg, wb, wa := white.RGBA()
			if r != wr || g != wg || bl != wb || a != wa {
				return false
			}
		}
	}
	return true
}

// canvasPoint rescales an on-screen position into canvas space. The backing
// resolution and the displayed size can differ (device pixel ratio, window
// resize), so the offset-from-origin is multiplied by backing/display.
func (p *Pad) canvasPoint(ev PointerEvent) (float64, float64) {
	dw, dh := ev.DisplayWidth, ev.DisplayHeight
	if dw <= 0 {
		dw = float64(p.width)
	}
	if dh <= 0 {
		dh = float64(p.height)
	}
	x := (ev.X - ev.SurfaceLeft) * (float64(p.width) / dw)
	y := (ev.Y - ev.SurfaceTop) * (float64(p.height) / dh)
	return x, y
}

func (p *Pad) exportSnapshot() {
	var buf bytes.Buffer
	if err := p.dc.EncodePNG(&buf); err != nil {
		return
	}
	p.snap = document.SignatureSnapshot{
		Present: true,
		Raster: document.EmbeddedImage{
			Data:   "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
			Origin: document.OriginCaptured,
		},
		CapturedAt: time.Now(),
	}
}
