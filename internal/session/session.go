// Package session owns the state of one open invoice view: the immutable
// invoice metadata, the two signature surfaces, the asynchronously resolved
// product image and any soft notices raised by detached work.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"dealer-admin-backend/internal/document"
	"dealer-admin-backend/internal/signature"
)

// Surface names one of the two independent signature surfaces.
type Surface string

const (
	SurfaceAdmin     Surface = "admin"
	SurfaceOrganizer Surface = "organizer"
)

// ParseSurface validates a surface name from a route parameter.
func ParseSurface(s string) (Surface, error) {
	switch Surface(s) {
	case SurfaceAdmin, SurfaceOrganizer:
		return Surface(s), nil
	}
	return "", fmt.Errorf("unknown signature surface %q", s)
}

// Session is one invoice view opened for a product. InvoiceMeta is
// generated when the session is created and held fixed afterwards, so
// print and download of the same invoice carry the same number.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu            sync.Mutex
	lastAccess    time.Time
	product       *document.ProductFacts
	meta          document.InvoiceMeta
	pads          map[Surface]*signature.Pad
	activeSurface Surface
	productImage  document.EmbeddedImage
	imageResolved bool
	notices       []string
}

func newSession(product *document.ProductFacts, backingW, backingH int) *Session {
	now := time.Now()
	s := &Session{
		ID:         uuid.New(),
		CreatedAt:  now,
		lastAccess: now,
		product:    product,
		meta:       document.NewInvoiceMeta(now),
		pads: map[Surface]*signature.Pad{
			SurfaceAdmin:     signature.NewPad(),
			SurfaceOrganizer: signature.NewPad(),
		},
	}
	for _, pad := range s.pads {
		pad.EnsureBacking(backingW, backingH)
	}
	return s
}

// Stroke routes one pointer event to a surface. A single active-surface
// token guards move/up delivery: an event stream that started on one
// surface can never leak ink onto the other, even when the pointer wanders
// across both mid-gesture.
func (s *Session) Stroke(surface Surface, ev signature.PointerEvent) (accepted bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()

	pad, ok := s.pads[surface]
	if !ok {
		return false, fmt.Errorf("unknown signature surface %q", surface)
	}

	switch ev.Type {
	case signature.EventDown:
		if s.activeSurface != "" && s.activeSurface != surface {
			return false, nil
		}
		if err := pad.PointerDown(ev); err != nil {
			return false, err
		}
		s.activeSurface = surface
		return true, nil

	case signature.EventMove:
		if s.activeSurface != surface {
			return false, nil
		}
		if err := pad.PointerMove(ev); err != nil {
			return false, err
		}
		return true, nil

	case signature.EventUp, signature.EventLeave:
		if s.activeSurface != surface {
			return false, nil
		}
		if err := pad.PointerUp(ev); err != nil {
			return false, err
		}
		s.activeSurface = ""
		return true, nil
	}

	return false, fmt.Errorf("unknown pointer event type %q", ev.Type)
}

// ClearSignature erases one surface and resets its snapshot.
func (s *Session) ClearSignature(surface Surface) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()

	pad, ok := s.pads[surface]
	if !ok {
		return fmt.Errorf("unknown signature surface %q", surface)
	}
	if s.activeSurface == surface {
		s.activeSurface = ""
	}
	// Not-ready surfaces clear to the same empty snapshot; nothing to
	// report either way.
	_ = pad.Clear()
	return nil
}

// ActiveSurface returns the surface currently owning the pointer stream.
func (s *Session) ActiveSurface() Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeSurface
}

// Product returns the facts the session was opened with, or nil.
func (s *Session) Product() *document.ProductFacts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.product
}

// Meta returns the session's fixed invoice metadata.
func (s *Session) Meta() document.InvoiceMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta
}

// Signatures returns the current snapshots of both surfaces.
func (s *Session) Signatures() (admin, organizer document.SignatureSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pads[SurfaceAdmin].Snapshot(), s.pads[SurfaceOrganizer].Snapshot()
}

// Pad exposes a surface for inspection in tests.
func (s *Session) Pad(surface Surface) *signature.Pad {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pads[surface]
}

// SetProductImage stores the resolved embedding. Called once by the
// detached embed task; the empty image is a valid terminal result.
func (s *Session) SetProductImage(img document.EmbeddedImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productImage = img
	s.imageResolved = true
}

// ProductImage returns whatever the embed task has produced so far.
// Export never waits on it; an unresolved image renders as the
// placeholder.
func (s *Session) ProductImage() (document.EmbeddedImage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productImage, s.imageResolved
}

// AddNotice records a soft, non-blocking notice for the client to surface.
func (s *Session) AddNotice(notice string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, notice)
}

// Notices returns the accumulated notices.
func (s *Session) Notices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.notices))
	copy(out, s.notices)
	return out
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}
