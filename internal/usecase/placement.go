package usecase

import (
	"sync"

	"docsign-client/internal/domain/entity"
)

// Selector holds at most one signature anchor for the current signing view
type Selector struct {
	mu     sync.Mutex
	anchor *entity.SignatureAnchor
}

func NewSelector() *Selector {
	return &Selector{}
}

// SelectPoint converts a pixel click into document space and replaces any
// held anchor. Any point on the canvas is accepted. A non-positive scale is
// treated as 1.
func (s *Selector) SelectPoint(pixelX, pixelY float64, page int, scale float64, canvasWidth, canvasHeight int) entity.SignatureAnchor {
	if scale <= 0 {
		scale = 1
	}

	anchor := entity.SignatureAnchor{
		PageIndex:      page,
		X:              pixelX / scale,
		Y:              pixelY / scale,
		Scale:          scale,
		ViewportWidth:  canvasWidth,
		ViewportHeight: canvasHeight,
	}

	s.mu.Lock()
	s.anchor = &anchor
	s.mu.Unlock()

	return anchor
}

// CurrentAnchor returns a copy of the held anchor, or nil
func (s *Selector) CurrentAnchor() *entity.SignatureAnchor {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.anchor == nil {
		return nil
	}
	anchor := *s.anchor
	return &anchor
}

func (s *Selector) Clear() {
	s.mu.Lock()
	s.anchor = nil
	s.mu.Unlock()
}

// Invalidate drops an anchor taken at another scale or on a page that no
// longer exists. It reports whether the anchor was dropped.
func (s *Selector) Invalidate(scale float64, totalPages int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.anchor == nil {
		return false
	}
	if s.anchor.Scale != scale || s.anchor.PageIndex > totalPages || s.anchor.PageIndex < 1 {
		s.anchor = nil
		return true
	}
	return false
}
