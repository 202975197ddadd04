package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"

	"github.com/digitorus/pdf"
	"go.uber.org/zap"

	"docsign-client/internal/domain/entity"
)

// Bitmap is one rasterized page
type Bitmap struct {
	Page   int
	Scale  float64
	Width  int
	Height int
	Image  *image.RGBA
}

// EncodePNG writes the bitmap as PNG
func (b *Bitmap) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.Image); err != nil {
		return fmt.Errorf("failed to encode page %d: %w", b.Page, err)
	}
	return nil
}

// LoadResult describes a successfully parsed document
type LoadResult struct {
	TotalPages int  `json:"total_pages"`
	Ready      bool `json:"ready"`
}

// Rasterizer draws one page. It must return promptly once ctx is done.
type Rasterizer func(ctx context.Context, page pdf.Page, pageIndex int, scale float64) (*Bitmap, error)

// Surface turns PDF bytes into one displayed page bitmap at a time. Renders
// are serialized: starting a render cancels the one in flight, and a render
// that was superseded returns (nil, nil).
type Surface struct {
	mu         sync.Mutex
	reader     *pdf.Reader
	data       []byte
	totalPages int
	generation uint64
	cancel     context.CancelFunc
	current    *Bitmap

	// reads of the page tree go through one reader at a time
	readMu sync.Mutex

	zoom      ZoomPolicy
	engine    *Engine
	rasterize Rasterizer
	logger    *zap.Logger
}

func NewSurface(zoom ZoomPolicy, engine *Engine, logger *zap.Logger) *Surface {
	s := &Surface{
		zoom:   zoom,
		engine: engine,
		logger: logger,
	}
	s.rasterize = s.rasterizePage
	return s
}

// Load parses the document and resets any previous render state
func (s *Surface) Load(data []byte) (LoadResult, error) {
	if len(data) == 0 {
		return LoadResult{}, &entity.RenderError{Err: fmt.Errorf("%w: empty document", entity.ErrDocumentLoad)}
	}

	reader, err := openReader(data)
	if err != nil {
		return LoadResult{}, &entity.RenderError{Err: fmt.Errorf("%w: %v", entity.ErrDocumentLoad, err)}
	}

	total := reader.NumPage()
	if total < 1 {
		return LoadResult{}, &entity.RenderError{Err: fmt.Errorf("%w: document has no pages", entity.ErrDocumentLoad)}
	}

	s.mu.Lock()
	s.cancelLocked()
	s.generation++
	s.reader = reader
	s.data = data
	s.totalPages = total
	s.current = nil
	s.mu.Unlock()

	s.logger.Debug("Document loaded", zap.Int("total_pages", total))

	return LoadResult{TotalPages: total, Ready: true}, nil
}

// openReader guards against parser panics on malformed input
func openReader(data []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

// Current returns the last completed render, or nil
func (s *Surface) Current() *Bitmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Zoom exposes the policy the surface clamps scales with
func (s *Surface) Zoom() ZoomPolicy {
	return s.zoom
}

// RenderPage renders pageIndex (1-based) at scale, clamped to the zoom policy
func (s *Surface) RenderPage(ctx context.Context, pageIndex int, scale float64) (*Bitmap, error) {
	scale = s.zoom.Clamp(scale)

	s.mu.Lock()
	if s.reader == nil {
		s.mu.Unlock()
		return nil, &entity.RenderError{Page: pageIndex, Err: fmt.Errorf("%w: no document loaded", entity.ErrDocumentLoad)}
	}
	if pageIndex < 1 || pageIndex > s.totalPages {
		total := s.totalPages
		s.mu.Unlock()
		return nil, &entity.RenderError{Page: pageIndex, Err: fmt.Errorf("%w: %d of %d", entity.ErrPageOutOfRange, pageIndex, total)}
	}

	s.cancelLocked()
	s.generation++
	gen := s.generation
	renderCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	reader := s.reader
	s.mu.Unlock()

	defer cancel()

	s.readMu.Lock()
	page := reader.Page(pageIndex)
	s.readMu.Unlock()

	bmp, err := s.rasterize(renderCtx, page, pageIndex, scale)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debug("Render superseded",
			zap.Int("page", pageIndex),
			zap.Float64("scale", scale),
		)
		return nil, nil
	}
	s.cancel = nil

	if err == nil && renderCtx.Err() != nil {
		err = renderCtx.Err()
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		var renderErr *entity.RenderError
		if errors.As(err, &renderErr) {
			return nil, err
		}
		return nil, &entity.RenderError{Page: pageIndex, Err: err}
	}

	s.current = bmp
	return bmp, nil
}

// Close cancels any render in flight and drops the document
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.generation++
	s.reader = nil
	s.data = nil
	s.totalPages = 0
	s.current = nil
}

func (s *Surface) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Factory hands each view its own surface; surfaces share nothing
type Factory struct {
	zoom   ZoomPolicy
	engine *Engine
	logger *zap.Logger
}

func NewFactory(zoom ZoomPolicy, engine *Engine, logger *zap.Logger) *Factory {
	return &Factory{zoom: zoom, engine: engine, logger: logger}
}

func (f *Factory) New() *Surface {
	return NewSurface(f.zoom, f.engine, f.logger)
}

// Zoom returns the policy surfaces are built with
func (f *Factory) Zoom() ZoomPolicy {
	return f.zoom
}
