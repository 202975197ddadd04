package render

import (
	"context"
	"fmt"
	"math"

	"github.com/digitorus/pdf"
	"go.uber.org/zap"

	"docsign-client/internal/domain/entity"
)

const maxBitmapSide = 8192

// pageBox is the visible area of a page in PDF user space
type pageBox struct {
	llx, lly, urx, ury float64
}

func (b pageBox) width() float64  { return b.urx - b.llx }
func (b pageBox) height() float64 { return b.ury - b.lly }

// PageSize returns the page dimensions in points
func PageSize(page pdf.Page) (float64, float64, error) {
	box, err := visibleBox(page)
	if err != nil {
		return 0, 0, err
	}
	return box.width(), box.height(), nil
}

func visibleBox(page pdf.Page) (pageBox, error) {
	if page.V.IsNull() {
		return pageBox{}, fmt.Errorf("page not found")
	}

	box := inheritedPageBox(page.V, "CropBox")
	if box.IsNull() {
		box = inheritedPageBox(page.V, "MediaBox")
	}
	if box.IsNull() || box.Len() < 4 {
		return pageBox{}, fmt.Errorf("page has no MediaBox or CropBox")
	}

	b := pageBox{
		llx: box.Index(0).Float64(),
		lly: box.Index(1).Float64(),
		urx: box.Index(2).Float64(),
		ury: box.Index(3).Float64(),
	}
	if b.width() <= 0 || b.height() <= 0 {
		return pageBox{}, fmt.Errorf("invalid page dimensions %.2fx%.2f", b.width(), b.height())
	}
	return b, nil
}

// inheritedPageBox walks up the page tree until the box is found
func inheritedPageBox(v pdf.Value, key string) pdf.Value {
	for !v.IsNull() {
		if box := v.Key(key); !box.IsNull() {
			return box
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}

// rasterizePage sizes the bitmap from the page box and has the engine draw it
func (s *Surface) rasterizePage(ctx context.Context, page pdf.Page, pageIndex int, scale float64) (*Bitmap, error) {
	s.readMu.Lock()
	box, err := visibleBox(page)
	s.readMu.Unlock()
	if err != nil {
		return nil, &entity.RenderError{Page: pageIndex, Err: err}
	}

	width := int(math.Ceil(box.width() * scale))
	height := int(math.Ceil(box.height() * scale))
	if width > maxBitmapSide || height > maxBitmapSide {
		return nil, &entity.RenderError{Page: pageIndex, Err: fmt.Errorf("bitmap %dx%d exceeds %d pixels per side", width, height, maxBitmapSide)}
	}

	s.mu.Lock()
	data := s.data
	s.mu.Unlock()
	if s.engine == nil || data == nil {
		return nil, &entity.RenderError{Page: pageIndex, Err: fmt.Errorf("%w: no renderer", entity.ErrDocumentLoad)}
	}

	img, err := s.engine.Render(ctx, data, pageIndex, width, height)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Page rasterized",
		zap.Int("page", pageIndex),
		zap.Float64("scale", scale),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)

	return &Bitmap{
		Page:   pageIndex,
		Scale:  scale,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Image:  img,
	}, nil
}
