package render

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"docsign-client/internal/config"
)

// Engine draws pages with PDFium compiled to WebAssembly. Instances are pooled
// and each render borrows one for the duration of the call.
type Engine struct {
	pool    pdfium.Pool
	timeout time.Duration
	logger  *zap.Logger
}

func NewEngine(cfg *config.Config, logger *zap.Logger) (*Engine, error) {
	workers := cfg.Render.Workers
	if workers <= 0 {
		workers = 1
	}
	timeout := cfg.Render.InstanceTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  workers,
		MaxTotal: workers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start pdfium: %w", err)
	}

	logger.Info("PDF renderer started", zap.Int("workers", workers))

	return &Engine{pool: pool, timeout: timeout, logger: logger}, nil
}

// NewEngineWithLifecycle closes the pool when the application stops
func NewEngineWithLifecycle(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*Engine, error) {
	engine, err := NewEngine(cfg, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return engine.Close()
		},
	})
	return engine, nil
}

func (e *Engine) Close() error {
	if err := e.pool.Close(); err != nil {
		return fmt.Errorf("failed to stop pdfium: %w", err)
	}
	return nil
}

// Render draws pageIndex (1-based) of data into a width x height bitmap, the
// page scaled to the given width. PDFium calls cannot be interrupted, so a
// canceled render returns at once and the borrowed instance is released when
// the call finishes.
func (e *Engine) Render(ctx context.Context, data []byte, pageIndex, width, height int) (*image.RGBA, error) {
	type result struct {
		img *image.RGBA
		err error
	}

	done := make(chan result, 1)
	go func() {
		img, err := e.render(data, pageIndex, width, height)
		done <- result{img: img, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.img, r.err
	}
}

func (e *Engine) render(data []byte, pageIndex, width, height int) (*image.RGBA, error) {
	instance, err := e.pool.GetInstance(e.timeout)
	if err != nil {
		return nil, fmt.Errorf("no renderer available: %w", err)
	}
	defer instance.Close()

	doc, err := instance.OpenDocument(&requests.OpenDocument{File: &data})
	if err != nil {
		return nil, fmt.Errorf("renderer could not open document: %w", err)
	}
	defer instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document})

	rendered, err := instance.RenderPageInPixels(&requests.RenderPageInPixels{
		Page: requests.Page{
			ByIndex: &requests.PageByIndex{
				Document: doc.Document,
				Index:    pageIndex - 1,
			},
		},
		Width: width,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer failed on page %d: %w", pageIndex, err)
	}
	defer rendered.Cleanup()

	// the rendered pixels live in instance memory until Cleanup. Rounding may
	// leave the height a pixel off, so the page is placed on an exact canvas.
	src := rendered.Result.Image
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Over)
	return img, nil
}
