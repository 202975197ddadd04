package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/digitorus/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docsign-client/internal/domain/entity"
	"docsign-client/internal/testutil"
)

func newTestSurface(t *testing.T, pages int) *Surface {
	t.Helper()

	data, err := testutil.PDF(pages)
	require.NoError(t, err)

	s := NewSurface(ZoomPolicy{Min: 0.5, Max: 3.0, Step: 0.1, Default: 1.0}, testEngine, zap.NewNop())
	res, err := s.Load(data)
	require.NoError(t, err)
	require.True(t, res.Ready)
	require.Equal(t, pages, res.TotalPages)
	return s
}

func TestLoadRejectsEmptyAndGarbage(t *testing.T) {
	s := NewSurface(ZoomPolicy{Min: 0.5, Max: 3, Step: 0.1, Default: 1}, testEngine, zap.NewNop())

	_, err := s.Load(nil)
	assert.True(t, errors.Is(err, entity.ErrDocumentLoad))

	_, err = s.Load([]byte("definitely not a pdf"))
	assert.True(t, errors.Is(err, entity.ErrDocumentLoad))

	var renderErr *entity.RenderError
	assert.True(t, errors.As(err, &renderErr))
}

func TestRenderPageMatchesViewport(t *testing.T) {
	s := newTestSurface(t, 2)

	bmp, err := s.RenderPage(context.Background(), 1, 1.0)
	require.NoError(t, err)
	require.NotNil(t, bmp)

	// A4 is 595.28 x 841.89 points
	assert.Equal(t, 596, bmp.Width)
	assert.Equal(t, 842, bmp.Height)
	assert.Equal(t, 1.0, bmp.Scale)
	assert.Same(t, bmp, s.Current())

	half, err := s.RenderPage(context.Background(), 2, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 298, half.Width)
	assert.Equal(t, 421, half.Height)
	assert.Equal(t, 2, s.Current().Page)

	var buf bytes.Buffer
	require.NoError(t, half.EncodePNG(&buf))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 298, decoded.Bounds().Dx())
}

func TestRenderPageClampsScale(t *testing.T) {
	s := newTestSurface(t, 1)

	bmp, err := s.RenderPage(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3.0, bmp.Scale)

	bmp, err = s.RenderPage(context.Background(), 1, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 0.5, bmp.Scale)
}

func TestRenderPageOutOfRange(t *testing.T) {
	s := newTestSurface(t, 2)

	for _, page := range []int{0, 3, -1} {
		_, err := s.RenderPage(context.Background(), page, 1.0)
		assert.True(t, errors.Is(err, entity.ErrPageOutOfRange), "page %d", page)
	}
	assert.Nil(t, s.Current())
}

func TestRenderWithoutDocument(t *testing.T) {
	s := NewSurface(ZoomPolicy{Min: 0.5, Max: 3, Step: 0.1, Default: 1}, testEngine, zap.NewNop())

	_, err := s.RenderPage(context.Background(), 1, 1.0)
	assert.True(t, errors.Is(err, entity.ErrDocumentLoad))
}

func TestNewerRenderSupersedesOlder(t *testing.T) {
	s := newTestSurface(t, 2)

	started := make(chan struct{})
	var mu sync.Mutex
	completed := []int{}

	base := s.rasterize
	s.rasterize = func(ctx context.Context, page pdf.Page, pageIndex int, scale float64) (*Bitmap, error) {
		if pageIndex == 1 {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		bmp, err := base(ctx, page, pageIndex, scale)
		if err == nil {
			mu.Lock()
			completed = append(completed, pageIndex)
			mu.Unlock()
		}
		return bmp, err
	}

	type outcome struct {
		bmp *Bitmap
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		bmp, err := s.RenderPage(context.Background(), 1, 1.0)
		first <- outcome{bmp, err}
	}()

	<-started
	second, err := s.RenderPage(context.Background(), 2, 1.0)
	require.NoError(t, err)
	require.NotNil(t, second)

	select {
	case out := <-first:
		assert.NoError(t, out.err)
		assert.Nil(t, out.bmp)
	case <-time.After(2 * time.Second):
		t.Fatal("superseded render did not return")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{2}, completed)
	assert.Equal(t, 2, s.Current().Page)
}

func TestCloseDiscardsInFlightRender(t *testing.T) {
	s := newTestSurface(t, 1)

	started := make(chan struct{})
	s.rasterize = func(ctx context.Context, page pdf.Page, pageIndex int, scale float64) (*Bitmap, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}

	done := make(chan *Bitmap, 1)
	go func() {
		bmp, _ := s.RenderPage(context.Background(), 1, 1.0)
		done <- bmp
	}()

	<-started
	s.Close()

	assert.Nil(t, <-done)
	assert.Nil(t, s.Current())

	_, err := s.RenderPage(context.Background(), 1, 1.0)
	assert.True(t, errors.Is(err, entity.ErrDocumentLoad))
}

// darkPixels counts pixels in r noticeably darker than paper
func darkPixels(img *image.RGBA, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if int(c.R)+int(c.G)+int(c.B) < 3*160 {
				n++
			}
		}
	}
	return n
}

func TestRenderDrawsPageContent(t *testing.T) {
	s := newTestSurface(t, 1)

	bmp, err := s.RenderPage(context.Background(), 1, 1.0)
	require.NoError(t, err)

	// heading baseline sits at 96pt from the top
	assert.Greater(t, darkPixels(bmp.Image, image.Rect(72, 80, 240, 100)), 50)
	// top edge of the signature frame
	assert.Greater(t, darkPixels(bmp.Image, image.Rect(80, 638, 260, 643)), 100)
	// open paper
	assert.Zero(t, darkPixels(bmp.Image, image.Rect(320, 300, 520, 500)))
}

func TestPageSize(t *testing.T) {
	data, err := testutil.PDF(1)
	require.NoError(t, err)

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	w, h, err := PageSize(reader.Page(1))
	require.NoError(t, err)
	assert.InDelta(t, 595.28, w, 0.01)
	assert.InDelta(t, 841.89, h, 0.01)
}
