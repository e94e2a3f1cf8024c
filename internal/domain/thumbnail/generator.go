package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"time"

	"github.com/disintegration/imaging"

	"github.com/Vovarama1992/archive/internal/metrics"
)

const DefaultScale = 1.5

// DefaultMaxPixels bounds the raster surface to about 160 MB of NRGBA.
const DefaultMaxPixels = 40_000_000

// Generator turns the first page of a PDF into a PNG preview. It keeps no
// per-call state, so one Generator serves concurrent uploads.
type Generator struct {
	raster      Rasterizer
	compression png.CompressionLevel
	scale       float64
	maxPixels   int64
}

type Option func(*Generator)

func WithCompression(level png.CompressionLevel) Option {
	return func(g *Generator) { g.compression = level }
}

// WithScale sets the scale GenerateFile renders at. Non-positive and
// infinite values are ignored.
func WithScale(scale float64) Option {
	return func(g *Generator) {
		if scale > 0 && !math.IsInf(scale, 0) {
			g.scale = scale
		}
	}
}

// WithMaxPixels caps width*height of the rendered page. Non-positive values are ignored.
func WithMaxPixels(n int64) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxPixels = n
		}
	}
}

func NewGenerator(r Rasterizer, opts ...Option) *Generator {
	g := &Generator{
		raster:      r,
		compression: png.DefaultCompression,
		scale:       DefaultScale,
		maxPixels:   DefaultMaxPixels,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate renders page one of pdfBytes at scale and returns PNG bytes whose
// dimensions equal the page box times scale.
func (g *Generator) Generate(ctx context.Context, pdfBytes []byte, scale float64) (out []byte, err error) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, ErrInvalidScale
	}

	start := time.Now()
	log.Printf("[THUMB][START] bytes=%d scale=%.2f", len(pdfBytes), scale)

	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
			log.Printf("[THUMB][ERR] %v", err)
		}
		metrics.ThumbnailDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}()

	page, err := openFirstPage(pdfBytes)
	if err != nil {
		return nil, err
	}

	// checked in float space: huge boxes overflow the int conversion
	area := page.Box.Width() * scale * page.Box.Height() * scale
	if area > float64(g.maxPixels) {
		return nil, &RenderError{Reason: fmt.Sprintf("viewport too large: %.0f pixels, limit %d", area, g.maxPixels)}
	}

	vp := NewViewport(page, scale)
	surface, err := g.render(ctx, page, vp)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, surface, imaging.PNG, imaging.PNGCompressionLevel(g.compression)); err != nil {
		return nil, &RenderError{Reason: "encode png", Err: err}
	}
	if buf.Len() == 0 {
		return nil, &RenderError{Reason: "encoder produced no data"}
	}

	log.Printf("[THUMB][OK] %dx%d png=%d dur=%s", vp.Width, vp.Height, buf.Len(), time.Since(start))
	return buf.Bytes(), nil
}

// GenerateFile is Generate at the configured scale, also naming the result
// after the source file.
func (g *Generator) GenerateFile(ctx context.Context, name string, pdfBytes []byte) (string, []byte, error) {
	img, err := g.Generate(ctx, pdfBytes, g.scale)
	if err != nil {
		return "", nil, err
	}
	return name + "_thumbnail.png", img, nil
}

// render allocates the surface and runs the rasterizer, turning panics from
// either into a RenderError.
func (g *Generator) render(ctx context.Context, page *Page, vp Viewport) (dst *image.NRGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			dst = nil
			err = &RenderError{Reason: "corrupt page content", Err: fmt.Errorf("%v", r)}
		}
	}()

	dst = imaging.New(vp.Width, vp.Height, color.White)
	if err := g.raster.Render(ctx, page, vp, dst); err != nil {
		return nil, &RenderError{Reason: "rasterize page", Err: err}
	}
	return dst, nil
}
