package thumbnail

import (
	"context"
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
)

var (
	rectColor = color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	textColor = color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}
)

// OutlineRasterizer is a dependency-free renderer: rectangles from the
// content stream are filled and text runs are drawn as greeked bars.
// Good enough for a catalog tile when no real PDF engine is installed.
type OutlineRasterizer struct{}

func NewOutlineRasterizer() *OutlineRasterizer { return &OutlineRasterizer{} }

func (r *OutlineRasterizer) Render(_ context.Context, page *Page, vp Viewport, dst *image.NRGBA) error {
	content := page.Content()

	for _, rc := range content.Rect {
		fill(dst, vp, rc.Min.X, rc.Min.Y, rc.Max.X, rc.Max.Y, rectColor)
	}

	for _, t := range content.Text {
		w := t.W
		if w <= 0 {
			w = t.FontSize * 0.5
		}
		h := t.FontSize * 0.7
		fill(dst, vp, t.X, t.Y, t.X+w, t.Y+h, textColor)
	}
	return nil
}

// fill paints the user-space rectangle (x0,y0)-(x1,y1) clipped to dst.
func fill(dst *image.NRGBA, vp Viewport, x0, y0, x1, y1 float64, c color.Color) {
	ax, ay := vp.ToPixel(x0, y0)
	bx, by := vp.ToPixel(x1, y1)

	r := image.Rect(
		int(math.Floor(math.Min(ax, bx))),
		int(math.Floor(math.Min(ay, by))),
		int(math.Ceil(math.Max(ax, bx))),
		int(math.Ceil(math.Max(ay, by))),
	).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	xdraw.Draw(dst, r, image.NewUniform(c), image.Point{}, xdraw.Src)
}
