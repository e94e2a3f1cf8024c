package thumbnail

import "math"

// Viewport is the pixel frame a page is rendered into.
type Viewport struct {
	Width  int
	Height int
	Scale  float64
	Rotate int
	Box    Box
}

func NewViewport(page *Page, scale float64) Viewport {
	w := page.Box.Width() * scale
	h := page.Box.Height() * scale
	if page.Rotate == 90 || page.Rotate == 270 {
		w, h = h, w
	}
	return Viewport{
		Width:  pixels(w),
		Height: pixels(h),
		Scale:  scale,
		Rotate: page.Rotate,
		Box:    page.Box,
	}
}

// ToPixel maps a point in PDF user space to surface coordinates.
func (vp Viewport) ToPixel(x, y float64) (float64, float64) {
	u := (x - vp.Box.X0) * vp.Scale
	v := (vp.Box.Y1 - y) * vp.Scale
	w := vp.Box.Width() * vp.Scale
	h := vp.Box.Height() * vp.Scale

	switch vp.Rotate {
	case 90:
		return h - v, u
	case 180:
		return w - u, h - v
	case 270:
		return v, w - u
	}
	return u, v
}

// pixels truncates like a canvas size assignment; the epsilon absorbs
// float error on products such as 792*1.5.
func pixels(f float64) int {
	n := int(math.Floor(f + 1e-6))
	if n < 1 {
		return 1
	}
	return n
}
