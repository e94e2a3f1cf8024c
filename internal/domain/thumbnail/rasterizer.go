package thumbnail

import (
	"context"
	"fmt"
	"image"
	"log"
	"os/exec"
)

// Rasterizer draws page into dst, which is already sized to vp and
// cleared to white.
type Rasterizer interface {
	Render(ctx context.Context, page *Page, vp Viewport, dst *image.NRGBA) error
}

const (
	RasterizerAuto    = "auto"
	RasterizerPoppler = "poppler"
	RasterizerOutline = "outline"
)

// NewRasterizer resolves a configured rasterizer kind. "auto" picks poppler
// when pdftoppm is installed and falls back to the pure Go outline renderer.
func NewRasterizer(kind, pdftoppmPath string) (Rasterizer, error) {
	if pdftoppmPath == "" {
		pdftoppmPath = "pdftoppm"
	}

	switch kind {
	case RasterizerPoppler:
		return NewPopplerRasterizer(pdftoppmPath), nil
	case RasterizerOutline:
		return NewOutlineRasterizer(), nil
	case RasterizerAuto, "":
		if p, err := exec.LookPath(pdftoppmPath); err == nil {
			log.Printf("[THUMB][RASTER] using poppler at %s", p)
			return NewPopplerRasterizer(p), nil
		}
		log.Printf("[THUMB][RASTER] pdftoppm not found, using outline renderer")
		return NewOutlineRasterizer(), nil
	}
	return nil, fmt.Errorf("unknown rasterizer %q", kind)
}
