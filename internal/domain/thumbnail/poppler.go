package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

const maxStderrPreview = 180

// PopplerRasterizer renders through the pdftoppm binary from poppler-utils.
type PopplerRasterizer struct {
	bin string
}

func NewPopplerRasterizer(bin string) *PopplerRasterizer {
	return &PopplerRasterizer{bin: bin}
}

func (r *PopplerRasterizer) Render(ctx context.Context, page *Page, vp Viewport, dst *image.NRGBA) error {
	start := time.Now()

	f, err := os.CreateTemp("", "archive-thumb-*.pdf")
	if err != nil {
		return fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(page.Source()); err != nil {
		f.Close()
		return fmt.Errorf("write temp pdf: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp pdf: %w", err)
	}

	n := strconv.Itoa(page.Number)
	cmd := exec.CommandContext(
		ctx,
		r.bin,
		"-f", n,
		"-l", n,
		"-png",
		"-singlefile",
		"-cropbox",
		"-scale-to-x", strconv.Itoa(vp.Width),
		"-scale-to-y", strconv.Itoa(vp.Height),
		f.Name(),
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Printf("[POPPLER][ERR] %v stderr=%q", err, trim(stderr.String(), maxStderrPreview))
		return fmt.Errorf("pdftoppm: %w", err)
	}

	img, err := imaging.Decode(&stdout)
	if err != nil {
		return fmt.Errorf("decode pdftoppm output: %w", err)
	}

	// pdftoppm may round one axis differently; fit into the viewport exactly.
	if img.Bounds().Dx() == vp.Width && img.Bounds().Dy() == vp.Height {
		xdraw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, xdraw.Over)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	}

	log.Printf("[POPPLER][OK] %dx%d dur=%s", vp.Width, vp.Height, time.Since(start))
	return nil
}

func trim(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
