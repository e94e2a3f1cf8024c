package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRasterizer struct{ err error }

func (f failingRasterizer) Render(context.Context, *Page, Viewport, *image.NRGBA) error {
	return f.err
}

type panickingRasterizer struct{}

func (panickingRasterizer) Render(context.Context, *Page, Viewport, *image.NRGBA) error {
	panic("bad Q")
}

func decodePNG(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	return img
}

func newOutlineGenerator() *Generator {
	return NewGenerator(NewOutlineRasterizer())
}

func TestGenerateLetterPageAtDefaultScale(t *testing.T) {
	doc := buildPDF("", letterPage("72 72 100 50 re f"))

	out, err := newOutlineGenerator().Generate(context.Background(), doc, DefaultScale)
	require.NoError(t, err)

	img := decodePNG(t, out)
	assert.Equal(t, 918, img.Bounds().Dx())
	assert.Equal(t, 1188, img.Bounds().Dy())
}

func TestGenerateDoublingScaleDoublesSize(t *testing.T) {
	doc := buildPDF("", testPage{MediaBox: "[0 0 595 842]", Content: "0 0 10 10 re f"})
	g := newOutlineGenerator()

	for _, scale := range []float64{0.5, 1, 1.5, 2} {
		small, err := g.Generate(context.Background(), doc, scale)
		require.NoError(t, err)
		large, err := g.Generate(context.Background(), doc, scale*2)
		require.NoError(t, err)

		s, l := decodePNG(t, small).Bounds(), decodePNG(t, large).Bounds()
		assert.InDelta(t, 2*s.Dx(), l.Dx(), 1, "scale %v", scale)
		assert.InDelta(t, 2*s.Dy(), l.Dy(), 1, "scale %v", scale)
	}
}

func TestGenerateUsesOnlyFirstPage(t *testing.T) {
	doc := buildPDF("",
		testPage{MediaBox: "[0 0 200 100]", Content: "0 0 1 1 re f"},
		testPage{MediaBox: "[0 0 612 792]", Content: "0 0 1 1 re f"},
	)

	out, err := newOutlineGenerator().Generate(context.Background(), doc, 1)
	require.NoError(t, err)

	b := decodePNG(t, out).Bounds()
	assert.Equal(t, 200, b.Dx())
	assert.Equal(t, 100, b.Dy())
}

func TestGenerateInheritsMediaBoxFromPageTree(t *testing.T) {
	doc := buildPDF("[0 0 300 400]", testPage{Content: "0 0 1 1 re f"})

	out, err := newOutlineGenerator().Generate(context.Background(), doc, 2)
	require.NoError(t, err)

	b := decodePNG(t, out).Bounds()
	assert.Equal(t, 600, b.Dx())
	assert.Equal(t, 800, b.Dy())
}

func TestGeneratePrefersCropBox(t *testing.T) {
	doc := buildPDF("", testPage{MediaBox: "[0 0 612 792]", CropBox: "[50 50 250 150]", Content: "0 0 1 1 re f"})

	out, err := newOutlineGenerator().Generate(context.Background(), doc, 1)
	require.NoError(t, err)

	b := decodePNG(t, out).Bounds()
	assert.Equal(t, 200, b.Dx())
	assert.Equal(t, 100, b.Dy())
}

func TestGenerateRotatedPageSwapsAxes(t *testing.T) {
	doc := buildPDF("", testPage{MediaBox: "[0 0 612 792]", Rotate: 90, Content: "0 0 1 1 re f"})

	out, err := newOutlineGenerator().Generate(context.Background(), doc, 1)
	require.NoError(t, err)

	b := decodePNG(t, out).Bounds()
	assert.Equal(t, 792, b.Dx())
	assert.Equal(t, 612, b.Dy())
}

func TestGenerateDrawsRectangles(t *testing.T) {
	doc := buildPDF("", letterPage("72 72 100 50 re f"))

	out, err := newOutlineGenerator().Generate(context.Background(), doc, 1)
	require.NoError(t, err)

	img := decodePNG(t, out)
	inside := color.NRGBAModel.Convert(img.At(120, 700)).(color.NRGBA)
	outside := color.NRGBAModel.Convert(img.At(10, 10)).(color.NRGBA)

	assert.Equal(t, rectColor, inside)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, outside)
}

func TestGenerateParseErrors(t *testing.T) {
	cases := map[string][]byte{
		"empty":      nil,
		"not a pdf":  []byte("not a url, not a pdf either, just some bytes that go on for a while to pass one hundred bytes in length"),
		"zero pages": buildPDF("[0 0 612 792]"),
		"truncated":  buildPDF("", letterPage("0 0 1 1 re f"))[:120],
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := newOutlineGenerator().Generate(context.Background(), doc, DefaultScale)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
			assert.Nil(t, out)

			var pe *ParseError
			assert.True(t, errors.As(err, &pe))
		})
	}
}

func TestGenerateRenderErrors(t *testing.T) {
	doc := buildPDF("", letterPage("0 0 1 1 re f"))
	cause := errors.New("engine crashed")

	out, err := NewGenerator(failingRasterizer{err: cause}).Generate(context.Background(), doc, 1)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrRender)
	assert.ErrorIs(t, err, cause)

	out, err = NewGenerator(panickingRasterizer{}).Generate(context.Background(), doc, 1)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrRender)
	assert.NotErrorIs(t, err, ErrParse)
}

func TestGenerateCorruptContentStream(t *testing.T) {
	// Tj without an operand makes the content decoder panic.
	doc := buildPDF("", letterPage("BT Tj ET"))

	out, err := newOutlineGenerator().Generate(context.Background(), doc, DefaultScale)
	assert.Nil(t, out)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRender)
	assert.NotErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "corrupt page content")

	var re *RenderError
	assert.True(t, errors.As(err, &re))
}

func TestGenerateRejectsOversizedViewport(t *testing.T) {
	cases := map[string]struct {
		box   string
		scale float64
		limit int64
	}{
		"overflowing box": {box: "[0 0 10000000000 10000000000]", scale: DefaultScale},
		"big page":        {box: "[0 0 14400 14400]", scale: 10},
		"custom limit":    {box: "[0 0 612 792]", scale: 1, limit: 1000},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			doc := buildPDF("", testPage{MediaBox: tc.box, Content: "0 0 1 1 re f"})
			g := NewGenerator(NewOutlineRasterizer(), WithMaxPixels(tc.limit))

			var (
				out []byte
				err error
			)
			require.NotPanics(t, func() {
				out, err = g.Generate(context.Background(), doc, tc.scale)
			})
			assert.Nil(t, out)
			assert.ErrorIs(t, err, ErrRender)
			assert.Contains(t, err.Error(), "viewport too large")
		})
	}
}

func TestGenerateAtPixelLimit(t *testing.T) {
	doc := buildPDF("", testPage{MediaBox: "[0 0 100 100]", Content: "0 0 1 1 re f"})

	out, err := NewGenerator(NewOutlineRasterizer(), WithMaxPixels(10_000)).Generate(context.Background(), doc, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, decodePNG(t, out).Bounds().Dx())
}

func TestGenerateRejectsNonPositiveScale(t *testing.T) {
	doc := buildPDF("", letterPage("0 0 1 1 re f"))

	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := newOutlineGenerator().Generate(context.Background(), doc, s)
		assert.ErrorIs(t, err, ErrInvalidScale)
	}
}

func TestGenerateFileName(t *testing.T) {
	doc := buildPDF("", letterPage("0 0 1 1 re f"))

	name, out, err := newOutlineGenerator().GenerateFile(context.Background(), "moby-dick.pdf", doc)
	require.NoError(t, err)
	assert.Equal(t, "moby-dick.pdf_thumbnail.png", name)
	assert.Equal(t, 918, decodePNG(t, out).Bounds().Dx())
}

func TestGenerateFileUsesConfiguredScale(t *testing.T) {
	doc := buildPDF("", letterPage("0 0 1 1 re f"))
	g := NewGenerator(NewOutlineRasterizer(), WithScale(0.5))

	_, out, err := g.GenerateFile(context.Background(), "a.pdf", doc)
	require.NoError(t, err)
	img := decodePNG(t, out)
	assert.Equal(t, 306, img.Bounds().Dx())
	assert.Equal(t, 396, img.Bounds().Dy())
}

func TestGenerateConcurrentCallsAreIndependent(t *testing.T) {
	g := newOutlineGenerator()
	docs := [][]byte{
		buildPDF("", testPage{MediaBox: "[0 0 100 100]", Content: "0 0 1 1 re f"}),
		buildPDF("", testPage{MediaBox: "[0 0 200 50]", Content: "0 0 1 1 re f"}),
	}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc := docs[i%2]
			out, err := g.Generate(context.Background(), doc, 1)
			if err != nil {
				errs <- err
				return
			}
			img, err := png.Decode(bytes.NewReader(out))
			if err != nil {
				errs <- err
				return
			}
			want := []int{100, 200}[i%2]
			if img.Bounds().Dx() != want {
				errs <- errors.New("dimension mixed up between concurrent calls")
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
