package thumbnail

import (
	"bytes"
	"fmt"
	"log"

	"github.com/ledongthuc/pdf"
)

// letter is used when a page carries no usable box, same as browser viewers do.
var letter = Box{X0: 0, Y0: 0, X1: 612, Y1: 792}

// Box is a rectangle in PDF user space units (points).
type Box struct {
	X0, Y0, X1, Y1 float64
}

func (b Box) Width() float64  { return b.X1 - b.X0 }
func (b Box) Height() float64 { return b.Y1 - b.Y0 }

// Page is a loaded page ready to be handed to a Rasterizer.
type Page struct {
	Number int
	Box    Box
	Rotate int

	doc []byte
	p   pdf.Page
}

// Source returns the raw bytes of the document the page belongs to.
func (p *Page) Source() []byte { return p.doc }

// Content decodes the page content stream into text runs and rectangles.
// The underlying reader panics on malformed streams; callers recover.
func (p *Page) Content() pdf.Content { return p.p.Content() }

// openFirstPage parses raw and loads page 1.
func openFirstPage(raw []byte) (page *Page, err error) {
	if len(raw) == 0 {
		return nil, &ParseError{Reason: "empty document"}
	}

	defer func() {
		if r := recover(); r != nil {
			page = nil
			err = &ParseError{Reason: "malformed document", Err: fmt.Errorf("%v", r)}
		}
	}()

	rd, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, &ParseError{Reason: "open", Err: err}
	}

	n := rd.NumPage()
	if n < 1 {
		return nil, &ParseError{Reason: "document has no pages"}
	}

	pg := rd.Page(1)
	if pg.V.IsNull() {
		return nil, &ParseError{Reason: "first page missing from page tree"}
	}

	box, ok := pageBox(pg.V)
	if !ok {
		log.Printf("[THUMB][BOX] page=1 no usable box, using letter")
		box = letter
	}

	return &Page{
		Number: 1,
		Box:    box,
		Rotate: normalizeRotation(inherited(pg.V, "Rotate").Int64()),
		doc:    raw,
		p:      pg,
	}, nil
}

// inherited looks key up on the page and then on its ancestors in the page tree.
func inherited(v pdf.Value, key string) pdf.Value {
	for depth := 0; !v.IsNull() && depth < 64; depth++ {
		if x := v.Key(key); !x.IsNull() {
			return x
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}

// pageBox prefers CropBox over MediaBox.
func pageBox(page pdf.Value) (Box, bool) {
	for _, key := range []string{"CropBox", "MediaBox"} {
		if b, ok := parseBox(inherited(page, key)); ok {
			return b, true
		}
	}
	return Box{}, false
}

func parseBox(v pdf.Value) (Box, bool) {
	if v.Kind() != pdf.Array || v.Len() != 4 {
		return Box{}, false
	}
	x0, y0 := v.Index(0).Float64(), v.Index(1).Float64()
	x1, y1 := v.Index(2).Float64(), v.Index(3).Float64()
	b := Box{X0: min(x0, x1), Y0: min(y0, y1), X1: max(x0, x1), Y1: max(y0, y1)}
	if b.Width() <= 0 || b.Height() <= 0 {
		return Box{}, false
	}
	return b, true
}

func normalizeRotation(r int64) int {
	r %= 360
	if r < 0 {
		r += 360
	}
	// only quarter turns are meaningful
	return int(r/90) * 90
}
