package thumbnail

import (
	"bytes"
	"fmt"
	"strings"
)

type testPage struct {
	MediaBox string // e.g. "[0 0 612 792]"; empty inherits from the page tree
	CropBox  string
	Rotate   int
	Content  string
}

// buildPDF assembles a minimal uncompressed PDF with a valid xref table.
func buildPDF(treeBox string, pages ...testPage) []byte {
	var objs []string

	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+2*i))
	}

	objs = append(objs, "<< /Type /Catalog /Pages 2 0 R >>")

	tree := fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d", strings.Join(kids, " "), len(pages))
	if treeBox != "" {
		tree += " /MediaBox " + treeBox
	}
	objs = append(objs, tree+" >>")

	for i, p := range pages {
		d := fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Contents %d 0 R", 4+2*i)
		if p.MediaBox != "" {
			d += " /MediaBox " + p.MediaBox
		}
		if p.CropBox != "" {
			d += " /CropBox " + p.CropBox
		}
		if p.Rotate != 0 {
			d += fmt.Sprintf(" /Rotate %d", p.Rotate)
		}
		objs = append(objs, d+" >>")
		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(p.Content), p.Content))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)

	return buf.Bytes()
}

func letterPage(content string) testPage {
	return testPage{MediaBox: "[0 0 612 792]", Content: content}
}
