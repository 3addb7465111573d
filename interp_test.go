package playa

import (
	"bytes"
	"fmt"
	"testing"
)

// buildInterpPDF assembles a one-page PDF with a simple Helvetica font, a
// text-showing operator, and a path-painting operator, for exercising the
// content-stream interpreter end to end.
func buildInterpPDF(content string) []byte {
	var buf bytes.Buffer
	var offsets []int
	write := func(format string, args ...any) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, format, args...)
	}

	buf.WriteString("%PDF-1.7\n")
	write("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	write("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	write("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>\nendobj\n")
	write("4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(content), content)
	write("5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 33 /Widths [278 278] >>\nendobj\n")

	xrefAt := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefAt)
	return buf.Bytes()
}

func TestPageObjectsTextAndPath(t *testing.T) {
	content := "BT /F1 12 Tf 100 700 Td (Hi) Tj ET\n0 0 100 100 re f\n"
	d, err := OpenBytes(buildInterpPDF(content), "")
	if err != nil {
		t.Fatal(err)
	}
	page, err := d.Page(1)
	if err != nil {
		t.Fatal(err)
	}
	objs, err := page.Objects()
	if err != nil {
		t.Fatal(err)
	}

	var texts []string
	var paths []string
	for _, o := range objs {
		switch o.Kind {
		case TextObject:
			texts = append(texts, o.Glyph.Text)
		case PathObject:
			paths = append(paths, o.PathOp)
		}
	}
	if want := "Hi"; len(texts) != 2 || texts[0]+texts[1] != want {
		t.Errorf("got text glyphs %v, want two glyphs spelling %q", texts, want)
	}
	if len(paths) != 1 || paths[0] != "f" {
		t.Errorf("got path ops %v, want [f]", paths)
	}
}

func TestPageObjectsFormXObjectRecursion(t *testing.T) {
	// A form that invokes itself must be cut off by maxFormDepth rather than
	// looping forever.
	var buf bytes.Buffer
	var offsets []int
	write := func(format string, args ...any) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, format, args...)
	}

	buf.WriteString("%PDF-1.7\n")
	write("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	write("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	write("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /XObject << /Fx 5 0 R >> >> >>\nendobj\n")
	pageContent := "/Fx Do"
	write("4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(pageContent), pageContent)
	formContent := "/Fx Do"
	write("5 0 obj\n<< /Type /XObject /Subtype /Form /Resources << /XObject << /Fx 5 0 R >> >> /Length %d >>\nstream\n%s\nendstream\nendobj\n",
		len(formContent), formContent)

	xrefAt := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefAt)

	d, err := OpenBytes(buf.Bytes(), "")
	if err != nil {
		t.Fatal(err)
	}
	page, err := d.Page(1)
	if err != nil {
		t.Fatal(err)
	}
	objs, err := page.Objects()
	if err != nil {
		t.Fatal(err)
	}

	formCount := 0
	for _, o := range objs {
		if o.Kind == FormObject {
			formCount++
		}
	}
	if formCount == 0 || formCount > maxFormDepth+1 {
		t.Errorf("got %d form objects, want a small bounded count", formCount)
	}
	found := false
	for _, w := range d.Warnings() {
		if w.Kind == KindInterp {
			found = true
		}
	}
	if !found {
		t.Error("expected a KindInterp warning for the recursion cutoff")
	}
}
