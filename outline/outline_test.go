package outline

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/dhdaines-go/playa"
)

// buildPDF assembles a minimal PDF with a two-entry, one-level-nested
// outline tree and no pages worth mentioning, for exercising the bookmark
// walker in isolation.
func buildPDF() []byte {
	var buf bytes.Buffer
	var offsets []int
	write := func(format string, args ...any) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, format, args...)
	}

	buf.WriteString("%PDF-1.7\n")
	write("1 0 obj\n<< /Type /Catalog /Pages 2 0 R /Outlines 3 0 R >>\nendobj\n")
	write("2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\n")
	write("3 0 obj\n<< /Type /Outlines /First 4 0 R /Last 5 0 R /Count 2 >>\nendobj\n")
	write("4 0 obj\n<< /Title (Chapter One) /Parent 3 0 R /Next 5 0 R /First 6 0 R /Last 6 0 R >>\nendobj\n")
	write("5 0 obj\n<< /Title (Chapter Two) /Parent 3 0 R /Prev 4 0 R >>\nendobj\n")
	write("6 0 obj\n<< /Title (Section 1.1) /Parent 4 0 R >>\nendobj\n")

	xrefAt := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefAt)
	return buf.Bytes()
}

func TestWalk(t *testing.T) {
	d, err := playa.OpenBytes(buildPDF(), "")
	if err != nil {
		t.Fatal(err)
	}
	entries := Walk(d)
	if len(entries) != 2 {
		t.Fatalf("got %d top-level entries, want 2", len(entries))
	}
	if entries[0].Title != "Chapter One" {
		t.Errorf("got %q", entries[0].Title)
	}
	if entries[1].Title != "Chapter Two" {
		t.Errorf("got %q", entries[1].Title)
	}
	if len(entries[0].Children) != 1 || entries[0].Children[0].Title != "Section 1.1" {
		t.Errorf("got children %+v", entries[0].Children)
	}
}

func TestWalkNoOutlines(t *testing.T) {
	var buf bytes.Buffer
	var offsets []int
	buf.WriteString("%PDF-1.7\n")
	offsets = append(offsets, buf.Len())
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets = append(offsets, buf.Len())
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\n")
	xrefAt := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefAt)

	d, err := playa.OpenBytes(buf.Bytes(), "")
	if err != nil {
		t.Fatal(err)
	}
	if entries := Walk(d); entries != nil {
		t.Errorf("got %+v, want nil", entries)
	}
}
