package playa

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/dhdaines-go/playa/internal/types"
)

// buildHybridXRefPDF assembles a single-section hybrid-reference file
// (§4.3): a classic xref table reachable via startxref, whose trailer
// carries /XRefStm pointing at a cross-reference stream that alone
// describes object 4 as compressed inside the ObjStm at object 3. Object 4
// has no entry in the classic table other than an inert free placeholder,
// so resolving it only succeeds if the /XRefStm merge runs.
func buildHybridXRefPDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")

	o1 := buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	o2 := buf.Len()
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\n")
	o3 := buf.Len()
	objStmBody := "4 0\n<< /Marker (hi) >>"
	fmt.Fprintf(&buf, "3 0 obj\n<< /Type /ObjStm /N 1 /First 4 /Length %d >>\nstream\n%s\nendstream\nendobj\n",
		len(objStmBody), objStmBody)

	o5 := buf.Len()
	var entries bytes.Buffer
	entries.Write(putEntry(0, 0, 0))
	entries.Write(putEntry(1, uint32(o1), 0))
	entries.Write(putEntry(1, uint32(o2), 0))
	entries.Write(putEntry(1, uint32(o3), 0))
	entries.Write(putEntry(2, 3, 0)) // compressed, in stream 3 at index 0
	entries.Write(putEntry(1, uint32(o5), 0))
	fmt.Fprintf(&buf, "5 0 obj\n<< /Type /XRef /Size 6 /W [1 4 2] /Root 1 0 R /Length %d >>\nstream\n",
		entries.Len())
	buf.Write(entries.Bytes())
	buf.WriteString("\nendstream\nendobj\n")

	xrefAt := buf.Len()
	buf.WriteString("xref\n0 6\n")
	buf.WriteString("0000000000 65535 f \n")
	fmt.Fprintf(&buf, "%010d 00000 n \n", o1)
	fmt.Fprintf(&buf, "%010d 00000 n \n", o2)
	fmt.Fprintf(&buf, "%010d 00000 n \n", o3)
	buf.WriteString("0000000000 00000 f \n") // placeholder: classic table can't express type 2
	fmt.Fprintf(&buf, "%010d 00000 n \n", o5)
	fmt.Fprintf(&buf, "trailer\n<< /Size 6 /Root 1 0 R /XRefStm %d >>\nstartxref\n%d\n%%%%EOF\n", o5, xrefAt)
	return buf.Bytes()
}

func TestHybridXRefStmMergesCompressedEntry(t *testing.T) {
	d, err := OpenBytes(buildHybridXRefPDF(), "")
	if err != nil {
		t.Fatal(err)
	}
	v := d.resolve(types.Objptr{}, types.Objptr{ID: 4})
	if v.Kind() != DictKind {
		t.Fatalf("resolving the hybrid-only compressed object: got kind %v, want DictKind", v.Kind())
	}
	if got := v.Key("Marker").Text(); got != "hi" {
		t.Errorf("got Marker %q, want %q", got, "hi")
	}
}

// buildReconstructiblePDF assembles a file with a deliberately corrupt
// startxref offset, forcing the linear-scan recovery path (§4.3) to locate
// objects by their "N G obj" markers and the /Root catalog by content scan.
func buildReconstructiblePDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	buf.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n")
	// A startxref pointing well past EOF (or at garbage) forces recovery.
	buf.WriteString("startxref\n999999\n%%EOF\n")
	return buf.Bytes()
}

func TestReconstructXrefRecoversFromBadStartxref(t *testing.T) {
	d, err := OpenBytes(buildReconstructiblePDF(), "")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, w := range d.Warnings() {
		if w.Kind == KindXref {
			found = true
		}
	}
	if !found {
		t.Error("expected a KindXref warning recording that the chain was unreadable")
	}
	cat := d.Catalog()
	if cat.Key("Type").Name() != "Catalog" {
		t.Fatalf("got Type %v, want Catalog (reconstruction should have located /Root)", cat.Key("Type").Name())
	}
	pages := cat.Key("Pages")
	if pages.Key("Type").Name() != "Pages" {
		t.Errorf("got Pages Type %v, want Pages", pages.Key("Type").Name())
	}
}

func TestReconstructXrefWithoutTrailerFindsRootByScan(t *testing.T) {
	// No "trailer" keyword anywhere in the file: reconstruction must locate
	// /Root by scanning for the sole /Type /Catalog object.
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\n")
	buf.WriteString("startxref\n0\n%%EOF\n")

	d, err := OpenBytes(buf.Bytes(), "")
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Catalog().Key("Type").Name(); got != "Catalog" {
		t.Errorf("got Type %v, want Catalog", got)
	}
}
