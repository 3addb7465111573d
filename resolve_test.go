package playa

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/dhdaines-go/playa/internal/types"
)

// putEntry renders one fixed-width xref stream entry per /W [1 4 2].
func putEntry(typ byte, f2 uint32, f3 uint16) []byte {
	var b bytes.Buffer
	b.WriteByte(typ)
	binary.Write(&b, binary.BigEndian, f2)
	binary.Write(&b, binary.BigEndian, f3)
	return b.Bytes()
}

// buildObjStmPDF assembles a PDF whose cross-reference table is a stream
// (§4.3 stream form) with one compressed-object entry pointing into an
// /ObjStm container, exercising resolveCompressed end to end.
func buildObjStmPDF() []byte {
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
	entries.Write(putEntry(0, 0, 0))          // 0: free
	entries.Write(putEntry(1, uint32(o1), 0)) // 1: catalog
	entries.Write(putEntry(1, uint32(o2), 0)) // 2: pages
	entries.Write(putEntry(1, uint32(o3), 0)) // 3: ObjStm container
	entries.Write(putEntry(2, 3, 0))          // 4: compressed, in stream 3 at index 0
	entries.Write(putEntry(1, uint32(o5), 0)) // 5: this xref stream
	fmt.Fprintf(&buf, "5 0 obj\n<< /Type /XRef /Size 6 /W [1 4 2] /Root 1 0 R /Length %d >>\nstream\n",
		entries.Len())
	buf.Write(entries.Bytes())
	buf.WriteString("\nendstream\nendobj\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", o5)
	return buf.Bytes()
}

func TestResolveCompressedObject(t *testing.T) {
	d, err := OpenBytes(buildObjStmPDF(), "")
	if err != nil {
		t.Fatal(err)
	}
	v := d.resolve(types.Objptr{}, types.Objptr{ID: 4})
	if v.Kind() != DictKind {
		t.Fatalf("got kind %v, want DictKind", v.Kind())
	}
	if got := v.Key("Marker").Text(); got != "hi" {
		t.Errorf("got /Marker %q, want %q", got, "hi")
	}
}

func TestResolveMissingObjectIsNull(t *testing.T) {
	d, err := OpenBytes(buildObjStmPDF(), "")
	if err != nil {
		t.Fatal(err)
	}
	v := d.resolve(types.Objptr{}, types.Objptr{ID: 99})
	if !v.IsNull() {
		t.Errorf("got %v, want null", v)
	}
}

func TestResolveDepthLimitWarns(t *testing.T) {
	// Object 1 is marked in-use at an offset that itself reads back as
	// "1 0 obj 1 0 R endobj" - resolving it recurses through resolveDepth
	// indefinitely and must be cut off by maxResolveDepth rather than
	// recursing forever.
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	o1 := buf.Len()
	buf.WriteString("1 0 obj\n1 0 R\nendobj\n")
	xrefAt := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 2\n0000000000 65535 f \n%010d 00000 n \n", o1)
	fmt.Fprintf(&buf, "trailer\n<< /Size 2 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefAt)

	d, err := OpenBytes(buf.Bytes(), "")
	if err != nil {
		t.Fatal(err)
	}
	v := d.resolve(types.Objptr{}, types.Objptr{ID: 1})
	if !v.IsNull() {
		t.Errorf("got %v, want null", v)
	}
	found := false
	for _, w := range d.Warnings() {
		if w.Kind == KindResolve {
			found = true
		}
	}
	if !found {
		t.Error("expected a KindResolve warning for the reference cycle")
	}
}
