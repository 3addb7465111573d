// Package types holds the primitive PDF syntax types shared by the lexer,
// object parser, and resolver. None of these types know how to resolve an
// indirect reference; they are pure syntax.
package types

// Name is a PDF name, without the leading slash.
type Name string

// Object is a PDF syntax object, one of the following Go types:
//
//	nil, the PDF null
//	bool, a PDF boolean
//	int64, a PDF integer
//	float64, a PDF real
//	string, a PDF string literal (raw bytes, not yet text-decoded)
//	Name, a PDF name without the leading slash
//	Dict, a PDF dictionary
//	Array, a PDF array
//	Stream, a PDF stream (header dictionary + deferred byte range)
//	Objptr, a PDF indirect reference
//	Objdef, a PDF indirect object definition ("N G obj ... endobj")
type Object any

// Dict is a PDF dictionary. Per §4.2, duplicate keys encountered while
// parsing resolve last-wins, so by the time a Dict exists there is exactly
// one value per key.
type Dict map[Name]Object

// Array is a PDF array: an ordered sequence of values.
type Array []Object

// Stream pairs a stream's header dictionary with the as-yet-undecoded byte
// range of its payload (§3: "stream (dictionary + deferred byte payload)").
// Ptr is the indirect object identity the stream was read as, needed for
// per-object decryption (§4.4).
type Stream struct {
	Hdr    Dict
	Ptr    Objptr
	Offset int64
}

// Objptr is an indirect reference: a (objid, genno) pair (§3). The zero
// value is never a valid reference (object 0 does not exist in a PDF file),
// so it doubles as the "no object" sentinel used by the resolver.
type Objptr struct {
	ID  uint32 // objid
	Gen uint16 // genno
}

// Objdef is the result of parsing "N G obj <value> endobj": the indirect
// object's identity paired with its decoded value.
type Objdef struct {
	Ptr Objptr
	Obj Object
}

// XrefKind distinguishes the three cross-reference entry variants of §3.
type XrefKind int

const (
	// XrefFree marks an unused object slot. Resolving it yields null, not
	// an error (§3 invariants).
	XrefFree XrefKind = iota
	// XrefInUse marks an object stored at a byte offset in the file.
	XrefInUse
	// XrefCompressed marks an object stored as the k-th object inside a
	// container object stream.
	XrefCompressed
)

// Xref is one cross-reference table entry (§3, §4.3). Exactly one of the
// (Offset) / (Stream, Index) pairs is meaningful, selected by Kind.
type Xref struct {
	Kind XrefKind
	Ptr  Objptr // identity this entry claims to hold (zero Ptr for a free slot)

	Offset int64 // byte offset, when Kind == XrefInUse

	Stream Objptr // container object-stream identity, when Kind == XrefCompressed
	Index  int64  // position of this object within the decoded container
}
