// Typed content records emitted by the content-stream interpreter (§3, §6):
// one record per glyph, path-painting operator, or XObject invocation, each
// carrying an immutable snapshot of the graphics state in effect when it
// was drawn. No text-flow or layout analysis is performed here or anywhere
// else in this module; grouping glyphs into words, lines, or columns is
// left to the caller.

package playa

import (
	"github.com/dhdaines-go/playa/internal/matrix"
	"github.com/dhdaines-go/playa/internal/state"
)

// ObjectKind distinguishes the content record variants of §6.
type ObjectKind int

const (
	TextObject ObjectKind = iota
	PathObject
	ImageObject
	FormObject
	MarkedPointObject
)

func (k ObjectKind) String() string {
	switch k {
	case TextObject:
		return "text"
	case PathObject:
		return "path"
	case ImageObject:
		return "image"
	case FormObject:
		return "form"
	case MarkedPointObject:
		return "mcs"
	default:
		return "unknown"
	}
}

// Glyph is one placed, decoded character (§4.9).
type Glyph struct {
	Code  int
	Text  string
	Width float64 // advance, in unscaled text-space units
}

// Object is a single content record (§6): the union of what the
// interpreter can emit while walking a content stream. Exactly the fields
// relevant to Kind are populated.
type Object struct {
	Kind ObjectKind

	// TextObject
	Glyph Glyph

	// PathObject
	PathOp string // one of "S"/"s" (stroke), "f"/"F"/"f*" (fill), "B"/"B*"/"b"/"b*" (both), "n" (no-op, clip only)

	// ImageObject / FormObject
	XObjectName string
	XObject     Value

	// InlineData holds the byte payload of an inline image (§4.8
	// "BI ... ID ... EI") as it appears in the content stream, with no
	// /Filter applied, when this ImageObject was produced from a
	// content-stream inline image rather than a named XObject resource.
	// XObjectName is empty in that case and XObject carries the inline
	// image's parameter dictionary instead of a resource dictionary.
	InlineData string

	// MarkedPointObject: the tag and properties of the MP/DP operator that
	// produced this content object (§4.8), distinct from Marked below,
	// which is the ambient BMC/BDC/EMC stack active at the same point.
	Point state.MarkedFrame

	// Matrix is the CTM (device transform) in effect when this object was
	// emitted — for TextObject, additionally scaled by font size and text
	// matrix (§4.8's glyph rendering formula).
	Matrix *matrix.Matrix

	Fill   state.Color
	Stroke state.Color

	// Marked returns the marked-content stack active when this object was
	// emitted (§4.8 BMC/BDC/EMC), outermost first.
	Marked []state.MarkedFrame
}
