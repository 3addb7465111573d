package playa

// A Decoder maps a string of font code points to UTF-8 text and reports
// the total advance width of that text in glyph space (§5 "font decode").
type Decoder interface {
	// Decode returns the UTF-8 text corresponding to
	// the sequence of code points in raw.
	Decode(raw string) (string, float64)
}
