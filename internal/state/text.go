package state

import "github.com/dhdaines-go/playa/internal/matrix"

// Font is the subset of font behavior the text-state machine needs in
// order to place glyphs (§4.9). The concrete implementation lives in the
// top-level package; this interface exists so internal/state does not
// import it (the top-level package imports internal/state, not vice versa).
type Font interface {
	// Name returns the font's BaseFont name.
	Name() string
	// Vertical reports whether the font is composite with /WMode 1 (§4.9).
	Vertical() bool
	// Decode splits a text-showing operand's raw bytes into character
	// codes (one byte per code for simple fonts, variable-length per the
	// encoding CMap for composite fonts), resolving each to its Unicode
	// text and glyph-space advance width in one pass (§4.9).
	Decode(raw string) []Code
}

// Code is a single decoded character code: the input bytes it consumed,
// its resolved Unicode text, and its advance width in glyph-space units
// per thousand of text space.
type Code struct {
	Code   int
	NBytes int
	Text   string
	Width  float64
}

// Glyph is one placed glyph: its Unicode text, the code it came from, and
// the device-space rendering matrix in effect when it was shown.
type Glyph struct {
	Code     int
	Text     string
	Matrix   *matrix.Matrix // textMatrix ∘ CTM, scaled by font size (§4.8)
	Width    float64        // advance in unscaled text space units
	Vertical bool
}

// Text holds the text state parameters of §3 and implements the operators
// of §4.8 (Table 103/106 of ISO 32000-2). tm/tlm are non-nil only between
// BT and ET (§3: "exist only between text-begin and text-end delimiters").
type Text struct {
	Tc     float64 // character spacing
	Tw     float64 // word spacing
	Th     float64 // horizontal scaling, percent (default 100)
	Tl     float64 // leading
	Tfont  Font
	Tfs    float64 // font size
	Tmode  int     // rendering mode 0-7
	Trise  float64
	Tknock bool
	tm     *matrix.Matrix
	tlm    *matrix.Matrix
}

func newText() Text {
	return Text{Th: 100}
}

func (t Text) clone() Text {
	n := t
	if t.tm != nil {
		n.tm = t.tm.Clone()
	}
	if t.tlm != nil {
		n.tlm = t.tlm.Clone()
	}
	return n
}

// InTextObject reports whether BT has been seen without a matching ET.
func (t *Text) InTextObject() bool { return t.tm != nil }

func (t *Text) SetTc(v float64)    { t.Tc = v }
func (t *Text) SetTw(v float64)    { t.Tw = v }
func (t *Text) SetTh(v float64)    { t.Th = v }
func (t *Text) SetTl(v float64)    { t.Tl = v }
func (t *Text) SetTmode(v int)     { t.Tmode = v }
func (t *Text) SetTrise(v float64) { t.Trise = v }
func (t *Text) SetTknock(v bool)   { t.Tknock = v }

func (t *Text) SetFont(f Font, size float64) {
	t.Tfont = f
	t.Tfs = size
}

func (t *Text) BT() {
	t.tm = matrix.Identity()
	t.tlm = matrix.Identity()
}

func (t *Text) ET() {
	t.tm = nil
	t.tlm = nil
}

func (t *Text) Td(tx, ty float64) {
	m := matrix.New(1, 0, 0, 1, tx, ty)
	t.tlm = m.Mul(t.tlm)
	t.tm = t.tlm
}

func (t *Text) TD(tx, ty float64) {
	t.Tl = -ty
	t.Td(tx, ty)
}

func (t *Text) Tm(a, b, c, d, e, f float64) {
	t.tlm = matrix.New(a, b, c, d, e, f)
	t.tm = t.tlm
}

func (t *Text) Tstar() {
	t.TD(0, -t.Tl)
}

// TJDisplace applies the displacement operand of a TJ array (expressed in
// thousandths of text space units, per §4.8).
func (t *Text) TJDisplace(v float64) {
	tx := -v / 1000 * t.Tfs * (t.Th / 100)
	t.tm = matrix.New(1, 0, 0, 1, tx, 0).Mul(t.tm)
}

// Show places the codes decoded from raw against ctm, advancing the text
// matrix after each glyph per §4.9's displacement formula, and returns the
// placed glyphs in order.
func (t *Text) Show(ctm *matrix.Matrix, raw string) []Glyph {
	if t.tm == nil || t.Tfont == nil {
		return nil
	}

	var glyphs []Glyph
	for _, c := range t.Tfont.Decode(raw) {
		w := c.Width / 1000
		ws := 0.0
		if c.NBytes == 1 && c.Code == 0x20 {
			ws = t.Tw
		}

		scale := matrix.New(t.Tfs*(t.Th/100), 0, 0, t.Tfs, 0, t.Trise)
		render := scale.Mul(t.tm).Mul(ctm)

		glyphs = append(glyphs, Glyph{
			Code:     c.Code,
			Text:     c.Text,
			Matrix:   render,
			Width:    w,
			Vertical: t.Tfont.Vertical(),
		})

		tx := (w*t.Tfs + t.Tc + ws) * (t.Th / 100)
		if t.Tfont.Vertical() {
			t.tm = matrix.New(1, 0, 0, 1, 0, -tx/(t.Th/100)).Mul(t.tm)
		} else {
			t.tm = matrix.New(1, 0, 0, 1, tx, 0).Mul(t.tm)
		}
	}
	return glyphs
}
