package state

import "github.com/dhdaines-go/playa/internal/matrix"

// Graphics holds the device-independent graphics state parameters of §3
// ("Graphics state") plus the text state embedded in it, and implements
// the save/restore stack operators (q/Q) and the matrix-concatenation
// operator (cm) from §4.8's Table 56.
type Graphics struct {
	gState
	stack []gState
}

// gState is the mutable record that gets pushed/popped by q/Q. It is
// value-typed so that Push can snapshot it cheaply by copy; slice/pointer
// fields inside are cloned explicitly where mutation would otherwise alias
// the pushed copy (§5 copy-on-write).
type gState struct {
	ctm *matrix.Matrix

	LineWidth  float64
	LineCap    int
	LineJoin   int
	MiterLimit float64
	Dash       Dash
	Intent     string
	Flatness   float64

	Stroke    Color
	Fill      Color
	ClipPath  any // opaque reference to the active clipping path, if any

	Text
}

// New returns the initial graphics state in effect at the start of a
// content stream: identity CTM, default line parameters, black fill and
// stroke colors (PDF 32000-1 §8.4, §8.6.3).
func New() *Graphics {
	return &Graphics{gState: newGState()}
}

func newGState() gState {
	return gState{
		ctm:        matrix.Identity(),
		LineWidth:  1,
		MiterLimit: 10,
		Intent:     "RelativeColorimetric",
		Stroke:     defaultColor(),
		Fill:       defaultColor(),
		Text:       newText(),
	}
}

func (g gState) clone() gState {
	n := g
	if g.ctm != nil {
		n.ctm = g.ctm.Clone()
	}
	n.Dash = g.Dash.clone()
	n.Stroke = g.Stroke.clone()
	n.Fill = g.Fill.clone()
	n.Text = g.Text.clone()
	return n
}

// Push implements the "q" operator.
func (g *Graphics) Push() {
	g.stack = append(g.stack, g.gState.clone())
}

// Pop implements the "Q" operator. Per §7, an unmatched Q (popping an empty
// stack) is tolerated: it leaves the state unchanged rather than panicking,
// letting the interpreter record a warning and continue.
func (g *Graphics) Pop() bool {
	n := len(g.stack)
	if n == 0 {
		return false
	}
	g.gState = g.stack[n-1]
	g.stack = g.stack[:n-1]
	return true
}

// Depth reports the current save-stack depth, used to detect and report
// unbalanced q/Q at end-of-stream (§4.8, §8 invariant 6).
func (g *Graphics) Depth() int { return len(g.stack) }

// SynthesizeRestores pops any remaining saves, as §7 prescribes for
// unbalanced streams ("missing restores synthesized").
func (g *Graphics) SynthesizeRestores() {
	for g.Pop() {
	}
}

// CM implements the "cm" operator: concatenate onto the CTM.
func (g *Graphics) CM(a, b, c, d, e, f float64) {
	m := matrix.New(a, b, c, d, e, f)
	g.gState.ctm = m.Mul(g.gState.ctm)
}

// CTM returns the current transformation matrix.
func (g *Graphics) CTM() *matrix.Matrix { return g.gState.ctm }

// SetCTM forcibly replaces the CTM, used by Form XObject invocation to seed
// a nested interpreter with the caller's CTM concatenated with /Matrix
// (§4.8).
func (g *Graphics) SetCTM(m *matrix.Matrix) { g.gState.ctm = m }

func (g *Graphics) SetLineWidth(v float64)  { g.LineWidth = v }
func (g *Graphics) SetLineCap(v int)        { g.LineCap = v }
func (g *Graphics) SetLineJoin(v int)       { g.LineJoin = v }
func (g *Graphics) SetMiterLimit(v float64) { g.MiterLimit = v }
func (g *Graphics) SetDash(arr []float64, phase float64) {
	g.Dash = Dash{Array: arr, Phase: phase}
}
func (g *Graphics) SetIntent(v string)   { g.Intent = v }
func (g *Graphics) SetFlatness(v float64) { g.Flatness = v }
func (g *Graphics) SetStroke(space string, comps []float64) {
	g.Stroke = Color{Space: space, Comps: comps}
}
func (g *Graphics) SetFill(space string, comps []float64) {
	g.Fill = Color{Space: space, Comps: comps}
}
func (g *Graphics) SetClip(path any) { g.ClipPath = path }

// Show places raw against the current CTM and text state; see Text.Show.
func (g *Graphics) Show(raw string) []Glyph {
	if g.gState.ctm == nil {
		g.gState.ctm = matrix.Identity()
	}
	return g.gState.Text.Show(g.gState.ctm, raw)
}

// Snapshot returns an immutable deep copy of the current state, suitable
// for attaching to a content object (§3 "copy-on-write view", §5: "this
// reduces to deep-copying on emission when the consumer intends to retain
// the snapshot").
func (g *Graphics) Snapshot() *Snapshot {
	gs := g.gState.clone()
	return &Snapshot{gState: gs}
}

// Snapshot is an immutable copy of a Graphics's state at one instant,
// attached to emitted content objects.
type Snapshot struct {
	gState
}

func (s *Snapshot) CTM() *matrix.Matrix    { return s.gState.ctm }
func (s *Snapshot) LineWidthV() float64    { return s.gState.LineWidth }
func (s *Snapshot) FillColor() Color       { return s.gState.Fill }
func (s *Snapshot) StrokeColor() Color     { return s.gState.Stroke }
func (s *Snapshot) TextState() *Text       { t := s.gState.Text; return &t }
