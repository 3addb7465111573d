package state

import "testing"

func TestNewDefaults(t *testing.T) {
	g := New()
	if g.LineWidth != 1 {
		t.Errorf("LineWidth = %v, want 1", g.LineWidth)
	}
	if g.MiterLimit != 10 {
		t.Errorf("MiterLimit = %v, want 10", g.MiterLimit)
	}
	if g.Fill.Space != "DeviceGray" || g.Fill.Comps[0] != 0 {
		t.Errorf("Fill = %+v, want DeviceGray 0", g.Fill)
	}
	if g.Stroke.Space != "DeviceGray" || g.Stroke.Comps[0] != 0 {
		t.Errorf("Stroke = %+v, want DeviceGray 0", g.Stroke)
	}
	if g.CTM() == nil {
		t.Error("CTM should default to identity, not nil")
	}
}

func TestPushPopRestoresState(t *testing.T) {
	g := New()
	g.SetLineWidth(1)
	g.Push()
	g.SetLineWidth(5)
	g.SetFill("DeviceRGB", []float64{1, 0, 0})
	if g.LineWidth != 5 {
		t.Fatalf("LineWidth = %v, want 5", g.LineWidth)
	}
	if ok := g.Pop(); !ok {
		t.Fatal("Pop on a non-empty stack should report true")
	}
	if g.LineWidth != 1 {
		t.Errorf("LineWidth after Pop = %v, want 1", g.LineWidth)
	}
	if g.Fill.Space != "DeviceGray" {
		t.Errorf("Fill after Pop = %+v, want the pre-Push DeviceGray", g.Fill)
	}
}

func TestPopEmptyStackTolerated(t *testing.T) {
	g := New()
	if ok := g.Pop(); ok {
		t.Error("Pop on an empty stack should report false, not panic")
	}
}

func TestPushCloneDoesNotAliasSlices(t *testing.T) {
	g := New()
	g.SetDash([]float64{1, 2, 3}, 0)
	g.Push()
	g.Dash.Array[0] = 99
	g.Pop()
	if g.Dash.Array[0] == 99 {
		t.Error("mutating the pushed Dash array leaked into the restored state")
	}
}

func TestDepthTracksPushPop(t *testing.T) {
	g := New()
	if g.Depth() != 0 {
		t.Fatalf("Depth = %d, want 0", g.Depth())
	}
	g.Push()
	g.Push()
	if g.Depth() != 2 {
		t.Fatalf("Depth = %d, want 2", g.Depth())
	}
	g.Pop()
	if g.Depth() != 1 {
		t.Errorf("Depth = %d, want 1", g.Depth())
	}
}

func TestSynthesizeRestoresDrainsStack(t *testing.T) {
	g := New()
	g.Push()
	g.Push()
	g.Push()
	g.SynthesizeRestores()
	if g.Depth() != 0 {
		t.Errorf("Depth after SynthesizeRestores = %d, want 0", g.Depth())
	}
}

func TestCMConcatenatesOntoCTM(t *testing.T) {
	g := New()
	g.CM(2, 0, 0, 2, 10, 20)
	x, y := g.CTM().Apply(1, 1)
	if x != 12 || y != 22 {
		t.Errorf("Apply(1,1) = (%v, %v), want (12, 22)", x, y)
	}
}

func TestSetCTMReplacesDirectly(t *testing.T) {
	g := New()
	g.CM(2, 0, 0, 2, 0, 0)
	g.SetCTM(nil)
	if g.CTM() != nil {
		t.Error("SetCTM(nil) should clear the CTM")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	g := New()
	g.SetFill("DeviceRGB", []float64{1, 0, 0})
	snap := g.Snapshot()
	g.SetFill("DeviceGray", []float64{0})
	if snap.FillColor().Space != "DeviceRGB" {
		t.Errorf("snapshot Fill = %+v, want the DeviceRGB value captured at Snapshot time", snap.FillColor())
	}
}

func TestShowDefaultsNilCTMToIdentity(t *testing.T) {
	g := New()
	g.SetCTM(nil)
	g.BT()
	g.SetFont(stubFont{}, 12)
	glyphs := g.Show("A")
	if len(glyphs) != 1 {
		t.Fatalf("got %d glyphs, want 1", len(glyphs))
	}
	if g.CTM() == nil {
		t.Error("Show should have repaired a nil CTM to identity")
	}
}

type stubFont struct{}

func (stubFont) Name() string     { return "Stub" }
func (stubFont) Vertical() bool   { return false }
func (stubFont) Decode(raw string) []Code {
	out := make([]Code, len(raw))
	for i, b := range []byte(raw) {
		out[i] = Code{Code: int(b), NBytes: 1, Text: string(rune(b)), Width: 500}
	}
	return out
}
