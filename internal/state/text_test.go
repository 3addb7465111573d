package state

import (
	"testing"

	"github.com/dhdaines-go/playa/internal/matrix"
)

func TestNewTextDefaultsHorizontalScale(t *testing.T) {
	tx := newText()
	if tx.Th != 100 {
		t.Errorf("Th = %v, want 100", tx.Th)
	}
}

func TestInTextObjectTracksBTET(t *testing.T) {
	var tx Text
	if tx.InTextObject() {
		t.Fatal("InTextObject should be false before BT")
	}
	tx.BT()
	if !tx.InTextObject() {
		t.Fatal("InTextObject should be true after BT")
	}
	tx.ET()
	if tx.InTextObject() {
		t.Fatal("InTextObject should be false after ET")
	}
}

func TestShowNilOutsideTextObject(t *testing.T) {
	var tx Text
	tx.SetFont(stubFont{}, 12)
	if got := tx.Show(nil, "A"); got != nil {
		t.Errorf("Show outside BT/ET = %v, want nil", got)
	}
}

func TestShowNilWithoutFont(t *testing.T) {
	var tx Text
	tx.BT()
	if got := tx.Show(nil, "A"); got != nil {
		t.Errorf("Show without a font set = %v, want nil", got)
	}
}

func TestShowReturnsOneGlyphPerCode(t *testing.T) {
	var tx Text
	tx.BT()
	tx.SetFont(stubFont{}, 12)
	glyphs := tx.Show(matrix.Identity(), "Hi")
	if len(glyphs) != 2 {
		t.Fatalf("got %d glyphs, want 2", len(glyphs))
	}
	if glyphs[0].Text != "H" || glyphs[1].Text != "i" {
		t.Errorf("got texts %q %q, want H i", glyphs[0].Text, glyphs[1].Text)
	}
}

func TestShowAdvancesTextMatrix(t *testing.T) {
	tx := newText()
	tx.BT()
	tx.SetFont(stubFont{}, 12)
	before := tx.tm.Clone()
	tx.Show(matrix.Identity(), "A")
	after := tx.tm
	if *before == *after {
		t.Error("Show should advance the text matrix after placing a glyph")
	}
}

func TestTDSetsLeadingNegated(t *testing.T) {
	var tx Text
	tx.BT()
	tx.TD(5, -14)
	if tx.Tl != 14 {
		t.Errorf("Tl = %v, want 14 (negated ty)", tx.Tl)
	}
}

func TestTstarUsesLeading(t *testing.T) {
	var tx Text
	tx.BT()
	tx.SetTl(10)
	before := tx.tlm.Clone()
	tx.Tstar()
	after := tx.tlm
	gotY := after[2][1]
	wantY := before[2][1] - 10
	if gotY != wantY {
		t.Errorf("tlm y-translation = %v, want %v (moved down by leading)", gotY, wantY)
	}
}

func TestTmSetsBothMatrices(t *testing.T) {
	var tx Text
	tx.BT()
	tx.Tm(2, 0, 0, 2, 5, 5)
	if *tx.tm != *tx.tlm {
		t.Error("Tm should set both tm and tlm to the same matrix")
	}
	if tx.tm[0][0] != 2 {
		t.Errorf("tm[0][0] = %v, want 2", tx.tm[0][0])
	}
}

func TestTJDisplaceMovesTextPosition(t *testing.T) {
	tx := newText()
	tx.BT()
	tx.SetFont(stubFont{}, 10)
	before := tx.tm[2][0]
	tx.TJDisplace(-250)
	after := tx.tm[2][0]
	if after <= before {
		t.Errorf("TJDisplace(-250) should move x forward, got before=%v after=%v", before, after)
	}
}

func TestWordSpacingAppliesOnlyToSingleByteSpace(t *testing.T) {
	tx := newText()
	tx.BT()
	tx.SetFont(stubFont{}, 10)
	tx.SetTw(100)
	before := tx.tm[2][0]
	tx.Show(matrix.Identity(), " ")
	moved := tx.tm[2][0] - before

	tx2 := newText()
	tx2.BT()
	tx2.SetFont(stubFont{}, 10)
	before2 := tx2.tm[2][0]
	tx2.Show(matrix.Identity(), " ")
	movedNoSpacing := tx2.tm[2][0] - before2

	if moved <= movedNoSpacing {
		t.Errorf("word spacing on a single-byte space should widen the advance: got %v vs %v", moved, movedNoSpacing)
	}
}
