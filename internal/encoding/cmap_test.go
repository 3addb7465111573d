package encoding

import "testing"

func TestCMapBFChar(t *testing.T) {
	m := &CMap{
		Widths: constWidth(1000),
		Space:  [4][]ByteRange{1: {{Lo: "\x00\x00", Hi: "\xff\xff"}}},
		BFChars: []BFChar{
			{Orig: "\x00\x41", Repl: "\x00A"},
		},
	}
	text, code, n := m.NextCode("\x00\x41rest")
	if text != "A" || code != 0x41 || n != 2 {
		t.Errorf("got (%q, %d, %d)", text, code, n)
	}
}

func TestCMapBFRangeArray(t *testing.T) {
	m := &CMap{
		Widths: constWidth(1000),
		Space:  [4][]ByteRange{1: {{Lo: "\x00\x00", Hi: "\xff\xff"}}},
		BFRanges: []BFRange{
			{Lo: "\x00\x00", Hi: "\x00\x02", DstA: []any{"\x00A", "\x00B", "\x00C"}},
		},
	}
	text, _, _ := m.NextCode("\x00\x01")
	if text != "B" {
		t.Errorf("got %q, want B", text)
	}
}

func TestCMapBFRangeString(t *testing.T) {
	m := &CMap{
		Widths: constWidth(1000),
		Space:  [4][]ByteRange{1: {{Lo: "\x00\x00", Hi: "\xff\xff"}}},
		BFRanges: []BFRange{
			{Lo: "\x00\x00", Hi: "\x00\x02", DstS: "\x00A"},
		},
	}
	text, _, _ := m.NextCode("\x00\x02")
	if text != "C" {
		t.Errorf("got %q, want C", text)
	}
}

func TestCMapDecodeMultiple(t *testing.T) {
	m := &CMap{
		Widths: constWidth(500),
		Space:  [4][]ByteRange{1: {{Lo: "\x00\x00", Hi: "\xff\xff"}}},
		BFChars: []BFChar{
			{Orig: "\x00\x41", Repl: "\x00A"},
			{Orig: "\x00\x42", Repl: "\x00B"},
		},
	}
	text, w := m.Decode("\x00\x41\x00\x42")
	if text != "AB" {
		t.Errorf("got %q", text)
	}
	if w != 1000 {
		t.Errorf("got width %v", w)
	}
}

func TestCMapUnmappedCode(t *testing.T) {
	m := &CMap{
		Widths: constWidth(0),
		Space:  [4][]ByteRange{1: {{Lo: "\x00\x00", Hi: "\xff\xff"}}},
	}
	text, _, n := m.NextCode("\x00\x99")
	if text != string(NoRune) || n != 2 {
		t.Errorf("got (%q, %d)", text, n)
	}
}
