package encoding

import "strings"

type ByteRange struct {
	Lo string
	Hi string
}

type BFChar struct {
	Orig string
	Repl string
}

type BFRange struct {
	Lo   string
	Hi   string
	DstS string
	DstA []any
}

// CIDChar is one begincidchar/endcidchar entry (§4.9): a single character
// code mapped to a CID.
type CIDChar struct {
	Orig string
	CID  int
}

// CIDRange is one begincidrange/endcidrange entry (§4.9): a contiguous run
// of character codes mapped to a contiguous run of CIDs starting at CIDLo.
type CIDRange struct {
	Lo, Hi string
	CIDLo  int
}

// CMap is a decoded /ToUnicode or embedded Type0 /Encoding CMap (§4.9): a
// codespace range table, the CID mapping entries (cidchar/cidrange, as used
// by an embedded encoding CMap), the Unicode mapping entries (bfchar/
// bfrange, as used by a ToUnicode CMap), and an optional base CMap named by
// usecmap, consulted when this CMap's own tables have no match.
type CMap struct {
	Widths     Sizer
	Space      [4][]ByteRange // codespace ranges, indexed by byte-length-1
	BFRanges   []BFRange
	BFChars    []BFChar
	CIDRanges  []CIDRange
	CIDChars   []CIDChar
	Use        *CMap
	hasCIDData bool // distinguishes "no cidrange matched" from "this is a ToUnicode-only map"
}

// MarkHasCIDData records that at least one cidchar/cidrange entry was seen,
// even if it came from a range whose low/high ended up identical to a
// prior entry. Distinguishes "this CMap declares CID mappings but this
// particular code isn't in them" (falls back to CID 0, the .notdef glyph)
// from "this CMap has no CID data at all" (falls back to treating the raw
// code as its own CID, as for Identity-H/V).
func (m *CMap) MarkHasCIDData() { m.hasCIDData = true }

// HasCodespace reports whether any codespace range has been set.
func (m *CMap) HasCodespace() bool {
	for _, s := range m.Space {
		if len(s) > 0 {
			return true
		}
	}
	return false
}

// codespaceMatch reports the byte-length of the codespace range in m (or,
// failing that, its Use chain) that raw's prefix falls within, or 0 if
// none matches.
func (m *CMap) codespaceMatch(raw string) int {
	for n := 1; n <= 4 && n <= len(raw); n++ {
		for _, space := range m.Space[n-1] {
			if space.Lo <= raw[:n] && raw[:n] <= space.Hi {
				return n
			}
		}
	}
	if m.Use != nil {
		return m.Use.codespaceMatch(raw)
	}
	return 0
}

// textFor resolves key (an n-byte character code) to replacement text via
// this CMap's bfchar/bfrange tables, falling back to its Use chain.
func (m *CMap) textFor(key string) (string, bool) {
	n := len(key)
	for _, bfchar := range m.BFChars {
		if len(bfchar.Orig) == n && bfchar.Orig == key {
			return UTF16Decode(bfchar.Repl), true
		}
	}
	for _, bfrange := range m.BFRanges {
		if len(bfrange.Lo) == n && bfrange.Lo <= key && key <= bfrange.Hi {
			switch {
			case len(bfrange.DstS) > 0:
				s := bfrange.DstS
				if bfrange.Lo != key {
					b := []byte(s)
					b[len(b)-1] += key[len(key)-1] - bfrange.Lo[len(bfrange.Lo)-1]
					s = string(b)
				}
				return UTF16Decode(s), true
			case len(bfrange.DstA) > 0:
				idx := key[len(key)-1] - bfrange.Lo[len(bfrange.Lo)-1]
				if int(idx) < len(bfrange.DstA) {
					if s, ok := bfrange.DstA[int(idx)].(string); ok {
						return UTF16Decode(s), true
					}
				}
			}
			return "", true
		}
	}
	if m.Use != nil {
		return m.Use.textFor(key)
	}
	return "", false
}

// cidFor resolves key (an n-byte character code) to a CID via this CMap's
// cidchar/cidrange tables, falling back to its Use chain. ok is false when
// neither this CMap nor its base declares any CID mapping at all, letting
// the caller fall back to treating the raw code as its own CID (Identity
// encodings carry codespace and width data but no explicit cidrange table).
func (m *CMap) cidFor(key string) (cid int, ok bool) {
	for _, c := range m.CIDChars {
		if c.Orig == key {
			return c.CID, true
		}
	}
	for _, r := range m.CIDRanges {
		if len(r.Lo) == len(key) && r.Lo <= key && key <= r.Hi {
			return r.CIDLo + int(key[len(key)-1]-r.Lo[len(r.Lo)-1]), true
		}
	}
	if m.hasCIDData {
		return 0, true
	}
	if m.Use != nil {
		return m.Use.cidFor(key)
	}
	return 0, false
}

// NextCode consumes one character code from the front of raw per the
// codespace ranges, returning its decoded Unicode text, its CID (or, absent
// any cidchar/cidrange table, the raw numeric code value), and the number
// of bytes consumed. If no codespace range matches, it falls back to
// consuming one byte and returning NoRune.
func (m *CMap) NextCode(raw string) (text string, code int, nbytes int) {
	n := m.codespaceMatch(raw)
	if n == 0 {
		return string(NoRune), int(raw[0]), 1
	}
	key := raw[:n]

	c := 0
	for i := 0; i < n; i++ {
		c = (c << 8) | int(raw[i])
	}

	if cid, ok := m.cidFor(key); ok {
		c = cid
	}

	if t, ok := m.textFor(key); ok && t != "" {
		return t, c, n
	}
	return string(NoRune), c, n
}

// Decode decodes the entire raw operand, per the Decoder interface.
func (m *CMap) Decode(raw string) (string, float64) {
	var w float64
	var r strings.Builder
	for len(raw) > 0 {
		text, code, n := m.NextCode(raw)
		r.WriteString(text)
		w += m.Widths.CodeWidth(code)
		raw = raw[n:]
	}
	return r.String(), w
}
