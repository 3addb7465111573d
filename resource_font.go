// Adapts a font resource dictionary (font.go) to internal/state.Font, the
// narrow interface the content-stream interpreter and text-state machine
// need to place glyphs (§4.9).

package playa

import (
	"github.com/dhdaines-go/playa/internal/cidsystem"
	"github.com/dhdaines-go/playa/internal/encoding"
	"github.com/dhdaines-go/playa/internal/state"
)

// resourceFont wraps a font dictionary's decoder with code-splitting logic:
// one byte per code for simple fonts, codespace-range-driven (or, lacking
// that, 2-byte Identity) splitting for composite Type0 fonts.
type resourceFont struct {
	name      string
	composite bool
	vertical  bool
	widths    widths
	byteEnc   *encoding.ByteDecoder
	cmap      *encoding.CMap
	cidReg    cidsystem.Registry
	hasCIDReg bool
}

func newResourceFont(v Value) state.Font {
	rf := &resourceFont{name: v.Key("BaseFont").Name()}
	rf.widths = getWidths(v)

	if v.Key("Subtype").Name() == "Type0" {
		rf.composite = true
		rf.vertical = v.Key("Encoding").Name() == "Identity-V"

		sysInfo := v.Key("DescendantFonts").Index(0).Key("CIDSystemInfo")
		reg := cidsystem.Registry{Registry: sysInfo.Key("Registry").Text(), Ordering: sysInfo.Key("Ordering").Text()}
		rf.hasCIDReg = cidsystem.Known(reg)
		rf.cidReg = reg
	}

	switch d := getDecoder(v).(type) {
	case *encoding.ByteDecoder:
		rf.byteEnc = d
	case *encoding.CMap:
		rf.cmap = d
	}
	return rf
}

func (f *resourceFont) Name() string    { return f.name }
func (f *resourceFont) Vertical() bool  { return f.vertical }

func (f *resourceFont) Decode(raw string) []state.Code {
	var out []state.Code
	if !f.composite {
		for i := 0; i < len(raw); i++ {
			code := int(raw[i])
			text := string(encoding.NoRune)
			if f.byteEnc != nil {
				text = string(f.byteEnc.RuneAt(raw[i]))
			}
			out = append(out, state.Code{
				Code: code, NBytes: 1, Text: text,
				Width: f.widths.CodeWidth(code),
			})
		}
		return out
	}

	for len(raw) > 0 {
		if f.cmap != nil {
			text, code, n := f.cmap.NextCode(raw)
			out = append(out, state.Code{Code: code, NBytes: n, Text: text, Width: f.widths.CodeWidth(code)})
			raw = raw[n:]
			continue
		}
		// No /ToUnicode CMap: Identity-H/V, 2 bytes per CID; text comes only
		// from the CID system seed table, when the registry is known.
		n := 2
		if n > len(raw) {
			n = len(raw)
		}
		code := 0
		for i := 0; i < n; i++ {
			code = code<<8 | int(raw[i])
		}
		text := ""
		if f.hasCIDReg {
			// Identity-H/V: code equals CID in the absence of a CIDToGIDMap
			// affecting text semantics (§4.9).
			if r, ok := cidsystem.Lookup(f.cidReg, code); ok {
				text = string(r)
			}
		}
		out = append(out, state.Code{Code: code, NBytes: n, Text: text, Width: f.widths.CodeWidth(code)})
		raw = raw[n:]
	}
	return out
}
