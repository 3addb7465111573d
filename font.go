// Font resource decode (§5): width lookup and Unicode resolution for
// simple and composite (Type0) fonts.

package playa

import (
	"github.com/dhdaines-go/playa/internal/encoding"
)

func getWidths(v Value) widths {
	switch v.Key("Subtype").Name() {
	case "Type0":
		return getWidths(v.Key("DescendantFonts").Index(0))
	case "CIDFontType0", "CIDFontType2":
		dw := v.Key("DW").Float64()
		if v.Key("DW").IsNull() {
			dw = 1000
		}
		ww := v.Key("W")

		var spans []span
		i := 0
		for i < ww.Len() {
			s := span{first: int(ww.Index(i).Int64())}
			switch ww.Index(i + 1).Kind() {
			case IntegerKind, RealKind:
				s.last = int(ww.Index(i + 1).Int64())
				s.fixed = ww.Index(i + 2).Float64()
				i += 3
			case ArrayKind:
				values := ww.Index(i + 1)
				s.last = s.first + values.Len() - 1
				s.linear = make([]float64, values.Len())
				for j := 0; j < values.Len(); j++ {
					s.linear[j] = values.Index(j).Float64()
				}
				i += 2
			default:
				i++
				continue
			}
			spans = append(spans, s)
		}
		return widths{defaultW: dw, spans: spans}
	default:
		dw := v.Key("FontDescriptor").Key("MissingWidth").Float64()
		ww := v.Key("Widths")
		s := span{
			first:  int(v.Key("FirstChar").Int64()),
			last:   int(v.Key("LastChar").Int64()),
			linear: make([]float64, ww.Len()),
		}
		for i := 0; i < ww.Len(); i++ {
			s.linear[i] = ww.Index(i).Float64()
		}
		return widths{defaultW: dw, spans: []span{s}}
	}
}

// getDifferences implements Table 112's /Differences array: a sequence of
// (start code, name, name, ...) runs.
func getDifferences(v Value) map[byte]string {
	dd := map[byte]string{}
	diffs := v.Key("Differences")

	c := -1
	for i := 0; i < diffs.Len(); i++ {
		switch e := diffs.Index(i); e.Kind() {
		case IntegerKind:
			c = int(e.Int64())
		case NameKind:
			if c >= 0 && c <= 255 {
				dd[byte(c)] = e.Name()
				c++
			}
		}
	}
	return dd
}

func getDecoder(v Value) Decoder {
	w := getWidths(v)

	switch enc := v.Key("Encoding"); enc.Kind() {
	case NameKind:
		switch enc.Name() {
		case "WinAnsiEncoding":
			return encoding.WinANSI(w, nil)
		case "MacRomanEncoding":
			return encoding.MacRoman(w, nil)
		case "Identity-H", "Identity-V":
			return mergedCMapEncoding(nil, v.Key("ToUnicode"), w)
		}
	case DictKind:
		diffs := getDifferences(enc)
		switch enc.Key("BaseEncoding").Name() {
		case "WinAnsiEncoding":
			return encoding.WinANSI(w, diffs)
		case "MacRomanEncoding":
			return encoding.MacRoman(w, diffs)
		}
		return encoding.WinANSI(w, diffs)
	case StreamKind:
		// An embedded Type0 encoding CMap (§4.9): carries the codespace and
		// CID mapping. Unicode text, if any, still comes from /ToUnicode.
		return mergedCMapEncoding(&enc, v.Key("ToUnicode"), w)
	}

	if toUnicode := v.Key("ToUnicode"); !toUnicode.IsNull() {
		return mergedCMapEncoding(nil, toUnicode, w)
	}

	// §5 "Unicode resolution order": no ToUnicode, no named encoding table
	// -> fall back to PDFDocEncoding.
	return encoding.PDFDoc(w)
}

// mergedCMapEncoding builds the Decoder for a composite font from its
// encoding CMap (cid stream, nil for a named Identity-H/V encoding) and its
// ToUnicode CMap (text stream, possibly absent). The encoding stream
// supplies the codespace ranges and CID mapping; the ToUnicode stream
// supplies the Unicode text mapping layered on top of the same codes.
func mergedCMapEncoding(encStream *Value, toUnicode Value, w widths) Decoder {
	var enc *encoding.CMap
	if encStream != nil {
		enc, _ = parseCMap(*encStream)
	}
	text, _ := parseCMap(toUnicode)

	switch {
	case enc == nil && text == nil:
		return encoding.PDFDoc(w)
	case enc == nil:
		text.Widths = w
		return text
	case text == nil:
		enc.Widths = w
		return enc
	default:
		enc.Widths = w
		enc.BFChars = text.BFChars
		enc.BFRanges = text.BFRanges
		if !enc.HasCodespace() {
			enc.Space = text.Space
		}
		return enc
	}
}

// parseCMap interprets a CMap program stream (§4.9): either a /ToUnicode
// Unicode mapping or an embedded Type0 /Encoding CID mapping. Both use the
// same PostScript-subset grammar, differing only in which begin/end blocks
// appear.
func parseCMap(v Value) (*encoding.CMap, bool) {
	if v.Kind() != StreamKind {
		return nil, false
	}

	n := -1
	m := &encoding.CMap{}
	ok := true
	interpret(v.Reader(), func(stk *stack, op string, _ *buffer) {
		if !ok {
			return
		}
		switch op {
		case "findresource":
			stk.Pop()
			stk.Pop()
			stk.Push(newDict())
		case "begincmap":
			stk.Push(newDict())
		case "endcmap":
			stk.Pop()
		case "usecmap":
			useCMapBase(m, stk.Pop().Name())
		case "begincodespacerange":
			n = int(stk.Pop().Int64())
		case "endcodespacerange":
			if n < 0 {
				ok = false
				return
			}
			for i := 0; i < n; i++ {
				hi, lo := stk.Pop().RawString(), stk.Pop().RawString()
				if len(lo) == 0 || len(lo) != len(hi) || len(lo) > 4 {
					ok = false
					return
				}
				m.Space[len(lo)-1] = append(m.Space[len(lo)-1], encoding.ByteRange{Lo: lo, Hi: hi})
			}
			n = -1
		case "beginbfchar":
			n = int(stk.Pop().Int64())
		case "endbfchar":
			if n < 0 {
				ok = false
				return
			}
			for i := 0; i < n; i++ {
				repl, orig := stk.Pop().RawString(), stk.Pop().RawString()
				m.BFChars = append(m.BFChars, encoding.BFChar{Orig: orig, Repl: repl})
			}
			n = -1
		case "beginbfrange":
			n = int(stk.Pop().Int64())
		case "endbfrange":
			if n < 0 {
				ok = false
				return
			}
			for i := 0; i < n; i++ {
				dst, srcHi, srcLo := stk.Pop(), stk.Pop().RawString(), stk.Pop().RawString()
				bfr := encoding.BFRange{Lo: srcLo, Hi: srcHi}
				switch dst.Kind() {
				case StringKind:
					bfr.DstS = dst.RawString()
				case ArrayKind:
					bfr.DstA = dst.RawElements(StringKind)
				}
				m.BFRanges = append(m.BFRanges, bfr)
			}
			n = -1
		case "begincidchar":
			n = int(stk.Pop().Int64())
		case "endcidchar":
			if n < 0 {
				ok = false
				return
			}
			for i := 0; i < n; i++ {
				cid, orig := int(stk.Pop().Int64()), stk.Pop().RawString()
				m.CIDChars = append(m.CIDChars, encoding.CIDChar{Orig: orig, CID: cid})
			}
			m.MarkHasCIDData()
			n = -1
		case "begincidrange":
			n = int(stk.Pop().Int64())
		case "endcidrange":
			if n < 0 {
				ok = false
				return
			}
			for i := 0; i < n; i++ {
				cidLo, hi, lo := int(stk.Pop().Int64()), stk.Pop().RawString(), stk.Pop().RawString()
				m.CIDRanges = append(m.CIDRanges, encoding.CIDRange{Lo: lo, Hi: hi, CIDLo: cidLo})
			}
			m.MarkHasCIDData()
			n = -1
		case "defineresource":
			stk.Pop()
			val := stk.Pop()
			stk.Pop()
			stk.Push(val)
		default:
			// unsupported cmap operator: ignore and keep going (§7 tolerant decode)
		}
	})
	if !ok {
		return nil, false
	}
	return m, true
}

// useCMapBase implements usecmap (§4.9): name usually refers to one of the
// predefined CJK CMaps shipped with a conforming reader, which this package
// does not bundle. The Identity-H/Identity-V bases are an exception: they
// are defined algorithmically by the spec itself (code equals CID over a
// 2-byte codespace), not by external table data, so they can be honored
// directly. Any other name is left unresolved (§7 tolerant decode): the
// CMap simply has no base to fall back to for codes it doesn't map itself.
func useCMapBase(m *encoding.CMap, name string) {
	switch name {
	case "Identity-H", "Identity-V":
		m.Use = &encoding.CMap{Space: [4][]encoding.ByteRange{
			1: {{Lo: "\x00\x00", Hi: "\xff\xff"}},
		}}
	}
}

// widths implements encoding.Sizer over a font's /Widths or /W table.
type widths struct {
	defaultW float64
	spans    []span
}

type span struct {
	first, last int
	fixed       float64
	linear      []float64
}

func (w widths) CodeWidth(code int) float64 {
	for _, s := range w.spans {
		if code >= s.first && code <= s.last {
			if len(s.linear) > 0 {
				return s.linear[code-s.first]
			}
			return s.fixed
		}
	}
	return w.defaultW
}
