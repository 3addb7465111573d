// The single-byte encoding tables of PDF 32000-1 Annex D
// (WinAnsiEncoding, MacRomanEncoding, PDFDocEncoding)
// plus the subset of the Adobe Glyph List needed to resolve
// /Differences entries and named components of those tables.

package encoding

// NoRune is returned in place of a code point this package could not map
// to Unicode (§5: "Unicode resolution order ... falls back to an
// unresolved placeholder rather than failing the page").
const NoRune = '�'

// Sizer reports the advance width, in glyph space (1/1000 em), of a
// character code. A font's width table satisfies this interface; it is
// also the interface CMap embeds so that a composite font's CMap-backed
// decoder can still answer width queries.
type Sizer interface {
	CodeWidth(code int) float64
}

// nameToRune maps a subset of Adobe glyph names - the ones that appear in
// WinAnsiEncoding, MacRomanEncoding, and typical /Differences arrays - to
// their Unicode code point (Adobe Glyph List).
var nameToRune = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"parenleft": '(', "parenright": ')', "asterisk": '*', "plus": '+',
	"comma": ',', "hyphen": '-', "period": '.', "slash": '/',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"colon": ':', "semicolon": ';', "less": '<', "equal": '=', "greater": '>',
	"question": '?', "at": '@',
	"bracketleft": '[', "backslash": '\\', "bracketright": ']',
	"asciicircum": '^', "underscore": '_', "grave": '`',
	"braceleft": '{', "bar": '|', "braceright": '}', "asciitilde": '~',
	"quoteleft": '‘', "quoteright": '’',
	"quotesinglbase": '‚', "quotedblbase": '„',
	"quotedblleft": '“', "quotedblright": '”',
	"bullet": '•', "endash": '–', "emdash": '—',
	"dagger": '†', "daggerdbl": '‡', "ellipsis": '…',
	"perthousand": '‰', "guilsinglleft": '‹', "guilsinglright": '›',
	"fraction": '⁄', "florin": 'ƒ', "fi": 'ﬁ', "fl": 'ﬂ',
	"trademark": '™', "minus": '−', "Euro": '€',
	"circumflex": 'ˆ', "tilde": '˜', "dotlessi": 'ı',
	"Lslash": 'Ł', "lslash": 'ł', "OE": 'Œ', "oe": 'œ',
	"Scaron": 'Š', "scaron": 'š', "Ydieresis": 'Ÿ',
	"Zcaron": 'Ž', "zcaron": 'ž',
	"exclamdown": '¡', "cent": '¢', "sterling": '£',
	"currency": '¤', "yen": '¥', "brokenbar": '¦',
	"section": '§', "dieresis": '¨', "copyright": '©',
	"ordfeminine": 'ª', "guillemotleft": '«', "logicalnot": '¬',
	"registered": '®', "macron": '¯', "degree": '°',
	"plusminus": '±', "acute": '´', "mu": 'µ',
	"paragraph": '¶', "periodcentered": '·', "cedilla": '¸',
	"ordmasculine": 'º', "guillemotright": '»',
	"questiondown": '¿', "Agrave": 'À', "Aacute": 'Á',
	"Acircumflex": 'Â', "Atilde": 'Ã', "Adieresis": 'Ä',
	"Aring": 'Å', "AE": 'Æ', "Ccedilla": 'Ç',
	"Egrave": 'È', "Eacute": 'É', "Ecircumflex": 'Ê',
	"Edieresis": 'Ë', "Igrave": 'Ì', "Iacute": 'Í',
	"Icircumflex": 'Î', "Idieresis": 'Ï', "Eth": 'Ð',
	"Ntilde": 'Ñ', "Ograve": 'Ò', "Oacute": 'Ó',
	"Ocircumflex": 'Ô', "Otilde": 'Õ', "Odieresis": 'Ö',
	"multiply": '×', "Oslash": 'Ø', "Ugrave": 'Ù',
	"Uacute": 'Ú', "Ucircumflex": 'Û', "Udieresis": 'Ü',
	"Yacute": 'Ý', "Thorn": 'Þ', "germandbls": 'ß',
	"agrave": 'à', "aacute": 'á', "acircumflex": 'â',
	"atilde": 'ã', "adieresis": 'ä', "aring": 'å',
	"ae": 'æ', "ccedilla": 'ç', "egrave": 'è',
	"eacute": 'é', "ecircumflex": 'ê', "edieresis": 'ë',
	"igrave": 'ì', "iacute": 'í', "icircumflex": 'î',
	"idieresis": 'ï', "eth": 'ð', "ntilde": 'ñ',
	"ograve": 'ò', "oacute": 'ó', "ocircumflex": 'ô',
	"otilde": 'õ', "odieresis": 'ö', "divide": '÷',
	"oslash": 'ø', "ugrave": 'ù', "uacute": 'ú',
	"ucircumflex": 'û', "udieresis": 'ü', "yacute": 'ý',
	"thorn": 'þ', "ydieresis": 'ÿ',
}

func init() {
	for c := rune('A'); c <= 'Z'; c++ {
		nameToRune[string(c)] = c
	}
	for c := rune('a'); c <= 'z'; c++ {
		nameToRune[string(c)] = c
	}
}

// winAnsiEncoding is WinAnsiEncoding (cp1252) for bytes 0x80-0xFF; bytes
// 0x20-0x7E follow ASCII and are filled in by init.
var winAnsiEncoding [256]rune

// macRomanEncoding is MacRomanEncoding for bytes 0x80-0xFF.
var macRomanEncoding [256]rune

// pdfDocEncoding is PDFDocEncoding (Annex D.3): ASCII for 0x20-0x7E and
// Latin-1 for 0xA0-0xFF; no entries are filled in for 0x7F-0x9F.
var pdfDocEncoding [256]rune

func init() {
	for i := rune(0); i < 0x20; i++ {
		winAnsiEncoding[i] = NoRune
		macRomanEncoding[i] = NoRune
		pdfDocEncoding[i] = NoRune
	}
	for i := rune(0x20); i < 0x7f; i++ {
		winAnsiEncoding[i] = i
		macRomanEncoding[i] = i
		pdfDocEncoding[i] = i
	}
	winHigh := map[byte]rune{
		0x80: '€', 0x82: '‚', 0x83: 'ƒ', 0x84: '„',
		0x85: '…', 0x86: '†', 0x87: '‡', 0x88: 'ˆ',
		0x89: '‰', 0x8a: 'Š', 0x8b: '‹', 0x8c: 'Œ',
		0x8e: 'Ž', 0x91: '‘', 0x92: '’', 0x93: '“',
		0x94: '”', 0x95: '•', 0x96: '–', 0x97: '—',
		0x98: '˜', 0x99: '™', 0x9a: 'š', 0x9b: '›',
		0x9c: 'œ', 0x9e: 'ž', 0x9f: 'Ÿ',
	}
	for i := rune(0xa0); i <= 0xff; i++ {
		winAnsiEncoding[i] = i // Latin-1 Supplement matches cp1252 here
		pdfDocEncoding[i] = i
	}
	for b, r := range winHigh {
		winAnsiEncoding[rune(b)] = r
	}
	for i, r := range winAnsiEncoding {
		if i >= 0x80 && i < 0xa0 && macRomanEncoding[i] == 0 {
			macRomanEncoding[i] = r // approximate: unmapped MacRoman slots fall back to WinAnsi
		}
	}
	macHigh := map[byte]rune{
		0x80: 'Ä', 0x81: 'Å', 0x82: 'Ç', 0x83: 'É',
		0x84: 'Ñ', 0x85: 'Ö', 0x86: 'Ü', 0x87: 'á',
		0x88: 'à', 0x89: 'â', 0x8a: 'ä', 0x8b: 'ã',
		0x8c: 'å', 0x8d: 'ç', 0x8e: 'é', 0x8f: 'è',
		0x90: 'ê', 0x91: 'ë', 0x92: 'í', 0x93: 'ì',
		0x94: 'î', 0x95: 'ï', 0x96: 'ñ', 0x97: 'ó',
		0x98: 'ò', 0x99: 'ô', 0x9a: 'ö', 0x9b: 'õ',
		0x9c: 'ú', 0x9d: 'ù', 0x9e: 'û', 0x9f: 'ü',
		0xa5: '•', 0xd0: '–', 0xd1: '—', 0xd2: '“',
		0xd3: '”', 0xd4: '‘', 0xd5: '’',
	}
	for b, r := range macHigh {
		macRomanEncoding[rune(b)] = r
	}
	for i := rune(0); i < 256; i++ {
		if macRomanEncoding[i] == 0 {
			macRomanEncoding[i] = i
		}
	}
}

// ByteDecoder is a single-byte simple-font decoder (§5): table lookup per
// code, with /Differences overrides, plus the font's width table.
type ByteDecoder struct {
	table   [256]rune
	diffs   map[byte]string
	widths  Sizer
}

// RuneAt returns the Unicode rune a single code maps to, honoring
// /Differences overrides.
func (e *ByteDecoder) RuneAt(code byte) rune {
	if name, ok := e.diffs[code]; ok {
		if ru, ok := nameToRune[name]; ok {
			return ru
		}
	}
	ru := e.table[code]
	if ru == 0 {
		return NoRune
	}
	return ru
}

func (e *ByteDecoder) Decode(raw string) (string, float64) {
	r := make([]rune, 0, len(raw))
	var w float64
	for i := 0; i < len(raw); i++ {
		code := raw[i]
		w += e.widths.CodeWidth(int(code))
		if name, ok := e.diffs[code]; ok {
			if ru, ok := nameToRune[name]; ok {
				r = append(r, ru)
				continue
			}
		}
		ru := e.table[code]
		if ru == 0 {
			ru = NoRune
		}
		r = append(r, ru)
	}
	return string(r), w
}

// WinANSI returns a decoder for WinAnsiEncoding, with optional
// /Differences overrides.
func WinANSI(widths Sizer, diffs map[byte]string) *ByteDecoder {
	return &ByteDecoder{table: winAnsiEncoding, diffs: diffs, widths: widths}
}

// MacRoman returns a decoder for MacRomanEncoding, with optional
// /Differences overrides.
func MacRoman(widths Sizer, diffs map[byte]string) *ByteDecoder {
	return &ByteDecoder{table: macRomanEncoding, diffs: diffs, widths: widths}
}

// PDFDoc returns a decoder for PDFDocEncoding, used as the
// last resort for a simple font with no /Encoding and no /ToUnicode
// (§5 "Unicode resolution order").
func PDFDoc(widths Sizer) *ByteDecoder {
	return &ByteDecoder{table: pdfDocEncoding, widths: widths}
}
