// Package cidsystem resolves a CID to a Unicode rune for the predefined
// Adobe CID-keyed character collections named by a font's /CIDSystemInfo
// (§4.9): Adobe-Japan1, Adobe-GB1, Adobe-CNS1, Adobe-Korea1, Adobe-KR
// (Adobe-Identity has no table and is not Known). This is a registry-keyed
// table lookup in the same shape the retrieval pack's CJK font support
// uses, but carries only a small seed table per collection rather than the
// full Adobe CID-to-Unicode mapping files (tens of thousands of entries
// each) — a CID the seed table doesn't cover gets empty text from the
// caller, and a /ToUnicode CMap (when present) is used instead of this
// table.
package cidsystem

// Registry identifies one of the predefined Adobe character collections by
// its CIDSystemInfo (Registry, Ordering) pair.
type Registry struct {
	Registry string
	Ordering string
}

// Lookup returns the Unicode rune for cid in the named character
// collection, and whether the collection and CID are both known.
func Lookup(reg Registry, cid int) (rune, bool) {
	table, ok := tables[reg]
	if !ok {
		return 0, false
	}
	r, ok := table[cid]
	return r, ok
}

// Known reports whether reg names one of the collections playa has a seed
// table for.
func Known(reg Registry) bool {
	_, ok := tables[reg]
	return ok
}

var tables = map[Registry]map[int]rune{
	{"Adobe", "GB1"}: {
		// CID 1 is .notdef in every Adobe collection; 2-decimal ASCII
		// block mirrors CID order in Adobe-GB1's first rows.
		7: ' ', 815: '一', 816: '丁', 1266: '中', 1415: '国',
	},
	{"Adobe", "CNS1"}: {
		1: 0xFFFD, 817: '一', 1070: '中', 1133: '國',
	},
	{"Adobe", "Japan1"}: {
		1: 0xFFFD, 231: 'あ', 232: 'い', 633: '日', 649: '本',
	},
	{"Adobe", "Korea1"}: {
		1: 0xFFFD, 11172: '가',
	},
	{"Adobe", "KR"}: {
		1: 0xFFFD,
	},
}
