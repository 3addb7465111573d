// Package outline walks a document's bookmark tree (/Outlines, §8.3 of ISO
// 32000), the sibling-linked counterpart to the page tree's parent-linked
// /Kids recursion (see playa.Document.Page).
package outline

import (
	"github.com/dhdaines-go/playa"
)

// Entry is one bookmark: a title, its destination (unresolved — a named
// destination, an explicit array, or an action dictionary, left as a Value
// for the caller to interpret), and its children in document order.
type Entry struct {
	Title    string
	Dest     playa.Value
	Children []Entry
}

// Walk returns the document's top-level bookmark entries, or nil if the
// document has no /Outlines dictionary.
func Walk(d *playa.Document) []Entry {
	root := d.Catalog().Key("Outlines")
	if root.IsNull() {
		return nil
	}
	return siblings(root.Key("First"), 0)
}

const maxOutlineDepth = 64

// siblings walks a /First-rooted, /Next-linked sibling list, recursing into
// /First for each entry's children.
func siblings(first playa.Value, depth int) []Entry {
	if first.IsNull() || depth >= maxOutlineDepth {
		return nil
	}

	var out []Entry
	seen := map[string]bool{} // guards against /Next cycles in malformed trees (§7 tolerant decode)
	for cur := first; !cur.IsNull(); cur = cur.Key("Next") {
		key := cur.String()
		if seen[key] {
			break
		}
		seen[key] = true

		e := Entry{
			Title:    cur.Key("Title").Text(),
			Dest:     dest(cur),
			Children: siblings(cur.Key("First"), depth+1),
		}
		out = append(out, e)
	}
	return out
}

// dest resolves the /Dest entry if present, falling back to the /A action
// dictionary itself (§8.3.1's either/or rule: an outline item's target
// is either a destination or an action, never both).
func dest(v playa.Value) playa.Value {
	if d := v.Key("Dest"); !d.IsNull() {
		return d
	}
	return v.Key("A")
}
