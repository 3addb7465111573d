// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The page tree walker (§4.7): inheritable attributes, logical page
// lookup, and page labels.

package playa

import "fmt"

// Page represents a single page dictionary (§4.7).
type Page struct {
	v Value
}

// Page returns the page at the given 1-indexed logical position.
func (d *Document) Page(i int) (Page, error) {
	num := i - 1
	page := d.Catalog().Key("Pages")
Search:
	for page.Key("Type").Name() == "Pages" {
		count := int(page.Key("Count").Int64())
		if count < num {
			break
		}
		kids := page.Key("Kids")
		for j := 0; j < kids.Len(); j++ {
			kid := kids.Index(j)
			if kid.Key("Type").Name() == "Pages" {
				c := int(kid.Key("Count").Int64())
				if num < c {
					page = kid
					continue Search
				}
				num -= c
				continue
			}
			if kid.Key("Type").Name() == "Page" {
				if num == 0 {
					return Page{kid}, nil
				}
				num--
			}
		}
		break
	}
	return Page{}, &Error{Kind: KindParse, Msg: fmt.Sprintf("page %d not found", i)}
}

// NPages returns the number of pages in the document.
func (d *Document) NPages() int {
	return int(d.Catalog().Key("Pages").Key("Count").Int64())
}

// findInherited walks Parent links looking up key, implementing the
// inheritable page attributes of §4.7 (MediaBox, CropBox, Resources,
// Rotate).
func (p Page) findInherited(key string) Value {
	for v := p.v; !v.IsNull(); v = v.Key("Parent") {
		if r := v.Key(key); !r.IsNull() {
			return r
		}
	}
	return Value{}
}

// Resources returns the page's (possibly inherited) resource dictionary.
func (p Page) Resources() Value { return p.resources() }

func (p Page) resources() Value {
	return p.findInherited("Resources")
}

// MediaBox returns the page's media box as [llx, lly, urx, ury].
func (p Page) MediaBox() [4]float64 {
	return rectOf(p.findInherited("MediaBox"))
}

// CropBox returns the page's crop box, defaulting to the media box when
// absent (§4.7).
func (p Page) CropBox() [4]float64 {
	box := p.findInherited("CropBox")
	if box.IsNull() {
		return p.MediaBox()
	}
	return rectOf(box)
}

func rectOf(v Value) [4]float64 {
	var r [4]float64
	for i := 0; i < 4 && i < v.Len(); i++ {
		r[i] = v.Index(i).Float64()
	}
	return r
}

// Rotate returns the page's clockwise rotation in degrees, normalized to
// {0, 90, 180, 270} (§4.7).
func (p Page) Rotate() int {
	r := int(p.findInherited("Rotate").Int64())
	r %= 360
	if r < 0 {
		r += 360
	}
	return r - r%90
}

// PageLabel returns the logical page label for 1-indexed page i, resolved
// through the document's /PageLabels number tree (§4.7). If no labels are
// defined, PageLabel returns the decimal page number as a string.
func (d *Document) PageLabel(i int) string {
	tree := d.Catalog().Key("PageLabels")
	if tree.IsNull() {
		return fmt.Sprintf("%d", i)
	}
	style, prefix, start, ok := lookupPageLabel(tree, i-1)
	if !ok {
		return fmt.Sprintf("%d", i)
	}
	n := i - 1 - start + 1
	switch style {
	case "D", "":
		return fmt.Sprintf("%s%d", prefix, n)
	case "r":
		return prefix + toRoman(n, false)
	case "R":
		return prefix + toRoman(n, true)
	case "a":
		return prefix + toAlpha(n, false)
	case "A":
		return prefix + toAlpha(n, true)
	default:
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// lookupPageLabel walks a page-labels number tree (§7.9.7) to find the
// /Nums entry governing page index (0-based).
func lookupPageLabel(tree Value, index int) (style, prefix string, start int, ok bool) {
	if kids := tree.Key("Kids"); !kids.IsNull() {
		for i := 0; i < kids.Len(); i++ {
			kid := kids.Index(i)
			limits := kid.Key("Limits")
			if limits.Len() == 2 && (index < int(limits.Index(0).Int64()) || index > int(limits.Index(1).Int64())) {
				continue
			}
			if s, p, st, found := lookupPageLabel(kid, index); found {
				return s, p, st, true
			}
		}
		return "", "", 0, false
	}
	nums := tree.Key("Nums")
	best := -1
	for i := 0; i+1 < nums.Len(); i += 2 {
		key := int(nums.Index(i).Int64())
		if key <= index && key > best {
			best = key
			style = nums.Index(i + 1).Key("S").Name()
			prefix = nums.Index(i + 1).Key("P").Text()
			start = key
			ok = true
		}
	}
	return style, prefix, start, ok
}

func toRoman(n int, upper bool) string {
	if n <= 0 {
		return ""
	}
	vals := []struct {
		v int
		s string
	}{
		{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
		{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
		{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
	}
	var out string
	for _, p := range vals {
		for n >= p.v {
			out += p.s
			n -= p.v
		}
	}
	if upper {
		r := []rune(out)
		for i, c := range r {
			r[i] = c - ('a' - 'A')
		}
		return string(r)
	}
	return out
}

func toAlpha(n int, upper bool) string {
	if n <= 0 {
		return ""
	}
	base := byte('a')
	if upper {
		base = 'A'
	}
	var out []byte
	reps := (n-1)/26 + 1
	letter := base + byte((n-1)%26)
	for i := 0; i < reps; i++ {
		out = append(out, letter)
	}
	return string(out)
}
