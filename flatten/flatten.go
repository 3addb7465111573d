// Package flatten provides non-authoritative, debugging-only views of a
// PDF value graph as plain Go maps/slices, for quick inspection (e.g. in a
// REPL or a test failure dump) without walking playa.Value accessors by
// hand. Nothing here is used by the core; flatten only reads through the
// public Value API (§6).
package flatten

import "github.com/dhdaines-go/playa"

// Dict renders a dictionary (or a stream's header dictionary) as a
// map[string]any, rendering each entry with Value at depth-1: a nested
// dict or array is expanded only while that depth is positive and is
// otherwise rendered as its String() summary, which keeps
// self-referential graphs from recursing forever.
func Dict(v playa.Value, depth int) map[string]any {
	if v.Kind() != playa.DictKind && v.Kind() != playa.StreamKind {
		return nil
	}
	out := map[string]any{}
	for _, k := range v.Keys() {
		out[k] = Value(v.Key(k), depth-1)
	}
	return out
}

// Array renders an array as a []any, recursing as Dict does.
func Array(v playa.Value, depth int) []any {
	if v.Kind() != playa.ArrayKind {
		return nil
	}
	out := make([]any, v.Len())
	for i := range out {
		out[i] = Value(v.Index(i), depth-1)
	}
	return out
}

// Value renders any Value as a plain Go value: bool, int64, float64,
// string, a "/Name" string for names, map[string]any for dicts/streams, or
// []any for arrays. Depth bounds recursion into nested dicts and arrays.
func Value(v playa.Value, depth int) any {
	switch v.Kind() {
	case playa.NullKind:
		return nil
	case playa.BoolKind:
		return v.Bool()
	case playa.IntegerKind:
		return v.Int64()
	case playa.RealKind:
		return v.Float64()
	case playa.StringKind:
		return v.Text()
	case playa.NameKind:
		return "/" + v.Name()
	case playa.DictKind, playa.StreamKind:
		if depth <= 0 {
			return v.String()
		}
		return Dict(v, depth)
	case playa.ArrayKind:
		if depth <= 0 {
			return v.String()
		}
		return Array(v, depth)
	default:
		return v.String()
	}
}

// Resources returns a flattened view of a page's resource dictionary at
// Dict depth 2: each resource category (/Font, /XObject, ...) becomes a map
// whose entries are String() summaries, the common case for debugging
// "what fonts/XObjects does this page reference".
func Resources(p playa.Page) map[string]any {
	return Dict(p.Resources(), 2)
}
