package playa

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/dhdaines-go/playa/internal/encoding"
	"github.com/dhdaines-go/playa/internal/types"
)

// A Value is a single PDF value (§3): an integer, dictionary, stream, and
// so on. The zero Value is a PDF null (Kind() == NullKind).
type Value struct {
	d    *Document
	ptr  types.Objptr
	data any
}

// IsNull reports whether the value is a null. It is equivalent to Kind() == NullKind.
func (v Value) IsNull() bool {
	return v.data == nil
}

// A ValueKind specifies the kind of data underlying a Value (§3).
type ValueKind int

const (
	NullKind ValueKind = iota
	BoolKind
	IntegerKind
	RealKind
	StringKind
	NameKind
	DictKind
	ArrayKind
	StreamKind
)

// Kind reports the kind of value underlying v.
func (v Value) Kind() ValueKind {
	switch v.data.(type) {
	default:
		return NullKind
	case bool:
		return BoolKind
	case int64:
		return IntegerKind
	case float64:
		return RealKind
	case string:
		return StringKind
	case types.Name:
		return NameKind
	case types.Dict:
		return DictKind
	case types.Array:
		return ArrayKind
	case types.Stream:
		return StreamKind
	}
}

// String returns a textual representation of the value v, for debugging.
// It is not the accessor for Kind() == StringKind values; see RawString,
// Text, and TextFromUTF16 for that.
func (v Value) String() string {
	return objfmt(v.data)
}

func objfmt(x any) string {
	switch x := x.(type) {
	default:
		return fmt.Sprint(x)
	case string:
		if encoding.IsPDFDocEncoded(x) {
			return strconv.Quote(encoding.PDFDocDecode(x))
		}
		if encoding.IsUTF16(x) {
			return strconv.Quote(encoding.UTF16Decode(x[2:]))
		}
		return strconv.Quote(x)
	case types.Name:
		return "/" + string(x)
	case types.Dict:
		var keys []string
		for k := range x {
			keys = append(keys, string(k))
		}
		sort.Strings(keys)
		var buf bytes.Buffer
		buf.WriteString("<<")
		for i, k := range keys {
			elem := x[types.Name(k)]
			if i > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString("/")
			buf.WriteString(k)
			buf.WriteString(" ")
			buf.WriteString(objfmt(elem))
		}
		buf.WriteString(">>")
		return buf.String()

	case types.Array:
		var buf bytes.Buffer
		buf.WriteString("[")
		for i, elem := range x {
			if i > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(objfmt(elem))
		}
		buf.WriteString("]")
		return buf.String()

	case types.Stream:
		return fmt.Sprintf("%v@%d", objfmt(x.Hdr), x.Offset)

	case types.Objptr:
		return fmt.Sprintf("%d %d R", x.ID, x.Gen)

	case types.Objdef:
		return fmt.Sprintf("{%d %d obj}%v", x.Ptr.ID, x.Ptr.Gen, objfmt(x.Obj))
	}
}

// Bool returns v's boolean value. If v.Kind() != BoolKind, Bool returns false.
func (v Value) Bool() bool {
	x, ok := v.data.(bool)
	return ok && x
}

// Int64 returns v's integer value. If v.Kind() != IntegerKind, Int64 returns 0.
func (v Value) Int64() int64 {
	x, _ := v.data.(int64)
	return x
}

// Float64 returns v's numeric value, converting from integer if necessary.
// If v is neither a real nor an integer, Float64 returns 0.
func (v Value) Float64() float64 {
	if x, ok := v.data.(float64); ok {
		return x
	}
	if x, ok := v.data.(int64); ok {
		return float64(x)
	}
	return 0
}

// RawString returns v's raw (undecoded) string bytes.
// If v.Kind() != StringKind, RawString returns the empty string.
func (v Value) RawString() string {
	x, _ := v.data.(string)
	return x
}

// Text returns v's string value interpreted as a PDF "text string" (§6) and
// converted to UTF-8 (UTF-16BE with BOM, or PDFDocEncoding). If
// v.Kind() != StringKind, Text returns the empty string.
func (v Value) Text() string {
	x, ok := v.data.(string)
	if !ok {
		return ""
	}
	if encoding.IsPDFDocEncoded(x) {
		return encoding.PDFDocDecode(x)
	}
	if encoding.IsUTF16(x) {
		return encoding.UTF16Decode(x[2:])
	}
	return x
}

// TextFromUTF16 returns v's string value interpreted as big-endian UTF-16
// (without requiring the BOM) and converted to UTF-8.
func (v Value) TextFromUTF16() string {
	x, ok := v.data.(string)
	if !ok || x == "" || len(x)%2 == 1 {
		return ""
	}
	return encoding.UTF16Decode(x)
}

// Name returns v's name value, without the leading slash.
// If v.Kind() != NameKind, Name returns the empty string.
func (v Value) Name() string {
	x, _ := v.data.(types.Name)
	return string(x)
}

// rawDict returns v's underlying dictionary without resolving any of its
// values, for callers (marked-content tracking) that want the raw syntax
// tree rather than a resolved Value per key.
func (v Value) rawDict() types.Dict {
	x, ok := v.data.(types.Dict)
	if !ok {
		return nil
	}
	return x
}

// Key returns the value of the given dictionary key, resolving indirect
// references (§3, §5). If v is a stream, Key applies to its header
// dictionary. If v.Kind() is neither DictKind nor StreamKind, Key returns
// a null Value.
func (v Value) Key(key string) Value {
	x, ok := v.data.(types.Dict)
	if !ok {
		strm, ok := v.data.(types.Stream)
		if !ok {
			return Value{}
		}
		x = strm.Hdr
	}
	return v.d.resolve(v.ptr, x[types.Name(key)])
}

// Keys returns the sorted list of keys in the dictionary (or stream header)
// v. If v.Kind() is neither DictKind nor StreamKind, Keys returns nil.
func (v Value) Keys() []string {
	x, ok := v.data.(types.Dict)
	if !ok {
		strm, ok := v.data.(types.Stream)
		if !ok {
			return nil
		}
		x = strm.Hdr
	}
	keys := []string{}
	for k := range x {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}

// Index returns the i'th element of array v, resolving indirect references.
// If v.Kind() != ArrayKind or i is out of range, Index returns a null Value.
func (v Value) Index(i int) Value {
	x, ok := v.data.(types.Array)
	if !ok || i < 0 || i >= len(x) {
		return Value{}
	}
	return v.d.resolve(v.ptr, x[i])
}

// Len returns the length of array v. If v.Kind() != ArrayKind, Len returns 0.
func (v Value) Len() int {
	x, _ := v.data.(types.Array)
	return len(x)
}

// RawElements returns the array elements whose kind is among kinds, each
// converted to its natural Go representation (bool, int64, float64, or
// string). If v.Kind() != ArrayKind, RawElements returns nil.
func (v Value) RawElements(kinds ...ValueKind) []any {
	var ee []any

	kk := map[ValueKind]bool{}
	for _, k := range kinds {
		kk[k] = true
	}

	for i := 0; i < v.Len(); i++ {
		e := v.Index(i)
		if !kk[e.Kind()] {
			continue
		}

		switch e.Kind() {
		case BoolKind:
			ee = append(ee, e.Bool())
		case IntegerKind:
			ee = append(ee, e.Int64())
		case RealKind:
			ee = append(ee, e.Float64())
		case StringKind:
			ee = append(ee, e.RawString())
		case NameKind:
			ee = append(ee, e.Name())
		}
	}
	return ee
}
