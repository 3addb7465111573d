// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Resolution of indirect references against the cross-reference index,
// including object streams (§4.5) and the memoization cache (§5).

package playa

import (
	"fmt"
	"io"

	"github.com/dhdaines-go/playa/internal/types"
)

// maxResolveDepth bounds the recursion through chained /Extends object
// streams and self-referential xref entries (§5 invariant: "reference
// resolution is cycle-bounded").
const maxResolveDepth = 64

// resolve looks up x (an types.Object, possibly a types.Objptr) against
// parent's already-resolved identity, memoizing indirect lookups in the
// Document's cache (§5). It never panics outward: malformed indirection is
// reported as a warning and resolved to a null Value, per §7's "tolerant
// decode" posture.
func (d *Document) resolve(parent types.Objptr, x any) (v Value) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				e = &Error{Kind: KindParse, Msg: fmt.Sprint(r)}
			}
			d.addWarning(e)
			v = Value{}
		}
	}()
	return d.resolveDepth(parent, x, 0)
}

func (d *Document) resolveDepth(parent types.Objptr, x any, depth int) Value {
	if depth > maxResolveDepth {
		d.addWarning(&Error{Kind: KindResolve, Msg: "reference cycle or excessive nesting"})
		return Value{}
	}

	ptr, ok := x.(types.Objptr)
	if !ok {
		switch x := x.(type) {
		case nil, bool, int64, float64, types.Name, types.Dict, types.Array, types.Stream, string:
			return Value{d: d, ptr: parent, data: x}
		default:
			d.addWarning(&Error{Kind: KindResolve, Msg: fmt.Sprintf("unexpected value type %T", x)})
			return Value{}
		}
	}

	if ptr == (types.Objptr{}) {
		return Value{}
	}

	d.cacheMu.Lock()
	if v, ok := d.cache[ptr]; ok {
		d.cacheMu.Unlock()
		return v
	}
	d.cacheMu.Unlock()

	if ptr.ID >= uint32(len(d.xref)) {
		return Value{}
	}
	xr := d.xref[ptr.ID]
	if xr.Kind == types.XrefFree || xr.Ptr.ID != ptr.ID {
		return Value{}
	}

	var obj types.Object
	switch xr.Kind {
	case types.XrefCompressed:
		obj = d.resolveCompressed(parent, xr, depth)
	case types.XrefInUse:
		obj = d.resolveInUse(ptr, xr)
	}

	v := d.resolveDepth(ptr, obj, depth+1)
	d.cacheMu.Lock()
	d.cache[ptr] = v
	d.cacheMu.Unlock()
	return v
}

func (d *Document) resolveInUse(ptr types.Objptr, xr types.Xref) types.Object {
	b := newBuffer(io.NewSectionReader(d.src, xr.Offset, d.end-xr.Offset), xr.Offset)
	b.decrypter = d.decrypter
	obj := b.readObject()
	def, ok := obj.(types.Objdef)
	if !ok {
		d.addWarning(&Error{Kind: KindResolve, Offset: offsetAt(xr.Offset), Msg: fmt.Sprintf("object %d %d: found %T instead of indirect definition", ptr.ID, ptr.Gen, obj)})
		return nil
	}
	if def.Ptr.ID != ptr.ID {
		d.addWarning(&Error{Kind: KindResolve, Offset: offsetAt(xr.Offset), Msg: fmt.Sprintf("object %d %d: found %d %d at that offset", ptr.ID, ptr.Gen, def.Ptr.ID, def.Ptr.Gen)})
	}
	return def.Obj
}

// resolveCompressed decodes the k-th object out of a compressed object
// stream container, following /Extends chains (§4.5).
func (d *Document) resolveCompressed(parent types.Objptr, xr types.Xref, depth int) types.Object {
	strm := d.resolveDepth(parent, xr.Stream, depth+1)
	for {
		if strm.Kind() != StreamKind {
			d.addWarning(&Error{Kind: KindResolve, Msg: "compressed object container is not a stream"})
			return nil
		}
		if strm.Key("Type").Name() != "ObjStm" {
			d.addWarning(&Error{Kind: KindResolve, Msg: "compressed object container is not an ObjStm"})
			return nil
		}
		n := int(strm.Key("N").Int64())
		first := strm.Key("First").Int64()
		b := newBuffer(strm.Reader(), 0)
		b.allowEOF = true
		for i := 0; i < n; i++ {
			id, _ := b.readToken().(int64)
			off, _ := b.readToken().(int64)
			if uint32(id) == xr.Ptr.ID {
				b.seekForward(first + off)
				return b.readObject()
			}
		}
		ext := strm.Key("Extends")
		if ext.Kind() != StreamKind {
			d.addWarning(&Error{Kind: KindResolve, Msg: "object not found in compressed stream or its /Extends chain"})
			return nil
		}
		strm = ext
	}
}
