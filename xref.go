// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Opening a document: locating the startxref trailer, walking the
// cross-reference chain (table or stream form, §4.3), and — when that
// chain is unreadable — reconstructing one by a linear scan of the file.

package playa

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dhdaines-go/playa/internal/decrypter"
	"github.com/dhdaines-go/playa/internal/types"
)

func open(src ByteSource, password string) (*Document, error) {
	size := src.Len()
	headerOff := skipJunkHeader(src)
	if headerOff < 0 {
		return nil, &Error{Kind: KindXref, Msg: "not a PDF file: missing %PDF- header"}
	}

	d := &Document{
		src:   src,
		end:   size,
		cache: make(map[types.Objptr]Value),
	}

	xref, trailerPtr, trailer, err := safeFindXrefChain(d, size)
	if err != nil {
		d.addWarning(&Error{Kind: KindXref, Msg: fmt.Sprintf("xref chain unreadable, reconstructing: %v", err)})
		xref, trailerPtr, trailer, err = reconstructXref(d, size)
		if err != nil {
			return nil, err
		}
	}
	d.xref = xref
	d.trailer = trailer
	d.trailerPtr = trailerPtr

	if trailer["Encrypt"] == nil {
		return d, nil
	}
	if err := d.initEncrypt(""); err == nil {
		return d, nil
	} else if password == "" || err != decrypter.ErrInvalidPassword {
		return nil, err
	}
	if err := d.initEncrypt(password); err != nil {
		return nil, err
	}
	return d, nil
}

// safeFindXrefChain wraps findXrefChain, converting a lexer panic (from a
// malformed or out-of-range xref pointer) into an error so open can fall
// back to reconstructXref instead of crashing (§7).
func safeFindXrefChain(d *Document, size int64) (xref []types.Xref, trailerPtr types.Objptr, trailer types.Dict, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return findXrefChain(d, size)
}

// findXrefChain locates the final "startxref" offset and walks the /Prev
// chain of xref tables/streams from there (§4.3).
func findXrefChain(d *Document, size int64) ([]types.Xref, types.Objptr, types.Dict, error) {
	const endChunk = 1024
	n := endChunk
	if size < int64(n) {
		n = int(size)
	}
	buf := make([]byte, n)
	d.src.ReadAt(buf, size-int64(n))
	buf = bytes.TrimRight(buf, "\r\n\t \x00")
	if !bytes.HasSuffix(buf, []byte("%%EOF")) {
		return nil, types.Objptr{}, nil, fmt.Errorf("missing %%%%EOF")
	}

	i := findLastLine(buf, "startxref")
	if i < 0 {
		return nil, types.Objptr{}, nil, fmt.Errorf("missing final startxref")
	}
	pos := size - int64(n) + int64(i)
	b := newBuffer(io.NewSectionReader(d.src, pos, size-pos), pos)
	if b.readToken() != keyword("startxref") {
		return nil, types.Objptr{}, nil, fmt.Errorf("malformed startxref")
	}
	startxref, ok := b.readToken().(int64)
	if !ok {
		return nil, types.Objptr{}, nil, fmt.Errorf("startxref not followed by integer")
	}
	b = newBuffer(io.NewSectionReader(d.src, startxref, size-startxref), startxref)
	return readXref(d, b, size)
}

func findLastLine(buf []byte, s string) int {
	bs := []byte(s)
	max := len(buf)
	for {
		i := bytes.LastIndex(buf[:max], bs)
		if i <= 0 || i+len(bs) >= len(buf) {
			return -1
		}
		if (buf[i-1] == '\n' || buf[i-1] == '\r') && (buf[i+len(bs)] == '\n' || buf[i+len(bs)] == '\r') {
			return i
		}
		max = i
	}
}

func readXref(d *Document, b *buffer, size int64) ([]types.Xref, types.Objptr, types.Dict, error) {
	tok := b.readToken()
	if tok == keyword("xref") {
		return readXrefTable(d, b, size)
	}
	if _, ok := tok.(int64); ok {
		b.unreadToken(tok)
		return readXrefStream(d, b, size)
	}
	return nil, types.Objptr{}, nil, fmt.Errorf("cross-reference table not found: %v", tok)
}

func readXrefStream(d *Document, b *buffer, size int64) ([]types.Xref, types.Objptr, types.Dict, error) {
	obj1 := b.readObject()
	obj, ok := obj1.(types.Objdef)
	if !ok {
		return nil, types.Objptr{}, nil, fmt.Errorf("cross-reference stream not found: %v", objfmt(obj1))
	}
	strmPtr := obj.Ptr
	strm, ok := obj.Obj.(types.Stream)
	if !ok {
		return nil, types.Objptr{}, nil, fmt.Errorf("cross-reference stream not found: %v", objfmt(obj))
	}
	if strm.Hdr["Type"] != types.Name("XRef") {
		return nil, types.Objptr{}, nil, fmt.Errorf("xref stream missing /Type /XRef")
	}
	xrefSize, ok := strm.Hdr["Size"].(int64)
	if !ok {
		return nil, types.Objptr{}, nil, fmt.Errorf("xref stream missing /Size")
	}
	table := make([]types.Xref, xrefSize)
	table, err := readXrefStreamData(d, strm, table, xrefSize)
	if err != nil {
		return nil, types.Objptr{}, nil, err
	}

	for prevOff := strm.Hdr["Prev"]; prevOff != nil; {
		off, ok := prevOff.(int64)
		if !ok {
			return nil, types.Objptr{}, nil, fmt.Errorf("xref /Prev not an integer: %v", prevOff)
		}
		b := newBuffer(io.NewSectionReader(d.src, off, size-off), off)
		obj1 := b.readObject()
		obj, ok := obj1.(types.Objdef)
		if !ok {
			return nil, types.Objptr{}, nil, fmt.Errorf("xref /Prev stream not found: %v", objfmt(obj1))
		}
		prevStrm, ok := obj.Obj.(types.Stream)
		if !ok {
			return nil, types.Objptr{}, nil, fmt.Errorf("xref /Prev stream not found: %v", objfmt(obj))
		}
		prevOff = prevStrm.Hdr["Prev"]
		if prevStrm.Hdr["Type"] != types.Name("XRef") {
			return nil, types.Objptr{}, nil, fmt.Errorf("xref /Prev stream missing /Type /XRef")
		}
		psize, _ := prevStrm.Hdr["Size"].(int64)
		if psize > xrefSize {
			return nil, types.Objptr{}, nil, fmt.Errorf("xref /Prev stream larger than latest")
		}
		if table, err = readXrefStreamData(d, prevStrm, table, psize); err != nil {
			return nil, types.Objptr{}, nil, fmt.Errorf("reading xref /Prev stream: %v", err)
		}
	}

	return table, strmPtr, strm.Hdr, nil
}

func readXrefStreamData(d *Document, strm types.Stream, table []types.Xref, size int64) ([]types.Xref, error) {
	index, _ := strm.Hdr["Index"].(types.Array)
	if index == nil {
		index = types.Array{int64(0), size}
	}
	if len(index)%2 != 0 {
		return nil, fmt.Errorf("invalid /Index array %v", objfmt(index))
	}
	ww, ok := strm.Hdr["W"].(types.Array)
	if !ok {
		return nil, fmt.Errorf("xref stream missing /W array")
	}
	var w []int
	for _, x := range ww {
		i, ok := x.(int64)
		if !ok || int64(int(i)) != i {
			return nil, fmt.Errorf("invalid /W array %v", objfmt(ww))
		}
		w = append(w, int(i))
	}
	if len(w) < 3 {
		return nil, fmt.Errorf("invalid /W array %v", objfmt(ww))
	}

	v := Value{d: d, data: strm}
	wtotal := w[0] + w[1] + w[2]
	buf := make([]byte, wtotal)
	data := v.Reader()
	for len(index) > 0 {
		start, ok1 := index[0].(int64)
		n, ok2 := index[1].(int64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("malformed /Index pair")
		}
		index = index[2:]
		for i := 0; i < int(n); i++ {
			if _, err := io.ReadFull(data, buf); err != nil {
				return nil, fmt.Errorf("reading xref stream: %v", err)
			}
			typ := decodeInt(buf[0:w[0]])
			if w[0] == 0 {
				typ = 1
			}
			v2 := decodeInt(buf[w[0] : w[0]+w[1]])
			v3 := decodeInt(buf[w[0]+w[1] : w[0]+w[1]+w[2]])
			x := int(start) + i
			for cap(table) <= x {
				table = append(table[:cap(table)], types.Xref{})
			}
			if len(table) <= x {
				table = table[:x+1]
			}
			if table[x].Kind == types.XrefInUse || table[x].Kind == types.XrefCompressed {
				continue
			}
			switch typ {
			case 0:
				table[x] = types.Xref{Kind: types.XrefFree, Ptr: types.Objptr{Gen: 65535}}
			case 1:
				table[x] = types.Xref{Kind: types.XrefInUse, Ptr: types.Objptr{ID: uint32(x), Gen: uint16(v3)}, Offset: int64(v2)}
			case 2:
				table[x] = types.Xref{Kind: types.XrefCompressed, Ptr: types.Objptr{ID: uint32(x)}, Stream: types.Objptr{ID: uint32(v2)}, Index: int64(v3)}
			default:
				d.addWarning(&Error{Kind: KindXref, Msg: fmt.Sprintf("unknown xref entry type %d", typ)})
			}
		}
	}
	return table, nil
}

func decodeInt(b []byte) int {
	x := 0
	for _, c := range b {
		x = x<<8 | int(c)
	}
	return x
}

func readXrefTable(d *Document, b *buffer, size int64) ([]types.Xref, types.Objptr, types.Dict, error) {
	var table []types.Xref
	table, err := readXrefTableData(b, table)
	if err != nil {
		return nil, types.Objptr{}, nil, err
	}
	trailer, ok := b.readObject().(types.Dict)
	if !ok {
		return nil, types.Objptr{}, nil, fmt.Errorf("xref table not followed by trailer dictionary")
	}
	table = mergeHybridXRefStm(d, trailer, table, size)

	for prevOff := trailer["Prev"]; prevOff != nil; {
		off, ok := prevOff.(int64)
		if !ok {
			return nil, types.Objptr{}, nil, fmt.Errorf("xref /Prev not an integer: %v", prevOff)
		}
		b := newBuffer(io.NewSectionReader(d.src, off, size-off), off)
		tok := b.readToken()
		if tok != keyword("xref") {
			return nil, types.Objptr{}, nil, fmt.Errorf("xref /Prev does not point to xref table")
		}
		table, err = readXrefTableData(b, table)
		if err != nil {
			return nil, types.Objptr{}, nil, err
		}
		prevTrailer, ok := b.readObject().(types.Dict)
		if !ok {
			return nil, types.Objptr{}, nil, fmt.Errorf("xref /Prev table not followed by trailer dictionary")
		}
		prevOff = prevTrailer["Prev"]
		table = mergeHybridXRefStm(d, prevTrailer, table, size)
	}

	xrefSize, ok := trailer[types.Name("Size")].(int64)
	if !ok {
		return nil, types.Objptr{}, nil, fmt.Errorf("trailer missing /Size entry")
	}
	if xrefSize < int64(len(table)) {
		table = table[:xrefSize]
	}
	return table, types.Objptr{}, trailer, nil
}

// mergeHybridXRefStm checks level's trailer dictionary for a /XRefStm entry
// (§4.3: a hybrid-reference file's classic table points a newer reader at a
// cross-reference stream carrying compressed-object entries the table form
// cannot express) and merges it into table if present.
func mergeHybridXRefStm(d *Document, level types.Dict, table []types.Xref, size int64) []types.Xref {
	xoff, ok := level["XRefStm"].(int64)
	if !ok {
		return table
	}
	xb := newBuffer(io.NewSectionReader(d.src, xoff, size-xoff), xoff)
	if xt, _, _, err := readXrefStream(d, xb, size); err == nil {
		table = mergeXref(table, xt)
	}
	return table
}

func mergeXref(table, extra []types.Xref) []types.Xref {
	for cap(table) < len(extra) {
		table = append(table[:cap(table)], types.Xref{})
	}
	if len(table) < len(extra) {
		table = table[:len(extra)]
	}
	for i, x := range extra {
		if table[i].Kind != types.XrefInUse && table[i].Kind != types.XrefCompressed && x.Ptr != (types.Objptr{}) {
			table[i] = x
		}
	}
	return table
}

func readXrefTableData(b *buffer, table []types.Xref) ([]types.Xref, error) {
	for {
		tok := b.readToken()
		if tok == keyword("trailer") {
			break
		}
		start, ok1 := tok.(int64)
		n, ok2 := b.readToken().(int64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("malformed xref table subsection header")
		}
		for i := 0; i < int(n); i++ {
			off, ok1 := b.readToken().(int64)
			gen, ok2 := b.readToken().(int64)
			alloc, ok3 := b.readToken().(keyword)
			if !ok1 || !ok2 || !ok3 || (alloc != keyword("f") && alloc != keyword("n")) {
				return nil, fmt.Errorf("malformed xref table entry")
			}
			x := int(start) + i
			for cap(table) <= x {
				table = append(table[:cap(table)], types.Xref{})
			}
			if len(table) <= x {
				table = table[:x+1]
			}
			if table[x].Kind == types.XrefInUse || table[x].Kind == types.XrefCompressed {
				continue
			}
			if alloc == "n" {
				table[x] = types.Xref{Kind: types.XrefInUse, Ptr: types.Objptr{ID: uint32(x), Gen: uint16(gen)}, Offset: int64(off)}
			} else {
				table[x] = types.Xref{Kind: types.XrefFree, Ptr: types.Objptr{ID: uint32(x), Gen: uint16(gen)}}
			}
		}
	}
	return table, nil
}

// reconstructXref implements §4.3's recovery path: a linear scan of the
// whole file for "N G obj" markers, synthesizing a fresh xref table, plus
// a trailer built from the dictionary after the last "trailer" keyword in
// the file, when that parses. Without a trailer /Root, the first in-use
// object whose /Type is /Catalog becomes the /Root; /Size defaults to the
// length of the synthesized table.
func reconstructXref(d *Document, size int64) ([]types.Xref, types.Objptr, types.Dict, error) {
	const chunk = 1 << 20
	data := make([]byte, 0, size)
	buf := make([]byte, chunk)
	for off := int64(0); off < size; off += int64(chunk) {
		n := chunk
		if int64(n) > size-off {
			n = int(size - off)
		}
		m, _ := d.src.ReadAt(buf[:n], off)
		data = append(data, buf[:m]...)
	}

	var table []types.Xref
	var trailer types.Dict
	pos := 0
	for pos < len(data) {
		i := indexString(data[pos:], " obj")
		if i < 0 {
			break
		}
		objEnd := pos + i
		pos = objEnd + len(" obj")

		// Walk backwards over "<ws>N<ws>G" immediately preceding " obj".
		j := objEnd
		for j > 0 && isSpace(data[j-1]) {
			j--
		}
		genEnd := j
		for j > 0 && data[j-1] >= '0' && data[j-1] <= '9' {
			j--
		}
		genStart := j
		if genStart == genEnd {
			continue
		}
		for j > 0 && isSpace(data[j-1]) {
			j--
		}
		idEnd := j
		for j > 0 && data[j-1] >= '0' && data[j-1] <= '9' {
			j--
		}
		idStart := j
		if idStart == idEnd {
			continue
		}

		id := parseUint(data[idStart:idEnd])
		gen := parseUint(data[genStart:genEnd])
		off := int64(idStart)
		for cap(table) <= int(id) {
			table = append(table[:cap(table)], types.Xref{})
		}
		if len(table) <= int(id) {
			table = table[:id+1]
		}
		table[id] = types.Xref{Kind: types.XrefInUse, Ptr: types.Objptr{ID: uint32(id), Gen: uint16(gen)}, Offset: off}
	}

	if i := lastIndexString(data, "trailer"); i >= 0 {
		func() {
			defer func() { recover() }()
			b := newBuffer(bytes.NewReader(data[i+len("trailer"):]), int64(i+len("trailer")))
			if t, ok := b.readObject().(types.Dict); ok {
				trailer = t
			}
		}()
	}
	if trailer == nil {
		trailer = make(types.Dict)
	}
	if trailer["Root"] == nil {
		d := &Document{src: d.src, end: size, xref: table, cache: make(map[types.Objptr]Value)}
		for _, x := range table {
			if x.Kind != types.XrefInUse {
				continue
			}
			v := d.resolve(types.Objptr{}, x.Ptr)
			if v.Key("Type").Name() == "Catalog" {
				trailer["Root"] = x.Ptr
				break
			}
		}
	}
	if trailer["Size"] == nil {
		trailer["Size"] = int64(len(table))
	}
	return table, types.Objptr{}, trailer, nil
}

func parseUint(b []byte) uint64 {
	var x uint64
	for _, c := range b {
		x = x*10 + uint64(c-'0')
	}
	return x
}

func lastIndexString(data []byte, s string) int {
	bs := []byte(s)
	for i := len(data) - len(bs); i >= 0; i-- {
		if bytes.Equal(data[i:i+len(bs)], bs) {
			return i
		}
	}
	return -1
}

func (d *Document) initEncrypt(password string) error {
	encrypt, _ := d.resolve(types.Objptr{}, d.trailer["Encrypt"]).data.(types.Dict)
	if encrypt["Filter"] != types.Name("Standard") {
		return fmt.Errorf("unsupported encryption filter %v", objfmt(encrypt["Filter"]))
	}
	ids, ok := d.trailer["ID"].(types.Array)
	if !ok || len(ids) < 1 {
		return fmt.Errorf("missing /ID in trailer")
	}
	id, ok := ids[0].(string)
	if !ok {
		return fmt.Errorf("missing /ID in trailer")
	}
	dec, err := decrypter.New(password, encrypt, id)
	if err != nil {
		return err
	}
	d.decrypter = dec
	return nil
}
