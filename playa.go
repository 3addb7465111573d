// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package playa implements low-level access to a PDF document's indirect
// object graph, page tree, content streams, and logical structure tree,
// and, for each page, the absolute position and attributes of every
// character, path segment, and image it draws — without performing
// heuristic layout analysis (text-flow/column reconstruction is explicitly
// out of scope; see the outline and flatten packages for convenience views
// built on top of this one).
//
// A PDF is, at its core, a graph of Values: Null, Bool, Integer, Real,
// Name, String, Array, Dict, and Stream (§3). The accessors on Value
// (Int64, Float64, Name, ...) return the zero value when the kind doesn't
// match, so traversal code can walk the graph without constant type
// assertions — at the cost of silently swallowing the occasional mistake,
// the same tradeoff the teacher this package is forked from made.
//
// Open returns a Document. From there, Document.Page walks the page tree
// (§4.7) and Page.Objects runs the content-stream interpreter (§4.8) to
// yield the typed content records described in §3 and §6.
package playa

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dhdaines-go/playa/internal/decrypter"
	"github.com/dhdaines-go/playa/internal/logging"
	"github.com/dhdaines-go/playa/internal/types"
)

// Kind identifies the category of a decode failure (§7). Kinds are data,
// not Go error types, so callers branch on them with errors.As(&playaErr)
// and a switch on Kind rather than a type switch.
type Kind string

const (
	KindLex         Kind = "Lex"
	KindParse       Kind = "Parse"
	KindXref        Kind = "Xref"
	KindCrypt       Kind = "Crypt"
	KindFilter      Kind = "Filter"
	KindResolve     Kind = "Resolve"
	KindInterp      Kind = "Interp"
	KindFont        Kind = "Font"
	KindUnsupported Kind = "Unsupported"
)

// Error is the error surface of §6/§7: a kind, an optional byte offset,
// and a message.
type Error struct {
	Kind   Kind
	Offset *int64 // nil when the failure has no associated byte position
	Msg    string
}

func (e *Error) Error() string {
	if e.Offset != nil {
		return fmt.Sprintf("playa: %s at offset %d: %s", e.Kind, *e.Offset, e.Msg)
	}
	return fmt.Sprintf("playa: %s: %s", e.Kind, e.Msg)
}

func newError(kind Kind, offset *int64, format string, args ...any) *Error {
	return &Error{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func offsetAt(o int64) *int64 { return &o }

// ByteSource is the random-access byte-source contract of §6: total length
// plus read of an arbitrary [offset, length) window. *os.File and
// *bytes.Reader both satisfy io.ReaderAt directly.
type ByteSource interface {
	io.ReaderAt
	Len() int64
}

type sizedReaderAt struct {
	io.ReaderAt
	size int64
}

func (s sizedReaderAt) Len() int64 { return s.size }

// Document is a single PDF file open for reading (§3). It owns the
// underlying byte buffer, the merged xref index, the trailer dictionary,
// the security handler (if any), and a resolver cache. A Document has no
// mutating methods once opened, and its resolver cache and warning log are
// guarded by mutexes, so distinct pages may be interpreted from several
// goroutines at once (package playapar does this).
type Document struct {
	src ByteSource
	end int64

	xref       []types.Xref
	trailer    types.Dict
	trailerPtr types.Objptr
	decrypter  *decrypter.Decrypter

	cacheMu sync.Mutex
	cache   map[types.Objptr]Value

	warnMu   sync.Mutex
	warnings []*Error

	closer io.Closer // set by OpenFile; nil otherwise
}

// OpenFile opens the named file for reading. The returned Document holds
// the *os.File open; call Document.Close when done.
func OpenFile(path string, password string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	d, err := Open(sizedReaderAt{f, fi.Size()}, password)
	if err != nil {
		f.Close()
		return nil, err
	}
	d.closer = f
	return d, nil
}

// Open opens the document held in src for reading. If the document is
// encrypted (trailer /Encrypt present), password is tried as the user
// password; the empty string is the default per §4.4.
func Open(src ByteSource, password string) (*Document, error) {
	return open(src, password)
}

// OpenBytes opens a PDF already fully read into memory.
func OpenBytes(data []byte, password string) (*Document, error) {
	return Open(sizedReaderAt{bytes.NewReader(data), int64(len(data))}, password)
}

// Close releases resources acquired by OpenFile. It is a no-op for
// documents opened with Open/OpenBytes.
func (d *Document) Close() error {
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}

func (d *Document) addWarning(e *Error) {
	d.warnMu.Lock()
	d.warnings = append(d.warnings, e)
	d.warnMu.Unlock()
	logging.Warn(e.Msg, "kind", string(e.Kind))
}

// Warnings returns the structured warning log accumulated so far (§6, §7).
// It never blocks iteration and is safe to call concurrently with reads
// performed by the same Document from a single goroutine.
func (d *Document) Warnings() []*Error {
	d.warnMu.Lock()
	defer d.warnMu.Unlock()
	out := make([]*Error, len(d.warnings))
	copy(out, d.warnings)
	return out
}

// Trailer returns the document's trailer dictionary as a Value.
func (d *Document) Trailer() Value {
	return Value{d: d, ptr: d.trailerPtr, data: d.trailer}
}

// Catalog returns the document catalog (trailer's /Root).
func (d *Document) Catalog() Value {
	return d.Trailer().Key("Root")
}
