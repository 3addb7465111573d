// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Reading of PDF tokens and objects from a raw byte stream (§4.1, §4.2).

package playa

import (
	"io"
	"strconv"
	"strings"

	"github.com/dhdaines-go/playa/internal/decrypter"
	"github.com/dhdaines-go/playa/internal/types"
)

// token is a PDF token in the input stream, one of the following Go types:
//
//	bool, a PDF boolean
//	int64, a PDF integer
//	float64, a PDF real
//	string, a PDF string literal (parenthesized or hex)
//	keyword, a PDF keyword or structural delimiter
//	types.Name, a PDF name without the leading slash
type token any

// keyword is a PDF keyword. Delimiter tokens used in higher-level syntax
// ("<<", ">>", "[", "]") are also represented as keywords.
type keyword string

// buffer holds buffered input bytes read from one section of the file
// (§4.1 "random-access byte source"). It implements both the raw
// tokenizer and, via readObject, the composite-value grammar of §4.2.
type buffer struct {
	r           io.Reader
	buf         []byte
	pos         int
	offset      int64
	tmp         []byte
	unread      []token
	allowEOF    bool
	allowObjptr bool
	allowStream bool
	eof         bool
	decrypter   *decrypter.Decrypter
	objptr      types.Objptr
}

func newBuffer(r io.Reader, offset int64) *buffer {
	return &buffer{
		r:           r,
		offset:      offset,
		buf:         make([]byte, 0, 4096),
		allowObjptr: true,
		allowStream: true,
	}
}

func (b *buffer) readByte() byte {
	if b.pos >= len(b.buf) {
		b.reload()
		if b.pos >= len(b.buf) {
			return '\n'
		}
	}
	c := b.buf[b.pos]
	b.pos++
	return c
}

// errorf records a structured Lex error (§7) and panics so that a recover
// further up — in Document.resolve, Page.Objects, or safeFindXrefChain —
// can unwind to the nearest object boundary.
func (b *buffer) errorf(format string, args ...any) {
	panic(newError(KindLex, offsetAt(b.readOffset()), format, args...))
}

func (b *buffer) reload() bool {
	n := cap(b.buf) - int(b.offset%int64(cap(b.buf)))
	n, err := b.r.Read(b.buf[:n])
	if n == 0 && err != nil {
		b.buf = b.buf[:0]
		b.pos = 0
		if b.allowEOF && err == io.EOF {
			b.eof = true
			return false
		}
		b.errorf("reading at offset %d: %v", b.offset, err)
		return false
	}
	b.offset += int64(n)
	b.buf = b.buf[:n]
	b.pos = 0
	return true
}

func (b *buffer) seekForward(offset int64) {
	for b.offset < offset {
		if !b.reload() {
			return
		}
	}
	b.pos = len(b.buf) - int(b.offset-offset)
}

func (b *buffer) readOffset() int64 {
	return b.offset - int64(len(b.buf)) + int64(b.pos)
}

func (b *buffer) unreadByte() {
	if b.pos > 0 {
		b.pos--
	}
}

func (b *buffer) unreadToken(t token) {
	b.unread = append(b.unread, t)
}

func (b *buffer) readToken() token {
	if n := len(b.unread); n > 0 {
		t := b.unread[n-1]
		b.unread = b.unread[:n-1]
		return t
	}

	c := b.readByte()
	for {
		if isSpace(c) {
			if b.eof {
				return io.EOF
			}
			c = b.readByte()
		} else if c == '%' {
			for c != '\r' && c != '\n' {
				if b.eof {
					return io.EOF
				}
				c = b.readByte()
			}
		} else {
			break
		}
	}

	switch c {
	case '<':
		if b.readByte() == '<' {
			return keyword("<<")
		}
		b.unreadByte()
		return b.readHexString()

	case '(':
		return b.readLiteralString()

	case '[', ']', '{', '}':
		return keyword(string(c))

	case '/':
		return b.readName()

	case '>':
		if b.readByte() == '>' {
			return keyword(">>")
		}
		b.unreadByte()
		fallthrough

	default:
		if isDelim(c) {
			b.errorf("unexpected delimiter %#q", rune(c))
			return nil
		}
		b.unreadByte()
		return b.readKeyword()
	}
}

// readHexString implements §4.1: whitespace inside the string is ignored,
// and a trailing lone nibble is padded with 0.
func (b *buffer) readHexString() token {
	tmp := b.tmp[:0]
	for {
		var c byte
		for {
			c = b.readByte()
			if !isSpace(c) {
				break
			}
		}
		if c == '>' {
			break
		}
		var c2 byte
		gotClose := false
		for {
			c2 = b.readByte()
			if c2 == '>' {
				gotClose = true
				break
			}
			if !isSpace(c2) {
				break
			}
		}
		if gotClose {
			x := unhex(c)
			if x < 0 {
				b.errorf("malformed hex string")
			}
			tmp = append(tmp, byte(x<<4))
			break
		}
		x := unhex(c)<<4 | unhex(c2)
		if x < 0 {
			b.errorf("malformed hex string %c %c", c, c2)
			break
		}
		tmp = append(tmp, byte(x))
	}
	b.tmp = tmp
	return string(tmp)
}

func unhex(b byte) int {
	switch {
	case '0' <= b && b <= '9':
		return int(b) - '0'
	case 'a' <= b && b <= 'f':
		return int(b) - 'a' + 10
	case 'A' <= b && b <= 'F':
		return int(b) - 'A' + 10
	}
	return -1
}

// readLiteralString implements §4.1: nested unescaped parentheses,
// \n \r \t \b \f \( \) \\, \ooo octal (1-3 digits, wraps mod 256), and
// backslash-EOL line continuation (LF, CR, or CRLF, consumed and dropped).
func (b *buffer) readLiteralString() token {
	tmp := b.tmp[:0]
	depth := 1
Loop:
	for !b.eof {
		c := b.readByte()
		switch c {
		default:
			tmp = append(tmp, c)
		case '(':
			depth++
			tmp = append(tmp, c)
		case ')':
			if depth--; depth == 0 {
				break Loop
			}
			tmp = append(tmp, c)
		case '\\':
			switch c = b.readByte(); c {
			default:
				tmp = append(tmp, c)
			case 'n':
				tmp = append(tmp, '\n')
			case 'r':
				tmp = append(tmp, '\r')
			case 'b':
				tmp = append(tmp, '\b')
			case 't':
				tmp = append(tmp, '\t')
			case 'f':
				tmp = append(tmp, '\f')
			case '(', ')', '\\':
				tmp = append(tmp, c)
			case '\r':
				if b.readByte() != '\n' {
					b.unreadByte()
				}
				// line continuation: no append
			case '\n':
				// line continuation: no append
			case '0', '1', '2', '3', '4', '5', '6', '7':
				x := int(c - '0')
				for i := 0; i < 2; i++ {
					c = b.readByte()
					if c < '0' || c > '7' {
						b.unreadByte()
						break
					}
					x = x*8 + int(c-'0')
				}
				tmp = append(tmp, byte(x%256))
			}
		}
	}
	b.tmp = tmp
	return string(tmp)
}

func (b *buffer) readName() token {
	tmp := b.tmp[:0]
	for {
		c := b.readByte()
		if isDelim(c) || isSpace(c) {
			b.unreadByte()
			break
		}
		if c == '#' {
			x := unhex(b.readByte())<<4 | unhex(b.readByte())
			if x < 0 {
				b.errorf("malformed name escape")
			}
			tmp = append(tmp, byte(x))
			continue
		}
		tmp = append(tmp, c)
	}
	b.tmp = tmp
	return types.Name(string(tmp))
}

func (b *buffer) readKeyword() token {
	tmp := b.tmp[:0]
	for {
		c := b.readByte()
		if isDelim(c) || isSpace(c) {
			b.unreadByte()
			break
		}
		tmp = append(tmp, c)
	}
	b.tmp = tmp
	s := string(tmp)
	switch {
	case s == "true":
		return true
	case s == "false":
		return false
	case isInteger(s):
		x, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			b.errorf("invalid integer %s", s)
		}
		return x
	case isReal(s):
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			b.errorf("invalid real %s", s)
		}
		return x
	}
	return keyword(s)
}

func isInteger(s string) bool {
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if c < '0' || '9' < c {
			return false
		}
	}
	return true
}

func isReal(s string) bool {
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if len(s) == 0 {
		return false
	}
	ndot := 0
	for _, c := range s {
		if c == '.' {
			ndot++
			continue
		}
		if c < '0' || '9' < c {
			return false
		}
	}
	return ndot <= 1 && len(s) > ndot
}

// readObject implements §4.2's composite grammar on top of readToken:
// arrays, dictionaries (+ stream payload), indirect references, and
// indirect object definitions. String tokens belonging to an indirect
// object under decryption are decrypted here, exactly once, before any
// filter decoding happens downstream (§4.4 invariant).
func (b *buffer) readObject() types.Object {
	tok := b.readToken()
	if kw, ok := tok.(keyword); ok {
		switch kw {
		case "null":
			return nil
		case "<<":
			return b.readDict()
		case "[":
			return b.readArray()
		}
		b.errorf("unexpected keyword %q parsing object", kw)
		return nil
	}

	if str, ok := tok.(string); ok && b.objptr.ID != 0 && b.decrypter != nil {
		r, err := b.decrypter.Decrypt(b.objptr, strings.NewReader(str))
		if err != nil {
			b.errorf("failed to decrypt string: %s", err)
		}
		bb, err := io.ReadAll(r)
		if err != nil {
			b.errorf("failed to read decrypted string: %s", err)
		}
		tok = string(bb)
	}

	if !b.allowObjptr {
		return tok
	}

	if t1, ok := tok.(int64); ok && int64(uint32(t1)) == t1 {
		tok2 := b.readToken()
		if t2, ok := tok2.(int64); ok && int64(uint16(t2)) == t2 {
			tok3 := b.readToken()
			switch tok3 {
			case keyword("R"):
				return types.Objptr{ID: uint32(t1), Gen: uint16(t2)}
			case keyword("obj"):
				old := b.objptr
				b.objptr = types.Objptr{ID: uint32(t1), Gen: uint16(t2)}
				obj := b.readObject()
				if _, ok := obj.(types.Stream); !ok {
					tok4 := b.readToken()
					if tok4 != keyword("endobj") {
						b.unreadToken(tok4)
					}
				}
				b.objptr = old
				return types.Objdef{Ptr: types.Objptr{ID: uint32(t1), Gen: uint16(t2)}, Obj: obj}
			}
			b.unreadToken(tok3)
		}
		b.unreadToken(tok2)
	}
	return tok
}

func (b *buffer) readArray() types.Object {
	var x types.Array
	for {
		tok := b.readToken()
		if tok == io.EOF {
			b.errorf("stream ended with open array")
		}
		if tok == nil || tok == keyword("]") {
			break
		}
		b.unreadToken(tok)
		x = append(x, b.readObject())
	}
	return x
}

func (b *buffer) readDict() types.Object {
	x := make(types.Dict)
	for {
		tok := b.readToken()
		if tok == io.EOF {
			b.errorf("stream ended with open dict")
		}
		if tok == nil || tok == keyword(">>") {
			break
		}
		n, ok := tok.(types.Name)
		if !ok {
			b.errorf("unexpected non-name key %#v parsing dictionary", tok)
			continue
		}
		x[n] = b.readObject() // last-wins on duplicate keys (§4.2)
	}

	if !b.allowStream {
		return x
	}

	tok := b.readToken()
	if tok != keyword("stream") {
		b.unreadToken(tok)
		return x
	}

	switch b.readByte() {
	case '\r':
		if b.readByte() != '\n' {
			b.unreadByte()
		}
	case '\n':
		// ok
	default:
		b.errorf("stream keyword not followed by newline")
	}

	return types.Stream{Hdr: x, Ptr: b.objptr, Offset: b.readOffset()}
}

// readInlineImageData consumes the raw byte payload of an inline image
// (§4.8 "BI ... ID ... EI"), honoring the inline dictionary's /Length when
// known (length >= 0). Otherwise it scans forward for the first
// whitespace-delimited "EI" and returns everything before it, leaving the
// buffer positioned just past the consumed "EI" so the caller does not
// tokenize it again.
func (b *buffer) readInlineImageData(length int64) string {
	// Skip the single whitespace byte that separates ID from the data.
	if c := b.readByte(); !isSpace(c) {
		b.unreadByte()
	}
	if length >= 0 {
		tmp := make([]byte, length)
		for i := range tmp {
			tmp[i] = b.readByte()
		}
		return string(tmp)
	}

	var tmp []byte
	for {
		c := b.readByte()
		tmp = append(tmp, c)
		if n := len(tmp); n >= 3 && tmp[n-1] == 'I' && tmp[n-2] == 'E' && isSpace(tmp[n-3]) {
			return string(tmp[:n-3])
		}
		if b.eof {
			return string(tmp)
		}
	}
}

func isSpace(c byte) bool {
	switch c {
	case '\x00', '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '<', '>', '(', ')', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// skipJunkHeader scans up to 4 KiB for the "%PDF-" header, per §4.1
// ("Junk bytes before the first %PDF- header are skipped (up to 4 KiB)").
// It returns the byte offset of the header, or -1 if none was found.
func skipJunkHeader(src ByteSource) int {
	n := 4096
	if src.Len() < int64(n) {
		n = int(src.Len())
	}
	buf := make([]byte, n)
	src.ReadAt(buf, 0)
	return indexString(buf, "%PDF-")
}

func indexString(buf []byte, s string) int {
	bs := []byte(s)
Outer:
	for i := 0; i+len(bs) <= len(buf); i++ {
		for j := range bs {
			if buf[i+j] != bs[j] {
				continue Outer
			}
		}
		return i
	}
	return -1
}
