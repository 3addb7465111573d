// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The stream filter pipeline (§4.6): FlateDecode and LZWDecode with PNG/TIFF
// predictors, ASCIIHexDecode, ASCII85Decode, RunLengthDecode, and
// passthrough handling for the image-only filters (CCITTFaxDecode,
// JBIG2Decode, DCTDecode, JPXDecode) whose raster decode is out of scope.

package playa

import (
	"bytes"
	"compress/lzw"
	"compress/zlib"
	"encoding/ascii85"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/dhdaines-go/playa/internal/types"
)

// newLZWReader decodes the PDF/TIFF variant of LZW (MSB-first bit packing,
// 9-bit initial code width). The early parameter matches /EarlyChange; the
// standard library's MSB decoder already assumes the early-change-by-one
// convention PDF writers universally produce, so it is accepted for
// interface symmetry with applyFilter's DecodeParms lookup but otherwise
// unused.
func newLZWReader(r io.Reader, early bool) io.Reader {
	return lzw.NewReader(r, lzw.MSB, 8)
}

type errorReadCloser struct{ err error }

func (e *errorReadCloser) Read([]byte) (int, error) { return 0, e.err }
func (e *errorReadCloser) Close() error              { return e.err }

func (d *Document) streamReader(s types.Stream, length int64) (io.Reader, error) {
	rd := io.NewSectionReader(d.src, s.Offset, length)
	if d.decrypter == nil {
		return rd, nil
	}
	return d.decrypter.Decrypt(s.Ptr, rd)
}

// rawReader returns the stream's bytes after decryption but before any
// /Filter is applied.
func (v Value) rawReader() io.Reader {
	x, ok := v.data.(types.Stream)
	if !ok {
		return &errorReadCloser{fmt.Errorf("stream not present")}
	}
	length := v.Key("Length").Int64()
	rd, err := v.d.streamReader(x, length)
	if err != nil {
		return &errorReadCloser{fmt.Errorf("decrypting stream: %w", err)}
	}
	return rd
}

// Reader returns the fully decoded bytes of the stream v: decrypted, then
// run through each entry of /Filter in order with its matching
// /DecodeParms (§4.6). If v.Kind() != StreamKind, Reader returns a
// ReadCloser that fails every read.
func (v Value) Reader() io.ReadCloser {
	if v.Kind() != StreamKind {
		return &errorReadCloser{fmt.Errorf("stream not present")}
	}
	rd := v.rawReader()
	filter := v.Key("Filter")
	param := v.Key("DecodeParms")
	switch filter.Kind() {
	case NullKind:
		// no filters
	case NameKind:
		rd = applyFilter(v.d, rd, filter.Name(), param)
	case ArrayKind:
		for i := 0; i < filter.Len(); i++ {
			rd = applyFilter(v.d, rd, filter.Index(i).Name(), param.Index(i))
		}
	}
	if rc, ok := rd.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(rd)
}

func applyFilter(d *Document, rd io.Reader, name string, param Value) io.Reader {
	switch name {
	case "FlateDecode", "Fl":
		zr, err := zlib.NewReader(rd)
		if err != nil {
			return &errorReadCloser{fmt.Errorf("FlateDecode: %w", err)}
		}
		return applyPredictor(zr, param)

	case "LZWDecode", "LZW":
		early := int64(1)
		if e := param.Key("EarlyChange"); e.Kind() == IntegerKind {
			early = e.Int64()
		}
		return applyPredictor(newLZWReader(rd, early != 0), param)

	case "ASCIIHexDecode", "AHx":
		return hex.NewDecoder(newHexAlphaReader(rd))

	case "ASCII85Decode", "A85":
		return ascii85.NewDecoder(newAlphaReader(rd))

	case "RunLengthDecode", "RL":
		return newRunLengthReader(rd)

	case "CCITTFaxDecode", "CCF", "JBIG2Decode", "DCTDecode", "DCT", "JPXDecode":
		// Raster decode of image-only filters is out of scope (§Non-goals);
		// the encoded bytes are passed through unchanged so callers that
		// only want the raw payload (e.g. to re-embed it) still get it.
		d.addWarning(&Error{Kind: KindFilter, Msg: fmt.Sprintf("filter %s passed through undecoded", name)})
		return rd

	case "Crypt":
		return rd

	default:
		d.addWarning(&Error{Kind: KindFilter, Msg: fmt.Sprintf("unknown filter %q", name)})
		return rd
	}
}

// applyPredictor implements the PNG (Predictor 10-15) and TIFF (Predictor 2)
// pre-compression filters of §4.6. Predictor absent or 1 means "no predictor".
func applyPredictor(r io.Reader, param Value) io.Reader {
	pred := param.Key("Predictor")
	if pred.Kind() == NullKind || pred.Int64() <= 1 {
		return r
	}
	colors := int64(1)
	if c := param.Key("Colors"); c.Kind() == IntegerKind {
		colors = c.Int64()
	}
	bpc := int64(8)
	if b := param.Key("BitsPerComponent"); b.Kind() == IntegerKind {
		bpc = b.Int64()
	}
	columns := int64(1)
	if c := param.Key("Columns"); c.Kind() == IntegerKind {
		columns = c.Int64()
	}
	bpp := int((colors*bpc + 7) / 8)
	if bpp < 1 {
		bpp = 1
	}
	rowlen := int((colors*bpc*columns + 7) / 8)

	if pred.Int64() == 2 {
		return &tiffPredictorReader{r: r, bpp: bpp, rowlen: rowlen, row: make([]byte, rowlen)}
	}
	return &pngPredictorReader{r: r, bpp: bpp, rowlen: rowlen, hist: make([]byte, rowlen), tmp: make([]byte, rowlen+1)}
}

// pngPredictorReader undoes the per-row PNG predictor tag (§4.6): None, Sub,
// Up, Average, Paeth.
type pngPredictorReader struct {
	r      io.Reader
	bpp    int
	rowlen int
	hist   []byte
	tmp    []byte
	pend   []byte
}

func (p *pngPredictorReader) Read(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if len(p.pend) > 0 {
			m := copy(b, p.pend)
			n += m
			b = b[m:]
			p.pend = p.pend[m:]
			continue
		}
		if _, err := io.ReadFull(p.r, p.tmp); err != nil {
			return n, err
		}
		tag := p.tmp[0]
		cur := p.tmp[1:]
		for i := range cur {
			var left, up, upleft byte
			if i >= p.bpp {
				left = cur[i-p.bpp]
				upleft = p.hist[i-p.bpp]
			}
			up = p.hist[i]
			switch tag {
			case 0: // None
			case 1: // Sub
				cur[i] += left
			case 2: // Up
				cur[i] += up
			case 3: // Average
				cur[i] += byte((int(left) + int(up)) / 2)
			case 4: // Paeth
				cur[i] += paeth(left, up, upleft)
			}
		}
		copy(p.hist, cur)
		p.pend = p.hist
	}
	return n, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// tiffPredictorReader undoes TIFF Predictor 2: each sample is a delta from
// the sample bpp bytes to its left within the row (byte-wise, per §4.6).
type tiffPredictorReader struct {
	r      io.Reader
	bpp    int
	rowlen int
	row    []byte
}

func (t *tiffPredictorReader) Read(b []byte) (int, error) {
	if _, err := io.ReadFull(t.r, t.row); err != nil {
		return 0, err
	}
	for i := t.bpp; i < len(t.row); i++ {
		t.row[i] += t.row[i-t.bpp]
	}
	return copy(b, t.row), nil
}

// newAlphaReader strips whitespace from an ASCII85 stream and cuts it at
// the "~>" end-of-data marker, which encoding/ascii85 rejects as illegal
// input.
func newAlphaReader(r io.Reader) io.Reader {
	data, _ := io.ReadAll(r)
	out := data[:0]
	for _, c := range data {
		if c == '~' {
			break
		}
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v' {
			continue
		}
		out = append(out, c)
	}
	return bytes.NewReader(out)
}

// newHexAlphaReader strips whitespace from an ASCIIHex stream and supplies
// the implicit trailing 0 nibble if the stream ends on an odd digit count.
func newHexAlphaReader(r io.Reader) io.Reader {
	data, _ := io.ReadAll(r)
	out := data[:0]
	for _, c := range data {
		if c == '>' {
			break
		}
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v' {
			continue
		}
		out = append(out, c)
	}
	if len(out)%2 == 1 {
		out = append(out, '0')
	}
	return bytes.NewReader(out)
}

// newRunLengthReader implements RunLengthDecode (§4.6): a length byte 0-127
// means "copy the next length+1 bytes literally"; 129-255 means "repeat the
// next byte 257-length times"; 128 is EOD.
type runLengthReader struct {
	r    io.Reader
	pend []byte
	buf  []byte
	done bool
}

func newRunLengthReader(r io.Reader) io.Reader {
	return &runLengthReader{r: r, buf: make([]byte, 1)}
}

func (rl *runLengthReader) Read(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if len(rl.pend) > 0 {
			m := copy(b, rl.pend)
			n += m
			b = b[m:]
			rl.pend = rl.pend[m:]
			continue
		}
		if rl.done {
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		}
		if _, err := io.ReadFull(rl.r, rl.buf); err != nil {
			rl.done = true
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		}
		length := rl.buf[0]
		switch {
		case length == 128:
			rl.done = true
		case length < 128:
			lit := make([]byte, int(length)+1)
			if _, err := io.ReadFull(rl.r, lit); err != nil {
				rl.done = true
				continue
			}
			rl.pend = lit
		default:
			rep := make([]byte, 1)
			if _, err := io.ReadFull(rl.r, rep); err != nil {
				rl.done = true
				continue
			}
			count := 257 - int(length)
			pend := make([]byte, count)
			for i := range pend {
				pend[i] = rep[0]
			}
			rl.pend = pend
		}
	}
	return n, nil
}
