// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package playa

import (
	"io"

	"github.com/dhdaines-go/playa/internal/types"
)

// A stack represents a stack of values, used by interpret below.
type stack struct {
	stack []Value
}

func (stk *stack) Len() int { return len(stk.stack) }

func (stk *stack) Push(v Value) { stk.stack = append(stk.stack, v) }

func (stk *stack) Pop() Value {
	n := len(stk.stack)
	if n == 0 {
		return Value{}
	}
	v := stk.stack[n-1]
	stk.stack[n-1] = Value{}
	stk.stack = stk.stack[:n-1]
	return v
}

func newDict() Value {
	return Value{data: make(types.Dict)}
}

// interpret interprets the content in a stream as a basic PostScript
// program, pushing values onto a stack and calling do to execute operators.
// It handles "dict", "currentdict", "begin", "end", "def", "pop", and "dup"
// itself. interpret is not a full PostScript interpreter: its only job is
// the very limited PostScript found in CMap resources (§4.9), and it has
// no support for executable blocks.
func interpret(rd io.Reader, do func(stk *stack, op string, b *buffer)) {
	b := newBuffer(rd, 0)
	b.allowEOF = true
	b.allowObjptr = false
	b.allowStream = false
	var stk stack
	var dicts []types.Dict
Reading:
	for {
		tok := b.readToken()
		if tok == io.EOF {
			break
		}
		if kw, ok := tok.(keyword); ok {
			switch kw {
			default:
				for i := len(dicts) - 1; i >= 0; i-- {
					if v, ok := dicts[i][types.Name(kw)]; ok {
						stk.Push(Value{data: v})
						continue Reading
					}
				}
				do(&stk, string(kw), b)
				continue
			case "null", "[", "]", "<<", ">>":
				break
			case "dict":
				stk.Pop()
				stk.Push(Value{data: make(types.Dict)})
				continue
			case "currentdict":
				if len(dicts) == 0 {
					continue
				}
				stk.Push(Value{data: dicts[len(dicts)-1]})
				continue
			case "begin":
				d := stk.Pop()
				if d.Kind() != DictKind {
					continue
				}
				dicts = append(dicts, d.data.(types.Dict))
				continue
			case "end":
				if len(dicts) > 0 {
					dicts = dicts[:len(dicts)-1]
				}
				continue
			case "def":
				if len(dicts) == 0 {
					continue
				}
				val := stk.Pop()
				key, ok := stk.Pop().data.(types.Name)
				if !ok {
					continue
				}
				dicts[len(dicts)-1][key] = val.data
				continue
			case "pop":
				stk.Pop()
				continue
			case "dup":
				val := stk.Pop()
				stk.Push(val)
				stk.Push(val)
				continue
			}
		}
		b.unreadToken(tok)
		obj := b.readObject()
		stk.Push(Value{data: obj})
	}
}
