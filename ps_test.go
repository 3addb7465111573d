package playa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestInterpretDictDefLookup exercises the dict/begin/def/end/currentdict
// machinery used to parse CMap resources: a dict is built, entered, given
// one key via def, and currentdict then pushes it for the next operator.
func TestInterpretDictDefLookup(t *testing.T) {
	src := "1 dict begin /Foo 42 def currentdict lookup"
	var ops []string
	var vals []Value
	interpret(strings.NewReader(src), func(stk *stack, op string, _ *buffer) {
		ops = append(ops, op)
		if op == "lookup" {
			vals = append(vals, stk.Pop())
		}
	})
	assert.Equal(t, []string{"lookup"}, ops, "a single unrecognized operator should invoke the callback once")
	if assert.Len(t, vals, 1, "lookup should receive one operand") {
		assert.Equal(t, DictKind, vals[0].Kind(), "currentdict should have pushed the open dict")
	}
}

// TestInterpretNameResolvesFromOpenDict exercises the name-lookup fallback
// in the default case of interpret's switch: a bare name found in an open
// dict is pushed rather than treated as an operator invocation.
func TestInterpretNameResolvesFromOpenDict(t *testing.T) {
	src := "1 dict begin /Count 3 def Count show"
	var shown []Value
	interpret(strings.NewReader(src), func(stk *stack, op string, _ *buffer) {
		if op == "show" {
			shown = append(shown, stk.Pop())
		}
	})
	if assert.Len(t, shown, 1, "show should receive one operand") {
		assert.Equal(t, int64(3), shown[0].Int64(), "the bare name Count should resolve to its bound value")
	}
}

func TestInterpretDupPop(t *testing.T) {
	var shown []Value
	interpret(strings.NewReader("5 dup pop show"), func(stk *stack, op string, _ *buffer) {
		if op == "show" {
			shown = append(shown, stk.Pop())
		}
	})
	if assert.Len(t, shown, 1, "dup then pop should leave exactly one value") {
		assert.Equal(t, int64(5), shown[0].Int64())
	}
}

func TestInterpretUnknownOperatorInvokesCallback(t *testing.T) {
	var ops []string
	interpret(strings.NewReader("1 2 add"), func(stk *stack, op string, _ *buffer) {
		ops = append(ops, op)
		stk.Pop()
		stk.Pop()
	})
	assert.Equal(t, []string{"add"}, ops)
}

func TestInterpretEndWithoutBeginTolerated(t *testing.T) {
	var ops []string
	interpret(strings.NewReader("end 1 show"), func(stk *stack, op string, _ *buffer) {
		ops = append(ops, op)
		stk.Pop()
	})
	assert.Equal(t, []string{"show"}, ops, "a stray end with no matching begin should be silently absorbed")
}
