// The content-stream interpreter (§4.8): graphics-state stack, path
// building, text positioning, marked-content nesting, and XObject
// invocation, each content-painting operator emitting one Object.

package playa

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/dhdaines-go/playa/internal/state"
	"github.com/dhdaines-go/playa/internal/types"
)

// interpState holds the mutable machinery threaded through one content
// stream and any Form XObjects it invokes.
type interpState struct {
	d       *Document
	g       state.Graphics
	marked  state.MarkedStack
	fonts   map[string]state.Font
	objects []Object
	depth   int
}

const maxFormDepth = 16

// Objects runs the content-stream interpreter over the page's content
// streams and resources, returning the typed records of §6 in paint order.
func (p Page) Objects() (objs []Object, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Kind: KindInterp, Msg: fmt.Sprintf("interpreting content stream: %v\n%s", r, debug.Stack())}
		}
	}()

	is := &interpState{d: p.v.d, fonts: map[string]state.Font{}}
	is.g = *state.New()
	is.run(p.v.Key("Contents"), p.resources())
	is.g.SynthesizeRestores()
	return is.objects, nil
}

func (is *interpState) run(contents Value, resources Value) {
	var rr []io.Reader
	switch contents.Kind() {
	case StreamKind:
		rr = append(rr, contents.Reader())
	case ArrayKind:
		for i := 0; i < contents.Len(); i++ {
			if s := contents.Index(i); s.Kind() == StreamKind {
				rr = append(rr, s.Reader())
			}
		}
	default:
		return
	}
	interpret(io.MultiReader(rr...), func(stk *stack, op string, b *buffer) {
		is.step(stk, op, resources, b)
	})
}

func (is *interpState) font(resources Value, name string) state.Font {
	if f, ok := is.fonts[name]; ok {
		return f
	}
	f := newResourceFont(resources.Key("Font").Key(name))
	is.fonts[name] = f
	return f
}

func (is *interpState) emit(kind ObjectKind) Object {
	return Object{
		Kind:   kind,
		Matrix: is.g.CTM(),
		Fill:   is.g.Fill,
		Stroke: is.g.Stroke,
		Marked: is.marked.Snapshot(),
	}
}

func (is *interpState) step(stk *stack, op string, resources Value, b *buffer) {
	n := stk.Len()
	args := make([]Value, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = stk.Pop()
	}

	switch op {
	case "q":
		is.g.Push()
	case "Q":
		is.g.Pop()
	case "cm":
		is.g.CM(args[0].Float64(), args[1].Float64(), args[2].Float64(), args[3].Float64(), args[4].Float64(), args[5].Float64())
	case "w":
		is.g.SetLineWidth(args[0].Float64())
	case "J":
		is.g.SetLineCap(int(args[0].Int64()))
	case "j":
		is.g.SetLineJoin(int(args[0].Int64()))
	case "M":
		is.g.SetMiterLimit(args[0].Float64())
	case "d":
		is.g.SetDash(toFloats(args[0]), args[1].Float64())
	case "ri":
		is.g.SetIntent(args[0].Name())
	case "i":
		is.g.SetFlatness(args[0].Float64())

	case "g":
		is.g.SetFill("DeviceGray", toFloats64(args))
	case "G":
		is.g.SetStroke("DeviceGray", toFloats64(args))
	case "rg":
		is.g.SetFill("DeviceRGB", toFloats64(args))
	case "RG":
		is.g.SetStroke("DeviceRGB", toFloats64(args))
	case "k":
		is.g.SetFill("DeviceCMYK", toFloats64(args))
	case "K":
		is.g.SetStroke("DeviceCMYK", toFloats64(args))
	case "cs":
		is.g.SetFill(args[0].Name(), nil)
	case "CS":
		is.g.SetStroke(args[0].Name(), nil)
	case "sc", "scn":
		is.g.SetFill(is.g.Fill.Space, toFloats64(args))
	case "SC", "SCN":
		is.g.SetStroke(is.g.Stroke.Space, toFloats64(args))

	case "m", "l", "re", "c", "v", "y", "h":
		// path construction: tracked only through the painting operators
		// below (§6's Object model records the paint event, not a vector
		// path geometry, which is out of scope).

	case "S", "s", "f", "F", "f*", "B", "B*", "b", "b*", "n":
		o := is.emit(PathObject)
		o.PathOp = op
		is.objects = append(is.objects, o)

	case "BMC":
		is.marked.Push(args[0].Name(), nil)
	case "BDC":
		props := args[1]
		if props.Kind() == NameKind {
			props = resources.Key("Properties").Key(props.Name())
		}
		is.marked.Push(args[0].Name(), props.rawDict())
	case "EMC":
		is.marked.Pop()

	case "MP":
		is.emitMarkedPoint(args[0].Name(), nil)
	case "DP":
		props := args[1]
		if props.Kind() == NameKind {
			props = resources.Key("Properties").Key(props.Name())
		}
		is.emitMarkedPoint(args[0].Name(), props.rawDict())

	case "Tc":
		is.g.SetTc(args[0].Float64())
	case "Tw":
		is.g.SetTw(args[0].Float64())
	case "Tz":
		is.g.SetTh(args[0].Float64())
	case "TL":
		is.g.SetTl(args[0].Float64())
	case "Ts":
		is.g.SetTrise(args[0].Float64())
	case "Tr":
		is.g.SetTmode(int(args[0].Int64()))
	case "BT":
		is.g.BT()
	case "ET":
		is.g.ET()
	case "Td":
		is.g.Td(args[0].Float64(), args[1].Float64())
	case "TD":
		is.g.TD(args[0].Float64(), args[1].Float64())
	case "Tm":
		is.g.Tm(args[0].Float64(), args[1].Float64(), args[2].Float64(), args[3].Float64(), args[4].Float64(), args[5].Float64())
	case "T*":
		is.g.Tstar()
	case "Tf":
		is.g.SetFont(is.font(resources, args[0].Name()), args[1].Float64())

	case `"`:
		is.g.SetTw(args[0].Float64())
		is.g.SetTc(args[1].Float64())
		args = args[2:]
		fallthrough
	case `'`:
		is.g.Tstar()
		fallthrough
	case "Tj":
		is.showText(args[0].RawString())
	case "TJ":
		arr := args[0]
		for i := 0; i < arr.Len(); i++ {
			e := arr.Index(i)
			switch e.Kind() {
			case StringKind:
				is.showText(e.RawString())
			case IntegerKind:
				is.g.TJDisplace(float64(e.Int64()))
			case RealKind:
				is.g.TJDisplace(e.Float64())
			}
		}

	case "Do":
		is.doXObject(resources, args[0].Name())

	case "BI":
		// The dictionary pairs between BI and ID are ordinary operands;
		// they accumulate on stk and are collected below when ID fires.

	case "ID":
		is.showInlineImage(args, b)
	}
}

// emitMarkedPoint implements MP (tag only) and DP (tag + properties): a
// marked-content-point content object (§3, §6 "mcs") carrying both the
// point's own frame and the ambient BMC/BDC nesting.
func (is *interpState) emitMarkedPoint(tag string, props types.Dict) {
	o := is.emit(MarkedPointObject)
	o.Point = state.NewMarkedFrame(tag, props)
	is.objects = append(is.objects, o)
}

// showInlineImage implements "BI ... ID ... EI" (§4.8): args holds the
// flattened /Key value pairs of the inline image dictionary accumulated on
// the operand stack since BI; b is the content-stream tokenizer itself,
// used to consume the raw image bytes between ID and the terminating EI
// without running them through the ordinary token grammar (a stray
// delimiter byte in binary image data would otherwise desync every
// operator that follows).
func (is *interpState) showInlineImage(args []Value, b *buffer) {
	dict := make(types.Dict, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		if args[i].Kind() != NameKind {
			continue
		}
		dict[types.Name(args[i].Name())] = args[i+1].data
	}

	length := int64(-1)
	if l, ok := dict["Length"].(int64); ok {
		length = l
	} else if l, ok := dict["L"].(int64); ok {
		length = l
	}

	o := is.emit(ImageObject)
	o.XObject = Value{d: is.d, data: dict}
	o.InlineData = b.readInlineImageData(length)
	is.objects = append(is.objects, o)
}

func (is *interpState) showText(raw string) {
	for _, glyph := range is.g.Show(raw) {
		o := Object{
			Kind:   TextObject,
			Glyph:  Glyph{Code: glyph.Code, Text: glyph.Text, Width: glyph.Width},
			Matrix: glyph.Matrix,
			Fill:   is.g.Fill,
			Stroke: is.g.Stroke,
			Marked: is.marked.Snapshot(),
		}
		is.objects = append(is.objects, o)
	}
}

func (is *interpState) doXObject(resources Value, name string) {
	xobj := resources.Key("XObject").Key(name)
	switch xobj.Key("Subtype").Name() {
	case "Image":
		o := is.emit(ImageObject)
		o.XObjectName = name
		o.XObject = xobj
		is.objects = append(is.objects, o)

	case "Form":
		if is.depth >= maxFormDepth {
			is.d.addWarning(&Error{Kind: KindInterp, Msg: "form XObject recursion too deep"})
			return
		}
		o := is.emit(FormObject)
		o.XObjectName = name
		o.XObject = xobj
		is.objects = append(is.objects, o)

		formRes := xobj.Key("Resources")
		if formRes.IsNull() {
			formRes = resources
		}
		is.g.Push()
		if m := xobj.Key("Matrix"); m.Len() == 6 {
			is.g.CM(m.Index(0).Float64(), m.Index(1).Float64(), m.Index(2).Float64(), m.Index(3).Float64(), m.Index(4).Float64(), m.Index(5).Float64())
		}
		is.depth++
		is.run(xobj, formRes)
		is.depth--
		is.g.Pop()
	}
}

func toFloats(v Value) []float64 {
	var out []float64
	for i := 0; i < v.Len(); i++ {
		out = append(out, v.Index(i).Float64())
	}
	return out
}

func toFloats64(args []Value) []float64 {
	out := make([]float64, len(args))
	for i, a := range args {
		out[i] = a.Float64()
	}
	return out
}
