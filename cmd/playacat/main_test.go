package main

import (
	"testing"

	"github.com/dhdaines-go/playa"
	"github.com/dhdaines-go/playa/internal/state"
)

func TestJSONObjectByKind(t *testing.T) {
	cases := []struct {
		name string
		obj  playa.Object
		want map[string]any
	}{
		{
			name: "text",
			obj:  playa.Object{Kind: playa.TextObject, Glyph: playa.Glyph{Text: "A", Width: 0.5}},
			want: map[string]any{"kind": "text", "text": "A", "width": 0.5},
		},
		{
			name: "path",
			obj:  playa.Object{Kind: playa.PathObject, PathOp: "f"},
			want: map[string]any{"kind": "path", "op": "f"},
		},
		{
			name: "image",
			obj:  playa.Object{Kind: playa.ImageObject, XObjectName: "Im0"},
			want: map[string]any{"kind": "image", "xobject": "Im0"},
		},
		{
			name: "form",
			obj:  playa.Object{Kind: playa.FormObject, XObjectName: "Fx"},
			want: map[string]any{"kind": "form", "xobject": "Fx"},
		},
		{
			name: "mcs",
			obj:  playa.Object{Kind: playa.MarkedPointObject, Point: state.NewMarkedFrame("Span", nil)},
			want: map[string]any{"kind": "mcs", "tag": "Span"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := jsonObject(c.obj)
			if len(got) != len(c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
			for k, v := range c.want {
				if got[k] != v {
					t.Errorf("key %q: got %v, want %v", k, got[k], v)
				}
			}
		})
	}
}
