package playa

import "testing"

func TestObjectKindString(t *testing.T) {
	cases := []struct {
		kind ObjectKind
		want string
	}{
		{TextObject, "text"},
		{PathObject, "path"},
		{ImageObject, "image"},
		{FormObject, "form"},
		{MarkedPointObject, "mcs"},
		{ObjectKind(99), "unknown"},
	}
	for _, c := range cases {
		if got := c.kind.String(); got != c.want {
			t.Errorf("ObjectKind(%d).String() = %q, want %q", c.kind, got, c.want)
		}
	}
}
