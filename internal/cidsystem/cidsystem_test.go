package cidsystem

import "testing"

func TestKnownRegistries(t *testing.T) {
	cases := []struct {
		reg   Registry
		known bool
	}{
		{Registry{"Adobe", "Japan1"}, true},
		{Registry{"Adobe", "GB1"}, true},
		{Registry{"Adobe", "Identity"}, false},
		{Registry{"Bogus", "Collection"}, false},
	}
	for _, c := range cases {
		if got := Known(c.reg); got != c.known {
			t.Errorf("Known(%+v) = %v, want %v", c.reg, got, c.known)
		}
	}
}

func TestLookupKnownCID(t *testing.T) {
	r, ok := Lookup(Registry{"Adobe", "Japan1"}, 231)
	if !ok || r != 'あ' {
		t.Errorf("Lookup(Japan1, 231) = (%q, %v), want ('あ', true)", r, ok)
	}
}

func TestLookupUnknownCID(t *testing.T) {
	_, ok := Lookup(Registry{"Adobe", "Japan1"}, 999999)
	if ok {
		t.Error("Lookup of an unseeded CID should report ok=false")
	}
}

func TestLookupUnknownRegistry(t *testing.T) {
	_, ok := Lookup(Registry{"Adobe", "Identity"}, 1)
	if ok {
		t.Error("Lookup against an unknown registry should report ok=false")
	}
}
