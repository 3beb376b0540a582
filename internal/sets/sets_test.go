package sets

import (
	"testing"
)

func TestDiff(t *testing.T) {
	a := New("x", "y", "z")
	b := New("y")

	d := a.Diff(b)
	if len(d) != 2 || !d.Has("x") || !d.Has("z") {
		t.Errorf("unexpected diff: %v", d)
	}
	if len(b.Diff(a)) != 0 {
		t.Error("subset minus superset should be empty")
	}
}

func TestIntersectUnion(t *testing.T) {
	a := New(1, 2, 3)
	b := New(2, 3, 4)

	i := a.Intersect(b)
	if len(i) != 2 || !i.Has(2) || !i.Has(3) {
		t.Errorf("unexpected intersection: %v", i)
	}
	u := a.Union(b)
	if len(u) != 4 {
		t.Errorf("unexpected union: %v", u)
	}
}

func TestSorted(t *testing.T) {
	s := New("pear", "apple", "mango")
	got := Sorted(s)
	want := []string{"apple", "mango", "pear"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestCloneIndependence(t *testing.T) {
	a := New("k")
	c := a.Clone()
	c.Add("extra")
	if a.Has("extra") {
		t.Error("clone should not share storage")
	}
}
