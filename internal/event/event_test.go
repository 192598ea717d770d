package event

import "testing"

func TestAttrsGet(t *testing.T) {
	a := Attrs{{Name: "href", Value: "x"}, {Name: "target", Value: "_blank"}}
	if v, ok := a.Get("href"); !ok || v != "x" {
		t.Errorf("Get(href) = %q, %v", v, ok)
	}
	if _, ok := a.Get("missing"); ok {
		t.Error("Get(missing) should report not found")
	}
}

func TestAttrsSetReplacesExisting(t *testing.T) {
	a := Attrs{{Name: "href", Value: "x"}}
	got := a.Set("href", "y")
	if v, _ := got.Get("href"); v != "y" {
		t.Errorf("Set did not replace existing value, got %q", v)
	}
	if v, _ := a.Get("href"); v != "x" {
		t.Error("Set mutated the receiver")
	}
}

func TestAttrsSetAppendsNew(t *testing.T) {
	a := Attrs{{Name: "href", Value: "x"}}
	got := a.Set("target", "_blank")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestAttrsRemove(t *testing.T) {
	a := Attrs{{Name: "href", Value: "x"}, {Name: "target", Value: "_blank"}}
	got := a.Remove("target")
	if len(got) != 1 || got[0].Name != "href" {
		t.Errorf("Remove(target) = %+v", got)
	}
}

func TestAttrsClone(t *testing.T) {
	a := Attrs{{Name: "href", Value: "x"}}
	c := a.Clone()
	c[0].Value = "y"
	if a[0].Value != "x" {
		t.Error("Clone did not produce an independent copy")
	}
}
