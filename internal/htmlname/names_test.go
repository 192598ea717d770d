package htmlname

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := map[string]string{
		"  DIV ": "div",
		"A":      "a",
		"span":   "span",
	}
	for in, want := range cases {
		if got := Canonicalize(in); got != want {
			t.Errorf("Canonicalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLookupKnownVsCustom(t *testing.T) {
	if id := Lookup("div"); !IsKnown(id) {
		t.Error("Lookup(\"div\") should be known")
	}
	if id := Lookup("my-custom-widget"); IsKnown(id) {
		t.Error("Lookup of an unregistered custom element should collapse to Custom")
	}
	if Lookup("DIV") != Lookup("div") {
		t.Error("Lookup should canonicalize case before looking up")
	}
}

func TestName(t *testing.T) {
	id := Lookup("span")
	if got := Name(id, "fallback"); got != "span" {
		t.Errorf("Name = %q, want span", got)
	}
	if got := Name(Custom, "my-widget"); got != "my-widget" {
		t.Errorf("Name(Custom, fallback) = %q, want fallback", got)
	}
}

func TestValidName(t *testing.T) {
	valid := []string{"div", "my-element", "a1", "xlink:href", "a_b"}
	for _, n := range valid {
		if !ValidName(n) {
			t.Errorf("ValidName(%q) = false, want true", n)
		}
	}
	invalid := []string{"", "a b", "a<b", "a:b:c", ":a", "a:", string(make([]byte, 200))}
	for _, n := range invalid {
		if ValidName(n) {
			t.Errorf("ValidName(%q) = true, want false", n)
		}
	}
}
