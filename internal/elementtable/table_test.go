package elementtable

import "testing"

func TestVoidElements(t *testing.T) {
	tb := Default()
	for _, n := range []string{"br", "img", "hr", "input"} {
		if !tb.IsVoid(n) {
			t.Errorf("IsVoid(%q) = false, want true", n)
		}
	}
	if tb.IsVoid("div") {
		t.Error("IsVoid(div) = true, want false")
	}
}

func TestCanContainUnrecognizedIsPermissive(t *testing.T) {
	tb := Default()
	if !tb.CanContain("my-widget", "span") {
		t.Error("unrecognized parent should permit any child")
	}
}

func TestTableImpliesTbodyTr(t *testing.T) {
	tb := Default()
	got := tb.Implied("table", "td")
	want := []string{"tbody", "tr"}
	if len(got) != len(want) {
		t.Fatalf("Implied(table, td) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Implied(table, td) = %v, want %v", got, want)
		}
	}
}

func TestClosesOnOpenParagraph(t *testing.T) {
	tb := Default()
	if !tb.ClosesOnOpen("p", "div") {
		t.Error("a second block element should close an open <p>")
	}
	if !tb.ClosesOnOpen("p", "p") {
		t.Error("a second <p> should close the first")
	}
	if tb.ClosesOnOpen("p", "span") {
		t.Error("an inline element should not close an open <p>")
	}
}

func TestExplicitCloserTable(t *testing.T) {
	tb := Default()
	if !tb.ExplicitCloser("td", "table") {
		t.Error("</table> should be registered as an explicit closer of a dangling <td>")
	}
}

func TestContentModelOf(t *testing.T) {
	tb := Default()
	if !tb.ContentModelOf("script").Has(Raw) {
		t.Error("script should be Raw")
	}
	if !tb.ContentModelOf("script").IsUnescapedHost() {
		t.Error("script should be an unescaped host")
	}
	if !tb.ContentModelOf("textarea").Has(EntitiesAllowed) {
		t.Error("textarea should decode entities")
	}
	if tb.ContentModelOf("textarea").Has(Text) {
		t.Error("textarea should not carry the ordinary PCDATA Text bit")
	}
	if !tb.ContentModelOf("textarea").IsUnescapedHost() {
		t.Error("textarea (RCDATA) should still be an unescaped render host")
	}
	if !tb.ContentModelOf("div").Has(Text | EntitiesAllowed) {
		t.Error("an unrecognized/ordinary element should default to PCDATA with entities")
	}
	if tb.ContentModelOf("div").IsUnescapedHost() {
		t.Error("an ordinary element is not an unescaped host")
	}
}

func TestResumableFormatting(t *testing.T) {
	tb := Default()
	if !tb.Resumable("b") || !tb.Resumable("i") {
		t.Error("b/i should be resumable formatting elements")
	}
	if tb.Resumable("div") {
		t.Error("div should not be resumable")
	}
}

func TestSubstituteAs(t *testing.T) {
	tb := Default()
	if got := tb.SubstituteAs("xmp"); got != "pre" {
		t.Errorf("SubstituteAs(xmp) = %q, want pre", got)
	}
	if got := tb.SubstituteAs("div"); got != "" {
		t.Errorf("SubstituteAs(div) = %q, want \"\"", got)
	}
}
