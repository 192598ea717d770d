package htmlsanitizer_test

import (
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/briarsafe/htmlsanitizer"
	"golang.org/x/net/html"
)

// scenarioPolicy mirrors the worked end-to-end scenarios: a, b, i, p, img
// with href/src/title/target, http/https only, nofollow required.
func scenarioPolicy() *htmlsanitizer.Policy {
	return htmlsanitizer.NewPolicyBuilder().
		AllowElements("a", "b", "i", "p", "img").
		AllowAttrs("href", "target").OnElements("a").
		AllowAttrs("src", "title").OnElements("img").
		AllowURLProtocols("http", "https").
		RequireNoFollowOnLinks().
		Build()
}

func TestScenario1NestedInlineFormatting(t *testing.T) {
	got, _ := htmlsanitizer.Sanitize("<b>hello <i>world</i></b>", scenarioPolicy())
	want := "<b>hello <i>world</i></b>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestScenario2RejectedScriptWithAttrs(t *testing.T) {
	got, _ := htmlsanitizer.Sanitize(`<b>hello <i>world</i><script src=foo.js></script></b>`, scenarioPolicy())
	want := "<b>hello <i>world</i></b>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestScenario3AutoClosedParagraph(t *testing.T) {
	got, _ := htmlsanitizer.Sanitize("<p>1<p>2", scenarioPolicy())
	want := "<p>1</p><p>2</p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestScenario4DisallowedSchemeDropsAttrAndBareElement(t *testing.T) {
	got, _ := htmlsanitizer.Sanitize(`<a href="javascript:alert(1)">x</a>`, scenarioPolicy())
	want := "x"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestScenario5TargetGetsNoopenerNoreferrerAndNofollow(t *testing.T) {
	got, _ := htmlsanitizer.Sanitize(`<a href="http://example.com/" target="_blank">x</a>`, scenarioPolicy())
	re := regexp.MustCompile(`^<a href="http://example\.com/" target="_blank" rel="([^"]+)">x</a>$`)
	m := re.FindStringSubmatch(got)
	if m == nil {
		t.Fatalf("got %q, does not match expected shape", got)
	}
	tokens := strings.Fields(m[1])
	sort.Strings(tokens)
	want := []string{"noopener", "noreferrer", "nofollow"}
	sort.Strings(want)
	if len(tokens) != len(want) {
		t.Fatalf("rel tokens = %v, want set %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("rel tokens = %v, want set %v", tokens, want)
		}
	}
}

func TestScenario6TableImpliesAncestors(t *testing.T) {
	p := htmlsanitizer.NewPolicyBuilder().AllowElements("table", "tbody", "tr", "td").Build()
	got, _ := htmlsanitizer.Sanitize("<table><td>cell</td></table>", p)
	want := "<table><tbody><tr><td>cell</td></tr></tbody></table>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestScenario7DeepNestingBoundedByDepthCap(t *testing.T) {
	p := htmlsanitizer.NewPolicyBuilder().AllowElements("div").AllowWithoutAttrs("div").Build()
	var b strings.Builder
	for i := 0; i < 20000; i++ {
		b.WriteString("<div>")
	}
	got, _ := htmlsanitizer.Sanitize(b.String(), p)
	opens := strings.Count(got, "<div>")
	closes := strings.Count(got, "</div>")
	if opens != closes {
		t.Fatalf("unbalanced output: %d opens, %d closes", opens, closes)
	}
	if opens < 50 || opens > 1000 {
		t.Errorf("opens = %d, want between 50 and 1000 (depth cap enforced)", opens)
	}
}

func TestScenario8NULStrippedFromText(t *testing.T) {
	got, _ := htmlsanitizer.Sanitize("<b>Hello, \x00</b>", scenarioPolicy())
	want := "<b>Hello, </b>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestScenario9XmpSubstitutesToEscapedPre(t *testing.T) {
	p := htmlsanitizer.NewPolicyBuilder().AllowElements("xmp").Build()
	got, _ := htmlsanitizer.Sanitize("<xmp>A<B>C</B></xmp>", p)
	want := "<pre>A&#x3c;B&#x3e;C&#x3c;/B&#x3e;</pre>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestScenario10SupplementaryCodepointNeverSurrogatePair(t *testing.T) {
	p := htmlsanitizer.NewPolicyBuilder().AllowElements("p").AllowWithoutAttrs("p").Build()
	got, _ := htmlsanitizer.Sanitize("<p>\U0002F81A</p>", p)
	want := "<p>&#x2f81a;</p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if strings.Contains(got, "\\u") {
		t.Errorf("got %q, looks like a surrogate pair leaked through", got)
	}
}

func TestPropertyIdempotence(t *testing.T) {
	p := scenarioPolicy()
	inputs := []string{
		`<b>hello <i>world</i></b>`,
		`<a href="http://example.com/" target="_blank">x</a>`,
		`<p>1<p>2`,
		`<b>mixed <script>alert(1)</script> text</b>`,
	}
	for _, in := range inputs {
		once, _ := htmlsanitizer.Sanitize(in, p)
		twice, _ := htmlsanitizer.Sanitize(once, p)
		if once != twice {
			t.Errorf("not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestPropertyMonotonicityOfSafety(t *testing.T) {
	narrow := htmlsanitizer.NewPolicyBuilder().AllowElements("b").Build()
	wide := htmlsanitizer.NewPolicyBuilder().AllowElements("b", "i").Build()
	in := "<b>bold <i>italic</i></b>"
	gotNarrow, _ := htmlsanitizer.Sanitize(in, narrow)
	gotWide, _ := htmlsanitizer.Sanitize(in, wide)
	if !strings.Contains(gotWide, "<b>") {
		t.Errorf("wide policy output %q lost a tag present under the narrow policy", gotWide)
	}
	if strings.Contains(gotNarrow, "<i>") {
		t.Errorf("narrow policy output %q should not contain <i>", gotNarrow)
	}
	if !strings.Contains(gotWide, "<i>") {
		t.Errorf("wide policy output %q should contain <i> since i is now allowed", gotWide)
	}
}

func TestPropertyNoDangerousSchemes(t *testing.T) {
	p := scenarioPolicy()
	inputs := []string{
		`<a href="javascript:alert(1)">x</a>`,
		`<a href="data:text/html,evil">x</a>`,
		`<a href="vbscript:evil()">x</a>`,
		`<a href="JaVaScRiPt:alert(1)">x</a>`,
	}
	schemeRe := regexp.MustCompile(`href="([a-zA-Z][a-zA-Z0-9+.-]*):`)
	for _, in := range inputs {
		got, _ := htmlsanitizer.Sanitize(in, p)
		if m := schemeRe.FindStringSubmatch(got); m != nil {
			scheme := strings.ToLower(m[1])
			if scheme != "http" && scheme != "https" {
				t.Errorf("Sanitize(%q) = %q leaked a disallowed scheme %q", in, got, scheme)
			}
		}
	}
}

func TestPropertyCDATAClosureSafety(t *testing.T) {
	// A decoded RCDATA body that spells out its own host's close tag must
	// never survive verbatim: it would prematurely end the element on
	// re-parse. "&lt;/textarea&gt;" decodes to a literal "</textarea>".
	p := htmlsanitizer.NewPolicyBuilder().AllowElements("textarea").Build()
	got, _ := htmlsanitizer.Sanitize(`<textarea>a&lt;/textarea&gt;b</textarea>`, p)
	re := regexp.MustCompile(`(?i)</textarea`)
	matches := re.FindAllStringIndex(got, -1)
	if len(matches) != 1 {
		t.Errorf("Sanitize(...) = %q, want exactly one real </textarea close, got %d occurrences", got, len(matches))
	}
	if got != "<textarea></textarea>" {
		t.Errorf("got %q, want the unclosable body suppressed entirely", got)
	}
}

func TestPropertyWellNestednessViaStructuralOracle(t *testing.T) {
	p := scenarioPolicy()
	inputs := []string{
		`<b>hello <i>world</i></b>`,
		`<p>1<p>2`,
		`<a href="http://example.com/" target="_blank">x<b>y</b></a>`,
	}
	for _, in := range inputs {
		got, _ := htmlsanitizer.Sanitize(in, p)
		doc, err := html.Parse(strings.NewReader(got))
		if err != nil {
			t.Fatalf("Sanitize(%q) produced unparseable HTML %q: %v", in, got, err)
		}
		if doc == nil {
			t.Fatalf("Sanitize(%q) produced no document", in)
		}
	}
}

func TestPropertyRoundTripPlainText(t *testing.T) {
	p := scenarioPolicy()
	// "+" and "=" are part of §4.4's minimal escape set, so they are
	// deliberately excluded here; this only covers text with no characters
	// the escaper is required to touch.
	inputs := []string{"hello world", "just text, no markup", "nothing unusual here"}
	for _, in := range inputs {
		got, _ := htmlsanitizer.Sanitize(in, p)
		if got != in {
			t.Errorf("Sanitize(%q) = %q, want unchanged plain text", in, got)
		}
	}
}

func TestSanitizeNeverErrors(t *testing.T) {
	inputs := []string{
		"", "<", ">", "</", "<!--", "<![CDATA[x]]>", "<?xml version=\"1\"?>",
		strings.Repeat("<a>", 5000), "\x00\x01\x02",
	}
	p := scenarioPolicy()
	for _, in := range inputs {
		if _, err := htmlsanitizer.Sanitize(in, p); err != nil {
			t.Errorf("Sanitize(%q) returned error %v, want nil (no fatal errors in the core)", in, err)
		}
	}
}

func TestSessionDocumentLifecycleMisuse(t *testing.T) {
	s := htmlsanitizer.NewSession(scenarioPolicy(), nil, nil)
	if err := s.Open(); err != nil {
		t.Fatalf("first Open() = %v, want nil", err)
	}
	if err := s.Open(); err != htmlsanitizer.ErrDocumentState {
		t.Errorf("second Open() = %v, want ErrDocumentState", err)
	}
	if _, err := s.Close(); err != nil {
		t.Fatalf("Close() = %v, want nil", err)
	}
	if _, err := s.Close(); err != htmlsanitizer.ErrDocumentState {
		t.Errorf("Close() after already closed = %v, want ErrDocumentState", err)
	}
	if err := s.Feed("<b>x</b>"); err != htmlsanitizer.ErrDocumentState {
		t.Errorf("Feed() without Open = %v, want ErrDocumentState", err)
	}
}

func TestSessionFeedAcrossMultipleCalls(t *testing.T) {
	s := htmlsanitizer.NewSession(scenarioPolicy(), nil, nil)
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	if err := s.Feed("<b>hel"); err != nil {
		t.Fatal(err)
	}
	if err := s.Feed("lo</b>"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Close()
	if err != nil {
		t.Fatal(err)
	}
	if got != "<b>hello</b>" {
		t.Errorf("got %q, want %q", got, "<b>hello</b>")
	}
}

func TestAllowDocTypePreservesLeadingDeclaration(t *testing.T) {
	p := htmlsanitizer.NewPolicyBuilder().
		AllowElements("p").AllowWithoutAttrs("p").
		AllowDocType(true).
		Build()
	got, _ := htmlsanitizer.Sanitize("<!DOCTYPE html><p>hi</p>", p)
	want := "<!DOCTYPE html><p>hi</p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDocTypeDroppedWithoutAllowDocType(t *testing.T) {
	p := htmlsanitizer.NewPolicyBuilder().AllowElements("p").AllowWithoutAttrs("p").Build()
	got, _ := htmlsanitizer.Sanitize("<!DOCTYPE html><p>hi</p>", p)
	want := "<p>hi</p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAllowDocTypeOnlyAppliesWhenLeading(t *testing.T) {
	p := htmlsanitizer.NewPolicyBuilder().
		AllowElements("p").AllowWithoutAttrs("p").
		AllowDocType(true).
		Build()
	got, _ := htmlsanitizer.Sanitize("<p>hi</p><!DOCTYPE html>", p)
	want := "<p>hi</p>"
	if got != want {
		t.Errorf("got %q, want %q (a non-leading doctype is just dropped)", got, want)
	}
}
