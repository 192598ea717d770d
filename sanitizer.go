package htmlsanitizer

import (
	"strings"

	"github.com/briarsafe/htmlsanitizer/internal/balancer"
	"github.com/briarsafe/htmlsanitizer/internal/event"
	"github.com/briarsafe/htmlsanitizer/internal/render"
	"github.com/briarsafe/htmlsanitizer/internal/token"
)

// Sanitize parses input and applies p, returning the sanitized HTML. It
// is the convenience, one-shot entry point (§6 "sanitize(input, policy)
// -> string"); it never returns a non-nil error for malformed HTML — per
// §7 there are no fatal errors in the core. A non-nil error here only
// ever reports caller misuse of the underlying pipeline, which Sanitize
// itself cannot trigger, so it is effectively always nil.
func Sanitize(input string, p *Policy) (string, error) {
	return sanitize(input, p, nil, nil)
}

// SanitizeWithContext behaves like Sanitize but threads ctx through to
// every call on p's HtmlChangeListener, and reports renderer-detected
// bad-HTML states to onBadHTML (either may be nil).
func SanitizeWithContext(input string, p *Policy, ctx any, onBadHTML BadHTMLHandler) (string, error) {
	return sanitize(input, p, ctx, onBadHTML)
}

func sanitize(input string, p *Policy, ctx any, onBadHTML BadHTMLHandler) (string, error) {
	s := NewSession(p, ctx, onBadHTML)
	if err := s.Open(); err != nil {
		return "", err
	}
	if err := s.Feed(input); err != nil {
		return "", err
	}
	return s.Close()
}

// Session is the low-level, incremental form of the pipeline Sanitize
// drives internally: explicit Open/Feed/Close instead of a single
// string in, string out call. It exists for embedders that need to feed
// input across multiple calls (e.g. streaming off an io.Reader) instead
// of buffering a whole document first.
//
// Open/Close bound a document session (§4.4 "Document lifecycle"):
// calling Open twice without an intervening Close, or calling Close (or
// Feed) without first calling Open, returns ErrDocumentState.
type Session struct {
	p     *Policy
	ctx   any
	out   strings.Builder
	bal   *balancer.Balancer
	ps    *policySink
	r     *render.Renderer
	open  bool
	first bool // no content forwarded yet; only true state in which AllowDocType applies
}

// NewSession builds a Session for p (DefaultPolicy if nil), threading ctx
// through to p's HtmlChangeListener and reporting renderer-detected
// bad-HTML states to onBadHTML (either may be nil).
func NewSession(p *Policy, ctx any, onBadHTML BadHTMLHandler) *Session {
	if p == nil {
		p = DefaultPolicy()
	}
	s := &Session{p: p, ctx: ctx}
	var badHTML render.BadHTMLHandler
	if onBadHTML != nil {
		badHTML = func(reason string) { onBadHTML(reason) }
	}
	s.r = render.New(&s.out, badHTML, nil)
	s.ps = newPolicySink(p, s.r, ctx)
	s.bal = balancer.New(s.ps, p.depthLimit)
	s.first = true
	return s
}

// Open begins a document session. Calling it twice without an
// intervening Close is caller misuse.
func (s *Session) Open() error {
	if s.open {
		return ErrDocumentState
	}
	s.open = true
	s.bal.OpenDocument()
	return nil
}

// Feed tokenizes and forwards input through the balancer/policy/render
// pipeline. It may be called multiple times between Open and Close to
// stream a document in pieces. Calling it outside an open session is
// caller misuse.
func (s *Session) Feed(input string) error {
	if !s.open {
		return ErrDocumentState
	}
	lex := token.New(input, nil)
	for {
		typ := lex.Next()
		switch typ {
		case token.StartTagToken:
			s.bal.OpenTag(lex.TagName(), toEventAttrs(lex.Attrs()))
		case token.EndTagToken:
			s.bal.CloseTag(lex.TagName())
		case token.TextToken:
			s.bal.Text(lex.Text())
		case token.UnescapedToken:
			s.bal.Text(lex.Raw())
		case token.CommentToken:
			s.bal.Comment(lex.Raw())
		case token.IgnorableToken:
			// §7: malformed/XML-prologue constructs are accounted for as
			// tokens but never forwarded, except for a leading <!DOCTYPE>
			// when the policy opts in (AllowDocType).
			if s.first && s.p.allowDocType && isLeadingDocType(lex.Raw()) {
				s.out.WriteString(lex.Raw())
			}
		case token.ErrorToken:
			s.first = false
			return nil
		}
		s.first = false
	}
}

// Close ends the document session and returns everything rendered so
// far. Calling it without a matching Open is caller misuse.
func (s *Session) Close() (string, error) {
	if !s.open {
		return "", ErrDocumentState
	}
	s.open = false
	s.bal.CloseDocument()
	return s.out.String(), nil
}

// isLeadingDocType reports whether raw is a "<!DOCTYPE ...>" declaration,
// the only ignorable construct AllowDocType preserves.
func isLeadingDocType(raw string) bool {
	return len(raw) >= 9 && strings.EqualFold(raw[:9], "<!doctype")
}

func toEventAttrs(attrs []token.Attribute) event.Attrs {
	out := make(event.Attrs, len(attrs))
	for i, a := range attrs {
		out[i] = event.Attr{Name: a.Name, Value: a.Value}
	}
	return out
}
