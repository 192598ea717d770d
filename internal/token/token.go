// Package token implements the sanitizer's tokenizer: a backtrack-free
// lexer that turns an input string into a lazy, finite, non-restartable
// sequence of typed tokens (§4.1). Each token is a (kind, start, end)
// triple into the original input; no token outlives the scan that
// produced it, and every byte of input is accounted for exactly once,
// even malformed constructs — there are no fatal tokenizer errors.
package token

// Type identifies what kind of token Next just produced.
type Type int

const (
	// ErrorToken is returned once Next reaches end of input (check Err
	// for io.EOF) or, in principle, an unrecoverable internal state;
	// the tokenizer itself never fails on malformed markup (§4.1,
	// §7 "there are no fatal errors").
	ErrorToken Type = iota
	// TextToken is a run of PCDATA or RCDATA character data. Use Text()
	// to get its entity-decoded, NUL-stripped content.
	TextToken
	// UnescapedToken is raw-text element content (script/style/xmp/
	// listing/plaintext bodies): not entity-decoded. Use Raw().
	UnescapedToken
	// StartTagToken is an opening tag, with name and attributes
	// available via TagName()/Attrs().
	StartTagToken
	// EndTagToken is a closing tag; use TagName().
	EndTagToken
	// CommentToken is an HTML comment body (between <!-- and -->,
	// exclusive). Use Raw().
	CommentToken
	// IgnorableToken is a bogus comment / processing instruction / XML
	// prologue construct that carries no sanitizer-visible semantics.
	IgnorableToken
)

// Attribute is a single (name, value) pair parsed from a start tag. Names
// are already lower-cased; values are already entity-decoded.
type Attribute struct {
	Name  string
	Value string
}

// Mode is the tokenizer's current text-scanning mode, selected by the
// content model of the most recently opened element (§4.1's state
// table: outside/rcdata/cdata/plaintext).
type Mode int

const (
	// ModeText is ordinary PCDATA scanning (the "outside" state).
	ModeText Mode = iota
	// ModeRCData decodes entities but does not parse tags (textarea, title).
	ModeRCData
	// ModeRawText neither parses tags nor decodes entities (script, style,
	// and the legacy xmp/listing elements).
	ModeRawText
	// ModePlainText consumes the remainder of the input unconditionally.
	ModePlainText
)

// ContentModeler tells the tokenizer which scanning Mode should follow a
// start tag, so that the surface grammar — which differs per element —
// can be selected without the tokenizer needing to know anything about
// tree balancing, policies, or rendering. It is the one piece of element
// metadata the tokenizer layer consults (§4.1's table explicitly makes
// the post-'>' state depend on "element model").
type ContentModeler interface {
	ModeFor(tagName string) (Mode, bool)
}
