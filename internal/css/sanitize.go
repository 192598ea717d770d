package css

import (
	"fmt"
	"strings"
)

// ValuePredicate reports whether a property's value token list is
// acceptable. Leading and trailing whitespace tokens are stripped before
// the predicate runs; interior whitespace remains as single Whitespace
// tokens.
type ValuePredicate func(values []Token) bool

// URLPolicy decides whether a url(...) found inside a declaration value
// may survive, given its already-decoded target. It returns the
// (possibly rewritten) URL and whether to keep it.
type URLPolicy func(rawURL string) (string, bool)

// Schema is the whitelist consulted by Sanitize: which properties are
// permitted and what their values must look like.
type Schema struct {
	Properties map[string]ValuePredicate
}

// AnyValue accepts any non-empty, expression-free value — used for
// low-risk properties where enumerating legal syntax isn't worthwhile.
func AnyValue(values []Token) bool { return len(values) > 0 }

// Keywords returns a predicate accepting a single identifier from set
// (case-insensitive).
func Keywords(set ...string) ValuePredicate {
	m := make(map[string]bool, len(set))
	for _, s := range set {
		m[strings.ToLower(s)] = true
	}
	return func(values []Token) bool {
		if len(values) != 1 || values[0].Kind != Ident {
			return false
		}
		return m[values[0].Text]
	}
}

// NumericOrPercent accepts a single Number/Dimension/Percentage token.
func NumericOrPercent(values []Token) bool {
	if len(values) != 1 {
		return false
	}
	switch values[0].Kind {
	case Number, Dimension, Percentage:
		return true
	}
	return false
}

// DefaultSchema is a conservative whitelist covering common layout and
// typography properties, modeled on the property sets that bluemonday /
// pkgsite-style sanitizers expose for the style attribute.
func DefaultSchema() *Schema {
	s := &Schema{Properties: map[string]ValuePredicate{}}
	colorish := AnyValue
	for _, p := range []string{"color", "background-color", "border-color", "outline-color"} {
		s.Properties[p] = colorish
	}
	for _, p := range []string{
		"width", "height", "max-width", "max-height", "min-width", "min-height",
		"margin", "margin-top", "margin-right", "margin-bottom", "margin-left",
		"padding", "padding-top", "padding-right", "padding-bottom", "padding-left",
		"font-size", "line-height", "border-width", "border-radius",
	} {
		s.Properties[p] = NumericOrPercent
	}
	s.Properties["text-align"] = Keywords("left", "right", "center", "justify")
	s.Properties["vertical-align"] = Keywords("top", "middle", "bottom", "baseline")
	s.Properties["font-weight"] = Keywords("normal", "bold", "bolder", "lighter", "100", "200", "300", "400", "500", "600", "700", "800", "900")
	s.Properties["font-style"] = Keywords("normal", "italic", "oblique")
	s.Properties["text-decoration"] = Keywords("none", "underline", "overline", "line-through")
	s.Properties["white-space"] = Keywords("normal", "nowrap", "pre", "pre-wrap", "pre-line")
	s.Properties["display"] = Keywords("inline", "block", "inline-block", "none", "flex", "table", "table-cell", "table-row")
	s.Properties["float"] = Keywords("left", "right", "none")
	s.Properties["font-family"] = AnyValue
	s.Properties["background"] = AnyValue
	s.Properties["border"] = AnyValue
	s.Properties["border-style"] = Keywords("none", "solid", "dashed", "dotted", "double", "groove", "ridge")
	return s
}

// Sanitize filters a style-attribute declaration list (the part of
// `style="..."` between the quotes) against schema, normalizing survivors
// into a canonical "key:value;key:value" string. urlPolicy, if non-nil,
// gates any url(...) value per §4.3's "allow-urls-in-styles"; when nil,
// every url(...) is rejected along with its declaration.
func Sanitize(declList string, schema *Schema, urlPolicy URLPolicy) string {
	toks := Tokenize(declList)
	if containsExpression(toks) {
		return ""
	}

	var out []string
	for _, decl := range splitDeclarations(toks) {
		if rendered, ok := sanitizeDeclaration(decl, schema, urlPolicy); ok {
			out = append(out, rendered)
		}
	}
	return strings.Join(out, ";")
}

// containsExpression looks for a CSS expression() call in the decoded
// token stream, not the raw source text: scanCSSName/decodeCSSEscape
// already collapse backslash escapes (e.g. "expr\65 ssion") into the
// token's Text, so checking post-tokenize catches escape-obfuscated
// forms a raw substring scan would miss.
func containsExpression(toks []Token) bool {
	for _, t := range toks {
		if t.Kind == FunctionOpen && strings.EqualFold(t.Text, "expression") {
			return true
		}
	}
	return false
}

// splitDeclarations breaks a flat token stream into individual
// declarations at top-level (paren-depth 0) semicolons.
func splitDeclarations(toks []Token) [][]Token {
	var decls [][]Token
	var cur []Token
	depth := 0
	for _, t := range toks {
		switch t.Kind {
		case LeftParen:
			depth++
		case RightParen:
			if depth > 0 {
				depth--
			}
		case Semicolon:
			if depth == 0 {
				decls = append(decls, cur)
				cur = nil
				continue
			}
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		decls = append(decls, cur)
	}
	return decls
}

func sanitizeDeclaration(decl []Token, schema *Schema, urlPolicy URLPolicy) (string, bool) {
	decl = trimWhitespace(decl)
	if len(decl) < 3 {
		return "", false
	}
	if decl[0].Kind != Ident {
		return "", false
	}
	name := decl[0].Text
	rest := trimWhitespace(decl[1:])
	if len(rest) == 0 || rest[0].Kind != Colon {
		return "", false
	}
	values := trimWhitespace(rest[1:])
	if len(values) == 0 {
		return "", false
	}
	// !important is allowed as a trailing pair stripped before validation
	// and re-appended, rather than rejected outright.
	important := false
	if len(values) >= 2 &&
		values[len(values)-1].Kind == Ident && strings.EqualFold(values[len(values)-1].Text, "important") &&
		values[len(values)-2].Kind == Delim && values[len(values)-2].Raw == "!" {
		important = true
		values = trimWhitespace(values[:len(values)-2])
	}

	predicate, ok := schema.Properties[name]
	if !ok {
		return "", false
	}

	values, ok = normalizeURLs(values, urlPolicy)
	if !ok {
		return "", false
	}
	for _, v := range values {
		if v.Kind == AtKeyword {
			return "", false
		}
	}
	if !predicate(values) {
		return "", false
	}

	rendered := name + ":" + renderValues(values)
	if important {
		rendered += " !important"
	}
	return rendered, true
}

func trimWhitespace(toks []Token) []Token {
	start, end := 0, len(toks)
	for start < end && toks[start].Kind == Whitespace {
		start++
	}
	for end > start && toks[end-1].Kind == Whitespace {
		end--
	}
	out := make([]Token, 0, end-start)
	for i := start; i < end; i++ {
		if toks[i].Kind == Whitespace {
			out = append(out, Token{Kind: Whitespace, Raw: " "})
			continue
		}
		out = append(out, toks[i])
	}
	return out
}

// normalizeURLs rewrites every URL token's value through urlPolicy
// (rejecting the whole declaration if any url() is disallowed) and
// re-encodes it per §4.3: percent-encode non-ASCII bytes, normalize to
// a quoted url('...') form.
func normalizeURLs(values []Token, urlPolicy URLPolicy) ([]Token, bool) {
	out := make([]Token, len(values))
	copy(out, values)
	for i, v := range out {
		if v.Kind != URL {
			continue
		}
		if urlPolicy == nil {
			return nil, false
		}
		rewritten, ok := urlPolicy(v.Text)
		if !ok {
			return nil, false
		}
		out[i] = Token{Kind: URL, Text: rewritten, Raw: "url(" + quoteCSSURL(rewritten) + ")"}
	}
	return out, true
}

func quoteCSSURL(u string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for i := 0; i < len(u); i++ {
		c := u[i]
		switch {
		case c == '\'' || c == '\\':
			fmt.Fprintf(&b, "\\%x ", c)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&b, "\\%x ", c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return percentEncodeNonASCII(b.String())
}

func percentEncodeNonASCII(s string) string {
	if isASCII(s) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x80 {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func renderValues(values []Token) string {
	var b strings.Builder
	for _, t := range values {
		switch t.Kind {
		case Whitespace:
			b.WriteByte(' ')
		case String:
			b.WriteByte('\'')
			b.WriteString(escapeCSSStringBody(t.Text))
			b.WriteByte('\'')
		case URL:
			b.WriteString("url(")
			b.WriteString(quoteCSSURL(t.Text))
			b.WriteByte(')')
		case Hash:
			b.WriteByte('#')
			b.WriteString(t.Text)
		case FunctionOpen:
			b.WriteString(t.Text)
			b.WriteByte('(')
		default:
			if t.Raw != "" {
				b.WriteString(t.Raw)
			} else {
				b.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func escapeCSSStringBody(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\'' || c == '\\' {
			fmt.Fprintf(&b, "\\%x ", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
