package token

import (
	"io"
	"strings"

	"github.com/briarsafe/htmlsanitizer/internal/elementtable"
	"github.com/briarsafe/htmlsanitizer/internal/entity"
)

// tableModeler adapts the shared element metadata table to the
// ContentModeler contract.
type tableModeler struct{ t *elementtable.Table }

// TableModeler returns the default ContentModeler backed by the shared
// process-wide element metadata table.
func TableModeler() ContentModeler { return tableModeler{elementtable.Default()} }

func (m tableModeler) ModeFor(name string) (Mode, bool) {
	model := m.t.ContentModelOf(name)
	switch {
	case model.Has(elementtable.PlainText):
		return ModePlainText, true
	case model.Has(elementtable.Raw):
		return ModeRawText, true
	case model == elementtable.EntitiesAllowed:
		return ModeRCData, true
	}
	return ModeText, false
}

// Lexer is the tokenizer proper. The zero value is not usable; construct
// with New.
type Lexer struct {
	input   string
	pos     int
	modeler ContentModeler
	mode    Mode
	rawName string
	err     error

	tokStart, tokEnd int

	tagName  string
	selfClos bool
	attrs    []Attribute
}

// New returns a Lexer scanning input. A nil modeler uses TableModeler.
func New(input string, modeler ContentModeler) *Lexer {
	if modeler == nil {
		modeler = TableModeler()
	}
	return &Lexer{input: input, modeler: modeler, mode: ModeText}
}

// Err returns the error that stopped scanning, io.EOF on ordinary
// exhaustion of the input.
func (l *Lexer) Err() error { return l.err }

// Next scans and returns the next token's Type. Call the matching
// accessor (Text, Raw, TagName/Attrs) to retrieve its payload before
// calling Next again — token payloads are only valid until the next call.
func (l *Lexer) Next() Type {
	if l.err != nil {
		return ErrorToken
	}
	if l.pos >= len(l.input) {
		l.err = io.EOF
		return ErrorToken
	}
	switch l.mode {
	case ModePlainText:
		return l.lexPlainText()
	case ModeRawText, ModeRCData:
		return l.lexRawOrRCData()
	default:
		return l.lexText()
	}
}

// Text returns the entity-decoded, NUL-stripped content of a TextToken.
func (l *Lexer) Text() string {
	return entity.Decode(stripNUL(l.input[l.tokStart:l.tokEnd]))
}

// Raw returns the verbatim (not entity-decoded) content of an
// UnescapedToken, CommentToken, or IgnorableToken, with NUL stripped.
func (l *Lexer) Raw() string {
	return stripNUL(l.input[l.tokStart:l.tokEnd])
}

// TagName returns the canonical (lower-case) tag name of a Start/EndTagToken.
func (l *Lexer) TagName() string { return l.tagName }

// Attrs returns the attribute list of a StartTagToken. The slice is
// reused by the Lexer; callers needing to retain it beyond the next
// Next() call should copy it.
func (l *Lexer) Attrs() []Attribute { return l.attrs }

// SelfClosing reports whether a StartTagToken used the "/>" self-closing
// syntax. The pipeline does not consult it: the balancer treats every
// start tag alike, and void elements are never pushed either way.
func (l *Lexer) SelfClosing() bool { return l.selfClos }

// stripNUL drops every NUL code unit from s (§4.1, §7: "A NUL code unit
// anywhere in input is dropped from text").
func stripNUL(s string) string {
	if strings.IndexByte(s, 0) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != 0 {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '-' || c == ':' || c == '_' || c == '.'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// lexText implements the "outside" state: scan PCDATA up to the next
// recognized markup construct.
func (l *Lexer) lexText() Type {
	start := l.pos
	for l.pos < len(l.input) {
		if l.input[l.pos] == '<' && l.pos+1 < len(l.input) {
			n := l.input[l.pos+1]
			if isNameStart(n) || n == '/' || n == '!' || n == '?' {
				break
			}
		}
		l.pos++
	}
	if l.pos > start {
		l.tokStart, l.tokEnd = start, l.pos
		return TextToken
	}
	return l.lexMarkup()
}

// lexMarkup is entered with l.input[l.pos] == '<' and no pending text.
func (l *Lexer) lexMarkup() Type {
	rest := l.input[l.pos:]
	switch {
	case strings.HasPrefix(rest, "<!--"):
		return l.lexComment()
	case len(rest) > 1 && (isNameStart(rest[1]) || rest[1] == '/'):
		return l.lexTag()
	default:
		return l.lexBogusComment()
	}
}

func (l *Lexer) lexComment() Type {
	start := l.pos + 4
	end := strings.Index(l.input[start:], "-->")
	if end < 0 {
		l.tokStart, l.tokEnd = start, len(l.input)
		l.pos = len(l.input)
		return CommentToken
	}
	l.tokStart, l.tokEnd = start, start+end
	l.pos = start + end + 3
	return CommentToken
}

// lexBogusComment handles "<?...>" processing instructions, "<!...>"
// declarations (other than comments), and any other malformed "<"
// construct — all tokenized as an inert Ignorable span up to the next
// '>' (or EOF), per §7's "no fatal errors" contract.
func (l *Lexer) lexBogusComment() Type {
	start := l.pos
	end := strings.IndexByte(l.input[l.pos:], '>')
	if end < 0 {
		l.tokStart, l.tokEnd = start, len(l.input)
		l.pos = len(l.input)
		return IgnorableToken
	}
	l.tokStart, l.tokEnd = start, l.pos+end+1
	l.pos = l.pos + end + 1
	return IgnorableToken
}

func (l *Lexer) lexTag() Type {
	isEnd := l.input[l.pos+1] == '/'
	i := l.pos + 1
	if isEnd {
		i++
	}
	nameStart := i
	for i < len(l.input) && isNameChar(l.input[i]) {
		i++
	}
	name := strings.ToLower(l.input[nameStart:i])
	l.tagName = name
	l.attrs = l.attrs[:0]
	l.selfClos = false

	i = l.parseAttrs(i, isEnd)

	if i < len(l.input) && l.input[i] == '/' {
		l.selfClos = true
		i++
	}
	if i < len(l.input) && l.input[i] == '>' {
		i++
	}
	l.pos = i

	if isEnd {
		return EndTagToken
	}
	if mode, ok := l.modeler.ModeFor(name); ok {
		l.mode = mode
		l.rawName = name
	}
	return StartTagToken
}

// parseAttrs scans zero or more name[=value] pairs starting at i and
// returns the index of the first byte after the last attribute (where a
// trailing '/' or '>' or end of input begins). End-tag attributes are
// parsed (to keep scanning correct) but discarded, matching real parsers.
func (l *Lexer) parseAttrs(i int, isEnd bool) int {
	for i < len(l.input) {
		for i < len(l.input) && isSpace(l.input[i]) {
			i++
		}
		if i >= len(l.input) || l.input[i] == '>' {
			break
		}
		if l.input[i] == '/' {
			if i+1 < len(l.input) && l.input[i+1] == '>' {
				break
			}
			i++
			continue
		}
		nameStart := i
		for i < len(l.input) && !isSpace(l.input[i]) && l.input[i] != '=' && l.input[i] != '>' && l.input[i] != '/' {
			i++
		}
		if i == nameStart {
			// Stray byte that isn't part of any attribute (e.g. a bare
			// '"'); consume it so the scan always makes progress.
			i++
			continue
		}
		name := strings.ToLower(l.input[nameStart:i])

		for i < len(l.input) && isSpace(l.input[i]) {
			i++
		}
		var value string
		if i < len(l.input) && l.input[i] == '=' {
			i++
			for i < len(l.input) && isSpace(l.input[i]) {
				i++
			}
			if i < len(l.input) && (l.input[i] == '"' || l.input[i] == '\'') {
				quote := l.input[i]
				i++
				valStart := i
				for i < len(l.input) && l.input[i] != quote {
					i++
				}
				value = l.input[valStart:i]
				if i < len(l.input) {
					i++
				}
			} else {
				valStart := i
				for i < len(l.input) && !isSpace(l.input[i]) && l.input[i] != '>' {
					i++
				}
				value = l.input[valStart:i]
			}
		}
		if !isEnd {
			l.attrs = append(l.attrs, Attribute{Name: name, Value: entity.Decode(value)})
		}
	}
	return i
}

// lexPlainText implements the PLAINTEXT model: everything to the end of
// input is a single Unescaped token, and there is no way back out.
func (l *Lexer) lexPlainText() Type {
	l.tokStart, l.tokEnd = l.pos, len(l.input)
	l.pos = len(l.input)
	return UnescapedToken
}

// lexRawOrRCData scans CDATA/RCDATA element content up to a matching
// "</name" end tag (case-insensitive, followed by whitespace, '>', or
// '/'), honoring the HTML5 "escaping text span" rule for <script>: a
// "<!-- ... -->" region inside script content is not scanned for end
// tags, and a nested "<script" inside that region does not itself start
// a new, independently-terminating span.
func (l *Lexer) lexRawOrRCData() Type {
	wasRCData := l.mode == ModeRCData
	name := l.rawName
	start := l.pos
	i := start
	inEscape := false
	for i < len(l.input) {
		lower := l.input[i:]
		switch {
		case !inEscape && hasCIPrefix(lower, "<!--") && name == "script":
			inEscape = true
			i += 4
			continue
		case inEscape && hasCIPrefix(lower, "-->"):
			inEscape = false
			i += 3
			continue
		case inEscape:
			i++
			continue
		case hasCIPrefix(lower, "</"+name):
			after := i + 2 + len(name)
			if after >= len(l.input) || isSpace(l.input[after]) || l.input[after] == '>' || l.input[after] == '/' {
				goto done
			}
			i++
		default:
			i++
		}
	}
done:
	l.tokStart, l.tokEnd = start, i
	l.pos = i
	l.mode = ModeText
	if wasRCData {
		return TextToken
	}
	return UnescapedToken
}

func hasCIPrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return strings.EqualFold(s[:len(prefix)], prefix)
}
