// Package render implements the safe renderer: the terminal event.Sink
// that writes normalized HTML characters and enforces that CDATA/RCDATA
// element bodies cannot contain a sequence that would break their own
// escaping contract (§4.4).
package render

import (
	"io"
	"strings"

	"github.com/briarsafe/htmlsanitizer/internal/elementtable"
	"github.com/briarsafe/htmlsanitizer/internal/event"
	"github.com/briarsafe/htmlsanitizer/internal/htmlname"
)

// BadHTMLHandler is notified of renderer-detected impossible states: an
// invalid element/attribute name, a CDATA body that could not be safely
// closed, or document-lifecycle misuse. reason is a short, stable string
// suitable for logging, never for display to an end user.
type BadHTMLHandler func(reason string)

// IOErrorHandler is notified if the underlying io.Writer returns an
// error. Per §7, the rest of the pipeline keeps running (so the caller's
// upstream stages don't need to know) but the renderer stops writing.
type IOErrorHandler func(err error)

type pendingBuf struct {
	hostName string
	buf      strings.Builder
}

var _ event.Sink = (*Renderer)(nil)

// Renderer is the event.Sink at the end of the pipeline. The zero value
// is not usable; construct with New.
type Renderer struct {
	w     io.Writer
	table *elementtable.Table

	open    bool
	wrote   bool // true until a write to w fails; false from then on
	pending *pendingBuf

	onBadHTML BadHTMLHandler
	onIOError IOErrorHandler
}

// New returns a Renderer writing to w. Both handlers may be nil.
func New(w io.Writer, onBadHTML BadHTMLHandler, onIOError IOErrorHandler) *Renderer {
	return &Renderer{
		w:         w,
		table:     elementtable.Default(),
		onBadHTML: onBadHTML,
		onIOError: onIOError,
		wrote:     true,
	}
}

func (r *Renderer) reportBad(reason string) {
	if r.onBadHTML != nil {
		r.onBadHTML(reason)
	}
}

func (r *Renderer) write(s string) {
	if !r.wrote {
		return // a prior write already failed; stop producing output
	}
	if _, err := io.WriteString(r.w, s); err != nil {
		r.wrote = false
		if r.onIOError != nil {
			r.onIOError(err)
		}
	}
}

// OpenDocument begins a render session. Calling it twice without an
// intervening CloseDocument is caller misuse, reported via onBadHTML and
// otherwise ignored (§4.4 "Document lifecycle").
func (r *Renderer) OpenDocument() {
	if r.open {
		r.reportBad("OpenDocument called while a session is already open")
		return
	}
	r.open = true
	r.pending = nil
}

// CloseDocument flushes any pending-unescaped buffer (an implicit close
// of the CDATA host, per §4.4) and ends the session.
func (r *Renderer) CloseDocument() {
	if !r.open {
		r.reportBad("CloseDocument called without a matching OpenDocument")
		return
	}
	if r.pending != nil {
		r.flushPending(nil)
	}
	r.open = false
}

// OpenTag validates name and every attribute name, writes the start tag,
// and — if name is a CDATA/RCDATA/PLAINTEXT host — switches to buffering
// subsequent Text calls instead of writing them directly.
func (r *Renderer) OpenTag(name string, attrs event.Attrs) {
	if !r.open {
		r.reportBad("OpenTag called outside an open document")
		return
	}
	if r.pending != nil {
		// Raw/RCDATA/PLAINTEXT hosts never contain nested elements; a
		// stray OpenTag while buffering means upstream sent something
		// unexpected. Report it and drop the tag rather than corrupting
		// the buffer's element boundary.
		r.reportBad("OpenTag received while a CDATA/RCDATA buffer is pending")
		return
	}
	if !htmlname.ValidName(name) {
		r.reportBad("invalid element name: " + name)
		return
	}

	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(name)
	for _, a := range attrs {
		if !htmlname.ValidName(a.Name) {
			r.reportBad("invalid attribute name: " + a.Name)
			continue
		}
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(EscapeText(a.Value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	r.write(b.String())

	if r.table.ContentModelOf(name).IsUnescapedHost() {
		r.pending = &pendingBuf{hostName: name}
	}
}

// CloseTag scans away a pending-unescaped buffer (suppressing it
// entirely if it contains a recoverable-close sequence) and writes the
// close tag, unless name is the unended PLAINTEXT model.
func (r *Renderer) CloseTag(name string) {
	if !r.open {
		r.reportBad("CloseTag called outside an open document")
		return
	}
	if r.pending != nil {
		r.flushPending(&name)
	}
	if r.table.ContentModelOf(name).Has(elementtable.Unended) {
		return
	}
	if !htmlname.ValidName(name) {
		r.reportBad("invalid element name: " + name)
		return
	}
	r.write("</" + name + ">")
}

// Text writes s, either into the pending-unescaped buffer (verbatim, to
// be scanned at close) or, for ordinary PCDATA, HTML-escaped.
func (r *Renderer) Text(s string) {
	if !r.open {
		r.reportBad("Text called outside an open document")
		return
	}
	if r.pending != nil {
		r.pending.buf.WriteString(s)
		return
	}
	r.write(EscapeText(s))
}

// Comment is always dropped: comments are a historical vector for
// conditional-comment-based attacks in legacy browsers (§4.3 GLOSSARY).
func (r *Renderer) Comment(string) {}

// flushPending scans the pending buffer for a recoverable-close sequence
// and either suppresses it (CDATA body that cannot be safely closed,
// §7) or writes it verbatim, then clears r.pending. closing, if non-nil,
// is the close-tag name actually being processed; it is used only for
// the bad-HTML report when the names disagree (the balancer guarantees
// they match in practice).
func (r *Renderer) flushPending(closing *string) {
	p := r.pending
	r.pending = nil
	if closing != nil && *closing != p.hostName {
		r.reportBad("close tag </" + *closing + "> does not match pending <" + p.hostName + ">")
	}
	body := p.buf.String()
	if hasRecoverableClose(body, p.hostName) {
		r.reportBad("suppressed unclosable CDATA body for <" + p.hostName + ">")
		return
	}
	r.write(body)
}

// hasRecoverableClose reports whether body contains a "<" followed by an
// optional "/" and a case-insensitive match of hostName, or an
// unterminated "<!--" escaping-text-span open — any of which would let
// a browser re-parsing this output treat the buffer as ending the host
// element early (§4.4 "Close tag").
func hasRecoverableClose(body, hostName string) bool {
	lower := strings.ToLower(body)
	needleClose := "</" + hostName
	needleOpen := "<" + hostName
	if strings.Contains(lower, needleClose) || strings.Contains(lower, needleOpen) {
		return true
	}
	if idx := strings.Index(lower, "<!--"); idx >= 0 {
		if !strings.Contains(lower[idx+4:], "-->") {
			return true
		}
	}
	return false
}
