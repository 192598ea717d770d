// Package elementtable is the build-time-produced, read-only HTML
// element metadata table described by the sanitizer's data model: for
// each recognized element, which other elements it can contain, which
// open/close tags implicitly close it, which elements it implies open
// around a child, its text-content model, and whether it is a resumable
// formatting element.
//
// The table is a pure data artifact (§6, §9 "Element metadata table").
// In this repository it is produced once, at package init, from the Go
// literal in data.go rather than from a separate code generator or a
// serialized blob; both were implementation choices the spec leaves
// open, and embedding the literal keeps the runtime free of any file or
// network I/O (§5).
package elementtable

// ContentModel is a bitset of the text-content-model flags from §3.
type ContentModel uint8

const (
	// CommentsAllowed permits <!-- --> children to be forwarded.
	CommentsAllowed ContentModel = 1 << iota
	// EntitiesAllowed means character references decode in this
	// element's text content (RCDATA and PCDATA do; raw CDATA does not).
	EntitiesAllowed
	// Raw marks CDATA elements (script, style): content is opaque text,
	// never escaped on the way out, only guarded against premature
	// closing sequences.
	Raw
	// Text marks ordinary PCDATA content.
	Text
	// PlainText marks the legacy <plaintext> model: content runs to the
	// end of input and is never closed.
	PlainText
	// Unended means the element, once open, has no corresponding close
	// tag in well-formed output (only PlainText has this today).
	Unended
)

// Has reports whether all bits in want are set in m.
func (m ContentModel) Has(want ContentModel) bool { return m&want == want }

// IsUnescapedHost reports whether an element with this content model is a
// CDATA, RCDATA, or PLAINTEXT host: its text children are rendered
// verbatim (no entity re-escaping) behind a pending-unescaped buffer that
// is scanned for a premature close sequence before being flushed.
func (m ContentModel) IsUnescapedHost() bool {
	return m.Has(Raw) || m.Has(PlainText) || (m.Has(EntitiesAllowed) && !m.Has(Text))
}

// Entry is one row of the element metadata table.
type Entry struct {
	// Void elements have no content and are never pushed onto the
	// balancer's stack or matched with a close tag.
	Void bool

	// Resumable marks inline formatting elements (b, i, em, ...) that
	// should be transparently reopened after a mis-nested close, per the
	// "adoption agency" style resumption described in §4.2.
	Resumable bool

	// canContain is the set of child category tags this element accepts
	// directly. A child not in this set (and not specifically implied,
	// see Implies) causes the balancer to close this element before
	// opening the child.
	canContain map[string]bool

	// closesOnOpen lists element names whose *open* tag auto-closes this
	// element if it is currently the top of stack (e.g. a second <p>
	// closes the first; <li> closes a preceding open <li>).
	closesOnOpen map[string]bool

	// explicitClosers lists element names whose *close* tag also closes
	// this element even if this element was never explicitly closed
	// (e.g. </table> closes a dangling <tr>).
	explicitClosers map[string]bool

	// implies maps an incoming child name to the chain of ancestor
	// elements that must be synthesized between this element and that
	// child (e.g. inside table, a bare <td> implies tbody -> tr).
	implies map[string][]string

	// Model is the text-content model used by the tokenizer and renderer.
	Model ContentModel

	// SubstituteAs, when non-empty, is the element name this element is
	// unconditionally rewritten to before reaching the policy layer (the
	// xmp/listing -> pre substitution from §8's worked examples). The
	// substitute keeps its own Entry for content-model purposes: xmp's
	// raw-scanned body is re-escaped as plain text under the new name.
	SubstituteAs string
}

// ID is the canonical lower-case element name used as the table's key.
// A plain string (rather than htmlname.ID) keeps the literal in data.go
// legible; htmlname.ID is still used by callers that need the shared
// small-integer identity for unknown-name handling.
type ID = string

// Table is the immutable, shared metadata table. The zero value is
// unusable; use Default().
type Table struct {
	entries map[ID]*Entry
}

var defaultTable = buildDefault()

// Default returns the shared, process-wide element metadata table. It is
// read-only and safe for concurrent use by any number of sanitize calls.
func Default() *Table { return defaultTable }

// Lookup returns the entry for the canonical element name, and whether it
// was found. Unrecognized names (including any "custom element") are not
// present in the table; callers fall back to permissive defaults.
func (t *Table) Lookup(name string) (*Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// IsVoid reports whether name is a void element per the table.
// Unrecognized names are never void.
func (t *Table) IsVoid(name string) bool {
	if e, ok := t.Lookup(name); ok {
		return e.Void
	}
	return false
}

// CanContain reports whether parent (by canonical name) may directly
// contain child (by canonical name). Unrecognized parents are treated as
// permissive (they accept anything — §4.2 step 1: "If E is unrecognized,
// forward unchanged").
func (t *Table) CanContain(parent, child string) bool {
	e, ok := t.Lookup(parent)
	if !ok {
		return true
	}
	if len(e.canContain) == 0 {
		// No explicit restriction recorded: permissive by default.
		return true
	}
	return e.canContain[child]
}

// ClosesOnOpen reports whether opening child while parent is the
// top-of-stack element should first close parent.
func (t *Table) ClosesOnOpen(parent, child string) bool {
	e, ok := t.Lookup(parent)
	if !ok {
		return false
	}
	return e.closesOnOpen[child]
}

// ExplicitCloser reports whether closing closer should also close an
// open element named target found deeper on the stack.
func (t *Table) ExplicitCloser(target, closer string) bool {
	e, ok := t.Lookup(target)
	if !ok {
		return false
	}
	return e.explicitClosers[closer]
}

// Implied returns the chain of element names that must be synthesized as
// ancestors of child inside parent, innermost last (e.g. Implied("table",
// "td") -> ["tbody", "tr"]).
func (t *Table) Implied(parent, child string) []string {
	e, ok := t.Lookup(parent)
	if !ok {
		return nil
	}
	return e.implies[child]
}

// ContentModelOf returns the text-content model for name, defaulting to
// Text|EntitiesAllowed|CommentsAllowed for unrecognized names.
func (t *Table) ContentModelOf(name string) ContentModel {
	if e, ok := t.Lookup(name); ok {
		return e.Model
	}
	return Text | EntitiesAllowed | CommentsAllowed
}

// Resumable reports whether name is a resumable formatting element.
func (t *Table) Resumable(name string) bool {
	e, ok := t.Lookup(name)
	return ok && e.Resumable
}

// SubstituteAs returns the element name that name should be unconditionally
// rewritten to (xmp/listing -> pre), or "" if no substitution applies.
func (t *Table) SubstituteAs(name string) string {
	e, ok := t.Lookup(name)
	if !ok {
		return ""
	}
	return e.SubstituteAs
}
