// Package event defines the narrow event contract shared by every stage
// of the sanitization pipeline: tokenizer -> balancer -> policy ->
// renderer. Each stage accepts a stream of these events from upstream and
// emits the same shape downstream, so stages can be composed and tested
// in isolation.
package event

// Attr is a single attribute name/value pair. Names are expected to
// already be lower-cased and values already entity-decoded by the time
// an Attr reaches a Sink.
type Attr struct {
	Name  string
	Value string
}

// Attrs is an ordered list of attributes attached to an open-tag event.
// Ownership transfers to whichever Sink method receives it; a Sink may
// freely reorder, mutate, drop, or append entries on its own copy before
// forwarding, but must not retain the slice beyond the call.
type Attrs []Attr

// Get returns the value of the named attribute and whether it was present.
// Lookup is linear; attribute lists are short in practice.
func (a Attrs) Get(name string) (string, bool) {
	for _, at := range a {
		if at.Name == name {
			return at.Value, true
		}
	}
	return "", false
}

// Set returns a copy of a with name set to value, replacing any existing
// entry with that name or appending a new one.
func (a Attrs) Set(name, value string) Attrs {
	out := make(Attrs, len(a))
	copy(out, a)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return out
		}
	}
	return append(out, Attr{Name: name, Value: value})
}

// Remove returns a copy of a with the named attribute removed, if present.
func (a Attrs) Remove(name string) Attrs {
	out := make(Attrs, 0, len(a))
	for _, at := range a {
		if at.Name != name {
			out = append(out, at)
		}
	}
	return out
}

// Clone returns an independent copy safe to mutate.
func (a Attrs) Clone() Attrs {
	out := make(Attrs, len(a))
	copy(out, a)
	return out
}

// Sink is the receiver contract implemented by every pipeline stage.
// Implementations must treat OpenDocument/CloseDocument as bracketing a
// single sanitization call; calling OpenDocument twice without an
// intervening CloseDocument, or emitting events outside that bracket, is
// caller misuse (see ErrDocumentState in the top-level package).
type Sink interface {
	// OpenDocument begins a session. Must be called exactly once before
	// any other method.
	OpenDocument()

	// OpenTag announces an element start. attrs is valid only for the
	// duration of the call.
	OpenTag(name string, attrs Attrs)

	// CloseTag announces an element end. Every OpenTag the Sink forwards
	// upstream must eventually be matched by exactly one CloseTag, except
	// for void elements and PLAINTEXT (see the renderer).
	CloseTag(name string)

	// Text announces a run of character data. Decoding of entity
	// references has already happened upstream of the tokenizer's text
	// events; Sinks only escape on the way out.
	Text(s string)

	// Comment announces an HTML comment body (the text between <!-- and
	// -->, exclusive). Sinks are free to drop comments entirely; the
	// renderer always does, since comments are a historical vector for
	// conditional-comment based attacks in legacy browsers.
	Comment(s string)

	// CloseDocument ends the session. Must be called exactly once, after
	// which the Sink must not be used again.
	CloseDocument()
}
