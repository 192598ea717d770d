// Package balancer implements the tag balancer: a state machine that
// converts a raw token stream into a well-formed tree of events by
// inserting implied open/close tags, closing tags that cannot contain
// the next element, and reopening mis-nested formatting elements
// ("adoption agency" style resumption) (§4.2).
package balancer

import (
	"github.com/briarsafe/htmlsanitizer/internal/elementtable"
	"github.com/briarsafe/htmlsanitizer/internal/event"
)

// DefaultDepthLimit bounds balancer stack depth to defeat DoS via
// deeply nested input, per §3's invariant and §4.2's nesting limit.
const DefaultDepthLimit = 256

type frame struct {
	name      string
	resumable bool
}

// Balancer is an event.Sink that owns an open-element stack and forwards
// a balanced event stream to the next Sink in the pipeline. It consults
// only the shared, read-only element metadata table; it knows nothing
// about policies, URLs, or rendering.
type Balancer struct {
	table      *elementtable.Table
	next       event.Sink
	depthLimit int
	stack      []frame
}

// New returns a Balancer forwarding to next. depthLimit <= 0 uses
// DefaultDepthLimit.
func New(next event.Sink, depthLimit int) *Balancer {
	if depthLimit <= 0 {
		depthLimit = DefaultDepthLimit
	}
	return &Balancer{
		table:      elementtable.Default(),
		next:       next,
		depthLimit: depthLimit,
	}
}

// Depth returns the current number of open (non-void) elements, mostly
// useful to tests asserting the nesting cap holds.
func (b *Balancer) Depth() int { return len(b.stack) }

func (b *Balancer) OpenDocument() {
	b.stack = b.stack[:0]
	b.next.OpenDocument()
}

// CloseDocument closes every remaining open frame, innermost first, then
// forwards the close-document event (§4.2 "Document close").
func (b *Balancer) CloseDocument() {
	for len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		if !b.table.ContentModelOf(top.name).Has(elementtable.Unended) {
			b.next.CloseTag(top.name)
		}
	}
	b.next.CloseDocument()
}

func (b *Balancer) Text(s string)    { b.next.Text(s) }
func (b *Balancer) Comment(s string) { b.next.Comment(s) }

// OpenTag implements §4.2's open-tag handling algorithm.
func (b *Balancer) OpenTag(name string, attrs event.Attrs) {
	var resumed []string

	// Step 2: close anything that auto-closes on this element's open, or
	// that cannot contain it and has no implied ancestors for it.
	for len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		if b.table.ClosesOnOpen(top.name, name) ||
			(!b.table.CanContain(top.name, name) && len(b.table.Implied(top.name, name)) == 0) {
			b.stack = b.stack[:len(b.stack)-1]
			b.next.CloseTag(top.name)
			if top.resumable {
				resumed = append(resumed, top.name)
			}
			continue
		}
		break
	}

	// Step 3: synthesize implied ancestors (e.g. table -> tbody -> tr
	// before a bare td).
	parent := ""
	if len(b.stack) > 0 {
		parent = b.stack[len(b.stack)-1].name
	}
	for _, implied := range b.table.Implied(parent, name) {
		if len(b.stack) > 0 && b.stack[len(b.stack)-1].name == implied {
			continue
		}
		if !b.pushOpen(implied, nil) {
			return // depth cap hit while synthesizing ancestors
		}
	}

	// Step 4: push/emit the element itself.
	if b.table.IsVoid(name) {
		b.next.OpenTag(name, attrs)
	} else if !b.pushOpen(name, attrs) {
		return
	}

	// Step 5: reopen resumable formatting elements closed in step 2,
	// outermost first (resumed was accumulated innermost-first).
	for i := len(resumed) - 1; i >= 0; i-- {
		b.pushOpen(resumed[i], nil)
	}
}

// CloseTag implements §4.2's close-tag handling algorithm.
func (b *Balancer) CloseTag(name string) {
	idx := b.findOpen(name)
	if idx < 0 {
		idx = b.findExplicitCloserTarget(name)
	}
	if idx < 0 {
		return // no matching open frame: drop the close
	}

	var resumed []string
	for len(b.stack)-1 > idx {
		top := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		b.next.CloseTag(top.name)
		if top.resumable {
			resumed = append(resumed, top.name)
		}
	}

	target := b.stack[idx]
	b.stack = b.stack[:idx]
	if !b.table.ContentModelOf(target.name).Has(elementtable.Unended) {
		b.next.CloseTag(target.name)
	}

	for i := len(resumed) - 1; i >= 0; i-- {
		b.pushOpen(resumed[i], nil)
	}
}

func (b *Balancer) findOpen(name string) int {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].name == name {
			return i
		}
	}
	return -1
}

// findExplicitCloserTarget finds the nearest open frame whose entry in
// the element table names "closer" as one of its explicit closers (e.g.
// a stray </tbody> with no open <tbody> frame still force-closes a
// dangling open <td>).
func (b *Balancer) findExplicitCloserTarget(closer string) int {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.table.ExplicitCloser(b.stack[i].name, closer) {
			return i
		}
	}
	return -1
}

// pushOpen pushes name onto the stack and forwards its open event,
// unless doing so would exceed the depth limit, in which case the open
// is silently dropped (the sole DoS defense at this layer, per §4.2).
func (b *Balancer) pushOpen(name string, attrs event.Attrs) bool {
	if len(b.stack) >= b.depthLimit {
		return false
	}
	b.stack = append(b.stack, frame{name: name, resumable: b.table.Resumable(name)})
	b.next.OpenTag(name, attrs)
	return true
}
