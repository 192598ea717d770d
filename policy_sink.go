package htmlsanitizer

import (
	"net/url"
	"strings"

	"github.com/briarsafe/htmlsanitizer/internal/css"
	"github.com/briarsafe/htmlsanitizer/internal/elementtable"
	"github.com/briarsafe/htmlsanitizer/internal/event"
)

// policyFrame tracks one open element as seen by the policy sink: enough
// to forward (or suppress) its close tag and to gate raw-text children
// on whether the host element itself survived (§4.3 "Per close-tag",
// "Per text").
type policyFrame struct {
	forwarded    bool
	originalName string
	finalName    string
	contentModel elementtable.ContentModel
}

// policySink is the event.Sink implementing the policy engine proper
// (§4.3). It sits between the balancer and the renderer: it never
// reorders or auto-closes anything, it only filters and rewrites.
type policySink struct {
	p     *Policy
	next  event.Sink
	table *elementtable.Table
	ctx   any
	stack []policyFrame
}

var _ event.Sink = (*policySink)(nil)

func newPolicySink(p *Policy, next event.Sink, ctx any) *policySink {
	return &policySink{p: p, next: next, table: elementtable.Default(), ctx: ctx}
}

func (s *policySink) OpenDocument() {
	s.stack = s.stack[:0]
	s.next.OpenDocument()
}

func (s *policySink) CloseDocument() { s.next.CloseDocument() }

func (s *policySink) Comment(text string) { s.next.Comment(text) }

// OpenTag implements §4.3's five-step open-tag algorithm.
func (s *policySink) OpenTag(name string, attrs event.Attrs) {
	model := s.table.ContentModelOf(name)

	chain, ok := s.p.elements[name]
	if !ok {
		s.reject(name, name, model, RejectedElement)
		return
	}

	curName, curAttrs := name, attrs
	for _, t := range chain {
		newName, newAttrs, linkOK := t(curName, curAttrs)
		if !linkOK {
			s.reject(name, name, model, RejectedElement)
			return
		}
		curName, curAttrs = newName, newAttrs
	}

	if sub := s.table.SubstituteAs(name); sub != "" {
		curName = sub
	}

	kept := s.filterAttrs(name, curName, curAttrs)

	// The bare-element check looks at the filtered attributes only, so a
	// rel added by applyGlobalRules cannot keep an attribute-less <a>.
	if len(kept) == 0 && !s.p.withoutAttrs[curName] {
		s.reject(name, curName, model, RejectedBareElement)
		return
	}
	kept = s.applyGlobalRules(curName, kept)

	// Void elements never receive a close tag, so they get no frame.
	if !s.table.IsVoid(name) {
		s.stack = append(s.stack, policyFrame{
			forwarded: true, originalName: name, finalName: curName, contentModel: model,
		})
	}
	s.next.OpenTag(curName, kept)
}

func (s *policySink) reject(original, reportName string, model elementtable.ContentModel, reason ChangeReason) {
	if !s.table.IsVoid(original) {
		s.stack = append(s.stack, policyFrame{originalName: original, contentModel: model})
	}
	s.notify(reportName, reason)
}

// CloseTag forwards only if the matching open was forwarded (§4.3 "Per
// close-tag").
func (s *policySink) CloseTag(name string) {
	if len(s.stack) == 0 {
		return
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	if top.forwarded {
		s.next.CloseTag(top.finalName)
	}
}

// Text gates raw CDATA content on the host's survival, per §4.3 "Per
// text"; every other text content model passes through unconditionally
// (the renderer decides how to escape it).
func (s *policySink) Text(text string) {
	if len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		if top.contentModel.Has(elementtable.Raw) {
			if top.forwarded || s.p.textIn[top.originalName] {
				s.next.Text(text)
			}
			return
		}
	}
	s.next.Text(text)
}

func (s *policySink) notify(name string, reason ChangeReason) {
	if s.p.listener != nil {
		s.p.listener(name, reason, s.ctx)
	}
}

// filterAttrs applies §4.3 step 3: for each attribute, run its composed
// global+per-element chain, then (for URL-valued attributes) the scheme
// whitelist, then (for style, when styling is enabled) the CSS
// sub-policy in place of an ordinary chain.
func (s *policySink) filterAttrs(originalElement, element string, attrs event.Attrs) event.Attrs {
	kept := make(event.Attrs, 0, len(attrs))
	for _, a := range attrs {
		value, reason, ok := s.applyAttr(element, a.Name, a.Value)
		if !ok {
			s.notify(originalElement+"."+a.Name, reason)
			continue
		}
		kept = append(kept, event.Attr{Name: a.Name, Value: value})
	}
	return kept
}

func (s *policySink) applyAttr(element, name, value string) (string, ChangeReason, bool) {
	if name == "style" && s.p.allowStyle {
		sanitized := css.Sanitize(value, s.p.cssSchema, s.p.cssURLPolicy)
		if sanitized == "" {
			return "", RejectedAttribute, false
		}
		return sanitized, 0, true
	}

	chain := append(append([]AttrTransform{}, s.p.globalAttrs[name]...), s.p.elemAttrs[element][name]...)
	if len(chain) == 0 {
		return "", RejectedAttribute, false
	}
	cur := value
	for _, t := range chain {
		next, ok := t(element, name, cur)
		if !ok {
			return "", RejectedAttribute, false
		}
		cur = next
	}

	if urlAttrs[name] {
		sanitizedURL, ok := s.p.checkURLScheme(cur)
		if !ok {
			return "", RejectedURLScheme, false
		}
		cur = sanitizedURL
	}
	return cur, 0, true
}

// checkURLScheme implements §4.3 step 3d and the RequireParseableURLs /
// AllowRelativeURLs supplemented toggles.
func (p *Policy) checkURLScheme(raw string) (string, bool) {
	cleaned := stripControlBytes(strings.TrimSpace(raw))

	u, err := url.Parse(cleaned)
	if err != nil {
		if p.requireParseableURLs {
			return "", false
		}
		// Unparseable, but a leading "scheme:" is still held to the whitelist.
		if i := strings.IndexByte(cleaned, ':'); i > 0 && !strings.ContainsAny(cleaned[:i], "/?#") &&
			!p.schemes[strings.ToLower(cleaned[:i])] {
			return "", false
		}
		return raw, true
	}
	if u.Scheme == "" {
		if p.requireParseableURLs && !p.allowRelativeURLs {
			return "", false
		}
		return raw, true
	}
	if !p.schemes[strings.ToLower(u.Scheme)] {
		return "", false
	}
	return raw, true
}

// stripControlBytes drops ASCII control characters (including the NUL,
// tab, and newline bytes attackers use to split "java\tscript:"-style
// scheme strings past a naive scan).
func stripControlBytes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x20 && s[i] != 0x7f {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// applyGlobalRules implements §4.3 step 4.
func (s *policySink) applyGlobalRules(element string, attrs event.Attrs) event.Attrs {
	if _, hasTarget := attrs.Get("target"); hasTarget {
		rel, _ := attrs.Get("rel")
		attrs = attrs.Set("rel", mergeTokens(rel, "noopener", "noreferrer"))
	}
	if s.p.requireNoFollow && element == "a" {
		rel, _ := attrs.Get("rel")
		attrs = attrs.Set("rel", mergeTokens(rel, "nofollow"))
	}
	return attrs
}

// mergeTokens adds each of add to the whitespace-separated token list
// existing, skipping any already present (case-insensitively).
func mergeTokens(existing string, add ...string) string {
	fields := strings.Fields(existing)
	have := make(map[string]bool, len(fields))
	for _, f := range fields {
		have[strings.ToLower(f)] = true
	}
	for _, a := range add {
		if !have[strings.ToLower(a)] {
			fields = append(fields, a)
			have[strings.ToLower(a)] = true
		}
	}
	return strings.Join(fields, " ")
}
