package htmlsanitizer

import (
	"strings"

	"github.com/briarsafe/htmlsanitizer/internal/css"
	"github.com/briarsafe/htmlsanitizer/internal/event"
)

// ElementTransform is one link in an element policy chain (§4.3 step 2).
// It receives the canonical element name and its attribute list and
// returns either a (possibly renamed) name and a (possibly mutated)
// attribute list, or ok=false to reject the element entirely (its text
// children still pass, per §4.3 step 1 and §7's "Unknown element" row).
type ElementTransform func(name string, attrs event.Attrs) (newName string, newAttrs event.Attrs, ok bool)

// AttrTransform is one link in an attribute policy chain (§4.3 step 3).
// It receives the element name, attribute name, and raw value, and
// returns either a sanitized value or ok=false to drop the attribute.
type AttrTransform func(element, name, value string) (string, bool)

// urlAttrs is the fixed set of attribute names treated as URL-valued
// regardless of which element they appear on, per §4.3 step 3d's "known
// set per element: href, src, action, cite, etc."
var urlAttrs = map[string]bool{
	"href": true, "src": true, "action": true, "cite": true,
	"longdesc": true, "background": true, "formaction": true,
	"poster": true, "profile": true, "usemap": true, "manifest": true,
}

// Policy is the immutable, built sanitization policy (§3 "Policy"). Build
// one with NewPolicyBuilder; a Policy is safe for concurrent use by any
// number of Sanitize calls once built.
type Policy struct {
	elements    map[string][]ElementTransform
	globalAttrs map[string][]AttrTransform
	elemAttrs   map[string]map[string][]AttrTransform
	withoutAttrs map[string]bool
	textIn      map[string]bool

	schemes              map[string]bool
	allowRelativeURLs    bool
	requireParseableURLs bool

	requireNoFollow bool
	allowDocType    bool
	depthLimit      int

	cssSchema    *css.Schema
	cssURLPolicy css.URLPolicy
	allowStyle   bool

	listener HtmlChangeListener
}

// PolicyBuilder assembles a Policy through chained calls (§6
// "build_policy(builder-spec)"). The zero value is not usable; construct
// with NewPolicyBuilder.
type PolicyBuilder struct {
	p *Policy
}

// NewPolicyBuilder returns a builder for a policy that starts out
// allowing nothing: no elements, no attributes, no URL schemes. Use
// DefaultPolicy or StrictPolicy for a ready-made starting point.
func NewPolicyBuilder() *PolicyBuilder {
	b := &PolicyBuilder{p: &Policy{
		elements:     map[string][]ElementTransform{},
		globalAttrs:  map[string][]AttrTransform{},
		elemAttrs:    map[string]map[string][]AttrTransform{},
		withoutAttrs: map[string]bool{},
		textIn:       map[string]bool{},
		schemes:      map[string]bool{},
	}}
	b.addDefaultElsWithoutAttrs()
	return b
}

// AllowElements whitelists names with the identity element transform:
// they pass through unchanged (modulo attribute filtering).
func (b *PolicyBuilder) AllowElements(names ...string) *PolicyBuilder {
	return b.AllowElementsWithTransform(identityElement, names...)
}

// AllowElementsWithTransform whitelists names and appends transform to
// each one's chain (§6 "allow-element-with-transform"). Calling this
// more than once for the same name appends another link rather than
// replacing the chain, so callers can layer a rename on top of an
// earlier AllowElements call.
func (b *PolicyBuilder) AllowElementsWithTransform(transform ElementTransform, names ...string) *PolicyBuilder {
	for _, n := range names {
		n = strings.ToLower(n)
		b.p.elements[n] = append(b.p.elements[n], transform)
	}
	return b
}

// DisallowElements removes any chain registered for names, returning
// them to the default-rejected state (§6 "disallow-elements").
func (b *PolicyBuilder) DisallowElements(names ...string) *PolicyBuilder {
	for _, n := range names {
		delete(b.p.elements, strings.ToLower(n))
	}
	return b
}

// DisallowAttrs removes any global or per-element chain for names (§6
// "disallow-attributes").
func (b *PolicyBuilder) DisallowAttrs(names ...string) *PolicyBuilder {
	for _, n := range names {
		n = strings.ToLower(n)
		delete(b.p.globalAttrs, n)
		for _, m := range b.p.elemAttrs {
			delete(m, n)
		}
	}
	return b
}

// AllowWithoutAttrs permits names to survive with zero surviving
// attributes (§6 "allow-without-attributes"); by default an element
// below that threshold is dropped (§4.3 step 5).
func (b *PolicyBuilder) AllowWithoutAttrs(names ...string) *PolicyBuilder {
	for _, n := range names {
		b.p.withoutAttrs[strings.ToLower(n)] = true
	}
	return b
}

// AllowTextIn opts names into forwarding their raw CDATA text even when
// the host element itself is rejected (§6 "allow-text-in"); by default,
// per §4.3's "Per text" rule, a raw host's text is dropped along with a
// rejected open tag so a disallowed <script> can't leak its body as
// visible text.
func (b *PolicyBuilder) AllowTextIn(names ...string) *PolicyBuilder {
	for _, n := range names {
		b.p.textIn[strings.ToLower(n)] = true
	}
	return b
}

// AllowURLProtocols whitelists URL schemes for every URL-valued
// attribute (§6 "allow-url-protocols").
func (b *PolicyBuilder) AllowURLProtocols(schemes ...string) *PolicyBuilder {
	for _, s := range schemes {
		b.p.schemes[strings.ToLower(s)] = true
	}
	return b
}

// AllowStandardURLProtocols whitelists the common web URL schemes (§6
// "allow-standard-url-protocols").
func (b *PolicyBuilder) AllowStandardURLProtocols() *PolicyBuilder {
	return b.AllowURLProtocols("http", "https", "mailto", "ftp", "tel")
}

// RequireParseableURLs requires every URL-valued attribute's value to
// parse with net/url before it can survive (supplemented feature,
// bluemonday-compatible naming).
func (b *PolicyBuilder) RequireParseableURLs(require bool) *PolicyBuilder {
	b.p.requireParseableURLs = require
	return b
}

// AllowRelativeURLs additionally permits schemeless, non-absolute URLs
// once RequireParseableURLs is in effect (implies RequireParseableURLs).
func (b *PolicyBuilder) AllowRelativeURLs(allow bool) *PolicyBuilder {
	b.p.requireParseableURLs = true
	b.p.allowRelativeURLs = allow
	return b
}

// RequireNoFollowOnLinks adds rel="nofollow" to every surviving <a> (§6
// "require-rel-nofollow-on-links").
func (b *PolicyBuilder) RequireNoFollowOnLinks() *PolicyBuilder {
	b.p.requireNoFollow = true
	return b
}

// AllowDocType controls whether a leading <!DOCTYPE ...> is preserved
// rather than dropped (supplemented feature; default false, since the
// sanitizer treats input as a body fragment per §1's Non-goals).
func (b *PolicyBuilder) AllowDocType(allow bool) *PolicyBuilder {
	b.p.allowDocType = allow
	return b
}

// AllowStyling enables the style-attribute sub-policy (§6
// "allow-styling"). schema is optional; css.DefaultSchema() is used when
// omitted.
func (b *PolicyBuilder) AllowStyling(schema ...*css.Schema) *PolicyBuilder {
	b.p.allowStyle = true
	if len(schema) > 0 && schema[0] != nil {
		b.p.cssSchema = schema[0]
	} else {
		b.p.cssSchema = css.DefaultSchema()
	}
	return b
}

// AllowURLsInStyles permits url(...) inside CSS declarations, subject to
// urlPolicy (§6 "allow-urls-in-styles"). Without this, any declaration
// containing url(...) is dropped outright by the CSS sub-policy.
func (b *PolicyBuilder) AllowURLsInStyles(urlPolicy css.URLPolicy) *PolicyBuilder {
	b.p.cssURLPolicy = urlPolicy
	return b
}

// WithMaxNestingDepth overrides the balancer's nesting cap (§3, §4.2;
// default balancer.DefaultDepthLimit). This is the "configured limit"
// referenced throughout §4.2 and §8's "Bounded depth" property.
func (b *PolicyBuilder) WithMaxNestingDepth(n int) *PolicyBuilder {
	b.p.depthLimit = n
	return b
}

// WithChangeListener registers an observer invoked for every element or
// attribute rejection (§6 "HtmlChangeListener").
func (b *PolicyBuilder) WithChangeListener(fn HtmlChangeListener) *PolicyBuilder {
	b.p.listener = fn
	return b
}

// Build finalizes the policy. The builder must not be reused afterward.
func (b *PolicyBuilder) Build() *Policy {
	return b.p
}

func identityElement(name string, attrs event.Attrs) (string, event.Attrs, bool) {
	return name, attrs, true
}

// addDefaultElsWithoutAttrs seeds the elements that are well known to be
// meaningful with no attributes at all, so ordinary callers don't need
// to enumerate every block/inline element by hand (supplemented
// feature, following bluemonday's addDefaultElsWithoutAttrs).
func (b *PolicyBuilder) addDefaultElsWithoutAttrs() {
	for _, n := range []string{
		"abbr", "acronym", "article", "aside", "audio", "b", "bdi",
		"blockquote", "body", "br", "button", "canvas", "caption", "cite",
		"code", "col", "colgroup", "datalist", "dd", "del", "details",
		"dfn", "div", "dl", "dt", "em", "fieldset", "figcaption", "figure",
		"footer", "h1", "h2", "h3", "h4", "h5", "h6", "head", "header",
		"hgroup", "hr", "html", "i", "ins", "kbd", "li", "mark", "nav",
		"ol", "optgroup", "option", "p", "pre", "q", "rp", "rt", "ruby",
		"s", "samp", "section", "select", "small", "span", "strike",
		"strong", "sub", "summary", "sup", "table", "tbody", "td",
		"textarea", "tfoot", "th", "thead", "time", "tr", "tt", "u", "ul",
		"var", "video", "wbr",
	} {
		b.p.withoutAttrs[n] = true
	}
}
