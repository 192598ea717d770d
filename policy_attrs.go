package htmlsanitizer

import (
	"regexp"
	"strings"
)

// IdentityAttr accepts any value unchanged — the default attribute
// transform when no Matching constraint is given.
func IdentityAttr(_, _, value string) (string, bool) { return value, true }

// RejectAttr rejects every value; useful as an explicit override inside
// a custom transform chain.
func RejectAttr(_, _, _ string) (string, bool) { return "", false }

// AttrMatching returns an AttrTransform requiring the value to match re
// (§4.3 "matching(pattern)").
func AttrMatching(re *regexp.Regexp) AttrTransform {
	return func(_, _, value string) (string, bool) {
		if re.MatchString(value) {
			return value, true
		}
		return "", false
	}
}

// AttrMatchingSet returns an AttrTransform requiring the value to equal
// one member of set (§4.3 "matching(set, case-sensitive?)").
func AttrMatchingSet(set []string, caseSensitive bool) AttrTransform {
	m := make(map[string]bool, len(set))
	for _, s := range set {
		if !caseSensitive {
			s = strings.ToLower(s)
		}
		m[s] = true
	}
	return func(_, _, value string) (string, bool) {
		key := value
		if !caseSensitive {
			key = strings.ToLower(key)
		}
		if m[key] {
			return value, true
		}
		return "", false
	}
}

// AttrPolicyBuilder is the intermediate value returned by
// PolicyBuilder.AllowAttrs; the attribute policy is only committed to
// the underlying Policy once Globally or OnElements is called.
//
// Examples:
//
//	b.AllowAttrs("title").Globally()
//	b.AllowAttrs("abbr").OnElements("td", "th")
//	b.AllowAttrs("colspan", "rowspan").Matching(regexp.MustCompile(`^[0-9]+$`)).OnElements("td", "th")
type AttrPolicyBuilder struct {
	parent    *PolicyBuilder
	names     []string
	transform AttrTransform
}

// AllowAttrs begins an attribute policy for one or more attribute names
// (§6 "allow-attributes(names…)").
func (b *PolicyBuilder) AllowAttrs(names ...string) *AttrPolicyBuilder {
	ab := &AttrPolicyBuilder{parent: b, transform: IdentityAttr}
	for _, n := range names {
		ab.names = append(ab.names, strings.ToLower(n))
	}
	return ab
}

// Matching constrains the nascent attribute policy to values re matches.
// Calling this more than once replaces the prior constraint.
func (ab *AttrPolicyBuilder) Matching(re *regexp.Regexp) *AttrPolicyBuilder {
	ab.transform = AttrMatching(re)
	return ab
}

// MatchingSet constrains the nascent attribute policy to one of set.
func (ab *AttrPolicyBuilder) MatchingSet(set []string, caseSensitive bool) *AttrPolicyBuilder {
	ab.transform = AttrMatchingSet(set, caseSensitive)
	return ab
}

// WithTransform installs an arbitrary custom AttrTransform in place of
// the default identity/Matching behavior, so user transforms compose
// freely with the builder (§4.3 "Custom user transforms compose freely",
// §9).
func (ab *AttrPolicyBuilder) WithTransform(t AttrTransform) *AttrPolicyBuilder {
	ab.transform = t
	return ab
}

// Globally binds the attribute policy to every element and returns the
// parent builder.
func (ab *AttrPolicyBuilder) Globally() *PolicyBuilder {
	for _, n := range ab.names {
		ab.parent.p.globalAttrs[n] = append(ab.parent.p.globalAttrs[n], ab.transform)
	}
	return ab.parent
}

// OnElements binds the attribute policy to the given elements only, and
// returns the parent builder.
func (ab *AttrPolicyBuilder) OnElements(elements ...string) *PolicyBuilder {
	for _, el := range elements {
		el = strings.ToLower(el)
		m, ok := ab.parent.p.elemAttrs[el]
		if !ok {
			m = map[string][]AttrTransform{}
			ab.parent.p.elemAttrs[el] = m
		}
		for _, n := range ab.names {
			m[n] = append(m[n], ab.transform)
		}
	}
	return ab.parent
}
