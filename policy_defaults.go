package htmlsanitizer

import "regexp"

// DefaultPolicy returns a permissive but safe policy covering common
// content-authoring tags — headings, paragraphs, inline formatting,
// lists, tables, links, and images — with script/style/event-handler
// vectors excluded. It mirrors the teacher's DefaultPolicy in spirit,
// rebuilt on PolicyBuilder (supplemented feature, §"SUPPLEMENTED
// FEATURES").
func DefaultPolicy() *Policy {
	b := NewPolicyBuilder()

	b.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "hr",
		"b", "i", "em", "strong", "u", "s", "strike", "del", "ins",
		"ul", "ol", "li",
		"table", "thead", "tbody", "tfoot", "tr", "th", "td",
		"code", "pre", "kbd", "samp",
		"blockquote", "cite", "q",
		"figure", "figcaption",
		"div", "span", "section", "article", "header", "footer",
		"details", "summary",
		"abbr", "acronym", "address",
		"sup", "sub",
	)
	b.AllowElements("a")
	b.AllowElements("img")

	b.AllowAttrs("title", "lang", "dir").Globally()
	b.AllowAttrs("href").OnElements("a")
	b.AllowAttrs("target").OnElements("a")
	b.AllowAttrs("src", "alt", "width", "height", "loading").OnElements("img")
	b.AllowAttrs("colspan", "rowspan").Matching(regexp.MustCompile(`^[0-9]+$`)).OnElements("td", "th")
	b.AllowAttrs("cite").OnElements("blockquote", "q")

	b.AllowURLProtocols("http", "https", "mailto")
	b.RequireNoFollowOnLinks()

	return b.Build()
}

// StrictPolicy returns a policy allowing only basic formatting, paragraph,
// line-break and list tags with no attributes at all, suitable for comment
// sections and other minimal user-generated content.
func StrictPolicy() *Policy {
	b := NewPolicyBuilder()
	b.AllowElements("b", "i", "em", "strong", "br", "p", "ul", "ol", "li")
	b.AllowURLProtocols("https")
	return b.Build()
}
