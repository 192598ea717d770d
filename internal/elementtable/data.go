package elementtable

// This file is the data half of the element metadata table: the literal
// describing void elements, CDATA/RCDATA elements, the table family's
// implied-element chains, paragraph/list auto-closing, and the resumable
// inline formatting elements. It plays the role the spec's build-time
// generator would play in a from-scratch implementation. It records
// canContain, closesOnOpen, explicitClosers, implies, the text-content
// model and resumability per element; it keeps no separate list of
// element names and no closed-on-close rules.

// voidElements have no content and no close tag.
var voidElements = []string{
	"area", "base", "br", "col", "embed", "hr", "img", "input",
	"link", "meta", "param", "source", "track", "wbr",
}

// rawTextElements are CDATA elements: content is opaque, not entity
// decoded, and must be defensively guarded rather than escaped on output.
var rawTextElements = []string{"script", "style"}

// rcdataElements decode entities in their content but do not parse tags.
var rcdataElements = []string{"textarea", "title"}

// substituteToPre are legacy RAWTEXT elements that this sanitizer never
// emits under their own name: per §8's worked example, <xmp>/<listing>
// content is rewritten as an escaped <pre> block rather than preserved
// as raw, unescapable CDATA.
var substituteToPre = []string{"xmp", "listing"}

// resumableFormatting are inline elements eligible for the "adoption
// agency" style reopening described in §4.2 and the GLOSSARY.
var resumableFormatting = []string{
	"a", "b", "big", "code", "em", "font", "i", "nobr",
	"s", "small", "strike", "strong", "tt", "u",
}

// blockLevel is used only to seed closesOnOpen rules below (a block
// element implicitly closes an open <p>, matching the HTML5 behavior
// that motivates §8 scenario 3).
var blockLevel = []string{
	"address", "article", "aside", "blockquote", "details", "div", "dl",
	"fieldset", "figcaption", "figure", "footer", "form", "h1", "h2", "h3",
	"h4", "h5", "h6", "header", "hr", "main", "menu", "nav", "ol", "p",
	"pre", "section", "table", "ul",
}

func buildDefault() *Table {
	t := &Table{entries: make(map[ID]*Entry)}

	get := func(name string) *Entry {
		e, ok := t.entries[name]
		if !ok {
			e = &Entry{
				canContain:      map[string]bool{},
				closesOnOpen:    map[string]bool{},
				explicitClosers: map[string]bool{},
				implies:         map[string][]string{},
				Model:           Text | EntitiesAllowed | CommentsAllowed,
			}
			t.entries[name] = e
		}
		return e
	}

	for _, n := range voidElements {
		get(n).Void = true
	}
	for _, n := range rawTextElements {
		get(n).Model = Raw
	}
	for _, n := range rcdataElements {
		get(n).Model = EntitiesAllowed
	}
	for _, n := range substituteToPre {
		e := get(n)
		e.Model = Raw
		e.SubstituteAs = "pre"
	}
	get("plaintext").Model = PlainText | Unended
	for _, n := range resumableFormatting {
		get(n).Resumable = true
	}

	// Paragraphs implicitly close on any block-level open, and on a
	// second <p> (§8 scenario 3: "<p>1<p>2" -> "<p>1</p><p>2</p>").
	p := get("p")
	for _, n := range blockLevel {
		p.closesOnOpen[n] = true
	}
	p.closesOnOpen["p"] = true

	// A block-level open also closes any dangling resumable formatting
	// elements (e.g. an unclosed <b> spanning into a <div>); the balancer
	// reopens them inside the new block, per the "adoption agency" style
	// resumption described in the package doc.
	for _, n := range resumableFormatting {
		f := get(n)
		for _, blk := range blockLevel {
			f.closesOnOpen[blk] = true
		}
	}

	// List items close a previous sibling of the same kind.
	get("li").closesOnOpen["li"] = true
	dt, dd := get("dt"), get("dd")
	dt.closesOnOpen["dt"] = true
	dt.closesOnOpen["dd"] = true
	dd.closesOnOpen["dt"] = true
	dd.closesOnOpen["dd"] = true

	// An option closes a previous sibling option.
	get("option").closesOnOpen["option"] = true

	// Table family: implied tbody/tr, row/cell auto-closing, and
	// explicit closers so a dangling cell or row is cleaned up by the
	// nearest ancestor's close tag (§8 scenario 6).
	table := get("table")
	table.canContain["caption"] = true
	table.canContain["colgroup"] = true
	table.canContain["thead"] = true
	table.canContain["tbody"] = true
	table.canContain["tfoot"] = true
	table.canContain["tr"] = true
	table.canContain["script"] = true
	table.canContain["style"] = true
	table.implies["tr"] = []string{"tbody"}
	table.implies["td"] = []string{"tbody", "tr"}
	table.implies["th"] = []string{"tbody", "tr"}

	for _, sect := range []string{"thead", "tbody", "tfoot"} {
		s := get(sect)
		s.canContain["tr"] = true
		s.canContain["script"] = true
		s.canContain["style"] = true
		s.implies["td"] = []string{"tr"}
		s.implies["th"] = []string{"tr"}
		s.explicitClosers["table"] = true
	}

	tr := get("tr")
	tr.canContain["td"] = true
	tr.canContain["th"] = true
	tr.canContain["script"] = true
	tr.canContain["style"] = true
	tr.closesOnOpen["tr"] = true
	tr.explicitClosers["table"] = true
	tr.explicitClosers["thead"] = true
	tr.explicitClosers["tbody"] = true
	tr.explicitClosers["tfoot"] = true

	for _, cell := range []string{"td", "th"} {
		c := get(cell)
		c.closesOnOpen["td"] = true
		c.closesOnOpen["th"] = true
		c.explicitClosers["tr"] = true
		c.explicitClosers["table"] = true
		c.explicitClosers["thead"] = true
		c.explicitClosers["tbody"] = true
		c.explicitClosers["tfoot"] = true
	}

	colgroup := get("colgroup")
	colgroup.canContain["col"] = true

	// Definition lists and unordered/ordered lists restrict their direct
	// children to the matching item element; anything else seen directly
	// inside one closes it first (handled generically by the balancer
	// falling back to "unrestricted" when canContain is empty, so we
	// only need to record the positive set here).
	dl := get("dl")
	dl.canContain["dt"] = true
	dl.canContain["dd"] = true
	dl.canContain["div"] = true
	ul := get("ul")
	ul.canContain["li"] = true
	ul.canContain["script"] = true
	ol := get("ol")
	ol.canContain["li"] = true
	ol.canContain["script"] = true

	select_ := get("select")
	select_.canContain["option"] = true
	select_.canContain["optgroup"] = true
	optgroup := get("optgroup")
	optgroup.canContain["option"] = true
	optgroup.closesOnOpen["optgroup"] = true

	ruby := get("ruby")
	ruby.canContain["rp"] = true
	ruby.canContain["rt"] = true

	return t
}
