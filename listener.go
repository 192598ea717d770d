package htmlsanitizer

// BadHTMLHandler is notified when the renderer detects an impossible
// state it had to defend against: an invalid element/attribute name, or
// a CDATA/RCDATA body that could not be safely closed and was
// suppressed instead. reason is a short, stable, non-user-facing string.
//
// A nil handler (the default) silently drops these reports; Sanitize
// never fails because of them.
type BadHTMLHandler func(reason string)

// ChangeReason identifies why the policy rejected something, for feeding
// an HtmlChangeListener into an intrusion-detection pipeline.
type ChangeReason int

const (
	// RejectedElement means no element policy chain matched the name, or
	// a link in the chain rejected it.
	RejectedElement ChangeReason = iota
	// RejectedAttribute means an attribute had no matching policy chain,
	// or a link in its chain (or the CSS sub-policy, for style) rejected
	// the value.
	RejectedAttribute
	// RejectedURLScheme means an attribute was otherwise acceptable but
	// its URL scheme was not in the allowed set.
	RejectedURLScheme
	// RejectedBareElement means the element survived its own chain but
	// was dropped for having no attributes left and no
	// allow-without-attributes entry.
	RejectedBareElement
)

// HtmlChangeListener is an optional observer invoked once for every
// element or attribute the policy rejects. name is the element name, or
// "element.attribute" for an attribute-level rejection. ctx is whatever
// the caller passed to SanitizeWithContext, unmodified.
//
// Invocations happen serially within one Sanitize call, in document
// order; a listener shared across concurrent calls must be safe for
// concurrent use on its own terms.
type HtmlChangeListener func(name string, reason ChangeReason, ctx any)
