// Package htmlsanitizer provides a fast, policy-driven HTML sanitizer
// for Go applications.
//
// # Overview
//
// htmlsanitizer tokenizes an HTML string with its own backtrack-free
// lexer (not golang.org/x/net/html — see internal/token), balances the
// resulting event stream into a well-formed tag tree (internal/balancer),
// filters and rewrites it against a [Policy] (internal/css for the style
// attribute sub-policy), and renders it back out defensively
// (internal/render). Input is always treated as a body fragment: there
// is no DOM, and no attempt is made to validate or preserve the input's
// formatting.
//
// # Policies
//
// A [Policy] is assembled with [PolicyBuilder]:
//
//	p := htmlsanitizer.NewPolicyBuilder().
//		AllowElements("b", "i", "p", "a", "img").
//		AllowAttrs("href").OnElements("a").
//		AllowAttrs("src", "alt").OnElements("img").
//		AllowURLProtocols("http", "https").
//		RequireNoFollowOnLinks().
//		Build()
//
// Two built-in policies are provided: [DefaultPolicy], a permissive but
// safe policy for common content tags, and [StrictPolicy], a minimal
// policy for comment-style user input.
//
// # Security
//
// htmlsanitizer defends against the usual XSS vectors: script/style
// injection, event-handler attributes (never in any default element or
// attribute allowlist — callers opt in explicitly), javascript: and
// data: URL schemes (checked after entity decoding, so no
// &#x6A;avascript: bypass), CSS expression() injection in style
// attributes, and UTF-16 surrogate-pair confusion in rendered text.
//
// It does not provide a Content-Security-Policy header; pair with
// proper HTTP headers for defence in depth.
//
// # Thread safety
//
// [Sanitize] and [SanitizeWithContext] are safe for concurrent use. A
// built [Policy] is immutable and may be shared across goroutines;
// [PolicyBuilder] itself is not and should not be reused after [PolicyBuilder.Build].
package htmlsanitizer
