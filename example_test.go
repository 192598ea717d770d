package htmlsanitizer_test

import (
	"fmt"

	"github.com/briarsafe/htmlsanitizer"
)

func ExampleSanitize() {
	input := `<b>Hello</b> <script>alert('xss')</script>`
	clean, _ := htmlsanitizer.Sanitize(input, htmlsanitizer.DefaultPolicy())
	fmt.Println(clean)
	// Output: <b>Hello</b>
}

func ExampleNewPolicyBuilder() {
	p := htmlsanitizer.NewPolicyBuilder().
		AllowElements("b", "i").
		Build()
	clean, _ := htmlsanitizer.Sanitize(`<b>bold</b> <div>stripped</div>`, p)
	fmt.Println(clean)
	// Output: <b>bold</b> stripped
}

func ExamplePolicyBuilder_RequireNoFollowOnLinks() {
	p := htmlsanitizer.NewPolicyBuilder().
		AllowElements("a").
		AllowAttrs("href").OnElements("a").
		AllowURLProtocols("https").
		RequireNoFollowOnLinks().
		Build()
	clean, _ := htmlsanitizer.Sanitize(`<a href="https://example.com">link</a>`, p)
	fmt.Println(clean)
	// Output: <a href="https://example.com" rel="nofollow">link</a>
}

func ExampleSanitizeWithContext() {
	p := htmlsanitizer.NewPolicyBuilder().
		AllowElements("p").
		WithChangeListener(func(name string, reason htmlsanitizer.ChangeReason, ctx any) {
			fmt.Printf("rejected %s (reason=%d) for request %v\n", name, reason, ctx)
		}).
		Build()
	clean, _ := htmlsanitizer.SanitizeWithContext(`<p>ok</p><script>bad()</script>`, p, "req-42", nil)
	fmt.Println(clean)
	// Output: rejected script (reason=0) for request req-42
	// <p>ok</p>
}
