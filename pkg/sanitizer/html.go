package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy   *bluemonday.Policy
	safePolicy     *bluemonday.Policy
	documentPolicy *bluemonday.Policy
	initOnce       sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// StrictPolicy strips ALL HTML, returns plain text
		strictPolicy = bluemonday.StrictPolicy()

		// SafePolicy allows basic formatting for short user-provided text
		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.RequireNoFollowOnLinks(true)

		// DocumentPolicy keeps the structure a printed page needs:
		// headings, tables, images and figures.
		documentPolicy = bluemonday.UGCPolicy()
		documentPolicy.AllowElements("figure", "figcaption", "section", "article", "hr")
		documentPolicy.AllowAttrs("class").Globally()
		documentPolicy.AllowDataURIImages()
	})
}

// StripHTML removes every tag and returns unescaped plain text with
// whitespace runs collapsed. Use for plain-text mail bodies and titles.
func StripHTML(s string) string {
	initPolicies()
	text := html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// SanitizeHTML allows safe formatting tags (p, a, strong, em, lists, code).
// Strips all dangerous elements and attributes including scripts, event handlers,
// and javascript: URLs.
func SanitizeHTML(s string) string {
	initPolicies()
	return safePolicy.Sanitize(s)
}

// SanitizeDocument allows the markup of a full content body (headings,
// tables, images, figures) while removing scripts, event handlers and
// styles that could reach outside the page.
func SanitizeDocument(s string) string {
	initPolicies()
	return documentPolicy.Sanitize(s)
}

// SanitizeHTMLCustom applies a custom bluemonday policy.
// Returns input unchanged if policy is nil.
func SanitizeHTMLCustom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
