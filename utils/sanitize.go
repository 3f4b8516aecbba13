package utils

import "github.com/microcosm-cc/bluemonday"

// UGC policy for thread and comment bodies: a small allow-list of inline and
// list markup plus safe links.
var sanitizer = newBodyPolicy()

var titlePolicy = bluemonday.StrictPolicy()

func newBodyPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "strong", "em", "u", "code", "br", "ul", "ol", "li", "p")
	p.AllowAttrs("href", "rel", "target").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireNoFollowOnLinks(true)
	return p
}

// Sanitize cleans user supplied HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// SanitizeStrict strips all markup; used for titles, names and reasons.
func SanitizeStrict(input string) string {
	return titlePolicy.Sanitize(input)
}
