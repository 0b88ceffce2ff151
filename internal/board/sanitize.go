package board

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	descriptionPolicy = newDescriptionPolicy()
	textPolicy        = bluemonday.StrictPolicy()
)

// newDescriptionPolicy keeps basic formatting and plain links in job descriptions.
func newDescriptionPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "div", "span")
	p.AllowElements("strong", "b", "em", "i", "u")
	p.AllowElements("ul", "ol", "li")
	p.AllowElements("h3", "h4", "h5", "h6")
	p.AllowAttrs("href").OnElements("a")
	p.RequireParseableURLs(true)
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireNoFollowOnLinks(true)
	return p
}

func sanitizeDescription(s string) string {
	return strings.TrimSpace(descriptionPolicy.Sanitize(s))
}

// sanitizeText strips all markup from a plain-text field. Entities escaped
// by the policy are decoded again since the value is not rendered as HTML.
func sanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
