package content

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// plainText reduces a rich-text column (CMS editors store HTML fragments) to
// the plain text used in meta tags.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
