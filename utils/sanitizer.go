package utils

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// StrictPolicy removes all markup; used for title/preview/search text
	StrictPolicy *bluemonday.Policy
	// EditorPolicy keeps the markup the rich-text editor produces
	EditorPolicy *bluemonday.Policy
)

func init() {
	StrictPolicy = bluemonday.StrictPolicy()

	EditorPolicy = bluemonday.UGCPolicy()

	// Elements the note editor emits
	EditorPolicy.AllowElements("p", "br", "div", "span", "h1", "h2", "h3")
	EditorPolicy.AllowElements("strong", "b", "em", "i", "u", "s", "code", "pre")
	EditorPolicy.AllowElements("ul", "ol", "li", "blockquote")

	// Checklist widgets are stored as checkbox inputs inside the blob
	EditorPolicy.AllowAttrs("type", "checked").OnElements("input")
	EditorPolicy.AllowElements("input")

	EditorPolicy.AllowAttrs("href").OnElements("a")
	EditorPolicy.RequireParseableURLs(true)
	EditorPolicy.AllowURLSchemes("http", "https", "mailto")
}

// SanitizeContent sanitizes note content before it is stored.
func SanitizeContent(content string) string {
	return EditorPolicy.Sanitize(content)
}

// StripHTML removes all markup from content and unescapes entities,
// yielding the plain text used for title derivation and search.
func StripHTML(content string) string {
	return html.UnescapeString(StrictPolicy.Sanitize(content))
}
