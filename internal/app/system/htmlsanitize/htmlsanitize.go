// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// rich allows the light formatting staff use in camp descriptions and the
// group schedule (paragraphs, lists, emphasis, links, simple tables).
var rich = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "mark")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	p.RequireNoFollowOnLinks(false)
	return p
}()

// strict removes every tag.
var strict = bluemonday.StrictPolicy()

// Sanitize returns s with unsafe markup removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(rich.Sanitize(s))
}

// SanitizeToHTML is Sanitize typed for html/template.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// PlainText strips all markup and decodes entities, for fields that are
// rendered outside a browser (PDFs, spreadsheets, SMS-like contact lines).
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
