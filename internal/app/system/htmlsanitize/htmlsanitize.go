// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize cleans user-generated content before it is stored.
// NGO and event descriptions accept limited rich text; every other free-text
// field is reduced to plain text.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugcPolicy allows common formatting (headings, lists, links, images,
	// tables) and strips scripts, event handlers, and unknown protocols.
	ugcPolicy = func() *bluemonday.Policy {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tr", "th", "td")
		p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
		p.AllowAttrs("style").OnElements("table", "tr", "td", "th")
		p.AllowElements("u", "s", "sub", "sup", "mark")
		return p
	}()

	strictPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans rich-text content, keeping safe formatting markup.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}

// StripTags removes all markup, returning plain text. Used for names,
// addresses, and other fields that must never carry HTML.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// IsPlainText reports whether s contains no HTML tags.
func IsPlainText(s string) bool {
	lt := strings.Index(s, "<")
	if lt == -1 {
		return true
	}
	return strings.Index(s[lt:], ">") == -1
}
