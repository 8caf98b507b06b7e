// internal/app/system/normalize/normalize.go

// Package normalize provides canonical forms for user-supplied identity
// fields before they are validated or persisted.
package normalize

import "strings"

// Email lowercases and trims an email address. Uniqueness checks and lookups
// always operate on this form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Phone strips spaces and dashes so the 10-digit check sees bare digits.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// Role lowercases and trims a role name for comparison against the known set.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
