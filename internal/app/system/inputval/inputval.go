// internal/app/system/inputval/inputval.go

// Package inputval validates user-supplied fields at the API boundary.
// Callers normalize input first (see system/normalize), then validate here.
package inputval

import (
	"net/mail"
	"strings"

	"github.com/sevahub/sevahub/internal/app/system/apperr"
)

const (
	PasswordMinLength = 6
	PasswordMaxLength = 128
	NameMinLength     = 2
	NameMaxLength     = 100

	EventTitleMinLength       = 3
	EventTitleMaxLength       = 200
	EventDescriptionMaxLength = 2000
)

// IsValidEmail reports whether s is a plausible bare email address.
//
// net/mail accepts display-name forms ("Name <a@b.c>") and some dotted
// locals we do not want, so we layer structural checks on top of it.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}

	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]

	for _, part := range []string{local, domain} {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") {
			return false
		}
		if strings.Contains(part, "..") {
			return false
		}
	}
	return true
}

// Email validates an address and returns a classified error on failure.
func Email(s string) error {
	if strings.TrimSpace(s) == "" {
		return apperr.Validation("Email is required")
	}
	if !IsValidEmail(s) {
		return apperr.Validation("Invalid email format")
	}
	return nil
}

// Password checks length bounds on a plaintext password.
func Password(s string) error {
	if s == "" {
		return apperr.Validation("Password is required")
	}
	if len(s) < PasswordMinLength {
		return apperr.Newf(apperr.KindValidation,
			"Password must be at least %d characters", PasswordMinLength)
	}
	if len(s) > PasswordMaxLength {
		return apperr.Newf(apperr.KindValidation,
			"Password must not exceed %d characters", PasswordMaxLength)
	}
	return nil
}

// PersonName checks length bounds on a display name.
func PersonName(s string) error {
	if s == "" {
		return apperr.Validation("Name is required")
	}
	if len(s) < NameMinLength {
		return apperr.Newf(apperr.KindValidation,
			"Name must be at least %d characters", NameMinLength)
	}
	if len(s) > NameMaxLength {
		return apperr.Newf(apperr.KindValidation,
			"Name must not exceed %d characters", NameMaxLength)
	}
	return nil
}

// EventTitle checks length bounds on an event title.
func EventTitle(s string) error {
	if s == "" {
		return apperr.Validation("Title is required")
	}
	if len(s) < EventTitleMinLength {
		return apperr.Newf(apperr.KindValidation,
			"Title must be at least %d characters", EventTitleMinLength)
	}
	if len(s) > EventTitleMaxLength {
		return apperr.Newf(apperr.KindValidation,
			"Title must not exceed %d characters", EventTitleMaxLength)
	}
	return nil
}

// EventDescription checks the length cap on an optional event description.
func EventDescription(s string) error {
	if len(s) > EventDescriptionMaxLength {
		return apperr.Newf(apperr.KindValidation,
			"Description must not exceed %d characters", EventDescriptionMaxLength)
	}
	return nil
}

// Phone checks an optional 10-digit Indian mobile number (first digit 6-9).
// Empty input is valid since phone numbers are optional.
func Phone(s string) error {
	if s == "" {
		return nil
	}
	if len(s) != 10 {
		return apperr.Validation("Phone number must be 10 digits")
	}
	if s[0] < '6' || s[0] > '9' {
		return apperr.Validation("Invalid phone number")
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return apperr.Validation("Phone number must be 10 digits")
		}
	}
	return nil
}
