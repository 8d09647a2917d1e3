// Package validation holds the pure field checks shared by the data access
// layer, the onboarding hand-off and the HTTP handlers.
package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxTextLength caps long free-text fields such as descriptions.
	MaxTextLength = 5000
	// MaxShortLength caps names, titles and other single-line fields.
	MaxShortLength = 255
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9(][0-9\s\-()]{6,18}[0-9]$`)
	uuidPattern     = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	linkedInPattern = regexp.MustCompile(`^(www\.)?([a-z]{2,3}\.)?linkedin\.com$`)
)

// IsEmail reports whether s looks like a standard e-mail address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// IsURL accepts absolute http(s) URLs with a host. A bare domain such as
// "example.com" is accepted too since vendors rarely type the scheme.
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := u.Hostname()
	return host != "" && strings.Contains(host, ".") && !strings.ContainsAny(host, " <>")
}

// IsLinkedInURL reports whether s is a URL pointing at linkedin.com.
func IsLinkedInURL(s string) bool {
	if !IsURL(s) {
		return false
	}
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return linkedInPattern.MatchString(strings.ToLower(u.Hostname()))
}

// IsPhone reports whether s looks like a phone number (digits, spaces,
// dashes, parentheses and an optional leading plus).
func IsPhone(s string) bool {
	return phonePattern.MatchString(strings.TrimSpace(s))
}

// IsUUID reports whether s is a canonical, hyphenated UUID.
func IsUUID(s string) bool {
	return uuidPattern.MatchString(s)
}

// Required reports whether s is non-empty after trimming.
func Required(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Sanitize trims s, strips angle brackets and caps it at max runes.
func Sanitize(s string, max int) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if r == '<' || r == '>' {
			return -1
		}
		return r
	}, s)
	if max > 0 && utf8.RuneCountInString(s) > max {
		s = string([]rune(s)[:max])
	}
	return strings.TrimSpace(s)
}

// SanitizeList sanitizes every entry and drops the ones left empty.
func SanitizeList(in []string, max int) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = Sanitize(v, max); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// FieldError is a single failed check, keyed by the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects field errors in the order they were found.
type Errors []FieldError

// Add appends a field error.
func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Empty reports whether no errors were recorded.
func (e Errors) Empty() bool { return len(e) == 0 }

// Error joins the messages so Errors can be carried as a plain error string.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Message)
	}
	return strings.Join(parts, "; ")
}
