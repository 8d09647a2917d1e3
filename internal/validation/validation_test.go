package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmail(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want bool
	}{
		{"a@b.com", true},
		{"  vendor.name+ai@company.sa ", true},
		{"missing-at.com", false},
		{"a@b", false},
		{"", false},
		{"a b@c.com", false},
	} {
		assert.Equal(t, tc.want, IsEmail(tc.in), "IsEmail(%q)", tc.in)
	}
}

func TestIsURL(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want bool
	}{
		{"https://example.com", true},
		{"http://example.com/path?q=1", true},
		{"example.sa", true},
		{"ftp://example.com", false},
		{"not a url", false},
		{"https://localhost", false},
		{"", false},
	} {
		assert.Equal(t, tc.want, IsURL(tc.in), "IsURL(%q)", tc.in)
	}
}

func TestIsLinkedInURL(t *testing.T) {
	assert.True(t, IsLinkedInURL("https://www.linkedin.com/company/acme"))
	assert.True(t, IsLinkedInURL("linkedin.com/in/someone"))
	assert.True(t, IsLinkedInURL("https://sa.linkedin.com/in/someone"))
	assert.False(t, IsLinkedInURL("https://example.com/linkedin"))
	assert.False(t, IsLinkedInURL("https://linkedin.com.evil.io"))
}

func TestIsPhone(t *testing.T) {
	assert.True(t, IsPhone("+966 50 123 4567"))
	assert.True(t, IsPhone("(011) 555-1234"))
	assert.False(t, IsPhone("12"))
	assert.False(t, IsPhone("call me"))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("3f2b8c1e-9a4d-4c7e-8b1a-2d3e4f5a6b7c"))
	assert.False(t, IsUUID("3f2b8c1e9a4d4c7e8b1a2d3e4f5a6b7c"))
	assert.False(t, IsUUID("{3f2b8c1e-9a4d-4c7e-8b1a-2d3e4f5a6b7c}"))
	assert.False(t, IsUUID("1 OR 1=1"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "scriptalert(1)/script", Sanitize("  <script>alert(1)</script> ", 100))
	assert.Equal(t, "abc", Sanitize("abcdef", 3))
	assert.Equal(t, "حلول", Sanitize("حلول ذكية", 4))
	assert.Equal(t, strings.Repeat("x", MaxShortLength), Sanitize(strings.Repeat("x", 300), MaxShortLength))
}

func TestSanitizeList(t *testing.T) {
	assert.Equal(t, []string{"AI", "Vision"}, SanitizeList([]string{" AI ", "", "<>", "Vision"}, 50))
}

func TestErrors(t *testing.T) {
	var errs Errors
	assert.True(t, errs.Empty())
	errs.Add("contact_email", "contact email is invalid")
	errs.Add("summary", "summary is required")
	assert.False(t, errs.Empty())
	assert.Equal(t, "contact email is invalid; summary is required", errs.Error())
}
