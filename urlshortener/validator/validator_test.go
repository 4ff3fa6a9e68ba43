package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidURL(t *testing.T) {
	urlValidator := CreateURLValidator()

	for _, testCase := range []struct {
		rawURL string
		valid  bool
	}{
		{rawURL: "https://example.com", valid: true},
		{rawURL: "http://example.com/long/path?q=1&r=2#frag", valid: true},
		{rawURL: "https://sub.example.co.uk:8443/a", valid: true},
		{rawURL: "ftp://files.example.com/pub/file.txt", valid: true},
		{rawURL: "http://localhost:8080/x", valid: true},
		{rawURL: "http://127.0.0.1/", valid: true},
		{rawURL: "HTTPS://EXAMPLE.COM/Case", valid: true},
		{rawURL: "https://例え.jp/", valid: true},
		{rawURL: "https://bücher.example/katalog", valid: true},
		{rawURL: "http://[::1]:8080/", valid: true},
		{rawURL: "https://example.com/a%20b", valid: true},
		{rawURL: "", valid: false},
		{rawURL: "example.com", valid: false},
		{rawURL: "not a url", valid: false},
		{rawURL: "mailto:someone@example.com", valid: false},
		{rawURL: "javascript:alert(1)", valid: false},
		{rawURL: "file:///etc/passwd", valid: false},
		{rawURL: "https://", valid: false},
		{rawURL: "https://example.com:99999/", valid: false},
		{rawURL: "https://exa_mple.com/", valid: false},
		{rawURL: " https://example.com", valid: false},
		{rawURL: "https://example.com/a b", valid: false},
		{rawURL: "https://example.com/a\tb", valid: false},
		{rawURL: "http://256.1.1.1/", valid: false},
		{rawURL: "http://1.2.3/", valid: false},
		{rawURL: "http://intranet/", valid: false},
		{rawURL: "https://example.com/" + strings.Repeat("a", MaxURLLength), valid: false},
	} {
		assert.Equal(t, testCase.valid, urlValidator.IsValidURL(testCase.rawURL), testCase.rawURL)
	}
}

func TestIsValidURLWithSchemes(t *testing.T) {
	urlValidator := CreateURLValidator("https")

	assert.True(t, urlValidator.IsValidURL("https://example.com"))
	assert.False(t, urlValidator.IsValidURL("http://example.com"))
}
