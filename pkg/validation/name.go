package validation

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SanitizeName cleans an externally supplied display name: it decodes URL
// escapes, normalizes to NFC, drops anything but letters, digits, spaces,
// hyphens and apostrophes, and collapses whitespace.
func SanitizeName(candidate string) string {
	if strings.ContainsAny(candidate, "%+") {
		if decoded, err := url.QueryUnescape(candidate); err == nil {
			candidate = decoded
		}
	}
	candidate = norm.NFC.String(candidate)

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.Is(unicode.Mn, r):
			return r
		case r == '-', r == '\'':
			return r
		case unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, candidate)

	return strings.Join(strings.Fields(cleaned), " ")
}
