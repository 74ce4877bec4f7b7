package validation

import (
	"strings"

	"github.com/wefitness/signup/pkg/models"
)

// Digits drops every non-digit character.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NumberPortion returns the part of phone after the country's international
// prefix. Input without the prefix is returned trimmed.
func NumberPortion(phone string, c models.Country) string {
	s := strings.TrimSpace(phone)
	if c.Prefix != "" && strings.HasPrefix(s, c.Prefix) {
		s = s[len(c.Prefix):]
	}
	return strings.TrimSpace(s)
}

// ValidPhone reports whether the number portion holds exactly the country's
// expected count of significant digits.
func ValidPhone(phone string, c models.Country) bool {
	if c.Digits <= 0 {
		return false
	}
	return len(Digits(NumberPortion(phone, c))) == c.Digits
}

// FormatPhone prefixes a number portion with the country's international
// prefix. An empty portion yields an empty value.
func FormatPhone(number string, c models.Country) string {
	number = strings.TrimSpace(number)
	if number == "" {
		return ""
	}
	return c.Prefix + " " + number
}

// NormalizePhone renders phone as digits only, country code included.
func NormalizePhone(phone string, c models.Country) string {
	number := Digits(NumberPortion(phone, c))
	if number == "" {
		return ""
	}
	return Digits(c.Prefix) + number
}
