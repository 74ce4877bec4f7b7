package models

import "strings"

// Country describes the phone numbering rules for a supported market.
type Country struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
	Digits int    `json:"digits"`
}

// DefaultCountryCode is used when no country has been selected.
const DefaultCountryCode = "NO"

var countries = []Country{
	{Code: "NO", Name: "Norway", Prefix: "+47", Digits: 8},
	{Code: "SE", Name: "Sweden", Prefix: "+46", Digits: 9},
}

// Countries returns the supported countries.
func Countries() []Country {
	out := make([]Country, len(countries))
	copy(out, countries)
	return out
}

// LookupCountry finds a country by its ISO code, case-insensitively.
func LookupCountry(code string) (Country, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range countries {
		if c.Code == code {
			return c, true
		}
	}
	return Country{}, false
}

// DefaultCountry returns the country used by new wizards.
func DefaultCountry() Country {
	c, _ := LookupCountry(DefaultCountryCode)
	return c
}
