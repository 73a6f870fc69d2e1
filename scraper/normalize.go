package scraper

import (
	"regexp"
	"strings"
	"unicode"
)

// gbpPattern matches a pound-sterling price: the symbol, an optional space,
// 1-3 digits, optional comma or period separated thousands groups, and an
// optional 2-digit decimal fraction.
var gbpPattern = regexp.MustCompile(`£\s?\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2})?`)

// NormalizeGBP locates the first pound-sterling price in raw and returns it
// in canonical form: no whitespace, no thousands-separator commas, e.g.
// "£1,234.56" becomes "£1234.56". The second return is false when raw
// contains no price. This is a lexical match, not a currency parser; it does
// no sanity checking of the numeric value.
func NormalizeGBP(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	match := gbpPattern.FindString(raw)
	if match == "" {
		return "", false
	}
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ',' {
			return -1
		}
		return r
	}, match)
	return cleaned, true
}
