package scraper

import (
	"net/url"
	"strings"
)

// StoreName derives a display name for the shop from a product URL: the
// hostname with a leading "www." stripped. Inputs that do not parse to a
// hostname come back unchanged, so the result is never empty for a non-empty
// input.
func StoreName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return rawURL
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
