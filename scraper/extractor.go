package scraper

import (
	"encoding/json"
	"strconv"
)

// A strategy attempts one way of finding a price on the page. Returning
// false means "nothing here, try the next one"; strategies never error.
type strategy func(p Page) (string, bool)

// strategies is the fixed cascade, in priority order. The first strategy
// that yields a canonical price wins and the rest are never consulted.
var strategies = []strategy{
	priceFromJSONLD,
	priceFromMetaTags,
	priceFromSelectors,
}

// metaSelectors are the metadata tags checked by priceFromMetaTags, in order
var metaSelectors = []string{
	`meta[property="product:price:amount"]`,
	`meta[itemprop="price"]`,
	`meta[name="twitter:data1"]`,
}

// priceSelectors are known marketplace price elements, most specific first,
// ending with the generic .price catch-all.
var priceSelectors = []string{
	"#priceblock_ourprice",
	"#priceblock_dealprice",
	"#corePrice_feature_div .a-offscreen",
	".product-price__price",
	".price--main",
	".priceView-hero-price__value",
	".product-price",
	".c-price",
	".price",
}

// ExtractPrice runs the strategy cascade against a rendered page and returns
// the first canonical price found. Element-level misses fall through from
// strategy to strategy; the final full-text pass is the only point where a
// fault in the page itself surfaces as an error.
func ExtractPrice(p Page) (string, bool, error) {
	for _, s := range strategies {
		if price, ok := s(p); ok {
			return price, true, nil
		}
	}

	// Fallback: search the whole visible page text.
	body, err := p.FullText()
	if err != nil {
		return "", false, err
	}
	price, ok := NormalizeGBP(body)
	return price, ok, nil
}

// priceFromJSONLD scans script[type="application/ld+json"] blocks for an
// offer price. Nodes that fail to parse are skipped, never fatal; a document
// that is an array is inspected at its first element only.
func priceFromJSONLD(p Page) (string, bool) {
	for _, raw := range p.Texts(`script[type="application/ld+json"]`) {
		var doc any
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			continue
		}
		if arr, ok := doc.([]any); ok {
			if len(arr) == 0 {
				continue
			}
			doc = arr[0]
		}
		node, ok := doc.(map[string]any)
		if !ok {
			continue
		}
		offers, ok := node["offers"].(map[string]any)
		if !ok {
			continue
		}
		price := offers["price"]
		if price == nil {
			if spec, ok := offers["priceSpecification"].(map[string]any); ok {
				price = spec["price"]
			}
		}
		if price == nil {
			continue
		}
		if normalized, ok := NormalizeGBP("£" + jsonNumber(price)); ok {
			return normalized, true
		}
	}
	return "", false
}

// priceFromMetaTags reads the content attribute of known price meta tags.
// The raw value carries no currency symbol, so one is prefixed before
// normalization.
func priceFromMetaTags(p Page) (string, bool) {
	for _, sel := range metaSelectors {
		content, ok := p.Attribute(sel, "content")
		if !ok || content == "" {
			continue
		}
		if normalized, ok := NormalizeGBP("£" + content); ok {
			return normalized, true
		}
	}
	return "", false
}

// priceFromSelectors tries known storefront price elements. Element text is
// expected to already contain the currency symbol.
func priceFromSelectors(p Page) (string, bool) {
	for _, sel := range priceSelectors {
		text, ok := p.Text(sel)
		if !ok {
			continue
		}
		if normalized, ok := NormalizeGBP(text); ok {
			return normalized, true
		}
	}
	return "", false
}

// jsonNumber renders a decoded JSON price value as text. offers.price may be
// a number or a numeric string depending on the site.
func jsonNumber(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return ""
	}
}
