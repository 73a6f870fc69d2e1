package models

// ScrapeResult is the outcome of scraping a single product page. It is a
// plain value: the cache stores copies, so annotating a returned result
// (e.g. flipping Cached) never touches the stored record.
type ScrapeResult struct {
	URL       string  `json:"url"`
	Title     string  `json:"title"`
	Store     string  `json:"store"`
	Price     *string `json:"price"`
	Timestamp string  `json:"timestamp"`
	Cached    bool    `json:"cached"`
}

// Clone returns a copy sharing no memory with r: the price pointer is
// re-allocated so writing through one copy can never reach the other.
func (r ScrapeResult) Clone() ScrapeResult {
	out := r
	if r.Price != nil {
		price := *r.Price
		out.Price = &price
	}
	return out
}

// HasPrice returns true if a price was extracted for this result
func (r *ScrapeResult) HasPrice() bool {
	return r.Price != nil
}

// GetPrice returns the extracted price, or "" if none was found
func (r *ScrapeResult) GetPrice() string {
	if r.Price != nil {
		return *r.Price
	}
	return ""
}
