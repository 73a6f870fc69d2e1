package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"pricescout/cache"
	"pricescout/models"
)

// PriceFetcher performs a fresh scrape of a product page
type PriceFetcher interface {
	Scrape(url string) (models.ScrapeResult, error)
}

type Handlers struct {
	cache   *cache.Cache
	fetcher PriceFetcher
}

func NewHandlers(c *cache.Cache, fetcher PriceFetcher) *Handlers {
	return &Handlers{
		cache:   c,
		fetcher: fetcher,
	}
}

// ScrapePrice handles GET /scrape?url=...
//
// A cache hit returns the stored record with cached:true; a miss runs a
// fresh scrape and stores it. Cache keys are the raw URL, byte for byte:
// two URLs differing only by a trailing slash are separate entries.
func (h *Handlers) ScrapePrice(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "Missing ?url=")
		return
	}

	cacheKey := "price:" + url
	if result, ok := h.cache.Get(cacheKey); ok {
		result.Cached = true
		writeJSON(w, http.StatusOK, result)
		return
	}

	result, err := h.fetcher.Scrape(url)
	if err != nil {
		log.Printf("Error scraping %s: %v", url, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Scrape failed",
			"message": err.Error(),
		})
		return
	}

	h.cache.Set(cacheKey, result)
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
