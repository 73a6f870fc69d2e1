package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pricescout/cache"
	"pricescout/models"
)

// fakeFetcher returns a canned result and counts how often it is asked
type fakeFetcher struct {
	result models.ScrapeResult
	err    error
	calls  int
}

func (f *fakeFetcher) Scrape(url string) (models.ScrapeResult, error) {
	f.calls++
	if f.err != nil {
		return models.ScrapeResult{}, f.err
	}
	r := f.result
	r.URL = url
	return r, nil
}

func freshResult(price string) models.ScrapeResult {
	return models.ScrapeResult{
		Title:     "Mega Widget",
		Store:     "example.co.uk",
		Price:     &price,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func doScrape(h *Handlers, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	h.ScrapePrice(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) models.ScrapeResult {
	t.Helper()
	var result models.ScrapeResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return result
}

func TestScrapeRequiresURL(t *testing.T) {
	h := NewHandlers(cache.New(time.Minute), &fakeFetcher{})

	rec := doScrape(h, "/scrape")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Missing ?url=" {
		t.Fatalf("error = %q", body["error"])
	}
}

func TestScrapeFreshThenCached(t *testing.T) {
	fetcher := &fakeFetcher{result: freshResult("£49.99")}
	h := NewHandlers(cache.New(time.Minute), fetcher)

	first := doScrape(h, "/scrape?url=https://example.co.uk/p/1")
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", first.Code)
	}
	fresh := decode(t, first)
	if fresh.Cached {
		t.Fatal("first response should not be cached")
	}
	if fresh.GetPrice() != "£49.99" {
		t.Fatalf("price = %q", fresh.GetPrice())
	}

	second := doScrape(h, "/scrape?url=https://example.co.uk/p/1")
	cached := decode(t, second)
	if !cached.Cached {
		t.Fatal("second response should be served from cache")
	}
	if cached.GetPrice() != fresh.GetPrice() ||
		cached.Title != fresh.Title ||
		cached.Store != fresh.Store ||
		cached.Timestamp != fresh.Timestamp {
		t.Fatal("cached response must match the stored record")
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetcher called %d times, want 1", fetcher.calls)
	}
}

func TestScrapeAgainAfterExpiry(t *testing.T) {
	fetcher := &fakeFetcher{result: freshResult("£49.99")}
	h := NewHandlers(cache.New(10*time.Millisecond), fetcher)

	doScrape(h, "/scrape?url=https://example.co.uk/p/1")
	time.Sleep(25 * time.Millisecond)
	rec := doScrape(h, "/scrape?url=https://example.co.uk/p/1")

	if result := decode(t, rec); result.Cached {
		t.Fatal("expired entry must trigger a fresh scrape")
	}
	if fetcher.calls != 2 {
		t.Fatalf("fetcher called %d times, want 2", fetcher.calls)
	}
}

func TestScrapeDistinctURLsAreDistinctEntries(t *testing.T) {
	fetcher := &fakeFetcher{result: freshResult("£5.00")}
	h := NewHandlers(cache.New(time.Minute), fetcher)

	doScrape(h, "/scrape?url=https://example.co.uk/p/1")
	doScrape(h, "/scrape?url=https://example.co.uk/p/1/")

	if fetcher.calls != 2 {
		t.Fatalf("fetcher called %d times, want 2 (keys must not be normalized)", fetcher.calls)
	}
}

func TestScrapeFaultReturns500(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("navigation timeout")}
	h := NewHandlers(cache.New(time.Minute), fetcher)

	rec := doScrape(h, "/scrape?url=https://example.co.uk/p/1")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Scrape failed" {
		t.Fatalf("error = %q", body["error"])
	}
	if body["message"] != "navigation timeout" {
		t.Fatalf("message = %q", body["message"])
	}
}

func TestFailedScrapeIsNotCached(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("navigation timeout")}
	h := NewHandlers(cache.New(time.Minute), fetcher)

	doScrape(h, "/scrape?url=https://example.co.uk/p/1")

	fetcher.err = nil
	fetcher.result = freshResult("£9.99")
	rec := doScrape(h, "/scrape?url=https://example.co.uk/p/1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if result := decode(t, rec); result.Cached {
		t.Fatal("a failed scrape must not leave a cache entry behind")
	}
}

func TestNullPriceSerializesAsNull(t *testing.T) {
	fetcher := &fakeFetcher{result: models.ScrapeResult{
		Title:     "Gone",
		Store:     "example.co.uk",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}}
	h := NewHandlers(cache.New(time.Minute), fetcher)

	rec := doScrape(h, "/scrape?url=https://example.co.uk/p/1")

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	price, present := body["price"]
	if !present || price != nil {
		t.Fatalf("price = %v, want JSON null", price)
	}
}
