package scraper

import (
	"fmt"
	"log"
	"os"
	"time"

	"pricescout/config"
	"pricescout/models"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

const systemChromium = "/usr/bin/chromium-browser"

// pageSession is one browser tab scoped to a single scrape request
type pageSession interface {
	Page
	visit(url string) error
	close()
}

// Scraper owns the shared headless browser and runs one scrape per call.
// Each request gets its own page, released on every exit path; concurrent
// requests for the same URL each do their own work (no single-flight).
type Scraper struct {
	browser     *rod.Browser
	navTimeout  time.Duration
	settleDelay time.Duration

	newSession func() (pageSession, error)
}

// NewScraper launches a headless browser. Uses the system Chromium when
// running in Docker, otherwise lets rod auto-detect one.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false)

	bin := cfg.BrowserBin
	if bin == "" {
		if _, err := os.Stat(systemChromium); err == nil {
			bin = systemChromium
		}
	}
	if bin != "" {
		l = l.Bin(bin)
		log.Printf("Using browser binary: %s", bin)
	} else {
		log.Printf("Using auto-detected Chromium")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %v", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %v", err)
	}
	log.Printf("Browser connected at: %s", controlURL)

	s := &Scraper{
		browser:     browser,
		navTimeout:  cfg.NavTimeout,
		settleDelay: cfg.SettleDelay,
	}
	s.newSession = s.openPage
	return s, nil
}

// Close shuts down the shared browser
func (s *Scraper) Close() {
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			log.Printf("Failed to close browser: %v", err)
		}
	}
}

// openPage creates a fresh stealth page so commodity bot detection sees a
// regular desktop browser.
func (s *Scraper) openPage() (pageSession, error) {
	page, err := stealth.Page(s.browser)
	if err != nil {
		return nil, err
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	}); err != nil {
		log.Printf("Failed to set viewport: %v", err)
	}
	return &session{
		page:        page,
		navTimeout:  s.navTimeout,
		settleDelay: s.settleDelay,
	}, nil
}

// Scrape loads url in a fresh page, runs the extraction cascade and
// assembles the result record. The page is closed exactly once whether the
// scrape succeeds or fails. The result comes back with Cached unset; the
// caller owns cache bookkeeping.
func (s *Scraper) Scrape(url string) (models.ScrapeResult, error) {
	sess, err := s.newSession()
	if err != nil {
		return models.ScrapeResult{}, fmt.Errorf("failed to open page: %v", err)
	}
	defer sess.close()

	if err := sess.visit(url); err != nil {
		return models.ScrapeResult{}, fmt.Errorf("navigation to %s failed: %w", url, err)
	}

	price, found, err := ExtractPrice(sess)
	if err != nil {
		return models.ScrapeResult{}, fmt.Errorf("price extraction failed: %w", err)
	}

	title, err := sess.Title()
	if err != nil {
		return models.ScrapeResult{}, fmt.Errorf("failed to read page title: %w", err)
	}

	result := models.ScrapeResult{
		URL:       url,
		Title:     title,
		Store:     StoreName(url),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if found {
		result.Price = &price
		log.Printf("Extracted price %s from %s", price, url)
	} else {
		log.Printf("No price found on %s", url)
	}
	return result, nil
}
