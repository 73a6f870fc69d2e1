package scraper

import (
	"log"
	"time"

	"github.com/go-rod/rod"
	"github.com/ysmood/gson"
)

// Page is the rendered-page query surface the extractor works against.
// Element-level lookups (Texts, Attribute, Text) absorb their own failures
// and report absence instead, because a missing element is the normal case
// in a strategy cascade. FullText and Title surface page-level faults such
// as a crashed or detached page.
type Page interface {
	// Texts returns the text content of every element matching selector,
	// in document order. No matches (or a failed query) yields nil.
	Texts(selector string) []string

	// Attribute returns the named attribute of the first element matching
	// selector, or ("", false) when the element or attribute is absent.
	Attribute(selector, attribute string) (string, bool)

	// Text returns the visible text of the first element matching selector,
	// or ("", false) when the element is absent.
	Text(selector string) (string, bool)

	// FullText returns the visible text of the whole document.
	FullText() (string, error)

	// Title returns the document title, which may be empty.
	Title() (string, error)
}

// session wraps a rod page into the Page interface and carries the
// navigation policy for one scrape request. All queries go through JS
// evaluation against the loaded document.
type session struct {
	page        *rod.Page
	navTimeout  time.Duration
	settleDelay time.Duration
}

// visit navigates to url, waits for the load event within the configured
// ceiling, then sleeps the settle delay so client-side rendering has a
// chance to populate price content before extraction starts.
func (s *session) visit(url string) error {
	if err := s.page.Timeout(s.navTimeout).Navigate(url); err != nil {
		return err
	}
	if err := s.page.Timeout(s.navTimeout).WaitLoad(); err != nil {
		return err
	}
	time.Sleep(s.settleDelay)
	return nil
}

// close releases the browser tab. Safe to defer; a failed close only logs.
func (s *session) close() {
	if err := s.page.Close(); err != nil {
		log.Printf("Failed to close page: %v", err)
	}
}

func (s *session) Texts(selector string) []string {
	obj, err := s.page.Eval(
		`sel => Array.from(document.querySelectorAll(sel)).map(el => el.textContent)`,
		selector,
	)
	if err != nil {
		return nil
	}
	return toStrings(obj.Value.Arr())
}

func (s *session) Attribute(selector, attribute string) (string, bool) {
	obj, err := s.page.Eval(
		`(sel, attr) => { const el = document.querySelector(sel); return el ? el.getAttribute(attr) : null; }`,
		selector, attribute,
	)
	if err != nil || obj.Value.Nil() {
		return "", false
	}
	return obj.Value.Str(), true
}

func (s *session) Text(selector string) (string, bool) {
	obj, err := s.page.Eval(
		`sel => { const el = document.querySelector(sel); return el ? el.innerText : null; }`,
		selector,
	)
	if err != nil || obj.Value.Nil() {
		return "", false
	}
	return obj.Value.Str(), true
}

func (s *session) FullText() (string, error) {
	obj, err := s.page.Eval(`() => document.body.innerText`)
	if err != nil {
		return "", err
	}
	return obj.Value.Str(), nil
}

func (s *session) Title() (string, error) {
	info, err := s.page.Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

func toStrings(items []gson.JSON) []string {
	var out []string
	for _, item := range items {
		out = append(out, item.Str())
	}
	return out
}
