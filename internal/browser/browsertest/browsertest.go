// Package browsertest provides an in-memory browser.Page backed by goquery,
// for exercising selector logic against static HTML fixtures.
//
// Fixtures script interactions with data attributes:
//
//	data-goto="URL"          clicking navigates the page to URL
//	data-swap="fragment"     clicking replaces the inner HTML of
//	data-swap-target="sel"   the element matching sel with a fragment
//
// Navigation replaces the document and invalidates every handle obtained
// before it; using one afterwards returns browser.ErrStale.
package browsertest

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"go-linkedin-applicants/internal/browser"
)

// Site maps URLs to documents and names to swappable fragments.
type Site struct {
	mu        sync.Mutex
	pages     map[string]string
	fragments map[string]string
}

func NewSite() *Site {
	return &Site{
		pages:     make(map[string]string),
		fragments: make(map[string]string),
	}
}

// Handle registers the document served for rawURL.
func (s *Site) Handle(rawURL, html string) *Site {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[rawURL] = html
	return s
}

// Fragment registers a named fragment for data-swap.
func (s *Site) Fragment(name, html string) *Site {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fragments[name] = html
	return s
}

// lookup tries the exact URL first and then the URL without its query string.
func (s *Site) lookup(rawURL string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if html, ok := s.pages[rawURL]; ok {
		return html, true
	}
	if u, err := url.Parse(rawURL); err == nil {
		u.RawQuery = ""
		u.Fragment = ""
		html, ok := s.pages[u.String()]
		return html, ok
	}
	return "", false
}

func (s *Site) fragment(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	html, ok := s.fragments[name]
	return html, ok
}

// Page is a fake single tab. It is not safe for concurrent use, which matches
// how the scraper drives a real tab.
type Page struct {
	site        *Site
	url         string
	doc         *goquery.Document
	generation  int
	visits      []string
	screenshots []string
	clicks      []string
}

// NewPage returns a blank tab on site.
func NewPage(site *Site) *Page {
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	return &Page{site: site, url: "about:blank", doc: doc}
}

func (p *Page) Goto(rawURL string) error {
	html, ok := p.site.lookup(rawURL)
	if !ok {
		return fmt.Errorf("browsertest: no page registered for %s", rawURL)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("browsertest: parse %s: %w", rawURL, err)
	}
	p.doc = doc
	p.url = rawURL
	p.generation++
	p.visits = append(p.visits, rawURL)
	return nil
}

func (p *Page) Reload() error {
	return p.Goto(p.url)
}

func (p *Page) URL() string {
	return p.url
}

// SetURL changes the address without loading a document, the way a
// client-side router rewrites history.
func (p *Page) SetURL(rawURL string) {
	p.url = rawURL
}

func (p *Page) Query(selector string) ([]browser.Element, error) {
	return p.wrap(p.doc.Find(selector)), nil
}

func (p *Page) Screenshot(name string) error {
	p.screenshots = append(p.screenshots, name)
	return nil
}

// Generation counts document loads; it changes on every navigation.
func (p *Page) Generation() int { return p.generation }

// Visits lists every URL loaded, in order.
func (p *Page) Visits() []string { return append([]string(nil), p.visits...) }

// Screenshots lists the names of requested screenshots.
func (p *Page) Screenshots() []string { return append([]string(nil), p.screenshots...) }

// Clicks lists a short description of every clicked element.
func (p *Page) Clicks() []string { return append([]string(nil), p.clicks...) }

// HTML returns the current document, handy when a test fails.
func (p *Page) HTML() string {
	html, _ := p.doc.Html()
	return html
}

func (p *Page) wrap(sel *goquery.Selection) []browser.Element {
	out := make([]browser.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &element{page: p, sel: s, generation: p.generation})
	})
	return out
}

type element struct {
	page       *Page
	sel        *goquery.Selection
	generation int
}

func (e *element) live() error {
	if e.generation != e.page.generation {
		return browser.ErrStale
	}
	return nil
}

func (e *element) Query(selector string) ([]browser.Element, error) {
	if err := e.live(); err != nil {
		return nil, err
	}
	return e.page.wrap(e.sel.Find(selector)), nil
}

func (e *element) Text() (string, error) {
	if err := e.live(); err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(e.sel.Text()), " "), nil
}

func (e *element) Attr(name string) (string, error) {
	if err := e.live(); err != nil {
		return "", err
	}
	v, _ := e.sel.Attr(name)
	return v, nil
}

func (e *element) Visible() (bool, error) {
	if err := e.live(); err != nil {
		return false, err
	}
	return e.sel.Closest("[hidden]").Length() == 0, nil
}

func (e *element) Click() error {
	if err := e.live(); err != nil {
		return err
	}
	if visible, _ := e.Visible(); !visible {
		return fmt.Errorf("browsertest: element %s is not visible", e.describe())
	}
	e.page.clicks = append(e.page.clicks, e.describe())

	if target, ok := e.sel.Attr("data-goto"); ok {
		return e.page.Goto(target)
	}
	if name, ok := e.sel.Attr("data-swap"); ok {
		html, found := e.page.site.fragment(name)
		if !found {
			return fmt.Errorf("browsertest: no fragment %q", name)
		}
		targetSel, _ := e.sel.Attr("data-swap-target")
		target := e.page.doc.Find(targetSel)
		if target.Length() == 0 {
			return fmt.Errorf("browsertest: swap target %q not found", targetSel)
		}
		target.SetHtml(html)
	}
	return nil
}

func (e *element) Fill(value string) error {
	if err := e.live(); err != nil {
		return err
	}
	e.sel.SetAttr("value", value)
	return nil
}

func (e *element) ScrollIntoView() error {
	return e.live()
}

func (e *element) describe() string {
	node := goquery.NodeName(e.sel)
	if id, ok := e.sel.Attr("id"); ok {
		return node + "#" + id
	}
	if label, ok := e.sel.Attr("aria-label"); ok {
		return fmt.Sprintf("%s[aria-label=%q]", node, label)
	}
	return node + ":" + strings.Join(strings.Fields(e.sel.Text()), " ")
}
