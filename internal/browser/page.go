package browser

import (
	"errors"
)

var (
	// ErrNotFound is returned when no selector strategy matched.
	ErrNotFound = errors.New("element not found")
	// ErrStale is returned when a handle is used after the page navigated away.
	ErrStale = errors.New("stale element handle")
)

// Scope is anything that can be searched with a CSS selector: a page or an element.
type Scope interface {
	Query(selector string) ([]Element, error)
}

// Page is the single browser tab a run drives. It is passed explicitly to
// every component so tests can substitute a fake.
type Page interface {
	Scope
	Goto(url string) error
	Reload() error
	URL() string
	Screenshot(name string) error
}

// Element is a handle to one DOM node, valid until the next navigation.
type Element interface {
	Scope
	Text() (string, error)
	Attr(name string) (string, error)
	Visible() (bool, error)
	Click() error
	Fill(value string) error
	ScrollIntoView() error
}

// First returns the first element matching selector in scope.
func First(scope Scope, selector string) (Element, error) {
	els, err := scope.Query(selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, ErrNotFound
	}
	return els[0], nil
}
