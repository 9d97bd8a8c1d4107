package browser

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy is one way of locating an element. Chains try strategies in order
// from the most specific to the most generic.
type Strategy struct {
	Name string
	Find func(scope Scope) (Element, error)
}

// Selector matches the first element for a CSS selector.
func Selector(selector string) Strategy {
	return Strategy{
		Name: selector,
		Find: func(scope Scope) (Element, error) {
			return First(scope, selector)
		},
	}
}

// SelectorWhere matches the first element for selector that also satisfies pred.
func SelectorWhere(name, selector string, pred func(Element) bool) Strategy {
	return Strategy{
		Name: name,
		Find: func(scope Scope) (Element, error) {
			els, err := scope.Query(selector)
			if err != nil {
				return nil, err
			}
			for _, el := range els {
				if pred(el) {
					return el, nil
				}
			}
			return nil, ErrNotFound
		},
	}
}

// SelectorWithText matches elements whose text contains needle, case-insensitive.
func SelectorWithText(selector, needle string) Strategy {
	needle = strings.ToLower(needle)
	return SelectorWhere(fmt.Sprintf("%s~%q", selector, needle), selector, func(el Element) bool {
		text, err := el.Text()
		return err == nil && strings.Contains(strings.ToLower(text), needle)
	})
}

// NotFoundError lists the strategies that were tried without a match.
type NotFoundError struct {
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("element not found (tried: %s)", strings.Join(e.Tried, " | "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Chain is an ordered list of strategies; the first match wins.
type Chain []Strategy

// Resolve returns the first match and the name of the strategy that produced it.
// A stale scope aborts the chain since no later strategy can succeed either.
func (c Chain) Resolve(scope Scope) (Element, string, error) {
	tried := make([]string, 0, len(c))
	for _, s := range c {
		el, err := s.Find(scope)
		if err == nil && el != nil {
			return el, s.Name, nil
		}
		if errors.Is(err, ErrStale) {
			return nil, s.Name, err
		}
		tried = append(tried, s.Name)
	}
	return nil, "", &NotFoundError{Tried: tried}
}
