package linkedin

import (
	"fmt"
	"strings"

	"go-linkedin-applicants/internal/browser"
)

// LinkedIn hiring UI selectors.
// These WILL break when LinkedIn changes its markup; every chain runs from the
// most specific match to the most generic one.

const (
	LoginURL           = "https://www.linkedin.com/login"
	loginSuccessMarker = "feed"
	baseURL            = "https://www.linkedin.com"

	paginationPageAttr = "data-test-pagination-page-btn"

	emailSelector = `a[href^="mailto:"]`
	//accessibility-only text inside links
	a11ySelector = `.visually-hidden, .a11y-text`
	//muted labels ("Email", "Phone") in the contact panel
	mutedClass = "t-black--light"
)

var (
	usernameChain = browser.Chain{
		browser.Selector("#username"),
		browser.Selector(`input[name="session_key"]`),
	}
	passwordChain = browser.Chain{
		browser.Selector("#password"),
		browser.Selector(`input[name="session_password"]`),
	}
	submitChain = browser.Chain{
		browser.Selector(`button[type="submit"]`),
		browser.SelectorWithText("button", "sign in"),
	}

	viewApplicantsChain = browser.Chain{
		browser.SelectorWhere("applicants link", `a[href*="/applicants"]`, textMentions("applicant")),
		browser.SelectorWhere("applicants button", "button", func(el browser.Element) bool {
			label, err := browser.First(el, ".artdeco-button__text")
			return err == nil && textMentions("applicants")(label)
		}),
		browser.SelectorWhere("applicants aria-label", "[aria-label]", func(el browser.Element) bool {
			label, err := el.Attr("aria-label")
			return err == nil && strings.Contains(strings.ToLower(label), "view applicants")
		}),
	}

	applicantRowSelectors = []string{
		"li.hiring-applicants__list-item",
		"ul.hiring-applicants__list > li",
	}
	paginationIndicatorSelectors = []string{
		"li.artdeco-pagination__indicator--number",
		"li[" + paginationPageAttr + "]",
	}

	rowLinkChain = browser.Chain{
		browser.Selector(`a.ember-view[href*="/applicants/"]`),
		browser.Selector(`a[href*="/applicants/"]`),
		browser.Selector(`a[href]`),
	}
	headerChain = browser.Chain{
		browser.Selector(".hiring-applicant-header h1"),
		browser.Selector("h1.t-24"),
	}
	locationChain = browser.Chain{
		browser.Selector(".hiring-applicant-header div.t-16"),
		//the line under the name, unless that is the actions bar
		browser.SelectorWhere("line after name", ".hiring-applicant-header h1 + div", func(el browser.Element) bool {
			buttons, err := el.Query("button")
			return err == nil && len(buttons) == 0
		}),
	}
	moreActionsChain = browser.Chain{
		browser.Selector(".hiring-applicant-header-actions button.artdeco-dropdown__trigger"),
		browser.Selector(`button[aria-label*="More"]`),
		browser.SelectorWithText("button", "more"),
	}
	//live region the contact panel renders into
	contactPanelChain = browser.Chain{
		browser.Selector("[aria-live] .artdeco-dropdown__content-inner"),
		browser.Selector(".artdeco-dropdown__content-inner"),
	}
	profileLinkChain = browser.Chain{
		browser.Selector("a.artdeco-button--tertiary[href]"),
	}
)

// nextPageChain finds the pagination button labelled with page n.
func nextPageChain(n int) browser.Chain {
	return browser.Chain{
		browser.Selector(fmt.Sprintf(`li[%s="%d"] button`, paginationPageAttr, n)),
		browser.Selector(fmt.Sprintf(`button[aria-label="Page %d"]`, n)),
	}
}

func textMentions(needle string) func(browser.Element) bool {
	return func(el browser.Element) bool {
		text, err := el.Text()
		return err == nil && strings.Contains(strings.ToLower(text), needle)
	}
}

// firstNonEmpty queries selectors in order and returns the first non-empty result.
func firstNonEmpty(scope browser.Scope, selectors []string) ([]browser.Element, string, error) {
	var lastErr error
	for _, sel := range selectors {
		els, err := scope.Query(sel)
		if err != nil {
			lastErr = err
			continue
		}
		if len(els) > 0 {
			return els, sel, nil
		}
	}
	return nil, "", lastErr
}
