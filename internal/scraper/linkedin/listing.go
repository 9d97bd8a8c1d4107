package linkedin

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go-linkedin-applicants/internal/scraper"
)

var digitsRegex = regexp.MustCompile(`\d+`)

type Navigator struct{}

func NewNavigator() *Navigator {
	return &Navigator{}
}

// OpenListing goes from the job posting to the unfiltered applicant listing
// and discovers how many pages it has.
func (n *Navigator) OpenListing(ctx context.Context, sess *Session, jobURL string) (scraper.PaginationState, error) {
	log.Printf("📂 Opening job posting: %s", jobURL)
	if err := sess.Page.Goto(jobURL); err != nil {
		return scraper.PaginationState{}, n.fail(sess, jobURL, "could not load job posting", err)
	}

	control, err := sess.waitForElement(ctx, "view applicants control", sess.Page, viewApplicantsChain)
	if err != nil {
		return scraper.PaginationState{}, n.fail(sess, jobURL, "view applicants control not found", err)
	}
	if err := control.Click(); err != nil {
		return scraper.PaginationState{}, n.fail(sess, jobURL, "could not open applicants", err)
	}
	if err := sess.settlePage(ctx); err != nil {
		return scraper.PaginationState{}, n.fail(sess, jobURL, "interrupted", err)
	}

	//drop filter/sort params so every applicant is listed
	canonical := StripQuery(sess.Page.URL())
	log.Printf("🧹 Reloading canonical listing: %s", canonical)
	if err := n.reload(sess, canonical); err != nil {
		return scraper.PaginationState{}, n.fail(sess, canonical, "could not reload listing", err)
	}
	if err := sess.settlePage(ctx); err != nil {
		return scraper.PaginationState{}, n.fail(sess, canonical, "interrupted", err)
	}

	if err := n.waitForRows(ctx, sess); err != nil {
		log.Printf("⚠️ No applicant rows visible yet: %v", err)
	}

	state := scraper.NewPaginationState(n.TotalPages(sess))
	log.Printf("📑 Listing has %d page(s)", state.TotalPages)
	return state, nil
}

//already unfiltered: a plain reload is enough
func (n *Navigator) reload(sess *Session, canonical string) error {
	if sess.Page.URL() == canonical {
		return sess.Page.Reload()
	}
	return sess.Page.Goto(canonical)
}

// TotalPages reads the last pagination indicator. A listing without
// indicators, or with an unreadable one, is a single page.
func (n *Navigator) TotalPages(sess *Session) int {
	indicators, _, err := firstNonEmpty(sess.Page, paginationIndicatorSelectors)
	if err != nil || len(indicators) == 0 {
		log.Println("ℹ️ No pagination indicator found, assuming a single page.")
		return 1
	}

	last := indicators[len(indicators)-1]
	if v, err := last.Attr(paginationPageAttr); err == nil {
		if total, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && total >= 1 {
			return total
		}
	}
	text, err := last.Text()
	if err == nil {
		if m := digitsRegex.FindString(text); m != "" {
			if total, err := strconv.Atoi(m); err == nil && total >= 1 {
				return total
			}
		}
	}
	log.Printf("⚠️ Could not read page number from last indicator (%q), assuming a single page.", text)
	return 1
}

// GoToPage clicks the pagination control labelled with page. A missing control
// returns an error matching browser.ErrNotFound.
func (n *Navigator) GoToPage(ctx context.Context, sess *Session, page int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	control, _, err := nextPageChain(page).Resolve(sess.Page)
	if err != nil {
		return fmt.Errorf("page %d control: %w", page, err)
	}
	if err := control.Click(); err != nil {
		return fmt.Errorf("page %d click: %w", page, err)
	}
	log.Printf("➡️  Moved to page %d", page)
	return nil
}

func (n *Navigator) waitForRows(ctx context.Context, sess *Session) error {
	return sess.waitFor(ctx, "applicant rows", func() (bool, error) {
		rows, _, err := firstNonEmpty(sess.Page, applicantRowSelectors)
		return len(rows) > 0, err
	})
}

func (n *Navigator) fail(sess *Session, target, msg string, cause error) error {
	log.Printf("❌ Failed to navigate to applicants: %s: %v", msg, cause)
	sess.screenshot("linkedin-navigation-failed")
	return &NavigationError{URL: target, Message: msg, Cause: cause}
}

// StripQuery removes the query string and fragment from rawURL.
func StripQuery(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		if idx := strings.IndexAny(rawURL, "?#"); idx != -1 {
			return rawURL[:idx]
		}
		return rawURL
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// absoluteURL resolves LinkedIn-relative hrefs.
func absoluteURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return baseURL + href
}
