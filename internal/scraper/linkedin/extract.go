package linkedin

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"

	"go-linkedin-applicants/internal/browser"
	"go-linkedin-applicants/internal/scraper"
)

// Position locates a row for log messages.
type Position struct {
	Page  int
	Index int
}

func (p Position) String() string {
	return fmt.Sprintf("page %d, applicant %d", p.Page, p.Index)
}

// Extractor reads one applicant's detail pane. It never fails: every field it
// cannot read is left at its sentinel.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract opens row's detail pane and reads the applicant's contact details.
func (x *Extractor) Extract(ctx context.Context, sess *Session, row browser.Element, pos Position) (rec scraper.ApplicantRecord) {
	rec = scraper.NotFoundRecord()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ [%s] extraction panicked: %v", pos, r)
		}
	}()

	if err := row.ScrollIntoView(); err != nil {
		x.warn(pos, "scroll", err)
	}
	if err := sess.settle(ctx); err != nil {
		x.warn(pos, "settle", err)
		return rec
	}

	//without the detail link the pane still shows the previous applicant
	previous := readText(sess.Page, headerChain, "")
	link, strategy, err := rowLinkChain.Resolve(row)
	if err != nil {
		x.warn(pos, "detail link", err)
		return rec
	}
	if err := link.Click(); err != nil {
		x.warn(pos, "open detail ("+strategy+")", err)
		return rec
	}

	header, stale, err := x.waitForHeader(ctx, sess, previous)
	switch {
	case stale:
		x.warn(pos, "header", fmt.Errorf("pane still shows %q: %w", previous, err))
		return rec
	case err != nil:
		x.warn(pos, "header", err)
	default:
		x.guard(pos, "name", func() error {
			text, err := header.Text()
			if err != nil {
				return err
			}
			rec.Name = ParseName(text)
			return nil
		})
	}

	x.guard(pos, "location", func() error {
		rec.Location = readText(sess.Page, locationChain, scraper.LocationNotFound)
		return nil
	})

	panel, err := x.openContactPanel(ctx, sess)
	if err != nil {
		x.warn(pos, "contact panel", err)
	} else {
		x.guard(pos, "email", func() error {
			email, err := readEmail(panel)
			if err != nil {
				return err
			}
			rec.Email = email
			return nil
		})
		x.guard(pos, "phone", func() error {
			spans, err := contactSpans(panel)
			if err != nil {
				return err
			}
			rec.Phone = PickPhone(spans)
			return nil
		})
	}

	x.guard(pos, "profile link", func() error {
		link, _, err := profileLinkChain.Resolve(sess.Page)
		if err != nil {
			return err
		}
		href, err := link.Attr("href")
		if err != nil {
			return err
		}
		rec.ProfileLink = absoluteURL(href)
		return nil
	})

	log.Printf("👤 [%s] %s (%s)", pos, rec.Name, rec.Location)
	return rec
}

// waitForHeader waits for a detail header whose text differs from previous,
// the header shown before the row was clicked. stale reports that a header
// was on screen for the whole wait but never changed.
func (x *Extractor) waitForHeader(ctx context.Context, sess *Session, previous string) (header browser.Element, stale bool, err error) {
	err = sess.waitFor(ctx, "applicant header", func() (bool, error) {
		el, _, err := headerChain.Resolve(sess.Page)
		if err != nil {
			stale = false
			return false, err
		}
		text, err := el.Text()
		if err != nil {
			return false, err
		}
		if previous != "" && cleanText(text) == previous {
			stale = true
			return false, nil
		}
		header, stale = el, false
		return true, nil
	})
	return header, stale && err != nil, err
}

func (x *Extractor) openContactPanel(ctx context.Context, sess *Session) (browser.Element, error) {
	more, _, err := moreActionsChain.Resolve(sess.Page)
	if err != nil {
		return nil, fmt.Errorf("more actions control: %w", err)
	}
	if err := more.Click(); err != nil {
		return nil, fmt.Errorf("more actions click: %w", err)
	}
	return sess.waitForElement(ctx, "contact panel", sess.Page, contactPanelChain)
}

// guard runs one field step; its failure is logged and the field keeps its sentinel.
func (x *Extractor) guard(pos Position, step string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			x.warn(pos, step, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(); err != nil {
		x.warn(pos, step, err)
	}
}

func (x *Extractor) warn(pos Position, step string, err error) {
	log.Printf("⚠️ [%s] %s: %v", pos, step, err)
}

func readText(scope browser.Scope, chain browser.Chain, fallback string) string {
	el, _, err := chain.Resolve(scope)
	if err != nil {
		return fallback
	}
	text, err := el.Text()
	if err != nil {
		return fallback
	}
	if text = cleanText(text); text == "" {
		return fallback
	}
	return text
}

// readEmail returns the visible text of the first mailto link.
func readEmail(panel browser.Element) (string, error) {
	els, err := panel.Query(emailSelector)
	if err != nil {
		return scraper.EmailNotFound, err
	}
	if len(els) == 0 {
		return scraper.EmailNotFound, nil
	}
	text, err := els[0].Text()
	if err != nil {
		return scraper.EmailNotFound, err
	}
	var hidden []string
	if spans, err := els[0].Query(a11ySelector); err == nil {
		for _, s := range spans {
			if t, err := s.Text(); err == nil {
				hidden = append(hidden, t)
			}
		}
	}
	if email := stripHidden(cleanText(text), hidden); email != "" {
		return email, nil
	}
	return scraper.EmailNotFound, nil
}

// contactSpans lists the panel's span texts, skipping muted labels.
// An unreadable span keeps its slot as "" so later indexes do not shift.
func contactSpans(panel browser.Element) ([]string, error) {
	spans, err := panel.Query("span")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(spans))
	for _, s := range spans {
		class, err := s.Attr("class")
		if err == nil && hasClass(class, mutedClass) {
			continue
		}
		text, err := s.Text()
		if err != nil {
			out = append(out, "")
			continue
		}
		out = append(out, cleanText(text))
	}
	return out, nil
}

func hasClass(classAttr, class string) bool {
	return slices.Contains(strings.Fields(classAttr), class)
}
