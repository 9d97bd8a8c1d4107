package linkedin

import (
	"context"
	"iter"
	"log"

	"golang.org/x/time/rate"

	"go-linkedin-applicants/internal/browser"
	"go-linkedin-applicants/internal/scraper"
)

// Walker drives the navigator and extractor across every listing page.
type Walker struct {
	Navigator *Navigator
	Extractor *Extractor
	// Limiter paces row extraction; rate.Inf disables pacing.
	Limiter *rate.Limiter
}

// NewWalker paces extraction at rowsPerMinute; 0 means unpaced.
func NewWalker(nav *Navigator, ext *Extractor, rowsPerMinute float64) *Walker {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if rowsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(rowsPerMinute/60), 1)
	}
	return &Walker{Navigator: nav, Extractor: ext, Limiter: limiter}
}

// Walk yields applicant records page by page, row by row, starting at
// state.CurrentPage. The sequence is single-pass: iterating it again repeats
// the clicks against whatever page the session is on. A missing next-page
// control or a cancelled ctx ends the sequence early.
func (w *Walker) Walk(ctx context.Context, sess *Session, state scraper.PaginationState) iter.Seq[scraper.ApplicantRecord] {
	return func(yield func(scraper.ApplicantRecord) bool) {
		for {
			//handles from the previous page are stale after navigation
			rows := w.rows(sess, state.CurrentPage)
			for i, row := range rows {
				if err := ctx.Err(); err != nil {
					log.Printf("🛑 Walk cancelled on page %d: %v", state.CurrentPage, err)
					return
				}
				if err := w.Limiter.Wait(ctx); err != nil {
					log.Printf("🛑 Walk cancelled on page %d: %v", state.CurrentPage, err)
					return
				}
				rec := w.Extractor.Extract(ctx, sess, row, Position{Page: state.CurrentPage, Index: i + 1})
				if !yield(rec) {
					return
				}
			}

			next, ok := state.Advance()
			if !ok {
				log.Printf("🏁 Reached last page (%d/%d)", state.CurrentPage, state.TotalPages)
				return
			}
			if err := w.Navigator.GoToPage(ctx, sess, next.CurrentPage); err != nil {
				log.Printf("⚠️ Stopping early on page %d/%d: %v", state.CurrentPage, state.TotalPages, err)
				sess.screenshot("linkedin-pagination-missing")
				return
			}
			state = next

			if err := sess.settlePage(ctx); err != nil {
				log.Printf("🛑 Walk cancelled on page %d: %v", state.CurrentPage, err)
				return
			}
			if err := w.Navigator.waitForRows(ctx, sess); err != nil {
				log.Printf("⚠️ No applicant rows on page %d: %v", state.CurrentPage, err)
			}
		}
	}
}

func (w *Walker) rows(sess *Session, page int) []browser.Element {
	rows, sel, err := firstNonEmpty(sess.Page, applicantRowSelectors)
	if err != nil {
		log.Printf("⚠️ Could not list applicants on page %d: %v", page, err)
		return nil
	}
	if len(rows) == 0 {
		log.Printf("ℹ️ No applicants on page %d", page)
		return nil
	}
	log.Printf("📋 Page %d: %d applicant(s) via %s", page, len(rows), sel)
	return rows
}
