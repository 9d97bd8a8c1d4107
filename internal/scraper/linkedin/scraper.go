package linkedin

import (
	"context"
	"fmt"
	"log"
	"slices"

	"go-linkedin-applicants/internal/browser"
	"go-linkedin-applicants/internal/config"
	"go-linkedin-applicants/internal/scraper"
	"go-linkedin-applicants/internal/wait"
)

// ApplicantScraper collects every applicant of one job posting.
type ApplicantScraper struct {
	creds    config.Credentials
	timeouts config.Timeouts
	clock    wait.Clock

	auth   *Authenticator
	nav    *Navigator
	walker *Walker
}

var _ scraper.Scraper = (*ApplicantScraper)(nil)

// NewApplicantScraper creates a scraper for creds.TargetURL. A nil clock uses
// the wall clock.
func NewApplicantScraper(cfg *config.Config, creds config.Credentials, clock wait.Clock) *ApplicantScraper {
	nav := NewNavigator()
	return &ApplicantScraper{
		creds:    creds,
		timeouts: cfg.Timeouts,
		clock:    clock,
		auth:     NewAuthenticator(),
		nav:      nav,
		walker:   NewWalker(nav, NewExtractor(), cfg.RowsPerMinute),
	}
}

func (s *ApplicantScraper) Name() string {
	return "LinkedIn"
}

// Scrape logs in, opens the applicant listing and walks it. Only login and
// listing failures are returned; everything after that degrades to partial
// results.
func (s *ApplicantScraper) Scrape(ctx context.Context, page browser.Page) ([]scraper.ApplicantRecord, error) {
	sess := NewSession(page, s.clock, s.timeouts)

	if err := s.auth.Authenticate(ctx, sess, s.creds); err != nil {
		return nil, err
	}

	state, err := s.nav.OpenListing(ctx, sess, s.creds.TargetURL)
	if err != nil {
		return nil, err
	}

	records := slices.Collect(s.walker.Walk(ctx, sess, state))

	degraded := 0
	for _, r := range records {
		if r.Degraded() > 0 {
			degraded++
		}
	}
	log.Printf("✅ Collected %d applicant(s), %d with missing fields", len(records), degraded)

	if err := ctx.Err(); err != nil {
		return records, fmt.Errorf("scrape interrupted: %w", err)
	}
	return records, nil
}
