package linkedin

import (
	"context"
	"fmt"
	"log"

	"go-linkedin-applicants/internal/browser"
	"go-linkedin-applicants/internal/config"
	"go-linkedin-applicants/internal/wait"
)

// Session is the authenticated tab plus the timing policy. It is passed to
// every component explicitly; nothing here is package state.
type Session struct {
	Page     browser.Page
	Clock    wait.Clock
	Timeouts config.Timeouts
}

func NewSession(page browser.Page, clock wait.Clock, timeouts config.Timeouts) *Session {
	if clock == nil {
		clock = wait.RealClock{}
	}
	return &Session{Page: page, Clock: clock, Timeouts: timeouts}
}

func (s *Session) waitFor(ctx context.Context, what string, cond wait.Condition) error {
	return wait.Until(ctx, s.Clock, what, s.Timeouts.PollInterval, s.Timeouts.Wait, cond)
}

// waitForElement polls until chain resolves in scope to a visible element.
func (s *Session) waitForElement(ctx context.Context, what string, scope browser.Scope, chain browser.Chain) (browser.Element, error) {
	var found browser.Element
	err := s.waitFor(ctx, what, func() (bool, error) {
		el, strategy, err := chain.Resolve(scope)
		if err != nil {
			return false, err
		}
		visible, err := el.Visible()
		if err != nil {
			return false, err
		}
		if !visible {
			return false, fmt.Errorf("%s (%s) is not visible yet", what, strategy)
		}
		found = el
		return true, nil
	})
	return found, err
}

// settle is the short jittered pause after scrolling or clicking a row.
func (s *Session) settle(ctx context.Context) error {
	return s.Clock.Sleep(ctx, browser.RandomDelay(s.Timeouts.SettleMin, s.Timeouts.SettleMax))
}

// settlePage is the pause after a full navigation.
func (s *Session) settlePage(ctx context.Context) error {
	return s.Clock.Sleep(ctx, s.Timeouts.PageSettle)
}

func (s *Session) screenshot(name string) {
	if err := s.Page.Screenshot(name); err != nil {
		log.Printf("⚠️ Screenshot %s failed: %v", name, err)
	}
}
