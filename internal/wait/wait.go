// Package wait provides bounded polling for asynchronous UI settlement.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is matched by every *TimeoutError.
var ErrTimeout = errors.New("wait: timed out")

// TimeoutError reports what was being waited for and the last predicate error seen.
type TimeoutError struct {
	What  string
	After time.Duration
	Last  error
}

func (e *TimeoutError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("timed out after %v waiting for %s: %v", e.After, e.What, e.Last)
	}
	return fmt.Sprintf("timed out after %v waiting for %s", e.After, e.What)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

func (e *TimeoutError) Unwrap() error {
	return e.Last
}

// Condition reports whether the awaited state has been reached. An error is
// treated as "not yet" and kept for the timeout message.
type Condition func() (bool, error)

// Until polls cond every interval until it holds or timeout elapses on clock.
// The condition is always checked at least once.
func Until(ctx context.Context, clock Clock, what string, interval, timeout time.Duration, cond Condition) error {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	start := clock.Now()
	var last error
	for {
		ok, err := cond()
		if ok {
			return nil
		}
		if err != nil {
			last = err
		}

		elapsed := clock.Now().Sub(start)
		if elapsed >= timeout {
			return &TimeoutError{What: what, After: timeout, Last: last}
		}

		next := interval
		if remaining := timeout - elapsed; remaining < next {
			next = remaining
		}
		if err := clock.Sleep(ctx, next); err != nil {
			return err
		}
	}
}
