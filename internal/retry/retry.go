// Package retry implements the bounded, linearly growing backoff used for
// by-id engine fetches.
package retry

import (
	"context"
	"time"
)

// Defaults applied when a policy field is unset.
const (
	DefaultMaxAttempts = 3
	DefaultDelay       = 250 * time.Millisecond
)

// Policy retries an operation with a linearly growing delay: attempt n
// (0-based) waits n*Delay before running, so the first attempt is immediate.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Default returns the standard fetch policy.
func Default() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, Delay: DefaultDelay}
}

// Attempts reports the effective attempt count Do will make.
func (p Policy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Do runs fn until it returns nil or MaxAttempts is reached. Waits between
// attempts abort on ctx cancellation, surfacing the ctx error. Returns the
// last fn error otherwise.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := p.Attempts()

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if werr := wait(ctx, time.Duration(i)*p.Delay); werr != nil {
				return werr
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
