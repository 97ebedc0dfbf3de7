// SPDX-License-Identifier: Apache-2.0
// Package resilience wraps activities and transforms with retry and circuit
// breaker policies. Wrapped plugins keep the name and priority of the plugin
// they wrap, and errors still reach the pipeline unchanged.
package resilience

import (
	"context"
	stderrors "errors"
	"math"
	"math/rand"
	"time"

	"github.com/jllopis/resolver/pkg/errors"
)

// RetryPolicy controls retry behavior with exponential backoff.
type RetryPolicy struct {
	// MaxAttempts is the maximum number of attempts (must be >= 1).
	MaxAttempts int

	// InitialDelay is the backoff before the second attempt.
	InitialDelay time.Duration

	// MaxDelay caps the exponential backoff delay.
	MaxDelay time.Duration

	// Multiplier for exponential backoff (default 2.0).
	Multiplier float64

	// IsRecoverable reports whether an error should be retried.
	// If nil, Recoverable decides.
	IsRecoverable func(error) bool

	// Jitter in [0, 1]; 0.1 means ±10% of the delay.
	Jitter float64
}

// DefaultRetryPolicy returns three attempts starting at 100ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		Multiplier:    2.0,
		Jitter:        0.1,
		IsRecoverable: Recoverable,
	}
}

// WithMaxAttempts returns a copy with MaxAttempts set.
func (p RetryPolicy) WithMaxAttempts(max int) RetryPolicy {
	p.MaxAttempts = max
	return p
}

// WithInitialDelay returns a copy with InitialDelay set.
func (p RetryPolicy) WithInitialDelay(d time.Duration) RetryPolicy {
	p.InitialDelay = d
	return p
}

// WithMaxDelay returns a copy with MaxDelay set.
func (p RetryPolicy) WithMaxDelay(d time.Duration) RetryPolicy {
	p.MaxDelay = d
	return p
}

// WithIsRecoverable returns a copy with IsRecoverable set.
func (p RetryPolicy) WithIsRecoverable(fn func(error) bool) RetryPolicy {
	p.IsRecoverable = fn
	return p
}

// Do runs fn until it succeeds, fails with an unrecoverable error or runs
// out of attempts. The last error from fn is returned as is. If ctx is done
// while waiting between attempts, the last error from fn is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.IsRecoverable == nil {
		p.IsRecoverable = Recoverable
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(p.backoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return lastErr
			case <-timer.C:
			}
		}

		err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err
		if !p.IsRecoverable(err) {
			return err
		}
	}
	return lastErr
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	multiplier := p.Multiplier
	if multiplier == 0 {
		multiplier = 2.0
	}

	delay := time.Duration(float64(p.InitialDelay) * math.Pow(multiplier, float64(attempt-1)))
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	if p.Jitter > 0 {
		spread := float64(delay) * p.Jitter
		delay = time.Duration(float64(delay) + spread*(2*rand.Float64()-1))
		if delay < 0 {
			delay = 0
		}
	}
	return delay
}

// Recoverable is the default retry predicate. Typed errors decide through
// their Recoverable flag, context errors are final and anything else is
// retried.
func Recoverable(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var typed *errors.Error
	if stderrors.As(err, &typed) {
		return typed.Recoverable
	}
	return true
}
