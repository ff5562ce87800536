package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryPolicy decides whether a failed attempt may be retried on the same
// provider and how long to wait before doing so.
type RetryPolicy struct {
	config RetryConfig

	// rand returns a value in [0, 1). Tests replace it to pin the jitter.
	rand func() float64
}

// NewRetryPolicy creates a RetryPolicy from cfg.
func NewRetryPolicy(cfg RetryConfig) *RetryPolicy {
	return &RetryPolicy{config: cfg, rand: rand.Float64}
}

// MaxRetries returns the number of retries allowed after the first attempt.
func (r *RetryPolicy) MaxRetries() int {
	return r.config.MaxRetries
}

// ShouldRetry reports whether another attempt on the same provider is
// allowed after retriesSoFar retries ended in err.
func (r *RetryPolicy) ShouldRetry(err error, retriesSoFar int) bool {
	return retriesSoFar < r.config.MaxRetries && IsTransient(err)
}

// IsTransient reports whether err is worth retrying on the same provider.
// Rate limits and server errors (including timeouts) are transient;
// everything else is terminal for the attempt.
func IsTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return true
	}
	var srv *ErrServer
	return errors.As(err, &srv)
}

// Backoff computes the wait duration before retry number attempt (0-based).
func (r *RetryPolicy) Backoff(attempt int, err error) time.Duration {
	// Respect RetryAfter for rate limits.
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if r.config.MaxWait > 0 && wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*r.rand() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
