// Package retry wraps an operation with exponential backoff and a hard
// attempt cap. It is agnostic of what it retries; cancellation of a
// superseded result is the caller's concern, not this package's.
package retry

import (
	"math"
	"time"

	retrygo "github.com/avast/retry-go/v4"
)

// BackoffConfig controls the retry schedule. The i-th inter-attempt
// delay is InitialDelay × BackoffMultiplier^i, with i starting at 0 for
// the delay before the second attempt. Total attempts on persistent
// failure is MaxRetries+1.
type BackoffConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	BackoffMultiplier float64

	// OnRetry, when set, observes each failed attempt before its backoff
	// wait. Attempt numbering starts at 0.
	OnRetry func(attempt uint, err error)

	// RetryIf, when set, decides whether a failure is worth another
	// attempt. A false return stops the schedule and surfaces that
	// failure immediately.
	RetryIf func(err error) bool
}

// DefaultBackoff returns the schedule used for catalog fetches.
func DefaultBackoff() BackoffConfig {
	return BackoffConfig{
		MaxRetries:        3,
		InitialDelay:      time.Second,
		BackoffMultiplier: 2,
	}
}

// RunWithBackoff runs op until it succeeds or the attempt cap is
// exhausted. The first attempt runs immediately; a success returns at
// once with no further delay. On exhaustion the last failure is
// returned unmodified, not the first.
func RunWithBackoff[T any](op func() (T, error), cfg BackoffConfig) (T, error) {
	attempts := cfg.MaxRetries
	if attempts < 0 {
		attempts = 0
	}

	opts := []retrygo.Option{
		retrygo.Attempts(uint(attempts) + 1),
		retrygo.DelayType(func(n uint, _ error, _ *retrygo.Config) time.Duration {
			return cfg.delay(n)
		}),
		retrygo.LastErrorOnly(true),
	}
	if cfg.OnRetry != nil {
		opts = append(opts, retrygo.OnRetry(cfg.OnRetry))
	}
	if cfg.RetryIf != nil {
		opts = append(opts, retrygo.RetryIf(cfg.RetryIf))
	}

	return retrygo.DoWithData(op, opts...)
}

// delay returns the wait after the n-th failed attempt (n starts at 0).
func (cfg BackoffConfig) delay(n uint) time.Duration {
	initial := cfg.InitialDelay
	if initial < 0 {
		initial = 0
	}
	mult := cfg.BackoffMultiplier
	if mult <= 0 {
		mult = 1
	}
	return time.Duration(float64(initial) * math.Pow(mult, float64(n)))
}
