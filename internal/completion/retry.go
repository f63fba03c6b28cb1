package completion

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// RetryPolicy controls Retrying.
type RetryPolicy struct {
	// MaxAttempts counts the first call. Values below 1 mean 1.
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
	// JitterFraction spreads each backoff by +/- that fraction.
	JitterFraction float64
}

// DefaultRetryPolicy returns the policy used when fields are left zero.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// Retrying retries a provider with exponential backoff and optionally
// limits its call rate. Context errors and Permanent errors are returned
// immediately.
type Retrying struct {
	next    pipeline.CompletionProvider
	policy  RetryPolicy
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewRetrying wraps next. limiter may be nil.
func NewRetrying(next pipeline.CompletionProvider, policy RetryPolicy, limiter *rate.Limiter) *Retrying {
	def := DefaultRetryPolicy()
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.InitialBackoff <= 0 {
		policy.InitialBackoff = def.InitialBackoff
	}
	if policy.MaxBackoff <= 0 {
		policy.MaxBackoff = def.MaxBackoff
	}
	if policy.Multiplier <= 0 {
		policy.Multiplier = def.Multiplier
	}
	if policy.JitterFraction < 0 || policy.JitterFraction > 1 {
		policy.JitterFraction = def.JitterFraction
	}
	return &Retrying{next: next, policy: policy, limiter: limiter, sleep: sleepContext}
}

// Complete calls the wrapped provider until it succeeds, fails permanently
// or runs out of attempts.
func (r *Retrying) Complete(ctx context.Context, req pipeline.CompletionRequest) (map[string]any, error) {
	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit: %w", err)
			}
		}

		out, err := r.next.Complete(ctx, req)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !r.retryable(ctx, err) {
			return nil, err
		}
		if attempt == r.policy.MaxAttempts {
			break
		}

		backoff := r.backoff(attempt)
		log.Debug().
			Err(err).
			Str("agent", req.Agent).
			Int("attempt", attempt).
			Int("max_attempts", r.policy.MaxAttempts).
			Dur("backoff", backoff).
			Msg("retrying completion")
		if err := r.sleep(ctx, backoff); err != nil {
			return nil, err
		}
	}
	if r.policy.MaxAttempts == 1 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("after %d attempts: %w", r.policy.MaxAttempts, lastErr)
}

func (r *Retrying) retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !IsPermanent(err)
}

// backoff returns the wait after the given failed attempt (1-based).
func (r *Retrying) backoff(attempt int) time.Duration {
	d := float64(r.policy.InitialBackoff) * math.Pow(r.policy.Multiplier, float64(attempt-1))
	if d > float64(r.policy.MaxBackoff) {
		d = float64(r.policy.MaxBackoff)
	}
	if r.policy.JitterFraction > 0 {
		d += d * r.policy.JitterFraction * (rand.Float64()*2 - 1)
	}
	return time.Duration(d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
