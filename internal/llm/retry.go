package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider resends a request after transient failures: rate limits
// and unavailable providers. Invalid or truncated lessons come straight
// back; the caller repairs them with a new prompt instead of resending the
// same one.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	sleep  func(context.Context, time.Duration) error
}

// WithRetry wraps p with retries governed by cfg.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg, sleep: sleepCtx}
}

func (r *RetryProvider) Name() string    { return r.inner.Name() }
func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	for attempt := 0; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil || !Transient(err) || attempt == attempts-1 {
			return resp, err
		}
		wait, ok := r.wait(attempt, err)
		if !ok {
			return nil, err
		}
		if serr := r.sleep(ctx, wait); serr != nil {
			return nil, serr
		}
	}
}

// wait returns the pause before the next attempt. A provider asking for
// longer than MaxWait is not retried.
func (r *RetryProvider) wait(attempt int, err error) (time.Duration, bool) {
	var e *Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		if r.config.MaxWait > 0 && e.RetryAfter > r.config.MaxWait {
			return 0, false
		}
		return e.RetryAfter, true
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if r.config.MaxWait > 0 {
		wait = min(wait, float64(r.config.MaxWait))
	}
	// ±20% jitter
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(wait, 0)), true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
