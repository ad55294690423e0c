package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with exponential backoff and
// jitter. A response that fails schema validation is retried once.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic. MaxAttempts below one is
// treated as a single attempt.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	return &RetryProvider{inner: p, config: cfg}
}

// failure groups provider errors by how the retry loop treats them.
type failure int

const (
	failureFinal failure = iota
	failureSchema
	failureTransient
)

func classifyFailure(err error) failure {
	var (
		auth   *ErrAuth
		maxTok *ErrMaxTokensExceeded
		inv    *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return failureFinal
	case errors.As(err, &auth), errors.As(err, &maxTok):
		return failureFinal
	case errors.As(err, &inv):
		return failureSchema
	}
	// Rate limits, outages and network errors.
	return failureTransient
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	schemaRetried := false
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt >= r.config.MaxAttempts {
			return nil, err
		}

		switch classifyFailure(err) {
		case failureFinal:
			return nil, err
		case failureSchema:
			if schemaRetried {
				return nil, err
			}
			schemaRetried = true
		}

		timer := time.NewTimer(r.delay(attempt, err))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// delay is the wait after the given failed attempt, counted from one. A
// rate limit with a RetryAfter hint is honored as is. A zero MaxWait
// leaves the backoff uncapped.
func (r *RetryProvider) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	base := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt-1))
	if limit := float64(r.config.MaxWait); limit > 0 && base > limit {
		base = limit
	}
	jitter := base * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(base+jitter, 0))
}
