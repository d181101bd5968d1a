package resilience

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type RetryConfig struct {
	MaxAttempts  int // including the first attempt
	BaseDelay    time.Duration
	Multiplier   float64
	JitterFactor float64
	MaxDelay     time.Duration
}

// Retrier re-runs operations whose failures the classifier marks retryable,
// waiting with exponential backoff between attempts.
type Retrier struct {
	cfg       RetryConfig
	retryable func(error) bool
	onRetry   func(err error, wait time.Duration)
}

func NewRetrier(cfg RetryConfig, retryable func(error) bool) *Retrier {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = backoff.DefaultMultiplier
	}
	if cfg.MaxDelay < cfg.BaseDelay {
		cfg.MaxDelay = cfg.BaseDelay
	}
	return &Retrier{cfg: cfg, retryable: retryable}
}

// OnRetry registers a hook invoked before every retry with the failure and the upcoming wait.
func (r *Retrier) OnRetry(fn func(err error, wait time.Duration)) *Retrier {
	r.onRetry = fn
	return r
}

// backOff builds a fresh policy per call; backoff state is not safe to share across goroutines.
func (r *Retrier) backOff(ctx context.Context) backoff.BackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     r.cfg.BaseDelay,
		RandomizationFactor: r.cfg.JitterFactor,
		Multiplier:          r.cfg.Multiplier,
		MaxInterval:         r.cfg.MaxDelay,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	capped := &cappedBackOff{BackOff: b, max: r.cfg.MaxDelay}
	return backoff.WithContext(backoff.WithMaxRetries(capped, uint64(r.cfg.MaxAttempts-1)), ctx)
}

// cappedBackOff bounds every wait by max. ExponentialBackOff applies jitter after
// its own MaxInterval cap, so a jittered wait can otherwise exceed it.
type cappedBackOff struct {
	backoff.BackOff
	max time.Duration
}

func (c *cappedBackOff) NextBackOff() time.Duration {
	next := c.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	return min(next, c.max)
}

// Retry runs op until it succeeds, fails with a non-retryable error, runs out of attempts
// or ctx is done. The last failure is returned unchanged.
func Retry[T any](ctx context.Context, r *Retrier, op func(ctx context.Context) (T, error)) (T, error) {
	operation := func() (T, error) {
		result, err := op(ctx)
		if err != nil && (r.retryable == nil || !r.retryable(err)) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	notify := func(err error, wait time.Duration) {
		if r.onRetry != nil {
			r.onRetry(err, wait)
		}
	}

	return backoff.RetryNotifyWithData(operation, r.backOff(ctx), notify)
}
