package resilience

import (
	"errors"
	"math"
	"time"

	"golang.org/x/time/rate"
)

var ErrPermitUnavailable = errors.New("no rate limiter permit available")

// PermitLimiter hands out at most limitForPeriod permits per refresh period.
// Acquisition never waits: when no permit is free the caller is rejected immediately.
type PermitLimiter struct {
	limiter *rate.Limiter
}

func NewPermitLimiter(limitForPeriod int, refreshPeriod time.Duration) *PermitLimiter {
	if limitForPeriod <= 0 {
		limitForPeriod = 1
	}
	every := refreshPeriod / time.Duration(limitForPeriod)
	return &PermitLimiter{
		limiter: rate.NewLimiter(rate.Every(every), limitForPeriod),
	}
}

func (l *PermitLimiter) Acquire() error {
	if !l.limiter.Allow() {
		return ErrPermitUnavailable
	}
	return nil
}

// Drain discards every permit currently available, e.g. after the upstream answered 429.
func (l *PermitLimiter) Drain() {
	for {
		now := time.Now()
		tokens := int(math.Floor(l.limiter.TokensAt(now)))
		if tokens <= 0 || l.limiter.AllowN(now, tokens) {
			return
		}
	}
}

// Available reports how many whole permits can be acquired right now.
func (l *PermitLimiter) Available() int {
	tokens := int(math.Floor(l.limiter.TokensAt(time.Now())))
	if tokens < 0 {
		return 0
	}
	return tokens
}
