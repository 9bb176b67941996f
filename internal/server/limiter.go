package server

import "golang.org/x/time/rate"

// Limiter is a global token bucket shared by all /v1 requests.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter uses 0 or negative requestsPerSecond for no rate limiting.
// burst below 1 is raised to 1.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), max(burst, 1))}
}

// Allow is non-blocking: false means the request should be rejected.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// SetLimit can be called at runtime.
func (l *Limiter) SetLimit(requestsPerSecond float64) {
	if requestsPerSecond <= 0 {
		l.limiter.SetLimit(rate.Inf)
	} else {
		l.limiter.SetLimit(rate.Limit(requestsPerSecond))
	}
}

// Limit returns the configured rate, 0 when unlimited.
func (l *Limiter) Limit() float64 {
	limit := l.limiter.Limit()
	if limit == rate.Inf {
		return 0
	}
	return float64(limit)
}
