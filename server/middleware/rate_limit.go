// Package middleware provides HTTP middleware for the workbench server.
package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// TenantRateLimiter throttles chat queries per tenant. Completion calls are
// the expensive resource; one noisy tenant must not starve the others.
type TenantRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	interval time.Duration
	burst    int
}

// NewTenantRateLimiter creates a limiter allowing one request per interval
// with the given burst, tracked independently per tenant.
func NewTenantRateLimiter(interval time.Duration, burst int) *TenantRateLimiter {
	return &TenantRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
		burst:    burst,
	}
}

// Allow reports whether the tenant may issue a request now.
func (l *TenantRateLimiter) Allow(tenantID string) bool {
	return l.limiter(tenantID).Allow()
}

func (l *TenantRateLimiter) limiter(tenantID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.limiters[tenantID]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rate.Every(l.interval), l.burst)
	l.limiters[tenantID] = limiter
	return limiter
}
