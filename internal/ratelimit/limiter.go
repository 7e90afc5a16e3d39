// Package ratelimit throttles outbound calls per provider so the service
// stays inside each provider's quota.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

type Config struct {
	RequestsPerSecond float64
	Burst             int
}

// Discovery searches are the expensive calls; schedule lookups are cheap.
func DefaultConfig() Config {
	return Config{RequestsPerSecond: 5, Burst: 10}
}

// ProviderLimiter keeps one token bucket per provider name, created
// lazily with the default config unless a limit was set explicitly.
type ProviderLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	defaults Config
}

func New(defaults Config) *ProviderLimiter {
	return &ProviderLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: defaults,
	}
}

// SetLimit pins a provider to its own rate.
func (p *ProviderLimiter) SetLimit(provider string, rps float64, burst int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.limiters[provider] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until the provider's bucket has a token or ctx is done.
func (p *ProviderLimiter) Wait(ctx context.Context, provider string) error {
	return p.limiter(provider).Wait(ctx)
}

func (p *ProviderLimiter) limiter(provider string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if l, ok := p.limiters[provider]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(p.defaults.RequestsPerSecond), p.defaults.Burst)
	p.limiters[provider] = l
	return l
}
