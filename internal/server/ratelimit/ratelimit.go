// Package ratelimit limits requests per client with token buckets grouped into named tiers.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Tier names a group of routes that draw from the same per-client bucket.
type Tier string

const (
	// TierParse covers routes that load and parse a manifest.
	TierParse Tier = "parse"
	// TierLaunch covers launch page rewriting.
	TierLaunch Tier = "launch"
	// TierDefault covers every other limited route.
	TierDefault Tier = "default"
)

// Rate is the budget of one tier: Limit requests per Window, with up to Burst at once.
type Rate struct {
	Limit  int
	Window time.Duration
	Burst  int // defaults to Limit when 0
}

func (r Rate) capacity() int {
	if r.Burst > 0 {
		return r.Burst
	}
	return r.Limit
}

// perSecond is the refill rate in tokens per second.
func (r Rate) perSecond() float64 {
	return float64(r.Limit) / r.Window.Seconds()
}

// bucket is one client's token bucket for one tier.
type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Info describes the outcome of one Allow call.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucketKey struct {
	tier   Tier
	client string
}

// Limiter tracks one bucket per client and tier. Buckets idle for longer than
// Config.IdleTTL are evicted during later calls; no background goroutine runs.
type Limiter struct {
	config    Config
	now       func() time.Time
	mu        sync.Mutex
	buckets   map[bucketKey]*bucket
	lastSweep time.Time
}

// NewLimiter creates a limiter. A nil config yields DefaultConfig.
func NewLimiter(config *Config) *Limiter {
	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	return &Limiter{
		config:  cfg,
		now:     time.Now,
		buckets: make(map[bucketKey]*bucket),
	}
}

// Allow consumes a token from the client's bucket for tier and reports whether
// the request may proceed. Disabled limiters, whitelisted clients and tiers
// without a positive limit always pass with a zero Limit.
func (l *Limiter) Allow(clientID string, tier Tier) Info {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return Info{}
	}

	r := l.config.rateFor(tier)
	if r.Limit <= 0 || r.Window <= 0 {
		return Info{Allowed: true}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	key := bucketKey{tier: tier, client: clientID}
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rate.Limit(r.perSecond()), r.capacity())}
		l.buckets[key] = b
	}
	b.lastSeen = now

	info := Info{Limit: r.Limit, Allowed: b.lim.AllowN(now, 1)}
	tokens := b.lim.TokensAt(now)
	info.Remaining = max(0, int(tokens))

	// Reset is when the bucket is full again; retry is when the next token arrives.
	info.ResetTime = now.Add(secondsToDuration((float64(r.capacity()) - tokens) / r.perSecond()))
	if !info.Allowed {
		info.RetryAfter = secondsToDuration((1 - tokens) / r.perSecond())
	}
	return info
}

// sweep drops idle buckets at most once per IdleTTL. Callers hold l.mu.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.config.IdleTTL {
		return
	}
	l.lastSweep = now
	cutoff := now.Add(-l.config.IdleTTL)
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// size returns the number of live buckets.
func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
