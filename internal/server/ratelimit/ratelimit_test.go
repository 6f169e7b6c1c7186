package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives a limiter without sleeping.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(tiers map[Tier]Rate) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(&Config{Enabled: true, Tiers: tiers})
	l.now = clock.now
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := newTestLimiter(map[Tier]Rate{TierDefault: {Limit: 10, Window: time.Minute}})

	for i := 0; i < 10; i++ {
		info := l.Allow("127.0.0.1", TierDefault)
		require.True(t, info.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	info := l.Allow("127.0.0.1", TierDefault)
	assert.False(t, info.Allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, float64(6*time.Second), float64(info.RetryAfter), float64(time.Millisecond))
	assert.True(t, info.ResetTime.After(time.Date(2026, 1, 1, 0, 0, 59, 0, time.UTC)))
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(map[Tier]Rate{TierDefault: {Limit: 60, Window: time.Minute, Burst: 2}})

	assert.True(t, l.Allow("c", TierDefault).Allowed)
	assert.True(t, l.Allow("c", TierDefault).Allowed)
	assert.False(t, l.Allow("c", TierDefault).Allowed)

	clock.advance(time.Second)
	assert.True(t, l.Allow("c", TierDefault).Allowed, "one token refills per second")
	assert.False(t, l.Allow("c", TierDefault).Allowed)

	clock.advance(time.Hour - time.Second)
	info := l.Allow("c", TierDefault)
	assert.True(t, info.Allowed)
	assert.Equal(t, 1, info.Remaining, "refill is capped at the burst")
}

func TestLimiter_TiersAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(map[Tier]Rate{
		TierParse:   {Limit: 2, Window: time.Minute},
		TierDefault: {Limit: 1000, Window: time.Minute},
	})

	assert.True(t, l.Allow("c", TierParse).Allowed)
	assert.True(t, l.Allow("c", TierParse).Allowed)
	assert.False(t, l.Allow("c", TierParse).Allowed)

	info := l.Allow("c", TierDefault)
	assert.True(t, info.Allowed)
	assert.Equal(t, 1000, info.Limit)

	// Another client has its own bucket
	assert.True(t, l.Allow("other", TierParse).Allowed)
}

func TestLimiter_UnknownTierUsesDefault(t *testing.T) {
	l, _ := newTestLimiter(map[Tier]Rate{TierDefault: {Limit: 3, Window: time.Minute}})

	info := l.Allow("c", TierLaunch)
	assert.True(t, info.Allowed)
	assert.Equal(t, 3, info.Limit)
}

func TestLimiter_NonPositiveLimitIsUnlimited(t *testing.T) {
	l, _ := newTestLimiter(map[Tier]Rate{TierDefault: {Limit: 0, Window: time.Minute}})

	for i := 0; i < 50; i++ {
		info := l.Allow("c", TierDefault)
		require.True(t, info.Allowed)
		assert.Equal(t, 0, info.Limit)
	}
	assert.Equal(t, 0, l.size())
}

func TestLimiter_Lists(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:   true,
		Tiers:     map[Tier]Rate{TierDefault: {Limit: 1, Window: time.Minute}},
		Whitelist: map[string]bool{"10.0.0.1": true},
		Blacklist: map[string]bool{"10.0.0.2": true},
	})

	for i := 0; i < 5; i++ {
		info := l.Allow("10.0.0.1", TierDefault)
		require.True(t, info.Allowed)
		assert.Equal(t, 0, info.Limit)
	}
	assert.False(t, l.Allow("10.0.0.2", TierDefault).Allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})

	for i := 0; i < 50; i++ {
		require.True(t, l.Allow("c", TierParse).Allowed)
	}
}

func TestLimiter_EvictsIdleBuckets(t *testing.T) {
	l, clock := newTestLimiter(map[Tier]Rate{TierDefault: {Limit: 10, Window: time.Minute}})
	l.config.IdleTTL = time.Minute

	l.Allow("a", TierDefault)
	l.Allow("b", TierDefault)
	require.Equal(t, 2, l.size())

	clock.advance(30 * time.Second)
	l.Allow("b", TierDefault)

	clock.advance(45 * time.Second)
	l.Allow("c", TierDefault)
	assert.Equal(t, 2, l.size(), "a is evicted, b and c remain")
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(map[Tier]Rate{TierDefault: {Limit: 100, Window: time.Hour}})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("127.0.0.1", TierDefault).Allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowedCount)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)

	assert.Equal(t, 1000, l.Allow("c", TierDefault).Limit)
	assert.Equal(t, 60, l.Allow("c", TierParse).Limit)
	assert.Equal(t, 120, l.Allow("c", TierLaunch).Limit)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "50")
	t.Setenv("RATE_LIMIT_PARSE_LIMIT", "7")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2,")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, Rate{Limit: 50, Window: 30 * time.Second}, cfg.Tiers[TierDefault])
	assert.Equal(t, Rate{Limit: 7, Window: 30 * time.Second, Burst: 10}, cfg.Tiers[TierParse])
	assert.Equal(t, 120, cfg.Tiers[TierLaunch].Limit)
	assert.Equal(t, DefaultIdleTTL, cfg.IdleTTL)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
