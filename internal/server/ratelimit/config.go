package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultIdleTTL is how long an unused bucket is kept.
const DefaultIdleTTL = time.Hour

// Config holds rate limiting configuration.
type Config struct {
	Enabled   bool
	Tiers     map[Tier]Rate // tiers without an entry use TierDefault
	IdleTTL   time.Duration
	Whitelist map[string]bool
	Blacklist map[string]bool
}

func (c Config) rateFor(tier Tier) Rate {
	if rate, ok := c.Tiers[tier]; ok {
		return rate
	}
	return c.Tiers[TierDefault]
}

// DefaultConfig returns an enabled configuration with DefaultTiers.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Tiers:   DefaultTiers(),
		IdleTTL: DefaultIdleTTL,
	}
}

// DefaultTiers returns the built-in per-minute budgets.
func DefaultTiers() map[Tier]Rate {
	return map[Tier]Rate{
		TierParse:   {Limit: 60, Window: time.Minute, Burst: 10},
		TierLaunch:  {Limit: 120, Window: time.Minute, Burst: 20},
		TierDefault: {Limit: 1000, Window: time.Minute},
	}
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	tiers := DefaultTiers()
	window := getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute)
	for tier, rate := range tiers {
		rate.Window = window
		tiers[tier] = rate
	}
	overrideLimit(tiers, TierParse, "RATE_LIMIT_PARSE_LIMIT")
	overrideLimit(tiers, TierLaunch, "RATE_LIMIT_LAUNCH_LIMIT")
	overrideLimit(tiers, TierDefault, "RATE_LIMIT_DEFAULT_LIMIT")

	return &Config{
		Enabled:   true,
		Tiers:     tiers,
		IdleTTL:   getEnvDuration("RATE_LIMIT_IDLE_TTL", DefaultIdleTTL),
		Whitelist: parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist: parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
	}
}

func overrideLimit(tiers map[Tier]Rate, tier Tier, key string) {
	rate := tiers[tier]
	rate.Limit = getEnvInt(key, rate.Limit)
	tiers[tier] = rate
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
