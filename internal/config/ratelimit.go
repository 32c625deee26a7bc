package config

import (
	"os"
	"strconv"
	"time"
)

type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
	Debug          bool
}

// LoadRateLimitConfig reads the global limiter settings.
func LoadRateLimitConfig() RateLimitConfig {
	return loadRateLimit("RATE_LIMIT", RateLimitConfig{
		Enabled:        true,
		Capacity:       60,
		RefillTokens:   1,
		RefillInterval: time.Second,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_user_route",
		Prefix:         "rl",
	})
}

// LoadRecoveryRateLimitConfig reads the stricter limiter placed in front
// of the password reset routes, which disclose hints and mint tokens.
func LoadRecoveryRateLimitConfig() RateLimitConfig {
	return loadRateLimit("RECOVERY_RATE_LIMIT", RateLimitConfig{
		Enabled:        true,
		Capacity:       5,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "rl:recovery",
	})
}

func loadRateLimit(p string, def RateLimitConfig) RateLimitConfig {
	c := RateLimitConfig{
		Enabled:        envBool(p+"_ENABLED", def.Enabled),
		Capacity:       envInt(p+"_CAPACITY", def.Capacity),
		RefillTokens:   envInt(p+"_REFILL_TOKENS", def.RefillTokens),
		RefillInterval: envDur(p+"_REFILL_INTERVAL", def.RefillInterval),
		TTL:            envDur(p+"_TTL", def.TTL),
		KeyStrategy:    envStr(p+"_KEY_STRATEGY", def.KeyStrategy),
		Prefix:         envStr(p+"_PREFIX", def.Prefix),
		Debug:          envBool(p+"_DEBUG", def.Debug),
	}
	if b := envInt(p+"_BURST", -1); b > 0 {
		c.Capacity = b
	}
	if every := envDur(p+"_REFILL_EVERY", 0); every > 0 {
		c.RefillTokens = 1
		c.RefillInterval = every
	}
	if c.Capacity < 1 {
		c.Capacity = 1
	}
	if c.RefillTokens < 1 {
		c.RefillTokens = 1
	}
	if c.RefillInterval <= 0 {
		c.RefillInterval = time.Second
	}
	if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
		c.TTL = minTTL
	}
	return c
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return dur
	}
	return d
}
