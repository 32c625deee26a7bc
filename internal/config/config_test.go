package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadReportsAllMissing(t *testing.T) {
	for _, k := range []string{"JWT_SECRET", "ACCESS_TOKEN_TTL_MIN", "REFRESH_TOKEN_TTL_DAYS", "DB_USER", "DB_HOST", "DB_PORT", "DB_NAME", "STORE_DRIVER"} {
		t.Setenv(k, "")
	}
	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, k := range []string{"JWT_SECRET", "DB_USER", "DB_NAME"} {
		if !strings.Contains(err.Error(), k) {
			t.Errorf("error does not mention %s: %v", k, err)
		}
	}
}

func TestLoadMemoryDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
	t.Setenv("BCRYPT_COST", "4")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AccessTTLMin != 15 || cfg.RefreshTTLDays != 7 || cfg.BcryptCost != 4 || cfg.DBHost != "" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsBadInt(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "soon")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "ACCESS_TOKEN_TTL_MIN") {
		t.Fatalf("err = %v", err)
	}
}

func TestRecoveryRateLimitDefaults(t *testing.T) {
	c := LoadRecoveryRateLimitConfig()
	if c.Capacity != 5 || c.Prefix != "rl:recovery" || c.KeyStrategy != "ip_route" || c.RefillInterval != time.Minute {
		t.Fatalf("cfg = %+v", c)
	}
	t.Setenv("RECOVERY_RATE_LIMIT_BURST", "9")
	if c := LoadRecoveryRateLimitConfig(); c.Capacity != 9 {
		t.Fatalf("burst override ignored: %+v", c)
	}
}
