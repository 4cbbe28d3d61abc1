package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want 24h", cfg.CacheTTL)
	}
	if cfg.UpdateCooldown != 30*time.Second {
		t.Errorf("UpdateCooldown = %v, want 30s", cfg.UpdateCooldown)
	}
	if cfg.PollInterval != 5*time.Minute {
		t.Errorf("PollInterval = %v, want 5m", cfg.PollInterval)
	}
	if cfg.RefreshLimit != 3 {
		t.Errorf("RefreshLimit = %d, want 3", cfg.RefreshLimit)
	}
	if cfg.PrefetchLimit != 5 {
		t.Errorf("PrefetchLimit = %d, want 5", cfg.PrefetchLimit)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CRICKET_API_URL", "http://localhost:8080/api")
	t.Setenv("CRICKET_CACHE_TTL", "1h")
	t.Setenv("CRICKET_REFRESH_LIMIT", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BaseURL != "http://localhost:8080/api" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", cfg.CacheTTL)
	}
	if cfg.RefreshLimit != 7 {
		t.Errorf("RefreshLimit = %d, want 7", cfg.RefreshLimit)
	}
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("CRICKET_CACHE_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed duration")
	}
}
