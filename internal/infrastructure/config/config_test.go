package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/verp/fundmetrics/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.RedisURL != "" {
		t.Fatalf("expected redis URL default to be empty, got %q", cfg.RedisURL)
	}

	if cfg.SnapshotCacheTTL != 5*time.Minute {
		t.Fatalf("expected default snapshot cache TTL 5m, got %s", cfg.SnapshotCacheTTL)
	}

	if cfg.FundFanOut != 8 {
		t.Fatalf("expected default fund fan-out 8, got %d", cfg.FundFanOut)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("SNAPSHOT_CACHE_TTL", "90s")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("FUND_FANOUT", "4")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.SnapshotCacheTTL != 90*time.Second {
		t.Fatalf("expected snapshot cache TTL override, got %s", cfg.SnapshotCacheTTL)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.FundFanOut != 4 || cfg.LogFormat != "console" {
		t.Fatalf("expected overrides to be set, got fanout=%d format=%s", cfg.FundFanOut, cfg.LogFormat)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("SNAPSHOT_CACHE_TTL")
	t.Setenv("SNAPSHOT_CACHE_TTL", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("SNAPSHOT_CACHE_TTL", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
