package config_test

import (
	"testing"
	"time"

	"github.com/cityplay/activity-booking-api/internal/platform/config"
)

func TestDefaults(t *testing.T) {
	cfg, err := config.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "5000")
	}
	if cfg.StorageBackend != "memory" {
		t.Errorf("StorageBackend = %q, want %q", cfg.StorageBackend, "memory")
	}
	if cfg.JWT.TTL != 168*time.Hour {
		t.Errorf("JWT.TTL = %v, want %v", cfg.JWT.TTL, 168*time.Hour)
	}
	if cfg.Database.ConnectRetries != 3 {
		t.Errorf("Database.ConnectRetries = %d, want 3", cfg.Database.ConnectRetries)
	}
	if cfg.Database.RetryDelay != 3*time.Second {
		t.Errorf("Database.RetryDelay = %v, want %v", cfg.Database.RetryDelay, 3*time.Second)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://example/db")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("JWT_TTL", "24h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.StorageBackend != "postgres" {
		t.Errorf("StorageBackend = %q, want %q", cfg.StorageBackend, "postgres")
	}
	if cfg.Database.DSN != "postgres://example/db" {
		t.Errorf("Database.DSN = %q", cfg.Database.DSN)
	}
	if cfg.JWT.Secret != "prod-secret" {
		t.Errorf("JWT.Secret = %q", cfg.JWT.Secret)
	}
	if cfg.JWT.TTL != 24*time.Hour {
		t.Errorf("JWT.TTL = %v, want 24h", cfg.JWT.TTL)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[0] != "https://a.example" {
		t.Errorf("CORS.AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
}
