package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "STORAGE_BACKEND", "SESSION_TTL_HOURS", "DB_NAME", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Backend != StorageBackendPostgres {
		t.Errorf("backend = %q, want %q", cfg.Storage.Backend, StorageBackendPostgres)
	}
	if cfg.Auth.SessionTTL != 14*24*time.Hour {
		t.Errorf("session ttl = %v, want two weeks", cfg.Auth.SessionTTL)
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Logger.Level)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "MEMORY")
	t.Setenv("SESSION_TTL_HOURS", "1")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Storage.Backend != StorageBackendMemory {
		t.Errorf("backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Auth.SessionTTL != time.Hour {
		t.Errorf("session ttl = %v", cfg.Auth.SessionTTL)
	}
	if got := cfg.Database.DSN(); got != "host=db.internal port=5432 user=postgres password=postgres dbname=budget sslmode=disable" {
		t.Errorf("dsn = %q", got)
	}
}

func TestUnknownBackendFallsBackToPostgres(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Backend != StorageBackendPostgres {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
}

func TestValidateDefaultSecret(t *testing.T) {
	tests := []struct {
		backend string
		secret  string
		want    error
	}{
		{"postgres", "", ErrDefaultSecret},
		{"postgres", "s3cret", nil},
		{"memory", "", nil},
	}

	for _, tt := range tests {
		t.Setenv("STORAGE_BACKEND", tt.backend)
		t.Setenv("JWT_SECRET_KEY", tt.secret)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got := cfg.Auth.UsesDefaultSecret(); got != (tt.secret == "") {
			t.Errorf("%s/%q: UsesDefaultSecret = %v", tt.backend, tt.secret, got)
		}
		if err := cfg.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s/%q: Validate = %v, want %v", tt.backend, tt.secret, err, tt.want)
		}
	}
}
