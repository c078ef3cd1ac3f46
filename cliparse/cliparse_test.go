// cliparse/cliparse_test.go
package cliparse

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DATABASE_URL", "DATABASE_TYPE", "CLIENT_ORIGIN", "TOKEN_SECRET", "TOKEN_TTL"} {
		t.Setenv(key, "")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 5000 {
		t.Errorf("expected default port 5000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "mongodb://localhost:27017/formbuilder" {
		t.Errorf("unexpected default database URL %q", cfg.DatabaseURL)
	}
	if cfg.DatabaseType != DatabaseMongo {
		t.Errorf("expected database type inferred as mongo, got %q", cfg.DatabaseType)
	}
	if cfg.ClientOrigin != "http://localhost:3000" {
		t.Errorf("unexpected default origin %q", cfg.ClientOrigin)
	}
	if cfg.TokenSecret == "" {
		t.Error("expected a fallback token secret")
	}
	if cfg.TokenTTL != 30*24*time.Hour {
		t.Errorf("expected 30 day token TTL, got %v", cfg.TokenTTL)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("CLIENT_ORIGIN", "https://forms.example.com")
	t.Setenv("TOKEN_SECRET", "env-secret")
	t.Setenv("TOKEN_TTL", "2h")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabasePostgres {
		t.Errorf("expected database type inferred as postgres, got %q", cfg.DatabaseType)
	}
	if cfg.ClientOrigin != "https://forms.example.com" {
		t.Errorf("expected origin from env, got %q", cfg.ClientOrigin)
	}
	if cfg.TokenSecret != "env-secret" {
		t.Errorf("expected secret from env, got %q", cfg.TokenSecret)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("expected TTL 2h, got %v", cfg.TokenTTL)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "postgres")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-t", "sqlite", "-origin", "http://cli", "-token-ttl", "1h"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseSQLite {
		t.Errorf("CLI should override env: expected sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.ClientOrigin != "http://cli" {
		t.Errorf("expected origin from CLI, got %q", cfg.ClientOrigin)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("expected TTL 1h, got %v", cfg.TokenTTL)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"bad port", map[string]string{"PORT": "abc"}, nil},
		{"bad ttl", map[string]string{"TOKEN_TTL": "soon"}, nil},
		{"zero ttl", map[string]string{"TOKEN_TTL": "0s"}, nil},
		{"negative ttl env", map[string]string{"TOKEN_TTL": "-1h"}, nil},
		{"negative ttl flag", nil, []string{"-token-ttl", "-5m"}},
		{"unknown database type", nil, []string{"-t", "redis"}},
		{"unknown flag", nil, []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDatabaseTypeFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"mongodb://localhost:27017/db", DatabaseMongo},
		{"mongodb+srv://cluster.example.net/db", DatabaseMongo},
		{"postgres://user@localhost/db", DatabasePostgres},
		{"postgresql://user@localhost/db", DatabasePostgres},
		{"file:forms.db", DatabaseSQLite},
		{":memory:", DatabaseSQLite},
	}

	for _, tt := range tests {
		if got := databaseTypeFromURL(tt.url); got != tt.want {
			t.Errorf("databaseTypeFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestUsesDefaultTokenSecret(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{"unset", nil, true},
		{"from env", map[string]string{"TOKEN_SECRET": "s3cr3t"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := ParseFlags(nil)
			if err != nil {
				t.Fatalf("ParseFlags() error = %v", err)
			}
			if got := cfg.UsesDefaultTokenSecret(); got != tt.want {
				t.Errorf("UsesDefaultTokenSecret() = %v, want %v", got, tt.want)
			}
		})
	}
}
