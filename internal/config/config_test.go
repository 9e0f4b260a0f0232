// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"strings"
	"testing"
)

// clearEnv blanks every variable Load reads so the test sees pure
// defaults. envOrDefault treats empty the same as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_HOST", "APP_PORT", "APP_ENV",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
		"CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	check := func(field, got, want string) {
		t.Helper()
		if got != want {
			t.Errorf("%s: got %q, want %q", field, got, want)
		}
	}
	check("Host", cfg.Host, "0.0.0.0")
	check("Port", cfg.Port, "8080")
	check("Env", cfg.Env, "development")
	check("DBHost", cfg.DBHost, "localhost")
	check("DBPort", cfg.DBPort, "5432")
	check("DBUser", cfg.DBUser, "inkpress")
	check("DBName", cfg.DBName, "inkpress")
	check("ValkeyHost", cfg.ValkeyHost, "localhost")
	check("ValkeyPort", cfg.ValkeyPort, "6379")

	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins: got %v, want [*]", cfg.AllowedOrigins)
	}
}

func TestLoad_ProductionRequiresPassword(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for default password in production")
	}

	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with password set: %v", err)
	}
	if cfg.DBPassword != "s3cret" {
		t.Errorf("DBPassword: got %q", cfg.DBPassword)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "db.internal", DBPort: "5433",
		DBUser: "app", DBPassword: "pw", DBName: "content",
	}

	dsn := cfg.DSN()
	want := "postgres://app:pw@db.internal:5433/content?sslmode=disable"
	if dsn != want {
		t.Errorf("DSN: got %q, want %q", dsn, want)
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "9000"}
	if got := cfg.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr: got %q", got)
	}
}

func TestSplitOrigins(t *testing.T) {
	got := splitOrigins("https://a.example, https://b.example ,, ")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("splitOrigins: got %v", got)
	}
}

func TestLoad_OriginsFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://cms.example,https://admin.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 || !strings.HasPrefix(cfg.AllowedOrigins[0], "https://cms") {
		t.Errorf("AllowedOrigins: got %v", cfg.AllowedOrigins)
	}
}
