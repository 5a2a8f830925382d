package config

import (
	"testing"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

func load(t *testing.T, overrides map[string]any) (*Config, error) {
	t.Helper()
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		t.Fatal(err)
	}
	if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
		t.Fatal(err)
	}
	return fromKoanf(k)
}

func required() map[string]any {
	return map[string]any{
		"database_url":      "postgres://localhost/presupuestos",
		"jwt_access_secret": "secret",
	}
}

func TestDefaultsApply(t *testing.T) {
	cfg, err := load(t, required())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GetAccessTokenTTL() != time.Hour {
		t.Fatalf("expected 60m token ttl, got %s", cfg.GetAccessTokenTTL())
	}
	if cfg.GetPaginationMaxLimit() != 500 || cfg.GetHTTPAddr() != ":8080" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.IsTracingEnabled() {
		t.Fatal("tracing must be off without an endpoint")
	}
	if got := cfg.GetCORSOrigins(); len(got) != 1 || got[0] != "http://localhost:5173" {
		t.Fatalf("unexpected origins %v", got)
	}
}

func TestRequiredValues(t *testing.T) {
	for _, missing := range []string{"database_url", "jwt_access_secret"} {
		values := required()
		delete(values, missing)
		if _, err := load(t, values); err == nil {
			t.Fatalf("expected error without %s", missing)
		}
	}
}

func TestAdminCredentialsMustComeTogether(t *testing.T) {
	values := required()
	values["admin_email"] = "root@example.com"
	if _, err := load(t, values); err == nil {
		t.Fatal("expected error for email without password")
	}

	values["admin_password"] = "changeme"
	cfg, err := load(t, values)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GetAdminEmail() != "root@example.com" || cfg.GetAdminPassword() != "changeme" {
		t.Fatalf("unexpected bootstrap config %+v", cfg)
	}
}

func TestWildcardOriginRejectsCredentials(t *testing.T) {
	values := required()
	values["cors_origins"] = "*"
	if _, err := load(t, values); err == nil {
		t.Fatal("expected wildcard origin with credentials to fail")
	}

	values["cors_allow_credentials"] = false
	cfg, err := load(t, values)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.GetCORSAllowAll() {
		t.Fatal("wildcard origin must enable allow-all")
	}
}
