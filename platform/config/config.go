// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthServiceConfig provides settings needed by the auth service.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
}

// BootstrapConfig provides the credentials of the initial administrator.
type BootstrapConfig interface {
	GetAdminEmail() string
	GetAdminPassword() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// CacheConfig provides settings for the optional redis cache.
type CacheConfig interface {
	GetRedisURL() string
	GetCatalogCacheTTL() time.Duration
}

// TelemetryConfig provides OpenTelemetry exporter settings.
type TelemetryConfig interface {
	GetOTLPEndpoint() string
	GetServiceName() string
	IsTracingEnabled() bool
}

// PaginationConfig bounds list endpoints.
type PaginationConfig interface {
	GetPaginationMaxLimit() int
}

// DocumentConfig provides settings for rendered quote documents.
type DocumentConfig interface {
	GetPDFIssuerName() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
// It is built once at startup and passed by reference to the components that need it.
type Config struct {
	Env                string
	HTTPAddr           string
	DatabaseURL        string
	JWTAccessSecret    string
	AccessTokenTTL     time.Duration
	AdminEmail         string
	AdminPassword      string
	CORSAllowAll       bool
	CORSOrigins        []string
	CORSAllowCreds     bool
	RedisURL           string
	CatalogCacheTTL    time.Duration
	LogFile            string
	OTLPEndpoint       string
	ServiceName        string
	PaginationMaxLimit int
	PDFIssuerName      string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig / AuthServiceConfig implementation
func (c *Config) GetJWTAccessSecret() string       { return c.JWTAccessSecret }
func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }

// BootstrapConfig implementation
func (c *Config) GetAdminEmail() string    { return c.AdminEmail }
func (c *Config) GetAdminPassword() string { return c.AdminPassword }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// CacheConfig implementation
func (c *Config) GetRedisURL() string                { return c.RedisURL }
func (c *Config) GetCatalogCacheTTL() time.Duration { return c.CatalogCacheTTL }

// TelemetryConfig implementation
func (c *Config) GetOTLPEndpoint() string { return c.OTLPEndpoint }
func (c *Config) GetServiceName() string  { return c.ServiceName }
func (c *Config) IsTracingEnabled() bool  { return c.OTLPEndpoint != "" }

// PaginationConfig implementation
func (c *Config) GetPaginationMaxLimit() int { return c.PaginationMaxLimit }

// DocumentConfig implementation
func (c *Config) GetPDFIssuerName() string { return c.PDFIssuerName }

func defaults() map[string]any {
	return map[string]any{
		"app_env":                     "development",
		"http_addr":                   ":8080",
		"jwt_access_ttl":              "60m",
		"cors_origins":                "http://localhost:5173",
		"cors_allow_all":              false,
		"cors_allow_credentials":      true,
		"catalog_cache_ttl":           "5m",
		"otel_service_name":           "presupuestos-api",
		"pagination_max_limit":        500,
		"otel_exporter_otlp_endpoint": "",
		"pdf_issuer_name":             "Presupuestos",
	}
}

// Load reads configuration with the following precedence (highest to lowest):
//  1. Environment variables (a .env file is loaded into the environment first)
//  2. YAML file named by CONFIG_FILE, when it exists
//  3. Default values
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFileIfExists(k, path); err != nil {
			return nil, fmt.Errorf("loading config file %q: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	corsOrigins := splitCSV(k.String("cors_origins"))
	corsAllowAll := k.Bool("cors_allow_all")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                k.String("app_env"),
		HTTPAddr:           k.String("http_addr"),
		DatabaseURL:        k.String("database_url"),
		JWTAccessSecret:    k.String("jwt_access_secret"),
		AccessTokenTTL:     k.Duration("jwt_access_ttl"),
		AdminEmail:         strings.TrimSpace(k.String("admin_email")),
		AdminPassword:      k.String("admin_password"),
		CORSAllowAll:       corsAllowAll,
		CORSOrigins:        corsOrigins,
		CORSAllowCreds:     k.Bool("cors_allow_credentials"),
		RedisURL:           k.String("redis_url"),
		CatalogCacheTTL:    k.Duration("catalog_cache_ttl"),
		LogFile:            k.String("log_file"),
		OTLPEndpoint:       k.String("otel_exporter_otlp_endpoint"),
		ServiceName:        k.String("otel_service_name"),
		PaginationMaxLimit: k.Int("pagination_max_limit"),
		PDFIssuerName:      k.String("pdf_issuer_name"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.AccessTokenTTL <= 0 {
		return nil, fmt.Errorf("JWT_ACCESS_TTL must be a positive duration")
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return nil, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if cfg.PaginationMaxLimit < 1 {
		return nil, fmt.Errorf("PAGINATION_MAX_LIMIT must be at least 1")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

// IsDevelopment reports whether the app runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return k.Load(file.Provider(path), yaml.Parser())
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
