package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_GraphQLDefaults(t *testing.T) {
	c := Config{
		App:      AppConfig{Env: "local", Port: 8080},
		Upstream: UpstreamConfig{URL: "http://localhost:4000/graphql"},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Source.Kind != SourceGraphQL {
		t.Fatalf("expected graphql source default, got %q", c.Source.Kind)
	}
	if c.Source.CallsPerPage != 25 {
		t.Fatalf("expected 25 calls per page, got %d", c.Source.CallsPerPage)
	}
	if c.Cache.RenderWait != 2*time.Second || c.Cache.TTL != 30*time.Second {
		t.Fatalf("unexpected cache defaults: %+v", c.Cache)
	}
	if c.Location() != time.UTC {
		t.Fatalf("expected UTC location")
	}
}

func TestValidate_ProductionRequiresUpstreamCredential(t *testing.T) {
	c := Config{
		App:      AppConfig{Env: "production", Port: 8080},
		Upstream: UpstreamConfig{URL: "https://api.example.com/graphql"},
	}
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "CALLS_API_TOKEN") {
		t.Fatalf("expected credential error, got %v", err)
	}
}

func TestValidate_PostgresProductionRequiresSSLMode(t *testing.T) {
	c := Config{
		App:    AppConfig{Env: "production", Port: 8080},
		Source: SourceConfig{Kind: SourcePostgres},
		DB:     DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "calls"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_PostgresLocalDefaultsSSLMode(t *testing.T) {
	c := Config{
		App:    AppConfig{Env: "local", Port: 8080},
		Source: SourceConfig{Kind: SourcePostgres},
		DB:     DBConfig{Host: "localhost", User: "postgres", Password: "x", Name: "calls"},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
	if c.DB.Port != 5432 {
		t.Fatalf("expected default port, got %d", c.DB.Port)
	}
}

func TestValidate_InFlightCapNeedsRedis(t *testing.T) {
	c := Config{
		App:      AppConfig{Env: "local", Port: 8080},
		Upstream: UpstreamConfig{URL: "http://localhost:4000/graphql", MaxInFlight: 4},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error without redis")
	}
	c.Redis.Host = "localhost"
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.RedisAddr() != "localhost:6379" {
		t.Fatalf("unexpected redis addr %q", c.RedisAddr())
	}
}

func TestValidate_RejectsOversizedPage(t *testing.T) {
	c := Config{
		App:      AppConfig{Env: "local", Port: 8080},
		Source:   SourceConfig{CallsPerPage: 1000},
		Upstream: UpstreamConfig{URL: "http://localhost:4000/graphql"},
	}
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "CALLS_PER_PAGE") {
		t.Fatalf("expected page size error, got %v", err)
	}
}

func TestLoad_ReadsEnv(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_TIMEZONE", "Europe/Paris")
	t.Setenv("CALLS_API_URL", "http://localhost:4000/graphql")
	t.Setenv("CALLS_PER_PAGE", "10")
	t.Setenv("RENDER_WAIT", "500ms")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.App.Port != 9090 || c.Source.CallsPerPage != 10 {
		t.Fatalf("unexpected config: %+v", c)
	}
	if c.Cache.RenderWait != 500*time.Millisecond {
		t.Fatalf("unexpected render wait %v", c.Cache.RenderWait)
	}
	if len(c.HTTP.AllowedOrigins) != 2 || c.HTTP.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", c.HTTP.AllowedOrigins)
	}
	if c.Location().String() != "Europe/Paris" {
		t.Fatalf("unexpected location %v", c.Location())
	}
}

func TestLoad_RejectsNonIntegerPort(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "eighty")
	t.Setenv("CALLS_API_URL", "http://localhost:4000/graphql")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}
