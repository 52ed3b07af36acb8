package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds all configuration required by the call-history process.
// Values come from env, optionally seeded from a local .env file.
// No business logic should depend on raw environment variables.
type Config struct {
	App      AppConfig
	Source   SourceConfig
	Upstream UpstreamConfig
	Cache    CacheConfig
	DB       DBConfig
	Redis    RedisConfig
	HTTP     HTTPConfig
}

type AppConfig struct {
	Env      string
	Port     int
	Timezone string
}

// SourceConfig selects where call pages come from.
type SourceConfig struct {
	// Kind is graphql or postgres.
	Kind         string
	CallsPerPage int
}

type UpstreamConfig struct {
	URL     string
	Token   string
	Timeout time.Duration

	// JWTSecret, when set, replaces Token with short-lived signed service tokens.
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	TokenTTL    time.Duration

	// MaxInFlight caps concurrent upstream fetches across instances (needs Redis).
	MaxInFlight int
}

type CacheConfig struct {
	TTL        time.Duration
	RenderWait time.Duration
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	MaxConns int

	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string
}

// RedisConfig is optional; an empty host keeps the page cache in memory.
type RedisConfig struct {
	Host     string
	Port     int
	PoolSize int
}

type HTTPConfig struct {
	AllowedOrigins []string
}

const (
	SourceGraphQL  = "graphql"
	SourcePostgres = "postgres"
)

func Load() (Config, error) {
	// A missing .env is fine; real deployments inject env directly.
	_ = godotenv.Load()

	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}
	c.App.Timezone = strings.TrimSpace(os.Getenv("APP_TIMEZONE"))

	c.Source.Kind = strings.TrimSpace(os.Getenv("CALLS_SOURCE"))
	{
		n, err := optionalInt("CALLS_PER_PAGE")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Source.CallsPerPage = n
	}

	c.Upstream.URL = strings.TrimSpace(os.Getenv("CALLS_API_URL"))
	c.Upstream.Token = os.Getenv("CALLS_API_TOKEN")
	c.Upstream.Timeout = mustDuration("CALLS_API_TIMEOUT")
	c.Upstream.JWTSecret = os.Getenv("CALLS_API_JWT_SECRET")
	c.Upstream.JWTIssuer = strings.TrimSpace(os.Getenv("CALLS_API_JWT_ISSUER"))
	c.Upstream.JWTAudience = strings.TrimSpace(os.Getenv("CALLS_API_JWT_AUDIENCE"))
	c.Upstream.TokenTTL = mustDuration("CALLS_API_TOKEN_TTL")
	{
		n, err := optionalInt("UPSTREAM_MAX_INFLIGHT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Upstream.MaxInFlight = n
	}

	c.Cache.TTL = mustDuration("CACHE_TTL")
	c.Cache.RenderWait = mustDuration("RENDER_WAIT")

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	{
		n, err := optionalInt("DB_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.Port = n
	}
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))
	{
		n, err := optionalInt("DB_MAX_CONNS")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.MaxConns = n
	}

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	{
		n, err := optionalInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}
	{
		n, err := optionalInt("REDIS_POOL_SIZE")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.PoolSize = n
	}

	c.HTTP.AllowedOrigins = splitList(os.Getenv("ALLOWED_ORIGINS"))

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the config and fills defaults in place.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}
	if c.App.Timezone == "" {
		c.App.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("APP_TIMEZONE is not a known location: %q", c.App.Timezone))
	}

	if c.Source.Kind == "" {
		c.Source.Kind = SourceGraphQL
	}
	if c.Source.CallsPerPage <= 0 {
		c.Source.CallsPerPage = 25
	}
	if c.Source.CallsPerPage > 100 {
		errs = append(errs, fmt.Errorf("CALLS_PER_PAGE must be at most 100, got %d", c.Source.CallsPerPage))
	}

	switch c.Source.Kind {
	case SourceGraphQL:
		if c.Upstream.URL == "" {
			errs = append(errs, errors.New("CALLS_API_URL is required for the graphql source"))
		} else if !strings.HasPrefix(c.Upstream.URL, "http://") && !strings.HasPrefix(c.Upstream.URL, "https://") {
			errs = append(errs, fmt.Errorf("CALLS_API_URL must be an http(s) URL, got %q", c.Upstream.URL))
		}
		if c.IsProduction() && c.Upstream.Token == "" && c.Upstream.JWTSecret == "" {
			errs = append(errs, errors.New("CALLS_API_TOKEN or CALLS_API_JWT_SECRET is required in production"))
		}
	case SourcePostgres:
		errs = append(errs, c.validateDB()...)
	default:
		errs = append(errs, fmt.Errorf("CALLS_SOURCE must be one of graphql, postgres, got %q", c.Source.Kind))
	}

	if c.Upstream.Timeout <= 0 {
		c.Upstream.Timeout = 10 * time.Second
	}
	if c.Upstream.TokenTTL <= 0 {
		c.Upstream.TokenTTL = 5 * time.Minute
	}
	if c.Upstream.MaxInFlight < 0 {
		errs = append(errs, fmt.Errorf("UPSTREAM_MAX_INFLIGHT must be >= 0, got %d", c.Upstream.MaxInFlight))
	}

	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 30 * time.Second
	}
	if c.Cache.RenderWait <= 0 {
		c.Cache.RenderWait = 2 * time.Second
	}

	if c.Redis.Host != "" {
		if c.Redis.Port == 0 {
			c.Redis.Port = 6379
		}
		if c.Redis.Port < 0 || c.Redis.Port > 65535 {
			errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
		}
		if c.Redis.PoolSize < 0 {
			errs = append(errs, fmt.Errorf("REDIS_POOL_SIZE must be >= 0, got %d", c.Redis.PoolSize))
		}
	} else if c.Upstream.MaxInFlight > 0 {
		errs = append(errs, errors.New("UPSTREAM_MAX_INFLIGHT requires REDIS_HOST"))
	}

	return joinErrors(errs)
}

func (c *Config) validateDB() []error {
	var errs []error
	if c.DB.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
	if c.DB.Port < 0 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
	}
	if c.DB.MaxConns < 0 {
		errs = append(errs, fmt.Errorf("DB_MAX_CONNS must be >= 0, got %d", c.DB.MaxConns))
	}
	if c.DB.User == "" {
		errs = append(errs, errors.New("DB_USER is required"))
	}
	if c.DB.Name == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.DB.SSLMode == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("DB_SSLMODE is required in production"))
		} else {
			// Local-friendly default; production must be explicit.
			c.DB.SSLMode = "disable"
		}
	}
	if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
		errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
	}
	return errs
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// Location returns the display time zone, UTC when unset or unknown.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil || c.App.Timezone == "" {
		return time.UTC
	}
	return loc
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalInt(key string) (int, error) {
	if strings.TrimSpace(os.Getenv(key)) == "" {
		return 0, nil
	}
	return mustInt(key)
}

func mustDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
