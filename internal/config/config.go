// ABOUTME: Configuration loading and parsing for confhub-gateway
// ABOUTME: Supports YAML files with env var expansion, env overrides, and duration parsing

package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/2389/confhub/internal/conference"
)

// Defaults applied to fields the config file leaves empty
const (
	DefaultHTTPAddr         = "0.0.0.0:8080"
	DefaultDatabasePath     = "./confhub.db"
	DefaultCORSOrigin       = "http://localhost:5173"
	DefaultTokenTTL         = "24h"
	DefaultLoginWindow      = "15m"
	DefaultMaxLoginAttempts = 5
	DefaultMetricsPath      = "/metrics"
	DefaultEventName        = "ConfHub"

	// minJWTSecretLength mirrors auth.MinSecretLength
	minJWTSecretLength = 32
)

// Config represents the complete confhub-gateway configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Event    EventConfig    `yaml:"event"`
	WebAdmin WebAdminConfig `yaml:"webadmin"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds admin authentication configuration
type AuthConfig struct {
	// AdminPassword is hashed with bcrypt at startup. Ignored when
	// AdminPasswordHash is set.
	AdminPassword     string `yaml:"admin_password"`
	AdminPasswordHash string `yaml:"admin_password_hash"`

	// JWTSecret signs admin tokens. When empty a random secret is generated
	// at startup and tokens do not survive restarts.
	JWTSecret string `yaml:"jwt_secret"`

	// MaxLoginAttempts failures within LoginWindow block further logins
	// from the same address. Zero uses the default; negative disables.
	MaxLoginAttempts int `yaml:"max_login_attempts"`

	TokenTTL    time.Duration `yaml:"-"`
	LoginWindow time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	TokenTTLRaw    string `yaml:"token_ttl"`
	LoginWindowRaw string `yaml:"login_window"`
}

// CORSConfig holds the browser origin allowed to call the API
type CORSConfig struct {
	AllowedOrigin string `yaml:"allowed_origin"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds metrics endpoint configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// EventConfig holds the content shown on the public site
type EventConfig struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Date    string `yaml:"date"`
	About   string `yaml:"about"` // markdown
	Venue   string `yaml:"venue"`
	Address string `yaml:"address"`
	MapURL  string `yaml:"map_url"`

	Designations []string `yaml:"designations"`
}

// WebAdminConfig holds web admin UI configuration
type WebAdminConfig struct {
	// APIBaseURL is where the web views reach the API. If not set, it's
	// derived from server.http_addr.
	APIBaseURL string `yaml:"api_base_url"`
}

// envOverrides are applied after the file is parsed, so a deployment can
// change these without editing the YAML.
type envOverrides struct {
	Port          string `env:"PORT"`
	DBPath        string `env:"CONFHUB_DB_PATH"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	CORSOrigin    string `env:"CORS_ORIGIN"`
	JWTSecret     string `env:"CONFHUB_JWT_SECRET"`
	LogLevel      string `env:"CONFHUB_LOG_LEVEL"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return finish(&cfg)
}

// FromEnv builds a Config from defaults and environment overrides alone.
// Used when no config file exists, e.g. in a container.
func FromEnv() (*Config, error) {
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	// Parse duration fields
	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPAddr == "" {
		cfg.Server.HTTPAddr = DefaultHTTPAddr
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath
	}
	if cfg.Auth.TokenTTLRaw == "" {
		cfg.Auth.TokenTTLRaw = DefaultTokenTTL
	}
	if cfg.Auth.LoginWindowRaw == "" {
		cfg.Auth.LoginWindowRaw = DefaultLoginWindow
	}
	if cfg.Auth.MaxLoginAttempts == 0 {
		cfg.Auth.MaxLoginAttempts = DefaultMaxLoginAttempts
	}
	if cfg.CORS.AllowedOrigin == "" {
		cfg.CORS.AllowedOrigin = DefaultCORSOrigin
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Event.Name == "" {
		cfg.Event.Name = DefaultEventName
	}
	if len(cfg.Event.Designations) == 0 {
		cfg.Event.Designations = append([]string(nil), conference.DefaultDesignations...)
	}
}

func applyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return err
	}

	if o.Port != "" {
		host, _, err := net.SplitHostPort(cfg.Server.HTTPAddr)
		if err != nil {
			host = "0.0.0.0"
		}
		cfg.Server.HTTPAddr = net.JoinHostPort(host, o.Port)
	}
	if o.DBPath != "" {
		cfg.Database.Path = o.DBPath
	}
	if o.AdminPassword != "" {
		cfg.Auth.AdminPassword = o.AdminPassword
	}
	if o.CORSOrigin != "" {
		cfg.CORS.AllowedOrigin = o.CORSOrigin
	}
	if o.JWTSecret != "" {
		cfg.Auth.JWTSecret = o.JWTSecret
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}

	// a trailing slash never matches a browser Origin header
	cfg.CORS.AllowedOrigin = strings.TrimSuffix(cfg.CORS.AllowedOrigin, "/")
	return nil
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return errors.New("server.http_addr is required")
	}
	if _, _, err := net.SplitHostPort(c.Server.HTTPAddr); err != nil {
		return fmt.Errorf("server.http_addr %q: %w", c.Server.HTTPAddr, err)
	}

	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}

	if c.Auth.AdminPassword == "" && c.Auth.AdminPasswordHash == "" {
		return errors.New("auth.admin_password or auth.admin_password_hash is required (or set ADMIN_PASSWORD)")
	}
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("auth.jwt_secret must be at least %d bytes", minJWTSecretLength)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if c.Auth.MaxLoginAttempts > 0 && c.Auth.LoginWindow <= 0 {
		return errors.New("auth.login_window must be positive while max_login_attempts is set")
	}

	if err := validateOrigin(c.CORS.AllowedOrigin); err != nil {
		return err
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path %q must start with /", c.Metrics.Path)
	}

	if c.Event.MapURL != "" {
		u, err := url.Parse(c.Event.MapURL)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("event.map_url %q must be an absolute https URL", c.Event.MapURL)
		}
	}

	if c.WebAdmin.APIBaseURL != "" {
		u, err := url.Parse(c.WebAdmin.APIBaseURL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("webadmin.api_base_url %q must be an absolute http(s) URL", c.WebAdmin.APIBaseURL)
		}
	}

	return nil
}

func validateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("cors.allowed_origin %q must be scheme://host[:port]", origin)
	}
	if u.Path != "" || u.RawQuery != "" {
		return fmt.Errorf("cors.allowed_origin %q must not contain a path", origin)
	}
	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Auth.TokenTTLRaw != "" {
		cfg.Auth.TokenTTL, err = time.ParseDuration(cfg.Auth.TokenTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing token_ttl %q: %w", cfg.Auth.TokenTTLRaw, err)
		}
	}

	if cfg.Auth.LoginWindowRaw != "" {
		cfg.Auth.LoginWindow, err = time.ParseDuration(cfg.Auth.LoginWindowRaw)
		if err != nil {
			return fmt.Errorf("parsing login_window %q: %w", cfg.Auth.LoginWindowRaw, err)
		}
	}

	return nil
}

// WebAdminAPIBaseURL returns the URL the server-rendered views use to reach
// the API. Wildcard listen hosts are replaced with loopback.
func (c *Config) WebAdminAPIBaseURL() string {
	if c.WebAdmin.APIBaseURL != "" {
		return strings.TrimSuffix(c.WebAdmin.APIBaseURL, "/")
	}

	host, port, err := net.SplitHostPort(c.Server.HTTPAddr)
	if err != nil {
		return "http://127.0.0.1:8080"
	}
	switch host {
	case "", "0.0.0.0":
		host = "127.0.0.1"
	case "::":
		host = "::1"
	}
	return "http://" + net.JoinHostPort(host, port)
}
