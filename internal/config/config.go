package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the YAML file.
const (
	EnvGatewayURL   = "TRANSPARANSI_GATEWAY_URL"
	EnvAddr         = "TRANSPARANSI_ADDR"
	EnvPort         = "PORT"
	EnvLogLevel     = "TRANSPARANSI_LOG_LEVEL"
	EnvAdminPIN     = "TRANSPARANSI_ADMIN_PIN"
	EnvFallbackPath = "TRANSPARANSI_FALLBACK_PATH"
	EnvAuditDir     = "TRANSPARANSI_AUDIT_DIR"
)

// DefaultPath is where commands look for the config file.
const DefaultPath = "transparansi.yaml"

// Config represents the top-level transparansi.yaml configuration.
type Config struct {
	Gateway       GatewayConfig      `yaml:"gateway"`
	Server        ServerConfig       `yaml:"server"`
	Admin         AdminConfig        `yaml:"admin"`
	Log           LogConfig          `yaml:"log"`
	Notifications NotificationConfig `yaml:"notifications"`
	FallbackPath  string             `yaml:"fallback_path,omitempty"`
	AuditDir      string             `yaml:"audit_dir"`
}

// GatewayConfig points at the spreadsheet endpoint.
type GatewayConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"` // 0 disables the timeout
	// LocationsAction is getLocations on most deployments, getMapLocations on older ones.
	LocationsAction string `yaml:"locations_action"`
}

// ServerConfig controls the JSON API.
type ServerConfig struct {
	Addr           string          `yaml:"addr"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig is a token bucket shared by all API clients.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// AdminConfig holds the admin PIN. It is a gate, not authentication.
type AdminConfig struct {
	PIN string `yaml:"pin"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// NotificationConfig controls how long read marks are remembered.
type NotificationConfig struct {
	ReadTTL time.Duration `yaml:"read_ttl"`
}

// Load reads a transparansi.yaml file from disk. Fields absent from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Timeout:         30 * time.Second,
			LocationsAction: "getLocations",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				RPS:   10,
				Burst: 30,
			},
		},
		Admin: AdminConfig{
			PIN: "1234",
		},
		Log: LogConfig{
			Level: "info",
		},
		Notifications: NotificationConfig{
			ReadTTL: 24 * time.Hour,
		},
		AuditDir: "audit",
	}
}

// ApplyEnv loads envFiles (".env" when none are given) if they exist, then
// overrides fields from the process environment.
func (c *Config) ApplyEnv(envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	if v, ok := lookup(EnvGatewayURL); ok {
		c.Gateway.URL = v
	}
	if v, ok := lookup(EnvPort); ok {
		c.Server.Addr = ":" + v
	}
	if v, ok := lookup(EnvAddr); ok {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvAdminPIN); ok {
		c.Admin.PIN = v
	}
	if v, ok := lookup(EnvFallbackPath); ok {
		c.FallbackPath = v
	}
	if v, ok := lookup(EnvAuditDir); ok {
		c.AuditDir = v
	}
	return nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.Gateway.URL != "" {
		u, err := url.Parse(c.Gateway.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("gateway.url %q: must be an absolute http(s) URL", c.Gateway.URL)
		}
	}
	if c.Gateway.Timeout < 0 {
		return fmt.Errorf("gateway.timeout %s: must not be negative", c.Gateway.Timeout)
	}
	if strings.TrimSpace(c.Gateway.LocationsAction) == "" {
		return errors.New("gateway.locations_action: must not be empty")
	}
	if c.Server.RateLimit.RPS < 0 || c.Server.RateLimit.Burst < 0 {
		return errors.New("server.rate_limit: rps and burst must not be negative")
	}
	if c.Server.RateLimit.RPS > 0 && c.Server.RateLimit.Burst == 0 {
		return errors.New("server.rate_limit.burst: must be positive when rps is set")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: want debug, info, warn or error", c.Log.Level)
	}
	if c.Notifications.ReadTTL < 0 {
		return fmt.Errorf("notifications.read_ttl %s: must not be negative", c.Notifications.ReadTTL)
	}
	if strings.TrimFunc(c.Admin.PIN, unicode.IsDigit) != "" {
		return errors.New("admin.pin: must be digits")
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
