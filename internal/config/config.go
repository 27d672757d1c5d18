// Package config loads tool-audit settings: built-in defaults, then an
// optional YAML file, then TOOL_AUDIT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider kinds accepted by the analyse command.
const (
	ProviderFile     = "file"
	ProviderMCP      = "mcp"
	ProviderPostgres = "postgres"
)

// Config is the full tool-audit configuration.
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Provider ProviderConfig `yaml:"provider"`
	Server   ServerConfig   `yaml:"server"`
}

// ProviderConfig selects where the analyse command reads tools from.
type ProviderConfig struct {
	Kind        string        `yaml:"kind"`
	Path        string        `yaml:"path"`
	Endpoint    string        `yaml:"endpoint"`
	PostgresDSN string        `yaml:"postgres_dsn"`
	ProjectID   string        `yaml:"project_id"`
	Timeout     time.Duration `yaml:"timeout"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	PostgresDSN  string        `yaml:"postgres_dsn"`
	AuthCacheTTL time.Duration `yaml:"auth_cache_ttl"`
	FailOpen     bool          `yaml:"fail_open"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Provider: ProviderConfig{
			Timeout:  30 * time.Second,
			CacheTTL: 60 * time.Second,
		},
		Server: ServerConfig{
			Addr:         ":8090",
			AuthCacheTTL: 30 * time.Second,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
	}
}

// Load builds the configuration. An empty path skips the file layer.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LogLevel = envOrDefault("TOOL_AUDIT_LOG_LEVEL", c.LogLevel)

	dsn := envOrDefault("TOOL_AUDIT_POSTGRES_DSN", os.Getenv("POSTGRES_DSN"))

	p := &c.Provider
	p.Kind = envOrDefault("TOOL_AUDIT_PROVIDER", p.Kind)
	p.Path = envOrDefault("TOOL_AUDIT_PATH", p.Path)
	p.Endpoint = envOrDefault("TOOL_AUDIT_ENDPOINT", p.Endpoint)
	p.ProjectID = envOrDefault("TOOL_AUDIT_PROJECT_ID", p.ProjectID)
	p.PostgresDSN = orDefault(dsn, p.PostgresDSN)
	p.Timeout = envOrDefaultSeconds("TOOL_AUDIT_TIMEOUT_S", p.Timeout)
	p.CacheTTL = envOrDefaultSeconds("TOOL_AUDIT_TOOL_CACHE_TTL_S", p.CacheTTL)

	s := &c.Server
	s.Addr = envOrDefault("TOOL_AUDIT_ADDR", s.Addr)
	s.PostgresDSN = orDefault(dsn, s.PostgresDSN)
	s.AuthCacheTTL = envOrDefaultSeconds("TOOL_AUDIT_AUTH_CACHE_TTL_S", s.AuthCacheTTL)
	s.FailOpen = envOrDefaultBool("TOOL_AUDIT_FAIL_OPEN", s.FailOpen)
	s.ReadTimeout = envOrDefaultSeconds("TOOL_AUDIT_READ_TIMEOUT_S", s.ReadTimeout)
	s.WriteTimeout = envOrDefaultSeconds("TOOL_AUDIT_WRITE_TIMEOUT_S", s.WriteTimeout)
}

// Validate checks settings shared by every command. Provider settings are only
// checked when a provider kind is set.
func (c Config) Validate() error {
	var errs []error
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	if c.Provider.Kind != "" {
		if err := c.Provider.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr: must not be empty"))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server: read and write timeouts must be positive"))
	}
	if c.Server.AuthCacheTTL < 0 {
		errs = append(errs, errors.New("server.auth_cache_ttl: must not be negative"))
	}
	return errors.Join(errs...)
}

// Validate checks that the selected provider has what it needs.
func (p ProviderConfig) Validate() error {
	var errs []error
	switch p.Kind {
	case ProviderFile:
		if p.Path == "" {
			errs = append(errs, errors.New("provider.path: required for the file provider"))
		}
	case ProviderMCP:
		if strings.TrimSpace(p.Endpoint) == "" {
			errs = append(errs, errors.New("provider.endpoint: required for the mcp provider"))
		}
	case ProviderPostgres:
		if p.PostgresDSN == "" {
			errs = append(errs, errors.New("provider.postgres_dsn: required for the postgres provider"))
		}
		if p.ProjectID == "" {
			errs = append(errs, errors.New("provider.project_id: required for the postgres provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("provider.kind: unknown provider %q (want file, mcp or postgres)", p.Kind))
	}
	if p.Timeout <= 0 {
		errs = append(errs, errors.New("provider.timeout: must be positive"))
	}
	if p.CacheTTL < 0 {
		errs = append(errs, errors.New("provider.cache_ttl: must not be negative"))
	}
	return errors.Join(errs...)
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// envOrDefaultSeconds reads a whole number of seconds.
func envOrDefaultSeconds(key string, defaultVal time.Duration) time.Duration {
	secs := envOrDefaultInt(key, -1)
	if secs < 0 {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}

func envOrDefaultBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
