// Package config provides configuration loading and validation for the service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Defaults applied by MergeWithDefaults.
const (
	DefaultPort               = 8080
	DefaultRoleResolveTimeout = 3 * time.Second
	DefaultRoleCacheTTL       = 10 * time.Minute
	DefaultSweepSchedule      = "@every 5m"
)

// Duration is a time.Duration that reads "3s" style strings from JSON.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"3s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config represents the service configuration. It can be loaded from a JSON
// file and is then overlaid with environment variables.
type Config struct {
	Port  int    `json:"port,omitempty"`
	Store string `json:"store,omitempty"` // postgres or memory

	DatabaseURL   string `json:"database_url,omitempty"`
	RedisAddr     string `json:"redis_addr,omitempty"` // empty disables Redis
	RedisPassword string `json:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty"`

	LogLevel           string   `json:"log_level,omitempty"`
	RoleResolveTimeout Duration `json:"role_resolve_timeout,omitempty"`
	RoleCacheTTL       Duration `json:"role_cache_ttl,omitempty"`
	SweepSchedule      string   `json:"sweep_schedule,omitempty"` // cron spec, "off" disables
	CORSOrigin         string   `json:"cors_origin,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load reads the optional config file, applies the environment on top and
// fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(Config{})
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields with any environment variables that are set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	if v := os.Getenv("STORE"); v != "" {
		c.Store = strings.ToLower(v)
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB: %v", err)
		}
		c.RedisDB = n
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("ROLE_RESOLVE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ROLE_RESOLVE_TIMEOUT: %v", err)
		}
		c.RoleResolveTimeout = Duration(d)
	}
	if v := os.Getenv("ROLE_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ROLE_CACHE_TTL: %v", err)
		}
		c.RoleCacheTTL = Duration(d)
	}
	if v := os.Getenv("SWEEP_SCHEDULE"); v != "" {
		c.SweepSchedule = v
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		c.CORSOrigin = v
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required when store is postgres")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("config error: unknown store %q (want postgres or memory)", c.Store)
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("config error: 'redis_db' must be non-negative")
	}
	if c.RoleResolveTimeout < 0 {
		return fmt.Errorf("config error: 'role_resolve_timeout' must be non-negative")
	}
	if c.RoleCacheTTL < 0 {
		return fmt.Errorf("config error: 'role_cache_ttl' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults, then from the built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Port == 0 {
		result.Port = DefaultPort
	}
	if result.Store == "" {
		result.Store = defaults.Store
	}
	if result.Store == "" {
		result.Store = StorePostgres
		if result.DatabaseURL == "" && defaults.DatabaseURL == "" {
			result.Store = StoreMemory
		}
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if result.RedisPassword == "" {
		result.RedisPassword = defaults.RedisPassword
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogLevel == "" {
		result.LogLevel = "info"
	}
	if result.RoleResolveTimeout == 0 {
		result.RoleResolveTimeout = defaults.RoleResolveTimeout
	}
	if result.RoleResolveTimeout == 0 {
		result.RoleResolveTimeout = Duration(DefaultRoleResolveTimeout)
	}
	if result.RoleCacheTTL == 0 {
		result.RoleCacheTTL = defaults.RoleCacheTTL
	}
	if result.RoleCacheTTL == 0 {
		result.RoleCacheTTL = Duration(DefaultRoleCacheTTL)
	}
	if result.SweepSchedule == "" {
		result.SweepSchedule = defaults.SweepSchedule
	}
	if result.SweepSchedule == "" {
		result.SweepSchedule = DefaultSweepSchedule
	}
	if result.CORSOrigin == "" {
		result.CORSOrigin = defaults.CORSOrigin
	}
	if result.CORSOrigin == "" {
		result.CORSOrigin = "*"
	}

	return result
}

// SweepEnabled reports whether the scheduled expiry sweep should run.
func (c *Config) SweepEnabled() bool {
	return !strings.EqualFold(c.SweepSchedule, "off")
}
