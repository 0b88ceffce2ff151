package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule limits one method on a path. A Path ending in "/" matches every path
// below it.
type Rule struct {
	Method string
	Path   string
	Limit  int // requests per Window; 0 means unlimited
	Window time.Duration
	Burst  int // bucket size, defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	Default         Rule
	CleanupInterval time.Duration
	IdleAfter       time.Duration
	Allow           map[string]bool // clients never limited
	Deny            map[string]bool // clients always refused
	Rules           []Rule
}

// DefaultConfig returns the built-in limits.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Default:         Rule{Limit: 600, Window: time.Minute},
		CleanupInterval: 5 * time.Minute,
		IdleAfter:       time.Hour,
		Allow:           map[string]bool{},
		Deny:            map[string]bool{},
		Rules:           DefaultRules(),
	}
}

// DefaultRules limits credential and write endpoints more tightly than reads.
func DefaultRules() []Rule {
	return []Rule{
		{Method: "POST", Path: "/auth/login", Limit: 10, Window: time.Minute, Burst: 5},
		{Method: "POST", Path: "/auth/signup", Limit: 5, Window: time.Minute, Burst: 3},

		{Method: "POST", Path: "/recruiter/jobs", Limit: 30, Window: time.Minute, Burst: 10},
		{Method: "POST", Path: "/recruiter/jobs/", Limit: 60, Window: time.Minute, Burst: 10},
		{Method: "PUT", Path: "/recruiter/", Limit: 60, Window: time.Minute, Burst: 10},
		{Method: "POST", Path: "/jobs/", Limit: 60, Window: time.Minute, Burst: 20},
		{Method: "PATCH", Path: "/profile/", Limit: 60, Window: time.Minute, Burst: 10},
		{Method: "POST", Path: "/profile/", Limit: 60, Window: time.Minute, Burst: 10},
		{Method: "PUT", Path: "/profile/", Limit: 60, Window: time.Minute, Burst: 10},
		{Method: "DELETE", Path: "/profile/", Limit: 60, Window: time.Minute, Burst: 10},
		{Method: "POST", Path: "/validate/field", Limit: 240, Window: time.Minute, Burst: 40},

		{Method: "GET", Path: "/jobs/stream", Limit: 10, Window: time.Minute, Burst: 5},
	}
}

// LoadConfig reads RATE_LIMIT_* variables over the defaults.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = envBool("RATE_LIMIT_ENABLED", cfg.Enabled)
	cfg.Default.Limit = envInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.Default.Limit)
	cfg.Default.Window = envDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.Default.Window)
	cfg.CleanupInterval = envDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.Allow = parseClients(os.Getenv("RATE_LIMIT_WHITELIST"))
	cfg.Deny = parseClients(os.Getenv("RATE_LIMIT_BLACKLIST"))
	return cfg
}

func envInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return def
}

func envBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return def
}

// parseClients splits a comma separated client list.
func parseClients(list string) map[string]bool {
	out := map[string]bool{}
	for _, c := range strings.Split(list, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out[c] = true
		}
	}
	return out
}
