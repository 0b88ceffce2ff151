package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// MinSecretLength is the shortest accepted HS256 signing secret.
const MinSecretLength = 32

const (
	defaultSessionHours    = 24
	defaultPersistentHours = 720
)

// JWTConfig controls session token signing. PersistentExpirationHours
// applies to "remember me" sign-ins.
type JWTConfig struct {
	Secret                    string
	ExpirationHours           int
	PersistentExpirationHours int
}

// NewJWTConfig reads JWT_SECRET, JWT_EXPIRATION_HOURS and
// JWT_PERSISTENT_EXPIRATION_HOURS.
func NewJWTConfig() (*JWTConfig, error) {
	cfg := &JWTConfig{Secret: os.Getenv("JWT_SECRET")}
	if cfg.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	var err error
	if cfg.ExpirationHours, err = envHours("JWT_EXPIRATION_HOURS", defaultSessionHours); err != nil {
		return nil, err
	}
	if cfg.PersistentExpirationHours, err = envHours("JWT_PERSISTENT_EXPIRATION_HOURS", defaultPersistentHours); err != nil {
		return nil, err
	}
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envHours(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	hours, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: not a whole number of hours", key, raw)
	}
	return hours, nil
}

// TTL is the lifetime of a session token.
func (c *JWTConfig) TTL(persistent bool) time.Duration {
	hours := c.ExpirationHours
	if persistent {
		hours = c.PersistentExpirationHours
	}
	return time.Duration(hours) * time.Hour
}

func (c *JWTConfig) check() error {
	switch {
	case len(c.Secret) < MinSecretLength:
		return fmt.Errorf("JWT_SECRET must be at least %d bytes, got %d", MinSecretLength, len(c.Secret))
	case c.ExpirationHours < 1:
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got %d", c.ExpirationHours)
	case c.PersistentExpirationHours < c.ExpirationHours:
		return fmt.Errorf("JWT_PERSISTENT_EXPIRATION_HOURS (%d) is shorter than JWT_EXPIRATION_HOURS (%d)",
			c.PersistentExpirationHours, c.ExpirationHours)
	}
	return nil
}
