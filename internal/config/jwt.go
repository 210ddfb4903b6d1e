package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultJWTExpirationHours is the session length when JWT_EXPIRATION_HOURS is unset.
const DefaultJWTExpirationHours = 24

// minSecretLength is the shortest secret accepted without a warning.
const minSecretLength = 32

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig creates a new JWT configuration from environment variables.
// It reads JWT_SECRET (required) and JWT_EXPIRATION_HOURS (default: 24).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	hours, err := envInt("JWT_EXPIRATION_HOURS", DefaultJWTExpirationHours)
	if err != nil {
		return nil, err
	}

	cfg := &JWTConfig{Secret: secret, ExpirationHours: hours}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(secret) < minSecretLength {
		log.Warn().Int("length", len(secret)).Msg("JWT_SECRET is shorter than 32 bytes")
	}
	return cfg, nil
}

// Validate checks the secret is set and the expiration is at least an hour.
func (c *JWTConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}

// Expiration returns the token lifetime.
func (c *JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}
