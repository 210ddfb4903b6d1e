package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		expiration string
		wantHours  int
		wantErr    string
	}{
		{name: "default expiration", secret: "test-secret-key", wantHours: DefaultJWTExpirationHours},
		{name: "custom expiration", secret: "test-secret-key", expiration: "12", wantHours: 12},
		{name: "minimum expiration", secret: "test-secret-key", expiration: "1", wantHours: 1},
		{name: "missing secret", secret: "", wantErr: "JWT_SECRET is required"},
		{name: "zero expiration", secret: "s", expiration: "0", wantErr: "at least 1 hour"},
		{name: "negative expiration", secret: "s", expiration: "-5", wantErr: "at least 1 hour"},
		{name: "non-numeric expiration", secret: "s", expiration: "abc", wantErr: "invalid JWT_EXPIRATION_HOURS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("JWT_EXPIRATION_HOURS", tt.expiration)

			cfg, err := NewJWTConfig()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.secret, cfg.Secret)
			assert.Equal(t, tt.wantHours, cfg.ExpirationHours)
		})
	}
}

func TestJWTConfig_Expiration(t *testing.T) {
	cfg := &JWTConfig{Secret: "s", ExpirationHours: 36}
	assert.Equal(t, 36*time.Hour, cfg.Expiration())
}

func TestJWTConfig_Validate(t *testing.T) {
	assert.Error(t, (&JWTConfig{ExpirationHours: 1}).Validate())
	assert.Error(t, (&JWTConfig{Secret: "s"}).Validate())
	assert.NoError(t, (&JWTConfig{Secret: "s", ExpirationHours: 1}).Validate())
}
