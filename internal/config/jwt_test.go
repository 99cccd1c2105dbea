package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		hours     string
		wantHours int
		wantErr   string
	}{
		{name: "defaults", secret: "a-sufficiently-long-secret", wantHours: 24},
		{name: "custom expiration", secret: "a-sufficiently-long-secret", hours: "48", wantHours: 48},
		{name: "missing secret", wantErr: "JWT_SECRET is required"},
		{name: "short secret", secret: "short", wantErr: "at least 16 characters"},
		{name: "one below minimum", secret: "0123456789abcde", wantErr: "at least 16 characters"},
		{name: "exactly minimum", secret: "0123456789abcdef", wantHours: 24},
		{name: "zero hours", secret: "a-sufficiently-long-secret", hours: "0", wantErr: "at least 1 hour"},
		{name: "bad hours", secret: "a-sufficiently-long-secret", hours: "soon", wantErr: "invalid JWT_EXPIRATION_HOURS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("JWT_EXPIRATION_HOURS", tt.hours)

			cfg, err := NewJWTConfig()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.secret, cfg.Secret)
			assert.Equal(t, tt.wantHours, cfg.ExpirationHours)
		})
	}
}
