package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123"

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"JWT_SECRET": secret})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "data/bloggers.db", cfg.DBPath)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "admin", cfg.AdminLogin)
	assert.Equal(t, "qwerty", cfg.AdminPassword)
	assert.False(t, cfg.MailEnabled())
	assert.False(t, cfg.TestingRoutes)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"JWT_SECRET":     secret,
		"PORT":           "3000",
		"TOKEN_TTL":      "15m",
		"SMTP_HOST":      "smtp.example.com",
		"TESTING_ROUTES": "true",
		"LOG_LEVEL":      "DEBUG",
	})
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.True(t, cfg.MailEnabled())
	assert.True(t, cfg.TestingRoutes)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
		{"port not a number", map[string]string{"JWT_SECRET": secret, "PORT": "http"}},
		{"port out of range", map[string]string{"JWT_SECRET": secret, "PORT": "70000"}},
		{"zero burst", map[string]string{"JWT_SECRET": secret, "AUTH_RATE_BURST": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.vars)
			assert.Error(t, err)
		})
	}
}
