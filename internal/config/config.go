// Package config maps environment variables onto a typed Config.
//
// Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logger.Error("invalid configuration", slog.String("error", err.Error()))
//	    os.Exit(1)
//	}
//
// Every field has a default except JWT_SECRET, so a development server
// starts with nothing but a secret set.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// minSecretLength matches the token service's own check so a short
// secret fails at startup with a readable message.
const minSecretLength = 16

// Config holds all runtime configuration for the server.
type Config struct {
	// Server
	Port     int    `env:"PORT"      envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Storage
	DBPath string `env:"DB_PATH" envDefault:"data/bloggers.db"`

	// Access tokens and passwords
	JWTSecret  string        `env:"JWT_SECRET,required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL"   envDefault:"1h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`

	// Basic credentials for the admin routes
	AdminLogin    string `env:"ADMIN_LOGIN"    envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"qwerty"`

	// Outgoing mail. An empty SMTP_HOST logs messages instead of sending them.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"     envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"     envDefault:"no-reply@bloggers.local"`
	AppBaseURL   string `env:"APP_BASE_URL"  envDefault:"http://localhost:8080"`

	// Per-IP limit on the /auth routes
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" envDefault:"0.5"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST" envDefault:"5"`

	// TestingRoutes mounts DELETE /testing/all-data.
	TestingRoutes bool `env:"TESTING_ROUTES" envDefault:"false"`
}

// Load parses the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case len(c.JWTSecret) < minSecretLength:
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("PORT %d out of range", c.Port)
	case c.TokenTTL <= 0:
		return fmt.Errorf("TOKEN_TTL must be positive")
	case c.AuthRateLimit <= 0 || c.AuthRateBurst < 1:
		return fmt.Errorf("AUTH_RATE_LIMIT and AUTH_RATE_BURST must be positive")
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// MailEnabled reports whether real SMTP delivery is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}
