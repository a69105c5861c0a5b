// Package main is the entry point for the bloggers platform API server.
//
// main stays minimal: read configuration, build the logger, make sure the
// database directory exists, then hand over to internal/server.
//
// Configuration comes from the environment; see internal/config. The only
// required variable is JWT_SECRET:
//
//	JWT_SECRET=$(openssl rand -hex 32) go run ./cmd/server
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/bloggers-platform/internal/config"
	"github.com/sakif/bloggers-platform/internal/server"
)

func main() {
	// === 1. READ CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	// === 3. DATABASE DIRECTORY ===
	// os.MkdirAll is a no-op when the directory already exists.
	if cfg.DBPath != ":memory:" {
		dbDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// === 4. CREATE AND START THE SERVER ===
	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT or SIGTERM
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
