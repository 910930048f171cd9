// Package main is the entry point for the ProjectHub server.
//
// The main package is kept minimal — its job is to:
// 1. Load configuration (config.Load reads .env + environment)
// 2. Create dependencies (logger, data directory)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, etc.). A project can have multiple executables under
// cmd/ — here cmd/server runs the app and cmd/verify flips the
// verification flag on an account.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/muhub/projecthub/internal/config"
	"github.com/muhub/projecthub/internal/server"
)

func main() {
	// Structured logs to stdout. In production you'd raise the level to
	// Info or Warn to reduce noise.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Ensure the data directory exists before sqlite tries to create the
	// database file in it.
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	srv, err := server.New(*cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
