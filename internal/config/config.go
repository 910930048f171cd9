// Package config loads process configuration once at startup.
//
// CONFIGURATION SOURCES (in order):
// 1. A local .env file, if present (loaded via godotenv — handy in dev)
// 2. Real environment variables (these win, because godotenv never overrides
//    variables that are already set)
//
// There is no hot reload: the returned Config is read-only after Load, and
// everything downstream (signing secret, cookie policy, store path) treats
// it that way.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults used when the corresponding variable is unset.
const (
	DefaultPort        = 8080
	DefaultDBPath      = "data/projecthub.db"
	DefaultTokenTTL    = 24 * time.Hour
	DefaultEmailDomain = "@mahindrauniversity.edu.in"
)

// Config holds everything the server needs to run.
type Config struct {
	Port        int
	DBPath      string
	TemplateDir string
	StaticDir   string

	// Auth
	JWTSecret   string        // HMAC signing secret, required
	TokenTTL    time.Duration // session token lifetime; cookie Max-Age matches
	EmailDomain string        // institutional suffix, e.g. "@mahindrauniversity.edu.in"
	Production  bool          // APP_ENV=production → Secure cookies
}

// Load reads configuration from .env + environment.
//
// JWT_SECRET is the only hard requirement — the auth core is useless without
// a signing key, so we fail fast instead of starting a server that can't
// issue sessions.
func Load() (*Config, error) {
	// Ignore the error: a missing .env file is normal outside dev.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        DefaultPort,
		DBPath:      DefaultDBPath,
		TemplateDir: "web/templates",
		StaticDir:   "web/static",
		TokenTTL:    DefaultTokenTTL,
		EmailDomain: DefaultEmailDomain,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TEMPLATE_DIR"); v != "" {
		cfg.TemplateDir = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required (try: openssl rand -hex 32)")
	}

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid TOKEN_TTL %q: %w", v, err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("config: TOKEN_TTL must be positive, got %q", v)
		}
		cfg.TokenTTL = ttl
	}

	if v := os.Getenv("ALLOWED_EMAIL_DOMAIN"); v != "" {
		cfg.EmailDomain = v
	}

	cfg.Production = os.Getenv("APP_ENV") == "production"

	return cfg, nil
}
