package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime settings. It is loaded once at process start and
// handed to each collaborator that needs it; nothing reads the environment
// after startup.
type Config struct {
	Host string
	Port string
	Env  string // "development" or "production"

	LogLevel string

	// StaticDir is the root directory for uploaded image assets. Derived
	// image variants live in cache/ subdirectories beside their sources.
	StaticDir string

	// DataDir holds the sqlite database files.
	DataDir string

	// SecretKey signs admin JWTs.
	SecretKey string

	// Frontpad order relay.
	FrontpadSecret  string
	FrontpadBaseURL string

	// AllowedOrigins is the CORS allow-list. Empty means allow all
	// (development behaviour).
	AllowedOrigins []string

	// CacheRetentionDays bounds the age of derived image cache files before
	// the sweep job deletes them.
	CacheRetentionDays int

	// BodyLimit is the maximum request body size in bytes (uploads).
	BodyLimit int
}

const (
	defaultPort            = "3000"
	defaultHost            = "127.0.0.1"
	defaultFrontpadBaseURL = "https://app.frontpad.ru/api/index.php"
	defaultRetentionDays   = 30
	defaultBodyLimit       = 10 * 1024 * 1024
)

// Load builds a Config from environment variables, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Host:            getEnvOrDefault("HOST", defaultHost),
		Port:            getEnvOrDefault("PORT", defaultPort),
		Env:             getEnvOrDefault("SUSHIKUB_ENV", "development"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		StaticDir:       getEnvOrDefault("SUSHIKUB_STATIC_DIR", "static"),
		DataDir:         getEnvOrDefault("SUSHIKUB_DATA_DIR", "data"),
		SecretKey:       os.Getenv("SECRET_KEY"),
		FrontpadSecret:  os.Getenv("FRONTPAD_SECRET"),
		FrontpadBaseURL: getEnvOrDefault("FRONTPAD_BASE_URL", defaultFrontpadBaseURL),
		BodyLimit:       defaultBodyLimit,
	}

	if origins := os.Getenv("ALLOWED_ORIGIN"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	cfg.CacheRetentionDays = defaultRetentionDays
	if raw := os.Getenv("SUSHIKUB_CACHE_RETENTION_DAYS"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("invalid SUSHIKUB_CACHE_RETENTION_DAYS: %q", raw)
		}
		cfg.CacheRetentionDays = days
	}

	return cfg, nil
}

// Validate checks settings that have no sensible default.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if c.StaticDir == "" {
		return fmt.Errorf("static directory is required")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
