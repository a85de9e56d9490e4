// Package config contains everything related to configuration
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	APIBaseURL   string
	DefaultCity  string
	DatabasePath string
	PlacesPath   string
	LocationPath string
	LogPath      string
	LogLevel     string
	ServeAddr    string
	HTTPTimeout  time.Duration
	RateLimit    float64
	RateBurst    int
	SevereAlerts bool
}

// Default values
const (
	defaultAPIBaseURL  = "https://weather-api-7pzt.onrender.com"
	defaultCity        = "Lagos"
	defaultHTTPTimeout = 15 * time.Second
	defaultRateLimit   = 2.0
	defaultRateBurst   = 4
	defaultServeAddr   = ":8080"
	defaultLogLevel    = "info"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		APIBaseURL:   strings.TrimRight(getEnvString("API_BASE_URL", defaultAPIBaseURL), "/"),
		DefaultCity:  strings.TrimSpace(getEnvString("DEFAULT_CITY", defaultCity)),
		DatabasePath: getEnvString("DATABASE_PATH", defaultPath("skycast.db")),
		PlacesPath:   getEnvString("PLACES_PATH", defaultPath("places.json")),
		LocationPath: getEnvString("LOCATION_PATH", defaultPath("location.json")),
		LogPath:      getEnvString("LOG_PATH", defaultPath("skycast.log")),
		LogLevel:     getEnvString("LOG_LEVEL", defaultLogLevel),
		ServeAddr:    getEnvString("SERVE_ADDR", defaultServeAddr),
		HTTPTimeout:  getEnvDuration("HTTP_TIMEOUT", defaultHTTPTimeout),
		RateLimit:    getEnvFloat("API_RATE_LIMIT", defaultRateLimit),
		RateBurst:    getEnvInt("API_RATE_BURST", defaultRateBurst),
		SevereAlerts: getEnvBool("SEVERE_ALERTS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, p := range []string{cfg.DatabasePath, cfg.PlacesPath, cfg.LogPath} {
		if err := ensureDir(filepath.Dir(p)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}
	if c.DefaultCity == "" {
		return fmt.Errorf("DEFAULT_CITY must not be empty")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("API_RATE_LIMIT must be positive, got %v", c.RateLimit)
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("API_RATE_BURST must be at least 1, got %d", c.RateBurst)
	}
	return nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "skycast", ".env"),
			filepath.Join(home, ".skycast", ".env"),
		)
	}

	return paths
}

// defaultPath returns a file path inside the skycast config directory.
func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".config", "skycast", name)
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
