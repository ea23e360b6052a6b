// Package config provides client configuration with support for command-line options, environment variables, and .env files.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// Bookmark list modes.
const (
	ModePaginated = "paginated"
	ModeLocal     = "local"
)

// Config holds the application configuration.
type Config struct {
	App           AppConfig
	Logger        LoggerConfig
	API           APIConfig
	Storage       StorageConfig
	Bookmarks     BookmarksConfig
	Notifications NotificationsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// APIConfig describes how to reach the remote bookmark API.
type APIConfig struct {
	BaseURL           string
	Timeout           time.Duration // HTTP client timeout (default: 15s)
	RequestsPerSecond float64       // Outbound rate limit (default: 10)
	Burst             int           // Outbound burst (default: 20)
	BreakerFailures   int           // Consecutive failures before the breaker opens (default: 5)
	BreakerCooldown   time.Duration // Time the breaker stays open (default: 30s)
}

// StorageConfig holds durable client storage configuration.
type StorageConfig struct {
	// DataPath is the directory of the token database (default: ~/.linkshelf)
	DataPath string
}

// BookmarksConfig holds bookmark list behaviour.
type BookmarksConfig struct {
	Mode     string // paginated or local
	PageSize int    // default: 12
	// Locale drives case folding and title collation in local mode (default: vi)
	Locale string
}

// NotificationsConfig holds notification queue behaviour.
type NotificationsConfig struct {
	TTL time.Duration // default: 4s
}

// Overrides carries values given on the command line. Empty fields are ignored.
type Overrides struct {
	Env        string
	LogLevel   string
	APIBaseURL string
	DataPath   string
	Mode       string
	EnvFile    string
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line overrides (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(o Overrides) (*Config, error) {
	envFile := o.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overwrites variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(o.Env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(o.LogLevel, "LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL:           strings.TrimRight(getConfigValue(o.APIBaseURL, "API_BASE_URL", "http://localhost:3333"), "/"),
			RequestsPerSecond: getFloatConfigValue("API_RPS", 10),
			Burst:             getIntConfigValue("API_BURST", 20),
			BreakerFailures:   getIntConfigValue("API_BREAKER_FAILURES", 5),
		},
		Storage: StorageConfig{
			DataPath: getConfigValue(o.DataPath, "DATA_PATH", ""),
		},
		Bookmarks: BookmarksConfig{
			Mode:     strings.ToLower(getConfigValue(o.Mode, "BOOKMARK_MODE", ModePaginated)),
			PageSize: getIntConfigValue("PAGE_SIZE", 12),
			Locale:   getConfigValue("", "LOCALE", "vi"),
		},
	}

	var err error
	if cfg.API.Timeout, err = getDurationConfigValue("API_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.API.BreakerCooldown, err = getDurationConfigValue("API_BREAKER_COOLDOWN", "30s"); err != nil {
		return nil, err
	}
	if cfg.Notifications.TTL, err = getDurationConfigValue("NOTIFICATION_TTL", "4s"); err != nil {
		return nil, err
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q", c.API.BaseURL)
	}

	if c.API.RequestsPerSecond <= 0 || c.API.Burst <= 0 {
		return errors.New("API rate limit must be positive")
	}

	if c.Bookmarks.Mode != ModePaginated && c.Bookmarks.Mode != ModeLocal {
		return fmt.Errorf("invalid bookmark mode: %s (must be paginated or local)", c.Bookmarks.Mode)
	}

	if c.Bookmarks.PageSize < 1 || c.Bookmarks.PageSize > 100 {
		return fmt.Errorf("invalid page size: %d (must be 1-100)", c.Bookmarks.PageSize)
	}

	if _, err := language.Parse(c.Bookmarks.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Bookmarks.Locale, err)
	}

	if c.Notifications.TTL <= 0 {
		return errors.New("notification TTL must be positive")
	}

	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath defaults the data path to ~/.linkshelf.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	expanded, err := expandPath(c.Storage.DataPath, filepath.Join(homeDir, ".linkshelf"))
	if err != nil {
		return err
	}
	c.Storage.DataPath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from override, env var, or default.
func getConfigValue(override, envKey, defaultValue string) string {
	if override != "" {
		return override
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from env var or default.
func getIntConfigValue(envKey string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(envKey))
	if err != nil {
		return defaultValue
	}
	return v
}

// getFloatConfigValue returns a float from env var or default.
func getFloatConfigValue(envKey string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(envKey), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

// getDurationConfigValue parses a duration from env var or default.
func getDurationConfigValue(envKey, defaultValue string) (time.Duration, error) {
	raw := getConfigValue("", envKey, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, raw, err)
	}
	return d, nil
}
