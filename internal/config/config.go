package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the CLI and the TUI.
type Config struct {
	// Remote GraphQL endpoint.
	APIURL string
	// Optional client-wide request timeout. Zero means none.
	HTTPTimeout time.Duration

	// Directory holding credentials.json and the default log file.
	HomeDir string
	// Token override; when set, the credentials file is ignored.
	Token string
	// Username paired with Token when the token carries no sub claim.
	Username string

	LogFile  string
	LogLevel string
	Env      string // "development" or "production"

	Theme string
}

// Load reads .env (if present) then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	home := getEnv("TADA_HOME", "")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("home: %w", err)
		}
		home = filepath.Join(userHome, ".tada")
	}

	cfg := Config{
		APIURL:      strings.TrimRight(getEnv("TADA_API_URL", ""), "/"),
		HTTPTimeout: getEnvDuration("TADA_HTTP_TIMEOUT", 0),
		HomeDir:     home,
		Token:       strings.TrimSpace(os.Getenv("TADA_TOKEN")),
		Username:    getEnv("TADA_USERNAME", ""),
		LogFile:     getEnv("TADA_LOG_FILE", filepath.Join(home, "tada.log")),
		LogLevel:    getEnv("TADA_LOG_LEVEL", "info"),
		Env:         getEnv("TADA_ENV", "production"),
		Theme:       getEnv("TADA_THEME", "classic"),
	}
	return cfg, nil
}

// Validate reports settings that make the client unusable.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("TADA_API_URL is required (or pass -api)")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api url %q: want http:// or https://", c.APIURL)
	}
	return nil
}

// IsDevelopment returns true unless TADA_ENV is "production".
func (c Config) IsDevelopment() bool {
	return c.Env != "production"
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return defaultValue
	}
	return d
}
