// Package config loads reader settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"blogreader/app/actions"
	"blogreader/app/rest"
)

// Config holds the reader settings loaded from the environment
type Config struct {
	// REST API
	APIBaseURL  string
	AccessToken string
	HTTPTimeout time.Duration

	// Storage
	DBPath string

	// Server
	ServerPort string

	// Reader
	CurrentUserID int64
	PixelURL      string
	ThemeWidth    int

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:  getEnv("READER_API_BASE_URL", rest.DefaultBaseURL),
		AccessToken: getEnv("READER_ACCESS_TOKEN", ""),
		DBPath:      getEnv("READER_DB_PATH", "data/badger"),
		ServerPort:  getEnv("READER_SERVER_PORT", "8080"),
		PixelURL:    getEnv("READER_PIXEL_URL", actions.DefaultPixelURL),
		LogLevel:    getEnv("READER_LOG_LEVEL", "info"),
		LogFormat:   getEnv("READER_LOG_FORMAT", "console"),
	}

	var err error
	if cfg.CurrentUserID, err = strconv.ParseInt(getEnv("READER_CURRENT_USER_ID", "0"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid READER_CURRENT_USER_ID: %w", err)
	}
	if cfg.HTTPTimeout, err = time.ParseDuration(getEnv("READER_HTTP_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("invalid READER_HTTP_TIMEOUT: %w", err)
	}
	if cfg.ThemeWidth, err = strconv.Atoi(getEnv("READER_THEME_WIDTH", "500")); err != nil {
		return nil, fmt.Errorf("invalid READER_THEME_WIDTH: %w", err)
	}
	if cfg.ThemeWidth <= 0 {
		return nil, fmt.Errorf("invalid READER_THEME_WIDTH: must be positive")
	}
	return cfg, nil
}

// SetupLogging configures the global zerolog logger. Unknown levels fall
// back to info.
func (c *Config) SetupLogging(out io.Writer) {
	if out == nil {
		out = os.Stderr
	}
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.EqualFold(c.LogFormat, "json") {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
