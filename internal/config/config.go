package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

var (
	ErrMissingAPIKey = errors.New("YouTube API key is required")
)

const (
	defaultDBPath          = "videos.db"
	defaultPort            = "8080"
	defaultOrigin          = "http://localhost:3000"
	defaultRefreshInterval = 5 * time.Minute
)

// Config holds the application configuration
type Config struct {
	YouTubeAPIKey   string
	DBPath          string
	Port            string
	AllowedOrigins  []string
	RefreshInterval time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		YouTubeAPIKey:   os.Getenv("YOUTUBE_API_KEY"),
		DBPath:          getEnv("DB_PATH", defaultDBPath),
		Port:            getEnv("PORT", defaultPort),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", defaultOrigin)),
		RefreshInterval: defaultRefreshInterval,
	}

	if raw := os.Getenv("REFRESH_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REFRESH_INTERVAL %q: %w", raw, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("REFRESH_INTERVAL must not be negative, got %s", d)
		}
		cfg.RefreshInterval = d
	}

	return cfg, nil
}

// ValidateScraper checks the settings the scraper needs
func (c *Config) ValidateScraper() error {
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: YOUTUBE_API_KEY environment variable is not set", ErrMissingAPIKey)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
