package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Default input for the CLI when no file argument is given
	InputPath string

	// Upload limits
	MaxUploadBytes int64

	// Chapter locator
	LocatorContextChars int
	LocatorMinChapter   int
	LocatorMaxChapter   int
	ProgressEvery       int

	// Scan statistics
	StatsWindow time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("BOOKMAP_API_KEY"),

		InputPath: envOr("BOOKMAP_INPUT", "book.pdf"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		LocatorContextChars: envInt("LOCATOR_CONTEXT_CHARS", 30),
		LocatorMinChapter:   envInt("LOCATOR_MIN_CHAPTER", 1),
		LocatorMaxChapter:   envInt("LOCATOR_MAX_CHAPTER", 25),
		ProgressEvery:       envInt("PROGRESS_EVERY", 10),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.LocatorContextChars <= 0 {
		cfg.LocatorContextChars = 30
	}
	if cfg.LocatorMinChapter <= 0 {
		cfg.LocatorMinChapter = 1
	}
	if cfg.LocatorMaxChapter <= 0 {
		cfg.LocatorMaxChapter = 25
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = 10
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

// Validate checks settings shared by every mode.
func (c Config) Validate() error {
	if c.LocatorMinChapter > c.LocatorMaxChapter {
		return fmt.Errorf("LOCATOR_MIN_CHAPTER (%d) must not exceed LOCATOR_MAX_CHAPTER (%d)",
			c.LocatorMinChapter, c.LocatorMaxChapter)
	}
	return nil
}

// ValidateServer additionally checks what the HTTP API needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("BOOKMAP_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
