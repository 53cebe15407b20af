package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port              string        `env:"COMPANION_PORT" envDefault:"8080"`
	DatasetPath       string        `env:"COMPANION_DATASET_PATH" envDefault:"dataset.txt"`
	DBPath            string        `env:"COMPANION_DB_PATH" envDefault:"companion.db"`
	Token             string        `env:"COMPANION_TOKEN"`
	Timezone          string        `env:"COMPANION_TIMEZONE" envDefault:"UTC"`
	AutosaveInterval  time.Duration `env:"COMPANION_AUTOSAVE_INTERVAL" envDefault:"0s"`
	ActivityRetention time.Duration `env:"COMPANION_ACTIVITY_RETENTION" envDefault:"720h"`
	RateLimit         int           `env:"COMPANION_RATE_LIMIT" envDefault:"60"`
	OCRText           string        `env:"COMPANION_OCR_TEXT"`
	MaxUploadBytes    int64         `env:"COMPANION_MAX_UPLOAD_BYTES" envDefault:"10485760"`
	MaxImagePixels    int64         `env:"COMPANION_MAX_IMAGE_PIXELS" envDefault:"8388608"`
	LoadOnStart       bool          `env:"COMPANION_LOAD_ON_START" envDefault:"true"`
	Seed              uint64        `env:"COMPANION_SEED" envDefault:"0"`
	Debug             bool          `env:"COMPANION_DEBUG" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("COMPANION_PORT is required")
	}
	if c.DatasetPath == "" {
		return fmt.Errorf("COMPANION_DATASET_PATH is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("COMPANION_DB_PATH is required")
	}
	if c.AutosaveInterval < 0 {
		return fmt.Errorf("COMPANION_AUTOSAVE_INTERVAL must not be negative")
	}
	if c.ActivityRetention <= 0 {
		return fmt.Errorf("COMPANION_ACTIVITY_RETENTION must be positive")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("COMPANION_RATE_LIMIT must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("COMPANION_MAX_UPLOAD_BYTES must be positive")
	}
	if c.MaxImagePixels <= 0 {
		return fmt.Errorf("COMPANION_MAX_IMAGE_PIXELS must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("COMPANION_TIMEZONE: %w", err)
	}
	return nil
}

// AuthEnabled reports whether API requests need a bearer token
func (c *Config) AuthEnabled() bool {
	return c.Token != ""
}

// ValidToken checks a presented bearer token
func (c *Config) ValidToken(token string) bool {
	return c.Token != "" && token == c.Token
}

// Location returns the configured timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
