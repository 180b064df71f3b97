// Package config provides configuration structures and loading for the fuel price scraper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/andygrunwald/fuelprices-dk/internal/models"
	"github.com/andygrunwald/fuelprices-dk/internal/ocr"
)

// DefaultRefreshInterval is the time between two scheduled refreshes.
const DefaultRefreshInterval = 60 * time.Minute

// Duration is a time.Duration read from a string such as "30m" in TOML files.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds all configuration for the fuel price scraper.
type Config struct {
	// Log level (debug, info, warn, error)
	LogLevel string `toml:"log_level"`
	// Log format (json, console)
	LogFormat string `toml:"log_format"`
	// HTTP server address
	HTTPAddr string `toml:"http_addr"`
	// PostgreSQL connection string, empty disables the price export
	PostgresDSN string `toml:"postgres_dsn"`
	// Company keys to load, empty loads all
	Companies []string `toml:"companies"`
	// Product kinds to subscribe to, empty subscribes to all
	Products []string `toml:"products"`
	// Time between two refreshes
	RefreshInterval Duration `toml:"refresh_interval"`
	// Directory for downloaded price images
	DataDir string `toml:"data_dir"`
	// OCR settings
	OCR OCRConfig `toml:"ocr"`
}

// OCRConfig holds configuration for the seven segment OCR tool.
type OCRConfig struct {
	Binary  string   `toml:"binary"`
	Timeout Duration `toml:"timeout"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "json",
		HTTPAddr:        ":8080",
		RefreshInterval: Duration(DefaultRefreshInterval),
		OCR: OCRConfig{
			Binary:  ocr.DefaultBinary,
			Timeout: Duration(ocr.DefaultTimeout),
		},
	}
}

// LoadFile overlays the TOML file at path onto c. Unknown keys are rejected.
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parsing config file %s: %s", path, strict.String())
		}
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.PostgresDSN = v
	}
	if v := os.Getenv("COMPANIES"); v != "" {
		c.Companies = SplitList(v)
	}
	if v := os.Getenv("PRODUCTS"); v != "" {
		c.Products = SplitList(v)
	}
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RefreshInterval = Duration(d)
		}
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("OCR_BINARY"); v != "" {
		c.OCR.Binary = v
	}
	if v := os.Getenv("OCR_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.OCR.Timeout = Duration(d)
		}
	}
}

// Validate checks the configuration for values the scraper cannot run with.
func (c *Config) Validate() error {
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", time.Duration(c.RefreshInterval))
	}
	if c.OCR.Timeout <= 0 {
		return fmt.Errorf("ocr timeout must be positive, got %s", time.Duration(c.OCR.Timeout))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if _, err := c.ProductKinds(); err != nil {
		return err
	}
	return nil
}

// ProductKinds returns the configured product kinds.
func (c *Config) ProductKinds() ([]models.ProductKind, error) {
	kinds := make([]models.ProductKind, 0, len(c.Products))
	for _, p := range c.Products {
		kind := models.ProductKind(strings.ToLower(strings.TrimSpace(p)))
		if !kind.Valid() {
			return nil, fmt.Errorf("unknown product kind %q", p)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
