// Package config holds configuration for both command-line tools.
package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// CollectorConfig holds collector configuration.
type CollectorConfig struct {
	OverpassURL  string
	CDXBaseURL   string
	Area         string
	ShopCategory string
	Timeout      time.Duration
	LookupDelay  time.Duration
	CacheSize    int
	OutputFile   string
	OutputFormat string // tsv, sqlite, or dual
	UserAgent    string
	MetricsAddr  string
	Verbose      bool
}

// AnalyzerConfig holds analyzer configuration. CurrentYear qualifies rows by
// their current price date; TargetYear is the inflation adjustment target.
// They usually coincide but are configured independently.
type AnalyzerConfig struct {
	InputFile   string
	CurrentYear int
	TargetYear  int
	CutoffDate  time.Time
	Verbose     bool
}

// DefaultCollectorConfig returns conservative defaults for the public APIs.
func DefaultCollectorConfig() *CollectorConfig {
	return &CollectorConfig{
		OverpassURL:  "https://overpass-api.de/api/interpreter",
		CDXBaseURL:   "https://web.archive.org/cdx/search/cdx",
		Area:         "Wien",
		ShopCategory: "bicycle",
		Timeout:      10 * time.Second,
		LookupDelay:  0,
		CacheSize:    256,
		OutputFile:   "output/fahrradshops_wien.tsv",
		OutputFormat: "tsv",
		UserAgent:    "reparaturbonus-collector/0.1",
		MetricsAddr:  "",
		Verbose:      false,
	}
}

// DefaultAnalyzerConfig returns defaults matching the published dataset.
func DefaultAnalyzerConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		InputFile:   "data/bicycle_repair_shops_vienna.tsv",
		CurrentYear: 2025,
		TargetYear:  2025,
		CutoffDate:  time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Validate ensures all collector configuration values are coherent.
func (c *CollectorConfig) Validate() error {
	for name, raw := range map[string]string{"overpass URL": c.OverpassURL, "CDX URL": c.CDXBaseURL} {
		if raw == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
		parsed, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if parsed.Host == "" {
			return fmt.Errorf("%s must include a host", name)
		}
	}
	if c.Area == "" {
		return fmt.Errorf("area cannot be empty")
	}
	if c.ShopCategory == "" {
		return fmt.Errorf("shop category cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.LookupDelay < 0 {
		return fmt.Errorf("lookup delay cannot be negative")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.OutputFormat != "tsv" && c.OutputFormat != "sqlite" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be tsv, sqlite, or dual")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	return nil
}

// Validate ensures all analyzer configuration values are coherent.
func (c *AnalyzerConfig) Validate() error {
	if c.InputFile == "" {
		return fmt.Errorf("input file cannot be empty")
	}
	if c.CurrentYear <= 0 {
		return fmt.Errorf("current year must be positive")
	}
	if c.TargetYear <= 0 {
		return fmt.Errorf("target year must be positive")
	}
	if c.CutoffDate.IsZero() {
		return fmt.Errorf("cutoff date cannot be zero")
	}
	return nil
}

// LoadEnv reads an optional .env file into the process environment.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, falling back to system env vars")
	}
}

// EnvString returns the value of an environment variable and whether it was set.
func EnvString(key string) (string, bool) {
	value := os.Getenv(key)
	if value == "" {
		return "", false
	}
	return value, true
}

// EnvInt parses an integer environment variable.
func EnvInt(key string) (int, bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, true, nil
}
