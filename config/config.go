package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// File is the path of the xlsx workbook appointments are persisted to.
	File string `yaml:"file"`

	// MaxPerHour caps how many appointments may share one hour.
	MaxPerHour int `yaml:"max_per_hour"`

	// DatetimeFormat is the Go layout schedule values must parse under.
	DatetimeFormat string `yaml:"datetime_format"`

	// RateRPS and RateBurst tune the per-IP limiter on mutating requests.
	RateRPS   float64 `yaml:"rate_rps"`
	RateBurst int     `yaml:"rate_burst"`
}

func Default() *Config {
	return &Config{
		Listen:         ":8080",
		File:           "appointments.xlsx",
		MaxPerHour:     4,
		DatetimeFormat: "2006-01-02T15:04",
		RateRPS:        5,
		RateBurst:      10,
	}
}

// Load reads the YAML file at path if it exists, fills missing values with
// defaults, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	cfg.applyEnv()
	return cfg, nil
}

// Normalize fills in missing/zero values so partially-filled configs still
// behave correctly.
func (c *Config) Normalize() {
	d := Default()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.File == "" {
		c.File = d.File
	}
	if c.MaxPerHour <= 0 {
		c.MaxPerHour = d.MaxPerHour
	}
	if c.DatetimeFormat == "" {
		c.DatetimeFormat = d.DatetimeFormat
	}
	if c.RateRPS <= 0 {
		c.RateRPS = d.RateRPS
	}
	if c.RateBurst <= 0 {
		c.RateBurst = d.RateBurst
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Listen = ":" + v
	}
	if v := os.Getenv("APPOINTMENTS_FILE"); v != "" {
		c.File = v
	}
	if v := os.Getenv("MAX_PER_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxPerHour = n
		}
	}
}
