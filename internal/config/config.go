package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"MaterialPrices/internal/model"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingField is returned when a material entry lacks base, volatility or unit.
	ErrMissingField = errors.New("material config missing field")
	// ErrInvalidMaterial is returned for out-of-range or duplicate material entries.
	ErrInvalidMaterial = errors.New("invalid material config")
)

const (
	DefaultOutput = "construction_material_prices.csv"
	DefaultDays   = 365
	DefaultSeed   = 42
)

// MaterialSpec is one entry of the materials list as written in YAML.
// Pointer fields distinguish an absent key from a zero value.
type MaterialSpec struct {
	Name       string   `yaml:"name"`
	Base       *float64 `yaml:"base"`
	Volatility *float64 `yaml:"volatility"`
	Unit       *string  `yaml:"unit"`
}

// Config holds all application configuration.
type Config struct {
	Output    string         `yaml:"output"`
	Days      *int           `yaml:"days"`
	Seed      *int64         `yaml:"seed"`
	Materials []MaterialSpec `yaml:"materials"`
	Database  struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
}

// DefaultMaterials returns the built-in material set in emission order.
func DefaultMaterials() []MaterialSpec {
	return []MaterialSpec{
		spec("Cement (OPC 53 Grade)", 380.0, 10.0, "Per 50kg Bag"),
		spec("Steel (TMT Fe550)", 58000.0, 1000.0, "Per Ton"),
		spec("River Sand", 1600.0, 70.0, "Per Cubic Meter"),
		spec("Aggregates (20mm)", 1300.0, 60.0, "Per Cubic Meter"),
	}
}

func spec(name string, base, vol float64, unit string) MaterialSpec {
	return MaterialSpec{Name: name, Base: &base, Volatility: &vol, Unit: &unit}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PRICES_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("PRICES_DAYS"); v != "" {
		var days int
		if _, err := fmt.Sscanf(v, "%d", &days); err == nil {
			cfg.Days = &days
		}
	}
	if v := os.Getenv("PRICES_SEED"); v != "" {
		var seed int64
		if _, err := fmt.Sscanf(v, "%d", &seed); err == nil {
			cfg.Seed = &seed
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("PRICES_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}

	// Defaults
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.Days == nil {
		days := DefaultDays
		cfg.Days = &days
	}
	if cfg.Seed == nil {
		seed := int64(DefaultSeed)
		cfg.Seed = &seed
	}
	// An explicit empty list is kept and generates an empty table.
	if cfg.Materials == nil {
		cfg.Materials = DefaultMaterials()
	}

	return cfg, nil
}

// Validate checks that every material entry is complete and in range.
func (c *Config) Validate() error {
	_, err := c.MaterialSet()
	return err
}

// MaterialSet converts the configured entries into generator input, preserving order.
func (c *Config) MaterialSet() ([]model.Material, error) {
	seen := make(map[string]bool, len(c.Materials))
	out := make([]model.Material, 0, len(c.Materials))
	for i, s := range c.Materials {
		if s.Name == "" {
			return nil, fmt.Errorf("materials[%d]: %w: name is required", i, ErrInvalidMaterial)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("material %q: %w: duplicate name", s.Name, ErrInvalidMaterial)
		}
		seen[s.Name] = true

		switch {
		case s.Base == nil:
			return nil, fmt.Errorf("material %q: %w: base", s.Name, ErrMissingField)
		case s.Volatility == nil:
			return nil, fmt.Errorf("material %q: %w: volatility", s.Name, ErrMissingField)
		case s.Unit == nil:
			return nil, fmt.Errorf("material %q: %w: unit", s.Name, ErrMissingField)
		}
		if !(*s.Base > 0) || math.IsInf(*s.Base, 0) {
			return nil, fmt.Errorf("material %q: %w: base must be a positive finite number", s.Name, ErrInvalidMaterial)
		}
		if math.IsNaN(*s.Volatility) || math.IsInf(*s.Volatility, 0) || *s.Volatility < 0 {
			return nil, fmt.Errorf("material %q: %w: volatility must be a finite number >= 0", s.Name, ErrInvalidMaterial)
		}

		out = append(out, model.Material{
			Name:       s.Name,
			BasePrice:  *s.Base,
			Volatility: *s.Volatility,
			Unit:       *s.Unit,
		})
	}
	return out, nil
}
