package epidemic

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

// DetectorKind selects the proximity detector implementation.
type DetectorKind string

const (
	DetectorBruteForce DetectorKind = "brute"
	DetectorGrid       DetectorKind = "grid"
	DetectorParallel   DetectorKind = "parallel"
)

// Config holds every parameter of a run. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// Supplied by the parameter form
	Population      int     `json:"population" yaml:"population"`
	InitialInfected int     `json:"initial_infected" yaml:"initial_infected"`
	RecoveryDays    float64 `json:"recovery_days" yaml:"recovery_days"`

	// Engine constants
	InfectionRadius float64 `json:"infection_radius" yaml:"infection_radius"`
	InfectionProb   float64 `json:"infection_prob" yaml:"infection_prob"`
	MoveSpeed       float64 `json:"move_speed" yaml:"move_speed"`
	TicksPerDay     int     `json:"ticks_per_day" yaml:"ticks_per_day"`
	TotalDays       int     `json:"total_days" yaml:"total_days"`
	Seed            uint64  `json:"seed" yaml:"seed"`

	StopWhenExtinct bool         `json:"stop_when_extinct" yaml:"stop_when_extinct"`
	Detector        DetectorKind `json:"detector" yaml:"detector"`
	Workers         int          `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// DefaultConfig returns the reference parameters: 300 people, 8 initially
// infected, 14 recovery days, 15 ticks per day for 120 days.
func DefaultConfig() Config {
	return Config{
		Population:      300,
		InitialInfected: 8,
		RecoveryDays:    14,
		InfectionRadius: 0.035,
		InfectionProb:   0.01,
		MoveSpeed:       0.03,
		TicksPerDay:     15,
		TotalDays:       120,
		Seed:            42,
		Detector:        DetectorBruteForce,
	}
}

// RecoveryTicks converts the recovery duration to ticks, truncating toward zero.
func (c Config) RecoveryTicks() int {
	return int(c.RecoveryDays * float64(c.TicksPerDay))
}

// TotalTicks is the number of ticks the scheduler will execute.
func (c Config) TotalTicks() int {
	return c.TotalDays * c.TicksPerDay
}

// Validate checks ranges and returns a *ConfigError for the first bad field.
func (c Config) Validate() error {
	switch {
	case c.Population < 1:
		return configError("population", c.Population, "must be at least 1")
	case c.InitialInfected < 0:
		return configError("initial_infected", c.InitialInfected, "must not be negative")
	case c.InitialInfected > c.Population:
		return configError("initial_infected", c.InitialInfected, fmt.Sprintf("exceeds population %d", c.Population))
	case math.IsNaN(c.RecoveryDays) || math.IsInf(c.RecoveryDays, 0) || c.RecoveryDays <= 0:
		return configError("recovery_days", c.RecoveryDays, "must be a finite positive number")
	case math.IsNaN(c.InfectionRadius) || math.IsInf(c.InfectionRadius, 0) || c.InfectionRadius < 0:
		return configError("infection_radius", c.InfectionRadius, "must be a finite non-negative number")
	case math.IsNaN(c.InfectionProb) || c.InfectionProb < 0 || c.InfectionProb > 1:
		return configError("infection_prob", c.InfectionProb, "must be within [0, 1]")
	case math.IsNaN(c.MoveSpeed) || math.IsInf(c.MoveSpeed, 0) || c.MoveSpeed < 0:
		return configError("move_speed", c.MoveSpeed, "must be a finite non-negative number")
	case c.TicksPerDay < 1:
		return configError("ticks_per_day", c.TicksPerDay, "must be at least 1")
	case c.TotalDays < 0:
		return configError("total_days", c.TotalDays, "must not be negative")
	case c.Workers < 0:
		return configError("workers", c.Workers, "must not be negative")
	}

	// both products must fit an int tick counter
	if c.RecoveryDays*float64(c.TicksPerDay) >= math.MaxInt {
		return configError("recovery_days", c.RecoveryDays, fmt.Sprintf("exceeds the tick range at %d ticks per day", c.TicksPerDay))
	}
	if c.TotalDays > math.MaxInt/c.TicksPerDay {
		return configError("total_days", c.TotalDays, fmt.Sprintf("exceeds the tick range at %d ticks per day", c.TicksPerDay))
	}

	switch c.Detector {
	case "", DetectorBruteForce, DetectorGrid, DetectorParallel:
	default:
		return configError("detector", c.Detector, "must be one of brute, grid, parallel")
	}

	return nil
}

// LoadConfig decodes YAML on top of DefaultConfig. Unknown keys are rejected
// and the result is validated.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// YAML renders the configuration in the same form LoadConfig accepts.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
