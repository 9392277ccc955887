package octree

import (
	"runtime"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// MaxLevel is the deepest level a cell can be recorded at; levels are
// stored as uint8.
const MaxLevel = 255

// Config controls tree construction.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Ncrit is the split threshold: the largest number of bodies a twig
	// cell may hold before it is divided into octants. Ncrit == 1 gives one
	// body per leaf slot; larger values give shallower trees with short
	// leaf runs at the bottom. Must be >= 1. Default: 1.
	Ncrit int `yaml:"ncrit"`

	// MaxDepth bounds the level of any cell. Exceeding it aborts the build
	// with ErrMaxDepthExceeded. Must be in [1, MaxLevel]. Default: 100.
	MaxDepth int `yaml:"max_depth"`

	// Center fixes the root cell center. When nil the center is the mean
	// body position rounded to the nearest integer grid point, which keeps
	// the root stable across rebuilds with a slowly drifting mean.
	Center *r3.Vector `yaml:"center,omitempty"`

	// Bounds, when set, is taken as the extent of the bodies instead of
	// the scanned minimum and maximum. It sizes the root cell, so a root
	// can be kept the same across builds. A body outside Bounds fails the
	// build with ErrOutsideBounds.
	Bounds *Bounds `yaml:"bounds,omitempty"`

	// Flags selects which bodies enter the tree: a body is used if any of
	// these bits is set in its flag word. 0 selects every body, as does a
	// source without flags. Default: 0.
	Flags Flag `yaml:"flags"`

	// Workers controls the number of goroutines used by Reuse to refresh
	// leaf positions. Building itself is single-threaded.
	// 0 means use runtime.NumCPU(). Default: 0 (auto).
	Workers int `yaml:"workers"`

	// Logger receives warnings (empty trees) and debug phase timings.
	// Default: a no-op logger.
	Logger *zap.Logger `yaml:"-"`

	// Metrics, when set, records build timings, tree sizes and warnings.
	Metrics *Metrics `yaml:"-"`
}

// Bounds is an axis-aligned box, corners included.
type Bounds struct {
	Min r3.Vector `yaml:"min"`
	Max r3.Vector `yaml:"max"`
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Ncrit:    1,
		MaxDepth: 100,
	}
}

// LoadConfig decodes a YAML parameter block into a Config, filling in
// defaults for absent fields and validating the result.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "octree: decoding config")
	}
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.Ncrit < 1 {
		return errors.Wrapf(ErrInvalidConfig, "Ncrit must be >= 1, got %d", cfg.Ncrit)
	}
	if cfg.MaxDepth < 1 || cfg.MaxDepth > MaxLevel {
		return errors.Wrapf(ErrInvalidConfig, "MaxDepth must be in [1, %d], got %d", MaxLevel, cfg.MaxDepth)
	}
	if cfg.Workers < 0 {
		return errors.Wrapf(ErrInvalidConfig, "Workers must be >= 0, got %d", cfg.Workers)
	}
	if c := cfg.Center; c != nil && !finite(*c) {
		return errors.Wrapf(ErrInvalidConfig, "Center must be finite, got %v", *c)
	}
	if b := cfg.Bounds; b != nil {
		if !finite(b.Min) || !finite(b.Max) {
			return errors.Wrapf(ErrInvalidConfig, "Bounds must be finite, got %v", *b)
		}
		if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z {
			return errors.Wrapf(ErrInvalidConfig, "Bounds.Min must not exceed Bounds.Max, got %v", *b)
		}
	}
	return nil
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Ncrit == 0 {
		cfg.Ncrit = 1
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = 100
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
}
