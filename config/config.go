// SPDX-License-Identifier: MIT

// Package config loads the geosparse YAML configuration and validates it.
//
//	log:
//	  level: info        # debug | info | warn | error
//	  format: text       # text | json
//	assembly:
//	  symmetry: full     # full | lower | upper
//	  strict: false      # fail on writes outside the triangle or pattern
//	  tolerance: 1e-12
//	  drop_tolerance: 1e-3
//	store:
//	  path: ./geosparse.db
//	  in_memory: false
//	trace:
//	  enabled: false
//	metrics:
//	  enabled: false
//
// Missing keys keep their Default values; unknown keys are an error.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/geosparse/logging"
	"github.com/katalvlaran/geosparse/matstore"
	"github.com/katalvlaran/geosparse/sparse"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the root document.
type Config struct {
	Log      Log      `yaml:"log"`
	Assembly Assembly `yaml:"assembly"`
	Store    Store    `yaml:"store"`
	Trace    Toggle   `yaml:"trace"`
	Metrics  Toggle   `yaml:"metrics"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Assembly configures matrices built by the CLI.
type Assembly struct {
	Symmetry      string  `yaml:"symmetry" validate:"oneof=full lower upper"`
	Strict        bool    `yaml:"strict"`
	Tolerance     float64 `yaml:"tolerance" validate:"gte=0"`
	DropTolerance float64 `yaml:"drop_tolerance" validate:"gte=0"`
}

// Store configures the matrix store.
type Store struct {
	Path     string `yaml:"path" validate:"required_unless=InMemory true"`
	InMemory bool   `yaml:"in_memory"`
}

// Toggle is an on/off section.
type Toggle struct {
	Enabled bool `yaml:"enabled"`
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: Log{Level: "info", Format: "text"},
		Assembly: Assembly{
			Symmetry:      sparse.Full.String(),
			Tolerance:     sparse.DefaultTolerance,
			DropTolerance: sparse.DefaultDropTolerance,
		},
		Store: Store{Path: "geosparse.db"},
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML from r over Default and validates the result.
// An empty document yields Default.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// SlogLevel maps Log.Level to a slog level; unknown values map to Info.
func (l Log) SlogLevel() slog.Level {
	lvl, _ := logging.ParseLevel(l.Level)

	return lvl
}

// SymmetryTag parses Assembly.Symmetry.
func (a Assembly) SymmetryTag() (sparse.Symmetry, error) {
	return sparse.ParseSymmetry(a.Symmetry)
}

// SparseOptions turns the section into matrix options using logger l.
func (a Assembly) SparseOptions(l *slog.Logger) []sparse.Option {
	return []sparse.Option{
		sparse.WithLogger(l),
		sparse.WithTolerance(a.Tolerance),
		sparse.WithStrictTriangle(a.Strict),
		sparse.WithStrictPattern(a.Strict),
	}
}

// MatstoreConfig converts the section for matstore.Open.
func (s Store) MatstoreConfig(l *slog.Logger) matstore.Config {
	if s.InMemory {
		cfg := matstore.InMemoryConfig()
		cfg.Logger = l
		return cfg
	}
	cfg := matstore.DefaultConfig(s.Path)
	cfg.Logger = l

	return cfg
}
