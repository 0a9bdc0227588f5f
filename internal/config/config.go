// Package config loads the canvasfx YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/erinpentecost/canvasfx/internal/effects"
	"github.com/erinpentecost/canvasfx/internal/history"
	"github.com/erinpentecost/canvasfx/internal/render"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the whole file. Anything left out keeps its Default value.
type Config struct {
	// Workers bounds the goroutines used per pass and per batch of files.
	// Zero means GOMAXPROCS.
	Workers  int    `yaml:"workers"`
	LogLevel string `yaml:"log_level"`
	// Seed drives grain, particles and atmosphere. Zero picks one from the
	// clock at startup.
	Seed int64 `yaml:"seed"`
	// Profiles lists extra aesthetic profile files to register next to the
	// built-in ones.
	Profiles []string       `yaml:"profiles"`
	Render   render.Config  `yaml:"render"`
	Effects  []effects.Spec `yaml:"effects"`
	// Quality is the JPEG quality in [0,1].
	Quality float64 `yaml:"quality"`
	History int     `yaml:"history"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Render:   render.DefaultConfig(),
		Quality:  0.92,
		History:  history.DefaultCapacity,
	}
}

// Load reads path on top of Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Decode parses a YAML document on top of Default and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative: %w", ErrInvalidConfig)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %v: %w", err, ErrInvalidConfig)
	}
	if c.Quality < 0 || c.Quality > 1 {
		return fmt.Errorf("quality must be in [0, 1], got %g: %w", c.Quality, ErrInvalidConfig)
	}
	if c.History < 0 {
		return fmt.Errorf("history must not be negative: %w", ErrInvalidConfig)
	}
	if _, err := effects.Effects(c.Effects); err != nil {
		return fmt.Errorf("effects: %w", err)
	}
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Level is the parsed log level. Validate has already rejected bad names.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
