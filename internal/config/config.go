// Package config holds the plain, validated parameters a lattice.Map is
// constructed with, and an optional YAML loader for embedders that want
// to describe those parameters in a file rather than in code.
package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/HeLiuCMU/gibbsworld/internal/lattice"
)

// WorldConfig is the full set of parameters a Map needs at construction
// time. It carries no file- or environment-loading behavior of its own;
// LoadConfigYAML only parses a byte stream the caller already has.
type WorldConfig struct {
	N               uint32 `yaml:"n"`
	GibbsIterations uint32 `yaml:"gibbs_iterations"`
	Seed            uint32 `yaml:"seed"`
}

// Validate checks that n is positive, which the lattice package's NewMap
// otherwise only enforces by panicking, and that n is even, which the
// neighborhood geometry relies on but NewMap does not check. A malformed
// config is thus rejected with an error before it reaches map
// construction.
func (c WorldConfig) Validate() error {
	if c.N == 0 {
		return fmt.Errorf("config: n must be positive")
	}
	if c.N%2 != 0 {
		return fmt.Errorf("config: n must be even, got %d", c.N)
	}
	return nil
}

// Lattice converts the validated config into the lattice package's
// constructor argument.
func (c WorldConfig) Lattice() lattice.Config {
	return lattice.Config{N: c.N, GibbsIterations: c.GibbsIterations, Seed: c.Seed}
}

// LoadConfigYAML parses a WorldConfig from YAML and validates it.
func LoadConfigYAML(r io.Reader) (WorldConfig, error) {
	var cfg WorldConfig
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return WorldConfig{}, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return WorldConfig{}, err
	}
	return cfg, nil
}
