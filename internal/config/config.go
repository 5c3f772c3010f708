package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/sweep"
)

const (
	DefaultRows  = 20
	DefaultCols  = 20
	DefaultSteps = 100000
	DefaultMaxTc = 4.0
	DefaultTStep = 0.005
)

type Config struct {
	Rows      int          `yaml:"rows"`
	Cols      int          `yaml:"cols"`
	Sampler   string       `yaml:"sampler"`
	Topology  string       `yaml:"topology"`
	Steps     int          `yaml:"steps"`
	MaxTc     float64      `yaml:"max_tc"`
	TStep     float64      `yaml:"t_step"`
	Seed      int64        `yaml:"seed"`
	FixedSeed bool         `yaml:"fixed_seed"`
	Workers   int          `yaml:"workers"`
	Params    ising.Params `yaml:"params"`
}

func DefaultConfig() *Config {
	return &Config{
		Rows:     DefaultRows,
		Cols:     DefaultCols,
		Sampler:  sweep.SamplerMetropolis,
		Topology: "square",
		Steps:    DefaultSteps,
		MaxTc:    DefaultMaxTc,
		TStep:    DefaultTStep,
		Params:   ising.DefaultParams(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SweepConfig translates the file representation into the sweep driver's
// configuration.
func (c *Config) SweepConfig() sweep.Config {
	return sweep.Config{
		Rows:      c.Rows,
		Cols:      c.Cols,
		Sampler:   c.Sampler,
		Topology:  c.Topology,
		Steps:     c.Steps,
		MaxTc:     c.MaxTc,
		TStep:     c.TStep,
		Seed:      c.Seed,
		FixedSeed: c.FixedSeed,
		Workers:   c.Workers,
		Params:    c.Params,
	}
}
