//Package config loads the simulation settings from YAML.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"evosim/src/simulation"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

//Config holds all run parameters.
type Config struct {
	Board      BoardConfig      `yaml:"board"`
	Population PopulationConfig `yaml:"population"`
	Dynamics   DynamicsConfig   `yaml:"dynamics"`
	Run        RunConfig        `yaml:"run"`
	Log        LogConfig        `yaml:"log"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

//BoardConfig holds the grid dimensions.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

//PopulationConfig holds the parameters used when the board is populated.
type PopulationConfig struct {
	Count      int `yaml:"count"`
	GenomeSize int `yaml:"genome_size"`
}

//DynamicsConfig holds the per-tick probabilities.
type DynamicsConfig struct {
	MutationRate float64 `yaml:"mutation_rate"`
	MoveRate     float64 `yaml:"move_rate"`
}

//RunConfig holds the engine schedule.
type RunConfig struct {
	Seed            int64         `yaml:"seed"`
	Interval        time.Duration `yaml:"interval"`
	MaxSteps        int           `yaml:"max_steps"`
	MaxSkippedTicks int           `yaml:"max_skipped_ticks"`
}

//LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

//TelemetryConfig holds telemetry output settings.
type TelemetryConfig struct {
	OutputDir string `yaml:"output_dir"`
}

//Default returns the embedded defaults.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

//Load loads configuration from a YAML file, merging with embedded defaults.
//If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		//only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

//Validate checks ranges that the simulation cannot recover from.
func (c *Config) Validate() error {
	if c.Board.Width < 0 || c.Board.Height < 0 {
		return fmt.Errorf("%w: board %v x %v", ErrInvalid, c.Board.Width, c.Board.Height)
	}
	if err := c.SimulationOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if capacity := c.Board.Width * c.Board.Height; c.Population.Count > capacity {
		return fmt.Errorf("%w: population %v exceeds %v tiles", ErrInvalid, c.Population.Count, capacity)
	}
	if c.Run.Interval < 0 || c.Run.MaxSteps < 0 || c.Run.MaxSkippedTicks < 0 {
		return fmt.Errorf("%w: negative run settings", ErrInvalid)
	}
	return nil
}

//SimulationOptions maps the config onto simulation options.
func (c *Config) SimulationOptions() simulation.Options {
	return simulation.Options{
		Population:   c.Population.Count,
		GenomeSize:   c.Population.GenomeSize,
		MutationRate: c.Dynamics.MutationRate,
		MoveRate:     c.Dynamics.MoveRate,
	}
}

//WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
