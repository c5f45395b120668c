// Package config provides layered configuration for TraceForge.
// Priority: defaults < user file (~/.traceforge.yaml) < project file
// (.traceforge.yaml).
package config

import (
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	tferrors "github.com/traceforge/traceforge/pkg/errors"
)

// Preset is a named dataset size: case count and time-span window.
type Preset struct {
	Cases int     `yaml:"cases"`
	Hours float64 `yaml:"hours"`
}

// OutputConfig controls where logs are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// Config holds all TraceForge configuration.
type Config struct {
	Version int `yaml:"version"`

	// Seed for the master pseudorandom stream. Zero means derive a seed
	// from the wall clock at run time.
	Seed int64 `yaml:"seed"`

	// Workers bounds concurrent case generation. Zero means sequential.
	Workers int `yaml:"workers"`

	Output  OutputConfig      `yaml:"output"`
	Presets map[string]Preset `yaml:"presets"`
}

// Default returns the default configuration with the three standard
// size presets.
func Default() *Config {
	return &Config{
		Version: 1,
		Output: OutputConfig{
			Dir:    ".",
			Prefix: "system_call_log",
		},
		Presets: map[string]Preset{
			"small":  {Cases: 500, Hours: 12},
			"medium": {Cases: 2000, Hours: 18},
			"large":  {Cases: 5000, Hours: 24},
		},
	}
}

// Load merges configuration from all sources in priority order.
func Load() (*Config, error) {
	cfg := Default()

	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".traceforge.yaml"))
	}
	paths = append(paths, ".traceforge.yaml")

	for _, path := range paths {
		if err := mergeFile(cfg, path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return tferrors.Wrap(err, tferrors.CodeConfigInvalid, "read config").
			WithContext("path", path)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return tferrors.Wrap(err, tferrors.CodeConfigInvalid, "parse config").
			WithContext("path", path)
	}

	if file.Seed != 0 {
		cfg.Seed = file.Seed
	}
	if file.Workers != 0 {
		cfg.Workers = file.Workers
	}
	if file.Output.Dir != "" {
		cfg.Output.Dir = file.Output.Dir
	}
	if file.Output.Prefix != "" {
		cfg.Output.Prefix = file.Output.Prefix
	}
	for name, preset := range file.Presets {
		if preset.Cases <= 0 {
			return tferrors.New(tferrors.CodeConfigInvalid, "preset case count must be positive").
				WithContext("preset", name).
				WithContext("path", path)
		}
		if preset.Hours < 0 {
			return tferrors.New(tferrors.CodeConfigInvalid, "preset hours must be non-negative").
				WithContext("preset", name).
				WithContext("path", path)
		}
		cfg.Presets[name] = preset
	}
	return nil
}

// PresetNames returns the configured preset names, sorted.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
