// Package config handles converter configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/stlgltf/pkg/gltf"
)

// Config holds all converter settings.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Jobs    []Job         `yaml:"jobs,omitempty"`
}

// OutputConfig holds defaults applied to every conversion.
type OutputConfig struct {
	Format    string `yaml:"format"`          // glb, gltf or auto (by extension)
	Color     string `yaml:"color,omitempty"` // "r,g,b[,a]"; empty means no material
	Generator string `yaml:"generator"`
	Dir       string `yaml:"dir,omitempty"` // output directory for jobs without an output path
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Job is one batch conversion record. Empty fields inherit from Output.
type Job struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output,omitempty"`
	Color  string `yaml:"color,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format:    "auto",
			Color:     "",
			Generator: gltf.DefaultGenerator,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks that format and color strings parse, including per-job
// overrides.
func (c *Config) Validate() error {
	if _, err := gltf.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if c.Output.Color != "" {
		if _, err := gltf.ParseColor(c.Output.Color); err != nil {
			return fmt.Errorf("output.color: %w", err)
		}
	}

	for i, job := range c.Jobs {
		if job.Input == "" {
			return fmt.Errorf("jobs[%d]: input is required", i)
		}
		if _, err := gltf.ParseFormat(job.Format); err != nil {
			return fmt.Errorf("jobs[%d].format: %w", i, err)
		}
		if job.Color != "" {
			if _, err := gltf.ParseColor(job.Color); err != nil {
				return fmt.Errorf("jobs[%d].color: %w", i, err)
			}
		}
	}
	return nil
}
