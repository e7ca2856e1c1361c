// Package config handles loading and saving pizzamaker settings.
package config

import (
	"errors"
	"fmt"

	"github.com/chazu/pizzamaker/internal/logger"
	"github.com/chazu/pizzamaker/pkg/geometry"
)

// Config holds all settings.
type Config struct {
	Pizza   geometry.Params `yaml:"pizza"`
	Preset  string          `yaml:"preset"` // optional preset script applied after Pizza
	Window  WindowConfig    `yaml:"window"`
	Mesh    MeshConfig      `yaml:"mesh"`
	Export  ExportConfig    `yaml:"export"`
	Logging LoggingConfig   `yaml:"logging"`
}

// WindowConfig holds desktop viewer window settings.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// MeshConfig selects the geometry kernel and its tessellation resolution.
type MeshConfig struct {
	Kernel string `yaml:"kernel"` // "sdfx" or "manifold"
	Cells  int    `yaml:"cells"`  // marching cubes cells along the longest side
}

// ExportConfig holds STL export settings for the command-line tool.
type ExportConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Pizza: geometry.DefaultParams(),
		Window: WindowConfig{
			Title:  "Pizza Maker",
			Width:  1024,
			Height: 768,
		},
		Mesh: MeshConfig{
			Kernel: "sdfx",
			Cells:  200,
		},
		Export: ExportConfig{
			Path: "pizza.stl",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
			Compress:   true,
		},
	}
}

// Validate checks the settings a program cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Pizza.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("pizza: %w", err))
	}
	switch c.Mesh.Kernel {
	case "sdfx", "manifold":
	default:
		errs = append(errs, fmt.Errorf("mesh: unknown kernel %q", c.Mesh.Kernel))
	}
	if c.Mesh.Cells < 1 {
		errs = append(errs, fmt.Errorf("mesh: cells must be positive, got %d", c.Mesh.Cells))
	}
	if c.Window.Width < 1 || c.Window.Height < 1 {
		errs = append(errs, fmt.Errorf("window: invalid size %dx%d", c.Window.Width, c.Window.Height))
	}
	return errors.Join(errs...)
}

// FileConfig converts the logging settings for logger.InitWithFileConfig.
// An empty LogFile disables file output.
func (l LoggingConfig) FileConfig() logger.FileConfig {
	return logger.FileConfig{
		Path:       l.LogFile,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}
