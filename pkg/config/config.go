package config

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sdejongh/stall/pkg/models"
	"github.com/sdejongh/stall/pkg/ratelimit"
)

// Config represents the application configuration
type Config struct {
	Stall       StallConfig       `yaml:"stall"`
	Compare     CompareConfig     `yaml:"compare"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// StallConfig holds stall-related settings
type StallConfig struct {
	File            string            `yaml:"file"`             // Store file name inside the stall directory
	CopyMethod      models.CopyMethod `yaml:"copy_method"`      // "internal" or "subprocess"
	PromoteWarnings bool              `yaml:"promote_warnings"` // Treat warnings as errors
	ShortNames      bool              `yaml:"short_names"`      // Print file names without directories
}

// CompareConfig holds comparison settings
type CompareConfig struct {
	MtimeTolerance time.Duration `yaml:"mtime_tolerance"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	BufferSize     string `yaml:"buffer_size"`     // Copy buffer, e.g. "64KiB"
	BandwidthLimit string `yaml:"bandwidth_limit"` // e.g. "10MB", empty = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Color    string `yaml:"color"`    // "auto", "always" or "never"
	Progress bool   `yaml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // Log file path (empty = console only)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Stall: StallConfig{
			File:       ".stall",
			CopyMethod: models.CopyInternal,
		},
		Compare: CompareConfig{
			MtimeTolerance: 0,
		},
		Performance: PerformanceConfig{
			BufferSize:     "64KiB",
			BandwidthLimit: "",
		},
		Output: OutputConfig{
			Format:   "human",
			Color:    "auto",
			Progress: false,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Format:  "text",
			Level:   "info",
			File:    "",
		},
	}
}

// BufferBytes returns the parsed copy buffer size
func (c *Config) BufferBytes() (int, error) {
	n, err := humanize.ParseBytes(c.Performance.BufferSize)
	if err != nil {
		return 0, &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: err.Error(),
		}
	}
	return int(n), nil
}

// BandwidthBytes returns the parsed bandwidth limit, 0 meaning unlimited
func (c *Config) BandwidthBytes() (int64, error) {
	n, err := ratelimit.ParseBandwidth(c.Performance.BandwidthLimit)
	if err != nil {
		return 0, &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: err.Error(),
		}
	}
	return n, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Stall.File == "" {
		return &models.ValidationError{
			Field:   "stall.file",
			Message: "must not be empty",
		}
	}

	switch c.Stall.CopyMethod {
	case models.CopyInternal, models.CopySubprocess:
	default:
		return &models.ValidationError{
			Field:   "stall.copy_method",
			Message: "must be 'internal' or 'subprocess'",
		}
	}

	if c.Compare.MtimeTolerance < 0 {
		return &models.ValidationError{
			Field:   "compare.mtime_tolerance",
			Message: "must not be negative",
		}
	}

	size, err := c.BufferBytes()
	if err != nil {
		return err
	}
	if size < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if _, err := c.BandwidthBytes(); err != nil {
		return err
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[c.Output.Color] {
		return &models.ValidationError{
			Field:   "output.color",
			Message: "must be 'auto', 'always', or 'never'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
