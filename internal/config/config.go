// Package config holds the run configuration for stubweave. The config is
// constructed once at session start and passed by reference into each
// component's constructor; nothing in the core reads global state.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all stubweave settings.
type Config struct {
	// Extensions lists the source file extensions scanned during
	// directory runs (lower-case, with dot).
	Extensions []string `yaml:"extensions"`

	// OutputSuffix is appended to a source path to derive the output
	// path; the original file is never rewritten in place.
	OutputSuffix string `yaml:"output_suffix"`

	// FallbackEncodings are tried in order when the detected encoding
	// fails to decode a source file.
	FallbackEncodings []string `yaml:"fallback_encodings"`

	// BlanketInsert enables the legacy behavior of inserting every
	// fragment in the table at the top of files that contain no anchors.
	// Off by default; anchor-less files are reported as "no update needed".
	BlanketInsert bool `yaml:"blanket_insert"`

	// Workers is the number of files processed concurrently during a
	// directory run.
	Workers int `yaml:"workers"`

	// Backup controls whether directory runs take a full tree copy of the
	// input before processing.
	Backup bool `yaml:"backup"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		Extensions:        []string{".c"},
		OutputSuffix:      ".stub",
		FallbackEncodings: []string{"utf-8", "gb18030", "gbk", "latin1"},
		Workers:           1,
		Backup:            true,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.OutputSuffix == "" {
		return fmt.Errorf("output_suffix must not be empty")
	}

	if c.Workers < 1 {
		c.Workers = 1
	}

	if len(c.Extensions) == 0 {
		c.Extensions = []string{".c"}
	}

	return nil
}

// ScansExtension reports whether files with the given extension (lower-case,
// with dot) are in scope for directory runs.
func (c *Config) ScansExtension(ext string) bool {
	for _, e := range c.Extensions {
		if e == ext {
			return true
		}
	}

	return false
}
