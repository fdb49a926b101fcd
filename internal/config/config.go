// Package config loads eolfix configuration from YAML files and applies the
// flag-over-file-over-default precedence rule. The merged snapshot is
// immutable after construction and shared read-only by every part of the
// pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the working directory
// when --config is not given.
const DefaultFileName = ".eolfix.yaml"

// Config represents eolfix configuration options.
type Config struct {
	// MaxConcurrency is the maximum number of concurrent inspector workers
	// (0 = number of CPUs)
	MaxConcurrency int `yaml:"max_concurrency"`

	// LogDir is the directory where run logs are written ("" disables them)
	LogDir string `yaml:"log_dir"`

	// Newline selects the terminator appended to files: auto, lf, or crlf
	Newline string `yaml:"newline"`

	// NoColor disables colored terminal output
	NoColor bool `yaml:"no_color"`

	// Hidden includes hidden files and directories in the scan
	Hidden bool `yaml:"hidden"`

	// NoIgnore disables .gitignore handling
	NoIgnore bool `yaml:"no_ignore"`

	// List renders every matched file, not only modified and errored ones
	List bool `yaml:"list"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrency: 0, // number of CPUs
		LogDir:         "",
		Newline:        "auto",
		NoColor:        false,
		Hidden:         false,
		NoIgnore:       false,
		List:           false,
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Merge with defaults. For booleans, a key's presence in the raw
	// document distinguishes "explicitly false" from "absent".
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if fileCfg.MaxConcurrency != 0 {
		cfg.MaxConcurrency = fileCfg.MaxConcurrency
	}
	if fileCfg.LogDir != "" {
		cfg.LogDir = fileCfg.LogDir
	}
	if fileCfg.Newline != "" {
		cfg.Newline = fileCfg.Newline
	}
	if _, exists := raw["no_color"]; exists {
		cfg.NoColor = fileCfg.NoColor
	}
	if _, exists := raw["hidden"]; exists {
		cfg.Hidden = fileCfg.Hidden
	}
	if _, exists := raw["no_ignore"]; exists {
		cfg.NoIgnore = fileCfg.NoIgnore
	}
	if _, exists := raw["list"]; exists {
		cfg.List = fileCfg.List
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .eolfix.yaml in the specified
// directory. If the file doesn't exist, returns default configuration
// without error.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, DefaultFileName))
}
