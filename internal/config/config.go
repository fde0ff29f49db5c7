// Package config loads the per-project tracker configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/mod/semver"
)

// FileName is the project config file inside the .quill directory.
const FileName = "config.json"

// prefixPattern is the required shape of an issue id prefix.
var prefixPattern = regexp.MustCompile(`^[A-Z]{4}$`)

// Config is the project configuration stored in .quill/config.json.
type Config struct {
	// Prefix is the 4-letter uppercase id prefix for issues created in
	// this project (e.g. "QUIL" → "QUIL-x4k9az").
	Prefix string `json:"prefix"`
	// Version is the config format version, e.g. "1.0.0".
	Version string `json:"version"`
}

// CurrentVersion is written by Init and accepted by Load.
const CurrentVersion = "1.0.0"

// Validate checks the config field values.
func (c *Config) Validate() error {
	if !prefixPattern.MatchString(c.Prefix) {
		return fmt.Errorf("prefix must be 4 uppercase letters (got %q)", c.Prefix)
	}
	if !semver.IsValid("v" + c.Version) {
		return fmt.Errorf("version must be a semantic version (got %q)", c.Version)
	}
	return nil
}

// Load reads and validates the config next to the given event log path.
func Load(logPath string) (*Config, error) {
	path := filepath.Join(filepath.Dir(logPath), FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	// Configs written by a newer major version are not safe to interpret.
	if semver.Major("v"+cfg.Version) != semver.Major("v"+CurrentVersion) {
		return nil, fmt.Errorf("config version %s is not compatible with %s", cfg.Version, CurrentVersion)
	}
	return &cfg, nil
}

// Write stores the config next to the given event log path.
func Write(logPath string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	path := filepath.Join(filepath.Dir(logPath), FileName)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
