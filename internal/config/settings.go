package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SettingsFileName is the optional tool settings file inside .quill.
const SettingsFileName = "settings.yaml"

// Settings holds tool-level knobs that are not part of the issue data model.
// All fields are optional; zero values fall back to defaults.
type Settings struct {
	// Dashboard is the listen address for `quill serve`.
	Dashboard string `yaml:"dashboard"`
	// WatchDebounce is the minimum interval between dashboard recomputes
	// when the log file is changing rapidly.
	WatchDebounce time.Duration `yaml:"watch_debounce"`
	// Author is the default comment author if not given on the command line.
	Author string `yaml:"author"`
}

// DefaultSettings returns the settings used when no settings.yaml exists.
func DefaultSettings() Settings {
	return Settings{
		Dashboard:     "localhost:7333",
		WatchDebounce: 250 * time.Millisecond,
	}
}

// LoadSettings reads settings.yaml next to the event log. A missing file is
// not an error; defaults are returned.
func LoadSettings(logPath string) (Settings, error) {
	settings := DefaultSettings()
	path := filepath.Join(filepath.Dir(logPath), SettingsFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("reading settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	if settings.Dashboard == "" {
		settings.Dashboard = DefaultSettings().Dashboard
	}
	if settings.WatchDebounce <= 0 {
		settings.WatchDebounce = DefaultSettings().WatchDebounce
	}
	return settings, nil
}
