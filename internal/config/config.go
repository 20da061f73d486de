// Package config provides persistent configuration for ramadan-dashboard.
//
// Configuration is stored as JSON at ~/.config/ramadan-dashboard/config.json
// (XDG-compliant). The merge priority is: CLI flags > config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/prayer"
)

const (
	configDirName  = "ramadan-dashboard"
	configFileName = "config.json"
)

// Bounds for tick_interval.
const (
	MinTickInterval = 10 * time.Millisecond
	MaxTickInterval = 10 * time.Second
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"city", "country",
	"method", "school",
	"time_format",
	"events",
	"data_dir",
	"tick_interval",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or auto-detect).
type Config struct {
	City         string `json:"city,omitempty"`
	Country      string `json:"country,omitempty"`
	Method       *int   `json:"method,omitempty"`      // pointer so we can distinguish "not set" from 0
	School       *int   `json:"school,omitempty"`      // pointer so we can distinguish "not set" from 0
	TimeFormat   string `json:"time_format,omitempty"` // "12h" or "24h"
	Events       string `json:"events,omitempty"`      // comma-separated event names
	DataDir      string `json:"data_dir,omitempty"`
	TickInterval string `json:"tick_interval,omitempty"` // Go duration, e.g. "100ms"
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	method := -1
	school := -1
	return Config{
		Method:       &method,
		School:       &school,
		TimeFormat:   "24h",
		TickInterval: "100ms",
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
// If the file exists but is invalid JSON, it returns an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "city":
		c.City = value
	case "country":
		c.Country = value
	case "method":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid method %q: must be an integer", value)
		}
		if v < 0 || v > 23 {
			return fmt.Errorf("invalid method %q: must be between 0 and 23", value)
		}
		c.Method = &v
	case "school":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid school %q: must be an integer", value)
		}
		if v != 0 && v != 1 {
			return fmt.Errorf("invalid school %q: must be 0 (Shafi) or 1 (Hanafi)", value)
		}
		c.School = &v
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "events":
		if _, err := ParseEvents(value); err != nil {
			return err
		}
		c.Events = value
	case "data_dir":
		c.DataDir = value
	case "tick_interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid tick_interval %q: must be a duration like \"100ms\"", value)
		}
		if d < MinTickInterval || d > MaxTickInterval {
			return fmt.Errorf("invalid tick_interval %q: must be between %s and %s", value, MinTickInterval, MaxTickInterval)
		}
		c.TickInterval = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "city":
		return c.City, nil
	case "country":
		return c.Country, nil
	case "method":
		if c.Method == nil {
			return "", nil
		}
		return strconv.Itoa(*c.Method), nil
	case "school":
		if c.School == nil {
			return "", nil
		}
		return strconv.Itoa(*c.School), nil
	case "time_format":
		return c.TimeFormat, nil
	case "events":
		return c.Events, nil
	case "data_dir":
		return c.DataDir, nil
	case "tick_interval":
		return c.TickInterval, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// ParseEvents splits a comma-separated list of event names. An empty list
// yields nil.
func ParseEvents(value string) ([]prayer.Event, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	var out []prayer.Event
	for _, n := range strings.Split(value, ",") {
		n = strings.TrimSpace(n)
		if !isValidEventName(n) {
			return nil, fmt.Errorf("invalid event name %q in events list", n)
		}
		out = append(out, prayer.Event(n))
	}
	return out, nil
}

func isValidEventName(name string) bool {
	for _, e := range prayer.DisplayOrder {
		if string(e) == name {
			return true
		}
	}
	return false
}

// EventList returns the configured events, or nil when unset or invalid.
func (c *Config) EventList() []prayer.Event {
	events, err := ParseEvents(c.Events)
	if err != nil {
		return nil
	}
	return events
}

// MethodOrDefault returns the method value, falling back to the given default.
func (c *Config) MethodOrDefault(def int) int {
	if c.Method != nil {
		return *c.Method
	}
	return def
}

// SchoolOrDefault returns the school value, falling back to the given default.
func (c *Config) SchoolOrDefault(def int) int {
	if c.School != nil {
		return *c.School
	}
	return def
}

// TickIntervalOrDefault parses tick_interval, falling back to def when it
// is unset or out of range.
func (c *Config) TickIntervalOrDefault(def time.Duration) time.Duration {
	if c.TickInterval == "" {
		return def
	}
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil || d < MinTickInterval || d > MaxTickInterval {
		return def
	}
	return d
}

// GoTimeLayout maps time_format to a Go time layout.
func (c *Config) GoTimeLayout() string {
	if c.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}
