// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for lintara.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.lintara/config.toml
//   - ~/.lintara/config.json
//   - Built-in defaults
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/lintara-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete lintara configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// API is the analysis service connection.
	API APIConfig `toml:"api" json:"api"`

	// Poll controls background refresh of unsettled analyses.
	Poll PollConfig `toml:"poll" json:"poll"`

	// Cache is the offline copy of the last fetched list.
	Cache CacheConfig `toml:"cache" json:"cache"`

	UI  UIConfig  `toml:"ui" json:"ui"`
	Log LogConfig `toml:"log" json:"log"`
}

// APIConfig contains analysis service settings.
type APIConfig struct {
	// BaseURL is the service root, e.g. http://localhost:8000
	BaseURL string `toml:"base_url" json:"base_url"`
	// Token overrides the stored session token. Normally only set from
	// LINTARA_TOKEN; login stores its token in the session file instead.
	Token string `toml:"token,omitempty" json:"token,omitempty"`
	// TimeoutSecs bounds every request.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// PageSize is the "limit" sent when listing analyses.
	PageSize int `toml:"page_size" json:"page_size"`
	// RatePerSec paces outgoing requests. 0 disables pacing.
	RatePerSec float64 `toml:"rate_per_sec" json:"rate_per_sec"`
	// Offline serves lists from the cache and never touches the network.
	Offline bool `toml:"offline" json:"offline"`
}

// PollConfig contains refresh settings.
type PollConfig struct {
	IntervalSecs int `toml:"interval_secs" json:"interval_secs"`
}

// CacheConfig contains offline cache settings.
type CacheConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the sqlite file. Empty means ~/.lintara/cache.db
	Path string `toml:"path" json:"path"`
}

// UIConfig contains user interface settings.
type UIConfig struct {
	// Theme is "dark", "light" or "auto"
	Theme    string `toml:"theme" json:"theme"`
	WordWrap bool   `toml:"word_wrap" json:"word_wrap"`
	// ShowCode shows the submitted source next to the analysis.
	ShowCode bool `toml:"show_code" json:"show_code"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	// Path is the log file. Empty disables logging.
	Path string `toml:"path" json:"path"`
	JSON bool   `toml:"json" json:"json"`
}

// Timeout returns the request timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// Interval returns the poll interval as a duration.
func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalSecs) * time.Second
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	logPath := ""
	cachePath := ""
	if dir, err := ConfigDir(); err == nil {
		logPath = filepath.Join(dir, "lintara.log")
		cachePath = filepath.Join(dir, "cache.db")
	}

	return &Config{
		Version: "1",
		API: APIConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 30,
			PageSize:    10,
			RatePerSec:  5,
		},
		Poll: PollConfig{
			IntervalSecs: 5,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    cachePath,
		},
		UI: UIConfig{
			Theme:    "auto",
			WordWrap: true,
			ShowCode: true,
		},
		Log: LogConfig{
			Level: "info",
			Path:  logPath,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the lintara configuration directory path.
// LINTARA_HOME overrides the default of ~/.lintara.
func ConfigDir() (string, error) {
	if dir := os.Getenv("LINTARA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".lintara"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ensureSecurePermissions tightens config files to 0600. They may hold a token.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	var loadErr error

	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		cfg, err := LoadFromPath(path)
		if err != nil {
			loadErr = err
			continue
		}
		return cfg, nil
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file with full validation.
// Fields absent from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes cfg atomically with 0600 permissions. An environment token
// is never persisted.
func SaveTOML(cfg *Config, path string) error {
	out := cfg.Clone()
	if os.Getenv("LINTARA_TOKEN") != "" && out.API.Token == os.Getenv("LINTARA_TOKEN") {
		out.API.Token = ""
	}

	var buf bytes.Buffer
	buf.WriteString("# lintara configuration file\n")
	buf.WriteString("# Generated by lintara - edit with care\n\n")
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// API
	if u, err := url.Parse(c.API.BaseURL); err != nil {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: fmt.Sprintf("invalid URL: %v", err)})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: fmt.Sprintf("scheme must be http or https, got %q", u.Scheme)})
	} else if u.Host == "" {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: "missing host"})
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be 1-600, got %d", c.API.TimeoutSecs),
		})
	}
	if c.API.PageSize < 1 || c.API.PageSize > 1000 {
		errs = append(errs, ValidationError{
			Field:   "api.page_size",
			Message: fmt.Sprintf("must be 1-1000, got %d", c.API.PageSize),
		})
	}
	if c.API.RatePerSec < 0 {
		errs = append(errs, ValidationError{Field: "api.rate_per_sec", Message: "must be non-negative"})
	}

	// Poll
	if c.Poll.IntervalSecs < 1 || c.Poll.IntervalSecs > 3600 {
		errs = append(errs, ValidationError{
			Field:   "poll.interval_secs",
			Message: fmt.Sprintf("must be 1-3600, got %d", c.Poll.IntervalSecs),
		})
	}

	// UI
	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	// Log
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero-valued fields that have no meaningful zero.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.API.PageSize == 0 {
		c.API.PageSize = defaults.API.PageSize
	}
	if c.Poll.IntervalSecs == 0 {
		c.Poll.IntervalSecs = defaults.Poll.IntervalSecs
	}
	if c.Cache.Path == "" {
		c.Cache.Path = defaults.Cache.Path
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - LINTARA_API_URL: overrides api.base_url
//   - LINTARA_TOKEN: overrides the stored session token
//   - LINTARA_POLL_INTERVAL: overrides poll.interval_secs
//   - LINTARA_LOG_LEVEL: overrides log.level
//   - LINTARA_THEME: overrides ui.theme
//   - LINTARA_OFFLINE: set to "1" or "true" to serve from the cache only
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LINTARA_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("LINTARA_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv("LINTARA_POLL_INTERVAL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Poll.IntervalSecs = secs
		} else if d, err := time.ParseDuration(v); err == nil {
			c.Poll.IntervalSecs = int(d / time.Second)
		}
	}
	if v := os.Getenv("LINTARA_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LINTARA_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("LINTARA_OFFLINE"); v != "" {
		c.API.Offline = v == "1" || strings.EqualFold(v, "true")
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "poll.interval_secs").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// fieldByTag finds a struct field by its toml tag name.
func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("toml"), ",")[0]
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"api.base_url",
		"api.token",
		"api.timeout_secs",
		"api.page_size",
		"api.rate_per_sec",
		"api.offline",
		"poll.interval_secs",
		"cache.enabled",
		"cache.path",
		"ui.theme",
		"ui.word_wrap",
		"ui.show_code",
		"log.level",
		"log.path",
		"log.json",
	}
}

// Clone returns a copy of the configuration. Config holds no reference
// types, so a value copy is deep.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as JSON with the token redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.API.Token != "" {
		safe.API.Token = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}
