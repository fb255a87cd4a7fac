// Package config handles configuration loading and validation for eventdate runs.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"eventdate/internal/audit"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidJSON     ConfigErrorType = "INVALID_JSON"
	InvalidYAML     ConfigErrorType = "INVALID_YAML"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidJSON:
		return fmt.Sprintf("invalid JSON in configuration file: %s", e.Message)
	case InvalidYAML:
		return fmt.Sprintf("invalid YAML in configuration file: %s", e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// Symlink policies for directory scanning.
const (
	SymlinkPolicyFollow = "follow"
	SymlinkPolicySkip   = "skip"
	SymlinkPolicyError  = "error"
)

// DefaultExtensions are the value file extensions scanned when none are configured.
var DefaultExtensions = []string{".txt", ".dat"}

// WatchSettings holds watch mode settings.
type WatchSettings struct {
	DebounceSeconds   int      `json:"debounceSeconds" yaml:"debounceSeconds"`
	StableThresholdMs int      `json:"stableThresholdMs" yaml:"stableThresholdMs"`
	IgnorePatterns    []string `json:"ignorePatterns,omitempty" yaml:"ignorePatterns,omitempty"`
}

// Configuration holds all settings for a run.
type Configuration struct {
	InputDirectories []string           `json:"inputDirectories" yaml:"inputDirectories"`
	Extensions       []string           `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Measures         []string           `json:"measures,omitempty" yaml:"measures,omitempty"`
	ScanDepth        *int               `json:"scanDepth,omitempty" yaml:"scanDepth,omitempty"`
	SymlinkPolicy    string             `json:"symlinkPolicy,omitempty" yaml:"symlinkPolicy,omitempty"`
	Watch            *WatchSettings     `json:"watch,omitempty" yaml:"watch,omitempty"`
	Audit            *audit.AuditConfig `json:"audit,omitempty" yaml:"audit,omitempty"`
}

// Validate checks that the configuration has all required fields.
func (c *Configuration) Validate() error {
	if len(c.InputDirectories) == 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: "inputDirectories must contain at least one directory",
		}
	}

	for i, dir := range c.InputDirectories {
		if strings.TrimSpace(dir) == "" {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("inputDirectories[%d] cannot be empty", i),
			}
		}
	}

	for i, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("extensions[%d] must start with a dot: %q", i, ext),
			}
		}
	}

	return nil
}

// ApplyDefaults fills in defaults for every optional setting left unset.
func (c *Configuration) ApplyDefaults() {
	if len(c.Extensions) == 0 {
		c.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if c.SymlinkPolicy == "" {
		c.SymlinkPolicy = SymlinkPolicySkip
	}
	c.applyWatchDefaults()
	c.ApplyAuditDefaults()
}

func (c *Configuration) applyWatchDefaults() {
	if c.Watch == nil {
		c.Watch = &WatchSettings{}
	}
	if c.Watch.DebounceSeconds == 0 {
		c.Watch.DebounceSeconds = 2
	}
	if c.Watch.StableThresholdMs == 0 {
		c.Watch.StableThresholdMs = 1000
	}
	// Nil IgnorePatterns falls back to the watcher's temp-file patterns.
}

// ApplyAuditDefaults ensures the Audit configuration has sensible defaults.
// If Audit is nil, it creates a new AuditConfig with defaults.
// If Audit exists but has zero values, it applies defaults for those fields.
func (c *Configuration) ApplyAuditDefaults() {
	defaults := audit.DefaultAuditConfig()

	if c.Audit == nil {
		c.Audit = &defaults
		return
	}

	if c.Audit.LogDirectory == "" {
		c.Audit.LogDirectory = defaults.LogDirectory
	}
	if c.Audit.RotationSize == 0 {
		c.Audit.RotationSize = defaults.RotationSize
	}
	// RotationPeriod can be empty (no time-based rotation)
	// RetentionDays 0 means unlimited, so we don't override
}

// GetScanDepth returns the configured scan depth, or 0 (input directory only)
// when unset.
func (c *Configuration) GetScanDepth() int {
	if c.ScanDepth == nil {
		return 0
	}
	return *c.ScanDepth
}

// HasInputDirectory checks if a directory already exists in inputDirectories.
func (c *Configuration) HasInputDirectory(dir string) bool {
	for _, d := range c.InputDirectories {
		if d == dir {
			return true
		}
	}
	return false
}

// AddInputDirectory adds a directory if it doesn't already exist.
// Returns true if the directory was added, false if it was a duplicate.
func (c *Configuration) AddInputDirectory(dir string) bool {
	if c.HasInputDirectory(dir) {
		return false
	}
	c.InputDirectories = append(c.InputDirectories, dir)
	return true
}

// isYAML reports whether the path names a YAML file.
func isYAML(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// decode parses data as YAML or JSON depending on the file extension.
func decode(filePath string, data []byte) (*Configuration, error) {
	var config Configuration
	if isYAML(filePath) {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, &ConfigError{
				Type:    InvalidYAML,
				Path:    filePath,
				Message: err.Error(),
			}
		}
		return &config, nil
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return nil, &ConfigError{
			Type:    InvalidJSON,
			Path:    filePath,
			Message: err.Error(),
		}
	}
	return &config, nil
}

// Load reads and parses a configuration file from the given path.
// Files ending in .yaml or .yml are parsed as YAML, anything else as JSON.
func Load(filePath string) (*Configuration, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{
				Type: FileNotFound,
				Path: filePath,
			}
		}
		return nil, &ConfigError{
			Type:    FileNotFound,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	config, err := decode(filePath, data)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.ApplyDefaults()

	return config, nil
}

// LoadOrCreate loads config if it exists, or returns an empty config if the file doesn't exist.
func LoadOrCreate(filePath string) (*Configuration, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := &Configuration{InputDirectories: []string{}}
			config.ApplyDefaults()
			return config, nil
		}
		return nil, &ConfigError{
			Type:    FileNotFound,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	config, err := decode(filePath, data)
	if err != nil {
		return nil, err
	}

	config.ApplyDefaults()

	return config, nil
}

// Save serializes and writes a configuration to the given path, as YAML or
// JSON depending on the file extension.
func Save(config *Configuration, filePath string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(filePath) {
		data, err = yaml.Marshal(config)
		if err != nil {
			return &ConfigError{
				Type:    InvalidYAML,
				Message: err.Error(),
			}
		}
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
		if err != nil {
			return &ConfigError{
				Type:    InvalidJSON,
				Message: err.Error(),
			}
		}
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("failed to write configuration file: %s", err.Error()),
		}
	}

	return nil
}
