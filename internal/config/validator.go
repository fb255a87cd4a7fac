package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"eventdate/internal/classifier"
)

// ValidationSeverity represents the severity of a validation issue.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ConfigValidationError represents a single validation issue.
type ConfigValidationError struct {
	Field    string             // Config field with issue (e.g., "inputDirectories[0]")
	Message  string             // Human-readable description
	Severity ValidationSeverity // "error" or "warning"
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors   []ConfigValidationError
	Warnings []ConfigValidationError
	Valid    bool // True if no errors (warnings OK)
}

func (r *ValidationResult) add(issues []ConfigValidationError) {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			r.Errors = append(r.Errors, issue)
		} else {
			r.Warnings = append(r.Warnings, issue)
		}
	}
}

// ValidateConfig checks the configuration for errors and returns all findings.
func ValidateConfig(cfg *Configuration) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ConfigValidationError{},
		Warnings: []ConfigValidationError{},
	}

	result.add(ValidatePaths(cfg))
	result.add(ValidateInputDirectories(cfg))
	result.add(ValidateMeasures(cfg))
	result.add(ValidatePolicies(cfg))

	result.Valid = len(result.Errors) == 0

	return result
}

// ValidatePaths checks that input directories exist and that the audit log
// directory exists or can be created.
func ValidatePaths(cfg *Configuration) []ConfigValidationError {
	var errors []ConfigValidationError

	for i, dir := range cfg.InputDirectories {
		field := formatField("inputDirectories", i)
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				errors = append(errors, ConfigValidationError{
					Field:    field,
					Message:  "directory does not exist: " + dir,
					Severity: SeverityError,
				})
			} else if os.IsPermission(err) {
				errors = append(errors, ConfigValidationError{
					Field:    field,
					Message:  "directory is not accessible: " + dir,
					Severity: SeverityError,
				})
			} else {
				errors = append(errors, ConfigValidationError{
					Field:    field,
					Message:  "error accessing directory: " + err.Error(),
					Severity: SeverityError,
				})
			}
			continue
		}

		if !info.IsDir() {
			errors = append(errors, ConfigValidationError{
				Field:    field,
				Message:  "path is not a directory: " + dir,
				Severity: SeverityError,
			})
		}
	}

	if cfg.Audit != nil && cfg.Audit.LogDirectory != "" {
		if issue := validateCreatableDir("audit.logDirectory", cfg.Audit.LogDirectory); issue != nil {
			errors = append(errors, *issue)
		}
	}

	return errors
}

// validateCreatableDir checks that dir exists as a directory, or that its
// nearest existing ancestor is a writable directory.
func validateCreatableDir(field, dir string) *ConfigValidationError {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return &ConfigValidationError{
				Field:    field,
				Message:  "path exists but is not a directory: " + dir,
				Severity: SeverityError,
			}
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return &ConfigValidationError{
			Field:    field,
			Message:  "error accessing directory: " + err.Error(),
			Severity: SeverityError,
		}
	}

	// MkdirAll creates missing parents, so walk up to the first existing one.
	parent := filepath.Dir(filepath.Clean(dir))
	for {
		parentInfo, parentErr := os.Stat(parent)
		if parentErr == nil {
			if !parentInfo.IsDir() {
				return &ConfigValidationError{
					Field:    field,
					Message:  "parent path is not a directory: " + parent,
					Severity: SeverityError,
				}
			}
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}

	if !isDirectoryWritable(parent) {
		return &ConfigValidationError{
			Field:    field,
			Message:  "parent directory is not writable: " + parent,
			Severity: SeverityError,
		}
	}
	return nil
}

// formatField creates a field reference string for validation errors.
func formatField(name string, index int) string {
	return name + "[" + strconv.Itoa(index) + "]"
}

// isDirectoryWritable checks if a directory is writable by attempting to create a temp file.
func isDirectoryWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".eventdate_write_test*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

// ValidateInputDirectories reports duplicate and nested input directories.
// A nested directory is only a warning: its files are scanned twice when
// scanDepth reaches it.
func ValidateInputDirectories(cfg *Configuration) []ConfigValidationError {
	var errors []ConfigValidationError

	for i := 0; i < len(cfg.InputDirectories); i++ {
		for j := i + 1; j < len(cfg.InputDirectories); j++ {
			dir1 := filepath.Clean(cfg.InputDirectories[i])
			dir2 := filepath.Clean(cfg.InputDirectories[j])

			if dir1 == dir2 {
				errors = append(errors, ConfigValidationError{
					Field:    formatField("inputDirectories", j),
					Message:  "duplicate input directory: \"" + cfg.InputDirectories[j] + "\" repeats index " + strconv.Itoa(i),
					Severity: SeverityError,
				})
			} else if directoriesOverlap(dir1, dir2) {
				errors = append(errors, ConfigValidationError{
					Field:    formatField("inputDirectories", j),
					Message:  "overlapping input directory: \"" + cfg.InputDirectories[j] + "\" overlaps with \"" + cfg.InputDirectories[i] + "\" at index " + strconv.Itoa(i),
					Severity: SeverityWarning,
				})
			}
		}
	}

	return errors
}

// directoriesOverlap checks if two directories overlap (one is parent/ancestor of the other).
func directoriesOverlap(dir1, dir2 string) bool {
	clean1 := filepath.Clean(dir1)
	clean2 := filepath.Clean(dir2)

	if clean1 == clean2 {
		return true
	}

	// dir1 is parent of dir2
	if strings.HasPrefix(clean2, clean1+string(filepath.Separator)) {
		return true
	}

	// dir2 is parent of dir1
	return strings.HasPrefix(clean1, clean2+string(filepath.Separator))
}

// ValidateMeasures checks that every configured measure is known. Repeated
// measures are reported as warnings.
func ValidateMeasures(cfg *Configuration) []ConfigValidationError {
	var errors []ConfigValidationError

	seen := make(map[classifier.Measure]int)
	for i, name := range cfg.Measures {
		measure, err := classifier.ParseMeasure(name)
		if err != nil {
			errors = append(errors, ConfigValidationError{
				Field:    formatField("measures", i),
				Message:  err.Error(),
				Severity: SeverityError,
			})
			continue
		}
		if first, dup := seen[measure]; dup {
			errors = append(errors, ConfigValidationError{
				Field:    formatField("measures", i),
				Message:  "measure \"" + name + "\" repeats index " + strconv.Itoa(first),
				Severity: SeverityWarning,
			})
			continue
		}
		seen[measure] = i
	}

	return errors
}

// ParsedMeasures returns the configured measures, or the classifier defaults when
// none are configured. Unknown names are skipped; ValidateMeasures reports them.
func (c *Configuration) ParsedMeasures() []classifier.Measure {
	var measures []classifier.Measure
	seen := make(map[classifier.Measure]bool)
	for _, name := range c.Measures {
		m, err := classifier.ParseMeasure(name)
		if err != nil || seen[m] {
			continue
		}
		seen[m] = true
		measures = append(measures, m)
	}
	if len(measures) == 0 {
		return classifier.DefaultMeasures
	}
	return measures
}

// ValidatePolicies checks that policy values are valid.
func ValidatePolicies(cfg *Configuration) []ConfigValidationError {
	var errors []ConfigValidationError

	if cfg.SymlinkPolicy != "" {
		validPolicies := map[string]bool{
			SymlinkPolicyFollow: true,
			SymlinkPolicySkip:   true,
			SymlinkPolicyError:  true,
		}
		if !validPolicies[cfg.SymlinkPolicy] {
			errors = append(errors, ConfigValidationError{
				Field:    "symlinkPolicy",
				Message:  "invalid symlink policy: \"" + cfg.SymlinkPolicy + "\". Must be \"follow\", \"skip\", or \"error\"",
				Severity: SeverityError,
			})
		}
	}

	if cfg.ScanDepth != nil && *cfg.ScanDepth < 0 {
		errors = append(errors, ConfigValidationError{
			Field:    "scanDepth",
			Message:  "scanDepth must be a non-negative integer",
			Severity: SeverityError,
		})
	}

	if cfg.Watch != nil {
		if cfg.Watch.DebounceSeconds < 0 {
			errors = append(errors, ConfigValidationError{
				Field:    "watch.debounceSeconds",
				Message:  "debounceSeconds must be a non-negative integer",
				Severity: SeverityError,
			})
		}
		if cfg.Watch.StableThresholdMs < 0 {
			errors = append(errors, ConfigValidationError{
				Field:    "watch.stableThresholdMs",
				Message:  "stableThresholdMs must be a non-negative integer",
				Severity: SeverityError,
			})
		}
		for i, pattern := range cfg.Watch.IgnorePatterns {
			if _, err := filepath.Match(pattern, ""); err != nil {
				errors = append(errors, ConfigValidationError{
					Field:    formatField("watch.ignorePatterns", i),
					Message:  "invalid glob pattern: \"" + pattern + "\"",
					Severity: SeverityError,
				})
			}
		}
	}

	if cfg.Audit != nil {
		switch cfg.Audit.RotationPeriod {
		case "", "daily", "weekly":
		default:
			errors = append(errors, ConfigValidationError{
				Field:    "audit.rotationPeriod",
				Message:  "invalid rotation period: \"" + cfg.Audit.RotationPeriod + "\". Must be \"daily\", \"weekly\", or empty",
				Severity: SeverityError,
			})
		}
		if cfg.Audit.RotationSize < 0 {
			errors = append(errors, ConfigValidationError{
				Field:    "audit.rotationSizeBytes",
				Message:  "rotationSizeBytes must be a non-negative integer",
				Severity: SeverityError,
			})
		}
		if cfg.Audit.RetentionDays < 0 {
			errors = append(errors, ConfigValidationError{
				Field:    "audit.retentionDays",
				Message:  "retentionDays must be a non-negative integer",
				Severity: SeverityError,
			})
		}
	}

	return errors
}
