package watcher

import (
	"path/filepath"
	"strings"
)

// DefaultIgnorePatterns returns the patterns for editor and export scratch
// files that sit next to value files while they are being written.
func DefaultIgnorePatterns() []string {
	return []string{
		"*.tmp",
		"*.swp", // vim
		"*.swx",
		"*~", // emacs and gedit backups
		"*.bak",
		".~*", // LibreOffice lock files
		"~$*", // Excel lock files
	}
}

// FileFilter handles filtering of files based on ignore patterns.
type FileFilter struct {
	patterns []string
}

// NewFileFilter creates a new FileFilter with the given patterns.
// If patterns is nil or empty, default patterns are used.
func NewFileFilter(patterns []string) *FileFilter {
	if len(patterns) == 0 {
		patterns = DefaultIgnorePatterns()
	}
	return &FileFilter{
		patterns: patterns,
	}
}

// ShouldIgnore reports whether the base name of path matches an ignore
// pattern. Patterns use filepath.Match syntax; a pattern such as ".tmp"
// without a wildcard also matches as a case-insensitive suffix.
func (f *FileFilter) ShouldIgnore(path string) bool {
	filename := filepath.Base(path)

	for _, pattern := range f.patterns {
		if matched, err := filepath.Match(pattern, filename); err == nil && matched {
			return true
		}

		if strings.HasPrefix(pattern, ".") && !strings.Contains(pattern, "*") {
			if strings.HasSuffix(strings.ToLower(filename), strings.ToLower(pattern)) {
				return true
			}
		}
	}
	return false
}
