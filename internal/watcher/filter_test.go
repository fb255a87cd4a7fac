package watcher

import "testing"

func TestFileFilter_DefaultPatterns(t *testing.T) {
	f := NewFileFilter(nil)

	tests := []struct {
		path   string
		ignore bool
	}{
		{"/input/values.txt", false},
		{"/input/values.dat", false},
		{"/input/values.txt.tmp", true},
		{"/input/.values.txt.swp", true},
		{"/input/values.txt~", true},
		{"/input/values.bak", true},
		{"/input/.~lock.values.csv#", true},
		{"/input/~$values.xlsx", true},
		{"/input/backup-notes.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := f.ShouldIgnore(tt.path); got != tt.ignore {
				t.Errorf("ShouldIgnore(%q) = %v, want %v", tt.path, got, tt.ignore)
			}
		})
	}
}

func TestFileFilter_EmptyPatternsUseDefaults(t *testing.T) {
	if !NewFileFilter([]string{}).ShouldIgnore("values.tmp") {
		t.Error("empty pattern list should fall back to defaults")
	}
}

func TestFileFilter_CustomPatterns(t *testing.T) {
	f := NewFileFilter([]string{"draft-*", ".export", "[0-9]*.txt"})

	tests := []struct {
		path   string
		ignore bool
	}{
		{"draft-1880.txt", true},
		{"specimens.EXPORT", true},
		{"2024.txt", true},
		{"specimens.txt", false},
		// Custom patterns replace the defaults.
		{"specimens.tmp", false},
	}

	for _, tt := range tests {
		if got := f.ShouldIgnore(tt.path); got != tt.ignore {
			t.Errorf("ShouldIgnore(%q) = %v, want %v", tt.path, got, tt.ignore)
		}
	}
}
