package orchestrator

import (
	"fmt"
	"time"

	"eventdate/internal/audit"
)

// RunSummary contains statistics from a run operation.
type RunSummary struct {
	Files    int            // Value files checked
	Values   int            // Values checked
	Passed   int            // Values that passed every measure
	Failed   int            // Values that failed a measure
	Errors   int            // Directories or files that could not be read
	Duration time.Duration  // Total processing time
	ByReason map[string]int // Failed values per reason code
	ByFormat map[string]int // Values per format (only populated in verbose mode)
}

// GenerateSummary creates a summary from a run result.
// When verbose is true, the ByFormat map is populated with a per-format breakdown.
func GenerateSummary(result *RunResult, duration time.Duration, verbose bool) *RunSummary {
	summary := &RunSummary{
		Duration: duration,
		ByReason: make(map[string]int),
	}
	if verbose {
		summary.ByFormat = make(map[string]int)
	}
	if result == nil {
		return summary
	}

	summary.Errors = len(result.ScanErrors)
	for _, file := range result.Files {
		if file.Error != nil {
			summary.Errors++
			continue
		}
		summary.Files++

		for _, v := range file.Values {
			summary.Values++
			c := v.Classification
			if c.Failed() {
				summary.Failed++
				summary.ByReason[string(c.Reason)]++
			} else {
				summary.Passed++
			}
			if verbose {
				summary.ByFormat[c.Format.String()]++
			}
		}
	}

	return summary
}

// AuditSummary converts the summary to the form recorded at RUN_END.
func (s *RunSummary) AuditSummary() audit.RunSummary {
	return audit.RunSummary{
		FilesChecked: s.Files,
		Values:       s.Values,
		Passed:       s.Passed,
		Failed:       s.Failed,
		Errors:       s.Errors,
	}
}

// String returns a one-line summary.
func (s *RunSummary) String() string {
	return fmt.Sprintf("Checked %d values in %d files: %d passed, %d failed, %d errors",
		s.Values, s.Files, s.Passed, s.Failed, s.Errors)
}
