package orchestrator

import (
	"errors"
	"testing"
	"time"

	"eventdate/internal/audit"
	"eventdate/internal/classifier"
)

func checkedValues(values ...string) []CheckedValue {
	out := make([]CheckedValue, len(values))
	for i, v := range values {
		out[i] = CheckedValue{Line: i + 1, Classification: classifier.Classify(v, nil)}
	}
	return out
}

func TestGenerateSummary_NilResult(t *testing.T) {
	duration := 5 * time.Second
	summary := GenerateSummary(nil, duration, false)

	if summary == nil {
		t.Fatal("Expected non-nil summary for nil result")
	}
	if summary.Files != 0 || summary.Values != 0 || summary.Errors != 0 {
		t.Errorf("Expected zero counts, got %+v", summary)
	}
	if summary.Duration != duration {
		t.Errorf("Expected Duration=%v, got %v", duration, summary.Duration)
	}
	if summary.ByFormat != nil {
		t.Errorf("Expected ByFormat=nil for non-verbose mode, got %v", summary.ByFormat)
	}
}

func TestGenerateSummary_Counts(t *testing.T) {
	result := &RunResult{
		Files: []FileResult{
			{Path: "a.txt", Values: checkedValues("1880-05-08", "2015-02-29", "")},
			{Path: "b.txt", Values: checkedValues("1880", "May 1880", "1880-05-08/10")},
			{Path: "c.txt", Error: errors.New("permission denied")},
		},
		ScanErrors: []error{errors.New("failed to scan missing")},
	}

	summary := GenerateSummary(result, time.Second, false)

	if summary.Files != 2 || summary.Values != 6 || summary.Passed != 3 || summary.Failed != 3 || summary.Errors != 2 {
		t.Errorf("Unexpected counts: %+v", summary)
	}
	want := map[string]int{
		string(classifier.NonExistentDate):   1,
		string(classifier.NotPopulated):      1,
		string(classifier.NonStandardFormat): 1,
	}
	for reason, n := range want {
		if summary.ByReason[reason] != n {
			t.Errorf("ByReason[%s] = %d, want %d", reason, summary.ByReason[reason], n)
		}
	}
	if summary.ByFormat != nil {
		t.Error("ByFormat should only be populated in verbose mode")
	}

	if got := summary.AuditSummary(); got != (audit.RunSummary{FilesChecked: 2, Values: 6, Passed: 3, Failed: 3, Errors: 2}) {
		t.Errorf("Unexpected audit summary: %+v", got)
	}
	if got, want := summary.String(), "Checked 6 values in 2 files: 3 passed, 3 failed, 2 errors"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestGenerateSummary_VerboseByFormat(t *testing.T) {
	result := &RunResult{
		Files: []FileResult{
			{Path: "a.txt", Values: checkedValues("1880-05-08", "1880-05-09", "1880", "1880-05-08/10")},
		},
	}

	summary := GenerateSummary(result, 0, true)

	want := map[string]int{"CalendarDate": 2, "Year": 1, "IntervalDayOmitted": 1}
	if len(summary.ByFormat) != len(want) {
		t.Fatalf("Expected %v, got %v", want, summary.ByFormat)
	}
	for format, n := range want {
		if summary.ByFormat[format] != n {
			t.Errorf("ByFormat[%s] = %d, want %d", format, summary.ByFormat[format], n)
		}
	}
}
