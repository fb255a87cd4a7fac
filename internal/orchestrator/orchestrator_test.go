package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"eventdate/internal/audit"
	"eventdate/internal/classifier"
	"eventdate/internal/config"
)

// writeValues writes a value file containing lines.
func writeValues(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// writeConfigFile saves cfg as JSON and returns its path.
func writeConfigFile(t *testing.T, dir string, cfg config.Configuration) string {
	t.Helper()
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestRunChecksEveryValueFile(t *testing.T) {
	tempDir := t.TempDir()
	inputDir := filepath.Join(tempDir, "input")

	writeValues(t, filepath.Join(inputDir, "a.txt"), "1880-05-08", "# comment", "2015-02-29")
	writeValues(t, filepath.Join(inputDir, "b.dat"), "May 1880", "", "1880-05-08/10")
	writeValues(t, filepath.Join(inputDir, "notes.md"), "not a value file")
	writeValues(t, filepath.Join(inputDir, "nested", "c.txt"), "1880")

	configPath := writeConfigFile(t, tempDir, config.Configuration{InputDirectories: []string{inputDir}})

	result, err := Run(configPath)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Files) != 2 {
		t.Fatalf("Expected 2 value files (scan depth 0, .txt/.dat only), got %d", len(result.Files))
	}
	if result.HasErrors() {
		t.Errorf("Unexpected errors: %+v", result)
	}
	if !result.HasFailures() {
		t.Error("Expected failures")
	}

	// Sorted by path: a.txt then b.dat
	a, b := result.Files[0], result.Files[1]
	if filepath.Base(a.Path) != "a.txt" || filepath.Base(b.Path) != "b.dat" {
		t.Fatalf("Unexpected order: %s, %s", a.Path, b.Path)
	}

	if len(a.Values) != 2 || a.Values[0].Line != 1 || a.Values[1].Line != 3 {
		t.Errorf("Unexpected values in a.txt: %+v", a.Values)
	}
	if a.Values[1].Classification.Reason != classifier.NonExistentDate {
		t.Errorf("Expected NON_EXISTENT_DATE for 2015-02-29, got %q", a.Values[1].Classification.Reason)
	}
	if a.Failed() != 1 || b.Failed() != 1 {
		t.Errorf("Expected one failure per file, got %d and %d", a.Failed(), b.Failed())
	}
	if b.Values[0].Classification.Reason != classifier.NonStandardFormat {
		t.Errorf("Expected NON_STANDARD_FORMAT for May 1880, got %q", b.Values[0].Classification.Reason)
	}
}

func TestRunHonorsScanDepthAndMeasures(t *testing.T) {
	tempDir := t.TempDir()
	inputDir := filepath.Join(tempDir, "input")
	writeValues(t, filepath.Join(inputDir, "top.txt"), "1880-05-08")
	writeValues(t, filepath.Join(inputDir, "nested", "deep.txt"), "1880")

	depth := 1
	o := NewOrchestrator(&config.Configuration{
		InputDirectories: []string{inputDir},
		Extensions:       []string{".txt"},
		Measures:         []string{"singleDay"},
		ScanDepth:        &depth,
		SymlinkPolicy:    config.SymlinkPolicySkip,
	})

	result := o.Run(nil)
	summary := GenerateSummary(result, 0, false)

	if summary.Files != 2 || summary.Values != 2 {
		t.Fatalf("Expected 2 values in 2 files, got %+v", summary)
	}
	// 1880 is not a single day
	if summary.Failed != 1 || summary.ByReason[string(classifier.NotSingleDay)] != 1 {
		t.Errorf("Expected one NOT_SINGLE_DAY failure, got %+v", summary)
	}
}

func TestRunReportsScanErrorsAndContinues(t *testing.T) {
	tempDir := t.TempDir()
	inputDir := filepath.Join(tempDir, "input")
	writeValues(t, filepath.Join(inputDir, "a.txt"), "1880")
	missing := filepath.Join(tempDir, "missing")

	o := NewOrchestrator(&config.Configuration{InputDirectories: []string{missing, inputDir}})

	var progress []int
	result := o.Run(func(current, total int, path string) {
		progress = append(progress, current)
		if total != 1 {
			t.Errorf("Expected total 1, got %d", total)
		}
	})

	if len(result.ScanErrors) != 1 || !strings.Contains(result.ScanErrors[0].Error(), missing) {
		t.Errorf("Expected one scan error naming %s, got %v", missing, result.ScanErrors)
	}
	if len(result.Files) != 1 {
		t.Errorf("Expected remaining directory to be checked, got %d files", len(result.Files))
	}
	if len(progress) != 1 || progress[0] != 1 {
		t.Errorf("Unexpected progress calls: %v", progress)
	}
	if !result.HasErrors() {
		t.Error("Expected HasErrors")
	}
}

func TestRunLoadError(t *testing.T) {
	if _, err := Run(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing configuration")
	}
}

// newAuditedOrchestrator returns an orchestrator writing to a run log in dir.
func newAuditedOrchestrator(t *testing.T, cfg *config.Configuration, auditDir string) (*Orchestrator, *audit.AuditWriter, audit.RunID) {
	t.Helper()
	auditCfg := audit.DefaultAuditConfig()
	auditCfg.LogDirectory = auditDir
	writer, err := audit.NewAuditWriter(auditCfg)
	if err != nil {
		t.Fatalf("NewAuditWriter failed: %v", err)
	}
	runID, err := writer.StartRun(audit.RunTypeCheck, "test", "machine")
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	o := NewOrchestrator(cfg)
	o.SetAuditWriter(writer)
	return o, writer, runID
}

func TestEveryCheckedValueIsRecorded(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	properties.Property("VALUE_CHECKED events match the checked values", prop.ForAll(
		func(days []int) bool {
			tempDir := t.TempDir()
			inputDir := filepath.Join(tempDir, "input")

			lines := make([]string, len(days))
			for i, d := range days {
				lines[i] = "2015-02-" + twoDigits(d)
			}
			writeValues(t, filepath.Join(inputDir, "values.txt"), lines...)

			o, writer, runID := newAuditedOrchestrator(t,
				&config.Configuration{InputDirectories: []string{inputDir}}, filepath.Join(tempDir, "audit"))

			result := o.Run(nil)
			summary := GenerateSummary(result, 0, false)
			if err := writer.EndRun(runID, audit.RunStatusCompleted, summary.AuditSummary()); err != nil {
				t.Logf("EndRun failed: %v", err)
				return false
			}
			writer.Close()

			if o.AuditError() != nil {
				t.Logf("Audit error: %v", o.AuditError())
				return false
			}

			reader := audit.NewAuditReader(filepath.Join(tempDir, "audit"))
			failed, err := reader.FilterEvents(runID, audit.EventFilter{
				EventTypes: []audit.EventType{audit.EventValueChecked},
				Status:     audit.StatusFailure,
			})
			if err != nil {
				t.Logf("FilterEvents failed: %v", err)
				return false
			}

			// February 2015 has 28 days
			wantFailed := 0
			for _, d := range days {
				if d > 28 {
					wantFailed++
				}
			}
			if len(failed) != wantFailed || summary.Failed != wantFailed {
				t.Logf("Expected %d failures, log has %d, summary has %d", wantFailed, len(failed), summary.Failed)
				return false
			}
			for _, e := range failed {
				if e.ReasonCode != string(classifier.NonExistentDate) {
					return false
				}
			}

			info, err := reader.GetRunByID(runID)
			if err != nil {
				return false
			}
			return info.Summary.Values == len(days) && info.Summary.FilesChecked == 1
		},
		gen.SliceOfN(10, gen.IntRange(1, 31)),
	))

	properties.TestingRun(t)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func TestScanErrorsAreRecorded(t *testing.T) {
	tempDir := t.TempDir()
	missing := filepath.Join(tempDir, "missing")

	o, writer, runID := newAuditedOrchestrator(t,
		&config.Configuration{InputDirectories: []string{missing}}, filepath.Join(tempDir, "audit"))
	o.Run(nil)
	writer.Close()

	events, err := audit.NewAuditReader(filepath.Join(tempDir, "audit")).FilterEvents(runID,
		audit.EventFilter{EventTypes: []audit.EventType{audit.EventFileError}})
	if err != nil {
		t.Fatalf("FilterEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 FILE_ERROR event, got %d", len(events))
	}
	e := events[0]
	if e.SourcePath != missing || e.ErrorDetails == nil || e.ErrorDetails.ErrorType != "DIRECTORY_NOT_FOUND" || e.ErrorDetails.Operation != "scan" {
		t.Errorf("Unexpected FILE_ERROR event: %+v", e)
	}
}

func TestCheckFileUnreadable(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "gone.txt")

	o, writer, runID := newAuditedOrchestrator(t,
		&config.Configuration{InputDirectories: []string{tempDir}}, filepath.Join(tempDir, "audit"))
	result := o.CheckFile(path)
	writer.Close()

	if result.Error == nil || len(result.Values) != 0 {
		t.Fatalf("Expected read error, got %+v", result)
	}

	events, err := audit.NewAuditReader(filepath.Join(tempDir, "audit")).FilterEvents(runID,
		audit.EventFilter{EventTypes: []audit.EventType{audit.EventFileError}})
	if err != nil || len(events) != 1 || events[0].ErrorDetails.ErrorType != "FILE_NOT_FOUND" {
		t.Errorf("Expected FILE_NOT_FOUND event, got %v, %v", events, err)
	}
}

func TestAuditErrorIsReported(t *testing.T) {
	tempDir := t.TempDir()
	inputDir := filepath.Join(tempDir, "input")
	writeValues(t, filepath.Join(inputDir, "a.txt"), "1880")

	o, writer, _ := newAuditedOrchestrator(t,
		&config.Configuration{InputDirectories: []string{inputDir}}, filepath.Join(tempDir, "audit"))
	// A closed writer fails every write.
	writer.Close()

	result := o.Run(nil)
	if len(result.Files) != 1 || len(result.Files[0].Values) != 1 {
		t.Fatalf("Checking should continue after a run log failure: %+v", result)
	}
	if o.AuditError() == nil {
		t.Error("Expected AuditError to be set")
	}
}
