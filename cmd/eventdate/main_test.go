package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"eventdate/internal/audit"
	"eventdate/internal/config"
	"eventdate/internal/output"
)

// runCLI executes args and returns the exit code, stdout and stderr.
func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := execute(args, output.Config{Writer: &stdout, ErrWriter: &stderr})
	return code, stdout.String(), stderr.String()
}

// setupProject writes one value file and a config that logs runs under dir.
func setupProject(t *testing.T, values ...string) (configPath, inputDir, auditDir string) {
	t.Helper()
	dir := t.TempDir()
	inputDir = filepath.Join(dir, "input")
	auditDir = filepath.Join(dir, "audit")
	if err := os.MkdirAll(inputDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(inputDir, "specimens.txt"), []byte(strings.Join(values, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Configuration{
		InputDirectories: []string{inputDir},
		Audit:            &audit.AuditConfig{LogDirectory: auditDir},
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	configPath = filepath.Join(dir, "config.json")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		t.Fatal(err)
	}
	return configPath, inputDir, auditDir
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		want       flags
		positional []string
		wantErr    bool
	}{
		{"none", []string{"a", "b"}, flags{}, []string{"a", "b"}, false},
		{"verbose anywhere", []string{"a", "-v"}, flags{verbose: true}, []string{"a"}, false},
		{"stats and top", []string{"--stats", "--top", "3", "cfg"}, flags{stats: true, topN: 3}, []string{"cfg"}, false},
		{"double dash", []string{"-v", "--", "-1880", "-v"}, flags{verbose: true}, []string{"-1880", "-v"}, false},
		{"top missing", []string{"--top"}, flags{}, nil, true},
		{"top not a number", []string{"--top", "x"}, flags{}, nil, true},
		{"top negative", []string{"--top", "-1"}, flags{}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, positional, err := parseFlags(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Errorf("flags = %+v, want %+v", got, tt.want)
			}
			if strings.Join(positional, ",") != strings.Join(tt.positional, ",") {
				t.Errorf("positional = %v, want %v", positional, tt.positional)
			}
		})
	}
}

func TestCheckCommand(t *testing.T) {
	code, stdout, _ := runCLI("check", "1880-05-08", "1880")
	if code != 0 {
		t.Errorf("expected exit 0 for passing values, got %d", code)
	}
	if strings.Count(stdout, "PASS") != 2 {
		t.Errorf("expected two PASS lines, got %q", stdout)
	}

	code, stdout, _ = runCLI("check", "1880", "2015-02-29")
	if code != 1 {
		t.Errorf("expected exit 1 when a value fails, got %d", code)
	}
	if !strings.Contains(stdout, `FAIL "2015-02-29" [CalendarDate] NON_EXISTENT_DATE`) {
		t.Errorf("missing failure line in %q", stdout)
	}

	code, _, stderr := runCLI("check")
	if code != 1 || !strings.Contains(stderr, "Usage:") {
		t.Errorf("expected usage error, got %d %q", code, stderr)
	}
}

func TestSplitCommand(t *testing.T) {
	code, stdout, _ := runCLI("split", "1880-05-08/10")
	if code != 0 || stdout != "1880-05-08\n1880-05-10\n" {
		t.Errorf("got %d %q", code, stdout)
	}

	code, stdout, _ = runCLI("split", "1880")
	if code != 0 || stdout != "1880\n" {
		t.Errorf("got %d %q", code, stdout)
	}
}

func TestRunCommandWritesRunLog(t *testing.T) {
	configPath, _, auditDir := setupProject(t, "1880-05-08", "2015-02-29", "May 1880")

	code, stdout, _ := runCLI("run", configPath)
	if code != 1 {
		t.Errorf("expected exit 1 with failing values, got %d", code)
	}
	if !strings.Contains(stdout, "Checked 3 values in 1 files: 1 passed, 2 failed, 0 errors") {
		t.Errorf("missing summary in %q", stdout)
	}
	if !strings.Contains(stdout, "specimens.txt:2: FAIL") || strings.Contains(stdout, "specimens.txt:1:") {
		t.Errorf("expected only failing values listed, got %q", stdout)
	}

	runs, err := audit.NewAuditReader(auditDir).ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.Status != audit.RunStatusCompleted || run.AppVersion != version {
		t.Errorf("unexpected run: %+v", run)
	}
	if run.Summary != (audit.RunSummary{FilesChecked: 1, Values: 3, Passed: 1, Failed: 2}) {
		t.Errorf("unexpected run summary: %+v", run.Summary)
	}

	code, stdout, _ = runCLI("history", configPath)
	if code != 0 || !strings.Contains(stdout, string(run.RunID)) {
		t.Errorf("history should list the run, got %d %q", code, stdout)
	}

	code, stdout, _ = runCLI("history", "--stats", "--top", "1", configPath)
	if code != 0 {
		t.Fatalf("history --stats failed with %d", code)
	}
	for _, want := range []string{"Runs: 1", "Values: 3 (1 passed, 2 failed), 0 errors", "Failure reasons:"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("missing %q in %q", want, stdout)
		}
	}
	// --top 1 keeps one of the two tied reasons
	if strings.Count(stdout, "NON_") != 1 {
		t.Errorf("expected a single reason with --top 1, got %q", stdout)
	}
}

func TestRunCommandPassing(t *testing.T) {
	configPath, _, _ := setupProject(t, "1880-05-08", "1880-05-08/10")

	code, stdout, stderr := runCLI("run", "-v", configPath)
	if code != 0 {
		t.Errorf("expected exit 0, got %d (stderr %q)", code, stderr)
	}
	if !strings.Contains(stdout, "specimens.txt:1: PASS") || !strings.Contains(stdout, "Formats:") {
		t.Errorf("verbose run should list passing values and formats, got %q", stdout)
	}
}

func TestRunCommandInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := "inputDirectories: [" + filepath.Join(dir, "missing") + "]\nmeasures: [bogus]\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := runCLI("run", configPath)
	if code != 1 || !strings.Contains(stderr, "invalid configuration") {
		t.Errorf("expected invalid configuration error, got %d %q", code, stderr)
	}

	code, stdout, _ := runCLI("validate", configPath)
	if code != 1 || !strings.Contains(stdout, "error: measures[0]") {
		t.Errorf("validate should report the unknown measure, got %d %q", code, stdout)
	}
}

func TestValidateAndStatusCommands(t *testing.T) {
	configPath, inputDir, _ := setupProject(t, "1880", "2015-02-29")

	code, stdout, _ := runCLI("validate", configPath)
	if code != 0 || !strings.Contains(stdout, "is valid") {
		t.Errorf("got %d %q", code, stdout)
	}

	code, stdout, _ = runCLI("status", configPath)
	if code != 0 {
		t.Fatalf("status failed with %d", code)
	}
	for _, want := range []string{inputDir + ": 2 values in 1 files", "NON_EXISTENT_DATE: 1", "Total: 2 values"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("missing %q in %q", want, stdout)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := runCLI("organize", "x")
	if code != 1 || !strings.Contains(stderr, `unknown command "organize"`) {
		t.Errorf("got %d %q", code, stderr)
	}

	code, _, stderr = runCLI()
	if code != 1 || !strings.Contains(stderr, "Usage:") {
		t.Errorf("got %d %q", code, stderr)
	}
}

func TestEndRunReportsWriteFailure(t *testing.T) {
	configPath, _, _ := setupProject(t, "1880")
	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	writer, runID, err := startAudit(cfg, audit.RunTypeWatch)
	if err != nil {
		t.Fatalf("startAudit failed: %v", err)
	}
	// A closed writer fails every write.
	writer.Close()

	var stdout, stderr bytes.Buffer
	out := output.New(output.Config{Writer: &stdout, ErrWriter: &stderr})
	endRun(out, writer, runID, audit.RunStatusFailed, audit.RunSummary{})

	if !strings.HasPrefix(stderr.String(), "Warning: failed to end run:") {
		t.Errorf("expected a warning on stderr, got %q", stderr.String())
	}
}
