// Package main provides the CLI entry point for eventdate.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"eventdate/internal/audit"
	"eventdate/internal/classifier"
	"eventdate/internal/config"
	"eventdate/internal/eventdate"
	"eventdate/internal/orchestrator"
	"eventdate/internal/output"
	"eventdate/internal/watcher"
)

const version = "0.1.0"

const usage = `Usage:
  eventdate check [-v] <value>...
  eventdate split <value>
  eventdate run [-v] <config>
  eventdate watch [-v] <config>
  eventdate status <config>
  eventdate validate <config>
  eventdate history [--stats] [--top N] <config>`

// errUsage is returned for malformed command lines.
var errUsage = errors.New("invalid arguments")

// errFailed signals that a command ran but found failing values or errors.
var errFailed = errors.New("failed")

func main() {
	os.Exit(execute(os.Args[1:], output.DefaultConfig()))
}

// execute runs the command in args and returns the process exit code.
func execute(args []string, outCfg output.Config) int {
	if len(args) == 0 {
		output.New(outCfg).Error(usage)
		return 1
	}

	cmd, rest := args[0], args[1:]
	opts, positional, err := parseFlags(rest)
	if err != nil {
		output.New(outCfg).Error("Error: %v\n%s", err, usage)
		return 1
	}
	outCfg.Verbose = opts.verbose
	out := output.New(outCfg)

	switch cmd {
	case "check":
		err = runCheck(out, positional)
	case "split":
		err = runSplit(out, positional)
	case "run":
		err = runRun(out, positional)
	case "watch":
		err = runWatch(out, positional)
	case "status":
		err = runStatus(out, positional)
	case "validate":
		err = runValidate(out, positional)
	case "history":
		err = runHistory(out, positional, opts)
	case "-h", "--help", "help":
		out.Info(usage)
		return 0
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFailed):
		return 1
	case errors.Is(err, errUsage):
		out.Error("Error: %v\n%s", err, usage)
		return 1
	default:
		out.Error("Error: %v", err)
		return 1
	}
}

type flags struct {
	verbose bool
	stats   bool
	topN    int
}

// parseFlags separates flags from positional arguments. "--" ends flag
// parsing so values starting with "-" can be checked.
func parseFlags(args []string) (flags, []string, error) {
	var f flags
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--":
			return f, append(positional, args[i+1:]...), nil
		case "-v", "--verbose":
			f.verbose = true
		case "--stats":
			f.stats = true
		case "--top":
			if i+1 >= len(args) {
				return f, nil, fmt.Errorf("%w: --top needs a number", errUsage)
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 0 {
				return f, nil, fmt.Errorf("%w: --top needs a non-negative number, got %q", errUsage, args[i+1])
			}
			f.topN = n
			i++
		default:
			positional = append(positional, arg)
		}
	}
	return f, positional, nil
}

func requireConfigArg(positional []string) (string, error) {
	if len(positional) != 1 {
		return "", fmt.Errorf("%w: expected one config file", errUsage)
	}
	return positional[0], nil
}

func runCheck(out *output.Output, values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: no values to check", errUsage)
	}

	failed := false
	for _, v := range values {
		c := classifier.Classify(v, nil)
		out.Classification(c)
		failed = failed || c.Failed()
	}
	if failed {
		return errFailed
	}
	return nil
}

func runSplit(out *output.Output, positional []string) error {
	if len(positional) != 1 {
		return fmt.Errorf("%w: expected one value", errUsage)
	}
	for _, part := range eventdate.SplitRange(positional[0]) {
		out.Info("%s", part)
	}
	return nil
}

// loadValidated loads the configuration and reports validation findings.
// Warnings are shown in verbose mode; any error aborts.
func loadValidated(out *output.Output, path string) (*config.Configuration, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	result := config.ValidateConfig(cfg)
	for _, w := range result.Warnings {
		out.Verbose("Warning: %s: %s", w.Field, w.Message)
	}
	if !result.Valid {
		for _, e := range result.Errors {
			out.Error("Error: %s: %s", e.Field, e.Message)
		}
		return nil, fmt.Errorf("invalid configuration %s: %d errors", path, len(result.Errors))
	}
	return cfg, nil
}

// startAudit opens the run log and starts a run of the given type.
func startAudit(cfg *config.Configuration, runType audit.RunType) (*audit.AuditWriter, audit.RunID, error) {
	writer, err := audit.NewAuditWriter(*cfg.Audit)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open run log: %w", err)
	}

	machineID, _ := os.Hostname()
	runID, err := writer.StartRun(runType, version, machineID)
	if err != nil {
		writer.Close()
		return nil, "", fmt.Errorf("failed to start run: %w", err)
	}
	return writer, runID, nil
}

// endRun records the end of a run. A failure is reported as a warning.
func endRun(out *output.Output, writer *audit.AuditWriter, runID audit.RunID, status audit.RunStatus, summary audit.RunSummary) {
	if err := writer.EndRun(runID, status, summary); err != nil {
		out.Error("Warning: failed to end run: %v", err)
	}
}

func runRun(out *output.Output, positional []string) error {
	path, err := requireConfigArg(positional)
	if err != nil {
		return err
	}
	cfg, err := loadValidated(out, path)
	if err != nil {
		return err
	}

	writer, runID, err := startAudit(cfg, audit.RunTypeCheck)
	if err != nil {
		return err
	}
	defer writer.Close()

	o := orchestrator.NewOrchestrator(cfg)
	o.SetAuditWriter(writer)

	start := time.Now()
	result := o.Run(func(current, total int, path string) {
		if current == 1 {
			out.StartProgress(total)
		}
		out.UpdateProgress(current, "")
		out.Verbose("Checked %s", path)
	})
	out.EndProgress()

	for _, scanErr := range result.ScanErrors {
		out.Error("Warning: %v", scanErr)
	}
	for _, file := range result.Files {
		if file.Error != nil {
			out.Error("Error reading %s: %v", file.Path, file.Error)
			continue
		}
		for _, v := range file.Values {
			out.CheckedValue(file.Path, v.Line, v.Classification)
		}
	}

	summary := orchestrator.GenerateSummary(result, time.Since(start), out.IsVerbose())
	status := audit.RunStatusCompleted
	if o.AuditError() != nil {
		status = audit.RunStatusFailed
	}
	endRun(out, writer, runID, status, summary.AuditSummary())
	if err := o.AuditError(); err != nil {
		out.Error("Warning: %v", err)
	}

	pruned, err := audit.NewRetentionManager(*cfg.Audit).Prune(writer)
	if err != nil {
		out.Error("Warning: retention: %v", err)
	} else if pruned != nil && len(pruned.PrunedSegments) > 0 {
		out.Verbose("Pruned %d run log segments (%d bytes)", len(pruned.PrunedSegments), pruned.TotalBytesFreed)
	}

	out.Summary(summary)

	if result.HasErrors() || result.HasFailures() {
		return errFailed
	}
	return nil
}

func runWatch(out *output.Output, positional []string) error {
	path, err := requireConfigArg(positional)
	if err != nil {
		return err
	}
	cfg, err := loadValidated(out, path)
	if err != nil {
		return err
	}

	writer, runID, err := startAudit(cfg, audit.RunTypeWatch)
	if err != nil {
		return err
	}
	defer writer.Close()

	o := orchestrator.NewOrchestrator(cfg)
	o.SetAuditWriter(writer)

	w := watcher.New(&watcher.WatchConfig{
		DebounceSeconds:   cfg.Watch.DebounceSeconds,
		StableThresholdMs: cfg.Watch.StableThresholdMs,
		IgnorePatterns:    cfg.Watch.IgnorePatterns,
		Extensions:        cfg.Extensions,
	}, func(path string) (int, int, error) {
		result := o.CheckFile(path)
		if result.Error != nil {
			return 0, 0, result.Error
		}
		for _, v := range result.Values {
			out.CheckedValue(path, v.Line, v.Classification)
		}
		return len(result.Values), result.Failed(), nil
	})
	w.SetErrorHandler(func(path string, err error) {
		if path == "" {
			out.Error("Watch error: %v", err)
			return
		}
		out.Error("Error checking %s: %v", path, err)
	})

	if err := w.Start(cfg.InputDirectories); err != nil {
		endRun(out, writer, runID, audit.RunStatusFailed, audit.RunSummary{})
		return fmt.Errorf("failed to start watching: %w", err)
	}
	out.Info("Watching %d directories. Press Ctrl+C to stop.", len(cfg.InputDirectories))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	signal.Stop(sigCh)

	ws := w.Stop()
	endRun(out, writer, runID, audit.RunStatusInterrupted, audit.RunSummary{
		FilesChecked: ws.FilesChecked,
		Values:       ws.ValuesChecked,
		Passed:       ws.ValuesChecked - ws.ValuesFailed,
		Failed:       ws.ValuesFailed,
		Errors:       ws.Errors,
	})

	out.Info("Checked %d values in %d files: %d failed, %d errors, %d skipped (%s)",
		ws.ValuesChecked, ws.FilesChecked, ws.ValuesFailed, ws.Errors, ws.FilesSkipped,
		ws.Duration.Round(time.Second))
	return nil
}

func runStatus(out *output.Output, positional []string) error {
	path, err := requireConfigArg(positional)
	if err != nil {
		return err
	}

	status, err := orchestrator.StatusFromPath(path)
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(status.ByInput))
	for dir := range status.ByInput {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		s := status.ByInput[dir]
		if s.Missing {
			out.Info("%s: missing", dir)
			continue
		}
		out.Info("%s: %d values in %d files", dir, s.Values, s.Files)
		for _, reason := range audit.SortedCounts(s.ByReason) {
			out.Info("  %s: %d", reason, s.ByReason[reason])
		}
	}
	out.Info("Total: %d values", status.GrandTotal)
	return nil
}

func runValidate(out *output.Output, positional []string) error {
	path, err := requireConfigArg(positional)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	result := config.ValidateConfig(cfg)
	for _, e := range result.Errors {
		out.Info("error: %s: %s", e.Field, e.Message)
	}
	for _, w := range result.Warnings {
		out.Info("warning: %s: %s", w.Field, w.Message)
	}
	if !result.Valid {
		return errFailed
	}
	out.Info("%s is valid", path)
	return nil
}

func runHistory(out *output.Output, positional []string, opts flags) error {
	path, err := requireConfigArg(positional)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	logDir := cfg.Audit.LogDirectory

	if opts.stats {
		stats, err := audit.AggregateStats(logDir, audit.StatsOptions{TopN: opts.topN})
		if err != nil {
			return err
		}
		out.Info("Runs: %d", stats.TotalRuns)
		if stats.TotalRuns > 0 {
			out.Info("First run: %s", stats.FirstRun.Local().Format(time.DateTime))
			out.Info("Last run: %s", stats.LastRun.Local().Format(time.DateTime))
		}
		out.Info("Values: %d (%d passed, %d failed), %d errors",
			stats.TotalValues, stats.TotalPassed, stats.TotalFailed, stats.TotalErrors)
		if len(stats.ByReason) > 0 {
			out.Info("Failure reasons:")
			for _, reason := range audit.SortedCounts(stats.ByReason) {
				out.Info("  %s: %d", reason, stats.ByReason[reason])
			}
		}
		if len(stats.ByFormat) > 0 {
			out.Info("Formats:")
			for _, format := range audit.SortedCounts(stats.ByFormat) {
				out.Info("  %s: %d", format, stats.ByFormat[format])
			}
		}
		return nil
	}

	runs, err := audit.NewAuditReader(logDir).ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		out.Info("No runs recorded in %s", logDir)
		return nil
	}
	if opts.topN > 0 && len(runs) > opts.topN {
		runs = runs[len(runs)-opts.topN:]
	}
	for _, run := range runs {
		s := run.Summary
		out.Info("%s  %s  %-5s  %-11s  %d files, %d values, %d failed, %d errors",
			run.RunID, run.StartTime.Local().Format(time.DateTime), run.RunType, run.Status,
			s.FilesChecked, s.Values, s.Failed, s.Errors)
	}
	return nil
}
