// Package orchestrator coordinates eventdate checks over value files.
package orchestrator

import (
	"errors"
	"fmt"
	"sync"

	"eventdate/internal/audit"
	"eventdate/internal/classifier"
	"eventdate/internal/config"
	"eventdate/internal/scanner"
	"eventdate/internal/source"
)

// CheckedValue is the classification of one value and the line it came from.
type CheckedValue struct {
	Line           int
	Classification *classifier.Classification
}

// FileResult represents the outcome of checking a single value file.
type FileResult struct {
	Path   string
	Values []CheckedValue
	Error  error
}

// Failed returns the number of values in the file that failed a measure.
func (r FileResult) Failed() int {
	n := 0
	for _, v := range r.Values {
		if v.Classification.Failed() {
			n++
		}
	}
	return n
}

// RunResult collects the results of checking every value file.
type RunResult struct {
	Files      []FileResult
	ScanErrors []error
}

// HasErrors returns true if any directory or file could not be read.
func (r *RunResult) HasErrors() bool {
	if len(r.ScanErrors) > 0 {
		return true
	}
	for _, f := range r.Files {
		if f.Error != nil {
			return true
		}
	}
	return false
}

// HasFailures returns true if any value failed a measure.
func (r *RunResult) HasFailures() bool {
	for _, f := range r.Files {
		if f.Failed() > 0 {
			return true
		}
	}
	return false
}

// ProgressFunc is called after each file is checked.
type ProgressFunc func(current, total int, path string)

// Orchestrator checks value files found in the configured input directories.
type Orchestrator struct {
	config      *config.Configuration
	measures    []classifier.Measure
	auditWriter *audit.AuditWriter

	mu       sync.Mutex // guards auditErr; CheckFile runs concurrently in watch mode
	auditErr error
}

// NewOrchestrator creates a new Orchestrator with the given configuration.
func NewOrchestrator(cfg *config.Configuration) *Orchestrator {
	return &Orchestrator{
		config:   cfg,
		measures: cfg.ParsedMeasures(),
	}
}

// NewOrchestratorFromPath creates a new Orchestrator by loading configuration from a file.
func NewOrchestratorFromPath(configPath string) (*Orchestrator, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewOrchestrator(cfg), nil
}

// SetAuditWriter makes every checked value and file error be recorded in
// the run log. The writer must have an active run.
func (o *Orchestrator) SetAuditWriter(w *audit.AuditWriter) {
	o.auditWriter = w
}

// AuditError returns the first error hit while writing the run log, if any.
// Checking continues after a run log failure.
func (o *Orchestrator) AuditError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.auditErr
}

// Config returns the orchestrator's configuration.
func (o *Orchestrator) Config() *config.Configuration {
	return o.config
}

// Measures returns the measures each value is checked against.
func (o *Orchestrator) Measures() []classifier.Measure {
	return o.measures
}

// scanOptions builds scanner options from the configuration.
func (o *Orchestrator) scanOptions() scanner.ScanOptions {
	opts := scanner.DefaultScanOptions()
	opts.MaxDepth = o.config.GetScanDepth()
	if o.config.SymlinkPolicy != "" {
		opts.SymlinkPolicy = o.config.SymlinkPolicy
	}
	opts.Extensions = o.config.Extensions
	return opts
}

// ScanInputs lists the value files in every input directory. A directory
// that cannot be scanned is reported and the rest are still scanned.
func (o *Orchestrator) ScanInputs() ([]scanner.FileEntry, []error) {
	var files []scanner.FileEntry
	var scanErrors []error

	opts := o.scanOptions()
	for _, dir := range o.config.InputDirectories {
		entries, err := scanner.ScanWithOptions(dir, opts)
		if err != nil {
			scanErrors = append(scanErrors, fmt.Errorf("failed to scan %s: %w", dir, err))
			continue
		}
		files = append(files, entries...)
	}

	return files, scanErrors
}

// CheckFile reads and classifies every value in the file at path.
func (o *Orchestrator) CheckFile(path string) FileResult {
	result := FileResult{Path: path}

	values, err := source.ReadValues(path)
	if err != nil {
		result.Error = err
		o.recordError(path, err)
		return result
	}

	result.Values = make([]CheckedValue, 0, len(values))
	for _, v := range values {
		c := classifier.Classify(v.Text, o.measures)
		result.Values = append(result.Values, CheckedValue{Line: v.Line, Classification: c})
		o.recordCheck(path, v.Line, c)
	}

	return result
}

// Run checks every value file in the input directories.
func (o *Orchestrator) Run(progress ProgressFunc) *RunResult {
	files, scanErrors := o.ScanInputs()

	result := &RunResult{
		Files:      make([]FileResult, 0, len(files)),
		ScanErrors: scanErrors,
	}
	for _, err := range scanErrors {
		o.recordError("", err)
	}

	for i, file := range files {
		result.Files = append(result.Files, o.CheckFile(file.FullPath))
		if progress != nil {
			progress(i+1, len(files), file.FullPath)
		}
	}

	return result
}

// Run loads configuration from configPath and checks every value file
// without writing a run log.
func Run(configPath string) (*RunResult, error) {
	o, err := NewOrchestratorFromPath(configPath)
	if err != nil {
		return nil, err
	}
	return o.Run(nil), nil
}

func (o *Orchestrator) recordCheck(path string, line int, c *classifier.Classification) {
	if o.auditWriter == nil {
		return
	}
	err := o.auditWriter.RecordCheck(path, audit.CheckDetails{
		Line:   line,
		Value:  c.Value,
		Format: c.Format.String(),
		Start:  c.Start,
		End:    c.End,
	}, string(c.Reason))
	o.noteAuditError(err)
}

func (o *Orchestrator) noteAuditError(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil && o.auditErr == nil {
		o.auditErr = fmt.Errorf("failed to write run log: %w", err)
	}
}

func (o *Orchestrator) recordError(path string, err error) {
	if o.auditWriter == nil {
		return
	}
	errType := "READ_ERROR"
	operation := "read"
	var srcErr *source.SourceError
	var scanErr *scanner.ScanError
	switch {
	case errors.As(err, &srcErr):
		errType = string(srcErr.Type)
	case errors.As(err, &scanErr):
		errType = string(scanErr.Type)
		operation = "scan"
		path = scanErr.Path
	}
	o.noteAuditError(o.auditWriter.RecordError(path, errType, err.Error(), operation))
}
