// Package audit provides the run log for eventdate checks.
// It implements an append-only JSON Lines event log recording every run and
// every value checked, so earlier results can be listed and compared.
package audit

import "time"

// RunID is a unique identifier for each program execution.
// It uses UUID v4 format: "xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx"
type RunID string

// EventType represents the type of audit event.
type EventType string

const (
	// Run lifecycle events
	EventRunStart EventType = "RUN_START"
	EventRunEnd   EventType = "RUN_END"

	// Check events
	EventValueChecked EventType = "VALUE_CHECKED"
	EventFileError    EventType = "FILE_ERROR"

	// System events
	EventRotation       EventType = "ROTATION"
	EventRetentionPrune EventType = "RETENTION_PRUNE"
	EventLogInitialized EventType = "LOG_INITIALIZED"
)

// OperationStatus represents the outcome of an operation.
type OperationStatus string

const (
	StatusSuccess OperationStatus = "SUCCESS"
	StatusFailure OperationStatus = "FAILURE"
)

// RunStatus represents the status of a run.
type RunStatus string

const (
	RunStatusInProgress  RunStatus = "IN_PROGRESS"
	RunStatusCompleted   RunStatus = "COMPLETED"
	RunStatusFailed      RunStatus = "FAILED"
	RunStatusInterrupted RunStatus = "INTERRUPTED"
)

// RunType represents the command that started a run.
type RunType string

const (
	RunTypeCheck RunType = "CHECK"
	RunTypeWatch RunType = "WATCH"
)

// ErrorDetails contains detailed information about an error.
type ErrorDetails struct {
	ErrorType    string `json:"errorType"`
	ErrorMessage string `json:"errorMessage"`
	Operation    string `json:"operation"`
}

// CheckDetails describes one checked eventDate value.
type CheckDetails struct {
	Line   int    `json:"line"`
	Value  string `json:"value"`
	Format string `json:"format"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
}

// AuditEvent represents a single audit record for a checked value or system event.
type AuditEvent struct {
	Timestamp    time.Time         `json:"timestamp"`              // ISO 8601 format
	RunID        RunID             `json:"runId"`                  // Run identifier
	EventType    EventType         `json:"eventType"`              // Type of event
	Status       OperationStatus   `json:"status"`                 // Outcome
	SourcePath   string            `json:"sourcePath,omitempty"`   // Value file, or "" for arguments
	ReasonCode   string            `json:"reasonCode,omitempty"`   // First failing measure
	Check        *CheckDetails     `json:"check,omitempty"`        // Checked value
	ErrorDetails *ErrorDetails     `json:"errorDetails,omitempty"` // Error information
	Metadata     map[string]string `json:"metadata,omitempty"`     // Additional metadata
}

// RunSummary contains statistics for a completed run.
type RunSummary struct {
	FilesChecked int `json:"filesChecked"`
	Values       int `json:"values"`
	Passed       int `json:"passed"`
	Failed       int `json:"failed"`
	Errors       int `json:"errors"`
}

// RunInfo contains metadata and summary for a run.
type RunInfo struct {
	RunID      RunID      `json:"runId"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	Status     RunStatus  `json:"status"`
	RunType    RunType    `json:"runType"`
	AppVersion string     `json:"appVersion"`
	MachineID  string     `json:"machineId"`
	Summary    RunSummary `json:"summary"`
}

// AuditConfig holds configuration for the audit system.
type AuditConfig struct {
	LogDirectory   string `json:"logDirectory" yaml:"logDirectory"`
	RotationSize   int64  `json:"rotationSizeBytes" yaml:"rotationSizeBytes"` // Rotate when file exceeds this size
	RotationPeriod string `json:"rotationPeriod" yaml:"rotationPeriod"`       // "daily", "weekly", or ""
	RetentionDays  int    `json:"retentionDays" yaml:"retentionDays"`         // Prune rotated segments older than this (0 = keep all)
}

// DefaultAuditConfig returns an AuditConfig with sensible defaults.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		LogDirectory:   ".eventdate/audit",
		RotationSize:   10 * 1024 * 1024, // 10MB
		RotationPeriod: "",               // No time-based rotation by default
		RetentionDays:  0,
	}
}
