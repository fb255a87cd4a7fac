package audit

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// EventFilter defines criteria for filtering audit events.
type EventFilter struct {
	EventTypes []EventType     // Filter by event types (empty = all types)
	Status     OperationStatus // Filter by status (empty = all statuses)
}

// AuditReader reads and parses audit events from log files.
// It handles reading across multiple rotated segments.
type AuditReader struct {
	logDir string
}

// NewAuditReader creates a new AuditReader for the given log directory.
func NewAuditReader(logDir string) *AuditReader {
	return &AuditReader{
		logDir: logDir,
	}
}

// ListRuns returns all runs with summary information, oldest first.
func (r *AuditReader) ListRuns() ([]RunInfo, error) {
	events, err := r.readAllEvents()
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	return r.extractRunInfos(events), nil
}

// GetRun returns all events for a specific run.
func (r *AuditReader) GetRun(runID RunID) ([]AuditEvent, error) {
	events, err := r.readAllEvents()
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	var runEvents []AuditEvent
	for _, event := range events {
		if event.RunID == runID {
			runEvents = append(runEvents, event)
		}
	}

	if len(runEvents) == 0 {
		return nil, fmt.Errorf("run not found: %s", runID)
	}

	return runEvents, nil
}

// GetRunByID returns the RunInfo for a specific run ID.
func (r *AuditReader) GetRunByID(runID RunID) (*RunInfo, error) {
	runs, err := r.ListRuns()
	if err != nil {
		return nil, err
	}

	for i := range runs {
		if runs[i].RunID == runID {
			return &runs[i], nil
		}
	}

	return nil, fmt.Errorf("run not found: %s", runID)
}

// GetLatestRun returns the most recent run by start timestamp.
func (r *AuditReader) GetLatestRun() (*RunInfo, error) {
	runs, err := r.ListRuns()
	if err != nil {
		return nil, err
	}

	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs found")
	}

	return &runs[len(runs)-1], nil
}

// FilterEvents returns events of a run matching the filter criteria.
func (r *AuditReader) FilterEvents(runID RunID, filter EventFilter) ([]AuditEvent, error) {
	events, err := r.GetRun(runID)
	if err != nil {
		return nil, err
	}

	var filtered []AuditEvent
	for _, event := range events {
		if matchesFilter(event, filter) {
			filtered = append(filtered, event)
		}
	}
	return filtered, nil
}

func matchesFilter(event AuditEvent, filter EventFilter) bool {
	if len(filter.EventTypes) > 0 {
		found := false
		for _, et := range filter.EventTypes {
			if event.EventType == et {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return filter.Status == "" || event.Status == filter.Status
}

// readAllEvents reads all events from all log segments in chronological order.
func (r *AuditReader) readAllEvents() ([]AuditEvent, error) {
	logFiles, err := GetAllLogFiles(r.logDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get log files: %w", err)
	}

	var allEvents []AuditEvent
	for _, logFile := range logFiles {
		events, err := r.readEventsFromFile(logFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read events from %s: %w", logFile, err)
		}
		allEvents = append(allEvents, events...)
	}

	return allEvents, nil
}

// readEventsFromFile reads all events from a single log file.
func (r *AuditReader) readEventsFromFile(filePath string) ([]AuditEvent, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	var events []AuditEvent
	scanner := bufio.NewScanner(file)

	// Increase buffer size for potentially long lines
	const maxScanTokenSize = 1024 * 1024 // 1MB
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		event, err := UnmarshalJSONLine(line)
		if err != nil {
			return nil, fmt.Errorf("failed to parse line %d: %w", lineNum, err)
		}
		events = append(events, *event)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}

	return events, nil
}

// extractRunInfos groups events by run, skipping system events without a run ID.
func (r *AuditReader) extractRunInfos(events []AuditEvent) []RunInfo {
	runEvents := make(map[RunID][]AuditEvent)
	for _, event := range events {
		if event.RunID == "" {
			continue
		}
		runEvents[event.RunID] = append(runEvents[event.RunID], event)
	}

	runs := make([]RunInfo, 0, len(runEvents))
	for runID, events := range runEvents {
		runs = append(runs, buildRunInfo(runID, events))
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartTime.Before(runs[j].StartTime)
	})

	return runs
}

// buildRunInfo constructs a RunInfo from the events of a single run. Runs
// that never ended are counted from their VALUE_CHECKED events.
func buildRunInfo(runID RunID, events []AuditEvent) RunInfo {
	info := RunInfo{
		RunID:   runID,
		Status:  RunStatusInProgress,
		RunType: RunTypeCheck,
	}

	var counted RunSummary
	files := make(map[string]bool)
	ended := false

	for _, event := range events {
		switch event.EventType {
		case EventRunStart:
			info.StartTime = event.Timestamp
			info.AppVersion = event.Metadata["appVersion"]
			info.MachineID = event.Metadata["machineId"]
			if runType, ok := event.Metadata["runType"]; ok {
				info.RunType = RunType(runType)
			}

		case EventRunEnd:
			endTime := event.Timestamp
			info.EndTime = &endTime
			if status, ok := event.Metadata["status"]; ok {
				info.Status = RunStatus(status)
			}
			info.Summary = parseSummaryFromMetadata(event.Metadata)
			ended = true

		case EventValueChecked:
			files[event.SourcePath] = true
			counted.Values++
			if event.Status == StatusSuccess {
				counted.Passed++
			} else {
				counted.Failed++
			}

		case EventFileError:
			counted.Errors++
		}
	}

	if !ended {
		counted.FilesChecked = len(files)
		info.Summary = counted
	}

	return info
}

// parseSummaryFromMetadata parses RunSummary from RUN_END metadata.
func parseSummaryFromMetadata(metadata map[string]string) RunSummary {
	var summary RunSummary
	summary.FilesChecked, _ = strconv.Atoi(metadata["filesChecked"])
	summary.Values, _ = strconv.Atoi(metadata["values"])
	summary.Passed, _ = strconv.Atoi(metadata["passed"])
	summary.Failed, _ = strconv.Atoi(metadata["failed"])
	summary.Errors, _ = strconv.Atoi(metadata["errors"])
	return summary
}

// GetLogDirectory returns the log directory path.
func (r *AuditReader) GetLogDirectory() string {
	return r.logDir
}
