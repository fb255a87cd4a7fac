package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	activeLogName  = "eventdate-audit.jsonl"
	segmentPrefix  = "eventdate-audit-"
	segmentSuffix  = ".jsonl"
	rotationDaily  = "daily"
	rotationWeekly = "weekly"
	rotationNone   = ""
)

// RotationManager decides when the active log is full and renames it to a
// timestamped segment.
type RotationManager struct {
	config AuditConfig
	now    func() time.Time
	last   time.Time
}

// NewRotationManager creates a new RotationManager with the given configuration.
func NewRotationManager(config AuditConfig) *RotationManager {
	return &RotationManager{
		config: config,
		now:    time.Now,
	}
}

// NeedsRotation checks if the current log file needs rotation based on size or time.
func (rm *RotationManager) NeedsRotation(logPath string) (bool, error) {
	info, err := os.Stat(logPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat log file: %w", err)
	}

	if rm.config.RotationSize > 0 && info.Size() >= rm.config.RotationSize {
		return true, nil
	}

	return rm.needsTimeBasedRotation(info.ModTime())
}

// needsTimeBasedRotation checks if the file was last written in an earlier period.
func (rm *RotationManager) needsTimeBasedRotation(lastModTime time.Time) (bool, error) {
	now := rm.now()

	switch rm.config.RotationPeriod {
	case rotationDaily:
		ly, lm, ld := lastModTime.Date()
		ny, nm, nd := now.Date()
		return ly != ny || lm != nm || ld != nd, nil

	case rotationWeekly:
		lastYear, lastWeek := lastModTime.ISOWeek()
		currentYear, currentWeek := now.ISOWeek()
		return lastYear != currentYear || lastWeek != currentWeek, nil

	case rotationNone:
		return false, nil

	default:
		return false, fmt.Errorf("unknown rotation period: %s", rm.config.RotationPeriod)
	}
}

// GenerateRotatedFilename creates a filename for a rotated log segment.
// Format: eventdate-audit-YYYYMMDD-HHMMSS-NNN.jsonl. Names from one manager
// strictly increase, even for rotations within the same millisecond.
func (rm *RotationManager) GenerateRotatedFilename() string {
	now := rm.now().Truncate(time.Millisecond)
	if !rm.last.IsZero() && !now.After(rm.last) {
		now = rm.last.Add(time.Millisecond)
	}
	rm.last = now
	return fmt.Sprintf("%s%s-%03d%s", segmentPrefix, now.Format("20060102-150405"), now.Nanosecond()/1000000, segmentSuffix)
}

// RotateWithFilename renames the active log to rotatedFilename in the same directory.
func (rm *RotationManager) RotateWithFilename(logPath, rotatedFilename string) (string, error) {
	rotatedPath := filepath.Join(filepath.Dir(logPath), rotatedFilename)

	if err := os.Rename(logPath, rotatedPath); err != nil {
		return "", fmt.Errorf("failed to rename log file during rotation: %w", err)
	}

	return rotatedPath, nil
}

// DiscoverSegments finds all rotated log segments in the directory, oldest first.
func DiscoverSegments(logDir string) ([]string, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read log directory: %w", err)
	}

	var segments []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, segmentPrefix) && strings.HasSuffix(name, segmentSuffix) && name != activeLogName {
			segments = append(segments, name)
		}
	}

	// The timestamp in the name sorts chronologically.
	sort.Strings(segments)

	return segments, nil
}

// GetAllLogFiles returns all log files in chronological order (oldest first):
// the rotated segments followed by the active log.
func GetAllLogFiles(logDir string) ([]string, error) {
	segments, err := DiscoverSegments(logDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, seg := range segments {
		files = append(files, filepath.Join(logDir, seg))
	}

	activeLog := filepath.Join(logDir, activeLogName)
	if _, err := os.Stat(activeLog); err == nil {
		files = append(files, activeLog)
	}

	return files, nil
}

// CreateRotationEvent creates a ROTATION event to be written before switching files.
func CreateRotationEvent(runID RunID, oldFile, newFile string) AuditEvent {
	return AuditEvent{
		Timestamp: time.Now().UTC(),
		RunID:     runID,
		EventType: EventRotation,
		Status:    StatusSuccess,
		Metadata: map[string]string{
			"previousFile": oldFile,
			"newFile":      newFile,
		},
	}
}
