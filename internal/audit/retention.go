package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// RetentionManager prunes rotated log segments that have aged past the
// configured retention period. The active log is never pruned.
type RetentionManager struct {
	config AuditConfig
	reader *AuditReader
	now    func() time.Time
}

// NewRetentionManager creates a new RetentionManager with the given configuration.
func NewRetentionManager(config AuditConfig) *RetentionManager {
	return &RetentionManager{
		config: config,
		reader: NewAuditReader(config.LogDirectory),
		now:    time.Now,
	}
}

// SegmentRunInfo describes one rotated segment and the runs it holds.
type SegmentRunInfo struct {
	Filename string
	FilePath string
	Size     int64
	ModTime  time.Time
	RunIDs   []RunID
}

// PruneResult contains the result of a pruning operation.
type PruneResult struct {
	PrunedSegments  []string // Filenames of pruned segments
	PrunedRuns      []RunID  // Run IDs with events in pruned segments
	TotalBytesFreed int64
}

// CheckRetention returns the rotated segments last written more than
// RetentionDays ago, oldest first.
func (rm *RetentionManager) CheckRetention() ([]SegmentRunInfo, error) {
	if rm.config.RetentionDays <= 0 {
		return nil, nil
	}

	segments, err := DiscoverSegments(rm.config.LogDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to discover segments: %w", err)
	}

	cutoff := rm.now().Add(-time.Duration(rm.config.RetentionDays) * 24 * time.Hour)

	var expired []SegmentRunInfo
	for _, name := range segments {
		path := filepath.Join(rm.config.LogDirectory, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		seg := SegmentRunInfo{
			Filename: name,
			FilePath: path,
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		}

		// An unreadable segment is still pruned; it just reports no runs.
		if events, err := rm.reader.readEventsFromFile(path); err == nil {
			seen := make(map[RunID]bool)
			for _, event := range events {
				if event.RunID != "" && !seen[event.RunID] {
					seen[event.RunID] = true
					seg.RunIDs = append(seg.RunIDs, event.RunID)
				}
			}
		}

		expired = append(expired, seg)
	}

	return expired, nil
}

// Prune removes expired segments. When writer is non-nil a RETENTION_PRUNE
// event is recorded before each segment is deleted.
func (rm *RetentionManager) Prune(writer *AuditWriter) (*PruneResult, error) {
	expired, err := rm.CheckRetention()
	if err != nil {
		return nil, err
	}

	result := &PruneResult{}
	for _, seg := range expired {
		if writer != nil {
			if err := writer.WriteEvent(CreateRetentionPruneEvent(seg.Filename, seg.RunIDs)); err != nil {
				return result, fmt.Errorf("failed to write RETENTION_PRUNE event: %w", err)
			}
		}

		if err := os.Remove(seg.FilePath); err != nil {
			return result, fmt.Errorf("failed to remove segment %s: %w", seg.Filename, err)
		}

		result.PrunedSegments = append(result.PrunedSegments, seg.Filename)
		result.PrunedRuns = append(result.PrunedRuns, seg.RunIDs...)
		result.TotalBytesFreed += seg.Size
	}

	return result, nil
}

// CreateRetentionPruneEvent creates a RETENTION_PRUNE event.
func CreateRetentionPruneEvent(filename string, prunedRunIDs []RunID) AuditEvent {
	return AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventRetentionPrune,
		Status:    StatusSuccess,
		Metadata: map[string]string{
			"prunedSegment":  filename,
			"prunedRunCount": strconv.Itoa(len(prunedRunIDs)),
		},
	}
}
