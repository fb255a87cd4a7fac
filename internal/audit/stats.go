package audit

import (
	"fmt"
	"sort"
	"time"
)

// AuditStats contains aggregate metrics across all recorded runs.
type AuditStats struct {
	TotalRuns   int            // Runs started
	TotalValues int            // Values checked
	TotalPassed int            // Values that passed every measure
	TotalFailed int            // Values that failed a measure
	TotalErrors int            // Files that could not be read
	ByReason    map[string]int // Failed values per reason code (top N)
	ByFormat    map[string]int // Checked values per format (top N)
	FirstRun    time.Time      // Earliest run timestamp
	LastRun     time.Time      // Most recent run timestamp
}

// StatsOptions configures stats aggregation.
type StatsOptions struct {
	Since *time.Time // Filter to runs started at or after this time
	TopN  int        // Number of top reasons and formats to keep (0 = all)
}

// AggregateStats computes metrics across all audit logs in logDir.
// Counts come from VALUE_CHECKED and FILE_ERROR events, so interrupted runs
// are included.
func AggregateStats(logDir string, opts StatsOptions) (*AuditStats, error) {
	reader := NewAuditReader(logDir)

	events, err := reader.readAllEvents()
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	stats := &AuditStats{}
	reasons := make(map[string]int)
	formats := make(map[string]int)
	included := make(map[RunID]bool)

	for _, run := range reader.extractRunInfos(events) {
		if opts.Since != nil && run.StartTime.Before(*opts.Since) {
			continue
		}
		included[run.RunID] = true
		stats.TotalRuns++

		if stats.FirstRun.IsZero() || run.StartTime.Before(stats.FirstRun) {
			stats.FirstRun = run.StartTime
		}
		if run.StartTime.After(stats.LastRun) {
			stats.LastRun = run.StartTime
		}
	}

	for _, event := range events {
		if !included[event.RunID] {
			continue
		}

		switch event.EventType {
		case EventValueChecked:
			stats.TotalValues++
			if event.Status == StatusSuccess {
				stats.TotalPassed++
			} else {
				stats.TotalFailed++
				reasons[event.ReasonCode]++
			}
			if event.Check != nil && event.Check.Format != "" {
				formats[event.Check.Format]++
			}

		case EventFileError:
			stats.TotalErrors++
		}
	}

	stats.ByReason = filterTopN(reasons, opts.TopN)
	stats.ByFormat = filterTopN(formats, opts.TopN)

	return stats, nil
}

// filterTopN returns the top N entries from a map by value.
// If n <= 0, returns all entries.
func filterTopN(counts map[string]int, n int) map[string]int {
	if n <= 0 || len(counts) <= n {
		result := make(map[string]int, len(counts))
		for k, v := range counts {
			result[k] = v
		}
		return result
	}

	type kv struct {
		key   string
		value int
	}
	var sorted []kv
	for k, v := range counts {
		sorted = append(sorted, kv{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		// Ties broken by key for stable output
		if sorted[i].value != sorted[j].value {
			return sorted[i].value > sorted[j].value
		}
		return sorted[i].key < sorted[j].key
	})

	result := make(map[string]int, n)
	for i := 0; i < n; i++ {
		result[sorted[i].key] = sorted[i].value
	}

	return result
}

// SortedCounts returns the entries of counts ordered by count descending,
// then key ascending.
func SortedCounts(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
