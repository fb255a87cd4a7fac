package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRetentionPrunesExpiredSegments(t *testing.T) {
	tempDir := createTempDir(t)
	defer cleanupTempDir(t, tempDir)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	old := "eventdate-audit-20240101-000000-000.jsonl"
	recent := "eventdate-audit-20240530-000000-000.jsonl"

	writeLog(t, tempDir, old,
		AuditEvent{Timestamp: now.AddDate(0, -5, 0), RunID: "run-old", EventType: EventRunStart, Status: StatusSuccess})
	writeLog(t, tempDir, recent,
		AuditEvent{Timestamp: now.AddDate(0, 0, -2), RunID: "run-new", EventType: EventRunStart, Status: StatusSuccess})
	writeLog(t, tempDir, activeLogName,
		AuditEvent{Timestamp: now.AddDate(-1, 0, 0), EventType: EventLogInitialized, Status: StatusSuccess})

	for name, age := range map[string]time.Duration{
		old:           150 * 24 * time.Hour,
		recent:        2 * 24 * time.Hour,
		activeLogName: 365 * 24 * time.Hour,
	} {
		mod := now.Add(-age)
		if err := os.Chtimes(filepath.Join(tempDir, name), mod, mod); err != nil {
			t.Fatal(err)
		}
	}

	config := DefaultAuditConfig()
	config.LogDirectory = tempDir
	config.RetentionDays = 30

	rm := NewRetentionManager(config)
	rm.now = func() time.Time { return now }

	expired, err := rm.CheckRetention()
	if err != nil {
		t.Fatalf("CheckRetention failed: %v", err)
	}
	if len(expired) != 1 || expired[0].Filename != old {
		t.Fatalf("expected only %s to expire, got %+v", old, expired)
	}
	if len(expired[0].RunIDs) != 1 || expired[0].RunIDs[0] != "run-old" {
		t.Errorf("unexpected run IDs: %v", expired[0].RunIDs)
	}

	result, err := rm.Prune(nil)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if len(result.PrunedSegments) != 1 || result.TotalBytesFreed == 0 {
		t.Errorf("unexpected prune result: %+v", result)
	}

	if _, err := os.Stat(filepath.Join(tempDir, old)); !os.IsNotExist(err) {
		t.Error("expired segment still exists")
	}
	for _, name := range []string{recent, activeLogName} {
		if _, err := os.Stat(filepath.Join(tempDir, name)); err != nil {
			t.Errorf("%s should be kept: %v", name, err)
		}
	}
}

func TestRetentionDisabled(t *testing.T) {
	tempDir := createTempDir(t)
	defer cleanupTempDir(t, tempDir)

	name := "eventdate-audit-20200101-000000-000.jsonl"
	writeLog(t, tempDir, name, AuditEvent{Timestamp: time.Now(), EventType: EventLogInitialized, Status: StatusSuccess})
	ancient := time.Now().AddDate(-3, 0, 0)
	if err := os.Chtimes(filepath.Join(tempDir, name), ancient, ancient); err != nil {
		t.Fatal(err)
	}

	config := DefaultAuditConfig()
	config.LogDirectory = tempDir

	result, err := NewRetentionManager(config).Prune(nil)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if len(result.PrunedSegments) != 0 {
		t.Errorf("nothing should be pruned with retention disabled, got %v", result.PrunedSegments)
	}
}

func TestPruneRecordsEvent(t *testing.T) {
	tempDir := createTempDir(t)
	defer cleanupTempDir(t, tempDir)

	name := "eventdate-audit-20200101-000000-000.jsonl"
	writeLog(t, tempDir, name, AuditEvent{Timestamp: time.Now(), RunID: "r", EventType: EventRunStart, Status: StatusSuccess})
	ancient := time.Now().AddDate(-1, 0, 0)
	if err := os.Chtimes(filepath.Join(tempDir, name), ancient, ancient); err != nil {
		t.Fatal(err)
	}

	config := DefaultAuditConfig()
	config.LogDirectory = tempDir
	config.RetentionDays = 7

	writer, err := NewAuditWriter(config)
	if err != nil {
		t.Fatalf("NewAuditWriter failed: %v", err)
	}
	if _, err := NewRetentionManager(config).Prune(writer); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	writer.Close()

	events, err := NewAuditReader(tempDir).readAllEvents()
	if err != nil {
		t.Fatalf("readAllEvents failed: %v", err)
	}
	last := events[len(events)-1]
	if last.EventType != EventRetentionPrune || last.Metadata["prunedSegment"] != name || last.Metadata["prunedRunCount"] != "1" {
		t.Errorf("unexpected last event: %+v", last)
	}
}
