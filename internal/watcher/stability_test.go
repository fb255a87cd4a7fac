package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewStabilityChecker_IntervalFloor(t *testing.T) {
	s := NewStabilityChecker(100 * time.Millisecond)
	if s.interval != 50*time.Millisecond {
		t.Errorf("expected 50ms interval floor, got %v", s.interval)
	}
	if s.timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", s.timeout)
	}

	s = NewStabilityChecker(2 * time.Second)
	if s.interval != 500*time.Millisecond || s.GetThreshold() != 2*time.Second {
		t.Errorf("unexpected checker: %+v", s)
	}
}

func TestStabilityChecker_WaitForStable_StableFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "values.txt")
	if err := os.WriteFile(tmpFile, []byte("1880-05-08\n"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	s := NewStabilityCheckerWithOptions(100*time.Millisecond, 2*time.Second, 25*time.Millisecond)
	if err := s.WaitForStable(tmpFile); err != nil {
		t.Errorf("expected no error for stable file, got %v", err)
	}
}

func TestStabilityChecker_WaitForStable_NonExistentFile(t *testing.T) {
	s := NewStabilityChecker(100 * time.Millisecond)

	if err := s.WaitForStable("/nonexistent/path/values.txt"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestStabilityChecker_WaitForStable_FileBeingWritten(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "values.txt")
	if err := os.WriteFile(tmpFile, []byte("1880\n"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	s := NewStabilityCheckerWithOptions(150*time.Millisecond, 3*time.Second, 25*time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 3; i++ {
			time.Sleep(50 * time.Millisecond)
			f, err := os.OpenFile(tmpFile, os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				return
			}
			f.WriteString("1881\n")
			f.Close()
		}
	}()

	start := time.Now()
	err := s.WaitForStable(tmpFile)
	<-done

	if err != nil {
		t.Errorf("expected file to eventually stabilize, got %v", err)
	}
	// Writes keep going for ~150ms, then the threshold must pass.
	if elapsed := time.Since(start); elapsed < 250*time.Millisecond {
		t.Errorf("returned after %v, before the writes settled", elapsed)
	}
}

func TestStabilityChecker_Timeout(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "values.txt")
	if err := os.WriteFile(tmpFile, nil, 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStabilityCheckerWithOptions(time.Hour, 100*time.Millisecond, 20*time.Millisecond)
	if err := s.WaitForStable(tmpFile); !errors.Is(err, ErrFileUnstable) {
		t.Errorf("expected ErrFileUnstable, got %v", err)
	}
}

func TestStabilityChecker_WaitForStableWithContext_Cancelled(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "values.txt")
	if err := os.WriteFile(tmpFile, nil, 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStabilityCheckerWithOptions(time.Hour, time.Minute, 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	if err := s.WaitForStableWithContext(ctx, tmpFile); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStabilityChecker_FileDeletedDuringWait(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "values.txt")
	if err := os.WriteFile(tmpFile, []byte("1880\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStabilityCheckerWithOptions(time.Second, 5*time.Second, 20*time.Millisecond)
	go func() {
		time.Sleep(50 * time.Millisecond)
		os.Remove(tmpFile)
	}()

	if err := s.WaitForStable(tmpFile); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}
