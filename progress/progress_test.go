package progress

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testAppName(t *testing.T, name string) string {
	appName := fmt.Sprintf("vessel_test_%s_%d", name, time.Now().UnixNano())
	t.Cleanup(func() {
		home, err := os.UserHomeDir()
		if err == nil {
			os.RemoveAll(filepath.Join(home, ".local", "share", appName))
		}
	})
	return appName
}

func TestStoreMemoryOnly(t *testing.T) {
	// A store without a backing manager still tracks the record in memory.
	s := &Store{}

	if err := s.RecordRun(3, 42); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := s.RecordRun(1, 77); err != nil {
		t.Fatalf("record run: %v", err)
	}

	rec := s.Record()
	if rec.Runs != 2 {
		t.Fatalf("runs = %d, want 2", rec.Runs)
	}
	if rec.DeepestFloor != 3 {
		t.Fatalf("deepest floor = %d, want 3 (shallower run must not regress it)", rec.DeepestFloor)
	}
	if rec.LastSeed != 77 {
		t.Fatalf("last seed = %d, want 77", rec.LastSeed)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	appName := testAppName(t, "roundtrip")

	s := Open(appName)
	if s.manager == nil {
		t.Skip("no data dir available")
	}
	if rec := s.Record(); rec != (Record{}) {
		t.Fatalf("fresh store record = %+v, want zero", rec)
	}

	if err := s.RecordRun(5, 1234); err != nil {
		t.Fatalf("record run: %v", err)
	}

	// A second open reads the record back off disk.
	reopened := Open(appName)
	rec := reopened.Record()
	if rec.Runs != 1 || rec.DeepestFloor != 5 || rec.LastSeed != 1234 {
		t.Fatalf("reloaded record = %+v", rec)
	}
}
