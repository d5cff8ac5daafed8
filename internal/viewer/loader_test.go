package viewer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cascadelabs/waterfalls/pkg/waterfalls"
)

func writeReport(t *testing.T, dir, name string, records []waterfalls.Record) {
	t.Helper()
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("Can't marshal report: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		t.Fatalf("Can't write report file: %v", err)
	}
}

func TestLoadMergesAllReportFiles(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "waterfalls.json", []waterfalls.Record{
		rec("Timer A", 100, 25, 35),
		rec("Timer B", 101, 45, 55),
	})
	writeReport(t, dir, "waterfalls.1.json", []waterfalls.Record{
		rec("Timer C", 100, 40, 50),
		rec("Timer A", 101, 33, 43),
	})
	// Non-report files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.json"), []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}

	v := New(dir)
	paths, err := v.ReportFilePaths()
	if err != nil {
		t.Fatalf("ReportFilePaths failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Expected 2 report files, got %d", len(paths))
	}

	records, err := v.LoadRecords(paths)
	if err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}
	if len(records) != 4 {
		t.Errorf("Expected 4 merged records, got %d", len(records))
	}
}

func TestLoadNonExistentDirectory(t *testing.T) {
	v := New(filepath.Join(t.TempDir(), "nonexistent"))
	if _, err := v.ReportFilePaths(); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}

func TestLoadEmptyReportFiles(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "waterfalls.json", nil)
	writeReport(t, dir, "waterfalls.1.json", nil)

	v := New(dir)
	if _, err := v.Load(); err == nil {
		t.Error("Expected an error when no file holds any record")
	}
}

// TestCompletePipeline runs the whole aggregation chain, from report
// files on disk to formatted, sorted, time-scaled groups.
func TestCompletePipeline(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "waterfalls.json", []waterfalls.Record{
		rec("Timer A", 100, 25, 35),
		rec("Timer B", 101, 45, 55),
	})
	writeReport(t, dir, "waterfalls.1.json", []waterfalls.Record{
		rec("Timer C", 100, 40, 50),
		rec("Timer A", 101, 33, 43),
	})

	v := New(dir)
	records, err := v.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	groups, timeTotal, timeMin := GroupRecords(records)
	groups = FormatGroupNames(groups, false)
	groups = SortGroups(groups, false)

	names := groupNames(groups)
	// Timer A spans two threads and splits even with thread-id display
	// off; its subgroups sort at positions matching their starts.
	want := []string{"Timer A\nthread: 100", "Timer A\nthread: 101", "Timer C", "Timer B"}
	if len(names) != 4 {
		t.Fatalf("Expected 4 display groups, got %d: %v", len(names), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Group %d: got %q, want %q", i, names[i], want[i])
		}
	}

	if timeMin != 25 || timeTotal != 30 {
		t.Errorf("timeMin=%d timeTotal=%d, want 25 and 30", timeMin, timeTotal)
	}

	unit, err := ResolveUnit("", timeTotal)
	if err != nil {
		t.Fatalf("ResolveUnit failed: %v", err)
	}
	if unit.Name != "nanoseconds" {
		t.Errorf("Expected nanoseconds for a 30ns span, got %s", unit.Name)
	}
}

func TestLoadCorruptReportFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "waterfalls.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	v := New(dir)
	if _, err := v.Load(); err == nil {
		t.Error("Expected an error for a corrupt report file")
	}
}
