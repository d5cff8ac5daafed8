package viewer

import (
	"reflect"
	"testing"

	"github.com/cascadelabs/waterfalls/pkg/waterfalls"
)

func rec(name string, threadID int, start, stop int64) waterfalls.Record {
	return waterfalls.Record{
		Name:      name,
		ThreadID:  threadID,
		StartTime: start,
		StopTime:  stop,
	}
}

func TestDetectOverlap(t *testing.T) {
	// Blocks do not overlap.
	records := []waterfalls.Record{rec("t", 1, 25, 31), rec("t", 1, 35, 42)}
	if DetectOverlap(records) {
		t.Error("Disjoint blocks flagged as overlapping")
	}

	// Blocks touch.
	records = []waterfalls.Record{rec("t", 1, 25, 31), rec("t", 1, 31, 42)}
	if DetectOverlap(records) {
		t.Error("Touching blocks flagged as overlapping")
	}

	// Blocks overlap.
	records = []waterfalls.Record{rec("t", 1, 25, 31), rec("t", 1, 30, 42)}
	if !DetectOverlap(records) {
		t.Error("Overlapping blocks not detected")
	}
}

func TestGroupRecords(t *testing.T) {
	records := []waterfalls.Record{
		rec("Timer A", 100, 25, 35),
		rec("Timer B", 101, 45, 55),
		rec("Timer C", 100, 40, 50),
		rec("Timer A", 101, 33, 43),
	}

	groups, timeTotal, timeMin := GroupRecords(records)

	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}
	names := []string{groups[0].Name, groups[1].Name, groups[2].Name}
	if !reflect.DeepEqual(names, []string{"Timer A", "Timer B", "Timer C"}) {
		t.Errorf("Groups out of merge order: %v", names)
	}
	if len(groups[0].Records) != 2 {
		t.Errorf("Timer A should have 2 records, got %d", len(groups[0].Records))
	}
	if timeMin != 25 {
		t.Errorf("timeMin: got %d, want 25", timeMin)
	}
	if timeTotal != 30 {
		t.Errorf("timeTotal: got %d, want 30", timeTotal)
	}
}

func TestGroupRecordsEmpty(t *testing.T) {
	groups, timeTotal, timeMin := GroupRecords(nil)
	if groups != nil || timeTotal != 0 || timeMin != 0 {
		t.Errorf("Empty input should produce nothing, got %v, %d, %d", groups, timeTotal, timeMin)
	}
}

func TestFormatGroupNames(t *testing.T) {
	groups, _, _ := GroupRecords([]waterfalls.Record{
		rec("Timer A", 100, 25, 35),
		rec("Timer A", 101, 33, 43),
		rec("Timer B", 101, 45, 55),
		rec("Timer C", 100, 40, 50),
	})

	// Thread-id display off: only multi-threaded names split.
	formatted := FormatGroupNames(groups, false)
	names := groupNames(formatted)
	want := []string{"Timer A\nthread: 100", "Timer A\nthread: 101", "Timer B", "Timer C"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Formatted names: got %v, want %v", names, want)
	}
	for _, g := range formatted {
		if len(g.Records) != 1 {
			t.Errorf("Group %q should hold 1 record, got %d", g.Name, len(g.Records))
		}
	}

	// Thread-id display on: every name annotated.
	formatted = FormatGroupNames(groups, true)
	names = groupNames(formatted)
	want = []string{"Timer A\nthread: 100", "Timer A\nthread: 101", "Timer B\nthread: 101", "Timer C\nthread: 100"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Formatted names with thread ids: got %v, want %v", names, want)
	}
}

func TestSortGroups(t *testing.T) {
	groups := []Group{
		{Name: "Timer B", Records: []waterfalls.Record{rec("Timer B", 100, 45, 55)}},
		{Name: "Timer A", Records: []waterfalls.Record{rec("Timer A", 101, 25, 35)}},
		{Name: "Timer C", Records: []waterfalls.Record{rec("Timer C", 101, 40, 50)}},
		{Name: "Timer D", Records: []waterfalls.Record{rec("Timer D", 100, 33, 43)}},
	}

	sorted := SortGroups(groups, false)
	names := groupNames(sorted)
	want := []string{"Timer A", "Timer D", "Timer C", "Timer B"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Default sort: got %v, want %v", names, want)
	}

	sorted = SortGroups(groups, true)
	names = groupNames(sorted)
	want = []string{"Timer D", "Timer B", "Timer A", "Timer C"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Thread sort: got %v, want %v", names, want)
	}
}

func groupNames(groups []Group) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return names
}
