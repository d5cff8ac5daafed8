package viewer

import (
	"fmt"
	"sort"

	"github.com/cascadelabs/waterfalls/pkg/waterfalls"
)

// Group is one display row candidate: a name and its records in merge
// order.
type Group struct {
	Name    string
	Records []waterfalls.Record
}

// DetectOverlap reports whether any two [start, stop) intervals
// intersect. Records must already be sorted by start time; touching
// endpoints do not count. The result is advisory, a hint whether a
// group's blocks can safely share one chart row.
func DetectOverlap(records []waterfalls.Record) bool {
	for i := 1; i < len(records); i++ {
		if records[i].StartTime < records[i-1].StopTime {
			return true
		}
	}
	return false
}

// GroupRecords groups merged records by timer name, preserving merge
// order both across groups (order of first occurrence) and within each
// group. It also computes, across all records, the minimum start time
// and the total span max(stop) − min(start).
func GroupRecords(records []waterfalls.Record) (groups []Group, timeTotal, timeMin int64) {
	if len(records) == 0 {
		return nil, 0, 0
	}

	index := make(map[string]int)
	timeMin = records[0].StartTime
	timeMax := records[0].StopTime

	for _, rec := range records {
		i, ok := index[rec.Name]
		if !ok {
			i = len(groups)
			index[rec.Name] = i
			groups = append(groups, Group{Name: rec.Name})
		}
		groups[i].Records = append(groups[i].Records, rec)

		if rec.StartTime < timeMin {
			timeMin = rec.StartTime
		}
		if rec.StopTime > timeMax {
			timeMax = rec.StopTime
		}
	}
	return groups, timeMax - timeMin, timeMin
}

// FormatGroupNames produces the final display name per group. A name
// recorded from more than one thread always splits into one sub-group
// per thread id, labeled "<name>\nthread: <id>". Single-thread names
// stay bare unless showThreadID asks for the annotation everywhere.
// Sub-groups appear in order of their thread id's first record.
func FormatGroupNames(groups []Group, showThreadID bool) []Group {
	var formatted []Group
	for _, g := range groups {
		threads := distinctThreads(g.Records)
		if len(threads) == 1 && !showThreadID {
			formatted = append(formatted, g)
			continue
		}
		byThread := make(map[int]int)
		for _, rec := range g.Records {
			i, ok := byThread[rec.ThreadID]
			if !ok {
				i = len(formatted)
				byThread[rec.ThreadID] = i
				formatted = append(formatted, Group{
					Name: fmt.Sprintf("%s\nthread: %d", g.Name, rec.ThreadID),
				})
			}
			formatted[i].Records = append(formatted[i].Records, rec)
		}
	}
	return formatted
}

func distinctThreads(records []waterfalls.Record) []int {
	seen := make(map[int]struct{})
	var threads []int
	for _, rec := range records {
		if _, ok := seen[rec.ThreadID]; !ok {
			seen[rec.ThreadID] = struct{}{}
			threads = append(threads, rec.ThreadID)
		}
	}
	return threads
}

// SortGroups orders groups by the start time of their first record. With
// byThread set, groups order primarily by thread id, then by first
// start, which lines up each thread's rows next to each other.
func SortGroups(groups []Group, byThread bool) []Group {
	sorted := make([]Group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Records[0], sorted[j].Records[0]
		if byThread && a.ThreadID != b.ThreadID {
			return a.ThreadID < b.ThreadID
		}
		return a.StartTime < b.StartTime
	})
	return sorted
}
