package viewer

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
)

// WriteSummary prints one table row per display group: block count,
// wall-clock total, thread CPU total and the time span covered. It uses
// the same load/group/name/sort pipeline as Render.
func (v *Viewer) WriteSummary(w io.Writer) error {
	records, err := v.Load()
	if err != nil {
		return err
	}

	groups, timeTotal, timeMin := GroupRecords(records)
	groups = FormatGroupNames(groups, v.ShowThreadID)
	groups = SortGroups(groups, v.ShowThreadID)

	unit, err := ResolveUnit(v.Unit, timeTotal)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Timer", "Blocks", "Wall", "CPU", "Span")

	for _, g := range groups {
		var wall, cpu int64
		first := g.Records[0].StartTime
		last := g.Records[0].StopTime
		for _, rec := range g.Records {
			wall += rec.StopTime - rec.StartTime
			cpu += rec.ThreadDuration
			if rec.StartTime < first {
				first = rec.StartTime
			}
			if rec.StopTime > last {
				last = rec.StopTime
			}
		}
		table.Append(
			g.Name,
			fmt.Sprintf("%d", len(g.Records)),
			formatValue(wall, unit),
			formatValue(cpu, unit),
			fmt.Sprintf("%s – %s", formatValue(first-timeMin, unit), formatValue(last-timeMin, unit)),
		)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("can't render summary table: %w", err)
	}
	fmt.Fprintf(w, "Total: %s over %d blocks in %d groups\n",
		time.Duration(timeTotal), len(records), len(groups))
	return nil
}

func formatValue(ns int64, unit TimeUnit) string {
	return fmt.Sprintf("%.3f %s", scale(ns, unit), unit.Suffix)
}
