package viewer

import (
	"fmt"
	"image/color"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/cascadelabs/waterfalls/pkg/waterfalls"
)

const (
	imageFileName = "waterfalls.svg"
	barHalfHeight = 0.35
	rowHeight     = 0.6 * vg.Inch
	chartWidth    = 12 * vg.Inch
)

// Render runs the full pipeline: load, merge, group, name, sort,
// time-scale, draw. With SaveImage set the chart lands in
// Directory/waterfalls.svg, otherwise it is written to a temporary file
// and handed to the platform opener.
func (v *Viewer) Render() error {
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

	p, err := v.buildPlot(groups, unit, timeMin)
	if err != nil {
		return err
	}

	height := rowHeight*vg.Length(len(groups)) + 1.5*vg.Inch

	if v.SaveImage {
		path := filepath.Join(v.Directory, imageFileName)
		if err := p.Save(chartWidth, height, path); err != nil {
			return fmt.Errorf("can't save chart image: %w", err)
		}
		v.logger().Info("chart image saved", map[string]interface{}{"file": path})
		return nil
	}

	path := filepath.Join(os.TempDir(), imageFileName)
	if err := p.Save(chartWidth, height, path); err != nil {
		return fmt.Errorf("can't save chart image: %w", err)
	}
	if err := openFile(path); err != nil {
		// Headless environments have no opener; the chart still exists.
		fmt.Printf("Chart written to %s\n", path)
	}
	return nil
}

func (v *Viewer) buildPlot(groups []Group, unit TimeUnit, timeMin int64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "waterfalls"
	p.X.Label.Text = fmt.Sprintf("time [%s]", unit.Suffix)

	names := make([]string, len(groups))
	for i, g := range groups {
		// First group on the top row.
		row := float64(len(groups) - 1 - i)
		names[len(groups)-1-i] = g.Name

		bars := &ganttBars{
			row:   row,
			color: plotutil.Color(i),
		}
		var labels plotter.XYLabels
		for _, rec := range g.Records {
			start := scale(rec.StartTime-timeMin, unit)
			stop := scale(rec.StopTime-timeMin, unit)
			bars.spans = append(bars.spans, span{start: start, stop: stop})
			if rec.Text != nil && *rec.Text != "" {
				labels.XYs = append(labels.XYs, plotter.XY{X: start, Y: row})
				labels.Labels = append(labels.Labels, *rec.Text)
			}
		}
		p.Add(bars)

		if len(labels.Labels) > 0 {
			l, err := plotter.NewLabels(labels)
			if err != nil {
				return nil, fmt.Errorf("can't build block labels: %w", err)
			}
			p.Add(l)
		}

		if sortedOverlap(g.Records) {
			v.logger().Debug("group has overlapping blocks", map[string]interface{}{
				"group": g.Name,
			})
		}
	}
	p.NominalY(names...)

	if v.SeparatorLines {
		p.Add(&rowSeparators{rows: len(groups)})
	}
	return p, nil
}

// sortedOverlap sorts a copy of the records by start time and runs the
// advisory overlap check on it.
func sortedOverlap(records []waterfalls.Record) bool {
	sorted := make([]waterfalls.Record, len(records))
	copy(sorted, records)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].StartTime < sorted[j-1].StartTime; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return DetectOverlap(sorted)
}

func scale(ns int64, unit TimeUnit) float64 {
	return float64(ns) / float64(unit.Divisor)
}

type span struct {
	start, stop float64
}

// ganttBars draws one group's blocks as horizontal bars on one row.
type ganttBars struct {
	row   float64
	spans []span
	color color.Color
}

func (g *ganttBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	y0 := trY(g.row - barHalfHeight)
	y1 := trY(g.row + barHalfHeight)
	for _, s := range g.spans {
		x0 := trX(s.start)
		x1 := trX(s.stop)
		if x1-x0 < vg.Points(1) {
			// Keep zero-length blocks visible.
			x1 = x0 + vg.Points(1)
		}
		c.FillPolygon(g.color, []vg.Point{
			{X: x0, Y: y0},
			{X: x1, Y: y0},
			{X: x1, Y: y1},
			{X: x0, Y: y1},
		})
	}
}

func (g *ganttBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = 0, 0
	for i, s := range g.spans {
		if i == 0 || s.start < xmin {
			xmin = s.start
		}
		if s.stop > xmax {
			xmax = s.stop
		}
	}
	return xmin, xmax, g.row - 0.5, g.row + 0.5
}

// rowSeparators draws faint horizontal lines between chart rows.
type rowSeparators struct {
	rows int
}

func (r *rowSeparators) Plot(c draw.Canvas, plt *plot.Plot) {
	_, trY := plt.Transforms(&c)
	style := draw.LineStyle{
		Color: color.Gray{Y: 200},
		Width: vg.Points(0.5),
	}
	for i := 0; i < r.rows-1; i++ {
		y := trY(float64(i) + 0.5)
		c.StrokeLine2(style, c.Min.X, y, c.Max.X, y)
	}
}

func openFile(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
