// Package viewer aggregates waterfalls report files into named, sorted,
// time-scaled groups and renders them as a waterfall chart.
package viewer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/cascadelabs/waterfalls/pkg/logging"
	"github.com/cascadelabs/waterfalls/pkg/waterfalls"
)

// reportFilePattern matches waterfalls.json and the PID-qualified
// waterfalls.<pid>.json written by child processes.
var reportFilePattern = regexp.MustCompile(`^waterfalls(\.\d+)?\.json$`)

// Viewer loads every report file in a directory and turns the merged
// records into a chart. All errors it returns are fatal to the CLI: a
// viewer run without data has nothing to show.
type Viewer struct {
	// Directory holding the report files.
	Directory string
	// Unit is an optional display unit override code (see ParseUnit).
	Unit string
	// ShowThreadID annotates every group with its thread id.
	ShowThreadID bool
	// SeparatorLines draws horizontal lines between chart rows.
	SeparatorLines bool
	// SaveImage writes waterfalls.svg into Directory instead of opening
	// an interactive view.
	SaveImage bool

	log *logging.Logger
}

// New creates a Viewer over the given directory.
func New(directory string) *Viewer {
	return &Viewer{
		Directory: directory,
		log:       logging.Default().WithField("directory", directory),
	}
}

func (v *Viewer) logger() *logging.Logger {
	if v.log == nil {
		v.log = logging.Default().WithField("directory", v.Directory)
	}
	return v.log
}

// ReportFilePaths enumerates report files in directory-listing order.
// A missing directory is an error.
func (v *Viewer) ReportFilePaths() ([]string, error) {
	entries, err := os.ReadDir(v.Directory)
	if err != nil {
		return nil, fmt.Errorf("can't read report directory %s: %w", v.Directory, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !reportFilePattern.MatchString(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(v.Directory, entry.Name()))
	}
	return paths, nil
}

// LoadRecords concatenates the records of all given report files in
// file-enumeration order. No re-sorting happens here; later stages sort
// explicitly. An empty union is an error: there is nothing to show.
func (v *Viewer) LoadRecords(paths []string) ([]waterfalls.Record, error) {
	var records []waterfalls.Record
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("can't read report file %s: %w", path, err)
		}
		var fileRecords []waterfalls.Record
		if err := json.Unmarshal(data, &fileRecords); err != nil {
			return nil, fmt.Errorf("corrupt report file %s: %w", path, err)
		}
		records = append(records, fileRecords...)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no timing blocks found in %s, nothing to show", v.Directory)
	}

	v.logger().Debug("loaded report files", map[string]interface{}{
		"files":   len(paths),
		"records": len(records),
	})
	return records, nil
}

// Load runs discovery and merge in one step.
func (v *Viewer) Load() ([]waterfalls.Record, error) {
	paths, err := v.ReportFilePaths()
	if err != nil {
		return nil, err
	}
	return v.LoadRecords(paths)
}
