package waterfalls

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// EnvDirectory is the environment variable naming the default report
// directory when neither a SaveReport argument nor Registry.Directory is
// set.
const EnvDirectory = "WATERFALLS_DIRECTORY"

const (
	reportBaseName = "waterfalls"
	reportFileExt  = ".json"
)

// Record is the wire form of one timing block: the block plus its
// owning timer's name and thread id. Report files are JSON arrays of
// Record.
type Record struct {
	Name           string  `json:"name"`
	Text           *string `json:"text"`
	StartTime      int64   `json:"start_time"`
	StopTime       int64   `json:"stop_time"`
	ThreadDuration int64   `json:"thread_duration"`
	ThreadID       int     `json:"thread_id"`
}

// GenerateReport flattens the registry into records: timers in creation
// order, each timer's blocks in completion order. It is pure and may be
// called any number of times.
func (r *Registry) GenerateReport() []Record {
	var report []Record
	for _, t := range r.snapshot() {
		for _, b := range t.blocks {
			report = append(report, Record{
				Name:           t.Name,
				Text:           b.Text,
				StartTime:      b.StartTime,
				StopTime:       b.StopTime,
				ThreadDuration: b.ThreadDuration,
				ThreadID:       t.ThreadID,
			})
		}
	}
	return report
}

// SaveReport writes the full report as one JSON file. With an empty
// directory argument the target resolves through Registry.Directory,
// then WATERFALLS_DIRECTORY, then the working directory.
//
// An empty registry is a silent no-op. A registry whose timers never
// completed a block emits a diagnostic and writes nothing. Repeated
// saves from the main process overwrite the same file with the latest
// full snapshot.
func (r *Registry) SaveReport(directory string) error {
	return r.saveForRole(directory, CurrentRole())
}

func (r *Registry) saveForRole(directory string, role Role) error {
	if r.Len() == 0 {
		// Runs even when the package is only imported and no timer
		// was ever created.
		return nil
	}

	report := r.GenerateReport()
	if len(report) == 0 {
		emitDiagnostic(Diagnostic{
			Kind:    DiagEmptyReport,
			Message: "no timing block has completed, report will not be saved",
		})
		return nil
	}

	dir := r.reportDirectory(directory)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, reportFileName(role))

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file %s: %w", path, err)
	}

	r.log().Info("waterfalls report saved", map[string]interface{}{
		"file":    path,
		"records": len(report),
	})
	return nil
}

// reportDirectory resolves the target directory by priority: explicit
// argument, registry override, environment variable, working directory.
func (r *Registry) reportDirectory(directory string) string {
	if directory != "" {
		return directory
	}
	if r.Directory != "" {
		return r.Directory
	}
	if dir := os.Getenv(EnvDirectory); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// reportFileName is fixed for the main process and PID-qualified for
// children, so concurrently running processes never write the same
// file.
func reportFileName(role Role) string {
	if role == RoleChild {
		return fmt.Sprintf("%s.%d%s", reportBaseName, os.Getpid(), reportFileExt)
	}
	return reportBaseName + reportFileExt
}
