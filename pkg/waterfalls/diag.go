package waterfalls

import (
	"sync"

	"github.com/cascadelabs/waterfalls/pkg/logging"
)

// DiagnosticKind identifies a non-fatal misuse or skipped operation.
type DiagnosticKind int

const (
	// DiagDoubleStart means Start was called on a running timer.
	DiagDoubleStart DiagnosticKind = iota
	// DiagStopWithoutStart means Stop was called on an idle timer.
	DiagStopWithoutStart
	// DiagEmptyReport means a save was requested but no block has completed.
	DiagEmptyReport
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagDoubleStart:
		return "double_start"
	case DiagStopWithoutStart:
		return "stop_without_start"
	case DiagEmptyReport:
		return "empty_report"
	default:
		return "unknown"
	}
}

// Diagnostic is a structured warning event emitted by misuse paths.
// Misuse never aborts the instrumented program; it only produces one of
// these.
type Diagnostic struct {
	Kind    DiagnosticKind
	Timer   string
	Message string
}

// DiagnosticHandler receives diagnostics. Handlers must be safe for
// concurrent use.
type DiagnosticHandler func(Diagnostic)

var (
	diagMu      sync.RWMutex
	diagHandler DiagnosticHandler = logDiagnostic
)

// SetDiagnosticHandler replaces the global diagnostic handler and returns
// the previous one. Passing nil restores the default handler, which logs
// the diagnostic at warning level.
func SetDiagnosticHandler(h DiagnosticHandler) DiagnosticHandler {
	diagMu.Lock()
	defer diagMu.Unlock()
	prev := diagHandler
	if h == nil {
		h = logDiagnostic
	}
	diagHandler = h
	return prev
}

func emitDiagnostic(d Diagnostic) {
	diagMu.RLock()
	h := diagHandler
	diagMu.RUnlock()
	h(d)
}

func logDiagnostic(d Diagnostic) {
	logging.Default().Warn(d.Message, map[string]interface{}{
		"kind":  d.Kind.String(),
		"timer": d.Timer,
	})
}
