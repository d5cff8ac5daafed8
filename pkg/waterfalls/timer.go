// Package waterfalls measures the execution time of code blocks and the
// CPU time spent while executing them.
//
// A Timer can be driven directly:
//
//	t := waterfalls.New("some task")
//	t.Start()
//	// do something
//	t.Stop()
//
// as a scope guard:
//
//	waterfalls.New("some task").Do(func() {
//		// do something
//	})
//
// or as a function wrapper:
//
//	timed := waterfalls.New("some task").Wrap(myFunction)
//	timed()
//
// Completed blocks accumulate in a process-wide registry. The registry
// saves a JSON report when the hosting program runs its exit hooks (see
// pkg/shutdown); the waterfalls CLI then aggregates report files from
// any number of processes into one chart.
package waterfalls

// Block is one completed start→stop measurement. Times are monotonic
// nanoseconds, ThreadDuration is CPU nanoseconds consumed by the owning
// thread between Start and Stop.
type Block struct {
	StartTime      int64
	StopTime       int64
	ThreadDuration int64
	Text           *string
}

// Timer records timing blocks under one name. Names are not unique:
// several timers, typically one per goroutine, may share a name and are
// merged by the viewer. A Timer must only be driven by one goroutine;
// the registry append in New is the only cross-goroutine exclusion
// point.
type Timer struct {
	Name     string
	ThreadID int
	Role     Role

	registry *Registry
	blocks   []Block
	text     *string
	running  bool
	startAt  int64
	startCPU int64
}

// Option configures a Timer at construction.
type Option func(*Timer)

// WithText sets the text of the first timing block. Useful with Do and
// Wrap, which offer no per-call text.
func WithText(text string) Option {
	return func(t *Timer) {
		t.text = &text
	}
}

// New creates a Timer registered in the default registry.
func New(name string, opts ...Option) *Timer {
	return Default().NewTimer(name, opts...)
}

// NewTimer creates a Timer bound to this registry. The thread id and
// process role are captured here and stay fixed for the timer's
// lifetime.
func (r *Registry) NewTimer(name string, opts ...Option) *Timer {
	t := &Timer{
		Name:     name,
		ThreadID: currentThreadID(),
		Role:     CurrentRole(),
		registry: r,
	}
	for _, opt := range opts {
		opt(t)
	}
	r.add(t)
	return t
}

// Start opens a timing block. An optional text overrides the pending
// block label. Starting a running timer is rejected with a diagnostic
// and leaves the timer unchanged.
func (t *Timer) Start(text ...string) {
	if t.running {
		emitDiagnostic(Diagnostic{
			Kind:    DiagDoubleStart,
			Timer:   t.Name,
			Message: "timer can't be started twice, use Stop to stop it first",
		})
		return
	}
	if len(text) > 0 {
		t.text = &text[0]
	}
	t.running = true
	t.startAt = monotonicNow()
	t.startCPU = threadCPUNow()
}

// Stop closes the current timing block and appends it to the timer. An
// optional text overrides the block label one last time. Stopping an
// idle timer is rejected with a diagnostic and leaves the timer
// unchanged.
//
// In a child process Stop also flushes the whole registry to disk:
// spawned children do not run the parent's exit hooks, so every Stop
// leaves behind a complete PID-qualified report.
func (t *Timer) Stop(text ...string) {
	if !t.running {
		emitDiagnostic(Diagnostic{
			Kind:    DiagStopWithoutStart,
			Timer:   t.Name,
			Message: "timer hasn't been started yet, use Start to start it first",
		})
		return
	}
	if len(text) > 0 {
		t.text = &text[0]
	}
	t.blocks = append(t.blocks, Block{
		StartTime:      t.startAt,
		StopTime:       monotonicNow(),
		ThreadDuration: threadCPUNow() - t.startCPU,
		Text:           t.text,
	})
	t.running = false
	t.text = nil

	if t.Role == RoleChild {
		if err := t.registry.saveForRole("", RoleChild); err != nil {
			t.registry.log().Error("child report flush failed", map[string]interface{}{
				"timer": t.Name,
				"error": err.Error(),
			})
		}
	}
}

// Do runs fn inside one timing block. Stop runs even if fn panics.
func (t *Timer) Do(fn func()) {
	t.Start()
	defer t.Stop()
	fn()
}

// Wrap returns fn wrapped so that each call is one timing block.
func (t *Timer) Wrap(fn func()) func() {
	return func() {
		t.Do(fn)
	}
}

// WrapErr is Wrap for functions returning an error.
func (t *Timer) WrapErr(fn func() error) func() error {
	return func() error {
		t.Start()
		defer t.Stop()
		return fn()
	}
}

// Blocks returns the completed blocks in completion order. The returned
// slice is shared with the timer and must not be mutated.
func (t *Timer) Blocks() []Block {
	return t.blocks
}
