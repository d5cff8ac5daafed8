package waterfalls

import (
	"sync"

	"github.com/cascadelabs/waterfalls/pkg/logging"
	"github.com/cascadelabs/waterfalls/pkg/shutdown"
)

// Registry is the process-scoped, append-only collection of timers.
// Timers register themselves at construction; the append is the only
// operation serialized across goroutines. At normal process exit the
// registry saves its report through pkg/shutdown.
//
// Most programs use the package-level Default registry implicitly via
// New. Tests and hosts wanting isolation can construct their own with
// NewRegistry and create timers through Registry.NewTimer.
type Registry struct {
	mu     sync.Mutex
	timers []*Timer

	// Directory overrides the report directory for this registry. It
	// ranks below an explicit SaveReport argument and above the
	// WATERFALLS_DIRECTORY environment variable.
	Directory string

	hookOnce sync.Once
	hooks    *shutdown.Manager
}

// NewRegistry creates an empty registry whose exit-time save registers
// into the given shutdown manager. A nil manager means no automatic
// save; SaveReport can still be called explicitly.
func NewRegistry(hooks *shutdown.Manager) *Registry {
	return &Registry{hooks: hooks}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(shutdown.Default())
	})
	return defaultRegistry
}

func (r *Registry) add(t *Timer) {
	r.mu.Lock()
	r.timers = append(r.timers, t)
	r.mu.Unlock()

	if r.hooks != nil {
		r.hookOnce.Do(func() {
			r.hooks.Register(func() error {
				return r.SaveReport("")
			})
		})
	}
}

// snapshot copies the timer list so report generation does not hold the
// lock while walking blocks.
func (r *Registry) snapshot() []*Timer {
	r.mu.Lock()
	defer r.mu.Unlock()
	timers := make([]*Timer, len(r.timers))
	copy(timers, r.timers)
	return timers
}

// Len reports how many timers have been registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Reset drops all registered timers and the directory override. It
// exists for test isolation; production code never removes registry
// entries.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timers = nil
	r.Directory = ""
}

func (r *Registry) log() *logging.Logger {
	return logging.Default()
}
