// Package shutdown provides a run-at-process-exit registration
// facility. Go has no atexit, so programs must route their terminations
// through a Manager: defer Run in main, or call Exit instead of
// os.Exit. The waterfalls registry registers its report save here;
// child processes must not rely on these hooks and flush on Stop
// instead.
package shutdown

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/cascadelabs/waterfalls/pkg/logging"
)

// Manager holds exit hooks and runs them exactly once, in reverse
// registration order.
type Manager struct {
	mu    sync.Mutex
	hooks []func() error
	once  sync.Once
}

// New creates an empty Manager.
func New() *Manager {
	return &Manager{}
}

var std = New()

// Default returns the process-wide manager.
func Default() *Manager {
	return std
}

// Register adds an exit hook. Hooks run in reverse order (LIFO).
func (m *Manager) Register(fn func() error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

// Run executes all registered hooks once. Hook errors are logged, never
// propagated: an exit path must always reach its end.
func (m *Manager) Run() {
	m.once.Do(func() {
		m.mu.Lock()
		hooks := make([]func() error, len(m.hooks))
		copy(hooks, m.hooks)
		m.mu.Unlock()

		for i := len(hooks) - 1; i >= 0; i-- {
			if err := hooks[i](); err != nil {
				logging.Default().Error("exit hook failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	})
}

// Exit runs the hooks and terminates the process.
func (m *Manager) Exit(code int) {
	m.Run()
	os.Exit(code)
}

// HandleSignals runs the hooks and exits when SIGINT or SIGTERM
// arrives, so interrupted programs still leave a report behind. Call it
// once from main; it spawns its own goroutine and returns immediately.
func (m *Manager) HandleSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigChan
		logging.Default().Info("received signal, running exit hooks", map[string]interface{}{
			"signal": sig.String(),
		})
		m.Exit(1)
	}()
}

// Register adds an exit hook to the default manager.
func Register(fn func() error) {
	std.Register(fn)
}

// Run executes the default manager's hooks.
func Run() {
	std.Run()
}

// Exit runs the default manager's hooks and terminates the process.
func Exit(code int) {
	std.Exit(code)
}
