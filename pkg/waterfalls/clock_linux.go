//go:build linux

package waterfalls

import (
	"time"

	"golang.org/x/sys/unix"
)

// monotonicNow returns CLOCK_MONOTONIC nanoseconds. The clock shares its
// origin (boot) across all processes on the host, so blocks recorded by
// independent processes line up on one axis.
func monotonicNow() int64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return time.Now().UnixNano()
	}
	return ts.Nano()
}

// threadCPUNow returns CPU nanoseconds consumed by the calling OS
// thread. Goroutines migrate between threads; callers wanting exact
// attribution should pin with runtime.LockOSThread.
func threadCPUNow() int64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_THREAD_CPUTIME_ID, &ts); err != nil {
		return 0
	}
	return ts.Nano()
}

// currentThreadID returns the kernel thread id of the calling thread.
func currentThreadID() int {
	return unix.Gettid()
}
