//go:build !linux

package waterfalls

import (
	"os"
	"time"
)

// Fallback clocks for platforms without thread CPU clocks. Wall time
// loses the shared cross-process origin, thread CPU time reads as zero
// and the PID stands in for a thread id.

func monotonicNow() int64 {
	return time.Now().UnixNano()
}

func threadCPUNow() int64 {
	return 0
}

func currentThreadID() int {
	return os.Getpid()
}
