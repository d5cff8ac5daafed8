package waterfalls

import (
	"os"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v3/process"
)

// Role tags the current process as the main program or one of its
// spawned children. Children cannot rely on the parent's exit hooks, so
// the role decides both the report file name and whether Stop flushes
// synchronously.
type Role int

const (
	RoleMain Role = iota
	RoleChild
)

func (r Role) String() string {
	if r == RoleChild {
		return "child"
	}
	return "main"
}

var (
	roleMu       sync.Mutex
	roleResolved bool
	currentRole  Role
)

// SetRole overrides process-role detection. It must be called before the
// first Timer is created to affect report file naming.
func SetRole(r Role) {
	roleMu.Lock()
	defer roleMu.Unlock()
	currentRole = r
	roleResolved = true
}

// CurrentRole returns the role of this process, resolving it on first
// use. Resolution order: SetRole override, the WATERFALLS_ROLE
// environment variable ("main" or "child"), then process lineage: a
// parent running the same executable marks this process as a child.
func CurrentRole() Role {
	roleMu.Lock()
	defer roleMu.Unlock()
	if !roleResolved {
		currentRole = detectRole()
		roleResolved = true
	}
	return currentRole
}

func resetRole() {
	roleMu.Lock()
	defer roleMu.Unlock()
	roleResolved = false
	currentRole = RoleMain
}

func detectRole() Role {
	switch strings.ToLower(os.Getenv("WATERFALLS_ROLE")) {
	case "child":
		return RoleChild
	case "main":
		return RoleMain
	}

	self, err := os.Executable()
	if err != nil {
		return RoleMain
	}
	parent, err := process.NewProcess(int32(os.Getppid()))
	if err != nil {
		return RoleMain
	}
	parentExe, err := parent.Exe()
	if err != nil {
		return RoleMain
	}
	if parentExe == self {
		return RoleChild
	}
	return RoleMain
}
