//go:build linux

package parallel

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// setThreadAffinity pins the calling worker's OS thread to one CPU for
// cache locality. Failures are ignored; pinning is best effort.
func setThreadAffinity(workerID int) {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(workerID % runtime.NumCPU())
	_ = unix.SchedSetaffinity(0, &set)
}
