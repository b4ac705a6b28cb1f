//go:build !linux

package parallel

// setThreadAffinity is a no-op on platforms without an affinity API.
func setThreadAffinity(workerID int) {}
