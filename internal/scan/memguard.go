package scan

import "runtime"

const defaultMemoryThresholdBytes = 200 * 1024 * 1024

// memoryExceeded reports whether the process's current heap usage exceeds
// thresholdBytes, per spec.md §4.4's memory guard. runtime.MemStats.Sys is
// used as a process-memory proxy since Go has no direct cross-platform RSS
// read without shelling out; it is the same stdlib-only signal the guard
// can get without a new dependency (see DESIGN.md).
func memoryExceeded(thresholdBytes uint64) bool {
	if thresholdBytes == 0 {
		thresholdBytes = defaultMemoryThresholdBytes
	}
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.Sys > thresholdBytes
}

// halveBatchSize halves n, with a floor of 1, per spec.md §4.4.
func halveBatchSize(n int) int {
	n /= 2
	if n < 1 {
		return 1
	}
	return n
}
