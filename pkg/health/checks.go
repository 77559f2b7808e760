package health

import (
	"runtime"
	"time"
)

// SimpleCheck always reports healthy.
func SimpleCheck(name string) CheckFunc {
	return func() Check {
		return Check{
			Name:        name,
			Status:      StatusHealthy,
			LastChecked: time.Now(),
		}
	}
}

// ProgressCheck reports how far a simulation run has got. A run that has
// not produced its first sample is unhealthy, so /readyz stays red until
// the controller is built and seeded.
func ProgressCheck(progress func() (done, total int, started bool)) CheckFunc {
	return func() Check {
		done, total, started := progress()
		check := Check{
			Name: "run",
			Details: map[string]any{
				"ticks_done":  done,
				"ticks_total": total,
			},
		}

		switch {
		case !started:
			check.Status = StatusUnhealthy
			check.Message = "Not started"
		case done >= total:
			check.Status = StatusHealthy
			check.Message = "Complete"
		default:
			check.Status = StatusHealthy
			check.Message = "Running"
		}
		if total > 0 {
			check.Details["percent"] = float64(done) / float64(total) * 100
		}
		return check
	}
}

// MemoryCheck reports degraded when allocated heap exceeds 90% of the
// memory obtained from the OS.
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "memory",
			Details: make(map[string]any),
		}

		alloc, sys := getUsage()
		check.Details["alloc_bytes"] = alloc
		check.Details["sys_bytes"] = sys

		if sys == 0 {
			check.Status = StatusHealthy
			check.Message = "No usage reported"
			return check
		}

		usagePercent := float64(alloc) / float64(sys) * 100
		check.Details["usage_percent"] = usagePercent
		if usagePercent > 90 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}
		return check
	}
}

// RuntimeMemory reads heap usage from the Go runtime.
func RuntimeMemory() (alloc, sys uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc, m.Sys
}
