// Package health serves liveness and readiness probes for the headless
// runner's HTTP endpoint.
package health

import (
	"time"
)

// NewChecker creates a checker with no probes registered.
func NewChecker() *Checker {
	return &Checker{
		started:     time.Now(),
		checks:      make(map[string]CheckFunc),
		readyChecks: make(map[string]CheckFunc),
		liveChecks:  make(map[string]CheckFunc),
	}
}

// Register adds a probe to the general health report.
func (c *Checker) Register(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// RegisterReadiness adds a probe that gates /readyz.
func (c *Checker) RegisterReadiness(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readyChecks[name] = check
}

// RegisterLiveness adds a probe that gates /livez.
func (c *Checker) RegisterLiveness(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.liveChecks[name] = check
}

// Check runs the general probes.
func (c *Checker) Check() Response {
	return c.run(func() map[string]CheckFunc { return c.checks })
}

// CheckReadiness runs the readiness probes
func (c *Checker) CheckReadiness() Response {
	return c.run(func() map[string]CheckFunc { return c.readyChecks })
}

// CheckLiveness runs the liveness probes
func (c *Checker) CheckLiveness() Response {
	return c.run(func() map[string]CheckFunc { return c.liveChecks })
}

// run copies the probe set under the lock and calls the probes outside it,
// so a slow probe never blocks registration.
func (c *Checker) run(set func() map[string]CheckFunc) Response {
	c.mu.RLock()
	probes := make(map[string]CheckFunc, len(set()))
	for name, fn := range set() {
		probes[name] = fn
	}
	c.mu.RUnlock()

	now := time.Now()
	response := Response{
		Status:    StatusHealthy,
		Timestamp: now,
		Checks:    make(map[string]Check, len(probes)),
		Uptime:    now.Sub(c.started),
	}

	for name, fn := range probes {
		start := time.Now()
		check := fn()
		check.Duration = time.Since(start)
		check.LastChecked = start
		if check.Name == "" {
			check.Name = name
		}
		response.Checks[name] = check
		response.Status = worst(response.Status, check.Status)
	}
	return response
}

func worst(a, b Status) Status {
	rank := func(s Status) int {
		switch s {
		case StatusUnhealthy:
			return 2
		case StatusDegraded:
			return 1
		default:
			return 0
		}
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}
