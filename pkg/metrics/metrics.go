package metrics

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-malsim/pkg/simulation"
)

var _ simulation.Recorder = (*Registry)(nil)

// RecordTick records one applied tick and the sample taken after it
func (r *Registry) RecordTick(result simulation.TickResult, sample simulation.Sample, duration time.Duration) {
	r.TicksTotal.Inc()
	r.TickDuration.Observe(duration.Seconds())
	r.TransitionsTotal.WithLabelValues("spread").Add(float64(len(result.Spread)))
	r.TransitionsTotal.WithLabelValues("escalate").Add(float64(len(result.Escalated)))
	r.TransitionsTotal.WithLabelValues("patch").Add(float64(len(result.Patched)))
	r.setSample(sample)
}

// RecordInteraction records a click and the rule branch it hit
func (r *Registry) RecordInteraction(mode simulation.Mode, result simulation.InteractionResult) {
	r.InteractionsTotal.WithLabelValues(mode.String(), result.Branch.String(), strconv.FormatBool(result.Changed)).Inc()
	if result.Changed && result.Node.Status != simulation.StatusHealthy {
		r.TransitionsTotal.WithLabelValues("click").Inc()
	}
}

// RecordSeed records nodes infected by seeding
func (r *Registry) RecordSeed(ids []int) {
	r.TransitionsTotal.WithLabelValues("seed").Add(float64(len(ids)))
}

// RecordTrojanSpawn records one planted trojan
func (r *Registry) RecordTrojanSpawn() {
	r.TrojansSpawned.Inc()
}

// RecordReset records a rebuilt graph and its first sample
func (r *Registry) RecordReset(nodes, edges int, sample simulation.Sample) {
	r.ResetsTotal.Inc()
	r.NodesTotal.Set(float64(nodes))
	r.EdgesTotal.Set(float64(edges))
	r.setSample(sample)
}

// SetRunning sets the clock state gauge
func (r *Registry) SetRunning(running bool) {
	if running {
		r.Running.Set(1)
	} else {
		r.Running.Set(0)
	}
}

func (r *Registry) setSample(s simulation.Sample) {
	r.NodesByState.WithLabelValues("healthy").Set(float64(s.Healthy))
	r.NodesByState.WithLabelValues("infected").Set(float64(s.Infected))
	r.NodesByState.WithLabelValues("compromised").Set(float64(s.Compromised))
	r.NodesByState.WithLabelValues("patched").Set(float64(s.Patched))
}

// UpdateSystemMetrics refreshes uptime, goroutine and heap gauges
func (r *Registry) UpdateSystemMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	r.UptimeSeconds.Set(time.Since(r.startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(mem.Alloc))
}

// Handler serves the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
