package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the simulator
type Registry struct {
	// Population Metrics
	NodesByState *prometheus.GaugeVec
	EdgesTotal   prometheus.Gauge
	NodesTotal   prometheus.Gauge

	// Engine Metrics
	TicksTotal        prometheus.Counter
	TickDuration      prometheus.Histogram
	TransitionsTotal  *prometheus.CounterVec
	InteractionsTotal *prometheus.CounterVec
	TrojansSpawned    prometheus.Counter
	ResetsTotal       prometheus.Counter
	Running           prometheus.Gauge

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry  *prometheus.Registry
	startTime time.Time
	mu        sync.Mutex
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry:  reg,
		startTime: time.Now(),
	}

	r.initPopulationMetrics()
	r.initEngineMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
