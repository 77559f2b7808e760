package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPopulationMetrics() {
	r.NodesByState = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "malsim_nodes",
			Help: "Nodes by state after the latest sample; patched overlaps the others",
		},
		[]string{"state"},
	)

	r.NodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "malsim_graph_nodes",
			Help: "Number of nodes in the current graph",
		},
	)

	r.EdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "malsim_graph_edges",
			Help: "Number of edges in the current graph",
		},
	)
}

func (r *Registry) initEngineMetrics() {
	r.TicksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "malsim_ticks_total",
			Help: "Total number of simulation ticks applied",
		},
	)

	r.TickDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "malsim_tick_duration_seconds",
			Help:    "Time spent applying one tick",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8), // 10us to ~160ms
		},
	)

	r.TransitionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "malsim_transitions_total",
			Help: "Node transitions by kind (spread, escalate, patch, seed, click)",
		},
		[]string{"kind"},
	)

	r.InteractionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "malsim_interactions_total",
			Help: "Node clicks by mode, rule branch and whether state changed",
		},
		[]string{"mode", "branch", "changed"},
	)

	r.TrojansSpawned = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "malsim_trojans_spawned_total",
			Help: "Total number of trojans planted",
		},
	)

	r.ResetsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "malsim_resets_total",
			Help: "Total number of simulation resets",
		},
	)

	r.Running = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "malsim_running",
			Help: "Whether the simulation clock is running (1 = running, 0 = stopped)",
		},
	)
}
