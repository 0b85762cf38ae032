package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SchedulerNodesTracked is the number of nodes currently tracked by the
	// cluster resource view.
	SchedulerNodesTracked = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "warren_scheduler_nodes_tracked",
			Help: "Total number of nodes tracked by the cluster resource view",
		},
	)

	// SchedulerLocalAvailable is the local node's currently available
	// quantity of each resource, by resource name.
	SchedulerLocalAvailable = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "warren_scheduler_local_available",
			Help: "Available quantity of each resource on the local node",
		},
		[]string{"resource"},
	)

	// SchedulerDecisions counts scheduling outcomes by the policy consulted
	// and the resulting status.
	SchedulerDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warren_scheduler_decisions_total",
			Help: "Total number of scheduling decisions by policy and outcome",
		},
		[]string{"policy", "outcome"},
	)

	// SchedulerDecisionLatency times GetBestSchedulableNode end to end.
	SchedulerDecisionLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "warren_scheduler_decision_latency_seconds",
			Help:    "Time taken to choose a node for a single scheduling request",
			Buckets: prometheus.DefBuckets,
		},
	)

	// SchedulerBundleOutcomes counts bundle scheduling outcomes by variant
	// and status.
	SchedulerBundleOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warren_scheduler_bundle_outcomes_total",
			Help: "Total number of bundle scheduling outcomes by variant and status",
		},
		[]string{"variant", "status"},
	)

	// SchedulerRacesLost counts AllocateRemoteTaskResources calls that
	// failed their re-verification because another allocation won the race
	// first.
	SchedulerRacesLost = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "warren_scheduler_races_lost_total",
			Help: "Total number of remote allocations that lost a race to another allocation",
		},
	)
)

func init() {
	prometheus.MustRegister(SchedulerNodesTracked)
	prometheus.MustRegister(SchedulerLocalAvailable)
	prometheus.MustRegister(SchedulerDecisions)
	prometheus.MustRegister(SchedulerDecisionLatency)
	prometheus.MustRegister(SchedulerBundleOutcomes)
	prometheus.MustRegister(SchedulerRacesLost)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
