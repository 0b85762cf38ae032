/*
Package metrics provides Prometheus metrics collection and exposition for the
cluster resource scheduler core.

The metrics package defines and registers the scheduler's metrics using the
Prometheus client library, providing observability into cluster-view size,
local-node availability, scheduling decisions, and bundle placement outcomes.
Metrics are exposed via an HTTP endpoint for scraping by Prometheus servers.

# Architecture

	┌──────────────────── METRICS SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │          Prometheus Registry                │          │
	│  │  - Global DefaultRegistry                   │          │
	│  │  - MustRegister at package init             │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Metric Categories                 │          │
	│  │                                              │          │
	│  │  Cluster view: nodes tracked                │          │
	│  │  Local node: available resource quantities  │          │
	│  │  Decisions: policy, outcome, latency        │          │
	│  │  Bundles: variant, outcome                  │          │
	│  │  Races: lost remote allocations             │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │          HTTP Metrics Endpoint              │          │
	│  │  - Handler: Handler() (promhttp.Handler)    │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Metrics Catalog

warren_scheduler_nodes_tracked:
  - Type: Gauge
  - Description: Total number of nodes tracked by the cluster resource view

warren_scheduler_local_available{resource}:
  - Type: Gauge
  - Description: Available quantity of each resource on the local node
  - Labels: resource (cpu, gpu, memory, object_store_memory, ...)

warren_scheduler_decisions_total{policy, outcome}:
  - Type: Counter
  - Description: Total scheduling decisions by policy consulted and outcome
  - Labels: policy (hybrid, spread, random, node_affinity, local_fast_path),
    outcome (scheduled, infeasible, temporarily_unschedulable, race_lost)

warren_scheduler_decision_latency_seconds:
  - Type: Histogram
  - Description: Time taken to choose a node for a single scheduling request

warren_scheduler_bundle_outcomes_total{variant, status}:
  - Type: Counter
  - Description: Total bundle scheduling outcomes by variant and status
  - Labels: variant (pack, spread, strict_pack, strict_spread),
    status (success, infeasible, failed)

warren_scheduler_races_lost_total:
  - Type: Counter
  - Description: Total remote allocations that lost a race to another
    allocation between selection and allocation

# Usage

	import "github.com/cuemby/warren-fleetsched/pkg/metrics"

	metrics.SchedulerNodesTracked.Set(12)
	metrics.SchedulerDecisions.WithLabelValues("hybrid", "scheduled").Inc()

	timer := metrics.NewTimer()
	// ... make a scheduling decision ...
	timer.ObserveDuration(metrics.SchedulerDecisionLatency)

	http.Handle("/metrics", metrics.Handler())

# Integration Points

This package integrates with:

  - pkg/scheduler: records decision outcomes, bundle outcomes, local
    availability, and lost races
  - Prometheus: scrapes the handler returned by Handler()

# Design Patterns

Package Init Registration:
  - All metrics registered in init() function
  - MustRegister panics on duplicate registration

Label Discipline:
  - Labels are bounded to a small, closed set of policy/outcome/variant/status
    names — never node IDs or other unbounded values

Timer Pattern:
  - Create a Timer at operation start, observe its duration to a histogram
    once the operation completes

# See Also

  - Prometheus documentation: https://prometheus.io/docs/
  - Prometheus client library: https://github.com/prometheus/client_golang
*/
package metrics
