package metrics

import "time"

// SchedulerSnapshotSource is the minimal surface a Collector needs from a
// ClusterResourceScheduler, kept here rather than imported directly to avoid
// a metrics->scheduler dependency cycle (scheduler already imports metrics
// for Timer, the health registry, and the gauges/counters in metrics.go).
type SchedulerSnapshotSource interface {
	NodesTracked() int
}

// Collector periodically pulls gauge-shaped state out of a scheduler and
// republishes it as Prometheus metrics.
type Collector struct {
	source SchedulerSnapshotSource
	stopCh chan struct{}
}

// NewCollector creates a new metrics collector over source.
func NewCollector(source SchedulerSnapshotSource) *Collector {
	return &Collector{
		source: source,
		stopCh: make(chan struct{}),
	}
}

// Start begins collecting metrics on a 15s ticker, collecting once
// immediately.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	SchedulerNodesTracked.Set(float64(c.source.NodesTracked()))
}
