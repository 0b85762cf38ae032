package scheduler

import (
	"sync"

	"github.com/cuemby/warren-fleetsched/pkg/metrics"
)

// HeartbeatApplier applies incoming HeartbeatRecords to a ClusterResourceView,
// dropping any record whose Generation is not strictly newer than the last
// one applied for that node. This is the full extent of heartbeat handling
// owned by the scheduler core; the transport that produces HeartbeatRecords
// lives elsewhere.
type HeartbeatApplier struct {
	mu         sync.Mutex
	view       *ClusterResourceView
	generation map[NodeID]uint64
}

// NewHeartbeatApplier constructs an applier backed by view.
func NewHeartbeatApplier(view *ClusterResourceView) *HeartbeatApplier {
	metrics.RegisterComponent("heartbeat_applier", true, "no heartbeats applied yet")
	return &HeartbeatApplier{view: view, generation: make(map[NodeID]uint64)}
}

// Apply ingests rec, returning false if it was dropped as stale.
func (a *HeartbeatApplier) Apply(rec HeartbeatRecord) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if last, ok := a.generation[rec.NodeID]; ok && rec.Generation <= last {
		metrics.UpdateComponent("heartbeat_applier", true, "dropped stale generation from "+rec.NodeID.String())
		return false
	}
	a.generation[rec.NodeID] = rec.Generation

	if existing, ok := a.view.Get(rec.NodeID); ok && existing.Total.Resources.Equal(rec.Totals) {
		a.view.UpdateAvailable(rec.NodeID, rec.Available)
		a.view.SetDraining(rec.NodeID, rec.IsDraining)
		metrics.UpdateComponent("heartbeat_applier", true, "applied update from "+rec.NodeID.String())
		return true
	}

	a.view.AddOrUpdate(rec.NodeID, NodeResources{
		Total:      ResourceRequest{Resources: rec.Totals.Clone()},
		Available:  rec.Available.Clone(),
		Labels:     cloneLabels(rec.Labels),
		IsDraining: rec.IsDraining,
	})
	metrics.UpdateComponent("heartbeat_applier", true, "registered new node "+rec.NodeID.String())
	return true
}
