package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestView(t *testing.T, localID NodeID, nodes map[NodeID]struct{ totalCPU, availCPU string }) ClusterSnapshot {
	t.Helper()
	view := NewClusterResourceView(localID)
	for id, spec := range nodes {
		total := NewResourceRequest(map[string]Quantity{ResourceCPU: mustQuantity(t, spec.totalCPU)}, false, nil)
		nr := NewNodeResources(total, nil)
		nr.Available = buildResourceSet(t, map[string]string{ResourceCPU: spec.availCPU})
		view.AddOrUpdate(id, nr)
	}
	return view.Snapshot()
}

func TestDispatcher_Hybrid_InfeasibleWhenNoNodeCanEverFit(t *testing.T) {
	local := NewNodeID()
	snap := newTestView(t, local, map[NodeID]struct{ totalCPU, availCPU string }{
		local: {totalCPU: "2", availCPU: "2"},
	})
	d := NewDispatcher(local, nil)
	req := NewResourceRequest(map[string]Quantity{ResourceCPU: mustQuantity(t, "4")}, false, nil)

	id, infeasible := d.scheduleHybrid(snap, req, false, NilNodeID, SchedulingOptions{})
	assert.True(t, infeasible)
	assert.Equal(t, NilNodeID, id)
}

func TestDispatcher_Hybrid_TemporarilyUnschedulableWhenFeasibleButBusy(t *testing.T) {
	local := NewNodeID()
	snap := newTestView(t, local, map[NodeID]struct{ totalCPU, availCPU string }{
		local: {totalCPU: "4", availCPU: "1"},
	})
	d := NewDispatcher(local, nil)
	req := NewResourceRequest(map[string]Quantity{ResourceCPU: mustQuantity(t, "2")}, false, nil)

	id, infeasible := d.scheduleHybrid(snap, req, false, NilNodeID, SchedulingOptions{RequireNodeAvailable: true})
	assert.False(t, infeasible)
	assert.Equal(t, NilNodeID, id)
}

func TestDispatcher_Hybrid_RequireNodeAvailableFalseReturnsTotalsFeasibleNode(t *testing.T) {
	local := NewNodeID()
	snap := newTestView(t, local, map[NodeID]struct{ totalCPU, availCPU string }{
		local: {totalCPU: "2", availCPU: "0"},
	})
	d := NewDispatcher(local, nil)
	req := NewResourceRequest(map[string]Quantity{ResourceCPU: mustQuantity(t, "1")}, false, nil)

	id, infeasible := d.scheduleHybrid(snap, req, false, NilNodeID, SchedulingOptions{})
	assert.False(t, infeasible)
	assert.Equal(t, local, id)
}

func TestDispatcher_Hybrid_PrefersPreferredNodeWhenAvailable(t *testing.T) {
	local := NewNodeID()
	remote := NewNodeID()
	snap := newTestView(t, local, map[NodeID]struct{ totalCPU, availCPU string }{
		local:  {totalCPU: "4", availCPU: "4"},
		remote: {totalCPU: "4", availCPU: "4"},
	})
	d := NewDispatcher(local, nil)
	req := NewResourceRequest(map[string]Quantity{ResourceCPU: mustQuantity(t, "1")}, false, nil)

	id, infeasible := d.scheduleHybrid(snap, req, false, remote, SchedulingOptions{})
	assert.False(t, infeasible)
	assert.Equal(t, remote, id)
}

func TestDispatcher_Hybrid_DeterministicAcrossRepeatedCalls(t *testing.T) {
	local := NewNodeID()
	a, b := NewNodeID(), NewNodeID()
	snap := newTestView(t, local, map[NodeID]struct{ totalCPU, availCPU string }{
		a: {totalCPU: "4", availCPU: "4"},
		b: {totalCPU: "4", availCPU: "4"},
	})
	d := NewDispatcher(local, nil)
	req := NewResourceRequest(map[string]Quantity{ResourceCPU: mustQuantity(t, "1")}, false, nil)

	first, _ := d.scheduleHybrid(snap, req, false, NilNodeID, SchedulingOptions{})
	for i := 0; i < 5; i++ {
		again, _ := d.scheduleHybrid(snap, req, false, NilNodeID, SchedulingOptions{})
		assert.Equal(t, first, again, "identical inputs must produce identical tie-broken output")
	}
}

// Two nodes, one idle and one at exactly the 0.5 threshold: the idle node is
// the only below-threshold candidate and must win.
func TestDispatcher_Hybrid_ThresholdPartitionPrefersBelowThresholdNode(t *testing.T) {
	local := NewNodeID()
	a, b := NewNodeID(), NewNodeID()
	snap := newTestView(t, local, map[NodeID]struct{ totalCPU, availCPU string }{
		a: {totalCPU: "4", availCPU: "4"}, // 0% used
		b: {totalCPU: "4", availCPU: "2"}, // 50% used, at the threshold
	})
	d := NewDispatcher(local, nil)
	req := NewResourceRequest(map[string]Quantity{ResourceCPU: mustQuantity(t, "1")}, false, nil)

	id, infeasible := d.scheduleHybrid(snap, req, false, NilNodeID, SchedulingOptions{SpreadThreshold: 0.5})
	assert.False(t, infeasible)
	assert.Equal(t, a, id)
}

func TestDispatcher_Hybrid_PacksBelowThresholdBeforeSpreading(t *testing.T) {
	local := NewNodeID()
	loaded := NewNodeID()
	idle := NewNodeID()
	snap := newTestView(t, local, map[NodeID]struct{ totalCPU, availCPU string }{
		loaded: {totalCPU: "10", availCPU: "9"}, // 10% used, below threshold
		idle:   {totalCPU: "10", availCPU: "10"},
	})
	d := NewDispatcher(local, nil)
	req := NewResourceRequest(map[string]Quantity{ResourceCPU: mustQuantity(t, "1")}, false, nil)

	id, infeasible := d.scheduleHybrid(snap, req, false, NilNodeID, SchedulingOptions{})
	assert.False(t, infeasible)
	assert.Contains(t, []NodeID{loaded, idle}, id)
}
