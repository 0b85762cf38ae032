package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cpuReq(t *testing.T, cores string) ResourceRequest {
	t.Helper()
	return NewResourceRequest(map[string]Quantity{ResourceCPU: mustQuantity(t, cores)}, false, nil)
}

func TestScheduleBundle_Pack_UsesFewestNodes(t *testing.T) {
	local := NewNodeID()
	a, b := NewNodeID(), NewNodeID()
	snap := newTestView(t, local, map[NodeID]struct{ totalCPU, availCPU string }{
		a: {totalCPU: "8", availCPU: "8"},
		b: {totalCPU: "8", availCPU: "8"},
	})

	requests := []ResourceRequest{cpuReq(t, "2"), cpuReq(t, "2"), cpuReq(t, "2")}
	result := ScheduleBundle(snap, requests, BundlePack, SchedulingOptions{})

	require.Equal(t, ResultSuccess, result.Status)
	used := map[NodeID]bool{}
	for _, id := range result.NodeIDs {
		used[id] = true
	}
	assert.Len(t, used, 1, "PACK should consolidate onto a single node when it fits")
}

// [{2},{2},{1}] against two 4-core nodes must land on exactly two nodes: the
// first two requests fill one node and the third spills to the other.
func TestScheduleBundle_Pack_SpillsOnlyWhenFirstNodeIsFull(t *testing.T) {
	local := NewNodeID()
	a, b := NewNodeID(), NewNodeID()
	snap := newTestView(t, local, map[NodeID]struct{ totalCPU, availCPU string }{
		a: {totalCPU: "4", availCPU: "4"},
		b: {totalCPU: "4", availCPU: "4"},
	})

	requests := []ResourceRequest{cpuReq(t, "2"), cpuReq(t, "2"), cpuReq(t, "1")}
	result := ScheduleBundle(snap, requests, BundlePack, SchedulingOptions{MaxCPUFractionPerNode: 1.0})

	require.Equal(t, ResultSuccess, result.Status)
	used := map[NodeID]bool{}
	for _, id := range result.NodeIDs {
		used[id] = true
	}
	assert.Len(t, used, 2)
}

func TestScheduleBundle_Pack_HonorsMaxCPUFractionPerNode(t *testing.T) {
	local := NewNodeID()
	a, b := NewNodeID(), NewNodeID()
	snap := newTestView(t, local, map[NodeID]struct{ totalCPU, availCPU string }{
		a: {totalCPU: "8", availCPU: "8"},
		b: {totalCPU: "8", availCPU: "8"},
	})

	requests := []ResourceRequest{cpuReq(t, "2"), cpuReq(t, "2"), cpuReq(t, "2")}
	result := ScheduleBundle(snap, requests, BundlePack, SchedulingOptions{MaxCPUFractionPerNode: 0.5})

	require.Equal(t, ResultSuccess, result.Status)
	perNode := map[NodeID]int{}
	for _, id := range result.NodeIDs {
		perNode[id]++
	}
	for id, count := range perNode {
		assert.LessOrEqual(t, count, 2, "node %s exceeds the 4-core bundle cap", id)
	}
	assert.Len(t, perNode, 2, "the fraction cap must force a second node despite raw capacity for all three")
}

func TestScheduleBundle_Spread_PrefersDistinctNodes(t *testing.T) {
	local := NewNodeID()
	a, b := NewNodeID(), NewNodeID()
	snap := newTestView(t, local, map[NodeID]struct{ totalCPU, availCPU string }{
		a: {totalCPU: "8", availCPU: "8"},
		b: {totalCPU: "8", availCPU: "8"},
	})

	requests := []ResourceRequest{cpuReq(t, "2"), cpuReq(t, "2")}
	result := ScheduleBundle(snap, requests, BundleSpread, SchedulingOptions{})

	require.Equal(t, ResultSuccess, result.Status)
	assert.NotEqual(t, result.NodeIDs[0], result.NodeIDs[1])
}

func TestScheduleBundle_StrictPack_RequiresSingleNodeForSum(t *testing.T) {
	local := NewNodeID()
	a, b := NewNodeID(), NewNodeID()
	snap := newTestView(t, local, map[NodeID]struct{ totalCPU, availCPU string }{
		a: {totalCPU: "3", availCPU: "3"},
		b: {totalCPU: "3", availCPU: "3"},
	})

	requests := []ResourceRequest{cpuReq(t, "2"), cpuReq(t, "2")}
	result := ScheduleBundle(snap, requests, BundleStrictPack, SchedulingOptions{})
	assert.Equal(t, ResultInfeasible, result.Status, "sum of 4 cores exceeds every single node's total, so no amount of waiting helps")
}

func TestScheduleBundle_StrictSpread_FailedWhenTooFewNodes(t *testing.T) {
	local := NewNodeID()
	a := NewNodeID()
	snap := newTestView(t, local, map[NodeID]struct{ totalCPU, availCPU string }{
		a: {totalCPU: "8", availCPU: "8"},
	})

	requests := []ResourceRequest{cpuReq(t, "1"), cpuReq(t, "1")}
	result := ScheduleBundle(snap, requests, BundleStrictSpread, SchedulingOptions{})
	assert.Equal(t, ResultFailed, result.Status, "too few distinct nodes is transient — a node joining the cluster satisfies this on retry, so it is not infeasible")
}

func TestScheduleBundle_StrictSpread_FailedWithThreeRequestsAgainstTwoNodes(t *testing.T) {
	local := NewNodeID()
	a, b := NewNodeID(), NewNodeID()
	snap := newTestView(t, local, map[NodeID]struct{ totalCPU, availCPU string }{
		a: {totalCPU: "4", availCPU: "4"},
		b: {totalCPU: "4", availCPU: "4"},
	})

	requests := []ResourceRequest{cpuReq(t, "1"), cpuReq(t, "1"), cpuReq(t, "1")}
	result := ScheduleBundle(snap, requests, BundleStrictSpread, SchedulingOptions{})
	assert.Equal(t, ResultFailed, result.Status, "3 requests need 3 distinct nodes, only 2 exist, but a node could join before the next attempt")
}

func TestScheduleBundle_FailureLeavesOriginalViewUntouched(t *testing.T) {
	local := NewNodeID()
	a := NewNodeID()
	snap := newTestView(t, local, map[NodeID]struct{ totalCPU, availCPU string }{
		a: {totalCPU: "2", availCPU: "2"},
	})

	requests := []ResourceRequest{cpuReq(t, "1"), cpuReq(t, "1"), cpuReq(t, "1")}
	result := ScheduleBundle(snap, requests, BundleStrictPack, SchedulingOptions{})
	assert.NotEqual(t, ResultSuccess, result.Status)

	nr, ok := snap.Get(a)
	require.True(t, ok)
	assert.Equal(t, int64(2000), nr.Available.Get(ResourceCPU).MilliValue(), "a failed bundle attempt must never mutate the caller's snapshot")
}
