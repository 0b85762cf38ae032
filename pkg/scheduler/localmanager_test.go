package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalResourceManager_PublishIsIdempotentOnUnchangedState(t *testing.T) {
	var notifications int
	total := NewResourceRequest(map[string]Quantity{ResourceCPU: mustQuantity(t, "4")}, false, nil)
	id := NewNodeID()
	m := NewLocalResourceManager(id, total, nil, nil, nil, func(NodeID, NodeResources) { notifications++ })

	m.SetDraining(true) // first publish ever: always fires
	assert.Equal(t, 1, notifications)

	m.SetDraining(true) // unchanged since last publish: suppressed
	assert.Equal(t, 1, notifications)

	m.SetDraining(false)
	assert.Equal(t, 2, notifications)
}

func TestLocalResourceManager_ObjectStoreHeadroomDecoratesSnapshot(t *testing.T) {
	total := NewResourceRequest(map[string]Quantity{
		ResourceObjectStoreMemory: mustQuantity(t, "10Gi"),
	}, false, nil)
	id := NewNodeID()

	usage := func() int64 { return 4 * 1024 * 1024 * 1024 }
	m := NewLocalResourceManager(id, total, nil, usage, nil, nil)

	snap := m.Snapshot()
	got := snap.Available.Get(ResourceObjectStoreMemory).Value()
	assert.Equal(t, int64(6*1024*1024*1024), got)
}

func TestLocalResourceManager_PullManagerAtCapacityZeroesHeadroom(t *testing.T) {
	total := NewResourceRequest(map[string]Quantity{
		ResourceObjectStoreMemory: mustQuantity(t, "10Gi"),
	}, false, nil)
	id := NewNodeID()

	m := NewLocalResourceManager(id, total, nil, func() int64 { return 0 }, func() bool { return true }, nil)

	snap := m.Snapshot()
	assert.True(t, snap.Available.Get(ResourceObjectStoreMemory).IsZero())
}

func TestLocalResourceManager_AllocateReleaseRoundTrip(t *testing.T) {
	total := NewResourceRequest(map[string]Quantity{ResourceCPU: mustQuantity(t, "4")}, false, nil)
	id := NewNodeID()
	var last NodeResources
	m := NewLocalResourceManager(id, total, nil, nil, nil, func(_ NodeID, nr NodeResources) { last = nr })

	req := NewResourceRequest(map[string]Quantity{ResourceCPU: mustQuantity(t, "3")}, false, nil)
	require.True(t, m.Allocate(req))
	assert.Equal(t, int64(1000), last.Available.Get(ResourceCPU).MilliValue())

	m.Release(req)
	assert.Equal(t, int64(4000), last.Available.Get(ResourceCPU).MilliValue())
}
