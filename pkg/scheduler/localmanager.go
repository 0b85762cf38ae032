package scheduler

import "sync"

// ObjectStoreUsageFunc reports the local node's current object-store-memory
// usage in bytes, queried at publish time rather than cached, since it
// changes independent of task scheduling.
type ObjectStoreUsageFunc func() int64

// PullManagerAtCapacityFunc reports whether the local object pull manager is
// currently at capacity. When true, the object-store-memory headroom
// reported by publish is clamped to zero regardless of the raw byte count,
// so that new work requiring object-store memory is not admitted elsewhere
// under the illusion of spare capacity.
type PullManagerAtCapacityFunc func() bool

// ChangeCallback is invoked with the local node's id and its freshly
// published NodeResources whenever that state changes, so the owner can
// forward it into the ClusterResourceView.
type ChangeCallback func(NodeID, NodeResources)

// LocalResourceManager owns the authoritative state of the local node and is
// the only component permitted to mutate it directly. Remote
// nodes are never updated through this manager; their records change in
// ClusterResourceView directly (heartbeats, AddOrUpdateNode, and remote or
// bundle allocations made by the façade).
type LocalResourceManager struct {
	mu              sync.Mutex
	nodeID          NodeID
	resources       NodeResources
	usedObjectStore ObjectStoreUsageFunc
	pullAtCapacity  PullManagerAtCapacityFunc
	onChange        ChangeCallback
	lastPublished   NodeResources
	published       bool
}

// NewLocalResourceManager constructs a manager for the given local node.
// usedObjectStore and pullAtCapacity may be nil, in which case object-store
// pressure is treated as always-zero / never-at-capacity.
func NewLocalResourceManager(id NodeID, total ResourceRequest, labels map[string]string, usedObjectStore ObjectStoreUsageFunc, pullAtCapacity PullManagerAtCapacityFunc, onChange ChangeCallback) *LocalResourceManager {
	if usedObjectStore == nil {
		usedObjectStore = func() int64 { return 0 }
	}
	if pullAtCapacity == nil {
		pullAtCapacity = func() bool { return false }
	}
	return &LocalResourceManager{
		nodeID:          id,
		resources:       NewNodeResources(total, labels),
		usedObjectStore: usedObjectStore,
		pullAtCapacity:  pullAtCapacity,
		onChange:        onChange,
	}
}

// Allocate admits req against the local node's current availability.
func (m *LocalResourceManager) Allocate(req ResourceRequest) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.resources.Allocate(req) {
		return false
	}
	m.publish()
	return true
}

// Release returns req's resources to the local node's availability.
func (m *LocalResourceManager) Release(req ResourceRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources.Release(req)
	m.publish()
}

// SetDraining toggles the local node's drain state.
func (m *LocalResourceManager) SetDraining(draining bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources.IsDraining = draining
	m.publish()
}

// UpdateLabels replaces the local node's labels wholesale.
func (m *LocalResourceManager) UpdateLabels(labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources.Labels = cloneLabels(labels)
	m.publish()
}

// Snapshot returns the decorated view of the local node's resources, as it
// would be published, without side effects.
func (m *LocalResourceManager) Snapshot() NodeResources {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decorated()
}

// decorated overrides the object-store-memory headroom using the injected
// usage/capacity callbacks. Must be called with m.mu held.
func (m *LocalResourceManager) decorated() NodeResources {
	out := m.resources.DeepCopy()
	if m.pullAtCapacity() {
		delete(out.Available, ResourceObjectStoreMemory)
		return out
	}
	used := m.usedObjectStore()
	total := out.Total.Resources.Get(ResourceObjectStoreMemory)
	headroom := total.DeepCopy()
	headroom.Sub(QuantityFromInt64(used))
	if headroom.Sign() < 0 {
		headroom = ZeroQuantity()
	}
	if headroom.IsZero() {
		delete(out.Available, ResourceObjectStoreMemory)
	} else {
		out.Available[ResourceObjectStoreMemory] = headroom
	}
	return out
}

// publish recomputes the decorated snapshot, compares it against the last
// published state, and invokes onChange only if it differs — idempotent on
// identical consecutive states. Must be called with m.mu held.
func (m *LocalResourceManager) publish() {
	nr := m.decorated()
	if m.published &&
		m.lastPublished.Available.Equal(nr.Available) &&
		m.lastPublished.IsDraining == nr.IsDraining &&
		labelsEqual(m.lastPublished.Labels, nr.Labels) {
		return
	}
	m.lastPublished = nr
	m.published = true
	if m.onChange != nil {
		m.onChange(m.nodeID, nr)
	}
}
