package scheduler

import (
	"errors"
	"sync"
)

// ErrCannotRemoveLocalNode is returned by Remove when asked to remove the
// local node, which must be present in the view for the scheduler's lifetime.
var ErrCannotRemoveLocalNode = errors.New("scheduler: cannot remove the local node from the cluster view")

// ClusterSnapshot is a read-only, point-in-time copy of the cluster view
// handed to policies. Because it is a value copy of the map (NodeResources
// values are themselves copied), a policy scanning it never observes a torn
// update mid-scan and the caller holds no lock while policies run.
type ClusterSnapshot struct {
	nodes   map[NodeID]NodeResources
	localID NodeID
}

// Get returns the record for id, if present.
func (s ClusterSnapshot) Get(id NodeID) (NodeResources, bool) {
	nr, ok := s.nodes[id]
	return nr, ok
}

// LocalID returns the local node's identity.
func (s ClusterSnapshot) LocalID() NodeID {
	return s.localID
}

// Range calls fn for every node in the snapshot. Iteration order is
// unspecified; policies that need a deterministic order should sort by
// NodeID themselves (see CompareNodeID).
func (s ClusterSnapshot) Range(fn func(NodeID, NodeResources) bool) {
	for id, nr := range s.nodes {
		if !fn(id, nr) {
			return
		}
	}
}

// Len returns the number of nodes in the snapshot.
func (s ClusterSnapshot) Len() int {
	return len(s.nodes)
}

// ClusterResourceView is the authoritative, up-to-date mapping from node
// identity to NodeResources. It is the only component
// authorized to answer "which nodes exist" to policies — policies are
// always handed a ClusterSnapshot, never this mutable structure.
type ClusterResourceView struct {
	mu      sync.RWMutex
	nodes   map[NodeID]NodeResources
	localID NodeID
}

// NewClusterResourceView constructs a view whose local node is localID. The
// local node is added with the zero NodeResources; callers are expected to
// follow up with AddOrUpdate once the local node's real resources are known.
func NewClusterResourceView(localID NodeID) *ClusterResourceView {
	return &ClusterResourceView{
		nodes:   map[NodeID]NodeResources{localID: {}},
		localID: localID,
	}
}

// AddOrUpdate upserts a node's totals and availability atomically.
func (v *ClusterResourceView) AddOrUpdate(id NodeID, nr NodeResources) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nodes[id] = nr.DeepCopy()
}

// UpdateAvailable applies a partial heartbeat update: totals and labels are
// preserved, and any resource key missing from snapshot is left unchanged,
// not zeroed.
func (v *ClusterResourceView) UpdateAvailable(id NodeID, snapshot ResourceSet) {
	v.mu.Lock()
	defer v.mu.Unlock()
	nr, ok := v.nodes[id]
	if !ok {
		return
	}
	merged := nr.Available.Clone()
	for name, q := range snapshot {
		merged[name] = q
	}
	nr.Available = merged
	v.nodes[id] = nr
}

// Remove deletes a node that has left the cluster. It refuses to remove the
// local node.
func (v *ClusterResourceView) Remove(id NodeID) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if id == v.localID {
		return ErrCannotRemoveLocalNode
	}
	delete(v.nodes, id)
	return nil
}

// SetDraining marks a node as administratively draining or not.
func (v *ClusterResourceView) SetDraining(id NodeID, draining bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	nr, ok := v.nodes[id]
	if !ok {
		return
	}
	nr.IsDraining = draining
	v.nodes[id] = nr
}

// IsDraining reports whether id is currently draining. A node absent from
// the view is reported as not draining.
func (v *ClusterResourceView) IsDraining(id NodeID) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.nodes[id].IsDraining
}

// Get returns a copy of a single node's record.
func (v *ClusterResourceView) Get(id NodeID) (NodeResources, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	nr, ok := v.nodes[id]
	return nr.DeepCopy(), ok
}

// Snapshot produces a consistent, copy-on-write iterable view for policy
// evaluation.
func (v *ClusterResourceView) Snapshot() ClusterSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(map[NodeID]NodeResources, len(v.nodes))
	for id, nr := range v.nodes {
		out[id] = nr.DeepCopy()
	}
	return ClusterSnapshot{nodes: out, localID: v.localID}
}

// LocalID returns the view's local node identity.
func (v *ClusterResourceView) LocalID() NodeID {
	return v.localID
}

// Len returns the number of tracked nodes, for metrics/debugging.
func (v *ClusterResourceView) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.nodes)
}
