package scheduler

// NodeResources is the per-node record tracked by the ClusterResourceView:
// totals, current availability, labels, and drain state.
type NodeResources struct {
	Total      ResourceRequest
	Available  ResourceSet
	Labels     map[string]string
	IsDraining bool
}

// NewNodeResources builds a NodeResources record with Available seeded equal
// to Total (a freshly joined node has nothing allocated yet).
func NewNodeResources(total ResourceRequest, labels map[string]string) NodeResources {
	return NodeResources{
		Total:      total,
		Available:  total.Resources.Clone(),
		Labels:     cloneLabels(labels),
		IsDraining: false,
	}
}

func cloneLabels(labels map[string]string) map[string]string {
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}

func labelsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// DeepCopy returns an independent copy safe to mutate without affecting the
// original record.
func (nr NodeResources) DeepCopy() NodeResources {
	return NodeResources{
		Total: ResourceRequest{
			Resources:                 nr.Total.Resources.Clone(),
			RequiresObjectStoreMemory: nr.Total.RequiresObjectStoreMemory,
			LabelSelector:             nr.Total.LabelSelector,
		},
		Available:  nr.Available.Clone(),
		Labels:     cloneLabels(nr.Labels),
		IsDraining: nr.IsDraining,
	}
}

// SatisfiesTotal reports feasibility: whether the node's totals (not
// availabilities) could ever satisfy req, and whether its labels satisfy the
// request's selector. This is the "Feasible" predicate from the glossary.
func (nr NodeResources) SatisfiesTotal(req ResourceRequest) bool {
	if !nr.Total.Resources.GreaterOrEqual(req.Resources) {
		return false
	}
	return req.LabelSelector.Satisfies(nr.Labels)
}

// HasSufficient reports availability: whether the node currently has enough
// free resources for req, honoring labels. ignoreObjectStore exists because
// the local node's object-store-memory pressure is handled by a waiting
// queue rather than by spillback. When true, the
// object-store-memory dimension is excluded from the comparison.
func (nr NodeResources) HasSufficient(req ResourceRequest, ignoreObjectStore bool) bool {
	if !req.LabelSelector.Satisfies(nr.Labels) {
		return false
	}
	if ignoreObjectStore {
		return nr.Available.GreaterOrEqualIgnoring(req.Resources, ResourceObjectStoreMemory)
	}
	return nr.Available.GreaterOrEqual(req.Resources)
}

// Allocate mutates Available only, subtracting req. Returns false (and
// leaves Available unchanged) on underflow. Total never changes here; it
// changes solely via reconfiguration.
func (nr *NodeResources) Allocate(req ResourceRequest) bool {
	next, ok := nr.Available.Subtract(req.Resources)
	if !ok {
		return false
	}
	nr.Available = next
	return true
}

// Release mutates Available only, adding req back.
func (nr *NodeResources) Release(req ResourceRequest) {
	nr.Available = nr.Available.Add(req.Resources)
}

// Utilization returns the fraction of total used for a single resource name,
// 0 if the node has none of that resource.
func (nr NodeResources) Utilization(name string) float64 {
	tot := nr.Total.Resources.Get(name)
	if tot.IsZero() {
		return 0
	}
	avail := nr.Available.Get(name)
	used := tot.AsApproximateFloat64() - avail.AsApproximateFloat64()
	return used / tot.AsApproximateFloat64()
}
