package scheduler

import "sort"

// Well-known critical resource names used by the threshold/bottleneck logic
// in the Hybrid and Spread policies.
const (
	ResourceCPU    = "cpu"
	ResourceGPU    = "gpu"
	ResourceMemory = "memory"

	// ResourceObjectStoreMemory is the local-node object-store-memory
	// carve-out resource name.
	ResourceObjectStoreMemory = "object_store_memory"
)

// criticalResources is the bottleneck-utilization set consulted by the
// threshold and spread selection logic.
var criticalResources = []string{ResourceCPU, ResourceGPU, ResourceMemory}

// LabelSelector is a set of required label key=value pairs. A node satisfies
// a selector iff every pair in the selector is present in the node's labels
// with a matching value.
type LabelSelector map[string]string

// Satisfies reports whether labels satisfies every required key=value pair.
func (sel LabelSelector) Satisfies(labels map[string]string) bool {
	for k, v := range sel {
		if labels[k] != v {
			return false
		}
	}
	return true
}

// ResourceRequest is a mapping from resource name to Quantity, plus the
// object-store-memory flag and an optional label selector. Resources is a
// plain map with no defined iteration order; Fingerprint sorts by name.
type ResourceRequest struct {
	Resources                 ResourceSet
	RequiresObjectStoreMemory bool
	LabelSelector             LabelSelector
}

// NewResourceRequest normalizes values (dropping zero-valued entries) before
// constructing the request.
func NewResourceRequest(values map[string]Quantity, requiresObjectStoreMemory bool, selector LabelSelector) ResourceRequest {
	return ResourceRequest{
		Resources:                 NewResourceSet(values),
		RequiresObjectStoreMemory: requiresObjectStoreMemory,
		LabelSelector:             selector,
	}
}

// IsEmpty reports whether every quantity in the request is zero.
func (r ResourceRequest) IsEmpty() bool {
	return r.Resources.IsEmpty()
}

// Fingerprint returns a deterministic, order-independent string used to seed
// tie-break hashing and PRNGs — never used for equality or correctness, only
// for spreading load reproducibly across otherwise-tied nodes.
func (r ResourceRequest) Fingerprint() string {
	names := make([]string, 0, len(r.Resources))
	for name := range r.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]byte, 0, 64)
	for _, name := range names {
		q := r.Resources[name]
		out = append(out, name...)
		out = append(out, '=')
		out = append(out, q.String()...)
		out = append(out, ';')
	}
	return string(out)
}

// bottleneckUtilization returns the highest used/total ratio of any critical
// resource named by the request against the given node state. A critical
// resource absent from the request contributes 0.
func (r ResourceRequest) bottleneckUtilization(available ResourceSet, total ResourceSet) float64 {
	max := 0.0
	for _, name := range criticalResources {
		want := r.Resources.Get(name)
		if want.IsZero() {
			continue
		}
		tot := total.Get(name)
		if tot.IsZero() {
			continue
		}
		used := tot.AsApproximateFloat64() - available.Get(name).AsApproximateFloat64()
		util := used / tot.AsApproximateFloat64()
		if util > max {
			max = util
		}
	}
	return max
}
