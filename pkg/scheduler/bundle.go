package scheduler

import "sort"

// BundleVariant selects one of the four bundle placement strategies.
type BundleVariant int

const (
	// BundlePack greedily packs bundles onto as few nodes as possible.
	BundlePack BundleVariant = iota
	// BundleSpread prefers one bundle per node.
	BundleSpread
	// BundleStrictPack requires every bundle to land on a single node.
	BundleStrictPack
	// BundleStrictSpread requires a bijection between bundles and distinct
	// nodes.
	BundleStrictSpread
)

// ScheduleBundle places every request in requests according to variant,
// operating on a deep-copied working set so that on any placement failure
// the original view is provably untouched — nothing outside this call ever
// holds a reference into the working copy.
func ScheduleBundle(view ClusterSnapshot, requests []ResourceRequest, variant BundleVariant, opts SchedulingOptions) SchedulingResult {
	if len(requests) == 0 {
		return SchedulingResult{Status: ResultSuccess}
	}

	working := newWorkingCopy(view)

	switch variant {
	case BundleStrictPack:
		return scheduleStrictPack(working, requests, opts)
	case BundleStrictSpread:
		return scheduleStrictSpread(working, requests, opts)
	case BundleSpread:
		return scheduleBundleSpread(working, requests, opts)
	default:
		return scheduleBundlePack(working, requests, opts)
	}
}

// workingCopy is a deep-copied, mutable snapshot of node resources used only
// for the duration of one ScheduleBundle call.
type workingCopy struct {
	nodes   map[NodeID]*NodeResources
	order   []NodeID // deterministic iteration order
	localID NodeID
}

func newWorkingCopy(view ClusterSnapshot) *workingCopy {
	w := &workingCopy{nodes: make(map[NodeID]*NodeResources, view.Len()), localID: view.LocalID()}
	view.Range(func(id NodeID, nr NodeResources) bool {
		copied := nr.DeepCopy()
		w.nodes[id] = &copied
		w.order = append(w.order, id)
		return true
	})
	sort.Slice(w.order, func(i, j int) bool { return CompareNodeID(w.order[i], w.order[j]) < 0 })
	return w
}

func (w *workingCopy) feasibleIDs(req ResourceRequest) []NodeID {
	var out []NodeID
	for _, id := range w.order {
		nr := w.nodes[id]
		if nr.IsDraining {
			continue
		}
		if !nr.SatisfiesTotal(req) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// cpuFractionCapOK reports whether allocating req onto id keeps this
// bundle's own cumulative CPU allocation on that node at or below
// opts.MaxCPUFractionPerNode of its total CPU. A fraction outside (0, 1), or
// a node with no CPU total, imposes no cap.
func (w *workingCopy) cpuFractionCapOK(id NodeID, allocatedSoFar ResourceSet, req ResourceRequest, opts SchedulingOptions) bool {
	if opts.MaxCPUFractionPerNode <= 0 || opts.MaxCPUFractionPerNode >= 1 {
		return true
	}
	nr := w.nodes[id]
	totalCPU := nr.Total.Resources.Get(ResourceCPU)
	if totalCPU.IsZero() {
		return true
	}
	cap := totalCPU.AsApproximateFloat64() * opts.MaxCPUFractionPerNode
	allocatedCPU := allocatedSoFar.Get(ResourceCPU)
	reqCPU := req.Resources.Get(ResourceCPU)
	used := allocatedCPU.AsApproximateFloat64() + reqCPU.AsApproximateFloat64()
	return used <= cap
}

// sortLargestBottleneckFirst orders requests by descending bottleneck
// resource quantity (first-fit-decreasing).
func sortLargestBottleneckFirst(requests []ResourceRequest) []int {
	idx := make([]int, len(requests))
	for i := range idx {
		idx[i] = i
	}
	weight := func(r ResourceRequest) float64 {
		max := 0.0
		for _, name := range criticalResources {
			q := r.Resources.Get(name)
			v := q.AsApproximateFloat64()
			if v > max {
				max = v
			}
		}
		return max
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return weight(requests[idx[i]]) > weight(requests[idx[j]])
	})
	return idx
}

func scheduleBundlePack(w *workingCopy, requests []ResourceRequest, opts SchedulingOptions) SchedulingResult {
	order := sortLargestBottleneckFirst(requests)
	placements := make([]NodeID, len(requests))
	allocatedPerNode := make(map[NodeID]ResourceSet)

	for _, i := range order {
		req := requests[i]
		feasible := w.feasibleIDs(req)
		if len(feasible) == 0 {
			return SchedulingResult{Status: ResultInfeasible}
		}

		placed := false
		for _, id := range feasible {
			nr := w.nodes[id]
			if !nr.HasSufficient(req, id == w.localID) {
				continue
			}
			if !w.cpuFractionCapOK(id, allocatedPerNode[id], req, opts) {
				continue
			}
			if !nr.Allocate(req) {
				continue
			}
			allocatedPerNode[id] = allocatedPerNode[id].Add(req.Resources)
			placements[i] = id
			placed = true
			break
		}
		if !placed {
			return SchedulingResult{Status: ResultFailed}
		}
	}

	return SchedulingResult{Status: ResultSuccess, NodeIDs: placements}
}

func scheduleBundleSpread(w *workingCopy, requests []ResourceRequest, opts SchedulingOptions) SchedulingResult {
	order := sortLargestBottleneckFirst(requests)
	placements := make([]NodeID, len(requests))
	used := make(map[NodeID]bool)

	for _, i := range order {
		req := requests[i]
		feasible := w.feasibleIDs(req)
		if len(feasible) == 0 {
			return SchedulingResult{Status: ResultInfeasible}
		}

		var candidates []NodeID
		for _, id := range feasible {
			if !used[id] {
				candidates = append(candidates, id)
			}
		}
		if len(candidates) == 0 {
			candidates = feasible
		}

		best := pickLeastLoaded(w, candidates, req)
		ordered := append([]NodeID{best}, excludeNode(candidates, best)...)

		placed := false
		for _, id := range ordered {
			nr := w.nodes[id]
			if !nr.HasSufficient(req, id == w.localID) {
				continue
			}
			if !nr.Allocate(req) {
				continue
			}
			used[id] = true
			placements[i] = id
			placed = true
			break
		}
		if !placed {
			return SchedulingResult{Status: ResultFailed}
		}
	}

	return SchedulingResult{Status: ResultSuccess, NodeIDs: placements}
}

func pickLeastLoaded(w *workingCopy, ids []NodeID, req ResourceRequest) NodeID {
	var best NodeID
	bestUtil := -1.0
	for _, id := range ids {
		nr := w.nodes[id]
		util := req.bottleneckUtilization(nr.Available, nr.Total.Resources)
		if bestUtil < 0 || util < bestUtil {
			best = id
			bestUtil = util
		}
	}
	return best
}

func scheduleStrictPack(w *workingCopy, requests []ResourceRequest, opts SchedulingOptions) SchedulingResult {
	sum := ResourceRequest{Resources: ResourceSet{}}
	requiresObjStore := false
	for _, r := range requests {
		sum.Resources = sum.Resources.Add(r.Resources)
		requiresObjStore = requiresObjStore || r.RequiresObjectStoreMemory
	}
	sum.RequiresObjectStoreMemory = requiresObjStore

	feasible := w.feasibleIDs(sum)
	if len(feasible) == 0 {
		return SchedulingResult{Status: ResultInfeasible}
	}

	for _, id := range feasible {
		nr := w.nodes[id]
		if !nr.HasSufficient(sum, id == w.localID) {
			continue
		}
		if !nr.Allocate(sum) {
			continue
		}
		placements := make([]NodeID, len(requests))
		for i := range placements {
			placements[i] = id
		}
		return SchedulingResult{Status: ResultSuccess, NodeIDs: placements}
	}

	return SchedulingResult{Status: ResultFailed}
}

func scheduleStrictSpread(w *workingCopy, requests []ResourceRequest, opts SchedulingOptions) SchedulingResult {
	feasibleUnion := make(map[NodeID]bool)
	for _, req := range requests {
		for _, id := range w.feasibleIDs(req) {
			feasibleUnion[id] = true
		}
	}
	if len(requests) > len(feasibleUnion) {
		// Too few distinct nodes for a bijection is transient, not
		// permanent: the view is rebuilt from heartbeats on every call, and
		// a node joining the cluster can satisfy this on retry. Infeasible
		// is reserved for a request whose totals no node can ever satisfy,
		// checked per-request below.
		return SchedulingResult{Status: ResultFailed}
	}

	order := sortLargestBottleneckFirst(requests)
	placements := make([]NodeID, len(requests))
	used := make(map[NodeID]bool)

	for _, i := range order {
		req := requests[i]
		feasible := w.feasibleIDs(req)
		if len(feasible) == 0 {
			return SchedulingResult{Status: ResultInfeasible}
		}

		placed := false
		for _, id := range feasible {
			if used[id] {
				continue
			}
			nr := w.nodes[id]
			if !nr.HasSufficient(req, id == w.localID) {
				continue
			}
			if !nr.Allocate(req) {
				continue
			}
			used[id] = true
			placements[i] = id
			placed = true
			break
		}
		if !placed {
			return SchedulingResult{Status: ResultFailed}
		}
	}

	return SchedulingResult{Status: ResultSuccess, NodeIDs: placements}
}
