package scheduler

// defaultHybridSpreadThreshold is the per-resource utilization ceiling
// below which a node is preferred for packing before the dispatcher
// considers spreading onto a more heavily loaded node, used whenever a
// caller leaves SchedulingOptions.SpreadThreshold unset.
const defaultHybridSpreadThreshold = 0.5

// scheduleHybrid implements the Hybrid policy: among feasible nodes with
// sufficient availability, prefer the caller's preferred node when it
// qualifies, otherwise prefer a node whose bottleneck-resource utilization
// is still below opts.SpreadThreshold (packing), falling back to the full
// available set (spreading) only once every such node is already loaded.
// Ties are broken deterministically via tieBreakHash so repeated calls with
// the same inputs are reproducible. When no node currently has room,
// opts.RequireNodeAvailable decides the outcome: if false, any
// totals-feasible node is returned so the task queues locally (infeasible
// stays false); if true, the call reports temporarily unschedulable instead.
func (d *Dispatcher) scheduleHybrid(view ClusterSnapshot, req ResourceRequest, forceSpillback bool, preferredNodeID NodeID, opts SchedulingOptions) (NodeID, bool) {
	feasible := d.feasibleSet(view, req, opts)
	if len(feasible) == 0 {
		return NilNodeID, true
	}

	available := d.availableSubset(view, feasible, req)
	if len(available) == 0 {
		if !opts.RequireNodeAvailable {
			return pickByTieBreak(feasible, req.Fingerprint()), false
		}
		return NilNodeID, false
	}

	if !IsNilNodeID(preferredNodeID) && !forceSpillback {
		for _, id := range available {
			if id == preferredNodeID {
				return preferredNodeID, false
			}
		}
	}

	pool := available
	if forceSpillback && len(available) > 1 {
		pool = excludeNode(available, d.localID)
		if len(pool) == 0 {
			pool = available
		}
	}

	threshold := opts.SpreadThreshold
	if threshold <= 0 {
		threshold = defaultHybridSpreadThreshold
	}
	below := filterBelowThreshold(view, pool, req, threshold)
	if len(below) > 0 {
		pool = below
	}

	return pickLowestUtilization(view, pool, req), false
}

func excludeNode(ids []NodeID, exclude NodeID) []NodeID {
	out := make([]NodeID, 0, len(ids))
	for _, id := range ids {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}

func filterBelowThreshold(view ClusterSnapshot, ids []NodeID, req ResourceRequest, threshold float64) []NodeID {
	var out []NodeID
	for _, id := range ids {
		nr, ok := view.Get(id)
		if !ok {
			continue
		}
		if req.bottleneckUtilization(nr.Available, nr.Total.Resources) < threshold {
			out = append(out, id)
		}
	}
	return out
}

// pickLowestUtilization returns the node with the lowest bottleneck
// utilization among ids, breaking ties deterministically by tieBreakHash.
func pickLowestUtilization(view ClusterSnapshot, ids []NodeID, req ResourceRequest) NodeID {
	fingerprint := req.Fingerprint()
	var best NodeID
	bestUtil := -1.0
	var bestHash uint64
	for _, id := range ids {
		nr, ok := view.Get(id)
		if !ok {
			continue
		}
		util := req.bottleneckUtilization(nr.Available, nr.Total.Resources)
		hash := tieBreakHash(id, fingerprint)
		if bestUtil < 0 || util < bestUtil || (util == bestUtil && hash < bestHash) {
			best = id
			bestUtil = util
			bestHash = hash
		}
	}
	return best
}
