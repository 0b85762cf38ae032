package scheduler

// scheduleSpread implements the Spread policy: among feasible, available
// nodes, choose the one with the lowest bottleneck-resource utilization,
// ignoring the packing threshold entirely. forceSpillback additionally
// excludes the local node from consideration when any alternative exists,
// matching the Hybrid policy's spillback behavior.
// opts.AvoidLocalNode/AvoidGPUNodes are honored via feasibleSet;
// RequireNodeAvailable and SpreadThreshold are Hybrid-only knobs, so Spread
// doesn't consult them.
func (d *Dispatcher) scheduleSpread(view ClusterSnapshot, req ResourceRequest, forceSpillback bool, opts SchedulingOptions) (NodeID, bool) {
	feasible := d.feasibleSet(view, req, opts)
	if len(feasible) == 0 {
		return NilNodeID, true
	}

	available := d.availableSubset(view, feasible, req)
	if len(available) == 0 {
		return NilNodeID, false
	}

	pool := available
	if forceSpillback && len(available) > 1 {
		pool = excludeNode(available, d.localID)
		if len(pool) == 0 {
			pool = available
		}
	}

	return pickLowestUtilization(view, pool, req), false
}
