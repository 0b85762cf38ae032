package scheduler

import "time"

// scheduleRandom implements the Random policy: a uniform choice among
// feasible, available nodes, reseeded on every invocation from the current
// time mixed with the request's fingerprint so that concurrent or successive
// calls never collide on the same source, unlike a single shared
// package-level rand.Rand. opts.AvoidLocalNode/AvoidGPUNodes are honored via
// feasibleSet.
func (d *Dispatcher) scheduleRandom(view ClusterSnapshot, req ResourceRequest, opts SchedulingOptions) (NodeID, bool) {
	feasible := d.feasibleSet(view, req, opts)
	if len(feasible) == 0 {
		return NilNodeID, true
	}

	available := d.availableSubset(view, feasible, req)
	if len(available) == 0 {
		return NilNodeID, false
	}

	rng := seededRand(req.Fingerprint())
	return available[rng.Intn(len(available))], false
}

func nanoSeed() int64 {
	return time.Now().UnixNano()
}
