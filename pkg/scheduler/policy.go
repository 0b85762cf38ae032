package scheduler

import (
	"hash/fnv"
	"math/rand"
)

// Dispatcher is the composite scheduling policy: a single entry point that
// routes each call to exactly one leaf policy. Zero-resource actor creation
// short-circuits to Random unless pinned by hard node affinity; node
// affinity, spread, and random each map to their own leaf; everything else
// runs the Hybrid policy.
type Dispatcher struct {
	localID         NodeID
	isNodeAvailable func(NodeID) bool
}

// NewDispatcher constructs a Dispatcher for the given local node.
// isNodeAvailable, when non-nil, is consulted in addition to a node's own
// HasSufficient check — it models externally-known unavailability (e.g. a
// node whose last heartbeat is stale) that the view itself doesn't encode.
func NewDispatcher(localID NodeID, isNodeAvailable func(NodeID) bool) *Dispatcher {
	if isNodeAvailable == nil {
		isNodeAvailable = func(NodeID) bool { return true }
	}
	return &Dispatcher{localID: localID, isNodeAvailable: isNodeAvailable}
}

// Schedule routes to exactly one leaf policy and returns either a chosen
// node (isInfeasible == false, nodeID != NilNodeID), a temporarily
// unschedulable outcome (both zero values), or an infeasible outcome
// (isInfeasible == true). opts carries the per-call knobs (SpreadThreshold,
// AvoidLocalNode, RequireNodeAvailable, AvoidGPUNodes), threaded down into
// whichever leaf policy is selected.
func (d *Dispatcher) Schedule(
	view ClusterSnapshot,
	strategy SchedulingStrategy,
	req ResourceRequest,
	actorCreation bool,
	forceSpillback bool,
	preferredNodeID NodeID,
	opts SchedulingOptions,
) (nodeID NodeID, isInfeasible bool) {
	isHardAffinity := strategy.Kind == StrategyNodeAffinity && strategy.NodeAffinity != nil && !strategy.NodeAffinity.Soft

	// Rule 1: zero-resource actor creation shortcuts straight to Random,
	// unless a hard node-affinity strategy is in play.
	if actorCreation && req.IsEmpty() && !isHardAffinity {
		return d.scheduleRandom(view, req, opts)
	}

	switch strategy.Kind {
	case StrategyNodeAffinity:
		return d.scheduleNodeAffinity(view, strategy.NodeAffinity, req, actorCreation, forceSpillback, preferredNodeID, opts)

	case StrategyPlacementGroup:
		// Bundle placement is handled entirely by ScheduleBundle; a caller
		// reaching Dispatcher.Schedule with this strategy is a programming
		// error in the façade, which intercepts it before calling Schedule
		// and reports it as infeasible. Schedule reports it the same way.
		return NilNodeID, true

	case StrategySpread:
		return d.scheduleSpread(view, req, forceSpillback, opts)

	case StrategyRandom:
		return d.scheduleRandom(view, req, opts)

	default:
		return d.scheduleHybrid(view, req, forceSpillback, preferredNodeID, opts)
	}
}

func (d *Dispatcher) scheduleNodeAffinity(view ClusterSnapshot, aff *NodeAffinityStrategy, req ResourceRequest, actorCreation, forceSpillback bool, preferredNodeID NodeID, opts SchedulingOptions) (NodeID, bool) {
	nr, ok := view.Get(aff.NodeID)
	if !ok || nr.IsDraining || !d.isNodeAvailable(aff.NodeID) {
		if aff.Soft && !aff.FailOnUnavailable {
			return d.scheduleHybrid(view, req, forceSpillback, preferredNodeID, opts)
		}
		return NilNodeID, true
	}

	feasible := nr.SatisfiesTotal(req)
	if !feasible {
		if aff.Soft && !aff.FailOnUnavailable {
			return d.scheduleHybrid(view, req, forceSpillback, preferredNodeID, opts)
		}
		return NilNodeID, true
	}

	if !nr.HasSufficient(req, aff.NodeID == d.localID) {
		if !aff.Soft {
			// Hard affinity never spills; unavailable-but-feasible is
			// reported as temporarily unschedulable, matching the rest of
			// the dispatcher's feasible/available split.
			return NilNodeID, false
		}
		if aff.FailOnUnavailable {
			return NilNodeID, true
		}
		// aff.SpillOnUnavailable, or neither flag set: fall back to Hybrid.
		return d.scheduleHybrid(view, req, forceSpillback, preferredNodeID, opts)
	}

	return aff.NodeID, false
}

// feasibleSet returns the subset of view satisfying req's totals and
// labels, is not draining, and is considered available by the externally
// injected availability predicate. opts.AvoidLocalNode drops the local node
// from consideration entirely; opts.AvoidGPUNodes drops nodes carrying any
// GPU capacity when req itself has no GPU demand, reserving GPU nodes for
// GPU-shaped work.
func (d *Dispatcher) feasibleSet(view ClusterSnapshot, req ResourceRequest, opts SchedulingOptions) []NodeID {
	avoidGPU := opts.AvoidGPUNodes && req.Resources.Get(ResourceGPU).IsZero()
	var out []NodeID
	view.Range(func(id NodeID, nr NodeResources) bool {
		if nr.IsDraining {
			return true
		}
		if opts.AvoidLocalNode && id == d.localID {
			return true
		}
		if !d.isNodeAvailable(id) {
			return true
		}
		if avoidGPU && !nr.Total.Resources.Get(ResourceGPU).IsZero() {
			return true
		}
		if !nr.SatisfiesTotal(req) {
			return true
		}
		out = append(out, id)
		return true
	})
	return out
}

func (d *Dispatcher) availableSubset(view ClusterSnapshot, ids []NodeID, req ResourceRequest) []NodeID {
	var out []NodeID
	for _, id := range ids {
		nr, ok := view.Get(id)
		if !ok {
			continue
		}
		if nr.HasSufficient(req, id == d.localID) {
			out = append(out, id)
		}
	}
	return out
}

// tieBreakHash gives a deterministic, load-spreading ordering key for a
// (node, request) pair — never used for correctness, only to make an
// otherwise-arbitrary choice among equally-good nodes reproducible.
func tieBreakHash(id NodeID, fingerprint string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(id.String()))
	h.Write([]byte(fingerprint))
	return h.Sum64()
}

// pickByTieBreak deterministically picks one node out of ids via
// tieBreakHash, with no regard to utilization — used by the Hybrid policy
// to return a totals-feasible-but-not-currently-available node so the
// caller can queue locally instead of retrying from scratch.
func pickByTieBreak(ids []NodeID, fingerprint string) NodeID {
	var best NodeID
	var bestHash uint64
	first := true
	for _, id := range ids {
		hash := tieBreakHash(id, fingerprint)
		if first || hash < bestHash {
			best = id
			bestHash = hash
			first = false
		}
	}
	return best
}

func seededRand(fingerprint string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(fingerprint))
	seed := int64(h.Sum64()) ^ nanoSeed()
	return rand.New(rand.NewSource(seed))
}
