package scheduler

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cuemby/warren-fleetsched/pkg/log"
	"github.com/cuemby/warren-fleetsched/pkg/metrics"
)

// Config carries everything NewClusterResourceScheduler needs to stand up a
// scheduler for the local node.
type Config struct {
	LocalNodeID NodeID
	LocalTotal  ResourceRequest
	LocalLabels map[string]string

	UsedObjectStoreMemory ObjectStoreUsageFunc
	PullManagerAtCapacity PullManagerAtCapacityFunc
	IsNodeAvailable       NodeAvailabilityFunc
}

// ClusterResourceScheduler is the façade over the whole package: cluster
// view, local resource manager, and dispatcher wired together behind the
// only public scheduling surface.
type ClusterResourceScheduler struct {
	mu       sync.Mutex
	localID  NodeID
	view     *ClusterResourceView
	local    *LocalResourceManager
	dispatch *Dispatcher
	logger   zerolog.Logger
}

// NewClusterResourceScheduler wires a ClusterResourceView, LocalResourceManager,
// and Dispatcher together around a freshly constructed local node record.
func NewClusterResourceScheduler(cfg Config) (*ClusterResourceScheduler, error) {
	if IsNilNodeID(cfg.LocalNodeID) {
		metrics.UpdateComponent("scheduler", false, "local node id not set")
		return nil, fmt.Errorf("scheduler: local node id must not be nil")
	}

	view := NewClusterResourceView(cfg.LocalNodeID)
	logger := log.WithComponent("scheduler")

	s := &ClusterResourceScheduler{
		localID: cfg.LocalNodeID,
		view:    view,
		logger:  logger,
	}

	s.local = NewLocalResourceManager(
		cfg.LocalNodeID,
		cfg.LocalTotal,
		cfg.LocalLabels,
		cfg.UsedObjectStoreMemory,
		cfg.PullManagerAtCapacity,
		func(id NodeID, nr NodeResources) {
			view.AddOrUpdate(id, nr)
			metrics.SchedulerLocalAvailable.Reset()
			for name, q := range nr.Available {
				metrics.SchedulerLocalAvailable.WithLabelValues(name).Set(q.AsApproximateFloat64())
			}
		},
	)
	// Seed the view with the local node's initial, decorated state.
	view.AddOrUpdate(cfg.LocalNodeID, s.local.Snapshot())

	s.dispatch = NewDispatcher(cfg.LocalNodeID, cfg.IsNodeAvailable)

	metrics.RegisterComponent("scheduler", true, "local node "+cfg.LocalNodeID.String()+" registered")

	return s, nil
}

// AddOrUpdateNode registers or refreshes a remote node's full record. Used
// for initial cluster join; subsequent updates should flow through a
// HeartbeatApplier sharing this scheduler's view.
func (s *ClusterResourceScheduler) AddOrUpdateNode(id NodeID, nr NodeResources) {
	s.view.AddOrUpdate(id, nr)
	metrics.SchedulerNodesTracked.Set(float64(s.view.Len()))
}

// RemoveNode removes a remote node from the cluster view.
func (s *ClusterResourceScheduler) RemoveNode(id NodeID) error {
	if err := s.view.Remove(id); err != nil {
		return err
	}
	metrics.SchedulerNodesTracked.Set(float64(s.view.Len()))
	return nil
}

// NodesTracked returns the number of nodes currently tracked by the cluster
// view, satisfying metrics.SchedulerSnapshotSource for a metrics.Collector.
func (s *ClusterResourceScheduler) NodesTracked() int {
	return s.view.Len()
}

// HeartbeatApplier returns an applier sharing this scheduler's cluster view,
// for wiring into an external heartbeat transport.
func (s *ClusterResourceScheduler) HeartbeatApplier() *HeartbeatApplier {
	return NewHeartbeatApplier(s.view)
}

// preferLocalFastPath reports whether req can be satisfied directly by the
// local node without going through the full dispatcher: the caller already
// prefers local, and local has the headroom.
func (s *ClusterResourceScheduler) preferLocalFastPath(req ResourceRequest, preferredNodeID NodeID, strategy SchedulingStrategy) (NodeID, bool) {
	if preferredNodeID != s.localID {
		return NilNodeID, false
	}
	if strategy.Kind == StrategyNodeAffinity && strategy.NodeAffinity != nil && strategy.NodeAffinity.NodeID != s.localID {
		return NilNodeID, false
	}
	nr, ok := s.view.Get(s.localID)
	if !ok || nr.IsDraining {
		return NilNodeID, false
	}
	if !nr.SatisfiesTotal(req) {
		return NilNodeID, false
	}
	if !nr.HasSufficient(req, true) {
		return NilNodeID, false
	}
	return s.localID, true
}

// verifyOrFallbackLocal re-checks that chosen is still schedulable right
// before the caller allocates against it. If it is no longer schedulable and
// preferredNodeID was the local node, it falls back to the local node rather
// than surfacing a stale choice. When opts.RequireNodeAvailable is false and
// chosen has no current room but its totals still satisfy req, that is the
// Hybrid policy's queue-on-a-feasible-node outcome rather than a race — it
// is accepted as-is so the caller can queue the task against chosen.
func (s *ClusterResourceScheduler) verifyOrFallbackLocal(chosen NodeID, req ResourceRequest, preferredNodeID NodeID, opts SchedulingOptions) (NodeID, bool) {
	if IsNilNodeID(chosen) {
		return chosen, false
	}
	nr, ok := s.view.Get(chosen)
	if ok && !nr.IsDraining && nr.HasSufficient(req, chosen == s.localID) {
		return chosen, true
	}
	if ok && !nr.IsDraining && !opts.RequireNodeAvailable && nr.SatisfiesTotal(req) {
		return chosen, true
	}
	if preferredNodeID == s.localID {
		local, ok := s.view.Get(s.localID)
		if ok && !local.IsDraining && local.HasSufficient(req, true) {
			return s.localID, true
		}
	}
	return NilNodeID, false
}

// GetBestSchedulableNode chooses a node for req according to strategy and
// opts. A returned NilNodeID with isInfeasible == true means no node can
// ever satisfy req; NilNodeID with isInfeasible == false means req is
// feasible somewhere but nothing currently has room (retry later) — unless
// opts.RequireNodeAvailable is false, in which case the Hybrid policy
// returns a totals-feasible node instead so the task queues locally.
// totalViolations is always 0 — preserved for interface stability only, no
// soft-constraint violation-cost model is implemented.
func (s *ClusterResourceScheduler) GetBestSchedulableNode(
	req ResourceRequest,
	strategy SchedulingStrategy,
	actorCreation bool,
	forceSpillback bool,
	preferredNodeID NodeID,
	opts SchedulingOptions,
) (nodeID NodeID, totalViolations int64, isInfeasible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.SchedulerDecisionLatency)

	if strategy.Kind == StrategyPlacementGroup {
		s.logger.Warn().Msg("GetBestSchedulableNode called with a placement group strategy; use Schedule instead")
		return NilNodeID, 0, true
	}

	if !opts.AvoidLocalNode {
		if fast, ok := s.preferLocalFastPath(req, preferredNodeID, strategy); ok {
			s.logger.Debug().Str("node_id", fast.String()).Msg("scheduling decision: local fast path")
			metrics.SchedulerDecisions.WithLabelValues("local_fast_path", "scheduled").Inc()
			return fast, 0, false
		}
	}

	view := s.view.Snapshot()
	chosen, infeasible := s.dispatch.Schedule(view, strategy, req, actorCreation, forceSpillback, preferredNodeID, opts)
	if infeasible {
		s.logger.Warn().Str("fingerprint", req.Fingerprint()).Msg("scheduling decision: infeasible")
		metrics.SchedulerDecisions.WithLabelValues(policyLabel(strategy), "infeasible").Inc()
		return NilNodeID, 0, true
	}
	if IsNilNodeID(chosen) {
		s.logger.Debug().Str("fingerprint", req.Fingerprint()).Msg("scheduling decision: temporarily unschedulable")
		metrics.SchedulerDecisions.WithLabelValues(policyLabel(strategy), "temporarily_unschedulable").Inc()
		return NilNodeID, 0, false
	}

	verified, ok := s.verifyOrFallbackLocal(chosen, req, preferredNodeID, opts)
	if !ok {
		s.logger.Debug().Str("fingerprint", req.Fingerprint()).Msg("scheduling decision: chosen node raced away, no fallback")
		metrics.SchedulerDecisions.WithLabelValues(policyLabel(strategy), "race_lost").Inc()
		return NilNodeID, 0, false
	}

	s.logger.Debug().Str("node_id", verified.String()).Str("fingerprint", req.Fingerprint()).Msg("scheduling decision")
	metrics.SchedulerDecisions.WithLabelValues(policyLabel(strategy), "scheduled").Inc()
	return verified, 0, false
}

func policyLabel(strategy SchedulingStrategy) string {
	switch strategy.Kind {
	case StrategySpread:
		return "spread"
	case StrategyRandom:
		return "random"
	case StrategyNodeAffinity:
		return "node_affinity"
	case StrategyPlacementGroup:
		return "placement_group"
	default:
		return "hybrid"
	}
}

// IsSchedulable reports whether nodeID currently has enough availability for
// req, honoring the object-store-memory carve-out when nodeID is the local
// node.
func (s *ClusterResourceScheduler) IsSchedulable(req ResourceRequest, nodeID NodeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	nr, ok := s.view.Get(nodeID)
	if !ok {
		return false
	}
	return nr.HasSufficient(req, nodeID == s.localID)
}

// AllocateRemoteTaskResources subtracts resources from a remote node's
// availability after re-verifying schedulability, closing the race window
// between a caller's earlier GetBestSchedulableNode call and this call.
// Calling this with the local node is a programming error: local allocation
// must go through LocalResourceManager instead.
func (s *ClusterResourceScheduler) AllocateRemoteTaskResources(nodeID NodeID, resources ResourceSet) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if nodeID == s.localID {
		return false, ErrInvariantViolation
	}

	req := ResourceRequest{Resources: resources}
	nr, ok := s.view.Get(nodeID)
	if !ok {
		return false, ErrUnknownNode
	}
	if !nr.HasSufficient(req, false) {
		metrics.SchedulerRacesLost.Inc()
		return false, nil
	}
	if !nr.Allocate(req) {
		metrics.SchedulerRacesLost.Inc()
		return false, nil
	}
	s.view.AddOrUpdate(nodeID, nr)
	return true, nil
}

// Schedule places bundles, delegating straight through to ScheduleBundle
// over a consistent snapshot of the view and committing the allocations only
// when every request in the bundle was placed.
func (s *ClusterResourceScheduler) Schedule(requests []ResourceRequest, opts SchedulingOptions, variant BundleVariant) SchedulingResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := s.view.Snapshot()
	result := ScheduleBundle(view, requests, variant, opts)

	if result.Status == ResultSuccess {
		for i, id := range result.NodeIDs {
			if id == s.localID {
				s.local.Allocate(requests[i])
				continue
			}
			nr, ok := s.view.Get(id)
			if !ok {
				continue
			}
			nr.Allocate(requests[i])
			s.view.AddOrUpdate(id, nr)
		}
	}

	if result.Status != ResultSuccess {
		s.logger.Warn().Str("bundle_variant", bundleVariantLabel(variant)).Str("status", bundleStatusLabel(result.Status)).Msg("bundle scheduling decision: not placed")
	}
	metrics.SchedulerBundleOutcomes.WithLabelValues(bundleVariantLabel(variant), bundleStatusLabel(result.Status)).Inc()
	return result
}

func bundleVariantLabel(v BundleVariant) string {
	switch v {
	case BundleSpread:
		return "spread"
	case BundleStrictPack:
		return "strict_pack"
	case BundleStrictSpread:
		return "strict_spread"
	default:
		return "pack"
	}
}

func bundleStatusLabel(status ResultStatus) string {
	switch status {
	case ResultSuccess:
		return "success"
	case ResultInfeasible:
		return "infeasible"
	default:
		return "failed"
	}
}

// DebugString renders a human-readable snapshot of the cluster view, for
// logs and operator tooling.
func (s *ClusterResourceScheduler) DebugString() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.view.Snapshot()
	out := fmt.Sprintf("ClusterResourceScheduler{local=%s, nodes=%d}\n", s.localID, view.Len())
	view.Range(func(id NodeID, nr NodeResources) bool {
		out += fmt.Sprintf("  node %s: draining=%v available=%v total=%v\n", id, nr.IsDraining, nr.Available, nr.Total.Resources)
		return true
	})
	return out
}
