package scheduler

import "errors"

// Error taxonomy for scheduling outcomes, for use with errors.Is. Only
// ErrInvariantViolation and ErrUnknownNode are returned by this package
// (from AllocateRemoteTaskResources). The infeasible, temporarily
// unschedulable, race-lost and placement-group outcomes are reported
// structurally instead: GetBestSchedulableNode's nil node and isInfeasible
// flag, AllocateRemoteTaskResources' false result, and SchedulingResult.Status.
// No function returns the sentinels for those outcomes.
var (
	// ErrInfeasible means no node's totals could ever satisfy the request.
	ErrInfeasible = errors.New("scheduler: request is infeasible on every known node")

	// ErrTemporarilyUnschedulable means the request is feasible somewhere
	// but no node currently has sufficient availability.
	ErrTemporarilyUnschedulable = errors.New("scheduler: no node currently has sufficient available resources")

	// ErrRaceLost means the chosen node's availability changed between
	// selection and allocation, and the caller should retry scheduling.
	ErrRaceLost = errors.New("scheduler: lost race to allocate on the chosen node")

	// ErrInvariantViolation guards assertions that should be unreachable
	// given the single-threaded dispatcher model — if one fires, it
	// indicates a bug in the caller bypassing that model, not a normal
	// runtime condition.
	ErrInvariantViolation = errors.New("scheduler: internal invariant violated")

	// ErrPlacementGroupDelegated marks a StrategyPlacementGroup request that
	// reached single-task selection — bundle placement must go through
	// Schedule, not GetBestSchedulableNode.
	ErrPlacementGroupDelegated = errors.New("scheduler: placement group requests must use Schedule, not GetBestSchedulableNode")

	// ErrUnknownNode is returned when an operation names a NodeID the view
	// has never seen.
	ErrUnknownNode = errors.New("scheduler: unknown node")
)
