package scheduler

// StrategyKind discriminates the scheduling strategies a caller may request,
// implemented as a tagged variant plus dispatch table rather than an
// interface hierarchy: the strategy space is closed and small, so a switch
// over a kind is clearer than a family of types each implementing one method.
type StrategyKind int

const (
	// StrategyDefault lets the dispatcher choose Hybrid or Random.
	StrategyDefault StrategyKind = iota
	// StrategySpread requests the Spread policy explicitly.
	StrategySpread
	// StrategyRandom requests the Random policy explicitly.
	StrategyRandom
	// StrategyNodeAffinity pins scheduling to a specific node, hard or soft.
	StrategyNodeAffinity
	// StrategyPlacementGroup marks a request against an existing placement
	// group. Single-task selection does not resolve it: GetBestSchedulableNode
	// reports it as infeasible, and bundles are placed through Schedule.
	StrategyPlacementGroup
)

// NodeAffinityStrategy carries the parameters of StrategyNodeAffinity.
// SpillOnUnavailable and FailOnUnavailable are honored literally: when the
// named node is infeasible or unschedulable, SpillOnUnavailable permits
// falling back to normal dispatch and FailOnUnavailable forces an
// infeasible outcome instead of a silent fallback, even under Soft.
type NodeAffinityStrategy struct {
	NodeID             NodeID
	Soft               bool
	SpillOnUnavailable bool
	FailOnUnavailable  bool
}

// PlacementGroupStrategy carries the parameters of StrategyPlacementGroup:
// the named placement group and bundle index. This package stores them but
// does not look up which node hosts that bundle.
type PlacementGroupStrategy struct {
	GroupID           string
	BundleIndex       int
	CaptureChildTasks bool
}

// SchedulingStrategy is the tagged variant itself: a plain struct plus a
// Kind discriminator rather than a class hierarchy. Exactly one of
// NodeAffinity or PlacementGroup is non-nil, selected by Kind.
type SchedulingStrategy struct {
	Kind           StrategyKind
	NodeAffinity   *NodeAffinityStrategy
	PlacementGroup *PlacementGroupStrategy
}

// DefaultStrategy returns the zero-value strategy, letting the dispatcher
// choose between Hybrid and Random.
func DefaultStrategy() SchedulingStrategy {
	return SchedulingStrategy{Kind: StrategyDefault}
}

// SpreadStrategy requests the Spread policy.
func SpreadStrategy() SchedulingStrategy {
	return SchedulingStrategy{Kind: StrategySpread}
}

// RandomStrategy requests the Random policy.
func RandomStrategy() SchedulingStrategy {
	return SchedulingStrategy{Kind: StrategyRandom}
}

// HardNodeAffinity pins scheduling to nodeID with no fallback.
func HardNodeAffinity(nodeID NodeID) SchedulingStrategy {
	return SchedulingStrategy{Kind: StrategyNodeAffinity, NodeAffinity: &NodeAffinityStrategy{NodeID: nodeID}}
}

// SoftNodeAffinity prefers nodeID but allows fallback to normal dispatch
// unless failOnUnavailable is set.
func SoftNodeAffinity(nodeID NodeID, spillOnUnavailable, failOnUnavailable bool) SchedulingStrategy {
	return SchedulingStrategy{Kind: StrategyNodeAffinity, NodeAffinity: &NodeAffinityStrategy{
		NodeID:             nodeID,
		Soft:               true,
		SpillOnUnavailable: spillOnUnavailable,
		FailOnUnavailable:  failOnUnavailable,
	}}
}

// ForPlacementGroup requests scheduling against an existing placement group
// bundle.
func ForPlacementGroup(groupID string, bundleIndex int, captureChildTasks bool) SchedulingStrategy {
	return SchedulingStrategy{Kind: StrategyPlacementGroup, PlacementGroup: &PlacementGroupStrategy{
		GroupID:           groupID,
		BundleIndex:       bundleIndex,
		CaptureChildTasks: captureChildTasks,
	}}
}

// SchedulingOptions carries the per-call tuning knobs for bundle scheduling
// and policy evaluation. Passed and stored by value — callers never observe
// a SchedulingOptions mutate out from under them.
type SchedulingOptions struct {
	SpreadThreshold       float64
	AvoidLocalNode        bool
	RequireNodeAvailable  bool
	AvoidGPUNodes         bool
	MaxCPUFractionPerNode float64
}

// ResultStatus classifies the outcome of a scheduling attempt.
type ResultStatus int

const (
	// ResultSuccess means every request in the call was placed.
	ResultSuccess ResultStatus = iota
	// ResultInfeasible means no arrangement of nodes could ever satisfy the
	// request shape — retrying later cannot help.
	ResultInfeasible
	// ResultFailed means the requests are feasible in principle but no
	// arrangement could be found against current availability — retrying
	// later may help.
	ResultFailed
)

// SchedulingResult is the outcome of a Schedule call.
type SchedulingResult struct {
	Status  ResultStatus
	NodeIDs []NodeID
}
