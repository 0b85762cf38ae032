/*
Package scheduler implements the cluster resource scheduler core: given a
task's resource demand and a placement strategy, it selects the best node from
a fleet whose per-node resource inventories change continuously.

The scheduler maintains an authoritative view of every node's total and
available resources plus labels and drain state, evaluates pluggable
scheduling strategies (hybrid, spread, random, node affinity, placement
group), atomically deducts resources on a chosen node when an allocation is
committed remotely, and places bundles - groups of resource requests that must
be placed jointly under a pack/spread policy.

# Architecture

	┌──────────────── ClusterResourceScheduler (façade) ────────────────┐
	│                                                                    │
	│  GetBestSchedulableNode / IsSchedulable /                          │
	│  AllocateRemoteTaskResources / Schedule / DebugString              │
	│                                                                    │
	│  ┌──────────────────┐   change    ┌───────────────────────────┐  │
	│  │ LocalResource    │  callback   │  ClusterResourceView       │  │
	│  │ Manager          ├────────────▶│                            │  │
	│  │ - local totals   │             │  NodeID → NodeResources    │  │
	│  │ - allocations    │             │  - add/update/remove       │  │
	│  │ - object-store   │             │  - drain state             │  │
	│  │   headroom       │             │  - Snapshot() for policies │  │
	│  └──────────────────┘             └─────────────┬─────────────┘  │
	│                                                  │ ClusterSnapshot │
	│  ┌───────────────────────────────────────────────▼─────────────┐ │
	│  │                      Dispatcher                              │ │
	│  │                                                              │ │
	│  │  actor-creation + empty request ──▶ Random                  │ │
	│  │  NodeAffinity (hard) ─────────────▶ named node or nothing   │ │
	│  │  NodeAffinity (soft) ─────────────▶ named node, else Hybrid │ │
	│  │  Spread ──────────────────────────▶ least-utilized node     │ │
	│  │  Default ─────────────────────────▶ Hybrid                  │ │
	│  └──────────────────────────────────────────────────────────────┘ │
	│                                                                    │
	│  ┌──────────────────────────────────────────────────────────────┐ │
	│  │                     ScheduleBundle                           │ │
	│  │  PACK / SPREAD / STRICT_PACK / STRICT_SPREAD over a          │ │
	│  │  working copy; commits only on full success                  │ │
	│  └──────────────────────────────────────────────────────────────┘ │
	└────────────────────────────────────────────────────────────────────┘

# Core Components

ClusterResourceView: the mapping from node identity to NodeResources. It is
the only component authorized to answer "which nodes exist" - policies are
always handed an immutable ClusterSnapshot, never the mutable view, so a
policy scanning the fleet never observes a torn update mid-scan.

LocalResourceManager: the authoritative source for the local node's record.
It decorates the published object-store-memory headroom from two injected
predicates (used bytes, pull-manager-at-capacity) and pushes every state
change into the view through a registered callback, suppressing notifications
when consecutive states are identical.

Dispatcher: the composite policy. Each leaf maps (snapshot, request, options)
to a node or to nothing, with a shared feasible/available partition:

  - feasible: totals and labels could ever satisfy the request
  - available: feasible and currently has room

A request that is infeasible everywhere is reported as such; a request that
is feasible somewhere but nothing currently has room is reported as
temporarily unschedulable so the caller can queue and retry.

ScheduleBundle: multi-request placement. All four variants allocate against a
deep working copy of the snapshot and only the façade commits the result, so
a failed attempt never mutates observable state.

# Usage

	sched, err := scheduler.NewClusterResourceScheduler(scheduler.Config{
		LocalNodeID: localID,
		LocalTotal: scheduler.NewResourceRequest(map[string]scheduler.Quantity{
			scheduler.ResourceCPU:    cpus,
			scheduler.ResourceMemory: mem,
		}, false, nil),
		IsNodeAvailable: liveness.IsAlive,
	})
	if err != nil {
		return err
	}

	// Feed remote inventory from the heartbeat transport.
	applier := sched.HeartbeatApplier()
	go transport.Subscribe(func(rec scheduler.HeartbeatRecord) { applier.Apply(rec) })

	// Pick a node for a task.
	node, _, infeasible := sched.GetBestSchedulableNode(
		req, scheduler.DefaultStrategy(), false, false, scheduler.NilNodeID,
		scheduler.SchedulingOptions{})

	// Commit the decision on a remote node.
	if node != localID {
		ok, err := sched.AllocateRemoteTaskResources(node, req.Resources)
		...
	}

# Concurrency Model

Public operations are intended to run on a single dispatcher loop and see a
serial history; the mutexes inside the view and the façade exist so that
heartbeat ingestion arriving from I/O goroutines can be applied without a
data race. Selection is synchronous and never blocks on I/O - scheduling
latency directly determines task dispatch latency.

Allocations are not transactional across nodes: AllocateRemoteTaskResources
affects a single node, and bundle scheduling's working-copy discipline is the
only multi-node atomicity in the system, scoped to a single call.
*/
package scheduler
