package scheduler

// HeartbeatRecord is the wire-level shape this package consumes from an
// external heartbeat transport. Producing these records (the gRPC server and
// its wire encoding) is the transport's job; this package only applies
// records it is handed.
type HeartbeatRecord struct {
	NodeID     NodeID
	Generation uint64
	Totals     ResourceSet
	Available  ResourceSet
	Labels     map[string]string
	IsDraining bool
}

// NodeAvailabilityFunc reports whether a node should currently be considered
// for scheduling, independent of its resource numbers — e.g. because its
// heartbeat has gone stale. Dispatcher consults this alongside each node's
// own HasSufficient check.
type NodeAvailabilityFunc func(NodeID) bool
