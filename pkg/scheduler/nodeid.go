package scheduler

import (
	"bytes"

	"github.com/google/uuid"
)

// NodeID is an opaque 128-bit node identifier, totally ordered for
// deterministic tie-breaks, with a distinguished nil value. uuid.UUID is
// exactly that shape.
type NodeID = uuid.UUID

// NilNodeID is the distinguished nil NodeID.
var NilNodeID = uuid.Nil

// NewNodeID generates a fresh random NodeID.
func NewNodeID() NodeID {
	return uuid.New()
}

// IsNilNodeID reports whether id is the nil NodeID.
func IsNilNodeID(id NodeID) bool {
	return id == NilNodeID
}

// CompareNodeID gives a total order over NodeIDs for deterministic tie-breaks.
func CompareNodeID(a, b NodeID) int {
	return bytes.Compare(a[:], b[:])
}
