package runstore

import (
	"errors"
	"math"
)

const (
	// Fanout is the maximum number of children of an inner node.
	Fanout = 32

	// LeafRuns is the maximum number of runs held by a leaf.
	LeafRuns = 32

	// DefaultMaxRunLength is the largest length a single run may reach
	// before the store starts a new run of the same symbol.
	DefaultMaxRunLength uint64 = math.MaxUint32
)

// NodeRef is the arena index of a node.
type NodeRef int32

// NoNode marks an absent parent or next leaf.
const NoNode = NodeRef(-1)

var (
	ErrPositionRange = errors.New("runstore: position out of range")
	ErrArenaFull     = errors.New("runstore: node arena exhausted")
	ErrInvariant     = errors.New("runstore: structural invariant violated")
)

// Run is a single (symbol, length) pair of the run sequence.
type Run struct {
	Symbol byte
	Length uint64
}
