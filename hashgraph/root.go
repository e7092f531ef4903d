// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashgraph

// Root is the synthetic pre-event marking, per participant, the frontier
// at which the core's knowledge of that participant begins. Every real
// event a participant ever creates traces back, through self-parent
// edges, to this marker rather than to an actual stored Event.
type Root struct {
	// X stands in for a virtual self-parent hash.
	X string
	// Y stands in for a virtual other-parent hash.
	Y string
	// Index is one less than the participant's first real event index.
	Index int
	// Round is the round value assigned to the root.
	Round int
	// Others maps an event hex to an other-parent hash that lives
	// outside the known DAG but is referenced by an event rooted just
	// above this root.
	Others map[string]string
}

// NewBaseRoot returns the root of a participant with no prior history:
// index -1, round -1, no recorded other-parents.
func NewBaseRoot() Root {
	return Root{
		X:      "",
		Y:      "",
		Index:  -1,
		Round:  -1,
		Others: make(map[string]string),
	}
}
