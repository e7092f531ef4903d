// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashgraph

import "errors"

// ErrNotFound is returned by Store lookups that find nothing at the
// requested key. It is not one of the core's InsertEvent error kinds;
// callers translate it into OtherParentUnknown/etc. where relevant.
var ErrNotFound = errors.New("hashgraph: not found")

// RoundEvent is one entry of a RoundInfo: whether the event is a witness
// of that round, and (for the out-of-scope fame pass) its Trilean fame
// verdict.
type RoundEvent struct {
	Witness bool
	Famous  Trilean
}

// Trilean is a three-valued boolean used by the (unimplemented) fame
// pass: undecided, true, or false.
type Trilean int

const (
	Undefined Trilean = iota
	True
	False
)

// RoundInfo is the set of events assigned to one round, along with their
// witness/fame status.
type RoundInfo struct {
	Events map[string]RoundEvent
}

// WitnessHexes returns the hexes of events marked witness in this round.
func (r RoundInfo) WitnessHexes() []string {
	out := make([]string, 0, len(r.Events))
	for hex, e := range r.Events {
		if e.Witness {
			out = append(out, hex)
		}
	}
	return out
}

// Store is the capability set the core requires of its event/round
// backing storage. It is a pure interface: the core treats persistence,
// batching, and memory budgeting as the implementation's concern.
//
// GetRound/SetRound/Rounds/ConsensusEvents/AddConsensusEvent/LastRound/
// RoundEvents/Reset are declared here because the out-of-scope
// fame/ordering pass needs them on the same Store, but this core's
// InsertEvent/predicate/round engine only exercises GetEvent, SetEvent,
// GetRoot, LastFrom, ParticipantEvent, and RoundWitnesses; Known is
// called only by Hashgraph.Known. CacheSize is not read by the core,
// whose cache capacity comes from Config.CacheSize.
type Store interface {
	CacheSize() int

	GetEvent(hex string) (Event, error)
	SetEvent(ev Event) error
	ParticipantEvent(participant string, index int) (string, error)
	// LastFrom returns the hash of the creator's most recent event, or
	// the creator's root.X with isRoot=true if it has none yet.
	LastFrom(participant string) (last string, isRoot bool, err error)
	GetRoot(participant string) (Root, error)
	RoundWitnesses(round int) []string

	GetRound(round int) (RoundInfo, error)
	SetRound(round int, info RoundInfo) error
	Rounds() int
	LastRound() int
	RoundEvents(round int) int

	ConsensusEvents() []string
	AddConsensusEvent(hex string) error

	// Known returns, for every participant id, one more than the
	// highest index of any event stored for that participant (0 if
	// none are stored).
	Known() map[int]int

	// Reset reinitializes the store to hold only the given roots,
	// discarding all events and rounds. Declared for the out-of-scope
	// ordering pass; InsertEvent never calls it.
	Reset(roots map[string]Root) error
}
