// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashgraph

import "sort"

// ParticipantRegistry is the fixed pubkey <-> dense-id bijection the
// core indexes its coordinate vectors by. Participant count is fixed
// for the lifetime of a Hashgraph instance.
type ParticipantRegistry struct {
	byPubkey map[string]int
	byID     map[int]string
}

// NewParticipantRegistry assigns dense ids 0..N-1 to pubkeys in sorted
// order, so that two registries built from the same pubkey set agree on
// ids regardless of input ordering.
func NewParticipantRegistry(pubkeys []string) *ParticipantRegistry {
	sorted := make([]string, len(pubkeys))
	copy(sorted, pubkeys)
	sort.Strings(sorted)

	r := &ParticipantRegistry{
		byPubkey: make(map[string]int, len(sorted)),
		byID:     make(map[int]string, len(sorted)),
	}
	for id, pub := range sorted {
		r.byPubkey[pub] = id
		r.byID[id] = pub
	}
	return r
}

// ID returns the dense id of pubkey, or false if pubkey is not registered.
func (r *ParticipantRegistry) ID(pubkey string) (int, bool) {
	id, ok := r.byPubkey[pubkey]
	return id, ok
}

// Pubkey returns the pubkey registered at id, or false if out of range.
func (r *ParticipantRegistry) Pubkey(id int) (string, bool) {
	pub, ok := r.byID[id]
	return pub, ok
}

// Len is the fixed participant count N.
func (r *ParticipantRegistry) Len() int { return len(r.byPubkey) }

// Pubkeys returns all registered pubkeys ordered by dense id.
func (r *ParticipantRegistry) Pubkeys() []string {
	out := make([]string, len(r.byID))
	for id, pub := range r.byID {
		out[id] = pub
	}
	return out
}

// SuperMajority is 2N/3 + 1 (integer division), the StronglySee/RoundInc
// threshold.
func (r *ParticipantRegistry) SuperMajority() int {
	n := len(r.byPubkey)
	return 2*n/3 + 1
}
