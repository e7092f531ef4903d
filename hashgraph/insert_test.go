// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashgraph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEmptyDAG covers scenario 1: four roots, no events, every round
// query returns -1, and a creator's first event off its root is a
// witness at round root.Round + 1.
func TestEmptyDAG(t *testing.T) {
	h, nodes := newTestHashgraph(t, 4)
	require.Equal(t, 3, h.Participants.SuperMajority())

	someHex := "nonexistent"
	require.Equal(t, -1, h.Round(someHex))

	root := rootOf(t, h, nodes[0])
	a0 := signAndInsert(t, h, nodes[0], root.X, root.Y, 0)

	require.Equal(t, root.Round+1, h.Round(a0))
	require.True(t, h.Witness(a0))
}

// TestSelfParentMismatch covers scenario 2: re-inserting against a stale
// self-parent is rejected, and the store's view of LastFrom is
// untouched.
func TestSelfParentMismatch(t *testing.T) {
	h, nodes := newTestHashgraph(t, 4)
	root := rootOf(t, h, nodes[0])

	e0 := signAndInsert(t, h, nodes[0], root.X, root.Y, 0)

	dup := NewEvent(nil, []string{root.X, root.Y}, []byte(nodes[0].pubkey), 0)
	require.NoError(t, dup.Sign(nodes[0].key))
	err := h.InsertEvent(dup, true)
	require.ErrorIs(t, err, ErrSelfParentMismatch)

	last, isRoot, err := h.Store.LastFrom(nodes[0].pubkey)
	require.NoError(t, err)
	require.False(t, isRoot)
	require.Equal(t, e0, last)
}

// TestAncestorViaOtherParent covers scenario 3: A0, B0, A1 with
// A1 = (self: A0, other: B0).
func TestAncestorViaOtherParent(t *testing.T) {
	h, nodes := newTestHashgraph(t, 4)
	rootA := rootOf(t, h, nodes[0])
	rootB := rootOf(t, h, nodes[1])

	a0 := signAndInsert(t, h, nodes[0], rootA.X, rootA.Y, 0)
	b0 := signAndInsert(t, h, nodes[1], rootB.X, rootB.Y, 0)
	a1 := signAndInsert(t, h, nodes[0], a0, b0, 1)

	require.True(t, h.Ancestor(a1, b0))
	require.True(t, h.Ancestor(a1, a0))
	require.False(t, h.SelfAncestor(a1, b0))
	require.True(t, h.See(a1, b0))
}

// TestFirstDescendantBackPropagation covers scenario 4, following on
// from scenario 3: inserting A1 stamps B0's first_descendants for
// participant A, while A0 and B0 keep their own-participant slots, which
// point at the events themselves.
func TestFirstDescendantBackPropagation(t *testing.T) {
	h, nodes := newTestHashgraph(t, 4)
	rootA := rootOf(t, h, nodes[0])
	rootB := rootOf(t, h, nodes[1])

	idA, _ := h.Participants.ID(nodes[0].pubkey)
	idB, _ := h.Participants.ID(nodes[1].pubkey)

	a0 := signAndInsert(t, h, nodes[0], rootA.X, rootA.Y, 0)
	b0 := signAndInsert(t, h, nodes[1], rootB.X, rootB.Y, 0)
	a1 := signAndInsert(t, h, nodes[0], a0, b0, 1)

	storedA0, err := h.Store.GetEvent(a0)
	require.NoError(t, err)
	require.Equal(t, EventCoordinates{index: 0, hash: a0}, storedA0.firstDescendants[idA])

	storedB0, err := h.Store.GetEvent(b0)
	require.NoError(t, err)
	require.Equal(t, EventCoordinates{index: 1, hash: a1}, storedB0.firstDescendants[idA])
	require.Equal(t, EventCoordinates{index: 0, hash: b0}, storedB0.firstDescendants[idB])
}

// TestRoundIncViaStronglySee covers scenario 5: an event strongly-seeing
// a super-majority (3 of 4) of a round's witnesses increments the
// round; strongly-seeing only 2 does not.
//
// A single relay hop (B gossips A, C gossips B, D gossips C) only gives
// the chain's tail partial awareness: d1 ends up strongly-seeing just
// two of the four round-0 witnesses. Closing the loop with a1 = (a0,
// d1) is what pushes a1's view over the super-majority threshold, so
// a1 is the event exercised against RoundInc/Round below.
func TestRoundIncViaStronglySee(t *testing.T) {
	h, nodes := newTestHashgraph(t, 4)
	roots := make([]Root, 4)
	for i, n := range nodes {
		roots[i] = rootOf(t, h, n)
	}

	a0 := signAndInsert(t, h, nodes[0], roots[0].X, roots[0].Y, 0)
	b0 := signAndInsert(t, h, nodes[1], roots[1].X, roots[1].Y, 0)
	c0 := signAndInsert(t, h, nodes[2], roots[2].X, roots[2].Y, 0)
	d0 := signAndInsert(t, h, nodes[3], roots[3].X, roots[3].Y, 0)

	round0 := map[string]RoundEvent{
		a0: {Witness: true, Famous: Undefined},
		b0: {Witness: true, Famous: Undefined},
		c0: {Witness: true, Famous: Undefined},
		d0: {Witness: true, Famous: Undefined},
	}
	require.NoError(t, h.Store.SetRound(0, RoundInfo{Events: round0}))

	b1 := signAndInsert(t, h, nodes[1], b0, a0, 1)
	c1 := signAndInsert(t, h, nodes[2], c0, b1, 1)
	d1 := signAndInsert(t, h, nodes[3], d0, c1, 1)
	a1 := signAndInsert(t, h, nodes[0], a0, d1, 1)

	require.True(t, h.StronglySee(a1, a0))
	require.True(t, h.StronglySee(a1, b0))
	require.True(t, h.StronglySee(a1, c0))
	require.True(t, h.RoundInc(a1))
	require.Equal(t, 1, h.Round(a1))

	// d1 strongly-sees only a0 and b0: two of four, below the threshold.
	require.False(t, h.RoundInc(d1))
	require.Equal(t, 0, h.Round(d1))

	// b2 only relays b1's own single-hop knowledge forward: no
	// other-parent, so no new witness is strongly seen, no round
	// increment.
	b2 := signAndInsert(t, h, nodes[1], b1, "", 2)
	require.False(t, h.RoundInc(b2))
	require.Equal(t, 0, h.Round(b2))
}

// TestOtherParentInRootOthers covers scenario 6: an other-parent that is
// not itself stored is admissible when the creator's root.Others
// records it.
func TestOtherParentInRootOthers(t *testing.T) {
	h, nodes := newTestHashgraph(t, 4)

	// Compute the event's hex before registering it in root.Others,
	// since Others is keyed by the event's own hex.
	probe := NewEvent(nil, []string{"", "some-hash-outside-the-dag"}, []byte(nodes[0].pubkey), 0)
	require.NoError(t, probe.Sign(nodes[0].key))

	rootA := NewBaseRoot()
	rootA.Others[probe.Hex()] = "some-hash-outside-the-dag"

	roots := map[string]Root{nodes[0].pubkey: rootA}
	for i := 1; i < 4; i++ {
		roots[nodes[i].pubkey] = NewBaseRoot()
	}
	require.NoError(t, h.Store.(*InmemStore).Reset(roots))

	require.NoError(t, h.InsertEvent(probe, true))

	pr := h.ParentRound(probe.Hex())
	require.Equal(t, rootA.Round, pr.Round)
}

// TestReflexivePredicates covers the boundary behavior that Ancestor and
// SelfAncestor are reflexive.
func TestReflexivePredicates(t *testing.T) {
	h, nodes := newTestHashgraph(t, 4)
	root := rootOf(t, h, nodes[0])
	a0 := signAndInsert(t, h, nodes[0], root.X, root.Y, 0)

	require.True(t, h.Ancestor(a0, a0))
	require.True(t, h.SelfAncestor(a0, a0))
}

// TestStronglySeeDegeneratesWithSingleParticipant covers the N=1
// boundary: super_majority = 1, so StronglySee(x, y) degenerates to
// Ancestor(x, y).
func TestStronglySeeDegeneratesWithSingleParticipant(t *testing.T) {
	h, nodes := newTestHashgraph(t, 1)
	require.Equal(t, 1, h.Participants.SuperMajority())

	root := rootOf(t, h, nodes[0])
	a0 := signAndInsert(t, h, nodes[0], root.X, root.Y, 0)
	a1 := signAndInsert(t, h, nodes[0], a0, "", 1)

	require.Equal(t, h.Ancestor(a1, a0), h.StronglySee(a1, a0))
}

func TestMissingParentsDegradeGracefully(t *testing.T) {
	h, _ := newTestHashgraph(t, 4)
	require.False(t, h.Ancestor("missing-x", "missing-y"))
	require.False(t, h.SelfAncestor("missing-x", "missing-y"))
	require.False(t, h.StronglySee("missing-x", "missing-y"))
	require.Equal(t, "", h.OldestSelfAncestorToSee("missing-x", "missing-y"))
	require.Equal(t, -1, h.Round("missing-x"))

	_, err := h.RoundDiff("missing-x", "missing-y")
	require.ErrorIs(t, err, ErrNegativeRound)
}

func TestInsertEventTopologicalIndexIncreasesStrictly(t *testing.T) {
	h, nodes := newTestHashgraph(t, 4)
	root := rootOf(t, h, nodes[0])

	a0 := NewEvent(nil, []string{root.X, root.Y}, []byte(nodes[0].pubkey), 0)
	require.NoError(t, a0.Sign(nodes[0].key))
	require.NoError(t, h.InsertEvent(a0, true))
	storedA0, err := h.Store.GetEvent(a0.Hex())
	require.NoError(t, err)
	require.Equal(t, 0, storedA0.TopologicalIndex())

	a1 := NewEvent(nil, []string{a0.Hex(), ""}, []byte(nodes[0].pubkey), 1)
	require.NoError(t, a1.Sign(nodes[0].key))
	require.NoError(t, h.InsertEvent(a1, true))
	storedA1, err := h.Store.GetEvent(a1.Hex())
	require.NoError(t, err)
	require.Equal(t, 1, storedA1.TopologicalIndex())
	require.Greater(t, storedA1.TopologicalIndex(), storedA0.TopologicalIndex())
}

func TestInvalidSignatureRejected(t *testing.T) {
	h, nodes := newTestHashgraph(t, 4)
	root := rootOf(t, h, nodes[0])

	ev := NewEvent(nil, []string{root.X, root.Y}, []byte(nodes[0].pubkey), 0)
	// Never signed: Signature is nil, so Verify() must fail.
	err := h.InsertEvent(ev, true)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestOtherParentUnknownRejected(t *testing.T) {
	h, nodes := newTestHashgraph(t, 4)
	root := rootOf(t, h, nodes[0])

	ev := NewEvent(nil, []string{root.X, "some-unknown-hash"}, []byte(nodes[0].pubkey), 0)
	require.NoError(t, ev.Sign(nodes[0].key))
	err := h.InsertEvent(ev, true)
	require.ErrorIs(t, err, ErrOtherParentUnknown)
}

func TestKnown(t *testing.T) {
	h, nodes := newTestHashgraph(t, 3)
	root := rootOf(t, h, nodes[0])

	a0 := signAndInsert(t, h, nodes[0], root.X, root.Y, 0)
	signAndInsert(t, h, nodes[0], a0, "", 1)

	known := h.Known()
	idA, _ := h.Participants.ID(nodes[0].pubkey)
	require.Equal(t, 2, known[idA])

	idB, _ := h.Participants.ID(nodes[1].pubkey)
	require.Equal(t, 0, known[idB])
}

func TestPendingLoadedEvents(t *testing.T) {
	h, nodes := newTestHashgraph(t, 3)
	root := rootOf(t, h, nodes[0])

	require.Equal(t, 0, h.PendingLoadedEvents())

	ev := NewEvent([][]byte{[]byte("payload")}, []string{root.X, root.Y}, []byte(nodes[0].pubkey), 0)
	require.NoError(t, ev.Sign(nodes[0].key))
	require.NoError(t, h.InsertEvent(ev, true))

	require.Equal(t, 1, h.PendingLoadedEvents())
	require.Equal(t, []string{ev.Hex()}, h.UndeterminedEvents())
}
