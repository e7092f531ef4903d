// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashgraph

import "fmt"

// ParentRoundInfo is the round of an event's parents, together with
// whether that round came from a participant root rather than a real
// stored event.
type ParentRoundInfo struct {
	Round  int
	IsRoot bool
}

func negativeParentRound() ParentRoundInfo {
	return ParentRoundInfo{Round: -1, IsRoot: false}
}

// ParentRound computes the round of x's parents: the componentwise max,
// by round, of the self-parent and other-parent rounds (ties favor the
// self-parent side). Returns round -1 if x is absent.
func (h *Hashgraph) ParentRound(x string) ParentRoundInfo {
	if v, ok := h.caches.parentRound.Get(x); ok {
		h.metrics.cacheHits.WithLabelValues("parent_round").Inc()
		return v
	}
	h.metrics.cacheMisses.WithLabelValues("parent_round").Inc()

	ex, err := h.Store.GetEvent(x)
	if err != nil {
		return negativeParentRound()
	}

	root, err := h.Store.GetRoot(string(ex.Body.Creator))
	if err != nil {
		return negativeParentRound()
	}

	spRound := ParentRoundInfo{Round: root.Round, IsRoot: true}
	if sp := ex.SelfParent(); sp != root.X {
		spRound = ParentRoundInfo{Round: h.Round(sp), IsRoot: false}
	}

	opRound := negativeParentRound()
	op := ex.OtherParent()
	switch {
	case op == "":
		opRound = spRound
	case h.eventExists(op):
		opRound = ParentRoundInfo{Round: h.Round(op), IsRoot: false}
	case op == root.Y:
		opRound = ParentRoundInfo{Round: root.Round, IsRoot: true}
	case root.Others[x] == op:
		// Upper-bound shortcut: the true other-parent round is <=
		// root.Round, and only the max is ever used.
		opRound = ParentRoundInfo{Round: root.Round, IsRoot: false}
	default:
		opRound = spRound
	}

	result := spRound
	if opRound.Round > spRound.Round {
		result = opRound
	}

	h.caches.parentRound.Add(x, result)
	return result
}

func (h *Hashgraph) eventExists(hex string) bool {
	if hex == "" {
		return false
	}
	_, err := h.Store.GetEvent(hex)
	return err == nil
}

// Witness reports whether x is the first event of a round for its
// creator: either it sits directly on its creator's root, or its round
// exceeds its self-parent's round.
func (h *Hashgraph) Witness(x string) bool {
	ex, err := h.Store.GetEvent(x)
	if err != nil {
		return false
	}

	root, err := h.Store.GetRoot(string(ex.Body.Creator))
	if err != nil {
		return false
	}

	if ex.SelfParent() == root.X && ex.OtherParent() == root.Y {
		return true
	}

	return h.Round(x) > h.Round(ex.SelfParent())
}

// RoundInc reports whether x's round must be one greater than
// ParentRound(x).Round: true if the parent round came from a root,
// otherwise true iff x strongly-sees a super-majority of that round's
// witnesses.
func (h *Hashgraph) RoundInc(x string) bool {
	pr := h.ParentRound(x)
	if pr.IsRoot {
		return true
	}
	if pr.Round < 0 {
		return false
	}

	witnesses := h.Store.RoundWitnesses(pr.Round)
	count := 0
	for _, w := range witnesses {
		if h.StronglySee(x, w) {
			count++
		}
	}
	return count >= h.superMajority()
}

// Round returns ParentRound(x).Round, incremented by one if RoundInc(x).
func (h *Hashgraph) Round(x string) int {
	if v, ok := h.caches.round.Get(x); ok {
		h.metrics.cacheHits.WithLabelValues("round").Inc()
		return v
	}
	h.metrics.cacheMisses.WithLabelValues("round").Inc()

	pr := h.ParentRound(x)
	if pr.Round < 0 && !pr.IsRoot {
		// x is absent from the store: the DAG only grows, so this
		// answer could change the moment x is inserted. Matching
		// ParentRound's own behavior, never cache it.
		return -1
	}

	result := pr.Round
	if h.RoundInc(x) {
		result++
	}

	h.caches.round.Add(x, result)
	return result
}

// RoundReceived returns x's round-received if the out-of-scope ordering
// pass has assigned one, or -1 otherwise.
func (h *Hashgraph) RoundReceived(x string) int {
	ex, err := h.Store.GetEvent(x)
	if err != nil {
		return -1
	}
	return ex.RoundReceived()
}

// RoundDiff returns Round(x) - Round(y). It is the one predicate-layer
// operation that returns an error: a negative round indicates one of
// the events is missing, which is a caller contract violation rather
// than a degrade-gracefully case.
func (h *Hashgraph) RoundDiff(x, y string) (int, error) {
	xRound := h.Round(x)
	if xRound < 0 {
		return 0, fmt.Errorf("%w: event %s has unresolved round", ErrNegativeRound, x)
	}
	yRound := h.Round(y)
	if yRound < 0 {
		return 0, fmt.Errorf("%w: event %s has unresolved round", ErrNegativeRound, y)
	}
	return xRound - yRound, nil
}
