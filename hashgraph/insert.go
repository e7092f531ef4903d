// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashgraph

import (
	"fmt"

	"go.uber.org/zap"
)

// InsertEvent runs the full insertion pipeline on ev: signature check,
// parent validity checks, topological indexing, coordinate
// initialization, storage, and back-propagation of first-descendants to
// ancestors. On any failure up to and including storing the event, the
// event is rejected and no state is mutated: no topological index is
// consumed and no cache entries are written. A store failure during the
// back-propagation step is returned after the event itself has been
// stored and its topological index consumed; nothing is rolled back.
//
// When setWireInfo is true, the wire-form fields (selfParentIndex,
// otherParentCreatorID, otherParentIndex, creatorID) are populated from
// the resolved parents before the event is stored.
func (h *Hashgraph) InsertEvent(ev Event, setWireInfo bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !ev.Verify() {
		h.log.Debug("rejecting event: invalid signature", zap.String("hex", ev.Hex()))
		return ErrInvalidSignature
	}

	if err := h.checkSelfParent(&ev); err != nil {
		return err
	}

	if err := h.checkOtherParent(&ev); err != nil {
		return err
	}

	ev.topologicalIndex = h.topologicalIndex

	if setWireInfo {
		if err := h.setWireInfo(&ev); err != nil {
			return err
		}
	}

	if err := h.initEventCoordinatesLocked(&ev); err != nil {
		return err
	}

	if err := h.Store.SetEvent(ev); err != nil {
		return StoreError("set_event", err)
	}
	h.topologicalIndex++

	if err := h.updateAncestorFirstDescendantLocked(ev); err != nil {
		return StoreError("update_ancestor_first_descendant", err)
	}

	h.undeterminedEvents = append(h.undeterminedEvents, ev.Hex())
	if ev.IsLoaded() {
		h.pendingLoadedEvents++
	}

	h.metrics.eventsInserted.Inc()
	h.log.Debug("inserted event",
		zap.String("hex", ev.Hex()),
		zap.Int("topological_index", ev.topologicalIndex),
	)
	return nil
}

// checkSelfParent enforces that ev.self_parent equals the creator's
// last-known event, which is what guarantees no two events from the
// same creator ever share an index.
func (h *Hashgraph) checkSelfParent(ev *Event) error {
	last, _, err := h.Store.LastFrom(string(ev.Body.Creator))
	if err != nil {
		return StoreError("last_from", err)
	}
	if ev.SelfParent() != last {
		return fmt.Errorf("%w: want %q, got %q", ErrSelfParentMismatch, last, ev.SelfParent())
	}
	return nil
}

// checkOtherParent admits an other-parent that is missing from the
// store only if the creator's root accounts for it: either the event
// sits directly on the root, or the root's Others map records this
// exact (event, other-parent) pair.
func (h *Hashgraph) checkOtherParent(ev *Event) error {
	op := ev.OtherParent()
	if op == "" {
		return nil
	}
	if h.eventExists(op) {
		return nil
	}

	root, err := h.Store.GetRoot(string(ev.Body.Creator))
	if err != nil {
		return StoreError("get_root", err)
	}

	if root.X == ev.SelfParent() && root.Y == op {
		return nil
	}
	if root.Others[ev.Hex()] == op {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrOtherParentUnknown, op)
}

// setWireInfo populates ev's compact re-serialization fields from its
// resolved parents (or root, for a parent the root stands in for: the
// root's X and Y, or an other-parent recorded in root.Others). An
// other-parent supplied by the root is encoded with the creator's own id
// and index -1.
func (h *Hashgraph) setWireInfo(ev *Event) error {
	creatorID, ok := h.Participants.ID(string(ev.Body.Creator))
	if !ok {
		return ErrUnknownParticipant
	}
	ev.Body.creatorID = creatorID

	root, err := h.Store.GetRoot(string(ev.Body.Creator))
	if err != nil {
		return StoreError("get_root", err)
	}

	if sp := ev.SelfParent(); sp == root.X {
		ev.Body.selfParentIndex = -1
	} else if spEv, err := h.Store.GetEvent(sp); err == nil {
		ev.Body.selfParentIndex = spEv.Body.Index
	} else {
		return StoreError("get_event(self_parent)", err)
	}

	op := ev.OtherParent()
	switch {
	case op == "":
		ev.Body.otherParentCreatorID = -1
		ev.Body.otherParentIndex = -1
	case (op == root.Y || root.Others[ev.Hex()] == op) && !h.eventExists(op):
		ev.Body.otherParentCreatorID = creatorID
		ev.Body.otherParentIndex = -1
	default:
		opEv, err := h.Store.GetEvent(op)
		if err != nil {
			return StoreError("get_event(other_parent)", err)
		}
		otherCreatorID, ok := h.Participants.ID(string(opEv.Body.Creator))
		if !ok {
			return ErrUnknownParticipant
		}
		ev.Body.otherParentCreatorID = otherCreatorID
		ev.Body.otherParentIndex = opEv.Body.Index
	}
	return nil
}

// initEventCoordinatesLocked allocates and fills ev's LastAncestors and
// FirstDescendants vectors from its parents' already-stored vectors.
// Caller must hold h.mu.
func (h *Hashgraph) initEventCoordinatesLocked(ev *Event) error {
	n := h.Participants.Len()

	firstDescendants := make([]EventCoordinates, n)
	for i := range firstDescendants {
		firstDescendants[i] = unreachedCoordinates()
	}

	lastAncestors := make([]EventCoordinates, n)

	sp := ev.SelfParent()
	op := ev.OtherParent()
	spEv, spErr := h.Store.GetEvent(sp)
	opEv, opErr := h.Store.GetEvent(op)

	switch {
	case spErr != nil && opErr != nil:
		for i := range lastAncestors {
			lastAncestors[i] = emptyCoordinates()
		}
	case spErr != nil:
		copy(lastAncestors, opEv.lastAncestors)
	case opErr != nil:
		copy(lastAncestors, spEv.lastAncestors)
	default:
		copy(lastAncestors, spEv.lastAncestors)
		for i, other := range opEv.lastAncestors {
			if other.index > lastAncestors[i].index {
				lastAncestors[i] = other
			}
		}
	}

	creatorID, ok := h.Participants.ID(string(ev.Body.Creator))
	if !ok {
		return ErrUnknownParticipant
	}
	self := EventCoordinates{index: ev.Body.Index, hash: ev.Hex()}
	lastAncestors[creatorID] = self
	firstDescendants[creatorID] = self

	ev.lastAncestors = lastAncestors
	ev.firstDescendants = firstDescendants
	return nil
}

// updateAncestorFirstDescendantLocked walks back from ev along each
// self-parent chain recorded in ev.LastAncestors, stamping the earliest
// unset FirstDescendants slot for ev's creator. It stops walking a chain
// as soon as it finds an ancestor that already has that slot set, since
// monotonicity guarantees everything further back is already covered.
// Caller must hold h.mu.
func (h *Hashgraph) updateAncestorFirstDescendantLocked(ev Event) error {
	creatorID, ok := h.Participants.ID(string(ev.Body.Creator))
	if !ok {
		return ErrUnknownParticipant
	}
	self := EventCoordinates{index: ev.Body.Index, hash: ev.Hex()}

	for _, anc := range ev.lastAncestors {
		hash := anc.hash
		for hash != "" {
			a, err := h.Store.GetEvent(hash)
			if err != nil {
				break
			}
			if a.firstDescendants[creatorID].index != sentinelFirstDescendant {
				break
			}
			a.firstDescendants[creatorID] = self
			if err := h.Store.SetEvent(a); err != nil {
				return err
			}
			hash = a.SelfParent()
		}
	}
	return nil
}

// ReadWireInfo reconstructs an Event from its wire form by resolving the
// creator pubkey and parent hashes against the participant registry and
// store. It performs no validation; that is InsertEvent's job.
func (h *Hashgraph) ReadWireInfo(wev WireEvent) (Event, error) {
	creator, ok := h.Participants.Pubkey(wev.Body.CreatorID)
	if !ok {
		return Event{}, ErrUnknownParticipant
	}

	selfParent := ""
	if wev.Body.SelfParentIndex >= 0 {
		hash, err := h.Store.ParticipantEvent(creator, wev.Body.SelfParentIndex)
		if err != nil {
			return Event{}, StoreError("participant_event(self_parent)", err)
		}
		selfParent = hash
	} else {
		root, err := h.Store.GetRoot(creator)
		if err != nil {
			return Event{}, StoreError("get_root", err)
		}
		selfParent = root.X
	}

	otherParent := ""
	if wev.Body.OtherParentIndex >= 0 {
		otherCreator, ok := h.Participants.Pubkey(wev.Body.OtherParentCreatorID)
		if !ok {
			return Event{}, ErrUnknownParticipant
		}
		hash, err := h.Store.ParticipantEvent(otherCreator, wev.Body.OtherParentIndex)
		if err != nil {
			return Event{}, StoreError("participant_event(other_parent)", err)
		}
		otherParent = hash
	}

	ev := NewEvent(wev.Body.Transactions, []string{selfParent, otherParent}, []byte(creator), wev.Body.Index)
	ev.Body.Timestamp = wev.Body.Timestamp
	ev.Signature = wev.Signature
	return ev, nil
}
