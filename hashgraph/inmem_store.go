// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashgraph

import (
	"fmt"
	"sync"
)

// InmemStore is a reference, non-persistent Store implementation. The
// core's own design explicitly leaves storage out of scope, but an
// in-memory double is needed to exercise InsertEvent and the predicate
// engine end to end, the same role babble's NewInmemStore plays in its
// own test suite.
type InmemStore struct {
	mu sync.RWMutex

	cacheSize int

	events map[string]Event
	rounds map[int]RoundInfo
	roots  map[string]Root

	// participantLastEvent[pubkey] is the hash of that participant's
	// most recent stored event.
	participantLastEvent map[string]string
	// participantEvents[pubkey][index] is the hash of that
	// participant's event at index.
	participantEvents map[string]map[int]string

	consensusEvents []string
	consensusIndex  map[string]struct{}
}

// NewInmemStore builds an InmemStore seeded with a base root for every
// participant pubkey.
func NewInmemStore(participants []string, cacheSize int) *InmemStore {
	s := &InmemStore{
		cacheSize:             cacheSize,
		events:                make(map[string]Event),
		rounds:                make(map[int]RoundInfo),
		roots:                 make(map[string]Root, len(participants)),
		participantLastEvent:  make(map[string]string, len(participants)),
		participantEvents:     make(map[string]map[int]string, len(participants)),
		consensusIndex:        make(map[string]struct{}),
	}
	for _, p := range participants {
		s.roots[p] = NewBaseRoot()
		s.participantEvents[p] = make(map[int]string)
	}
	return s
}

func (s *InmemStore) CacheSize() int { return s.cacheSize }

func (s *InmemStore) GetEvent(hex string) (Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.events[hex]
	if !ok {
		return Event{}, ErrNotFound
	}
	return ev, nil
}

func (s *InmemStore) SetEvent(ev Event) error {
	hex := ev.Hex()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, existed := s.events[hex]; !existed {
		pub := string(ev.Body.Creator)
		if _, ok := s.participantEvents[pub]; !ok {
			s.participantEvents[pub] = make(map[int]string)
		}
		s.participantEvents[pub][ev.Body.Index] = hex
		if cur, ok := s.participantLastEvent[pub]; !ok || ev.Body.Index > s.indexOfLocked(pub, cur) {
			s.participantLastEvent[pub] = hex
		}
	}
	s.events[hex] = ev
	return nil
}

// indexOfLocked looks up the index of an already-stored event belonging
// to pub. Caller must hold s.mu.
func (s *InmemStore) indexOfLocked(pub, hex string) int {
	if ev, ok := s.events[hex]; ok {
		return ev.Body.Index
	}
	return -1
}

func (s *InmemStore) ParticipantEvent(participant string, index int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	evs, ok := s.participantEvents[participant]
	if !ok {
		return "", ErrNotFound
	}
	hex, ok := evs[index]
	if !ok {
		return "", ErrNotFound
	}
	return hex, nil
}

func (s *InmemStore) LastFrom(participant string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if last, ok := s.participantLastEvent[participant]; ok {
		return last, false, nil
	}
	root, ok := s.roots[participant]
	if !ok {
		return "", false, ErrNotFound
	}
	return root.X, true, nil
}

func (s *InmemStore) GetRoot(participant string) (Root, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	root, ok := s.roots[participant]
	if !ok {
		return Root{}, ErrNotFound
	}
	return root, nil
}

func (s *InmemStore) RoundWitnesses(round int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.rounds[round]
	if !ok {
		return nil
	}
	return info.WitnessHexes()
}

func (s *InmemStore) GetRound(round int) (RoundInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.rounds[round]
	if !ok {
		return RoundInfo{}, ErrNotFound
	}
	return info, nil
}

func (s *InmemStore) SetRound(round int, info RoundInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[round] = info
	return nil
}

func (s *InmemStore) Rounds() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rounds)
}

func (s *InmemStore) LastRound() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	max := -1
	for r := range s.rounds {
		if r > max {
			max = r
		}
	}
	return max
}

func (s *InmemStore) RoundEvents(round int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rounds[round].Events)
}

func (s *InmemStore) ConsensusEvents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.consensusEvents))
	copy(out, s.consensusEvents)
	return out
}

func (s *InmemStore) AddConsensusEvent(hex string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.consensusIndex[hex]; ok {
		return fmt.Errorf("hashgraph: event %s already a consensus event", hex)
	}
	s.consensusIndex[hex] = struct{}{}
	s.consensusEvents = append(s.consensusEvents, hex)
	return nil
}

func (s *InmemStore) Known() map[int]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	known := make(map[int]int, len(s.participantEvents))
	ids := participantDenseIDs(s.participantEvents)
	for pub, id := range ids {
		max := -1
		for idx := range s.participantEvents[pub] {
			if idx > max {
				max = idx
			}
		}
		known[id] = max + 1
	}
	return known
}

func (s *InmemStore) Reset(roots map[string]Root) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string]Event)
	s.rounds = make(map[int]RoundInfo)
	s.roots = make(map[string]Root, len(roots))
	s.participantLastEvent = make(map[string]string, len(roots))
	s.participantEvents = make(map[string]map[int]string, len(roots))
	s.consensusEvents = nil
	s.consensusIndex = make(map[string]struct{})
	for pub, root := range roots {
		s.roots[pub] = root
		s.participantEvents[pub] = make(map[int]string)
	}
	return nil
}

// participantDenseIDs assigns stable dense ids to the pubkeys the store
// knows about, in sorted order, purely for Known()'s keying -- it does
// not need to (and does not) agree with a caller's own
// ParticipantRegistry beyond both being derived the same deterministic
// way from the same pubkey set.
func participantDenseIDs(participantEvents map[string]map[int]string) map[string]int {
	pubs := make([]string, 0, len(participantEvents))
	for pub := range participantEvents {
		pubs = append(pubs, pub)
	}
	reg := NewParticipantRegistry(pubs)
	out := make(map[string]int, len(pubs))
	for _, pub := range pubs {
		id, _ := reg.ID(pub)
		out[pub] = id
	}
	return out
}
