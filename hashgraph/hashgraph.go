// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package hashgraph implements the core of a Hashgraph consensus engine:
// event ingestion and DAG maintenance with per-creator ancestry
// coordinates, round assignment, witness identification, and the
// primitive predicates (Ancestor, SelfAncestor, See, StronglySee) the
// full Byzantine-fault-tolerant ordering protocol is built on.
//
// Fame voting, round-received assignment, median-timestamp, and final
// total ordering are out of scope: they exist here only as declared,
// unimplemented stubs so a downstream project can build on this core's
// public surface without the core guessing at their semantics.
package hashgraph

import (
	"sync"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
)

// CommitSink is the handle the core hands ordered consensus events to.
// Its internals (batching, backpressure, the consumer on the other end)
// are entirely out of scope; the core only holds the reference.
type CommitSink interface {
	Commit(events []Event) error
}

// Hashgraph ties the participant registry, store, predicate caches, and
// bookkeeping counters into one single-writer/multi-reader component.
// One logical task is expected to drive InsertEvent; any number of
// goroutines may issue predicate/round queries concurrently.
type Hashgraph struct {
	Participants *ParticipantRegistry
	Store        Store

	commitSink CommitSink

	log     log.Logger
	metrics *metrics
	caches  *predicateCaches

	mu sync.RWMutex

	topologicalIndex    int
	pendingLoadedEvents int

	undeterminedEvents []string

	// Reserved for the out-of-scope ordering pass. The core maintains
	// only the declarations; nothing here is ever written.
	lastConsensusRound      *int
	lastCommittedRoundEvents int
	consensusTransactions   int

	superMajorityOverride int
}

// NewHashgraph constructs a Hashgraph over participants, backed by store
// and handing finalized events to sink. A nil logger defaults to a
// no-op logger; a nil registerer skips Prometheus registration.
func NewHashgraph(participants []string, store Store, sink CommitSink, logger log.Logger, reg prometheus.Registerer, cfg Config) (*Hashgraph, error) {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}

	h := &Hashgraph{
		Participants:          NewParticipantRegistry(participants),
		Store:                 store,
		commitSink:            sink,
		log:                   logger,
		caches:                newPredicateCaches(cfg.CacheSize),
		superMajorityOverride: cfg.SuperMajorityOverride,
	}

	m, err := newMetrics(reg, h)
	if err != nil {
		return nil, err
	}
	h.metrics = m

	return h, nil
}

// superMajority returns the configured override if set, else the
// registry's derived 2N/3+1 threshold.
func (h *Hashgraph) superMajority() int {
	if h.superMajorityOverride > 0 {
		return h.superMajorityOverride
	}
	return h.Participants.SuperMajority()
}

// PendingLoadedEvents returns the count of inserted events carrying a
// non-empty payload that have not yet been committed.
func (h *Hashgraph) PendingLoadedEvents() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pendingLoadedEvents
}

// UndeterminedEvents returns the ordered sequence of event hexes
// inserted but not yet carried through the out-of-scope fame/ordering
// pass. The returned slice is a copy; callers may not mutate h's state
// through it.
func (h *Hashgraph) UndeterminedEvents() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.undeterminedEvents))
	copy(out, h.undeterminedEvents)
	return out
}

// TopologicalIndex returns the next topological index InsertEvent will
// assign.
func (h *Hashgraph) TopologicalIndex() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.topologicalIndex
}

// Known returns, for every participant id, one more than the highest
// index of any event stored for that participant. It is a direct,
// cheap derivative of store state with no fame/ordering dependency.
func (h *Hashgraph) Known() map[int]int {
	return h.Store.Known()
}

// The following are the downstream fame/ordering passes. Their source
// in the project this core was distilled from is structurally
// incomplete (commented-out, partial implementations), so per the
// core's own design they are declared but never given a body: an
// implementer who needs them is building a separate, downstream project
// on top of this core's public surface, not extending the core itself.

// DivideRounds assigns events to rounds and records round witnesses.
// Not implemented by this core; see the package doc comment.
func (h *Hashgraph) DivideRounds() error { return ErrNotImplemented }

// DecideFame runs the fame-voting pass over witnesses. Not implemented.
func (h *Hashgraph) DecideFame() error { return ErrNotImplemented }

// FindOrder computes the final total order of consensus events and
// assigns RoundReceived. Not implemented.
func (h *Hashgraph) FindOrder() error { return ErrNotImplemented }

// MedianTimestamp computes the consensus timestamp of a round-received
// set. Not implemented.
func (h *Hashgraph) MedianTimestamp(roundReceived int) (int64, error) {
	return 0, ErrNotImplemented
}

// Reset discards all events and rounds, reinitializing the store to
// hold only the given roots. Not implemented: it returns
// ErrNotImplemented without touching the store (Store.Reset can be
// called directly); fame/ordering state reconstruction is out of scope.
func (h *Hashgraph) Reset(roots map[string]Root) error {
	return ErrNotImplemented
}

// GetFrame computes a snapshot of undetermined events suitable for
// fast-sync bootstrap. Not implemented.
func (h *Hashgraph) GetFrame() (interface{}, error) { return nil, ErrNotImplemented }

// Bootstrap replays a persisted set of events to rebuild in-memory
// state. Not implemented.
func (h *Hashgraph) Bootstrap() error { return ErrNotImplemented }
