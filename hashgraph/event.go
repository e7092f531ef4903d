// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashgraph

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"time"

	"github.com/luxfi/hashgraph/hgcrypto"
	"github.com/luxfi/ids"
)

// sentinelFirstDescendant marks an unset FirstDescendants slot: treat as
// +infinity for comparisons, since the core cannot grow backward.
const sentinelFirstDescendant = math.MaxInt64

// sentinelLastAncestor marks an unset LastAncestors slot.
const sentinelLastAncestor = -1

// EventCoordinates is one slot of a LastAncestors/FirstDescendants
// vector: the (index, hash) pair known for a single participant.
type EventCoordinates struct {
	index int
	hash  string
}

func emptyCoordinates() EventCoordinates {
	return EventCoordinates{index: sentinelLastAncestor}
}

func unreachedCoordinates() EventCoordinates {
	return EventCoordinates{index: sentinelFirstDescendant}
}

// EventBody holds everything that is covered by the event's signature.
type EventBody struct {
	Transactions [][]byte
	Parents      []string // [self_parent, other_parent]; either may be ""
	Creator      []byte   // creator public key, uncompressed point bytes
	Timestamp    time.Time
	Index        int

	// Wire-form fields, populated by InsertEvent when the caller asks
	// for compact re-serialization. Left at their zero value otherwise.
	selfParentIndex      int
	otherParentCreatorID int
	otherParentIndex     int
	creatorID            int
}

func (b *EventBody) selfParent() string {
	if len(b.Parents) < 1 {
		return ""
	}
	return b.Parents[0]
}

func (b *EventBody) otherParent() string {
	if len(b.Parents) < 2 {
		return ""
	}
	return b.Parents[1]
}

// marshal produces the canonical byte encoding that is hashed and
// signed. The encoding only needs to be stable (same bytes for the same
// logical body), not compact or forward-compatible.
func (b *EventBody) marshal() []byte {
	buf := make([]byte, 0, 128)
	for _, tx := range b.Transactions {
		buf = appendUint32(buf, uint32(len(tx)))
		buf = append(buf, tx...)
	}
	buf = appendUint32(buf, uint32(len(b.Parents)))
	for _, p := range b.Parents {
		buf = appendUint32(buf, uint32(len(p)))
		buf = append(buf, p...)
	}
	buf = appendUint32(buf, uint32(len(b.Creator)))
	buf = append(buf, b.Creator...)
	ts, _ := b.Timestamp.UTC().MarshalBinary()
	buf = appendUint32(buf, uint32(len(ts)))
	buf = append(buf, ts...)
	buf = appendUint64(buf, uint64(b.Index))
	return buf
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func appendUint64(buf []byte, v uint64) []byte {
	return append(buf,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// Event is a signed node in the hashgraph DAG, together with the
// bookkeeping the core attaches during InsertEvent.
type Event struct {
	Body      EventBody
	Signature []byte

	topologicalIndex int
	roundReceived    *int

	lastAncestors    []EventCoordinates
	firstDescendants []EventCoordinates

	hex string // cached content hash, lazily computed
}

// NewEvent builds an unsigned event from its body components. Sign must
// be called before the event can pass InsertEvent's signature check.
func NewEvent(transactions [][]byte, parents []string, creator []byte, index int) Event {
	if parents == nil {
		parents = []string{"", ""}
	}
	return Event{
		Body: EventBody{
			Transactions: transactions,
			Parents:      parents,
			Creator:      creator,
			Timestamp:    time.Now(),
			Index:        index,
		},
	}
}

// Sign signs the event's canonical body encoding with key and invalidates
// any cached hex, since the signature is part of the signed payload.
func (e *Event) Sign(key *ecdsa.PrivateKey) error {
	sig, err := hgcrypto.Sign(key, e.Body.marshal())
	if err != nil {
		return err
	}
	e.Signature = sig
	e.hex = ""
	return nil
}

// Verify checks the event's signature against its own Creator public key.
func (e *Event) Verify() bool {
	pub := hgcrypto.ToECDSAPub(e.Body.Creator)
	if pub == nil {
		return false
	}
	return hgcrypto.Verify(pub, e.Body.marshal(), e.Signature)
}

// Hex returns the event's stable content hash, computed over the body
// and signature and cached on first access.
func (e *Event) Hex() string {
	if e.hex == "" {
		h := sha256.New()
		h.Write(e.Body.marshal())
		h.Write(e.Signature)
		e.hex = hex.EncodeToString(h.Sum(nil))
	}
	return e.hex
}

// ID returns Hex() reinterpreted as a 32-byte content identifier, the
// in-memory representation used wherever a fixed-size identity is more
// convenient than a hex string.
func (e *Event) ID() ids.ID {
	var id ids.ID
	raw, err := hex.DecodeString(e.Hex())
	if err != nil {
		return id
	}
	copy(id[:], raw)
	return id
}

// SelfParent returns the event's self-parent hash, or "" if it has none.
func (e *Event) SelfParent() string { return e.Body.selfParent() }

// OtherParent returns the event's other-parent hash, or "" if it has none.
func (e *Event) OtherParent() string { return e.Body.otherParent() }

// IsLoaded reports whether the event carries a non-empty payload.
func (e *Event) IsLoaded() bool { return len(e.Body.Transactions) > 0 }

// TopologicalIndex is the dense insertion-order index InsertEvent
// assigns. InsertEvent takes its event by value and sets the index on the
// copy it stores, so it is read from the event as returned by the Store;
// the caller's own Event value keeps zero.
func (e *Event) TopologicalIndex() int { return e.topologicalIndex }

// RoundReceived returns the round-received value if the (out-of-scope)
// ordering pass has set one, or -1 otherwise.
func (e *Event) RoundReceived() int {
	if e.roundReceived == nil {
		return -1
	}
	return *e.roundReceived
}

// WireBody is the compact re-serializable form of EventBody: parent
// hashes are replaced with (creator id, index) coordinates resolved
// against a participant registry.
type WireBody struct {
	Transactions         [][]byte
	SelfParentIndex      int
	OtherParentCreatorID int
	OtherParentIndex     int
	CreatorID            int
	Timestamp            time.Time
	Index                int
}

// WireEvent is an Event in wire form.
type WireEvent struct {
	Body      WireBody
	Signature []byte
}

// ToWire converts ev to its compact wire form using the wire-info fields
// InsertEvent populated (selfParentIndex, otherParentCreatorID,
// otherParentIndex, creatorID).
func (e *Event) ToWire() WireEvent {
	return WireEvent{
		Body: WireBody{
			Transactions:         e.Body.Transactions,
			SelfParentIndex:      e.Body.selfParentIndex,
			OtherParentCreatorID: e.Body.otherParentCreatorID,
			OtherParentIndex:     e.Body.otherParentIndex,
			CreatorID:            e.Body.creatorID,
			Timestamp:            e.Body.Timestamp,
			Index:                e.Body.Index,
		},
		Signature: e.Signature,
	}
}
