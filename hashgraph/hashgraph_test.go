// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashgraph

import (
	"crypto/ecdsa"
	"testing"

	"github.com/luxfi/hashgraph/hgcrypto"
	"github.com/stretchr/testify/require"
)

// testNode bundles a keypair with the pubkey string the registry and
// store key everything by.
type testNode struct {
	key    *ecdsa.PrivateKey
	pubkey string
}

func newTestNode(t *testing.T) testNode {
	t.Helper()
	key, err := hgcrypto.GenerateECDSAKey()
	require.NoError(t, err)
	return testNode{
		key:    key,
		pubkey: string(hgcrypto.FromECDSAPub(&key.PublicKey)),
	}
}

// newTestHashgraph builds a Hashgraph over n freshly generated
// participants, each seeded with a base root, backed by an InmemStore.
func newTestHashgraph(t *testing.T, n int) (*Hashgraph, []testNode) {
	t.Helper()

	nodes := make([]testNode, n)
	pubkeys := make([]string, n)
	for i := 0; i < n; i++ {
		nodes[i] = newTestNode(t)
		pubkeys[i] = nodes[i].pubkey
	}

	store := NewInmemStore(pubkeys, 100)
	h, err := NewHashgraph(pubkeys, store, nil, nil, nil, DefaultConfig())
	require.NoError(t, err)

	// Re-sort nodes to match the dense ids the registry assigned, since
	// NewParticipantRegistry sorts pubkeys independently of input order.
	sorted := make([]testNode, n)
	for _, node := range nodes {
		id, ok := h.Participants.ID(node.pubkey)
		require.True(t, ok)
		sorted[id] = node
	}
	return h, sorted
}

// signAndInsert creates, signs, and inserts an event for node, returning
// its hex.
func signAndInsert(t *testing.T, h *Hashgraph, node testNode, selfParent, otherParent string, index int) string {
	t.Helper()
	ev := NewEvent(nil, []string{selfParent, otherParent}, []byte(node.pubkey), index)
	require.NoError(t, ev.Sign(node.key))
	require.NoError(t, h.InsertEvent(ev, true))
	return ev.Hex()
}

func rootOf(t *testing.T, h *Hashgraph, node testNode) Root {
	t.Helper()
	root, err := h.Store.GetRoot(node.pubkey)
	require.NoError(t, err)
	return root
}
