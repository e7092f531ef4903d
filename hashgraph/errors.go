// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashgraph

import (
	"errors"
	"fmt"
)

// Sentinel error kinds surfaced by InsertEvent and the round engine. Use
// errors.Is against these; StoreError wraps the underlying store failure
// and should be unwrapped with errors.As/errors.Unwrap when the caller
// needs the original cause.
var (
	ErrInvalidSignature   = errors.New("hashgraph: invalid signature")
	ErrSelfParentMismatch = errors.New("hashgraph: self-parent mismatch")
	ErrOtherParentUnknown = errors.New("hashgraph: other-parent unknown")
	ErrNegativeRound      = errors.New("hashgraph: negative round")
	ErrUnknownParticipant = errors.New("hashgraph: unknown participant")

	// ErrNotImplemented marks the downstream fame/ordering surface. These
	// methods are declared so callers can compile against the full
	// public API of a consensus core, but the passes themselves are out
	// of scope here.
	ErrNotImplemented = errors.New("hashgraph: not implemented")
)

// StoreError wraps any failure surfaced by the Store boundary.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("hashgraph: store %s: %w", op, err)
}
