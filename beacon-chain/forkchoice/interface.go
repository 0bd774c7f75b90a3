// Package forkchoice defines the narrow interface the rest of a beacon
// chain client uses to drive a fork choice engine, independent of which
// concrete algorithm backs it.
package forkchoice

import (
	"context"

	"github.com/prysmaticlabs/proto-lmd-forkchoice/consensus-types/primitives"
)

// ForkChoicer is satisfied by protoarray.ForkChoice. It exposes the
// operations a block/attestation processing pipeline needs (inserting new
// blocks and attestations, and asking for the current canonical head) plus a
// few read-only accessors for inspecting the block tree.
type ForkChoicer interface {
	ProcessBlock(ctx context.Context, slot primitives.Slot, root, parentRoot [32]byte, justifiedEpoch, finalizedEpoch primitives.Epoch) error
	ProcessAttestation(ctx context.Context, validatorIndices []uint64, blockRoot [32]byte, targetEpoch primitives.Epoch)
	Head(ctx context.Context, justifiedEpoch primitives.Epoch, justifiedRoot [32]byte, balances []uint64, finalizedEpoch primitives.Epoch) ([32]byte, error)
	HasNode(root [32]byte) bool
	Weight(root [32]byte) (uint64, error)
	NodeCount() int
	Tips() ([][32]byte, []primitives.Slot)
}
