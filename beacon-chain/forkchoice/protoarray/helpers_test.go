package protoarray

import (
	"context"

	"github.com/prysmaticlabs/proto-lmd-forkchoice/consensus-types/primitives"
	"github.com/prysmaticlabs/proto-lmd-forkchoice/shared/hashutil"
)

// setup returns a fresh ForkChoice with genesis root zeroHash already
// inserted at slot 0, justified and finalized at the given epochs.
func setup(justifiedEpoch, finalizedEpoch primitives.Epoch) *ForkChoice {
	f := New(justifiedEpoch, finalizedEpoch, [32]byte{})
	if err := f.ProcessBlock(context.Background(), 0, [32]byte{}, [32]byte{}, justifiedEpoch, finalizedEpoch); err != nil {
		panic(err)
	}
	return f
}

// indexToHash derives a deterministic root for test block i, the same
// convention the spec's own worked scenarios use (H(i)).
func indexToHash(i uint64) [32]byte {
	var b [8]byte
	for j := 0; j < 8; j++ {
		b[j] = byte(i >> (8 * j))
	}
	return hashutil.Hash(b[:])
}
