package protoarray

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForkChoice_ProcessAttestation_genesisRootAlwaysOverwrites(t *testing.T) {
	f := setup(0, 0)
	ctx := context.Background()

	// Genesis (the zero root) is a legitimate vote target, so its vote
	// entry's nextRoot never leaves the zero value no matter how many
	// times it is voted for. A validator attesting for genesis at a high
	// epoch and then again at a lower epoch must still have the second
	// attestation registered: freshness is "nextRoot == zero hash", not
	// "this epoch is newer than the last one".
	f.ProcessAttestation(ctx, []uint64{0}, [32]byte{}, 5)
	f.votesLock.RLock()
	firstEpoch := f.votes[0].nextEpoch
	f.votesLock.RUnlock()
	assert.Equal(t, uint64(5), uint64(firstEpoch))

	f.ProcessAttestation(ctx, []uint64{0}, [32]byte{}, 2)
	f.votesLock.RLock()
	secondEpoch := f.votes[0].nextEpoch
	f.votesLock.RUnlock()
	assert.Equal(t, uint64(2), uint64(secondEpoch), "a later attestation for genesis must overwrite even at a lower epoch")
}

func TestForkChoice_ProcessBlock_duplicateIsNoOp(t *testing.T) {
	f := setup(0, 0)
	root := indexToHash(1)
	ctx := context.Background()

	require.NoError(t, f.ProcessBlock(ctx, 1, root, [32]byte{}, 0, 0))
	require.NoError(t, f.ProcessBlock(ctx, 1, root, [32]byte{}, 0, 0))

	assert.Equal(t, 2, f.NodeCount())
}

func TestForkChoice_Head_unknownJustifiedRoot(t *testing.T) {
	f := setup(0, 0)
	_, err := f.Head(context.Background(), 0, indexToHash(42), []uint64{}, 0)
	assert.ErrorIs(t, err, ErrUnknownJustifiedRoot)
}

func TestForkChoice_Head_noVotesFollowsOnlyChild(t *testing.T) {
	f := setup(0, 0)
	ctx := context.Background()
	root1 := indexToHash(1)
	require.NoError(t, f.ProcessBlock(ctx, 1, root1, [32]byte{}, 0, 0))

	head, err := f.Head(ctx, 0, [32]byte{}, []uint64{}, 0)
	require.NoError(t, err)
	assert.Equal(t, root1, head, "with no votes, head should follow the only child chain")
}

func TestForkChoice_Head_voteSwingsHeadToHeavierBranch(t *testing.T) {
	f := setup(0, 0)
	ctx := context.Background()

	left := indexToHash(1)
	right := indexToHash(2)
	require.NoError(t, f.ProcessBlock(ctx, 1, left, [32]byte{}, 0, 0))
	require.NoError(t, f.ProcessBlock(ctx, 1, right, [32]byte{}, 0, 0))

	f.ProcessAttestation(ctx, []uint64{0}, left, 1)
	head, err := f.Head(ctx, 0, [32]byte{}, []uint64{10}, 0)
	require.NoError(t, err)
	assert.Equal(t, left, head)

	f.ProcessAttestation(ctx, []uint64{1}, right, 2)
	head, err = f.Head(ctx, 0, [32]byte{}, []uint64{10, 20}, 0)
	require.NoError(t, err)
	assert.Equal(t, right, head, "validator 1's larger balance should swing the head to the right branch")
}

func TestForkChoice_Head_balanceZeroingRemovesWeight(t *testing.T) {
	f := setup(0, 0)
	ctx := context.Background()

	left := indexToHash(1)
	right := indexToHash(2)
	require.NoError(t, f.ProcessBlock(ctx, 1, left, [32]byte{}, 0, 0))
	require.NoError(t, f.ProcessBlock(ctx, 1, right, [32]byte{}, 0, 0))

	f.ProcessAttestation(ctx, []uint64{0}, left, 1)
	head, err := f.Head(ctx, 0, [32]byte{}, []uint64{10}, 0)
	require.NoError(t, err)
	assert.Equal(t, left, head)

	// validator 0's balance drops to zero; its existing vote for left no
	// longer contributes any weight.
	_, err = f.Head(ctx, 0, [32]byte{}, []uint64{0}, 0)
	require.NoError(t, err)

	weight, err := f.Weight(left)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), weight, "left's weight should have been zeroed out with validator 0's balance")
}

func TestForkChoice_HasNode(t *testing.T) {
	f := setup(0, 0)
	assert.True(t, f.HasNode([32]byte{}))
	assert.False(t, f.HasNode(indexToHash(1)))
}

func TestForkChoice_Tips_leavesOnly(t *testing.T) {
	f := setup(0, 0)
	ctx := context.Background()
	a := indexToHash(1)
	b := indexToHash(2)
	require.NoError(t, f.ProcessBlock(ctx, 1, a, [32]byte{}, 0, 0))
	require.NoError(t, f.ProcessBlock(ctx, 2, b, a, 0, 0))

	roots, slots := f.Tips()
	require.Len(t, roots, 1)
	assert.Equal(t, b, roots[0])
	assert.Equal(t, uint64(2), uint64(slots[0]))
}
