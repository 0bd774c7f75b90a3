package protoarray

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDeltas_newVoteAddsWeightToNextRoot(t *testing.T) {
	root := indexToHash(1)
	nodeIndices := map[[32]byte]uint64{root: 0}
	votes := []Vote{{currentRoot: [32]byte{}, nextRoot: root, nextEpoch: 1}}

	deltas, newVotes, err := computeDeltas(context.Background(), nodeIndices, votes, []uint64{0}, []uint64{64})
	require.NoError(t, err)

	assert.Equal(t, []int{64}, deltas)
	assert.Equal(t, root, newVotes[0].currentRoot)
}

func TestComputeDeltas_movedVoteSubtractsOldAddsNew(t *testing.T) {
	oldRoot := indexToHash(1)
	newRoot := indexToHash(2)
	nodeIndices := map[[32]byte]uint64{oldRoot: 0, newRoot: 1}
	votes := []Vote{{currentRoot: oldRoot, nextRoot: newRoot, nextEpoch: 2}}

	deltas, newVotes, err := computeDeltas(context.Background(), nodeIndices, votes, []uint64{64}, []uint64{64})
	require.NoError(t, err)

	assert.Equal(t, -64, deltas[0])
	assert.Equal(t, 64, deltas[1])
	assert.Equal(t, newRoot, newVotes[0].currentRoot)
}

func TestComputeDeltas_balanceChangeOnUnmovedVote(t *testing.T) {
	root := indexToHash(1)
	nodeIndices := map[[32]byte]uint64{root: 0}
	votes := []Vote{{currentRoot: root, nextRoot: root, nextEpoch: 1}}

	deltas, _, err := computeDeltas(context.Background(), nodeIndices, votes, []uint64{32}, []uint64{64})
	require.NoError(t, err)

	assert.Equal(t, 32, deltas[0], "net delta should be +32 (old 32 removed, new 64 added)")
}

func TestComputeDeltas_zeroHashVoteIsSkipped(t *testing.T) {
	nodeIndices := map[[32]byte]uint64{}
	votes := []Vote{{}}

	deltas, newVotes, err := computeDeltas(context.Background(), nodeIndices, votes, []uint64{0}, []uint64{64})
	require.NoError(t, err)

	assert.Empty(t, deltas)
	assert.Equal(t, [32]byte{}, newVotes[0].currentRoot)
}

func TestVoteForValidator_growsSlice(t *testing.T) {
	votes := voteForValidator(nil, 3)
	assert.Len(t, votes, 4)
}
