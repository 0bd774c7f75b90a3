package protoarray

import (
	"context"

	"go.opencensus.io/trace"
)

// computeDeltas translates the difference between oldBalances and
// newBalances, combined with each validator's vote advancing from
// currentRoot to nextRoot, into a per-node weight delta slice indexed the
// same way as the arena. It also returns votes with currentRoot advanced to
// nextRoot, ready to store back on the ForkChoice.
//
// A validator contributes its *old* balance to the node its *current* vote
// points at (removing weight) and its *new* balance to the node its *next*
// vote points at (adding weight). A validator whose current and next root are
// the same node therefore nets new minus old on that node, which is how a
// pure balance change reaches the weights. A zero-value root (a
// validator that has never voted) is skipped entirely on both ends.
func computeDeltas(
	ctx context.Context,
	nodeIndices map[[32]byte]uint64,
	votes []Vote,
	oldBalances []uint64,
	newBalances []uint64,
) ([]int, []Vote, error) {
	_, span := trace.StartSpan(ctx, "protoArrayForkChoice.computeDeltas")
	defer span.End()

	deltas := make([]int, len(nodeIndices))
	newVotes := make([]Vote, len(votes))
	copy(newVotes, votes)

	var zeroHash [32]byte

	for validatorIndex, vote := range votes {
		oldBalance := uint64(0)
		newBalance := uint64(0)
		if validatorIndex < len(oldBalances) {
			oldBalance = oldBalances[validatorIndex]
		}
		if validatorIndex < len(newBalances) {
			newBalance = newBalances[validatorIndex]
		}

		if vote.currentRoot == zeroHash && vote.nextRoot == zeroHash {
			continue
		}

		if vote.currentRoot != zeroHash {
			currentIndex, ok := nodeIndices[vote.currentRoot]
			if ok && int(currentIndex) < len(deltas) {
				deltas[currentIndex] -= int(oldBalance)
			}
		}

		if vote.nextRoot != zeroHash {
			nextIndex, ok := nodeIndices[vote.nextRoot]
			if ok && int(nextIndex) < len(deltas) {
				deltas[nextIndex] += int(newBalance)
			}
		}

		newVotes[validatorIndex].currentRoot = vote.nextRoot
	}

	return deltas, newVotes, nil
}

// voteForValidator returns votes grown with zero-value entries, if needed, so
// that validatorIndex is a valid index into it.
func voteForValidator(votes []Vote, validatorIndex uint64) []Vote {
	for uint64(len(votes)) <= validatorIndex {
		votes = append(votes, Vote{})
	}
	return votes
}
