// Package protoarray implements the LMD-GHOST fork choice rule over a flat
// arena of block nodes, the data structure Ethereum consensus clients call
// "proto-array". Nodes are appended to a growing slice and referenced by
// index rather than pointer, so that weight-propagation sweeps can walk the
// arena once in descending index order and see every child before its
// parent, without any explicit tree traversal or recursion.
package protoarray

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/proto-lmd-forkchoice/consensus-types/primitives"
	"github.com/prysmaticlabs/proto-lmd-forkchoice/shared/bytesutil"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// New returns an empty ForkChoice rooted at finalizedRoot. finalizedRoot is
// not itself inserted: the first call to ProcessBlock with finalizedRoot as
// its block root establishes the genesis node.
func New(justifiedEpoch, finalizedEpoch primitives.Epoch, finalizedRoot [32]byte) *ForkChoice {
	s := &Store{
		justifiedEpoch: justifiedEpoch,
		finalizedEpoch: finalizedEpoch,
		finalizedRoot:  finalizedRoot,
		nodes:          make([]*Node, 0),
		nodeIndices:    make(map[[32]byte]uint64),
	}
	return &ForkChoice{
		store:    s,
		balances: make([]uint64, 0),
		votes:    make([]Vote, 0),
		id:       uuid.New().String(),
	}
}

// ProcessBlock inserts a new block into the fork choice store. A block
// whose root is already known is a silent no-op, matching the idempotent
// replay semantics the rest of the engine relies on.
func (f *ForkChoice) ProcessBlock(
	ctx context.Context,
	slot primitives.Slot,
	root, parentRoot [32]byte,
	justifiedEpoch, finalizedEpoch primitives.Epoch,
) error {
	ctx, span := trace.StartSpan(ctx, "protoArrayForkChoice.ProcessBlock")
	defer span.End()

	if err := f.store.insert(ctx, slot, root, parentRoot, justifiedEpoch, finalizedEpoch); err != nil {
		return errors.Wrap(err, "could not insert block into fork choice store")
	}
	processedBlockCount.Inc()
	nodeCount.Set(float64(f.NodeCount()))
	log.WithFields(logrus.Fields{
		"slot":       slot,
		"root":       bytesutil.Trunc(root),
		"parentRoot": bytesutil.Trunc(parentRoot),
	}).Debug("processed block")
	return nil
}

// ProcessAttestation registers that validatorIndices now support blockRoot
// as of targetEpoch. The weight does not take effect until the validators'
// balances are folded in by the next call to Head; until then the vote sits
// in the "next" slot of each validator's vote entry, per spec.
func (f *ForkChoice) ProcessAttestation(ctx context.Context, validatorIndices []uint64, blockRoot [32]byte, targetEpoch primitives.Epoch) {
	_, span := trace.StartSpan(ctx, "protoArrayForkChoice.ProcessAttestation")
	defer span.End()

	f.votesLock.Lock()
	defer f.votesLock.Unlock()

	var zeroHash [32]byte

	for _, validatorIndex := range validatorIndices {
		f.votes = voteForValidator(f.votes, validatorIndex)
		vote := f.votes[validatorIndex]

		if vote.nextRoot == zeroHash || targetEpoch > vote.nextEpoch {
			vote.nextEpoch = targetEpoch
			vote.nextRoot = blockRoot
			f.votes[validatorIndex] = vote
			log.WithFields(logrus.Fields{
				"validatorIndex": validatorIndex,
				"blockRoot":      bytesutil.Trunc(blockRoot),
				"targetEpoch":    targetEpoch,
			}).Trace("processed attestation")
		}
	}
	processedAttestationCount.Inc()
}

// Head computes the latest balance and vote deltas, applies them to the
// store, and returns the new canonical head. justifiedRoot must already be
// a known node; it is usually the root of the store's current justified
// checkpoint.
func (f *ForkChoice) Head(ctx context.Context, justifiedEpoch primitives.Epoch, justifiedRoot [32]byte, balances []uint64, finalizedEpoch primitives.Epoch) ([32]byte, error) {
	ctx, span := trace.StartSpan(ctx, "protoArrayForkChoice.Head")
	defer span.End()

	f.votesLock.Lock()
	defer f.votesLock.Unlock()

	f.store.nodesLock.Lock()
	defer f.store.nodesLock.Unlock()

	deltas, newVotes, err := computeDeltas(ctx, f.store.nodeIndices, f.votes, f.balances, balances)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not compute weight deltas")
	}
	f.votes = newVotes
	f.balances = balances

	if err := f.store.applyWeightChanges(ctx, justifiedEpoch, finalizedEpoch, deltas); err != nil {
		return [32]byte{}, errors.Wrap(err, "could not apply weight changes")
	}

	calledHeadCount.Inc()
	head, err := f.store.head(ctx, justifiedRoot)
	if err != nil {
		log.WithError(err).WithField("engine", f.id).Warn("head is not viable")
		return [32]byte{}, err
	}
	log.WithFields(logrus.Fields{
		"engine": f.id,
		"head":   bytesutil.Trunc(head),
	}).Debug("computed new head")
	return head, nil
}

// HasNode reports whether root has been inserted into the store.
func (f *ForkChoice) HasNode(root [32]byte) bool {
	f.store.nodesLock.RLock()
	defer f.store.nodesLock.RUnlock()
	_, ok := f.store.nodeIndices[root]
	return ok
}

// Node returns a copy of the node for root, if known.
func (f *ForkChoice) Node(root [32]byte) (*Node, bool) {
	f.store.nodesLock.RLock()
	defer f.store.nodesLock.RUnlock()
	index, ok := f.store.nodeIndices[root]
	if !ok {
		return nil, false
	}
	return copyNode(f.store.nodes[index]), true
}

// NodeCount returns the number of nodes currently held in the arena.
func (f *ForkChoice) NodeCount() int {
	f.store.nodesLock.RLock()
	defer f.store.nodesLock.RUnlock()
	return len(f.store.nodes)
}

// Weight returns the cumulative subtree weight for root. It returns
// ErrInvalidNodeIndex if root is unknown.
func (f *ForkChoice) Weight(root [32]byte) (uint64, error) {
	f.store.nodesLock.RLock()
	defer f.store.nodesLock.RUnlock()
	index, ok := f.store.nodeIndices[root]
	if !ok {
		return 0, ErrInvalidNodeIndex
	}
	return f.store.nodes[index].weight, nil
}

// JustifiedEpoch returns the store's current justified epoch.
func (f *ForkChoice) JustifiedEpoch() primitives.Epoch {
	f.store.nodesLock.RLock()
	defer f.store.nodesLock.RUnlock()
	return f.store.justifiedEpoch
}

// FinalizedEpoch returns the store's current finalized epoch.
func (f *ForkChoice) FinalizedEpoch() primitives.Epoch {
	f.store.nodesLock.RLock()
	defer f.store.nodesLock.RUnlock()
	return f.store.finalizedEpoch
}

// ID returns the engine instance's correlation ID. Head includes it on the
// log lines it emits, and the demo CLI tags its own log lines with it, so that
// multiple engines running in the same process can be told apart. The lines
// logged by ProcessBlock and ProcessAttestation do not carry it.
func (f *ForkChoice) ID() string {
	return f.id
}

// Tips returns the root and slot of every node that is nobody's parent:
// the leaves of the block tree as the store currently sees it.
func (f *ForkChoice) Tips() ([][32]byte, []primitives.Slot) {
	f.store.nodesLock.RLock()
	defer f.store.nodesLock.RUnlock()

	hasChild := make(map[uint64]bool, len(f.store.nodes))
	for _, n := range f.store.nodes {
		if n.parent != NonExistentNode {
			hasChild[n.parent] = true
		}
	}

	var roots [][32]byte
	var slots []primitives.Slot
	for i, n := range f.store.nodes {
		if !hasChild[uint64(i)] {
			roots = append(roots, n.root)
			slots = append(slots, n.slot)
		}
	}
	return roots, slots
}
