package protoarray

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/proto-lmd-forkchoice/config/params"
	"github.com/prysmaticlabs/proto-lmd-forkchoice/consensus-types/primitives"
	"go.opencensus.io/trace"
)

// insert registers a new block node in the store. A known root is a no-op.
// The caller must not hold nodesLock.
func (s *Store) insert(ctx context.Context, slot primitives.Slot, root, parent [32]byte, justifiedEpoch, finalizedEpoch primitives.Epoch) error {
	ctx, span := trace.StartSpan(ctx, "protoArrayForkChoice.insert")
	defer span.End()

	s.nodesLock.Lock()
	defer s.nodesLock.Unlock()

	if _, ok := s.nodeIndices[root]; ok {
		return nil
	}

	index := uint64(len(s.nodes))
	parentIndex, ok := s.nodeIndices[parent]
	if !ok {
		parentIndex = NonExistentNode
	}

	n := &Node{
		slot:           slot,
		root:           root,
		parent:         parentIndex,
		justifiedEpoch: justifiedEpoch,
		finalizedEpoch: finalizedEpoch,
		weight:         0,
		bestChild:      NonExistentNode,
		bestDescendant: NonExistentNode,
	}

	s.nodeIndices[root] = index
	s.nodes = append(s.nodes, n)

	if parentIndex == NonExistentNode {
		return nil
	}
	return s.updateBestChildAndDescendant(parentIndex, index)
}

// applyWeightChanges sweeps the arena twice: once from the leaves up to
// fold delta into weight and propagate it to parents, once more to refresh
// every parent's best child / best descendant now that sibling weights are
// settled. The two sweeps cannot be merged: the second pass needs every
// sibling's final weight, which is only available once the first pass has
// finished. The caller must hold nodesLock.
func (s *Store) applyWeightChanges(ctx context.Context, justifiedEpoch, finalizedEpoch primitives.Epoch, delta []int) error {
	_, span := trace.StartSpan(ctx, "protoArrayForkChoice.applyWeightChanges")
	defer span.End()

	if len(s.nodeIndices) != len(delta) || len(s.nodes) != len(delta) {
		return ErrInvalidDeltaLength
	}

	s.justifiedEpoch = justifiedEpoch
	s.finalizedEpoch = finalizedEpoch

	for i := len(s.nodes) - 1; i >= 0; i-- {
		n := s.nodes[i]
		d := delta[i]
		if d < 0 {
			if uint64(-d) > n.weight {
				n.weight = 0
			} else {
				n.weight -= uint64(-d)
			}
		} else {
			n.weight += uint64(d)
		}

		if n.parent != NonExistentNode {
			if int(n.parent) >= len(delta) {
				return ErrInvalidNodeIndex
			}
			delta[n.parent] += d
		}
	}

	for i := len(s.nodes) - 1; i >= 0; i-- {
		n := s.nodes[i]
		if n.parent == NonExistentNode {
			continue
		}
		if err := s.updateBestChildAndDescendant(n.parent, uint64(i)); err != nil {
			return err
		}
	}

	return nil
}

// updateBestChildAndDescendant looks at parent and child and potentially
// changes parent's best child / best descendant. The caller must hold
// nodesLock.
func (s *Store) updateBestChildAndDescendant(parentIndex, childIndex uint64) error {
	if parentIndex >= uint64(len(s.nodes)) || childIndex >= uint64(len(s.nodes)) {
		return ErrInvalidNodeIndex
	}
	parent := s.nodes[parentIndex]
	child := s.nodes[childIndex]

	childLeadsToViableHead, err := s.leadsToViableHead(child)
	if err != nil {
		return err
	}

	bestDescendant := child.bestDescendant
	if bestDescendant == NonExistentNode {
		bestDescendant = childIndex
	}

	var newBestChild, newBestDescendant uint64

	switch {
	case parent.bestChild == NonExistentNode:
		if childLeadsToViableHead {
			newBestChild, newBestDescendant = childIndex, bestDescendant
		} else {
			newBestChild, newBestDescendant = parent.bestChild, parent.bestDescendant
		}
	case parent.bestChild == childIndex:
		if childLeadsToViableHead {
			newBestChild, newBestDescendant = childIndex, bestDescendant
		} else {
			newBestChild, newBestDescendant = NonExistentNode, NonExistentNode
		}
	default:
		if parent.bestChild >= uint64(len(s.nodes)) {
			return ErrInvalidNodeIndex
		}
		bestChild := s.nodes[parent.bestChild]
		bestChildLeadsToViableHead, err := s.leadsToViableHead(bestChild)
		if err != nil {
			return err
		}

		switch {
		case childLeadsToViableHead && !bestChildLeadsToViableHead:
			newBestChild, newBestDescendant = childIndex, bestDescendant
		case !childLeadsToViableHead && bestChildLeadsToViableHead:
			newBestChild, newBestDescendant = parent.bestChild, parent.bestDescendant
		case child.weight == bestChild.weight:
			if bytes.Compare(child.root[:], bestChild.root[:]) > 0 {
				newBestChild, newBestDescendant = childIndex, bestDescendant
			} else {
				newBestChild, newBestDescendant = parent.bestChild, parent.bestDescendant
			}
		case child.weight > bestChild.weight:
			newBestChild, newBestDescendant = childIndex, bestDescendant
		default:
			newBestChild, newBestDescendant = parent.bestChild, parent.bestDescendant
		}
	}

	parent.bestChild = newBestChild
	parent.bestDescendant = newBestDescendant
	return nil
}

// head descends the best-descendant chain from justifiedRoot. The caller
// must hold nodesLock (at least for reading).
func (s *Store) head(ctx context.Context, justifiedRoot [32]byte) ([32]byte, error) {
	_, span := trace.StartSpan(ctx, "protoArrayForkChoice.head")
	defer span.End()

	justifiedIndex, ok := s.nodeIndices[justifiedRoot]
	if !ok {
		return [32]byte{}, ErrUnknownJustifiedRoot
	}
	if justifiedIndex >= uint64(len(s.nodes)) {
		return [32]byte{}, ErrInvalidNodeIndex
	}
	justifiedNode := s.nodes[justifiedIndex]

	bestDescendantIndex := justifiedNode.bestDescendant
	if bestDescendantIndex == NonExistentNode {
		bestDescendantIndex = justifiedIndex
	}
	if bestDescendantIndex >= uint64(len(s.nodes)) {
		return [32]byte{}, errInvalidBestDescendant
	}
	best := s.nodes[bestDescendantIndex]

	if !s.viableForHead(best) {
		return [32]byte{}, errHeadNotViable(s, best)
	}

	return best.root, nil
}

// viableForHead reports whether node's declared justified/finalized epochs
// match the store's current pair, with epoch 0 treated as a wildcard.
func (s *Store) viableForHead(node *Node) bool {
	justified := s.justifiedEpoch == node.justifiedEpoch || s.justifiedEpoch == 0
	finalized := s.finalizedEpoch == node.finalizedEpoch || s.finalizedEpoch == 0
	return justified && finalized
}

// leadsToViableHead reports whether node's best descendant (or node itself,
// absent one) is viable for head.
func (s *Store) leadsToViableHead(node *Node) (bool, error) {
	if node.bestDescendant == NonExistentNode {
		return s.viableForHead(node), nil
	}
	if node.bestDescendant >= uint64(len(s.nodes)) {
		return false, errInvalidBestDescendant
	}
	return s.viableForHead(s.nodes[node.bestDescendant]), nil
}

// errHeadNotViable builds the data-carrying HeadNotViable error: the best
// descendant disagrees with the store's justified/finalized epochs.
func errHeadNotViable(s *Store, node *Node) error {
	scaledWeight := node.weight / params.BeaconConfig().WeightDisplayDivisor
	return errors.Errorf(
		"head at slot %d (weight %d) is not viable: node has (justifiedEpoch=%d, finalizedEpoch=%d), store wants (justifiedEpoch=%d, finalizedEpoch=%d)",
		node.slot, scaledWeight, node.justifiedEpoch, node.finalizedEpoch, s.justifiedEpoch, s.finalizedEpoch,
	)
}
