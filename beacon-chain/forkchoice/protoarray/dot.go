package protoarray

import (
	"fmt"

	"github.com/emicklei/dot"
	"github.com/prysmaticlabs/proto-lmd-forkchoice/shared/bytesutil"
	"github.com/prysmaticlabs/proto-lmd-forkchoice/shared/hashutil"
)

// Dot renders the current arena as a Graphviz graph. Each node is labeled
// with its slot and a truncated root, colored deterministically from the
// Keccak-256 hash of its root so that re-rendering the same tree always
// produces the same palette, and the best-child chain walking down from the
// store's finalized root is bolded. The store keeps no justified root, so the
// highlighted chain always starts at the finalized root.
func (f *ForkChoice) Dot() (*dot.Graph, error) {
	f.store.nodesLock.RLock()
	defer f.store.nodesLock.RUnlock()

	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "BT")

	onBestChain := make(map[uint64]bool)
	if justifiedIndex, ok := f.store.nodeIndices[f.store.finalizedRoot]; ok {
		idx := justifiedIndex
		for idx != NonExistentNode {
			onBestChain[idx] = true
			n := f.store.nodes[idx]
			if n.bestChild == idx || n.bestChild == NonExistentNode {
				break
			}
			idx = n.bestChild
		}
	}

	gnodes := make([]dot.Node, len(f.store.nodes))
	for i, n := range f.store.nodes {
		color := nodeColor(n.root)
		label := fmt.Sprintf("slot %d\n%s\nweight %d", n.slot, bytesutil.Trunc(n.root), n.weight)
		gn := g.Node(fmt.Sprintf("n%d", i)).Label(label).
			Attr("style", "filled").
			Attr("fillcolor", color)
		if onBestChain[uint64(i)] {
			gn = gn.Attr("penwidth", "3")
		}
		gnodes[i] = gn
	}

	for i, n := range f.store.nodes {
		if n.parent == NonExistentNode {
			continue
		}
		edge := g.Edge(gnodes[i], gnodes[n.parent])
		if onBestChain[uint64(i)] && onBestChain[n.parent] {
			edge.Attr("penwidth", "3")
		}
	}

	return g, nil
}

// nodeColor derives a stable "#rrggbb" color string from root's Keccak-256
// digest.
func nodeColor(root [32]byte) string {
	h := hashutil.KeccakHash(root[:])
	return fmt.Sprintf("#%02x%02x%02x", h[0], h[1], h[2])
}
