package forkchoice

import (
	"github.com/prysmaticlabs/proto-lmd-forkchoice/beacon-chain/forkchoice/protoarray"
	"github.com/prysmaticlabs/proto-lmd-forkchoice/consensus-types/primitives"
	"github.com/sirupsen/logrus"
)

// Checkpoint pairs an epoch with the root of the block that justified or
// finalized it, the shape NewProtoArrayForkChoice takes its justified and
// finalized references in.
type Checkpoint struct {
	Epoch primitives.Epoch
	Root  [32]byte
}

// NewProtoArrayForkChoice builds the engine's default ForkChoicer,
// protoarray.ForkChoice, seeded from the justified and finalized
// checkpoints a beacon chain client holds at startup. It is the only
// constructor in this package; the forkchoicelab command builds a
// protoarray.ForkChoice directly because it uses methods outside the
// ForkChoicer interface.
func NewProtoArrayForkChoice(justified, finalized Checkpoint) ForkChoicer {
	log.WithFields(logrus.Fields{
		"justifiedEpoch": justified.Epoch,
		"finalizedEpoch": finalized.Epoch,
	}).Info("constructing fork choice store")
	return protoarray.New(justified.Epoch, finalized.Epoch, finalized.Root)
}
