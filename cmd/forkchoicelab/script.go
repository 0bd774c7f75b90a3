package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/prysmaticlabs/proto-lmd-forkchoice/consensus-types/primitives"
	"github.com/prysmaticlabs/proto-lmd-forkchoice/shared/hashutil"
)

// script is a JSON-decoded replay file for the demo CLI: a genesis root
// plus an ordered list of operations to apply against one engine instance.
type script struct {
	JustifiedEpoch uint64      `json:"justified_epoch"`
	FinalizedEpoch uint64      `json:"finalized_epoch"`
	GenesisSeed    string      `json:"genesis_seed"`
	Operations     []operation `json:"operations"`
}

// operation is a tagged union over the three engine calls a script can
// make. Only the fields relevant to Kind are read.
type operation struct {
	Kind string `json:"kind"`

	// block
	Slot           uint64 `json:"slot"`
	Seed           string `json:"seed"`
	ParentSeed     string `json:"parent_seed"`
	JustifiedEpoch uint64 `json:"justified_epoch"`
	FinalizedEpoch uint64 `json:"finalized_epoch"`

	// attestation
	ValidatorIndices []uint64 `json:"validator_indices"`
	TargetEpoch      uint64   `json:"target_epoch"`

	// head
	Balances []uint64 `json:"balances"`
}

func loadScript(path string) (*script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	var s script
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("could not decode script: %w", err)
	}
	return &s, nil
}

// seedToRoot derives a deterministic 32-byte root from a short human-typed
// seed string: an empty seed is the zero root, a seed of exactly 64 hex
// characters is decoded directly, and any other seed is replaced by the
// SHA-256 hash of its bytes.
func seedToRoot(seed string) [32]byte {
	if seed == "" {
		return [32]byte{}
	}
	if raw, err := hex.DecodeString(seed); err == nil && len(raw) == 32 {
		var out [32]byte
		copy(out[:], raw)
		return out
	}
	return hashutil.Hash([]byte(seed))
}

func epoch(e uint64) primitives.Epoch { return primitives.Epoch(e) }
func slot(s uint64) primitives.Slot   { return primitives.Slot(s) }
