// Package hashutil collects the small set of hash helpers the fork choice
// engine and its tests rely on.
package hashutil

import (
	"crypto/sha256"

	"golang.org/x/crypto/sha3"
)

// Hash returns the SHA-256 digest of data. Block and validator identifiers
// throughout the engine and its test vectors are derived this way.
func Hash(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// RepeatHash applies Hash repeatedly, numTimes times, to a 32-byte value,
// giving a chain of deterministically derived roots.
func RepeatHash(data [32]byte, numTimes uint64) [32]byte {
	if numTimes == 0 {
		return data
	}
	return RepeatHash(Hash(data[:]), numTimes-1)
}

// KeccakHash returns the Keccak-256 digest of data. Unlike Hash, this is not
// used for block identity; the dot-graph exporter uses it to derive a
// deterministic fill color per node so that repeated renders of the same
// tree look the same without persisting any color assignment.
func KeccakHash(data []byte) [32]byte {
	var out [32]byte
	h := sha3.NewLegacyKeccak256()
	// #nosec G104 -- the hash.Hash interface never returns an error on Write.
	h.Write(data)
	h.Sum(out[:0])
	return out
}
