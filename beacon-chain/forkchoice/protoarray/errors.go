package protoarray

import "github.com/pkg/errors"

// Sentinel errors returned by Store and ForkChoice. HeadNotViable is not a
// sentinel since its message carries data about the offending node; see
// errHeadNotViable.
var (
	// ErrUnknownJustifiedRoot is returned by Head when the caller-supplied
	// justified root has never been inserted into the store.
	ErrUnknownJustifiedRoot = errors.New("unknown justified root")

	// ErrInvalidNodeIndex is returned when an arena index computed during a
	// sweep falls outside the current arena bounds. This should never
	// happen given the invariants in types.go; surfacing it as an error
	// rather than panicking lets a caller decide how to react.
	ErrInvalidNodeIndex = errors.New("invalid node index")

	// ErrInvalidDeltaLength is returned when apply weight changes is
	// called with a delta slice whose length does not match the arena.
	ErrInvalidDeltaLength = errors.New("delta length does not match node count")

	errInvalidBestDescendant = errors.New("invalid best descendant index")
)
