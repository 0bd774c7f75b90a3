// Package primitives defines the slot and epoch types shared across the
// fork choice engine, keeping them distinct from plain uint64 values so
// slots and epochs cannot be mixed up at a call site.
package primitives

// Slot represents a single time slot on the beacon chain.
type Slot uint64

// Epoch represents a span of slots on the beacon chain.
type Epoch uint64
