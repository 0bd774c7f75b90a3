package params

// BeaconChainConfig groups the constants the fork choice engine needs from
// the rest of a beacon chain client. Only the handful of fields the engine
// actually touches are kept here; a full client would embed this inside a
// much larger configuration struct.
type BeaconChainConfig struct {
	// ZeroHash is the sentinel root aliasing the finalized genesis entry.
	ZeroHash [32]byte

	// WeightDisplayDivisor is the divisor used to scale a node's raw Gwei
	// weight down to tens-of-ETH for display in HeadNotViable errors: a
	// displayed value of 5 means 50 ETH of weight, not 5.
	WeightDisplayDivisor uint64
}

var mainnetBeaconConfig = &BeaconChainConfig{
	ZeroHash:             [32]byte{},
	WeightDisplayDivisor: 10 * 1000000000,
}

var beaconConfig = mainnetBeaconConfig

// BeaconConfig returns the beacon chain configuration currently in effect.
func BeaconConfig() *BeaconChainConfig {
	return beaconConfig
}

// OverrideBeaconConfig swaps the active configuration. Intended for tests
// that need a non-default configuration; callers are responsible for
// restoring the previous value.
func OverrideBeaconConfig(cfg *BeaconChainConfig) {
	beaconConfig = cfg
}
