package fairness

// Seed generation
const (
	// ServerSeedBytes is the entropy of a server seed (256 bits).
	ServerSeedBytes = 32
	// ClientSeedBytes is the entropy of an auto-generated client seed.
	ClientSeedBytes = 16
)

// Outcome mapping
const (
	// UnitFloatBytes is the fixed-width digest prefix normalized into [0,1).
	UnitFloatBytes = 4
	// UnitFloatDivisor is 2^32, the maximum representable prefix value plus one.
	UnitFloatDivisor = float64(1 << 32)

	// FloorMultiplier is the instant-crash multiplier.
	FloorMultiplier = 1.00
	// DefaultMaxMultiplier caps the crash multiplier tail.
	DefaultMaxMultiplier = 1000000.00
	// DefaultHouseEdge is the default retained fraction (1%).
	DefaultHouseEdge = 0.01

	// DiceGranularity gives two-decimal rolls in [0,100).
	DiceGranularity = 10000

	// PlinkoReuseWindow is the number of path decisions drawn from one digest
	// iteration, one per byte. When exhausted the digest is re-hashed with
	// SHA-256 so independent verifiers reproduce identical paths.
	PlinkoReuseWindow = 32
)
