package dice

// Table limits
const (
	MinWinChance = 0.01
	MaxWinChance = 98.00
	MinStake     = 0.01
	MaxStake     = 10000.00

	targetEpsilon = 1e-9
)
