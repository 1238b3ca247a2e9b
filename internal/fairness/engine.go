package fairness

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fairlines/engine/internal/domain"
)

// Engine generates commitment seed pairs and derives deterministic outcomes
// from them. It holds no round state; every derivation is a pure function of
// its inputs and is reproducible by any party holding the revealed seed pair.
type Engine struct {
	entropy io.Reader
}

// New creates an engine backed by crypto/rand.
func New() *Engine {
	return &Engine{entropy: rand.Reader}
}

// NewWithEntropy creates an engine with an injectable entropy source (tests).
func NewWithEntropy(r io.Reader) *Engine {
	return &Engine{entropy: r}
}

// NewSeedPair generates a fresh server seed, its commitment hash, and a
// client seed (auto-generated when empty). Entropy failure is fatal to the
// caller: an error is returned and no weaker source is substituted.
func (e *Engine) NewSeedPair(clientSeed string) (domain.SeedPair, error) {
	serverSeed := make([]byte, ServerSeedBytes)
	if _, err := io.ReadFull(e.entropy, serverSeed); err != nil {
		return domain.SeedPair{}, fmt.Errorf("%w: %v", domain.ErrEntropyFailure, err)
	}

	if clientSeed == "" {
		raw := make([]byte, ClientSeedBytes)
		if _, err := io.ReadFull(e.entropy, raw); err != nil {
			return domain.SeedPair{}, fmt.Errorf("%w: %v", domain.ErrEntropyFailure, err)
		}
		clientSeed = hex.EncodeToString(raw)
	}

	return domain.SeedPair{
		ServerSeed:     serverSeed,
		ServerSeedHash: domain.HashSeed(serverSeed),
		ClientSeed:     clientSeed,
		Nonce:          0,
	}, nil
}

// DeriveOutcome computes HMAC-SHA256 keyed by the server seed over
// "clientSeed:nonce". Same inputs always produce the same output; this is
// the invariant the entire verification surface rests on.
func DeriveOutcome(seed domain.SeedPair, nonce uint64) [32]byte {
	mac := hmac.New(sha256.New, seed.ServerSeed)
	mac.Write([]byte(seed.ClientSeed))
	mac.Write([]byte(":"))
	mac.Write([]byte(strconv.FormatUint(nonce, 10)))

	var digest [32]byte
	copy(digest[:], mac.Sum(nil))
	return digest
}

// OutcomeToUnitFloat normalizes the first 4 digest bytes into [0,1).
func OutcomeToUnitFloat(digest [32]byte) float64 {
	prefix := binary.BigEndian.Uint32(digest[:UnitFloatBytes])
	return float64(prefix) / UnitFloatDivisor
}

// OutcomeToCrashMultiplier maps a unit float to a crash point. Values below
// the house edge crash instantly at the floor multiplier; the remainder
// follow the inverse-CDF (1-edge)/(1-u), floored to two decimals and clamped
// to [FloorMultiplier, maxMultiplier], so the expected payout ratio is exactly
// 1-edge in the limit. A non-positive maxMultiplier means DefaultMaxMultiplier.
func OutcomeToCrashMultiplier(unitFloat, houseEdge, maxMultiplier float64) float64 {
	if maxMultiplier <= 0 {
		maxMultiplier = DefaultMaxMultiplier
	}
	if unitFloat < houseEdge {
		return FloorMultiplier
	}

	multiplier := (1 - houseEdge) / (1 - unitFloat)
	multiplier = math.Floor(multiplier*100) / 100

	if multiplier < FloorMultiplier {
		return FloorMultiplier
	}
	if multiplier > maxMultiplier {
		return maxMultiplier
	}
	return multiplier
}

// OutcomeToDiceRoll maps a unit float to a two-decimal roll in [0,100).
func OutcomeToDiceRoll(unitFloat float64) float64 {
	return math.Floor(unitFloat*DiceGranularity) / 100
}

// OutcomeToPlinkoPath derives rows left/right decisions. Decision i consumes
// byte i mod 32 of the current digest (high bit set means right); every 32
// decisions the digest is re-hashed with SHA-256.
func OutcomeToPlinkoPath(seed domain.SeedPair, nonce uint64, rows int) []bool {
	digest := DeriveOutcome(seed, nonce)

	path := make([]bool, rows)
	for i := 0; i < rows; i++ {
		if i > 0 && i%PlinkoReuseWindow == 0 {
			digest = sha256.Sum256(digest[:])
		}
		path[i] = digest[i%PlinkoReuseWindow]&0x80 != 0
	}
	return path
}

// Verify recomputes the outcome for (seed, nonce) and compares it against the
// claimed digest in constant time. Used by internal settlement and by the
// public verification surface alike.
func Verify(seed domain.SeedPair, nonce uint64, claimed [32]byte) bool {
	actual := DeriveOutcome(seed, nonce)
	return hmac.Equal(actual[:], claimed[:])
}
