package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// SeedPair is the commitment triple whose hash deterministically produces a
// game outcome. ServerSeedHash is published before any bet is accepted;
// ServerSeed is revealed only after the round it belongs to terminates.
type SeedPair struct {
	ServerSeed     []byte `json:"server_seed,omitempty"`
	ServerSeedHash string `json:"server_seed_hash"`
	ClientSeed     string `json:"client_seed"`
	Nonce          uint64 `json:"nonce"`
}

// Commitment returns the public half of a seed pair, safe to publish before
// the round settles.
func (s SeedPair) Commitment() SeedPair {
	return SeedPair{
		ServerSeedHash: s.ServerSeedHash,
		ClientSeed:     s.ClientSeed,
		Nonce:          s.Nonce,
	}
}

// ServerSeedHex returns the revealed server seed in hex form.
func (s SeedPair) ServerSeedHex() string {
	return hex.EncodeToString(s.ServerSeed)
}

// HashSeed computes the commitment digest for a server seed.
func HashSeed(serverSeed []byte) string {
	sum := sha256.Sum256(serverSeed)
	return hex.EncodeToString(sum[:])
}
