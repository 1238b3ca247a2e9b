package handler

import (
	"encoding/hex"
	"net/http"

	"github.com/fairlines/engine/internal/domain"
	"github.com/fairlines/engine/internal/fairness"
	"github.com/fairlines/engine/internal/logger"
)

// VerifyRequest carries a revealed seed pair plus the game mapping to replay.
type VerifyRequest struct {
	Game          string  `json:"game" validate:"required,game"`
	ServerSeed    string  `json:"server_seed" validate:"required,hexadecimal"`
	ClientSeed    string  `json:"client_seed" validate:"required,max=64"`
	Nonce         uint64  `json:"nonce"`
	HouseEdge     float64 `json:"house_edge,omitempty" validate:"gte=0,lt=1"`
	MaxMultiplier float64 `json:"max_multiplier,omitempty" validate:"omitempty,gt=1"`
	Rows          int     `json:"rows,omitempty" validate:"gte=0,lte=16"`
	ClaimedDigest string  `json:"claimed_digest,omitempty" validate:"omitempty,hexadecimal,len=64"`
}

// VerifyResponse returns the recomputed outcome so any player can confirm a
// published result from the revealed seeds alone.
type VerifyResponse struct {
	ServerSeedHash string                   `json:"server_seed_hash"`
	Result         fairness.RecomputeResult `json:"result"`
	DigestMatches  *bool                    `json:"digest_matches,omitempty"`
}

// HandleVerify recomputes an outcome from a revealed seed pair.
func HandleVerify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Verify outcome"); err != nil {
			return
		}

		serverSeed, err := hex.DecodeString(req.ServerSeed)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidSeedError)
			return
		}

		seed := domain.SeedPair{
			ServerSeed: serverSeed,
			ClientSeed: req.ClientSeed,
		}

		result, err := fairness.Recompute(seed, req.Nonce, fairness.RecomputeParams{
			Game:          domain.GameType(req.Game),
			HouseEdge:     req.HouseEdge,
			MaxMultiplier: req.MaxMultiplier,
			Rows:          req.Rows,
		})
		if err != nil {
			logger.FromContext(r.Context()).Warn("Verification request rejected", "error", err)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		resp := VerifyResponse{
			ServerSeedHash: domain.HashSeed(serverSeed),
			Result:         result,
		}

		if req.ClaimedDigest != "" {
			var claimed [32]byte
			digestBytes, err := hex.DecodeString(req.ClaimedDigest)
			if err != nil || len(digestBytes) != len(claimed) {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
				return
			}
			copy(claimed[:], digestBytes)
			matches := fairness.Verify(seed, req.Nonce, claimed)
			resp.DigestMatches = &matches
		}

		respondJSON(w, http.StatusOK, resp)
	}
}
