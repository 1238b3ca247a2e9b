package handler

import (
	"net/http"
	"strconv"

	"github.com/fairlines/engine/internal/domain"
	"github.com/fairlines/engine/internal/history"
)

// Snapshotter exposes the externally visible state of the current round.
type Snapshotter interface {
	Snapshot() (domain.RoundSnapshot, bool)
}

// HandleGetHistory returns recently settled rounds, oldest first. Every entry
// already carries its revealed seed, so the whole list is verifiable.
func HandleGetHistory(store *history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limitStr := GetOptionalQueryParam(r, "limit", "0")
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
			return
		}

		entries := store.List()
		if limit > 0 && limit < len(entries) {
			entries = entries[len(entries)-limit:]
		}

		respondJSON(w, http.StatusOK, entries)
	}
}

// HandleGetRound returns one settled round by sequence number.
func HandleGetRound(store *history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seqStr, ok := GetQueryParam(r, w, "sequence")
		if !ok {
			return
		}

		sequence, err := strconv.ParseUint(seqStr, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
			return
		}

		entry, found := store.Get(sequence)
		if !found {
			respondError(w, http.StatusNotFound, ErrMsgRoundNotFoundError)
			return
		}

		respondJSON(w, http.StatusOK, entry)
	}
}

// HandleGetCurrentRound returns the live round snapshot. The crash point and
// server seed are withheld until the round terminates.
func HandleGetCurrentRound(source Snapshotter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, ok := source.Snapshot()
		if !ok {
			respondError(w, http.StatusNotFound, ErrMsgNoCurrentRoundErr)
			return
		}

		respondJSON(w, http.StatusOK, snapshot)
	}
}
