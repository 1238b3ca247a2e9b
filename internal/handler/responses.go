package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fairlines/engine/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already sent; nothing left to do but log.
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses. ErrAlreadySettled is a normal race outcome, not a server fault,
// so it maps to 409 rather than 500.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrRoundNotOpen):
		return http.StatusConflict, ErrMsgRoundNotOpenError
	case errors.Is(err, domain.ErrRoundNotRunning):
		return http.StatusConflict, ErrMsgRoundNotRunningError
	case errors.Is(err, domain.ErrRoundFull):
		return http.StatusConflict, ErrMsgRoundFullError
	case errors.Is(err, domain.ErrDuplicateBet):
		return http.StatusConflict, ErrMsgDuplicateBetError
	case errors.Is(err, domain.ErrAlreadySettled):
		return http.StatusConflict, ErrMsgAlreadySettledError
	case errors.Is(err, domain.ErrBetNotFound):
		return http.StatusBadRequest, ErrMsgBetNotFoundError
	case errors.Is(err, domain.ErrStakeOutOfBounds):
		return http.StatusBadRequest, ErrMsgStakeOutOfBoundsErr
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughMoneyError
	case errors.Is(err, domain.ErrUnknownAccount):
		return http.StatusBadRequest, ErrMsgUnknownAccountError
	case errors.Is(err, domain.ErrUnsupportedGame):
		return http.StatusBadRequest, ErrMsgUnsupportedGameErr
	case errors.Is(err, domain.ErrUnsupportedRows):
		return http.StatusBadRequest, ErrMsgUnsupportedRowsErr
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
