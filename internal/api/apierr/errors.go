package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"numduel/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidName         = "INVALID_NAME"
	CodeInvalidCode         = "INVALID_CODE"
	CodeInvalidRange        = "INVALID_RANGE"
	CodePartyNotFound       = "PARTY_NOT_FOUND"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodePartyFull           = "PARTY_FULL"
	CodePartyClosed         = "PARTY_CLOSED"
	CodeAlreadyInParty      = "ALREADY_IN_PARTY"
	CodeNotInParty          = "NOT_IN_PARTY"
	CodeNotHost             = "NOT_HOST"
	CodeWrongPhase          = "WRONG_PHASE"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrPartyNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePartyNotFound, "Party not found"}}
	case errors.Is(err, model.ErrPlayerNotFound), errors.Is(err, model.ErrPlayerHasLeft):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrNotInParty):
		return &httpError{http.StatusNotFound, APIError{CodeNotInParty, "Not in this party"}}
	case errors.Is(err, model.ErrInvalidPartyCode):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCode, "Party code must be 6 letters or digits"}}
	case errors.Is(err, model.ErrInvalidPlayerName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidName, "Invalid player name"}}
	case errors.Is(err, model.ErrInvalidRange):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRange, "Invalid number range"}}
	case errors.Is(err, model.ErrPartyFull):
		return &httpError{http.StatusConflict, APIError{CodePartyFull, "Party already has two players"}}
	case errors.Is(err, model.ErrPartyClosed):
		return &httpError{http.StatusGone, APIError{CodePartyClosed, "Party has been closed"}}
	case errors.Is(err, model.ErrAlreadyInParty):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInParty, "Already in this party"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrWrongPhase):
		return &httpError{http.StatusConflict, APIError{CodeWrongPhase, "Action not allowed in the current phase"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPlayers, "Not enough players to start"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
