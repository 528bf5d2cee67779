package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound    = errors.New("player not found")
	ErrPlayerHasLeft     = errors.New("player has left")
	ErrInvalidPlayerName = errors.New("invalid player name")

	// Party errors
	ErrPartyNotFound    = errors.New("party not found")
	ErrPartyFull        = errors.New("party is full")
	ErrPartyClosed      = errors.New("party is closed")
	ErrInvalidPartyCode = errors.New("invalid party code")
	ErrAlreadyInParty   = errors.New("player is already in a party")
	ErrNotInParty       = errors.New("player is not in the party")
	ErrNotHost          = errors.New("player is not the host")
	ErrCodeGeneration   = errors.New("could not generate a unique party code")

	// Game rule errors
	ErrWrongPhase          = errors.New("action not allowed in the current phase")
	ErrInsufficientPlayers = errors.New("two connected players are required")
	ErrInvalidRange        = errors.New("invalid number range")
	ErrSecretOutOfRange    = errors.New("secret number is outside the configured range")
	ErrGuessOutOfRange     = errors.New("guess is outside the configured range")
	ErrAlreadyReady        = errors.New("player is already ready")
	ErrMatchComplete       = errors.New("match is already complete")
	ErrNoOpponent          = errors.New("no opponent in the party")

	// Connection errors
	ErrConnectionNotFound = errors.New("connection is not bound to a player")
)
