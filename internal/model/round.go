package model

import "time"

// RoundPlayerSnapshot captures a player's position when a round ended
type RoundPlayerSnapshot struct {
	Attempts     int `json:"attempts"`
	SecretNumber int `json:"secret_number"`
}

// RoundResult is an immutable record of a completed round. Appended to the
// party's results log when a guess ends the round; never mutated afterwards.
type RoundResult struct {
	Round          int                              `json:"round"`
	WinnerID       PlayerID                         `json:"winner_id"`
	WinnerAttempts int                              `json:"winner_attempts"`
	Players        map[PlayerID]RoundPlayerSnapshot `json:"players"`
	EndedAt        time.Time                        `json:"ended_at"`
}
