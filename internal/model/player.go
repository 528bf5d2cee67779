package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// ConnectionID identifies a live transport connection. A player's connection
// is replaced on reconnect; the player record survives it.
type ConnectionID string

// GuessRecord is one entry in a player's per-round guess history
type GuessRecord struct {
	Attempt    int       `json:"attempt"`
	Guess      int       `json:"guess"`
	IsCorrect  bool      `json:"is_correct"`
	Difference int       `json:"difference"`
	Timestamp  time.Time `json:"timestamp"`
}

// PlayerStats accumulates across rounds and matches for the party's lifetime
type PlayerStats struct {
	TotalGames      int     `json:"total_games"`
	TotalWins       int     `json:"total_wins"`
	TotalAttempts   int     `json:"total_attempts"`
	BestScore       int     `json:"best_score"` // fewest attempts in a won round, 0 if none
	AverageAttempts float64 `json:"average_attempts"`
}

// Player represents a participant in a party
type Player struct {
	ID           PlayerID     `json:"id"`
	ConnectionID ConnectionID `json:"connection_id"`
	Name         string       `json:"name"`
	IsHost       bool         `json:"is_host"`
	IsConnected  bool         `json:"is_connected"`

	// Round-scoped state, reset when a new round begins
	IsReady      bool          `json:"is_ready"`
	SecretNumber int           `json:"secret_number"` // 0 while unset
	Attempts     int           `json:"attempts"`
	GuessHistory []GuessRecord `json:"guess_history"`
	HasFinished  bool          `json:"has_finished"`
	FinishedAt   *time.Time    `json:"finished_at,omitempty"`

	// Cross-round state, survives round resets within the party
	Wins  int         `json:"wins"`
	Stats PlayerStats `json:"stats"`

	JoinedAt time.Time `json:"joined_at"`
}

// ResetForRound clears round-scoped fields ahead of a new selection phase.
// Wins and cumulative stats are deliberately untouched.
func (p *Player) ResetForRound() {
	p.IsReady = false
	p.SecretNumber = 0
	p.Attempts = 0
	p.GuessHistory = nil
	p.HasFinished = false
	p.FinishedAt = nil
}

// RecordRoundPlayed folds a completed round into the player's cumulative stats
func (p *Player) RecordRoundPlayed(won bool) {
	p.Stats.TotalGames++
	p.Stats.TotalAttempts += p.Attempts
	if won {
		p.Stats.TotalWins++
		if p.Stats.BestScore == 0 || p.Attempts < p.Stats.BestScore {
			p.Stats.BestScore = p.Attempts
		}
	}
	if p.Stats.TotalGames > 0 {
		p.Stats.AverageAttempts = float64(p.Stats.TotalAttempts) / float64(p.Stats.TotalGames)
	}
}
