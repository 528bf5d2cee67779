package game

import (
	"math/bits"

	"numduel/internal/model"
)

// Service evaluates rounds: proximity feedback, optimal-attempt baselines,
// performance ratings and summaries. It is stateless; all inputs arrive as
// arguments and nothing is persisted here.
type Service struct{}

// New creates a new round evaluator
func New() *Service {
	return &Service{}
}

// Proximity classifies how close a guess landed
type Proximity string

const (
	ProximityCorrect   Proximity = "correct"
	ProximityVeryClose Proximity = "very_close"
	ProximityClose     Proximity = "close"
	ProximityFar       Proximity = "far"
)

// Direction indicates which side of the secret a wrong guess fell on
type Direction string

const (
	DirectionTooHigh Direction = "too_high"
	DirectionTooLow  Direction = "too_low"
)

// Feedback is the presentation classification for a single guess
type Feedback struct {
	Proximity  Proximity `json:"proximity"`
	Direction  Direction `json:"direction,omitempty"`
	Difference int       `json:"difference"`
}

// Feedback classifies a guess against the secret using range-relative
// thresholds with absolute floors, so feedback stays meaningful whether
// the range is 1-20 or 1-10000.
func (s *Service) Feedback(guess, secret int, settings model.GameSettings) Feedback {
	diff := secret - guess
	if diff == 0 {
		return Feedback{Proximity: ProximityCorrect}
	}

	abs := diff
	if abs < 0 {
		abs = -abs
	}

	size := settings.Size()
	veryClose := threshold(size/20, 3) // 5% of the range
	near := threshold(size/5, 10)      // 20% of the range

	fb := Feedback{Difference: diff}
	switch {
	case abs <= veryClose:
		fb.Proximity = ProximityVeryClose
	case abs <= near:
		fb.Proximity = ProximityClose
	default:
		fb.Proximity = ProximityFar
	}
	if diff > 0 {
		fb.Direction = DirectionTooLow
	} else {
		fb.Direction = DirectionTooHigh
	}
	return fb
}

func threshold(proportional, floor int) int {
	if proportional < floor {
		return floor
	}
	return proportional
}

// OptimalAttempts returns ceil(log2(n)) for a range of n values: the worst
// case for binary search, used as the baseline for performance ratings.
func (s *Service) OptimalAttempts(settings model.GameSettings) int {
	n := settings.Size()
	if n <= 1 {
		return 1
	}
	return bits.Len(uint(n - 1))
}

// Rating labels, ordered best to worst
const (
	RatingOptimal = "optimal"
	RatingGreat   = "great"
	RatingGood    = "good"
	RatingFair    = "fair"
	RatingPoor    = "poor"
)

// Rating grades a round by the ratio of actual to optimal attempts.
// Monotonically non-increasing in actualAttempts/optimalAttempts.
func (s *Service) Rating(actualAttempts, optimalAttempts int) string {
	if optimalAttempts <= 0 {
		optimalAttempts = 1
	}
	ratio := float64(actualAttempts) / float64(optimalAttempts)
	switch {
	case ratio <= 1:
		return RatingOptimal
	case ratio <= 1.5:
		return RatingGreat
	case ratio <= 2:
		return RatingGood
	case ratio <= 3:
		return RatingFair
	default:
		return RatingPoor
	}
}

// RoundPlayerSummary is one player's line in a round summary
type RoundPlayerSummary struct {
	Name         string `json:"name"`
	Attempts     int    `json:"attempts"`
	SecretNumber int    `json:"secret_number"`
	Won          bool   `json:"won"`
}

// RoundSummary is the presentation view of a completed round
type RoundSummary struct {
	Round           int                                   `json:"round"`
	WinnerID        model.PlayerID                        `json:"winner_id"`
	WinnerName      string                                `json:"winner_name"`
	WinnerAttempts  int                                   `json:"winner_attempts"`
	OptimalAttempts int                                   `json:"optimal_attempts"`
	Rating          string                                `json:"rating"`
	Players         map[model.PlayerID]RoundPlayerSummary `json:"players"`
}

// SummarizeRound builds the presentation summary for a completed round
func (s *Service) SummarizeRound(party *model.Party, result *model.RoundResult) RoundSummary {
	optimal := s.OptimalAttempts(party.Settings)
	summary := RoundSummary{
		Round:           result.Round,
		WinnerID:        result.WinnerID,
		WinnerAttempts:  result.WinnerAttempts,
		OptimalAttempts: optimal,
		Rating:          s.Rating(result.WinnerAttempts, optimal),
		Players:         make(map[model.PlayerID]RoundPlayerSummary, len(result.Players)),
	}
	if winner := party.GetPlayer(result.WinnerID); winner != nil {
		summary.WinnerName = winner.Name
	}
	for id, snap := range result.Players {
		entry := RoundPlayerSummary{
			Attempts:     snap.Attempts,
			SecretNumber: snap.SecretNumber,
			Won:          id == result.WinnerID,
		}
		if pl := party.GetPlayer(id); pl != nil {
			entry.Name = pl.Name
		}
		summary.Players[id] = entry
	}
	return summary
}

// MatchPlayerSummary is one player's line in a match summary
type MatchPlayerSummary struct {
	Name  string            `json:"name"`
	Wins  int               `json:"wins"`
	Stats model.PlayerStats `json:"stats"`
}

// MatchSummary is the presentation view of a finished match
type MatchSummary struct {
	RoundsPlayed int                                   `json:"rounds_played"`
	WinnerID     model.PlayerID                        `json:"winner_id"` // empty on a tie
	WinnerName   string                                `json:"winner_name,omitempty"`
	Players      map[model.PlayerID]MatchPlayerSummary `json:"players"`
}

// SummarizeMatch builds the presentation summary for a finished match.
// The match winner is the player with the most round wins; a tie leaves
// the winner empty.
func (s *Service) SummarizeMatch(party *model.Party) MatchSummary {
	summary := MatchSummary{
		RoundsPlayed: len(party.RoundResults),
		Players:      make(map[model.PlayerID]MatchPlayerSummary, len(party.Players)),
	}

	bestWins := -1
	tied := false
	for id, pl := range party.Players {
		summary.Players[id] = MatchPlayerSummary{
			Name:  pl.Name,
			Wins:  pl.Wins,
			Stats: pl.Stats,
		}
		switch {
		case pl.Wins > bestWins:
			bestWins = pl.Wins
			summary.WinnerID = id
			summary.WinnerName = pl.Name
			tied = false
		case pl.Wins == bestWins:
			tied = true
		}
	}
	if tied {
		summary.WinnerID = ""
		summary.WinnerName = ""
	}
	return summary
}
