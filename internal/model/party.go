package model

import (
	"regexp"
	"strings"
	"time"
)

// PartyCode is the short code players use to join a party
type PartyCode string

// PartyStatus is the coarse lifecycle state of a party
type PartyStatus string

const (
	StatusWaiting   PartyStatus = "waiting"
	StatusSelecting PartyStatus = "selecting"
	StatusPlaying   PartyStatus = "playing"
	StatusFinished  PartyStatus = "finished"
	StatusClosed    PartyStatus = "closed"
)

// Phase is the fine-grained state of a party's round machine.
// This is the authoritative state; PartyStatus is derived from it.
type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhaseSelection Phase = "selection"
	PhasePlaying   Phase = "playing"
	PhaseResults   Phase = "results"
	PhaseFinished  Phase = "finished"
)

// Range bounds for game settings
const (
	RangeMin     = 1
	RangeMax     = 10000
	MinRangeSpan = 5
)

// MaxPlayers is the hard cap on party membership
const MaxPlayers = 2

// MaxNameLength bounds player display names
const MaxNameLength = 20

var nameRe = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)

var codeRe = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// ValidatePlayerName checks length and charset of a display name
func ValidatePlayerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxNameLength || !nameRe.MatchString(name) {
		return ErrInvalidPlayerName
	}
	return nil
}

// ValidatePartyCode checks the 6-character alphanumeric code format
func ValidatePartyCode(code PartyCode) error {
	if !codeRe.MatchString(string(code)) {
		return ErrInvalidPartyCode
	}
	return nil
}

// GameSettings holds the guessing range for a party's rounds
type GameSettings struct {
	RangeStart int `json:"range_start"`
	RangeEnd   int `json:"range_end"`
}

// DefaultGameSettings returns the settings a fresh party starts with
func DefaultGameSettings() GameSettings {
	return GameSettings{RangeStart: 1, RangeEnd: 100}
}

// Size returns the number of values in the range, inclusive
func (s GameSettings) Size() int {
	return s.RangeEnd - s.RangeStart + 1
}

// Contains reports whether n falls inside the configured range
func (s GameSettings) Contains(n int) bool {
	return n >= s.RangeStart && n <= s.RangeEnd
}

// Clamp bounds the range to [RangeMin, RangeMax]
func (s GameSettings) Clamp() GameSettings {
	if s.RangeStart < RangeMin {
		s.RangeStart = RangeMin
	}
	if s.RangeEnd > RangeMax {
		s.RangeEnd = RangeMax
	}
	return s
}

// Party represents a two-player session owning the round state machine
type Party struct {
	ID       string               `json:"id"`
	Code     PartyCode            `json:"code"`
	Players  map[PlayerID]*Player `json:"players"`
	HostID   PlayerID             `json:"host_id"`
	Settings GameSettings         `json:"settings"`

	CurrentRound int           `json:"current_round"`
	MaxRounds    int           `json:"max_rounds"`
	Status       PartyStatus   `json:"status"`
	Phase        Phase         `json:"phase"`
	RoundResults []RoundResult `json:"round_results"`

	LastActivity time.Time `json:"last_activity"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewParty creates a party in the lobby phase with the given player as host.
// The host never changes for the lifetime of the party.
func NewParty(id string, code PartyCode, host *Player, maxRounds int, now time.Time) *Party {
	host.IsHost = true
	return &Party{
		ID:           id,
		Code:         code,
		Players:      map[PlayerID]*Player{host.ID: host},
		HostID:       host.ID,
		Settings:     DefaultGameSettings(),
		CurrentRound: 1,
		MaxRounds:    maxRounds,
		Status:       StatusWaiting,
		Phase:        PhaseLobby,
		RoundResults: []RoundResult{},
		LastActivity: now,
		CreatedAt:    now,
	}
}

// GetPlayer returns the player with the given ID, or nil
func (p *Party) GetPlayer(id PlayerID) *Player {
	return p.Players[id]
}

// Host returns the host player, or nil if the party is being torn down
func (p *Party) Host() *Player {
	return p.Players[p.HostID]
}

// Opponent returns the other player relative to id, or nil
func (p *Party) Opponent(id PlayerID) *Player {
	for pid, pl := range p.Players {
		if pid != id {
			return pl
		}
	}
	return nil
}

// ConnectedCount returns the number of players currently connected
func (p *Party) ConnectedCount() int {
	n := 0
	for _, pl := range p.Players {
		if pl.IsConnected {
			n++
		}
	}
	return n
}

// IsFull reports whether the party already holds the player cap
func (p *Party) IsFull() bool {
	return len(p.Players) >= MaxPlayers
}

// IsMatchComplete reports whether the configured round count has been played
func (p *Party) IsMatchComplete() bool {
	return len(p.RoundResults) >= p.MaxRounds
}

// Touch records activity, used by the inactivity sweep
func (p *Party) Touch(now time.Time) {
	p.LastActivity = now
}

// AddPlayer admits a joining player. Only valid while the party has room.
func (p *Party) AddPlayer(player *Player, now time.Time) error {
	if p.IsFull() {
		return ErrPartyFull
	}
	if _, ok := p.Players[player.ID]; ok {
		return ErrAlreadyInParty
	}
	p.Players[player.ID] = player
	p.Touch(now)
	return nil
}

// RemovePlayer drops a non-host player from the party. Removing the host is
// not modelled here; host departure closes the whole party (see Close).
func (p *Party) RemovePlayer(id PlayerID, now time.Time) error {
	if _, ok := p.Players[id]; !ok {
		return ErrNotInParty
	}
	delete(p.Players, id)
	p.Touch(now)
	return nil
}

// Close marks the party terminally closed. Reachable from any phase; used
// when the host leaves or disconnects permanently.
func (p *Party) Close() {
	p.Status = StatusClosed
}

// UpdateSettings changes the guessing range. Host only, and only while the
// phase is lobby or results so rules cannot change mid-round. Bounds are
// clamped to [1, 10000] with a minimum span of 5.
func (p *Party) UpdateSettings(requester PlayerID, rangeStart, rangeEnd int, now time.Time) error {
	if requester != p.HostID {
		return ErrNotHost
	}
	if p.Phase != PhaseLobby && p.Phase != PhaseResults {
		return ErrWrongPhase
	}
	next := GameSettings{RangeStart: rangeStart, RangeEnd: rangeEnd}.Clamp()
	if next.RangeStart >= next.RangeEnd || next.Size() < MinRangeSpan {
		return ErrInvalidRange
	}
	p.Settings = next
	p.Touch(now)
	return nil
}

// StartSelection transitions lobby -> selection. Host-triggered, requires
// exactly two connected players. Resets all round-scoped player state.
func (p *Party) StartSelection(requester PlayerID, now time.Time) error {
	if requester != p.HostID {
		return ErrNotHost
	}
	if p.Phase != PhaseLobby {
		return ErrWrongPhase
	}
	if len(p.Players) != MaxPlayers || p.ConnectedCount() != MaxPlayers {
		return ErrInsufficientPlayers
	}
	p.enterSelection(now)
	return nil
}

// SetReady records a player's secret and readiness during selection.
// Returns true when every player is now ready.
func (p *Party) SetReady(playerID PlayerID, secret int, now time.Time) (bool, error) {
	if p.Phase != PhaseSelection {
		return false, ErrWrongPhase
	}
	player := p.Players[playerID]
	if player == nil {
		return false, ErrNotInParty
	}
	if player.IsReady {
		return false, ErrAlreadyReady
	}
	if !p.Settings.Contains(secret) {
		return false, ErrSecretOutOfRange
	}
	player.SecretNumber = secret
	player.IsReady = true
	p.Touch(now)
	return p.AllReady(), nil
}

// AllReady reports whether every player has locked in a secret
func (p *Party) AllReady() bool {
	if len(p.Players) < MaxPlayers {
		return false
	}
	for _, pl := range p.Players {
		if !pl.IsReady {
			return false
		}
	}
	return true
}

// AutoSelect force-assigns a random secret to every not-ready player,
// so the selection phase can never stall past its countdown. Returns the
// IDs of the players that were auto-assigned.
func (p *Party) AutoSelect(pick func(min, max int) int, now time.Time) []PlayerID {
	if p.Phase != PhaseSelection {
		return nil
	}
	var assigned []PlayerID
	for _, pl := range p.Players {
		if pl.IsReady {
			continue
		}
		pl.SecretNumber = pick(p.Settings.RangeStart, p.Settings.RangeEnd)
		pl.IsReady = true
		assigned = append(assigned, pl.ID)
	}
	p.Touch(now)
	return assigned
}

// BeginPlaying transitions selection -> playing once all players are ready
func (p *Party) BeginPlaying(now time.Time) error {
	if p.Phase != PhaseSelection {
		return ErrWrongPhase
	}
	if !p.AllReady() {
		return ErrWrongPhase
	}
	p.Phase = PhasePlaying
	p.Status = StatusPlaying
	p.Touch(now)
	return nil
}

// GuessOutcome describes the effect of a single guess
type GuessOutcome struct {
	PlayerID   PlayerID
	Guess      int
	Attempts   int
	Correct    bool
	Difference int // secret - guess; negative means the guess was too high
	RoundOver  bool
	MatchOver  bool
	Result     *RoundResult // set when the guess ended the round
}

// Guess applies a guess against the opponent's secret. An exact match ends
// the round immediately with the guesser as winner. Out-of-range guesses
// are rejected without touching the attempt counter.
func (p *Party) Guess(playerID PlayerID, guess int, now time.Time) (*GuessOutcome, error) {
	if p.Phase != PhasePlaying {
		return nil, ErrWrongPhase
	}
	player := p.Players[playerID]
	if player == nil {
		return nil, ErrNotInParty
	}
	opponent := p.Opponent(playerID)
	if opponent == nil {
		return nil, ErrNoOpponent
	}
	if !p.Settings.Contains(guess) {
		return nil, ErrGuessOutOfRange
	}

	player.Attempts++
	diff := opponent.SecretNumber - guess
	correct := diff == 0
	player.GuessHistory = append(player.GuessHistory, GuessRecord{
		Attempt:    player.Attempts,
		Guess:      guess,
		IsCorrect:  correct,
		Difference: diff,
		Timestamp:  now,
	})
	p.Touch(now)

	outcome := &GuessOutcome{
		PlayerID:   playerID,
		Guess:      guess,
		Attempts:   player.Attempts,
		Correct:    correct,
		Difference: diff,
	}
	if !correct {
		return outcome, nil
	}

	player.HasFinished = true
	finished := now
	player.FinishedAt = &finished
	player.Wins++
	player.RecordRoundPlayed(true)
	opponent.RecordRoundPlayed(false)

	result := p.recordRoundResult(player, now)
	outcome.RoundOver = true
	outcome.Result = result

	if p.IsMatchComplete() {
		p.Phase = PhaseFinished
		p.Status = StatusFinished
		outcome.MatchOver = true
	} else {
		p.Phase = PhaseResults
		p.Status = StatusWaiting
	}
	return outcome, nil
}

// NextRound transitions results -> selection for the following round.
// Host-triggered, rejected once the match is complete.
func (p *Party) NextRound(requester PlayerID, now time.Time) error {
	if requester != p.HostID {
		return ErrNotHost
	}
	if p.Phase != PhaseResults {
		return ErrWrongPhase
	}
	if p.IsMatchComplete() {
		return ErrMatchComplete
	}
	p.CurrentRound = len(p.RoundResults) + 1
	p.enterSelection(now)
	return nil
}

// Rematch resets the full match for both players: round counter, win
// tallies and results log. Host identity and party code are preserved.
func (p *Party) Rematch(requester PlayerID, now time.Time) error {
	if requester != p.HostID {
		return ErrNotHost
	}
	if p.Phase != PhaseResults && p.Phase != PhaseFinished {
		return ErrWrongPhase
	}
	for _, pl := range p.Players {
		pl.Wins = 0
	}
	p.RoundResults = []RoundResult{}
	p.CurrentRound = 1
	p.enterSelection(now)
	return nil
}

func (p *Party) enterSelection(now time.Time) {
	for _, pl := range p.Players {
		pl.ResetForRound()
	}
	p.Phase = PhaseSelection
	p.Status = StatusSelecting
	p.Touch(now)
}

func (p *Party) recordRoundResult(winner *Player, now time.Time) *RoundResult {
	result := RoundResult{
		Round:          p.CurrentRound,
		WinnerID:       winner.ID,
		WinnerAttempts: winner.Attempts,
		Players:        make(map[PlayerID]RoundPlayerSnapshot, len(p.Players)),
		EndedAt:        now,
	}
	for id, pl := range p.Players {
		result.Players[id] = RoundPlayerSnapshot{
			Attempts:     pl.Attempts,
			SecretNumber: pl.SecretNumber,
		}
	}
	p.RoundResults = append(p.RoundResults, result)
	return &p.RoundResults[len(p.RoundResults)-1]
}
