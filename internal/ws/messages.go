package ws

import (
	"encoding/json"
	"time"

	"numduel/internal/model"
	"numduel/internal/services/game"
)

// MessageType identifies a WebSocket message
type MessageType string

// Client -> Server message types
const (
	MsgCreateParty      MessageType = "create_party"
	MsgJoinParty        MessageType = "join_party"
	MsgLeaveParty       MessageType = "leave_party"
	MsgUpdateSettings   MessageType = "update_settings"
	MsgStartGame        MessageType = "start_game"
	MsgSetReady         MessageType = "set_ready"
	MsgMakeGuess        MessageType = "make_guess"
	MsgNextRound        MessageType = "next_round"
	MsgRematch          MessageType = "rematch"
	MsgReconnectAttempt MessageType = "reconnect_attempt"
	MsgTyping           MessageType = "typing"
	MsgHeartbeat        MessageType = "heartbeat"
)

// Server -> Client message types
const (
	MsgPartyCreated       MessageType = "party_created"
	MsgPartyJoined        MessageType = "party_joined"
	MsgPlayerJoined       MessageType = "player_joined"
	MsgPlayerLeft         MessageType = "player_left"
	MsgPartyLeft          MessageType = "party_left"
	MsgSettingsUpdated    MessageType = "settings_updated"
	MsgGameStarted        MessageType = "game_started"
	MsgPlayerReady        MessageType = "player_ready"
	MsgSelectionTimer     MessageType = "selection_timer"
	MsgPlayingStarted     MessageType = "playing_started"
	MsgGuessResult        MessageType = "guess_result"
	MsgOpponentGuessed    MessageType = "opponent_guessed"
	MsgRoundEnded         MessageType = "round_ended"
	MsgNextRoundStarted   MessageType = "next_round_started"
	MsgRematchStarted     MessageType = "rematch_started"
	MsgPlayerDisconnected MessageType = "player_disconnected"
	MsgPlayerReconnected  MessageType = "player_reconnected"
	MsgReconnected        MessageType = "reconnected"
	MsgReconnectFailed    MessageType = "reconnect_failed"
	MsgOpponentTyping     MessageType = "opponent_typing"
	MsgError              MessageType = "error"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   any         `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload any) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

type CreatePartyPayload struct {
	PlayerName string `json:"player_name"`
}

type JoinPartyPayload struct {
	PartyCode  string `json:"party_code"`
	PlayerName string `json:"player_name"`
}

type UpdateSettingsPayload struct {
	RangeStart int `json:"range_start"`
	RangeEnd   int `json:"range_end"`
}

type SetReadyPayload struct {
	SecretNumber int `json:"secret_number"`
}

type MakeGuessPayload struct {
	Guess int `json:"guess"`
}

type ReconnectPayload struct {
	PartyCode string `json:"party_code"`
	PlayerID  string `json:"player_id"`
}

// Server message payloads

// ErrorKind is the closed set of error tags clients discriminate on
type ErrorKind string

const (
	ErrKindValidation     ErrorKind = "validation"
	ErrKindNotFound       ErrorKind = "not_found"
	ErrKindPartyFull      ErrorKind = "party_full"
	ErrKindAlreadyInParty ErrorKind = "already_in_party"
	ErrKindForbidden      ErrorKind = "forbidden"
	ErrKindWrongPhase     ErrorKind = "wrong_phase"
	ErrKindInternal       ErrorKind = "internal"
)

// ErrorPayload is the payload for error messages
type ErrorPayload struct {
	Message string    `json:"message"`
	Type    ErrorKind `json:"type"`
}

// PlayerView is the public view of a player, safe to broadcast
// to both participants: it never carries the secret number.
type PlayerView struct {
	ID          model.PlayerID `json:"id"`
	Name        string         `json:"name"`
	IsHost      bool           `json:"is_host"`
	IsConnected bool           `json:"is_connected"`
	IsReady     bool           `json:"is_ready"`
	Attempts    int            `json:"attempts"`
	Wins        int            `json:"wins"`
}

// PartyView is the public view of a party
type PartyView struct {
	Code         model.PartyCode    `json:"code"`
	Phase        model.Phase        `json:"phase"`
	Status       model.PartyStatus  `json:"status"`
	CurrentRound int                `json:"current_round"`
	MaxRounds    int                `json:"max_rounds"`
	Settings     model.GameSettings `json:"settings"`
	Players      []PlayerView       `json:"players"`
}

// NewPartyView builds the broadcast-safe view of a party
func NewPartyView(p *model.Party) PartyView {
	view := PartyView{
		Code:         p.Code,
		Phase:        p.Phase,
		Status:       p.Status,
		CurrentRound: p.CurrentRound,
		MaxRounds:    p.MaxRounds,
		Settings:     p.Settings,
		Players:      make([]PlayerView, 0, len(p.Players)),
	}
	for _, pl := range p.Players {
		view.Players = append(view.Players, PlayerView{
			ID:          pl.ID,
			Name:        pl.Name,
			IsHost:      pl.IsHost,
			IsConnected: pl.IsConnected,
			IsReady:     pl.IsReady,
			Attempts:    pl.Attempts,
			Wins:        pl.Wins,
		})
	}
	return view
}

// PersonalState extends the party view with the receiving player's own
// round state, used when establishing or re-establishing a session.
type PersonalState struct {
	Party        PartyView           `json:"party"`
	PlayerID     model.PlayerID      `json:"player_id"`
	SecretNumber int                 `json:"secret_number,omitempty"`
	Attempts     int                 `json:"attempts"`
	GuessHistory []model.GuessRecord `json:"guess_history,omitempty"`
	HasFinished  bool                `json:"has_finished"`
}

// NewPersonalState builds the view a single player receives about themselves
func NewPersonalState(p *model.Party, playerID model.PlayerID) PersonalState {
	state := PersonalState{
		Party:    NewPartyView(p),
		PlayerID: playerID,
	}
	if pl := p.GetPlayer(playerID); pl != nil {
		state.SecretNumber = pl.SecretNumber
		state.Attempts = pl.Attempts
		state.GuessHistory = pl.GuessHistory
		state.HasFinished = pl.HasFinished
	}
	return state
}

type PlayerEventPayload struct {
	PlayerID model.PlayerID `json:"player_id"`
	Name     string         `json:"name,omitempty"`
	Party    *PartyView     `json:"party,omitempty"`
}

type PartyEndedPayload struct {
	Code   model.PartyCode `json:"code"`
	Reason string          `json:"reason"`
}

type GameStartedPayload struct {
	Party            PartyView `json:"party"`
	SelectionSeconds int       `json:"selection_seconds"`
}

type SelectionTimerPayload struct {
	TimeLeft int `json:"time_left"` // seconds
}

type GuessResultPayload struct {
	Guess    int           `json:"guess"`
	Attempts int           `json:"attempts"`
	Correct  bool          `json:"correct"`
	Feedback game.Feedback `json:"feedback"`
}

type OpponentGuessedPayload struct {
	PlayerID model.PlayerID `json:"player_id"`
	Attempts int            `json:"attempts"`
}

type RoundEndedPayload struct {
	Summary   game.RoundSummary  `json:"summary"`
	MatchOver bool               `json:"match_over"`
	Match     *game.MatchSummary `json:"match,omitempty"`
}
