package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"numduel/internal/dependencies/clock"
	"numduel/internal/dependencies/random"
	"numduel/internal/model"
	"numduel/internal/services/game"
	"numduel/internal/services/party"
)

// Config holds tunable orchestrator behavior
type Config struct {
	// SelectionTimeout bounds the secret-selection phase; on expiry
	// unpicked players get a random secret assigned
	SelectionTimeout time.Duration
	// GraceWindow is how long a disconnected player keeps their seat
	GraceWindow time.Duration
	// SweepInterval is how often idle parties are collected
	SweepInterval time.Duration
}

// DefaultConfig returns the shipped orchestrator configuration
func DefaultConfig() Config {
	return Config{
		SelectionTimeout: 30 * time.Second,
		GraceWindow:      60 * time.Second,
		SweepInterval:    time.Minute,
	}
}

// Orchestrator routes client messages onto party state transitions and
// fans the resulting events back out over the rooms. All mutations of a
// party happen under its keyed mutex, and state is persisted before any
// broadcast goes out.
type Orchestrator struct {
	parties   *party.Controller
	evaluator *game.Service
	rooms     *RoomManager
	clock     clock.Clock
	random    random.Random
	cfg       Config
	logger    *slog.Logger

	locksMu sync.Mutex
	locks   map[model.PartyCode]*sync.Mutex

	timersMu       sync.Mutex
	selectionStops map[model.PartyCode]chan struct{}
	graceTimers    map[model.PlayerID]*time.Timer
}

var _ Dispatcher = (*Orchestrator)(nil)

// NewOrchestrator creates an orchestrator
func NewOrchestrator(
	parties *party.Controller,
	evaluator *game.Service,
	rooms *RoomManager,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		parties:        parties,
		evaluator:      evaluator,
		rooms:          rooms,
		clock:          clk,
		random:         rnd,
		cfg:            cfg,
		logger:         logger,
		locks:          make(map[model.PartyCode]*sync.Mutex),
		selectionStops: make(map[model.PartyCode]chan struct{}),
		graceTimers:    make(map[model.PlayerID]*time.Timer),
	}
}

// Run drives the inactivity sweep until ctx is cancelled
func (o *Orchestrator) Run(ctx context.Context) {
	ticker := time.NewTicker(o.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.sweep(ctx)
		}
	}
}

func (o *Orchestrator) sweep(ctx context.Context) {
	codes, err := o.parties.CleanupInactiveParties(ctx)
	if err != nil {
		o.logger.Error("inactivity sweep failed", slog.String("error", err.Error()))
		return
	}
	for _, code := range codes {
		o.cancelSelectionCountdown(code)
		if room, ok := o.rooms.Get(code); ok {
			room.Broadcast(NewServerMessage(MsgPartyLeft, &PartyEndedPayload{
				Code:   code,
				Reason: "inactivity",
			}))
		}
		o.teardown(code)
	}
}

// Dispatch implements Dispatcher
func (o *Orchestrator) Dispatch(ctx context.Context, conn Conn, msg ClientMessage) {
	switch msg.Type {
	case MsgCreateParty:
		o.handleCreateParty(ctx, conn, msg.Payload)
	case MsgJoinParty:
		o.handleJoinParty(ctx, conn, msg.Payload)
	case MsgLeaveParty:
		o.handleLeaveParty(ctx, conn)
	case MsgUpdateSettings:
		o.handleUpdateSettings(ctx, conn, msg.Payload)
	case MsgStartGame:
		o.handleStartGame(ctx, conn)
	case MsgSetReady:
		o.handleSetReady(ctx, conn, msg.Payload)
	case MsgMakeGuess:
		o.handleMakeGuess(ctx, conn, msg.Payload)
	case MsgNextRound:
		o.handleNextRound(ctx, conn)
	case MsgRematch:
		o.handleRematch(ctx, conn)
	case MsgReconnectAttempt:
		o.handleReconnect(ctx, conn, msg.Payload)
	case MsgTyping:
		o.handleTyping(ctx, conn)
	case MsgHeartbeat:
		o.handleHeartbeat(ctx, conn)
	default:
		o.sendErrorKind(conn, ErrKindValidation, "unknown message type")
	}
}

// ConnectionClosed implements Dispatcher. The player keeps their seat for
// the grace window; only after it expires are they removed.
func (o *Orchestrator) ConnectionClosed(ctx context.Context, conn Conn) {
	resolved, _, err := o.parties.ResolveConnection(ctx, conn.ID())
	if err != nil {
		// Connection was never in a party, or already detached
		return
	}

	unlock := o.lockParty(resolved.Code)
	defer unlock()

	prty, player, err := o.parties.MarkDisconnected(ctx, conn.ID())
	if err != nil {
		return
	}

	if room, ok := o.rooms.Get(prty.Code); ok {
		room.Unbind(player.ID, conn.ID())
		room.Broadcast(NewServerMessage(MsgPlayerDisconnected, &PlayerEventPayload{
			PlayerID: player.ID,
			Name:     player.Name,
		}))
	}

	o.scheduleGrace(prty.Code, player.ID)
	o.logger.Info("player disconnected, grace window started",
		slog.String("code", string(prty.Code)),
		slog.String("player_id", string(player.ID)),
		slog.Duration("grace", o.cfg.GraceWindow))
}

// Party lifecycle handlers

func (o *Orchestrator) handleCreateParty(ctx context.Context, conn Conn, raw json.RawMessage) {
	var p CreatePartyPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		o.sendErrorKind(conn, ErrKindValidation, "invalid payload")
		return
	}

	if err := o.detachPrior(ctx, conn); err != nil {
		o.sendError(conn, err)
		return
	}

	prty, player, err := o.parties.CreateParty(ctx, conn.ID(), p.PlayerName)
	if err != nil {
		o.sendError(conn, err)
		return
	}

	room := o.rooms.GetOrCreate(prty.Code)
	room.Bind(player.ID, conn)

	state := NewPersonalState(prty, player.ID)
	conn.Send(NewServerMessage(MsgPartyCreated, &state))
}

func (o *Orchestrator) handleJoinParty(ctx context.Context, conn Conn, raw json.RawMessage) {
	var p JoinPartyPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		o.sendErrorKind(conn, ErrKindValidation, "invalid payload")
		return
	}

	if err := o.detachPrior(ctx, conn); err != nil {
		o.sendError(conn, err)
		return
	}

	code := party.NormalizeCode(model.PartyCode(p.PartyCode))
	unlock := o.lockParty(code)
	defer unlock()

	prty, player, err := o.parties.JoinParty(ctx, conn.ID(), code, p.PlayerName)
	if err != nil {
		o.sendError(conn, err)
		return
	}

	room := o.rooms.GetOrCreate(prty.Code)
	room.Bind(player.ID, conn)

	state := NewPersonalState(prty, player.ID)
	conn.Send(NewServerMessage(MsgPartyJoined, &state))

	view := NewPartyView(prty)
	room.BroadcastExcept(player.ID, NewServerMessage(MsgPlayerJoined, &PlayerEventPayload{
		PlayerID: player.ID,
		Name:     player.Name,
		Party:    &view,
	}))
}

func (o *Orchestrator) handleLeaveParty(ctx context.Context, conn Conn) {
	if err := o.leaveCurrentParty(ctx, conn); err != nil {
		o.sendError(conn, err)
	}
}

// leaveCurrentParty runs the full leave flow for the connection's party:
// storage removal, notifications to whoever stays behind, and countdown
// plus room cleanup when the party closes.
func (o *Orchestrator) leaveCurrentParty(ctx context.Context, conn Conn) error {
	prty, player, err := o.parties.ResolveConnection(ctx, conn.ID())
	if err != nil {
		return err
	}

	unlock := o.lockParty(prty.Code)
	defer unlock()

	outcome, err := o.parties.LeaveParty(ctx, conn.ID())
	if err != nil {
		return err
	}

	o.cancelGrace(player.ID)

	if outcome.PartyClosed {
		o.cancelSelectionCountdown(prty.Code)
		if room, ok := o.rooms.Get(prty.Code); ok {
			room.Unbind(player.ID, conn.ID())
			room.Broadcast(NewServerMessage(MsgPartyLeft, &PartyEndedPayload{
				Code:   prty.Code,
				Reason: "host_left",
			}))
		}
		o.teardown(prty.Code)
		return nil
	}

	if room, ok := o.rooms.Get(prty.Code); ok {
		room.Unbind(player.ID, conn.ID())
		view := NewPartyView(outcome.Party)
		room.Broadcast(NewServerMessage(MsgPlayerLeft, &PlayerEventPayload{
			PlayerID: player.ID,
			Name:     player.Name,
			Party:    &view,
		}))
	}
	return nil
}

// detachPrior releases the connection's seat in any earlier party before it
// creates or joins another one, so the player left behind hears about the
// departure and the old room does not linger.
func (o *Orchestrator) detachPrior(ctx context.Context, conn Conn) error {
	err := o.leaveCurrentParty(ctx, conn)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrConnectionNotFound),
		errors.Is(err, model.ErrPartyNotFound),
		errors.Is(err, model.ErrNotInParty):
		// Nothing to detach from
		return nil
	default:
		return err
	}
}

func (o *Orchestrator) handleUpdateSettings(ctx context.Context, conn Conn, raw json.RawMessage) {
	var p UpdateSettingsPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		o.sendErrorKind(conn, ErrKindValidation, "invalid payload")
		return
	}

	prty, player, unlock, err := o.resolveLocked(ctx, conn)
	if err != nil {
		o.sendError(conn, err)
		return
	}
	defer unlock()

	if err := prty.UpdateSettings(player.ID, p.RangeStart, p.RangeEnd, o.clock.Now()); err != nil {
		o.sendError(conn, err)
		return
	}
	if err := o.parties.SaveParty(ctx, prty); err != nil {
		o.sendError(conn, err)
		return
	}

	if room, ok := o.rooms.Get(prty.Code); ok {
		view := NewPartyView(prty)
		room.Broadcast(NewServerMessage(MsgSettingsUpdated, &view))
	}
}

// Round flow handlers

func (o *Orchestrator) handleStartGame(ctx context.Context, conn Conn) {
	prty, player, unlock, err := o.resolveLocked(ctx, conn)
	if err != nil {
		o.sendError(conn, err)
		return
	}
	defer unlock()

	if err := prty.StartSelection(player.ID, o.clock.Now()); err != nil {
		o.sendError(conn, err)
		return
	}
	if err := o.parties.SaveParty(ctx, prty); err != nil {
		o.sendError(conn, err)
		return
	}

	o.broadcastSelectionEntered(prty, MsgGameStarted)
}

func (o *Orchestrator) handleSetReady(ctx context.Context, conn Conn, raw json.RawMessage) {
	var p SetReadyPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		o.sendErrorKind(conn, ErrKindValidation, "invalid payload")
		return
	}

	prty, player, unlock, err := o.resolveLocked(ctx, conn)
	if err != nil {
		o.sendError(conn, err)
		return
	}
	defer unlock()

	allReady, err := prty.SetReady(player.ID, p.SecretNumber, o.clock.Now())
	if err != nil {
		o.sendError(conn, err)
		return
	}

	if allReady {
		if err := prty.BeginPlaying(o.clock.Now()); err != nil {
			o.sendError(conn, err)
			return
		}
	}
	if err := o.parties.SaveParty(ctx, prty); err != nil {
		o.sendError(conn, err)
		return
	}

	room, ok := o.rooms.Get(prty.Code)
	if !ok {
		return
	}
	room.Broadcast(NewServerMessage(MsgPlayerReady, &PlayerEventPayload{
		PlayerID: player.ID,
		Name:     player.Name,
	}))
	if allReady {
		o.cancelSelectionCountdown(prty.Code)
		o.sendPlayingStarted(room, prty)
	}
}

func (o *Orchestrator) handleMakeGuess(ctx context.Context, conn Conn, raw json.RawMessage) {
	var p MakeGuessPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		o.sendErrorKind(conn, ErrKindValidation, "invalid payload")
		return
	}

	prty, player, unlock, err := o.resolveLocked(ctx, conn)
	if err != nil {
		o.sendError(conn, err)
		return
	}
	defer unlock()

	outcome, err := prty.Guess(player.ID, p.Guess, o.clock.Now())
	if err != nil {
		o.sendError(conn, err)
		return
	}
	if err := o.parties.SaveParty(ctx, prty); err != nil {
		o.sendError(conn, err)
		return
	}

	room, ok := o.rooms.Get(prty.Code)
	if !ok {
		return
	}

	secret := outcome.Guess + outcome.Difference
	conn.Send(NewServerMessage(MsgGuessResult, &GuessResultPayload{
		Guess:    outcome.Guess,
		Attempts: outcome.Attempts,
		Correct:  outcome.Correct,
		Feedback: o.evaluator.Feedback(outcome.Guess, secret, prty.Settings),
	}))

	room.BroadcastExcept(player.ID, NewServerMessage(MsgOpponentGuessed, &OpponentGuessedPayload{
		PlayerID: player.ID,
		Attempts: outcome.Attempts,
	}))

	if outcome.RoundOver {
		payload := &RoundEndedPayload{
			Summary:   o.evaluator.SummarizeRound(prty, outcome.Result),
			MatchOver: outcome.MatchOver,
		}
		if outcome.MatchOver {
			match := o.evaluator.SummarizeMatch(prty)
			payload.Match = &match
		}
		room.Broadcast(NewServerMessage(MsgRoundEnded, payload))
	}
}

func (o *Orchestrator) handleNextRound(ctx context.Context, conn Conn) {
	prty, player, unlock, err := o.resolveLocked(ctx, conn)
	if err != nil {
		o.sendError(conn, err)
		return
	}
	defer unlock()

	if err := prty.NextRound(player.ID, o.clock.Now()); err != nil {
		o.sendError(conn, err)
		return
	}
	if err := o.parties.SaveParty(ctx, prty); err != nil {
		o.sendError(conn, err)
		return
	}

	o.broadcastSelectionEntered(prty, MsgNextRoundStarted)
}

func (o *Orchestrator) handleRematch(ctx context.Context, conn Conn) {
	prty, player, unlock, err := o.resolveLocked(ctx, conn)
	if err != nil {
		o.sendError(conn, err)
		return
	}
	defer unlock()

	if err := prty.Rematch(player.ID, o.clock.Now()); err != nil {
		o.sendError(conn, err)
		return
	}
	if err := o.parties.SaveParty(ctx, prty); err != nil {
		o.sendError(conn, err)
		return
	}

	o.broadcastSelectionEntered(prty, MsgRematchStarted)
}

// broadcastSelectionEntered announces a fresh selection phase and arms
// the countdown. Used for game start, next round and rematch.
func (o *Orchestrator) broadcastSelectionEntered(prty *model.Party, msgType MessageType) {
	if room, ok := o.rooms.Get(prty.Code); ok {
		room.Broadcast(NewServerMessage(msgType, &GameStartedPayload{
			Party:            NewPartyView(prty),
			SelectionSeconds: int(o.cfg.SelectionTimeout.Seconds()),
		}))
	}
	o.startSelectionCountdown(prty.Code)
}

// Session handlers

func (o *Orchestrator) handleReconnect(ctx context.Context, conn Conn, raw json.RawMessage) {
	var p ReconnectPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		o.sendErrorKind(conn, ErrKindValidation, "invalid payload")
		return
	}

	code := party.NormalizeCode(model.PartyCode(p.PartyCode))
	unlock := o.lockParty(code)
	defer unlock()

	prty, player, err := o.parties.Reconnect(ctx, conn.ID(), code, model.PlayerID(p.PlayerID))
	if err != nil {
		conn.Send(NewServerMessage(MsgReconnectFailed, &ErrorPayload{
			Message: err.Error(),
			Type:    errorKind(err),
		}))
		return
	}

	o.cancelGrace(player.ID)

	room := o.rooms.GetOrCreate(prty.Code)
	room.Bind(player.ID, conn)

	state := NewPersonalState(prty, player.ID)
	conn.Send(NewServerMessage(MsgReconnected, &state))

	room.BroadcastExcept(player.ID, NewServerMessage(MsgPlayerReconnected, &PlayerEventPayload{
		PlayerID: player.ID,
		Name:     player.Name,
	}))
}

func (o *Orchestrator) handleTyping(ctx context.Context, conn Conn) {
	prty, player, unlock, err := o.resolveLocked(ctx, conn)
	if err != nil {
		return
	}
	defer unlock()

	if room, ok := o.rooms.Get(prty.Code); ok {
		room.BroadcastExcept(player.ID, NewServerMessage(MsgOpponentTyping, &PlayerEventPayload{
			PlayerID: player.ID,
		}))
	}
}

func (o *Orchestrator) handleHeartbeat(ctx context.Context, conn Conn) {
	prty, _, unlock, err := o.resolveLocked(ctx, conn)
	if err != nil {
		return
	}
	defer unlock()

	prty.Touch(o.clock.Now())
	if err := o.parties.SaveParty(ctx, prty); err != nil {
		o.logger.Warn("heartbeat save failed",
			slog.String("code", string(prty.Code)),
			slog.String("error", err.Error()))
	}
}

// Selection countdown

func (o *Orchestrator) startSelectionCountdown(code model.PartyCode) {
	o.timersMu.Lock()
	if stop, ok := o.selectionStops[code]; ok {
		close(stop)
	}
	stop := make(chan struct{})
	o.selectionStops[code] = stop
	o.timersMu.Unlock()

	go o.runSelectionCountdown(code, stop)
}

func (o *Orchestrator) cancelSelectionCountdown(code model.PartyCode) {
	o.timersMu.Lock()
	defer o.timersMu.Unlock()
	if stop, ok := o.selectionStops[code]; ok {
		close(stop)
		delete(o.selectionStops, code)
	}
}

func (o *Orchestrator) runSelectionCountdown(code model.PartyCode, stop chan struct{}) {
	remaining := int(o.cfg.SelectionTimeout.Seconds())
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			remaining--
			if remaining <= 0 {
				o.selectionExpired(code)
				return
			}
			if room, ok := o.rooms.Get(code); ok {
				room.Broadcast(NewServerMessage(MsgSelectionTimer, &SelectionTimerPayload{
					TimeLeft: remaining,
				}))
			}
		}
	}
}

// selectionExpired assigns random secrets to players who never picked and
// moves the party into play. The party is re-read under its lock since
// state may have moved since the countdown was armed.
func (o *Orchestrator) selectionExpired(code model.PartyCode) {
	ctx := context.Background()

	unlock := o.lockParty(code)
	defer unlock()

	o.timersMu.Lock()
	delete(o.selectionStops, code)
	o.timersMu.Unlock()

	prty, err := o.parties.GetParty(ctx, code)
	if err != nil {
		return
	}
	if prty.Phase != model.PhaseSelection {
		return
	}

	now := o.clock.Now()
	assigned := prty.AutoSelect(o.random.IntInRange, now)
	if err := prty.BeginPlaying(now); err != nil {
		o.logger.Error("auto-select failed to start play",
			slog.String("code", string(code)),
			slog.String("error", err.Error()))
		return
	}
	if err := o.parties.SaveParty(ctx, prty); err != nil {
		o.logger.Error("auto-select save failed",
			slog.String("code", string(code)),
			slog.String("error", err.Error()))
		return
	}

	o.logger.Info("selection timed out, secrets auto-assigned",
		slog.String("code", string(code)),
		slog.Int("auto_assigned", len(assigned)))

	room, ok := o.rooms.Get(code)
	if !ok {
		return
	}
	o.sendPlayingStarted(room, prty)
}

// sendPlayingStarted delivers the play-phase transition to each player
// individually so everyone learns their own secret but never the opponent's
func (o *Orchestrator) sendPlayingStarted(room *Room, prty *model.Party) {
	for playerID := range prty.Players {
		state := NewPersonalState(prty, playerID)
		room.SendTo(playerID, NewServerMessage(MsgPlayingStarted, &state))
	}
}

// Grace window

func (o *Orchestrator) scheduleGrace(code model.PartyCode, playerID model.PlayerID) {
	o.timersMu.Lock()
	defer o.timersMu.Unlock()

	if timer, ok := o.graceTimers[playerID]; ok {
		timer.Stop()
	}
	o.graceTimers[playerID] = time.AfterFunc(o.cfg.GraceWindow, func() {
		o.graceExpired(code, playerID)
	})
}

func (o *Orchestrator) cancelGrace(playerID model.PlayerID) {
	o.timersMu.Lock()
	defer o.timersMu.Unlock()

	if timer, ok := o.graceTimers[playerID]; ok {
		timer.Stop()
		delete(o.graceTimers, playerID)
	}
}

func (o *Orchestrator) graceExpired(code model.PartyCode, playerID model.PlayerID) {
	ctx := context.Background()

	o.timersMu.Lock()
	delete(o.graceTimers, playerID)
	o.timersMu.Unlock()

	unlock := o.lockParty(code)
	defer unlock()

	prty, err := o.parties.GetParty(ctx, code)
	if err != nil {
		return
	}
	player := prty.GetPlayer(playerID)
	if player == nil || player.IsConnected {
		return
	}

	outcome, err := o.parties.RemovePlayerByID(ctx, code, playerID)
	if err != nil {
		o.logger.Error("grace expiry removal failed",
			slog.String("code", string(code)),
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()))
		return
	}

	o.logger.Info("grace window expired, player removed",
		slog.String("code", string(code)),
		slog.String("player_id", string(playerID)),
		slog.Bool("party_closed", outcome.PartyClosed))

	if outcome.PartyClosed {
		o.cancelSelectionCountdown(code)
		if room, ok := o.rooms.Get(code); ok {
			room.Broadcast(NewServerMessage(MsgPartyLeft, &PartyEndedPayload{
				Code:   code,
				Reason: "host_disconnected",
			}))
		}
		o.teardown(code)
		return
	}

	if room, ok := o.rooms.Get(code); ok {
		view := NewPartyView(outcome.Party)
		room.Broadcast(NewServerMessage(MsgPlayerLeft, &PlayerEventPayload{
			PlayerID: playerID,
			Name:     player.Name,
			Party:    &view,
		}))
	}
}

// Locking and plumbing

// resolveLocked resolves the connection's party, takes that party's lock
// and re-reads the party under it. The caller must invoke unlock.
func (o *Orchestrator) resolveLocked(ctx context.Context, conn Conn) (*model.Party, *model.Player, func(), error) {
	prty, player, err := o.parties.ResolveConnection(ctx, conn.ID())
	if err != nil {
		return nil, nil, nil, err
	}

	unlock := o.lockParty(prty.Code)

	prty, err = o.parties.GetParty(ctx, prty.Code)
	if err != nil {
		unlock()
		return nil, nil, nil, err
	}
	fresh := prty.GetPlayer(player.ID)
	if fresh == nil {
		unlock()
		return nil, nil, nil, model.ErrNotInParty
	}
	return prty, fresh, unlock, nil
}

func (o *Orchestrator) lockParty(code model.PartyCode) func() {
	o.locksMu.Lock()
	mu, ok := o.locks[code]
	if !ok {
		mu = &sync.Mutex{}
		o.locks[code] = mu
	}
	o.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// teardown drops room and lock state for a closed party
func (o *Orchestrator) teardown(code model.PartyCode) {
	o.rooms.Remove(code)
	o.locksMu.Lock()
	delete(o.locks, code)
	o.locksMu.Unlock()
}

func (o *Orchestrator) sendError(conn Conn, err error) {
	conn.Send(NewServerMessage(MsgError, &ErrorPayload{
		Message: err.Error(),
		Type:    errorKind(err),
	}))
}

func (o *Orchestrator) sendErrorKind(conn Conn, kind ErrorKind, message string) {
	conn.Send(NewServerMessage(MsgError, &ErrorPayload{
		Message: message,
		Type:    kind,
	}))
}

// errorKind maps domain errors onto the wire error taxonomy
func errorKind(err error) ErrorKind {
	switch {
	case errors.Is(err, model.ErrInvalidPlayerName),
		errors.Is(err, model.ErrInvalidPartyCode),
		errors.Is(err, model.ErrInvalidRange),
		errors.Is(err, model.ErrSecretOutOfRange),
		errors.Is(err, model.ErrGuessOutOfRange),
		errors.Is(err, model.ErrAlreadyReady):
		return ErrKindValidation
	case errors.Is(err, model.ErrPartyNotFound),
		errors.Is(err, model.ErrPlayerNotFound),
		errors.Is(err, model.ErrPlayerHasLeft),
		errors.Is(err, model.ErrConnectionNotFound),
		errors.Is(err, model.ErrNotInParty):
		return ErrKindNotFound
	case errors.Is(err, model.ErrPartyFull):
		return ErrKindPartyFull
	case errors.Is(err, model.ErrAlreadyInParty):
		return ErrKindAlreadyInParty
	case errors.Is(err, model.ErrNotHost):
		return ErrKindForbidden
	case errors.Is(err, model.ErrWrongPhase),
		errors.Is(err, model.ErrInsufficientPlayers),
		errors.Is(err, model.ErrMatchComplete),
		errors.Is(err, model.ErrNoOpponent),
		errors.Is(err, model.ErrPartyClosed):
		return ErrKindWrongPhase
	default:
		return ErrKindInternal
	}
}
