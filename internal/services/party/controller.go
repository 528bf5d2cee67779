package party

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"numduel/internal/dependencies/clock"
	"numduel/internal/dependencies/random"
	"numduel/internal/model"
	"numduel/internal/storage"
)

const (
	// CodeLength is the length of generated party codes
	CodeLength = 6
	// CodeAlphabet is the characters used in party codes (avoid confusing chars)
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// MaxCodeAttempts bounds the collision retry loop; generation fails
	// closed after this budget instead of looping forever
	MaxCodeAttempts = 10
)

// Config holds tunable behavior for the party controller
type Config struct {
	// MaxRounds per match; the shipped default is single-elimination
	MaxRounds int
	// InactivityTimeout after which idle parties are swept
	InactivityTimeout time.Duration
}

// DefaultConfig returns the shipped party configuration
func DefaultConfig() Config {
	return Config{
		MaxRounds:         1,
		InactivityTimeout: 10 * time.Minute,
	}
}

// Controller manages party lifecycle: code generation, create/join/leave,
// reconnection and the inactivity sweep. Game-rule transitions live on
// model.Party; this layer owns storage consistency and the indexes.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	cfg     Config
	logger  *slog.Logger
}

// NewController creates a new party controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultConfig().MaxRounds
	}
	if cfg.InactivityTimeout <= 0 {
		cfg.InactivityTimeout = DefaultConfig().InactivityTimeout
	}
	return &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "party")),
	}
}

// CreateParty creates a party hosted by a new player bound to connID.
// A connection already mapped into another party is detached from it first,
// so a connection is never in two parties at once.
func (c *Controller) CreateParty(ctx context.Context, connID model.ConnectionID, name string) (*model.Party, *model.Player, error) {
	name = strings.TrimSpace(name)
	if err := model.ValidatePlayerName(name); err != nil {
		return nil, nil, err
	}
	if err := c.detachConnection(ctx, connID); err != nil {
		return nil, nil, err
	}

	code, err := c.generateCode(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := c.clock.Now()
	host := &model.Player{
		ID:           model.PlayerID(uuid.New().String()),
		ConnectionID: connID,
		Name:         name,
		IsConnected:  true,
		JoinedAt:     now,
	}
	party := model.NewParty(uuid.New().String(), code, host, c.cfg.MaxRounds, now)

	if err := c.saveWithIndexes(ctx, party, host); err != nil {
		return nil, nil, err
	}

	c.logger.Info("party created",
		slog.String("code", string(code)),
		slog.String("host_id", string(host.ID)))
	return party, host, nil
}

// JoinParty adds a new player bound to connID to an existing party
func (c *Controller) JoinParty(ctx context.Context, connID model.ConnectionID, code model.PartyCode, name string) (*model.Party, *model.Player, error) {
	name = strings.TrimSpace(name)
	if err := model.ValidatePlayerName(name); err != nil {
		return nil, nil, err
	}
	code = NormalizeCode(code)
	if err := model.ValidatePartyCode(code); err != nil {
		return nil, nil, err
	}
	if err := c.detachConnection(ctx, connID); err != nil {
		return nil, nil, err
	}

	party, err := c.storage.GetParty(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	now := c.clock.Now()
	player := &model.Player{
		ID:           model.PlayerID(uuid.New().String()),
		ConnectionID: connID,
		Name:         name,
		IsConnected:  true,
		JoinedAt:     now,
	}
	if err := party.AddPlayer(player, now); err != nil {
		return nil, nil, err
	}

	if err := c.saveWithIndexes(ctx, party, player); err != nil {
		return nil, nil, err
	}

	c.logger.Info("player joined",
		slog.String("code", string(code)),
		slog.String("player_id", string(player.ID)))
	return party, player, nil
}

// LeaveOutcome describes the effect of a leave/teardown
type LeaveOutcome struct {
	Party       *model.Party
	Player      *model.Player
	PartyClosed bool
}

// LeaveParty removes the player behind connID from their party. When the
// host leaves the whole party closes; host privileges are never handed to
// the remaining player.
func (c *Controller) LeaveParty(ctx context.Context, connID model.ConnectionID) (*LeaveOutcome, error) {
	party, player, err := c.ResolveConnection(ctx, connID)
	if err != nil {
		return nil, err
	}
	return c.removePlayer(ctx, party, player)
}

// RemovePlayerByID removes a player from their party by identity rather
// than live connection, used when a disconnect grace window expires.
func (c *Controller) RemovePlayerByID(ctx context.Context, code model.PartyCode, playerID model.PlayerID) (*LeaveOutcome, error) {
	party, err := c.storage.GetParty(ctx, code)
	if err != nil {
		return nil, err
	}
	player := party.GetPlayer(playerID)
	if player == nil {
		return nil, model.ErrNotInParty
	}
	return c.removePlayer(ctx, party, player)
}

func (c *Controller) removePlayer(ctx context.Context, party *model.Party, player *model.Player) (*LeaveOutcome, error) {
	now := c.clock.Now()
	outcome := &LeaveOutcome{Party: party, Player: player}

	_ = c.storage.UnmapConnection(ctx, player.ConnectionID)
	_ = c.storage.UnmapPlayer(ctx, player.ID)

	if player.ID == party.HostID || len(party.Players) <= 1 {
		party.Close()
		outcome.PartyClosed = true
		for _, pl := range party.Players {
			_ = c.storage.UnmapConnection(ctx, pl.ConnectionID)
			_ = c.storage.UnmapPlayer(ctx, pl.ID)
		}
		if err := c.storage.DeleteParty(ctx, party.Code); err != nil {
			return nil, err
		}
		c.logger.Info("party closed",
			slog.String("code", string(party.Code)),
			slog.Bool("host_left", player.ID == party.HostID))
		return outcome, nil
	}

	if err := party.RemovePlayer(player.ID, now); err != nil {
		return nil, err
	}
	if err := c.storage.SaveParty(ctx, party); err != nil {
		return nil, err
	}
	c.logger.Info("player left",
		slog.String("code", string(party.Code)),
		slog.String("player_id", string(player.ID)))
	return outcome, nil
}

// Reconnect re-binds a fresh connection to an existing player identified by
// (code, playerID), preserving all game progress. The stale connection
// mapping is replaced; the player record is untouched apart from the handle.
func (c *Controller) Reconnect(ctx context.Context, connID model.ConnectionID, code model.PartyCode, playerID model.PlayerID) (*model.Party, *model.Player, error) {
	code = NormalizeCode(code)
	party, err := c.storage.GetParty(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	player := party.GetPlayer(playerID)
	if player == nil {
		return nil, nil, model.ErrPlayerHasLeft
	}

	if player.ConnectionID != "" && player.ConnectionID != connID {
		_ = c.storage.UnmapConnection(ctx, player.ConnectionID)
	}
	player.ConnectionID = connID
	player.IsConnected = true
	party.Touch(c.clock.Now())

	if err := c.storage.SaveParty(ctx, party); err != nil {
		return nil, nil, err
	}
	if err := c.storage.MapConnectionToPlayer(ctx, connID, player.ID); err != nil {
		return nil, nil, err
	}
	if err := c.storage.MapPlayerToParty(ctx, player.ID, party.Code); err != nil {
		return nil, nil, err
	}

	c.logger.Info("player reconnected",
		slog.String("code", string(code)),
		slog.String("player_id", string(playerID)))
	return party, player, nil
}

// MarkDisconnected flips the player behind connID to disconnected without
// removing them; the caller owns the grace window that follows.
func (c *Controller) MarkDisconnected(ctx context.Context, connID model.ConnectionID) (*model.Party, *model.Player, error) {
	party, player, err := c.ResolveConnection(ctx, connID)
	if err != nil {
		return nil, nil, err
	}
	player.IsConnected = false
	party.Touch(c.clock.Now())
	_ = c.storage.UnmapConnection(ctx, connID)
	if err := c.storage.SaveParty(ctx, party); err != nil {
		return nil, nil, err
	}
	return party, player, nil
}

// ResolveConnection walks connection -> player -> party
func (c *Controller) ResolveConnection(ctx context.Context, connID model.ConnectionID) (*model.Party, *model.Player, error) {
	playerID, err := c.storage.PlayerIDForConnection(ctx, connID)
	if err != nil {
		return nil, nil, err
	}
	code, err := c.storage.PartyCodeForPlayer(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}
	party, err := c.storage.GetParty(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	player := party.GetPlayer(playerID)
	if player == nil {
		return nil, nil, model.ErrNotInParty
	}
	return party, player, nil
}

// GetParty retrieves a party by code
func (c *Controller) GetParty(ctx context.Context, code model.PartyCode) (*model.Party, error) {
	return c.storage.GetParty(ctx, NormalizeCode(code))
}

// SaveParty persists a mutated party
func (c *Controller) SaveParty(ctx context.Context, party *model.Party) error {
	return c.storage.SaveParty(ctx, party)
}

// DeleteParty tears a party down, removing all of its index entries
func (c *Controller) DeleteParty(ctx context.Context, party *model.Party) error {
	for _, pl := range party.Players {
		_ = c.storage.UnmapConnection(ctx, pl.ConnectionID)
		_ = c.storage.UnmapPlayer(ctx, pl.ID)
	}
	return c.storage.DeleteParty(ctx, party.Code)
}

// CleanupInactiveParties sweeps parties that are empty or idle beyond the
// configured timeout. Returns the codes of the removed parties.
func (c *Controller) CleanupInactiveParties(ctx context.Context) ([]model.PartyCode, error) {
	parties, err := c.storage.ListParties(ctx)
	if err != nil {
		return nil, err
	}

	var removed []model.PartyCode
	for _, p := range parties {
		if len(p.Players) > 0 && c.clock.Since(p.LastActivity) < c.cfg.InactivityTimeout {
			continue
		}
		if err := c.DeleteParty(ctx, p); err != nil {
			c.logger.Warn("failed to sweep party",
				slog.String("code", string(p.Code)),
				slog.Any("error", err))
			continue
		}
		removed = append(removed, p.Code)
	}
	if len(removed) > 0 {
		c.logger.Info("inactive parties swept", slog.Int("removed", len(removed)))
	}
	return removed, nil
}

// Stats is a snapshot of active parties and players for the health surface
type Stats struct {
	ActiveParties int `json:"active_parties"`
	ActivePlayers int `json:"active_players"`
}

// GetStats counts active parties and their players
func (c *Controller) GetStats(ctx context.Context) (*Stats, error) {
	parties, err := c.storage.ListParties(ctx)
	if err != nil {
		return nil, err
	}
	stats := &Stats{ActiveParties: len(parties)}
	for _, p := range parties {
		stats.ActivePlayers += len(p.Players)
	}
	return stats, nil
}

// NormalizeCode uppercases user-supplied codes
func NormalizeCode(code model.PartyCode) model.PartyCode {
	return model.PartyCode(strings.ToUpper(strings.TrimSpace(string(code))))
}

// generateCode produces a code not held by any active party. The retry
// loop is bounded: after MaxCodeAttempts collisions it fails closed with
// ErrCodeGeneration rather than risking a duplicate.
func (c *Controller) generateCode(ctx context.Context) (model.PartyCode, error) {
	for attempt := 0; attempt < MaxCodeAttempts; attempt++ {
		code := model.PartyCode(c.random.String(CodeLength, CodeAlphabet))
		exists, err := c.storage.PartyExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", model.ErrCodeGeneration
}

func (c *Controller) saveWithIndexes(ctx context.Context, party *model.Party, player *model.Player) error {
	if err := c.storage.SaveParty(ctx, party); err != nil {
		return err
	}
	if err := c.storage.MapPlayerToParty(ctx, player.ID, party.Code); err != nil {
		return err
	}
	return c.storage.MapConnectionToPlayer(ctx, player.ConnectionID, player.ID)
}

// detachConnection implicitly removes the player behind connID from any
// prior party, so a reused connection is never mapped into two parties.
func (c *Controller) detachConnection(ctx context.Context, connID model.ConnectionID) error {
	_, err := c.storage.PlayerIDForConnection(ctx, connID)
	if err != nil {
		if errors.Is(err, model.ErrConnectionNotFound) {
			return nil
		}
		return err
	}
	_, err = c.LeaveParty(ctx, connID)
	if err != nil && !errors.Is(err, model.ErrPartyNotFound) && !errors.Is(err, model.ErrPlayerNotFound) {
		return err
	}
	return nil
}
