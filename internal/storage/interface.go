package storage

import (
	"context"

	"numduel/internal/model"
)

// Storage defines the interface for party persistence.
//
// Party documents are the source of truth; the player and connection
// mappings are derived indexes kept consistent with party membership and
// removed together with their owning party/player. All operations take a
// context because the Redis implementation does network round-trips.
type Storage interface {
	// Party operations
	SaveParty(ctx context.Context, party *model.Party) error
	GetParty(ctx context.Context, code model.PartyCode) (*model.Party, error)
	DeleteParty(ctx context.Context, code model.PartyCode) error
	PartyExists(ctx context.Context, code model.PartyCode) (bool, error)
	ListParties(ctx context.Context) ([]*model.Party, error)
	CountParties(ctx context.Context) (int, error)

	// Player -> party index
	MapPlayerToParty(ctx context.Context, playerID model.PlayerID, code model.PartyCode) error
	PartyCodeForPlayer(ctx context.Context, playerID model.PlayerID) (model.PartyCode, error)
	UnmapPlayer(ctx context.Context, playerID model.PlayerID) error

	// Connection -> player index
	MapConnectionToPlayer(ctx context.Context, connID model.ConnectionID, playerID model.PlayerID) error
	PlayerIDForConnection(ctx context.Context, connID model.ConnectionID) (model.PlayerID, error)
	UnmapConnection(ctx context.Context, connID model.ConnectionID) error
}
