package memory

import (
	"context"
	"sync"

	"numduel/internal/model"
	"numduel/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// It serves a single process instance with zero serialization cost.
type Storage struct {
	mu sync.RWMutex

	parties     map[model.PartyCode]*model.Party
	playerIndex map[model.PlayerID]model.PartyCode
	connIndex   map[model.ConnectionID]model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		parties:     make(map[model.PartyCode]*model.Party),
		playerIndex: make(map[model.PlayerID]model.PartyCode),
		connIndex:   make(map[model.ConnectionID]model.PlayerID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Party operations

func (s *Storage) SaveParty(ctx context.Context, party *model.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parties[party.Code] = party
	return nil
}

func (s *Storage) GetParty(ctx context.Context, code model.PartyCode) (*model.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	party, ok := s.parties[code]
	if !ok {
		return nil, model.ErrPartyNotFound
	}
	return party, nil
}

func (s *Storage) DeleteParty(ctx context.Context, code model.PartyCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.parties, code)
	return nil
}

func (s *Storage) PartyExists(ctx context.Context, code model.PartyCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.parties[code]
	return ok, nil
}

func (s *Storage) ListParties(ctx context.Context) ([]*model.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	parties := make([]*model.Party, 0, len(s.parties))
	for _, p := range s.parties {
		parties = append(parties, p)
	}
	return parties, nil
}

func (s *Storage) CountParties(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.parties), nil
}

// Player -> party index

func (s *Storage) MapPlayerToParty(ctx context.Context, playerID model.PlayerID, code model.PartyCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerIndex[playerID] = code
	return nil
}

func (s *Storage) PartyCodeForPlayer(ctx context.Context, playerID model.PlayerID) (model.PartyCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.playerIndex[playerID]
	if !ok {
		return "", model.ErrPlayerNotFound
	}
	return code, nil
}

func (s *Storage) UnmapPlayer(ctx context.Context, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.playerIndex, playerID)
	return nil
}

// Connection -> player index

func (s *Storage) MapConnectionToPlayer(ctx context.Context, connID model.ConnectionID, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connIndex[connID] = playerID
	return nil
}

func (s *Storage) PlayerIDForConnection(ctx context.Context, connID model.ConnectionID) (model.PlayerID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.connIndex[connID]
	if !ok {
		return "", model.ErrConnectionNotFound
	}
	return playerID, nil
}

func (s *Storage) UnmapConnection(ctx context.Context, connID model.ConnectionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connIndex, connID)
	return nil
}
