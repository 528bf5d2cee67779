package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"numduel/internal/model"
	"numduel/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface,
// for deployments where multiple instances share party state.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// opContext bounds a single storage round-trip
func (s *Storage) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.OpTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.OpTimeout)
}

// Party operations

// SaveParty writes the party document and refreshes its TTL. The code is
// also added to the active-party index so ListParties can find it.
func (s *Storage) SaveParty(ctx context.Context, party *model.Party) error {
	data, err := json.Marshal(party)
	if err != nil {
		return err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	indexKey := partyIndexKey()

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, partyKey(party.Code), data, s.cfg.PartyTTL)
	pipe.SAdd(ctx, indexKey, string(party.Code))
	pipe.Expire(ctx, indexKey, s.cfg.PartyTTL) // Keep index TTL in sync
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetParty(ctx context.Context, code model.PartyCode) (*model.Party, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	data, err := s.client.Get(ctx, partyKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPartyNotFound
		}
		return nil, err
	}

	var party model.Party
	if err := json.Unmarshal(data, &party); err != nil {
		return nil, err
	}
	return &party, nil
}

func (s *Storage) DeleteParty(ctx context.Context, code model.PartyCode) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	pipe := s.client.Pipeline()
	pipe.Del(ctx, partyKey(code))
	pipe.SRem(ctx, partyIndexKey(), string(code))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) PartyExists(ctx context.Context, code model.PartyCode) (bool, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	exists, err := s.client.Exists(ctx, partyKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) ListParties(ctx context.Context) ([]*model.Party, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	codes, err := s.client.SMembers(ctx, partyIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return []*model.Party{}, nil
	}

	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = partyKey(model.PartyCode(code))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	parties := make([]*model.Party, 0, len(values))
	for i, val := range values {
		if val == nil {
			// Document expired under the index entry; drop the stale entry
			_ = s.client.SRem(ctx, partyIndexKey(), codes[i]).Err()
			continue
		}
		var party model.Party
		if err := json.Unmarshal([]byte(val.(string)), &party); err != nil {
			continue // Skip invalid data
		}
		parties = append(parties, &party)
	}

	return parties, nil
}

func (s *Storage) CountParties(ctx context.Context) (int, error) {
	parties, err := s.ListParties(ctx)
	if err != nil {
		return 0, err
	}
	return len(parties), nil
}

// Player -> party index

func (s *Storage) MapPlayerToParty(ctx context.Context, playerID model.PlayerID, code model.PartyCode) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.client.Set(ctx, playerIndexKey(playerID), string(code), s.cfg.IndexTTL).Err()
}

func (s *Storage) PartyCodeForPlayer(ctx context.Context, playerID model.PlayerID) (model.PartyCode, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	code, err := s.client.Get(ctx, playerIndexKey(playerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrPlayerNotFound
		}
		return "", err
	}
	return model.PartyCode(code), nil
}

func (s *Storage) UnmapPlayer(ctx context.Context, playerID model.PlayerID) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.client.Del(ctx, playerIndexKey(playerID)).Err()
}

// Connection -> player index

func (s *Storage) MapConnectionToPlayer(ctx context.Context, connID model.ConnectionID, playerID model.PlayerID) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.client.Set(ctx, connIndexKey(connID), string(playerID), s.cfg.IndexTTL).Err()
}

func (s *Storage) PlayerIDForConnection(ctx context.Context, connID model.ConnectionID) (model.PlayerID, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	playerID, err := s.client.Get(ctx, connIndexKey(connID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrConnectionNotFound
		}
		return "", err
	}
	return model.PlayerID(playerID), nil
}

func (s *Storage) UnmapConnection(ctx context.Context, connID model.ConnectionID) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.client.Del(ctx, connIndexKey(connID)).Err()
}
