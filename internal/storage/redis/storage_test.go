package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"numduel/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.PartyTTL = time.Hour
	cfg.IndexTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) newParty(code string) *model.Party {
	host := &model.Player{ID: "host-1", Name: "Alice", IsConnected: true, ConnectionID: "conn-1"}
	return model.NewParty("party-1", model.PartyCode(code), host, 1, time.Now().UTC())
}

// Party tests

func (s *StorageSuite) TestSaveAndGetParty() {
	party := s.newParty("ABC234")

	err := s.storage.SaveParty(s.ctx, party)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetParty(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(party.Code, retrieved.Code)
	s.Equal(party.HostID, retrieved.HostID)
	s.Equal(model.PhaseLobby, retrieved.Phase)
}

func (s *StorageSuite) TestGetPartyNotFound() {
	_, err := s.storage.GetParty(s.ctx, "NOPE42")
	s.ErrorIs(err, model.ErrPartyNotFound)
}

func (s *StorageSuite) TestPartyTTLRefreshedOnSave() {
	party := s.newParty("ABC234")
	_ = s.storage.SaveParty(s.ctx, party)

	ttl := s.mini.TTL(partyKey("ABC234"))
	s.True(ttl > 0, "party document should carry a TTL")

	s.mini.FastForward(30 * time.Minute)
	_ = s.storage.SaveParty(s.ctx, party)

	ttl = s.mini.TTL(partyKey("ABC234"))
	s.Equal(time.Hour, ttl, "save should refresh the TTL to the full window")
}

func (s *StorageSuite) TestPartyExpiresWithoutSaves() {
	_ = s.storage.SaveParty(s.ctx, s.newParty("ABC234"))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetParty(s.ctx, "ABC234")
	s.ErrorIs(err, model.ErrPartyNotFound)
}

func (s *StorageSuite) TestDeleteRemovesFromIndex() {
	_ = s.storage.SaveParty(s.ctx, s.newParty("ABC234"))

	err := s.storage.DeleteParty(s.ctx, "ABC234")
	s.Require().NoError(err)

	parties, err := s.storage.ListParties(s.ctx)
	s.Require().NoError(err)
	s.Empty(parties)
}

func (s *StorageSuite) TestListPartiesSkipsExpiredDocuments() {
	_ = s.storage.SaveParty(s.ctx, s.newParty("ABC234"))

	// Expire the document but leave the index entry behind
	s.mini.Del(partyKey("ABC234"))

	parties, err := s.storage.ListParties(s.ctx)
	s.Require().NoError(err)
	s.Empty(parties)
}

func (s *StorageSuite) TestCountParties() {
	_ = s.storage.SaveParty(s.ctx, s.newParty("ABC234"))
	host2 := &model.Player{ID: "host-2", Name: "Bob", IsConnected: true}
	_ = s.storage.SaveParty(s.ctx, model.NewParty("party-2", "XYZ789", host2, 1, time.Now().UTC()))

	count, err := s.storage.CountParties(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}

// Round-trip: deserialization must reconstruct every field needed to
// resume gameplay mid-round, including nested player records and the
// round-result history.
func (s *StorageSuite) TestPartyRoundTripPreservesGameplayState() {
	now := time.Now().UTC()
	host := &model.Player{ID: "host-1", Name: "Alice", IsConnected: true, ConnectionID: "conn-1"}
	party := model.NewParty("party-1", "ABC234", host, 3, now)
	guest := &model.Player{ID: "guest-1", Name: "Bob", IsConnected: true, ConnectionID: "conn-2", JoinedAt: now}
	s.Require().NoError(party.AddPlayer(guest, now))

	s.Require().NoError(party.StartSelection(host.ID, now))
	_, err := party.SetReady(host.ID, 10, now)
	s.Require().NoError(err)
	allReady, err := party.SetReady(guest.ID, 40, now)
	s.Require().NoError(err)
	s.Require().True(allReady)
	s.Require().NoError(party.BeginPlaying(now))

	// Host misses once, guest wins round one
	_, err = party.Guess(host.ID, 25, now)
	s.Require().NoError(err)
	outcome, err := party.Guess(guest.ID, 10, now)
	s.Require().NoError(err)
	s.Require().True(outcome.RoundOver)

	s.Require().NoError(s.storage.SaveParty(s.ctx, party))
	retrieved, err := s.storage.GetParty(s.ctx, "ABC234")
	s.Require().NoError(err)

	s.Equal(party.Code, retrieved.Code)
	s.Equal(party.Phase, retrieved.Phase)
	s.Equal(party.Status, retrieved.Status)
	s.Equal(party.HostID, retrieved.HostID)
	s.Equal(party.CurrentRound, retrieved.CurrentRound)

	for id, want := range party.Players {
		got := retrieved.GetPlayer(id)
		s.Require().NotNil(got, "player %s lost in round-trip", id)
		s.Equal(want.Name, got.Name)
		s.Equal(want.IsReady, got.IsReady)
		s.Equal(want.SecretNumber, got.SecretNumber)
		s.Equal(want.Attempts, got.Attempts)
		s.Equal(want.Wins, got.Wins)
		s.Equal(len(want.GuessHistory), len(got.GuessHistory))
		for i := range want.GuessHistory {
			s.Equal(want.GuessHistory[i].Guess, got.GuessHistory[i].Guess)
			s.Equal(want.GuessHistory[i].IsCorrect, got.GuessHistory[i].IsCorrect)
			s.Equal(want.GuessHistory[i].Difference, got.GuessHistory[i].Difference)
		}
	}

	s.Require().Len(retrieved.RoundResults, 1)
	s.Equal(party.RoundResults[0].WinnerID, retrieved.RoundResults[0].WinnerID)
	s.Equal(party.RoundResults[0].WinnerAttempts, retrieved.RoundResults[0].WinnerAttempts)
	s.Equal(party.RoundResults[0].Players, retrieved.RoundResults[0].Players)
}

// Mapping index tests

func (s *StorageSuite) TestPlayerIndex() {
	err := s.storage.MapPlayerToParty(s.ctx, "player-1", "ABC234")
	s.Require().NoError(err)

	code, err := s.storage.PartyCodeForPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(model.PartyCode("ABC234"), code)

	s.True(s.mini.TTL(playerIndexKey("player-1")) > 0)

	err = s.storage.UnmapPlayer(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.storage.PartyCodeForPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestConnectionIndex() {
	err := s.storage.MapConnectionToPlayer(s.ctx, "conn-1", "player-1")
	s.Require().NoError(err)

	playerID, err := s.storage.PlayerIDForConnection(s.ctx, "conn-1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), playerID)

	err = s.storage.UnmapConnection(s.ctx, "conn-1")
	s.Require().NoError(err)

	_, err = s.storage.PlayerIDForConnection(s.ctx, "conn-1")
	s.ErrorIs(err, model.ErrConnectionNotFound)
}
