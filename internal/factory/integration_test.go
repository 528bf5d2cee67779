package factory

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"numduel/internal/model"
	"numduel/internal/services/party"
	"numduel/internal/ws"
)

// recordingConn is an in-memory ws.Conn capturing everything sent to it
type recordingConn struct {
	id     model.ConnectionID
	mu     sync.Mutex
	msgs   []*ws.ServerMessage
	closed bool
}

var _ ws.Conn = (*recordingConn)(nil)

func (c *recordingConn) ID() model.ConnectionID { return c.id }

func (c *recordingConn) Send(msg *ws.ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.msgs = append(c.msgs, msg)
	}
	return nil
}

func (c *recordingConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *recordingConn) last(t ws.MessageType) *ws.ServerMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.msgs) - 1; i >= 0; i-- {
		if c.msgs[i].Type == t {
			return c.msgs[i]
		}
	}
	return nil
}

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp(party.Config{MaxRounds: 2, InactivityTimeout: 10 * time.Minute})
	s.ctx = context.Background()
}

func (s *IntegrationSuite) dispatch(conn ws.Conn, msgType ws.MessageType, payload any) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		s.Require().NoError(err)
		raw = data
	}
	s.app.Orchestrator.Dispatch(s.ctx, conn, ws.ClientMessage{Type: msgType, Payload: raw})
}

func (s *IntegrationSuite) readyBoth(host, guest *recordingConn, hostSecret, guestSecret int) {
	s.dispatch(host, ws.MsgSetReady, ws.SetReadyPayload{SecretNumber: hostSecret})
	s.dispatch(guest, ws.MsgSetReady, ws.SetReadyPayload{SecretNumber: guestSecret})
}

// Test: a full two-round duel through wire dispatch, storage and summaries
func (s *IntegrationSuite) TestCompleteMatchFlow() {
	s.app.MockRandom.QueueString("DUEL42")

	host := &recordingConn{id: "conn-host"}
	guest := &recordingConn{id: "conn-guest"}

	// Lobby
	s.dispatch(host, ws.MsgCreateParty, ws.CreatePartyPayload{PlayerName: "Alice"})
	created := host.last(ws.MsgPartyCreated)
	s.Require().NotNil(created)
	hostID := created.Payload.(*ws.PersonalState).PlayerID

	s.dispatch(guest, ws.MsgJoinParty, ws.JoinPartyPayload{PartyCode: "DUEL42", PlayerName: "Bob"})
	joined := guest.last(ws.MsgPartyJoined)
	s.Require().NotNil(joined)
	guestID := joined.Payload.(*ws.PersonalState).PlayerID

	// Round 1: guest finds the host's 10 first try
	s.dispatch(host, ws.MsgStartGame, nil)
	s.readyBoth(host, guest, 10, 40)
	s.dispatch(guest, ws.MsgMakeGuess, ws.MakeGuessPayload{Guess: 10})

	ended := guest.last(ws.MsgRoundEnded)
	s.Require().NotNil(ended)
	round1 := ended.Payload.(*ws.RoundEndedPayload)
	s.Equal(guestID, round1.Summary.WinnerID)
	s.False(round1.MatchOver)

	// Round 2: host finds the guest's 80 after one miss
	s.dispatch(host, ws.MsgNextRound, nil)
	s.readyBoth(host, guest, 20, 80)
	s.dispatch(host, ws.MsgMakeGuess, ws.MakeGuessPayload{Guess: 50})
	s.dispatch(host, ws.MsgMakeGuess, ws.MakeGuessPayload{Guess: 80})

	ended = host.last(ws.MsgRoundEnded)
	s.Require().NotNil(ended)
	round2 := ended.Payload.(*ws.RoundEndedPayload)
	s.Equal(hostID, round2.Summary.WinnerID)
	s.Equal(2, round2.Summary.WinnerAttempts)
	s.True(round2.MatchOver)

	// One win each leaves the match without a winner
	s.Require().NotNil(round2.Match)
	s.Empty(string(round2.Match.WinnerID))
	s.Equal(2, round2.Match.RoundsPlayed)

	// Persisted state agrees with what went over the wire
	prty, err := s.app.PartyController.GetParty(s.ctx, "DUEL42")
	s.Require().NoError(err)
	s.Equal(model.PhaseFinished, prty.Phase)
	s.Equal(1, prty.GetPlayer(hostID).Wins)
	s.Equal(1, prty.GetPlayer(guestID).Wins)
	s.Equal(2, prty.GetPlayer(hostID).Stats.TotalGames)
	s.Equal(1, prty.GetPlayer(hostID).Stats.TotalWins)
}

// Test: rematch resets wins and results but keeps identities and stats
func (s *IntegrationSuite) TestRematchAfterFinishedMatch() {
	s.app.MockRandom.QueueString("DUEL42")

	host := &recordingConn{id: "conn-host"}
	guest := &recordingConn{id: "conn-guest"}

	s.dispatch(host, ws.MsgCreateParty, ws.CreatePartyPayload{PlayerName: "Alice"})
	s.dispatch(guest, ws.MsgJoinParty, ws.JoinPartyPayload{PartyCode: "DUEL42", PlayerName: "Bob"})

	s.dispatch(host, ws.MsgStartGame, nil)
	s.readyBoth(host, guest, 10, 40)
	s.dispatch(guest, ws.MsgMakeGuess, ws.MakeGuessPayload{Guess: 10})
	s.dispatch(host, ws.MsgNextRound, nil)
	s.readyBoth(host, guest, 20, 80)
	s.dispatch(host, ws.MsgMakeGuess, ws.MakeGuessPayload{Guess: 80})

	s.dispatch(host, ws.MsgRematch, nil)

	msg := guest.last(ws.MsgRematchStarted)
	s.Require().NotNil(msg)
	s.Equal(model.PhaseSelection, msg.Payload.(*ws.GameStartedPayload).Party.Phase)

	prty, err := s.app.PartyController.GetParty(s.ctx, "DUEL42")
	s.Require().NoError(err)
	s.Equal(1, prty.CurrentRound)
	s.Empty(prty.RoundResults)
	for _, pl := range prty.Players {
		s.Equal(0, pl.Wins)
		// Lifetime stats survive the rematch
		s.Equal(2, pl.Stats.TotalGames)
	}
}

// Test: a dropped player can resume mid-round with full history intact
func (s *IntegrationSuite) TestDisconnectAndResumeMidRound() {
	s.app.MockRandom.QueueString("DUEL42")

	host := &recordingConn{id: "conn-host"}
	guest := &recordingConn{id: "conn-guest"}

	s.dispatch(host, ws.MsgCreateParty, ws.CreatePartyPayload{PlayerName: "Alice"})
	hostID := host.last(ws.MsgPartyCreated).Payload.(*ws.PersonalState).PlayerID
	s.dispatch(guest, ws.MsgJoinParty, ws.JoinPartyPayload{PartyCode: "DUEL42", PlayerName: "Bob"})

	s.dispatch(host, ws.MsgStartGame, nil)
	s.readyBoth(host, guest, 10, 40)
	s.dispatch(host, ws.MsgMakeGuess, ws.MakeGuessPayload{Guess: 25})

	s.app.Orchestrator.ConnectionClosed(s.ctx, host)
	s.Require().NotNil(guest.last(ws.MsgPlayerDisconnected))

	fresh := &recordingConn{id: "conn-host-2"}
	s.dispatch(fresh, ws.MsgReconnectAttempt, ws.ReconnectPayload{
		PartyCode: "DUEL42",
		PlayerID:  string(hostID),
	})

	msg := fresh.last(ws.MsgReconnected)
	s.Require().NotNil(msg)
	state := msg.Payload.(*ws.PersonalState)
	s.Equal(10, state.SecretNumber)
	s.Equal(1, state.Attempts)
	s.Equal(model.PhasePlaying, state.Party.Phase)

	// The resumed connection can keep playing
	s.dispatch(fresh, ws.MsgMakeGuess, ws.MakeGuessPayload{Guess: 40})
	ended := fresh.last(ws.MsgRoundEnded)
	s.Require().NotNil(ended)
	s.Equal(hostID, ended.Payload.(*ws.RoundEndedPayload).Summary.WinnerID)
}
