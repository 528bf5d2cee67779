package ws

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"numduel/internal/model"
	"numduel/internal/testutil"
)

type RoomSuite struct {
	suite.Suite
	manager *RoomManager
}

func TestRoomSuite(t *testing.T) {
	suite.Run(t, new(RoomSuite))
}

func (s *RoomSuite) SetupTest() {
	s.manager = NewRoomManager(testutil.NopLogger())
}

func (s *RoomSuite) TestGetOrCreateReturnsSameRoom() {
	a := s.manager.GetOrCreate("AB23CD")
	b := s.manager.GetOrCreate("AB23CD")
	s.Same(a, b)
	s.Equal(1, s.manager.Count())
}

func (s *RoomSuite) TestBindReplacesAndClosesPrevious() {
	room := s.manager.GetOrCreate("AB23CD")
	old := newFakeConn("conn-1")
	fresh := newFakeConn("conn-2")

	room.Bind("player-1", old)
	room.Bind("player-1", fresh)

	s.True(old.isClosed())
	s.False(fresh.isClosed())

	got, ok := room.Get("player-1")
	s.True(ok)
	s.Equal(model.ConnectionID("conn-2"), got.ID())
	s.Equal(1, room.Size())
}

func (s *RoomSuite) TestUnbindOnlyRemovesMatchingConnection() {
	room := s.manager.GetOrCreate("AB23CD")
	conn := newFakeConn("conn-1")
	room.Bind("player-1", conn)

	// A stale connection id must not evict the live binding
	s.False(room.Unbind("player-1", "conn-0"))
	s.Equal(1, room.Size())

	s.True(room.Unbind("player-1", "conn-1"))
	s.Equal(0, room.Size())
}

func (s *RoomSuite) TestBroadcastReachesAllConnections() {
	room := s.manager.GetOrCreate("AB23CD")
	one := newFakeConn("conn-1")
	two := newFakeConn("conn-2")
	room.Bind("player-1", one)
	room.Bind("player-2", two)

	room.Broadcast(NewServerMessage(MsgSelectionTimer, &SelectionTimerPayload{TimeLeft: 5}))

	s.Equal(1, one.countOfType(MsgSelectionTimer))
	s.Equal(1, two.countOfType(MsgSelectionTimer))
}

func (s *RoomSuite) TestBroadcastExceptSkipsSender() {
	room := s.manager.GetOrCreate("AB23CD")
	one := newFakeConn("conn-1")
	two := newFakeConn("conn-2")
	room.Bind("player-1", one)
	room.Bind("player-2", two)

	room.BroadcastExcept("player-1", NewServerMessage(MsgOpponentTyping, nil))

	s.Equal(0, one.countOfType(MsgOpponentTyping))
	s.Equal(1, two.countOfType(MsgOpponentTyping))
}

func (s *RoomSuite) TestSendToUnknownPlayerIsNoop() {
	room := s.manager.GetOrCreate("AB23CD")
	room.SendTo("player-9", NewServerMessage(MsgSelectionTimer, nil))
	s.Equal(0, room.Size())
}

func (s *RoomSuite) TestRemoveClosesAllConnections() {
	room := s.manager.GetOrCreate("AB23CD")
	one := newFakeConn("conn-1")
	two := newFakeConn("conn-2")
	room.Bind("player-1", one)
	room.Bind("player-2", two)

	s.manager.Remove("AB23CD")

	s.True(one.isClosed())
	s.True(two.isClosed())
	s.Equal(0, s.manager.Count())

	_, ok := s.manager.Get("AB23CD")
	s.False(ok)
}
