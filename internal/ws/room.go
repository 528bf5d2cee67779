package ws

import (
	"log/slog"
	"sync"

	"numduel/internal/model"
)

// Room tracks the live connections for a single party, keyed by player.
// A player has at most one live connection; binding a new connection for
// a player replaces the old one.
type Room struct {
	code   model.PartyCode
	conns  map[model.PlayerID]Conn
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewRoom creates a room for a party
func NewRoom(code model.PartyCode, logger *slog.Logger) *Room {
	return &Room{
		code:   code,
		conns:  make(map[model.PlayerID]Conn),
		logger: logger.With(slog.String("party", string(code))),
	}
}

// Bind associates a connection with a player, replacing any prior one
func (r *Room) Bind(playerID model.PlayerID, conn Conn) {
	r.mu.Lock()
	prev, had := r.conns[playerID]
	r.conns[playerID] = conn
	r.mu.Unlock()

	if had && prev.ID() != conn.ID() {
		prev.Close()
	}
	r.logger.Debug("connection bound",
		slog.String("player_id", string(playerID)),
		slog.String("connection_id", string(conn.ID())))
}

// Unbind removes a player's connection if it is still the given one.
// Returns true if a binding was removed.
func (r *Room) Unbind(playerID model.PlayerID, connID model.ConnectionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[playerID]
	if !ok || conn.ID() != connID {
		return false
	}
	delete(r.conns, playerID)
	return true
}

// Get returns the live connection for a player, if any
func (r *Room) Get(playerID model.PlayerID) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[playerID]
	return conn, ok
}

// Size returns the number of live connections
func (r *Room) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Broadcast sends a message to every live connection in the room
func (r *Room) Broadcast(msg *ServerMessage) {
	r.mu.RLock()
	conns := make([]Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	r.mu.RUnlock()

	for _, c := range conns {
		if err := c.Send(msg); err != nil {
			r.logger.Warn("broadcast send failed",
				slog.String("connection_id", string(c.ID())),
				slog.String("error", err.Error()))
		}
	}
}

// SendTo sends a message to a single player if they are connected
func (r *Room) SendTo(playerID model.PlayerID, msg *ServerMessage) {
	r.mu.RLock()
	conn, ok := r.conns[playerID]
	r.mu.RUnlock()

	if !ok {
		return
	}
	if err := conn.Send(msg); err != nil {
		r.logger.Warn("send failed",
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()))
	}
}

// BroadcastExcept sends a message to everyone in the room except one player
func (r *Room) BroadcastExcept(exclude model.PlayerID, msg *ServerMessage) {
	r.mu.RLock()
	conns := make([]Conn, 0, len(r.conns))
	for id, c := range r.conns {
		if id == exclude {
			continue
		}
		conns = append(conns, c)
	}
	r.mu.RUnlock()

	for _, c := range conns {
		if err := c.Send(msg); err != nil {
			r.logger.Warn("broadcast send failed",
				slog.String("connection_id", string(c.ID())),
				slog.String("error", err.Error()))
		}
	}
}

// CloseAll closes every connection in the room and clears it
func (r *Room) CloseAll() {
	r.mu.Lock()
	conns := make([]Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	r.conns = make(map[model.PlayerID]Conn)
	r.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}

// RoomManager tracks rooms for all active parties
type RoomManager struct {
	rooms  map[model.PartyCode]*Room
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewRoomManager creates a RoomManager
func NewRoomManager(logger *slog.Logger) *RoomManager {
	return &RoomManager{
		rooms:  make(map[model.PartyCode]*Room),
		logger: logger,
	}
}

// GetOrCreate returns the room for a party, creating it if needed
func (m *RoomManager) GetOrCreate(code model.PartyCode) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[code]
	if !ok {
		room = NewRoom(code, m.logger)
		m.rooms[code] = room
	}
	return room
}

// Get returns the room for a party, if one exists
func (m *RoomManager) Get(code model.PartyCode) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[code]
	return room, ok
}

// Remove closes a party's room and removes it from the manager
func (m *RoomManager) Remove(code model.PartyCode) {
	m.mu.Lock()
	room, ok := m.rooms[code]
	delete(m.rooms, code)
	m.mu.Unlock()

	if ok {
		room.CloseAll()
	}
}

// Count returns the number of active rooms
func (m *RoomManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}
