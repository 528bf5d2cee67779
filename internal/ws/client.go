package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"numduel/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Conn is a single client connection as seen by the orchestrator.
// The concrete implementation owns the socket pumps; tests substitute
// an in-memory implementation.
type Conn interface {
	ID() model.ConnectionID
	Send(msg *ServerMessage) error
	Close() error
}

// Dispatcher consumes decoded client messages and connection lifecycle
// events. The session orchestrator implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, conn Conn, msg ClientMessage)
	ConnectionClosed(ctx context.Context, conn Conn)
}

// Client wraps a gorilla websocket connection with buffered write and
// ping/pong keepalive pumps.
type Client struct {
	id         model.ConnectionID
	conn       *websocket.Conn
	dispatcher Dispatcher
	send       chan []byte
	done       chan struct{}
	logger     *slog.Logger
	mu         sync.Mutex
	closed     bool
}

var _ Conn = (*Client)(nil)

// NewClient creates a client for an upgraded websocket connection
func NewClient(id model.ConnectionID, conn *websocket.Conn, dispatcher Dispatcher, logger *slog.Logger) *Client {
	return &Client{
		id:         id,
		conn:       conn,
		dispatcher: dispatcher,
		send:       make(chan []byte, sendBufferSize),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (c *Client) ID() model.ConnectionID {
	return c.id
}

// Send queues a message for delivery. If the client's buffer is full
// the message is dropped rather than blocking the caller.
func (c *Client) Send(msg *ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, message dropped", "connectionId", c.id)
		return nil
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps. It blocks until the
// connection drops, then notifies the dispatcher.
func (c *Client) Run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.Close()
		c.dispatcher.ConnectionClosed(ctx, c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "connectionId", c.id, "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.Send(NewServerMessage(MsgError, &ErrorPayload{
				Message: "invalid message format",
				Type:    ErrKindValidation,
			}))
			continue
		}

		c.dispatcher.Dispatch(ctx, c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			// Flush any queued messages into the same frame batch
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
