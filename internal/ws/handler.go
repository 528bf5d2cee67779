package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"numduel/internal/model"
)

// Handler upgrades HTTP requests to WebSocket sessions. Party membership
// is established over the socket itself (create_party, join_party or
// reconnect_attempt), so the upgrade carries no routing state.
type Handler struct {
	dispatcher Dispatcher
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewHandler creates a WebSocket handler
func NewHandler(dispatcher Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Game clients are served from arbitrary origins
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	connID := model.ConnectionID(uuid.New().String())
	client := NewClient(connID, conn, h.dispatcher, h.logger)

	h.logger.Info("websocket connected",
		slog.String("connection_id", string(connID)),
		slog.String("remote_addr", r.RemoteAddr))

	client.Run(r.Context())
}
