package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"dixit/internal/app"
)

// Handler upgrades HTTP requests to WebSocket connections. Room binding
// happens in-protocol via CREATE_ROOM / JOIN_ROOM / RECONNECT.
type Handler struct {
	hub      *app.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler.
func NewHandler(hub *app.Hub, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Origin validation is a deployment concern; the server
				// itself only guards on username possession.
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	h.logger.Debug("websocket connected", "remote", r.RemoteAddr)

	client := NewClient(conn, h.hub, h.logger)
	client.Run()
}
