package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/agentstation/skumerge/internal/server/events"
	ws "github.com/agentstation/skumerge/internal/server/websocket"
)

// HandleWebSocket handles WebSocket connections at /api/v1/updates/ws.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(uuid.NewString(), h.wsHub, conn)
	h.wsHub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	h.broker.Publish(events.Event{
		Type:      events.ClientConnected,
		SessionID: h.session.ID(),
		Data:      map[string]any{"client_id": client.ID(), "transport": "websocket"},
	})
}

// HandleSSE handles Server-Sent Events at /api/v1/updates/stream.
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	h.sseBroadcaster.ServeHTTP(w, r)
}
