package handlers

import (
	"net/http"

	"github.com/agentstation/skumerge/internal/server/response"
)

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":            "healthy",
		"service":           "skumerge-api",
		"version":           h.version,
		"session_id":        h.session.ID(),
		"cached_artifacts":  h.cache.ItemCount(),
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
	})
}
