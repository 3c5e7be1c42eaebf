package handlers

import (
	"net/http"

	"github.com/agentstation/skumerge/internal/server/response"
	"github.com/agentstation/skumerge/pkg/schema"
)

// HandleTemplates handles GET /api/v1/templates.
func (h *Handlers) HandleTemplates(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"templates": schema.Templates(),
		"default":   schema.DefaultMapping(),
	})
}

// HandleSchema handles GET /api/v1/schema.
func (h *Handlers) HandleSchema(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"sources": schema.KnownSources(),
		"fields":  h.session.Registry().Entries(),
	})
}
