package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/skumerge/internal/server/response"
	"github.com/agentstation/skumerge/pkg/schema"
)

// resolveRequest is the body of POST /session/conflicts/{field}.
type resolveRequest struct {
	Source string `json:"source"`
}

// HandleListConflicts handles GET /api/v1/session/conflicts.
// With ?field=F the per-SKU conflicts of that field are returned.
func (h *Handlers) HandleListConflicts(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("field"); name != "" {
		field, err := schema.ParseField(name)
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		list, err := h.session.FieldConflicts(field)
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		response.OK(w, list)
		return
	}

	response.OK(w, map[string]any{
		"groups":     h.session.Conflicts(),
		"unresolved": h.session.UnresolvedCount(),
	})
}

// HandleResolveField handles POST /api/v1/session/conflicts/{field}.
func (h *Handlers) HandleResolveField(w http.ResponseWriter, r *http.Request) {
	field, err := schema.ParseField(r.PathValue("field"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}
	source, err := schema.ParseSourceSystem(req.Source)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	res, err := h.session.ResolveField(field, source)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{
		"resolution": res,
		"unresolved": h.session.UnresolvedCount(),
	})
}

// HandleAutoResolve handles POST /api/v1/session/conflicts/auto.
func (h *Handlers) HandleAutoResolve(w http.ResponseWriter, _ *http.Request) {
	res, err := h.session.ResolveAllByPriority()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{
		"resolutions": res,
		"unresolved":  h.session.UnresolvedCount(),
	})
}

// HandleProceed handles POST /api/v1/session/proceed.
func (h *Handlers) HandleProceed(w http.ResponseWriter, _ *http.Request) {
	if err := h.session.ProceedToConversion(); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	mapping, err := h.session.Mapping()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{
		"ready":   true,
		"mapping": mapping,
	})
}
