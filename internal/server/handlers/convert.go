package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/agentstation/utc"

	"github.com/agentstation/skumerge/internal/server/cache"
	"github.com/agentstation/skumerge/internal/server/events"
	"github.com/agentstation/skumerge/internal/server/response"
	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/schema"
	"github.com/agentstation/skumerge/pkg/transform"
)

// optionsRequest is the body of PUT /session/options. Absent fields are
// left unchanged. A mapping value of "" feeds the column from defaults only.
type optionsRequest struct {
	Template           *string           `json:"template"`
	Mapping            map[string]string `json:"mapping"`
	Disabled           map[string]bool   `json:"disabled"`
	CleanHTML          *bool             `json:"clean_html"`
	NormalizePrices    *bool             `json:"normalize_prices"`
	ConvertGramWeights *bool             `json:"convert_gram_weights"`
	DefaultType        *string           `json:"default_type"`
	DefaultCategory    *string           `json:"default_category"`
}

// edit validates the request and returns the options edit it describes.
func (req optionsRequest) edit() (func(*transform.Options), error) {
	mapping := make(map[string]schema.CanonicalField, len(req.Mapping))
	for out, name := range req.Mapping {
		if !schema.IsOutputField(out) {
			return nil, errors.NewValidationError("output_field", out, "not a column of any template")
		}
		var field schema.CanonicalField
		if name != "" {
			f, err := schema.ParseField(name)
			if err != nil {
				return nil, err
			}
			field = f
		}
		mapping[out] = field
	}
	for out := range req.Disabled {
		if !schema.IsOutputField(out) {
			return nil, errors.NewValidationError("output_field", out, "not a column of any template")
		}
	}

	return func(o *transform.Options) {
		if req.Template != nil {
			o.Template = *req.Template
		}
		for out, field := range mapping {
			if o.Mapping == nil {
				o.Mapping = make(map[string]schema.CanonicalField)
			}
			o.Mapping[out] = field
		}
		for out, disabled := range req.Disabled {
			if o.Disabled == nil {
				o.Disabled = make(map[string]bool)
			}
			if disabled {
				o.Disabled[out] = true
			} else {
				delete(o.Disabled, out)
			}
		}
		if req.CleanHTML != nil {
			o.CleanHTML = *req.CleanHTML
		}
		if req.NormalizePrices != nil {
			o.NormalizePrices = *req.NormalizePrices
		}
		if req.ConvertGramWeights != nil {
			o.ConvertGramWeights = *req.ConvertGramWeights
		}
		if req.DefaultType != nil {
			o.DefaultType = *req.DefaultType
		}
		if req.DefaultCategory != nil {
			o.DefaultCategory = *req.DefaultCategory
		}
	}, nil
}

func (h *Handlers) optionsView() (map[string]any, error) {
	opts := h.session.Options()
	mapping, err := opts.EffectiveMapping()
	if err != nil {
		return nil, err
	}
	headers, err := opts.Headers()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"options": opts,
		"mapping": mapping,
		"headers": headers,
	}, nil
}

// HandleGetOptions handles GET /api/v1/session/options.
func (h *Handlers) HandleGetOptions(w http.ResponseWriter, _ *http.Request) {
	view, err := h.optionsView()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, view)
}

// HandlePutOptions handles PUT /api/v1/session/options.
func (h *Handlers) HandlePutOptions(w http.ResponseWriter, r *http.Request) {
	var req optionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}
	edit, err := req.edit()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if err := h.session.SetOptions(edit); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	h.cache.Invalidate(h.session.ID())

	view, err := h.optionsView()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	h.broker.Publish(events.Event{Type: events.OptionsUpdated, SessionID: h.session.ID(), Data: view})
	response.OK(w, view)
}

// HandleConvert handles POST /api/v1/session/convert.
func (h *Handlers) HandleConvert(w http.ResponseWriter, r *http.Request) {
	summary, err := h.session.Convert(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if _, err := h.render(); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, summary)
}

// render writes the current output to the artifact cache.
func (h *Handlers) render() (cache.Artifact, error) {
	var buf bytes.Buffer
	name, err := h.session.Download(&buf)
	if err != nil {
		return cache.Artifact{}, err
	}
	a := cache.Artifact{Filename: name, Data: buf.Bytes(), Created: utc.Now()}
	h.cache.Put(h.session.ID(), a)
	return a, nil
}

// HandleDownload handles GET /api/v1/session/download.
func (h *Handlers) HandleDownload(w http.ResponseWriter, _ *http.Request) {
	a, ok := h.cache.Get(h.session.ID())
	if !ok {
		var err error
		if a, err = h.render(); err != nil {
			response.ErrorFromType(w, err)
			return
		}
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+a.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}

// HandleReport handles GET /api/v1/session/report.
func (h *Handlers) HandleReport(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := h.session.Report(&buf); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
