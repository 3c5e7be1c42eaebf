package handlers

import (
	"io"
	"net/http"

	"github.com/agentstation/skumerge/internal/server/response"
	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/intake"
	"github.com/agentstation/skumerge/pkg/logging"
)

// HandleGetSession handles GET /api/v1/session.
func (h *Handlers) HandleGetSession(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, h.session.Snapshot())
}

// HandleReset handles POST /api/v1/session/reset.
func (h *Handlers) HandleReset(w http.ResponseWriter, _ *http.Request) {
	h.session.Reset()
	h.cache.Clear()
	response.OK(w, h.session.Snapshot())
}

// HandleUpload handles POST /api/v1/session/files.
//
// The multipart field "files" carries the CSV exports. By default they
// replace the loaded set; with ?append=true each file is added to it, and
// a file with the same name is replaced.
func (h *Handlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.PayloadTooLarge(w, err.Error())
			return
		}
		response.BadRequest(w, "Invalid multipart upload", err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		response.BadRequest(w, "No files uploaded", `use the multipart field "files"`)
		return
	}

	inputs := make([]intake.Input, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(w, "Unreadable upload", fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			response.BadRequest(w, "Unreadable upload", fh.Filename)
			return
		}
		inputs = append(inputs, intake.OpenBytes(fh.Filename, data))
	}

	ctx := r.Context()
	if r.URL.Query().Get("append") != "true" {
		summary, err := h.session.LoadFiles(ctx, inputs)
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		response.OK(w, summary)
		return
	}

	for _, in := range inputs {
		if _, err := h.session.AddFile(ctx, in); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("file", in.Name).Msg("Upload rejected")
			response.ErrorFromType(w, err)
			return
		}
	}
	response.OK(w, map[string]any{"files": h.session.Files()})
}

// HandleRemoveFile handles DELETE /api/v1/session/files/{name}.
func (h *Handlers) HandleRemoveFile(w http.ResponseWriter, r *http.Request) {
	if err := h.session.RemoveFile(r.PathValue("name")); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{"files": h.session.Files()})
}

// HandleMerge handles POST /api/v1/session/merge.
func (h *Handlers) HandleMerge(w http.ResponseWriter, r *http.Request) {
	summary, err := h.session.RunMerge(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, summary)
}
