package server

import (
	"net/http"

	"github.com/agentstation/skumerge/internal/server/handlers"
	"github.com/agentstation/skumerge/internal/server/middleware"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(handlers.Config{
		Session:        s.session,
		Version:        s.app.Version(),
		MaxUploadSize:  s.config.MaxUploadSize,
		Cache:          s.cache,
		Broker:         s.broker,
		WSHub:          s.wsHub,
		SSEBroadcaster: s.sseBroadcaster,
		Upgrader:       s.upgrader,
		Logger:         s.logger,
	})

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	p := s.config.PathPrefix

	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET "+p+"/health", h.HandleHealth)
	mux.HandleFunc("GET "+p+"/openapi.json", h.HandleOpenAPIJSON)
	mux.HandleFunc("GET "+p+"/openapi.yaml", h.HandleOpenAPIYAML)

	// Session
	mux.HandleFunc("GET "+p+"/session", h.HandleGetSession)
	mux.HandleFunc("POST "+p+"/session/reset", h.HandleReset)
	mux.HandleFunc("POST "+p+"/session/files", h.HandleUpload)
	mux.HandleFunc("DELETE "+p+"/session/files/{name}", h.HandleRemoveFile)
	mux.HandleFunc("POST "+p+"/session/merge", h.HandleMerge)

	// Conflicts
	mux.HandleFunc("GET "+p+"/session/conflicts", h.HandleListConflicts)
	mux.HandleFunc("POST "+p+"/session/conflicts/auto", h.HandleAutoResolve)
	mux.HandleFunc("POST "+p+"/session/conflicts/{field}", h.HandleResolveField)
	mux.HandleFunc("POST "+p+"/session/proceed", h.HandleProceed)

	// Conversion
	mux.HandleFunc("GET "+p+"/session/options", h.HandleGetOptions)
	mux.HandleFunc("PUT "+p+"/session/options", h.HandlePutOptions)
	mux.HandleFunc("POST "+p+"/session/convert", h.HandleConvert)
	mux.HandleFunc("GET "+p+"/session/download", h.HandleDownload)
	mux.HandleFunc("GET "+p+"/session/report", h.HandleReport)

	// Reference
	mux.HandleFunc("GET "+p+"/templates", h.HandleTemplates)
	mux.HandleFunc("GET "+p+"/schema", h.HandleSchema)

	// Real-time
	mux.HandleFunc("GET "+p+"/updates/ws", h.HandleWebSocket)
	mux.HandleFunc("GET "+p+"/updates/stream", h.HandleSSE)
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	return middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	)(handler)
}
