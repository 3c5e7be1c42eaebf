// Package server exposes one reconciliation session over HTTP, with
// real-time session events on WebSocket and SSE.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/agentstation/utc"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/skumerge/internal/appcontext"
	"github.com/agentstation/skumerge/internal/server/cache"
	"github.com/agentstation/skumerge/internal/server/events"
	"github.com/agentstation/skumerge/internal/server/events/adapters"
	"github.com/agentstation/skumerge/internal/server/sse"
	ws "github.com/agentstation/skumerge/internal/server/websocket"
	"github.com/agentstation/skumerge/pkg/session"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app            appcontext.Interface
	session        *session.Session
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	startTime      utc.Time
}

// New creates a server around a new session built from app.
func New(app appcontext.Interface, cfg Config, opts ...session.Option) (*Server, error) {
	logger := app.Logger()

	defaults := DefaultConfig()
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaults.CacheTTL
	}
	if cfg.MaxUploadSize == 0 {
		cfg.MaxUploadSize = defaults.MaxUploadSize
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = defaults.PathPrefix
	}

	sess, err := app.NewSession(opts...)
	if err != nil {
		return nil, err
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)
	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		app:            app,
		session:        sess,
		cache:          cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: utc.Now(),
	}

	s.connectHooks()

	logger.Debug().Str("session_id", sess.ID()).Msg("Server instance created")
	return s, nil
}

// connectHooks publishes every session event to the broker. Any state
// change other than a completed conversion invalidates the cached output.
func (s *Server) connectHooks() {
	s.session.OnEvent(func(ev session.Event) {
		switch ev.Type {
		case session.EventConversionCompleted:
		case session.EventSessionReset:
			s.cache.Clear()
		default:
			s.cache.Invalidate(ev.SessionID)
		}
		s.broker.Publish(events.FromSession(ev))
		s.logger.Debug().
			Str("event_type", string(ev.Type)).
			Str("session_id", ev.SessionID).
			Msg("Session event published")
	})
}

// Start starts background services (broker, WebSocket hub, SSE broadcaster).
func (s *Server) Start() {
	go s.broker.Run(s.ctx)
	go s.wsHub.Run(s.ctx)
	go s.sseBroadcaster.Run(s.ctx)
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops the background services.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	// The loops exit on their next select; give them a moment to close clients.
	select {
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown cut short")
	case <-time.After(100 * time.Millisecond):
		s.logger.Info().
			Dur("uptime", time.Since(s.startTime.Time)).
			Msg("Background services shut down")
	}
	return nil
}

// Session returns the served session.
func (s *Server) Session() *session.Session {
	return s.session
}

// Config returns the server configuration after defaults were applied.
func (s *Server) Config() Config {
	return s.config
}
