// Package handlers provides the HTTP handlers of the session API.
package handlers

import (
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/skumerge/internal/server/cache"
	"github.com/agentstation/skumerge/internal/server/events"
	"github.com/agentstation/skumerge/internal/server/sse"
	ws "github.com/agentstation/skumerge/internal/server/websocket"
	"github.com/agentstation/skumerge/pkg/session"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	session        *session.Session
	version        string
	maxUploadSize  int64
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
}

// Config carries the handler dependencies.
type Config struct {
	Session        *session.Session
	Version        string
	MaxUploadSize  int64
	Cache          *cache.Cache
	Broker         *events.Broker
	WSHub          *ws.Hub
	SSEBroadcaster *sse.Broadcaster
	Upgrader       websocket.Upgrader
	Logger         *zerolog.Logger
}

// New creates a new Handlers instance.
func New(cfg Config) *Handlers {
	return &Handlers{
		session:        cfg.Session,
		version:        cfg.Version,
		maxUploadSize:  cfg.MaxUploadSize,
		cache:          cfg.Cache,
		broker:         cfg.Broker,
		wsHub:          cfg.WSHub,
		sseBroadcaster: cfg.SSEBroadcaster,
		upgrader:       cfg.Upgrader,
		logger:         cfg.Logger,
	}
}
