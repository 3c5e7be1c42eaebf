// Package events fans session events out to the real-time transports
// (WebSocket and SSE) through a single broker.
package events

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/skumerge/pkg/session"
)

// EventType represents the type of session event.
type EventType string

// Event types. Session events keep the names the session publishes.
const (
	FilesLoaded         = EventType(session.EventFilesLoaded)
	MergeCompleted      = EventType(session.EventMergeCompleted)
	ConflictResolved    = EventType(session.EventConflictResolved)
	ConversionReady     = EventType(session.EventConversionReady)
	ConversionCompleted = EventType(session.EventConversionCompleted)
	SessionReset        = EventType(session.EventSessionReset)

	// OptionsUpdated is published by the server when conversion options change.
	OptionsUpdated EventType = "options.updated"

	// ClientConnected is published by the transport layers.
	ClientConnected EventType = "client.connected"
)

// Event represents a session event with type, timestamp, and data.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	Timestamp utc.Time  `json:"timestamp"`
	Data      any       `json:"data"`
}

// FromSession converts a session event.
func FromSession(ev session.Event) Event {
	return Event{
		Type:      EventType(ev.Type),
		SessionID: ev.SessionID,
		Timestamp: ev.Timestamp,
		Data:      ev.Data,
	}
}
