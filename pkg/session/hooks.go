package session

import (
	"sync"

	"github.com/agentstation/utc"
)

// EventType names a session state change.
type EventType string

// Event types.
const (
	EventFilesLoaded         EventType = "files.loaded"
	EventMergeCompleted      EventType = "merge.completed"
	EventConflictResolved    EventType = "conflict.resolved"
	EventConversionReady     EventType = "conversion.ready"
	EventConversionCompleted EventType = "conversion.completed"
	EventSessionReset        EventType = "session.reset"
)

// Event is published after a command changes session state.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Timestamp utc.Time  `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// EventHook is called for every event. Hooks run after the command has
// released the session lock, so they may call back into the session.
type EventHook func(Event)

type hooks struct {
	mu      sync.RWMutex
	onEvent []EventHook
}

func (h *hooks) add(fn EventHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onEvent = append(h.onEvent, fn)
}

func (h *hooks) emit(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onEvent {
		fn(ev)
	}
}
