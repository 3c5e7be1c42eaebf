package session

import (
	"github.com/agentstation/skumerge/pkg/conflicts"
	"github.com/agentstation/skumerge/pkg/reconciler"
	"github.com/agentstation/skumerge/pkg/schema"
	"github.com/agentstation/skumerge/pkg/transform"
)

// State is a read-only view of a session.
type State struct {
	ID         string                           `json:"id" yaml:"id"`
	Stage      Stage                            `json:"stage" yaml:"stage"`
	MinFiles   int                              `json:"min_files" yaml:"min_files"`
	Files      []FileInfo                       `json:"files" yaml:"files"`
	Stats      *reconciler.Stats                `json:"stats,omitempty" yaml:"stats,omitempty"`
	Conflicts  []conflicts.FieldConflictGroup   `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Unresolved int                              `json:"unresolved" yaml:"unresolved"`
	Ready      bool                             `json:"ready" yaml:"ready"`
	Options    transform.Options                `json:"options" yaml:"options"`
	Mapping    map[string]schema.CanonicalField `json:"mapping,omitempty" yaml:"mapping,omitempty"`
	OutputRows int                              `json:"output_rows" yaml:"output_rows"`
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		ID:       s.id,
		Stage:    s.stage(),
		MinFiles: s.minFiles,
		Files:    s.fileInfos(),
		Ready:    s.ready,
		Options:  s.opts.Clone(),
	}
	st.Mapping, _ = s.opts.EffectiveMapping()
	if s.result != nil {
		stats := s.result.Stats
		st.Stats = &stats
		st.Conflicts = s.ledger.Groups()
		st.Unresolved = s.ledger.Unresolved()
	}
	if s.output != nil {
		st.OutputRows = s.output.Len()
	}
	return st
}
