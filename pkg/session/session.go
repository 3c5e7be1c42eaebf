// Package session holds one operator's reconciliation state and exposes it
// as a set of commands: load files, merge, resolve conflicts, proceed,
// configure and convert. Commands are serialized by the session lock. A
// command whose precondition fails returns an *errors.PreconditionError
// and leaves the session unchanged.
package session

import (
	"sync"

	"github.com/agentstation/utc"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/skumerge/pkg/conflicts"
	"github.com/agentstation/skumerge/pkg/constants"
	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/intake"
	"github.com/agentstation/skumerge/pkg/logging"
	"github.com/agentstation/skumerge/pkg/reconciler"
	"github.com/agentstation/skumerge/pkg/schema"
	"github.com/agentstation/skumerge/pkg/transform"
	"github.com/agentstation/skumerge/pkg/validate"
)

// Stage is the coarse position of a session in the workflow.
type Stage string

// Stages.
const (
	StageEmpty     Stage = "empty"
	StageLoaded    Stage = "loaded"
	StageMerged    Stage = "merged"
	StageReady     Stage = "ready"
	StageConverted Stage = "converted"
)

// Session is the explicit owner of all reconciliation state.
type Session struct {
	mu sync.Mutex

	id             string
	registry       *schema.Registry
	logger         *zerolog.Logger
	minFiles       int
	clock          func() utc.Time
	defaults       transform.Options
	reconcilerOpts []reconciler.Option
	hooks          *hooks

	files      []*intake.File
	result     *reconciler.Result
	ledger     *conflicts.Ledger
	resolver   *conflicts.Resolver
	validation *validate.Report
	ready      bool
	opts       transform.Options
	output     *transform.Output
	outputAt   utc.Time
}

// Option configures a Session.
type Option func(*Session) error

// WithRegistry sets the schema registry.
func WithRegistry(registry *schema.Registry) Option {
	return func(s *Session) error {
		if registry == nil {
			return errors.NewValidationError("registry", nil, "cannot be nil")
		}
		s.registry = registry
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Session) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// WithMinFiles sets how many files loading and merging require.
func WithMinFiles(n int) Option {
	return func(s *Session) error {
		if n < 1 {
			return errors.NewValidationError("min_files", n, "must be at least 1")
		}
		s.minFiles = n
		return nil
	}
}

// WithTransformOptions sets the conversion options a new or reset session starts with.
func WithTransformOptions(opts transform.Options) Option {
	return func(s *Session) error {
		if err := opts.Validate(); err != nil {
			return err
		}
		s.defaults = opts.Clone()
		return nil
	}
}

// WithReconcilerOptions passes options to the aggregator used by RunMerge.
func WithReconcilerOptions(opts ...reconciler.Option) Option {
	return func(s *Session) error {
		s.reconcilerOpts = append(s.reconcilerOpts, opts...)
		return nil
	}
}

// WithClock sets the time source used for events and file names.
func WithClock(clock func() utc.Time) Option {
	return func(s *Session) error {
		if clock != nil {
			s.clock = clock
		}
		return nil
	}
}

// New creates an empty session.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		id:       uuid.NewString(),
		registry: schema.Default(),
		logger:   logging.Default(),
		minFiles: constants.MinSourceFiles,
		clock:    utc.Now,
		defaults: transform.DefaultOptions(),
		hooks:    &hooks{},
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.opts = s.defaults.Clone()
	return s, nil
}

// ID returns the session identifier. It changes on Reset.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// MinFiles returns the number of files loading and merging require.
func (s *Session) MinFiles() int {
	return s.minFiles
}

// Registry returns the schema registry in use.
func (s *Session) Registry() *schema.Registry {
	return s.registry
}

// OnEvent registers a hook called after every state change.
func (s *Session) OnEvent(fn EventHook) {
	s.hooks.add(fn)
}

// run executes fn under the session lock and publishes the event it
// returns once the lock is released.
func (s *Session) run(fn func() (*Event, error)) error {
	s.mu.Lock()
	ev, err := fn()
	if ev != nil {
		ev.SessionID = s.id
		ev.Timestamp = s.clock()
	}
	s.mu.Unlock()

	if err == nil && ev != nil {
		s.hooks.emit(*ev)
	}
	return err
}

func (s *Session) log() *zerolog.Logger {
	l := s.logger.With().Str("session_id", s.id).Logger()
	return &l
}

// clearMerge drops everything derived from the current file set.
func (s *Session) clearMerge() {
	s.result = nil
	s.ledger = nil
	s.resolver = nil
	s.validation = nil
	s.ready = false
	s.output = nil
	s.outputAt = utc.Time{}
}

func (s *Session) stage() Stage {
	switch {
	case s.output != nil:
		return StageConverted
	case s.ready:
		return StageReady
	case s.result != nil:
		return StageMerged
	case len(s.files) > 0:
		return StageLoaded
	default:
		return StageEmpty
	}
}

// Reset clears all state, restores default options and assigns a new ID.
func (s *Session) Reset() {
	_ = s.run(func() (*Event, error) {
		old := s.id
		s.files = nil
		s.clearMerge()
		s.opts = s.defaults.Clone()
		s.id = uuid.NewString()
		s.log().Info().Str("previous_session_id", old).Msg("Session reset")
		return &Event{Type: EventSessionReset, Data: map[string]string{"previous_session_id": old}}, nil
	})
}
