package session

import (
	"context"
	"fmt"
	"time"

	"github.com/agentstation/skumerge/pkg/conflicts"
	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/logging"
	"github.com/agentstation/skumerge/pkg/normalize"
	"github.com/agentstation/skumerge/pkg/reconciler"
	"github.com/agentstation/skumerge/pkg/records"
	"github.com/agentstation/skumerge/pkg/schema"
	"github.com/agentstation/skumerge/pkg/validate"
)

// MergeSummary reports the outcome of RunMerge.
type MergeSummary struct {
	Stats      reconciler.Stats               `json:"stats" yaml:"stats"`
	Groups     []conflicts.FieldConflictGroup `json:"groups" yaml:"groups"`
	Unresolved int                            `json:"unresolved" yaml:"unresolved"`
	Validation *validate.Report               `json:"validation" yaml:"validation"`
	Strategy   string                         `json:"strategy" yaml:"strategy"`
	Duration   time.Duration                  `json:"duration" yaml:"duration"`
}

// RunMerge normalizes every loaded file, merges by SKU, detects conflicts
// and validates the result. The previous merge and its resolutions are
// discarded.
func (s *Session) RunMerge(ctx context.Context) (*MergeSummary, error) {
	var summary *MergeSummary
	err := s.run(func() (*Event, error) {
		if len(s.files) < s.minFiles {
			return nil, s.tooFewFiles("merge")
		}

		logger := s.log()
		ctx := logging.WithLogger(ctx, logger)

		recs := normalize.New(s.registry, normalize.WithLogger(logger)).NormalizeAll(s.files)

		opts := append([]reconciler.Option{
			reconciler.WithRegistry(s.registry),
			reconciler.WithLogger(logger),
		}, s.reconcilerOpts...)
		agg, err := reconciler.New(opts...)
		if err != nil {
			return nil, err
		}
		result, err := agg.Merge(ctx, recs)
		if err != nil {
			return nil, err
		}

		ledger := conflicts.NewDetector(conflicts.WithRegistry(s.registry), conflicts.WithLogger(logger)).Detect(result.Records)
		result.Stats.Conflicts = ledger.Total()

		s.clearMerge()
		s.result = result
		s.ledger = ledger
		s.resolver = conflicts.NewResolver(ledger, result.Provenance, conflicts.WithRegistry(s.registry), conflicts.WithLogger(logger))
		s.validation = validate.Validate(result)

		summary = &MergeSummary{
			Stats:      result.Stats,
			Groups:     ledger.Groups(),
			Unresolved: ledger.Unresolved(),
			Validation: s.validation,
			Strategy:   agg.Strategy().Type().String(),
			Duration:   result.Metadata.Duration,
		}
		return &Event{Type: EventMergeCompleted, Data: summary}, nil
	})
	return summary, err
}

func (s *Session) requireMerge(action string) error {
	if s.result == nil {
		return errors.NewPreconditionError(action, "No merged data. Run the merge first.")
	}
	return nil
}

// Stats returns the statistics of the current merge.
func (s *Session) Stats() (reconciler.Stats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return reconciler.Stats{}, false
	}
	return s.result.Stats, true
}

// Validation returns the validation report of the current merge, or nil.
func (s *Session) Validation() *validate.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validation
}

// Records returns copies of the merged records in merge order.
func (s *Session) Records() []*records.MergedRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	out := make([]*records.MergedRecord, 0, len(s.result.Records))
	for _, r := range s.result.Records {
		out = append(out, r.Clone())
	}
	return out
}

// Conflicts returns one group per conflicting field, in canonical order.
func (s *Session) Conflicts() []conflicts.FieldConflictGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ledger == nil {
		return nil
	}
	return s.ledger.Groups()
}

// FieldConflicts returns copies of the per-record conflicts on field.
func (s *Session) FieldConflicts(field schema.CanonicalField) ([]conflicts.FieldConflict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireMerge("conflicts"); err != nil {
		return nil, err
	}
	members := s.ledger.ByField(field)
	if len(members) == 0 {
		return nil, errors.NewNotFoundError("conflict on field", field.String())
	}
	out := make([]conflicts.FieldConflict, 0, len(members))
	for _, c := range members {
		out = append(out, *c)
	}
	return out, nil
}

// UnresolvedCount is the live number of unresolved conflicts.
func (s *Session) UnresolvedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ledger == nil {
		return 0
	}
	return s.ledger.Unresolved()
}

// ResolveField applies the operator's source choice to every conflict on field.
func (s *Session) ResolveField(field schema.CanonicalField, source schema.SourceSystem) (conflicts.Resolution, error) {
	var res conflicts.Resolution
	err := s.run(func() (*Event, error) {
		if err := s.requireMerge("resolve"); err != nil {
			return nil, err
		}
		r, err := s.resolver.ResolveField(field, source)
		if err != nil {
			return nil, err
		}
		res = r
		s.output = nil
		return &Event{Type: EventConflictResolved, Data: map[string]any{
			"resolution": r,
			"unresolved": s.ledger.Unresolved(),
		}}, nil
	})
	return res, err
}

// ResolveAllByPriority resolves every unresolved field with its preferred source.
func (s *Session) ResolveAllByPriority() ([]conflicts.Resolution, error) {
	var out []conflicts.Resolution
	err := s.run(func() (*Event, error) {
		if err := s.requireMerge("resolve"); err != nil {
			return nil, err
		}
		r, err := s.resolver.ResolveAllByPriority()
		if err != nil {
			return nil, err
		}
		out = r
		if len(r) == 0 {
			return nil, nil
		}
		s.output = nil
		return &Event{Type: EventConflictResolved, Data: map[string]any{
			"resolutions": r,
			"unresolved":  s.ledger.Unresolved(),
		}}, nil
	})
	return out, err
}

// ProceedToConversion unlocks conversion once every conflict is resolved.
func (s *Session) ProceedToConversion() error {
	return s.run(func() (*Event, error) {
		if s.result == nil || len(s.result.Records) == 0 {
			return nil, errors.NewPreconditionError("proceed", "No data to convert")
		}
		if n := s.ledger.Unresolved(); n > 0 {
			return nil, unresolvedError("proceed", n)
		}
		mapping, err := s.opts.EffectiveMapping()
		if err != nil {
			return nil, err
		}
		s.ready = true

		s.log().Info().Int("products", len(s.result.Records)).Msg("Ready for conversion")
		return &Event{Type: EventConversionReady, Data: map[string]any{
			"products": len(s.result.Records),
			"mapping":  mapping,
		}}, nil
	})
}

func unresolvedError(action string, n int) error {
	return errors.NewPreconditionError(action, fmt.Sprintf("Please resolve all %d remaining conflicts before proceeding.", n))
}
