package conflicts

import (
	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/provenance"
	"github.com/agentstation/skumerge/pkg/schema"
)

// Resolution reports the effect of one ResolveField call.
type Resolution struct {
	Field           schema.CanonicalField `json:"field" yaml:"field"`
	RequestedSource schema.SourceSystem   `json:"requested_source" yaml:"requested_source"`
	Applied         int                   `json:"applied" yaml:"applied"`
	Fallbacks       []string              `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty"` // SKUs that used another source
}

// Resolver applies operator decisions to a ledger.
type Resolver struct {
	*config
	ledger  *Ledger
	tracker provenance.Tracker
}

// NewResolver creates a Resolver over ledger. Value changes are recorded in
// tracker, which may be nil.
func NewResolver(ledger *Ledger, tracker provenance.Tracker, opts ...Option) *Resolver {
	if tracker == nil {
		tracker = provenance.NewTracker(false)
	}
	return &Resolver{
		config:  newConfig(opts),
		ledger:  ledger,
		tracker: tracker,
	}
}

// ResolveField applies chosen to every conflict on field, resolved or not.
// Where chosen offers no value for a record the first offered value is used
// instead and the record's provenance names the source actually used.
// Calling it again with the same arguments leaves records unchanged.
func (r *Resolver) ResolveField(field schema.CanonicalField, chosen schema.SourceSystem) (Resolution, error) {
	if !chosen.IsKnown() {
		return Resolution{}, errors.NewValidationError("source", chosen, "must be one of shopify, cin7, zoho")
	}
	members := r.ledger.byField[field]
	if len(members) == 0 {
		return Resolution{}, errors.NewNotFoundError("conflict on field", field.String())
	}

	res := Resolution{Field: field, RequestedSource: chosen}
	for _, c := range members {
		pick, reason := c.Values[0], provenance.ReasonOperatorFallback
		for _, v := range c.Values {
			if v.Source == chosen {
				pick, reason = v, provenance.ReasonOperator
				break
			}
		}
		if reason == provenance.ReasonOperatorFallback {
			res.Fallbacks = append(res.Fallbacks, c.SKU)
		}

		unchanged := c.Resolved && c.SelectedSource == chosen &&
			c.Selected == pick.Value && c.ActualSource == pick.Source

		previous := c.record.Value(field)
		c.record.Set(field, pick.Value, pick.Source)
		c.Selected = pick.Value
		c.SelectedSource = chosen
		c.ActualSource = pick.Source
		c.Resolved = true
		res.Applied++

		if !unchanged {
			r.tracker.Track(c.SKU, field, provenance.Provenance{
				Source:        pick.Source,
				Value:         pick.Value,
				Reason:        reason,
				PreviousValue: previous,
			})
		}
	}

	r.logger.Info().
		Str("field", field.String()).
		Str("source", chosen.String()).
		Int("applied", res.Applied).
		Int("fallbacks", len(res.Fallbacks)).
		Msg("Resolved field conflicts")
	return res, nil
}

// ResolveAllByPriority resolves every unresolved group with the first source
// in the field's priority list that offers any value in the group.
func (r *Resolver) ResolveAllByPriority() ([]Resolution, error) {
	var out []Resolution
	for _, g := range r.ledger.Groups() {
		if g.Resolved() {
			continue
		}
		chosen := r.registry.Priority(g.Field)[0]
		if len(g.Sources) > 0 {
			chosen = g.Sources[0]
		}
		res, err := r.ResolveField(g.Field, chosen)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}
