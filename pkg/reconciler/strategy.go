package reconciler

import (
	"fmt"
	"strings"

	"github.com/agentstation/skumerge/pkg/provenance"
	"github.com/agentstation/skumerge/pkg/records"
	"github.com/agentstation/skumerge/pkg/schema"
)

// StrategyType represents the type of merge strategy.
type StrategyType string

// String returns the string representation of a strategy type.
func (s StrategyType) String() string {
	return string(s)
}

// Name returns the name of the strategy type.
func (s StrategyType) Name() string {
	words := strings.Split(s.String(), "-")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

const (
	// StrategyTypeFieldPriority uses the registry's per-field source priority.
	StrategyTypeFieldPriority StrategyType = "field-priority"
	// StrategyTypeSourceOrder uses one source order for every field.
	StrategyTypeSourceOrder StrategyType = "source-order"
)

// Strategy decides which contributor supplies each field of a merged record.
type Strategy interface {
	// Type returns the strategy type
	Type() StrategyType

	// Description returns a human-readable description
	Description() string

	// ResolveField picks the value of field among contributors and returns
	// the value, its source and the provenance reason. An empty value means
	// no contributor had one.
	ResolveField(field schema.CanonicalField, contributors []*records.SourceRecord) (string, schema.SourceSystem, string)
}

type baseStrategy struct {
	typ         StrategyType
	description string
}

// Type returns the strategy type.
func (s *baseStrategy) Type() StrategyType {
	return s.typ
}

// Description returns a human-readable description.
func (s *baseStrategy) Description() string {
	return s.description
}

// PriorityStrategy picks the value from the first source in the field's
// priority list that has one, and otherwise the first contributor with a value.
type PriorityStrategy struct {
	baseStrategy
	registry *schema.Registry
}

// NewPriorityStrategy creates a strategy driven by registry priorities.
func NewPriorityStrategy(registry *schema.Registry) Strategy {
	if registry == nil {
		registry = schema.Default()
	}
	return &PriorityStrategy{
		baseStrategy: baseStrategy{
			typ:         StrategyTypeFieldPriority,
			description: "Resolves fields using per-field source priority",
		},
		registry: registry,
	}
}

// ResolveField implements Strategy.
func (s *PriorityStrategy) ResolveField(field schema.CanonicalField, contributors []*records.SourceRecord) (string, schema.SourceSystem, string) {
	return resolveByOrder(s.registry.Priority(field), field, contributors)
}

// SourceOrderStrategy resolves every field using a fixed source precedence.
// Sources earlier in the slice win.
type SourceOrderStrategy struct {
	baseStrategy
	order []schema.SourceSystem
}

// NewSourceOrderStrategy creates a strategy with a global source order.
func NewSourceOrderStrategy(order []schema.SourceSystem) Strategy {
	return &SourceOrderStrategy{
		baseStrategy: baseStrategy{
			typ:         StrategyTypeSourceOrder,
			description: fmt.Sprintf("Resolves fields using source order: %v", order),
		},
		order: append([]schema.SourceSystem(nil), order...),
	}
}

// ResolveField implements Strategy.
func (s *SourceOrderStrategy) ResolveField(field schema.CanonicalField, contributors []*records.SourceRecord) (string, schema.SourceSystem, string) {
	return resolveByOrder(s.order, field, contributors)
}

func resolveByOrder(order []schema.SourceSystem, field schema.CanonicalField, contributors []*records.SourceRecord) (string, schema.SourceSystem, string) {
	for _, src := range order {
		for _, c := range contributors {
			if c.Source != src {
				continue
			}
			if v, ok := c.Get(field); ok && v != "" {
				return v, src, provenance.ReasonPriority
			}
		}
	}

	for _, c := range contributors {
		if v, ok := c.Get(field); ok && v != "" {
			return v, c.Source, provenance.ReasonFallback
		}
	}

	return "", "", ""
}
