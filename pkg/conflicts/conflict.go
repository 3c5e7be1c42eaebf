// Package conflicts finds fields where the records merged into one product
// disagree, and applies operator decisions to them one field at a time.
package conflicts

import (
	"sort"

	"github.com/agentstation/skumerge/pkg/records"
	"github.com/agentstation/skumerge/pkg/schema"
)

// SourceValue is one contributor's value for a conflicting field.
type SourceValue struct {
	Source schema.SourceSystem `json:"source" yaml:"source"`
	Value  string              `json:"value" yaml:"value"`
	File   string              `json:"file,omitempty" yaml:"file,omitempty"`
	Row    int                 `json:"row,omitempty" yaml:"row,omitempty"`
}

// FieldConflict is a disagreement on one field of one merged record.
type FieldConflict struct {
	SKU    string                `json:"sku" yaml:"sku"`
	Field  schema.CanonicalField `json:"field" yaml:"field"`
	Values []SourceValue         `json:"values" yaml:"values"`

	// Selected is the value currently on the merged record.
	Selected string `json:"selected" yaml:"selected"`
	// SelectedSource is the source the operator asked for. Empty until resolved.
	SelectedSource schema.SourceSystem `json:"selected_source,omitempty" yaml:"selected_source,omitempty"`
	// ActualSource is the source whose value is in use. It differs from
	// SelectedSource when the requested source had no value for this record.
	ActualSource schema.SourceSystem `json:"actual_source" yaml:"actual_source"`
	Resolved     bool                `json:"resolved" yaml:"resolved"`

	record *records.MergedRecord
}

// Record returns the live merged record the conflict belongs to.
func (c *FieldConflict) Record() *records.MergedRecord {
	return c.record
}

// IsFallback reports whether the resolution used a different source than requested.
func (c *FieldConflict) IsFallback() bool {
	return c.Resolved && c.ActualSource != c.SelectedSource
}

// Sources returns the distinct sources offering a value, in pair order.
func (c *FieldConflict) Sources() []schema.SourceSystem {
	var out []schema.SourceSystem
	seen := make(map[schema.SourceSystem]bool)
	for _, v := range c.Values {
		if !seen[v.Source] {
			seen[v.Source] = true
			out = append(out, v.Source)
		}
	}
	return out
}

// FieldConflictGroup aggregates every conflict on one field.
type FieldConflictGroup struct {
	Field          schema.CanonicalField `json:"field" yaml:"field"`
	SKUs           []string              `json:"skus" yaml:"skus"`
	Sources        []schema.SourceSystem `json:"sources" yaml:"sources"`
	SampleValues   []SourceValue         `json:"sample_values" yaml:"sample_values"`
	Total          int                   `json:"total" yaml:"total"`
	ResolvedCount  int                   `json:"resolved_count" yaml:"resolved_count"`
	SelectedSource schema.SourceSystem   `json:"selected_source,omitempty" yaml:"selected_source,omitempty"`
}

// Resolved reports whether every conflict in the group is resolved.
func (g FieldConflictGroup) Resolved() bool {
	return g.Total > 0 && g.ResolvedCount == g.Total
}

// Ledger holds the conflicts found by one detection run. Conflicts stay
// linked to their merged records so resolutions are visible on them.
type Ledger struct {
	conflicts []*FieldConflict
	bySKU     map[string][]*FieldConflict
	byField   map[schema.CanonicalField][]*FieldConflict
	registry  *schema.Registry
}

func newLedger(registry *schema.Registry) *Ledger {
	return &Ledger{
		bySKU:    make(map[string][]*FieldConflict),
		byField:  make(map[schema.CanonicalField][]*FieldConflict),
		registry: registry,
	}
}

func (l *Ledger) add(c *FieldConflict) {
	l.conflicts = append(l.conflicts, c)
	l.bySKU[c.SKU] = append(l.bySKU[c.SKU], c)
	l.byField[c.Field] = append(l.byField[c.Field], c)
}

// Conflicts returns the conflicts of one record in canonical field order.
func (l *Ledger) Conflicts(sku string) []*FieldConflict {
	return append([]*FieldConflict(nil), l.bySKU[sku]...)
}

// All returns every conflict in merge order, then canonical field order.
func (l *Ledger) All() []*FieldConflict {
	return append([]*FieldConflict(nil), l.conflicts...)
}

// ByField returns the conflicts on one field in merge order.
func (l *Ledger) ByField(field schema.CanonicalField) []*FieldConflict {
	return append([]*FieldConflict(nil), l.byField[field]...)
}

// SKUs returns the keys of records with at least one conflict, in merge order.
func (l *Ledger) SKUs() []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range l.conflicts {
		if !seen[c.SKU] {
			seen[c.SKU] = true
			out = append(out, c.SKU)
		}
	}
	return out
}

// Fields returns the fields with at least one conflict, in canonical order.
func (l *Ledger) Fields() []schema.CanonicalField {
	var out []schema.CanonicalField
	for _, f := range schema.Fields() {
		if len(l.byField[f]) > 0 {
			out = append(out, f)
		}
	}
	return out
}

// Total returns the number of conflicts.
func (l *Ledger) Total() int {
	return len(l.conflicts)
}

// Unresolved counts unresolved conflicts. It is recomputed on every call.
func (l *Ledger) Unresolved() int {
	n := 0
	for _, c := range l.conflicts {
		if !c.Resolved {
			n++
		}
	}
	return n
}

// Groups returns one group per conflicting field, in canonical order.
func (l *Ledger) Groups() []FieldConflictGroup {
	fields := l.Fields()
	groups := make([]FieldConflictGroup, 0, len(fields))
	for _, f := range fields {
		groups = append(groups, l.group(f))
	}
	return groups
}

// Group returns the group for one field and whether it has any conflicts.
func (l *Ledger) Group(field schema.CanonicalField) (FieldConflictGroup, bool) {
	if len(l.byField[field]) == 0 {
		return FieldConflictGroup{Field: field}, false
	}
	return l.group(field), true
}

func (l *Ledger) group(field schema.CanonicalField) FieldConflictGroup {
	members := l.byField[field]
	g := FieldConflictGroup{
		Field:        field,
		Total:        len(members),
		SampleValues: append([]SourceValue(nil), members[0].Values...),
	}

	seen := make(map[schema.SourceSystem]bool)
	selected := members[0].SelectedSource
	for _, c := range members {
		g.SKUs = append(g.SKUs, c.SKU)
		if c.Resolved {
			g.ResolvedCount++
		}
		if c.SelectedSource != selected {
			selected = ""
		}
		for _, v := range c.Values {
			if !seen[v.Source] {
				seen[v.Source] = true
				g.Sources = append(g.Sources, v.Source)
			}
		}
	}
	g.SelectedSource = selected

	rank := make(map[schema.SourceSystem]int)
	for i, src := range l.registry.Priority(field) {
		rank[src] = i + 1
	}
	sort.SliceStable(g.Sources, func(i, j int) bool {
		ri, rj := rank[g.Sources[i]], rank[g.Sources[j]]
		if ri == 0 || rj == 0 {
			return ri != 0 && rj == 0
		}
		return ri < rj
	})

	return g
}
