// Package provenance provides field-level tracking of which source supplied
// each merged value and why.
package provenance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentstation/utc"

	"github.com/agentstation/skumerge/pkg/schema"
)

// Reasons recorded for a field value.
const (
	// ReasonSingleSource marks values copied from the only contributing record.
	ReasonSingleSource = "single-source"
	// ReasonPriority marks values chosen from the highest-priority source that had one.
	ReasonPriority = "priority"
	// ReasonFallback marks values taken from the first contributor because no
	// prioritized source had one.
	ReasonFallback = "fallback"
	// ReasonOperator marks values the operator chose.
	ReasonOperator = "operator"
	// ReasonOperatorFallback marks values substituted because the operator's
	// chosen source had no value for that record.
	ReasonOperatorFallback = "operator-fallback"
)

// Provenance tracks the origin and history of a field value.
type Provenance struct {
	Source        schema.SourceSystem   `json:"source" yaml:"source"`
	Field         schema.CanonicalField `json:"field" yaml:"field"`
	Value         string                `json:"value" yaml:"value"`
	Timestamp     utc.Time              `json:"timestamp" yaml:"timestamp"`
	Reason        string                `json:"reason" yaml:"reason"`
	PreviousValue string                `json:"previous_value,omitempty" yaml:"previous_value,omitempty"`
}

// Map tracks provenance for many records.
type Map map[string][]Provenance // key is "sku:field"

// Tracker records provenance during merging and resolution.
type Tracker interface {
	// Track records provenance for a field
	Track(sku string, field schema.CanonicalField, entry Provenance)

	// FindByField returns the history of one field, oldest first
	FindByField(sku string, field schema.CanonicalField) []Provenance

	// Current returns the latest entry for a field
	Current(sku string, field schema.CanonicalField) (Provenance, bool)

	// FindByRecord returns every field's history for a record
	FindByRecord(sku string) map[schema.CanonicalField][]Provenance

	// Map returns a copy of the complete provenance map
	Map() Map

	// Clear removes all provenance data
	Clear()
}

type tracker struct {
	provenance Map
	enabled    bool
}

// NewTracker creates a new provenance tracker. A disabled tracker records nothing.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

func (p *tracker) Track(sku string, field schema.CanonicalField, entry Provenance) {
	if !p.enabled {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = utc.Now()
	}
	entry.Field = field

	key := makeKey(sku, field)
	p.provenance[key] = append(p.provenance[key], entry)
}

func (p *tracker) FindByField(sku string, field schema.CanonicalField) []Provenance {
	if !p.enabled {
		return nil
	}
	return append([]Provenance(nil), p.provenance[makeKey(sku, field)]...)
}

func (p *tracker) Current(sku string, field schema.CanonicalField) (Provenance, bool) {
	history := p.provenance[makeKey(sku, field)]
	if len(history) == 0 {
		return Provenance{}, false
	}
	return history[len(history)-1], true
}

func (p *tracker) FindByRecord(sku string) map[schema.CanonicalField][]Provenance {
	if !p.enabled {
		return nil
	}

	result := make(map[schema.CanonicalField][]Provenance)
	prefix := sku + ":"
	for key, history := range p.provenance {
		if field, found := strings.CutPrefix(key, prefix); found {
			result[schema.CanonicalField(field)] = append([]Provenance(nil), history...)
		}
	}
	return result
}

func (p *tracker) Map() Map {
	if !p.enabled {
		return nil
	}

	result := make(Map, len(p.provenance))
	for k, v := range p.provenance {
		result[k] = append([]Provenance{}, v...)
	}
	return result
}

func (p *tracker) Clear() {
	p.provenance = make(Map)
}

// SKUs may contain colons, so the field is always the last segment.
func makeKey(sku string, field schema.CanonicalField) string {
	return fmt.Sprintf("%s:%s", sku, field)
}

// SplitKey splits a Map key into its SKU and field.
func SplitKey(key string) (string, schema.CanonicalField) {
	i := strings.LastIndex(key, ":")
	if i < 0 {
		return key, ""
	}
	return key[:i], schema.CanonicalField(key[i+1:])
}

// Report is a per-record view of a provenance Map.
type Report struct {
	Records []RecordProvenance
}

// RecordProvenance holds provenance for a single merged record.
type RecordProvenance struct {
	SKU    string
	Fields []Field
}

// Field holds the current value of a field and how it got there.
type Field struct {
	Field   schema.CanonicalField
	Current Provenance
	History []Provenance // oldest first
}

// Overridden reports whether the value was changed after the merge.
func (f Field) Overridden() bool {
	return len(f.History) > 1
}

// GenerateReport groups a Map by record. Records are sorted by SKU and
// fields follow canonical order. When skus is non-empty only those records
// are included.
func GenerateReport(m Map, skus ...string) *Report {
	var only map[string]bool
	if len(skus) > 0 {
		only = make(map[string]bool, len(skus))
		for _, s := range skus {
			only[s] = true
		}
	}

	bySKU := make(map[string][]Field)
	for key, history := range m {
		sku, field := SplitKey(key)
		if only != nil && !only[sku] {
			continue
		}
		if len(history) == 0 {
			continue
		}
		bySKU[sku] = append(bySKU[sku], Field{
			Field:   field,
			Current: history[len(history)-1],
			History: history,
		})
	}

	report := &Report{Records: make([]RecordProvenance, 0, len(bySKU))}
	for sku, fields := range bySKU {
		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Field.Less(fields[j].Field)
		})
		report.Records = append(report.Records, RecordProvenance{SKU: sku, Fields: fields})
	}
	sort.Slice(report.Records, func(i, j int) bool {
		return report.Records[i].SKU < report.Records[j].SKU
	})
	return report
}

// String renders the report as plain text.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString("Provenance Report\n")
	sb.WriteString("=================\n\n")

	for _, rec := range r.Records {
		sb.WriteString(fmt.Sprintf("SKU: %s\n", rec.SKU))
		sb.WriteString(strings.Repeat("-", 40))
		sb.WriteString("\n")

		for _, f := range rec.Fields {
			sb.WriteString(fmt.Sprintf("  %s: %s (from %s, %s)\n",
				f.Field, f.Current.Value, f.Current.Source.Label(), f.Current.Reason))

			if f.Overridden() {
				for _, h := range f.History[:len(f.History)-1] {
					sb.WriteString(fmt.Sprintf("    was %s from %s (%s) at %s\n",
						h.Value, h.Source.Label(), h.Reason, h.Timestamp.Format("15:04:05")))
				}
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
