package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/skumerge/pkg/provenance"
	"github.com/agentstation/skumerge/pkg/records"
)

// Result represents the outcome of a merge.
type Result struct {
	Records    []*records.MergedRecord // first-seen key order
	Skipped    []*records.SourceRecord // records without a business key
	Stats      Stats
	Provenance provenance.Tracker
	Metadata   ResultMetadata
}

// ResultMetadata contains metadata about the merge.
type ResultMetadata struct {
	StartTime utc.Time
	EndTime   utc.Time
	Duration  time.Duration
	Strategy  Strategy
}

// Stats summarizes a merge.
type Stats struct {
	Total        int `json:"total" yaml:"total"`
	Matched      int `json:"matched" yaml:"matched"`
	Unique       int `json:"unique" yaml:"unique"`
	Skipped      int `json:"skipped" yaml:"skipped"`
	Conflicts    int `json:"conflicts" yaml:"conflicts"`
	Completeness int `json:"completeness" yaml:"completeness"` // percent
}

// Record returns the merged record for sku, or nil.
func (r *Result) Record(sku string) *records.MergedRecord {
	for _, rec := range r.Records {
		if rec.SKU == sku {
			return rec
		}
	}
	return nil
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d products (%d matched, %d unique), %d skipped, %d%% complete",
		r.Stats.Total, r.Stats.Matched, r.Stats.Unique, r.Stats.Skipped, r.Stats.Completeness)
}

func newResult(strategy Strategy, tracking bool) *Result {
	return &Result{
		Provenance: provenance.NewTracker(tracking),
		Metadata: ResultMetadata{
			StartTime: utc.Now(),
			Strategy:  strategy,
		},
	}
}

func (r *Result) finalize() {
	r.Stats.Total = len(r.Records)
	r.Stats.Skipped = len(r.Skipped)
	r.Stats.Matched = 0
	for _, rec := range r.Records {
		if !rec.IsSingleContributor() {
			r.Stats.Matched++
		}
	}
	r.Stats.Unique = r.Stats.Total - r.Stats.Matched
	r.Stats.Completeness = records.AverageCompleteness(r.Records)

	r.Metadata.EndTime = utc.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Time.Sub(r.Metadata.StartTime.Time)
}
