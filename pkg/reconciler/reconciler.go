// Package reconciler merges normalized source records that share a business
// key into one record per product, choosing each field's value with a
// pluggable Strategy and recording where every value came from.
package reconciler

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/logging"
	"github.com/agentstation/skumerge/pkg/provenance"
	"github.com/agentstation/skumerge/pkg/records"
	"github.com/agentstation/skumerge/pkg/schema"
)

// Reconciler merges source records by business key.
type Reconciler interface {
	// Merge groups recs by SKU and produces one MergedRecord per group
	Merge(ctx context.Context, recs []*records.SourceRecord) (*Result, error)
}

// Aggregator is the default Reconciler.
type Aggregator struct {
	strategy Strategy
	registry *schema.Registry
	tracking bool
	logger   *zerolog.Logger
}

// New creates a new Aggregator with options.
func New(opts ...Option) (*Aggregator, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Aggregator{
		strategy: options.strategy,
		registry: options.registry,
		tracking: options.tracking,
		logger:   options.logger,
	}, nil
}

// Strategy returns the strategy in use.
func (a *Aggregator) Strategy() Strategy {
	return a.strategy
}

type group struct {
	sku     string
	members []*records.SourceRecord
}

// Merge groups recs by trimmed SKU in first-seen order. Records without a
// SKU are reported in Result.Skipped. Single-record groups are copied
// verbatim; larger groups are resolved field by field with the strategy.
func (a *Aggregator) Merge(ctx context.Context, recs []*records.SourceRecord) (*Result, error) {
	logger := a.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	result := newResult(a.strategy, a.tracking)

	var groups []*group
	index := make(map[string]*group)
	for _, rec := range recs {
		sku := strings.TrimSpace(rec.SKU())
		if sku == "" {
			result.Skipped = append(result.Skipped, rec)
			continue
		}
		g, ok := index[sku]
		if !ok {
			g = &group{sku: sku}
			index[sku] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, rec)
	}

	result.Records = make([]*records.MergedRecord, 0, len(groups))
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
		}
		result.Records = append(result.Records, a.mergeGroup(g, result.Provenance))
	}

	result.finalize()

	logger.Info().
		Int("input_records", len(recs)).
		Int("products", result.Stats.Total).
		Int("matched", result.Stats.Matched).
		Int("skipped", result.Stats.Skipped).
		Dur("duration", result.Metadata.Duration).
		Str("strategy", a.strategy.Type().String()).
		Msg("Merged source records")

	return result, nil
}

func (a *Aggregator) mergeGroup(g *group, tracker provenance.Tracker) *records.MergedRecord {
	merged := records.NewMergedRecord(g.sku, g.members)

	if len(g.members) == 1 {
		only := g.members[0]
		for _, field := range schema.Fields() {
			v, ok := only.Get(field)
			if !ok || v == "" {
				continue
			}
			if field == schema.BusinessKey {
				v = g.sku
			}
			merged.Set(field, v, only.Source)
			tracker.Track(g.sku, field, provenance.Provenance{
				Source: only.Source,
				Value:  v,
				Reason: provenance.ReasonSingleSource,
			})
		}
		return merged
	}

	for _, field := range schema.Fields() {
		v, src, reason := a.strategy.ResolveField(field, g.members)
		if v == "" {
			continue
		}
		if field == schema.BusinessKey {
			v = g.sku
		}
		merged.Set(field, v, src)
		tracker.Track(g.sku, field, provenance.Provenance{
			Source: src,
			Value:  v,
			Reason: reason,
		})
	}
	return merged
}
