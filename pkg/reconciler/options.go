package reconciler

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/schema"
)

type options struct {
	strategy Strategy
	registry *schema.Registry
	tracking bool
	logger   *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		tracking: true,
	}
}

// Option is a function that configures an Aggregator.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.registry == nil {
		o.registry = schema.Default()
	}
	if o.strategy == nil {
		o.strategy = NewPriorityStrategy(o.registry)
	}
	return o, nil
}

func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithStrategy sets the merge strategy. The default is a PriorityStrategy
// over the configured registry.
func WithStrategy(strategy Strategy) Option {
	return func(o *options) error {
		if strategy == nil {
			return &errors.ValidationError{
				Field:   "strategy",
				Message: "cannot be nil",
			}
		}
		o.strategy = strategy
		return nil
	}
}

// WithRegistry sets the schema registry.
func WithRegistry(registry *schema.Registry) Option {
	return func(o *options) error {
		if registry == nil {
			return &errors.ValidationError{
				Field:   "registry",
				Message: "cannot be nil",
			}
		}
		o.registry = registry
		return nil
	}
}

// WithProvenance enables field-level tracking.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.tracking = enabled
		return nil
	}
}

// WithLogger sets the logger. By default the logger is taken from the context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
