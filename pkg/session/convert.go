package session

import (
	"context"
	"fmt"
	"io"

	"github.com/agentstation/utc"

	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/export"
	"github.com/agentstation/skumerge/pkg/schema"
	"github.com/agentstation/skumerge/pkg/transform"
)

// ConvertSummary reports the outcome of Convert.
type ConvertSummary struct {
	Template string   `json:"template" yaml:"template"`
	Headers  []string `json:"headers" yaml:"headers"`
	Rows     int      `json:"rows" yaml:"rows"`
	Filename string   `json:"filename" yaml:"filename"`
}

// SetTemplate selects the output template.
func (s *Session) SetTemplate(name string) error {
	return s.SetOptions(func(o *transform.Options) { o.Template = name })
}

// SetMapping feeds output field out from canonical field. An empty field
// leaves out to conversion defaults.
func (s *Session) SetMapping(out string, field schema.CanonicalField) error {
	if !schema.IsOutputField(out) {
		return errors.NewValidationError("output_field", out, "not a column of any template")
	}
	return s.SetOptions(func(o *transform.Options) {
		if o.Mapping == nil {
			o.Mapping = make(map[string]schema.CanonicalField)
		}
		o.Mapping[out] = field
	})
}

// SetFieldEnabled includes or excludes an output field.
func (s *Session) SetFieldEnabled(out string, enabled bool) error {
	if !schema.IsOutputField(out) {
		return errors.NewValidationError("output_field", out, "not a column of any template")
	}
	return s.SetOptions(func(o *transform.Options) {
		if o.Disabled == nil {
			o.Disabled = make(map[string]bool)
		}
		if enabled {
			delete(o.Disabled, out)
		} else {
			o.Disabled[out] = true
		}
	})
}

// SetOptions edits a copy of the conversion options and installs it when
// it validates. Any previous conversion output is discarded.
func (s *Session) SetOptions(edit func(*transform.Options)) error {
	return s.run(func() (*Event, error) {
		next := s.opts.Clone()
		edit(&next)
		if err := next.Validate(); err != nil {
			return nil, err
		}
		s.opts = next
		s.output = nil
		s.outputAt = utc.Time{}
		return nil, nil
	})
}

// Options returns a copy of the conversion options.
func (s *Session) Options() transform.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.Clone()
}

// Mapping returns the effective output mapping of the selected template.
func (s *Session) Mapping() (map[string]schema.CanonicalField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.EffectiveMapping()
}

// Convert transforms the merged records with the current options. It
// requires ProceedToConversion and no unresolved conflicts.
func (s *Session) Convert(ctx context.Context) (*ConvertSummary, error) {
	var summary *ConvertSummary
	err := s.run(func() (*Event, error) {
		if s.result == nil || len(s.result.Records) == 0 {
			return nil, errors.NewPreconditionError("convert", "No data to convert")
		}
		if n := s.ledger.Unresolved(); n > 0 {
			return nil, unresolvedError("convert", n)
		}
		if !s.ready {
			return nil, errors.NewPreconditionError("convert", "Proceed to conversion before converting.")
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
		}

		logger := s.log()
		t, err := transform.New(s.opts, transform.WithRegistry(s.registry), transform.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		out, err := t.Transform(s.result.Records)
		if err != nil {
			return nil, err
		}

		s.output = out
		s.outputAt = s.clock()
		summary = &ConvertSummary{
			Template: out.Template,
			Headers:  append([]string(nil), out.Headers...),
			Rows:     out.Len(),
			Filename: export.Filename(s.outputAt),
		}
		logger.Info().Str("template", out.Template).Int("rows", out.Len()).Msg("Conversion completed")
		return &Event{Type: EventConversionCompleted, Data: summary}, nil
	})
	return summary, err
}

func (s *Session) requireOutput(action string) error {
	if s.output == nil {
		return errors.NewPreconditionError(action, "Nothing converted yet. Run the conversion first.")
	}
	return nil
}

// Output returns the last conversion output.
func (s *Session) Output() (*transform.Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireOutput("output"); err != nil {
		return nil, err
	}
	return s.output, nil
}

// Download writes the last conversion output as CSV and returns its file name.
func (s *Session) Download(w io.Writer) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireOutput("download"); err != nil {
		return "", err
	}
	if err := export.WriteCSV(w, s.output); err != nil {
		return "", err
	}
	return export.Filename(s.outputAt), nil
}

// Save writes the last conversion output into dir and returns its path.
func (s *Session) Save(dir string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireOutput("save"); err != nil {
		return "", err
	}
	return export.Save(dir, s.output, s.outputAt)
}

// Report writes a markdown reconciliation report of the current merge.
func (s *Session) Report(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireMerge("report"); err != nil {
		return err
	}
	return export.WriteReport(w, export.ReportInput{
		SessionID:  s.id,
		Generated:  s.clock(),
		Files:      s.files,
		Stats:      s.result.Stats,
		Groups:     s.ledger.Groups(),
		Ledger:     s.ledger,
		Validation: s.validation,
		Provenance: s.result.Provenance.Map(),
	})
}
