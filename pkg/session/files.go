package session

import (
	"context"
	"fmt"

	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/intake"
	"github.com/agentstation/skumerge/pkg/logging"
	"github.com/agentstation/skumerge/pkg/schema"
)

// FileInfo describes a loaded file.
type FileInfo struct {
	Name     string                  `json:"name" yaml:"name"`
	Source   schema.SourceSystem     `json:"source" yaml:"source"`
	Label    string                  `json:"label" yaml:"label"`
	Rows     int                     `json:"rows" yaml:"rows"`
	Encoding string                  `json:"encoding" yaml:"encoding"`
	Fields   []schema.CanonicalField `json:"fields" yaml:"fields"`
	Warnings []string                `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Describe summarizes a parsed file against registry.
func Describe(f *intake.File, registry *schema.Registry) FileInfo {
	return FileInfo{
		Name:     f.Name,
		Source:   f.Source,
		Label:    f.Source.Label(),
		Rows:     f.RowCount(),
		Encoding: f.Encoding,
		Fields:   registry.FieldsFor(f.Source),
		Warnings: append([]string(nil), f.Warnings...),
	}
}

// FileFailure is a file that could not be loaded.
type FileFailure struct {
	Name  string `json:"name" yaml:"name"`
	Error string `json:"error" yaml:"error"`
}

// LoadSummary reports the outcome of LoadFiles.
type LoadSummary struct {
	Files  []FileInfo    `json:"files" yaml:"files"`
	Failed []FileFailure `json:"failed,omitempty" yaml:"failed,omitempty"`
}

func (s *Session) tooFewFiles(action string) error {
	return errors.NewPreconditionError(action, fmt.Sprintf(
		"Please upload at least %d CSV files to merge. This tool is designed for merging multiple sources.", s.minFiles))
}

// LoadFiles parses inputs concurrently and replaces the file set with the
// files that parsed. Files that fail are listed in the summary and do not
// affect the others. Any previous merge is discarded.
func (s *Session) LoadFiles(ctx context.Context, inputs []intake.Input) (LoadSummary, error) {
	var summary LoadSummary
	err := s.run(func() (*Event, error) {
		if len(inputs) < s.minFiles {
			return nil, s.tooFewFiles("load")
		}

		ctx := logging.WithSession(ctx, s.id)
		results := intake.LoadAll(ctx, inputs)

		files := make([]*intake.File, 0, len(results))
		for _, r := range results {
			if r.Err != nil {
				summary.Failed = append(summary.Failed, FileFailure{Name: r.Name, Error: r.Err.Error()})
				continue
			}
			files = append(files, r.File)
			summary.Files = append(summary.Files, Describe(r.File, s.registry))
		}

		s.files = files
		s.clearMerge()

		s.log().Info().
			Int("loaded", len(summary.Files)).
			Int("failed", len(summary.Failed)).
			Msg("Files loaded")
		return &Event{Type: EventFilesLoaded, Data: summary}, nil
	})
	return summary, err
}

// AddFile parses one more file. A file with the same name is replaced.
// Any previous merge is discarded.
func (s *Session) AddFile(ctx context.Context, in intake.Input) (FileInfo, error) {
	var info FileInfo
	err := s.run(func() (*Event, error) {
		res := intake.LoadAll(logging.WithSession(ctx, s.id), []intake.Input{in})[0]
		if res.Err != nil {
			return nil, res.Err
		}

		replaced := false
		for i, f := range s.files {
			if f.Name == res.File.Name {
				res.File.Index = f.Index
				s.files[i] = res.File
				replaced = true
				break
			}
		}
		if !replaced {
			res.File.Index = len(s.files)
			s.files = append(s.files, res.File)
		}
		s.clearMerge()

		info = Describe(res.File, s.registry)
		s.log().Info().Str("file", info.Name).Str("source", info.Source.String()).Bool("replaced", replaced).Msg("File added")
		return &Event{Type: EventFilesLoaded, Data: LoadSummary{Files: []FileInfo{info}}}, nil
	})
	return info, err
}

// RemoveFile drops a loaded file by name. Any previous merge is discarded.
func (s *Session) RemoveFile(name string) error {
	return s.run(func() (*Event, error) {
		for i, f := range s.files {
			if f.Name != name {
				continue
			}
			s.files = append(s.files[:i], s.files[i+1:]...)
			s.clearMerge()
			s.log().Info().Str("file", name).Msg("File removed")
			return &Event{Type: EventFilesLoaded, Data: s.fileInfos()}, nil
		}
		return nil, errors.NewNotFoundError("file", name)
	})
}

// Files describes the loaded files in load order.
func (s *Session) Files() []FileInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileInfos()
}

func (s *Session) fileInfos() []FileInfo {
	out := make([]FileInfo, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, Describe(f, s.registry))
	}
	return out
}
