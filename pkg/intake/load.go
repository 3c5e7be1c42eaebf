package intake

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/logging"
)

// Input is one file to load.
type Input struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// OpenPath returns an Input reading the file at path.
func OpenPath(path string) Input {
	return Input{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) {
			f, err := os.Open(path) //nolint:gosec // operator supplied path
			if err != nil {
				return nil, errors.WrapIO("open", path, err)
			}
			return f, nil
		},
	}
}

// OpenBytes returns an Input over an in-memory upload.
func OpenBytes(name string, data []byte) Input {
	return Input{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Result is the outcome of loading one Input. Exactly one of File and Err is set.
type Result struct {
	Index int
	Name  string
	File  *File
	Err   error
}

type indexed struct {
	index int
	res   Result
}

// LoadAll parses every input concurrently. The returned slice is ordered by
// input position regardless of completion order, and a failure in one file
// never affects the others.
func LoadAll(ctx context.Context, inputs []Input) []Result {
	logger := logging.FromContext(ctx)
	results := make([]Result, len(inputs))
	if len(inputs) == 0 {
		return results
	}

	var wg sync.WaitGroup
	resultChan := make(chan indexed, len(inputs))

	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in Input) {
			defer wg.Done()
			resultChan <- indexed{index: i, res: load(ctx, logger, i, in)}
		}(i, in)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	received := 0
	for r := range resultChan {
		results[r.index] = r.res
		received++
	}
	logger.Debug().
		Int("expected", len(inputs)).
		Int("received", received).
		Msg("File intake complete")

	return results
}

func load(ctx context.Context, logger *zerolog.Logger, index int, in Input) Result {
	res := Result{Index: index, Name: in.Name}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if in.Open == nil {
		res.Err = errors.NewValidationError("input", in.Name, "no reader")
		return res
	}

	rc, err := in.Open()
	if err != nil {
		res.Err = err
		return res
	}
	defer func() { _ = rc.Close() }()

	f, err := Parse(in.Name, rc)
	if err != nil {
		logger.Warn().Err(err).Str("file", in.Name).Msg("Failed to parse file")
		res.Err = err
		return res
	}
	f.Index = index
	res.File = f

	logger.Debug().
		Str("file", in.Name).
		Str("source", f.Source.String()).
		Str("encoding", f.Encoding).
		Int("rows", f.RowCount()).
		Msg("Parsed file")
	return res
}
