// Package export writes converted output and reconciliation reports.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agentstation/utc"

	"github.com/agentstation/skumerge/pkg/constants"
	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/transform"
)

// ContentType is the media type of generated import files.
const ContentType = "text/csv; charset=utf-8"

// WriteCSV writes out as UTF-8 CSV with a header row.
func WriteCSV(w io.Writer, out *transform.Output) error {
	if out == nil {
		return errors.NewValidationError("output", nil, "no converted data")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(out.Headers); err != nil {
		return errors.WrapIO("write", "csv", err)
	}
	if err := cw.WriteAll(out.Rows); err != nil {
		return errors.WrapIO("write", "csv", err)
	}
	return nil
}

// Filename returns the timestamped name of an import file.
func Filename(t utc.Time) string {
	return fmt.Sprintf("%s%d%s", constants.OutputFilePrefix, t.Time.UnixMilli(), constants.OutputFileExt)
}

// Save writes out into dir under a timestamped name and returns the path.
func Save(dir string, out *transform.Output, now utc.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return "", errors.WrapIO("create", dir, err)
	}

	path := filepath.Join(dir, Filename(now))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions) //nolint:gosec // operator supplied directory
	if err != nil {
		return "", errors.WrapIO("create", path, err)
	}

	if err := WriteCSV(f, out); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errors.WrapIO("close", path, err)
	}
	return path, nil
}
