// Package intake reads raw catalog exports: it decodes the byte stream,
// parses the CSV, and detects which source system produced the file.
package intake

import (
	"bytes"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/schema"
)

// Encoding names reported on a parsed File.
const (
	EncodingUTF8        = "utf-8"
	EncodingUTF8BOM     = "utf-8-bom"
	EncodingUTF16       = "utf-16"
	EncodingWindows1252 = "windows-1252"
)

// Row is one data row of a file keyed by trimmed header.
type Row struct {
	Number int               `json:"number" yaml:"number"` // 1-based, header excluded
	Values map[string]string `json:"values" yaml:"values"`
}

// File is a parsed export.
type File struct {
	Index    int                 `json:"index" yaml:"index"`
	Name     string              `json:"name" yaml:"name"`
	Source   schema.SourceSystem `json:"source" yaml:"source"`
	Encoding string              `json:"encoding" yaml:"encoding"`
	Headers  []string            `json:"headers" yaml:"headers"`
	Rows     []Row               `json:"-" yaml:"-"`
	Warnings []string            `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// RowCount returns the number of data rows kept.
func (f *File) RowCount() int {
	return len(f.Rows)
}

// Parse reads an export from r. The whole stream is buffered since the
// encoding has to be sniffed before parsing.
func Parse(name string, r io.Reader) (*File, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}

	data, encoding, err := decode(raw)
	if err != nil {
		return nil, errors.NewParseError("csv", name, "cannot decode file", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewParseError("csv", name, "file is empty", nil)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, csvError(name, err)
	}

	f := &File{
		Name:     name,
		Encoding: encoding,
		Headers:  make([]string, 0, len(header)),
	}
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if seen[h] {
			f.Warnings = append(f.Warnings, fmt.Sprintf("duplicate column %q at position %d ignored", h, i+1))
		}
		seen[h] = true
		f.Headers = append(f.Headers, h)
	}
	if !hasContent(f.Headers) {
		return nil, errors.NewParseError("csv", name, "missing header row", nil)
	}

	number := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(name, err)
		}
		number++
		if !hasContent(fields) {
			continue
		}

		switch {
		case len(fields) < len(f.Headers):
			f.Warnings = append(f.Warnings, fmt.Sprintf("row %d has %d fields, expected %d; padded", number, len(fields), len(f.Headers)))
		case len(fields) > len(f.Headers):
			f.Warnings = append(f.Warnings, fmt.Sprintf("row %d has %d fields, expected %d; truncated", number, len(fields), len(f.Headers)))
			fields = fields[:len(f.Headers)]
		}

		values := make(map[string]string, len(f.Headers))
		for i, h := range f.Headers {
			if _, dup := values[h]; dup {
				continue
			}
			if i < len(fields) {
				values[h] = fields[i]
			} else {
				values[h] = ""
			}
		}
		f.Rows = append(f.Rows, Row{Number: number, Values: values})
	}

	f.Source = schema.Detect(f.Headers)
	return f, nil
}

func decode(raw []byte) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
		return out, EncodingUTF8BOM, err
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}), bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
		return out, EncodingUTF16, err
	case utf8.Valid(raw):
		return raw, EncodingUTF8, nil
	default:
		out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		return out, EncodingWindows1252, err
	}
}

func csvError(name string, err error) error {
	if err == io.EOF {
		return errors.NewParseError("csv", name, "missing header row", nil)
	}
	pe := errors.NewParseError("csv", name, err.Error(), err)
	var csvErr *csv.ParseError
	if stderrors.As(err, &csvErr) {
		pe.Line = csvErr.Line
		pe.Message = csvErr.Err.Error()
	}
	return pe
}

func hasContent(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return true
		}
	}
	return false
}
