package csvlog

import (
	"FlowTagger/internal/errors"
	"FlowTagger/internal/model"
	"encoding/csv"
	"io"
	"os"
	"strings"
)

// Reader streams rows of a comma-delimited file whose first line is a header.
type Reader struct {
	name   string
	closer io.Closer
	csv    *csv.Reader
	header []string
	empty  bool
}

// NewReader opens the file at filePath and reads its header. Every column in
// required must be present in the header.
func NewReader(filePath string, required ...string) (*Reader, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Attr(
			errors.Wrapf(err, errors.KindResourceUnavailable, "failed to open %s", filePath),
			"path", filePath)
	}
	r, err := newReader(filePath, file, required)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.closer = file
	return r, nil
}

// NewReaderFrom reads rows from src. name is used in error messages.
func NewReaderFrom(name string, src io.Reader, required ...string) (*Reader, error) {
	return newReader(name, src, required)
}

func newReader(name string, src io.Reader, required []string) (*Reader, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	r := &Reader{name: name, csv: cr}

	record, err := cr.Read()
	if err == io.EOF {
		// An empty file has no header and no rows.
		r.empty = true
		return r, nil
	}
	if err != nil {
		return nil, r.readError(err)
	}

	r.header = make([]string, len(record))
	for i, column := range record {
		r.header[i] = strings.ToLower(strings.TrimSpace(column))
	}
	for _, column := range required {
		if !r.hasColumn(column) {
			err := errors.Errorf(errors.KindMalformedRecord, "%s: header has no %q column", name, column)
			return nil, errors.Attr(r.malformed(err, 1), "field", column)
		}
	}
	return r, nil
}

// Close closes the underlying file, if the reader opened one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Header returns the normalized column names.
func (r *Reader) Header() []string {
	return r.header
}

// Next returns the next row, or io.EOF after the last one. Lines holding
// nothing but whitespace are skipped; a row of empty columns is returned.
// Values are trimmed; columns missing from a short row are absent from Fields.
func (r *Reader) Next() (model.Row, error) {
	if r.empty {
		return model.Row{}, io.EOF
	}
	for {
		record, err := r.csv.Read()
		if err == io.EOF {
			return model.Row{}, io.EOF
		}
		if err != nil {
			return model.Row{}, r.readError(err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		line, _ := r.csv.FieldPos(0)

		fields := make(map[string]string, len(r.header))
		for i, value := range record {
			if i >= len(r.header) {
				break
			}
			fields[r.header[i]] = strings.TrimSpace(value)
		}
		return model.Row{Line: line, Fields: fields}, nil
	}
}

// ReadRows calls fn for every row in order and stops at the first error,
// from either the file or fn.
func (r *Reader) ReadRows(fn func(row model.Row) error) error {
	for {
		row, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

func (r *Reader) hasColumn(column string) bool {
	for _, c := range r.header {
		if c == column {
			return true
		}
	}
	return false
}

func (r *Reader) malformed(err error, line int) error {
	err = errors.Attr(err, "file", r.name)
	return errors.Attr(err, "line", line)
}

// readError classifies an error from the csv reader: syntax errors are
// malformed records, anything else means the source could not be read.
func (r *Reader) readError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return r.malformed(errors.Wrapf(err, errors.KindMalformedRecord, "%s: unreadable row", r.name), pe.Line)
	}
	return errors.Attr(
		errors.Wrapf(err, errors.KindResourceUnavailable, "failed to read %s", r.name),
		"path", r.name)
}
