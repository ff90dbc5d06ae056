package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Format is an export file format.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ErrNothingToExport is returned for an empty record set. No file is produced.
var ErrNothingToExport = errors.New("no hay datos para exportar")

// ParseFormat accepts "csv" or "xlsx" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case CSV:
		return CSV, nil
	case XLSX:
		return XLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == XLSX {
		return xlsxContentType
	}
	return csvContentType
}

// Cell is one column of an export row.
type Cell struct {
	Header string
	Value  string
}

// Row is a flat export record. Cell order is column order.
type Row []Cell

// Headers returns the row's column headers.
func (r Row) Headers() []string {
	headers := make([]string, len(r))
	for i, c := range r {
		headers[i] = c.Header
	}
	return headers
}

// Options controls one export.
type Options struct {
	Format       Format
	FilenameBase string
	Delimiter    rune
	Now          time.Time
	Sheet        string
}

// File is a serialized export ready to be delivered.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	Rows        int
}

// Filename builds "{base}_{YYYY-MM-DD}.{ext}".
func Filename(base string, format Format, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", base, now.Format(time.DateOnly), format)
}

// Records maps records through mapFn, serializes them and hands the file to
// sink. With no records it returns ErrNothingToExport and never calls sink.
func Records[T any](records []T, mapFn func(T) Row, opts Options, sink Sink) (File, error) {
	if len(records) == 0 {
		log.Info("Nothing to export", "file", opts.FilenameBase)
		return File{}, ErrNothingToExport
	}
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = mapFn(r)
	}
	return Rows(rows, opts, sink)
}

// Rows serializes already-mapped rows and hands the file to sink.
func Rows(rows []Row, opts Options, sink Sink) (File, error) {
	if len(rows) == 0 {
		return File{}, ErrNothingToExport
	}
	if opts.Format == "" {
		opts.Format = CSV
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	var (
		data []byte
		err  error
	)
	switch opts.Format {
	case CSV:
		data, err = encodeCSV(rows, opts.Delimiter)
	case XLSX:
		data, err = encodeXLSX(rows, opts.Sheet)
	default:
		return File{}, fmt.Errorf("unsupported export format %q", opts.Format)
	}
	if err != nil {
		return File{}, fmt.Errorf("failed to encode %s export: %w", opts.Format, err)
	}

	file := File{
		Name:        Filename(opts.FilenameBase, opts.Format, opts.Now),
		ContentType: opts.Format.ContentType(),
		Data:        data,
		Rows:        len(rows),
	}
	if err := sink.Write(file); err != nil {
		return File{}, fmt.Errorf("failed to deliver %s: %w", file.Name, err)
	}
	log.Info("Export written", "file", file.Name, "rows", file.Rows, "bytes", len(file.Data))
	return file, nil
}
