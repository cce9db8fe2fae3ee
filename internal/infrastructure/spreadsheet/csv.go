package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/orderexport/backend/internal/application/export"
)

// CSVContentType is served for CSV exports
const CSVContentType = "text/csv; charset=utf-8"

var _ export.SheetWriter = (*CSVWriter)(nil)

// CSVWriter writes rows as comma separated values, one record per row
type CSVWriter struct {
	comma rune
}

// NewCSVWriter creates a new CSVWriter using ',' as separator
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{comma: ','}
}

// Format implements export.SheetWriter
func (w *CSVWriter) Format() export.Format {
	return export.FormatCSV
}

// ContentType implements export.SheetWriter
func (w *CSVWriter) ContentType() string {
	return CSVContentType
}

// Write implements export.SheetWriter
func (w *CSVWriter) Write(out io.Writer, rows []export.Row) error {
	cw := csv.NewWriter(out)
	cw.Comma = w.comma
	for i, row := range rows {
		if err := cw.Write(row.Cells()); err != nil {
			return fmt.Errorf("spreadsheet: csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Writers returns every writer this package provides
func Writers() []export.SheetWriter {
	return []export.SheetWriter{NewXLSXWriter(), NewCSVWriter()}
}
