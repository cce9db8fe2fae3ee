// Package spreadsheet renders export rows as XLSX and CSV files.
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/orderexport/backend/internal/application/export"
)

// XLSX layout
const (
	SheetName       = "data"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// numFmtFixed2 is the built-in "0.00" number format
	numFmtFixed2 = 2
)

var _ export.SheetWriter = (*XLSXWriter)(nil)

// XLSXWriter writes rows into a single-sheet workbook.
// Prices are numeric cells so the sheet can be summed directly.
type XLSXWriter struct{}

// NewXLSXWriter creates a new XLSXWriter
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// Format implements export.SheetWriter
func (w *XLSXWriter) Format() export.Format {
	return export.FormatXLSX
}

// ContentType implements export.SheetWriter
func (w *XLSXWriter) ContentType() string {
	return XLSXContentType
}

// Write implements export.SheetWriter
func (w *XLSXWriter) Write(out io.Writer, rows []export.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, SheetName); err != nil {
		return fmt.Errorf("spreadsheet: rename sheet: %w", err)
	}

	priceStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtFixed2})
	if err != nil {
		return fmt.Errorf("spreadsheet: price style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("spreadsheet: header style: %w", err)
	}

	priceCol, err := excelize.ColumnNumberToName(export.ColPrice + 1)
	if err != nil {
		return err
	}
	if err := f.SetColStyle(SheetName, priceCol, priceStyle); err != nil {
		return fmt.Errorf("spreadsheet: column style: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", "B", 20); err != nil {
		return fmt.Errorf("spreadsheet: column width: %w", err)
	}

	for i, row := range rows {
		if row.Kind == export.RowBlank {
			continue
		}

		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := rowValues(row)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("spreadsheet: row %d: %w", i+1, err)
		}

		switch row.Kind {
		case export.RowHeader:
			last, _ := excelize.CoordinatesToCellName(export.RowWidth, i+1)
			if err := f.SetCellStyle(SheetName, cell, last, headerStyle); err != nil {
				return fmt.Errorf("spreadsheet: header style: %w", err)
			}
		case export.RowItem, export.RowTotal:
			price, _ := excelize.CoordinatesToCellName(export.ColPrice+1, i+1)
			if err := f.SetCellStyle(SheetName, price, price, priceStyle); err != nil {
				return fmt.Errorf("spreadsheet: price style: %w", err)
			}
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("spreadsheet: write workbook: %w", err)
	}
	return nil
}

// rowValues converts a row to cell values, leaving empty cells unset
func rowValues(row export.Row) []any {
	cells := row.Cells()
	values := make([]any, len(cells))
	for i, c := range cells {
		if c != "" {
			values[i] = c
		}
	}
	if row.HasPrice() {
		values[export.ColPrice] = row.Price.InexactFloat64()
	}
	return values
}
