package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/orderexport/backend/internal/application/export"
	"github.com/orderexport/backend/internal/domain/order"
)

func sku(s string) *string { return &s }

func sampleRows() []export.Row {
	orders := []order.Order{
		{ID: 1, Name: "#1001", LineItems: []order.LineItem{{SKU: sku("CA12")}, {SKU: sku("CA12B")}}},
		{ID: 2, Name: "#1002"},
	}
	return export.FormatOrders(orders, 10)
}

// ---------------------------------------------------------------------------
// XLSX
// ---------------------------------------------------------------------------

func TestXLSXWriter_Metadata(t *testing.T) {
	w := NewXLSXWriter()
	assert.Equal(t, export.FormatXLSX, w.Format())
	assert.Equal(t, XLSXContentType, w.ContentType())
}

func TestXLSXWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().Write(&buf, sampleRows()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	cells := map[string]string{
		"A1": "",
		"A2": "Order #",
		"B2": "Product Name",
		"F2": "COGS",
		"H2": "SKU",
		"A3": "#1001",
		"B3": "Collar",
		"F3": "13.99",
		"H3": "CA12",
		"A4": "",
		"B4": "Leash",
		"F4": "6.99",
		"H4": "CA12B",
		"E5": "Total",
		"F5": "20.98",
		"A6": "#1002",
		"E6": "Total",
		"F6": "0.00",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue(SheetName, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
}

func TestXLSXWriter_PricesAreNumeric(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().Write(&buf, sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	raw, err := f.GetCellValue(SheetName, "F5", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "20.98", raw)

	typ, err := f.GetCellType(SheetName, "H3")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeNumber, typ, "SKUs stay text")
}

func TestXLSXWriter_EmptyRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().Write(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetName}, f.GetSheetList())
}

// ---------------------------------------------------------------------------
// CSV
// ---------------------------------------------------------------------------

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter()
	require.NoError(t, w.Write(&buf, sampleRows()))

	want := ",,,,,,,\n" +
		"Order #,Product Name,,,,COGS,,SKU\n" +
		"#1001,Collar,,,,13.99,,CA12\n" +
		",Leash,,,,6.99,,CA12B\n" +
		",,,,Total,20.98,,\n" +
		"#1002,,,,Total,0.00,,\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, export.FormatCSV, w.Format())
	assert.Equal(t, CSVContentType, w.ContentType())
}

func TestCSVWriter_QuotesSpecialCharacters(t *testing.T) {
	rows := export.FormatOrders([]order.Order{
		{Name: "#7, gift", LineItems: []order.LineItem{{SKU: sku(`X"1`)}}},
	}, 1)

	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter().Write(&buf, rows))
	assert.Contains(t, buf.String(), `"#7, gift",Unidentified,,,,0.00,,"X""1"`)
}

func TestWriters(t *testing.T) {
	formats := make([]export.Format, 0, 2)
	for _, w := range Writers() {
		formats = append(formats, w.Format())
	}
	assert.ElementsMatch(t, []export.Format{export.FormatXLSX, export.FormatCSV}, formats)
}
