package export

import (
	"github.com/shopspring/decimal"

	"github.com/orderexport/backend/internal/domain/catalog"
	"github.com/orderexport/backend/internal/domain/order"
)

// RowWidth is the number of cells in every exported row
const RowWidth = 8

// Column positions within a row (0-based)
const (
	ColOrder   = 0
	ColProduct = 1
	ColLabel   = 4
	ColPrice   = 5
	ColSKU     = 7
)

// TotalLabel is written in the label column of each order's total row
const TotalLabel = "Total"

// HeaderCells is the fixed header row
var HeaderCells = [RowWidth]string{"Order #", "Product Name", "", "", "", "COGS", "", "SKU"}

// RowKind identifies what a row represents
type RowKind int

const (
	RowBlank RowKind = iota
	RowHeader
	RowItem
	RowTotal
)

// String returns the string representation of RowKind
func (k RowKind) String() string {
	switch k {
	case RowBlank:
		return "blank"
	case RowHeader:
		return "header"
	case RowItem:
		return "item"
	case RowTotal:
		return "total"
	default:
		return "unknown"
	}
}

// Row is one spreadsheet row.
// OrderName is empty when the order label is not shown on this row.
type Row struct {
	Kind        RowKind
	OrderName   string
	ProductName catalog.ProductName
	Price       decimal.Decimal
	SKU         string
}

// HasPrice returns true if the row carries an amount in the price column
func (r Row) HasPrice() bool {
	return r.Kind == RowItem || r.Kind == RowTotal
}

// Cells renders the row as RowWidth strings, prices with two decimals
func (r Row) Cells() []string {
	cells := make([]string, RowWidth)
	switch r.Kind {
	case RowHeader:
		copy(cells, HeaderCells[:])
	case RowItem:
		cells[ColOrder] = r.OrderName
		cells[ColProduct] = r.ProductName.String()
		cells[ColPrice] = r.Price.StringFixed(2)
		cells[ColSKU] = r.SKU
	case RowTotal:
		cells[ColOrder] = r.OrderName
		cells[ColLabel] = TotalLabel
		cells[ColPrice] = r.Price.StringFixed(2)
	}
	return cells
}

// Formatter turns orders into export rows using a classifier and a price table
type Formatter struct {
	classifier *catalog.SKUClassifier
	prices     *catalog.PriceTable
}

// NewFormatter creates a formatter. Nil arguments fall back to the built-in tables.
func NewFormatter(classifier *catalog.SKUClassifier, prices *catalog.PriceTable) *Formatter {
	if classifier == nil {
		classifier = catalog.DefaultSKUClassifier()
	}
	if prices == nil {
		prices = catalog.DefaultPriceTable()
	}
	return &Formatter{classifier: classifier, prices: prices}
}

// Format renders the first limit orders as rows: a blank row, the header, then
// each order's item rows followed by its total row.
func (f *Formatter) Format(orders []order.Order, limit int) []Row {
	orders = order.Truncate(orders, limit)

	rows := make([]Row, 0, 2+estimateRows(orders))
	rows = append(rows, Row{Kind: RowBlank}, Row{Kind: RowHeader})

	for _, o := range orders {
		subtotal := decimal.Zero
		for i, item := range o.LineItems {
			name := f.classifier.ClassifySKU(item.SKU)
			price := f.prices.Price(name, i)
			subtotal = subtotal.Add(price)

			row := Row{
				Kind:        RowItem,
				ProductName: name,
				Price:       price,
				SKU:         item.SKUValue(),
			}
			if i == 0 {
				row.OrderName = o.Name
			}
			rows = append(rows, row)
		}

		total := Row{Kind: RowTotal, Price: subtotal}
		// An order without items keeps its name on the total row
		if !o.HasLineItems() {
			total.OrderName = o.Name
		}
		rows = append(rows, total)
	}
	return rows
}

// FormatOrders renders orders with the built-in classifier and price table
func FormatOrders(orders []order.Order, limit int) []Row {
	return NewFormatter(nil, nil).Format(orders, limit)
}

// Cells renders every row as strings
func Cells(rows []Row) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Cells()
	}
	return out
}

// Stats summarizes a formatted row set
type Stats struct {
	Orders       int
	Items        int
	Unidentified int
}

// Summarize counts orders, items and unidentified items in rows
func Summarize(rows []Row) Stats {
	var s Stats
	for _, r := range rows {
		switch r.Kind {
		case RowItem:
			s.Items++
			if !r.ProductName.IsIdentified() {
				s.Unidentified++
			}
		case RowTotal:
			s.Orders++
		}
	}
	return s
}

func estimateRows(orders []order.Order) int {
	n := 0
	for _, o := range orders {
		n += len(o.LineItems) + 1
	}
	return n
}
