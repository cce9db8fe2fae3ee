package catalog

import (
	"github.com/shopspring/decimal"
)

// PriceTier is the pricing bracket of a line item, chosen by its position in the order
type PriceTier int

const (
	// TierFirst applies to the first item of an order (or an item bought alone)
	TierFirst PriceTier = iota
	// TierSecond applies to the second item
	TierSecond
	// TierThird applies to the third and every later item
	TierThird
)

// TierForPosition maps a zero-based line item position to its tier
func TierForPosition(position int) PriceTier {
	switch {
	case position <= 0:
		return TierFirst
	case position == 1:
		return TierSecond
	default:
		return TierThird
	}
}

// String returns the string representation of PriceTier
func (t PriceTier) String() string {
	switch t {
	case TierFirst:
		return "first"
	case TierSecond:
		return "second"
	case TierThird:
		return "third"
	default:
		return "unknown"
	}
}

// TierPrices holds the unit price of a product for each tier
type TierPrices struct {
	First  decimal.Decimal `json:"first"`
	Second decimal.Decimal `json:"second"`
	Third  decimal.Decimal `json:"third"`
}

// ForTier returns the price for the given tier
func (p TierPrices) ForTier(tier PriceTier) decimal.Decimal {
	switch tier {
	case TierFirst:
		return p.First
	case TierSecond:
		return p.Second
	default:
		return p.Third
	}
}

// PriceTable maps product names to their tiered unit prices.
// It is immutable after construction.
type PriceTable struct {
	prices map[ProductName]TierPrices
}

// NewPriceTable creates a price table from the given entries
func NewPriceTable(entries map[ProductName]TierPrices) *PriceTable {
	prices := make(map[ProductName]TierPrices, len(entries))
	for name, p := range entries {
		prices[name] = p
	}
	return &PriceTable{prices: prices}
}

// DefaultPriceTable returns the store's fixed price list
func DefaultPriceTable() *PriceTable {
	return defaultPriceTable
}

var defaultPriceTable = NewPriceTable(map[ProductName]TierPrices{
	ProductBandana:            tiers("10.99", "2.99", "2.99"),
	ProductCollar:             tiers("13.99", "8.99", "7.99"),
	ProductBowTieCollar:       tiers("15.99", "11.49", "10.49"),
	ProductFlowerCollar:       tiers("16.99", "12.00", "11.49"),
	ProductHarness:            tiers("14.99", "11.99", "10.99"),
	ProductLeash:              tiers("12.99", "6.99", "6.99"),
	ProductPoopBagHolder:      tiers("10.99", "2.99", "2.99"),
	ProductLeashPoopBagHolder: tiers("15.98", "9.98", "9.98"),
	ProductBowTieCollarLeash:  tiers("19.99", "15.99", "15.49"),
	ProductFlowerCollarLeash:  tiers("19.99", "15.99", "15.49"),
	ProductBundle:             tiers("23.99", "18.99", "17.99"),
	ProductBowMegaBundle:      tiers("31.99", "26.99", "26.99"),
	ProductFlowerMegaBundle:   tiers("31.99", "26.99", "26.99"),
	ProductCozyFleeceVest:     tiers("0.00", "0.00", "0.00"),
	ProductZoomiesRainVest:    tiers("0.00", "0.00", "0.00"),
	ProductCustomEngraving:    tiers("6.99", "6.99", "6.99"),
})

func tiers(first, second, third string) TierPrices {
	return TierPrices{
		First:  decimal.RequireFromString(first),
		Second: decimal.RequireFromString(second),
		Third:  decimal.RequireFromString(third),
	}
}

// Lookup returns the tier prices for name, and whether the name is priced
func (t *PriceTable) Lookup(name ProductName) (TierPrices, bool) {
	p, ok := t.prices[name]
	return p, ok
}

// Price returns the unit price of name at the given zero-based position.
// Names missing from the table price at zero.
func (t *PriceTable) Price(name ProductName, position int) decimal.Decimal {
	p, ok := t.prices[name]
	if !ok {
		return decimal.Zero
	}
	return p.ForTier(TierForPosition(position))
}

// Price prices name at position with the default table
func Price(name ProductName, position int) decimal.Decimal {
	return defaultPriceTable.Price(name, position)
}
