package catalog

// ProductName is the canonical label of a product line, derived from a SKU.
type ProductName string

const (
	ProductBandana            ProductName = "Bandana"
	ProductCollar             ProductName = "Collar"
	ProductBowTieCollar       ProductName = "Bow Tie Collar"
	ProductFlowerCollar       ProductName = "Flower Collar"
	ProductHarness            ProductName = "Harness"
	ProductLeash              ProductName = "Leash"
	ProductPoopBagHolder      ProductName = "Poop Bag Holder"
	ProductLeashPoopBagHolder ProductName = "Leash + Poop Bag Holder"
	ProductBowTieCollarLeash  ProductName = "Bow Tie Collar & Leash"
	ProductFlowerCollarLeash  ProductName = "Flower Collar & Leash"
	ProductBundle             ProductName = "Bundle"
	ProductBowMegaBundle      ProductName = "Bow Mega Bundle"
	ProductFlowerMegaBundle   ProductName = "Flower Mega Bundle"
	ProductCozyFleeceVest     ProductName = "Cozy Fleece Vest"
	ProductZoomiesRainVest    ProductName = "Zoomies Rain Vest"
	ProductCustomEngraving    ProductName = "Custom Engraving"
	ProductUnidentified       ProductName = "Unidentified"
)

// AllProductNames returns every label that has an entry in the price table.
// Unidentified is not included.
func AllProductNames() []ProductName {
	return []ProductName{
		ProductBandana,
		ProductCollar,
		ProductBowTieCollar,
		ProductFlowerCollar,
		ProductHarness,
		ProductLeash,
		ProductPoopBagHolder,
		ProductLeashPoopBagHolder,
		ProductBowTieCollarLeash,
		ProductFlowerCollarLeash,
		ProductBundle,
		ProductBowMegaBundle,
		ProductFlowerMegaBundle,
		ProductCozyFleeceVest,
		ProductZoomiesRainVest,
		ProductCustomEngraving,
	}
}

// IsIdentified returns false only for the Unidentified sentinel
func (n ProductName) IsIdentified() bool {
	return n != ProductUnidentified
}

// String returns the string representation of ProductName
func (n ProductName) String() string {
	return string(n)
}
