package catalog

import (
	"regexp"
)

// sizeSuffix is the optional garment size appended to most SKUs.
// It never influences classification.
const sizeSuffix = `(-XS|-S|-M|-L|-XL)?`

// SKU families. CA and CAC codes map to the same labels for the same suffix.
const (
	familyCA  = "CA"
	familyCAC = "CAC"
)

// SKURule pairs an anchored SKU pattern with the label it resolves to
type SKURule struct {
	Pattern *regexp.Regexp
	Label   ProductName
}

// Matches reports whether the whole SKU matches the rule
func (r SKURule) Matches(sku string) bool {
	return r.Pattern.MatchString(sku)
}

// SKUClassifier maps raw SKUs to product names using an ordered rule list.
// The first matching rule wins, so rule order is significant.
type SKUClassifier struct {
	rules []SKURule
}

// NewSKUClassifier creates a classifier over the given rules, evaluated in order
func NewSKUClassifier(rules []SKURule) *SKUClassifier {
	copied := make([]SKURule, len(rules))
	copy(copied, rules)
	return &SKUClassifier{rules: copied}
}

// DefaultSKUClassifier returns the classifier for the store's SKU scheme
func DefaultSKUClassifier() *SKUClassifier {
	return defaultClassifier
}

var defaultClassifier = NewSKUClassifier(DefaultSKURules())

// Classify returns the label of the first rule matching sku.
// An empty SKU denotes a custom engraving; no rule is tested for it.
func (c *SKUClassifier) Classify(sku string) ProductName {
	if sku == "" {
		return ProductCustomEngraving
	}
	for _, rule := range c.rules {
		if rule.Matches(sku) {
			return rule.Label
		}
	}
	return ProductUnidentified
}

// ClassifySKU classifies an optional SKU. A nil SKU is treated as empty.
func (c *SKUClassifier) ClassifySKU(sku *string) ProductName {
	if sku == nil {
		return ProductCustomEngraving
	}
	return c.Classify(*sku)
}

// Rules returns a copy of the ordered rule list
func (c *SKUClassifier) Rules() []SKURule {
	result := make([]SKURule, len(c.rules))
	copy(result, c.rules)
	return result
}

// Classify classifies sku with the default rule set
func Classify(sku string) ProductName {
	return defaultClassifier.Classify(sku)
}

// ClassifySKU classifies an optional sku with the default rule set
func ClassifySKU(sku *string) ProductName {
	return defaultClassifier.ClassifySKU(sku)
}

// ---------------------------------------------------------------------------
// Rule set
// ---------------------------------------------------------------------------

// letterSuffixes lists the variant letters of a single family in rule order.
var letterSuffixes = []struct {
	suffix string
	label  ProductName
}{
	{"K", ProductBandana},
	{"", ProductCollar},
	{"A", ProductBowTieCollar},
	{"F", ProductFlowerCollar},
	{"H", ProductHarness},
	{"B", ProductLeash},
	{"P", ProductPoopBagHolder},
	{"BP", ProductLeashPoopBagHolder},
	{"AB", ProductBowTieCollarLeash},
	{"FB", ProductFlowerCollarLeash},
}

// DefaultSKURules builds the ordered rule list.
//
// Mega bundle SKUs (-MB) resolve to Flower Mega Bundle. No rule yields Bow Mega Bundle.
func DefaultSKURules() []SKURule {
	rules := make([]SKURule, 0, 2*len(letterSuffixes)+8)

	for _, family := range []string{familyCA, familyCAC} {
		for _, ls := range letterSuffixes {
			rules = append(rules, codeRule(family, ls.suffix, ls.label))
		}
	}

	rules = append(rules,
		codeRule(familyCA, "bundle", ProductBundle),
		codeRule(familyCAC, "bundle", ProductBundle),
		megaBundleRule(familyCA),
		megaBundleRule(familyCAC),
		codeRule(familyCA, "Y", ProductCozyFleeceVest),
		codeRule(familyCA, "Z", ProductZoomiesRainVest),
		codeRule(familyCAC, "Y", ProductCozyFleeceVest),
		codeRule(familyCAC, "Z", ProductZoomiesRainVest),
	)

	return rules
}

// codeRule matches <family><1-3 digits><suffix>[size]
func codeRule(family, suffix string, label ProductName) SKURule {
	return SKURule{
		Pattern: regexp.MustCompile(`^` + family + `\d{1,3}` + suffix + sizeSuffix + `$`),
		Label:   label,
	}
}

// megaBundleRule matches <family><digits><upper letters>-MB[size]
func megaBundleRule(family string) SKURule {
	return SKURule{
		Pattern: regexp.MustCompile(`^` + family + `\d+[A-Z]*-MB` + sizeSuffix + `$`),
		Label:   ProductFlowerMegaBundle,
	}
}
