package catalog

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestClassify_EmptySKU(t *testing.T) {
	t.Run("empty string is a custom engraving", func(t *testing.T) {
		assert.Equal(t, ProductCustomEngraving, Classify(""))
	})

	t.Run("nil SKU is a custom engraving", func(t *testing.T) {
		assert.Equal(t, ProductCustomEngraving, ClassifySKU(nil))
	})

	t.Run("pointer to empty string is a custom engraving", func(t *testing.T) {
		assert.Equal(t, ProductCustomEngraving, ClassifySKU(strPtr("")))
	})
}

func TestClassify_NoMatch(t *testing.T) {
	tests := []string{
		"ZZZ999",
		"ca12",       // case sensitive
		"CA",         // no code
		"CA1234",     // code too long
		"CA12Q",      // unknown letter
		"CA12-XXL",   // unknown size
		"CA12Bundle", // bundle suffix is lowercase only
		"XCA12",      // anchored at the start
		"CA12B-M-L",  // only one size suffix
	}
	for _, sku := range tests {
		t.Run(sku, func(t *testing.T) {
			assert.Equal(t, ProductUnidentified, Classify(sku))
		})
	}
}

func TestClassify_Families(t *testing.T) {
	tests := []struct {
		code  string
		label ProductName
	}{
		{"12K", ProductBandana},
		{"12", ProductCollar},
		{"12A", ProductBowTieCollar},
		{"12F", ProductFlowerCollar},
		{"12H", ProductHarness},
		{"12B", ProductLeash},
		{"12P", ProductPoopBagHolder},
		{"12BP", ProductLeashPoopBagHolder},
		{"12AB", ProductBowTieCollarLeash},
		{"12FB", ProductFlowerCollarLeash},
		{"12bundle", ProductBundle},
		{"12Y", ProductCozyFleeceVest},
		{"12Z", ProductZoomiesRainVest},
		{"12-MB", ProductFlowerMegaBundle},
		{"12AB-MB", ProductFlowerMegaBundle},
		{"1234F-MB", ProductFlowerMegaBundle},
	}

	for _, family := range []string{"CA", "CAC"} {
		for _, tt := range tests {
			sku := family + tt.code
			t.Run(sku, func(t *testing.T) {
				assert.Equal(t, tt.label, Classify(sku))
			})
		}
	}
}

func TestClassify_SizeSuffixDoesNotChangeLabel(t *testing.T) {
	sizes := []string{"-XS", "-S", "-M", "-L", "-XL"}
	bases := []string{
		"CA7", "CA7K", "CA7A", "CA7F", "CA7H", "CA7B", "CA7P", "CA7BP", "CA7AB", "CA7FB",
		"CA7bundle", "CA7Y", "CA7Z", "CA7-MB",
		"CAC99", "CAC99K", "CAC99FB", "CAC99bundle", "CAC99AB-MB",
	}

	for _, base := range bases {
		want := Classify(base)
		require.True(t, want.IsIdentified(), "base SKU %s should be identified", base)
		for _, size := range sizes {
			assert.Equal(t, want, Classify(base+size), "SKU %s", base+size)
		}
	}
}

func TestClassify_CodeLength(t *testing.T) {
	assert.Equal(t, ProductCollar, Classify("CA1"))
	assert.Equal(t, ProductCollar, Classify("CA123"))
	assert.Equal(t, ProductUnidentified, Classify("CA1234"))
	// Mega bundles accept any code length
	assert.Equal(t, ProductFlowerMegaBundle, Classify("CA12345-MB"))
}

func TestClassify_WholeStringMatch(t *testing.T) {
	// "CA12B" is a prefix of "CA12BP" and must not short-circuit it
	assert.Equal(t, ProductLeash, Classify("CA12B"))
	assert.Equal(t, ProductLeashPoopBagHolder, Classify("CA12BP"))
	assert.Equal(t, ProductBowTieCollar, Classify("CA12A"))
	assert.Equal(t, ProductBowTieCollarLeash, Classify("CA12AB"))
	assert.Equal(t, ProductUnidentified, Classify("CA12BPX"))
}

func TestSKUClassifier_FirstMatchWins(t *testing.T) {
	classifier := NewSKUClassifier([]SKURule{
		{Pattern: regexp.MustCompile(`^X\d+$`), Label: ProductHarness},
		{Pattern: regexp.MustCompile(`^X1$`), Label: ProductLeash},
	})

	assert.Equal(t, ProductHarness, classifier.Classify("X1"))
	assert.Equal(t, ProductUnidentified, classifier.Classify("Y1"))
	assert.Equal(t, ProductCustomEngraving, classifier.Classify(""))
}

func TestSKUClassifier_RulesAreCopied(t *testing.T) {
	rules := []SKURule{
		{Pattern: regexp.MustCompile(`^A$`), Label: ProductHarness},
	}
	classifier := NewSKUClassifier(rules)
	rules[0].Label = ProductLeash

	assert.Equal(t, ProductHarness, classifier.Classify("A"))

	got := classifier.Rules()
	got[0].Label = ProductBundle
	assert.Equal(t, ProductHarness, classifier.Classify("A"))
}

func TestDefaultSKURules_MegaBundleHasSingleLabel(t *testing.T) {
	for _, rule := range DefaultSKURules() {
		assert.NotEqual(t, ProductBowMegaBundle, rule.Label)
	}
}

func TestDefaultSKURules_AllLabelsArePriced(t *testing.T) {
	table := DefaultPriceTable()
	for _, rule := range DefaultSKURules() {
		_, ok := table.Lookup(rule.Label)
		assert.True(t, ok, "label %q from pattern %s has no price", rule.Label, rule.Pattern)
	}
	_, ok := table.Lookup(ProductCustomEngraving)
	assert.True(t, ok)
}
