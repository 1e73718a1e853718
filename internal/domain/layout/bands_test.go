package layout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandSet_Classify(t *testing.T) {
	bands := NewBandSet(
		Band{Name: "left", XMin: 0.30, XMax: 0.40},
		Band{Name: "right", XMin: 0.40, XMax: 0.50},
	)

	t.Run("assigns by position and strips formatting", func(t *testing.T) {
		values, leftover := bands.Classify([]Token{
			{Text: "1,234", X: 0.35},
			{Text: "5%", X: 0.45},
		}, NumericFilter{})
		assert.Empty(t, leftover)
		assert.True(t, values["left"].Equal(decimal.NewFromInt(1234)))
		assert.True(t, values["right"].Equal(decimal.NewFromInt(5)))
	})

	t.Run("first value wins, duplicates never overwrite", func(t *testing.T) {
		values, _ := bands.Classify([]Token{
			{Text: "100", X: 0.32},
			{Text: "999", X: 0.38},
		}, NumericFilter{})
		assert.True(t, values["left"].Equal(decimal.NewFromInt(100)))
	})

	t.Run("non numeric and placeholder tokens skipped", func(t *testing.T) {
		values, leftover := bands.Classify([]Token{
			{Text: "BRAND", X: 0.35},
			{Text: "-", X: 0.35},
			{Text: "ON", X: 0.35},
			{Text: "", X: 0.35},
		}, NumericFilter{})
		assert.Empty(t, values)
		assert.Empty(t, leftover)
	})

	t.Run("zero filler never occupies a column", func(t *testing.T) {
		// "00" and ".00" are padding artifacts on subtotal rows. With
		// first-match-wins they would otherwise block the real value.
		values, _ := bands.Classify([]Token{
			{Text: "00", X: 0.32},
			{Text: ".00", X: 0.34},
			{Text: "4,521", X: 0.36},
		}, NumericFilter{})
		assert.True(t, values["left"].Equal(decimal.NewFromInt(4521)))
	})

	t.Run("unbanded values reported as leftover", func(t *testing.T) {
		_, leftover := bands.Classify([]Token{
			{Text: "42", X: 0.95},
		}, NumericFilter{})
		require.Len(t, leftover, 1)
		assert.Equal(t, "42", leftover[0].Text)
	})

	t.Run("integers only drops decimals", func(t *testing.T) {
		values, _ := bands.Classify([]Token{
			{Text: "12.5", X: 0.35},
			{Text: "12", X: 0.45},
		}, NumericFilter{IntegersOnly: true})
		assert.Empty(t, values["left"])
		assert.True(t, values["right"].Equal(decimal.NewFromInt(12)))
	})
}

func TestBandSet_OverlapPriority(t *testing.T) {
	// Deliberately overlapping bands: the earlier band claims the overlap
	// zone regardless of its position on the page.
	bands := NewBandSet(
		Band{Name: "favored", XMin: 0.75, XMax: 0.93},
		Band{Name: "fallback", XMin: 0.70, XMax: 0.83},
	)

	values, _ := bands.Classify([]Token{
		{Text: "10", X: 0.80}, // inside both
		{Text: "20", X: 0.72}, // only fallback
	}, NumericFilter{})

	assert.True(t, values["favored"].Equal(decimal.NewFromInt(10)))
	assert.True(t, values["fallback"].Equal(decimal.NewFromInt(20)))
}

func TestLooksLikePercentage(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"17.4", true},    // small non-integer decimal
		{"-3.25", true},   // negative change
		{"100.00", true},  // round percentage
		{"25.0", true},    // round percentage
		{"0.5", true},     // sub-one fraction
		{".00", true},     // bare fraction
		{"1234", false},   // plain case count
		{"1234.5", false}, // large decimal, real volume
		{"251.00", false}, // too large for the round-percentage rule
	}

	for _, c := range cases {
		val, err := decimal.NewFromString(c.text)
		require.NoError(t, err, c.text)
		assert.Equal(t, c.want, looksLikePercentage(c.text, val), c.text)
	}
}
