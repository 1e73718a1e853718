package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabulary_Match(t *testing.T) {
	v := BrandSummaryClasses()

	t.Run("exact match", func(t *testing.T) {
		canon, exact, ok := v.Match("VODKA-CLASSIC-DOM")
		require.True(t, ok)
		assert.True(t, exact)
		assert.Equal(t, "VODKA-CLASSIC-DOM", canon)
	})

	t.Run("variant table hit", func(t *testing.T) {
		canon, exact, ok := v.Match("BRNDY/CGNC-ARMGNO")
		require.True(t, ok)
		assert.False(t, exact)
		assert.Equal(t, "BRNDY/CGNC-ARMGNC", canon)
	})

	t.Run("ampersand misread as eight", func(t *testing.T) {
		canon, _, ok := v.Match("CRDL-LQR8SPC-AMRT")
		require.True(t, ok)
		assert.Equal(t, "CRDL-LQR&SPC-AMRT", canon)
	})

	t.Run("spacing around dashes normalized", func(t *testing.T) {
		canon, _, ok := v.Match("GIN-CLASSIC- DOM")
		require.True(t, ok)
		assert.Equal(t, "GIN-CLASSIC-DOM", canon)
	})

	t.Run("header words stripped from tail", func(t *testing.T) {
		canon, _, ok := v.Match("VODKA-FLVRD-IMP NABCA")
		require.True(t, ok)
		assert.Equal(t, "VODKA-FLVRD-IMP", canon)
	})

	t.Run("fuzzy match within two character edits", func(t *testing.T) {
		// Two in-place misreads, same length.
		canon, exact, ok := v.Match("VODKA-CLASSIC-D0M")
		require.True(t, ok)
		assert.False(t, exact)
		assert.Equal(t, "VODKA-CLASSIC-DOM", canon)
	})

	t.Run("fuzzy rejects large length difference", func(t *testing.T) {
		_, _, ok := v.Match("VODKA-CLASSIC-DOMESTIC")
		assert.False(t, ok)
	})

	t.Run("fuzzy rejects below positional similarity", func(t *testing.T) {
		_, _, ok := v.Match("XXXXX-CLASSIC-DOM")
		assert.False(t, ok)
	})

	t.Run("brand names fall through", func(t *testing.T) {
		_, _, ok := v.Match("TITOS HANDMADE")
		assert.False(t, ok)

		_, _, ok = v.Match("JACK DANIELS")
		assert.False(t, ok)
	})

	t.Run("empty input", func(t *testing.T) {
		_, _, ok := v.Match("")
		assert.False(t, ok)
	})

	t.Run("truncated total row prefix", func(t *testing.T) {
		canon, _, ok := v.Match("NC-CGNC-VS")
		require.True(t, ok)
		assert.Equal(t, "BRNDY/CGNC-CGNC-VS", canon)
	})
}

func TestVocabulary_Combine(t *testing.T) {
	v := BrandSummaryClasses()

	t.Run("dash continuation with suffix", func(t *testing.T) {
		c := v.Combine("VODKA-CLASSIC-", "DOM")
		assert.True(t, c.IsSection)
		assert.Equal(t, "VODKA-CLASSIC-DOM", c.Label)
	})

	t.Run("dash continuation trusted without vocabulary hit", func(t *testing.T) {
		c := v.Combine("RUM-SPICED-", "GOLD")
		assert.True(t, c.IsSection)
		assert.Equal(t, "RUM-SPICED-GOLD", c.Label)
	})

	t.Run("hardcoded pair", func(t *testing.T) {
		c := v.Combine("NEUTRAL GRAIN", "SPIRIT")
		assert.True(t, c.IsSection)
		assert.Equal(t, "NEUTRAL GRAIN SPIRIT", c.Label)
	})

	t.Run("prefix plus suffix dash join", func(t *testing.T) {
		c := v.Combine("SCOTCH-BLND", "US BTLD")
		assert.True(t, c.IsSection)
		assert.Equal(t, "SCOTCH-BLND-US BTLD", c.Label)
	})

	t.Run("prefix plus suffix space join", func(t *testing.T) {
		c := v.Combine("DOM WHSKY-SNGL", "MALT")
		assert.True(t, c.IsSection)
		assert.Equal(t, "DOM WHSKY-SNGL MALT", c.Label)
	})

	t.Run("exact join preferred over fuzzy", func(t *testing.T) {
		// The dash join is exact; fuzzy resolution of alternate joins must
		// never shadow it.
		c := v.Combine("BRNDY/CGNC-CGNC", "VSOP")
		assert.True(t, c.IsSection)
		assert.Equal(t, "BRNDY/CGNC-CGNC-VSOP", c.Label)
	})

	t.Run("direct concatenation repairs mid-word split", func(t *testing.T) {
		c := v.Combine("CRDL-SNPS-BTRS", "CTCH")
		assert.True(t, c.IsSection)
		assert.Equal(t, "CRDL-SNPS-BTRSCTCH", c.Label)
	})

	t.Run("primary alone resolves only with empty secondary", func(t *testing.T) {
		c := v.Combine("TEQUILA-ANEJO", "")
		assert.True(t, c.IsSection)
		assert.Equal(t, "TEQUILA-ANEJO", c.Label)
	})

	t.Run("brand with filled secondary is not a section", func(t *testing.T) {
		c := v.Combine("TEQUILA-ANEJO", "PATRON")
		assert.False(t, c.IsSection)
	})

	t.Run("vendor name is not a section", func(t *testing.T) {
		c := v.Combine("STOLLER IMPORTS", "")
		assert.False(t, c.IsSection)
		assert.Equal(t, "STOLLER IMPORTS", c.Label)
	})
}

func TestVocabulary_IsSuffix(t *testing.T) {
	v := BrandSummaryClasses()

	assert.True(t, v.IsSuffix("DOM"))
	assert.True(t, v.IsSuffix("SNGL MALT"))
	assert.True(t, v.IsSuffix("malt"))
	assert.False(t, v.IsSuffix("STOLLER IMPORTS"))
	assert.False(t, v.IsSuffix(""))
	assert.False(t, v.IsSuffix("PATRON"))
}

func TestVocabulary_HasPrefix(t *testing.T) {
	v := BrandSummaryClasses()

	assert.True(t, v.HasPrefix("VODKA-CLASSIC"))
	assert.True(t, v.HasPrefix("DOM WHSKY-STRT"))
	assert.True(t, v.HasPrefix("CAN-FRGN BLND"))
	assert.False(t, v.HasPrefix("VODKATINI BRANDS"))
	assert.False(t, v.HasPrefix("DIAGEO"))
}

func TestVocabulary_IsTruncated(t *testing.T) {
	v := VendorSummaryClasses()

	assert.True(t, v.IsTruncated("WHISKE"))
	assert.True(t, v.IsTruncated("VOD"))
	assert.True(t, v.IsTruncated("IRISH WHIS"))
	assert.False(t, v.IsTruncated("VODKA"))
	assert.False(t, v.IsTruncated("IRISH WHISKEY"))
	assert.False(t, v.IsTruncated("STRAIGHT BOURBON"))
	assert.False(t, v.IsTruncated(""))
}

func TestVocabulary_RepairTruncated(t *testing.T) {
	v := VendorSummaryClasses()

	t.Run("prefix completion", func(t *testing.T) {
		got, ok := v.RepairTruncated("STRAIG")
		require.True(t, ok)
		assert.Equal(t, "STRAIGHT BOURBON", got)
	})

	t.Run("unrepairable returns input", func(t *testing.T) {
		got, ok := v.RepairTruncated("ZZZZZZ")
		assert.False(t, ok)
		assert.Equal(t, "ZZZZZZ", got)
	})
}

func TestVendorIndex(t *testing.T) {
	idx := NewVendorIndex([]string{
		"SAZERAC CO INC", "DIAGEO", "HEAVEN HILL BRANDS",
		"STOLI GROUP USA", "PROXIMO SPIRITS", "",
		"sazerac co inc", // duplicate in different case
	})

	assert.Equal(t, 5, idx.Len())

	t.Run("known vendor is not truncated", func(t *testing.T) {
		assert.True(t, idx.Known("DIAGEO"))
		assert.False(t, idx.IsTruncated("DIAGEO"))
	})

	t.Run("short fragment is truncated", func(t *testing.T) {
		assert.True(t, idx.IsTruncated("SAZ"))
	})

	t.Run("prefix of known vendor is truncated", func(t *testing.T) {
		assert.True(t, idx.IsTruncated("HEAVEN HILL"))
	})

	t.Run("unrelated name is not truncated", func(t *testing.T) {
		assert.False(t, idx.IsTruncated("BROWN-FORMAN"))
	})

	t.Run("repair by prefix completion", func(t *testing.T) {
		got, ok := idx.Repair("HEAVEN HILL")
		require.True(t, ok)
		assert.Equal(t, "HEAVEN HILL BRANDS", got)
	})

	t.Run("repair fails for distant names", func(t *testing.T) {
		got, ok := idx.Repair("CAMPARI AMERICA")
		assert.False(t, ok)
		assert.Equal(t, "CAMPARI AMERICA", got)
	})
}
