package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrandSummaryRange(t *testing.T) {
	t.Run("bounded by top 100 section", func(t *testing.T) {
		texts := []string{
			"MONTHLY REPORT COVER",
			"TABLE OF CONTENTS",
			"BRAND SUMMARY - CASE SALES ALL CONTROL STATES",
			"BRAND SUMMARY - CASE SALES ALL CONTROL STATES",
			"BRAND SUMMARY - CASE SALES ALL CONTROL STATES",
			"TOP 100 - VENDORS",
		}
		r, ok := brandSummaryRange(texts)
		require.True(t, ok)
		assert.Equal(t, Range{Start: 3, End: 5}, r)
		assert.Equal(t, 3, r.Count())
	})

	t.Run("vendor summary header only ends section after lookahead", func(t *testing.T) {
		texts := make([]string, 0, 16)
		texts = append(texts, "COVER")
		for i := 0; i < 13; i++ {
			texts = append(texts, "BRAND SUMMARY ALL CONTROL STATES")
		}
		texts = append(texts, "VENDOR SUMMARY ALL CONTROL STATES")

		r, ok := brandSummaryRange(texts)
		require.True(t, ok)
		assert.Equal(t, 2, r.Start)
		assert.Equal(t, 14, r.End)
	})

	t.Run("missing section", func(t *testing.T) {
		_, ok := brandSummaryRange([]string{"COVER", "TOP 100 - VENDORS"})
		assert.False(t, ok)
	})

	t.Run("unterminated section capped", func(t *testing.T) {
		texts := []string{"COVER", "BRAND SUMMARY ALL CONTROL STATES", "", ""}
		r, ok := brandSummaryRange(texts)
		require.True(t, ok)
		assert.Equal(t, Range{Start: 2, End: 4}, r)
	})
}

func TestVendorSummaryRange(t *testing.T) {
	t.Run("skips by-class and top-20 variants", func(t *testing.T) {
		texts := []string{
			"VENDOR SUMMARY - TOP 20 ALL CONTROL STATES",
			"VENDOR SUMMARY ALL CONTROL STATES",
			"VENDOR SUMMARY ALL CONTROL STATES BY CLASS",
			"VENDOR SUMMARY ALL CONTROL STATES",
		}
		r, ok := vendorSummaryRange(texts)
		require.True(t, ok)
		assert.Equal(t, Range{Start: 2, End: 4}, r)
	})

	t.Run("missing section", func(t *testing.T) {
		_, ok := vendorSummaryRange([]string{"BRAND SUMMARY ALL CONTROL STATES"})
		assert.False(t, ok)
	})
}
