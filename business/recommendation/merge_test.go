package recommendation

import (
	"testing"

	"bazaarIntel/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func products(ids ...uint64) []domain.Product {
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Product{ID: id})
	}
	return out
}

func TestMergeRecommendations(t *testing.T) {
	t.Run("positional scoring within one source", func(t *testing.T) {
		merged := mergeRecommendations([]scoredSource{
			{products: products(1, 2, 3, 4, 5), weight: 0.4},
		}, 10)

		require.Len(t, merged, 5)
		// first position: (5/5) * 0.4
		assert.InDelta(t, 0.4, merged[0].Score, 1e-9)
		assert.Equal(t, uint64(1), merged[0].ID)
		// last position: (1/5) * 0.4
		assert.InDelta(t, 0.08, merged[4].Score, 1e-9)
	})

	t.Run("scores sum across sources", func(t *testing.T) {
		merged := mergeRecommendations([]scoredSource{
			{products: products(1, 2, 3, 4, 5), weight: 0.4},
			{products: products(9, 8, 7, 6, 1), weight: 0.3},
		}, 10)

		// product 1: top affinity 0.4 plus last category position (1/5)*0.3
		require.Equal(t, uint64(1), merged[0].ID)
		assert.InDelta(t, 0.46, merged[0].Score, 1e-9)
	})

	t.Run("truncates to limit", func(t *testing.T) {
		merged := mergeRecommendations([]scoredSource{
			{products: products(1, 2, 3, 4, 5, 6, 7, 8), weight: 0.4},
		}, 5)

		assert.Len(t, merged, 5)
	})

	t.Run("empty sources contribute nothing", func(t *testing.T) {
		merged := mergeRecommendations([]scoredSource{
			{products: nil, weight: 0.4},
			{products: products(3), weight: 0.2},
			{products: nil, weight: 0.1},
		}, 5)

		require.Len(t, merged, 1)
		assert.Equal(t, uint64(3), merged[0].ID)
		assert.InDelta(t, 0.2, merged[0].Score, 1e-9)
	})

	t.Run("stable order on equal scores", func(t *testing.T) {
		merged := mergeRecommendations([]scoredSource{
			{products: products(1), weight: 0.2},
			{products: products(2), weight: 0.2},
		}, 5)

		require.Len(t, merged, 2)
		assert.Equal(t, uint64(1), merged[0].ID)
		assert.Equal(t, uint64(2), merged[1].ID)
	})
}

func TestPriceBand(t *testing.T) {
	cfg := DefaultConfig()

	low := cfg.priceBand(domain.PriceSensitivityLow)
	assert.Equal(t, 1000000.0, low.Min)

	medium := cfg.priceBand(domain.PriceSensitivityMedium)
	assert.Equal(t, 300000.0, medium.Min)
	assert.Equal(t, 1000000.0, medium.Max)

	high := cfg.priceBand(domain.PriceSensitivityHigh)
	assert.Equal(t, 0.0, high.Min)
	assert.Equal(t, 300000.0, high.Max)

	// unrecognized sensitivity falls back to the medium band
	unknown := cfg.priceBand("unknown")
	assert.Equal(t, medium, unknown)
}
