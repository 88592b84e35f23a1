package recommendation

import "bazaarIntel/domain"

// PriceBand is an inclusive price range in IRR.
type PriceBand struct {
	Min float64
	Max float64
}

// Config holds the merge weights and the price bands keyed by sensitivity.
type Config struct {
	WeightAffinity      float64
	WeightCategory      float64
	WeightPrice         float64
	WeightCollaborative float64

	// max intent score distance for two users to count as similar
	SimilarIntentDelta float64
	// how many similar users collaborative filtering considers
	SimilarUserLimit int

	PriceBandLow    PriceBand
	PriceBandMedium PriceBand
	PriceBandHigh   PriceBand
}

const (
	defaultWeightAffinity      = 0.4
	defaultWeightCategory      = 0.3
	defaultWeightPrice         = 0.2
	defaultWeightCollaborative = 0.1
	defaultSimilarIntentDelta  = 0.3
	defaultSimilarUserLimit    = 10
)

func DefaultConfig() Config {
	return Config{
		WeightAffinity:      defaultWeightAffinity,
		WeightCategory:      defaultWeightCategory,
		WeightPrice:         defaultWeightPrice,
		WeightCollaborative: defaultWeightCollaborative,

		SimilarIntentDelta: defaultSimilarIntentDelta,
		SimilarUserLimit:   defaultSimilarUserLimit,

		PriceBandLow:    PriceBand{Min: 1000000, Max: 999999999},
		PriceBandMedium: PriceBand{Min: 300000, Max: 1000000},
		PriceBandHigh:   PriceBand{Min: 0, Max: 300000},
	}
}

func (c Config) priceBand(sensitivity string) PriceBand {
	switch sensitivity {
	case domain.PriceSensitivityLow:
		return c.PriceBandLow
	case domain.PriceSensitivityHigh:
		return c.PriceBandHigh
	default:
		return c.PriceBandMedium
	}
}
