package behavior

import "bazaarIntel/domain"

// Config carries the scoring weights and thresholds of the behavior engine.
// Values come from pkg/config at wiring time; defaults match the documented
// scoring formulas.
type Config struct {
	// per event type contribution to the intent score
	IntentWeightProductView float64
	IntentWeightAddToCart   float64
	IntentWeightPurchase    float64
	IntentWeightShopVisit   float64
	IntentWeightDefault     float64

	// price sensitivity thresholds in IRR; average viewed price above Low
	// classifies as "low" sensitivity, above Medium as "medium",
	// everything else as "high"
	PriceThresholdLow    float64
	PriceThresholdMedium float64

	// purchase probability sub-weights
	WeightCartAdds     float64
	WeightRepeatVisits float64
	WeightBrowsing     float64
}

const (
	defaultIntentWeightProductView = 0.3
	defaultIntentWeightAddToCart   = 0.5
	defaultIntentWeightPurchase    = 1.0
	defaultIntentWeightShopVisit   = 0.2
	defaultIntentWeightUnknown     = 0.1
	defaultPriceThresholdLow       = 1000000
	defaultPriceThresholdMedium    = 500000
	defaultWeightCartAdds          = 0.4
	defaultWeightRepeatVisits      = 0.3
	defaultWeightBrowsing          = 0.3
)

func DefaultConfig() Config {
	return Config{
		IntentWeightProductView: defaultIntentWeightProductView,
		IntentWeightAddToCart:   defaultIntentWeightAddToCart,
		IntentWeightPurchase:    defaultIntentWeightPurchase,
		IntentWeightShopVisit:   defaultIntentWeightShopVisit,
		IntentWeightDefault:     defaultIntentWeightUnknown,

		PriceThresholdLow:    defaultPriceThresholdLow,
		PriceThresholdMedium: defaultPriceThresholdMedium,

		WeightCartAdds:     defaultWeightCartAdds,
		WeightRepeatVisits: defaultWeightRepeatVisits,
		WeightBrowsing:     defaultWeightBrowsing,
	}
}

func (c Config) intentWeight(t domain.EventType) float64 {
	switch t {
	case domain.EventProductView:
		return c.IntentWeightProductView
	case domain.EventAddToCart:
		return c.IntentWeightAddToCart
	case domain.EventPurchase:
		return c.IntentWeightPurchase
	case domain.EventShopVisit:
		return c.IntentWeightShopVisit
	default:
		return c.IntentWeightDefault
	}
}
