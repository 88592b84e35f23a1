package behavior

import (
	"math"

	"bazaarIntel/domain"
)

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// calculateIntentScore normalizes the weighted sum of event types into [0,1].
// The 1.5 divisor keeps a pure-browsing history from saturating the score.
func calculateIntentScore(events []domain.AnalyticsEvent, cfg Config) float64 {
	if len(events) == 0 {
		return 0
	}

	totalScore := 0.0
	for _, event := range events {
		totalScore += cfg.intentWeight(event.EventType)
	}

	normalized := math.Min(totalScore/(float64(len(events))*1.5), 1.0)

	return round2(normalized)
}

// classifyPriceSensitivity buckets the average viewed price. High averages
// mean the user is comfortable with expensive items, so sensitivity is low.
func classifyPriceSensitivity(avgPrice float64, cfg Config) string {
	switch {
	case avgPrice > cfg.PriceThresholdLow:
		return domain.PriceSensitivityLow
	case avgPrice > cfg.PriceThresholdMedium:
		return domain.PriceSensitivityMedium
	default:
		return domain.PriceSensitivityHigh
	}
}

// purchaseProbabilityWindow bounds how far back the probability looks.
const purchaseProbabilityWindow = 100

// calculatePurchaseProbability combines cart additions, repeat visits and
// browsing depth over the most recent events, with a flat bonus for users
// who have purchased before. Events must be ordered newest first.
func calculatePurchaseProbability(events []domain.AnalyticsEvent, cfg Config) float64 {
	recent := events
	if len(recent) > purchaseProbabilityWindow {
		recent = recent[:purchaseProbabilityWindow]
	}

	var cartAdds, purchases, visits, views int
	for _, event := range recent {
		switch event.EventType {
		case domain.EventAddToCart:
			cartAdds++
		case domain.EventPurchase:
			purchases++
		case domain.EventShopVisit:
			visits++
		case domain.EventProductView:
			views++
		}
	}

	cartScore := math.Min(float64(cartAdds)/10, 1.0) * cfg.WeightCartAdds
	repeatScore := math.Min(float64(visits)/20, 1.0) * cfg.WeightRepeatVisits
	browsingScore := math.Min(float64(views)/50, 1.0) * cfg.WeightBrowsing

	purchaseBoost := 0.0
	if purchases > 0 {
		purchaseBoost = 0.2
	}

	probability := math.Min(cartScore+repeatScore+browsingScore+purchaseBoost, 1.0)

	return round2(probability)
}

// affinityBoost maps an interaction type to its affinity score increment.
func affinityBoost(eventType domain.EventType) float64 {
	switch eventType {
	case domain.EventProductView:
		return 0.1
	case domain.EventAddToCart:
		return 0.3
	case domain.EventPurchase:
		return 1.0
	default:
		return 0.05
	}
}
