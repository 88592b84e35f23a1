package insights

import (
	"fmt"
	"math"
	"time"
)

const (
	classHighPerformer         = "high_performer"
	classHighViewLowConversion = "high_view_low_conversion"
	classModeratePerformer     = "moderate_performer"
	classLowVisibility         = "low_visibility"
	classNew                   = "new"

	// below this cart-to-order ratio the shop gets a cart recovery nudge
	cartRecoveryThreshold = 0.3
)

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// classifyProduct buckets a product by its 30-day views and view-to-cart
// conversion. Products with meaningful traffic get performance classes;
// stocked products nobody sees get flagged for visibility.
func classifyProduct(c ProductEventCounts) ProductInsight {
	conversion := 0.0
	if c.Views > 0 {
		conversion = float64(c.CartAdds) / float64(c.Views)
	}

	class := classNew
	recommendation := "Monitor performance"

	if c.Views > 50 {
		switch {
		case conversion < 0.05:
			class = classHighViewLowConversion
			recommendation = "Consider price adjustment or better product images"
		case conversion > 0.2:
			class = classHighPerformer
			recommendation = "Increase stock and promote more"
		default:
			class = classModeratePerformer
			recommendation = "Optimize product description"
		}
	} else if c.Views < 10 && c.Stock > 0 {
		class = classLowVisibility
		recommendation = "Improve SEO and product positioning"
	}

	return ProductInsight{
		ProductID:      c.ProductID,
		Name:           c.Name,
		Price:          c.Price,
		Stock:          c.Stock,
		Views:          c.Views,
		CartAdds:       c.CartAdds,
		ConversionRate: round2(conversion * 100),
		Class:          class,
		Recommendation: recommendation,
	}
}

// classifyPricing positions the shop against category competitors:
// premium above 1.2x the competitor average, budget below 0.8x.
func classifyPricing(shopAvg, competitorAvg float64) (string, string) {
	switch {
	case shopAvg > competitorAvg*1.2:
		return "premium", "Your prices are above market average. Ensure quality and branding justify premium pricing."
	case shopAvg < competitorAvg*0.8:
		return "budget", "Your prices are below market average. Consider slight increase to improve margins."
	default:
		return "average", "Your pricing is competitive"
	}
}

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func slowDaySuggestion(dayOfWeek int) PromotionSuggestion {
	name := "Sunday"
	if dayOfWeek >= 0 && dayOfWeek < len(dayNames) {
		name = dayNames[dayOfWeek]
	}

	return PromotionSuggestion{
		Type:           "time_based",
		Priority:       "medium",
		Title:          "Boost Slow Days",
		Description:    fmt.Sprintf("%s has the lowest traffic. Consider running flash sales on this day.", name),
		ExpectedImpact: "15-25% traffic increase",
	}
}

func cartRecoverySuggestion() PromotionSuggestion {
	return PromotionSuggestion{
		Type:           "cart_recovery",
		Priority:       "high",
		Title:          "Reduce Cart Abandonment",
		Description:    "High cart abandonment detected. Offer free shipping or small discount for completing purchase.",
		ExpectedImpact: "10-20% conversion increase",
	}
}

// holidaySeason covers the Nov-Jan shopping peak.
func holidaySeason(month time.Month) bool {
	return month == time.November || month == time.December || month == time.January
}

func seasonalSuggestion() PromotionSuggestion {
	return PromotionSuggestion{
		Type:           "seasonal",
		Priority:       "high",
		Title:          "Holiday Season Promotion",
		Description:    "Run holiday-themed promotions and gift bundles to capitalize on seasonal shopping.",
		ExpectedImpact: "30-50% sales increase",
	}
}
