package traffic

import "math"

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// computeTrafficScore turns visit counts into a 0-100 score: up to 50 points
// for volume, 30 for growth over the preceding window, 20 for the unique
// visitor ratio. Decline never subtracts points.
func computeTrafficScore(current VisitCounts, previousVisits int64) TrafficScore {
	growthRate := 0.0
	if previousVisits > 0 {
		growthRate = float64(current.Visits-previousVisits) / float64(previousVisits) * 100
	}

	volumeScore := math.Min(float64(current.Visits)/100*50, 50)
	growthScore := math.Min(math.Max(growthRate, 0)/100*30, 30)

	uniqueRatio := 0.0
	if current.Visits > 0 {
		uniqueRatio = float64(current.UniqueVisitors) / float64(current.Visits)
	}
	uniqueScore := uniqueRatio * 20

	return TrafficScore{
		Score:          round2(volumeScore + growthScore + uniqueScore),
		Visits:         current.Visits,
		UniqueVisitors: current.UniqueVisitors,
		GrowthRate:     round2(growthRate),
		Period:         "30 days",
	}
}

// computeEngagementScore turns interaction counts into a 0-100 score: up to
// 40 points for product views per visit, 40 for the cart add rate, 20 for
// returning visitors.
func computeEngagementScore(counts EngagementCounts) EngagementScore {
	avgViewsPerVisit := 0.0
	if counts.Visits > 0 {
		avgViewsPerVisit = float64(counts.ProductViews) / float64(counts.Visits)
	}

	cartAddRate := 0.0
	if counts.ProductViews > 0 {
		cartAddRate = float64(counts.CartAdds) / float64(counts.ProductViews)
	}

	returnVisitorRate := 0.0
	if counts.Visits > 0 && counts.UniqueUsers > 0 {
		returnVisitorRate = float64(counts.Visits-counts.UniqueUsers) / float64(counts.Visits)
		returnVisitorRate = math.Max(returnVisitorRate, 0)
	}

	viewsScore := math.Min(avgViewsPerVisit*10, 40)
	cartScore := cartAddRate * 100 * 0.4
	returnScore := returnVisitorRate * 20

	return EngagementScore{
		Score:                   round2(viewsScore + cartScore + returnScore),
		AvgProductViewsPerVisit: round2(avgViewsPerVisit),
		CartAddRate:             round2(cartAddRate * 100),
		ReturnVisitorRate:       round2(returnVisitorRate * 100),
	}
}
