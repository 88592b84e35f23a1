package recommendation

import (
	"sort"

	"bazaarIntel/domain"
)

// ScoredProduct is a recommendation candidate with its merged score.
type ScoredProduct struct {
	domain.Product
	Score float64 `json:"score"`
}

type scoredSource struct {
	products []domain.Product
	weight   float64
}

// mergeRecommendations fuses the candidate lists with positional weighted
// scoring: a product at index i of a source of length n contributes
// ((n-i)/n) * weight, and scores for the same product are summed across
// sources. A product absent from a source simply contributes nothing.
func mergeRecommendations(sources []scoredSource, limit int) []ScoredProduct {
	scores := make(map[uint64]int) // product id -> index into merged
	merged := make([]ScoredProduct, 0)

	for _, source := range sources {
		n := len(source.products)
		for i, product := range source.products {
			positionScore := float64(n-i) / float64(n)
			score := positionScore * source.weight

			if idx, ok := scores[product.ID]; ok {
				merged[idx].Score += score
			} else {
				scores[product.ID] = len(merged)
				merged = append(merged, ScoredProduct{Product: product, Score: score})
			}
		}
	}

	// stable sort keeps first-seen order on equal scores
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}

	return merged
}
