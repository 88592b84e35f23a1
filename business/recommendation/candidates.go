package recommendation

import (
	"context"

	"bazaarIntel/domain"
	"bazaarIntel/pkg/logger"
)

// Each candidate generator swallows its own failure and returns an empty
// list so one dead strategy never drags down the merge.

// affinityCandidates surfaces in-stock products from the same categories as
// the user's highest-affinity products, excluding those products themselves.
func (s *Service) affinityCandidates(ctx context.Context, userID uint64, limit int) []domain.Product {
	affinities, err := s.affinities.TopByUser(ctx, userID, limit)
	if err != nil {
		logger.Error("affinity candidates failed", "user_id", userID, "error", err)
		return nil
	}
	if len(affinities) == 0 {
		return nil
	}

	ids := make([]uint64, 0, len(affinities))
	for _, a := range affinities {
		ids = append(ids, a.ProductID)
	}

	liked, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		logger.Error("affinity candidates failed", "user_id", userID, "error", err)
		return nil
	}

	seen := make(map[string]struct{})
	categories := make([]string, 0, len(liked))
	for _, p := range liked {
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			categories = append(categories, p.Category)
		}
	}

	similar, err := s.products.InStockByCategories(ctx, categories, ids, limit)
	if err != nil {
		logger.Error("affinity candidates failed", "user_id", userID, "error", err)
		return nil
	}

	return similar
}

// categoryCandidates returns the newest in-stock products in the user's
// favorite category, excluding everything the user has already interacted
// with.
func (s *Service) categoryCandidates(ctx context.Context, userID uint64, category *string, limit int) []domain.Product {
	if category == nil || *category == "" {
		return nil
	}

	viewed, err := s.events.ViewedProductIDs(ctx, userID)
	if err != nil {
		logger.Error("category candidates failed", "user_id", userID, "error", err)
		return nil
	}

	products, err := s.products.NewestInShopCategory(ctx, *category, viewed, limit)
	if err != nil {
		logger.Error("category candidates failed", "user_id", userID, "error", err)
		return nil
	}

	return products
}

// priceCandidates samples in-stock products from the price band matching the
// user's sensitivity, in random order.
func (s *Service) priceCandidates(ctx context.Context, sensitivity string, limit int) []domain.Product {
	band := s.cfg.priceBand(sensitivity)

	products, err := s.products.RandomInPriceRange(ctx, band.Min, band.Max, limit)
	if err != nil {
		logger.Error("price candidates failed", "sensitivity", sensitivity, "error", err)
		return nil
	}

	return products
}

// collaborativeCandidates finds users with a similar profile and surfaces
// products they like that the target user has no affinity for yet.
func (s *Service) collaborativeCandidates(ctx context.Context, userID uint64, profile *domain.UserAIProfile, limit int) []domain.Product {
	similar, err := s.profiles.FindSimilar(ctx, profile, s.cfg.SimilarIntentDelta, s.cfg.SimilarUserLimit)
	if err != nil {
		logger.Error("collaborative candidates failed", "user_id", userID, "error", err)
		return nil
	}
	if len(similar) == 0 {
		return nil
	}

	userIDs := make([]uint64, 0, len(similar))
	for _, p := range similar {
		userIDs = append(userIDs, p.UserID)
	}

	products, err := s.affinities.LikedBySimilarUsers(ctx, userIDs, userID, limit)
	if err != nil {
		logger.Error("collaborative candidates failed", "user_id", userID, "error", err)
		return nil
	}

	return products
}
