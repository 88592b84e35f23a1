package recommendation

import (
	"context"
	"sync"
	"time"

	"bazaarIntel/domain"
	"bazaarIntel/pkg/logger"
)

const trendingWindow = 7 * 24 * time.Hour

// ---- Repository interfaces ----

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uint64) (*domain.UserAIProfile, error)
	// FindSimilar returns profiles with the same favorite category and price
	// sensitivity whose intent score is within delta of the given profile.
	FindSimilar(ctx context.Context, profile *domain.UserAIProfile, delta float64, limit int) ([]domain.UserAIProfile, error)
}

type AffinityRepository interface {
	TopByUser(ctx context.Context, userID uint64, limit int) ([]domain.ProductAffinity, error)
	// LikedBySimilarUsers returns in-stock products the given users have
	// affinity rows for and the excluded user does not, ordered by how many
	// of them share the affinity.
	LikedBySimilarUsers(ctx context.Context, userIDs []uint64, excludeUserID uint64, limit int) ([]domain.Product, error)
}

type EventRepository interface {
	ViewedProductIDs(ctx context.Context, userID uint64) ([]uint64, error)
}

type ProductRepository interface {
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
	InStockByCategories(ctx context.Context, categories []string, exclude []uint64, limit int) ([]domain.Product, error)
	NewestInShopCategory(ctx context.Context, category string, exclude []uint64, limit int) ([]domain.Product, error)
	RandomInPriceRange(ctx context.Context, minPrice, maxPrice float64, limit int) ([]domain.Product, error)
	Trending(ctx context.Context, since time.Time, limit int) ([]domain.Product, error)
}

// ---- Usecase / Service ----

type Service struct {
	profiles   ProfileRepository
	affinities AffinityRepository
	events     EventRepository
	products   ProductRepository
	cfg        Config
	now        func() time.Time
}

func NewService(
	profiles ProfileRepository,
	affinities AffinityRepository,
	events EventRepository,
	products ProductRepository,
	cfg Config,
) *Service {
	return &Service{
		profiles:   profiles,
		affinities: affinities,
		events:     events,
		products:   products,
		cfg:        cfg,
		now:        time.Now,
	}
}

// GetRecommendations merges four candidate strategies into one ranked list.
// Users without a profile get the trending fallback. Recommendations are a
// soft-fail feature: every failure degrades to an empty list, never an error.
func (s *Service) GetRecommendations(ctx context.Context, userID uint64, limit int) ([]ScoredProduct, error) {
	if limit <= 0 {
		limit = 5
	}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to load profile for recommendations", "user_id", userID, "error", err)
		return []ScoredProduct{}, nil
	}

	if profile == nil {
		return s.trendingFallback(ctx, limit), nil
	}

	var (
		affinityBased []domain.Product
		categoryBased []domain.Product
		priceBased    []domain.Product
		collaborative []domain.Product
	)

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		affinityBased = s.affinityCandidates(ctx, userID, limit)
	}()
	go func() {
		defer wg.Done()
		categoryBased = s.categoryCandidates(ctx, userID, profile.FavoriteCategory, limit)
	}()
	go func() {
		defer wg.Done()
		priceBased = s.priceCandidates(ctx, profile.PriceSensitivity, limit)
	}()
	go func() {
		defer wg.Done()
		collaborative = s.collaborativeCandidates(ctx, userID, profile, limit)
	}()

	wg.Wait()

	return mergeRecommendations([]scoredSource{
		{products: affinityBased, weight: s.cfg.WeightAffinity},
		{products: categoryBased, weight: s.cfg.WeightCategory},
		{products: priceBased, weight: s.cfg.WeightPrice},
		{products: collaborative, weight: s.cfg.WeightCollaborative},
	}, limit), nil
}

// GetTrendingProducts returns the most viewed in-stock products of the last
// seven days. Also the cold-start path for profile-less users.
func (s *Service) GetTrendingProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 5
	}

	products, err := s.products.Trending(ctx, s.now().Add(-trendingWindow), limit)
	if err != nil {
		logger.Error("failed to get trending products", "error", err)
		return []domain.Product{}, nil
	}

	return products, nil
}

func (s *Service) trendingFallback(ctx context.Context, limit int) []ScoredProduct {
	products, _ := s.GetTrendingProducts(ctx, limit)

	out := make([]ScoredProduct, 0, len(products))
	for _, p := range products {
		out = append(out, ScoredProduct{Product: p})
	}

	return out
}
