package behavior

import (
	"context"
	"fmt"
	"time"

	"bazaarIntel/domain"
	"bazaarIntel/pkg/logger"
)

// How much history each recompute looks at.
const (
	eventHistoryLimit     = 1000
	priceSensitivityViews = 50
)

// ---- Repository interfaces ----

type EventRepository interface {
	// RecentByUser returns the user's events ordered newest first.
	RecentByUser(ctx context.Context, userID uint64, limit int) ([]domain.AnalyticsEvent, error)
	// FavoriteCategory returns the shop category the user interacts with
	// most, or nil when the user has no categorized activity.
	FavoriteCategory(ctx context.Context, userID uint64) (*string, error)
}

type ProductRepository interface {
	AveragePrice(ctx context.Context, ids []uint64) (float64, error)
}

type ProfileRepository interface {
	Upsert(ctx context.Context, profile *domain.UserAIProfile) error
	FindByUserID(ctx context.Context, userID uint64) (*domain.UserAIProfile, error)
}

type AffinityRepository interface {
	// ApplyBoost inserts the (user, product) row with the boost as initial
	// score, or adds the boost capped at 1.0 and bumps view_count.
	ApplyBoost(ctx context.Context, userID, productID uint64, boost float64, now time.Time) error
}

// ---- Usecase / Service ----

type Service struct {
	events     EventRepository
	products   ProductRepository
	profiles   ProfileRepository
	affinities AffinityRepository
	cfg        Config
	now        func() time.Time
}

func NewService(
	events EventRepository,
	products ProductRepository,
	profiles ProfileRepository,
	affinities AffinityRepository,
	cfg Config,
) *Service {
	return &Service{
		events:     events,
		products:   products,
		profiles:   profiles,
		affinities: affinities,
		cfg:        cfg,
		now:        time.Now,
	}
}

// ProcessUserBehavior recomputes the user's profile from event history and
// upserts it wholesale. Returns (nil, nil) for users with no events. This is
// the authoritative profile write, so read/write failures propagate.
func (s *Service) ProcessUserBehavior(ctx context.Context, userID uint64) (*domain.UserAIProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	events, err := s.events.RecentByUser(ctx, userID, eventHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load user events: %w", err)
	}

	if len(events) == 0 {
		return nil, nil
	}

	intentScore := calculateIntentScore(events, s.cfg)
	priceSensitivity := s.calculatePriceSensitivity(ctx, events)
	favoriteCategory := s.calculateFavoriteCategory(ctx, userID)
	purchaseProbability := calculatePurchaseProbability(events, s.cfg)

	now := s.now()
	profile := &domain.UserAIProfile{
		UserID:              userID,
		IntentScore:         intentScore,
		PriceSensitivity:    priceSensitivity,
		FavoriteCategory:    favoriteCategory,
		PurchaseProbability: purchaseProbability,
		TotalEvents:         len(events),
		LastActivity:        now,
		UpdatedAt:           now,
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to upsert user profile: %w", err)
	}

	return profile, nil
}

// calculatePriceSensitivity averages the prices of up to the 50 most recent
// viewed products. Degrades to "medium" when the user has no views or the
// price lookup fails.
func (s *Service) calculatePriceSensitivity(ctx context.Context, events []domain.AnalyticsEvent) string {
	productIDs := make([]uint64, 0, priceSensitivityViews)
	for _, event := range events {
		if event.EventType == domain.EventProductView && event.ProductID != nil {
			productIDs = append(productIDs, *event.ProductID)
			if len(productIDs) == priceSensitivityViews {
				break
			}
		}
	}

	if len(productIDs) == 0 {
		return domain.PriceSensitivityMedium
	}

	avgPrice, err := s.products.AveragePrice(ctx, productIDs)
	if err != nil {
		logger.Error("failed to calculate price sensitivity", "error", err)
		return domain.PriceSensitivityMedium
	}

	return classifyPriceSensitivity(avgPrice, s.cfg)
}

func (s *Service) calculateFavoriteCategory(ctx context.Context, userID uint64) *string {
	category, err := s.events.FavoriteCategory(ctx, userID)
	if err != nil {
		logger.Error("failed to calculate favorite category", "user_id", userID, "error", err)
		return nil
	}

	return category
}

// UpdateProductAffinity applies the event's boost to the (user, product)
// affinity row. Callers on the non-critical path log and swallow the error.
func (s *Service) UpdateProductAffinity(ctx context.Context, userID, productID uint64, eventType domain.EventType) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	boost := affinityBoost(eventType)

	if err := s.affinities.ApplyBoost(ctx, userID, productID, boost, s.now()); err != nil {
		return fmt.Errorf("failed to update product affinity: %w", err)
	}

	return nil
}

// GetUserProfile returns the stored profile, nil when none exists.
func (s *Service) GetUserProfile(ctx context.Context, userID uint64) (*domain.UserAIProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	return s.profiles.FindByUserID(ctx, userID)
}
