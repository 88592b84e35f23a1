package postgres

import (
	"context"
	"errors"
	"fmt"

	"bazaarIntel/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

// Upsert overwrites the whole profile row keyed by user_id; profiles are
// recomputed wholesale and never partially patched.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.UserAIProfile) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"intent_score",
				"price_sensitivity",
				"favorite_category",
				"purchase_probability",
				"total_events",
				"last_activity",
				"updated_at",
			}),
		},
	).Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user profile: %w", err)
	}

	return nil
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uint64) (*domain.UserAIProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var profile domain.UserAIProfile
	err := r.DB.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user profile: %w", err)
	}

	return &profile, nil
}

func (r *ProfileRepository) FindSimilar(ctx context.Context, profile *domain.UserAIProfile, delta float64, limit int) ([]domain.UserAIProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var profiles []domain.UserAIProfile
	err := r.DB.WithContext(ctx).
		Where("user_id != ?", profile.UserID).
		Where("favorite_category = ?", profile.FavoriteCategory).
		Where("price_sensitivity = ?", profile.PriceSensitivity).
		Where("ABS(intent_score - ?) < ?", profile.IntentScore, delta).
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find similar profiles: %w", err)
	}

	return profiles, nil
}
