package postgres

import (
	"context"
	"fmt"
	"time"

	"bazaarIntel/domain"

	"gorm.io/gorm"
)

type AffinityRepository struct {
	DB *gorm.DB
}

func NewAffinityRepository(db *gorm.DB) *AffinityRepository {
	return &AffinityRepository{DB: db}
}

// ApplyBoost is a single atomic upsert: first interaction inserts the boost
// as the initial score, repeats add it capped at 1.0 and bump view_count.
// The LEAST keeps the score monotone non-decreasing and bounded.
func (r *AffinityRepository) ApplyBoost(ctx context.Context, userID, productID uint64, boost float64, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Exec(`
		INSERT INTO product_affinities (user_id, product_id, affinity_score, view_count, last_viewed)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET
			affinity_score = LEAST(product_affinities.affinity_score + ?, 1.0),
			view_count = product_affinities.view_count + 1,
			last_viewed = ?`,
		userID, productID, boost, now, boost, now,
	).Error
	if err != nil {
		return fmt.Errorf("failed to upsert product affinity: %w", err)
	}

	return nil
}

func (r *AffinityRepository) TopByUser(ctx context.Context, userID uint64, limit int) ([]domain.ProductAffinity, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var affinities []domain.ProductAffinity
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("affinity_score DESC, last_viewed DESC").
		Limit(limit).
		Find(&affinities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load product affinities: %w", err)
	}

	return affinities, nil
}

// LikedBySimilarUsers surfaces in-stock products the given users have
// affinity rows for and the excluded user does not, most shared first.
func (r *AffinityRepository) LikedBySimilarUsers(ctx context.Context, userIDs []uint64, excludeUserID uint64, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).Raw(`
		SELECT p.*
		FROM product_affinities pa
		JOIN products p ON pa.product_id = p.id
		WHERE pa.user_id IN ?
			AND p.stock > 0
			AND pa.product_id NOT IN (
				SELECT product_id FROM product_affinities WHERE user_id = ?
			)
		GROUP BY p.id
		ORDER BY COUNT(*) DESC, p.created_at DESC
		LIMIT ?`,
		userIDs, excludeUserID, limit,
	).Scan(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load collaborative products: %w", err)
	}

	return products, nil
}
