package postgres

import (
	"context"
	"fmt"

	"bazaarIntel/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShopMetricsRepository struct {
	DB *gorm.DB
}

func NewShopMetricsRepository(db *gorm.DB) *ShopMetricsRepository {
	return &ShopMetricsRepository{DB: db}
}

func (r *ShopMetricsRepository) Upsert(ctx context.Context, metrics *domain.ShopAIMetrics) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "shop_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"traffic_score",
				"engagement_score",
				"conversion_rate",
				"category_ranking",
				"updated_at",
			}),
		},
	).Create(metrics).Error
	if err != nil {
		return fmt.Errorf("failed to upsert shop metrics: %w", err)
	}

	return nil
}
