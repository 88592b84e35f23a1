package postgres

import (
	"context"
	"fmt"
	"time"

	"bazaarIntel/domain"

	"gorm.io/gorm"
)

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{DB: db}
}

func (r *OrdersRepository) CompletedCountSince(ctx context.Context, shopID uint64, since time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.Order{}).
		Where("shop_id = ? AND status = ? AND created_at > ?", shopID, domain.OrderStatusCompleted, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completed orders: %w", err)
	}

	return count, nil
}

func (r *OrdersRepository) CountSince(ctx context.Context, shopID uint64, since time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.Order{}).
		Where("shop_id = ? AND created_at > ?", shopID, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return count, nil
}
