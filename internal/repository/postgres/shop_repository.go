package postgres

import (
	"context"
	"errors"
	"fmt"

	"bazaarIntel/domain"

	"gorm.io/gorm"
)

type ShopRepository struct {
	DB *gorm.DB
}

func NewShopRepository(db *gorm.DB) *ShopRepository {
	return &ShopRepository{DB: db}
}

// FindByID returns nil without error when the shop does not exist.
func (r *ShopRepository) FindByID(ctx context.Context, shopID uint64) (*domain.Shop, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var shop domain.Shop
	err := r.DB.WithContext(ctx).Where("id = ?", shopID).First(&shop).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find shop: %w", err)
	}

	return &shop, nil
}
