package postgres

import (
	"context"
	"fmt"
	"time"

	"bazaarIntel/business/insights"
	"bazaarIntel/domain"

	"gorm.io/gorm"
)

// ProductRepository reads the externally-owned products table on behalf of
// the scoring, recommendation and insight engines.
type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) AveragePrice(ctx context.Context, ids []uint64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	var row struct {
		AvgPrice float64
	}

	err := r.DB.WithContext(ctx).
		Model(&domain.Product{}).
		Select("COALESCE(AVG(base_price_irr), 0) AS avg_price").
		Where("id IN ?", ids).
		Scan(&row).Error
	if err != nil {
		return 0, fmt.Errorf("failed to average product prices: %w", err)
	}

	return row.AvgPrice, nil
}

func (r *ProductRepository) InStockByCategories(ctx context.Context, categories []string, exclude []uint64, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if len(categories) == 0 {
		return []domain.Product{}, nil
	}

	query := r.DB.WithContext(ctx).
		Where("category IN ?", categories).
		Where("stock > 0")

	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", exclude)
	}

	var products []domain.Product
	err := query.Order("created_at DESC").Limit(limit).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products by categories: %w", err)
	}

	return products, nil
}

// NewestInShopCategory looks up products by their shop's category, which is
// how the favorite-category signal is recorded.
func (r *ProductRepository) NewestInShopCategory(ctx context.Context, category string, exclude []uint64, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).
		Table("products p").
		Select("p.*").
		Joins("JOIN shops s ON p.shop_id = s.id").
		Where("s.category = ?", category).
		Where("p.stock > 0")

	if len(exclude) > 0 {
		query = query.Where("p.id NOT IN ?", exclude)
	}

	var products []domain.Product
	err := query.Order("p.created_at DESC").Limit(limit).Scan(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products by shop category: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) RandomInPriceRange(ctx context.Context, minPrice, maxPrice float64, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).
		Where("base_price_irr >= ? AND base_price_irr <= ?", minPrice, maxPrice).
		Where("stock > 0").
		Order("RANDOM()").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products by price range: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) Trending(ctx context.Context, since time.Time, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).Raw(`
		SELECT p.*
		FROM products p
		JOIN analytics_events ae ON p.id = ae.product_id
		WHERE p.stock > 0
			AND ae.event_type = 'productView'
			AND ae.timestamp > ?
		GROUP BY p.id
		ORDER BY COUNT(ae.id) DESC
		LIMIT ?`,
		since, limit,
	).Scan(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find trending products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) PerformanceCounts(ctx context.Context, shopID uint64, since time.Time) ([]insights.ProductEventCounts, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []insights.ProductEventCounts
	err := r.DB.WithContext(ctx).Raw(`
		SELECT p.id AS product_id, p.name, p.base_price_irr AS price, p.stock,
			COUNT(CASE WHEN ae.event_type = 'productView' THEN 1 END) AS views,
			COUNT(CASE WHEN ae.event_type = 'addToCart' THEN 1 END) AS cart_adds
		FROM products p
		LEFT JOIN analytics_events ae
			ON p.id = ae.product_id
			AND ae.timestamp > ?
		WHERE p.shop_id = ?
		GROUP BY p.id, p.name, p.base_price_irr, p.stock
		ORDER BY views DESC`,
		since, shopID,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count product performance: %w", err)
	}

	return rows, nil
}

func (r *ProductRepository) PricesByShop(ctx context.Context, shopID uint64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var prices []float64
	err := r.DB.WithContext(ctx).
		Model(&domain.Product{}).
		Where("shop_id = ?", shopID).
		Pluck("base_price_irr", &prices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shop prices: %w", err)
	}

	return prices, nil
}

func (r *ProductRepository) CompetitorPriceStats(ctx context.Context, category string, excludeShopID uint64) (insights.PriceStats, error) {
	if err := ctx.Err(); err != nil {
		return insights.PriceStats{}, fmt.Errorf("context error: %w", err)
	}

	var stats insights.PriceStats
	err := r.DB.WithContext(ctx).
		Table("products p").
		Select(`
			COALESCE(AVG(p.base_price_irr), 0) AS avg,
			COALESCE(MIN(p.base_price_irr), 0) AS min,
			COALESCE(MAX(p.base_price_irr), 0) AS max`).
		Joins("JOIN shops s ON p.shop_id = s.id").
		Where("s.category = ? AND s.id != ?", category, excludeShopID).
		Scan(&stats).Error
	if err != nil {
		return insights.PriceStats{}, fmt.Errorf("failed to load competitor prices: %w", err)
	}

	return stats, nil
}
