package postgres

import (
	"context"
	"fmt"
	"time"

	"bazaarIntel/business/insights"
	"bazaarIntel/business/traffic"
	"bazaarIntel/domain"

	"gorm.io/gorm"
)

// AnalyticsRepository reads the append-only analytics_events table. It
// serves the narrow event interfaces of all four engines.
type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

func (r *AnalyticsRepository) RecentByUser(ctx context.Context, userID uint64, limit int) ([]domain.AnalyticsEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var events []domain.AnalyticsEvent
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load user events: %w", err)
	}

	return events, nil
}

func (r *AnalyticsRepository) FavoriteCategory(ctx context.Context, userID uint64) (*string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var row struct {
		Category string
	}

	err := r.DB.WithContext(ctx).
		Table("analytics_events ae").
		Select("s.category AS category").
		Joins("JOIN shops s ON ae.shop_id = s.id").
		Where("ae.user_id = ? AND ae.event_type IN ?", userID,
			[]string{string(domain.EventShopVisit), string(domain.EventProductView)}).
		Group("s.category").
		Order("COUNT(*) DESC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find favorite category: %w", err)
	}

	if row.Category == "" {
		return nil, nil
	}

	return &row.Category, nil
}

func (r *AnalyticsRepository) ViewedProductIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []uint64
	err := r.DB.WithContext(ctx).
		Model(&domain.AnalyticsEvent{}).
		Distinct("product_id").
		Where("user_id = ? AND product_id IS NOT NULL", userID).
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load viewed product ids: %w", err)
	}

	return ids, nil
}

func (r *AnalyticsRepository) VisitCounts(ctx context.Context, shopID uint64, from, to time.Time) (traffic.VisitCounts, error) {
	if err := ctx.Err(); err != nil {
		return traffic.VisitCounts{}, fmt.Errorf("context error: %w", err)
	}

	var counts traffic.VisitCounts
	err := r.DB.WithContext(ctx).
		Model(&domain.AnalyticsEvent{}).
		Select("COUNT(*) AS visits, COUNT(DISTINCT user_id) AS unique_visitors").
		Where("shop_id = ? AND event_type = ? AND timestamp > ? AND timestamp <= ?",
			shopID, string(domain.EventShopVisit), from, to).
		Scan(&counts).Error
	if err != nil {
		return traffic.VisitCounts{}, fmt.Errorf("failed to count shop visits: %w", err)
	}

	return counts, nil
}

func (r *AnalyticsRepository) EngagementCounts(ctx context.Context, shopID uint64, since time.Time) (traffic.EngagementCounts, error) {
	if err := ctx.Err(); err != nil {
		return traffic.EngagementCounts{}, fmt.Errorf("context error: %w", err)
	}

	var counts traffic.EngagementCounts
	err := r.DB.WithContext(ctx).
		Model(&domain.AnalyticsEvent{}).
		Select(`
			COUNT(CASE WHEN event_type = 'shop_visit' THEN 1 END) AS visits,
			COUNT(CASE WHEN event_type = 'productView' THEN 1 END) AS product_views,
			COUNT(CASE WHEN event_type = 'addToCart' THEN 1 END) AS cart_adds,
			COUNT(DISTINCT user_id) AS unique_users`).
		Where("shop_id = ? AND timestamp > ?", shopID, since).
		Scan(&counts).Error
	if err != nil {
		return traffic.EngagementCounts{}, fmt.Errorf("failed to count shop engagement: %w", err)
	}

	return counts, nil
}

// CategoryVisitRanks ranks every shop in a category by recent visit count
// using dense RANK() semantics: ties share a rank, gaps follow.
func (r *AnalyticsRepository) CategoryVisitRanks(ctx context.Context, category string, since time.Time) ([]traffic.CategoryRank, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ranks []traffic.CategoryRank
	err := r.DB.WithContext(ctx).Raw(`
		WITH shop_traffic AS (
			SELECT s.id AS shop_id, s.name, COUNT(ae.id) AS visit_count
			FROM shops s
			LEFT JOIN analytics_events ae
				ON s.id = ae.shop_id
				AND ae.event_type = 'shop_visit'
				AND ae.timestamp > ?
			WHERE s.category = ?
			GROUP BY s.id, s.name
		)
		SELECT shop_id, name, visit_count,
			RANK() OVER (ORDER BY visit_count DESC) AS rank
		FROM shop_traffic`,
		since, category,
	).Scan(&ranks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank shops by category: %w", err)
	}

	return ranks, nil
}

func (r *AnalyticsRepository) LeaderboardRows(ctx context.Context, category string, since time.Time, limit int) ([]traffic.LeaderboardRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []traffic.LeaderboardRow
	err := r.DB.WithContext(ctx).Raw(`
		SELECT s.id AS shop_id, s.name,
			COUNT(ae.id) AS visits,
			COALESCE(sam.traffic_score, 0) AS traffic_score,
			COALESCE(sam.engagement_score, 0) AS engagement_score
		FROM shops s
		LEFT JOIN analytics_events ae
			ON s.id = ae.shop_id
			AND ae.event_type = 'shop_visit'
			AND ae.timestamp > ?
		LEFT JOIN shop_ai_metrics sam ON s.id = sam.shop_id
		WHERE s.category = ?
		GROUP BY s.id, s.name, sam.traffic_score, sam.engagement_score
		ORDER BY visits DESC, traffic_score DESC
		LIMIT ?`,
		since, category, limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load category leaderboard: %w", err)
	}

	return rows, nil
}

func (r *AnalyticsRepository) FunnelCounts(ctx context.Context, shopID uint64, since time.Time) (insights.FunnelCounts, error) {
	if err := ctx.Err(); err != nil {
		return insights.FunnelCounts{}, fmt.Errorf("context error: %w", err)
	}

	var counts insights.FunnelCounts
	err := r.DB.WithContext(ctx).
		Model(&domain.AnalyticsEvent{}).
		Select(`
			COUNT(CASE WHEN event_type = 'shop_visit' THEN 1 END) AS visits,
			COUNT(CASE WHEN event_type = 'productView' THEN 1 END) AS product_views,
			COUNT(CASE WHEN event_type = 'addToCart' THEN 1 END) AS cart_adds,
			COUNT(DISTINCT user_id) AS unique_visitors`).
		Where("shop_id = ? AND timestamp > ?", shopID, since).
		Scan(&counts).Error
	if err != nil {
		return insights.FunnelCounts{}, fmt.Errorf("failed to count conversion funnel: %w", err)
	}

	return counts, nil
}

func (r *AnalyticsRepository) VisitsByDayOfWeek(ctx context.Context, shopID uint64, since time.Time) ([]insights.DayVisits, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []insights.DayVisits
	err := r.DB.WithContext(ctx).
		Model(&domain.AnalyticsEvent{}).
		Select("EXTRACT(DOW FROM timestamp)::int AS day_of_week, COUNT(*) AS visit_count").
		Where("shop_id = ? AND event_type = ? AND timestamp > ?",
			shopID, string(domain.EventShopVisit), since).
		Group("day_of_week").
		Order("visit_count ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count visits by day: %w", err)
	}

	return rows, nil
}
