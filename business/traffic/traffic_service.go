package traffic

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bazaarIntel/domain"
	"bazaarIntel/pkg/logger"
)

// All windows are 30 days, matching the stored metrics.
const scoringWindow = 30 * 24 * time.Hour

// ---- Repository interfaces ----

type VisitCounts struct {
	Visits         int64
	UniqueVisitors int64
}

type EngagementCounts struct {
	Visits       int64
	ProductViews int64
	CartAdds     int64
	UniqueUsers  int64
}

// CategoryRank is one row of the dense RANK() computation: ties share a
// rank and gaps follow.
type CategoryRank struct {
	ShopID     uint64
	Name       string
	VisitCount int64
	Rank       int
}

type LeaderboardRow struct {
	ShopID          uint64
	Name            string
	Visits          int64
	TrafficScore    float64
	EngagementScore float64
}

type EventRepository interface {
	VisitCounts(ctx context.Context, shopID uint64, from, to time.Time) (VisitCounts, error)
	EngagementCounts(ctx context.Context, shopID uint64, since time.Time) (EngagementCounts, error)
	CategoryVisitRanks(ctx context.Context, category string, since time.Time) ([]CategoryRank, error)
	LeaderboardRows(ctx context.Context, category string, since time.Time, limit int) ([]LeaderboardRow, error)
}

type ShopRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Shop, error)
}

type MetricsRepository interface {
	Upsert(ctx context.Context, metrics *domain.ShopAIMetrics) error
}

type OrdersRepository interface {
	CompletedCountSince(ctx context.Context, shopID uint64, since time.Time) (int64, error)
}

// ---- Reports ----

type TrafficScore struct {
	Score          float64 `json:"score"`
	Visits         int64   `json:"visits"`
	UniqueVisitors int64   `json:"unique_visitors"`
	GrowthRate     float64 `json:"growth_rate"`
	Period         string  `json:"period"`
}

type EngagementScore struct {
	Score                   float64 `json:"score"`
	AvgProductViewsPerVisit float64 `json:"avg_product_views_per_visit"`
	CartAddRate             float64 `json:"cart_add_rate"`
	ReturnVisitorRate       float64 `json:"return_visitor_rate"`
}

type CategoryRanking struct {
	Rank     *int    `json:"rank"`
	Total    int     `json:"total"`
	Category *string `json:"category"`
	Visits   int64   `json:"visits"`
}

type ScoreReport struct {
	ShopID         uint64          `json:"shop_id"`
	Traffic        TrafficScore    `json:"traffic"`
	Engagement     EngagementScore `json:"engagement"`
	Ranking        CategoryRanking `json:"ranking"`
	ConversionRate float64         `json:"conversion_rate"`
	OverallScore   float64         `json:"overall_score"`
	CalculatedAt   time.Time       `json:"calculated_at"`
}

// RankedShop is a leaderboard entry. Rank here is sequential 1..N after the
// sort, which can disagree with the dense stored category_ranking on ties;
// the two are intentionally kept separate.
type RankedShop struct {
	Rank            int     `json:"rank"`
	ShopID          uint64  `json:"shop_id"`
	Name            string  `json:"name"`
	Visits          int64   `json:"visits"`
	TrafficScore    float64 `json:"traffic_score"`
	EngagementScore float64 `json:"engagement_score"`
}

// ---- Usecase / Service ----

type Service struct {
	events  EventRepository
	shops   ShopRepository
	metrics MetricsRepository
	orders  OrdersRepository
	now     func() time.Time
}

func NewService(
	events EventRepository,
	shops ShopRepository,
	metrics MetricsRepository,
	orders OrdersRepository,
) *Service {
	return &Service{
		events:  events,
		shops:   shops,
		metrics: metrics,
		orders:  orders,
		now:     time.Now,
	}
}

// CalculateShopScore computes the three sub-scores concurrently and upserts
// shop_ai_metrics. Sub-score failures degrade to zeroed results so dashboard
// consumers always get a report; only the final upsert failure propagates.
func (s *Service) CalculateShopScore(ctx context.Context, shopID uint64) (*ScoreReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var (
		trafficScore    TrafficScore
		engagementScore EngagementScore
		categoryRanking CategoryRanking
		conversionRate  float64
	)

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		trafficScore = s.calculateTrafficScore(ctx, shopID)
	}()
	go func() {
		defer wg.Done()
		engagementScore = s.calculateEngagementScore(ctx, shopID)
	}()
	go func() {
		defer wg.Done()
		categoryRanking = s.calculateCategoryRanking(ctx, shopID)
	}()
	go func() {
		defer wg.Done()
		conversionRate = s.calculateConversionRate(ctx, shopID)
	}()

	wg.Wait()

	now := s.now()

	metrics := &domain.ShopAIMetrics{
		ShopID:          shopID,
		TrafficScore:    trafficScore.Score,
		EngagementScore: engagementScore.Score,
		ConversionRate:  conversionRate,
		CategoryRanking: categoryRanking.Rank,
		UpdatedAt:       now,
	}

	if err := s.metrics.Upsert(ctx, metrics); err != nil {
		return nil, fmt.Errorf("failed to upsert shop metrics: %w", err)
	}

	return &ScoreReport{
		ShopID:         shopID,
		Traffic:        trafficScore,
		Engagement:     engagementScore,
		Ranking:        categoryRanking,
		ConversionRate: conversionRate,
		OverallScore:   round2((trafficScore.Score + engagementScore.Score) / 2),
		CalculatedAt:   now,
	}, nil
}

func (s *Service) calculateTrafficScore(ctx context.Context, shopID uint64) TrafficScore {
	now := s.now()

	current, err := s.events.VisitCounts(ctx, shopID, now.Add(-scoringWindow), now)
	if err != nil {
		logger.Error("failed to calculate traffic score", "shop_id", shopID, "error", err)
		return TrafficScore{}
	}

	previous, err := s.events.VisitCounts(ctx, shopID, now.Add(-2*scoringWindow), now.Add(-scoringWindow))
	if err != nil {
		logger.Error("failed to calculate traffic score", "shop_id", shopID, "error", err)
		return TrafficScore{}
	}

	return computeTrafficScore(current, previous.Visits)
}

func (s *Service) calculateEngagementScore(ctx context.Context, shopID uint64) EngagementScore {
	counts, err := s.events.EngagementCounts(ctx, shopID, s.now().Add(-scoringWindow))
	if err != nil {
		logger.Error("failed to calculate engagement score", "shop_id", shopID, "error", err)
		return EngagementScore{}
	}

	return computeEngagementScore(counts)
}

func (s *Service) calculateCategoryRanking(ctx context.Context, shopID uint64) CategoryRanking {
	shop, err := s.shops.FindByID(ctx, shopID)
	if err != nil {
		logger.Error("failed to calculate category ranking", "shop_id", shopID, "error", err)
		return CategoryRanking{}
	}
	if shop == nil || shop.Category == "" {
		return CategoryRanking{}
	}

	ranks, err := s.events.CategoryVisitRanks(ctx, shop.Category, s.now().Add(-scoringWindow))
	if err != nil {
		logger.Error("failed to calculate category ranking", "shop_id", shopID, "error", err)
		return CategoryRanking{}
	}

	ranking := CategoryRanking{
		Total:    len(ranks),
		Category: &shop.Category,
	}

	for _, r := range ranks {
		if r.ShopID == shopID {
			rank := r.Rank
			ranking.Rank = &rank
			ranking.Visits = r.VisitCount
			break
		}
	}

	return ranking
}

func (s *Service) calculateConversionRate(ctx context.Context, shopID uint64) float64 {
	now := s.now()

	visits, err := s.events.VisitCounts(ctx, shopID, now.Add(-scoringWindow), now)
	if err != nil {
		logger.Error("failed to calculate conversion rate", "shop_id", shopID, "error", err)
		return 0
	}
	if visits.Visits == 0 {
		return 0
	}

	purchases, err := s.orders.CompletedCountSince(ctx, shopID, now.Add(-scoringWindow))
	if err != nil {
		logger.Error("failed to calculate conversion rate", "shop_id", shopID, "error", err)
		return 0
	}

	return round2(float64(purchases) / float64(visits.Visits) * 100)
}

// GetCategoryLeaderboard ranks a category's shops by recent visit count with
// stored traffic score as tiebreak. Failures degrade to an empty list; the
// leaderboard is a dashboard feature and favors availability.
func (s *Service) GetCategoryLeaderboard(ctx context.Context, category string, limit int) ([]RankedShop, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.events.LeaderboardRows(ctx, category, s.now().Add(-scoringWindow), limit)
	if err != nil {
		logger.Error("failed to get category leaderboard", "category", category, "error", err)
		return []RankedShop{}, nil
	}

	leaderboard := make([]RankedShop, 0, len(rows))
	for i, row := range rows {
		leaderboard = append(leaderboard, RankedShop{
			Rank:            i + 1,
			ShopID:          row.ShopID,
			Name:            row.Name,
			Visits:          row.Visits,
			TrafficScore:    row.TrafficScore,
			EngagementScore: row.EngagementScore,
		})
	}

	return leaderboard, nil
}
