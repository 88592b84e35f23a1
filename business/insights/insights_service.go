package insights

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bazaarIntel/domain"
	"bazaarIntel/pkg/logger"
)

const insightWindow = 30 * 24 * time.Hour

// ---- Repository interfaces ----

type FunnelCounts struct {
	Visits         int64
	ProductViews   int64
	CartAdds       int64
	UniqueVisitors int64
}

type DayVisits struct {
	DayOfWeek  int // 0=Sunday, matching EXTRACT(DOW ...)
	VisitCount int64
}

// ProductEventCounts is one product's 30-day interaction tally.
type ProductEventCounts struct {
	ProductID uint64
	Name      string
	Price     float64
	Stock     int
	Views     int64
	CartAdds  int64
}

type PriceStats struct {
	Avg float64
	Min float64
	Max float64
}

type EventRepository interface {
	FunnelCounts(ctx context.Context, shopID uint64, since time.Time) (FunnelCounts, error)
	// VisitsByDayOfWeek returns shop visit counts grouped by weekday,
	// quietest day first.
	VisitsByDayOfWeek(ctx context.Context, shopID uint64, since time.Time) ([]DayVisits, error)
}

type ProductRepository interface {
	PerformanceCounts(ctx context.Context, shopID uint64, since time.Time) ([]ProductEventCounts, error)
	PricesByShop(ctx context.Context, shopID uint64) ([]float64, error)
	CompetitorPriceStats(ctx context.Context, category string, excludeShopID uint64) (PriceStats, error)
}

type ShopRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Shop, error)
}

type OrdersRepository interface {
	CompletedCountSince(ctx context.Context, shopID uint64, since time.Time) (int64, error)
	CountSince(ctx context.Context, shopID uint64, since time.Time) (int64, error)
}

// ---- Reports ----

type ConversionMetrics struct {
	Visits             int64   `json:"visits"`
	UniqueVisitors     int64   `json:"unique_visitors"`
	ProductViews       int64   `json:"product_views"`
	CartAdds           int64   `json:"cart_adds"`
	Purchases          int64   `json:"purchases"`
	ConversionRate     float64 `json:"conversion_rate"`
	ViewToCartRate     float64 `json:"view_to_cart_rate"`
	CartToPurchaseRate float64 `json:"cart_to_purchase_rate"`
	Period             string  `json:"period"`
}

type ProductInsight struct {
	ProductID      uint64  `json:"product_id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Stock          int     `json:"stock"`
	Views          int64   `json:"views"`
	CartAdds       int64   `json:"cart_adds"`
	ConversionRate float64 `json:"conversion_rate"`
	Class          string  `json:"class"`
	Recommendation string  `json:"recommendation"`
}

type ProductPerformance struct {
	TotalProducts  int              `json:"total_products"`
	HighPerformers []ProductInsight `json:"high_performers"`
	NeedsAttention []ProductInsight `json:"needs_attention"`
	LowVisibility  []ProductInsight `json:"low_visibility"`
	All            []ProductInsight `json:"all"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type PricingAnalysis struct {
	ShopAveragePrice     float64    `json:"shop_average_price"`
	CategoryAveragePrice float64    `json:"category_average_price"`
	Positioning          string     `json:"positioning"`
	Suggestion           string     `json:"suggestion"`
	PriceRange           PriceRange `json:"price_range"`
}

type PromotionSuggestion struct {
	Type           string `json:"type"`
	Priority       string `json:"priority"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	ExpectedImpact string `json:"expected_impact"`
}

type InsightReport struct {
	ShopID      uint64                `json:"shop_id"`
	Conversion  *ConversionMetrics    `json:"conversion"`
	Products    *ProductPerformance   `json:"products"`
	Pricing     *PricingAnalysis      `json:"pricing"`
	Promotions  []PromotionSuggestion `json:"promotions"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// ---- Usecase / Service ----

type Service struct {
	events   EventRepository
	products ProductRepository
	shops    ShopRepository
	orders   OrdersRepository
	now      func() time.Time
}

func NewService(
	events EventRepository,
	products ProductRepository,
	shops ShopRepository,
	orders OrdersRepository,
) *Service {
	return &Service{
		events:   events,
		products: products,
		shops:    shops,
		orders:   orders,
		now:      time.Now,
	}
}

// GetShopInsights aggregates the four insight sections concurrently. Each
// section degrades to nil/empty on failure; the aggregate only fails when
// the context itself is dead.
func (s *Service) GetShopInsights(ctx context.Context, shopID uint64) (*InsightReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	report := &InsightReport{
		ShopID:      shopID,
		GeneratedAt: s.now(),
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		report.Conversion = s.conversionMetrics(ctx, shopID)
	}()
	go func() {
		defer wg.Done()
		report.Products = s.productPerformance(ctx, shopID)
	}()
	go func() {
		defer wg.Done()
		report.Pricing = s.analyzePricing(ctx, shopID)
	}()
	go func() {
		defer wg.Done()
		report.Promotions = s.promotionSuggestions(ctx, shopID)
	}()

	wg.Wait()

	return report, nil
}

// conversionMetrics builds the visit -> view -> cart -> purchase funnel.
// Purchase counts come from the orders store, not the event stream.
func (s *Service) conversionMetrics(ctx context.Context, shopID uint64) *ConversionMetrics {
	since := s.now().Add(-insightWindow)

	counts, err := s.events.FunnelCounts(ctx, shopID, since)
	if err != nil {
		logger.Error("failed to calculate conversion metrics", "shop_id", shopID, "error", err)
		return nil
	}

	purchases, err := s.orders.CompletedCountSince(ctx, shopID, since)
	if err != nil {
		logger.Error("failed to calculate conversion metrics", "shop_id", shopID, "error", err)
		return nil
	}

	viewToCart := 0.0
	if counts.ProductViews > 0 {
		viewToCart = float64(counts.CartAdds) / float64(counts.ProductViews)
	}

	cartToPurchase := 0.0
	if counts.CartAdds > 0 {
		cartToPurchase = float64(purchases) / float64(counts.CartAdds)
	}

	overall := 0.0
	if counts.Visits > 0 {
		overall = float64(purchases) / float64(counts.Visits)
	}

	return &ConversionMetrics{
		Visits:             counts.Visits,
		UniqueVisitors:     counts.UniqueVisitors,
		ProductViews:       counts.ProductViews,
		CartAdds:           counts.CartAdds,
		Purchases:          purchases,
		ConversionRate:     round2(overall * 100),
		ViewToCartRate:     round2(viewToCart * 100),
		CartToPurchaseRate: round2(cartToPurchase * 100),
		Period:             "30 days",
	}
}

func (s *Service) productPerformance(ctx context.Context, shopID uint64) *ProductPerformance {
	counts, err := s.products.PerformanceCounts(ctx, shopID, s.now().Add(-insightWindow))
	if err != nil {
		logger.Error("failed to analyze product performance", "shop_id", shopID, "error", err)
		return nil
	}

	performance := &ProductPerformance{
		TotalProducts: len(counts),
		All:           make([]ProductInsight, 0, len(counts)),
	}

	for _, c := range counts {
		insight := classifyProduct(c)
		performance.All = append(performance.All, insight)

		switch insight.Class {
		case classHighPerformer:
			performance.HighPerformers = append(performance.HighPerformers, insight)
		case classHighViewLowConversion:
			performance.NeedsAttention = append(performance.NeedsAttention, insight)
		case classLowVisibility:
			performance.LowVisibility = append(performance.LowVisibility, insight)
		}
	}

	return performance
}

func (s *Service) analyzePricing(ctx context.Context, shopID uint64) *PricingAnalysis {
	prices, err := s.products.PricesByShop(ctx, shopID)
	if err != nil {
		logger.Error("failed to analyze pricing", "shop_id", shopID, "error", err)
		return nil
	}
	if len(prices) == 0 {
		return nil
	}

	shop, err := s.shops.FindByID(ctx, shopID)
	if err != nil || shop == nil {
		logger.Error("failed to analyze pricing", "shop_id", shopID, "error", err)
		return nil
	}

	competitors, err := s.products.CompetitorPriceStats(ctx, shop.Category, shopID)
	if err != nil {
		logger.Error("failed to analyze pricing", "shop_id", shopID, "error", err)
		return nil
	}

	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	shopAvg := sum / float64(len(prices))

	positioning, suggestion := classifyPricing(shopAvg, competitors.Avg)

	return &PricingAnalysis{
		ShopAveragePrice:     round2(shopAvg),
		CategoryAveragePrice: round2(competitors.Avg),
		Positioning:          positioning,
		Suggestion:           suggestion,
		PriceRange: PriceRange{
			Min: competitors.Min,
			Max: competitors.Max,
		},
	}
}

func (s *Service) promotionSuggestions(ctx context.Context, shopID uint64) []PromotionSuggestion {
	suggestions := []PromotionSuggestion{}
	now := s.now()
	since := now.Add(-insightWindow)

	byDay, err := s.events.VisitsByDayOfWeek(ctx, shopID, since)
	if err != nil {
		logger.Error("failed to analyze traffic by day", "shop_id", shopID, "error", err)
	} else if len(byDay) > 0 {
		suggestions = append(suggestions, slowDaySuggestion(byDay[0].DayOfWeek))
	}

	carts, err := s.events.FunnelCounts(ctx, shopID, since)
	if err != nil {
		logger.Error("failed to analyze cart abandonment", "shop_id", shopID, "error", err)
	} else if carts.CartAdds > 0 {
		orders, err := s.orders.CountSince(ctx, shopID, since)
		if err != nil {
			logger.Error("failed to analyze cart abandonment", "shop_id", shopID, "error", err)
		} else if float64(orders)/float64(carts.CartAdds) < cartRecoveryThreshold {
			suggestions = append(suggestions, cartRecoverySuggestion())
		}
	}

	if holidaySeason(now.Month()) {
		suggestions = append(suggestions, seasonalSuggestion())
	}

	return suggestions
}
