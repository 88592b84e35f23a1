package traffic

import (
	"context"
	"errors"
	"testing"
	"time"

	"bazaarIntel/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeEventRepo struct {
	current   VisitCounts
	previous  VisitCounts
	visitsErr error

	engagement    EngagementCounts
	engagementErr error

	ranks    []CategoryRank
	ranksErr error

	rows    []LeaderboardRow
	rowsErr error
}

func (f *fakeEventRepo) VisitCounts(ctx context.Context, shopID uint64, from, to time.Time) (VisitCounts, error) {
	if f.visitsErr != nil {
		return VisitCounts{}, f.visitsErr
	}
	// the older window starts two windows back
	if time.Since(from) > scoringWindow+time.Hour {
		return f.previous, nil
	}
	return f.current, nil
}

func (f *fakeEventRepo) EngagementCounts(ctx context.Context, shopID uint64, since time.Time) (EngagementCounts, error) {
	return f.engagement, f.engagementErr
}

func (f *fakeEventRepo) CategoryVisitRanks(ctx context.Context, category string, since time.Time) ([]CategoryRank, error) {
	return f.ranks, f.ranksErr
}

func (f *fakeEventRepo) LeaderboardRows(ctx context.Context, category string, since time.Time, limit int) ([]LeaderboardRow, error) {
	if f.rowsErr != nil {
		return nil, f.rowsErr
	}
	if len(f.rows) > limit {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

type fakeShopRepo struct {
	shop *domain.Shop
	err  error
}

func (f *fakeShopRepo) FindByID(ctx context.Context, id uint64) (*domain.Shop, error) {
	return f.shop, f.err
}

type fakeMetricsRepo struct {
	upserted *domain.ShopAIMetrics
	err      error
}

func (f *fakeMetricsRepo) Upsert(ctx context.Context, metrics *domain.ShopAIMetrics) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = metrics
	return nil
}

type fakeOrdersRepo struct {
	completed int64
	err       error
}

func (f *fakeOrdersRepo) CompletedCountSince(ctx context.Context, shopID uint64, since time.Time) (int64, error) {
	return f.completed, f.err
}

// ---- tests ----

func TestCalculateShopScore(t *testing.T) {
	events := &fakeEventRepo{
		current:    VisitCounts{Visits: 60, UniqueVisitors: 30},
		previous:   VisitCounts{Visits: 40},
		engagement: EngagementCounts{Visits: 100, ProductViews: 200, CartAdds: 20, UniqueUsers: 60},
		ranks: []CategoryRank{
			{ShopID: 9, VisitCount: 300, Rank: 1},
			{ShopID: 5, VisitCount: 60, Rank: 2},
		},
	}
	metrics := &fakeMetricsRepo{}
	svc := NewService(events, &fakeShopRepo{shop: &domain.Shop{ID: 5, Category: "groceries"}}, metrics, &fakeOrdersRepo{completed: 6})

	report, err := svc.CalculateShopScore(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, 55.0, report.Traffic.Score)
	assert.Equal(t, 32.0, report.Engagement.Score)
	require.NotNil(t, report.Ranking.Rank)
	assert.Equal(t, 2, *report.Ranking.Rank)
	assert.Equal(t, 2, report.Ranking.Total)
	// 6 purchases / 60 visits = 10%
	assert.Equal(t, 10.0, report.ConversionRate)
	assert.Equal(t, 43.5, report.OverallScore)

	require.NotNil(t, metrics.upserted)
	assert.Equal(t, uint64(5), metrics.upserted.ShopID)
	assert.Equal(t, 55.0, metrics.upserted.TrafficScore)
	assert.Equal(t, 32.0, metrics.upserted.EngagementScore)
	assert.Equal(t, 10.0, metrics.upserted.ConversionRate)
	require.NotNil(t, metrics.upserted.CategoryRanking)
	assert.Equal(t, 2, *metrics.upserted.CategoryRanking)
}

func TestCalculateShopScore_SubScoresDegrade(t *testing.T) {
	events := &fakeEventRepo{
		visitsErr:     errors.New("timeout"),
		engagementErr: errors.New("timeout"),
		ranksErr:      errors.New("timeout"),
	}
	metrics := &fakeMetricsRepo{}
	svc := NewService(events, &fakeShopRepo{err: errors.New("timeout")}, metrics, &fakeOrdersRepo{})

	report, err := svc.CalculateShopScore(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, 0.0, report.Traffic.Score)
	assert.Equal(t, 0.0, report.Engagement.Score)
	assert.Nil(t, report.Ranking.Rank)
	assert.Equal(t, 0.0, report.ConversionRate)
	require.NotNil(t, metrics.upserted, "zeroed metrics still get persisted")
}

func TestCalculateShopScore_UpsertFailurePropagates(t *testing.T) {
	metrics := &fakeMetricsRepo{err: errors.New("deadlock detected")}
	svc := NewService(&fakeEventRepo{}, &fakeShopRepo{}, metrics, &fakeOrdersRepo{})

	_, err := svc.CalculateShopScore(context.Background(), 5)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert shop metrics")
}

func TestCalculateShopScore_UnknownShopSkipsRanking(t *testing.T) {
	svc := NewService(&fakeEventRepo{}, &fakeShopRepo{shop: nil}, &fakeMetricsRepo{}, &fakeOrdersRepo{})

	report, err := svc.CalculateShopScore(context.Background(), 5)

	require.NoError(t, err)
	assert.Nil(t, report.Ranking.Rank)
	assert.Nil(t, report.Ranking.Category)
}

func TestGetCategoryLeaderboard(t *testing.T) {
	events := &fakeEventRepo{
		rows: []LeaderboardRow{
			{ShopID: 9, Name: "Alpha", Visits: 300, TrafficScore: 80},
			{ShopID: 5, Name: "Beta", Visits: 60, TrafficScore: 55},
			{ShopID: 2, Name: "Gamma", Visits: 10, TrafficScore: 5},
		},
	}
	svc := NewService(events, &fakeShopRepo{}, &fakeMetricsRepo{}, &fakeOrdersRepo{})

	leaderboard, err := svc.GetCategoryLeaderboard(context.Background(), "groceries", 10)

	require.NoError(t, err)
	require.Len(t, leaderboard, 3)
	assert.Equal(t, 1, leaderboard[0].Rank)
	assert.Equal(t, uint64(9), leaderboard[0].ShopID)
	assert.Equal(t, 2, leaderboard[1].Rank)
	assert.Equal(t, 3, leaderboard[2].Rank)
}

func TestGetCategoryLeaderboard_FailureDegradesToEmpty(t *testing.T) {
	events := &fakeEventRepo{rowsErr: errors.New("timeout")}
	svc := NewService(events, &fakeShopRepo{}, &fakeMetricsRepo{}, &fakeOrdersRepo{})

	leaderboard, err := svc.GetCategoryLeaderboard(context.Background(), "groceries", 10)

	require.NoError(t, err)
	assert.Empty(t, leaderboard)
}

func TestGetCategoryLeaderboard_DefaultLimit(t *testing.T) {
	rows := make([]LeaderboardRow, 15)
	for i := range rows {
		rows[i] = LeaderboardRow{ShopID: uint64(i + 1)}
	}
	svc := NewService(&fakeEventRepo{rows: rows}, &fakeShopRepo{}, &fakeMetricsRepo{}, &fakeOrdersRepo{})

	leaderboard, err := svc.GetCategoryLeaderboard(context.Background(), "groceries", 0)

	require.NoError(t, err)
	assert.Len(t, leaderboard, 10)
}
