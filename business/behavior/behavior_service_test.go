package behavior

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"bazaarIntel/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeEventRepo struct {
	events      []domain.AnalyticsEvent
	eventsErr   error
	category    *string
	categoryErr error
}

func (f *fakeEventRepo) RecentByUser(ctx context.Context, userID uint64, limit int) ([]domain.AnalyticsEvent, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	if len(f.events) > limit {
		return f.events[:limit], nil
	}
	return f.events, nil
}

func (f *fakeEventRepo) FavoriteCategory(ctx context.Context, userID uint64) (*string, error) {
	return f.category, f.categoryErr
}

type fakeProductRepo struct {
	avgPrice float64
	err      error
}

func (f *fakeProductRepo) AveragePrice(ctx context.Context, ids []uint64) (float64, error) {
	return f.avgPrice, f.err
}

type fakeProfileRepo struct {
	upserted  *domain.UserAIProfile
	upsertErr error
	stored    *domain.UserAIProfile
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, profile *domain.UserAIProfile) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = profile
	return nil
}

func (f *fakeProfileRepo) FindByUserID(ctx context.Context, userID uint64) (*domain.UserAIProfile, error) {
	return f.stored, nil
}

// fakeAffinityRepo mimics the capped-increment upsert.
type fakeAffinityRepo struct {
	scores map[uint64]float64
	err    error
}

func (f *fakeAffinityRepo) ApplyBoost(ctx context.Context, userID, productID uint64, boost float64, now time.Time) error {
	if f.err != nil {
		return f.err
	}
	if f.scores == nil {
		f.scores = make(map[uint64]float64)
	}
	if _, ok := f.scores[productID]; !ok {
		f.scores[productID] = boost
		return nil
	}
	f.scores[productID] = math.Min(f.scores[productID]+boost, 1.0)
	return nil
}

func newTestService(events *fakeEventRepo, products *fakeProductRepo, profiles *fakeProfileRepo, affinities *fakeAffinityRepo) *Service {
	svc := NewService(events, products, profiles, affinities, DefaultConfig())
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

// ---- tests ----

func TestProcessUserBehavior_NoEvents(t *testing.T) {
	profiles := &fakeProfileRepo{}
	svc := newTestService(&fakeEventRepo{}, &fakeProductRepo{}, profiles, &fakeAffinityRepo{})

	profile, err := svc.ProcessUserBehavior(context.Background(), 42)

	require.NoError(t, err)
	assert.Nil(t, profile)
	assert.Nil(t, profiles.upserted, "no profile should be written for inactive users")
}

func TestProcessUserBehavior_ComputesAndUpserts(t *testing.T) {
	pid := uint64(7)
	category := "electronics"
	events := &fakeEventRepo{
		events: []domain.AnalyticsEvent{
			{EventType: domain.EventPurchase, ProductID: &pid},
			{EventType: domain.EventProductView, ProductID: &pid},
			{EventType: domain.EventProductView, ProductID: &pid},
		},
		category: &category,
	}
	profiles := &fakeProfileRepo{}
	svc := newTestService(events, &fakeProductRepo{avgPrice: 1200000}, profiles, &fakeAffinityRepo{})

	profile, err := svc.ProcessUserBehavior(context.Background(), 42)

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, uint64(42), profile.UserID)
	// (1.0 + 0.3 + 0.3) / (3 * 1.5) = 0.3556 -> 0.36
	assert.Equal(t, 0.36, profile.IntentScore)
	assert.Equal(t, domain.PriceSensitivityLow, profile.PriceSensitivity)
	require.NotNil(t, profile.FavoriteCategory)
	assert.Equal(t, "electronics", *profile.FavoriteCategory)
	assert.Equal(t, 3, profile.TotalEvents)
	assert.Equal(t, profiles.upserted, profile)
}

func TestProcessUserBehavior_EventLoadFailurePropagates(t *testing.T) {
	events := &fakeEventRepo{eventsErr: errors.New("connection refused")}
	svc := newTestService(events, &fakeProductRepo{}, &fakeProfileRepo{}, &fakeAffinityRepo{})

	_, err := svc.ProcessUserBehavior(context.Background(), 42)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load user events")
}

func TestProcessUserBehavior_UpsertFailurePropagates(t *testing.T) {
	events := &fakeEventRepo{events: eventsOf(domain.EventProductView)}
	profiles := &fakeProfileRepo{upsertErr: errors.New("deadlock detected")}
	svc := newTestService(events, &fakeProductRepo{}, profiles, &fakeAffinityRepo{})

	_, err := svc.ProcessUserBehavior(context.Background(), 42)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert user profile")
}

func TestProcessUserBehavior_DegradedSignals(t *testing.T) {
	pid := uint64(7)
	events := &fakeEventRepo{
		events: []domain.AnalyticsEvent{
			{EventType: domain.EventProductView, ProductID: &pid},
		},
		categoryErr: errors.New("timeout"),
	}
	products := &fakeProductRepo{err: errors.New("timeout")}
	svc := newTestService(events, products, &fakeProfileRepo{}, &fakeAffinityRepo{})

	profile, err := svc.ProcessUserBehavior(context.Background(), 42)

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, domain.PriceSensitivityMedium, profile.PriceSensitivity)
	assert.Nil(t, profile.FavoriteCategory)
}

func TestProcessUserBehavior_Idempotent(t *testing.T) {
	pid := uint64(7)
	events := &fakeEventRepo{
		events: []domain.AnalyticsEvent{
			{EventType: domain.EventAddToCart, ProductID: &pid},
			{EventType: domain.EventProductView, ProductID: &pid},
		},
	}
	svc := newTestService(events, &fakeProductRepo{avgPrice: 400000}, &fakeProfileRepo{}, &fakeAffinityRepo{})

	first, err := svc.ProcessUserBehavior(context.Background(), 42)
	require.NoError(t, err)
	second, err := svc.ProcessUserBehavior(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestUpdateProductAffinity(t *testing.T) {
	affinities := &fakeAffinityRepo{}
	svc := newTestService(&fakeEventRepo{}, &fakeProductRepo{}, &fakeProfileRepo{}, affinities)

	require.NoError(t, svc.UpdateProductAffinity(context.Background(), 1, 7, domain.EventProductView))
	assert.Equal(t, 0.1, affinities.scores[7])

	require.NoError(t, svc.UpdateProductAffinity(context.Background(), 1, 7, domain.EventAddToCart))
	assert.InDelta(t, 0.4, affinities.scores[7], 1e-9)

	// repeated purchases saturate at the cap
	require.NoError(t, svc.UpdateProductAffinity(context.Background(), 1, 7, domain.EventPurchase))
	require.NoError(t, svc.UpdateProductAffinity(context.Background(), 1, 7, domain.EventPurchase))
	assert.Equal(t, 1.0, affinities.scores[7])
}

func TestUpdateProductAffinity_ErrorWrapped(t *testing.T) {
	affinities := &fakeAffinityRepo{err: errors.New("connection refused")}
	svc := newTestService(&fakeEventRepo{}, &fakeProductRepo{}, &fakeProfileRepo{}, affinities)

	err := svc.UpdateProductAffinity(context.Background(), 1, 7, domain.EventPurchase)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update product affinity")
}

func TestGetUserProfile(t *testing.T) {
	stored := &domain.UserAIProfile{UserID: 42, IntentScore: 0.5}
	profiles := &fakeProfileRepo{stored: stored}
	svc := newTestService(&fakeEventRepo{}, &fakeProductRepo{}, profiles, &fakeAffinityRepo{})

	profile, err := svc.GetUserProfile(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, stored, profile)
}
