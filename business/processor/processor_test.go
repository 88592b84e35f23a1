package processor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bazaarIntel/business/traffic"
	"bazaarIntel/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type memoryQueue struct {
	mu        sync.Mutex
	events    []domain.AnalyticsEvent
	popErrs   int
	lengthErr error
}

func (q *memoryQueue) Pop(ctx context.Context) (*domain.AnalyticsEvent, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		if q.popErrs > 0 {
			q.popErrs--
			return nil, errors.New("connection refused")
		}
		return nil, nil
	}
	event := q.events[0]
	q.events = q.events[1:]
	return &event, nil
}

func (q *memoryQueue) Length(ctx context.Context) (int64, error) {
	if q.lengthErr != nil {
		return 0, q.lengthErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.events)), nil
}

type fakeBehaviorEngine struct {
	mu            sync.Mutex
	affinityCalls int
	affinityErr   error
	profileCalls  int
	failUsers     map[uint64]struct{}
}

func (f *fakeBehaviorEngine) UpdateProductAffinity(ctx context.Context, userID, productID uint64, eventType domain.EventType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.affinityCalls++
	return f.affinityErr
}

func (f *fakeBehaviorEngine) ProcessUserBehavior(ctx context.Context, userID uint64) (*domain.UserAIProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	if _, ok := f.failUsers[userID]; ok {
		return nil, errors.New("deadlock detected")
	}
	return &domain.UserAIProfile{UserID: userID}, nil
}

type fakeTrafficEngine struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeTrafficEngine) CalculateShopScore(ctx context.Context, shopID uint64) (*traffic.ScoreReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &traffic.ScoreReport{ShopID: shopID}, nil
}

// fixedSampler makes the sampling decision deterministic.
type fixedSampler struct {
	hit bool
}

func (f fixedSampler) Hit(p float64) bool {
	return f.hit
}

func uptr(v uint64) *uint64 {
	return &v
}

func purchaseEvents(n int) []domain.AnalyticsEvent {
	events := make([]domain.AnalyticsEvent, n)
	for i := range events {
		events[i] = domain.AnalyticsEvent{
			EventType: domain.EventPurchase,
			UserID:    uptr(uint64(i + 1)),
			ProductID: uptr(uint64(100 + i)),
		}
	}
	return events
}

func testConfig() Config {
	return Config{BatchSize: 100, Interval: time.Millisecond}
}

// ---- tests ----

func TestProcessBatch_CountsProcessedAndErrors(t *testing.T) {
	queue := &memoryQueue{events: purchaseEvents(100)}
	behavior := &fakeBehaviorEngine{failUsers: map[uint64]struct{}{
		5: {}, 25: {}, 45: {}, 65: {}, 85: {},
	}}
	proc := New(queue, behavior, &fakeTrafficEngine{}, fixedSampler{}, testConfig())

	proc.processBatch(context.Background(), 100)

	stats := proc.Stats()
	assert.Equal(t, uint64(100), stats.ProcessedCount)
	assert.Equal(t, uint64(5), stats.ErrorCount)
	assert.Equal(t, 95.0, stats.SuccessRate)
	assert.Equal(t, 100, behavior.profileCalls)
	assert.Equal(t, 100, behavior.affinityCalls)
}

func TestStats_PopFailuresKeepSuccessRateInRange(t *testing.T) {
	// one good event, then four pops fail; errors outnumber processed
	queue := &memoryQueue{events: purchaseEvents(1), popErrs: 4}
	proc := New(queue, &fakeBehaviorEngine{}, &fakeTrafficEngine{}, fixedSampler{}, testConfig())

	proc.processBatch(context.Background(), 5)

	stats := proc.Stats()
	assert.Equal(t, uint64(1), stats.ProcessedCount)
	assert.Equal(t, uint64(4), stats.ErrorCount)
	assert.Equal(t, 0.0, stats.SuccessRate)
}

func TestProcessNextEvent_EmptyQueueIsBenign(t *testing.T) {
	proc := New(&memoryQueue{}, &fakeBehaviorEngine{}, &fakeTrafficEngine{}, fixedSampler{}, testConfig())

	proc.processNextEvent(context.Background())

	stats := proc.Stats()
	assert.Equal(t, uint64(0), stats.ProcessedCount)
	assert.Equal(t, uint64(0), stats.ErrorCount)
	assert.Equal(t, 0.0, stats.SuccessRate)
}

func TestProcessNextEvent_UnknownTypeIsDataFault(t *testing.T) {
	queue := &memoryQueue{events: []domain.AnalyticsEvent{
		{EventType: domain.EventType("page_scroll"), UserID: uptr(1)},
	}}
	behavior := &fakeBehaviorEngine{}
	proc := New(queue, behavior, &fakeTrafficEngine{}, fixedSampler{hit: true}, testConfig())

	proc.processNextEvent(context.Background())

	stats := proc.Stats()
	assert.Equal(t, uint64(1), stats.ProcessedCount)
	assert.Equal(t, uint64(1), stats.ErrorCount)
	assert.Equal(t, 0, behavior.profileCalls, "unknown events must not reach the engines")
}

func TestProcessNextEvent_AffinityFailureIsNotCounted(t *testing.T) {
	queue := &memoryQueue{events: []domain.AnalyticsEvent{
		{EventType: domain.EventProductView, UserID: uptr(1), ProductID: uptr(7)},
	}}
	behavior := &fakeBehaviorEngine{affinityErr: errors.New("connection refused")}
	proc := New(queue, behavior, &fakeTrafficEngine{}, fixedSampler{}, testConfig())

	proc.processNextEvent(context.Background())

	stats := proc.Stats()
	assert.Equal(t, uint64(1), stats.ProcessedCount)
	assert.Equal(t, uint64(0), stats.ErrorCount)
}

func TestProcessNextEvent_BothRecomputesFailCountOnce(t *testing.T) {
	queue := &memoryQueue{events: []domain.AnalyticsEvent{
		{EventType: domain.EventPurchase, UserID: uptr(5), ShopID: uptr(9), ProductID: uptr(7)},
	}}
	behavior := &fakeBehaviorEngine{failUsers: map[uint64]struct{}{5: {}}}
	trafficEngine := &fakeTrafficEngine{err: errors.New("timeout")}
	proc := New(queue, behavior, trafficEngine, fixedSampler{hit: true}, testConfig())

	proc.processNextEvent(context.Background())

	stats := proc.Stats()
	assert.Equal(t, uint64(1), stats.ProcessedCount)
	assert.Equal(t, uint64(1), stats.ErrorCount, "one failed unit counts a single error")
}

func TestSamplingPolicy(t *testing.T) {
	never := fixedSampler{hit: false}
	always := fixedSampler{hit: true}

	t.Run("purchases and cart adds always refresh the profile", func(t *testing.T) {
		proc := New(&memoryQueue{}, &fakeBehaviorEngine{}, &fakeTrafficEngine{}, never, testConfig())
		assert.True(t, proc.shouldUpdateUserProfile(domain.EventPurchase))
		assert.True(t, proc.shouldUpdateUserProfile(domain.EventAddToCart))
		assert.False(t, proc.shouldUpdateUserProfile(domain.EventProductView))
	})

	t.Run("views refresh the profile when sampled", func(t *testing.T) {
		proc := New(&memoryQueue{}, &fakeBehaviorEngine{}, &fakeTrafficEngine{}, always, testConfig())
		assert.True(t, proc.shouldUpdateUserProfile(domain.EventProductView))
	})

	t.Run("shop visits always refresh shop metrics", func(t *testing.T) {
		proc := New(&memoryQueue{}, &fakeBehaviorEngine{}, &fakeTrafficEngine{}, never, testConfig())
		assert.True(t, proc.shouldUpdateShopMetrics(domain.EventShopVisit))
		assert.False(t, proc.shouldUpdateShopMetrics(domain.EventProductView))
	})
}

func TestProcessBatch_SampledOutEventsStillCount(t *testing.T) {
	queue := &memoryQueue{events: []domain.AnalyticsEvent{
		{EventType: domain.EventProductView, UserID: uptr(1), ProductID: uptr(7)},
		{EventType: domain.EventProductView, UserID: uptr(2), ProductID: uptr(8)},
	}}
	behavior := &fakeBehaviorEngine{}
	proc := New(queue, behavior, &fakeTrafficEngine{}, fixedSampler{hit: false}, testConfig())

	proc.processBatch(context.Background(), 2)

	stats := proc.Stats()
	assert.Equal(t, uint64(2), stats.ProcessedCount)
	assert.Equal(t, 0, behavior.profileCalls)
	assert.Equal(t, 2, behavior.affinityCalls, "affinity updates are not sampled")
}

func TestStart_DrainsQueueAndStops(t *testing.T) {
	queue := &memoryQueue{events: purchaseEvents(10)}
	behavior := &fakeBehaviorEngine{}
	proc := New(queue, behavior, &fakeTrafficEngine{}, fixedSampler{}, testConfig())

	done := make(chan error, 1)
	go func() {
		done <- proc.Start(context.Background())
	}()

	require.Eventually(t, func() bool {
		return proc.Stats().ProcessedCount == 10
	}, time.Second, 5*time.Millisecond)

	proc.Stop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("processor did not stop")
	}
}

func TestStart_QueueLengthFailureIsFatal(t *testing.T) {
	queue := &memoryQueue{lengthErr: errors.New("connection refused")}
	proc := New(queue, &fakeBehaviorEngine{}, &fakeTrafficEngine{}, fixedSampler{}, testConfig())

	err := proc.Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read queue length")
}

func TestStart_ContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	proc := New(&memoryQueue{}, &fakeBehaviorEngine{}, &fakeTrafficEngine{}, fixedSampler{}, testConfig())

	done := make(chan error, 1)
	go func() {
		done <- proc.Start(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("processor did not stop on context cancel")
	}
}

func TestSampler_RespectsRate(t *testing.T) {
	sampler := NewSampler(1)

	hits := 0
	for i := 0; i < 10000; i++ {
		if sampler.Hit(0.1) {
			hits++
		}
	}

	// 10% rate over 10k draws lands well inside this band
	assert.Greater(t, hits, 500)
	assert.Less(t, hits, 1500)

	assert.False(t, NewSampler(1).Hit(0))
	assert.True(t, NewSampler(1).Hit(1))
}
