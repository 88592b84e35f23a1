package processor

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"bazaarIntel/business/traffic"
	"bazaarIntel/domain"
	"bazaarIntel/pkg/logger"
	"bazaarIntel/pkg/metrics"
)

// ---- Collaborator interfaces ----

// EventQueue is the FIFO the main application pushes analytics events onto.
// Pop returns (nil, nil) when the queue is empty; concurrent consumers race
// on Pop and the empty result is a benign outcome of that race.
type EventQueue interface {
	Pop(ctx context.Context) (*domain.AnalyticsEvent, error)
	Length(ctx context.Context) (int64, error)
}

type BehaviorEngine interface {
	UpdateProductAffinity(ctx context.Context, userID, productID uint64, eventType domain.EventType) error
	ProcessUserBehavior(ctx context.Context, userID uint64) (*domain.UserAIProfile, error)
}

type TrafficEngine interface {
	CalculateShopScore(ctx context.Context, shopID uint64) (*traffic.ScoreReport, error)
}

// Config drives the polling loop and the sampling policy.
type Config struct {
	BatchSize         int
	Interval          time.Duration
	ProfileSampleRate float64
	ShopSampleRate    float64
}

// Stats are process-lifetime counters. ProcessedCount counts attempted
// events, including ones that later failed; ErrorCount counts failed units.
type Stats struct {
	ProcessedCount uint64  `json:"processed_count"`
	ErrorCount     uint64  `json:"error_count"`
	SuccessRate    float64 `json:"success_rate"`
}

// Processor drains the event queue in concurrent batches and fans each event
// out to the scoring engines under the sampling policy.
type Processor struct {
	queue    EventQueue
	behavior BehaviorEngine
	traffic  TrafficEngine
	sampler  Sampler
	cfg      Config

	processed atomic.Uint64
	errors    atomic.Uint64

	stop     chan struct{}
	stopOnce sync.Once
}

func New(
	queue EventQueue,
	behavior BehaviorEngine,
	traffic TrafficEngine,
	sampler Sampler,
	cfg Config,
) *Processor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}

	return &Processor{
		queue:    queue,
		behavior: behavior,
		traffic:  traffic,
		sampler:  sampler,
		cfg:      cfg,
		stop:     make(chan struct{}),
	}
}

// Start runs the polling loop until Stop is called or the context is
// cancelled. An in-flight batch always completes before the loop exits. A
// failing queue length check is fatal to the loop and propagates.
func (p *Processor) Start(ctx context.Context) error {
	logger.Info("event processor started",
		"batch_size", p.cfg.BatchSize,
		"interval", p.cfg.Interval,
	)

	for {
		select {
		case <-p.stop:
			return nil
		case <-ctx.Done():
			return nil
		default:
		}

		queueLength, err := p.queue.Length(ctx)
		if err != nil {
			return fmt.Errorf("failed to read queue length: %w", err)
		}
		metrics.QueueLength.Set(float64(queueLength))

		if queueLength > 0 {
			batchSize := int(queueLength)
			if batchSize > p.cfg.BatchSize {
				batchSize = p.cfg.BatchSize
			}

			start := time.Now()
			p.processBatch(ctx, batchSize)
			metrics.BatchDuration.Observe(time.Since(start).Seconds())

			stats := p.Stats()
			logger.Info("batch processed",
				"batch_size", batchSize,
				"processed_total", stats.ProcessedCount,
				"errors_total", stats.ErrorCount,
			)
		}

		// fixed sleep between cycles whether or not a backlog remains
		select {
		case <-p.stop:
			return nil
		case <-ctx.Done():
			return nil
		case <-time.After(p.cfg.Interval):
		}
	}
}

// Stop signals graceful termination; the current cycle finishes first.
func (p *Processor) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
}

// Stats returns the lifetime counters; reset only by process restart.
// Pop failures count an error without a processed increment, so errs can
// exceed processed; the rate is floored at zero rather than underflowing.
func (p *Processor) Stats() Stats {
	processed := p.processed.Load()
	errs := p.errors.Load()

	successRate := 0.0
	if processed > 0 {
		successRate = float64(int64(processed)-int64(errs)) / float64(processed) * 100
		successRate = math.Max(successRate, 0)
	}

	return Stats{
		ProcessedCount: processed,
		ErrorCount:     errs,
		SuccessRate:    successRate,
	}
}

// processBatch fires batchSize pop+process units concurrently and waits for
// all of them. Unit failures are counted, never propagated, so one poisoned
// event cannot stall the batch.
func (p *Processor) processBatch(ctx context.Context, batchSize int) {
	var wg sync.WaitGroup
	wg.Add(batchSize)

	for i := 0; i < batchSize; i++ {
		go func() {
			defer wg.Done()
			p.processNextEvent(ctx)
		}()
	}

	wg.Wait()
}

func (p *Processor) processNextEvent(ctx context.Context) {
	event, err := p.queue.Pop(ctx)
	if err != nil {
		logger.Error("failed to pop event", "error", err)
		p.errors.Add(1)
		metrics.EventErrorsTotal.Inc()
		return
	}
	if event == nil {
		// another consumer drained the queue first
		return
	}

	p.processed.Add(1)
	metrics.EventsProcessedTotal.WithLabelValues(string(event.EventType)).Inc()

	if !event.EventType.Known() {
		logger.Warn("unrecognized event type", "event_type", event.EventType)
		p.errors.Add(1)
		metrics.EventErrorsTotal.Inc()
		return
	}

	// affinity updates are best-effort; failures are logged, not counted
	if event.UserID != nil && event.ProductID != nil && event.EventType.AffinityRelevant() {
		if err := p.behavior.UpdateProductAffinity(ctx, *event.UserID, *event.ProductID, event.EventType); err != nil {
			logger.Error("affinity update failed",
				"user_id", *event.UserID,
				"product_id", *event.ProductID,
				"error", err,
			)
		}
	}

	failed := false

	if event.UserID != nil && p.shouldUpdateUserProfile(event.EventType) {
		if _, err := p.behavior.ProcessUserBehavior(ctx, *event.UserID); err != nil {
			logger.Error("profile recompute failed", "user_id", *event.UserID, "error", err)
			failed = true
		}
	}

	if event.ShopID != nil && p.shouldUpdateShopMetrics(event.EventType) {
		if _, err := p.traffic.CalculateShopScore(ctx, *event.ShopID); err != nil {
			logger.Error("shop score recompute failed", "shop_id", *event.ShopID, "error", err)
			failed = true
		}
	}

	if failed {
		p.errors.Add(1)
		metrics.EventErrorsTotal.Inc()
	}
}

// Purchases and cart adds always refresh the profile; everything else is
// sampled to bound write amplification under bursty load.
func (p *Processor) shouldUpdateUserProfile(eventType domain.EventType) bool {
	if eventType == domain.EventPurchase || eventType == domain.EventAddToCart {
		return true
	}

	return p.sampler.Hit(p.cfg.ProfileSampleRate)
}

// Shop visits always refresh shop metrics; everything else is sampled.
func (p *Processor) shouldUpdateShopMetrics(eventType domain.EventType) bool {
	if eventType == domain.EventShopVisit {
		return true
	}

	return p.sampler.Hit(p.cfg.ShopSampleRate)
}
