package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	EventsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_events_processed_total",
			Help: "Count of analytics events consumed from the queue, by event type.",
		},
		[]string{"event_type"},
	)

	EventErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ai_event_errors_total",
		Help: "Count of event processing units that failed.",
	})

	BatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ai_batch_duration_seconds",
		Help:    "Duration of one batch drain cycle.",
		Buckets: prometheus.DefBuckets,
	})

	QueueLength = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ai_event_queue_length",
		Help: "Length of the analytics event queue as of the last poll.",
	})

	// Latency of the recommendations HTTP handler
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ai_recommend_latency_seconds",
		Help:    "Latency of the recommendations handler",
		Buckets: prometheus.DefBuckets,
	})
)

func Init() {
	prometheus.MustRegister(
		EventsProcessedTotal,
		EventErrorsTotal,
		BatchDuration,
		QueueLength,
		RecommendLatency,
	)
}
