package providers

import (
	"reviewguard/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncStoreHits()
	IncStoreMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncVerdict(checker string, verdict string)
	ObserveConfidence(checker string, confidence float64)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	storeHits           prometheus.Counter
	storeMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	verdicts            *prometheus.CounterVec
	confidence          *prometheus.HistogramVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncStoreHits() {
	m.storeHits.Inc()
}

func (m *MetricsProvider) IncStoreMisses() {
	m.storeMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncVerdict(checker string, verdict string) {
	m.verdicts.WithLabelValues(checker, verdict).Inc()
}

func (m *MetricsProvider) ObserveConfidence(checker string, confidence float64) {
	m.confidence.WithLabelValues(checker).Observe(confidence)
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}
	return newMetricsProvider(prometheus.DefaultRegisterer)
}

func newMetricsProvider(reg prometheus.Registerer) *MetricsProvider {
	factory := promauto.With(reg)
	return &MetricsProvider{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reviewguard_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reviewguard_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		storeHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "reviewguard_store_hits_total",
			Help: "Total number of device state reads that found a record",
		}),

		storeMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "reviewguard_store_misses_total",
			Help: "Total number of device state reads that found nothing",
		}),

		persistenceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reviewguard_persistence_duration_seconds",
			Help:    "Duration of store snapshot operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reviewguard_verdicts_total",
			Help: "Spam check verdicts per checker",
		}, []string{"checker", "verdict"}),

		confidence: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reviewguard_confidence",
			Help:    "Spam confidence reported per checker",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		}, []string{"checker"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncStoreHits()                                    {}
func (n *noopMetrics) IncStoreMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncVerdict(_ string, _ string)                    {}
func (n *noopMetrics) ObserveConfidence(_ string, _ float64)            {}
