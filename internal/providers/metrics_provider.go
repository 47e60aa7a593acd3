package providers

import (
	"time"

	"chronorise/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AlarmCounter reports collection sizes for the gauge funcs. Satisfied by the
// alarm service without this package importing it.
type AlarmCounter interface {
	Count() int
	ActiveCount() int
}

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncTicks()
	IncTriggers(kind string)
	SetRinging(ringing bool)
	IncSnoozes()
	IncDismissals()
	ObserveBriefingDuration(duration time.Duration)
	IncBriefingFailures()
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	ticksTotal          prometheus.Counter
	triggersTotal       *prometheus.CounterVec
	ringing             prometheus.Gauge
	snoozesTotal        prometheus.Counter
	dismissalsTotal     prometheus.Counter
	briefingDuration    prometheus.Histogram
	briefingFailures    prometheus.Counter
	persistenceDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncTicks() {
	m.ticksTotal.Inc()
}

func (m *MetricsProvider) IncTriggers(kind string) {
	m.triggersTotal.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) SetRinging(ringing bool) {
	if ringing {
		m.ringing.Set(1)
	} else {
		m.ringing.Set(0)
	}
}

func (m *MetricsProvider) IncSnoozes() {
	m.snoozesTotal.Inc()
}

func (m *MetricsProvider) IncDismissals() {
	m.dismissalsTotal.Inc()
}

func (m *MetricsProvider) ObserveBriefingDuration(duration time.Duration) {
	m.briefingDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncBriefingFailures() {
	m.briefingFailures.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
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

func NewMetricsProvider(conf *structures.Config, service AlarmCounter) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chronorise_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chronorise_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chronorise_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chronorise_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		ticksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chronorise_ticks_total",
			Help: "Total number of evaluation ticks",
		}),

		triggersTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chronorise_triggers_total",
			Help: "Total number of alarm triggers",
		}, []string{"kind"}),

		ringing: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "chronorise_ringing",
			Help: "Whether an alarm is currently ringing (0 or 1)",
		}),

		snoozesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chronorise_snoozes_total",
			Help: "Total number of snoozed alarms",
		}),

		dismissalsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chronorise_dismissals_total",
			Help: "Total number of dismissed alarms",
		}),

		briefingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chronorise_briefing_duration_seconds",
			Help:    "Duration of briefing generation calls in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		briefingFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chronorise_briefing_failures_total",
			Help: "Total number of failed briefing generation calls",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chronorise_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "chronorise_alarms_total",
		Help: "Current number of alarms in the collection",
	}, func() float64 {
		return float64(service.Count())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "chronorise_alarms_active",
		Help: "Current number of active alarms",
	}, func() float64 {
		return float64(service.ActiveCount())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncTicks()                                        {}
func (n *noopMetrics) IncTriggers(_ string)                             {}
func (n *noopMetrics) SetRinging(_ bool)                                {}
func (n *noopMetrics) IncSnoozes()                                      {}
func (n *noopMetrics) IncDismissals()                                   {}
func (n *noopMetrics) ObserveBriefingDuration(_ time.Duration)          {}
func (n *noopMetrics) IncBriefingFailures()                             {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
