// Package metrics holds the Prometheus collectors for the ingestion pipeline.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric name.
const Namespace = "cardfeed"

// Fetch outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Drop reasons.
const (
	ReasonInvalid   = "invalid"
	ReasonDuplicate = "duplicate"
)

// Metrics holds the pipeline collectors.
type Metrics struct {
	SourceFetchesTotal   *prometheus.CounterVec
	SourceItemsTotal     *prometheus.CounterVec
	CardsAddedTotal      *prometheus.CounterVec
	CardsDroppedTotal    *prometheus.CounterVec
	RunDurationSeconds   *prometheus.HistogramVec
	TranslationsTotal    *prometheus.CounterVec
	CircuitBreakerState  *prometheus.GaugeVec
	CacheRequestsTotal   *prometheus.CounterVec
	CollectionCardsGauge *prometheus.GaugeVec
}

// New creates and registers the collectors on reg, or on the default
// registerer when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)
	m := &Metrics{}

	m.initSourceMetrics(factory)
	m.initCardMetrics(factory)
	m.initSupportMetrics(factory)

	return m
}

func (m *Metrics) initSourceMetrics(factory promauto.Factory) {
	m.SourceFetchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "source",
			Name:      "fetches_total",
			Help:      "Source fetches by adapter and outcome",
		},
		[]string{"adapter", "outcome"},
	)

	m.SourceItemsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "source",
			Name:      "items_total",
			Help:      "Raw items yielded by adapter",
		},
		[]string{"adapter"},
	)
}

func (m *Metrics) initCardMetrics(factory promauto.Factory) {
	m.CardsAddedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "cards",
			Name:      "added_total",
			Help:      "Cards added to a collection by merge",
		},
		[]string{"collection"},
	)

	m.CardsDroppedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "cards",
			Name:      "dropped_total",
			Help:      "Cards dropped before persisting, by reason",
		},
		[]string{"collection", "reason"},
	)

	m.CollectionCardsGauge = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "cards",
			Name:      "collection_size",
			Help:      "Cards in a collection after the last save",
		},
		[]string{"target"},
	)

	m.RunDurationSeconds = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "collector",
			Name:      "run_duration_seconds",
			Help:      "Duration of one collection run",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 11), // 0.25s to ~4m
		},
		[]string{"collection"},
	)
}

func (m *Metrics) initSupportMetrics(factory promauto.Factory) {
	m.TranslationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "translate",
			Name:      "requests_total",
			Help:      "Translation attempts by engine and outcome",
		},
		[]string{"engine", "outcome"},
	)

	m.CircuitBreakerState = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "translate",
			Name:      "circuit_breaker_state",
			Help:      "Breaker state per engine (0=closed, 1=open, 2=half-open)",
		},
		[]string{"engine"},
	)

	m.CacheRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Cache lookups by result",
		},
		[]string{"result"},
	)
}

// ObserveFetch records one adapter fetch.
func (m *Metrics) ObserveFetch(adapter string, err error, items int) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.SourceFetchesTotal.WithLabelValues(adapter, outcome).Inc()
	if items > 0 {
		m.SourceItemsTotal.WithLabelValues(adapter).Add(float64(items))
	}
}

// ObserveMerge records the cards a run added and dropped.
func (m *Metrics) ObserveMerge(collection string, added, invalid, duplicates int) {
	if m == nil {
		return
	}
	m.CardsAddedTotal.WithLabelValues(collection).Add(float64(added))
	m.CardsDroppedTotal.WithLabelValues(collection, ReasonInvalid).Add(float64(invalid))
	m.CardsDroppedTotal.WithLabelValues(collection, ReasonDuplicate).Add(float64(duplicates))
}

// SetCollectionSize records the size of a saved collection file.
func (m *Metrics) SetCollectionSize(target string, n int) {
	if m == nil {
		return
	}
	m.CollectionCardsGauge.WithLabelValues(target).Set(float64(n))
}

// ObserveRun records a run duration.
func (m *Metrics) ObserveRun(collection string, d time.Duration) {
	if m == nil {
		return
	}
	m.RunDurationSeconds.WithLabelValues(collection).Observe(d.Seconds())
}

// ObserveTranslation records one engine attempt.
func (m *Metrics) ObserveTranslation(engine string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.TranslationsTotal.WithLabelValues(engine, outcome).Inc()
}

// SetBreakerState records an engine breaker state.
func (m *Metrics) SetBreakerState(engine string, state int) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(engine).Set(float64(state))
}

// ObserveCache records a cache hit or miss.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequestsTotal.WithLabelValues(result).Inc()
}
