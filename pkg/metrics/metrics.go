// Package metrics provides Prometheus instrumentation for the coachkit trainer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the trainer.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Training activity
	trialsRecorded   prometheus.Counter
	ratingUpdates    prometheus.Counter
	sessionsFinished prometheus.Counter
	plansComposed    prometheus.Counter

	// Current state
	catalogSkills  prometheus.Gauge
	catalogModules prometheus.Gauge
	sessionOpen    prometheus.Gauge
	fatigueLevel   prometheus.Gauge

	// Persistence
	snapshotSaves        prometheus.Counter
	persistenceFailures  prometheus.Counter
	snapshotSaveDuration prometheus.Histogram

	// Planning
	composeDuration prometheus.Histogram
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithRegistry sets the Prometheus registerer metrics are registered on.
func WithRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithHistogramBuckets overrides the default histogram buckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// Global manager on a custom registry so the default Go collectors
// do not leak into ours.
var (
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton metrics registry
	globalManager  *Manager                   //nolint:gochecknoglobals // singleton metrics manager
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// Registry returns the registry the global metrics are registered on.
// The CLI uses it for the optional exposition endpoint.
func Registry() *prometheus.Registry {
	return customRegistry
}

// NewManager creates a metrics manager and registers all metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "coachkit",
		subsystem:        "trainer",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.trialsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "trials_recorded_total",
		Help: "Total number of trials recorded against open sessions",
	})
	m.ratingUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "rating_updates_total",
		Help: "Total number of skill rating updates applied",
	})
	m.sessionsFinished = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "sessions_finished_total",
		Help: "Total number of sessions appended to the activity log",
	})
	m.plansComposed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "plans_composed_total",
		Help: "Total number of session plans composed",
	})

	m.catalogSkills = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "catalog_skills",
		Help: "Number of skills in the catalog",
	})
	m.catalogModules = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "catalog_modules",
		Help: "Number of training modules in the catalog",
	})
	m.sessionOpen = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "session_open",
		Help: "1 while a training session is open, 0 otherwise",
	})
	m.fatigueLevel = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "fatigue_level",
		Help: "Fatigue level estimated by the most recent plan composition",
	})

	m.snapshotSaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "snapshot_saves_total",
		Help: "Total number of state snapshots written",
	})
	m.persistenceFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "persistence_failures_total",
		Help: "Total number of best-effort persistence operations that failed",
	})
	m.snapshotSaveDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "snapshot_save_duration_seconds",
		Help: "Histogram of snapshot save duration in seconds",
		Buckets: m.histogramBuckets,
	})

	m.composeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "compose_duration_seconds",
		Help: "Histogram of session plan composition duration in seconds",
		Buckets: m.histogramBuckets,
	})

	return m
}

// Package-level helpers delegating to the global manager.

func IncrementTrialsRecorded()   { globalManager.trialsRecorded.Inc() }
func IncrementRatingUpdates()    { globalManager.ratingUpdates.Inc() }
func IncrementSessionsFinished() { globalManager.sessionsFinished.Inc() }
func IncrementPlansComposed()    { globalManager.plansComposed.Inc() }

func UpdateCatalogSkills(n int)  { globalManager.catalogSkills.Set(float64(n)) }
func UpdateCatalogModules(n int) { globalManager.catalogModules.Set(float64(n)) }

func UpdateSessionOpen(open bool) {
	if open {
		globalManager.sessionOpen.Set(1)
		return
	}
	globalManager.sessionOpen.Set(0)
}

func UpdateFatigueLevel(level float64) { globalManager.fatigueLevel.Set(level) }

func IncrementSnapshotSaves()       { globalManager.snapshotSaves.Inc() }
func IncrementPersistenceFailures() { globalManager.persistenceFailures.Inc() }

func RecordSnapshotSaveDuration(seconds float64) {
	globalManager.snapshotSaveDuration.Observe(seconds)
}

func RecordComposeDuration(seconds float64) {
	globalManager.composeDuration.Observe(seconds)
}
