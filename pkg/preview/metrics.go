package preview

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the preview Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "cosmos").
	Namespace string

	// Subsystem is the metrics subsystem (default: "preview").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the preview metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "cosmos",
		Subsystem: "preview",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors shared by all loaders.
// A nil *Metrics records nothing.
type Metrics struct {
	rendersTotal    *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec
	fixtureUpdates  *prometheus.CounterVec
	dispatchesTotal *prometheus.CounterVec
	mountedLoaders  prometheus.Gauge
}

// NewMetrics registers the preview collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of fixture renders",
			ConstLabels: config.ConstLabels,
		}, []string{"fixture", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Fixture render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"fixture"}),

		fixtureUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fixture_updates_total",
			Help:        "Total number of fixture updates relayed by proxies",
			ConstLabels: config.ConstLabels,
		}, []string{"fixture", "key"}),

		dispatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatches_total",
			Help:        "Total number of actions dispatched to fixture stores",
			ConstLabels: config.ConstLabels,
		}, []string{"fixture", "status"}),

		mountedLoaders: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mounted_fixtures",
			Help:        "Number of currently mounted fixtures",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) recordRender(name string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.rendersTotal.WithLabelValues(name, status(err)).Inc()
	m.renderDuration.WithLabelValues(name).Observe(d.Seconds())
}

func (m *Metrics) recordUpdate(name string, keys []string) {
	if m == nil {
		return
	}
	for _, k := range keys {
		m.fixtureUpdates.WithLabelValues(name, k).Inc()
	}
}

func (m *Metrics) recordDispatch(name string, err error) {
	if m == nil {
		return
	}
	m.dispatchesTotal.WithLabelValues(name, status(err)).Inc()
}

func (m *Metrics) mounted(delta float64) {
	if m == nil {
		return
	}
	m.mountedLoaders.Add(delta)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
