// Package metrics exports reconciliation activity to Prometheus.
//
// A Collector observes passes through the reconcile.Observer interface and
// mutation records from an in-memory document:
//
//	reg := prometheus.NewRegistry()
//	c := metrics.New(metrics.WithRegistry(reg))
//
//	r := reconcile.New(factory, reconcile.WithObserver(c))
//	cancel := doc.Observe(c.ObserveMutation)
//	defer cancel()
//
//	http.Handle("/metrics", c.Handler())
//
// Metrics collected:
//   - vdom_passes_total: passes by status (ok, dropped)
//   - vdom_pass_duration_seconds: histogram of pass duration
//   - vdom_actions_total: decision table outcomes by action
//   - vdom_mutations_total: live document mutations by op
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/reconcile"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "vdom").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "vdom",
		// Passes are usually well under a millisecond.
		Buckets:  prometheus.ExponentialBuckets(0.00001, 4, 10),
		Registry: prometheus.DefaultRegisterer,
	}
}

// Collector records reconciliation metrics.
type Collector struct {
	registry  prometheus.Registerer
	namespace string

	passesTotal    *prometheus.CounterVec
	passDuration   prometheus.Histogram
	actionsTotal   *prometheus.CounterVec
	mutationsTotal *prometheus.CounterVec
}

var _ reconcile.Observer = (*Collector)(nil)

// New creates a Collector and registers its metrics. It panics if the
// metrics are already registered with the same registry.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		registry:  config.Registry,
		namespace: config.Namespace,

		passesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of reconciliation passes",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Reconciliation pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		actionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "actions_total",
			Help:        "Decision table outcomes by action",
			ConstLabels: config.ConstLabels,
		}, []string{"action"}),

		mutationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mutations_total",
			Help:        "Live document mutations by operation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),
	}
}

// ObservePass records one pass.
func (c *Collector) ObservePass(stats reconcile.PassStats) {
	if stats.Dropped {
		c.passesTotal.WithLabelValues("dropped").Inc()
		return
	}
	c.passesTotal.WithLabelValues("ok").Inc()
	c.passDuration.Observe(stats.Duration.Seconds())
	for _, a := range reconcile.Actions {
		if n := stats.Count(a); n > 0 {
			c.actionsTotal.WithLabelValues(a.String()).Add(float64(n))
		}
	}
}

// ObserveMutation records one mutation. Its signature matches
// dom.MemoryDocument.Observe.
func (c *Collector) ObserveMutation(rec dom.MutationRecord) {
	c.mutationsTotal.WithLabelValues(rec.Op.String()).Inc()
}

// Registerer returns the registry the collector's metrics live in.
func (c *Collector) Registerer() prometheus.Registerer { return c.registry }

// Namespace returns the metrics namespace.
func (c *Collector) Namespace() string { return c.namespace }

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if g, ok := c.registry.(prometheus.Gatherer); ok {
		return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}
