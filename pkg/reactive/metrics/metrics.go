// Package metrics exports reactive runtime activity as Prometheus metrics.
//
// Register the observer with the runtime and remove it on shutdown:
//
//	remove := reactive.AddObserver(metrics.NewObserver(metrics.WithNamespace("myapp")))
//	defer remove()
//	http.Handle("/metrics", promhttp.Handler())
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/tracked/pkg/reactive"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "tracked").
	Namespace string

	// Subsystem is the metrics subsystem (default: "reactive").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for listeners notified per flush.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus observer.
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
		Namespace: "tracked",
		Subsystem: "reactive",
		Buckets:   []float64{1, 2, 5, 10, 50, 100, 1000},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer is a reactive.Observer that records runtime events.
//
// Metrics collected (default namespace and subsystem):
//   - tracked_reactive_signal_writes_total
//   - tracked_reactive_signal_writes_rejected_total
//   - tracked_reactive_listener_notifications_total{mode="immediate"|"batch"}
//   - tracked_reactive_batches_total
//   - tracked_reactive_batch_listeners: listeners notified per batch flush
type Observer struct {
	writes         prometheus.Counter
	rejected       prometheus.Counter
	notifications  *prometheus.CounterVec
	batches        prometheus.Counter
	batchListeners prometheus.Histogram
}

var _ reactive.Observer = (*Observer)(nil)

// NewObserver registers the runtime metrics and returns an observer that
// records into them. It panics if the metrics are already registered with
// the chosen registry.
func NewObserver(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Observer{
		writes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "signal_writes_total",
			Help:        "Total number of writes applied to signals",
			ConstLabels: config.ConstLabels,
		}),

		rejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "signal_writes_rejected_total",
			Help:        "Total number of writes ignored because the signal was disposed",
			ConstLabels: config.ConstLabels,
		}),

		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listener_notifications_total",
			Help:        "Total number of listeners marked dirty",
			ConstLabels: config.ConstLabels,
		}, []string{"mode"}),

		batches: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "batches_total",
			Help:        "Total number of outermost batches flushed",
			ConstLabels: config.ConstLabels,
		}),

		batchListeners: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "batch_listeners",
			Help:        "Unique listeners notified per batch flush",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// SignalWritten implements reactive.Observer.
func (o *Observer) SignalWritten(uint64) {
	o.writes.Inc()
}

// SignalWriteRejected implements reactive.Observer.
func (o *Observer) SignalWriteRejected(uint64) {
	o.rejected.Inc()
}

// ListenersNotified implements reactive.Observer.
func (o *Observer) ListenersNotified(n int) {
	o.notifications.WithLabelValues("immediate").Add(float64(n))
}

// BatchCompleted implements reactive.Observer.
func (o *Observer) BatchCompleted(n int) {
	o.batches.Inc()
	o.batchListeners.Observe(float64(n))
	o.notifications.WithLabelValues("batch").Add(float64(n))
}
