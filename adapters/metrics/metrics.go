// Package metrics provides Prometheus metrics collection for chartschema.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/artpar/chartschema/core/registry"
	"github.com/artpar/chartschema/core/schema"
	"github.com/artpar/chartschema/core/validation"
)

const namespace = "chartschema"

// Collector holds all Prometheus metrics for chartschema.
type Collector struct {
	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Schema metrics
	Rebuilds          *prometheus.CounterVec
	Revision          prometheus.Gauge
	Attributes        *prometheus.GaugeVec
	LastPublish       prometheus.Gauge
	SnapshotsRecorded *prometheus.CounterVec
	SnapshotErrors    prometheus.Counter

	// Validation metrics
	Validations      *prometheus.CounterVec
	ValidationErrors *prometheus.CounterVec

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
	ConfigLastReload   prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New creates a collector registered with the default Prometheus registry.
func New() *Collector {
	return newCollector(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewWithRegistry creates a collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg *prometheus.Registry) *Collector {
	return newCollector(reg, reg)
}

func newCollector(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),

		Rebuilds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "schema_rebuilds_total",
				Help:      "Total number of schema rebuilds by result",
			},
			[]string{"result"},
		),
		Revision: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "schema_revision",
				Help:      "Revision of the currently published schemas",
			},
		),
		Attributes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "schema_attributes",
				Help:      "Number of leaf attributes per published schema",
			},
			[]string{"schema"},
		),
		LastPublish: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "schema_last_publish_timestamp",
				Help:      "Unix timestamp of the last successful publish",
			},
		),
		SnapshotsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshots_recorded_total",
				Help:      "Total number of schema snapshots recorded",
			},
			[]string{"schema"},
		),
		SnapshotErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_errors_total",
				Help:      "Total number of failed snapshot writes",
			},
		),

		Validations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of layout validations by result",
			},
			[]string{"schema", "result"},
		),
		ValidationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_errors_total",
				Help:      "Total number of validation errors by violated constraint",
			},
			[]string{"schema", "constraint"},
		),

		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
		ConfigLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "config_last_reload_timestamp",
				Help:      "Unix timestamp of last successful config reload",
			},
		),

		gatherer: gatherer,
	}
}

// Handler serves the metrics of the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// ObservePublish records a successful publish. It is a registry.Listener.
func (c *Collector) ObservePublish(p *registry.Published) {
	c.Rebuilds.WithLabelValues("ok").Inc()
	c.Revision.Set(float64(p.Revision))
	c.LastPublish.Set(float64(p.BuiltAt.Unix()))
	for name, g := range p.Schemas {
		c.Attributes.WithLabelValues(name).Set(float64(len(schema.Leaves(g))))
	}
}

// ObserveRebuildError records a rejected rebuild.
func (c *Collector) ObserveRebuildError() {
	c.Rebuilds.WithLabelValues("error").Inc()
}

// ObserveValidation records the outcome of one layout validation.
func (c *Collector) ObserveValidation(schemaName string, result validation.ValidationResult) {
	outcome := "valid"
	if !result.Valid {
		outcome = "invalid"
	}
	c.Validations.WithLabelValues(schemaName, outcome).Inc()
	for _, e := range result.Errors {
		c.ValidationErrors.WithLabelValues(schemaName, e.Constraint).Inc()
	}
}
