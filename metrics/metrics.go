// Package metrics exports engine events as Prometheus metrics.
//
//	m := metrics.New("vskema")
//	prometheus.MustRegister(m)
//	eng := engine.New(engine.WithObserver(m))
//	http.Handle("/metrics", promhttp.Handler())
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/engine"
)

// Collector is an engine.Observer backed by Prometheus vectors. It is also a
// prometheus.Collector, so it registers as one unit.
type Collector struct {
	validations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	errors      *prometheus.CounterVec
	asyncRules  *prometheus.CounterVec
	asyncTime   *prometheus.HistogramVec
}

var (
	_ engine.Observer      = (*Collector)(nil)
	_ prometheus.Collector = (*Collector)(nil)
)

// New creates the metric vectors under namespace.
func New(namespace string) *Collector {
	return &Collector{
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of validation calls",
			},
			[]string{"mode", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Duration of validation calls",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"mode"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_errors_total",
				Help:      "Total number of reported validation errors",
			},
			[]string{"severity", "code"},
		),
		asyncRules: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "async_rules_total",
				Help:      "Total number of async rule executions by outcome",
			},
			[]string{"kind", "outcome"},
		),
		asyncTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "async_rule_duration_seconds",
				Help:      "Duration of async rule executions, debounce wait included",
			},
			[]string{"kind"},
		),
	}
}

// ValidationDone implements engine.Observer.
func (c *Collector) ValidationDone(mode engine.Mode, res vskema.ValidationResult, elapsed time.Duration) {
	result := "valid"
	if !res.Valid {
		result = "invalid"
	}
	c.validations.WithLabelValues(string(mode), result).Inc()
	c.duration.WithLabelValues(string(mode)).Observe(elapsed.Seconds())
	for _, e := range res.All() {
		c.errors.WithLabelValues(string(e.Severity), e.Code).Inc()
	}
}

// AsyncRuleDone implements engine.Observer.
func (c *Collector) AsyncRuleDone(kind vskema.RuleKind, outcome string, elapsed time.Duration) {
	c.asyncRules.WithLabelValues(string(kind), outcome).Inc()
	c.asyncTime.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.validations.Describe(ch)
	c.duration.Describe(ch)
	c.errors.Describe(ch)
	c.asyncRules.Describe(ch)
	c.asyncTime.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.validations.Collect(ch)
	c.duration.Collect(ch)
	c.errors.Collect(ch)
	c.asyncRules.Collect(ch)
	c.asyncTime.Collect(ch)
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
