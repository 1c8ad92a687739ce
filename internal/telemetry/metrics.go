// Package telemetry records per-run statistics as Prometheus metrics. A batch run
// has no scrape endpoint, so the registry is written to a node-exporter textfile
// when the run ends.
package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// Namespace prefixes every metric name.
const Namespace = "moldesc"

// Molecule statuses recorded by Molecules.
const (
	StatusLoaded = "loaded"
	StatusParsed = "parsed"
	StatusFailed = "failed"
)

// Metrics holds the collectors of one run. A nil *Metrics ignores every call.
type Metrics struct {
	registry *prometheus.Registry

	molecules    *prometheus.CounterVec
	stageSeconds *prometheus.HistogramVec
	columns      *prometheus.GaugeVec
	cache        *prometheus.CounterVec
	r2           *prometheus.GaugeVec
	alpha        *prometheus.GaugeVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		molecules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "molecules_total",
			Help:      "Molecules seen by the run, by status.",
		}, []string{"status"}),
		stageSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each pipeline stage.",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
		}, []string{"stage"}),
		columns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "descriptor_columns",
			Help:      "Descriptor columns computed and kept after cleaning.",
		}, []string{"state"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "descriptor_cache",
			Name:      "lookups_total",
			Help:      "Descriptor cache lookups, by result.",
		}, []string{"result"}),
		r2: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "heldout_r2",
			Help:      "Held-out coefficient of determination per component count.",
		}, []string{"components"}),
		alpha: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "selected_alpha",
			Help:      "Cross-validated LASSO penalty per component count.",
		}, []string{"components"}),
	}
	m.registry.MustRegister(m.molecules, m.stageSeconds, m.columns, m.cache, m.r2, m.alpha)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Molecules adds n molecules with the given status.
func (m *Metrics) Molecules(status string, n int) {
	if m == nil {
		return
	}
	m.molecules.WithLabelValues(status).Add(float64(n))
}

// StartStage returns a function that records the stage duration when called.
func (m *Metrics) StartStage(stage string) func() {
	if m == nil {
		return func() {}
	}
	timer := prometheus.NewTimer(m.stageSeconds.WithLabelValues(stage))
	return func() { timer.ObserveDuration() }
}

// ObserveStage records a stage that started at start.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.stageSeconds.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Columns records the number of descriptor columns in a state such as "computed"
// or "kept".
func (m *Metrics) Columns(state string, n int) {
	if m == nil {
		return
	}
	m.columns.WithLabelValues(state).Set(float64(n))
}

// CacheLookups adds cache hits and misses.
func (m *Metrics) CacheLookups(hits, misses int64) {
	if m == nil {
		return
	}
	m.cache.WithLabelValues("hit").Add(float64(hits))
	m.cache.WithLabelValues("miss").Add(float64(misses))
}

// Score records the held-out R² and selected alpha of one configuration.
func (m *Metrics) Score(components int, r2, alpha float64) {
	if m == nil {
		return
	}
	label := strconv.Itoa(components)
	m.r2.WithLabelValues(label).Set(r2)
	m.alpha.WithLabelValues(label).Set(alpha)
}

// WriteTextfile writes the registry in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrapf(err, "write metrics to %s", path)
	}
	return nil
}
