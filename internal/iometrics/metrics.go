// Package iometrics keeps Prometheus counters of batch runs and the
// query API. Batch commands push them to a Pushgateway at exit, the
// query API exposes them on /metrics.
package iometrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "agrimart"

// Outcome labels of a processed unit.
const (
	OutcomeOK   = "ok"
	OutcomeSkip = "skip"
	OutcomeFail = "fail"
)

// Metrics holds counters and histograms of the pipeline stages.
type Metrics struct {
	// Units counts processed units. Labels: stage, outcome.
	Units *prometheus.CounterVec

	// Rows counts written or loaded rows. Labels: stage.
	Rows *prometheus.CounterVec

	// UnitDuration observes time spent on one unit. Labels: stage.
	UnitDuration *prometheus.HistogramVec

	// Requests counts query API requests. Labels: route, status.
	Requests *prometheus.CounterVec

	reg *prometheus.Registry
}

// New creates metrics registered with their own registry.
func New() *Metrics {
	m := &Metrics{
		Units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_total",
			Help:      "Processed units by stage and outcome.",
		}, []string{"stage", "outcome"}),
		Rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Rows written to partitions or loaded to a store.",
		}, []string{"stage"}),
		UnitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "unit_duration_seconds",
			Help:      "Duration of processing one unit.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 180},
		}, []string{"stage"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Query API requests by route and status.",
		}, []string{"route", "status"}),
		reg: prometheus.NewRegistry(),
	}

	m.reg.MustRegister(
		m.Units,
		m.Rows,
		m.UnitDuration,
		m.Requests,
	)
	return m
}

// Registry is used by the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Unit records the outcome of one unit.
func (m *Metrics) Unit(stage, outcome string, seconds float64) {
	m.Units.WithLabelValues(stage, outcome).Inc()
	if outcome != OutcomeSkip {
		m.UnitDuration.WithLabelValues(stage).Observe(seconds)
	}
}

// AddRows adds n rows to the stage counter.
func (m *Metrics) AddRows(stage string, n int) {
	m.Rows.WithLabelValues(stage).Add(float64(n))
}

// Push sends all metrics to a Pushgateway. Empty url is a no-op.
func (m *Metrics) Push(url, job string) error {
	if url == "" {
		return nil
	}
	err := push.New(url, job).Gatherer(m.reg).Push()
	if err != nil {
		return PushError(url, err)
	}
	return nil
}
