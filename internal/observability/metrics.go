package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricPipelineRunsTotal    = "weeklyai_pipeline_runs_total"
	MetricPipelineStepDuration = "weeklyai_pipeline_step_duration_seconds"
	MetricSignalRequestsTotal  = "weeklyai_signal_requests_total"
	MetricProductsProcessed    = "weeklyai_products_processed"
	MetricGuardrailMovesTotal  = "weeklyai_guardrail_moves_total"
)

// Step label constants.
const (
	StepLoad      = "load"
	StepMerge     = "merge"
	StepScore     = "score"
	StepSignals   = "signals"
	StepDemand    = "demand"
	StepGuardrail = "guardrail"
	StepViews     = "views"
)

// Status constants for run completion.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics contains Prometheus metrics for pipeline runs.
// All operations are thread-safe.
type Metrics struct {
	runsTotal      *prometheus.CounterVec
	stepDuration   *prometheus.HistogramVec
	signalRequests *prometheus.CounterVec
	products       prometheus.Gauge
	guardrailMoves *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to register
// them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricPipelineRunsTotal,
				Help: "Total number of curation pipeline runs by status",
			},
			[]string{"status"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricPipelineStepDuration,
				Help:    "Histogram of pipeline step duration in seconds by step",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0, 120.0},
			},
			[]string{"step"},
		),
		signalRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSignalRequestsTotal,
				Help: "Total number of signal collector outcomes by collector and status",
			},
			[]string{"collector", "status"},
		),
		products: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: MetricProductsProcessed,
				Help: "Number of canonical products in the most recent run",
			},
		),
		guardrailMoves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricGuardrailMovesTotal,
				Help: "Total number of guardrail score adjustments by direction",
			},
			[]string{"direction"},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncRunsTotal increments the runs counter.
// status: StatusSuccess or StatusFailure
func (m *Metrics) IncRunsTotal(status string) {
	m.runsTotal.WithLabelValues(status).Inc()
}

// ObserveStepDuration records a step duration sample.
// step: one of the Step constants
// seconds: duration of the step in seconds
func (m *Metrics) ObserveStepDuration(step string, seconds float64) {
	m.stepDuration.WithLabelValues(step).Observe(seconds)
}

// IncSignalRequests increments the signal outcome counter.
// collector: "hn", "x", or "github"
// status: the signal status string ("ok", "skipped", "error")
func (m *Metrics) IncSignalRequests(collector, status string) {
	m.signalRequests.WithLabelValues(collector, status).Inc()
}

// SetProductsProcessed records the product count of the latest run.
func (m *Metrics) SetProductsProcessed(count int) {
	m.products.Set(float64(count))
}

// IncGuardrailMoves increments the guardrail adjustment counter.
// direction: "upgraded" or "downgraded"
func (m *Metrics) IncGuardrailMoves(direction string) {
	m.guardrailMoves.WithLabelValues(direction).Inc()
}

// AddGuardrailMoves adds n to the guardrail adjustment counter.
func (m *Metrics) AddGuardrailMoves(direction string, n int) {
	m.guardrailMoves.WithLabelValues(direction).Add(float64(n))
}

// Collectors returns all Prometheus collectors for testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.runsTotal,
		m.stepDuration,
		m.signalRequests,
		m.products,
		m.guardrailMoves,
	}
}
