package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for script runs.
type Metrics struct {
	registry *prometheus.Registry

	// Run metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram

	// Step metrics
	StepsTotal   *prometheus.CounterVec
	StepDuration *prometheus.HistogramVec

	// Typing metrics
	Keystrokes  prometheus.Counter
	Typos       prometheus.Counter
	SecretsSent prometheus.Counter

	// Session metrics
	SessionsActive prometheus.Gauge
}

// NewMetrics creates a collector on its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runner_runs_total",
				Help: "Total number of script runs",
			},
			[]string{"status"},
		),
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "runner_run_duration_seconds",
				Help:    "Script run duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
		),

		StepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runner_steps_total",
				Help: "Total number of script steps",
			},
			[]string{"kind", "status"},
		),
		StepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "runner_step_duration_seconds",
				Help:    "Step duration from first keystroke to satisfied expectation",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"kind"},
		),

		Keystrokes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "runner_keystrokes_total",
				Help: "Total number of simulated keystrokes",
			},
		),
		Typos: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "runner_typos_total",
				Help: "Total number of injected and corrected typos",
			},
		),
		SecretsSent: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "runner_secrets_sent_total",
				Help: "Total number of secrets sent with mirroring suppressed",
			},
		),

		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "runner_sessions_active",
				Help: "Number of live pseudo-terminal sessions",
			},
		),
	}
}

// Registry returns the registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRun records a finished run.
func (m *Metrics) RecordRun(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(duration.Seconds())
}

// RecordStep records a finished step.
func (m *Metrics) RecordStep(kind, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.StepsTotal.WithLabelValues(kind, status).Inc()
	m.StepDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// ObserveKeystroke implements typing.Observer.
func (m *Metrics) ObserveKeystroke(typo bool) {
	if m == nil {
		return
	}
	m.Keystrokes.Inc()
	if typo {
		m.Typos.Inc()
	}
}

// IncSecretsSent increments the secrets counter
func (m *Metrics) IncSecretsSent() {
	if m == nil {
		return
	}
	m.SecretsSent.Inc()
}

// SessionOpened increments the active session gauge
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.SessionsActive.Inc()
}

// SessionClosed decrements the active session gauge
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.SessionsActive.Dec()
}

// WriteToTextfile writes all metrics in the Prometheus text format, for
// the node exporter's textfile collector or for inspection after a run.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
