package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Recorder collects run statistics in its own registry so that several
// recorders (one per test, one per CLI invocation) never collide.
type Recorder struct {
	registry     *prometheus.Registry
	solveSeconds *prometheus.HistogramVec
	solves       *prometheus.CounterVec
	uniformError *prometheus.GaugeVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		solveSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "heatslab_solve_duration_seconds",
				Help:    "Wall-clock time of one scheme solve.",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
			[]string{"scheme"},
		),
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "heatslab_solves_total",
				Help: "Scheme solves by outcome (ok, nonfinite, error).",
			},
			[]string{"scheme", "outcome"},
		),
		uniformError: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "heatslab_uniform_error",
				Help: "Uniform norm of the error against the analytical profile from the latest run.",
			},
			[]string{"scheme"},
		),
	}
	r.registry.MustRegister(r.solveSeconds, r.solves, r.uniformError)
	return r
}

// ObserveSolve records one finished solve.
func (r *Recorder) ObserveSolve(scheme string, elapsed time.Duration, outcome string) {
	r.solveSeconds.WithLabelValues(scheme).Observe(elapsed.Seconds())
	r.solves.WithLabelValues(scheme, outcome).Inc()
}

// ObserveError records the uniform error norm of the latest comparison.
func (r *Recorder) ObserveError(scheme string, e Errors) {
	r.uniformError.WithLabelValues(scheme).Set(e.Uniform)
}

// Registry exposes the underlying registry, e.g. for promhttp.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteText writes every collected family in the Prometheus text format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
