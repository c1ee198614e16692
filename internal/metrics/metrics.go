// Package metrics exposes Prometheus instrumentation for scenario runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "channel_roi"

type Metrics struct {
	reg *prometheus.Registry

	ScenarioRuns      *prometheus.CounterVec
	ScenarioDuration  *prometheus.HistogramVec
	Projections       prometheus.Counter
	IRRNonConvergence prometheus.Counter
	MonteCarloTrials  prometheus.Counter
	ChannelTableSize  prometheus.Gauge
	StoredRuns        prometheus.Counter
}

// New registers every collector on a private registry so several instances
// can coexist in tests.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		ScenarioRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scenario",
			Name:      "runs_total",
			Help:      "Scenario runs by mode (deterministic, monte_carlo)",
		}, []string{"mode"}),
		ScenarioDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scenario",
			Name:      "duration_seconds",
			Help:      "Wall time of a scenario pass by mode",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		}, []string{"mode"}),
		Projections: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "projections_total",
			Help:      "Deterministic channel projections computed",
		}),
		IRRNonConvergence: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "irr_non_convergence_total",
			Help:      "Deterministic projections whose IRR solver did not converge",
		}),
		MonteCarloTrials: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monte_carlo",
			Name:      "trials_total",
			Help:      "Monte Carlo trials executed",
		}),
		ChannelTableSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "channels",
			Name:      "table_size",
			Help:      "Channels in the loaded table",
		}),
		StoredRuns: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "runs_saved_total",
			Help:      "Reports written to the run store",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
