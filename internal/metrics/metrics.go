// Package metrics records pipeline outcomes as Prometheus metrics on a
// dedicated registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Batch outcomes.
const (
	OutcomeOK                 = "ok"
	OutcomeValidation         = "validation"
	OutcomeBatchFailure       = "batch_failure"
	OutcomeAggregationFailure = "aggregation_failure"
	OutcomeError              = "error"
)

// Stage outcomes.
const (
	StageSuccess = "success"
	StageFailure = "failure"
)

// Recorder holds the pipeline collectors. A nil Recorder discards
// observations.
type Recorder struct {
	registry      *prometheus.Registry
	stageResults  *prometheus.CounterVec
	batches       *prometheus.CounterVec
	batchDuration prometheus.Histogram
}

// New creates a Recorder with its own registry, including Go runtime and
// process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stageResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stagedoc_stage_results_total",
				Help: "Per-image stage results by outcome.",
			},
			[]string{"outcome"},
		),
		batches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stagedoc_batches_total",
				Help: "Batch runs by outcome.",
			},
			[]string{"outcome"},
		),
		batchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stagedoc_batch_duration_seconds",
				Help:    "Wall time of batch runs.",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			},
		),
	}

	r.registry.MustRegister(
		r.stageResults,
		r.batches,
		r.batchDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// ObserveStage counts one per-image result.
func (r *Recorder) ObserveStage(success bool) {
	if r == nil {
		return
	}
	outcome := StageFailure
	if success {
		outcome = StageSuccess
	}
	r.stageResults.WithLabelValues(outcome).Inc()
}

// ObserveBatch counts one batch run and records its duration.
func (r *Recorder) ObserveBatch(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.batches.WithLabelValues(outcome).Inc()
	r.batchDuration.Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
