package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vaultblog"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration      *prom.HistogramVec
	stageResults       *prom.CounterVec
	generationDuration prom.Histogram
	generationOutcome  *prom.CounterVec
	posts              prom.Gauge
	watchEvents        *prom.CounterVec
	regenerations      *prom.CounterVec
	gatherer           prom.Gatherer
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		gatherer: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual generation stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		generationDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Total generation run duration",
			Buckets:   prom.DefBuckets,
		}),
		generationOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "generation_outcomes_total",
			Help:      "Generation runs by final status",
		}, []string{"outcome"}),
		posts: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "posts",
			Help:      "Posts published by the last generation run",
		}),
		watchEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "watch_events_total",
			Help:      "Qualifying filesystem events by operation",
		}, []string{"op"}),
		regenerations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "regenerations_total",
			Help:      "Watch-mode regenerations by trigger",
		}, []string{"trigger"}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.generationDuration, pr.generationOutcome, pr.posts, pr.watchEvents, pr.regenerations)
	return pr
}

// Handler serves the recorder's registry in the Prometheus text or
// OpenMetrics format. A nil recorder serves 404.
func (p *PrometheusRecorder) Handler() http.Handler {
	if p == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveGenerationDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.generationDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncGenerationOutcome(outcome string) {
	if p == nil {
		return
	}
	p.generationOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetPostCount(n int) {
	if p == nil {
		return
	}
	p.posts.Set(float64(n))
}

func (p *PrometheusRecorder) IncWatchEvent(op string) {
	if p == nil {
		return
	}
	p.watchEvents.WithLabelValues(op).Inc()
}

func (p *PrometheusRecorder) IncRegeneration(trigger string) {
	if p == nil {
		return
	}
	p.regenerations.WithLabelValues(trigger).Inc()
}
