package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "folio"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	stageDuration    *prom.HistogramVec
	buildDuration    prom.Histogram
	stageResults     *prom.CounterVec
	buildOutcome     *prom.CounterVec
	pagesRendered    *prom.CounterVec
	sectionDocuments *prom.GaugeVec
	brokenLinks      prom.Gauge
	previewRebuilds  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.pagesRendered = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_rendered_total",
			Help:      "Pages written by kind",
		}, []string{"kind"})
		pr.sectionDocuments = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "section_documents",
			Help:      "Documentation files per section in the current snapshot",
		}, []string{"section"})
		pr.brokenLinks = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "broken_links",
			Help:      "Broken internal links found by the last check",
		})
		pr.previewRebuilds = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "preview_rebuilds_total",
			Help:      "Preview snapshot reloads by result",
		}, []string{"result"})
		reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
			pr.pagesRendered, pr.sectionDocuments, pr.brokenLinks, pr.previewRebuilds)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddPagesRendered(kind string, n int) {
	if p == nil || p.pagesRendered == nil {
		return
	}
	p.pagesRendered.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) SetSectionDocuments(section string, n int) {
	if p == nil || p.sectionDocuments == nil {
		return
	}
	p.sectionDocuments.WithLabelValues(section).Set(float64(n))
}

func (p *PrometheusRecorder) SetBrokenLinks(n int) {
	if p == nil || p.brokenLinks == nil {
		return
	}
	p.brokenLinks.Set(float64(n))
}

func (p *PrometheusRecorder) IncPreviewRebuild(result ResultLabel) {
	if p == nil || p.previewRebuilds == nil {
		return
	}
	p.previewRebuilds.WithLabelValues(string(result)).Inc()
}
