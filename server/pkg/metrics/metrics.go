// Package metrics exposes Prometheus collectors for the summarization service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry     *prometheus.Registry
	summaries    *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	sentences    prometheus.Histogram
	translations *prometheus.CounterVec
	requests     *prometheus.CounterVec
}

// New registers the service collectors on a fresh registry, so several servers can
// live in one process (tests do this).
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "textrank_summaries_total",
			Help: "Summaries produced, by method and source.",
		}, []string{"method", "source"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "textrank_summarize_duration_seconds",
			Help:    "Time spent summarizing one document.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"source"}),
		sentences: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "textrank_document_sentences",
			Help:    "Sentence count of summarized documents.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "textrank_translations_total",
			Help: "Translation attempts by outcome.",
		}, []string{"outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "textrank_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
	m.registry.MustRegister(
		m.summaries, m.duration, m.sentences, m.translations, m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveSummary(method, source string, sentences int, took time.Duration) {
	m.summaries.WithLabelValues(method, source).Inc()
	m.duration.WithLabelValues(source).Observe(took.Seconds())
	m.sentences.Observe(float64(sentences))
}

func (m *Metrics) ObserveTranslation(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.translations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRequest(route, code string) {
	m.requests.WithLabelValues(route, code).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
