package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	JobsInQueue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "extraction_jobs_in_queue",
			Help: "Current number of extraction jobs waiting in the queue.",
		},
	)

	// PagesTotal counts every dequeued page by outcome: success, render, timeout, parse, canceled.
	PagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawl_pages_total",
			Help: "Total number of pages processed by crawl jobs.",
		},
		[]string{"outcome"},
	)

	PageRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crawl_page_render_duration_seconds",
			Help:    "Duration of single page renders.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"domain"},
	)

	CrawlsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawls_total",
			Help: "Total number of crawl jobs by final state.",
		},
		[]string{"state"},
	)

	CrawlDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crawl_duration_seconds",
			Help:    "Duration of whole crawl jobs.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120, 300},
		},
		[]string{"domain"},
	)

	CorpusBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crawl_corpus_bytes",
			Help:    "Size of combined corpora returned by crawl jobs.",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corpus_cache_lookups_total",
			Help: "Corpus cache lookups by result.",
		},
		[]string{"result"}, // hit, miss, error
	)
)
