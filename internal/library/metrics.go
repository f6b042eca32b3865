package library

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_cache_lookups_total",
		Help: "Cache freshness classification per /list request.",
	}, []string{"state"})

	crawls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_crawls_total",
		Help: "Folder tree crawls by mode and outcome.",
	}, []string{"mode", "status"})

	crawlDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "library_crawl_duration_seconds",
		Help:    "Duration of full folder tree crawls.",
		Buckets: prometheus.DefBuckets,
	})
)
