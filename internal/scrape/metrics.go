package scrape

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// volumesTotal counts finished volumes, labeled by terminal status.
	volumesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scraper_volumes_total",
		Help: "The total number of volumes finished, labeled by status.",
	}, []string{"status"})
	// pagesTotal tracks listing pages walked.
	pagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_pages_total",
		Help: "The total number of listing pages walked.",
	})
	// blocksTotal tracks content blocks parsed into records.
	blocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_blocks_total",
		Help: "The total number of content blocks parsed into records.",
	})
	// blockParseErrorsTotal tracks blocks skipped due to parse failures.
	blockParseErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_block_parse_errors_total",
		Help: "The total number of content blocks skipped after a parse failure.",
	})
	// retriesTotal tracks retry attempts performed by the retry policy.
	retriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_retries_total",
		Help: "The total number of retry attempts.",
	})
)

// ObserveVolume increments the volume counter for the given terminal status.
func ObserveVolume(status string) { volumesTotal.WithLabelValues(status).Inc() }

// ObservePage increments the walked-page counter.
func ObservePage() { pagesTotal.Inc() }

// ObserveBlock increments the parsed-block counter.
func ObserveBlock() { blocksTotal.Inc() }

// ObserveBlockParseError increments the skipped-block counter.
func ObserveBlockParseError() { blockParseErrorsTotal.Inc() }

// ObserveRetry increments the retry counter.
func ObserveRetry() { retriesTotal.Inc() }
