package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "poirec_catalog_pois",
			Help: "Number of POIs loaded into the reference store",
		},
		[]string{"set"}, // "embedded", "metadata", "landmarks"
	)

	CatalogLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "poirec_catalog_load_duration_seconds",
			Help:    "Time spent loading reference data at startup",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poirec_fetch_total",
			Help: "Reference files fetched from remote storage",
		},
		[]string{"file", "result"}, // "downloaded", "cached", "failed"
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poirec_query_duration_seconds",
			Help:    "Duration of ranking and proximity queries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "rank", "nearby"
	)

	QueryResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poirec_query_results_total",
			Help: "Results returned by ranking and proximity queries",
		},
		[]string{"operation"},
	)

	CandidatesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poirec_candidates_skipped_total",
			Help: "Candidates dropped from a query",
		},
		[]string{"reason"}, // "missing_location", "outside_radius"
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poirec_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveQuery records the duration of a ranking/proximity pass and its result count.
func ObserveQuery(operation string, start time.Time, results int) {
	QueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	QueryResults.WithLabelValues(operation).Add(float64(results))
}
