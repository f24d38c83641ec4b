package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "onboardops"
)

var (
	fetchDurationBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120}

	// Directory metrics
	DirectoryFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "directory_fetch_duration_seconds",
		Help:      "Time taken for a full directory aggregation to complete.",
		Buckets:   fetchDurationBuckets,
	}, []string{"resource"})

	DirectoryFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "directory_fetches_total",
		Help:      "Count of directory aggregations.",
	}, []string{"resource", "status"})

	DirectoryPagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "directory_pages_total",
		Help:      "Count of directory pages requested.",
	}, []string{"resource"})

	// Dataset metrics
	DatasetLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dataset_loads_total",
		Help:      "Count of spreadsheet load attempts.",
	}, []string{"status"})

	DatasetSavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dataset_saves_total",
		Help:      "Count of spreadsheet save attempts.",
	}, []string{"status"})

	DatasetMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dataset_mutations_total",
		Help:      "Count of row mutations applied to the working set.",
	}, []string{"operation"})

	DatasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dataset_rows",
		Help:      "Number of rows in the working set.",
	})
)
