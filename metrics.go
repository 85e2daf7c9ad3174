package spatialindex

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	indexLabel = "index"
	depthLabel = "depth"
)

var (
	indexEntities = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "spatialindex_entities",
		Help: "The number of entity references stored in the index.",
	}, []string{indexLabel})

	indexInsertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spatialindex_inserts_total",
		Help: "The total number of stored inserts.",
	}, []string{indexLabel})

	indexRemovesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spatialindex_removes_total",
		Help: "The total number of successful removals.",
	}, []string{indexLabel})

	indexSplitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spatialindex_splits_total",
		Help: "The total number of region splits, by depth of the split region.",
	}, []string{indexLabel, depthLabel})

	indexQueryResults = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spatialindex_query_results",
		Help:    "The number of entities returned per query.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{indexLabel})

	indexQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spatialindex_query_duration_seconds",
		Help:    "Time spent answering radius queries.",
		Buckets: prometheus.ExponentialBuckets(0.000001, 2, 16),
	}, []string{indexLabel})
)

func (t *Index) instrumentInsert() {
	labels := prometheus.Labels{indexLabel: t.name}
	indexInsertsTotal.With(labels).Inc()
	indexEntities.With(labels).Inc()
}

func (t *Index) instrumentRemove() {
	labels := prometheus.Labels{indexLabel: t.name}
	indexRemovesTotal.With(labels).Inc()
	indexEntities.With(labels).Dec()
}

// Indexes with the same name share the gauge, so a clear subtracts only its
// own entities.
func (t *Index) instrumentClear(removed int) {
	indexEntities.
		With(prometheus.Labels{indexLabel: t.name}).
		Sub(float64(removed))
}

func (t *Index) instrumentSplit(depth int) {
	indexSplitsTotal.
		With(prometheus.Labels{indexLabel: t.name, depthLabel: strconv.Itoa(depth)}).
		Inc()
}

func (t *Index) instrumentQuery(results int, elapsed time.Duration) {
	labels := prometheus.Labels{indexLabel: t.name}
	indexQueryResults.With(labels).Observe(float64(results))
	indexQueryDuration.With(labels).Observe(elapsed.Seconds())
}
