package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SamplesRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "couple_location_samples_recorded_total",
		Help: "Total number of raw GPS samples appended",
	})
	NearbyChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "couple_nearby_checks_total",
		Help: "Nearby checks by outcome (nearby, apart, data_unavailable)",
	}, []string{"outcome"})
	CheckpointsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "couple_checkpoints_total",
		Help: "Co-location checkpoint writes by result (written, suppressed, failed)",
	}, []string{"result"})
	ClusteringDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "couple_clustering_duration_ms",
		Help:    "DBSCAN run duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	ClusteringPointsTotal = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "couple_clustering_points",
		Help:    "Number of checkpoints per clustering request",
		Buckets: []float64{0, 10, 50, 100, 500, 1000, 2000, 5000},
	})
)

func init() {
	prometheus.MustRegister(SamplesRecordedTotal)
	prometheus.MustRegister(NearbyChecksTotal)
	prometheus.MustRegister(CheckpointsTotal)
	prometheus.MustRegister(ClusteringDurationMs)
	prometheus.MustRegister(ClusteringPointsTotal)
}

// Handler は登録済みメトリクスを /metrics で公開するハンドラ
func Handler() http.Handler { return promhttp.Handler() }
