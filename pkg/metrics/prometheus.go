package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal  *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	inFlight      *prometheus.GaugeVec
	snapshotAge   *prometheus.GaugeVec
	connectivity  prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trademind_feed_fetches_total",
				Help: "Total number of feed fetches by outcome",
			},
			[]string{"feed", "outcome"},
		),
		fetchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trademind_feed_fetch_duration_seconds",
				Help:    "Duration of backend fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"feed"},
		),
		inFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "trademind_feed_in_flight",
				Help: "Whether a fetch is currently in flight for a feed (0 or 1)",
			},
			[]string{"feed"},
		),
		snapshotAge: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "trademind_feed_snapshot_age_seconds",
				Help: "Seconds since the last successful fetch per feed",
			},
			[]string{"feed"},
		),
		connectivity: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "trademind_backend_online",
				Help: "Backend connectivity derived from prediction outcomes (1 online, 0 offline)",
			},
		),
	}
}

// RecordFetch records a completed fetch with its outcome label.
func (r *Recorder) RecordFetch(feed, outcome string, seconds float64) {
	r.fetchesTotal.WithLabelValues(feed, outcome).Inc()
	r.fetchDuration.WithLabelValues(feed).Observe(seconds)
}

// RecordInFlight flips the in-flight gauge for a feed.
func (r *Recorder) RecordInFlight(feed string, inFlight bool) {
	v := 0.0
	if inFlight {
		v = 1.0
	}
	r.inFlight.WithLabelValues(feed).Set(v)
}

// RecordSnapshotAge reports staleness of a feed's snapshot.
func (r *Recorder) RecordSnapshotAge(feed string, seconds float64) {
	r.snapshotAge.WithLabelValues(feed).Set(seconds)
}

// RecordConnectivity reports the derived online/offline state.
func (r *Recorder) RecordConnectivity(online bool) {
	if online {
		r.connectivity.Set(1)
		return
	}
	r.connectivity.Set(0)
}
