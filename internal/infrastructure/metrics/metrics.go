package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. It implements usecase.Observer
// so snapshot computations feed the counters directly.
type Metrics struct {
	// Snapshot metrics
	SnapshotsComputed       *prometheus.CounterVec
	SnapshotComputeDuration *prometheus.HistogramVec
	IntegrityViolations     *prometheus.CounterVec

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Transaction metrics
	TransactionsRecorded *prometheus.CounterVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Snapshot metrics
		SnapshotsComputed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundmetrics_snapshots_computed_total",
				Help: "Total number of performance snapshots computed by scope",
			},
			[]string{"scope"},
		),
		SnapshotComputeDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fundmetrics_snapshot_compute_duration_seconds",
				Help:    "Duration of snapshot computations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"scope"},
		),
		IntegrityViolations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundmetrics_ledger_integrity_violations_total",
				Help: "Total ledger integrity violations by partnership",
			},
			[]string{"partnership_id"},
		),

		// Cache metrics
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundmetrics_snapshot_cache_hits_total",
			Help: "Total snapshot cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundmetrics_snapshot_cache_misses_total",
			Help: "Total snapshot cache misses",
		}),

		// Transaction metrics
		TransactionsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundmetrics_transactions_recorded_total",
				Help: "Total ledger transactions recorded by type",
			},
			[]string{"type"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundmetrics_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fundmetrics_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "fundmetrics_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundmetrics_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),
	}
}

// SnapshotComputed records a completed snapshot computation.
func (m *Metrics) SnapshotComputed(scope string, duration time.Duration) {
	m.SnapshotsComputed.WithLabelValues(scope).Inc()
	m.SnapshotComputeDuration.WithLabelValues(scope).Observe(duration.Seconds())
}

// IntegrityViolation records a ledger integrity violation.
func (m *Metrics) IntegrityViolation(partnershipID string) {
	m.IntegrityViolations.WithLabelValues(partnershipID).Inc()
}

// CacheLookup records a snapshot cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if hit {
		m.CacheHits.Inc()
		return
	}
	m.CacheMisses.Inc()
}

// TransactionRecorded records a ledger append.
func (m *Metrics) TransactionRecorded(txType string) {
	m.TransactionsRecorded.WithLabelValues(txType).Inc()
}
