package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Replace global default registry to allow test inspection.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.SnapshotsComputed == nil || m.CacheHits == nil || m.DBQueries == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestObserverRecordsTelemetry(t *testing.T) {
	registry := prometheus.NewRegistry()

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	m.SnapshotComputed("partnership", 20*time.Millisecond)
	m.IntegrityViolation("lp-1")
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	values := map[string]float64{}
	for _, mf := range metricFamilies {
		for _, metric := range mf.GetMetric() {
			if counter := metric.GetCounter(); counter != nil {
				values[mf.GetName()] += counter.GetValue()
			}
		}
	}

	if values["fundmetrics_snapshots_computed_total"] != 1 {
		t.Fatalf("expected one computed snapshot, got %v", values["fundmetrics_snapshots_computed_total"])
	}

	if values["fundmetrics_ledger_integrity_violations_total"] != 1 {
		t.Fatalf("expected one integrity violation, got %v", values["fundmetrics_ledger_integrity_violations_total"])
	}

	if values["fundmetrics_snapshot_cache_hits_total"] != 1 || values["fundmetrics_snapshot_cache_misses_total"] != 2 {
		t.Fatalf("expected 1 hit and 2 misses, got hits=%v misses=%v",
			values["fundmetrics_snapshot_cache_hits_total"], values["fundmetrics_snapshot_cache_misses_total"])
	}
}
