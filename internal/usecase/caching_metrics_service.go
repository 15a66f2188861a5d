package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/verp/fundmetrics/internal/domain"
)

// CachingMetricsService layers an explicit caching policy on top of
// MetricsService. The underlying service is always correct; the cache
// only trades staleness (bounded by the TTL) for latency. Cache
// failures are treated as misses, never as call failures.
type CachingMetricsService struct {
	inner *MetricsService
	cache SnapshotCache
	obs   Observer
	ttl   time.Duration
}

// NewCachingMetricsService creates a caching wrapper around a
// MetricsService with the given snapshot TTL.
func NewCachingMetricsService(inner *MetricsService, cache SnapshotCache, obs Observer, ttl time.Duration) *CachingMetricsService {
	if obs == nil {
		obs = NopObserver()
	}
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}

	return &CachingMetricsService{
		inner: inner,
		cache: cache,
		obs:   obs,
		ttl:   ttl,
	}
}

// GetPartnershipMetrics returns a cached snapshot when present,
// otherwise computes and stores one.
func (s *CachingMetricsService) GetPartnershipMetrics(ctx context.Context, partnershipID string, asOf *time.Time) (*domain.PerformanceSnapshot, error) {
	key := snapshotKey(partnershipID, asOf)

	if payload, err := s.cache.Get(ctx, key); err == nil && len(payload) > 0 {
		var snapshot domain.PerformanceSnapshot
		if err := json.Unmarshal(payload, &snapshot); err == nil {
			s.obs.CacheLookup(true)
			return &snapshot, nil
		}
	}

	s.obs.CacheLookup(false)

	snapshot, err := s.inner.GetPartnershipMetrics(ctx, partnershipID, asOf)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(snapshot); err == nil {
		// Best effort: a failed write just means the next call
		// recomputes.
		_ = s.cache.Set(ctx, key, payload, s.ttl)
	}

	return snapshot, nil
}

// GetFundMetrics delegates to the underlying service. Fund-level
// results are not cached as a unit; they change whenever any member
// partnership's ledger does.
func (s *CachingMetricsService) GetFundMetrics(ctx context.Context, fundID string, asOf *time.Time) (map[string]*domain.PerformanceSnapshot, error) {
	return s.inner.GetFundMetrics(ctx, fundID, asOf)
}

// GetPartnershipPositions delegates to the underlying service.
func (s *CachingMetricsService) GetPartnershipPositions(ctx context.Context, partnershipID string, asOf *time.Time) ([]*domain.Position, error) {
	return s.inner.GetPartnershipPositions(ctx, partnershipID, asOf)
}

// Invalidate drops a partnership's cached snapshots for the given asOf
// (callers recording new transactions use it to shorten staleness).
func (s *CachingMetricsService) Invalidate(ctx context.Context, partnershipID string, asOf *time.Time) error {
	return s.cache.Delete(ctx, snapshotKey(partnershipID, asOf))
}

func snapshotKey(partnershipID string, asOf *time.Time) string {
	at := "latest"
	if asOf != nil {
		at = asOf.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("snapshot:%s:%s", partnershipID, at)
}
