package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/verp/fundmetrics/internal/domain"
)

// MetricsService is the single entry point for fund and partnership
// performance metrics. It is stateless: every call refetches the
// relevant ledger slice and recomputes from scratch, so results are
// always consistent with the store at fetch time. Callers that want
// caching wrap it in CachingMetricsService.
type MetricsService struct {
	transactions TransactionRepository
	directory    Directory
	obs          Observer

	// fanOut bounds how many partnership ledgers a fund-level call
	// computes at once. Each computation owns its own ledger slice, so
	// they share nothing but the store connection.
	fanOut int
}

// NewMetricsService creates a new MetricsService. An observer of nil
// disables telemetry; fanOut values below 1 fall back to the default.
func NewMetricsService(transactions TransactionRepository, directory Directory, obs Observer, fanOut int) *MetricsService {
	if obs == nil {
		obs = NopObserver()
	}
	if fanOut < 1 {
		fanOut = DefaultFundFanOut
	}

	return &MetricsService{
		transactions: transactions,
		directory:    directory,
		obs:          obs,
		fanOut:       fanOut,
	}
}

// GetPartnershipMetrics computes a partnership's performance snapshot
// as of the given date (latest when asOf is nil). Integrity errors from
// the position fold propagate unmodified; retrying them is pointless
// since the same ledger reproduces the same error.
func (s *MetricsService) GetPartnershipMetrics(ctx context.Context, partnershipID string, asOf *time.Time) (*domain.PerformanceSnapshot, error) {
	if _, err := s.directory.GetPartnership(ctx, partnershipID); err != nil {
		return nil, err
	}

	return s.computeSnapshot(ctx, partnershipID, asOf)
}

// GetFundMetrics computes snapshots for every partnership in a fund,
// keyed by partnership ID. Partnerships are computed concurrently; the
// first error cancels the remaining work.
func (s *MetricsService) GetFundMetrics(ctx context.Context, fundID string, asOf *time.Time) (map[string]*domain.PerformanceSnapshot, error) {
	if _, err := s.directory.GetFund(ctx, fundID); err != nil {
		return nil, err
	}

	partnershipIDs, err := s.directory.PartnershipIDsByFund(ctx, fundID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		firstErr  error
		snapshots = make(map[string]*domain.PerformanceSnapshot, len(partnershipIDs))
		sem       = make(chan struct{}, s.fanOut)
	)

	for _, id := range partnershipIDs {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(partnershipID string) {
			defer wg.Done()
			defer func() { <-sem }()

			snapshot, err := s.computeSnapshot(ctx, partnershipID, asOf)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				return
			}

			snapshots[partnershipID] = snapshot
		}(id)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return snapshots, nil
}

// GetPartnershipPositions computes a partnership's open positions as of
// the given date, sorted by portfolio company for stable output.
func (s *MetricsService) GetPartnershipPositions(ctx context.Context, partnershipID string, asOf *time.Time) ([]*domain.Position, error) {
	if _, err := s.directory.GetPartnership(ctx, partnershipID); err != nil {
		return nil, err
	}

	ledger, err := s.transactions.FetchLedger(ctx, partnershipID, asOf)
	if err != nil {
		return nil, err
	}

	byKey, err := domain.ComputePositions(ledger, asOf)
	if err != nil {
		s.observeIntegrity(partnershipID, err)
		return nil, err
	}

	positions := make([]*domain.Position, 0, len(byKey))
	for _, pos := range byKey {
		positions = append(positions, pos)
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].PortfolioCompanyID < positions[j].PortfolioCompanyID
	})

	return positions, nil
}

func (s *MetricsService) computeSnapshot(ctx context.Context, partnershipID string, asOf *time.Time) (*domain.PerformanceSnapshot, error) {
	ledger, err := s.transactions.FetchLedger(ctx, partnershipID, asOf)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	snapshot, err := domain.ComputePerformance(ledger, partnershipID, asOf)
	if err != nil {
		s.observeIntegrity(partnershipID, err)
		return nil, err
	}

	s.obs.SnapshotComputed(partnershipID, time.Since(start))

	return snapshot, nil
}

func (s *MetricsService) observeIntegrity(partnershipID string, err error) {
	var integrityErr *domain.LedgerIntegrityError
	if errors.As(err, &integrityErr) {
		s.obs.IntegrityViolation(partnershipID)
	}
}
