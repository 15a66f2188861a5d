// Package memory provides in-memory implementations of the ledger
// store and directory ports. They back the CLI's file mode and tests;
// production deployments use the postgres package.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/verp/fundmetrics/internal/domain"
)

// Store holds funds, partnerships and transactions in memory. It
// implements both usecase.TransactionRepository and usecase.Directory.
type Store struct {
	mu           sync.RWMutex
	funds        map[string]*domain.Fund
	partnerships map[string]*domain.LimitedPartnership
	transactions []*domain.Transaction
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		funds:        make(map[string]*domain.Fund),
		partnerships: make(map[string]*domain.LimitedPartnership),
	}
}

// AddFund registers a fund.
func (s *Store) AddFund(fund *domain.Fund) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funds[fund.ID] = fund
}

// AddPartnership registers a limited partnership.
func (s *Store) AddPartnership(lp *domain.LimitedPartnership) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partnerships[lp.ID] = lp
}

// Create appends a transaction to the ledger.
func (s *Store) Create(ctx context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, tx)
	return nil
}

// FetchLedger returns a partnership's ledger slice ordered by date
// ascending. The sort is stable, so transactions recorded at the same
// instant keep their insertion order.
func (s *Store) FetchLedger(ctx context.Context, partnershipID string, asOf *time.Time) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ledger []*domain.Transaction
	for _, tx := range s.transactions {
		if tx.PartnershipID != partnershipID {
			continue
		}
		if asOf != nil && tx.Date.After(*asOf) {
			continue
		}
		ledger = append(ledger, tx)
	}

	sort.SliceStable(ledger, func(i, j int) bool {
		return ledger[i].Date.Before(ledger[j].Date)
	})

	return ledger, nil
}

// ListByPartnership lists a partnership's transactions, most recent
// first, with pagination.
func (s *Store) ListByPartnership(ctx context.Context, partnershipID string, limit, offset int) ([]*domain.Transaction, error) {
	ledger, err := s.FetchLedger(ctx, partnershipID, nil)
	if err != nil {
		return nil, err
	}

	// Reverse into most-recent-first.
	for i, j := 0, len(ledger)-1; i < j; i, j = i+1, j-1 {
		ledger[i], ledger[j] = ledger[j], ledger[i]
	}

	if offset >= len(ledger) {
		return nil, nil
	}
	ledger = ledger[offset:]
	if limit < len(ledger) {
		ledger = ledger[:limit]
	}

	return ledger, nil
}

// GetFund retrieves a fund by ID.
func (s *Store) GetFund(ctx context.Context, fundID string) (*domain.Fund, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fund, ok := s.funds[fundID]
	if !ok {
		return nil, domain.ErrFundNotFound
	}
	return fund, nil
}

// GetPartnership retrieves a limited partnership by ID.
func (s *Store) GetPartnership(ctx context.Context, partnershipID string) (*domain.LimitedPartnership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lp, ok := s.partnerships[partnershipID]
	if !ok {
		return nil, domain.ErrPartnershipNotFound
	}
	return lp, nil
}

// PartnershipIDsByFund resolves a fund to the IDs of its partnerships.
func (s *Store) PartnershipIDsByFund(ctx context.Context, fundID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, lp := range s.partnerships {
		if lp.FundID == fundID {
			ids = append(ids, id)
		}
	}

	sort.Strings(ids)

	return ids, nil
}
