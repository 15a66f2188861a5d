package usecase

import (
	"context"
	"time"

	"github.com/verp/fundmetrics/internal/domain"
)

// TransactionRepository defines data access for the transaction ledger.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	// FetchLedger returns a partnership's full ledger slice ordered by
	// date ascending, ties broken by insertion order. When asOf is
	// non-nil only transactions dated at or before it are returned.
	FetchLedger(ctx context.Context, partnershipID string, asOf *time.Time) ([]*domain.Transaction, error)
	ListByPartnership(ctx context.Context, partnershipID string, limit, offset int) ([]*domain.Transaction, error)
}

// Directory resolves funds and the partnerships they hold.
type Directory interface {
	GetFund(ctx context.Context, fundID string) (*domain.Fund, error)
	GetPartnership(ctx context.Context, partnershipID string) (*domain.LimitedPartnership, error)
	PartnershipIDsByFund(ctx context.Context, fundID string) ([]string, error)
}

// SnapshotCache stores serialized performance snapshots.
type SnapshotCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Observer receives computation telemetry.
type Observer interface {
	SnapshotComputed(scope string, duration time.Duration)
	IntegrityViolation(partnershipID string)
	CacheLookup(hit bool)
	TransactionRecorded(txType string)
}

type nopObserver struct{}

func (nopObserver) SnapshotComputed(string, time.Duration) {}
func (nopObserver) IntegrityViolation(string)              {}
func (nopObserver) CacheLookup(bool)                       {}
func (nopObserver) TransactionRecorded(string)             {}

// NopObserver returns an Observer that discards everything.
func NopObserver() Observer { return nopObserver{} }
