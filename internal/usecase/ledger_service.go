package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/verp/fundmetrics/internal/domain"
)

// LedgerService handles transaction recording and listing. The ledger
// is append-only: there is no update or delete.
type LedgerService struct {
	transactions TransactionRepository
	directory    Directory
	idGen        IDGenerator
	obs          Observer
}

// NewLedgerService creates a new LedgerService. A nil observer
// disables telemetry.
func NewLedgerService(transactions TransactionRepository, directory Directory, idGen IDGenerator, obs Observer) *LedgerService {
	if obs == nil {
		obs = NopObserver()
	}
	return &LedgerService{
		transactions: transactions,
		directory:    directory,
		idGen:        idGen,
		obs:          obs,
	}
}

// RecordTransactionInput represents input for recording a transaction.
type RecordTransactionInput struct {
	PartnershipID      string
	Type               domain.TransactionType
	Date               time.Time
	Description        string
	PortfolioCompanyID string
	Shares             decimal.Decimal
	PricePerShare      decimal.Decimal
	SharesOutstanding  decimal.NullDecimal
	FullyDilutedShares decimal.NullDecimal
	RecipientType      domain.RecipientType
	RecipientID        string
	TotalAmount        decimal.Decimal
}

// RecordTransaction validates and appends a transaction to the ledger.
// Invalid transactions are rejected before they enter the ledger, so
// readers never have to cope with them.
func (s *LedgerService) RecordTransaction(ctx context.Context, input RecordTransactionInput) (*domain.Transaction, error) {
	if _, err := s.directory.GetPartnership(ctx, input.PartnershipID); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ID:                 s.idGen.Generate(),
		PartnershipID:      input.PartnershipID,
		Type:               input.Type,
		Date:               input.Date,
		Description:        input.Description,
		PortfolioCompanyID: input.PortfolioCompanyID,
		Shares:             input.Shares,
		PricePerShare:      input.PricePerShare,
		SharesOutstanding:  input.SharesOutstanding,
		FullyDilutedShares: input.FullyDilutedShares,
		RecipientType:      input.RecipientType,
		RecipientID:        input.RecipientID,
		TotalAmount:        input.TotalAmount,
		CreatedAt:          time.Now().UTC(),
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.obs.TransactionRecorded(string(tx.Type))

	return tx, nil
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	PartnershipID string
	Limit         int
	Offset        int
}

// ListTransactions lists a partnership's transactions with pagination.
func (s *LedgerService) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return s.transactions.ListByPartnership(ctx, input.PartnershipID, input.Limit, input.Offset)
}
