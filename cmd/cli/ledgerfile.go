package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/verp/fundmetrics/internal/adapter/repository/memory"
	"github.com/verp/fundmetrics/internal/domain"
)

// ledgerFile is the on-disk format for file mode: a whole fund office
// in one JSON document with camelCase field names.
type ledgerFile struct {
	Funds        []fundRecord        `json:"funds"`
	Partnerships []partnershipRecord `json:"partnerships"`
	Transactions []transactionRecord `json:"transactions"`
}

type fundRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type partnershipRecord struct {
	ID     string `json:"id"`
	FundID string `json:"fundId"`
	Name   string `json:"name"`
}

type transactionRecord struct {
	ID                 string              `json:"id"`
	PartnershipID      string              `json:"partnershipId"`
	Type               string              `json:"type"`
	Date               time.Time           `json:"date"`
	Description        string              `json:"description,omitempty"`
	PortfolioCompanyID string              `json:"portfolioCompanyId,omitempty"`
	Shares             decimal.Decimal     `json:"shares"`
	PricePerShare      decimal.Decimal     `json:"pricePerShare"`
	SharesOutstanding  decimal.NullDecimal `json:"sharesOutstanding"`
	FullyDilutedShares decimal.NullDecimal `json:"fullyDilutedShares"`
	RecipientType      string              `json:"recipientType,omitempty"`
	RecipientID        string              `json:"recipientId,omitempty"`
	TotalAmount        decimal.Decimal     `json:"totalAmount"`
	CreatedAt          time.Time           `json:"createdAt"`
}

// loadLedgerFile reads a ledger file into an in-memory store. Every
// transaction is validated on the way in, so a hand-edited file cannot
// smuggle in records the service would have rejected.
func loadLedgerFile(path string) (*memory.Store, *ledgerFile, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read ledger file: %w", err)
	}

	var doc ledgerFile
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse ledger file: %w", err)
	}

	store := memory.NewStore()

	for _, f := range doc.Funds {
		store.AddFund(&domain.Fund{ID: f.ID, Name: f.Name})
	}
	for _, lp := range doc.Partnerships {
		store.AddPartnership(&domain.LimitedPartnership{ID: lp.ID, FundID: lp.FundID, Name: lp.Name})
	}

	for i, rec := range doc.Transactions {
		tx := rec.toDomain()
		if err := tx.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid transaction %d (%s): %w", i, rec.ID, err)
		}
		if err := store.Create(context.Background(), tx); err != nil {
			return nil, nil, err
		}
	}

	return store, &doc, nil
}

// appendToLedgerFile writes the document back with one more
// transaction. The whole file is rewritten; ledgers small enough to
// live in a file do not need anything cleverer.
func appendToLedgerFile(path string, doc *ledgerFile, tx *domain.Transaction) error {
	doc.Transactions = append(doc.Transactions, toRecord(tx))

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger file: %w", err)
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}

	return nil
}

func (r transactionRecord) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:                 r.ID,
		PartnershipID:      r.PartnershipID,
		Type:               domain.TransactionType(r.Type),
		Date:               r.Date,
		Description:        r.Description,
		PortfolioCompanyID: r.PortfolioCompanyID,
		Shares:             r.Shares,
		PricePerShare:      r.PricePerShare,
		SharesOutstanding:  r.SharesOutstanding,
		FullyDilutedShares: r.FullyDilutedShares,
		RecipientType:      domain.RecipientType(r.RecipientType),
		RecipientID:        r.RecipientID,
		TotalAmount:        r.TotalAmount,
		CreatedAt:          r.CreatedAt,
	}
}

func toRecord(tx *domain.Transaction) transactionRecord {
	return transactionRecord{
		ID:                 tx.ID,
		PartnershipID:      tx.PartnershipID,
		Type:               string(tx.Type),
		Date:               tx.Date,
		Description:        tx.Description,
		PortfolioCompanyID: tx.PortfolioCompanyID,
		Shares:             tx.Shares,
		PricePerShare:      tx.PricePerShare,
		SharesOutstanding:  tx.SharesOutstanding,
		FullyDilutedShares: tx.FullyDilutedShares,
		RecipientType:      string(tx.RecipientType),
		RecipientID:        tx.RecipientID,
		TotalAmount:        tx.TotalAmount,
		CreatedAt:          tx.CreatedAt,
	}
}
