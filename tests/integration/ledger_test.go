package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/verp/fundmetrics/internal/adapter/repository/postgres"
	"github.com/verp/fundmetrics/internal/domain"
	"github.com/verp/fundmetrics/internal/usecase"
	"github.com/verp/fundmetrics/tests/testutil"
)

func TestLedgerRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	fund := testDB.CreateTestFund(ctx, "Fund I")
	lp := testDB.CreateTestPartnership(ctx, fund.ID, "Fund I LP")
	company := testDB.CreateTestCompany(ctx, "Acme")

	transactions := postgres.NewTransactionRepository(testDB.Pool)
	directory := postgres.NewDirectoryRepository(testDB.Pool)
	ledgerSvc := usecase.NewLedgerService(transactions, directory, postgres.NewULIDGenerator(), nil)

	recorded, err := ledgerSvc.RecordTransaction(ctx, usecase.RecordTransactionInput{
		PartnershipID:      lp.ID,
		Type:               domain.TransactionBuy,
		Date:               time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		PortfolioCompanyID: company.ID,
		Shares:             decimal.NewFromInt(100),
		PricePerShare:      decimal.NewFromInt(10),
		TotalAmount:        decimal.NewFromInt(1000),
		SharesOutstanding:  decimal.NullDecimal{Decimal: decimal.NewFromInt(1000), Valid: true},
	})
	if err != nil {
		t.Fatalf("failed to record transaction: %v", err)
	}

	ledger, err := transactions.FetchLedger(ctx, lp.ID, nil)
	if err != nil {
		t.Fatalf("failed to fetch ledger: %v", err)
	}

	if len(ledger) != 1 {
		t.Fatalf("expected one transaction, got %d", len(ledger))
	}

	got := ledger[0]
	if got.ID != recorded.ID {
		t.Errorf("expected id %s, got %s", recorded.ID, got.ID)
	}
	if !got.Shares.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected 100 shares, got %s", got.Shares)
	}
	if !got.TotalAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected amount 1000, got %s", got.TotalAmount)
	}
	if !got.SharesOutstanding.Valid || !got.SharesOutstanding.Decimal.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected shares outstanding 1000, got %+v", got.SharesOutstanding)
	}
}

func TestLedgerOrderingSurvivesStorage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	fund := testDB.CreateTestFund(ctx, "Fund I")
	lp := testDB.CreateTestPartnership(ctx, fund.ID, "Fund I LP")
	company := testDB.CreateTestCompany(ctx, "Acme")

	transactions := postgres.NewTransactionRepository(testDB.Pool)
	directory := postgres.NewDirectoryRepository(testDB.Pool)
	ledgerSvc := usecase.NewLedgerService(transactions, directory, postgres.NewULIDGenerator(), nil)

	// Two prints at the same instant: insertion order must be the
	// tiebreak when the ledger comes back.
	sameDay := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	first, err := ledgerSvc.RecordTransaction(ctx, usecase.RecordTransactionInput{
		PartnershipID:      lp.ID,
		Type:               domain.TransactionBuy,
		Date:               sameDay,
		PortfolioCompanyID: company.ID,
		Shares:             decimal.NewFromInt(10),
		PricePerShare:      decimal.NewFromInt(10),
		TotalAmount:        decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("failed to record first transaction: %v", err)
	}

	second, err := ledgerSvc.RecordTransaction(ctx, usecase.RecordTransactionInput{
		PartnershipID:      lp.ID,
		Type:               domain.TransactionBuy,
		Date:               sameDay,
		PortfolioCompanyID: company.ID,
		Shares:             decimal.NewFromInt(10),
		PricePerShare:      decimal.NewFromInt(12),
		TotalAmount:        decimal.NewFromInt(120),
	})
	if err != nil {
		t.Fatalf("failed to record second transaction: %v", err)
	}

	ledger, err := transactions.FetchLedger(ctx, lp.ID, nil)
	if err != nil {
		t.Fatalf("failed to fetch ledger: %v", err)
	}

	if len(ledger) != 2 {
		t.Fatalf("expected two transactions, got %d", len(ledger))
	}
	if ledger[0].ID != first.ID || ledger[1].ID != second.ID {
		t.Fatalf("expected insertion order %s, %s; got %s, %s",
			first.ID, second.ID, ledger[0].ID, ledger[1].ID)
	}
}
