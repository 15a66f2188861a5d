package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fund groups limited partnerships under a single vehicle.
type Fund struct {
	ID               string
	Name             string
	Description      string
	Vintage          int
	Status           string
	TotalCommitments decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LimitedPartnership is the accounting unit all ledger transactions
// belong to.
type LimitedPartnership struct {
	ID            string
	FundID        string
	Name          string
	Description   string
	AccountNumber string
	CashBalance   decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PortfolioCompany is an investee company whose shares appear in
// buy/sell transactions.
type PortfolioCompany struct {
	ID          string
	Name        string
	Description string
	Sector      string
	Stage       string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
