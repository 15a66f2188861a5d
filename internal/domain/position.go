package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// PositionKey identifies a holding: one partnership's stake in one
// portfolio company.
type PositionKey struct {
	PartnershipID      string
	PortfolioCompanyID string
}

// Position is a point-in-time ownership position derived from the
// ledger. It is a computed value with no lifecycle of its own.
type Position struct {
	PartnershipID       string
	PortfolioCompanyID  string
	SharesOwned         decimal.Decimal
	CostBasis           decimal.Decimal
	LastTransactionDate time.Time
	// Cap table snapshot carried forward from the most recent buy/sell,
	// whether or not that transaction recorded one.
	SharesOutstanding  decimal.NullDecimal
	FullyDilutedShares decimal.NullDecimal
}

// AverageCostPerShare returns cost basis per currently held share, or
// zero for an empty position.
func (p *Position) AverageCostPerShare() decimal.Decimal {
	if p.SharesOwned.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return p.CostBasis.Div(p.SharesOwned)
}

// OwnershipPercentage returns the partnership's share of the company's
// outstanding stock, in percent. Zero when the latest cap table
// snapshot is absent or non-positive.
func (p *Position) OwnershipPercentage() decimal.Decimal {
	if !p.SharesOutstanding.Valid || p.SharesOutstanding.Decimal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return p.SharesOwned.Div(p.SharesOutstanding.Decimal).Mul(oneHundred)
}

// ComputePositions folds the ledger into current ownership positions,
// one per (partnership, portfolio company) pair. The ledger must be
// ordered by date ascending with insertion order breaking ties. When
// asOf is non-nil only transactions dated at or before it participate,
// which is what makes historical reporting possible.
//
// Buys add shares and cost, sells subtract both. Fully exited pairs
// (zero shares) are dropped from the result. A sell that would drive a
// holding negative aborts the fold with a *LedgerIntegrityError naming
// the offending transaction.
//
// The fold is a pure function of its inputs: no side effects, same
// ledger in, same positions out.
func ComputePositions(ledger []*Transaction, asOf *time.Time) (map[PositionKey]*Position, error) {
	positions := make(map[PositionKey]*Position)

	for _, tx := range ledger {
		if !tx.IsInvestment() {
			continue
		}

		if asOf != nil && tx.Date.After(*asOf) {
			continue
		}

		key := PositionKey{PartnershipID: tx.PartnershipID, PortfolioCompanyID: tx.PortfolioCompanyID}

		pos, ok := positions[key]
		if !ok {
			pos = &Position{
				PartnershipID:      tx.PartnershipID,
				PortfolioCompanyID: tx.PortfolioCompanyID,
			}
			positions[key] = pos
		}

		switch tx.Type {
		case TransactionBuy:
			pos.SharesOwned = pos.SharesOwned.Add(tx.Shares)
			pos.CostBasis = pos.CostBasis.Add(tx.TotalAmount)
		case TransactionSell:
			if tx.Shares.GreaterThan(pos.SharesOwned) {
				return nil, &LedgerIntegrityError{
					TransactionID:      tx.ID,
					PartnershipID:      tx.PartnershipID,
					PortfolioCompanyID: tx.PortfolioCompanyID,
					Date:               tx.Date,
					SharesHeld:         pos.SharesOwned,
					SharesSold:         tx.Shares,
				}
			}
			pos.SharesOwned = pos.SharesOwned.Sub(tx.Shares)
			pos.CostBasis = pos.CostBasis.Sub(tx.TotalAmount)
		}

		if tx.Date.After(pos.LastTransactionDate) {
			pos.LastTransactionDate = tx.Date
		}

		// Latest transaction wins, even when it carries no snapshot.
		pos.SharesOutstanding = tx.SharesOutstanding
		pos.FullyDilutedShares = tx.FullyDilutedShares
	}

	for key, pos := range positions {
		if pos.SharesOwned.IsZero() {
			delete(positions, key)
		}
	}

	return positions, nil
}
