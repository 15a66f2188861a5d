package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PerformanceSnapshot holds a limited partnership's performance as of a
// date. The ratio fields are null, not zero, when no capital has been
// invested: a partnership with no capital calls has no meaningful
// multiple, and reporting 0 would misstate it.
type PerformanceSnapshot struct {
	PartnershipID      string
	AsOf               *time.Time
	TotalInvested      decimal.Decimal
	TotalDistributions decimal.Decimal
	CurrentValue       decimal.Decimal
	NetTVPI            decimal.NullDecimal
	DPI                decimal.NullDecimal
	GrossMOIC          decimal.NullDecimal
}

// ComputePerformance derives a partnership's performance snapshot from
// its ledger slice. The ledger must be ordered by date ascending with
// insertion order breaking ties; transactions for other partnerships
// are ignored, as are transactions after asOf when it is non-nil.
//
// Total invested sums buy amounts, total distributions sums
// capital returns, realized gains and dividends. Current value prices
// each open position at its latest mark; a holding with no resolvable
// mark contributes zero. An empty ledger yields a snapshot with zero
// sums and null ratios, the normal state of a newly formed partnership.
func ComputePerformance(ledger []*Transaction, partnershipID string, asOf *time.Time) (*PerformanceSnapshot, error) {
	var scoped []*Transaction
	for _, tx := range ledger {
		if tx.PartnershipID != partnershipID {
			continue
		}
		if asOf != nil && tx.Date.After(*asOf) {
			continue
		}
		scoped = append(scoped, tx)
	}

	snapshot := &PerformanceSnapshot{
		PartnershipID: partnershipID,
		AsOf:          asOf,
	}

	for _, tx := range scoped {
		switch {
		case tx.Type == TransactionBuy:
			snapshot.TotalInvested = snapshot.TotalInvested.Add(tx.TotalAmount)
		case tx.IsDistribution():
			snapshot.TotalDistributions = snapshot.TotalDistributions.Add(tx.TotalAmount)
		}
	}

	positions, err := ComputePositions(scoped, nil)
	if err != nil {
		return nil, err
	}

	for _, pos := range positions {
		mark, ok := ResolveMark(scoped, pos.PortfolioCompanyID, asOf)
		if !ok {
			continue
		}
		snapshot.CurrentValue = snapshot.CurrentValue.Add(pos.SharesOwned.Mul(mark.PricePerShare))
	}

	if snapshot.TotalInvested.IsPositive() {
		totalValue := snapshot.CurrentValue.Add(snapshot.TotalDistributions)
		snapshot.NetTVPI = definedRatio(totalValue.Div(snapshot.TotalInvested))
		snapshot.DPI = definedRatio(snapshot.TotalDistributions.Div(snapshot.TotalInvested))
		// The ledger carries no fee or carry flows, so gross MOIC and
		// net TVPI share a formula for now.
		snapshot.GrossMOIC = definedRatio(totalValue.Div(snapshot.TotalInvested))
	}

	return snapshot, nil
}

func definedRatio(value decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: value, Valid: true}
}
