package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Mark is the price per share used to value a holding as of a given
// date, taken from the ledger's own buy/sell prints.
type Mark struct {
	PortfolioCompanyID string
	TransactionID      string
	Date               time.Time
	PricePerShare      decimal.Decimal
}

// ResolveMark returns the most recent price print for a portfolio
// company: the buy or sell with the greatest date at or before asOf
// (any date when asOf is nil). Prints at the identical timestamp are
// settled by ledger insertion order, last recorded wins. The second
// return value is false when the company has no qualifying print, for
// example a write-off with no trailing trade; callers value such a
// holding at zero rather than treating it as a failure.
func ResolveMark(ledger []*Transaction, portfolioCompanyID string, asOf *time.Time) (Mark, bool) {
	var (
		mark  Mark
		found bool
	)

	for _, tx := range ledger {
		if !tx.IsInvestment() || tx.PortfolioCompanyID != portfolioCompanyID {
			continue
		}

		if asOf != nil && tx.Date.After(*asOf) {
			continue
		}

		if found && tx.Date.Before(mark.Date) {
			continue
		}

		mark = Mark{
			PortfolioCompanyID: portfolioCompanyID,
			TransactionID:      tx.ID,
			Date:               tx.Date,
			PricePerShare:      tx.PricePerShare,
		}
		found = true
	}

	return mark, found
}
