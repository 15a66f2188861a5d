package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// Transaction validation errors
	ErrMissingPartnership      = errors.New("transaction requires a limited partnership")
	ErrMissingDate             = errors.New("transaction requires a date")
	ErrUnknownTransactionType  = errors.New("unknown transaction type")
	ErrInvalidAmount           = errors.New("total amount must be positive")
	ErrInvalidShares           = errors.New("shares must be positive")
	ErrInvalidPrice            = errors.New("price per share cannot be negative")
	ErrMissingPortfolioCompany = errors.New("investment transaction requires a portfolio company")
	ErrMissingRecipient        = errors.New("distribution transaction requires a recipient")
	ErrInvalidRecipientType    = errors.New("invalid recipient type")
	ErrMixedFieldGroups        = errors.New("investment and distribution fields are mutually exclusive")

	// Lookup errors
	ErrFundNotFound        = errors.New("fund not found")
	ErrPartnershipNotFound = errors.New("limited partnership not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// LedgerIntegrityError reports a sell that would drive a position's
// share count negative. The whole position computation for the
// partnership aborts; a negative holding is a contradiction in the
// ledger, not a state to report around.
type LedgerIntegrityError struct {
	TransactionID      string
	PartnershipID      string
	PortfolioCompanyID string
	Date               time.Time
	SharesHeld         decimal.Decimal
	SharesSold         decimal.Decimal
}

func (e *LedgerIntegrityError) Error() string {
	return fmt.Sprintf(
		"ledger integrity violation: transaction %s sells %s shares of %s but partnership %s holds only %s",
		e.TransactionID, e.SharesSold, e.PortfolioCompanyID, e.PartnershipID, e.SharesHeld,
	)
}
