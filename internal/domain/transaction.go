package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies what a ledger transaction represents.
type TransactionType string

const (
	// Investment transactions
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"

	// Distribution transactions
	TransactionCapitalReturn TransactionType = "capital_return"
	TransactionRealizedGain  TransactionType = "realized_gain"
	TransactionDividend      TransactionType = "dividend"
)

// RecipientType identifies who receives a distribution.
type RecipientType string

const (
	RecipientLimitedPartner RecipientType = "limited_partner"
	RecipientGeneralPartner RecipientType = "general_partner"
)

// Transaction is a single immutable ledger record for a limited
// partnership. Exactly one of the investment field group
// (PortfolioCompanyID, Shares, PricePerShare) or the distribution field
// group (RecipientType, RecipientID) is populated, depending on Type.
// Transactions are never mutated or deleted once recorded.
type Transaction struct {
	CreatedAt           time.Time
	Date                time.Time
	ID                  string
	PartnershipID       string
	Type                TransactionType
	Description         string
	PortfolioCompanyID  string
	Shares              decimal.Decimal
	PricePerShare       decimal.Decimal
	SharesOutstanding   decimal.NullDecimal
	FullyDilutedShares  decimal.NullDecimal
	RecipientType       RecipientType
	RecipientID         string
	TotalAmount         decimal.Decimal
}

// IsInvestment reports whether the transaction trades portfolio company
// shares.
func (t *Transaction) IsInvestment() bool {
	return t.Type == TransactionBuy || t.Type == TransactionSell
}

// IsDistribution reports whether the transaction pays cash out to a
// partner.
func (t *Transaction) IsDistribution() bool {
	switch t.Type {
	case TransactionCapitalReturn, TransactionRealizedGain, TransactionDividend:
		return true
	}
	return false
}

// Validate checks the transaction against the ledger's recording rules.
// Amounts are recorded positive for every type: a buy's TotalAmount is
// cost paid, a sell's is proceeds received, a distribution's is cash
// paid out.
func (t *Transaction) Validate() error {
	if t.PartnershipID == "" {
		return ErrMissingPartnership
	}

	if t.Date.IsZero() {
		return ErrMissingDate
	}

	if t.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	switch {
	case t.IsInvestment():
		return t.validateInvestment()
	case t.IsDistribution():
		return t.validateDistribution()
	}

	return ErrUnknownTransactionType
}

func (t *Transaction) validateInvestment() error {
	if t.RecipientType != "" || t.RecipientID != "" {
		return ErrMixedFieldGroups
	}

	if t.PortfolioCompanyID == "" {
		return ErrMissingPortfolioCompany
	}

	if t.Shares.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidShares
	}

	if t.PricePerShare.IsNegative() {
		return ErrInvalidPrice
	}

	return nil
}

func (t *Transaction) validateDistribution() error {
	if t.PortfolioCompanyID != "" || !t.Shares.IsZero() || !t.PricePerShare.IsZero() {
		return ErrMixedFieldGroups
	}

	switch t.RecipientType {
	case RecipientLimitedPartner, RecipientGeneralPartner:
	default:
		return ErrInvalidRecipientType
	}

	if t.RecipientID == "" {
		return ErrMissingRecipient
	}

	return nil
}
