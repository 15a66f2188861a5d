package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/verp/fundmetrics/internal/domain"
)

// TransactionRepository implements usecase.TransactionRepository over
// the transactions table. The ledger is append-only: inserts only, no
// update or delete statements exist here.
type TransactionRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		pool:    pool,
		retrier: NewRetrier(),
	}
}

const transactionColumns = `
	id, lp_id, type, date, description,
	portfolio_company_id, shares, price_per_share,
	shares_outstanding, fully_diluted_shares,
	recipient_type, recipient_id, total_amount, created_at`

// Create appends a transaction to the ledger.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transactions (
			id, lp_id, type, date, description,
			portfolio_company_id, shares, price_per_share,
			shares_outstanding, fully_diluted_shares,
			recipient_type, recipient_id, total_amount, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		tx.ID,
		tx.PartnershipID,
		string(tx.Type),
		timeToPgTimestamptz(tx.Date),
		textOrNull(tx.Description),
		textOrNull(tx.PortfolioCompanyID),
		nullDecimalToNumeric(investmentDecimal(tx, tx.Shares)),
		nullDecimalToNumeric(investmentDecimal(tx, tx.PricePerShare)),
		nullDecimalToNumeric(tx.SharesOutstanding),
		nullDecimalToNumeric(tx.FullyDilutedShares),
		textOrNull(string(tx.RecipientType)),
		textOrNull(tx.RecipientID),
		decimalToNumeric(tx.TotalAmount),
		timeToPgTimestamptz(tx.CreatedAt),
	)

	return err
}

// FetchLedger returns a partnership's full ledger slice ordered by date
// ascending. ULID ids are lexically time-ordered at record time, so the
// id tiebreak reproduces insertion order for prints at the same
// instant.
func (r *TransactionRepository) FetchLedger(ctx context.Context, partnershipID string, asOf *time.Time) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE lp_id = $1`
	args := []any{partnershipID}

	if asOf != nil {
		query += ` AND date <= $2`
		args = append(args, timeToPgTimestamptz(*asOf))
	}

	query += ` ORDER BY date ASC, created_at ASC, id ASC`

	var ledger []*domain.Transaction
	err := r.retrier.Retry(ctx, func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		ledger = ledger[:0]
		for rows.Next() {
			tx, err := scanTransaction(rows)
			if err != nil {
				return err
			}
			ledger = append(ledger, tx)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return ledger, nil
}

// ListByPartnership lists a partnership's transactions, most recent
// first, with pagination.
func (r *TransactionRepository) ListByPartnership(ctx context.Context, partnershipID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE lp_id = $1
		ORDER BY date DESC, created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		partnershipID, int32(limit), int32(offset),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0, limit)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		tx                 domain.Transaction
		txType             string
		date               pgtype.Timestamptz
		description        pgtype.Text
		companyID          pgtype.Text
		shares             pgtype.Numeric
		pricePerShare      pgtype.Numeric
		sharesOutstanding  pgtype.Numeric
		fullyDilutedShares pgtype.Numeric
		recipientType      pgtype.Text
		recipientID        pgtype.Text
		totalAmount        pgtype.Numeric
		createdAt          pgtype.Timestamptz
	)

	if err := row.Scan(
		&tx.ID, &tx.PartnershipID, &txType, &date, &description,
		&companyID, &shares, &pricePerShare,
		&sharesOutstanding, &fullyDilutedShares,
		&recipientType, &recipientID, &totalAmount, &createdAt,
	); err != nil {
		return nil, err
	}

	tx.Type = domain.TransactionType(txType)
	tx.Date = date.Time
	tx.Description = description.String
	tx.PortfolioCompanyID = companyID.String
	tx.Shares = numericToDecimal(shares)
	tx.PricePerShare = numericToDecimal(pricePerShare)
	tx.SharesOutstanding = numericToNullDecimal(sharesOutstanding)
	tx.FullyDilutedShares = numericToNullDecimal(fullyDilutedShares)
	tx.RecipientType = domain.RecipientType(recipientType.String)
	tx.RecipientID = recipientID.String
	tx.TotalAmount = numericToDecimal(totalAmount)
	tx.CreatedAt = createdAt.Time

	return &tx, nil
}

// investmentDecimal maps the always-present investment fields to NULL
// for distribution rows, matching the nullable schema columns.
func investmentDecimal(tx *domain.Transaction, d decimal.Decimal) decimal.NullDecimal {
	if !tx.IsInvestment() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func nullDecimalToNumeric(d decimal.NullDecimal) pgtype.Numeric {
	if !d.Valid {
		return pgtype.Numeric{}
	}
	return decimalToNumeric(d.Decimal)
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func numericToNullDecimal(n pgtype.Numeric) decimal.NullDecimal {
	if !n.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: numericToDecimal(n), Valid: true}
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
