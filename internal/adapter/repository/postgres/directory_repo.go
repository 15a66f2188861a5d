package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verp/fundmetrics/internal/domain"
)

// DirectoryRepository implements usecase.Directory over the funds and
// limited_partnerships tables.
type DirectoryRepository struct {
	pool *pgxpool.Pool
}

// NewDirectoryRepository creates a new DirectoryRepository.
func NewDirectoryRepository(pool *pgxpool.Pool) *DirectoryRepository {
	return &DirectoryRepository{pool: pool}
}

// GetFund retrieves a fund by ID.
func (r *DirectoryRepository) GetFund(ctx context.Context, fundID string) (*domain.Fund, error) {
	var (
		fund        domain.Fund
		description pgtype.Text
		commitments pgtype.Numeric
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, vintage, status, total_commitments, created_at, updated_at
		FROM funds
		WHERE id = $1`,
		fundID,
	).Scan(&fund.ID, &fund.Name, &description, &fund.Vintage, &fund.Status, &commitments, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFundNotFound
		}

		return nil, err
	}

	fund.Description = description.String
	fund.TotalCommitments = numericToDecimal(commitments)
	fund.CreatedAt = createdAt.Time
	fund.UpdatedAt = updatedAt.Time

	return &fund, nil
}

// GetPartnership retrieves a limited partnership by ID.
func (r *DirectoryRepository) GetPartnership(ctx context.Context, partnershipID string) (*domain.LimitedPartnership, error) {
	var (
		lp          domain.LimitedPartnership
		description pgtype.Text
		cashBalance pgtype.Numeric
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, fund_id, name, description, account_number, cash_balance, created_at, updated_at
		FROM limited_partnerships
		WHERE id = $1`,
		partnershipID,
	).Scan(&lp.ID, &lp.FundID, &lp.Name, &description, &lp.AccountNumber, &cashBalance, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPartnershipNotFound
		}

		return nil, err
	}

	lp.Description = description.String
	lp.CashBalance = numericToDecimal(cashBalance)
	lp.CreatedAt = createdAt.Time
	lp.UpdatedAt = updatedAt.Time

	return &lp, nil
}

// PartnershipIDsByFund resolves a fund to the IDs of its partnerships.
func (r *DirectoryRepository) PartnershipIDsByFund(ctx context.Context, fundID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id
		FROM limited_partnerships
		WHERE fund_id = $1
		ORDER BY id`,
		fundID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
