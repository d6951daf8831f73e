package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"credit-engine/internal/domain/credit"
	"credit-engine/internal/pkg/apperrors"
)

type CreditRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ credit.Repository = (*CreditRepository)(nil)

func NewCreditRepository(db DBPool, logger *slog.Logger) *CreditRepository {
	if db == nil {
		panic("DBPool cannot be nil for CreditRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCreditRepository, using default stderr handler")
	}
	return &CreditRepository{
		db:     db,
		logger: logger.With("component", "CreditRepository"),
	}
}

const creditColumns = `id, credit_code, credit_value, first_installment_date, installments, status, customer_id, created_at, updated_at`

func (r *CreditRepository) Save(ctx context.Context, cr *credit.Credit) error {
	if cr == nil {
		return fmt.Errorf("%w: credit cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to insert new credit", slog.String("creditCode", cr.CreditCode.String()))

	query := `
        INSERT INTO credits (credit_code, credit_value, first_installment_date, installments, status, customer_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		cr.CreditCode,
		cr.CreditValue,
		cr.FirstInstallmentDate,
		cr.Installments,
		cr.Status,
		cr.CustomerID,
	).Scan(
		&cr.ID,
		&cr.CreatedAt,
		&cr.UpdatedAt,
	)

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to insert credit due to unique constraint violation")
			return translatedErr
		}
		if errors.Is(translatedErr, apperrors.ErrConflict) {
			r.logger.WarnContext(ctx, "Failed to insert credit due to foreign key violation")
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert credit", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert credit: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Credit inserted successfully", slog.Int64("creditID", cr.ID))
	return nil
}

func (r *CreditRepository) FindByID(ctx context.Context, creditID int64) (*credit.Credit, error) {
	r.logger.InfoContext(ctx, "Attempting to find credit by ID")

	query := `SELECT ` + creditColumns + ` FROM credits WHERE id = $1`

	return r.scanCredit(ctx, r.db.QueryRow(ctx, query, creditID))
}

func (r *CreditRepository) FindByCreditCode(ctx context.Context, code uuid.UUID) (*credit.Credit, error) {
	r.logger.InfoContext(ctx, "Attempting to find credit by code")

	query := `SELECT ` + creditColumns + ` FROM credits WHERE credit_code = $1`

	return r.scanCredit(ctx, r.db.QueryRow(ctx, query, code))
}

func (r *CreditRepository) scanCredit(ctx context.Context, row pgx.Row) (*credit.Credit, error) {
	var cr credit.Credit
	err := row.Scan(
		&cr.ID,
		&cr.CreditCode,
		&cr.CreditValue,
		&cr.FirstInstallmentDate,
		&cr.Installments,
		&cr.Status,
		&cr.CustomerID,
		&cr.CreatedAt,
		&cr.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Credit not found")
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan credit", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get credit: %w", apperrors.ErrDatabase, err)
	}

	return &cr, nil
}

func (r *CreditRepository) FindAllByCustomerID(ctx context.Context, customerID int64) ([]*credit.Credit, error) {
	r.logger.InfoContext(ctx, "Attempting to find credits by customer", slog.Int64("customerID", customerID))

	query := `SELECT ` + creditColumns + ` FROM credits WHERE customer_id = $1`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query credits", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query credits: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	credits := make([]*credit.Credit, 0)
	for rows.Next() {
		var cr credit.Credit
		err := rows.Scan(
			&cr.ID,
			&cr.CreditCode,
			&cr.CreditValue,
			&cr.FirstInstallmentDate,
			&cr.Installments,
			&cr.Status,
			&cr.CustomerID,
			&cr.CreatedAt,
			&cr.UpdatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan credit row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan credit row: %w", apperrors.ErrDatabase, err)
		}
		credits = append(credits, &cr)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating credit rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating credit rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Finished finding credits", slog.Int("count", len(credits)))
	return credits, nil
}

func (r *CreditRepository) CountByStatus(ctx context.Context, status credit.Status) (int64, error) {
	r.logger.DebugContext(ctx, "Counting credits by status", slog.String("status", string(status)))

	query := `SELECT COUNT(*) FROM credits WHERE status = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, status).Scan(&count); err != nil {
		r.logger.ErrorContext(ctx, "Failed to count credits by status", slog.Any("error", err))
		return 0, fmt.Errorf("%w: failed to count credits: %w", apperrors.ErrDatabase, err)
	}

	return count, nil
}

func (r *CreditRepository) CountFirstInstallmentsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	r.logger.DebugContext(ctx, "Counting credits by first installment window")

	query := `SELECT COUNT(*) FROM credits WHERE first_installment_date >= $1 AND first_installment_date < $2`

	var count int64
	if err := r.db.QueryRow(ctx, query, from, to).Scan(&count); err != nil {
		r.logger.ErrorContext(ctx, "Failed to count credits by installment window", slog.Any("error", err))
		return 0, fmt.Errorf("%w: failed to count credits: %w", apperrors.ErrDatabase, err)
	}

	return count, nil
}
