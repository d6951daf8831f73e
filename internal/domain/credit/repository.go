package credit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Save inserts the credit. Credits are never updated in place; a
	// colliding credit code surfaces as apperrors.ErrAlreadyExists.
	Save(ctx context.Context, cr *Credit) error

	FindByID(ctx context.Context, creditID int64) (*Credit, error)

	// FindAllByCustomerID returns the customer's credits in store order,
	// possibly empty.
	FindAllByCustomerID(ctx context.Context, customerID int64) ([]*Credit, error)

	FindByCreditCode(ctx context.Context, code uuid.UUID) (*Credit, error)

	CountByStatus(ctx context.Context, status Status) (int64, error)

	// CountFirstInstallmentsBetween counts credits whose first installment
	// date falls in [from, to).
	CountFirstInstallmentsBetween(ctx context.Context, from, to time.Time) (int64, error)
}
