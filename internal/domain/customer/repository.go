package customer

import (
	"context"
)

type Repository interface {
	// Save inserts the customer when its ID is zero and updates it
	// otherwise. Duplicate tax id or email surfaces as
	// apperrors.ErrAlreadyExists.
	Save(ctx context.Context, cust *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	FindByEmail(ctx context.Context, email string) (*Customer, error)

	FindAll(ctx context.Context) ([]*Customer, error)

	Delete(ctx context.Context, customerID int64) error
}
