package credit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"credit-engine/internal/pkg/apperrors"
)

const (
	MinInstallments = 1
	MaxInstallments = 48
)

type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusApproved   Status = "APPROVED"
	StatusRejected   Status = "REJECTED"
)

type Credit struct {
	ID                   int64           `json:"id"`
	CreditCode           uuid.UUID       `json:"creditCode"`
	CreditValue          decimal.Decimal `json:"creditValue"`
	FirstInstallmentDate time.Time       `json:"firstInstallmentDate"`
	Installments         int             `json:"installments"`
	Status               Status          `json:"status"`
	CustomerID           int64           `json:"customerId"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// NewCredit builds a credit application in its initial status with a fresh
// credit code. The code is the external handle for the credit; the store
// still enforces its uniqueness.
func NewCredit(value decimal.Decimal, firstInstallmentDate time.Time, installments int, customerID int64) (*Credit, error) {
	if !value.IsPositive() {
		return nil, fmt.Errorf("%w: credit value must be positive", apperrors.ErrInvalidArgument)
	}
	if installments < MinInstallments || installments > MaxInstallments {
		return nil, fmt.Errorf("%w: installments must be between %d and %d",
			apperrors.ErrInvalidArgument, MinInstallments, MaxInstallments)
	}
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer id must be set", apperrors.ErrInvalidArgument)
	}

	now := time.Now()
	return &Credit{
		CreditCode:           uuid.New(),
		CreditValue:          value,
		FirstInstallmentDate: firstInstallmentDate,
		Installments:         installments,
		Status:               StatusInProgress,
		CustomerID:           customerID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}
