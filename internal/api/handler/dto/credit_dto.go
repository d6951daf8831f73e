package dto

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"credit-engine/internal/domain/credit"
	"credit-engine/internal/pkg/apperrors"
)

const dateLayout = "2006-01-02"

type ApplyCreditRequest struct {
	CreditValue          string `json:"creditValue"`
	FirstInstallmentDate string `json:"firstInstallmentDate"`
	Installments         int    `json:"installments"`
	CustomerID           int64  `json:"customerId"`
}

func (r *ApplyCreditRequest) Validate() apperrors.FieldErrors {
	var errs apperrors.FieldErrors

	if value, err := decimal.NewFromString(r.CreditValue); err != nil {
		errs = append(errs, apperrors.FieldError{Field: "creditValue", Message: "inform a valid value"})
	} else if !value.IsPositive() {
		errs = append(errs, apperrors.FieldError{Field: "creditValue", Message: "credit value must be positive"})
	}

	if r.FirstInstallmentDate == "" {
		errs = append(errs, apperrors.FieldError{Field: "firstInstallmentDate", Message: "inform the date of first installment"})
	} else if date, err := time.Parse(dateLayout, r.FirstInstallmentDate); err != nil {
		errs = append(errs, apperrors.FieldError{Field: "firstInstallmentDate", Message: "invalid date format (use YYYY-MM-DD)"})
	} else {
		// time.Parse yields UTC midnight; pin today to the same shape so
		// only the calendar dates are compared.
		y, m, d := time.Now().Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if !date.After(today) {
			errs = append(errs, apperrors.FieldError{Field: "firstInstallmentDate", Message: "the date must be in the future"})
		} else if !credit.WithinNextThreeMonths(&date) {
			errs = append(errs, apperrors.FieldError{Field: "firstInstallmentDate", Message: "first installment must be within the next 3 months"})
		}
	}

	if r.Installments < credit.MinInstallments {
		errs = append(errs, apperrors.FieldError{Field: "installments", Message: "invalid number of installments"})
	} else if r.Installments > credit.MaxInstallments {
		errs = append(errs, apperrors.FieldError{Field: "installments", Message: "not greater than 48"})
	}

	if r.CustomerID <= 0 {
		errs = append(errs, apperrors.FieldError{Field: "customerId", Message: "invalid customer id"})
	}

	return errs
}

func (r *ApplyCreditRequest) ToEntity() (*credit.Credit, error) {
	value, err := decimal.NewFromString(r.CreditValue)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(dateLayout, r.FirstInstallmentDate)
	if err != nil {
		return nil, err
	}
	return credit.NewCredit(value, date, r.Installments, r.CustomerID)
}

type CreditResponse struct {
	CreditCode           string    `json:"creditCode"`
	CreditValue          string    `json:"creditValue"`
	FirstInstallmentDate string    `json:"firstInstallmentDate"`
	Installments         int       `json:"installments"`
	Status               string    `json:"status"`
	CustomerID           string    `json:"customerId"`
	CreatedAt            time.Time `json:"createdAt"`
}

func NewCreditResponse(cr *credit.Credit) CreditResponse {
	return CreditResponse{
		CreditCode:           cr.CreditCode.String(),
		CreditValue:          cr.CreditValue.StringFixed(2),
		FirstInstallmentDate: cr.FirstInstallmentDate.Format(dateLayout),
		Installments:         cr.Installments,
		Status:               string(cr.Status),
		CustomerID:           strconv.FormatInt(cr.CustomerID, 10),
		CreatedAt:            cr.CreatedAt,
	}
}

// CreditSummaryResponse is the compact listing shape; the full record stays
// behind the by-code lookup.
type CreditSummaryResponse struct {
	CreditCode   string `json:"creditCode"`
	CreditValue  string `json:"creditValue"`
	Installments int    `json:"installments"`
}

func NewCreditSummaryResponse(cr *credit.Credit) CreditSummaryResponse {
	return CreditSummaryResponse{
		CreditCode:   cr.CreditCode.String(),
		CreditValue:  cr.CreditValue.StringFixed(2),
		Installments: cr.Installments,
	}
}

type ErrorDetail struct {
	Code    string                 `json:"code,omitempty"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Fields  []apperrors.FieldError `json:"fields,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}
