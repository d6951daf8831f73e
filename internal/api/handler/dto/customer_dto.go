package dto

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/pkg/apperrors"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

type RegisterCustomerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	TaxID     string `json:"taxId"`
	Income    string `json:"income"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	ZipCode   string `json:"zipCode"`
	Street    string `json:"street"`
}

// Validate collects every failing field rather than stopping at the first.
func (r *RegisterCustomerRequest) Validate() apperrors.FieldErrors {
	var errs apperrors.FieldErrors

	if strings.TrimSpace(r.FirstName) == "" {
		errs = append(errs, apperrors.FieldError{Field: "firstName", Message: "first name must be fulfilled"})
	}
	if strings.TrimSpace(r.LastName) == "" {
		errs = append(errs, apperrors.FieldError{Field: "lastName", Message: "last name must be fulfilled"})
	}
	if taxID := nonDigits.ReplaceAllString(r.TaxID, ""); len(taxID) != 11 {
		errs = append(errs, apperrors.FieldError{Field: "taxId", Message: "invalid tax id number"})
	}
	if income, err := decimal.NewFromString(r.Income); err != nil {
		errs = append(errs, apperrors.FieldError{Field: "income", Message: "income must be a decimal number"})
	} else if income.IsNegative() {
		errs = append(errs, apperrors.FieldError{Field: "income", Message: "income must not be negative"})
	}
	if !emailPattern.MatchString(r.Email) {
		errs = append(errs, apperrors.FieldError{Field: "email", Message: "invalid email"})
	}
	if r.Password == "" {
		errs = append(errs, apperrors.FieldError{Field: "password", Message: "password must be fulfilled"})
	}
	if strings.TrimSpace(r.ZipCode) == "" {
		errs = append(errs, apperrors.FieldError{Field: "zipCode", Message: "zip code must be fulfilled"})
	}
	if strings.TrimSpace(r.Street) == "" {
		errs = append(errs, apperrors.FieldError{Field: "street", Message: "street must be fulfilled"})
	}

	return errs
}

func (r *RegisterCustomerRequest) ToEntity() *customer.Customer {
	income, _ := decimal.NewFromString(r.Income)
	return customer.NewCustomer(
		strings.TrimSpace(r.FirstName),
		strings.TrimSpace(r.LastName),
		nonDigits.ReplaceAllString(r.TaxID, ""),
		income,
		strings.TrimSpace(r.Email),
		customer.Address{
			ZipCode: strings.TrimSpace(r.ZipCode),
			Street:  strings.TrimSpace(r.Street),
		},
	)
}

type UpdateCustomerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Income    string `json:"income"`
	Email     string `json:"email"`
	ZipCode   string `json:"zipCode"`
	Street    string `json:"street"`
}

func (r *UpdateCustomerRequest) Validate() apperrors.FieldErrors {
	var errs apperrors.FieldErrors

	if strings.TrimSpace(r.FirstName) == "" {
		errs = append(errs, apperrors.FieldError{Field: "firstName", Message: "first name must be fulfilled"})
	}
	if strings.TrimSpace(r.LastName) == "" {
		errs = append(errs, apperrors.FieldError{Field: "lastName", Message: "last name must be fulfilled"})
	}
	if income, err := decimal.NewFromString(r.Income); err != nil {
		errs = append(errs, apperrors.FieldError{Field: "income", Message: "income must be a decimal number"})
	} else if income.IsNegative() {
		errs = append(errs, apperrors.FieldError{Field: "income", Message: "income must not be negative"})
	}
	if !emailPattern.MatchString(r.Email) {
		errs = append(errs, apperrors.FieldError{Field: "email", Message: "invalid email"})
	}
	if strings.TrimSpace(r.ZipCode) == "" {
		errs = append(errs, apperrors.FieldError{Field: "zipCode", Message: "zip code must be fulfilled"})
	}
	if strings.TrimSpace(r.Street) == "" {
		errs = append(errs, apperrors.FieldError{Field: "street", Message: "street must be fulfilled"})
	}

	return errs
}

func (r *UpdateCustomerRequest) ToProfileUpdate() customer.ProfileUpdate {
	income, _ := decimal.NewFromString(r.Income)
	return customer.ProfileUpdate{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Income:    income,
		Email:     strings.TrimSpace(r.Email),
		ZipCode:   strings.TrimSpace(r.ZipCode),
		Street:    strings.TrimSpace(r.Street),
	}
}

type CustomerResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	TaxID     string    `json:"taxId"`
	Income    string    `json:"income"`
	Email     string    `json:"email"`
	ZipCode   string    `json:"zipCode"`
	Street    string    `json:"street"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}

	return CustomerResponse{
		ID:        strconv.FormatInt(cust.ID, 10),
		FirstName: cust.FirstName,
		LastName:  cust.LastName,
		TaxID:     cust.TaxID,
		Income:    cust.Income.StringFixed(2),
		Email:     cust.Email,
		ZipCode:   cust.Address.ZipCode,
		Street:    cust.Address.Street,
		CreatedAt: cust.CreatedAt,
		UpdatedAt: cust.UpdatedAt,
	}
}
