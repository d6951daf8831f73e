package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-engine/internal/domain/credit"
)

func futureDate(monthsAhead, daysAhead int) string {
	return time.Now().AddDate(0, monthsAhead, daysAhead).Format(dateLayout)
}

func validApplyRequest() ApplyCreditRequest {
	return ApplyCreditRequest{
		CreditValue:          "5000.00",
		FirstInstallmentDate: futureDate(1, 0),
		Installments:         24,
		CustomerID:           1,
	}
}

func collectFields(t *testing.T, req ApplyCreditRequest) []string {
	t.Helper()
	errs := req.Validate()
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fe.Field)
	}
	return fields
}

func TestApplyCreditRequestValidate(t *testing.T) {
	t.Run("Valid request", func(t *testing.T) {
		req := validApplyRequest()
		assert.Empty(t, req.Validate())
	})

	t.Run("Installment bounds", func(t *testing.T) {
		req := validApplyRequest()
		req.Installments = credit.MinInstallments
		assert.Empty(t, req.Validate())

		req.Installments = credit.MaxInstallments
		assert.Empty(t, req.Validate())

		req.Installments = 0
		assert.Contains(t, collectFields(t, req), "installments")

		req.Installments = credit.MaxInstallments + 1
		assert.Contains(t, collectFields(t, req), "installments")
	})

	t.Run("Missing value", func(t *testing.T) {
		req := validApplyRequest()
		req.CreditValue = ""
		assert.Contains(t, collectFields(t, req), "creditValue")
	})

	t.Run("Non-positive value", func(t *testing.T) {
		req := validApplyRequest()
		req.CreditValue = "0"
		assert.Contains(t, collectFields(t, req), "creditValue")

		req.CreditValue = "-10.50"
		assert.Contains(t, collectFields(t, req), "creditValue")
	})

	t.Run("Missing date", func(t *testing.T) {
		req := validApplyRequest()
		req.FirstInstallmentDate = ""
		assert.Contains(t, collectFields(t, req), "firstInstallmentDate")
	})

	t.Run("Malformed date", func(t *testing.T) {
		req := validApplyRequest()
		req.FirstInstallmentDate = "13/01/2026"
		assert.Contains(t, collectFields(t, req), "firstInstallmentDate")
	})

	t.Run("Date must be in the future", func(t *testing.T) {
		req := validApplyRequest()
		req.FirstInstallmentDate = time.Now().Format(dateLayout)
		assert.Contains(t, collectFields(t, req), "firstInstallmentDate")

		req.FirstInstallmentDate = futureDate(0, -1)
		assert.Contains(t, collectFields(t, req), "firstInstallmentDate")
	})

	t.Run("Date past the three month window", func(t *testing.T) {
		req := validApplyRequest()
		req.FirstInstallmentDate = futureDate(3, 1)
		assert.Contains(t, collectFields(t, req), "firstInstallmentDate")
	})

	t.Run("Window boundary survives a non-UTC local zone", func(t *testing.T) {
		// Parsed dates are UTC midnight while "today" comes from the
		// process zone; only the calendar dates may be compared.
		restore := time.Local
		defer func() { time.Local = restore }()

		for _, zone := range []*time.Location{
			time.FixedZone("UTC+9", 9*60*60),
			time.FixedZone("UTC-8", -8*60*60),
		} {
			time.Local = zone

			req := validApplyRequest()
			req.FirstInstallmentDate = futureDate(3, 0)
			assert.Empty(t, req.Validate(), "zone %s", zone)

			req.FirstInstallmentDate = futureDate(0, 1)
			assert.Empty(t, req.Validate(), "zone %s", zone)

			req.FirstInstallmentDate = futureDate(3, 1)
			assert.Contains(t, collectFields(t, req), "firstInstallmentDate", "zone %s", zone)
		}
	})

	t.Run("Missing customer", func(t *testing.T) {
		req := validApplyRequest()
		req.CustomerID = 0
		assert.Contains(t, collectFields(t, req), "customerId")
	})

	t.Run("Multiple failures collected", func(t *testing.T) {
		req := ApplyCreditRequest{}
		fields := collectFields(t, req)
		assert.Contains(t, fields, "creditValue")
		assert.Contains(t, fields, "firstInstallmentDate")
		assert.Contains(t, fields, "installments")
		assert.Contains(t, fields, "customerId")
	})
}

func TestApplyCreditRequestToEntity(t *testing.T) {
	req := validApplyRequest()

	cr, err := req.ToEntity()

	require.NoError(t, err)
	require.NotNil(t, cr)
	assert.Equal(t, "5000", cr.CreditValue.String())
	assert.Equal(t, 24, cr.Installments)
	assert.Equal(t, int64(1), cr.CustomerID)
	assert.Equal(t, req.FirstInstallmentDate, cr.FirstInstallmentDate.Format(dateLayout))
	assert.Equal(t, credit.StatusInProgress, cr.Status)
}

func TestNewCreditResponse(t *testing.T) {
	req := validApplyRequest()
	cr, err := req.ToEntity()
	require.NoError(t, err)
	cr.ID = 10

	resp := NewCreditResponse(cr)

	assert.Equal(t, cr.CreditCode.String(), resp.CreditCode)
	assert.Equal(t, "5000.00", resp.CreditValue)
	assert.Equal(t, "IN_PROGRESS", resp.Status)
	assert.Equal(t, "1", resp.CustomerID)
}

func TestNewCreditSummaryResponse(t *testing.T) {
	req := validApplyRequest()
	cr, err := req.ToEntity()
	require.NoError(t, err)

	resp := NewCreditSummaryResponse(cr)

	assert.Equal(t, cr.CreditCode.String(), resp.CreditCode)
	assert.Equal(t, "5000.00", resp.CreditValue)
	assert.Equal(t, 24, resp.Installments)
}
