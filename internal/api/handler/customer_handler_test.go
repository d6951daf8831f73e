package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/pkg/apperrors"
)

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Register(ctx context.Context, cust *customer.Customer, password string) (*customer.Customer, error) {
	args := m.Called(ctx, cust, password)
	if registered, ok := args.Get(0).(*customer.Customer); ok {
		return registered, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	args := m.Called(ctx, customerID)
	if cust, ok := args.Get(0).(*customer.Customer); ok {
		return cust, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	args := m.Called(ctx)
	if customers, ok := args.Get(0).([]*customer.Customer); ok {
		return customers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, customerID int64, upd customer.ProfileUpdate) (*customer.Customer, error) {
	args := m.Called(ctx, customerID, upd)
	if cust, ok := args.Get(0).(*customer.Customer); ok {
		return cust, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func testCustomer(id int64) *customer.Customer {
	now := time.Now()
	return &customer.Customer{
		ID:        id,
		FirstName: "Camila",
		LastName:  "Cavalcante",
		TaxID:     "28475934625",
		Income:    decimal.NewFromInt(1000),
		Email:     "camila@example.com",
		Address:   customer.Address{ZipCode: "13010", Street: "Rua da Abolicao"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func withCustomerIDParam(req *http.Request, id string) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{Keys: []string{"customerID"}, Values: []string{id}},
	}))
}

const registerBody = `{
	"firstName": "Camila",
	"lastName": "Cavalcante",
	"taxId": "28475934625",
	"income": "1000.00",
	"email": "camila@example.com",
	"password": "s3cret-phrase",
	"zipCode": "13010",
	"street": "Rua da Abolicao"
}`

func TestCustomerHandlerRegisterCustomer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("successfully registers customer", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(mockService, logger)

		registered := testCustomer(1)
		mockService.On("Register", mock.Anything, mock.AnythingOfType("*customer.Customer"), "s3cret-phrase").
			Return(registered, nil)

		req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(registerBody))
		rec := httptest.NewRecorder()

		handler.RegisterCustomer(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.CustomerResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		require.NoError(t, err)
		assert.Equal(t, "1", resp.ID)
		assert.Equal(t, "camila@example.com", resp.Email)
		mockService.AssertExpectations(t)
	})

	t.Run("returns field errors for invalid payload", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(mockService, logger)

		body := `{"firstName":"","taxId":"123","income":"abc","email":"nope"}`
		req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.RegisterCustomer(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp dto.ErrorResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		require.NoError(t, err)
		assert.Equal(t, "Validation failed.", resp.Error.Message)
		assert.NotEmpty(t, resp.Error.Fields)
		mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("returns conflict for duplicate registration", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(mockService, logger)

		mockService.On("Register", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrAlreadyExists)

		req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(registerBody))
		rec := httptest.NewRecorder()

		handler.RegisterCustomer(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		var resp dto.ErrorResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		assert.NoError(t, err)
		assert.Equal(t, "Resource conflict.", resp.Error.Message)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(mockService, logger)

		body := `{"firstName":"Camila","unexpected":true}`
		req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.RegisterCustomer(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCustomerHandlerGetCustomer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("successfully retrieves customer", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(mockService, logger)

		mockService.On("GetCustomer", mock.Anything, int64(1)).Return(testCustomer(1), nil)

		req := httptest.NewRequest(http.MethodGet, "/customers/1", nil)
		req = withCustomerIDParam(req, "1")
		rec := httptest.NewRecorder()

		handler.GetCustomer(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.CustomerResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		require.NoError(t, err)
		assert.Equal(t, "1", resp.ID)
		assert.Equal(t, "28475934625", resp.TaxID)
		mockService.AssertExpectations(t)
	})

	t.Run("returns error for invalid customer ID", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/customers/invalid", nil)
		req = withCustomerIDParam(req, "invalid")
		rec := httptest.NewRecorder()

		handler.GetCustomer(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "GetCustomer", mock.Anything, mock.Anything)
	})

	t.Run("returns not found for unknown customer", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(mockService, logger)

		mockService.On("GetCustomer", mock.Anything, int64(99)).
			Return((*customer.Customer)(nil), apperrors.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/customers/99", nil)
		req = withCustomerIDParam(req, "99")
		rec := httptest.NewRecorder()

		handler.GetCustomer(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var resp dto.ErrorResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		assert.NoError(t, err)
		assert.Equal(t, "Resource not found.", resp.Error.Message)
	})
}

func TestCustomerHandlerListCustomers(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("successfully lists customers", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(mockService, logger)

		mockService.On("ListCustomers", mock.Anything).
			Return([]*customer.Customer{testCustomer(1), testCustomer(2)}, nil)

		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		rec := httptest.NewRecorder()

		handler.ListCustomers(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp []dto.CustomerResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		require.NoError(t, err)
		require.Len(t, resp, 2)
		assert.Equal(t, "1", resp[0].ID)
		assert.Equal(t, "2", resp[1].ID)
	})
}

func TestCustomerHandlerUpdateCustomer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	updateBody := `{
		"firstName": "CamilaUpdated",
		"lastName": "Cavalcante",
		"income": "2000.00",
		"email": "camila.updated@example.com",
		"zipCode": "45656",
		"street": "Updated Street"
	}`

	t.Run("successfully updates customer", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(mockService, logger)

		updated := testCustomer(1)
		updated.FirstName = "CamilaUpdated"
		mockService.On("UpdateCustomer", mock.Anything, int64(1), mock.AnythingOfType("customer.ProfileUpdate")).
			Return(updated, nil)

		req := httptest.NewRequest(http.MethodPatch, "/customers/1", strings.NewReader(updateBody))
		req = withCustomerIDParam(req, "1")
		rec := httptest.NewRecorder()

		handler.UpdateCustomer(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.CustomerResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		require.NoError(t, err)
		assert.Equal(t, "CamilaUpdated", resp.FirstName)
		mockService.AssertExpectations(t)
	})

	t.Run("returns not found for unknown customer", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(mockService, logger)

		mockService.On("UpdateCustomer", mock.Anything, int64(99), mock.Anything).
			Return((*customer.Customer)(nil), apperrors.ErrNotFound)

		req := httptest.NewRequest(http.MethodPatch, "/customers/99", strings.NewReader(updateBody))
		req = withCustomerIDParam(req, "99")
		rec := httptest.NewRecorder()

		handler.UpdateCustomer(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("returns field errors for invalid payload", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPatch, "/customers/1", strings.NewReader(`{"email":"nope"}`))
		req = withCustomerIDParam(req, "1")
		rec := httptest.NewRecorder()

		handler.UpdateCustomer(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "UpdateCustomer", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCustomerHandlerDeleteCustomer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("successfully deletes customer", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(mockService, logger)

		mockService.On("DeleteCustomer", mock.Anything, int64(1)).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/customers/1", nil)
		req = withCustomerIDParam(req, "1")
		rec := httptest.NewRecorder()

		handler.DeleteCustomer(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("returns not found for unknown customer", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(mockService, logger)

		mockService.On("DeleteCustomer", mock.Anything, int64(99)).Return(apperrors.ErrNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/customers/99", nil)
		req = withCustomerIDParam(req, "99")
		rec := httptest.NewRecorder()

		handler.DeleteCustomer(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("returns conflict when customer still owns credits", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(mockService, logger)

		mockService.On("DeleteCustomer", mock.Anything, int64(1)).Return(apperrors.ErrConflict)

		req := httptest.NewRequest(http.MethodDelete, "/customers/1", nil)
		req = withCustomerIDParam(req, "1")
		rec := httptest.NewRecorder()

		handler.DeleteCustomer(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		var resp dto.ErrorResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		assert.NoError(t, err)
		assert.Equal(t, "Resource conflict.", resp.Error.Message)
	})
}
