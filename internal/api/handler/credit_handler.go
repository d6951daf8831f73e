package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/domain/credit"
	"credit-engine/internal/pkg/apperrors"
)

type CreditHandler struct {
	service credit.Service
	logger  *slog.Logger
}

func NewCreditHandler(s credit.Service, l *slog.Logger) *CreditHandler {
	if s == nil {
		panic("credit service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CreditHandler{
		service: s,
		logger:  l.With("component", "CreditHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var fields []apperrors.FieldError
	var fieldErrs apperrors.FieldErrors
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrOwnershipMismatch):
		// Generic rejection: a non-owner probing a valid code must not
		// learn whether the code exists.
		status, message = http.StatusForbidden, "Access denied."
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.As(err, &fieldErrs):
		status, message, fields = http.StatusBadRequest, "Validation failed.", fieldErrs
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.Is(err, apperrors.ErrInvalidInstallmentDate):
		status, message = http.StatusBadRequest, "First installment must be within the next 3 months."
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrAlreadyExists), errors.Is(err, apperrors.ErrConflict):
		status, message = http.StatusConflict, "Resource conflict."
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "Unauthorized."
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
			Fields:  fields,
		},
	}
	respondJSON(w, status, resp)
}

func getCreditCodeFromURL(r *http.Request) (uuid.UUID, error) {
	codeStr := chi.URLParam(r, "creditCode")
	if codeStr == "" {
		return uuid.Nil, fmt.Errorf("%w: creditCode not found in URL path", apperrors.ErrInvalidArgument)
	}
	code, err := uuid.Parse(codeStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid creditCode format in URL path: %s", apperrors.ErrInvalidArgument, codeStr)
	}
	return code, nil
}

func getCustomerIDFromQuery(r *http.Request) (int64, error) {
	idStr := r.URL.Query().Get("customerId")
	if idStr == "" {
		return 0, fmt.Errorf("%w: customerId query parameter is required", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid customerId format: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// ApplyCredit handles POST /credits
// @Summary Apply for a new credit
// @Description Creates a credit against an existing customer. The first installment date must be in the future and within the next three months.
// @Tags Credits
// @Accept json
// @Produce json
// @Param request body dto.ApplyCreditRequest true "Credit application request"
// @Success 201 {object} dto.CreditResponse "Credit successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or installment date outside the allowed window"
// @Failure 404 {object} dto.ErrorResponse "Owning customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /credits [post]
// @Security BearerAuth
func (h *CreditHandler) ApplyCredit(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received apply credit request")

	var req dto.ApplyCreditRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Int("fieldCount", len(errs)))
		respondError(w, errs)
		return
	}

	cr, err := req.ToEntity()
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to build credit from request", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.Apply(r.Context(), cr)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidInstallmentDate) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to create credit", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCreditResponse(created)
	h.logger.InfoContext(r.Context(), "Credit created successfully", slog.String("creditCode", resp.CreditCode))
	respondJSON(w, http.StatusCreated, resp)
}

// ListCredits handles GET /credits?customerId={id}
// @Summary List credits by customer
// @Description Lists all credits owned by the given customer as compact summaries.
// @Tags Credits
// @Produce json
// @Param customerId query int true "Owning customer ID" Minimum(1)
// @Success 200 {array} dto.CreditSummaryResponse "List of credits, possibly empty"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid customerId"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /credits [get]
// @Security BearerAuth
func (h *CreditHandler) ListCredits(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromQuery(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from query", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Received list credits request")

	credits, err := h.service.ListByCustomer(r.Context(), customerID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list credits", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.CreditSummaryResponse, len(credits))
	for i, cr := range credits {
		resp[i] = dto.NewCreditSummaryResponse(cr)
	}

	h.logger.InfoContext(r.Context(), "Credits listed successfully", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}

// GetCreditByCode handles GET /credits/{creditCode}?customerId={id}
// @Summary Retrieve a credit by its code
// @Description Looks a credit up by its external code; the requesting customer must own it.
// @Tags Credits
// @Produce json
// @Param creditCode path string true "Credit code (UUID)"
// @Param customerId query int true "Requesting customer ID" Minimum(1)
// @Success 200 {object} dto.CreditResponse "Credit details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid credit code or customerId"
// @Failure 403 {object} dto.ErrorResponse "Credit not owned by the requesting customer"
// @Failure 404 {object} dto.ErrorResponse "Credit not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /credits/{creditCode} [get]
// @Security BearerAuth
func (h *CreditHandler) GetCreditByCode(w http.ResponseWriter, r *http.Request) {
	code, err := getCreditCodeFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get credit code from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	customerID, err := getCustomerIDFromQuery(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from query", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Received get credit by code request")

	cr, err := h.service.GetByCreditCode(r.Context(), customerID, code)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrOwnershipMismatch) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get credit by code", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCreditResponse(cr)
	h.logger.InfoContext(r.Context(), "Credit retrieved successfully", slog.String("creditCode", resp.CreditCode))
	respondJSON(w, http.StatusOK, resp)
}
