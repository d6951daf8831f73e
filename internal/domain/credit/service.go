package credit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
)

type Service interface {
	// Apply resolves the owning customer, re-checks the installment-date
	// window and persists the credit. The boundary validates requests
	// before they get here; the re-check protects internal callers that
	// bypass it.
	Apply(ctx context.Context, cr *Credit) (*Credit, error)

	ListByCustomer(ctx context.Context, customerID int64) ([]*Credit, error)

	// GetByCreditCode looks a credit up by its external code. A code owned
	// by a different customer fails with apperrors.ErrOwnershipMismatch,
	// deliberately distinct from apperrors.ErrNotFound.
	GetByCreditCode(ctx context.Context, customerID int64, code uuid.UUID) (*Credit, error)
}

var _ Service = (*service)(nil)

type service struct {
	repo            Repository
	customerService customer.Service
	logger          *slog.Logger
}

func NewService(repo Repository, cs customer.Service, logger *slog.Logger) Service {
	if repo == nil {
		panic("credit repository cannot be nil")
	}
	if cs == nil {
		panic("customer service cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewService, using default stderr handler")
	}
	return &service{
		repo:            repo,
		customerService: cs,
		logger:          logger.With(slog.String("component", "creditService")),
	}
}

func (s *service) Apply(ctx context.Context, cr *Credit) (*Credit, error) {
	s.logger.InfoContext(ctx, "Attempting to create new credit")

	if cr == nil {
		return nil, fmt.Errorf("%w: credit cannot be nil", apperrors.ErrInvalidArgument)
	}
	if cr.CustomerID <= 0 {
		s.logger.WarnContext(ctx, "Validation failed: customer id not set")
		return nil, fmt.Errorf("%w: customer id must be set", apperrors.ErrInvalidArgument)
	}

	owner, err := s.customerService.GetCustomer(ctx, cr.CustomerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Owning customer not found", slog.Int64("customerID", cr.CustomerID))
			monitoring.RecordCreditApplication("customer_not_found")
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Failed to resolve owning customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to verify customer %d: %w", cr.CustomerID, err)
	}
	cr.CustomerID = owner.ID

	if !WithinNextThreeMonths(&cr.FirstInstallmentDate) {
		s.logger.WarnContext(ctx, "First installment date outside the allowed window",
			slog.Time("firstInstallmentDate", cr.FirstInstallmentDate))
		monitoring.RecordCreditApplication("invalid_installment_date")
		return nil, fmt.Errorf("%w: first installment must be within the next 3 months",
			apperrors.ErrInvalidInstallmentDate)
	}

	if err := s.repo.Save(ctx, cr); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save credit", slog.Any("error", err))
		monitoring.RecordCreditApplication("store_error")
		return nil, fmt.Errorf("failed to save credit: %w", err)
	}

	monitoring.RecordCreditApplication("created")
	s.logger.InfoContext(ctx, "Successfully created credit",
		slog.Int64("creditID", cr.ID), slog.String("creditCode", cr.CreditCode.String()))
	return cr, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID int64) ([]*Credit, error) {
	s.logger.InfoContext(ctx, "Attempting to list credits by customer", slog.Int64("customerID", customerID))

	credits, err := s.repo.FindAllByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing credits", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list credits for customer %d: %w", customerID, err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved credits", slog.Int("count", len(credits)))
	return credits, nil
}

func (s *service) GetByCreditCode(ctx context.Context, customerID int64, code uuid.UUID) (*Credit, error) {
	s.logger.InfoContext(ctx, "Attempting to get credit by code", slog.String("creditCode", code.String()))

	cr, err := s.repo.FindByCreditCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Credit not found by repository", slog.String("creditCode", code.String()))
			return nil, fmt.Errorf("%w: credit code %s", apperrors.ErrNotFound, code)
		}
		s.logger.ErrorContext(ctx, "Repository error finding credit by code", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get credit %s: %w", code, err)
	}

	if cr.CustomerID != customerID {
		// A valid code probed by a non-owner gets a generic rejection; the
		// message must not reveal whether the code exists.
		s.logger.WarnContext(ctx, "Credit ownership check failed",
			slog.Int64("requestingCustomerID", customerID), slog.Int64("owningCustomerID", cr.CustomerID))
		return nil, apperrors.ErrOwnershipMismatch
	}

	return cr, nil
}
