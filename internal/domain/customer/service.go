package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
)

const customerNotFound = "Customer not found by repository"

type Service interface {
	// Register hashes the credential, persists the customer and emits a
	// registration event. A duplicate tax id or email fails with
	// apperrors.ErrAlreadyExists.
	Register(ctx context.Context, cust *Customer, password string) (*Customer, error)

	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)

	ListCustomers(ctx context.Context) ([]*Customer, error)

	UpdateCustomer(ctx context.Context, customerID int64, upd ProfileUpdate) (*Customer, error)

	// DeleteCustomer resolves the customer first so an absent id fails
	// with apperrors.ErrNotFound rather than silently succeeding.
	DeleteCustomer(ctx context.Context, customerID int64) error
}

var _ Service = (*service)(nil)

type service struct {
	repo   Repository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewService(repo Repository, pub event.EventPublisher, logger *slog.Logger) Service {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewService, using default stderr handler")
	}
	return &service{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func newCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		CustomerID: cust.ID,
		FirstName:  cust.FirstName,
		LastName:   cust.LastName,
		Email:      cust.Email,
		ZipCode:    cust.Address.ZipCode,
		Street:     cust.Address.Street,
		CreatedAt:  cust.CreatedAt,
		UpdatedAt:  cust.UpdatedAt,
	}
}

func (s *service) publishCustomerUpdated(ctx context.Context, cust *Customer) {
	evt := event.CustomerUpdatedEvent{
		Timestamp: time.Now(),
		Payload:   newCustomerEventPayload(cust),
	}
	if err := s.pub.PublishCustomerUpdated(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish customer updated event",
			slog.Int64("customerID", cust.ID), slog.Any("error", err))
	}
}

func (s *service) Register(ctx context.Context, cust *Customer, password string) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to register new customer")

	if cust == nil {
		return nil, fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	if password == "" {
		s.logger.WarnContext(ctx, "Validation failed: password is empty")
		return nil, apperrors.NewValidationError("password", "password cannot be empty")
	}

	if err := cust.SetPassword(password); err != nil {
		s.logger.ErrorContext(ctx, "Failed to hash customer credential", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to hash credential: %v", apperrors.ErrInternalServer, err)
	}

	if err := s.repo.Save(ctx, cust); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			s.logger.WarnContext(ctx, "Registration rejected, tax id or email already in use")
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	monitoring.RecordCustomerRegistered()

	evt := event.CustomerRegisteredEvent{
		Timestamp: time.Now(),
		Payload:   newCustomerEventPayload(cust),
	}
	if pubErr := s.pub.PublishCustomerRegistered(ctx, evt); pubErr != nil {
		s.logger.ErrorContext(ctx, "Customer registered, but failed to publish registration event",
			slog.Int64("customerID", cust.ID), slog.Any("error", pubErr))
	}

	s.logger.InfoContext(ctx, "Successfully registered new customer", slog.Int64("customerID", cust.ID))
	return cust, nil
}

func (s *service) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to get customer by ID", slog.Int64("customerID", customerID))

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return nil, fmt.Errorf("%w: customer id %d", apperrors.ErrNotFound, customerID)
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	return cust, nil
}

func (s *service) ListCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to list all customers")

	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *service) UpdateCustomer(ctx context.Context, customerID int64, upd ProfileUpdate) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to update customer", slog.Int64("customerID", customerID))

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return nil, fmt.Errorf("%w: customer id %d", apperrors.ErrNotFound, customerID)
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer for update", slog.Any("error", err))
		return nil, fmt.Errorf("cannot find customer %d to update: %w", customerID, err)
	}

	cust.ApplyProfileUpdate(upd)

	if err := s.repo.Save(ctx, cust); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			s.logger.WarnContext(ctx, "Update rejected, email already in use")
			return nil, err
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.ErrorContext(ctx, "Customer disappeared before save completed")
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Repository failed to save updated customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save updated customer %d: %w", customerID, err)
	}

	s.publishCustomerUpdated(ctx, cust)

	s.logger.InfoContext(ctx, "Successfully updated customer", slog.Int64("customerID", customerID))
	return cust, nil
}

func (s *service) DeleteCustomer(ctx context.Context, customerID int64) error {
	s.logger.InfoContext(ctx, "Attempting to delete customer", slog.Int64("customerID", customerID))

	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, customerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return fmt.Errorf("%w: customer id %d", apperrors.ErrNotFound, customerID)
		}
		if errors.Is(err, apperrors.ErrConflict) {
			s.logger.WarnContext(ctx, "Delete rejected, customer still owns credits", slog.Int64("customerID", customerID))
			return err
		}
		s.logger.ErrorContext(ctx, "Repository error deleting customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	s.logger.InfoContext(ctx, "Successfully deleted customer", slog.Int64("customerID", customerID))
	return nil
}
