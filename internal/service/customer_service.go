package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"sport-shop/internal/auth"
	"sport-shop/internal/model"
	"sport-shop/internal/repository"
)

// customerService implements CustomerService.
type customerService struct {
	customerRepo repository.CustomerRepository
	logger       zerolog.Logger
}

// NewCustomerService creates a new customer service.
func NewCustomerService(customerRepo repository.CustomerRepository, logger zerolog.Logger) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		logger:       logger.With().Str("service", "customer").Logger(),
	}
}

func (s *customerService) GetAll(ctx context.Context) ([]model.Customer, error) {
	customers, err := s.customerRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get customers")
		return nil, fmt.Errorf("failed to get customers: %w", err)
	}
	return customers, nil
}

func (s *customerService) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("customer_id", id).Msg("failed to get customer")
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, model.ErrCustomerNotFound
	}
	return customer, nil
}

// Create stores a new customer, optionally owned by userID.
func (s *customerService) Create(ctx context.Context, req *model.CustomerRequest, userID *int64) (*model.Customer, error) {
	customer, err := newCustomer(req)
	if err != nil {
		return nil, err
	}
	customer.UserID = userID

	if err := s.ensureUnique(ctx, 0, customer.Email, customer.Phone); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info().Int64("customer_id", customer.ID).Msg("customer created")
	return customer, nil
}

// Update replaces the name and, when given, the email and phone. A changed
// email or phone must not belong to another customer.
func (s *customerService) Update(ctx context.Context, id int64, req *model.CustomerRequest) (*model.Customer, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, model.NewValidationError(model.ErrCodeMissingField, "name is required")
	}

	customer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.Name = strings.TrimSpace(req.Name)

	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	if email == customer.Email {
		email = ""
	}
	if phone == customer.Phone {
		phone = ""
	}
	if err := s.ensureUnique(ctx, id, email, phone); err != nil {
		return nil, err
	}
	if email != "" {
		customer.Email = email
	}
	if phone != "" {
		customer.Phone = phone
	}

	updated, err := s.customerRepo.Update(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	if !updated {
		return nil, model.ErrCustomerNotFound
	}

	s.logger.Info().Int64("customer_id", id).Msg("customer updated")
	return customer, nil
}

func (s *customerService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.customerRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("customer_id", id).Msg("failed to delete customer")
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if !deleted {
		return model.ErrCustomerNotFound
	}

	s.logger.Warn().Int64("customer_id", id).Msg("customer deleted")
	return nil
}

func (s *customerService) FindOrCreate(ctx context.Context, req *model.CustomerRequest, principal *auth.Principal) (*model.Customer, error) {
	var userID *int64
	if principal != nil {
		id := principal.UserID
		userID = &id

		existing, err := s.customerRepo.GetByUserID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get customer of user: %w", err)
		}
		if existing != nil {
			s.logger.Debug().
				Int64("customer_id", existing.ID).
				Str("username", principal.Username).
				Msg("found customer by user")
			return existing, nil
		}
	}

	if req == nil {
		return nil, model.NewValidationError(model.ErrCodeMissingField, "Customer details are required")
	}

	if email := strings.TrimSpace(req.Email); email != "" {
		existing, err := s.customerRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to get customer by email: %w", err)
		}
		if existing != nil {
			return s.link(ctx, existing, userID)
		}
	}

	if phone := strings.TrimSpace(req.Phone); phone != "" {
		existing, err := s.customerRepo.GetByPhone(ctx, phone)
		if err != nil {
			return nil, fmt.Errorf("failed to get customer by phone: %w", err)
		}
		if existing != nil {
			return s.link(ctx, existing, userID)
		}
	}

	return s.Create(ctx, req, userID)
}

// link attaches an unowned customer to userID.
func (s *customerService) link(ctx context.Context, c *model.Customer, userID *int64) (*model.Customer, error) {
	if userID == nil || c.UserID != nil {
		return c, nil
	}

	c.UserID = userID
	if _, err := s.customerRepo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to link customer to user: %w", err)
	}

	s.logger.Info().
		Int64("customer_id", c.ID).
		Int64("user_id", *userID).
		Msg("customer linked to user")
	return c, nil
}

func (s *customerService) Check(ctx context.Context, email string, principal *auth.Principal) (*model.Customer, error) {
	if email = strings.TrimSpace(email); email != "" {
		customer, err := s.customerRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to get customer by email: %w", err)
		}
		if customer != nil {
			return customer, nil
		}
	}

	if principal != nil {
		customer, err := s.customerRepo.GetByUserID(ctx, principal.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get customer of user: %w", err)
		}
		if customer != nil {
			return customer, nil
		}
	}

	return nil, model.ErrCustomerNotFound
}

// ensureUnique rejects an email or phone held by a customer other than selfID.
// Empty values are not checked.
func (s *customerService) ensureUnique(ctx context.Context, selfID int64, email, phone string) error {
	if email != "" {
		other, err := s.customerRepo.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to get customer by email: %w", err)
		}
		if other != nil && other.ID != selfID {
			s.logger.Warn().Str("email", email).Msg("email already in use")
			return model.ErrDuplicateEmail
		}
	}

	if phone != "" {
		other, err := s.customerRepo.GetByPhone(ctx, phone)
		if err != nil {
			return fmt.Errorf("failed to get customer by phone: %w", err)
		}
		if other != nil && other.ID != selfID {
			s.logger.Warn().Str("phone", phone).Msg("phone already in use")
			return model.ErrDuplicatePhone
		}
	}

	return nil
}

func newCustomer(req *model.CustomerRequest) (*model.Customer, error) {
	if req == nil {
		return nil, model.NewValidationError(model.ErrCodeMissingField, "Customer details are required")
	}

	c := &model.Customer{
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
		Email: strings.TrimSpace(req.Email),
	}
	if c.Name == "" || c.Phone == "" || c.Email == "" {
		return nil, model.NewValidationError(model.ErrCodeMissingField, "name, phone and email are required")
	}
	return c, nil
}
