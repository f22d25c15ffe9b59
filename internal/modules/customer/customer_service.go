package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"laundry-service/internal/models"
)

// ServiceInterface defines the contract for the customer directory.
type ServiceInterface interface {
	CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (*models.Customer, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error)
	CustomerExists(ctx context.Context, phone string) (bool, error)
	ListCustomers(ctx context.Context) ([]*models.Customer, error)
}

// Service implements the customer directory.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new customer service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// normalizePhone strips spaces and dashes so the unique index sees one form per number.
func normalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
}

// CreateCustomer registers a customer keyed by phone number. A second
// customer with the same phone fails with models.ErrConflict.
func (s *Service) CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (*models.Customer, error) {
	phone := normalizePhone(req.Phone)
	c := &models.Customer{
		ID:      phone,
		Name:    strings.TrimSpace(req.Name),
		Phone:   phone,
		Email:   req.Email,
		Address: req.Address,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service.CreateCustomer: %w", err)
	}
	return c, nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.GetCustomer: %w", err)
	}
	return c, nil
}

func (s *Service) GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	c, err := s.repo.FindByPhone(ctx, normalizePhone(phone))
	if err != nil {
		return nil, fmt.Errorf("service.GetCustomerByPhone: %w", err)
	}
	return c, nil
}

// CustomerExists is informational only; creation relies on the unique index.
func (s *Service) CustomerExists(ctx context.Context, phone string) (bool, error) {
	_, err := s.repo.FindByPhone(ctx, normalizePhone(phone))
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("service.CustomerExists: %w", err)
	}
	return true, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ListCustomers: %w", err)
	}
	return customers, nil
}
