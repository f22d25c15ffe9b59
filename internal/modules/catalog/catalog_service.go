package catalog

import (
	"context"
	"fmt"
	"strings"

	"laundry-service/internal/models"

	"github.com/google/uuid"
)

// ServiceInterface defines the contract for the catalog service.
type ServiceInterface interface {
	ListItems(ctx context.Context, category string) ([]*models.LaundryItem, error)
	GetItem(ctx context.Context, itemID string) (*models.LaundryItem, error)
	CreateItem(ctx context.Context, req models.CreateItemRequest) (*models.LaundryItem, error)
	DeleteItem(ctx context.Context, itemID string) error
}

// Service implements the catalog service logic.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new catalog service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListItems(ctx context.Context, category string) ([]*models.LaundryItem, error) {
	items, err := s.repo.List(ctx, strings.ToLower(category))
	if err != nil {
		return nil, fmt.Errorf("service.ListItems: %w", err)
	}
	return items, nil
}

func (s *Service) GetItem(ctx context.Context, itemID string) (*models.LaundryItem, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("service.GetItem: %w", err)
	}
	return item, nil
}

// CreateItem adds an entry to the catalog. Prices must be positive.
func (s *Service) CreateItem(ctx context.Context, req models.CreateItemRequest) (*models.LaundryItem, error) {
	if !req.Price.IsPositive() {
		return nil, models.ErrInvalidPrice
	}
	item := &models.LaundryItem{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price.Round(2),
		Category: req.Category,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("service.CreateItem: %w", err)
	}
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, itemID string) error {
	if err := s.repo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("service.DeleteItem: %w", err)
	}
	return nil
}
