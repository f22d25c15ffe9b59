package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"laundry-service/internal/models"
	"laundry-service/pkg/events"

	"github.com/google/uuid"
)

// CatalogInterface is the slice of the catalog service the order service needs
// to price the items picked up.
type CatalogInterface interface {
	GetItem(ctx context.Context, itemID string) (*models.LaundryItem, error)
}

// ServiceInterface defines the contract for the order service.
type ServiceInterface interface {
	CreateOrder(ctx context.Context, userID string, req models.CreateOrderRequest) (*models.Order, error)
	GetOrderDetails(ctx context.Context, orderID string, userID string, role string) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]*models.Order, error)
	ListOrdersByStatus(ctx context.Context, statuses []string) ([]*models.Order, error)
	ListDeliveryOrders(ctx context.Context, deliveryPersonID string) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status string) (*models.Order, error)
	RejectOrder(ctx context.Context, orderID string, reason string) (*models.Order, error)
	CancelOrder(ctx context.Context, orderID string, userID string) (*models.Order, error)
	DeleteOrder(ctx context.Context, orderID string, userID string, role string) error
	AcceptOrder(ctx context.Context, orderID string, person models.DeliveryPerson) (*models.Order, error)
	UpdateOrderItems(ctx context.Context, orderID string, items []models.ItemSelection) (*models.Order, error)
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
}

// Service implements the order service logic.
type Service struct {
	repo      RepositoryInterface
	catalog   CatalogInterface
	publisher events.PublisherInterface
}

// NewService creates a new order service.
func NewService(repo RepositoryInterface, catalog CatalogInterface, publisher events.PublisherInterface) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
	}
}

// CreateOrder books a pickup. The order starts pending with no items; pricing
// happens once staff have the laundry in hand.
func (s *Service) CreateOrder(ctx context.Context, userID string, req models.CreateOrderRequest) (*models.Order, error) {
	order := &models.Order{
		ID:                  uuid.NewString(),
		UserID:              userID,
		CustomerName:        strings.TrimSpace(req.CustomerName),
		CustomerPhone:       strings.TrimSpace(req.CustomerPhone),
		ServiceType:         req.ServiceType,
		Items:               []models.OrderItem{},
		Status:              models.OrderStatusPending,
		PickupAddress:       req.PickupAddress,
		PickupDate:          req.PickupDate,
		SpecialInstructions: req.SpecialInstructions,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("service.CreateOrder: %w", err)
	}
	s.publish(ctx, events.OrderCreated, order)
	return order, nil
}

// GetOrderDetails retrieves a single order's details. Customers only see their own orders.
func (s *Service) GetOrderDetails(ctx context.Context, orderID string, userID string, role string) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service.GetOrderDetails: %w", err)
	}

	if role != models.RoleStaff && order.UserID != userID {
		return nil, models.ErrNotFound // Return NotFound to avoid leaking information
	}

	return order, nil
}

// GetOrder is the unscoped lookup used by the bill and review services.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service.GetOrder: %w", err)
	}
	return order, nil
}

// ListUserOrders retrieves all orders for a specific user.
func (s *Service) ListUserOrders(ctx context.Context, userID string) ([]*models.Order, error) {
	orders, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ListUserOrders: %w", err)
	}
	return orders, nil
}

// ListOrdersByStatus returns the staff work queue. With no statuses it
// returns orders awaiting pickup or delivery.
func (s *Service) ListOrdersByStatus(ctx context.Context, statuses []string) ([]*models.Order, error) {
	if len(statuses) == 0 {
		statuses = defaultQueue
	}
	orders, err := s.repo.ListByStatuses(ctx, statuses)
	if err != nil {
		return nil, fmt.Errorf("service.ListOrdersByStatus: %w", err)
	}
	return orders, nil
}

func (s *Service) ListDeliveryOrders(ctx context.Context, deliveryPersonID string) ([]*models.Order, error) {
	orders, err := s.repo.ListByDeliveryPerson(ctx, deliveryPersonID)
	if err != nil {
		return nil, fmt.Errorf("service.ListDeliveryOrders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus moves an order one step along its lifecycle. Skipping,
// reversing or leaving a terminal status fails with models.ErrInvalidTransition.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, status string) (*models.Order, error) {
	current, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateOrderStatus: %w", err)
	}
	if !CanTransition(current.Status, status) {
		return nil, models.ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, current.Status, status)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateOrderStatus: %w", err)
	}
	s.publish(ctx, events.OrderStatusChanged, updated)
	return updated, nil
}

// RejectOrder is the staff-side cancellation of a pending order.
func (s *Service) RejectOrder(ctx context.Context, orderID string, reason string) (*models.Order, error) {
	current, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service.RejectOrder: %w", err)
	}
	if current.Status != models.OrderStatusPending {
		return nil, models.ErrOrderNotPending
	}

	updated, err := s.repo.Reject(ctx, orderID, strings.TrimSpace(reason))
	if err != nil {
		return nil, fmt.Errorf("service.RejectOrder: %w", err)
	}
	s.publish(ctx, events.OrderStatusChanged, updated)
	return updated, nil
}

// CancelOrder cancels an order for a user.
func (s *Service) CancelOrder(ctx context.Context, orderID string, userID string) (*models.Order, error) {
	order, err := s.GetOrderDetails(ctx, orderID, userID, models.RoleCustomer) // This already checks ownership
	if err != nil {
		return nil, err
	}

	if order.Status != models.OrderStatusPending {
		return nil, models.ErrOrderNotPending
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, models.OrderStatusPending, models.OrderStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("service.CancelOrder: %w", err)
	}
	s.publish(ctx, events.OrderStatusChanged, updated)
	return updated, nil
}

// DeleteOrder hard-deletes a pending order. Anything past pending is kept for
// the billing history.
func (s *Service) DeleteOrder(ctx context.Context, orderID string, userID string, role string) error {
	order, err := s.GetOrderDetails(ctx, orderID, userID, role)
	if err != nil {
		return err
	}
	if order.Status != models.OrderStatusPending {
		return models.ErrOrderNotPending
	}
	if err := s.repo.DeletePending(ctx, orderID); err != nil {
		if errors.Is(err, models.ErrOrderNotPending) {
			return err
		}
		return fmt.Errorf("service.DeleteOrder: %w", err)
	}
	return nil
}

// AcceptOrder assigns a delivery person to a pending order and marks it picked.
func (s *Service) AcceptOrder(ctx context.Context, orderID string, person models.DeliveryPerson) (*models.Order, error) {
	current, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service.AcceptOrder: %w", err)
	}
	if current.Status != models.OrderStatusPending {
		return nil, models.ErrOrderNotPending
	}

	updated, err := s.repo.Assign(ctx, orderID, person)
	if err != nil {
		return nil, fmt.Errorf("service.AcceptOrder: %w", err)
	}
	s.publish(ctx, events.OrderStatusChanged, updated)
	return updated, nil
}

// UpdateOrderItems prices the selected catalog items and replaces the
// order's items and total.
func (s *Service) UpdateOrderItems(ctx context.Context, orderID string, selections []models.ItemSelection) (*models.Order, error) {
	current, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateOrderItems: %w", err)
	}
	if IsTerminal(current.Status) {
		return nil, models.ErrInvalidTransition
	}

	items := make([]models.OrderItem, 0, len(selections))
	for _, sel := range selections {
		item, err := s.catalog.GetItem(ctx, sel.ItemID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				err = models.ErrUnknownItem
			}
			return nil, fmt.Errorf("service.UpdateOrderItems: item %s: %w", sel.ItemID, err)
		}
		items = append(items, models.NewOrderItem(*item, sel.Quantity))
	}

	updated, err := s.repo.UpdateItems(ctx, orderID, items, models.SumItems(items))
	if err != nil {
		return nil, fmt.Errorf("service.UpdateOrderItems: %w", err)
	}
	return updated, nil
}

func (s *Service) publish(ctx context.Context, key string, order *models.Order) {
	if err := s.publisher.Publish(ctx, key, order); err != nil {
		log.Printf("order %s: failed to publish %s: %v", order.ID, key, err)
	}
}
