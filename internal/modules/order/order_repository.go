package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"laundry-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// RepositoryInterface defines the contract for the order repository.
type RepositoryInterface interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, orderID string) (*models.Order, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.Order, error)
	ListByStatuses(ctx context.Context, statuses []string) ([]*models.Order, error)
	ListByDeliveryPerson(ctx context.Context, deliveryPersonID string) ([]*models.Order, error)
	// UpdateStatus writes status "to" only if the order is still in status "from".
	UpdateStatus(ctx context.Context, orderID, from, to string) (*models.Order, error)
	Reject(ctx context.Context, orderID, reason string) (*models.Order, error)
	Assign(ctx context.Context, orderID string, person models.DeliveryPerson) (*models.Order, error)
	UpdateItems(ctx context.Context, orderID string, items []models.OrderItem, total decimal.Decimal) (*models.Order, error)
	DeletePending(ctx context.Context, orderID string) error
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new order repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const orderColumns = `id, user_id, customer_name, customer_phone, service_type, items, total, status,
	pickup_address, pickup_date, special_instructions, delivery_person_id, delivery_person_name,
	delivery_person_phone, cancel_reason, bill_id, review_id, rating, created_at, updated_at`

// scanOrder is a helper function to scan a row into an Order model.
func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.ServiceType,
		&o.Items,
		&o.Total,
		&o.Status,
		&o.PickupAddress,
		&o.PickupDate,
		&o.SpecialInstructions,
		&o.DeliveryPersonID,
		&o.DeliveryPersonName,
		&o.DeliveryPersonPhone,
		&o.CancelReason,
		&o.BillID,
		&o.ReviewID,
		&o.Rating,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	if o.Items == nil {
		o.Items = []models.OrderItem{}
	}
	return &o, nil
}

func (r *Repository) queryOrders(ctx context.Context, op, query string, args ...interface{}) ([]*models.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.%s.Query: %w", op, err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.%s.Scan: %w", op, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.%s: %w", op, err)
	}
	return orders, nil
}

// Create inserts a new order into the database.
func (r *Repository) Create(ctx context.Context, o *models.Order) error {
	query := `
		INSERT INTO orders (id, user_id, customer_name, customer_phone, service_type, items, total, status,
			pickup_address, pickup_date, special_instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		o.ID, o.UserID, o.CustomerName, o.CustomerPhone, o.ServiceType, o.Items, o.Total, o.Status,
		o.PickupAddress, o.PickupDate, o.SpecialInstructions,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("repository.CreateOrder: %w", err)
	}
	return nil
}

// FindByID retrieves a single order by its ID.
func (r *Repository) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return o, nil
}

// ListByUserID retrieves all orders placed by a customer, newest first.
func (r *Repository) ListByUserID(ctx context.Context, userID string) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryOrders(ctx, "ListByUserID", query, userID)
}

// ListByStatuses retrieves orders whose status is in statuses, oldest first so
// the staff queue is worked in arrival order.
func (r *Repository) ListByStatuses(ctx context.Context, statuses []string) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status = ANY($1) ORDER BY created_at ASC`
	return r.queryOrders(ctx, "ListByStatuses", query, statuses)
}

func (r *Repository) ListByDeliveryPerson(ctx context.Context, deliveryPersonID string) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE delivery_person_id = $1 ORDER BY updated_at DESC`
	return r.queryOrders(ctx, "ListByDeliveryPerson", query, deliveryPersonID)
}

// UpdateStatus is a compare-and-set on the current status. A concurrent change
// makes the WHERE clause miss and is reported as models.ErrConflict.
func (r *Repository) UpdateStatus(ctx context.Context, orderID, from, to string) (*models.Order, error) {
	query := `
		UPDATE orders SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING ` + orderColumns
	o, err := scanOrder(r.db.QueryRow(ctx, query, to, time.Now(), orderID, from))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("repository.UpdateStatus: %w", err)
	}
	return o, nil
}

// Reject cancels a pending order and records why.
func (r *Repository) Reject(ctx context.Context, orderID, reason string) (*models.Order, error) {
	query := `
		UPDATE orders SET status = $1, cancel_reason = $2, updated_at = $3
		WHERE id = $4 AND status = $5
		RETURNING ` + orderColumns
	o, err := scanOrder(r.db.QueryRow(ctx, query,
		models.OrderStatusCancelled, reason, time.Now(), orderID, models.OrderStatusPending))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("repository.Reject: %w", err)
	}
	return o, nil
}

// Assign records the delivery person and marks a pending order as picked.
func (r *Repository) Assign(ctx context.Context, orderID string, p models.DeliveryPerson) (*models.Order, error) {
	query := `
		UPDATE orders
		SET delivery_person_id = $1, delivery_person_name = $2, delivery_person_phone = $3,
			status = $4, updated_at = $5
		WHERE id = $6 AND status = $7
		RETURNING ` + orderColumns
	o, err := scanOrder(r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Phone, models.OrderStatusPicked, time.Now(), orderID, models.OrderStatusPending))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("repository.Assign: %w", err)
	}
	return o, nil
}

func (r *Repository) UpdateItems(ctx context.Context, orderID string, items []models.OrderItem, total decimal.Decimal) (*models.Order, error) {
	query := `
		UPDATE orders SET items = $1, total = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + orderColumns
	o, err := scanOrder(r.db.QueryRow(ctx, query, items, total, time.Now(), orderID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.UpdateItems: %w", err)
	}
	return o, nil
}

func (r *Repository) DeletePending(ctx context.Context, orderID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1 AND status = $2`, orderID, models.OrderStatusPending)
	if err != nil {
		return fmt.Errorf("repository.DeletePending: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrOrderNotPending
	}
	return nil
}
