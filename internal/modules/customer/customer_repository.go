package customer

import (
	"context"
	"errors"
	"fmt"

	"laundry-service/internal/database"
	"laundry-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the customer repository.
type RepositoryInterface interface {
	Create(ctx context.Context, c *models.Customer) error
	FindByID(ctx context.Context, id string) (*models.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*models.Customer, error)
	List(ctx context.Context) ([]*models.Customer, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new customer repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const customerColumns = `id, name, phone, email, address, created_at`

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var c models.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan customer: %w", err)
	}
	return &c, nil
}

// Create inserts a customer. The unique index on phone turns a duplicate
// into models.ErrConflict, so callers never need to check first.
func (r *Repository) Create(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customers (id, name, phone, email, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	err := r.db.QueryRow(ctx, query, c.ID, c.Name, c.Phone, c.Email, c.Address).Scan(&c.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.ErrConflict
		}
		return fmt.Errorf("repository.CreateCustomer: %w", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("repository.FindCustomerByID: %w", err)
	}
	return c, nil
}

func (r *Repository) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE phone = $1`
	c, err := scanCustomer(r.db.QueryRow(ctx, query, phone))
	if err != nil {
		return nil, fmt.Errorf("repository.FindCustomerByPhone: %w", err)
	}
	return c, nil
}

func (r *Repository) List(ctx context.Context) ([]*models.Customer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("repository.ListCustomers.Query: %w", err)
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListCustomers.Scan: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
