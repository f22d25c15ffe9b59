package catalog

import (
	"context"
	"errors"
	"fmt"

	"laundry-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the catalog repository.
type RepositoryInterface interface {
	Create(ctx context.Context, item *models.LaundryItem) error
	FindByID(ctx context.Context, itemID string) (*models.LaundryItem, error)
	List(ctx context.Context, category string) ([]*models.LaundryItem, error)
	Delete(ctx context.Context, itemID string) error
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new catalog repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const itemColumns = `id, name, price, category, created_at`

func scanItem(row pgx.Row) (*models.LaundryItem, error) {
	var it models.LaundryItem
	if err := row.Scan(&it.ID, &it.Name, &it.Price, &it.Category, &it.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan laundry item: %w", err)
	}
	return &it, nil
}

// Create inserts a catalog item and fills in its creation time.
func (r *Repository) Create(ctx context.Context, item *models.LaundryItem) error {
	query := `
		INSERT INTO laundry_items (id, name, price, category)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`
	if err := r.db.QueryRow(ctx, query, item.ID, item.Name, item.Price, item.Category).Scan(&item.CreatedAt); err != nil {
		return fmt.Errorf("repository.CreateItem: %w", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, itemID string) (*models.LaundryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM laundry_items WHERE id = $1`
	item, err := scanItem(r.db.QueryRow(ctx, query, itemID))
	if err != nil {
		return nil, fmt.Errorf("repository.FindItemByID: %w", err)
	}
	return item, nil
}

// List returns the catalog ordered by name, optionally restricted to one category.
func (r *Repository) List(ctx context.Context, category string) ([]*models.LaundryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM laundry_items`
	var args []interface{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.ListItems.Query: %w", err)
	}
	defer rows.Close()

	items := []*models.LaundryItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListItems.Scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListItems: %w", err)
	}
	return items, nil
}

func (r *Repository) Delete(ctx context.Context, itemID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM laundry_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("repository.DeleteItem: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
