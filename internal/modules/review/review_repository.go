package review

import (
	"context"
	"errors"
	"fmt"

	"laundry-service/internal/database"
	"laundry-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the review repository.
type RepositoryInterface interface {
	Create(ctx context.Context, r *models.Review) error
	FindByOrderID(ctx context.Context, orderID string) (*models.Review, error)
	List(ctx context.Context) ([]*models.Review, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new review repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const reviewColumns = `id, order_id, user_id, user_name, rating, comment, created_at`

func scanReview(row pgx.Row) (*models.Review, error) {
	var r models.Review
	if err := row.Scan(&r.ID, &r.OrderID, &r.UserID, &r.UserName, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan review: %w", err)
	}
	return &r, nil
}

// Create inserts a review and copies its id and rating onto the order in the
// same transaction. The unique order_id column allows one review per order.
func (r *Repository) Create(ctx context.Context, rv *models.Review) error {
	insert := `
		INSERT INTO reviews (id, order_id, user_id, user_name, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`
	link := `UPDATE orders SET review_id = $1, rating = $2, updated_at = NOW() WHERE id = $3`

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insert, rv.ID, rv.OrderID, rv.UserID, rv.UserName, rv.Rating, rv.Comment).
			Scan(&rv.CreatedAt)
		if err != nil {
			return err
		}
		cmdTag, err := tx.Exec(ctx, link, rv.ID, rv.Rating, rv.OrderID)
		if err != nil {
			return err
		}
		if cmdTag.RowsAffected() == 0 {
			return models.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.ErrReviewExists
		}
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("repository.CreateReview: %w", err)
	}
	return nil
}

func (r *Repository) FindByOrderID(ctx context.Context, orderID string) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE order_id = $1`
	rv, err := scanReview(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, fmt.Errorf("repository.FindByOrderID: %w", err)
	}
	return rv, nil
}

// List returns every review, newest first.
func (r *Repository) List(ctx context.Context) ([]*models.Review, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reviewColumns+` FROM reviews ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("repository.ListReviews.Query: %w", err)
	}
	defer rows.Close()

	reviews := []*models.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListReviews.Scan: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListReviews: %w", err)
	}
	return reviews, nil
}
