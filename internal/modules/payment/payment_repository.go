package payment

import (
	"context"
	"errors"
	"fmt"

	"laundry-service/internal/database"
	"laundry-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for gateway transaction records.
type RepositoryInterface interface {
	Create(ctx context.Context, tx *models.PaymentTransaction) error
	FindByID(ctx context.Context, transactionID string) (*models.PaymentTransaction, error)
	UpdateState(ctx context.Context, transactionID, state string) error
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new payment transaction repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// Create records an initiated transaction. Reusing a transaction id is a conflict.
func (r *Repository) Create(ctx context.Context, tx *models.PaymentTransaction) error {
	query := `
		INSERT INTO payment_transactions (id, bill_id, user_id, amount, state)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query, tx.ID, tx.BillID, tx.UserID, tx.Amount, tx.State).
		Scan(&tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.ErrConflict
		}
		return fmt.Errorf("repository.CreateTransaction: %w", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, transactionID string) (*models.PaymentTransaction, error) {
	query := `
		SELECT id, bill_id, user_id, amount, state, created_at, updated_at
		FROM payment_transactions WHERE id = $1`
	var tx models.PaymentTransaction
	err := r.db.QueryRow(ctx, query, transactionID).Scan(
		&tx.ID, &tx.BillID, &tx.UserID, &tx.Amount, &tx.State, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindTransaction: %w", err)
	}
	return &tx, nil
}

func (r *Repository) UpdateState(ctx context.Context, transactionID, state string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE payment_transactions SET state = $1, updated_at = NOW() WHERE id = $2`, state, transactionID)
	if err != nil {
		return fmt.Errorf("repository.UpdateTransactionState: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
