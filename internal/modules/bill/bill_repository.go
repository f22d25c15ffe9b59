package bill

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"laundry-service/internal/database"
	"laundry-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ListFilter narrows a bill listing. Empty fields match everything.
type ListFilter struct {
	Status     string
	CustomerID string
}

// PaymentUpdate is the settlement written by UpdatePayment.
type PaymentUpdate struct {
	Status      string
	Method      string
	PaymentDate *time.Time
	Total       decimal.Decimal
	Paid        decimal.Decimal
}

// RepositoryInterface defines the contract for the bill repository.
type RepositoryInterface interface {
	// NextSequence atomically increments the named counter, creating it at 1 on first use.
	NextSequence(ctx context.Context, counterID string) (int64, error)
	Create(ctx context.Context, b *models.Bill) error
	FindByID(ctx context.Context, billID string) (*models.Bill, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.Bill, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Bill, error)
	// UpdatePayment applies a settlement to a bill that is still pending.
	UpdatePayment(ctx context.Context, billID string, update PaymentUpdate) (*models.Bill, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new bill repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const billColumns = `id, bill_number, order_id, customer_id, customer_name, customer_phone, items,
	subtotal, tax, total, amount_paid, status, payment_method, payment_date, created_at, updated_at`

func scanBill(row pgx.Row) (*models.Bill, error) {
	var b models.Bill
	err := row.Scan(
		&b.ID,
		&b.BillNumber,
		&b.OrderID,
		&b.CustomerID,
		&b.CustomerName,
		&b.CustomerPhone,
		&b.Items,
		&b.Subtotal,
		&b.Tax,
		&b.Total,
		&b.AmountPaid,
		&b.Status,
		&b.PaymentMethod,
		&b.PaymentDate,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan bill: %w", err)
	}
	if b.Items == nil {
		b.Items = []models.OrderItem{}
	}
	return &b, nil
}

func (r *Repository) NextSequence(ctx context.Context, counterID string) (int64, error) {
	query := `
		INSERT INTO counters (id, count) VALUES ($1, 1)
		ON CONFLICT (id) DO UPDATE SET count = counters.count + 1
		RETURNING count`
	var count int64
	if err := r.db.QueryRow(ctx, query, counterID).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository.NextSequence: %w", err)
	}
	return count, nil
}

// Create inserts a bill and, when it is for an order, links the order to it
// in the same transaction. A second bill for the same order, or a reused bill
// number, is reported as models.ErrConflict.
func (r *Repository) Create(ctx context.Context, b *models.Bill) error {
	insert := `
		INSERT INTO bills (id, bill_number, order_id, customer_id, customer_name, customer_phone, items,
			subtotal, tax, total, amount_paid, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`
	link := `UPDATE orders SET bill_id = $1, updated_at = NOW() WHERE id = $2`

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insert,
			b.ID, b.BillNumber, b.OrderID, b.CustomerID, b.CustomerName, b.CustomerPhone, b.Items,
			b.Subtotal, b.Tax, b.Total, b.AmountPaid, b.Status,
		).Scan(&b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return err
		}
		if b.OrderID == nil {
			return nil
		}
		cmdTag, err := tx.Exec(ctx, link, b.ID, *b.OrderID)
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
			return models.ErrConflict
		}
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("repository.CreateBill: %w", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, billID string) (*models.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1`
	b, err := scanBill(r.db.QueryRow(ctx, query, billID))
	if err != nil {
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return b, nil
}

// FindByOrderID returns the first bill created for the order.
func (r *Repository) FindByOrderID(ctx context.Context, orderID string) (*models.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE order_id = $1 ORDER BY created_at ASC LIMIT 1`
	b, err := scanBill(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, fmt.Errorf("repository.FindByOrderID: %w", err)
	}
	return b, nil
}

// List returns bills matching filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]*models.Bill, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		conds = append(conds, fmt.Sprintf("customer_id = $%d", len(args)))
	}

	query := `SELECT ` + billColumns + ` FROM bills`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.ListBills.Query: %w", err)
	}
	defer rows.Close()

	bills := []*models.Bill{}
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListBills.Scan: %w", err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListBills: %w", err)
	}
	return bills, nil
}

// UpdatePayment adds the paid amount to amount_paid and writes the new status.
// A bill that is no longer pending makes the WHERE clause miss.
func (r *Repository) UpdatePayment(ctx context.Context, billID string, u PaymentUpdate) (*models.Bill, error) {
	query := `
		UPDATE bills
		SET status = $1, payment_method = $2, payment_date = $3, total = $4,
			amount_paid = amount_paid + $5, updated_at = NOW()
		WHERE id = $6 AND status = $7
		RETURNING ` + billColumns
	b, err := scanBill(r.db.QueryRow(ctx, query,
		u.Status, u.Method, u.PaymentDate, u.Total, u.Paid, billID, models.BillStatusPending))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrBillAlreadyPaid
		}
		return nil, fmt.Errorf("repository.UpdatePayment: %w", err)
	}
	return b, nil
}
