package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BillStatusPending = "pending"
	BillStatusPaid    = "paid"
)

// Payment methods recorded on a settled bill.
const (
	PaymentCash    = "cash"
	PaymentUPI     = "upi"
	PaymentCard    = "card"
	PaymentPhonePe = "phonepe"
)

// Bill is the itemized charge for zero or one order.
type Bill struct {
	ID            string          `json:"id"`
	BillNumber    string          `json:"bill_number"`
	OrderID       *string         `json:"order_id,omitempty"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Items         []OrderItem     `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Status        string          `json:"status"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateBillRequest mirrors what the staff dashboard submits. Subtotal is
// optional and must agree with the items when given. Items default to the
// order's priced items when OrderID is set.
type CreateBillRequest struct {
	CustomerID    string           `json:"customer_id" validate:"required"`
	CustomerName  string           `json:"customer_name" validate:"required"`
	CustomerPhone string           `json:"customer_phone" validate:"required"`
	Items         []OrderItem      `json:"items"`
	Subtotal      *decimal.Decimal `json:"subtotal,omitempty"`
	Tax           *decimal.Decimal `json:"tax,omitempty"`
	OrderID       *string          `json:"order_id,omitempty"`
	Branch        string           `json:"branch,omitempty"`
}

// BillPaymentRequest settles a bill fully, or partially when PendingAmount > 0.
type BillPaymentRequest struct {
	Method        string           `json:"method" validate:"required,oneof=cash upi card phonepe"`
	PaidAmount    *decimal.Decimal `json:"paid_amount,omitempty"`
	PendingAmount *decimal.Decimal `json:"pending_amount,omitempty"`
}

// CardPaymentRequest charges a bill through the card processor.
type CardPaymentRequest struct {
	PaymentMethodID string `json:"payment_method_id" validate:"required"`
}

// BranchCounter is the per-branch bill sequence.
type BranchCounter struct {
	ID    string `json:"id"`
	Count int64  `json:"count"`
}
