package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionInitiated = "initiated"
	TransactionSuccess   = "success"
	TransactionFailed    = "failed"
)

// PaymentTransaction links a gateway transaction id to the bill it pays.
type PaymentTransaction struct {
	ID        string          `json:"id"`
	BillID    *string         `json:"bill_id,omitempty"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	State     string          `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// InitiatePaymentRequest is the body of POST /api/phonepe/payment.
type InitiatePaymentRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	Name          string           `json:"name"`
	MobileNumber  string           `json:"mobileNumber"`
	TransactionID string           `json:"transactionId,omitempty"`
	BillID        *string          `json:"billId,omitempty"`
}

// PaymentResponse is returned by the payment endpoints.
type PaymentResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	RedirectURL   string `json:"redirectUrl,omitempty"`
}

// CallbackRequest is the server-to-server notification body.
type CallbackRequest struct {
	Response string `json:"response"`
}
