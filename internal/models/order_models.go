package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status values, in lifecycle order.
const (
	OrderStatusPending    = "pending"
	OrderStatusPicked     = "picked"
	OrderStatusProcessing = "processing"
	OrderStatusReady      = "ready"
	OrderStatusDelivering = "delivering"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Service types a customer can book.
const (
	ServiceRegular = "Regular"
	ServicePremium = "Premium"
	ServiceExpress = "Express"
)

// Order is a single pickup-to-delivery laundry request.
type Order struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"user_id"`
	CustomerName        string          `json:"customer_name"`
	CustomerPhone       string          `json:"customer_phone"`
	ServiceType         string          `json:"service_type"`
	Items               []OrderItem     `json:"items"`
	Total               decimal.Decimal `json:"total"`
	Status              string          `json:"status"`
	PickupAddress       string          `json:"pickup_address"`
	PickupDate          time.Time       `json:"pickup_date"`
	SpecialInstructions *string         `json:"special_instructions,omitempty"`
	DeliveryPersonID    *string         `json:"delivery_person_id,omitempty"`
	DeliveryPersonName  *string         `json:"delivery_person_name,omitempty"`
	DeliveryPersonPhone *string         `json:"delivery_person_phone,omitempty"`
	CancelReason        *string         `json:"cancel_reason,omitempty"`
	BillID              *string         `json:"bill_id,omitempty"`
	ReviewID            *string         `json:"review_id,omitempty"`
	Rating              *int            `json:"rating,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// CreateOrderRequest is what a customer submits when booking a pickup.
// No items are chosen at booking time; pricing happens at pickup.
type CreateOrderRequest struct {
	CustomerName        string    `json:"customer_name" validate:"required"`
	CustomerPhone       string    `json:"customer_phone" validate:"required"`
	ServiceType         string    `json:"service_type" validate:"required,oneof=Regular Premium Express"`
	PickupAddress       string    `json:"pickup_address" validate:"required"`
	PickupDate          time.Time `json:"pickup_date" validate:"required"`
	SpecialInstructions *string   `json:"special_instructions,omitempty"`
}

// UpdateStatusRequest moves an order one step along its lifecycle.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending picked processing ready delivering delivered cancelled"`
}

// RejectOrderRequest cancels a pending order with a reason shown to the customer.
type RejectOrderRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// DeliveryPerson identifies the staff member handling an order.
type DeliveryPerson struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// AcceptOrderRequest carries the accepting staff member's contact phone;
// id and name come from the token.
type AcceptOrderRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// ItemSelection references a catalog item picked up with the order.
type ItemSelection struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// UpdateItemsRequest replaces the items on an order after pickup.
type UpdateItemsRequest struct {
	Items []ItemSelection `json:"items" validate:"required,min=1,dive"`
}
