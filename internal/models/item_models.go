package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryRegular = "regular"
	CategoryPremium = "premium"
	CategoryExpress = "express"
)

// LaundryItem is an entry of the service catalog.
type LaundryItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderItem is a catalog item with the quantity picked up.
type OrderItem struct {
	LaundryItem
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// NewOrderItem prices quantity units of item.
func NewOrderItem(item LaundryItem, quantity int) OrderItem {
	return OrderItem{
		LaundryItem: item,
		Quantity:    quantity,
		Total:       item.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// SumItems returns the sum of item totals.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Total)
	}
	return total
}

type CreateItemRequest struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category" validate:"required,oneof=regular premium express"`
}
