package models

import "time"

// Review is captured once per delivered order and never changes afterwards.
type Review struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewRequest represents the data needed to review a delivered order.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty"`
}

// RatingSummary is the aggregate shown on the marketing pages.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
