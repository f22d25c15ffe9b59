package models

import "errors"

var ErrNotFound = errors.New("requested resource not found")
var ErrForbidden = errors.New("user does not have permission to access this resource")
var ErrConflict = errors.New("resource conflict, item already exists")
var ErrInvalidToken = errors.New("token not found or expired")

// ErrInvalidTransition is returned when an order status change skips or reverses
// a step of the pickup-to-delivery lifecycle.
var ErrInvalidTransition = errors.New("order status transition not allowed")
var ErrOrderNotPending = errors.New("order is no longer pending")
var ErrOrderNotDelivered = errors.New("order has not been delivered")
var ErrReviewExists = errors.New("order already has a review")
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

var ErrBillAlreadyPaid = errors.New("bill is already paid")
var ErrInvalidPaymentAmount = errors.New("invalid payment amount")
var ErrSubtotalMismatch = errors.New("subtotal does not match bill items")
var ErrInvalidItems = errors.New("bill needs at least one item with a positive quantity")

var ErrUnknownItem = errors.New("catalog item not found")
var ErrInvalidPrice = errors.New("price must be greater than zero")

// ErrPaymentUnavailable is returned when a payment method has no configured provider.
var ErrPaymentUnavailable = errors.New("payment method is not configured")

// ErrChecksumMismatch indicates a gateway callback whose X-VERIFY header
// was not produced with our salt key.
var ErrChecksumMismatch = errors.New("payment checksum mismatch")

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}
