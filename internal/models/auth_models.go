package models

import "github.com/golang-jwt/jwt/v5"

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
)

// Claims are the token claims issued by the identity provider.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
