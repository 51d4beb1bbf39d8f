// Package models contains the data structures shared across the
// application: persisted entities and the enumerations that gate
// their lifecycles.
package models

import "time"

// Role controls access to the admin surface of the API.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is a registered customer or administrator. The password hash is
// never serialized; sessions carry the id and role as JWT claims.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	PhoneVerified bool      `json:"phoneVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
