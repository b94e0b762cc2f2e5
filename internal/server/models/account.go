// Package models holds the server-side domain types shared by repositories,
// services, and transport layers.
package models

import (
	"time"
)

// Role determines which operations an account may perform on other accounts.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Account is a registered person.
//
// ID is assigned by the store on creation and never changes. Email is unique
// across accounts and compared as an exact, case-sensitive string.
// PasswordHash is never serialized outward.
type Account struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName" validate:"required,min=2"`
	LastName     string    `json:"lastName" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	MobileNumber string    `json:"mobileNumber" validate:"required"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role" validate:"oneof=USER ADMIN"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the account carries the ADMIN role.
func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// ParseRole maps the optional role from a signup request. An empty value
// means USER; anything outside USER/ADMIN is a validation error.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "":
		return RoleUser, nil
	case RoleUser, RoleAdmin:
		return Role(s), nil
	default:
		return "", &ValidationError{Field: "role", Message: "role must be one of USER ADMIN"}
	}
}
