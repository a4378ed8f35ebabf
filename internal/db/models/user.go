// Package models - user.go defines the User model for portal accounts. A user is
// either an administrator working the console or a registered youth using the portal.
package models

import "time"

// Roles a user account can hold.
const (
	RoleAdmin = "admin"
	RoleYouth = "youth"
)

// User represents an account in the system
type User struct {
	ID           string     `json:"id"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Phone        *string    `json:"phone,omitempty"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Ward         *string    `json:"ward,omitempty"`
	BirthYear    *int       `json:"birthYear,omitempty"`
	Education    *string    `json:"education,omitempty"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsAdmin returns true for administrator accounts
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
