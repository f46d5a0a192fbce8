// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of authorization roles a user can hold.
type Role string

const (
	// RoleUser is the default role for registered users.
	RoleUser Role = "user"
	// RoleAdmin grants access to moderation operations.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is the authenticated caller as established by the auth middleware.
// Role is validated against the closed enum before an Identity is ever
// constructed, so downstream code never sees a raw claim value.
type Identity struct {
	UserID uint
	Role   Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// User represents a user in the Ladle application.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      Role           `gorm:"type:varchar(16);not null;default:'user'" json:"role"`
	Avatar    string         `json:"avatar"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Recipes   []Recipe       `gorm:"foreignKey:UserID" json:"recipes,omitempty"`
}
