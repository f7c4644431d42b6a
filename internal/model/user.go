package model

import (
	"context"
	"time"
)

// UsersCollection is the document collection that holds user records.
const UsersCollection = "users"

// Role enumerates user permission levels.
type Role string

const (
	// RoleUser is the default role assigned at registration.
	RoleUser Role = "user"
	// RoleAdmin grants access to administrative routes.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, user User) error
	List(ctx context.Context) ([]User, error)
}

// User represents a registered account. Email is the primary key.
type User struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
