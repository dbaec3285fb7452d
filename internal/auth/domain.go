package auth

import (
	"time"

	"github.com/Edinam27/lect-next/internal/authz"
)

// User represents an authenticated user account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         authz.Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
