package users

import (
	"time"

	"github.com/Edinam27/lect-next/internal/authz"
)

// User represents a user account for management.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      authz.Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
