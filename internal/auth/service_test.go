package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Edinam27/lect-next/internal/auth"
	"github.com/Edinam27/lect-next/internal/authz"
	"github.com/Edinam27/lect-next/internal/shared"
	_ "github.com/Edinam27/lect-next/testing"
)

type memRepo struct {
	users    map[string]*auth.User
	sessions map[string]string
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]*auth.User{}, sessions: map[string]string{}}
}

func (r *memRepo) addUser(t *testing.T, email, password string, role authz.Role, active bool) *auth.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &auth.User{
		ID:           "user-" + email,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     active,
	}
	r.users[email] = user
	return user
}

func (r *memRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (r *memRepo) CreateSession(ctx context.Context, id, userID string, expiresAt time.Time, ip, ua string) error {
	r.sessions[id] = userID
	return nil
}

func (r *memRepo) DeleteSession(ctx context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func TestAuthenticate(t *testing.T) {
	repo := newMemRepo()
	repo.addUser(t, "admin@lectnext.local", "correct horse battery", authz.RoleAdmin, true)
	repo.addUser(t, "gone@lectnext.local", "deactivated pass", authz.RoleLecturer, false)
	svc := auth.NewService(repo)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(context.Background(), "admin@lectnext.local", "correct horse battery")
		require.NoError(t, err)
		assert.Equal(t, authz.RoleAdmin, user.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "admin@lectnext.local", "wrong password")
		require.ErrorIs(t, err, shared.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "nobody@lectnext.local", "whatever pass")
		require.ErrorIs(t, err, shared.ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "gone@lectnext.local", "deactivated pass")
		require.ErrorIs(t, err, shared.ErrInvalidCredentials)
	})
}
