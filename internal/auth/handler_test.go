package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Edinam27/lect-next/internal/auth"
	"github.com/Edinam27/lect-next/internal/authz"
	"github.com/Edinam27/lect-next/internal/shared"
)

func newAuthRouter(t *testing.T, repo *memRepo) (chi.Router, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := auth.NewHandler(logger, auth.NewService(repo), sessions, shared.NewCSRFManager("secret"))
	router := chi.NewRouter()
	router.Route("/auth", handler.MountRoutes)
	return router, sessions
}

func sessionRequest(t *testing.T, sessions *shared.SessionManager, method, path, body, userID string, role authz.Role) (*http.Request, *shared.Session) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	sess, err := sessions.Load(context.Background(), req)
	require.NoError(t, err)
	if userID != "" {
		sess.SetUser(userID)
		sess.Set(shared.SessionRoleKey, string(role))
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess)), sess
}

func TestLoginEstablishesSession(t *testing.T) {
	repo := newMemRepo()
	repo.addUser(t, "coord@lectnext.local", "sound credentials", authz.RoleCoordinator, true)
	router, sessions := newAuthRouter(t, repo)

	req, sess := sessionRequest(t, sessions, http.MethodPost, "/auth/login",
		`{"email":"coord@lectnext.local","password":"sound credentials"}`, "", "")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var body struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "user-coord@lectnext.local", body.ID)
	assert.Equal(t, "coordinator", body.Role)

	assert.Equal(t, "user-coord@lectnext.local", sess.User())
	assert.Equal(t, "coordinator", sess.Get(shared.SessionRoleKey))
	assert.Contains(t, repo.sessions, sess.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newMemRepo()
	repo.addUser(t, "coord@lectnext.local", "sound credentials", authz.RoleCoordinator, true)
	router, sessions := newAuthRouter(t, repo)

	req, sess := sessionRequest(t, sessions, http.MethodPost, "/auth/login",
		`{"email":"coord@lectnext.local","password":"guessed wrong"}`, "", "")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Contains(t, res.Body.String(), "Invalid email or password")
	assert.Empty(t, sess.User())
}

func TestLoginValidatesRequestBody(t *testing.T) {
	router, sessions := newAuthRouter(t, newMemRepo())

	req, _ := sessionRequest(t, sessions, http.MethodPost, "/auth/login",
		`{"email":"not-an-email","password":"short"}`, "", "")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestMeRequiresSession(t *testing.T) {
	router, sessions := newAuthRouter(t, newMemRepo())

	req, _ := sessionRequest(t, sessions, http.MethodGet, "/auth/me", "", "", "")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestMeReturnsIdentity(t *testing.T) {
	router, sessions := newAuthRouter(t, newMemRepo())

	req, _ := sessionRequest(t, sessions, http.MethodGet, "/auth/me", "", "user-42", authz.RoleLecturer)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "user-42", body["id"])
	assert.Equal(t, "lecturer", body["role"])
}

func TestLogoutDropsServerSession(t *testing.T) {
	repo := newMemRepo()
	repo.sessions["sess-1"] = "user-42"
	router, sessions := newAuthRouter(t, repo)

	req, sess := sessionRequest(t, sessions, http.MethodPost, "/auth/logout", "", "user-42", authz.RoleLecturer)
	sess.ID = "sess-1"
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.NotContains(t, repo.sessions, "sess-1")
}

func TestCSRFTokenIsStablePerSession(t *testing.T) {
	router, sessions := newAuthRouter(t, newMemRepo())

	req, sess := sessionRequest(t, sessions, http.MethodGet, "/auth/csrf", "", "user-42", authz.RoleAdmin)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	var first struct {
		Token string `json:"csrfToken"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &first))
	require.NotEmpty(t, first.Token)

	req2 := httptest.NewRequest(http.MethodGet, "/auth/csrf", nil)
	req2 = req2.WithContext(shared.ContextWithSession(req2.Context(), sess))
	res2 := httptest.NewRecorder()
	router.ServeHTTP(res2, req2)

	var second struct {
		Token string `json:"csrfToken"`
	}
	require.NoError(t, json.Unmarshal(res2.Body.Bytes(), &second))
	assert.Equal(t, first.Token, second.Token)
}
