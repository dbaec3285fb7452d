package authz_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Edinam27/lect-next/internal/authz"
	"github.com/Edinam27/lect-next/internal/shared"
	_ "github.com/Edinam27/lect-next/testing"
)

type emptyStore struct{}

func (emptyStore) ScheduleLecturer(ctx context.Context, id string) (string, error) {
	return "", shared.ErrNotFound
}
func (emptyStore) ScheduleClassGroup(ctx context.Context, id string) (string, error) {
	return "", shared.ErrNotFound
}
func (emptyStore) AttendanceSchedule(ctx context.Context, id string) (string, string, error) {
	return "", "", shared.ErrNotFound
}
func (emptyStore) NotificationOwner(ctx context.Context, id string) (string, error) {
	return "", shared.ErrNotFound
}
func (emptyStore) RepresentedGroups(ctx context.Context, userID string) ([]string, error) {
	return nil, nil
}

func newGate(t *testing.T) (authz.Middleware, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	gate := authz.Middleware{Evaluator: authz.NewEvaluator(authz.NewResolver(emptyStore{}, nil))}
	return gate, sessions
}

// authedRequest builds a request whose context carries a session for the
// given user and role, the way the session middleware would.
func authedRequest(t *testing.T, sessions *shared.SessionManager, path, userID string, role authz.Role) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	sess, err := sessions.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if userID != "" {
		sess.SetUser(userID)
		sess.Set(shared.SessionRoleKey, string(role))
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func decodeError(t *testing.T, res *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, res.Body.String())
	}
	return body.Error
}

func TestGateRejectsAnonymous(t *testing.T) {
	gate, sessions := newGate(t)

	var reached bool
	h := gate.RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := authedRequest(t, sessions, "/notifications", "", "")
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	if reached {
		t.Fatal("handler must not run for anonymous requests")
	}
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if msg := decodeError(t, res); msg != authz.MsgUnauthenticated {
		t.Fatalf("expected %q, got %q", authz.MsgUnauthenticated, msg)
	}
}

func TestGatePermissionDenied(t *testing.T) {
	gate, sessions := newGate(t)

	h := gate.RequireAll(authz.PermUsersManage)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := authedRequest(t, sessions, "/users/1/deactivate", "u-1", authz.RoleLecturer)
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
	if msg := decodeError(t, res); msg != authz.MsgInsufficientPermissions {
		t.Fatalf("expected %q, got %q", authz.MsgInsufficientPermissions, msg)
	}
}

func TestGateInjectsIdentity(t *testing.T) {
	gate, sessions := newGate(t)

	var got authz.Identity
	h := gate.RequireAny(authz.PermAttendanceView)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := authz.IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("identity missing from handler context")
		}
		got = ident
	}))

	req := authedRequest(t, sessions, "/attendance", "u-7", authz.RoleCoordinator)
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if got.UserID != "u-7" || got.Role != authz.RoleCoordinator {
		t.Fatalf("unexpected identity %+v", got)
	}
}

func TestGateResourceDenialMessage(t *testing.T) {
	gate, sessions := newGate(t)

	h := gate.Gate(authz.GateConfig{Resource: &authz.ResourceCheck{
		Kind:           authz.KindNotification,
		Action:         authz.ActionUpdate,
		CheckOwnership: true,
	}})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := authedRequest(t, sessions, "/notifications/6f1f708e-68ce-4c66-9e3d-3c9de10cd5b1/read", "u-1", authz.RoleAdmin)
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
	if msg := decodeError(t, res); msg != authz.MsgResourceDenied {
		t.Fatalf("expected %q, got %q", authz.MsgResourceDenied, msg)
	}
}
