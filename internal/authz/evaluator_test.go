package authz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newEvaluator(store *stubStore) *Evaluator {
	return NewEvaluator(NewResolver(store, nil))
}

func request(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}

func TestEvaluateUnauthenticated(t *testing.T) {
	e := newEvaluator(&stubStore{})

	for _, ident := range []*Identity{nil, {}} {
		d := e.Evaluate(context.Background(), GateConfig{}, ident, request("/attendance"))
		if d.Allowed {
			t.Fatal("missing identity must deny")
		}
		if d.Status != http.StatusUnauthorized || d.Message != MsgUnauthenticated {
			t.Fatalf("got %d %q, want 401 %q", d.Status, d.Message, MsgUnauthenticated)
		}
	}
}

func TestEvaluateCustomCheckIsFinal(t *testing.T) {
	e := newEvaluator(&stubStore{})
	RegisterCustomCheck("always-no", CustomCheckFunc(func(ctx context.Context, ident Identity, r *http.Request) bool {
		return false
	}))
	RegisterCustomCheck("always-yes", CustomCheckFunc(func(ctx context.Context, ident Identity, r *http.Request) bool {
		return true
	}))

	ident := &Identity{UserID: "u-1", Role: RoleClassRep}

	// A passing custom check wins even with tokens the role lacks.
	d := e.Evaluate(context.Background(), GateConfig{
		Custom:      "always-yes",
		Permissions: []string{PermUsersManage},
	}, ident, request("/users"))
	if !d.Allowed {
		t.Fatal("passing custom check must allow without consulting tokens")
	}

	d = e.Evaluate(context.Background(), GateConfig{Custom: "always-no"}, ident, request("/users"))
	if d.Allowed || d.Status != http.StatusForbidden || d.Message != MsgAccessDenied {
		t.Fatalf("failing custom check: got %+v", d)
	}
}

func TestEvaluateUnknownCustomCheckFailsClosed(t *testing.T) {
	e := newEvaluator(&stubStore{})
	ident := &Identity{UserID: "u-1", Role: RoleAdmin}

	d := e.Evaluate(context.Background(), GateConfig{Custom: "never-registered"}, ident, request("/x"))
	if d.Allowed {
		t.Fatal("unregistered custom check name must deny")
	}
	if d.Status != http.StatusForbidden || d.Message != MsgAccessDenied {
		t.Fatalf("got %d %q", d.Status, d.Message)
	}
}

func TestEvaluatePermissionTokens(t *testing.T) {
	e := newEvaluator(&stubStore{})

	lecturer := &Identity{UserID: "u-1", Role: RoleLecturer}
	d := e.Evaluate(context.Background(), GateConfig{
		Permissions: []string{PermAttendanceCheckIn},
	}, lecturer, request("/attendance/check-in"))
	if !d.Allowed {
		t.Fatal("lecturer holds attendance.checkin")
	}

	rep := &Identity{UserID: "u-2", Role: RoleClassRep}
	d = e.Evaluate(context.Background(), GateConfig{
		Permissions: []string{PermAttendanceCheckIn},
	}, rep, request("/attendance/check-in"))
	if d.Allowed || d.Message != MsgInsufficientPermissions {
		t.Fatalf("class rep must lack check-in: %+v", d)
	}

	// any-of passes on one matching token, all-of does not.
	mixed := []string{PermUsersView, PermAuditView}
	coordinator := &Identity{UserID: "u-3", Role: RoleCoordinator}
	if d := e.Evaluate(context.Background(), GateConfig{Permissions: mixed}, coordinator, request("/audit")); !d.Allowed {
		t.Fatal("any-of should pass with one held token")
	}
	d = e.Evaluate(context.Background(), GateConfig{Permissions: mixed, RequireAll: true}, coordinator, request("/audit"))
	if d.Allowed {
		t.Fatal("all-of must fail when one token is missing")
	}
}

func TestEvaluateResourceCheck(t *testing.T) {
	store := &stubStore{recordLecturer: "lect-1", recordGroup: "grp-1", repGroups: []string{"grp-1"}}
	e := newEvaluator(store)
	path := "/attendance/6f1f708e-68ce-4c66-9e3d-3c9de10cd5b1"
	cfg := GateConfig{Resource: &ResourceCheck{
		Kind:            KindAttendance,
		Action:          ActionView,
		CheckOwnership:  true,
		CheckMembership: true,
	}}

	owner := &Identity{UserID: "lect-1", Role: RoleLecturer}
	if d := e.Evaluate(context.Background(), cfg, owner, request(path)); !d.Allowed {
		t.Fatalf("owning lecturer denied: %+v", d)
	}

	stranger := &Identity{UserID: "lect-2", Role: RoleLecturer}
	d := e.Evaluate(context.Background(), cfg, stranger, request(path))
	if d.Allowed || d.Status != http.StatusForbidden || d.Message != MsgResourceDenied {
		t.Fatalf("foreign lecturer: got %+v", d)
	}

	rep := &Identity{UserID: "rep-1", Role: RoleClassRep}
	if d := e.Evaluate(context.Background(), cfg, rep, request(path)); !d.Allowed {
		t.Fatalf("rep of the group denied: %+v", d)
	}

	admin := &Identity{UserID: "admin-1", Role: RoleAdmin}
	if d := e.Evaluate(context.Background(), cfg, admin, request(path)); !d.Allowed {
		t.Fatalf("admin denied: %+v", d)
	}
}

func TestEvaluateMalformedResourceIDDenies(t *testing.T) {
	store := &stubStore{recordLecturer: "lect-1"}
	e := newEvaluator(store)
	cfg := GateConfig{Resource: &ResourceCheck{
		Kind:           KindAttendance,
		Action:         ActionView,
		CheckOwnership: true,
	}}

	ident := &Identity{UserID: "lect-1", Role: RoleLecturer}
	d := e.Evaluate(context.Background(), cfg, ident, request("/attendance/not!an!id"))
	if d.Allowed {
		t.Fatal("unparseable id must behave like an absent resource")
	}
	if d.Message != MsgResourceDenied {
		t.Fatalf("got message %q", d.Message)
	}
}

func TestEvaluateEmptyConfigAllowsAuthenticated(t *testing.T) {
	e := newEvaluator(&stubStore{})
	ident := &Identity{UserID: "u-1", Role: RoleClassRep}

	if d := e.Evaluate(context.Background(), GateConfig{}, ident, request("/notifications")); !d.Allowed {
		t.Fatalf("empty config should only require authentication: %+v", d)
	}
}
