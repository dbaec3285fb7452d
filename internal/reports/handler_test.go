package reports_test

import (
	"context"
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

	"github.com/Edinam27/lect-next/internal/authz"
	"github.com/Edinam27/lect-next/internal/reports"
	"github.com/Edinam27/lect-next/internal/shared"
	_ "github.com/Edinam27/lect-next/testing"
)

type stubRepo struct {
	rows    []reports.RecordRow
	first   string
	last    string
	nameErr error
}

func (s *stubRepo) FetchRecords(ctx context.Context, from, to time.Time, lecturerID string) ([]reports.RecordRow, error) {
	return s.rows, nil
}

func (s *stubRepo) LecturerName(ctx context.Context, id string) (string, string, error) {
	return s.first, s.last, s.nameErr
}

type denyAllStore struct{}

func (denyAllStore) ScheduleLecturer(ctx context.Context, id string) (string, error) {
	return "", shared.ErrNotFound
}
func (denyAllStore) ScheduleClassGroup(ctx context.Context, id string) (string, error) {
	return "", shared.ErrNotFound
}
func (denyAllStore) AttendanceSchedule(ctx context.Context, id string) (string, string, error) {
	return "", "", shared.ErrNotFound
}
func (denyAllStore) NotificationOwner(ctx context.Context, id string) (string, error) {
	return "", shared.ErrNotFound
}
func (denyAllStore) RepresentedGroups(ctx context.Context, userID string) ([]string, error) {
	return nil, nil
}

func newExportRouter(t *testing.T, repo *stubRepo) (chi.Router, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gate := authz.Middleware{Evaluator: authz.NewEvaluator(authz.NewResolver(denyAllStore{}, nil))}
	handler := reports.NewHandler(reports.NewService(repo, nil, logger), gate, logger)

	router := chi.NewRouter()
	handler.MountRoutes(router)
	return router, sessions
}

func exportRequest(t *testing.T, sessions *shared.SessionManager, path string, role authz.Role) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	sess, err := sessions.Load(context.Background(), req)
	require.NoError(t, err)
	sess.SetUser("user-1")
	sess.Set(shared.SessionRoleKey, string(role))
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func TestExportDefaultsToCSV(t *testing.T) {
	repo := &stubRepo{rows: []reports.RecordRow{{
		RecordID:      "r1",
		TakenAt:       time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC),
		Status:        "VERIFIED",
		CourseCode:    "CS101",
		CourseTitle:   "Intro",
		LecturerFirst: "Ama",
		LecturerLast:  "Mensah",
		ClassGroup:    "CS Year 1",
	}}}
	router, sessions := newExportRouter(t, repo)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, exportRequest(t, sessions, "/reports/attendance/export", authz.RoleCoordinator))

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "text/csv; charset=utf-8", res.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="attendance-report-overview-month.csv"`, res.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(res.Body.String(), "# Report: attendance overview\r\n"))
	assert.Contains(t, res.Body.String(), "CS101 Intro")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	router, sessions := newExportRouter(t, &stubRepo{})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, exportRequest(t, sessions, "/reports/attendance/export?format=xml", authz.RoleAdmin))

	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Unsupported export format: xml")
}

func TestExportByStudentSucceedsEmpty(t *testing.T) {
	router, sessions := newExportRouter(t, &stubRepo{})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, exportRequest(t, sessions, "/reports/attendance/export?tab=by-student&range=week", authz.RoleAdmin))

	require.Equal(t, http.StatusOK, res.Code)
	lines := strings.Split(strings.TrimSuffix(res.Body.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Student,Sessions Attended", lines[2])
}

func TestExportScopedFilenameUsesLecturerName(t *testing.T) {
	router, sessions := newExportRouter(t, &stubRepo{first: "Kofi", last: "Owusu"})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, exportRequest(t, sessions,
		"/reports/attendance/export?tab=by-course&range=week&lecturerId=l1", authz.RoleCoordinator))

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, `attachment; filename="attendance-report-by-course-week-kofi-owusu.csv"`,
		res.Header().Get("Content-Disposition"))
}

func TestExportScopedFilenameDegradesOnLookupFailure(t *testing.T) {
	router, sessions := newExportRouter(t, &stubRepo{nameErr: shared.ErrNotFound})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, exportRequest(t, sessions,
		"/reports/attendance/export?lecturerId=ghost", authz.RoleAdmin))

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, `attachment; filename="attendance-report-overview-month.csv"`,
		res.Header().Get("Content-Disposition"))
}

func TestExportForbiddenWithoutPermission(t *testing.T) {
	router, sessions := newExportRouter(t, &stubRepo{})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, exportRequest(t, sessions, "/reports/attendance/export", authz.RoleLecturer))

	require.Equal(t, http.StatusForbidden, res.Code)
}

func TestExportPDFUnconfiguredFails(t *testing.T) {
	router, sessions := newExportRouter(t, &stubRepo{})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, exportRequest(t, sessions, "/reports/attendance/export?format=pdf", authz.RoleAdmin))

	require.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Contains(t, res.Body.String(), "Internal server error")
}
