package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Edinam27/lect-next/internal/academics"
	"github.com/Edinam27/lect-next/internal/attendance"
	"github.com/Edinam27/lect-next/internal/audit"
	"github.com/Edinam27/lect-next/internal/auth"
	"github.com/Edinam27/lect-next/internal/notifications"
	"github.com/Edinam27/lect-next/internal/observability"
	"github.com/Edinam27/lect-next/internal/reports"
	"github.com/Edinam27/lect-next/internal/shared"
	"github.com/Edinam27/lect-next/internal/users"
	"github.com/Edinam27/lect-next/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler          *auth.Handler
	UsersHandler         *users.Handler
	AcademicsHandler     *academics.Handler
	AttendanceHandler    *attendance.Handler
	NotificationsHandler *notifications.Handler
	AuditHandler         *audit.Handler
	ReportsHandler       *reports.Handler
	JobHandler           *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with service defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.UsersHandler != nil {
		params.UsersHandler.MountRoutes(r)
	}
	if params.AcademicsHandler != nil {
		params.AcademicsHandler.MountRoutes(r)
	}
	if params.AttendanceHandler != nil {
		params.AttendanceHandler.MountRoutes(r)
	}
	if params.NotificationsHandler != nil {
		params.NotificationsHandler.MountRoutes(r)
	}
	if params.AuditHandler != nil {
		params.AuditHandler.MountRoutes(r)
	}
	if params.ReportsHandler != nil {
		params.ReportsHandler.MountRoutes(r)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
