package reports

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Edinam27/lect-next/internal/authz"
	"github.com/Edinam27/lect-next/internal/platform/httpx"
)

// Handler exposes the report export endpoint.
type Handler struct {
	service *Service
	gate    authz.Middleware
	logger  *slog.Logger
}

// NewHandler constructs the handler.
func NewHandler(service *Service, gate authz.Middleware, logger *slog.Logger) *Handler {
	return &Handler{service: service, gate: gate, logger: logger}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAny(authz.PermReportsExport))
		r.Get("/reports/attendance/export", h.export)
	})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		httpx.Error(w, http.StatusBadRequest, fmt.Sprintf("Unsupported export format: %s", format))
		return
	}

	rng := ParseRange(r.URL.Query().Get("range"))
	tab := ParseTab(r.URL.Query().Get("tab"))
	lecturerID := r.URL.Query().Get("lecturerId")

	report, err := h.service.Build(r.Context(), tab, rng, lecturerID)
	if err != nil {
		h.logger.Error("report build failed",
			slog.Any("error", err),
			slog.String("tab", string(tab)),
			slog.String("range", string(rng)))
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	filename := h.service.Filename(r.Context(), tab, rng, format, lecturerID)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	switch format {
	case "pdf":
		data, err := h.service.RenderPDF(r.Context(), report)
		if err != nil {
			h.logger.Error("pdf render failed", slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := WriteCSV(w, report); err != nil {
			h.logger.Error("csv stream failed", slog.Any("error", err))
		}
	}
}
