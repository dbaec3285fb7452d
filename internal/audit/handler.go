package audit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Edinam27/lect-next/internal/authz"
	"github.com/Edinam27/lect-next/internal/platform/httpx"
	"github.com/Edinam27/lect-next/internal/shared"
)

type timelineResponse struct {
	Data       []Entry           `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

// Handler exposes the audit timeline to administrators.
type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    authz.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, gate authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers audit routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAll(authz.PermAuditView))
		r.Get("/audit", h.timeline)
	})
}

func (h *Handler) timeline(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filters{
		Entity:  q.Get("entity"),
		ActorID: q.Get("actorId"),
	}
	if raw := q.Get("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			f.From = t
		}
	}
	if raw := q.Get("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			f.To = t
		}
	}
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			f.Limit = n
		}
	}
	if raw := q.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			f.Page = n
		}
	}

	entries, err := h.service.Timeline(r.Context(), f)
	if err != nil {
		h.logger.Error("audit timeline", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, authz.MsgInternalError)
		return
	}
	total, err := h.service.Count(r.Context(), f)
	if err != nil {
		h.logger.Error("audit count", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, authz.MsgInternalError)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	httpx.JSON(w, http.StatusOK, timelineResponse{
		Data:       entries,
		Pagination: shared.NewPagination(f.Page, limit, total),
	})
}
