package users

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Edinam27/lect-next/internal/authz"
	"github.com/Edinam27/lect-next/internal/platform/httpx"
	"github.com/Edinam27/lect-next/internal/shared"
)

// Handler exposes user management endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    authz.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, gate authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAny(authz.PermUsersView))
		r.Get("/users", h.list)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Gate(authz.GateConfig{Resource: &authz.ResourceCheck{
			Kind:           authz.KindUser,
			Action:         authz.ActionView,
			CheckOwnership: true,
		}}))
		r.Get("/users/{id}", h.show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAll(authz.PermUsersManage))
		r.Post("/users/{id}/activate", h.setActive(true))
		r.Post("/users/{id}/deactivate", h.setActive(false))
	})
}

type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func toView(u User) userView {
	return userView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, authz.MsgInternalError)
		return
	}
	views := make([]userView, 0, len(all))
	for _, u := range all {
		views = append(views, toView(u))
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("get user", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, authz.MsgInternalError)
		return
	}
	httpx.JSON(w, http.StatusOK, toView(*user))
}

func (h *Handler) setActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := h.service.SetActive(r.Context(), id, active); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				httpx.Error(w, http.StatusNotFound, "Not found")
				return
			}
			h.logger.Error("set active", slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, authz.MsgInternalError)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"id": id, "isActive": active})
	}
}
