package notifications

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Edinam27/lect-next/internal/authz"
	"github.com/Edinam27/lect-next/internal/platform/httpx"
	"github.com/Edinam27/lect-next/internal/shared"
)

// Handler exposes notification endpoints.
type Handler struct {
	logger *slog.Logger
	repo   *Repository
	gate   authz.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, repo *Repository, gate authz.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, gate: gate}
}

// MountRoutes registers notification routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAuth())
		r.Get("/notifications", h.list)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Gate(authz.GateConfig{Resource: &authz.ResourceCheck{
			Kind:           authz.KindNotification,
			Action:         authz.ActionUpdate,
			CheckOwnership: true,
		}}))
		r.Post("/notifications/{id}/read", h.markRead)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ident, ok := authz.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, authz.MsgUnauthenticated)
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"
	items, err := h.repo.ListForUser(r.Context(), ident.UserID, unreadOnly)
	if err != nil {
		h.logger.Error("list notifications", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, authz.MsgInternalError)
		return
	}
	if items == nil {
		items = []Notification{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.repo.MarkRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("mark notification read", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, authz.MsgInternalError)
		return
	}
	httpx.JSON(w, http.StatusOK, n)
}
