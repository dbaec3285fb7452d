package attendance

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Edinam27/lect-next/internal/authz"
	"github.com/Edinam27/lect-next/internal/platform/httpx"
	"github.com/Edinam27/lect-next/internal/shared"
)

// Handler exposes check-in and verification endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	gate      authz.Middleware
	groups    authz.Store
	validator *validator.Validate
}

// NewHandler constructs a Handler. The authz store is reused to scope class
// representative listings to their represented groups.
func NewHandler(logger *slog.Logger, service *Service, gate authz.Middleware, groups authz.Store) *Handler {
	return &Handler{logger: logger, service: service, gate: gate, groups: groups, validator: validator.New()}
}

// MountRoutes registers attendance routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAll(authz.PermAttendanceCheckIn))
		r.Post("/attendance/check-in", h.checkIn)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAny(authz.PermAttendanceView))
		r.Get("/attendance", h.list)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Gate(authz.GateConfig{Resource: &authz.ResourceCheck{
			Kind:            authz.KindAttendance,
			Action:          authz.ActionView,
			CheckOwnership:  true,
			CheckMembership: true,
		}}))
		r.Get("/attendance/{id}", h.show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Gate(authz.GateConfig{Resource: &authz.ResourceCheck{
			Kind:            authz.KindAttendance,
			Action:          authz.ActionVerify,
			CheckMembership: true,
		}}))
		r.Post("/attendance/{id}/verify", h.verify)
	})
}

type checkInRequest struct {
	ScheduleID        string   `json:"scheduleId" validate:"required,uuid"`
	Method            string   `json:"method" validate:"omitempty,oneof=manual qr geo"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	DeviceFingerprint *string  `json:"deviceFingerprint"`
}

func (h *Handler) checkIn(w http.ResponseWriter, r *http.Request) {
	ident, ok := authz.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, authz.MsgUnauthenticated)
		return
	}

	var req checkInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Schedule id is required")
		return
	}
	method := req.Method
	if method == "" {
		method = "manual"
	}

	rec, err := h.service.CheckIn(r.Context(), CheckIn{
		ScheduleID:        req.ScheduleID,
		LecturerUserID:    ident.UserID,
		Method:            method,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		DeviceFingerprint: req.DeviceFingerprint,
	}, r.Header.Get("Idempotency-Key"))
	if err != nil {
		switch {
		case errors.Is(err, httpx.ErrDuplicate):
			httpx.Error(w, http.StatusConflict, "Already checked in for this session")
		case errors.Is(err, shared.ErrNotFound):
			httpx.Error(w, http.StatusNotFound, "Schedule not found")
		case errors.Is(err, httpx.ErrForbidden):
			httpx.Error(w, http.StatusForbidden, authz.MsgResourceDenied)
		default:
			h.logger.Error("check in", slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, authz.MsgInternalError)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, rec)
}

type verifyRequest struct {
	Confirmed bool   `json:"confirmed"`
	Comment   string `json:"comment" validate:"max=500"`
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	ident, ok := authz.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, authz.MsgUnauthenticated)
		return
	}

	var req verifyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Comment too long")
		return
	}

	rec, err := h.service.Verify(r.Context(), Verification{
		RecordID:   chi.URLParam(r, "id"),
		VerifierID: ident.UserID,
		Confirmed:  req.Confirmed,
		Comment:    req.Comment,
		Override:   ident.Role == authz.RoleAdmin,
	})
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.Error(w, http.StatusNotFound, "Not found")
		case errors.Is(err, shared.ErrInvalidStatusTransition):
			httpx.Error(w, http.StatusConflict, "Record already verified")
		default:
			h.logger.Error("verify attendance", slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, authz.MsgInternalError)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ident, ok := authz.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, authz.MsgUnauthenticated)
		return
	}

	filter := ListFilter{}
	switch ident.Role {
	case authz.RoleLecturer:
		filter.LecturerUserID = ident.UserID
	case authz.RoleClassRep:
		groups, err := h.groups.RepresentedGroups(r.Context(), ident.UserID)
		if err != nil || len(groups) == 0 {
			httpx.JSON(w, http.StatusOK, []Record{})
			return
		}
		filter.ClassGroupIDs = groups
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = t
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = t
		}
	}

	records, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list attendance", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, authz.MsgInternalError)
		return
	}
	if records == nil {
		records = []Record{}
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("get attendance", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, authz.MsgInternalError)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}
