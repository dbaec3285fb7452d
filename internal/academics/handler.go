package academics

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Edinam27/lect-next/internal/authz"
	"github.com/Edinam27/lect-next/internal/platform/httpx"
	"github.com/Edinam27/lect-next/internal/shared"
)

// Handler exposes programme/course/class-group/schedule endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	gate      authz.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, gate authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, gate: gate, validator: validator.New()}
}

// MountRoutes registers academic structure routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAuth())
		r.Get("/programmes", h.listProgrammes)
		r.Get("/courses", h.listCourses)
		r.Get("/class-groups", h.listClassGroups)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAll(authz.PermProgrammesManage))
		r.Post("/programmes", h.createProgramme)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAll(authz.PermCoursesManage))
		r.Post("/courses", h.createCourse)
		r.Post("/class-groups", h.createClassGroup)
		r.Post("/class-groups/{id}/rep", h.assignClassRep)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAny(authz.PermSchedulesView))
		r.Get("/schedules", h.listSchedules)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Gate(authz.GateConfig{Resource: &authz.ResourceCheck{
			Kind:            authz.KindSchedule,
			Action:          authz.ActionView,
			CheckOwnership:  true,
			CheckMembership: true,
		}}))
		r.Get("/schedules/{id}", h.showSchedule)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAll(authz.PermSchedulesManage))
		r.Post("/schedules", h.createSchedule)
		r.Put("/schedules/{id}", h.updateSchedule)
		r.Delete("/schedules/{id}", h.deleteSchedule)
	})
}

func (h *Handler) respondErr(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, httpx.ErrDuplicate):
		httpx.Error(w, http.StatusConflict, "Duplicate entry")
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, authz.MsgInternalError)
	}
}

func actorID(r *http.Request) string {
	if ident, ok := authz.IdentityFromContext(r.Context()); ok {
		return ident.UserID
	}
	return ""
}

func (h *Handler) listProgrammes(w http.ResponseWriter, r *http.Request) {
	programmes, err := h.service.ListProgrammes(r.Context())
	if err != nil {
		h.respondErr(w, err, "list programmes")
		return
	}
	httpx.JSON(w, http.StatusOK, programmes)
}

type programmeRequest struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code" validate:"required,alphanum"`
}

func (h *Handler) createProgramme(w http.ResponseWriter, r *http.Request) {
	var req programmeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Name and code are required")
		return
	}
	p, err := h.service.CreateProgramme(r.Context(), actorID(r), req.Name, req.Code)
	if err != nil {
		h.respondErr(w, err, "create programme")
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) listCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListCourses(r.Context(), r.URL.Query().Get("programmeId"))
	if err != nil {
		h.respondErr(w, err, "list courses")
		return
	}
	httpx.JSON(w, http.StatusOK, courses)
}

type courseRequest struct {
	ProgrammeID string `json:"programmeId" validate:"required,uuid"`
	Code        string `json:"code" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Credits     int    `json:"credits" validate:"min=0,max=30"`
}

func (h *Handler) createCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Programme, code and title are required")
		return
	}
	c, err := h.service.CreateCourse(r.Context(), actorID(r), Course{
		ProgrammeID: req.ProgrammeID,
		Code:        req.Code,
		Title:       req.Title,
		Credits:     req.Credits,
	})
	if err != nil {
		h.respondErr(w, err, "create course")
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) listClassGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ListClassGroups(r.Context())
	if err != nil {
		h.respondErr(w, err, "list class groups")
		return
	}
	httpx.JSON(w, http.StatusOK, groups)
}

type classGroupRequest struct {
	ProgrammeID string `json:"programmeId" validate:"required,uuid"`
	Name        string `json:"name" validate:"required"`
	IntakeYear  int    `json:"intakeYear" validate:"required,min=2000,max=2100"`
}

func (h *Handler) createClassGroup(w http.ResponseWriter, r *http.Request) {
	var req classGroupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Programme, name and intake year are required")
		return
	}
	g, err := h.service.CreateClassGroup(r.Context(), actorID(r), ClassGroup{
		ProgrammeID: req.ProgrammeID,
		Name:        req.Name,
		IntakeYear:  req.IntakeYear,
	})
	if err != nil {
		h.respondErr(w, err, "create class group")
		return
	}
	httpx.JSON(w, http.StatusCreated, g)
}

type assignRepRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

func (h *Handler) assignClassRep(w http.ResponseWriter, r *http.Request) {
	var req assignRepRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "User id is required")
		return
	}
	groupID := chi.URLParam(r, "id")
	if err := h.service.AssignClassRep(r.Context(), actorID(r), groupID, req.UserID); err != nil {
		h.respondErr(w, err, "assign class rep")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"id": groupID, "classRepUserId": req.UserID})
}

func (h *Handler) listSchedules(w http.ResponseWriter, r *http.Request) {
	lecturerID := r.URL.Query().Get("lecturerId")
	// Lecturers only ever see their own schedules.
	if ident, ok := authz.IdentityFromContext(r.Context()); ok && ident.Role == authz.RoleLecturer {
		lecturerID = ident.UserID
	}
	schedules, err := h.service.ListSchedules(r.Context(), lecturerID)
	if err != nil {
		h.respondErr(w, err, "list schedules")
		return
	}
	httpx.JSON(w, http.StatusOK, schedules)
}

func (h *Handler) showSchedule(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.GetSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, err, "get schedule")
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

type scheduleRequest struct {
	CourseID       string `json:"courseId" validate:"required,uuid"`
	ClassGroupID   string `json:"classGroupId" validate:"required,uuid"`
	LecturerUserID string `json:"lecturerUserId" validate:"required,uuid"`
	Weekday        int    `json:"weekday" validate:"min=0,max=6"`
	StartsAt       string `json:"startsAt" validate:"required"`
	EndsAt         string `json:"endsAt" validate:"required"`
	Room           string `json:"room"`
}

func (h *Handler) createSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Course, class group, lecturer and times are required")
		return
	}
	s, err := h.service.CreateSchedule(r.Context(), actorID(r), CourseSchedule{
		CourseID:       req.CourseID,
		ClassGroupID:   req.ClassGroupID,
		LecturerUserID: req.LecturerUserID,
		Weekday:        req.Weekday,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		Room:           req.Room,
	})
	if err != nil {
		h.respondErr(w, err, "create schedule")
		return
	}
	httpx.JSON(w, http.StatusCreated, s)
}

func (h *Handler) updateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Course, class group, lecturer and times are required")
		return
	}
	s, err := h.service.UpdateSchedule(r.Context(), actorID(r), CourseSchedule{
		ID:             chi.URLParam(r, "id"),
		CourseID:       req.CourseID,
		ClassGroupID:   req.ClassGroupID,
		LecturerUserID: req.LecturerUserID,
		Weekday:        req.Weekday,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		Room:           req.Room,
	})
	if err != nil {
		h.respondErr(w, err, "update schedule")
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *Handler) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSchedule(r.Context(), actorID(r), chi.URLParam(r, "id")); err != nil {
		h.respondErr(w, err, "delete schedule")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
