package academics

import (
	"context"
	"strings"

	"github.com/Edinam27/lect-next/internal/shared"
)

// Service handles academic structure business logic and audit trails.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// ListProgrammes returns all programmes.
func (s *Service) ListProgrammes(ctx context.Context) ([]Programme, error) {
	return s.repo.ListProgrammes(ctx)
}

// CreateProgramme inserts a programme and records the mutation.
func (s *Service) CreateProgramme(ctx context.Context, actorID, name, code string) (*Programme, error) {
	p, err := s.repo.CreateProgramme(ctx, strings.TrimSpace(name), strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	s.record(ctx, actorID, "programme.create", "programme", p.ID, map[string]any{"code": p.Code})
	return p, nil
}

// ListCourses returns courses, optionally scoped to a programme.
func (s *Service) ListCourses(ctx context.Context, programmeID string) ([]Course, error) {
	return s.repo.ListCourses(ctx, programmeID)
}

// CreateCourse inserts a course.
func (s *Service) CreateCourse(ctx context.Context, actorID string, c Course) (*Course, error) {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	created, err := s.repo.CreateCourse(ctx, c)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actorID, "course.create", "course", created.ID, map[string]any{"code": created.Code})
	return created, nil
}

// ListClassGroups returns all class groups.
func (s *Service) ListClassGroups(ctx context.Context) ([]ClassGroup, error) {
	return s.repo.ListClassGroups(ctx)
}

// CreateClassGroup inserts a class group.
func (s *Service) CreateClassGroup(ctx context.Context, actorID string, g ClassGroup) (*ClassGroup, error) {
	created, err := s.repo.CreateClassGroup(ctx, g)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actorID, "class_group.create", "class_group", created.ID, nil)
	return created, nil
}

// AssignClassRep sets the representative of a class group.
func (s *Service) AssignClassRep(ctx context.Context, actorID, groupID, userID string) error {
	if err := s.repo.AssignClassRep(ctx, groupID, userID); err != nil {
		return err
	}
	s.record(ctx, actorID, "class_group.assign_rep", "class_group", groupID, map[string]any{"rep": userID})
	return nil
}

// ListSchedules returns schedules, optionally filtered by lecturer.
func (s *Service) ListSchedules(ctx context.Context, lecturerID string) ([]CourseSchedule, error) {
	return s.repo.ListSchedules(ctx, lecturerID)
}

// GetSchedule fetches one schedule.
func (s *Service) GetSchedule(ctx context.Context, id string) (*CourseSchedule, error) {
	return s.repo.GetSchedule(ctx, id)
}

// CreateSchedule inserts a schedule.
func (s *Service) CreateSchedule(ctx context.Context, actorID string, sched CourseSchedule) (*CourseSchedule, error) {
	created, err := s.repo.CreateSchedule(ctx, sched)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actorID, "schedule.create", "schedule", created.ID, nil)
	return created, nil
}

// UpdateSchedule updates a schedule.
func (s *Service) UpdateSchedule(ctx context.Context, actorID string, sched CourseSchedule) (*CourseSchedule, error) {
	updated, err := s.repo.UpdateSchedule(ctx, sched)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actorID, "schedule.update", "schedule", updated.ID, nil)
	return updated, nil
}

// DeleteSchedule removes a schedule.
func (s *Service) DeleteSchedule(ctx context.Context, actorID, id string) error {
	if err := s.repo.DeleteSchedule(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, "schedule.delete", "schedule", id, nil)
	return nil
}

// record writes the audit trail. Audit failure never fails the mutation.
func (s *Service) record(ctx context.Context, actorID, action, entity, entityID string, meta map[string]any) {
	if s.audit == nil || actorID == "" {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Meta:     meta,
	})
}
