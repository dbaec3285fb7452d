package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Edinam27/lect-next/internal/platform/httpx"
	"github.com/Edinam27/lect-next/internal/shared"
)

// checkInLockTTL bounds how long a schedule's check-in lock can stick around
// if a request dies mid-flight.
const checkInLockTTL = 10 * time.Second

// Notifier enqueues the verification request that follows a check-in.
type Notifier interface {
	NotifyCheckIn(ctx context.Context, recordID, classRepUserID, scheduleID string) error
}

// Service handles check-in and verification business logic.
type Service struct {
	repo        RepositoryPort
	redisClient *redis.Client
	idempotency *shared.IdempotencyStore
	audit       *shared.AuditLogger
	notifier    Notifier
	logger      *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, redisClient *redis.Client, idem *shared.IdempotencyStore, audit *shared.AuditLogger, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		redisClient: redisClient,
		idempotency: idem,
		audit:       audit,
		notifier:    notifier,
		logger:      logger,
	}
}

// CheckIn records the lecturer's presence for a schedule. Only the lecturer
// the schedule is assigned to may check in. Duplicate requests are rejected
// through an idempotency key, a short redis lock per schedule, and
// ultimately the unique (schedule, day) index.
func (s *Service) CheckIn(ctx context.Context, in CheckIn, idempotencyKey string) (*Record, error) {
	owner, err := s.repo.ScheduleLecturer(ctx, in.ScheduleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if owner != in.LecturerUserID {
		return nil, httpx.ErrForbidden
	}

	if idempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, idempotencyKey, "attendance"); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				return nil, httpx.ErrDuplicate
			}
			return nil, err
		}
	}

	if s.redisClient != nil {
		lockKey := shared.CheckInLockKey(in.ScheduleID)
		ok, err := s.redisClient.SetNX(ctx, lockKey, in.LecturerUserID, checkInLockTTL).Result()
		if err == nil && !ok {
			return nil, httpx.ErrDuplicate
		}
		if err == nil {
			defer s.redisClient.Del(context.WithoutCancel(ctx), lockKey)
		}
	}

	rec, err := s.repo.Insert(ctx, in)
	if err != nil {
		if idempotencyKey != "" && s.idempotency != nil {
			_ = s.idempotency.Delete(context.WithoutCancel(ctx), idempotencyKey)
		}
		return nil, err
	}

	s.record(ctx, in.LecturerUserID, "attendance.checkin", rec.ID, map[string]any{"schedule": in.ScheduleID})

	if s.notifier != nil {
		if repID, err := s.repo.ClassRepForSchedule(ctx, in.ScheduleID); err == nil {
			if err := s.notifier.NotifyCheckIn(ctx, rec.ID, repID, in.ScheduleID); err != nil && s.logger != nil {
				s.logger.Warn("enqueue verification notice", slog.Any("error", err))
			}
		}
	}

	return rec, nil
}

// Verify applies a class representative's verdict.
func (s *Service) Verify(ctx context.Context, v Verification) (*Record, error) {
	rec, err := s.repo.Get(ctx, v.RecordID)
	if err != nil {
		return nil, err
	}

	target := shared.AttendanceStatusVerified
	if !v.Confirmed {
		target = shared.AttendanceStatusDisputed
	}
	if err := shared.ValidateAttendanceTransition(rec.Status, target, v.Override); err != nil {
		return nil, err
	}

	updated, err := s.repo.SetStatus(ctx, v.RecordID, target, v.VerifierID, v.Comment)
	if err != nil {
		return nil, err
	}
	s.record(ctx, v.VerifierID, "attendance.verify", updated.ID, map[string]any{"status": target})
	return updated, nil
}

// Get fetches one record.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	return s.repo.Get(ctx, id)
}

// List returns records matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) record(ctx context.Context, actorID, action, entityID string, meta map[string]any) {
	if s.audit == nil || actorID == "" {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "attendance",
		EntityID: entityID,
		Meta:     meta,
	})
}
