package authz

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates a missing row during an authorization lookup.
var ErrNotFound = errors.New("authz: not found")

// PGStore implements Store with point reads against PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a PGStore.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// ScheduleLecturer returns the lecturer assigned to a course schedule.
func (s *PGStore) ScheduleLecturer(ctx context.Context, scheduleID string) (string, error) {
	var lecturerID string
	err := s.pool.QueryRow(ctx,
		`SELECT lecturer_user_id FROM course_schedules WHERE id = $1`, scheduleID,
	).Scan(&lecturerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return lecturerID, nil
}

// ScheduleClassGroup returns the class group a schedule belongs to.
func (s *PGStore) ScheduleClassGroup(ctx context.Context, scheduleID string) (string, error) {
	var groupID string
	err := s.pool.QueryRow(ctx,
		`SELECT class_group_id FROM course_schedules WHERE id = $1`, scheduleID,
	).Scan(&groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return groupID, nil
}

// AttendanceSchedule resolves the lecturer and class group one hop through
// an attendance record's schedule.
func (s *PGStore) AttendanceSchedule(ctx context.Context, recordID string) (string, string, error) {
	var lecturerID, groupID string
	err := s.pool.QueryRow(ctx,
		`SELECT cs.lecturer_user_id, cs.class_group_id
		   FROM attendance_records ar
		   JOIN course_schedules cs ON cs.id = ar.schedule_id
		  WHERE ar.id = $1`, recordID,
	).Scan(&lecturerID, &groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", ErrNotFound
		}
		return "", "", err
	}
	return lecturerID, groupID, nil
}

// NotificationOwner returns the user a notification addresses.
func (s *PGStore) NotificationOwner(ctx context.Context, notificationID string) (string, error) {
	var userID string
	err := s.pool.QueryRow(ctx,
		`SELECT user_id FROM notifications WHERE id = $1`, notificationID,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return userID, nil
}

// RepresentedGroups returns every class group the user represents. The data
// model tends to keep this at one group per user but nothing here relies on
// that.
func (s *PGStore) RepresentedGroups(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id FROM class_groups WHERE class_rep_user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var groups []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		groups = append(groups, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}
