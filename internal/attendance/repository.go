package attendance

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Edinam27/lect-next/internal/platform/httpx"
	"github.com/Edinam27/lect-next/internal/shared"
)

// RepositoryPort defines persistence operations for attendance records.
type RepositoryPort interface {
	Insert(ctx context.Context, in CheckIn) (*Record, error)
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, filter ListFilter) ([]Record, error)
	SetStatus(ctx context.Context, recordID, status, verifierID, comment string) (*Record, error)
	ScheduleLecturer(ctx context.Context, scheduleID string) (string, error)
	ScheduleClassGroup(ctx context.Context, scheduleID string) (string, error)
	ClassRepForSchedule(ctx context.Context, scheduleID string) (string, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const recordColumns = `id, schedule_id, lecturer_user_id, taken_at, method, latitude, longitude,
	status, verified_by, verified_at, verify_comment,
	session_started_at, session_ended_at, device_fingerprint, created_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.ScheduleID, &rec.LecturerUserID, &rec.TakenAt, &rec.Method,
		&rec.Latitude, &rec.Longitude, &rec.Status, &rec.VerifiedBy, &rec.VerifiedAt,
		&rec.VerifyComment, &rec.SessionStartedAt, &rec.SessionEndedAt, &rec.DeviceFingerprint, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Insert stores a new check-in. The unique index on (schedule, day) turns a
// double check-in into a duplicate error.
func (r *Repository) Insert(ctx context.Context, in CheckIn) (*Record, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx,
		`INSERT INTO attendance_records
		     (schedule_id, lecturer_user_id, method, latitude, longitude, session_started_at, device_fingerprint)
		 VALUES ($1, $2, $3, $4, $5, NOW(), $6)
		 RETURNING `+recordColumns,
		in.ScheduleID, in.LecturerUserID, in.Method, in.Latitude, in.Longitude, in.DeviceFingerprint))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, httpx.ErrDuplicate
			case "23503":
				return nil, shared.ErrNotFound
			}
		}
		return nil, err
	}
	return rec, nil
}

// Get fetches one record.
func (r *Repository) Get(ctx context.Context, id string) (*Record, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM attendance_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// List returns records matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM attendance_records WHERE 1=1`
	args := []any{}
	if filter.LecturerUserID != "" {
		args = append(args, filter.LecturerUserID)
		query += ` AND lecturer_user_id = $` + strconv.Itoa(len(args))
	}
	if len(filter.ClassGroupIDs) > 0 {
		args = append(args, filter.ClassGroupIDs)
		query += ` AND schedule_id IN (SELECT id FROM course_schedules WHERE class_group_id = ANY($` + strconv.Itoa(len(args)) + `))`
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += ` AND taken_at >= $` + strconv.Itoa(len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += ` AND taken_at < $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY taken_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// SetStatus applies a verification outcome.
func (r *Repository) SetStatus(ctx context.Context, recordID, status, verifierID, comment string) (*Record, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx,
		`UPDATE attendance_records
		    SET status = $2, verified_by = $3, verified_at = NOW(), verify_comment = NULLIF($4, '')
		  WHERE id = $1
		 RETURNING `+recordColumns,
		recordID, status, verifierID, comment))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// ScheduleLecturer returns the lecturer assigned to a schedule.
func (r *Repository) ScheduleLecturer(ctx context.Context, scheduleID string) (string, error) {
	var lecturerID string
	err := r.pool.QueryRow(ctx,
		`SELECT lecturer_user_id FROM course_schedules WHERE id = $1`, scheduleID).Scan(&lecturerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return lecturerID, nil
}

// ScheduleClassGroup returns the class group of a schedule.
func (r *Repository) ScheduleClassGroup(ctx context.Context, scheduleID string) (string, error) {
	var groupID string
	err := r.pool.QueryRow(ctx,
		`SELECT class_group_id FROM course_schedules WHERE id = $1`, scheduleID).Scan(&groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return groupID, nil
}

// ClassRepForSchedule returns the representative of the schedule's group, or
// ErrNotFound when the group has none assigned.
func (r *Repository) ClassRepForSchedule(ctx context.Context, scheduleID string) (string, error) {
	var repID *string
	err := r.pool.QueryRow(ctx,
		`SELECT cg.class_rep_user_id
		   FROM course_schedules cs
		   JOIN class_groups cg ON cg.id = cs.class_group_id
		  WHERE cs.id = $1`, scheduleID).Scan(&repID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	if repID == nil || *repID == "" {
		return "", shared.ErrNotFound
	}
	return *repID, nil
}
