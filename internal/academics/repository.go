package academics

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Edinam27/lect-next/internal/platform/db"
	"github.com/Edinam27/lect-next/internal/platform/httpx"
	"github.com/Edinam27/lect-next/internal/shared"
)

// RepositoryPort defines persistence operations for academic entities.
type RepositoryPort interface {
	ListProgrammes(ctx context.Context) ([]Programme, error)
	CreateProgramme(ctx context.Context, name, code string) (*Programme, error)

	ListCourses(ctx context.Context, programmeID string) ([]Course, error)
	CreateCourse(ctx context.Context, c Course) (*Course, error)

	ListClassGroups(ctx context.Context) ([]ClassGroup, error)
	CreateClassGroup(ctx context.Context, g ClassGroup) (*ClassGroup, error)
	AssignClassRep(ctx context.Context, groupID, userID string) error

	ListSchedules(ctx context.Context, lecturerID string) ([]CourseSchedule, error)
	GetSchedule(ctx context.Context, id string) (*CourseSchedule, error)
	CreateSchedule(ctx context.Context, s CourseSchedule) (*CourseSchedule, error)
	UpdateSchedule(ctx context.Context, s CourseSchedule) (*CourseSchedule, error)
	DeleteSchedule(ctx context.Context, id string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return err
}

// ListProgrammes returns all programmes ordered by code.
func (r *Repository) ListProgrammes(ctx context.Context) ([]Programme, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, code, created_at, updated_at FROM programmes ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Programme
	for rows.Next() {
		var p Programme
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateProgramme inserts a programme.
func (r *Repository) CreateProgramme(ctx context.Context, name, code string) (*Programme, error) {
	var p Programme
	err := r.pool.QueryRow(ctx,
		`INSERT INTO programmes (name, code) VALUES ($1, $2)
		 RETURNING id, name, code, created_at, updated_at`, name, code,
	).Scan(&p.ID, &p.Name, &p.Code, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return &p, nil
}

// ListCourses returns courses, optionally filtered by programme.
func (r *Repository) ListCourses(ctx context.Context, programmeID string) ([]Course, error) {
	query := `SELECT id, programme_id, code, title, credits, created_at, updated_at FROM courses`
	args := []any{}
	if programmeID != "" {
		query += ` WHERE programme_id = $1`
		args = append(args, programmeID)
	}
	query += ` ORDER BY code`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.ProgrammeID, &c.Code, &c.Title, &c.Credits, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateCourse inserts a course.
func (r *Repository) CreateCourse(ctx context.Context, c Course) (*Course, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO courses (programme_id, code, title, credits) VALUES ($1, $2, $3, $4)
		 RETURNING id, programme_id, code, title, credits, created_at, updated_at`,
		c.ProgrammeID, c.Code, c.Title, c.Credits,
	).Scan(&c.ID, &c.ProgrammeID, &c.Code, &c.Title, &c.Credits, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return &c, nil
}

// ListClassGroups returns all class groups.
func (r *Repository) ListClassGroups(ctx context.Context) ([]ClassGroup, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, programme_id, name, intake_year, class_rep_user_id, created_at, updated_at
		   FROM class_groups ORDER BY intake_year DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ClassGroup
	for rows.Next() {
		var g ClassGroup
		if err := rows.Scan(&g.ID, &g.ProgrammeID, &g.Name, &g.IntakeYear, &g.ClassRepUserID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// CreateClassGroup inserts a class group.
func (r *Repository) CreateClassGroup(ctx context.Context, g ClassGroup) (*ClassGroup, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO class_groups (programme_id, name, intake_year, class_rep_user_id) VALUES ($1, $2, $3, $4)
		 RETURNING id, programme_id, name, intake_year, class_rep_user_id, created_at, updated_at`,
		g.ProgrammeID, g.Name, g.IntakeYear, g.ClassRepUserID,
	).Scan(&g.ID, &g.ProgrammeID, &g.Name, &g.IntakeYear, &g.ClassRepUserID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return &g, nil
}

// AssignClassRep sets the class representative for a group.
func (r *Repository) AssignClassRep(ctx context.Context, groupID, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE class_groups SET class_rep_user_id = $2, updated_at = NOW() WHERE id = $1`, groupID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

const scheduleColumns = `id, course_id, class_group_id, lecturer_user_id, weekday, starts_at::text, ends_at::text, room, created_at, updated_at`

func scanSchedule(row pgx.Row) (*CourseSchedule, error) {
	var s CourseSchedule
	if err := row.Scan(&s.ID, &s.CourseID, &s.ClassGroupID, &s.LecturerUserID, &s.Weekday, &s.StartsAt, &s.EndsAt, &s.Room, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSchedules returns schedules, optionally filtered by lecturer.
func (r *Repository) ListSchedules(ctx context.Context, lecturerID string) ([]CourseSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM course_schedules`
	args := []any{}
	if lecturerID != "" {
		query += ` WHERE lecturer_user_id = $1`
		args = append(args, lecturerID)
	}
	query += ` ORDER BY weekday, starts_at`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CourseSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// GetSchedule fetches one schedule.
func (r *Repository) GetSchedule(ctx context.Context, id string) (*CourseSchedule, error) {
	s, err := scanSchedule(r.pool.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM course_schedules WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// CreateSchedule inserts a schedule.
func (r *Repository) CreateSchedule(ctx context.Context, s CourseSchedule) (*CourseSchedule, error) {
	created, err := scanSchedule(r.pool.QueryRow(ctx,
		`INSERT INTO course_schedules (course_id, class_group_id, lecturer_user_id, weekday, starts_at, ends_at, room)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+scheduleColumns,
		s.CourseID, s.ClassGroupID, s.LecturerUserID, s.Weekday, s.StartsAt, s.EndsAt, s.Room))
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return created, nil
}

// UpdateSchedule updates an existing schedule.
func (r *Repository) UpdateSchedule(ctx context.Context, s CourseSchedule) (*CourseSchedule, error) {
	updated, err := scanSchedule(r.pool.QueryRow(ctx,
		`UPDATE course_schedules
		    SET course_id = $2, class_group_id = $3, lecturer_user_id = $4,
		        weekday = $5, starts_at = $6, ends_at = $7, room = $8, updated_at = NOW()
		  WHERE id = $1
		 RETURNING `+scheduleColumns,
		s.ID, s.CourseID, s.ClassGroupID, s.LecturerUserID, s.Weekday, s.StartsAt, s.EndsAt, s.Room))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, mapWriteErr(err)
	}
	return updated, nil
}

// DeleteSchedule removes a schedule and its attendance history in one
// transaction so the foreign key never blocks the delete.
func (r *Repository) DeleteSchedule(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM attendance_records WHERE schedule_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM course_schedules WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
