package reports

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Edinam27/lect-next/internal/shared"
)

// RepositoryPort defines the queries behind report generation.
type RepositoryPort interface {
	FetchRecords(ctx context.Context, from, to time.Time, lecturerID string) ([]RecordRow, error)
	LecturerName(ctx context.Context, lecturerID string) (first, last string, err error)
}

// Repository provides PostgreSQL backed report queries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FetchRecords returns attendance rows joined with course, lecturer and
// class group inside the window, optionally filtered by lecturer.
func (r *Repository) FetchRecords(ctx context.Context, from, to time.Time, lecturerID string) ([]RecordRow, error) {
	query := `SELECT ar.id, ar.taken_at, ar.status,
	                 c.code, c.title,
	                 u.id, u.first_name, u.last_name,
	                 cg.name
	            FROM attendance_records ar
	            JOIN course_schedules cs ON cs.id = ar.schedule_id
	            JOIN courses c ON c.id = cs.course_id
	            JOIN class_groups cg ON cg.id = cs.class_group_id
	            JOIN users u ON u.id = ar.lecturer_user_id
	           WHERE ar.taken_at >= $1 AND ar.taken_at < $2`
	args := []any{from, to}
	if lecturerID != "" {
		query += ` AND ar.lecturer_user_id = $3`
		args = append(args, lecturerID)
	}
	query += ` ORDER BY ar.taken_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RecordRow
	for rows.Next() {
		var rec RecordRow
		if err := rows.Scan(&rec.RecordID, &rec.TakenAt, &rec.Status,
			&rec.CourseCode, &rec.CourseTitle,
			&rec.LecturerID, &rec.LecturerFirst, &rec.LecturerLast,
			&rec.ClassGroup); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LecturerName resolves a lecturer's name for filename derivation.
func (r *Repository) LecturerName(ctx context.Context, lecturerID string) (string, string, error) {
	var first, last string
	err := r.pool.QueryRow(ctx,
		`SELECT first_name, last_name FROM users WHERE id = $1`, lecturerID).Scan(&first, &last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", shared.ErrNotFound
		}
		return "", "", err
	}
	return first, last, nil
}
