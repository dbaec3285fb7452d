// Package audit serves the audit trail written by the domain services.
package audit

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one row of the audit trail.
type Entry struct {
	ID         int64          `json:"id"`
	ActorID    string         `json:"actorId"`
	Action     string         `json:"action"`
	Entity     string         `json:"entity"`
	EntityID   string         `json:"entityId"`
	Meta       map[string]any `json:"meta"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Filters scope a timeline query.
type Filters struct {
	Entity  string
	ActorID string
	From    time.Time
	To      time.Time
	Limit   int
	Page    int
}

// Service queries audit_logs.
type Service struct {
	pool *pgxpool.Pool
}

// NewService constructs a Service.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// Timeline returns matching entries, newest first.
func (s *Service) Timeline(ctx context.Context, f Filters) ([]Entry, error) {
	clause, args := f.whereClause()
	query := `SELECT id, actor_user_id, action, entity, entity_id, meta, occurred_at FROM audit_logs` + clause
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query += ` ORDER BY occurred_at DESC LIMIT ` + strconv.Itoa(limit)
	if f.Page > 1 {
		query += ` OFFSET ` + strconv.Itoa((f.Page-1)*limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Entity, &e.EntityID, &e.Meta, &e.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// whereClause rebuilds the filter conditions for counting.
func (f Filters) whereClause() (string, []any) {
	clause := ` WHERE 1=1`
	args := []any{}
	if f.Entity != "" {
		args = append(args, f.Entity)
		clause += ` AND entity = $` + strconv.Itoa(len(args))
	}
	if f.ActorID != "" {
		args = append(args, f.ActorID)
		clause += ` AND actor_user_id = $` + strconv.Itoa(len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		clause += ` AND occurred_at >= $` + strconv.Itoa(len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		clause += ` AND occurred_at < $` + strconv.Itoa(len(args))
	}
	return clause, args
}

// Count returns the number of entries matching the filters.
func (s *Service) Count(ctx context.Context, f Filters) (int, error) {
	clause, args := f.whereClause()
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+clause, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
