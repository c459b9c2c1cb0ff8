package action

import (
	"context"
	"time"

	"workorders/pkg/db"
)

type Action struct {
	ID              int64      `json:"id"`
	WorkOrderID     int64      `json:"workOrderId"`
	Description     string     `json:"description"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
	DurationMinutes int        `json:"durationMinutes"`
	Completed       bool       `json:"completed"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type Repository struct {
	db db.Pool
}

func NewRepository(pool db.Pool) *Repository {
	return &Repository{db: pool}
}

type CreateInput struct {
	WorkOrderID     int64
	Description     string
	StartedAt       *time.Time
	EndedAt         *time.Time
	DurationMinutes int
	Completed       bool
}

func (r *Repository) Insert(ctx context.Context, in CreateInput) (*Action, error) {
	const q = `
INSERT INTO actions (work_order_id, description, started_at, ended_at, duration_minutes, completed)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, work_order_id, description, started_at, ended_at, duration_minutes, completed, created_at
`
	var a Action
	if err := r.db.QueryRow(ctx, q,
		in.WorkOrderID, in.Description, in.StartedAt, in.EndedAt, in.DurationMinutes, in.Completed,
	).Scan(
		&a.ID, &a.WorkOrderID, &a.Description, &a.StartedAt, &a.EndedAt, &a.DurationMinutes, &a.Completed, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) ListByWorkOrder(ctx context.Context, workOrderID int64) ([]Action, error) {
	const q = `
SELECT id, work_order_id, description, started_at, ended_at, duration_minutes, completed, created_at
FROM actions
WHERE work_order_id = $1
ORDER BY created_at ASC
`
	rows, err := r.db.Query(ctx, q, workOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Action
	for rows.Next() {
		var a Action
		if err := rows.Scan(&a.ID, &a.WorkOrderID, &a.Description, &a.StartedAt, &a.EndedAt, &a.DurationMinutes, &a.Completed, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, workOrderID, id int64) (bool, error) {
	const q = `DELETE FROM actions WHERE id = $1 AND work_order_id = $2`
	tag, err := r.db.Exec(ctx, q, id, workOrderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeriveDuration fills in duration from the start/end pair when the caller
// did not supply an explicit value.
func DeriveDuration(startedAt, endedAt *time.Time, explicit int) int {
	if explicit > 0 {
		return explicit
	}
	if startedAt == nil || endedAt == nil || endedAt.Before(*startedAt) {
		return 0
	}
	return int(endedAt.Sub(*startedAt) / time.Minute)
}
