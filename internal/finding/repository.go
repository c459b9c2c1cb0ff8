package finding

import (
	"context"
	"time"

	"workorders/pkg/db"
)

type Finding struct {
	ID          int64     `json:"id"`
	WorkOrderID int64     `json:"workOrderId"`
	Description string    `json:"description"`
	ReportedBy  int64     `json:"reportedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Repository struct {
	db db.Pool
}

func NewRepository(pool db.Pool) *Repository {
	return &Repository{db: pool}
}

func (r *Repository) Insert(ctx context.Context, workOrderID int64, description string, reportedBy int64) (*Finding, error) {
	const q = `
INSERT INTO findings (work_order_id, description, reported_by)
VALUES ($1, $2, $3)
RETURNING id, work_order_id, description, reported_by, created_at
`
	var f Finding
	if err := r.db.QueryRow(ctx, q, workOrderID, description, reportedBy).Scan(
		&f.ID, &f.WorkOrderID, &f.Description, &f.ReportedBy, &f.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *Repository) ListByWorkOrder(ctx context.Context, workOrderID int64) ([]Finding, error) {
	const q = `
SELECT id, work_order_id, description, reported_by, created_at
FROM findings
WHERE work_order_id = $1
ORDER BY created_at ASC
`
	rows, err := r.db.Query(ctx, q, workOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Finding
	for rows.Next() {
		var f Finding
		if err := rows.Scan(&f.ID, &f.WorkOrderID, &f.Description, &f.ReportedBy, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, workOrderID, id int64) (bool, error) {
	const q = `DELETE FROM findings WHERE id = $1 AND work_order_id = $2`
	tag, err := r.db.Exec(ctx, q, id, workOrderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
