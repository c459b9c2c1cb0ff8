package sparepart

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"workorders/pkg/db"
)

type SparePart struct {
	ID          int64           `json:"id"`
	WorkOrderID int64           `json:"workOrderId"`
	PartNo      string          `json:"partNo"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Repository struct {
	db db.Pool
}

func NewRepository(pool db.Pool) *Repository {
	return &Repository{db: pool}
}

func (r *Repository) Insert(ctx context.Context, workOrderID int64, partNo, description string, quantity int, unitCost decimal.Decimal) (*SparePart, error) {
	const q = `
INSERT INTO spare_parts (work_order_id, part_no, description, quantity, unit_cost)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, work_order_id, part_no, description, quantity, unit_cost::text, created_at
`
	var p SparePart
	var cost string
	if err := r.db.QueryRow(ctx, q, workOrderID, partNo, description, quantity, unitCost.String()).Scan(
		&p.ID, &p.WorkOrderID, &p.PartNo, &p.Description, &p.Quantity, &cost, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	p.UnitCost, _ = decimal.NewFromString(cost)
	return &p, nil
}

func (r *Repository) ListByWorkOrder(ctx context.Context, workOrderID int64) ([]SparePart, error) {
	const q = `
SELECT id, work_order_id, part_no, description, quantity, unit_cost::text, created_at
FROM spare_parts
WHERE work_order_id = $1
ORDER BY created_at ASC
`
	rows, err := r.db.Query(ctx, q, workOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SparePart
	for rows.Next() {
		var p SparePart
		var cost string
		if err := rows.Scan(&p.ID, &p.WorkOrderID, &p.PartNo, &p.Description, &p.Quantity, &cost, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.UnitCost, _ = decimal.NewFromString(cost)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, workOrderID, id int64) (bool, error) {
	const q = `DELETE FROM spare_parts WHERE id = $1 AND work_order_id = $2`
	tag, err := r.db.Exec(ctx, q, id, workOrderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// TotalCost sums quantity times unit cost across parts.
func TotalCost(parts []SparePart) decimal.Decimal {
	total := decimal.Zero
	for _, p := range parts {
		total = total.Add(p.UnitCost.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return total
}
