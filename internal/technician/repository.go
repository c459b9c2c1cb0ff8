package technician

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"workorders/internal/apperr"
	"workorders/pkg/db"
)

type Technician struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	EmployeeNo string    `json:"employeeNo"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Assignment is one job_performed_by row linking a technician to an action.
type Assignment struct {
	ID           int64     `json:"id"`
	ActionID     int64     `json:"actionId"`
	TechnicianID int64     `json:"technicianId"`
	Technician   string    `json:"technician"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Repository struct {
	db db.Pool
}

func NewRepository(pool db.Pool) *Repository {
	return &Repository{db: pool}
}

func (r *Repository) Create(ctx context.Context, name, employeeNo string) (*Technician, error) {
	const q = `
INSERT INTO technicians (name, employee_no)
VALUES ($1, $2)
RETURNING id, name, employee_no, created_at
`
	var t Technician
	err := r.db.QueryRow(ctx, q, name, employeeNo).Scan(&t.ID, &t.Name, &t.EmployeeNo, &t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: employee number already exists", apperr.ErrValidation)
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repository) List(ctx context.Context) ([]Technician, error) {
	const q = `
SELECT id, name, employee_no, created_at
FROM technicians
ORDER BY name ASC
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Technician
	for rows.Next() {
		var t Technician
		if err := rows.Scan(&t.ID, &t.Name, &t.EmployeeNo, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) Assign(ctx context.Context, actionID, technicianID int64) (*Assignment, error) {
	const q = `
INSERT INTO job_performed_by (action_id, technician_id)
VALUES ($1, $2)
RETURNING id, action_id, technician_id, created_at
`
	var a Assignment
	err := r.db.QueryRow(ctx, q, actionID, technicianID).Scan(&a.ID, &a.ActionID, &a.TechnicianID, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, fmt.Errorf("%w: technician already assigned to this action", apperr.ErrValidation)
			case "23503":
				return nil, fmt.Errorf("%w: action or technician", apperr.ErrNotFound)
			}
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repository) Unassign(ctx context.Context, actionID, technicianID int64) (bool, error) {
	const q = `DELETE FROM job_performed_by WHERE action_id = $1 AND technician_id = $2`
	tag, err := r.db.Exec(ctx, q, actionID, technicianID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) ListByAction(ctx context.Context, actionID int64) ([]Assignment, error) {
	const q = `
SELECT j.id, j.action_id, j.technician_id, t.name, j.created_at
FROM job_performed_by j
JOIN technicians t ON t.id = j.technician_id
WHERE j.action_id = $1
ORDER BY j.created_at ASC
`
	rows, err := r.db.Query(ctx, q, actionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.ActionID, &a.TechnicianID, &a.Technician, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
