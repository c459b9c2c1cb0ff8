package workorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"workorders/internal/apperr"
	"workorders/pkg/db"
)

const selectColumns = `
id, work_order_no, work_order_date, equipment, usage_hours, description, work_type,
requested_by, allocated_at, work_completed_date, status,
approved_by, approved_at, rejection_reason,
completion_requested_by, completion_requested_at,
completion_approved_by, completion_approved_at, completion_rejection_reason,
reference_document, created_at, updated_at`

type Repository struct {
	db db.Pool
}

func NewRepository(pool db.Pool) *Repository {
	return &Repository{db: pool}
}

type row interface {
	Scan(dest ...any) error
}

func scanWorkOrder(r row) (*WorkOrder, error) {
	var wo WorkOrder
	err := r.Scan(
		&wo.ID, &wo.WorkOrderNo, &wo.WorkOrderDate, &wo.Equipment, &wo.UsageHours, &wo.Description, &wo.WorkType,
		&wo.RequestedBy, &wo.AllocatedAt, &wo.WorkCompletedDate, &wo.Status,
		&wo.ApprovedBy, &wo.ApprovedAt, &wo.RejectionReason,
		&wo.CompletionRequestedBy, &wo.CompletionRequestedAt,
		&wo.CompletionApprovedBy, &wo.CompletionApprovedAt, &wo.CompletionRejectionReason,
		&wo.ReferenceDocument, &wo.CreatedAt, &wo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: work order", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &wo, nil
}

type CreateInput struct {
	WorkOrderNo   string
	WorkOrderDate time.Time
	Equipment     string
	UsageHours    *float64
	Description   string
	WorkType      string
	RequestedBy   int64
}

func (r *Repository) Create(ctx context.Context, in CreateInput) (*WorkOrder, error) {
	const q = `
INSERT INTO work_orders (work_order_no, work_order_date, equipment, usage_hours, description, work_type, requested_by)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + selectColumns
	wo, err := scanWorkOrder(r.db.QueryRow(ctx, q,
		in.WorkOrderNo, in.WorkOrderDate, in.Equipment, in.UsageHours, in.Description, in.WorkType, in.RequestedBy,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: work order number already exists", apperr.ErrValidation)
		}
		return nil, err
	}
	return wo, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*WorkOrder, error) {
	const q = `SELECT ` + selectColumns + ` FROM work_orders WHERE id = $1`
	return scanWorkOrder(r.db.QueryRow(ctx, q, id))
}

func getByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*WorkOrder, error) {
	const q = `SELECT ` + selectColumns + ` FROM work_orders WHERE id = $1`
	return scanWorkOrder(tx.QueryRow(ctx, q, id))
}

type UpdateInput struct {
	WorkOrderDate *time.Time
	Equipment     *string
	UsageHours    *float64
	Description   *string
	WorkType      *string
}

// UpdateHeader edits the descriptive fields of a pending work order. The
// status predicate keeps it from racing a concurrent approval.
func (r *Repository) UpdateHeader(ctx context.Context, id int64, in UpdateInput) (*WorkOrder, error) {
	const q = `
UPDATE work_orders
SET work_order_date = COALESCE($2, work_order_date),
    equipment       = COALESCE($3, equipment),
    usage_hours     = COALESCE($4, usage_hours),
    description     = COALESCE($5, description),
    work_type       = COALESCE($6, work_type),
    updated_at      = NOW()
WHERE id = $1 AND status = $7
RETURNING ` + selectColumns
	wo, err := scanWorkOrder(r.db.QueryRow(ctx, q,
		id, in.WorkOrderDate, in.Equipment, in.UsageHours, in.Description, in.WorkType, string(StatusPending),
	))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// Distinguish a missing row from a row no longer pending.
			if _, gerr := r.GetByID(ctx, id); gerr == nil {
				return nil, fmt.Errorf("%w: only pending work orders can be edited", apperr.ErrInvalidTransition)
			}
		}
		return nil, err
	}
	return wo, nil
}

type Filter struct {
	Status   string
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	Sort     string // "asc" or "desc" on work_order_date; desc default
	Page     int
	PerPage  int
}

type Page struct {
	Items   []WorkOrder `json:"items"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"perPage"`
}

// List assembles the WHERE clause from whichever filters are present.
func (r *Repository) List(ctx context.Context, f Filter) (*Page, error) {
	var conds []string
	var args []any

	if f.Status != "" {
		st, err := ParseStatus(f.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
		}
		args = append(args, string(st))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(work_order_no ILIKE $%d OR equipment ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		conds = append(conds, fmt.Sprintf("work_order_date >= $%d", len(args)))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		conds = append(conds, fmt.Sprintf("work_order_date <= $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM work_orders "+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	order := "DESC"
	if strings.EqualFold(f.Sort, "asc") {
		order = "ASC"
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	perPage := f.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	args = append(args, perPage, (page-1)*perPage)

	q := fmt.Sprintf(
		"SELECT %s FROM work_orders %s ORDER BY work_order_date %s, id %s LIMIT $%d OFFSET $%d",
		selectColumns, where, order, order, len(args)-1, len(args),
	)
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []WorkOrder{}
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *wo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Page{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

// StatusCounts feeds the dashboard summary tiles.
func (r *Repository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	const q = `SELECT status, COUNT(*) FROM work_orders GROUP BY status`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int64{
		string(StatusPending):             0,
		string(StatusOngoing):             0,
		string(StatusCompletionRequested): 0,
		string(StatusCompleted):           0,
		string(StatusRejected):            0,
	}
	for rows.Next() {
		var st string
		var n int64
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		out[st] = n
	}
	return out, rows.Err()
}
