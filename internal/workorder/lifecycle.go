package workorder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"workorders/internal/apperr"
	"workorders/internal/notification"
	"workorders/internal/user"
	"workorders/pkg/db"
)

// Manager applies lifecycle transitions. Each Apply runs in one transaction:
// the guarded status update and the notifications it causes commit together.
type Manager struct {
	DB db.Pool
}

func NewManager(pool db.Pool) *Manager {
	return &Manager{DB: pool}
}

type TransitionInput struct {
	Reason            string
	WorkCompletedDate *time.Time
}

// Apply validates and persists one transition on the work order with the
// given id. Concurrent transitions on the same order are serialized by the
// status predicate on the UPDATE: the loser matches zero rows and reports
// ErrInvalidTransition instead of overwriting the winner.
func (m *Manager) Apply(ctx context.Context, id int64, ev Event, caller *user.User, in TransitionInput) (*WorkOrder, error) {
	in.Reason = strings.TrimSpace(in.Reason)

	var out *WorkOrder
	err := db.WithTx(ctx, m.DB, func(tx pgx.Tx) error {
		wo, err := getByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if _, err := CheckTransition(ev, wo.Status, caller, wo.RequestedBy, in.Reason); err != nil {
			return err
		}

		tag, err := execTransition(ctx, tx, wo, ev, caller, in)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: work order %s was changed by a concurrent request", apperr.ErrInvalidTransition, wo.WorkOrderNo)
		}

		if err := notifyRequester(ctx, tx, wo, ev, in.Reason); err != nil {
			return err
		}

		out, err = getByIDTx(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// execTransition issues the per-event UPDATE. Every statement carries the
// `id AND status` predicate so a lost race shows up as zero affected rows.
func execTransition(ctx context.Context, tx pgx.Tx, wo *WorkOrder, ev Event, caller *user.User, in TransitionInput) (pgconn.CommandTag, error) {
	cur := string(wo.Status)

	switch ev {
	case EventApprove:
		const q = `
UPDATE work_orders
SET status = $3,
    approved_by = $4,
    approved_at = NOW(),
    rejection_reason = NULL,
    updated_at = NOW()
WHERE id = $1 AND status = $2
`
		return tx.Exec(ctx, q, wo.ID, cur, string(StatusOngoing), caller.ID)

	case EventReject:
		const q = `
UPDATE work_orders
SET status = $3,
    rejection_reason = $4,
    updated_at = NOW()
WHERE id = $1 AND status = $2
`
		return tx.Exec(ctx, q, wo.ID, cur, string(StatusRejected), in.Reason)

	case EventResubmit:
		const q = `
UPDATE work_orders
SET status = $3,
    rejection_reason = NULL,
    approved_by = NULL,
    approved_at = NULL,
    updated_at = NOW()
WHERE id = $1 AND status = $2
`
		return tx.Exec(ctx, q, wo.ID, cur, string(StatusPending))

	case EventRequestCompletion:
		const q = `
UPDATE work_orders
SET status = $3,
    completion_requested_by = $4,
    completion_requested_at = NOW(),
    work_completed_date = COALESCE($5, work_completed_date),
    updated_at = NOW()
WHERE id = $1 AND status = $2
`
		return tx.Exec(ctx, q, wo.ID, cur, string(StatusCompletionRequested), caller.ID, in.WorkCompletedDate)

	case EventApproveCompletion:
		const q = `
UPDATE work_orders
SET status = $3,
    completion_approved_by = $4,
    completion_approved_at = NOW(),
    completion_rejection_reason = NULL,
    updated_at = NOW()
WHERE id = $1 AND status = $2
`
		return tx.Exec(ctx, q, wo.ID, cur, string(StatusCompleted), caller.ID)

	case EventRejectCompletion:
		const q = `
UPDATE work_orders
SET status = $3,
    completion_rejection_reason = $4,
    updated_at = NOW()
WHERE id = $1 AND status = $2
`
		return tx.Exec(ctx, q, wo.ID, cur, string(StatusOngoing), in.Reason)

	default:
		return pgconn.CommandTag{}, fmt.Errorf("%w: unknown event %q", apperr.ErrValidation, ev)
	}
}

func notifyRequester(ctx context.Context, tx pgx.Tx, wo *WorkOrder, ev Event, reason string) error {
	var title, message string
	switch ev {
	case EventApprove:
		title = "Work order approved"
		message = fmt.Sprintf("Work order %s has been approved and is now ongoing.", wo.WorkOrderNo)
	case EventReject:
		title = "Work order rejected"
		message = fmt.Sprintf("Work order %s was rejected: %s", wo.WorkOrderNo, reason)
	case EventApproveCompletion:
		title = "Completion approved"
		message = fmt.Sprintf("Work order %s has been marked completed.", wo.WorkOrderNo)
	case EventRejectCompletion:
		title = "Completion rejected"
		message = fmt.Sprintf("Completion of work order %s was rejected: %s", wo.WorkOrderNo, reason)
	default:
		return nil
	}
	woID := wo.ID
	return notification.Insert(ctx, tx, wo.RequestedBy, &woID, title, message)
}
