package workorder

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"

	"workorders/internal/apperr"
	"workorders/internal/user"
)

var woColumns = []string{
	"id", "work_order_no", "work_order_date", "equipment", "usage_hours", "description", "work_type",
	"requested_by", "allocated_at", "work_completed_date", "status",
	"approved_by", "approved_at", "rejection_reason",
	"completion_requested_by", "completion_requested_at",
	"completion_approved_by", "completion_approved_at", "completion_rejection_reason",
	"reference_document", "created_at", "updated_at",
}

func woRows(wo WorkOrder) *pgxmock.Rows {
	return pgxmock.NewRows(woColumns).AddRow(
		wo.ID, wo.WorkOrderNo, wo.WorkOrderDate, wo.Equipment, wo.UsageHours, wo.Description, wo.WorkType,
		wo.RequestedBy, wo.AllocatedAt, wo.WorkCompletedDate, wo.Status,
		wo.ApprovedBy, wo.ApprovedAt, wo.RejectionReason,
		wo.CompletionRequestedBy, wo.CompletionRequestedAt,
		wo.CompletionApprovedBy, wo.CompletionApprovedAt, wo.CompletionRejectionReason,
		wo.ReferenceDocument, wo.CreatedAt, wo.UpdatedAt,
	)
}

func sampleOrder(status Status) WorkOrder {
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	return WorkOrder{
		ID:            5,
		WorkOrderNo:   "WO-2024-0005",
		WorkOrderDate: now,
		Equipment:     "GSE-TUG-12",
		Description:   "hydraulic leak",
		WorkType:      "Mechanical",
		RequestedBy:   10,
		AllocatedAt:   now,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func newMockManager(t *testing.T) (*Manager, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	return NewManager(mock), mock
}

func TestManagerApply_ApproveHappyPath(t *testing.T) {
	m, mock := newMockManager(t)
	defer mock.Close()

	admin := &user.User{ID: 20, Name: "Adm", Role: user.RoleAdmin}
	pending := sampleOrder(StatusPending)

	approvedBy := admin.ID
	approvedAt := time.Now()
	ongoing := pending
	ongoing.Status = StatusOngoing
	ongoing.ApprovedBy = &approvedBy
	ongoing.ApprovedAt = &approvedAt

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.|\n)* FROM work_orders WHERE id").
		WithArgs(pending.ID).
		WillReturnRows(woRows(pending))
	mock.ExpectExec("UPDATE work_orders").
		WithArgs(pending.ID, string(StatusPending), string(StatusOngoing), admin.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(pending.RequestedBy, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT(.|\n)* FROM work_orders WHERE id").
		WithArgs(pending.ID).
		WillReturnRows(woRows(ongoing))
	mock.ExpectCommit()

	got, err := m.Apply(context.Background(), pending.ID, EventApprove, admin, TransitionInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusOngoing {
		t.Fatalf("expected ongoing, got %s", got.Status)
	}
	if got.ApprovedBy == nil || *got.ApprovedBy != admin.ID {
		t.Fatalf("expected approver %d, got %v", admin.ID, got.ApprovedBy)
	}
	if got.WorkOrderNo != pending.WorkOrderNo {
		t.Fatalf("work order number changed: %s", got.WorkOrderNo)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestManagerApply_LostRaceReportsInvalidTransition(t *testing.T) {
	m, mock := newMockManager(t)
	defer mock.Close()

	superadmin := &user.User{ID: 30, Role: user.RoleSuperadmin}
	requested := sampleOrder(StatusCompletionRequested)

	// A concurrent approve-completion won between our read and our write:
	// the conditional update matches zero rows.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.|\n)* FROM work_orders WHERE id").
		WithArgs(requested.ID).
		WillReturnRows(woRows(requested))
	mock.ExpectExec("UPDATE work_orders").
		WithArgs(requested.ID, string(StatusCompletionRequested), string(StatusCompleted), superadmin.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	_, err := m.Apply(context.Background(), requested.ID, EventApproveCompletion, superadmin, TransitionInput{})
	if !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestManagerApply_RejectCompletionWithoutReasonChangesNothing(t *testing.T) {
	m, mock := newMockManager(t)
	defer mock.Close()

	superadmin := &user.User{ID: 30, Role: user.RoleSuperadmin}
	requested := sampleOrder(StatusCompletionRequested)

	// Validation fails before any UPDATE is attempted.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.|\n)* FROM work_orders WHERE id").
		WithArgs(requested.ID).
		WillReturnRows(woRows(requested))
	mock.ExpectRollback()

	_, err := m.Apply(context.Background(), requested.ID, EventRejectCompletion, superadmin, TransitionInput{Reason: "   "})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestManagerApply_NotFound(t *testing.T) {
	m, mock := newMockManager(t)
	defer mock.Close()

	admin := &user.User{ID: 20, Role: user.RoleAdmin}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.|\n)* FROM work_orders WHERE id").
		WithArgs(int64(999)).
		WillReturnRows(pgxmock.NewRows(woColumns))
	mock.ExpectRollback()

	_, err := m.Apply(context.Background(), 999, EventApprove, admin, TransitionInput{})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestManagerApply_RoundTripToCompleted(t *testing.T) {
	m, mock := newMockManager(t)
	defer mock.Close()

	requester := &user.User{ID: 10, Role: user.RoleUser}
	admin := &user.User{ID: 20, Role: user.RoleAdmin}
	superadmin := &user.User{ID: 30, Role: user.RoleSuperadmin}

	pending := sampleOrder(StatusPending)

	adminID := admin.ID
	now := time.Now()
	ongoing := pending
	ongoing.Status = StatusOngoing
	ongoing.ApprovedBy = &adminID
	ongoing.ApprovedAt = &now

	reqID := requester.ID
	requested := ongoing
	requested.Status = StatusCompletionRequested
	requested.CompletionRequestedBy = &reqID
	requested.CompletionRequestedAt = &now

	supID := superadmin.ID
	completed := requested
	completed.Status = StatusCompleted
	completed.CompletionApprovedBy = &supID
	completed.CompletionApprovedAt = &now

	// approve
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.|\n)* FROM work_orders WHERE id").WithArgs(pending.ID).WillReturnRows(woRows(pending))
	mock.ExpectExec("UPDATE work_orders").
		WithArgs(pending.ID, string(StatusPending), string(StatusOngoing), admin.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(pending.RequestedBy, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT(.|\n)* FROM work_orders WHERE id").WithArgs(pending.ID).WillReturnRows(woRows(ongoing))
	mock.ExpectCommit()

	// request-completion
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.|\n)* FROM work_orders WHERE id").WithArgs(pending.ID).WillReturnRows(woRows(ongoing))
	mock.ExpectExec("UPDATE work_orders").
		WithArgs(pending.ID, string(StatusOngoing), string(StatusCompletionRequested), requester.ID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("SELECT(.|\n)* FROM work_orders WHERE id").WithArgs(pending.ID).WillReturnRows(woRows(requested))
	mock.ExpectCommit()

	// approve-completion
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.|\n)* FROM work_orders WHERE id").WithArgs(pending.ID).WillReturnRows(woRows(requested))
	mock.ExpectExec("UPDATE work_orders").
		WithArgs(pending.ID, string(StatusCompletionRequested), string(StatusCompleted), superadmin.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(pending.RequestedBy, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT(.|\n)* FROM work_orders WHERE id").WithArgs(pending.ID).WillReturnRows(woRows(completed))
	mock.ExpectCommit()

	if _, err := m.Apply(context.Background(), pending.ID, EventApprove, admin, TransitionInput{}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := m.Apply(context.Background(), pending.ID, EventRequestCompletion, requester, TransitionInput{}); err != nil {
		t.Fatalf("request-completion: %v", err)
	}
	got, err := m.Apply(context.Background(), pending.ID, EventApproveCompletion, superadmin, TransitionInput{})
	if err != nil {
		t.Fatalf("approve-completion: %v", err)
	}

	if got.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
	if got.CompletionApprovedBy == nil || got.CompletionApprovedAt == nil {
		t.Fatalf("expected completion approval fields set")
	}
	if got.WorkOrderNo != pending.WorkOrderNo {
		t.Fatalf("work order number changed: %s", got.WorkOrderNo)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
