package workorder

import (
	"errors"
	"testing"

	"workorders/internal/apperr"
	"workorders/internal/user"
)

var (
	requester  = &user.User{ID: 10, Name: "Req", Role: user.RoleUser}
	otherUser  = &user.User{ID: 11, Name: "Other", Role: user.RoleUser}
	admin      = &user.User{ID: 20, Name: "Adm", Role: user.RoleAdmin}
	superadmin = &user.User{ID: 30, Name: "Sup", Role: user.RoleSuperadmin}
)

func TestCheckTransition_TargetsStayInEnumeration(t *testing.T) {
	all := []Status{StatusPending, StatusOngoing, StatusCompletionRequested, StatusCompleted, StatusRejected}
	events := []Event{EventApprove, EventReject, EventResubmit, EventRequestCompletion, EventApproveCompletion, EventRejectCompletion}

	for _, ev := range events {
		for _, cur := range all {
			next, err := CheckTransition(ev, cur, superadmin, superadmin.ID, "reason")
			if err != nil {
				continue
			}
			if _, perr := ParseStatus(string(next)); perr != nil {
				t.Fatalf("event %s from %s produced status outside enumeration: %q", ev, cur, next)
			}
		}
	}
}

func TestCheckTransition_ApproveFromPending(t *testing.T) {
	next, err := CheckTransition(EventApprove, StatusPending, admin, requester.ID, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StatusOngoing {
		t.Fatalf("expected ongoing, got %s", next)
	}
}

func TestCheckTransition_ApproveBelowAdminForbidden(t *testing.T) {
	if _, err := CheckTransition(EventApprove, StatusPending, requester, requester.ID, ""); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := CheckTransition(EventReject, StatusPending, requester, requester.ID, "bad"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCheckTransition_RejectRequiresReason(t *testing.T) {
	if _, err := CheckTransition(EventReject, StatusPending, admin, requester.ID, "  "); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCheckTransition_ResubmitOnlyFromRejectedByRequester(t *testing.T) {
	next, err := CheckTransition(EventResubmit, StatusRejected, requester, requester.ID, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StatusPending {
		t.Fatalf("expected pending, got %s", next)
	}

	if _, err := CheckTransition(EventResubmit, StatusRejected, otherUser, requester.ID, ""); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-requester, got %v", err)
	}

	for _, cur := range []Status{StatusPending, StatusOngoing, StatusCompletionRequested, StatusCompleted} {
		if _, err := CheckTransition(EventResubmit, cur, requester, requester.ID, ""); !errors.Is(err, apperr.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition from %s, got %v", cur, err)
		}
	}
}

func TestCheckTransition_RequestCompletionAnyAuthenticated(t *testing.T) {
	for _, cur := range []Status{StatusPending, StatusOngoing, StatusCompletionRequested} {
		next, err := CheckTransition(EventRequestCompletion, cur, otherUser, requester.ID, "")
		if err != nil {
			t.Fatalf("unexpected error from %s: %v", cur, err)
		}
		if next != StatusCompletionRequested {
			t.Fatalf("expected completion_requested, got %s", next)
		}
	}

	if _, err := CheckTransition(EventRequestCompletion, StatusCompleted, otherUser, requester.ID, ""); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from completed, got %v", err)
	}
}

func TestCheckTransition_CompletionApprovalNeedsSuperadmin(t *testing.T) {
	if _, err := CheckTransition(EventApproveCompletion, StatusCompletionRequested, admin, requester.ID, ""); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for admin, got %v", err)
	}

	next, err := CheckTransition(EventApproveCompletion, StatusCompletionRequested, superadmin, requester.ID, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StatusCompleted {
		t.Fatalf("expected completed, got %s", next)
	}
}

func TestCheckTransition_RejectCompletionRequiresReason(t *testing.T) {
	if _, err := CheckTransition(EventRejectCompletion, StatusCompletionRequested, superadmin, requester.ID, ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	next, err := CheckTransition(EventRejectCompletion, StatusCompletionRequested, superadmin, requester.ID, "not done yet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StatusOngoing {
		t.Fatalf("expected ongoing, got %s", next)
	}
}

func TestCheckTransition_LegalityCheckedBeforeGuard(t *testing.T) {
	// A plain user poking a completed order must see InvalidTransition, not
	// Forbidden: the transition is impossible regardless of who asks.
	if _, err := CheckTransition(EventApprove, StatusCompleted, requester, requester.ID, ""); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
