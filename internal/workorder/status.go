package workorder

import (
	"fmt"
	"strings"

	"workorders/internal/apperr"
	"workorders/internal/user"
)

type Status string

const (
	StatusPending             Status = "pending"
	StatusOngoing             Status = "ongoing"
	StatusCompletionRequested Status = "completion_requested"
	StatusCompleted           Status = "completed"
	StatusRejected            Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusOngoing, StatusCompletionRequested, StatusCompleted, StatusRejected:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

type Event string

const (
	EventApprove           Event = "approve"
	EventReject            Event = "reject"
	EventResubmit          Event = "resubmit"
	EventRequestCompletion Event = "request-completion"
	EventApproveCompletion Event = "approve-completion"
	EventRejectCompletion  Event = "reject-completion"
)

func ParseEvent(s string) (Event, error) {
	switch Event(s) {
	case EventApprove, EventReject, EventResubmit, EventRequestCompletion, EventApproveCompletion, EventRejectCompletion:
		return Event(s), nil
	default:
		return "", fmt.Errorf("unknown event: %s", s)
	}
}

// rule is one row of the transition table. All status checks in the API go
// through this table; endpoints never hand-roll their own.
type rule struct {
	from          map[Status]bool
	to            Status
	minRole       user.Role
	requesterOnly bool
	needsReason   bool
}

var rules = map[Event]rule{
	EventApprove: {
		from:    set(StatusPending),
		to:      StatusOngoing,
		minRole: user.RoleAdmin,
	},
	EventReject: {
		from:        set(StatusPending),
		to:          StatusRejected,
		minRole:     user.RoleAdmin,
		needsReason: true,
	},
	EventResubmit: {
		from:          set(StatusRejected),
		to:            StatusPending,
		minRole:       user.RoleUser,
		requesterOnly: true,
	},
	// Re-requesting from completion_requested just refreshes the request
	// fields; any authenticated actor may raise it.
	EventRequestCompletion: {
		from:    set(StatusPending, StatusOngoing, StatusCompletionRequested),
		to:      StatusCompletionRequested,
		minRole: user.RoleUser,
	},
	EventApproveCompletion: {
		from:    set(StatusCompletionRequested),
		to:      StatusCompleted,
		minRole: user.RoleSuperadmin,
	},
	EventRejectCompletion: {
		from:        set(StatusCompletionRequested),
		to:          StatusOngoing,
		minRole:     user.RoleSuperadmin,
		needsReason: true,
	},
}

func set(ss ...Status) map[Status]bool {
	m := make(map[Status]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}

// CheckTransition validates ev against the transition table for a work order
// currently in cur, requested by the user with id requestedBy. Checks run in
// contract order: legality from the current status, then the caller's
// role/identity guard, then required input. It returns the target status.
func CheckTransition(ev Event, cur Status, caller *user.User, requestedBy int64, reason string) (Status, error) {
	r, ok := rules[ev]
	if !ok {
		return "", fmt.Errorf("%w: unknown event %q", apperr.ErrValidation, ev)
	}
	if !r.from[cur] {
		return "", fmt.Errorf("%w: cannot %s a work order in status %s", apperr.ErrInvalidTransition, ev, cur)
	}
	if caller == nil || !caller.Role.AtLeast(r.minRole) {
		return "", fmt.Errorf("%w: %s requires role %s", apperr.ErrForbidden, ev, r.minRole)
	}
	if r.requesterOnly && caller.ID != requestedBy {
		return "", fmt.Errorf("%w: only the original requester may %s", apperr.ErrForbidden, ev)
	}
	if r.needsReason && strings.TrimSpace(reason) == "" {
		return "", fmt.Errorf("%w: a reason is required to %s", apperr.ErrValidation, ev)
	}
	return r.to, nil
}
