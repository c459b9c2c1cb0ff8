package workorder

import "time"

// WorkOrder is the sole entity with lifecycle semantics. The transition
// specific fields (approver, rejection reason, completion request/approval)
// are populated only once the order has passed through the corresponding
// transition and cleared again on resubmit after rejection.
type WorkOrder struct {
	ID            int64     `json:"id"`
	WorkOrderNo   string    `json:"workOrderNo"`
	WorkOrderDate time.Time `json:"workOrderDate"`
	Equipment     string    `json:"equipment"`
	UsageHours    *float64  `json:"usageHours,omitempty"`
	Description   string    `json:"description"`
	WorkType      string    `json:"workType"`
	RequestedBy   int64     `json:"requestedBy"`
	AllocatedAt   time.Time `json:"allocatedAt"`

	WorkCompletedDate *time.Time `json:"workCompletedDate,omitempty"`

	Status Status `json:"status"`

	ApprovedBy      *int64     `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`

	CompletionRequestedBy     *int64     `json:"completionRequestedBy,omitempty"`
	CompletionRequestedAt     *time.Time `json:"completionRequestedAt,omitempty"`
	CompletionApprovedBy      *int64     `json:"completionApprovedBy,omitempty"`
	CompletionApprovedAt      *time.Time `json:"completionApprovedAt,omitempty"`
	CompletionRejectionReason *string    `json:"completionRejectionReason,omitempty"`

	ReferenceDocument *string `json:"referenceDocument,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
