package report

import (
	"testing"
	"time"

	"workorders/internal/workorder"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassify_CompletedWithinRange(t *testing.T) {
	toEnd := endOfDay(date(2024, 1, 15))
	approved := date(2024, 1, 10).Add(14 * time.Hour)
	completedDate := date(2024, 1, 10)

	if got := Classify(workorder.StatusCompleted, &approved, &completedDate, toEnd); got != ClassCompleted {
		t.Fatalf("expected completed, got %s", got)
	}
}

func TestClassify_CompletionDateAfterRangeIsOngoing(t *testing.T) {
	toEnd := endOfDay(date(2024, 1, 15))
	approved := date(2024, 1, 10).Add(14 * time.Hour)
	completedDate := date(2024, 1, 20)

	if got := Classify(workorder.StatusCompleted, &approved, &completedDate, toEnd); got != ClassOngoing {
		t.Fatalf("expected ongoing, got %s", got)
	}
}

func TestClassify_ApprovalAfterRangeIsOngoing(t *testing.T) {
	toEnd := endOfDay(date(2024, 1, 15))
	approved := date(2024, 1, 16).Add(9 * time.Hour)

	if got := Classify(workorder.StatusCompleted, &approved, nil, toEnd); got != ClassOngoing {
		t.Fatalf("expected ongoing, got %s", got)
	}
}

func TestClassify_OpenStatusesAreOngoing(t *testing.T) {
	toEnd := endOfDay(date(2024, 1, 15))
	for _, st := range []workorder.Status{workorder.StatusPending, workorder.StatusOngoing, workorder.StatusCompletionRequested} {
		if got := Classify(st, nil, nil, toEnd); got != ClassOngoing {
			t.Fatalf("expected ongoing for %s, got %s", st, got)
		}
	}
}

func TestClassify_BoundaryDayCountsCompleted(t *testing.T) {
	to := date(2024, 1, 15)
	approved := to.Add(18 * time.Hour) // same calendar day as `to`
	if got := Classify(workorder.StatusCompleted, &approved, &to, endOfDay(to)); got != ClassCompleted {
		t.Fatalf("expected completed on boundary day, got %s", got)
	}
}

func TestAggregateProgress(t *testing.T) {
	toEnd := endOfDay(date(2024, 1, 15))
	approved := date(2024, 1, 9).Add(10 * time.Hour)

	items := []OrderSummary{
		{WorkOrderNo: "WO-1", WorkType: "tyre", Status: workorder.StatusOngoing},
		{WorkOrderNo: "WO-2", WorkType: "old tire issue", Status: workorder.StatusCompleted, CompletionApprovedAt: &approved},
		{WorkOrderNo: "WO-3", WorkType: "Something unlisted", Status: workorder.StatusPending},
	}

	rows := aggregateProgress(items, toEnd)
	if len(rows) != len(Buckets) {
		t.Fatalf("expected %d rows, got %d", len(Buckets), len(rows))
	}

	byBucket := map[Bucket]ProgressRow{}
	for _, r := range rows {
		byBucket[r.Bucket] = r
	}

	wt := byBucket[BucketWheelTyre]
	if wt.OngoingCount != 1 || wt.CompletedCount != 1 {
		t.Fatalf("wheel_tyre: expected 1 ongoing / 1 completed, got %d/%d", wt.OngoingCount, wt.CompletedCount)
	}
	if len(wt.OngoingOrders) != 1 || wt.OngoingOrders[0] != "WO-1" {
		t.Fatalf("expected WO-1 ongoing, got %v", wt.OngoingOrders)
	}
	if len(wt.CompletedOrders) != 1 || wt.CompletedOrders[0] != "WO-2" {
		t.Fatalf("expected WO-2 completed, got %v", wt.CompletedOrders)
	}

	misc := byBucket[BucketMiscellaneous]
	if misc.OngoingCount != 1 || misc.CompletedCount != 0 {
		t.Fatalf("miscellaneous: expected 1 ongoing, got %d/%d", misc.OngoingCount, misc.CompletedCount)
	}

	// untouched buckets still present with empty slices
	if fab := byBucket[BucketFabrication]; fab.OngoingOrders == nil || fab.CompletedOrders == nil {
		t.Fatalf("expected empty slices for untouched bucket")
	}
}
