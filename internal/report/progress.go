package report

import (
	"context"
	"time"

	"workorders/internal/workorder"
	"workorders/pkg/db"
)

type Class string

const (
	ClassOngoing   Class = "ongoing"
	ClassCompleted Class = "completed"
)

// Classify decides how a work order counts in a report ending at toEnd
// (inclusive instant). It counts as completed only when its status is
// completed AND both the completion-approval timestamp and the completion
// date, where present, fall at or before toEnd. Everything else, including
// every open status, is ongoing. Recomputed per report, never stored.
func Classify(status workorder.Status, completionApprovedAt, workCompletedDate *time.Time, toEnd time.Time) Class {
	if status != workorder.StatusCompleted {
		return ClassOngoing
	}
	if completionApprovedAt != nil && completionApprovedAt.After(toEnd) {
		return ClassOngoing
	}
	if workCompletedDate != nil && workCompletedDate.After(toEnd) {
		return ClassOngoing
	}
	return ClassCompleted
}

type OrderSummary struct {
	WorkOrderNo          string
	WorkType             string
	Status               workorder.Status
	CompletionApprovedAt *time.Time
	WorkCompletedDate    *time.Time
}

type ProgressRow struct {
	Bucket          Bucket   `json:"bucket"`
	Label           string   `json:"label"`
	OngoingCount    int      `json:"ongoingCount"`
	CompletedCount  int      `json:"completedCount"`
	OngoingOrders   []string `json:"ongoingOrders"`
	CompletedOrders []string `json:"completedOrders"`
}

type ProgressReport struct {
	From time.Time     `json:"from"`
	To   time.Time     `json:"to"`
	Rows []ProgressRow `json:"rows"`
}

type Generator struct {
	db db.Pool
}

func NewGenerator(pool db.Pool) *Generator {
	return &Generator{db: pool}
}

// Progress builds the seven-bucket progress report for work orders dated
// within [from, to]. Rejected orders are excluded.
func (g *Generator) Progress(ctx context.Context, from, to time.Time) (*ProgressReport, error) {
	const q = `
SELECT work_order_no, work_type, status, completion_approved_at, work_completed_date
FROM work_orders
WHERE work_order_date >= $1 AND work_order_date <= $2 AND status <> $3
ORDER BY work_order_no ASC
`
	rows, err := g.db.Query(ctx, q, from, to, string(workorder.StatusRejected))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderSummary
	for rows.Next() {
		var s OrderSummary
		if err := rows.Scan(&s.WorkOrderNo, &s.WorkType, &s.Status, &s.CompletionApprovedAt, &s.WorkCompletedDate); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ProgressReport{From: from, To: to, Rows: aggregateProgress(items, endOfDay(to))}, nil
}

func aggregateProgress(items []OrderSummary, toEnd time.Time) []ProgressRow {
	byBucket := make(map[Bucket]*ProgressRow, len(Buckets))
	out := make([]ProgressRow, len(Buckets))
	for i, b := range Buckets {
		out[i] = ProgressRow{Bucket: b, Label: b.Label(), OngoingOrders: []string{}, CompletedOrders: []string{}}
		byBucket[b] = &out[i]
	}

	for _, it := range items {
		row := byBucket[Categorize(it.WorkType)]
		if Classify(it.Status, it.CompletionApprovedAt, it.WorkCompletedDate, toEnd) == ClassCompleted {
			row.CompletedCount++
			row.CompletedOrders = append(row.CompletedOrders, it.WorkOrderNo)
		} else {
			row.OngoingCount++
			row.OngoingOrders = append(row.OngoingOrders, it.WorkOrderNo)
		}
	}
	return out
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
