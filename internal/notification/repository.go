package notification

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"workorders/pkg/db"
)

type Notification struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	WorkOrderID *int64     `json:"workOrderId,omitempty"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type Repository struct {
	db db.Pool
}

func NewRepository(pool db.Pool) *Repository {
	return &Repository{db: pool}
}

// Insert writes a notification inside the caller's transaction so it commits
// or rolls back together with the status change that caused it.
func Insert(ctx context.Context, tx pgx.Tx, userID int64, workOrderID *int64, title, message string) error {
	const q = `
INSERT INTO notifications (user_id, work_order_id, title, message)
VALUES ($1, $2, $3, $4)
`
	_, err := tx.Exec(ctx, q, userID, workOrderID, title, message)
	return err
}

func (r *Repository) ListByUser(ctx context.Context, userID int64, limit int) ([]Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `
SELECT id, user_id, work_order_id, title, message, read_at, created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`
	rows, err := r.db.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.WorkOrderID, &n.Title, &n.Message, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	const q = `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`
	var n int64
	if err := r.db.QueryRow(ctx, q, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repository) MarkRead(ctx context.Context, userID, id int64) (bool, error) {
	const q = `
UPDATE notifications
SET read_at = NOW()
WHERE id = $1 AND user_id = $2 AND read_at IS NULL
`
	tag, err := r.db.Exec(ctx, q, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) MarkAllRead(ctx context.Context, userID int64) error {
	const q = `UPDATE notifications SET read_at = NOW() WHERE user_id = $1 AND read_at IS NULL`
	_, err := r.db.Exec(ctx, q, userID)
	return err
}
