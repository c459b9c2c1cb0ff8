package report

import (
	"context"
	"time"
)

type TechnicianRow struct {
	TechnicianID     int64  `json:"technicianId"`
	Name             string `json:"name"`
	EmployeeNo       string `json:"employeeNo"`
	ActionsWorked    int64  `json:"actionsWorked"`
	ActionsCompleted int64  `json:"actionsCompleted"`
	TotalMinutes     int64  `json:"totalMinutes"`
}

// TechnicianPerformance aggregates, per technician, the actions worked in
// [from, to] (by action start time, falling back to creation time), how many
// of those were completed, and the minutes spent.
func (g *Generator) TechnicianPerformance(ctx context.Context, from, to time.Time) ([]TechnicianRow, error) {
	const q = `
SELECT t.id, t.name, t.employee_no,
       COUNT(a.id),
       COUNT(a.id) FILTER (WHERE a.completed),
       COALESCE(SUM(a.duration_minutes), 0)
FROM technicians t
JOIN job_performed_by j ON j.technician_id = t.id
JOIN actions a ON a.id = j.action_id
WHERE COALESCE(a.started_at, a.created_at) >= $1
  AND COALESCE(a.started_at, a.created_at) <= $2
GROUP BY t.id, t.name, t.employee_no
ORDER BY t.name ASC
`
	rows, err := g.db.Query(ctx, q, from, endOfDay(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TechnicianRow{}
	for rows.Next() {
		var tr TechnicianRow
		if err := rows.Scan(&tr.TechnicianID, &tr.Name, &tr.EmployeeNo, &tr.ActionsWorked, &tr.ActionsCompleted, &tr.TotalMinutes); err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}
