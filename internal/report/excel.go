package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const dateLayout = "2006-01-02"

// ProgressWorkbook renders the progress report as a spreadsheet: one row per
// bucket with ongoing/completed counts and the order numbers in each class.
func ProgressWorkbook(rep *ProgressReport) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Progress"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Work Order Progress %s to %s", rep.From.Format(dateLayout), rep.To.Format(dateLayout))
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}

	headers := []string{"Category", "Ongoing", "Ongoing Work Orders", "Completed", "Completed Work Orders"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, row := range rep.Rows {
		values := []any{
			row.Label,
			row.OngoingCount,
			strings.Join(row.OngoingOrders, ", "),
			row.CompletedCount,
			strings.Join(row.CompletedOrders, ", "),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+3)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := styleHeader(f, sheet, "A2", "E2"); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(sheet, "A", "A", 24)
	_ = f.SetColWidth(sheet, "C", "C", 48)
	_ = f.SetColWidth(sheet, "E", "E", 48)

	return f, nil
}

// TechnicianWorkbook renders the technician-performance report.
func TechnicianWorkbook(rows []TechnicianRow, from, to time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Technicians"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Technician Performance %s to %s", from.Format(dateLayout), to.Format(dateLayout))
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}

	headers := []string{"Technician", "Employee No", "Actions Worked", "Actions Completed", "Total Minutes"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, tr := range rows {
		values := []any{tr.Name, tr.EmployeeNo, tr.ActionsWorked, tr.ActionsCompleted, tr.TotalMinutes}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+3)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := styleHeader(f, sheet, "A2", "E2"); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(sheet, "A", "B", 24)

	return f, nil
}

func styleHeader(f *excelize.File, sheet, topLeft, bottomRight string) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, topLeft, bottomRight, style)
}
