package report

import "testing"

func TestProgressWorkbook(t *testing.T) {
	rep := &ProgressReport{
		From: date(2024, 1, 1),
		To:   date(2024, 1, 15),
		Rows: aggregateProgress([]OrderSummary{
			{WorkOrderNo: "WO-1", WorkType: "tyre", Status: "ongoing"},
		}, endOfDay(date(2024, 1, 15))),
	}

	f, err := ProgressWorkbook(rep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Progress", "A2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Category" {
		t.Fatalf("expected header Category, got %q", got)
	}

	// seven bucket rows below the header
	last, err := f.GetCellValue("Progress", "A9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last != BucketMiscellaneous.Label() {
		t.Fatalf("expected %q in last row, got %q", BucketMiscellaneous.Label(), last)
	}

	wheelOngoing, err := f.GetCellValue("Progress", "C4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wheelOngoing != "WO-1" {
		t.Fatalf("expected WO-1, got %q", wheelOngoing)
	}
}

func TestTechnicianWorkbook(t *testing.T) {
	rows := []TechnicianRow{
		{TechnicianID: 1, Name: "Kim", EmployeeNo: "T-100", ActionsWorked: 3, ActionsCompleted: 2, TotalMinutes: 240},
	}
	f, err := TechnicianWorkbook(rows, date(2024, 1, 1), date(2024, 1, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	name, err := f.GetCellValue("Technicians", "A3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Kim" {
		t.Fatalf("expected Kim, got %q", name)
	}
	minutes, err := f.GetCellValue("Technicians", "E3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != "240" {
		t.Fatalf("expected 240, got %q", minutes)
	}
}
