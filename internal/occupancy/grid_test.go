package occupancy

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildGrid(t *testing.T) {
	t.Parallel()

	slots, err := GenerateTimeSlots(MustParseClockTime("08:00"), MustParseClockTime("20:00"), DefaultStepMinutes)
	if err != nil {
		t.Fatalf("GenerateTimeSlots returned error: %v", err)
	}
	snapshot, err := NewSnapshot([]string{"renato", "marcos", "lucas"}, []Appointment{
		{ID: "joao", BarberID: "renato", Start: MustParseClockTime("09:00"), Duration: 45},
		{ID: "lucas-o", BarberID: "marcos", Start: MustParseClockTime("12:00"), Duration: 75},
		{ID: "late", BarberID: "marcos", Start: MustParseClockTime("19:30"), Duration: 60},
	})
	if err != nil {
		t.Fatalf("NewSnapshot returned error: %v", err)
	}

	grid, err := BuildGrid(slots, []string{"renato", "marcos", "lucas"}, snapshot, DefaultStepMinutes)
	if err != nil {
		t.Fatalf("BuildGrid returned error: %v", err)
	}
	if len(grid.Rows) != 24 {
		t.Fatalf("expected 24 rows, got %d", len(grid.Rows))
	}

	cellAt := func(label string, column int) Cell {
		t.Helper()
		slot := MustParseClockTime(label)
		for _, row := range grid.Rows {
			if row.Slot == slot {
				return row.Cells[column]
			}
		}
		t.Fatalf("no row for %s", label)
		return Cell{}
	}

	start := cellAt("09:00", 0)
	if start.Kind != CellStart || start.RowSpan != 2 || start.Appointment == nil || start.Appointment.ID != "joao" {
		t.Fatalf("unexpected 09:00 cell: %+v", start)
	}
	if cell := cellAt("09:30", 0); cell.Kind != CellContinuation || cell.Appointment.ID != "joao" {
		t.Fatalf("unexpected 09:30 cell: %+v", cell)
	}
	if cell := cellAt("10:00", 0); cell.Kind != CellFree || cell.Appointment != nil {
		t.Fatalf("unexpected 10:00 cell: %+v", cell)
	}

	if cell := cellAt("12:00", 1); cell.Kind != CellStart || cell.RowSpan != 3 {
		t.Fatalf("expected a three-row block at 12:00, got %+v", cell)
	}
	if cell := cellAt("13:00", 1); cell.Kind != CellContinuation {
		t.Fatalf("expected 13:00 to be covered, got %+v", cell)
	}

	if cell := cellAt("19:30", 1); cell.Kind != CellStart || cell.RowSpan != 1 {
		t.Fatalf("expected the late block to be clipped to one row, got %+v", cell)
	}

	for _, row := range grid.Rows {
		if row.Cells[2].Kind != CellFree {
			t.Fatalf("expected lucas to be free at %s", row.Slot)
		}
	}
}

func TestBuildGrid_RejectsUnknownColumns(t *testing.T) {
	t.Parallel()

	snapshot, _ := NewSnapshot([]string{"a"}, nil)
	slots, _ := GenerateTimeSlots(MustParseClockTime("08:00"), MustParseClockTime("09:00"), 30)
	if _, err := BuildGrid(slots, []string{"a", "ghost"}, snapshot, 30); !errors.Is(err, ErrUnknownBarber) {
		t.Fatalf("expected ErrUnknownBarber, got %v", err)
	}
	if _, err := BuildGrid(slots, []string{"a"}, snapshot, 0); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestBuildGrid_StartBetweenRows(t *testing.T) {
	t.Parallel()

	slots, err := GenerateTimeSlots(MustParseClockTime("08:00"), MustParseClockTime("20:00"), 45)
	if err != nil {
		t.Fatalf("GenerateTimeSlots returned error: %v", err)
	}
	snapshot, err := NewSnapshot([]string{"renato"}, []Appointment{
		{ID: "a1", BarberID: "renato", Start: MustParseClockTime("09:00"), Duration: 45},
		{ID: "a2", BarberID: "renato", Start: MustParseClockTime("11:15"), Duration: 90},
	})
	if err != nil {
		t.Fatalf("NewSnapshot returned error: %v", err)
	}

	grid, err := BuildGrid(slots, []string{"renato"}, snapshot, 45)
	if err != nil {
		t.Fatalf("BuildGrid returned error: %v", err)
	}

	starts := map[string]Cell{}
	for _, row := range grid.Rows {
		cell := row.Cells[0]
		if cell.Kind == CellStart {
			starts[cell.Appointment.ID] = cell
		}
		if cell.Kind == CellContinuation && cell.RowSpan != 0 {
			t.Fatalf("continuation cells carry no span, got %+v", cell)
		}
	}

	if cell, ok := starts["a1"]; !ok || cell.Slot.String() != "09:30" || cell.RowSpan != 1 {
		t.Fatalf("expected a1 drawn at 09:30 over one row, got %+v (found=%v)", cell, ok)
	}
	// 11:15-12:45 covers the 11:45 and 12:30 rows.
	if cell, ok := starts["a2"]; !ok || cell.Slot.String() != "11:45" || cell.RowSpan != 2 {
		t.Fatalf("expected a2 drawn at 11:45 over two rows, got %+v (found=%v)", cell, ok)
	}
}

func TestBuildGrid_AppointmentStartingBeforeOpening(t *testing.T) {
	t.Parallel()

	slots, _ := GenerateTimeSlots(MustParseClockTime("10:00"), MustParseClockTime("12:00"), 30)
	snapshot, err := NewSnapshot([]string{"renato"}, []Appointment{
		{ID: "early", BarberID: "renato", Start: MustParseClockTime("09:30"), Duration: 60},
	})
	if err != nil {
		t.Fatalf("NewSnapshot returned error: %v", err)
	}

	grid, err := BuildGrid(slots, []string{"renato"}, snapshot, 30)
	if err != nil {
		t.Fatalf("BuildGrid returned error: %v", err)
	}
	first := grid.Rows[0].Cells[0]
	if first.Kind != CellStart || first.RowSpan != 1 || first.Appointment.ID != "early" {
		t.Fatalf("expected the early block drawn on the first row, got %+v", first)
	}
}

func TestBuildGrid_RejectsAppointmentsOutsideEveryRow(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		opening, closing string
		step             int
		appointment      Appointment
	}{
		"between two rows": {
			opening: "08:00", closing: "10:15", step: 45,
			appointment: Appointment{ID: "gap", BarberID: "renato", Start: MustParseClockTime("08:50"), Duration: 30},
		},
		"before opening": {
			opening: "10:00", closing: "12:00", step: 30,
			appointment: Appointment{ID: "dawn", BarberID: "renato", Start: MustParseClockTime("09:00"), Duration: 45},
		},
		"after closing": {
			opening: "08:00", closing: "12:00", step: 30,
			appointment: Appointment{ID: "dusk", BarberID: "renato", Start: MustParseClockTime("12:00"), Duration: 30},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			slots, err := GenerateTimeSlots(MustParseClockTime(tc.opening), MustParseClockTime(tc.closing), tc.step)
			if err != nil {
				t.Fatalf("GenerateTimeSlots returned error: %v", err)
			}
			snapshot, err := NewSnapshot([]string{"renato", "marcos"}, []Appointment{tc.appointment})
			if err != nil {
				t.Fatalf("NewSnapshot returned error: %v", err)
			}

			_, err = BuildGrid(slots, []string{"renato"}, snapshot, tc.step)
			if !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected ErrInvalidRange, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.appointment.ID) {
				t.Fatalf("expected the error to name %s, got %v", tc.appointment.ID, err)
			}

			if _, err := BuildGrid(slots, []string{"marcos"}, snapshot, tc.step); err != nil {
				t.Fatalf("columns without the appointment should still render, got %v", err)
			}
		})
	}
}
