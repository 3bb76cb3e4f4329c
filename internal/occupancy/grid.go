package occupancy

import "fmt"

// CellKind classifies a (barber, slot) cell of the day grid.
type CellKind string

const (
	// CellFree is an empty, bookable cell.
	CellFree CellKind = "free"
	// CellStart is the first slot of an appointment; a block is drawn here.
	CellStart CellKind = "start"
	// CellContinuation is covered by a block drawn in an earlier row.
	CellContinuation CellKind = "continuation"
)

// Cell is one grid position.
type Cell struct {
	BarberID    string
	Slot        ClockTime
	Kind        CellKind
	Appointment *Appointment
	// RowSpan is set on start cells, clipped to the rows left in the grid.
	RowSpan int
}

// Row holds one cell per barber column for a slot.
type Row struct {
	Slot  ClockTime
	Cells []Cell
}

// Grid is the per-barber day layout.
type Grid struct {
	Step      int
	BarberIDs []string
	Rows      []Row
}

// BuildGrid lays out a snapshot over the given slots with one column per
// barber, in the order the barbers are given. A block is drawn at the first
// row its appointment covers, so a start between rows still gets one. An
// appointment of a listed barber that covers no row at all is reported with
// ErrInvalidRange instead of being left out of the layout.
func BuildGrid(slots []ClockTime, barberIDs []string, snapshot *Snapshot, step int) (Grid, error) {
	if step <= 0 {
		return Grid{}, fmt.Errorf("%w: step must be positive, got %d", ErrInvalidRange, step)
	}
	for _, id := range barberIDs {
		if err := snapshot.requireBarber(id); err != nil {
			return Grid{}, err
		}
	}

	grid := Grid{
		Step:      step,
		BarberIDs: append([]string(nil), barberIDs...),
		Rows:      make([]Row, 0, len(slots)),
	}
	for i, slot := range slots {
		row := Row{Slot: slot, Cells: make([]Cell, 0, len(barberIDs))}
		for _, barberID := range barberIDs {
			cell := Cell{BarberID: barberID, Slot: slot, Kind: CellFree}
			appointment, ok, err := snapshot.AppointmentAt(barberID, slot)
			if err != nil {
				return Grid{}, err
			}
			if ok {
				found := appointment
				cell.Appointment = &found
				if IsFirstSlot(appointment, slot) || i == 0 || slots[i-1] < appointment.Start {
					end, err := EndTime(appointment)
					if err != nil {
						return Grid{}, err
					}
					cell.Kind = CellStart
					cell.RowSpan = coveredRows(slots[i:], end)
				} else {
					cell.Kind = CellContinuation
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		grid.Rows = append(grid.Rows, row)
	}

	columns := make(map[string]bool, len(barberIDs))
	for _, id := range barberIDs {
		columns[id] = true
	}
	for _, appointment := range snapshot.appointments {
		if !columns[appointment.BarberID] || appointment.Duration == 0 {
			continue
		}
		end := appointment.Start.Add(appointment.Duration)
		if !coversAnySlot(slots, appointment.Start, end) {
			return Grid{}, fmt.Errorf("%w: appointment %s for barber %s at %s-%s covers no grid row",
				ErrInvalidRange, appointment.ID, appointment.BarberID, appointment.Start, end)
		}
	}
	return grid, nil
}

// coveredRows counts the leading slots that fall before end.
func coveredRows(slots []ClockTime, end ClockTime) int {
	n := 0
	for n < len(slots) && slots[n] < end {
		n++
	}
	return n
}

func coversAnySlot(slots []ClockTime, start, end ClockTime) bool {
	for _, slot := range slots {
		if slot >= start && slot < end {
			return true
		}
	}
	return false
}
