package occupancy

import (
	"errors"
	"testing"
)

func clock(t *testing.T, label string) ClockTime {
	t.Helper()
	value, err := ParseClockTime(label)
	if err != nil {
		t.Fatalf("ParseClockTime(%q) returned error: %v", label, err)
	}
	return value
}

func TestGenerateTimeSlots(t *testing.T) {
	t.Parallel()

	t.Run("default operating day yields 24 half-hour slots", func(t *testing.T) {
		t.Parallel()
		slots, err := GenerateTimeSlots(clock(t, "08:00"), clock(t, "20:00"), 30)
		if err != nil {
			t.Fatalf("GenerateTimeSlots returned error: %v", err)
		}
		if len(slots) != 24 {
			t.Fatalf("expected 24 slots, got %d", len(slots))
		}
		if slots[0].String() != "08:00" {
			t.Fatalf("expected first slot 08:00, got %s", slots[0])
		}
		if slots[len(slots)-1].String() != "19:30" {
			t.Fatalf("expected last slot 19:30, got %s", slots[len(slots)-1])
		}
		for i := 1; i < len(slots); i++ {
			if slots[i] <= slots[i-1] {
				t.Fatalf("slots not strictly increasing at %d: %s then %s", i, slots[i-1], slots[i])
			}
		}
	})

	t.Run("truncates a trailing partial slot", func(t *testing.T) {
		t.Parallel()
		slots, err := GenerateTimeSlots(clock(t, "08:00"), clock(t, "09:00"), 45)
		if err != nil {
			t.Fatalf("GenerateTimeSlots returned error: %v", err)
		}
		if len(slots) != 1 || slots[0].String() != "08:00" {
			t.Fatalf("expected only 08:00, got %v", slots)
		}
	})

	t.Run("closing at midnight is allowed", func(t *testing.T) {
		t.Parallel()
		slots, err := GenerateTimeSlots(clock(t, "23:00"), clock(t, "24:00"), 30)
		if err != nil {
			t.Fatalf("GenerateTimeSlots returned error: %v", err)
		}
		if len(slots) != 2 || slots[1].String() != "23:30" {
			t.Fatalf("unexpected slots: %v", slots)
		}
	})

	t.Run("rejects inverted or empty ranges", func(t *testing.T) {
		t.Parallel()
		for _, tc := range []struct{ opening, closing string }{
			{"20:00", "08:00"},
			{"10:00", "10:00"},
		} {
			if _, err := GenerateTimeSlots(clock(t, tc.opening), clock(t, tc.closing), 30); !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected ErrInvalidRange for %s-%s, got %v", tc.opening, tc.closing, err)
			}
		}
	})

	t.Run("rejects non-positive step", func(t *testing.T) {
		t.Parallel()
		if _, err := GenerateTimeSlots(clock(t, "08:00"), clock(t, "20:00"), 0); !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("expected ErrInvalidRange, got %v", err)
		}
	})

	t.Run("is restartable", func(t *testing.T) {
		t.Parallel()
		first, _ := GenerateTimeSlots(clock(t, "08:00"), clock(t, "12:00"), 30)
		second, _ := GenerateTimeSlots(clock(t, "08:00"), clock(t, "12:00"), 30)
		if len(first) != len(second) {
			t.Fatalf("expected equal lengths, got %d and %d", len(first), len(second))
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("slot %d differs: %s vs %s", i, first[i], second[i])
			}
		}
	})
}

func TestEndTime(t *testing.T) {
	t.Parallel()

	end, err := EndTime(Appointment{ID: "a", Start: clock(t, "09:40"), Duration: 45})
	if err != nil {
		t.Fatalf("EndTime returned error: %v", err)
	}
	if end.String() != "10:25" {
		t.Fatalf("expected 10:25, got %s", end)
	}

	if end, err := EndTime(Appointment{ID: "b", Start: clock(t, "23:00"), Duration: 60}); err != nil || end != EndOfDay {
		t.Fatalf("expected an appointment may end exactly at 24:00, got %s, %v", end, err)
	}

	if _, err := EndTime(Appointment{ID: "c", Start: clock(t, "23:30"), Duration: 45}); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration past midnight, got %v", err)
	}

	if _, err := EndTime(Appointment{ID: "d", Start: clock(t, "10:00"), Duration: -5}); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration for negative duration, got %v", err)
	}
}

func TestSnapshot_Occupancy(t *testing.T) {
	t.Parallel()

	appointment := Appointment{ID: "apt-1", BarberID: "x", Start: clock(t, "10:00"), Duration: 45}
	snapshot, err := NewSnapshot([]string{"x", "y"}, []Appointment{appointment})
	if err != nil {
		t.Fatalf("NewSnapshot returned error: %v", err)
	}

	for _, tc := range []struct {
		barber string
		slot   string
		want   bool
	}{
		{"x", "10:00", true},
		{"x", "10:30", true},
		{"x", "10:45", false},
		{"x", "09:30", false},
		{"y", "10:00", false},
	} {
		got, err := snapshot.IsOccupied(tc.barber, clock(t, tc.slot))
		if err != nil {
			t.Fatalf("IsOccupied(%s, %s) returned error: %v", tc.barber, tc.slot, err)
		}
		if got != tc.want {
			t.Fatalf("IsOccupied(%s, %s) = %v, want %v", tc.barber, tc.slot, got, tc.want)
		}
	}

	if !IsFirstSlot(appointment, clock(t, "10:00")) {
		t.Fatalf("expected 10:00 to be the first slot")
	}
	if IsFirstSlot(appointment, clock(t, "10:30")) {
		t.Fatalf("expected 10:30 not to be the first slot")
	}
}

func TestSnapshot_RenatoScenario(t *testing.T) {
	t.Parallel()

	renato := Appointment{ID: "joao", BarberID: "renato-garcia", Start: clock(t, "09:00"), Duration: 45}
	snapshot, err := NewSnapshot([]string{"renato-garcia"}, []Appointment{renato})
	if err != nil {
		t.Fatalf("NewSnapshot returned error: %v", err)
	}

	first, ok, err := snapshot.AppointmentAt("renato-garcia", clock(t, "09:00"))
	if err != nil || !ok {
		t.Fatalf("expected appointment at 09:00, got ok=%v err=%v", ok, err)
	}
	if !IsFirstSlot(first, clock(t, "09:00")) {
		t.Fatalf("expected 09:00 to be the first slot")
	}

	continuation, ok, err := snapshot.AppointmentAt("renato-garcia", clock(t, "09:30"))
	if err != nil || !ok {
		t.Fatalf("expected appointment at 09:30, got ok=%v err=%v", ok, err)
	}
	if continuation.ID != first.ID || IsFirstSlot(continuation, clock(t, "09:30")) {
		t.Fatalf("expected 09:30 to continue appointment %s, got %+v", first.ID, continuation)
	}

	if _, ok, err := snapshot.AppointmentAt("renato-garcia", clock(t, "10:00")); err != nil || ok {
		t.Fatalf("expected no appointment at 10:00, got ok=%v err=%v", ok, err)
	}
}

func TestSnapshot_EmptyBarberIsFree(t *testing.T) {
	t.Parallel()

	snapshot, err := NewSnapshot([]string{"busy", "idle"}, []Appointment{
		{ID: "a", BarberID: "busy", Start: MustParseClockTime("08:00"), Duration: 720},
	})
	if err != nil {
		t.Fatalf("NewSnapshot returned error: %v", err)
	}
	slots, _ := GenerateTimeSlots(MustParseClockTime("08:00"), MustParseClockTime("20:00"), 30)
	for _, slot := range slots {
		occupied, err := snapshot.IsOccupied("idle", slot)
		if err != nil {
			t.Fatalf("IsOccupied returned error: %v", err)
		}
		if occupied {
			t.Fatalf("expected idle barber to be free at %s", slot)
		}
	}
}

func TestSnapshot_FirstMatchWinsOnBadData(t *testing.T) {
	t.Parallel()

	snapshot, err := NewSnapshot([]string{"b"}, []Appointment{
		{ID: "first", BarberID: "b", Start: MustParseClockTime("10:00"), Duration: 60},
		{ID: "second", BarberID: "b", Start: MustParseClockTime("10:30"), Duration: 60},
	})
	if err != nil {
		t.Fatalf("NewSnapshot returned error: %v", err)
	}
	got, ok, err := snapshot.AppointmentAt("b", MustParseClockTime("10:30"))
	if err != nil || !ok {
		t.Fatalf("expected a match, got ok=%v err=%v", ok, err)
	}
	if got.ID != "first" {
		t.Fatalf("expected first appointment in iteration order, got %s", got.ID)
	}
}

func TestSnapshot_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewSnapshot([]string{"a"}, []Appointment{{ID: "x", BarberID: "ghost", Start: 600, Duration: 30}}); !errors.Is(err, ErrUnknownBarber) {
		t.Fatalf("expected ErrUnknownBarber, got %v", err)
	}
	if _, err := NewSnapshot([]string{"a"}, []Appointment{{ID: "x", BarberID: "a", Start: 600, Duration: -1}}); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}

	snapshot, err := NewSnapshot([]string{"a"}, nil)
	if err != nil {
		t.Fatalf("NewSnapshot returned error: %v", err)
	}
	if _, err := snapshot.IsOccupied("nobody", 600); !errors.Is(err, ErrUnknownBarber) {
		t.Fatalf("expected ErrUnknownBarber for query, got %v", err)
	}
	if _, err := snapshot.OccupiedStartTimes("nobody"); !errors.Is(err, ErrUnknownBarber) {
		t.Fatalf("expected ErrUnknownBarber for start times, got %v", err)
	}
}

func TestSnapshot_DoesNotAliasInput(t *testing.T) {
	t.Parallel()

	input := []Appointment{{ID: "a", BarberID: "b", Start: MustParseClockTime("10:00"), Duration: 30}}
	snapshot, err := NewSnapshot([]string{"b"}, input)
	if err != nil {
		t.Fatalf("NewSnapshot returned error: %v", err)
	}
	input[0].Start = MustParseClockTime("15:00")

	occupied, err := snapshot.IsOccupied("b", MustParseClockTime("10:00"))
	if err != nil || !occupied {
		t.Fatalf("expected snapshot to keep its own copy, got occupied=%v err=%v", occupied, err)
	}
}

func TestSnapshot_QueriesAreIdempotent(t *testing.T) {
	t.Parallel()

	snapshot, _ := NewSnapshot([]string{"b"}, []Appointment{{ID: "a", BarberID: "b", Start: MustParseClockTime("10:00"), Duration: 60}})
	for i := 0; i < 2; i++ {
		occupied, err := snapshot.IsOccupied("b", MustParseClockTime("10:30"))
		if err != nil || !occupied {
			t.Fatalf("call %d: expected occupied, got %v, %v", i, occupied, err)
		}
		starts, err := snapshot.OccupiedStartTimes("b")
		if err != nil || len(starts) != 1 {
			t.Fatalf("call %d: expected one start, got %v, %v", i, starts, err)
		}
	}
}

func TestSnapshot_OccupiedStartTimesOnlyMarksStarts(t *testing.T) {
	t.Parallel()

	snapshot, _ := NewSnapshot([]string{"b"}, []Appointment{
		{ID: "a", BarberID: "b", Start: MustParseClockTime("10:00"), Duration: 60},
		{ID: "c", BarberID: "b", Start: MustParseClockTime("14:00"), Duration: 30},
	})
	starts, err := snapshot.OccupiedStartTimes("b")
	if err != nil {
		t.Fatalf("OccupiedStartTimes returned error: %v", err)
	}
	if !starts.Contains(MustParseClockTime("10:00")) || !starts.Contains(MustParseClockTime("14:00")) {
		t.Fatalf("expected both starts, got %v", starts.Sorted())
	}
	if starts.Contains(MustParseClockTime("10:30")) {
		t.Fatalf("expected covered intermediate slot not to be marked as a start")
	}
	sorted := starts.Sorted()
	if len(sorted) != 2 || sorted[0].String() != "10:00" || sorted[1].String() != "14:00" {
		t.Fatalf("unexpected sorted starts: %v", sorted)
	}
}

func TestSnapshot_CheckCandidateRejectsPartialOverlap(t *testing.T) {
	t.Parallel()

	existing := Appointment{ID: "existing", BarberID: "b", Start: MustParseClockTime("10:00"), Duration: 60}
	snapshot, _ := NewSnapshot([]string{"b", "other"}, []Appointment{existing})

	starts, _ := snapshot.OccupiedStartTimes("b")
	if starts.Contains(MustParseClockTime("10:30")) {
		t.Fatalf("10:30 must not be an occupied start before services are chosen")
	}

	for _, duration := range []int{1, 15, 30, 90} {
		err := snapshot.CheckCandidate("b", MustParseClockTime("10:30"), duration)
		if !errors.Is(err, ErrOverlap) {
			t.Fatalf("duration %d: expected ErrOverlap, got %v", duration, err)
		}
		var overlap *OverlapError
		if !errors.As(err, &overlap) || overlap.With.ID != "existing" {
			t.Fatalf("duration %d: expected overlap with existing, got %v", duration, err)
		}
	}

	if err := snapshot.CheckCandidate("b", MustParseClockTime("11:00"), 30); err != nil {
		t.Fatalf("expected back-to-back booking to be accepted, got %v", err)
	}
	if err := snapshot.CheckCandidate("b", MustParseClockTime("09:00"), 60); err != nil {
		t.Fatalf("expected booking ending at the existing start to be accepted, got %v", err)
	}
	if err := snapshot.CheckCandidate("b", MustParseClockTime("09:30"), 45); !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected booking running into the existing one to be rejected, got %v", err)
	}
	if err := snapshot.CheckCandidate("other", MustParseClockTime("10:30"), 30); err != nil {
		t.Fatalf("expected other barber to be free, got %v", err)
	}
	if err := snapshot.CheckCandidate("b", MustParseClockTime("23:30"), 60); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration for a candidate crossing midnight, got %v", err)
	}
}

func TestRowSpan(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		duration, step, want int
	}{
		{45, 30, 2},
		{30, 30, 1},
		{75, 30, 3},
		{0, 30, 0},
		{40, 0, 0},
	} {
		if got := RowSpan(Appointment{Duration: tc.duration}, tc.step); got != tc.want {
			t.Fatalf("RowSpan(%d, %d) = %d, want %d", tc.duration, tc.step, got, tc.want)
		}
	}
}
