// Package occupancy maps appointments onto a fixed grid of day slots.
//
// Every function is a pure query over a snapshot supplied by the caller. The
// package never owns or mutates shared state, so callers recompute on every
// change to the appointment list.
package occupancy

import (
	"fmt"
	"sort"
)

// DefaultStepMinutes is the slot spacing used by the day view.
const DefaultStepMinutes = 30

// Appointment is the part of a booking the engine needs: who, when, how long.
type Appointment struct {
	ID       string
	BarberID string
	Start    ClockTime
	Duration int
}

// GenerateTimeSlots returns the slots in [opening, closing) spaced by step
// minutes. A trailing slot that would run past closing is dropped.
func GenerateTimeSlots(opening, closing ClockTime, step int) ([]ClockTime, error) {
	if opening < 0 || closing > EndOfDay {
		return nil, fmt.Errorf("%w: bounds must lie within 00:00-24:00", ErrInvalidRange)
	}
	if opening >= closing {
		return nil, fmt.Errorf("%w: opening %s is not before closing %s", ErrInvalidRange, opening, closing)
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w: step must be positive, got %d", ErrInvalidRange, step)
	}

	slots := make([]ClockTime, 0, (closing-opening).Minutes()/step)
	for slot := opening; slot.Add(step) <= closing; slot = slot.Add(step) {
		slots = append(slots, slot)
	}
	return slots, nil
}

// EndTime returns the instant an appointment ends.
func EndTime(appointment Appointment) (ClockTime, error) {
	if appointment.Duration < 0 {
		return 0, fmt.Errorf("%w: appointment %s has negative duration %d", ErrInvalidDuration, appointment.ID, appointment.Duration)
	}
	end := appointment.Start.Add(appointment.Duration)
	if end > EndOfDay {
		return 0, fmt.Errorf("%w: appointment %s ends at %s, after 24:00", ErrInvalidDuration, appointment.ID, end)
	}
	return end, nil
}

// IsFirstSlot reports whether slot is where the appointment's block begins.
func IsFirstSlot(appointment Appointment, slot ClockTime) bool {
	return slot == appointment.Start
}

// RowSpan is the number of grid rows an appointment block covers.
func RowSpan(appointment Appointment, step int) int {
	if step <= 0 || appointment.Duration <= 0 {
		return 0
	}
	return (appointment.Duration + step - 1) / step
}

// Snapshot is an immutable view of one day's roster and appointments.
type Snapshot struct {
	roster       map[string]struct{}
	appointments []Appointment
}

// NewSnapshot copies the roster and appointments after validating that every
// appointment references a rostered barber and ends within the day.
func NewSnapshot(barberIDs []string, appointments []Appointment) (*Snapshot, error) {
	roster := make(map[string]struct{}, len(barberIDs))
	for _, id := range barberIDs {
		roster[id] = struct{}{}
	}

	copied := make([]Appointment, len(appointments))
	copy(copied, appointments)
	for _, appointment := range copied {
		if _, ok := roster[appointment.BarberID]; !ok {
			return nil, fmt.Errorf("%w: appointment %s references barber %q", ErrUnknownBarber, appointment.ID, appointment.BarberID)
		}
		if appointment.Start < 0 {
			return nil, fmt.Errorf("%w: appointment %s starts before 00:00", ErrMalformedTimeLabel, appointment.ID)
		}
		if _, err := EndTime(appointment); err != nil {
			return nil, err
		}
	}

	return &Snapshot{roster: roster, appointments: copied}, nil
}

// Appointments returns a copy of the snapshot's appointments in their original order.
func (s *Snapshot) Appointments() []Appointment {
	if s == nil {
		return nil
	}
	out := make([]Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out
}

func (s *Snapshot) requireBarber(barberID string) error {
	if s == nil {
		return fmt.Errorf("%w: %q (empty snapshot)", ErrUnknownBarber, barberID)
	}
	if _, ok := s.roster[barberID]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBarber, barberID)
	}
	return nil
}

// AppointmentAt returns the appointment of barberID whose [start, end)
// interval contains slot. If bad input lets two appointments cover the same
// slot, the first in snapshot order wins.
func (s *Snapshot) AppointmentAt(barberID string, slot ClockTime) (Appointment, bool, error) {
	if err := s.requireBarber(barberID); err != nil {
		return Appointment{}, false, err
	}
	if slot < 0 || slot > EndOfDay {
		return Appointment{}, false, fmt.Errorf("%w: slot %d is outside the day", ErrMalformedTimeLabel, slot.Minutes())
	}
	for _, appointment := range s.appointments {
		if appointment.BarberID != barberID {
			continue
		}
		if appointment.Start <= slot && slot < appointment.Start.Add(appointment.Duration) {
			return appointment, true, nil
		}
	}
	return Appointment{}, false, nil
}

// IsOccupied reports whether any appointment of barberID covers slot.
func (s *Snapshot) IsOccupied(barberID string, slot ClockTime) (bool, error) {
	_, ok, err := s.AppointmentAt(barberID, slot)
	return ok, err
}

// OccupiedStartTimes lists the start times already taken for barberID. Only
// starts are included: a new booking's duration is unknown until services are
// picked, so full-interval checks belong to CheckCandidate.
func (s *Snapshot) OccupiedStartTimes(barberID string) (SlotSet, error) {
	if err := s.requireBarber(barberID); err != nil {
		return nil, err
	}
	set := make(SlotSet)
	for _, appointment := range s.appointments {
		if appointment.BarberID == barberID {
			set[appointment.Start] = struct{}{}
		}
	}
	return set, nil
}

// Overlapping returns the first appointment of barberID intersecting the
// half-open interval [start, start+duration).
func (s *Snapshot) Overlapping(barberID string, start ClockTime, duration int) (Appointment, bool, error) {
	if err := s.requireBarber(barberID); err != nil {
		return Appointment{}, false, err
	}
	candidate := Appointment{BarberID: barberID, Start: start, Duration: duration}
	end, err := EndTime(candidate)
	if err != nil {
		return Appointment{}, false, err
	}
	if start < 0 {
		return Appointment{}, false, fmt.Errorf("%w: candidate starts before 00:00", ErrMalformedTimeLabel)
	}
	if duration == 0 {
		return Appointment{}, false, nil
	}
	for _, appointment := range s.appointments {
		if appointment.BarberID != barberID || appointment.Duration == 0 {
			continue
		}
		existingEnd := appointment.Start.Add(appointment.Duration)
		if start < existingEnd && appointment.Start < end {
			return appointment, true, nil
		}
	}
	return Appointment{}, false, nil
}

// CheckCandidate validates a booking once its duration is known. It returns
// an *OverlapError when the candidate collides with an existing appointment.
func (s *Snapshot) CheckCandidate(barberID string, start ClockTime, duration int) error {
	existing, ok, err := s.Overlapping(barberID, start, duration)
	if err != nil {
		return err
	}
	if ok {
		return &OverlapError{With: existing}
	}
	return nil
}

// SlotSet is a set of clock times.
type SlotSet map[ClockTime]struct{}

// Contains reports membership.
func (s SlotSet) Contains(slot ClockTime) bool {
	_, ok := s[slot]
	return ok
}

// Sorted returns the members in ascending order.
func (s SlotSet) Sorted() []ClockTime {
	out := make([]ClockTime, 0, len(s))
	for slot := range s {
		out = append(out, slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
