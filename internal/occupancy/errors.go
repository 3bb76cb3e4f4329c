package occupancy

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned when slot generation bounds or step are unusable.
	ErrInvalidRange = errors.New("occupancy: invalid range")
	// ErrInvalidDuration is returned for negative durations or appointments ending after 24:00.
	ErrInvalidDuration = errors.New("occupancy: invalid duration")
	// ErrUnknownBarber is returned when a barber id is not part of the roster.
	ErrUnknownBarber = errors.New("occupancy: unknown barber")
	// ErrMalformedTimeLabel is returned when a slot label is not "HH:MM".
	ErrMalformedTimeLabel = errors.New("occupancy: malformed time label")
	// ErrOverlap is returned when a candidate booking intersects an existing appointment.
	ErrOverlap = errors.New("occupancy: overlapping appointment")
)

// OverlapError names the appointment a candidate booking collides with.
type OverlapError struct {
	With Appointment
}

// Error implements the error interface.
func (e *OverlapError) Error() string {
	if e == nil {
		return ""
	}
	end := e.With.Start.Add(e.With.Duration)
	return fmt.Sprintf("occupancy: overlaps appointment %s (%s-%s)", e.With.ID, e.With.Start, end)
}

// Unwrap lets errors.Is match ErrOverlap.
func (e *OverlapError) Unwrap() error {
	return ErrOverlap
}
