package occupancy

import (
	"fmt"
	"strconv"
)

const (
	minutesPerHour = 60
	// EndOfDay is the latest instant an appointment may end at.
	EndOfDay ClockTime = 24 * minutesPerHour
)

// ClockTime is a wall-clock time within a single operating day, stored as
// minutes after midnight and labelled "HH:MM".
type ClockTime int

// ParseClockTime parses an "HH:MM" label. "24:00" is accepted so it can serve
// as a closing bound; every other label must fall within 00:00-23:59.
func ParseClockTime(label string) (ClockTime, error) {
	if len(label) != 5 || label[2] != ':' {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrMalformedTimeLabel, label)
	}
	hours, err := parseTwoDigits(label[:2])
	if err != nil {
		return 0, fmt.Errorf("%w: %q has an invalid hour", ErrMalformedTimeLabel, label)
	}
	minutes, err := parseTwoDigits(label[3:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q has an invalid minute", ErrMalformedTimeLabel, label)
	}
	if minutes >= minutesPerHour {
		return 0, fmt.Errorf("%w: %q has an invalid minute", ErrMalformedTimeLabel, label)
	}
	value := ClockTime(hours*minutesPerHour + minutes)
	if value > EndOfDay {
		return 0, fmt.Errorf("%w: %q is past the end of the day", ErrMalformedTimeLabel, label)
	}
	return value, nil
}

// MustParseClockTime is ParseClockTime for constant labels; it panics on error.
func MustParseClockTime(label string) ClockTime {
	value, err := ParseClockTime(label)
	if err != nil {
		panic(err)
	}
	return value
}

func parseTwoDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// Minutes returns the number of minutes after midnight.
func (c ClockTime) Minutes() int {
	return int(c)
}

// Add returns the clock time shifted by the given number of minutes. The
// result is not bounded; callers that need day bounds use EndTime.
func (c ClockTime) Add(minutes int) ClockTime {
	return c + ClockTime(minutes)
}

// String renders the "HH:MM" label.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/minutesPerHour, int(c)%minutesPerHour)
}

// MarshalText implements encoding.TextMarshaler.
func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ClockTime) UnmarshalText(text []byte) error {
	parsed, err := ParseClockTime(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
