package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const minutesPerDay = 24 * 60

var (
	errUnknownFormat = errors.New("unknown time format")
	errOutOfRange    = errors.New("value is out of range")
)

// TimeOfDay is a date-independent wall-clock time.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return TimeOfDay{}, errUnknownFormat
	}

	h, err := strconv.Atoi(hh)
	if err != nil {
		return TimeOfDay{}, errUnknownFormat
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return TimeOfDay{}, errUnknownFormat
	}

	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, errOutOfRange
	}

	return TimeOfDay{Hour: h, Minute: m}, nil
}

// FromMinutes builds a TimeOfDay from minutes since midnight, as stored in
// the database.
func FromMinutes(m int) TimeOfDay {
	m %= minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return TimeOfDay{Hour: m / 60, Minute: m % 60}
}

// Minutes returns the time as minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Minus subtracts the given number of minutes, wrapping across midnight.
func (t TimeOfDay) Minus(minutes int) TimeOfDay {
	return FromMinutes(t.Minutes() - minutes)
}

// On combines the time with the calendar day of the given date.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return errUnknownFormat
	}

	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}

	*t = parsed
	return nil
}

// Day truncates the given instant to midnight of its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
