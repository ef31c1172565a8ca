package task

import "time"

// Weekday uses the stored numbering: 1 is Sunday, 7 is Saturday.
type Weekday int

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayLabels = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

// Label returns the short display name, e.g. "Mon".
func (w Weekday) Label() string {
	if !w.Valid() {
		return "?"
	}
	return weekdayLabels[w-1]
}

func (w Weekday) String() string {
	return w.Label()
}

// WeekdayOf converts from the standard library numbering (0 is Sunday).
func WeekdayOf(t time.Time) Weekday {
	return Weekday(int(t.Weekday()) + 1)
}
