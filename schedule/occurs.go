// Package schedule holds the recurrence engine: it decides on which
// calendar days a task occurs, expands a task into the alert triggers to
// arm, picks the completed tasks whose done flag has gone stale, and
// projects the next occurrence into a short label.
//
// Every function here is pure: it consumes a task and a reference instant
// and returns a value. Arming triggers and persisting flags belong to the
// callers.
package schedule

import (
	"time"

	"taskminder/task"
)

// OccursOn reports whether the task occurs on the given calendar day. The
// time-of-day part of date is ignored.
//
// This is the single source of truth for "due today", calendar cells and
// completion resets; empty rule values mean the task never occurs.
func OccursOn(t *task.Task, date time.Time) bool {
	if !t.Started(date) {
		return false
	}

	r := t.RepeatRule
	switch {
	case r.Routines != nil:
		wd := task.WeekdayOf(date)
		for _, d := range r.Routines.Days {
			if d == wd {
				return true
			}
		}
		return false

	case r.Custom != nil:
		switch r.Custom.Frequency {
		case task.Monthly:
			for _, d := range r.Custom.Values {
				if d == date.Day() {
					return true
				}
			}
			return false

		case task.Yearly:
			// Yearly rules anchor on the start date's month and day.
			if t.StartDate == nil {
				return false
			}
			if date.Month() != t.StartDate.Month() || date.Day() != t.StartDate.Day() {
				return false
			}
			if len(r.Custom.Values) == 0 {
				return true
			}
			for _, y := range r.Custom.Values {
				if y == date.Year() {
					return true
				}
			}
			return false
		}
	}

	return false
}
