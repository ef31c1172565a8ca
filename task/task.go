package task

import (
	"time"

	"github.com/google/uuid"
)

// Task is a single reminder entry. IsDone is not a history: it is cleared
// again once the next occurrence's scheduled instant has passed. LastDone
// records the calendar day of the most recent completion so that a task
// completed early today is not reset within the same occurrence.
type Task struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Time               TimeOfDay  `json:"time"`
	StartDate          *time.Time `json:"startDate,omitempty"`
	RepeatRule         Rule       `json:"repeatRule"`
	Label              string     `json:"label,omitempty"`
	IsDone             bool       `json:"isDone"`
	AlarmEnabled       bool       `json:"alarmEnabled"`
	NotificationOffset int        `json:"notificationOffset"`
	LastDone           *time.Time `json:"lastDone,omitempty"`
}

// New creates a task with a fresh identifier. The identifier stays stable
// across edits; edits replace fields in place.
func New(title string, at TimeOfDay, rule Rule) Task {
	return Task{
		ID:         uuid.NewString(),
		Title:      title,
		Time:       at,
		RepeatRule: rule,
	}
}

// Started reports whether the task is active on the given day: tasks never
// occur before their start date. Both sides are compared at day granularity.
func (t *Task) Started(date time.Time) bool {
	if t.StartDate == nil {
		return true
	}
	return !Day(date).Before(Day(*t.StartDate))
}

// AlertTime is the instant-of-day at which the alert actually fires: the
// task time minus the lead-time offset, wrapping across midnight.
func (t *Task) AlertTime() TimeOfDay {
	offset := t.NotificationOffset
	if offset < 0 {
		offset = 0
	}
	return t.Time.Minus(offset)
}
