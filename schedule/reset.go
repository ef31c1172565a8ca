package schedule

import (
	"time"

	"taskminder/task"
)

// ResetDue returns the ids of completed tasks whose done flag has gone
// stale: the task occurs today and today's scheduled instant has passed, so
// the next occurrence window has begun.
//
// A LastDone date on today's day means the current occurrence itself was
// completed and the task is left alone until tomorrow's pass. Tasks without
// LastDone fall back to the time-of-day heuristic alone, which cannot tell
// "completed today" from "completed a past occurrence".
func ResetDue(tasks []task.Task, now time.Time) []string {
	var due []string
	for i := range tasks {
		t := &tasks[i]
		if !t.IsDone {
			continue
		}
		if !OccursOn(t, now) {
			continue
		}
		if t.LastDone != nil && task.SameDay(*t.LastDone, now) {
			continue
		}
		if !now.Before(t.Time.On(now)) {
			due = append(due, t.ID)
		}
	}
	return due
}
