package schedule

import (
	"fmt"
	"time"

	"taskminder/task"
)

// Kind discriminates trigger variants. It is part of the trigger identifier,
// so renaming a kind invalidates armed triggers.
type Kind string

const (
	KindWeekly  Kind = "weekly"  // every week on Weekday at Hour:Minute
	KindMonthly Kind = "monthly" // every month on Day at Hour:Minute
	KindYearly  Kind = "yearly"  // every year on Month/Day at Hour:Minute
	KindOnce    Kind = "once"    // exactly once, at At
)

// Trigger is one alert request for the notification service. ID is
// deterministic for a given task and trigger shape, which makes re-planning
// idempotent: the caller cancels everything under "taskID/" and arms the new
// plan.
type Trigger struct {
	ID     string
	TaskID string
	Kind   Kind

	Weekday task.Weekday // weekly
	Day     int          // monthly, yearly
	Month   time.Month   // yearly
	Hour    int          // recurring kinds
	Minute  int          // recurring kinds
	At      time.Time    // once

	// Delivery payload, passed through to the sender.
	Title string
	Alarm bool
}

// Prefix returns the identifier prefix under which all of a task's triggers
// live. Cancelling this prefix is the precondition for re-arming and the
// whole of deletion.
func Prefix(taskID string) string {
	return taskID + "/"
}

// Plan expands a task into the set of triggers to arm, honoring the
// lead-time offset. Recurring triggers are date-unaware, so a future start
// date additionally yields one gated one-shot for the very first alert.
//
// Empty rule values plan nothing at all, matching OccursOn: a rule with no
// occurrences gets no recurring triggers and no gated one-shot either.
func Plan(t *task.Task, now time.Time) []Trigger {
	alert := t.AlertTime()

	ruleTriggers := planRule(t, alert, now)
	if len(ruleTriggers) == 0 {
		return nil
	}

	var plan []Trigger

	if t.StartDate != nil {
		first := alert.On(*t.StartDate)
		if first.After(now) {
			plan = append(plan, oneShot(t, "start", first))
		}
	}

	return append(plan, ruleTriggers...)
}

func planRule(t *task.Task, alert task.TimeOfDay, now time.Time) []Trigger {
	var plan []Trigger

	r := t.RepeatRule
	switch {
	case r.Routines != nil:
		for _, d := range r.Routines.Days {
			plan = append(plan, Trigger{
				ID:      fmt.Sprintf("%s/%s/%d", t.ID, KindWeekly, d),
				TaskID:  t.ID,
				Kind:    KindWeekly,
				Weekday: d,
				Hour:    alert.Hour,
				Minute:  alert.Minute,
				Title:   t.Title,
				Alarm:   t.AlarmEnabled,
			})
		}

	case r.Custom != nil:
		switch r.Custom.Frequency {
		case task.Monthly:
			for _, day := range r.Custom.Values {
				plan = append(plan, Trigger{
					ID:     fmt.Sprintf("%s/%s/%d", t.ID, KindMonthly, day),
					TaskID: t.ID,
					Kind:   KindMonthly,
					Day:    day,
					Hour:   alert.Hour,
					Minute: alert.Minute,
					Title:  t.Title,
					Alarm:  t.AlarmEnabled,
				})
			}

		case task.Yearly:
			// Yearly rules anchor on the start date; without one there is
			// nothing to arm.
			if t.StartDate == nil {
				break
			}
			if len(r.Custom.Values) == 0 {
				plan = append(plan, Trigger{
					ID:     fmt.Sprintf("%s/%s/%d-%d", t.ID, KindYearly, t.StartDate.Month(), t.StartDate.Day()),
					TaskID: t.ID,
					Kind:   KindYearly,
					Month:  t.StartDate.Month(),
					Day:    t.StartDate.Day(),
					Hour:   alert.Hour,
					Minute: alert.Minute,
					Title:  t.Title,
					Alarm:  t.AlarmEnabled,
				})
				break
			}
			for _, year := range r.Custom.Values {
				at := time.Date(year, t.StartDate.Month(), t.StartDate.Day(),
					alert.Hour, alert.Minute, 0, 0, now.Location())
				if at.After(now) {
					plan = append(plan, oneShot(t, fmt.Sprintf("%d", year), at))
				}
			}
		}
	}

	return plan
}

func oneShot(t *task.Task, discriminator string, at time.Time) Trigger {
	return Trigger{
		ID:     fmt.Sprintf("%s/%s/%s", t.ID, KindOnce, discriminator),
		TaskID: t.ID,
		Kind:   KindOnce,
		At:     at,
		Title:  t.Title,
		Alarm:  t.AlarmEnabled,
	}
}
