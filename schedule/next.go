package schedule

import (
	"fmt"
	"time"

	"taskminder/task"
)

const (
	labelToday    = "Today"
	labelTomorrow = "Tomorrow"

	// Two months of forward scan reaches the next day-of-month match even
	// across a February without the requested day.
	monthlyScanDays = 62
)

// DescribeNext projects the task's next occurrence into a short label:
// "Today", "Tomorrow", a weekday name for routines within the week, or
// "Day N" for monthly rules. It returns "" when no occurrence is in reach.
//
// Every branch scans forward with OccursOn, so start-date gating and
// month-boundary arithmetic can't drift from the matcher.
func DescribeNext(t *task.Task, now time.Time) string {
	r := t.RepeatRule
	switch {
	case r.Routines != nil:
		for i := 0; i <= 7; i++ {
			d := now.AddDate(0, 0, i)
			if !OccursOn(t, d) {
				continue
			}
			switch i {
			case 0:
				return labelToday
			case 1:
				return labelTomorrow
			default:
				return task.WeekdayOf(d).Label()
			}
		}
		return ""

	case r.Custom != nil:
		switch r.Custom.Frequency {
		case task.Monthly:
			return nextMonthly(t, now)

		case task.Yearly:
			if t.StartDate == nil {
				return ""
			}
			if OccursOn(t, now) {
				return labelToday
			}
			return fmt.Sprintf("%s %d", t.StartDate.Month().String()[:3], t.StartDate.Day())
		}
	}

	return ""
}

func nextMonthly(t *task.Task, now time.Time) string {
	for i := 0; i <= monthlyScanDays; i++ {
		d := now.AddDate(0, 0, i)
		if !OccursOn(t, d) {
			continue
		}
		switch i {
		case 0:
			return labelToday
		case 1:
			return labelTomorrow
		default:
			return fmt.Sprintf("Day %d", d.Day())
		}
	}
	return ""
}
