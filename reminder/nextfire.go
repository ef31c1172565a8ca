package reminder

import (
	"time"

	"taskminder/schedule"
	"taskminder/task"
)

// Scan limits for recurring triggers. Monthly triggers for day 31 skip short
// months and yearly triggers for Feb 29 skip non-leap years, so the scan has
// to reach the next leap year in the worst case.
const (
	monthScanLimit = 48
	yearScanLimit  = 8
)

// nextFire returns the first instant strictly after the given one at which
// the trigger fires. ok is false for a trigger that never fires again, which
// is how one-shots are consumed.
func nextFire(trg schedule.Trigger, after time.Time) (time.Time, bool) {
	switch trg.Kind {
	case schedule.KindOnce:
		if trg.At.After(after) {
			return trg.At, true
		}
		return time.Time{}, false

	case schedule.KindWeekly:
		for i := 0; i <= 7; i++ {
			d := after.AddDate(0, 0, i)
			at := time.Date(d.Year(), d.Month(), d.Day(), trg.Hour, trg.Minute, 0, 0, after.Location())
			if trg.Weekday == task.WeekdayOf(at) && at.After(after) {
				return at, true
			}
		}
		return time.Time{}, false

	case schedule.KindMonthly:
		for i := 0; i < monthScanLimit; i++ {
			at := time.Date(after.Year(), after.Month()+time.Month(i), trg.Day,
				trg.Hour, trg.Minute, 0, 0, after.Location())
			// time.Date normalizes day overflow into the next month; such a
			// month doesn't have the requested day at all.
			if at.Day() != trg.Day {
				continue
			}
			if at.After(after) {
				return at, true
			}
		}
		return time.Time{}, false

	case schedule.KindYearly:
		for i := 0; i < yearScanLimit; i++ {
			at := time.Date(after.Year()+i, trg.Month, trg.Day,
				trg.Hour, trg.Minute, 0, 0, after.Location())
			if at.Month() != trg.Month || at.Day() != trg.Day {
				continue
			}
			if at.After(after) {
				return at, true
			}
		}
		return time.Time{}, false
	}

	return time.Time{}, false
}
