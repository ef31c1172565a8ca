package task

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrInvalidRule marks a recurrence rule that doesn't decode into a known
// variant. Tasks carrying such rules are dropped from a load rather than
// failing it.
var ErrInvalidRule = errors.New("invalid recurrence rule")

type Frequency string

const (
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// Rule describes how often a task recurs. Exactly one variant is set; there
// is no separate "no repeat" state — a Routines rule with no days plays that
// role.
type Rule struct {
	Routines *Routines `json:"routines,omitempty"`
	Custom   *Custom   `json:"custom,omitempty"`
}

// Routines recurs on a set of weekdays.
type Routines struct {
	Days []Weekday `json:"days"`
}

// Custom recurs monthly on listed days of the month, or yearly in listed
// years on the task's start month/day. An empty Values list means "never"
// for monthly rules and "every year" for yearly ones.
type Custom struct {
	Frequency Frequency `json:"frequency"`
	Values    []int     `json:"values"`
}

// NewRoutines builds a weekday rule. No days means the task never recurs.
func NewRoutines(days ...Weekday) Rule {
	return Rule{Routines: &Routines{Days: days}}
}

// NewMonthly builds a day-of-month rule.
func NewMonthly(days ...int) Rule {
	return Rule{Custom: &Custom{Frequency: Monthly, Values: days}}
}

// NewYearly builds a yearly rule restricted to the given years; with no
// years it matches every year.
func NewYearly(years ...int) Rule {
	return Rule{Custom: &Custom{Frequency: Yearly, Values: years}}
}

// Validate checks that exactly one variant is set and its values are in
// range.
func (r *Rule) Validate() error {
	switch {
	case r.Routines != nil && r.Custom != nil:
		return errors.Wrap(ErrInvalidRule, "both variants set")

	case r.Routines != nil:
		for _, d := range r.Routines.Days {
			if !d.Valid() {
				return errors.Wrapf(ErrInvalidRule, "weekday %d", d)
			}
		}
		return nil

	case r.Custom != nil:
		switch r.Custom.Frequency {
		case Monthly:
			for _, d := range r.Custom.Values {
				if d < 1 || d > 31 {
					return errors.Wrapf(ErrInvalidRule, "day of month %d", d)
				}
			}
		case Yearly:
			for _, y := range r.Custom.Values {
				if y < 1 || y > 9999 {
					return errors.Wrapf(ErrInvalidRule, "year %d", y)
				}
			}
		default:
			return errors.Wrapf(ErrInvalidRule, "frequency %q", r.Custom.Frequency)
		}
		return nil

	default:
		return errors.Wrap(ErrInvalidRule, "no variant set")
	}
}

func (r *Rule) UnmarshalJSON(b []byte) error {
	type rule Rule // drop methods to avoid recursion

	var decoded rule
	if err := json.Unmarshal(b, &decoded); err != nil {
		return errors.Wrap(ErrInvalidRule, err.Error())
	}

	*r = Rule(decoded)
	return r.Validate()
}
