package domain

import (
	"fmt"
	"time"

	"github.com/dojoworks/MAS-BookingService/pkg/types"
)

// InstanceSlot is one expanded occurrence descriptor: date plus resolved time
type InstanceSlot struct {
	Date      time.Time
	StartTime types.TimeString
}

// weekdayNames lowercase weekday names as stored in the recurrence columns
var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday parses a lowercase weekday name ("tuesday")
func ParseWeekday(name string) (time.Weekday, error) {
	if d, ok := weekdayNames[name]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown weekday name %q", name)
}

// WeekdayName returns the lowercase name of a weekday
func WeekdayName(d time.Weekday) string {
	switch d {
	case time.Sunday:
		return "sunday"
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return ""
	}
}

// ExpandInstances turns a class template into concrete occurrence slots
// inside [windowStart, windowEnd] (date-inclusive on both ends).
//
// Non-recurring classes yield at most their single base occurrence.
// Recurring classes yield one occurrence per matching weekday per week;
// the time is the per-day override if present, else the base time.
// A recurring class without explicit days falls back to the weekday of its
// base date, always at the base time.
//
// Occurrences whose combined date+time is not strictly after now are
// dropped: the result only contains bookable future instances.
// Output is ordered by date ascending.
func ExpandInstances(c *ClassTemplate, windowStart, windowEnd, now time.Time) []InstanceSlot {
	slots := make([]InstanceSlot, 0)

	if !c.Recurring || c.RuleInvalid {
		date := dateOnly(c.ClassDate)
		if inWindow(date, windowStart, windowEnd) && c.ClassTime.OnDate(date).After(now) {
			slots = append(slots, InstanceSlot{Date: date, StartTime: c.ClassTime})
		}
		return slots
	}

	days := make(map[time.Weekday]bool)
	if c.Rule.HasDays() {
		for _, d := range c.Rule.DaysOfWeek {
			days[d] = true
		}
	} else {
		// Legacy templates carry no explicit days: recur weekly on the
		// weekday of the base date, at the base time
		days[c.ClassDate.Weekday()] = true
	}

	start := dateOnly(windowStart)
	end := dateOnly(windowEnd)

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if !days[date.Weekday()] {
			continue
		}

		startTime := c.ClassTime
		if c.Rule.HasDays() {
			if override, ok := c.Rule.TimeFor(date.Weekday()); ok {
				startTime = override
			}
		}

		if startTime.OnDate(date).After(now) {
			slots = append(slots, InstanceSlot{Date: date, StartTime: startTime})
		}
	}

	return slots
}

// ResolveTimeForDate returns the start time the template produces on the
// given date, and whether the date is a valid occurrence day at all.
// Used by the booking path to reject dates/times the recurrence never emits.
func ResolveTimeForDate(c *ClassTemplate, date time.Time) (types.TimeString, bool) {
	date = dateOnly(date)

	if !c.Recurring || c.RuleInvalid {
		if date.Equal(dateOnly(c.ClassDate)) {
			return c.ClassTime, true
		}
		return "", false
	}

	if !c.Rule.HasDays() {
		if date.Weekday() == c.ClassDate.Weekday() {
			return c.ClassTime, true
		}
		return "", false
	}

	for _, d := range c.Rule.DaysOfWeek {
		if d == date.Weekday() {
			if override, ok := c.Rule.TimeFor(d); ok {
				return override, true
			}
			return c.ClassTime, true
		}
	}

	return "", false
}

// MembershipCycle returns the year-month accounting bucket of a date
func MembershipCycle(date time.Time) string {
	return date.Format(CycleFormat)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func inWindow(date, windowStart, windowEnd time.Time) bool {
	return !date.Before(dateOnly(windowStart)) && !date.After(dateOnly(windowEnd))
}
