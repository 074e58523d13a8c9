package domain

import (
	"time"

	"github.com/dojoworks/MAS-BookingService/pkg/types"
)

// RecurrenceRule describes the weekly recurrence of a class.
// Decoded once from the JSON columns at the repository boundary;
// weekday names and time formats are validated there, not on every expansion.
type RecurrenceRule struct {
	DaysOfWeek []time.Weekday
	// TimesByDay overrides the template's base time for specific weekdays
	TimesByDay map[time.Weekday]types.TimeString
}

// HasDays returns true if the rule names at least one weekday explicitly
func (r *RecurrenceRule) HasDays() bool {
	return r != nil && len(r.DaysOfWeek) > 0
}

// TimeFor returns the override time for the weekday, if any
func (r *RecurrenceRule) TimeFor(day time.Weekday) (types.TimeString, bool) {
	if r == nil || r.TimesByDay == nil {
		return "", false
	}
	t, ok := r.TimesByDay[day]
	return t, ok
}

// ClassTemplate is the admin-authored definition of a bookable class,
// possibly recurring. Read-only to the booking core.
type ClassTemplate struct {
	ID          int64
	Name        string
	Description string
	Capacity    int

	// Base occurrence; for recurring classes ClassDate anchors the legacy
	// own-weekday fallback and ClassTime is the default start time
	ClassDate time.Time
	ClassTime types.TimeString

	Recurring bool
	Rule      *RecurrenceRule
	// RuleInvalid is set when the stored recurrence JSON failed to decode;
	// callers must not treat such a template as recurring
	RuleInvalid bool

	InstructorID   *int64
	InstructorName *string

	// Optional age gate, inclusive bounds
	MinAge *int
	MaxAge *int

	TrialEligible bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAgeRestricted returns true if the class declares an age range
func (c *ClassTemplate) IsAgeRestricted() bool {
	return c.MinAge != nil || c.MaxAge != nil
}

// AllowsAge returns true if the given age falls inside the declared range
func (c *ClassTemplate) AllowsAge(age int) bool {
	if c.MinAge != nil && age < *c.MinAge {
		return false
	}
	if c.MaxAge != nil && age > *c.MaxAge {
		return false
	}
	return true
}
