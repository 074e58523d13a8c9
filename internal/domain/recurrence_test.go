package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dojoworks/MAS-BookingService/pkg/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func recurringClass() *ClassTemplate {
	return &ClassTemplate{
		ID:        1,
		Name:      "Adult BJJ",
		Capacity:  20,
		ClassDate: date(2026, time.September, 1), // вторник
		ClassTime: types.TimeString("19:00"),
		Recurring: true,
		Rule: &RecurrenceRule{
			DaysOfWeek: []time.Weekday{time.Tuesday, time.Thursday},
			TimesByDay: map[time.Weekday]types.TimeString{
				time.Thursday: "18:00",
			},
		},
	}
}

func TestExpandInstances_WeeklyWithDayOverride(t *testing.T) {
	c := recurringClass()
	now := date(2026, time.August, 31) // понедельник

	// Две полные недели: 2026-09-01 .. 2026-09-14
	slots := ExpandInstances(c, date(2026, time.September, 1), date(2026, time.September, 14), now)
	require.Len(t, slots, 4)

	assert.Equal(t, date(2026, time.September, 1), slots[0].Date)
	assert.Equal(t, types.TimeString("19:00"), slots[0].StartTime)

	assert.Equal(t, date(2026, time.September, 3), slots[1].Date)
	assert.Equal(t, types.TimeString("18:00"), slots[1].StartTime, "thursday uses the per-day override")

	assert.Equal(t, date(2026, time.September, 8), slots[2].Date)
	assert.Equal(t, types.TimeString("19:00"), slots[2].StartTime)

	assert.Equal(t, date(2026, time.September, 10), slots[3].Date)
	assert.Equal(t, types.TimeString("18:00"), slots[3].StartTime)
}

func TestExpandInstances_Deterministic(t *testing.T) {
	c := recurringClass()
	now := date(2026, time.August, 31)
	from, to := date(2026, time.September, 1), date(2026, time.September, 30)

	first := ExpandInstances(c, from, to, now)
	second := ExpandInstances(c, from, to, now)

	assert.Equal(t, first, second)
}

func TestExpandInstances_DropsPastOccurrences(t *testing.T) {
	c := recurringClass()
	// 2026-09-08, 18:30: занятие этого вторника в 19:00 еще впереди
	now := time.Date(2026, time.September, 8, 18, 30, 0, 0, time.UTC)

	slots := ExpandInstances(c, date(2026, time.September, 1), date(2026, time.September, 10), now)
	require.Len(t, slots, 2)
	assert.Equal(t, date(2026, time.September, 8), slots[0].Date)
	assert.Equal(t, date(2026, time.September, 10), slots[1].Date)
}

func TestExpandInstances_LegacyFallbackUsesBaseWeekday(t *testing.T) {
	c := &ClassTemplate{
		ID:        2,
		Name:      "Judo Fundamentals",
		Capacity:  15,
		ClassDate: date(2026, time.September, 2), // среда
		ClassTime: types.TimeString("17:30"),
		Recurring: true,
		Rule:      nil,
	}
	now := date(2026, time.August, 31)

	slots := ExpandInstances(c, date(2026, time.September, 1), date(2026, time.September, 14), now)
	require.Len(t, slots, 2)
	for _, slot := range slots {
		assert.Equal(t, time.Wednesday, slot.Date.Weekday())
		assert.Equal(t, types.TimeString("17:30"), slot.StartTime)
	}
}

func TestExpandInstances_NonRecurringSingleOccurrence(t *testing.T) {
	c := &ClassTemplate{
		ID:        3,
		Name:      "Self-Defense Workshop",
		Capacity:  30,
		ClassDate: date(2026, time.September, 5),
		ClassTime: types.TimeString("10:00"),
		Recurring: false,
	}
	now := date(2026, time.August, 31)

	slots := ExpandInstances(c, date(2026, time.September, 1), date(2026, time.September, 30), now)
	require.Len(t, slots, 1)
	assert.Equal(t, date(2026, time.September, 5), slots[0].Date)

	// Вне окна
	slots = ExpandInstances(c, date(2026, time.September, 6), date(2026, time.September, 30), now)
	assert.Empty(t, slots)

	// Уже прошло
	slots = ExpandInstances(c, date(2026, time.September, 1), date(2026, time.September, 30), date(2026, time.September, 6))
	assert.Empty(t, slots)
}

func TestExpandInstances_MalformedRuleFallsBackToBaseDate(t *testing.T) {
	c := recurringClass()
	c.RuleInvalid = true
	now := date(2026, time.August, 31)

	slots := ExpandInstances(c, date(2026, time.September, 1), date(2026, time.September, 30), now)
	require.Len(t, slots, 1)
	assert.Equal(t, date(2026, time.September, 1), slots[0].Date)
	assert.Equal(t, types.TimeString("19:00"), slots[0].StartTime)
}

func TestResolveTimeForDate(t *testing.T) {
	c := recurringClass()

	got, ok := ResolveTimeForDate(c, date(2026, time.September, 8)) // вторник
	require.True(t, ok)
	assert.Equal(t, types.TimeString("19:00"), got)

	got, ok = ResolveTimeForDate(c, date(2026, time.September, 10)) // четверг
	require.True(t, ok)
	assert.Equal(t, types.TimeString("18:00"), got)

	_, ok = ResolveTimeForDate(c, date(2026, time.September, 9)) // среда
	assert.False(t, ok)
}

func TestMembershipCycle(t *testing.T) {
	assert.Equal(t, "2026-09", MembershipCycle(date(2026, time.September, 15)))
	assert.Equal(t, "2026-01", MembershipCycle(date(2026, time.January, 1)))
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("tuesday")
	require.NoError(t, err)
	assert.Equal(t, time.Tuesday, d)

	_, err = ParseWeekday("Tuesday")
	assert.Error(t, err)

	_, err = ParseWeekday("someday")
	assert.Error(t, err)
}
