package list_class_instances

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
	"github.com/dojoworks/MAS-BookingService/pkg/types"
)

type fakeClassRepo struct {
	classes []*domain.ClassTemplate
	err     error
}

func (f *fakeClassRepo) ListAll(_ context.Context) ([]*domain.ClassTemplate, error) {
	return f.classes, f.err
}

type fakeBookingRepo struct {
	counts map[domain.InstanceKey]int
	err    error
}

func (f *fakeBookingRepo) CountActiveByDateRange(_ context.Context, _, _ time.Time) (map[domain.InstanceKey]int, error) {
	return f.counts, f.err
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestUseCase(classes []*domain.ClassTemplate, counts map[domain.InstanceKey]int) *UseCase {
	uc := NewUseCase(&fakeClassRepo{classes: classes}, &fakeBookingRepo{counts: counts}, nopLogger{})
	uc.timeProvider = fixedTime{t: date(2026, time.August, 31)}
	return uc
}

func bjjClass() *domain.ClassTemplate {
	return &domain.ClassTemplate{
		ID:        1,
		Name:      "Adult BJJ",
		Capacity:  10,
		ClassDate: date(2026, time.September, 1),
		ClassTime: types.TimeString("19:00"),
		Recurring: true,
		Rule: &domain.RecurrenceRule{
			DaysOfWeek: []time.Weekday{time.Tuesday, time.Thursday},
			TimesByDay: map[time.Weekday]types.TimeString{
				time.Thursday: "18:00",
			},
		},
	}
}

func workshopClass() *domain.ClassTemplate {
	return &domain.ClassTemplate{
		ID:        2,
		Name:      "Self-Defense Workshop",
		Capacity:  5,
		ClassDate: date(2026, time.September, 3),
		ClassTime: types.TimeString("10:00"),
		Recurring: false,
	}
}

func TestExecute_ExpandsAndOrdersInstances(t *testing.T) {
	uc := newTestUseCase([]*domain.ClassTemplate{bjjClass(), workshopClass()}, nil)

	resp, err := uc.Execute(context.Background(), &Request{
		From: date(2026, time.September, 1),
		To:   date(2026, time.September, 7),
	})
	require.NoError(t, err)
	require.Len(t, resp.Instances, 3)

	// Упорядочено по дате, затем по времени
	assert.Equal(t, "2026-09-01", resp.Instances[0].Date)
	assert.Equal(t, "Adult BJJ", resp.Instances[0].Name)
	assert.Equal(t, types.TimeString("19:00"), resp.Instances[0].StartTime)

	assert.Equal(t, "2026-09-03", resp.Instances[1].Date)
	assert.Equal(t, "Self-Defense Workshop", resp.Instances[1].Name)
	assert.Equal(t, types.TimeString("10:00"), resp.Instances[1].StartTime)

	assert.Equal(t, "2026-09-03", resp.Instances[2].Date)
	assert.Equal(t, "Adult BJJ", resp.Instances[2].Name)
	assert.Equal(t, types.TimeString("18:00"), resp.Instances[2].StartTime)
}

func TestExecute_InstanceIDsEncodeRecurrence(t *testing.T) {
	uc := newTestUseCase([]*domain.ClassTemplate{bjjClass(), workshopClass()}, nil)

	resp, err := uc.Execute(context.Background(), &Request{
		From: date(2026, time.September, 1),
		To:   date(2026, time.September, 3),
	})
	require.NoError(t, err)
	require.Len(t, resp.Instances, 3)

	assert.Equal(t, "1_2026-09-01", resp.Instances[0].InstanceID)
	assert.Equal(t, "2", resp.Instances[1].InstanceID, "one-off classes use the bare template id")
	assert.Equal(t, "1_2026-09-03", resp.Instances[2].InstanceID)
}

func TestExecute_AppliesBookingCounts(t *testing.T) {
	counts := map[domain.InstanceKey]int{
		{TemplateID: 1, Date: "2026-09-01"}: 8,
		{TemplateID: 1, Date: "2026-09-03"}: 10,
	}
	uc := newTestUseCase([]*domain.ClassTemplate{bjjClass()}, counts)

	resp, err := uc.Execute(context.Background(), &Request{
		From: date(2026, time.September, 1),
		To:   date(2026, time.September, 4),
	})
	require.NoError(t, err)
	require.Len(t, resp.Instances, 2)

	assert.Equal(t, 2, resp.Instances[0].SpotsRemaining)
	assert.Equal(t, string(domain.AvailabilityLow), resp.Instances[0].Availability)

	assert.Equal(t, 0, resp.Instances[1].SpotsRemaining)
	assert.Equal(t, string(domain.AvailabilityFull), resp.Instances[1].Availability)
}

func TestExecute_FiltersPastInstances(t *testing.T) {
	uc := newTestUseCase([]*domain.ClassTemplate{bjjClass()}, nil)
	// 2026-09-03, 18:30: занятие четверга в 18:00 уже началось
	uc.timeProvider = fixedTime{t: time.Date(2026, time.September, 3, 18, 30, 0, 0, time.UTC)}

	resp, err := uc.Execute(context.Background(), &Request{
		From: date(2026, time.September, 1),
		To:   date(2026, time.September, 8),
	})
	require.NoError(t, err)
	require.Len(t, resp.Instances, 1)
	assert.Equal(t, "2026-09-08", resp.Instances[0].Date)
}

func TestExecute_MalformedRuleDegradesToBaseDate(t *testing.T) {
	broken := bjjClass()
	broken.RuleInvalid = true
	uc := newTestUseCase([]*domain.ClassTemplate{broken}, nil)

	resp, err := uc.Execute(context.Background(), &Request{
		From: date(2026, time.September, 1),
		To:   date(2026, time.September, 30),
	})
	require.NoError(t, err)
	require.Len(t, resp.Instances, 1)
	assert.Equal(t, "2026-09-01", resp.Instances[0].Date)
}

func TestExecute_InvalidWindow(t *testing.T) {
	uc := newTestUseCase(nil, nil)

	_, err := uc.Execute(context.Background(), &Request{
		From: date(2026, time.September, 10),
		To:   date(2026, time.September, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = uc.Execute(context.Background(), &Request{
		From: date(2026, time.September, 1),
		To:   date(2027, time.September, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestExecute_EmptyCatalog(t *testing.T) {
	uc := newTestUseCase(nil, nil)

	resp, err := uc.Execute(context.Background(), &Request{
		From: date(2026, time.September, 1),
		To:   date(2026, time.September, 7),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Instances)
	assert.Equal(t, "2026-09-01", resp.From)
	assert.Equal(t, "2026-09-07", resp.To)
}
