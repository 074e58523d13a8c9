package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
	bookingRepo "github.com/dojoworks/MAS-BookingService/internal/infra/storage/booking"
	classRepo "github.com/dojoworks/MAS-BookingService/internal/infra/storage/class"
	"github.com/dojoworks/MAS-BookingService/internal/service/eligibility"
	"github.com/dojoworks/MAS-BookingService/pkg/ptr"
	"github.com/dojoworks/MAS-BookingService/pkg/types"
)

type fakeBookingRepo struct {
	existing []*domain.Booking
	dup      *domain.Booking

	created *domain.Booking
	nextID  int64
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	created := *b
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	f.created = &created
	return &created, nil
}

func (f *fakeBookingRepo) GetActiveByUserClassDate(_ context.Context, _, _ int64, _ time.Time) (*domain.Booking, error) {
	if f.dup != nil {
		return f.dup, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (f *fakeBookingRepo) GetActiveByClassAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Booking, error) {
	return f.existing, nil
}

type fakeClassRepo struct {
	class *domain.ClassTemplate
	err   error
}

func (f *fakeClassRepo) GetByID(_ context.Context, _ int64) (*domain.ClassTemplate, error) {
	return f.class, f.err
}

type fakeUserRepo struct {
	trialMarked bool
}

func (f *fakeUserRepo) MarkFreeTrialUsed(_ context.Context, _ int64) error {
	f.trialMarked = true
	return nil
}

type fakeEligibility struct {
	decision *eligibility.Decision
	err      error
}

func (f *fakeEligibility) Evaluate(_ context.Context, _ int64, _ *domain.ClassTemplate, _ time.Time) (*eligibility.Decision, error) {
	return f.decision, f.err
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testClass() *domain.ClassTemplate {
	return &domain.ClassTemplate{
		ID:        10,
		Name:      "Adult BJJ",
		Capacity:  2,
		ClassDate: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		ClassTime: types.TimeString("19:00"),
		Recurring: true,
		Rule: &domain.RecurrenceRule{
			DaysOfWeek: []time.Weekday{time.Tuesday, time.Thursday},
			TimesByDay: map[time.Weekday]types.TimeString{
				time.Thursday: "18:00",
			},
		},
		TrialEligible: true,
	}
}

func allowedDecision() *eligibility.Decision {
	return &eligibility.Decision{
		Allowed: true,
		Reason:  eligibility.ReasonMembershipOK,
		Detail:  "you have used 1 of 4 classes this month",
		Used:    1,
		Limit:   ptr.Ptr(4),
	}
}

func newTestUseCase(br *fakeBookingRepo, cr *fakeClassRepo, ur *fakeUserRepo, el *fakeEligibility) *UseCase {
	uc := NewUseCase(br, cr, ur, el, fakeTxManager{}, nopLogger{})
	uc.timeProvider = fixedTime{t: time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)}
	return uc
}

func validRequest() *Request {
	return &Request{
		UserID:    1,
		ClassID:   10,
		Date:      "2026-09-08", // вторник
		StartTime: "19:00",
	}
}

func TestExecute_Success(t *testing.T) {
	br := &fakeBookingRepo{nextID: 100}
	ur := &fakeUserRepo{}
	uc := newTestUseCase(br, &fakeClassRepo{class: testClass()}, ur, &fakeEligibility{decision: allowedDecision()})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.BookingID)
	assert.Equal(t, "Adult BJJ", resp.ClassName)
	assert.Equal(t, "2026-09-08", resp.Date)
	assert.Equal(t, types.TimeString("19:00"), resp.StartTime)
	assert.False(t, resp.IsFreeTrial)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	require.NotNil(t, resp.RemainingThisCycle)
	assert.Equal(t, 2, *resp.RemainingThisCycle)

	require.NotNil(t, br.created)
	assert.Equal(t, "2026-09", br.created.MembershipCycle)
	assert.False(t, ur.trialMarked)
}

func TestExecute_FreeTrialMarksUser(t *testing.T) {
	br := &fakeBookingRepo{nextID: 101}
	ur := &fakeUserRepo{}
	el := &fakeEligibility{decision: &eligibility.Decision{
		Allowed: true,
		Reason:  eligibility.ReasonFreeTrial,
		Detail:  "this booking will use your free trial class",
	}}
	uc := newTestUseCase(br, &fakeClassRepo{class: testClass()}, ur, el)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, resp.IsFreeTrial)
	assert.True(t, ur.trialMarked)
	assert.Nil(t, resp.RemainingThisCycle)
	assert.Equal(t, "this booking will use your free trial class", resp.Message)
}

func TestExecute_DuplicateBooking(t *testing.T) {
	br := &fakeBookingRepo{dup: &domain.Booking{ID: 5, UserID: 1, ClassID: 10}}
	uc := newTestUseCase(br, &fakeClassRepo{class: testClass()}, &fakeUserRepo{}, &fakeEligibility{decision: allowedDecision()})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestExecute_ClassFull(t *testing.T) {
	br := &fakeBookingRepo{existing: []*domain.Booking{{ID: 1}, {ID: 2}}}
	uc := newTestUseCase(br, &fakeClassRepo{class: testClass()}, &fakeUserRepo{}, &fakeEligibility{decision: allowedDecision()})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrClassFull)
	assert.Nil(t, br.created)
}

func TestExecute_InvalidSlot(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeClassRepo{class: testClass()}, &fakeUserRepo{}, &fakeEligibility{decision: allowedDecision()})

	// Среда: занятие не проходит в этот день
	req := validRequest()
	req.Date = "2026-09-09"
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSlot)

	// Четверг, но время вторника: в четверг занятие в 18:00
	req = validRequest()
	req.Date = "2026-09-10"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestExecute_PastDate(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeClassRepo{class: testClass()}, &fakeUserRepo{}, &fakeEligibility{decision: allowedDecision()})

	req := validRequest()
	req.Date = "2026-08-25"
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_EligibilityRejections(t *testing.T) {
	tests := []struct {
		name    string
		reason  eligibility.Reason
		wantErr error
	}{
		{"age restricted", eligibility.ReasonAgeRestricted, ErrAgeRestricted},
		{"no membership", eligibility.ReasonNoMembership, ErrNoMembership},
		{"limit exceeded", eligibility.ReasonLimitExceeded, ErrLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := &fakeBookingRepo{}
			el := &fakeEligibility{decision: &eligibility.Decision{Allowed: false, Reason: tt.reason}}
			uc := newTestUseCase(br, &fakeClassRepo{class: testClass()}, &fakeUserRepo{}, el)

			_, err := uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, br.created)
		})
	}
}

func TestExecute_ClassNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeClassRepo{err: classRepo.ErrClassNotFound}, &fakeUserRepo{}, &fakeEligibility{decision: allowedDecision()})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeClassRepo{class: testClass()}, &fakeUserRepo{}, &fakeEligibility{decision: allowedDecision()})

	req := validRequest()
	req.Date = "08/09/2026"
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.ClassID = 0
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
