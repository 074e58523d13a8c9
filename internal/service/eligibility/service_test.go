package eligibility

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
	membershipRepo "github.com/dojoworks/MAS-BookingService/internal/infra/storage/membership"
	userRepo "github.com/dojoworks/MAS-BookingService/internal/infra/storage/user"
	"github.com/dojoworks/MAS-BookingService/pkg/ptr"
)

type fakeUserRepo struct {
	user *domain.User
	err  error
}

func (f *fakeUserRepo) GetByID(_ context.Context, _ int64) (*domain.User, error) {
	return f.user, f.err
}

type fakeMembershipRepo struct {
	record *domain.MembershipRecord
	err    error
}

func (f *fakeMembershipRepo) GetActiveForUser(_ context.Context, _ int64, _ time.Time) (*domain.MembershipRecord, error) {
	return f.record, f.err
}

type fakeBookingRepo struct {
	count int
	err   error
}

func (f *fakeBookingRepo) CountNonTrialByUserAndCycle(_ context.Context, _ int64, _ string) (int, error) {
	return f.count, f.err
}

type fakeClassRepo struct {
	class *domain.ClassTemplate
	err   error
}

func (f *fakeClassRepo) GetByID(_ context.Context, _ int64) (*domain.ClassTemplate, error) {
	return f.class, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func limitedMembership(limit int) *domain.MembershipRecord {
	return &domain.MembershipRecord{
		ID:     1,
		UserID: 1,
		Status: domain.MembershipActive,
		Plan: &domain.MembershipPlan{
			ID:                1,
			Name:              "Basic",
			MonthlyClassLimit: ptr.Ptr(limit),
		},
	}
}

func unlimitedMembership() *domain.MembershipRecord {
	return &domain.MembershipRecord{
		ID:     2,
		UserID: 1,
		Status: domain.MembershipActive,
		Plan:   &domain.MembershipPlan{ID: 2, Name: "Unlimited"},
	}
}

func newService(u *fakeUserRepo, m *fakeMembershipRepo, b *fakeBookingRepo, c *fakeClassRepo) *Service {
	if m == nil {
		m = &fakeMembershipRepo{err: membershipRepo.ErrMembershipNotFound}
	}
	if b == nil {
		b = &fakeBookingRepo{}
	}
	if c == nil {
		c = &fakeClassRepo{}
	}
	return NewService(u, m, b, c, nopLogger{})
}

func adultClass() *domain.ClassTemplate {
	return &domain.ClassTemplate{ID: 10, Name: "Adult BJJ", Capacity: 20, TrialEligible: true}
}

var targetDate = time.Date(2026, time.September, 8, 0, 0, 0, 0, time.UTC)

func TestEvaluate_FreeTrial(t *testing.T) {
	svc := newService(
		&fakeUserRepo{user: &domain.User{ID: 1, FreeTrialUsed: false}},
		nil, nil, nil,
	)

	d, err := svc.Evaluate(context.Background(), 1, adultClass(), targetDate)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, ReasonFreeTrial, d.Reason)
}

func TestEvaluate_TrialUsedAndNoMembership(t *testing.T) {
	svc := newService(
		&fakeUserRepo{user: &domain.User{ID: 1, FreeTrialUsed: true}},
		&fakeMembershipRepo{err: membershipRepo.ErrMembershipNotFound},
		nil, nil,
	)

	d, err := svc.Evaluate(context.Background(), 1, adultClass(), targetDate)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNoMembership, d.Reason)
}

func TestEvaluate_TrialNotEligibleClassFallsThroughToMembership(t *testing.T) {
	class := adultClass()
	class.TrialEligible = false

	svc := newService(
		&fakeUserRepo{user: &domain.User{ID: 1, FreeTrialUsed: false}},
		&fakeMembershipRepo{record: unlimitedMembership()},
		nil, nil,
	)

	d, err := svc.Evaluate(context.Background(), 1, class, targetDate)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, ReasonMembershipOK, d.Reason)
}

func TestEvaluate_UnlimitedMembership(t *testing.T) {
	svc := newService(
		&fakeUserRepo{user: &domain.User{ID: 1, FreeTrialUsed: true}},
		&fakeMembershipRepo{record: unlimitedMembership()},
		nil, nil,
	)

	d, err := svc.Evaluate(context.Background(), 1, adultClass(), targetDate)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, ReasonMembershipOK, d.Reason)
	assert.Nil(t, d.Limit)
}

func TestEvaluate_LimitEnforcement(t *testing.T) {
	tests := []struct {
		name        string
		used        int
		limit       int
		wantAllowed bool
		wantReason  Reason
	}{
		{"under limit", 2, 4, true, ReasonMembershipOK},
		{"one below limit", 3, 4, true, ReasonMembershipOK},
		{"at limit", 4, 4, false, ReasonLimitExceeded},
		{"over limit", 5, 4, false, ReasonLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(
				&fakeUserRepo{user: &domain.User{ID: 1, FreeTrialUsed: true}},
				&fakeMembershipRepo{record: limitedMembership(tt.limit)},
				&fakeBookingRepo{count: tt.used},
				nil,
			)

			d, err := svc.Evaluate(context.Background(), 1, adultClass(), targetDate)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			assert.Equal(t, tt.wantReason, d.Reason)
			require.NotNil(t, d.Limit)
			assert.Equal(t, tt.limit, *d.Limit)
			assert.Equal(t, tt.used, d.Used)
		})
	}
}

func TestEvaluate_AgeRestrictionBeatsFreeTrial(t *testing.T) {
	dob := time.Date(2016, time.March, 10, 0, 0, 0, 0, time.UTC) // 10 лет на целевую дату
	class := adultClass()
	class.MinAge = ptr.Ptr(16)

	svc := newService(
		&fakeUserRepo{user: &domain.User{ID: 1, DateOfBirth: &dob, FreeTrialUsed: false}},
		nil, nil, nil,
	)

	d, err := svc.Evaluate(context.Background(), 1, class, targetDate)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonAgeRestricted, d.Reason)
}

func TestEvaluate_UnknownBirthDateFailsAgeGate(t *testing.T) {
	class := adultClass()
	class.MinAge = ptr.Ptr(16)

	svc := newService(
		&fakeUserRepo{user: &domain.User{ID: 1, FreeTrialUsed: true}},
		&fakeMembershipRepo{record: unlimitedMembership()},
		nil, nil,
	)

	d, err := svc.Evaluate(context.Background(), 1, class, targetDate)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonAgeRestricted, d.Reason)
}

func TestEvaluate_AgeInsideRange(t *testing.T) {
	dob := time.Date(2000, time.March, 10, 0, 0, 0, 0, time.UTC)
	class := adultClass()
	class.MinAge = ptr.Ptr(16)
	class.MaxAge = ptr.Ptr(40)

	svc := newService(
		&fakeUserRepo{user: &domain.User{ID: 1, DateOfBirth: &dob, FreeTrialUsed: true}},
		&fakeMembershipRepo{record: unlimitedMembership()},
		nil, nil,
	)

	d, err := svc.Evaluate(context.Background(), 1, class, targetDate)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestEvaluate_UserNotFound(t *testing.T) {
	svc := newService(&fakeUserRepo{err: userRepo.ErrUserNotFound}, nil, nil, nil)

	_, err := svc.Evaluate(context.Background(), 1, adultClass(), targetDate)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestEvaluate_InfrastructureErrorIsInternal(t *testing.T) {
	svc := newService(
		&fakeUserRepo{user: &domain.User{ID: 1, FreeTrialUsed: true}},
		&fakeMembershipRepo{err: errors.New("connection refused")},
		nil, nil,
	)

	_, err := svc.Evaluate(context.Background(), 1, adultClass(), targetDate)
	assert.ErrorIs(t, err, ErrInternal)
}
