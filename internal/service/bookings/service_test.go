package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
	bookingRepo "github.com/dojoworks/MAS-BookingService/internal/infra/storage/booking"
	"github.com/dojoworks/MAS-BookingService/internal/service/bookings/models"
	"github.com/dojoworks/MAS-BookingService/pkg/ptr"
)

type fakeBookingRepo struct {
	booking *domain.Booking
	list    []*domain.Booking

	updatedID     int64
	updatedStatus domain.BookingStatus
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	b := *f.booking
	return &b, nil
}

func (f *fakeBookingRepo) GetByUserID(_ context.Context, _ int64, _ *domain.BookingStatus) ([]*domain.Booking, error) {
	return f.list, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	f.updatedID = id
	f.updatedStatus = status
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:              7,
		ClassID:         10,
		UserID:          1,
		ClassDate:       time.Date(2026, time.September, 8, 0, 0, 0, 0, time.UTC),
		ClassTime:       "19:00",
		MembershipCycle: "2026-09",
		Status:          domain.StatusConfirmed,
		ClassName:       "Adult BJJ",
	}
}

func TestCancel_Success(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Cancel(context.Background(), 7, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(7), repo.updatedID)
	assert.Equal(t, domain.StatusCancelled, repo.updatedStatus)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
}

func TestCancel_NotOwner(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	svc := NewService(repo, nopLogger{})

	_, err := svc.Cancel(context.Background(), 7, 2)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, repo.updatedID)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	b := confirmedBooking()
	b.Status = domain.StatusCancelled
	svc := NewService(&fakeBookingRepo{booking: b}, nopLogger{})

	_, err := svc.Cancel(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_NotFound(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, nopLogger{})

	_, err := svc.Cancel(context.Background(), 999, 1)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetUserBookings(t *testing.T) {
	repo := &fakeBookingRepo{list: []*domain.Booking{confirmedBooking()}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 1})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Adult BJJ", resp.Bookings[0].ClassName)
	assert.Equal(t, "2026-09-08", resp.Bookings[0].Date)
}

func TestGetUserBookings_InvalidStatus(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, nopLogger{})

	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: 1,
		Status: ptr.Ptr("pending"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
