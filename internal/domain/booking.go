package domain

import (
	"time"

	"github.com/dojoworks/MAS-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a user's reservation of one class instance
type Booking struct {
	ID      int64
	ClassID int64
	UserID  int64

	ClassDate time.Time
	ClassTime types.TimeString

	// MembershipCycle is the YYYY-MM bucket of ClassDate, used for
	// monthly class-limit accounting
	MembershipCycle string
	IsFreeTrial     bool

	Status BookingStatus

	// Denormalized for history views
	ClassName string

	CreatedAt time.Time
}

// IsActive returns true if the booking still counts against capacity
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// ClassBookingsFilter фильтр подсчёта/выборки бронирований занятия
type ClassBookingsFilter struct {
	ClassID         int64
	Date            *time.Time // конкретная дата занятия (nil - все даты)
	IncludeInactive bool       // включать ли отменённые бронирования
}
