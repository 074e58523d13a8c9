package models

import (
	"errors"
	"time"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
	"github.com/dojoworks/MAS-BookingService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// Response модели

// BookingResponse бронирование в ответе API
type BookingResponse struct {
	BookingID       int64            `json:"booking_id"`
	ClassID         int64            `json:"class_id"`
	ClassName       string           `json:"class_name"`
	Date            string           `json:"date"`
	StartTime       types.TimeString `json:"start_time"`
	MembershipCycle string           `json:"membership_cycle"`
	IsFreeTrial     bool             `json:"is_free_trial"`
	Status          string           `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusConfirmed:
		return domain.StatusConfirmed, nil
	case domain.StatusCancelled:
		return domain.StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

// FromDomainBooking конвертирует доменное бронирование в response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		BookingID:       b.ID,
		ClassID:         b.ClassID,
		ClassName:       b.ClassName,
		Date:            b.ClassDate.Format(domain.DateFormat),
		StartTime:       b.ClassTime,
		MembershipCycle: b.MembershipCycle,
		IsFreeTrial:     b.IsFreeTrial,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
	}
}

// FromDomainBookingList конвертирует список доменных бронирований в response
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
		Total:    len(bookings),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}
