package create_booking

import (
	"fmt"
	"time"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
	"github.com/dojoworks/MAS-BookingService/pkg/types"
)

// validateRequest проверяет входные данные и парсит дату занятия
func validateRequest(req *Request) (time.Time, error) {
	if req.UserID <= 0 {
		return time.Time{}, fmt.Errorf("%w: user_id must be positive", ErrInvalidInput)
	}

	if req.ClassID <= 0 {
		return time.Time{}, fmt.Errorf("%w: class_id must be positive", ErrInvalidInput)
	}

	if req.Date == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return time.Time{}, fmt.Errorf("%w: start_time must be in HH:MM format", ErrInvalidInput)
	}

	return date, nil
}

// validateBookingTime проверяет, что запрошенный слот находится в будущем
func validateBookingTime(date time.Time, startTime types.TimeString, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return ErrInvalidDate
	}

	if !startTime.OnDate(date).After(now) {
		return ErrInvalidDate
	}

	return nil
}
