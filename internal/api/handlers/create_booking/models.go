package create_booking

import (
	createBooking "github.com/dojoworks/MAS-BookingService/internal/usecase/create_booking"
	"github.com/dojoworks/MAS-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ClassID   int64  `json:"class_id"`
	Date      string `json:"date"`       // "2026-09-15"
	StartTime string `json:"start_time"` // "19:00"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	BookingID          int64  `json:"booking_id"`
	ClassID            int64  `json:"class_id"`
	ClassName          string `json:"class_name"`
	Date               string `json:"date"`
	StartTime          string `json:"start_time"`
	IsFreeTrial        bool   `json:"is_free_trial"`
	Status             string `json:"status"`
	Message            string `json:"message"`
	RemainingThisCycle *int   `json:"remaining_this_cycle,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:    userID,
		ClassID:   r.ClassID,
		Date:      r.Date,
		StartTime: startTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		BookingID:          resp.BookingID,
		ClassID:            resp.ClassID,
		ClassName:          resp.ClassName,
		Date:               resp.Date,
		StartTime:          resp.StartTime.String(),
		IsFreeTrial:        resp.IsFreeTrial,
		Status:             resp.Status,
		Message:            resp.Message,
		RemainingThisCycle: resp.RemainingThisCycle,
	}
}
