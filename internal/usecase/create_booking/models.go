package create_booking

import (
	"github.com/dojoworks/MAS-BookingService/pkg/types"
)

// Request запрос на создание бронирования
type Request struct {
	UserID    int64            `json:"-"`
	ClassID   int64            `json:"class_id"`
	Date      string           `json:"date"`
	StartTime types.TimeString `json:"start_time"`
}

// Response ответ с данными созданного бронирования
type Response struct {
	BookingID          int64            `json:"booking_id"`
	ClassID            int64            `json:"class_id"`
	ClassName          string           `json:"class_name"`
	Date               string           `json:"date"`
	StartTime          types.TimeString `json:"start_time"`
	IsFreeTrial        bool             `json:"is_free_trial"`
	Status             string           `json:"status"`
	Message            string           `json:"message"`
	RemainingThisCycle *int             `json:"remaining_this_cycle,omitempty"`
}
