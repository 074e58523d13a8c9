package list_class_instances

import (
	"time"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
	"github.com/dojoworks/MAS-BookingService/pkg/types"
)

// Request запрос на получение расписания занятий в окне дат
type Request struct {
	From time.Time
	To   time.Time
}

// InstanceResponse одно вычисленное занятие в расписании
type InstanceResponse struct {
	InstanceID     string           `json:"instance_id"`
	ClassID        int64            `json:"class_id"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	InstructorName *string          `json:"instructor_name,omitempty"`
	Recurring      bool             `json:"recurring"`
	Date           string           `json:"date"`
	StartTime      types.TimeString `json:"start_time"`
	Capacity       int              `json:"capacity"`
	SpotsRemaining int              `json:"spots_remaining"`
	Availability   string           `json:"availability"`
}

// Response ответ с расписанием занятий
type Response struct {
	From      string             `json:"from"`
	To        string             `json:"to"`
	Instances []InstanceResponse `json:"instances"`
}

// toInstanceResponse конвертирует доменный экземпляр в response
func toInstanceResponse(i *domain.ClassInstance) InstanceResponse {
	return InstanceResponse{
		InstanceID:     i.Key.Encode(i.Recurring),
		ClassID:        i.ClassID,
		Name:           i.Name,
		Description:    i.Description,
		InstructorName: i.InstructorName,
		Recurring:      i.Recurring,
		Date:           i.Date.Format(domain.DateFormat),
		StartTime:      i.StartTime,
		Capacity:       i.Capacity,
		SpotsRemaining: i.Availability.SpotsRemaining,
		Availability:   string(i.Availability.Status),
	}
}
