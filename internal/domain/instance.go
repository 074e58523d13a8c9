package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dojoworks/MAS-BookingService/pkg/types"
)

// AvailabilityStatus tri-state availability of a class instance
type AvailabilityStatus string

const (
	AvailabilityAvailable AvailabilityStatus = "available"
	AvailabilityLow       AvailabilityStatus = "low"
	AvailabilityFull      AvailabilityStatus = "full"
)

// Availability computed availability of one class instance
type Availability struct {
	SpotsRemaining int
	Status         AvailabilityStatus
}

// ComputeAvailability derives spots remaining and the tri-state status
// from capacity and the current confirmed-booking count.
// A non-positive capacity is reported as full with zero spots.
func ComputeAvailability(capacity, bookedCount int) Availability {
	if capacity <= 0 {
		return Availability{SpotsRemaining: 0, Status: AvailabilityFull}
	}

	spots := capacity - bookedCount
	if spots <= 0 {
		return Availability{SpotsRemaining: 0, Status: AvailabilityFull}
	}

	if float64(spots) <= LowAvailabilityRatio*float64(capacity) {
		return Availability{SpotsRemaining: spots, Status: AvailabilityLow}
	}

	return Availability{SpotsRemaining: spots, Status: AvailabilityAvailable}
}

// InstanceKey identifies one concrete occurrence of a class: template + date.
// Value type with structural equality; usable as a map key.
type InstanceKey struct {
	TemplateID int64
	Date       string // YYYY-MM-DD
}

// NewInstanceKey builds a key from a template id and a date
func NewInstanceKey(templateID int64, date time.Time) InstanceKey {
	return InstanceKey{TemplateID: templateID, Date: date.Format(DateFormat)}
}

// String returns the wire form "templateId_date" used by the calendar UI
// to address recurring instances
func (k InstanceKey) String() string {
	return fmt.Sprintf("%d_%s", k.TemplateID, k.Date)
}

// Encode returns the wire form of the key: "templateId_date" for recurring
// classes, plain "templateId" for one-off classes
func (k InstanceKey) Encode(recurring bool) string {
	if recurring {
		return k.String()
	}
	return strconv.FormatInt(k.TemplateID, 10)
}

// ClassInstance is one concrete, dated occurrence of a class with live
// availability. Computed on demand, never persisted.
type ClassInstance struct {
	Key            InstanceKey
	ClassID        int64
	Name           string
	Description    string
	InstructorName *string
	Recurring      bool

	Date      time.Time
	StartTime types.TimeString

	Capacity     int
	BookedCount  int
	Availability Availability
}

// StartsAt returns the combined date+time of the instance
func (i *ClassInstance) StartsAt() time.Time {
	return i.StartTime.OnDate(i.Date)
}
