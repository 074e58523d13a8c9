package list_class_instances

import (
	"fmt"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
)

// validateRequest проверяет окно дат
func validateRequest(req *Request) error {
	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidWindow)
	}

	if req.To.Before(req.From) {
		return fmt.Errorf("%w: to must not be before from", ErrInvalidWindow)
	}

	days := int(req.To.Sub(req.From).Hours()/24) + 1
	if days > domain.MaxWindowDays {
		return fmt.Errorf("%w: window must not exceed %d days", ErrInvalidWindow, domain.MaxWindowDays)
	}

	return nil
}
