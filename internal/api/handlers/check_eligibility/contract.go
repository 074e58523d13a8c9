package check_eligibility

import (
	"context"
	"time"

	"github.com/dojoworks/MAS-BookingService/internal/service/eligibility"
)

type EligibilityService interface {
	EvaluateForClass(ctx context.Context, userID, classID int64, targetDate time.Time) (*eligibility.Decision, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
