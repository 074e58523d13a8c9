package list_class_instances

import (
	"context"

	listInstances "github.com/dojoworks/MAS-BookingService/internal/usecase/list_class_instances"
)

type ListClassInstancesUseCase interface {
	Execute(ctx context.Context, req *listInstances.Request) (*listInstances.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
