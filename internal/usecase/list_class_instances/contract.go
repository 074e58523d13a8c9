package list_class_instances

import (
	"context"
	"time"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
)

// ClassRepository интерфейс репозитория занятий
type ClassRepository interface {
	ListAll(ctx context.Context) ([]*domain.ClassTemplate, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountActiveByDateRange(ctx context.Context, from, to time.Time) (map[domain.InstanceKey]int, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
