package create_booking

import (
	"context"
	"time"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
	"github.com/dojoworks/MAS-BookingService/internal/service/eligibility"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveByUserClassDate(ctx context.Context, userID, classID int64, date time.Time) (*domain.Booking, error)
	GetActiveByClassAndDate(ctx context.Context, classID int64, date time.Time) ([]*domain.Booking, error)
}

// ClassRepository интерфейс репозитория занятий
type ClassRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ClassTemplate, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	MarkFreeTrialUsed(ctx context.Context, id int64) error
}

// EligibilityEvaluator интерфейс сервиса проверки права на бронирование
type EligibilityEvaluator interface {
	Evaluate(ctx context.Context, userID int64, class *domain.ClassTemplate, targetDate time.Time) (*eligibility.Decision, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
