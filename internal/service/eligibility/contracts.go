package eligibility

import (
	"context"
	"time"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
)

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// MembershipRepository интерфейс репозитория абонементов
type MembershipRepository interface {
	GetActiveForUser(ctx context.Context, userID int64, onDate time.Time) (*domain.MembershipRecord, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountNonTrialByUserAndCycle(ctx context.Context, userID int64, cycle string) (int, error)
}

// ClassRepository интерфейс репозитория занятий
type ClassRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ClassTemplate, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
