package maintenance

import (
	"context"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	DeleteOrphaned(ctx context.Context) (int64, error)
	BackfillMissingCycles(ctx context.Context) (int64, error)
}

// MembershipRepository интерфейс репозитория абонементов
type MembershipRepository interface {
	ListUsersWithDuplicateActive(ctx context.Context) ([]int64, error)
	ListActiveForUser(ctx context.Context, userID int64) ([]*domain.MembershipRecord, error)
	UpdateStatus(ctx context.Context, id int64, status domain.MembershipStatus) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
