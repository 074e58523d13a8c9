package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
	bookingRepo "github.com/dojoworks/MAS-BookingService/internal/infra/storage/booking"
	classRepo "github.com/dojoworks/MAS-BookingService/internal/infra/storage/class"
	"github.com/dojoworks/MAS-BookingService/internal/service/eligibility"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	classRepo    ClassRepository
	userRepo     UserRepository
	eligibility  EligibilityEvaluator
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepository BookingRepository,
	classRepository ClassRepository,
	userRepository UserRepository,
	eligibilityService EligibilityEvaluator,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepository,
		classRepo:    classRepository,
		userRepo:     userRepository,
		eligibility:  eligibilityService,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию: строка занятия блокируется (FOR UPDATE),
// поэтому проверка вместимости и вставка выполняются атомарно
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, class=%d, date=%s, time=%s",
		req.UserID, req.ClassID, req.Date, req.StartTime)

	// 1. Валидация входных данных
	date, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// Переменные для хранения результата
	var (
		result   *domain.Booking
		decision *eligibility.Decision
	)

	// 3. Выполняем все проверки и вставку в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем занятие с блокировкой строки (FOR UPDATE)
		class, err := uc.classRepo.GetByID(txCtx, req.ClassID)
		if err != nil {
			if errors.Is(err, classRepo.ErrClassNotFound) {
				uc.logger.Warn("CreateBooking: class id=%d not found", req.ClassID)
				return ErrClassNotFound
			}
			uc.logger.Error("CreateBooking: failed to get class id=%d: %v", req.ClassID, err)
			return fmt.Errorf("%w: failed to get class: %v", ErrInternal, err)
		}

		// 3.2. Валидация даты и времени: бронировать можно только будущие занятия
		if err := validateBookingTime(date, req.StartTime, now); err != nil {
			uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
			return err
		}

		// 3.3. Проверяем, что занятие действительно проходит в запрошенный слот
		expectedTime, ok := domain.ResolveTimeForDate(class, date)
		if !ok || expectedTime != req.StartTime {
			uc.logger.Warn("CreateBooking: class id=%d does not occur at %s %s",
				req.ClassID, req.Date, req.StartTime)
			return ErrInvalidSlot
		}

		// 3.4. Проверяем, нет ли у пользователя активного бронирования
		// этого занятия на эту дату
		_, err = uc.bookingRepo.GetActiveByUserClassDate(txCtx, req.UserID, req.ClassID, date)
		if err == nil {
			uc.logger.Warn("CreateBooking: user=%d already booked class=%d on %s",
				req.UserID, req.ClassID, req.Date)
			return ErrDuplicateBooking
		}
		if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Error("CreateBooking: failed to check duplicate booking: %v", err)
			return fmt.Errorf("%w: failed to check duplicate booking: %v", ErrInternal, err)
		}

		// 3.5. Считаем активные бронирования экземпляра (тоже под блокировкой)
		active, err := uc.bookingRepo.GetActiveByClassAndDate(txCtx, req.ClassID, date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get active bookings: %v", err)
			return fmt.Errorf("%w: failed to get active bookings: %v", ErrInternal, err)
		}

		if len(active) >= class.Capacity {
			uc.logger.Warn("CreateBooking: class=%d on %s is full, %d/%d spots taken",
				req.ClassID, req.Date, len(active), class.Capacity)
			return ErrClassFull
		}

		uc.logger.Info("CreateBooking: class=%d on %s has spots, %d/%d taken",
			req.ClassID, req.Date, len(active), class.Capacity)

		// 3.6. Проверяем право пользователя на бронирование
		decision, err = uc.eligibility.Evaluate(txCtx, req.UserID, class, date)
		if err != nil {
			if errors.Is(err, eligibility.ErrUserNotFound) {
				uc.logger.Warn("CreateBooking: user id=%d not found", req.UserID)
				return ErrUserNotFound
			}
			uc.logger.Error("CreateBooking: eligibility check failed: %v", err)
			return fmt.Errorf("%w: eligibility check failed: %v", ErrInternal, err)
		}

		if !decision.Allowed {
			uc.logger.Warn("CreateBooking: user=%d not eligible for class=%d: %s",
				req.UserID, req.ClassID, decision.Reason)
			return rejectionError(decision)
		}

		// 3.7. Создаем бронирование с денормализацией названия занятия
		booking := &domain.Booking{
			ClassID:         req.ClassID,
			UserID:          req.UserID,
			ClassDate:       date,
			ClassTime:       req.StartTime,
			MembershipCycle: domain.MembershipCycle(date),
			IsFreeTrial:     decision.Reason == eligibility.ReasonFreeTrial,
			Status:          domain.StatusConfirmed,
			ClassName:       class.Name,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 3.8. Пробное занятие сжигается в той же транзакции
		if created.IsFreeTrial {
			if err := uc.userRepo.MarkFreeTrialUsed(txCtx, req.UserID); err != nil {
				uc.logger.Error("CreateBooking: failed to mark free trial used for user=%d: %v",
					req.UserID, err)
				return fmt.Errorf("%w: failed to mark free trial used: %v", ErrInternal, err)
			}
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d (free_trial=%t)",
		result.ID, result.IsFreeTrial)

	// Конвертируем в response
	return &Response{
		BookingID:          result.ID,
		ClassID:            result.ClassID,
		ClassName:          result.ClassName,
		Date:               result.ClassDate.Format(domain.DateFormat),
		StartTime:          result.ClassTime,
		IsFreeTrial:        result.IsFreeTrial,
		Status:             string(result.Status),
		Message:            confirmationMessage(decision),
		RemainingThisCycle: remainingThisCycle(decision),
	}, nil
}

// rejectionError конвертирует отказ eligibility-сервиса в sentinel ошибку use case
func rejectionError(d *eligibility.Decision) error {
	var sentinel error
	switch d.Reason {
	case eligibility.ReasonAgeRestricted:
		sentinel = ErrAgeRestricted
	case eligibility.ReasonNoMembership:
		sentinel = ErrNoMembership
	case eligibility.ReasonLimitExceeded:
		sentinel = ErrLimitExceeded
	default:
		return fmt.Errorf("%w: unexpected rejection reason %q", ErrInternal, d.Reason)
	}
	if d.Detail == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, d.Detail)
}

// confirmationMessage формирует сообщение для пользователя
func confirmationMessage(d *eligibility.Decision) string {
	if d.Reason == eligibility.ReasonFreeTrial {
		return d.Detail
	}
	return "booking confirmed"
}

// remainingThisCycle считает, сколько занятий осталось в текущем цикле
// после этого бронирования; nil для безлимитных тарифов и пробных занятий
func remainingThisCycle(d *eligibility.Decision) *int {
	if d.Limit == nil || d.Reason != eligibility.ReasonMembershipOK {
		return nil
	}
	remaining := *d.Limit - d.Used - 1
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
