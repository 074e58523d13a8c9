package list_class_instances

import (
	"context"
	"fmt"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
)

// UseCase use case для получения расписания занятий с доступностью
type UseCase struct {
	classRepo    ClassRepository
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(classRepo ClassRepository, bookingRepo BookingRepository, logger Logger) *UseCase {
	return &UseCase{
		classRepo:    classRepo,
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения расписания
// Экземпляры вычисляются на лету из шаблонов и ни разу не сохраняются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ListClassInstances: from=%s, to=%s",
		req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	// 1. Валидация окна дат
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ListClassInstances: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем все шаблоны занятий
	classes, err := uc.classRepo.ListAll(ctx)
	if err != nil {
		uc.logger.Error("ListClassInstances: failed to list classes: %v", err)
		return nil, fmt.Errorf("%w: failed to list classes: %v", ErrInternal, err)
	}

	// 4. Считаем активные бронирования по всем экземплярам окна одним запросом
	counts, err := uc.bookingRepo.CountActiveByDateRange(ctx, req.From, req.To)
	if err != nil {
		uc.logger.Error("ListClassInstances: failed to count bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
	}

	// 5. Разворачиваем шаблоны в экземпляры
	instances := make([]*domain.ClassInstance, 0)
	for _, class := range classes {
		if class.Recurring && class.RuleInvalid {
			// Повреждённое правило: занятие деградирует до своей базовой даты
			uc.logger.Warn("ListClassInstances: class id=%d has malformed recurrence rule, using base date only", class.ID)
		}
		instances = append(instances, buildInstances(class, counts, req.From, req.To, now)...)
	}

	// 6. Детерминированный порядок
	sortInstances(instances)

	uc.logger.Info("ListClassInstances: computed %d instances from %d classes",
		len(instances), len(classes))

	// Конвертируем в response
	resp := &Response{
		From:      req.From.Format(domain.DateFormat),
		To:        req.To.Format(domain.DateFormat),
		Instances: make([]InstanceResponse, 0, len(instances)),
	}
	for _, inst := range instances {
		resp.Instances = append(resp.Instances, toInstanceResponse(inst))
	}

	return resp, nil
}
