package eligibility

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
	classRepo "github.com/dojoworks/MAS-BookingService/internal/infra/storage/class"
	membershipRepo "github.com/dojoworks/MAS-BookingService/internal/infra/storage/membership"
	userRepo "github.com/dojoworks/MAS-BookingService/internal/infra/storage/user"
)

// Service проверяет право пользователя на бронирование занятия
//
// Порядок проверок фиксирован, первая сработавшая завершает оценку:
// возрастное ограничение -> бесплатное пробное занятие -> наличие
// абонемента -> месячный лимит тарифа. Проверка дубликатов сюда не входит:
// она требует блокировок и выполняется транзакцией бронирования
type Service struct {
	userRepo       UserRepository
	membershipRepo MembershipRepository
	bookingRepo    BookingRepository
	classRepo      ClassRepository
	logger         Logger
}

// NewService создает новый экземпляр сервиса проверки права на бронирование
func NewService(
	userRepo UserRepository,
	membershipRepo MembershipRepository,
	bookingRepo BookingRepository,
	classRepo ClassRepository,
	logger Logger,
) *Service {
	return &Service{
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		bookingRepo:    bookingRepo,
		classRepo:      classRepo,
		logger:         logger,
	}
}

// Evaluate решает, может ли пользователь забронировать занятие на дату
// Бизнес-отказ возвращается как Decision{Allowed: false}; ошибка означает
// инфраструктурный сбой и трактуется вызывающей стороной как фатальный
func (s *Service) Evaluate(ctx context.Context, userID int64, class *domain.ClassTemplate, targetDate time.Time) (*Decision, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("Evaluate: user id=%d not found", userID)
			return nil, ErrUserNotFound
		}
		s.logger.Error("Evaluate: failed to get user id=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}

	// 1. Возрастное ограничение: проверяется первым, чтобы пробное занятие
	// нельзя было потратить на класс, куда пользователя все равно не пустят
	if class.IsAgeRestricted() {
		if decision := s.checkAge(u, class, targetDate); decision != nil {
			s.logger.Info("Evaluate: user=%d rejected for class=%d: %s", userID, class.ID, decision.Reason)
			return decision, nil
		}
	}

	// 2. Бесплатное пробное занятие: доступно один раз и покрывает
	// бронирование независимо от состояния абонемента
	if !u.FreeTrialUsed && class.TrialEligible {
		return &Decision{
			Allowed: true,
			Reason:  ReasonFreeTrial,
			Detail:  "this booking will use your free trial class",
		}, nil
	}

	// 3. Действующий абонемент
	record, err := s.membershipRepo.GetActiveForUser(ctx, userID, targetDate)
	if err != nil {
		if errors.Is(err, membershipRepo.ErrMembershipNotFound) {
			return &Decision{
				Allowed: false,
				Reason:  ReasonNoMembership,
				Detail:  "an active membership is required to book classes",
			}, nil
		}
		s.logger.Error("Evaluate: failed to get membership for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to get membership: %v", ErrInternal, err)
	}

	// 4. Безлимитный тариф
	if record.Plan.IsUnlimited() {
		return &Decision{
			Allowed: true,
			Reason:  ReasonMembershipOK,
			Detail:  fmt.Sprintf("covered by your %s membership", record.Plan.Name),
		}, nil
	}

	// 5. Месячный лимит: считаем неотменённые непробные бронирования
	// в цикле целевой даты
	limit := *record.Plan.MonthlyClassLimit
	cycle := domain.MembershipCycle(targetDate)

	used, err := s.bookingRepo.CountNonTrialByUserAndCycle(ctx, userID, cycle)
	if err != nil {
		s.logger.Error("Evaluate: failed to count cycle bookings for user=%d cycle=%s: %v", userID, cycle, err)
		return nil, fmt.Errorf("%w: failed to count cycle bookings: %v", ErrInternal, err)
	}

	if used >= limit {
		return &Decision{
			Allowed: false,
			Reason:  ReasonLimitExceeded,
			Detail:  fmt.Sprintf("you have used %d of %d classes this month", used, limit),
			Used:    used,
			Limit:   &limit,
		}, nil
	}

	return &Decision{
		Allowed: true,
		Reason:  ReasonMembershipOK,
		Detail:  fmt.Sprintf("you have used %d of %d classes this month", used, limit),
		Used:    used,
		Limit:   &limit,
	}, nil
}

// EvaluateForClass загружает занятие и делегирует в Evaluate
// Используется HTTP ручкой предварительной проверки перед показом формы
func (s *Service) EvaluateForClass(ctx context.Context, userID, classID int64, targetDate time.Time) (*Decision, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, classRepo.ErrClassNotFound) {
			s.logger.Warn("EvaluateForClass: class id=%d not found", classID)
			return nil, ErrClassNotFound
		}
		s.logger.Error("EvaluateForClass: failed to get class id=%d: %v", classID, err)
		return nil, fmt.Errorf("%w: failed to get class: %v", ErrInternal, err)
	}

	return s.Evaluate(ctx, userID, class, targetDate)
}

// checkAge возвращает отказ, если возраст пользователя вне диапазона занятия
// Пользователь без даты рождения не проходит возрастной фильтр:
// ограниченный класс требует подтвержденного возраста
func (s *Service) checkAge(u *domain.User, class *domain.ClassTemplate, targetDate time.Time) *Decision {
	age, known := u.AgeOn(targetDate)
	if known && class.AllowsAge(age) {
		return nil
	}

	return &Decision{
		Allowed: false,
		Reason:  ReasonAgeRestricted,
		Detail:  ageRestrictionDetail(class),
	}
}

func ageRestrictionDetail(class *domain.ClassTemplate) string {
	switch {
	case class.MinAge != nil && class.MaxAge != nil:
		return fmt.Sprintf("this class is restricted to ages %d-%d", *class.MinAge, *class.MaxAge)
	case class.MinAge != nil:
		return fmt.Sprintf("this class is restricted to ages %d and over", *class.MinAge)
	case class.MaxAge != nil:
		return fmt.Sprintf("this class is restricted to ages %d and under", *class.MaxAge)
	default:
		return "this class is age restricted"
	}
}
