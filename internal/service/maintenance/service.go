package maintenance

import (
	"context"
	"errors"
	"fmt"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
)

// ErrInternal возвращается при внутренних ошибках сервиса
var ErrInternal = errors.New("maintenance: internal error")

// Report итог одного прогона очистки данных
type Report struct {
	OrphanedBookingsDeleted int64 `json:"orphaned_bookings_deleted"`
	MembershipsSuperseded   int   `json:"memberships_superseded"`
	CyclesBackfilled        int64 `json:"cycles_backfilled"`
}

// Service сервис периодической очистки данных.
// Исправляет три известных аномалии: бронирования удалённых пользователей,
// пользователей с несколькими активными абонементами и бронирования
// без заполненного membership_cycle
type Service struct {
	bookingRepo    BookingRepository
	membershipRepo MembershipRepository
	txManager      TransactionManager
	logger         Logger
}

// NewService создает новый экземпляр сервиса очистки
func NewService(
	bookingRepo BookingRepository,
	membershipRepo MembershipRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepo,
		membershipRepo: membershipRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

// Reconcile выполняет один прогон очистки и возвращает отчет
func (s *Service) Reconcile(ctx context.Context) (*Report, error) {
	s.logger.Info("Reconcile: starting data cleanup run")

	report := &Report{}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Удаляем бронирования несуществующих пользователей
		deleted, err := s.bookingRepo.DeleteOrphaned(txCtx)
		if err != nil {
			s.logger.Error("Reconcile: failed to delete orphaned bookings: %v", err)
			return fmt.Errorf("%w: failed to delete orphaned bookings: %v", ErrInternal, err)
		}
		report.OrphanedBookingsDeleted = deleted

		// 2. У пользователей с несколькими активными абонементами
		// оставляем самый свежий, остальные помечаем superseded
		superseded, err := s.supersedeDuplicateMemberships(txCtx)
		if err != nil {
			return err
		}
		report.MembershipsSuperseded = superseded

		// 3. Заполняем membership_cycle там, где он пуст
		backfilled, err := s.bookingRepo.BackfillMissingCycles(txCtx)
		if err != nil {
			s.logger.Error("Reconcile: failed to backfill membership cycles: %v", err)
			return fmt.Errorf("%w: failed to backfill membership cycles: %v", ErrInternal, err)
		}
		report.CyclesBackfilled = backfilled

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Reconcile: done, orphaned=%d, superseded=%d, backfilled=%d",
		report.OrphanedBookingsDeleted, report.MembershipsSuperseded, report.CyclesBackfilled)

	return report, nil
}

// supersedeDuplicateMemberships оставляет каждому пользователю один активный
// абонемент (с самой поздней датой начала) и помечает остальные superseded
func (s *Service) supersedeDuplicateMemberships(ctx context.Context) (int, error) {
	userIDs, err := s.membershipRepo.ListUsersWithDuplicateActive(ctx)
	if err != nil {
		s.logger.Error("Reconcile: failed to list users with duplicate memberships: %v", err)
		return 0, fmt.Errorf("%w: failed to list users with duplicate memberships: %v", ErrInternal, err)
	}

	superseded := 0
	for _, userID := range userIDs {
		// Список отсортирован по дате начала по убыванию: первый остается
		records, err := s.membershipRepo.ListActiveForUser(ctx, userID)
		if err != nil {
			s.logger.Error("Reconcile: failed to list memberships for user=%d: %v", userID, err)
			return 0, fmt.Errorf("%w: failed to list memberships for user %d: %v", ErrInternal, userID, err)
		}
		if len(records) < 2 {
			continue
		}

		for _, record := range records[1:] {
			if err := s.membershipRepo.UpdateStatus(ctx, record.ID, domain.MembershipSuperseded); err != nil {
				s.logger.Error("Reconcile: failed to supersede membership id=%d: %v", record.ID, err)
				return 0, fmt.Errorf("%w: failed to supersede membership %d: %v", ErrInternal, record.ID, err)
			}
			superseded++
		}

		s.logger.Info("Reconcile: user=%d kept membership id=%d, superseded %d others",
			userID, records[0].ID, len(records)-1)
	}

	return superseded, nil
}
