package membership

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
	"github.com/dojoworks/MAS-BookingService/pkg/dbmetrics"
	"github.com/dojoworks/MAS-BookingService/pkg/psqlbuilder"
)

const (
	membershipsTable = "memberships"
	plansTable       = "membership_plans"
)

var membershipColumns = []string{
	"m.id",
	"m.user_id",
	"m.plan_id",
	"m.start_date",
	"m.end_date",
	"m.status",
	"m.created_at",
	"p.name",
	"p.monthly_class_limit",
	"p.price_monthly",
}

// DBExecutor интерфейс для выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с абонементами и тарифами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория абонементов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveForUser возвращает действующий абонемент пользователя на дату:
// status = active и end_date >= onDate. Если таких записей несколько
// (историческая аномалия), берется последняя по дате начала
// Тариф подтягивается join'ом
func (r *Repository) GetActiveForUser(ctx context.Context, userID int64, onDate time.Time) (*domain.MembershipRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(membershipColumns...).
		From(membershipsTable + " m").
		Join(plansTable + " p ON p.id = m.plan_id").
		Where(squirrel.Eq{
			"m.user_id": userID,
			"m.status":  domain.MembershipActive,
		}).
		Where(squirrel.GtOrEq{"m.end_date": onDate}).
		OrderBy("m.start_date DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForUser - build select query: %v", ErrBuildQuery, err)
	}

	m, err := scanMembership(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForUser - scan membership: %v", ErrScanRow, err)
	}

	return m, nil
}

// ListUsersWithDuplicateActive возвращает пользователей, у которых больше
// одного активного непросроченного абонемента
// Используется инструментом сверки данных
func (r *Repository) ListUsersWithDuplicateActive(ctx context.Context) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("user_id").
		From(membershipsTable).
		Where(squirrel.Eq{"status": domain.MembershipActive}).
		Where("end_date >= CURRENT_DATE").
		GroupBy("user_id").
		Having("COUNT(*) > 1").
		OrderBy("user_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListUsersWithDuplicateActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListUsersWithDuplicateActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	userIDs := make([]int64, 0)
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("%w: ListUsersWithDuplicateActive - scan user_id: %v", ErrScanRow, err)
		}
		userIDs = append(userIDs, userID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListUsersWithDuplicateActive - rows error: %v", ErrScanRow, err)
	}

	return userIDs, nil
}

// ListActiveForUser возвращает все активные непросроченные абонементы
// пользователя, свежие по дате начала - первыми
func (r *Repository) ListActiveForUser(ctx context.Context, userID int64) ([]*domain.MembershipRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(membershipColumns...).
		From(membershipsTable + " m").
		Join(plansTable + " p ON p.id = m.plan_id").
		Where(squirrel.Eq{
			"m.user_id": userID,
			"m.status":  domain.MembershipActive,
		}).
		Where("m.end_date >= CURRENT_DATE").
		OrderBy("m.start_date DESC, m.id DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveForUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveForUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]*domain.MembershipRecord, 0)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveForUser - scan row: %v", ErrScanRow, err)
		}
		records = append(records, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveForUser - rows error: %v", ErrScanRow, err)
	}

	return records, nil
}

// UpdateStatus обновляет статус записи абонемента
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.MembershipStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(membershipsTable).
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMembership(row rowScanner) (*domain.MembershipRecord, error) {
	var m domain.MembershipRecord
	var plan domain.MembershipPlan
	var createdAt sql.NullTime
	var limit sql.NullInt64

	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.PlanID,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&createdAt,
		&plan.Name,
		&limit,
		&plan.PriceMonthly,
	)
	if err != nil {
		return nil, err
	}

	plan.ID = m.PlanID
	if limit.Valid {
		l := int(limit.Int64)
		plan.MonthlyClassLimit = &l
	}
	m.Plan = &plan
	m.CreatedAt = createdAt.Time

	return &m, nil
}
