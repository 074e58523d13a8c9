package booking

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

const bookingsTable = "bookings"

var bookingColumns = []string{
	"id",
	"class_id",
	"user_id",
	"class_date",
	"class_time",
	"membership_cycle",
	"is_free_trial",
	"status",
	"class_name",
	"created_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её -
// путь создания бронирования всегда идет через сериализуемую транзакцию
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(bookingsTable).
		Columns(
			"class_id",
			"user_id",
			"class_date",
			"class_time",
			"membership_cycle",
			"is_free_trial",
			"status",
			"class_name",
		).
		Values(
			b.ClassID,
			b.UserID,
			b.ClassDate,
			b.ClassTime,
			b.MembershipCycle,
			b.IsFreeTrial,
			b.Status,
			b.ClassName,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetActiveByUserClassDate ищет неотменённое бронирование пользователя на
// данное занятие и дату. Внутри транзакции строка блокируется (FOR UPDATE),
// чтобы конкурентная попытка дубликата дождалась исхода текущей
func (r *Repository) GetActiveByUserClassDate(ctx context.Context, userID, classID int64, date time.Time) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{
			"user_id":    userID,
			"class_id":   classID,
			"class_date": date,
		}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByUserClassDate - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByUserClassDate - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetActiveByClassAndDate получает все неотменённые бронирования занятия на
// конкретную дату. Внутри транзакции строки блокируются (FOR UPDATE) - это
// критичная секция проверки вместимости: конкурентные бронирования того же
// занятия выполняются строго по очереди
func (r *Repository) GetActiveByClassAndDate(ctx context.Context, classID int64, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{
			"class_id":   classID,
			"class_date": date,
		}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByClassAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByClassAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// CountNonTrialByUserAndCycle считает неотменённые бронирования пользователя
// в платежном цикле (YYYY-MM), не считая пробное занятие
// Используется для проверки месячного лимита тарифа
func (r *Repository) CountNonTrialByUserAndCycle(ctx context.Context, userID int64, cycle string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(bookingsTable).
		Where(squirrel.Eq{
			"user_id":          userID,
			"membership_cycle": cycle,
			"is_free_trial":    false,
		}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountNonTrialByUserAndCycle - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountNonTrialByUserAndCycle - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CountActiveByDateRange считает неотменённые бронирования по (занятие, дата)
// за период одним запросом. Используется каталогом для живой доступности
func (r *Repository) CountActiveByDateRange(ctx context.Context, from, to time.Time) (map[domain.InstanceKey]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("class_id", "class_date", "COUNT(*)").
		From(bookingsTable).
		Where(squirrel.GtOrEq{"class_date": from}).
		Where(squirrel.LtOrEq{"class_date": to}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		GroupBy("class_id", "class_date").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDateRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[domain.InstanceKey]int)
	for rows.Next() {
		var classID int64
		var date time.Time
		var count int
		if err := rows.Scan(&classID, &date, &count); err != nil {
			return nil, fmt.Errorf("%w: CountActiveByDateRange - scan row: %v", ErrScanRow, err)
		}
		counts[domain.NewInstanceKey(classID, date)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDateRange - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("class_date DESC, class_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
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
		return ErrBookingNotFound
	}

	return nil
}

// DeleteOrphaned удаляет бронирования, чей пользователь больше не существует
// Используется инструментом сверки данных
func (r *Repository) DeleteOrphaned(ctx context.Context) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(bookingsTable).
		Where("user_id NOT IN (SELECT id FROM users)").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOrphaned - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOrphaned - execute delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOrphaned - get rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

// BackfillMissingCycles проставляет membership_cycle из даты занятия для
// исторических строк, где цикл не был записан
// Используется инструментом сверки данных
func (r *Repository) BackfillMissingCycles(ctx context.Context) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("membership_cycle", squirrel.Expr("to_char(class_date, 'YYYY-MM')")).
		Where(squirrel.Or{
			squirrel.Eq{"membership_cycle": nil},
			squirrel.Eq{"membership_cycle": ""},
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: BackfillMissingCycles - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: BackfillMissingCycles - execute update: %v", ErrExecQuery, err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: BackfillMissingCycles - get rows affected: %v", ErrExecQuery, err)
	}

	return updated, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в бронирование
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var cycle sql.NullString
	var createdAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.ClassID,
		&b.UserID,
		&b.ClassDate,
		&b.ClassTime,
		&cycle,
		&b.IsFreeTrial,
		&b.Status,
		&b.ClassName,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	b.MembershipCycle = cycle.String
	b.CreatedAt = createdAt.Time

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
