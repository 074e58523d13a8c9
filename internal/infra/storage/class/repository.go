package class

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
	"github.com/dojoworks/MAS-BookingService/pkg/dbmetrics"
	"github.com/dojoworks/MAS-BookingService/pkg/psqlbuilder"
	"github.com/dojoworks/MAS-BookingService/pkg/types"
)

const classesTable = "classes"

var classColumns = []string{
	"c.id",
	"c.name",
	"c.description",
	"c.capacity",
	"c.class_date",
	"c.class_time",
	"c.recurring",
	"c.days_of_week",
	"c.day_specific_times",
	"c.instructor_id",
	"i.name",
	"c.min_age",
	"c.max_age",
	"c.trial_eligible",
	"c.created_at",
	"c.updated_at",
}

// DBExecutor интерфейс для выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с шаблонами занятий
// Занятия создаются админкой; ядро бронирования их только читает
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория занятий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает шаблон занятия по ID
// Внутри транзакции строка блокируется (FOR UPDATE) - бронирования одного
// занятия сериализуются на его строке
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ClassTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(classColumns...).
		From(classesTable + " c").
		LeftJoin("instructors i ON i.id = c.instructor_id").
		Where(squirrel.Eq{"c.id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF c")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	c, err := scanClass(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan class: %v", ErrScanRow, err)
	}

	return c, nil
}

// ListAll получает все шаблоны занятий, отсортированные по имени
// Используется каталогом для раскрытия расписания
func (r *Repository) ListAll(ctx context.Context) ([]*domain.ClassTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(classColumns...).
		From(classesTable + " c").
		LeftJoin("instructors i ON i.id = c.instructor_id").
		OrderBy("c.name ASC, c.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	classes := make([]*domain.ClassTemplate, 0)
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListAll - scan row: %v", ErrScanRow, err)
		}
		classes = append(classes, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAll - rows error: %v", ErrScanRow, err)
	}

	return classes, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanClass сканирует строку и жадно декодирует JSON колонки расписания
// в типизированное правило. Некорректное правило не роняет выборку:
// шаблон помечается RuleInvalid, и вызывающая сторона решает, как деградировать
func scanClass(row rowScanner) (*domain.ClassTemplate, error) {
	var c domain.ClassTemplate
	var description sql.NullString
	var daysJSON, timesJSON sql.NullString
	var instructorName sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&c.ID,
		&c.Name,
		&description,
		&c.Capacity,
		&c.ClassDate,
		&c.ClassTime,
		&c.Recurring,
		&daysJSON,
		&timesJSON,
		&c.InstructorID,
		&instructorName,
		&c.MinAge,
		&c.MaxAge,
		&c.TrialEligible,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Description = description.String
	if instructorName.Valid {
		c.InstructorName = &instructorName.String
	}
	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	if c.Recurring {
		rule, err := decodeRecurrence(daysJSON, timesJSON)
		if err != nil {
			c.RuleInvalid = true
		} else {
			c.Rule = rule
		}
	}

	return &c, nil
}

// decodeRecurrence разбирает колонки days_of_week и day_specific_times
// (исторически JSON текст) в типизированное правило
// Пустые/NULL колонки - валидный legacy случай без явных дней
func decodeRecurrence(daysJSON, timesJSON sql.NullString) (*domain.RecurrenceRule, error) {
	rule := &domain.RecurrenceRule{}

	if daysJSON.Valid && daysJSON.String != "" {
		var names []string
		if err := json.Unmarshal([]byte(daysJSON.String), &names); err != nil {
			return nil, fmt.Errorf("decode days_of_week: %w", err)
		}

		seen := make(map[time.Weekday]bool)
		for _, name := range names {
			day, err := domain.ParseWeekday(name)
			if err != nil {
				return nil, fmt.Errorf("decode days_of_week: %w", err)
			}
			if !seen[day] {
				seen[day] = true
				rule.DaysOfWeek = append(rule.DaysOfWeek, day)
			}
		}
	}

	if timesJSON.Valid && timesJSON.String != "" {
		var overrides map[string]string
		if err := json.Unmarshal([]byte(timesJSON.String), &overrides); err != nil {
			return nil, fmt.Errorf("decode day_specific_times: %w", err)
		}

		if len(overrides) > 0 {
			rule.TimesByDay = make(map[time.Weekday]types.TimeString, len(overrides))
			for name, raw := range overrides {
				day, err := domain.ParseWeekday(name)
				if err != nil {
					return nil, fmt.Errorf("decode day_specific_times: %w", err)
				}
				t, err := types.NewTimeStringFromString(raw)
				if err != nil {
					return nil, fmt.Errorf("decode day_specific_times[%s]: %w", name, err)
				}
				rule.TimesByDay[day] = t
			}
		}
	}

	return rule, nil
}
