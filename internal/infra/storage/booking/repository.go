package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/barberhub/booking-service/internal/domain"
	"github.com/barberhub/booking-service/pkg/dbmetrics"
	"github.com/barberhub/booking-service/pkg/psqlbuilder"
)

// Уникальный индекс активного слота (tenant_id, booking_date, booking_time)
const uniqueActiveSlotIndex = "idx_bookings_active_slot"

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Временные метки created_at/updated_at проставляет БД - это зона
// ответственности хранилища, а не вызывающего кода.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"tenant_id",
			"service_id",
			"customer_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"booking_date",
			"booking_time",
			"duration_minutes",
			"service_name",
			"service_price",
			"status",
			"notes",
		).
		Values(
			booking.TenantID,
			booking.ServiceID,
			booking.CustomerID,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.BookingDate,
			booking.BookingTime,
			booking.DurationMinutes,
			booking.ServiceName,
			booking.ServicePrice,
			booking.Status,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueSlotViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBookings().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByTenantWithFilter получает бронирования тенанта с фильтрацией по
// периоду, статусу и включению неактивных бронирований.
//
// Внутри транзакции для выборки на конкретную дату добавляется FOR UPDATE -
// блокировка строк на время проверки конфликта при создании бронирования.
func (r *Repository) GetByTenantWithFilter(ctx context.Context, filter domain.TenantBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectBookings().
		Where(squirrel.Eq{"tenant_id": filter.TenantID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactive})
	}

	singleDate := filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate)

	if singleDate {
		selectBuilder = selectBuilder.OrderBy("booking_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, booking_time DESC")
	}

	if dbmetrics.IsInTransaction(ctx) && singleDate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// CountActiveOnDate возвращает число активных бронирований тенанта на дату.
// Используется для проверки лимита maxBookingsPerDay.
func (r *Repository) CountActiveOnDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	inactive := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		inactive[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"tenant_id": tenantID, "booking_date": date}).
		Where(squirrel.NotEq{"status": inactive}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveOnDate - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveOnDate - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// UpdateStatus переводит бронирование из статуса from в to, обновляя notes
// и updated_at. Возвращает ErrStatusConflict, если запись не найдена или
// её статус уже не равен from.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus, notes *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Условие по старому статусу защищает от гонки двух параллельных
	// переходов: проигравший получает 0 строк вместо потерянной записи
	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("notes", notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
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
		return ErrStatusConflict
	}

	return nil
}

// CountByStatusSince считает бронирования тенанта в статусе status,
// начиная с даты since (для дашборда)
func (r *Repository) CountByStatusSince(ctx context.Context, tenantID uuid.UUID, status domain.BookingStatus, since time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"tenant_id": tenantID, "status": status}).
		Where(squirrel.GtOrEq{"booking_date": since}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountByStatusSince - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByStatusSince - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// TotalRevenueSince возвращает суммарную выручку по завершенным
// бронированиям тенанта с даты since
func (r *Repository) TotalRevenueSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (float64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(service_price), 0)").
		From("bookings").
		Where(squirrel.Eq{"tenant_id": tenantID, "status": domain.StatusCompleted}).
		Where(squirrel.GtOrEq{"booking_date": since}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: TotalRevenueSince - build select query: %v", ErrBuildQuery, err)
	}

	var total float64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: TotalRevenueSince - scan total: %v", ErrScanRow, err)
	}

	return total, nil
}

func selectBookings() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"tenant_id",
		"service_id",
		"customer_id",
		"customer_name",
		"customer_email",
		"customer_phone",
		"booking_date",
		"booking_time",
		"duration_minutes",
		"service_name",
		"service_price",
		"status",
		"notes",
		"created_at",
		"updated_at",
	).From("bookings")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.TenantID,
		&booking.ServiceID,
		&booking.CustomerID,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.BookingDate,
		&booking.BookingTime,
		&booking.DurationMinutes,
		&booking.ServiceName,
		&booking.ServicePrice,
		&booking.Status,
		&booking.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func isUniqueSlotViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == uniqueActiveSlotIndex
	}
	return false
}
