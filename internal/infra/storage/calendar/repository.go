package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/domain"
	"github.com/barberhub/booking-service/pkg/dbmetrics"
	"github.com/barberhub/booking-service/pkg/psqlbuilder"
	"github.com/barberhub/booking-service/pkg/types"
)

// Repository репозиторий календарной конфигурации тенанта:
// недельное расписание, особые дни, ручные блоки, перерывы и настройки.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// --- Недельное расписание ---

// GetBusinessHours получает расписание тенанта по дням недели
func (r *Repository) GetBusinessHours(ctx context.Context, tenantID uuid.UUID) ([]*domain.BusinessHour, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"day_of_week",
		"is_open",
		"open_time",
		"close_time",
	).
		From("business_hours").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make([]*domain.BusinessHour, 0)
	for rows.Next() {
		var h domain.BusinessHour
		var openTime, closeTime sql.NullString

		if err := rows.Scan(&h.ID, &h.TenantID, &h.DayOfWeek, &h.IsOpen, &openTime, &closeTime); err != nil {
			return nil, fmt.Errorf("%w: GetBusinessHours - scan row: %v", ErrScanRow, err)
		}

		if openTime.Valid {
			if err := h.OpenTime.Scan(openTime.String); err != nil {
				return nil, fmt.Errorf("%w: GetBusinessHours - parse open_time: %v", ErrScanRow, err)
			}
		}
		if closeTime.Valid {
			if err := h.CloseTime.Scan(closeTime.String); err != nil {
				return nil, fmt.Errorf("%w: GetBusinessHours - parse close_time: %v", ErrScanRow, err)
			}
		}

		hours = append(hours, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// UpsertBusinessHour создает или обновляет запись расписания на день недели.
// Не более одной записи на (tenant, dayOfWeek) - гарантируется уникальным
// ограничением в БД.
func (r *Repository) UpsertBusinessHour(ctx context.Context, hour *domain.BusinessHour) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var openTime, closeTime interface{}
	if hour.IsOpen {
		openTime = hour.OpenTime
		closeTime = hour.CloseTime
	}

	query, args, err := psqlbuilder.Insert("business_hours").
		Columns("tenant_id", "day_of_week", "is_open", "open_time", "close_time").
		Values(hour.TenantID, hour.DayOfWeek, hour.IsOpen, openTime, closeTime).
		Suffix("ON CONFLICT (tenant_id, day_of_week) DO UPDATE SET " +
			"is_open = EXCLUDED.is_open, open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time " +
			"RETURNING id").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertBusinessHour - build upsert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&hour.ID); err != nil {
		return fmt.Errorf("%w: UpsertBusinessHour - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// --- Особые дни ---

// GetSpecialDay получает особый день тенанта на конкретную дату
func (r *Repository) GetSpecialDay(ctx context.Context, tenantID uuid.UUID, date time.Time) (*domain.SpecialDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectSpecialDays().
		Where(squirrel.Eq{"tenant_id": tenantID, "date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSpecialDay - build select query: %v", ErrBuildQuery, err)
	}

	day, err := scanSpecialDay(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSpecialDayNotFound
		}
		return nil, fmt.Errorf("%w: GetSpecialDay - scan special day: %v", ErrScanRow, err)
	}

	return day, nil
}

// ListSpecialDays получает особые дни тенанта в диапазоне дат (включительно)
func (r *Repository) ListSpecialDays(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*domain.SpecialDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectSpecialDays().
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListSpecialDays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSpecialDays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]*domain.SpecialDay, 0)
	for rows.Next() {
		day, err := scanSpecialDay(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListSpecialDays - scan row: %v", ErrScanRow, err)
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSpecialDays - rows error: %v", ErrScanRow, err)
	}

	return days, nil
}

// UpsertSpecialDay создает или заменяет особый день на дату
func (r *Repository) UpsertSpecialDay(ctx context.Context, day *domain.SpecialDay) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("special_days").
		Columns("tenant_id", "date", "type", "name", "is_open", "custom_start_time", "custom_end_time").
		Values(day.TenantID, day.Date, day.Type, day.Name, day.IsOpen, day.CustomStartTime, day.CustomEndTime).
		Suffix("ON CONFLICT (tenant_id, date) DO UPDATE SET " +
			"type = EXCLUDED.type, name = EXCLUDED.name, is_open = EXCLUDED.is_open, " +
			"custom_start_time = EXCLUDED.custom_start_time, custom_end_time = EXCLUDED.custom_end_time " +
			"RETURNING id").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertSpecialDay - build upsert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&day.ID); err != nil {
		return fmt.Errorf("%w: UpsertSpecialDay - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteSpecialDay удаляет особый день по ID
func (r *Repository) DeleteSpecialDay(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.deleteByID(ctx, "special_days", tenantID, id, "DeleteSpecialDay")
}

// --- Ручные блоки ---

// ListManualBlocks получает ручные блоки тенанта в диапазоне дат (включительно)
func (r *Repository) ListManualBlocks(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*domain.ManualBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"date",
		"type",
		"start_time",
		"end_time",
		"reason",
		"created_at",
	).
		From("manual_blocks").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		OrderBy("date ASC, start_time ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListManualBlocks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListManualBlocks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.ManualBlock, 0)
	for rows.Next() {
		var b domain.ManualBlock
		var startTime, endTime sql.NullString
		var createdAt sql.NullTime

		if err := rows.Scan(&b.ID, &b.TenantID, &b.Date, &b.Type, &startTime, &endTime, &b.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListManualBlocks - scan row: %v", ErrScanRow, err)
		}

		b.StartTime, err = scanNullableTime(startTime)
		if err != nil {
			return nil, fmt.Errorf("%w: ListManualBlocks - parse start_time: %v", ErrScanRow, err)
		}
		b.EndTime, err = scanNullableTime(endTime)
		if err != nil {
			return nil, fmt.Errorf("%w: ListManualBlocks - parse end_time: %v", ErrScanRow, err)
		}
		b.CreatedAt = createdAt.Time

		blocks = append(blocks, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListManualBlocks - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}

// CreateManualBlock создает ручной блок
func (r *Repository) CreateManualBlock(ctx context.Context, block *domain.ManualBlock) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("manual_blocks").
		Columns("tenant_id", "date", "type", "start_time", "end_time", "reason").
		Values(block.TenantID, block.Date, block.Type, block.StartTime, block.EndTime, block.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CreateManualBlock - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &createdAt); err != nil {
		return fmt.Errorf("%w: CreateManualBlock - execute insert: %v", ErrExecQuery, err)
	}
	block.CreatedAt = createdAt.Time

	return nil
}

// DeleteManualBlock удаляет ручной блок по ID
func (r *Repository) DeleteManualBlock(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.deleteByID(ctx, "manual_blocks", tenantID, id, "DeleteManualBlock")
}

// --- Перерывы ---

// GetBusinessBreaks получает повторяющиеся перерывы тенанта
func (r *Repository) GetBusinessBreaks(ctx context.Context, tenantID uuid.UUID) ([]*domain.BusinessBreak, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"start_time",
		"end_time",
		"name",
		"applies_to_all_days",
	).
		From("business_breaks").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessBreaks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessBreaks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	breaks := make([]*domain.BusinessBreak, 0)
	for rows.Next() {
		var b domain.BusinessBreak
		if err := rows.Scan(&b.ID, &b.TenantID, &b.StartTime, &b.EndTime, &b.Name, &b.AppliesToAllDays); err != nil {
			return nil, fmt.Errorf("%w: GetBusinessBreaks - scan row: %v", ErrScanRow, err)
		}
		breaks = append(breaks, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBusinessBreaks - rows error: %v", ErrScanRow, err)
	}

	return breaks, nil
}

// CreateBusinessBreak создает перерыв
func (r *Repository) CreateBusinessBreak(ctx context.Context, brk *domain.BusinessBreak) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("business_breaks").
		Columns("tenant_id", "start_time", "end_time", "name", "applies_to_all_days").
		Values(brk.TenantID, brk.StartTime, brk.EndTime, brk.Name, brk.AppliesToAllDays).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CreateBusinessBreak - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&brk.ID); err != nil {
		return fmt.Errorf("%w: CreateBusinessBreak - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteBusinessBreak удаляет перерыв по ID
func (r *Repository) DeleteBusinessBreak(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.deleteByID(ctx, "business_breaks", tenantID, id, "DeleteBusinessBreak")
}

// --- Настройки тенанта ---

// GetTenantSetting получает настройки тенанта
func (r *Repository) GetTenantSetting(ctx context.Context, tenantID uuid.UUID) (*domain.TenantSetting, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"slot_duration_minutes",
		"advance_booking_days",
		"max_bookings_per_day",
		"booking_buffer_minutes",
		"timezone",
		"auto_confirm_bookings",
		"created_at",
		"updated_at",
	).
		From("tenant_settings").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetTenantSetting - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.TenantSetting
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.TenantID,
		&s.SlotDurationMinutes,
		&s.AdvanceBookingDays,
		&s.MaxBookingsPerDay,
		&s.BookingBufferMinutes,
		&s.Timezone,
		&s.AutoConfirmBookings,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTenantSetting - scan settings: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// UpsertTenantSetting создает или обновляет настройки тенанта
func (r *Repository) UpsertTenantSetting(ctx context.Context, setting *domain.TenantSetting) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("tenant_settings").
		Columns(
			"tenant_id",
			"slot_duration_minutes",
			"advance_booking_days",
			"max_bookings_per_day",
			"booking_buffer_minutes",
			"timezone",
			"auto_confirm_bookings",
		).
		Values(
			setting.TenantID,
			setting.SlotDurationMinutes,
			setting.AdvanceBookingDays,
			setting.MaxBookingsPerDay,
			setting.BookingBufferMinutes,
			setting.Timezone,
			setting.AutoConfirmBookings,
		).
		Suffix("ON CONFLICT (tenant_id) DO UPDATE SET " +
			"slot_duration_minutes = EXCLUDED.slot_duration_minutes, " +
			"advance_booking_days = EXCLUDED.advance_booking_days, " +
			"max_bookings_per_day = EXCLUDED.max_bookings_per_day, " +
			"booking_buffer_minutes = EXCLUDED.booking_buffer_minutes, " +
			"timezone = EXCLUDED.timezone, " +
			"auto_confirm_bookings = EXCLUDED.auto_confirm_bookings, " +
			"updated_at = NOW() " +
			"RETURNING id").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertTenantSetting - build upsert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&setting.ID); err != nil {
		return fmt.Errorf("%w: UpsertTenantSetting - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// --- Вспомогательные ---

func (r *Repository) deleteByID(ctx context.Context, table string, tenantID, id uuid.UUID, method string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"tenant_id": tenantID, "id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build delete query: %v", ErrBuildQuery, method, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %s - execute delete: %v", ErrExecQuery, method, err)
	}

	return nil
}

func selectSpecialDays() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"tenant_id",
		"date",
		"type",
		"name",
		"is_open",
		"custom_start_time",
		"custom_end_time",
	).From("special_days")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSpecialDay(row rowScanner) (*domain.SpecialDay, error) {
	var d domain.SpecialDay
	var start, end sql.NullString

	err := row.Scan(&d.ID, &d.TenantID, &d.Date, &d.Type, &d.Name, &d.IsOpen, &start, &end)
	if err != nil {
		return nil, err
	}

	d.CustomStartTime, err = scanNullableTime(start)
	if err != nil {
		return nil, err
	}
	d.CustomEndTime, err = scanNullableTime(end)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

func scanNullableTime(v sql.NullString) (*types.TimeString, error) {
	if !v.Valid {
		return nil, nil
	}
	var ts types.TimeString
	if err := ts.Scan(v.String); err != nil {
		return nil, err
	}
	return &ts, nil
}
