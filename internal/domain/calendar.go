package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/barberhub/booking-service/pkg/types"
)

var (
	// ErrInvalidTimeRange возвращается, когда начало интервала не раньше конца
	ErrInvalidTimeRange = errors.New("domain: start time must be before end time")

	// ErrMissingCustomHours возвращается для открытого особого дня без кастомных часов
	ErrMissingCustomHours = errors.New("domain: open special day requires custom start and end times")

	// ErrMissingBlockInterval возвращается для временного блока без интервала
	ErrMissingBlockInterval = errors.New("domain: temporary block requires start and end times")
)

// ClosureReason типизированная причина закрытия дня целиком
type ClosureReason string

const (
	ReasonHoliday      ClosureReason = "HOLIDAY"
	ReasonSpecialHours ClosureReason = "SPECIAL_HOURS"
	ReasonClosed       ClosureReason = "CLOSED"
	ReasonBlocked      ClosureReason = "BLOCKED"
)

// SlotBlockReason причина недоступности отдельного слота внутри открытого дня
type SlotBlockReason string

const (
	SlotReasonBreak       SlotBlockReason = "BREAK"
	SlotReasonManualBlock SlotBlockReason = "MANUAL_BLOCK"
)

// BusinessHour расписание работы тенанта на день недели.
// Не более одной активной записи на (tenant, dayOfWeek); отсутствие записи
// или isOpen=false означает закрытый день.
type BusinessHour struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	DayOfWeek int // 0 = воскресенье ... 6 = суббота
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// Validate проверяет инвариант open < close для открытого дня
func (h *BusinessHour) Validate() error {
	if !h.IsOpen {
		return nil
	}
	if !h.OpenTime.IsBefore(h.CloseTime) {
		return ErrInvalidTimeRange
	}
	return nil
}

// SpecialDayType тип особого дня
type SpecialDayType string

const (
	SpecialDayHoliday      SpecialDayType = "holiday"
	SpecialDaySpecialHours SpecialDayType = "special_hours"
	SpecialDayClosed       SpecialDayType = "closed"
)

// ClosureReason возвращает причину закрытия дня для данного типа
func (t SpecialDayType) ClosureReason() ClosureReason {
	switch t {
	case SpecialDayHoliday:
		return ReasonHoliday
	case SpecialDaySpecialHours:
		return ReasonSpecialHours
	default:
		return ReasonClosed
	}
}

// SpecialDay переопределяет недельное расписание на конкретную дату.
// Уникален на (tenant, date). isOpen=false закрывает день полностью;
// isOpen=true задает кастомные часы работы.
type SpecialDay struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	Date            time.Time
	Type            SpecialDayType
	Name            string
	IsOpen          bool
	CustomStartTime *types.TimeString
	CustomEndTime   *types.TimeString
}

// Validate проверяет инварианты особого дня:
// открытый день требует оба кастомных времени и start < end.
func (d *SpecialDay) Validate() error {
	if !d.IsOpen {
		return nil
	}
	if d.CustomStartTime == nil || d.CustomEndTime == nil {
		return ErrMissingCustomHours
	}
	if !d.CustomStartTime.IsBefore(*d.CustomEndTime) {
		return ErrInvalidTimeRange
	}
	return nil
}

// ManualBlockType тип ручного блока
type ManualBlockType string

const (
	BlockTemporary ManualBlockType = "temporary_block"
	BlockFullDay   ManualBlockType = "full_day_block"
)

// ManualBlock разовая блокировка части дня или дня целиком
type ManualBlock struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Date      time.Time
	Type      ManualBlockType
	StartTime *types.TimeString
	EndTime   *types.TimeString
	Reason    string
	CreatedAt time.Time
}

// Validate проверяет инварианты блока: временный блок требует интервала
// start < end, блок на весь день интервала не имеет.
func (b *ManualBlock) Validate() error {
	if b.Type == BlockFullDay {
		return nil
	}
	if b.StartTime == nil || b.EndTime == nil {
		return ErrMissingBlockInterval
	}
	if !b.StartTime.IsBefore(*b.EndTime) {
		return ErrInvalidTimeRange
	}
	return nil
}

// Covers сообщает, накрывает ли временный блок время слота slot
// (полуоткрытый интервал [start, end))
func (b *ManualBlock) Covers(slot types.TimeString) bool {
	if b.Type != BlockTemporary || b.StartTime == nil || b.EndTime == nil {
		return false
	}
	return !slot.IsBefore(*b.StartTime) && slot.IsBefore(*b.EndTime)
}

// BusinessBreak повторяющийся ежедневный перерыв (например, обед),
// вычитаемый из каждого открытого дня
type BusinessBreak struct {
	ID               uuid.UUID
	TenantID         uuid.UUID
	StartTime        types.TimeString
	EndTime          types.TimeString
	Name             string
	AppliesToAllDays bool
}

// Validate проверяет инвариант start < end
func (b *BusinessBreak) Validate() error {
	if !b.StartTime.IsBefore(b.EndTime) {
		return ErrInvalidTimeRange
	}
	return nil
}

// Covers сообщает, попадает ли время слота в перерыв [start, end)
func (b *BusinessBreak) Covers(slot types.TimeString) bool {
	return !slot.IsBefore(b.StartTime) && slot.IsBefore(b.EndTime)
}

// TenantSetting настройки бронирования тенанта, ровно одна запись на тенанта
type TenantSetting struct {
	ID                   uuid.UUID
	TenantID             uuid.UUID
	SlotDurationMinutes  int // Гранулярность сетки слотов
	AdvanceBookingDays   int
	MaxBookingsPerDay    int
	BookingBufferMinutes int
	Timezone             string
	AutoConfirmBookings  bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// DefaultTenantSetting возвращает настройки по умолчанию для тенанта
func DefaultTenantSetting(tenantID uuid.UUID) *TenantSetting {
	return &TenantSetting{
		TenantID:             tenantID,
		SlotDurationMinutes:  DefaultSlotDurationMinutes,
		AdvanceBookingDays:   DefaultAdvanceBookingDays,
		MaxBookingsPerDay:    DefaultMaxBookingsPerDay,
		BookingBufferMinutes: DefaultBookingBufferMinutes,
		Timezone:             DefaultTimezone,
		AutoConfirmBookings:  true,
	}
}
