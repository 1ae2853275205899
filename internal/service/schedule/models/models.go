package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/domain"
	"github.com/barberhub/booking-service/pkg/types"
)

var (
	// ErrInvalidTime возвращается при некорректном формате времени
	ErrInvalidTime = errors.New("invalid time format, expected HH:MM")

	// ErrInvalidDate возвращается при некорректном формате даты
	ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")

	// ErrInvalidDayOfWeek возвращается при дне недели вне диапазона 0-6
	ErrInvalidDayOfWeek = errors.New("day of week must be between 0 and 6")

	// ErrInvalidSpecialDayType возвращается при неизвестном типе особого дня
	ErrInvalidSpecialDayType = errors.New("invalid special day type")

	// ErrInvalidBlockType возвращается при неизвестном типе блокировки
	ErrInvalidBlockType = errors.New("invalid manual block type")

	// ErrInvalidSettings возвращается при настройках вне допустимых границ
	ErrInvalidSettings = errors.New("invalid tenant settings")
)

// Request модели

// BusinessHourInput часы работы на день недели
type BusinessHourInput struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = воскресенье ... 6 = суббота
	IsOpen    bool   `json:"isOpen"`
	OpenTime  string `json:"openTime,omitempty"`  // "09:00"
	CloseTime string `json:"closeTime,omitempty"` // "18:00"
}

// ToDomain конвертирует input в domain модель с валидацией инвариантов
func (i *BusinessHourInput) ToDomain(tenantID uuid.UUID) (*domain.BusinessHour, error) {
	if i.DayOfWeek < 0 || i.DayOfWeek > 6 {
		return nil, ErrInvalidDayOfWeek
	}

	hour := &domain.BusinessHour{
		TenantID:  tenantID,
		DayOfWeek: i.DayOfWeek,
		IsOpen:    i.IsOpen,
	}

	if i.IsOpen {
		openTime, err := parseTime(i.OpenTime)
		if err != nil {
			return nil, err
		}
		closeTime, err := parseTime(i.CloseTime)
		if err != nil {
			return nil, err
		}
		hour.OpenTime = openTime
		hour.CloseTime = closeTime
	}

	if err := hour.Validate(); err != nil {
		return nil, err
	}

	return hour, nil
}

// SpecialDayInput особый день: праздник, закрытие или кастомные часы
type SpecialDayInput struct {
	Date      string  `json:"date"` // "2025-12-25"
	Type      string  `json:"type"` // holiday | special_hours | closed
	Name      string  `json:"name"`
	IsOpen    bool    `json:"isOpen"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
}

// ToDomain конвертирует input в domain модель с валидацией инвариантов
func (i *SpecialDayInput) ToDomain(tenantID uuid.UUID) (*domain.SpecialDay, error) {
	date, err := parseDate(i.Date)
	if err != nil {
		return nil, err
	}

	dayType := domain.SpecialDayType(i.Type)
	switch dayType {
	case domain.SpecialDayHoliday, domain.SpecialDaySpecialHours, domain.SpecialDayClosed:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidSpecialDayType, i.Type)
	}

	day := &domain.SpecialDay{
		TenantID: tenantID,
		Date:     date,
		Type:     dayType,
		Name:     i.Name,
		IsOpen:   i.IsOpen,
	}

	if i.StartTime != nil {
		startTime, err := parseTime(*i.StartTime)
		if err != nil {
			return nil, err
		}
		day.CustomStartTime = &startTime
	}
	if i.EndTime != nil {
		endTime, err := parseTime(*i.EndTime)
		if err != nil {
			return nil, err
		}
		day.CustomEndTime = &endTime
	}

	if err := day.Validate(); err != nil {
		return nil, err
	}

	return day, nil
}

// ManualBlockInput разовая блокировка части дня или дня целиком
type ManualBlockInput struct {
	Date      string  `json:"date"`
	Type      string  `json:"type"` // temporary_block | full_day_block
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Reason    string  `json:"reason"`
}

// ToDomain конвертирует input в domain модель с валидацией инвариантов
func (i *ManualBlockInput) ToDomain(tenantID uuid.UUID) (*domain.ManualBlock, error) {
	date, err := parseDate(i.Date)
	if err != nil {
		return nil, err
	}

	blockType := domain.ManualBlockType(i.Type)
	switch blockType {
	case domain.BlockTemporary, domain.BlockFullDay:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidBlockType, i.Type)
	}

	block := &domain.ManualBlock{
		TenantID: tenantID,
		Date:     date,
		Type:     blockType,
		Reason:   i.Reason,
	}

	if i.StartTime != nil {
		startTime, err := parseTime(*i.StartTime)
		if err != nil {
			return nil, err
		}
		block.StartTime = &startTime
	}
	if i.EndTime != nil {
		endTime, err := parseTime(*i.EndTime)
		if err != nil {
			return nil, err
		}
		block.EndTime = &endTime
	}

	if err := block.Validate(); err != nil {
		return nil, err
	}

	return block, nil
}

// BreakInput регулярный перерыв внутри рабочего дня
type BreakInput struct {
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	Name             string `json:"name"`
	AppliesToAllDays bool   `json:"appliesToAllDays"`
}

// ToDomain конвертирует input в domain модель с валидацией инвариантов
func (i *BreakInput) ToDomain(tenantID uuid.UUID) (*domain.BusinessBreak, error) {
	startTime, err := parseTime(i.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := parseTime(i.EndTime)
	if err != nil {
		return nil, err
	}

	brk := &domain.BusinessBreak{
		TenantID:         tenantID,
		StartTime:        startTime,
		EndTime:          endTime,
		Name:             i.Name,
		AppliesToAllDays: i.AppliesToAllDays,
	}

	if err := brk.Validate(); err != nil {
		return nil, err
	}

	return brk, nil
}

// SettingsInput настройки бронирования тенанта
type SettingsInput struct {
	SlotDurationMinutes  int    `json:"slotDurationMinutes"`
	AdvanceBookingDays   int    `json:"advanceBookingDays"`
	MaxBookingsPerDay    int    `json:"maxBookingsPerDay"`
	BookingBufferMinutes int    `json:"bookingBufferMinutes"`
	Timezone             string `json:"timezone"`
	AutoConfirmBookings  bool   `json:"autoConfirmBookings"`
}

// ToDomain конвертирует input в domain модель с проверкой границ
func (i *SettingsInput) ToDomain(tenantID uuid.UUID) (*domain.TenantSetting, error) {
	if i.SlotDurationMinutes < domain.MinSlotDurationMinutes || i.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return nil, fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
			ErrInvalidSettings, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}
	if i.AdvanceBookingDays < domain.MinAdvanceBookingDays || i.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return nil, fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidSettings, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}
	if i.MaxBookingsPerDay < 0 || i.MaxBookingsPerDay > domain.MaxBookingsPerDayLimit {
		return nil, fmt.Errorf("%w: maxBookingsPerDay must be between 0 and %d",
			ErrInvalidSettings, domain.MaxBookingsPerDayLimit)
	}
	if i.BookingBufferMinutes < 0 || i.BookingBufferMinutes > domain.MaxBookingBufferMinutes {
		return nil, fmt.Errorf("%w: bookingBufferMinutes must be between 0 and %d",
			ErrInvalidSettings, domain.MaxBookingBufferMinutes)
	}

	timezone := i.Timezone
	if timezone == "" {
		timezone = domain.DefaultTimezone
	}

	return &domain.TenantSetting{
		TenantID:             tenantID,
		SlotDurationMinutes:  i.SlotDurationMinutes,
		AdvanceBookingDays:   i.AdvanceBookingDays,
		MaxBookingsPerDay:    i.MaxBookingsPerDay,
		BookingBufferMinutes: i.BookingBufferMinutes,
		Timezone:             timezone,
		AutoConfirmBookings:  i.AutoConfirmBookings,
	}, nil
}

// UpdateScheduleRequest запрос на изменение календарной конфигурации тенанта.
// Часы работы и настройки заменяются целиком, остальные секции работают
// в режиме добавить/удалить.
type UpdateScheduleRequest struct {
	TenantID uuid.UUID `json:"-"`

	BusinessHours []BusinessHourInput `json:"businessHours,omitempty"`
	Settings      *SettingsInput      `json:"settings,omitempty"`

	AddSpecialDays      []SpecialDayInput `json:"addSpecialDays,omitempty"`
	RemoveSpecialDayIDs []uuid.UUID       `json:"removeSpecialDayIds,omitempty"`

	AddBreaks      []BreakInput `json:"addBreaks,omitempty"`
	RemoveBreakIDs []uuid.UUID  `json:"removeBreakIds,omitempty"`

	AddBlocks      []ManualBlockInput `json:"addBlocks,omitempty"`
	RemoveBlockIDs []uuid.UUID        `json:"removeBlockIds,omitempty"`
}

// Response модели

// BusinessHourResponse часы работы на день недели
type BusinessHourResponse struct {
	DayOfWeek int    `json:"dayOfWeek"`
	IsOpen    bool   `json:"isOpen"`
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
}

// SpecialDayResponse особый день
type SpecialDayResponse struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	IsOpen    bool      `json:"isOpen"`
	StartTime *string   `json:"startTime,omitempty"`
	EndTime   *string   `json:"endTime,omitempty"`
}

// ManualBlockResponse разовая блокировка
type ManualBlockResponse struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	Type      string    `json:"type"`
	StartTime *string   `json:"startTime,omitempty"`
	EndTime   *string   `json:"endTime,omitempty"`
	Reason    string    `json:"reason"`
}

// BreakResponse регулярный перерыв
type BreakResponse struct {
	ID               uuid.UUID `json:"id"`
	StartTime        string    `json:"startTime"`
	EndTime          string    `json:"endTime"`
	Name             string    `json:"name"`
	AppliesToAllDays bool      `json:"appliesToAllDays"`
}

// SettingsResponse настройки бронирования тенанта
type SettingsResponse struct {
	SlotDurationMinutes  int    `json:"slotDurationMinutes"`
	AdvanceBookingDays   int    `json:"advanceBookingDays"`
	MaxBookingsPerDay    int    `json:"maxBookingsPerDay"`
	BookingBufferMinutes int    `json:"bookingBufferMinutes"`
	Timezone             string `json:"timezone"`
	AutoConfirmBookings  bool   `json:"autoConfirmBookings"`
}

// ScheduleResponse полная календарная конфигурация тенанта
type ScheduleResponse struct {
	TenantID      uuid.UUID              `json:"tenantId"`
	BusinessHours []BusinessHourResponse `json:"businessHours"`
	Breaks        []BreakResponse        `json:"breaks"`
	SpecialDays   []SpecialDayResponse   `json:"specialDays"`
	ManualBlocks  []ManualBlockResponse  `json:"manualBlocks"`
	Settings      SettingsResponse       `json:"settings"`
}

// FromDomainBusinessHour конвертирует domain модель в DTO
func FromDomainBusinessHour(h *domain.BusinessHour) BusinessHourResponse {
	resp := BusinessHourResponse{
		DayOfWeek: h.DayOfWeek,
		IsOpen:    h.IsOpen,
	}
	if h.IsOpen {
		resp.OpenTime = h.OpenTime.String()
		resp.CloseTime = h.CloseTime.String()
	}
	return resp
}

// FromDomainSpecialDay конвертирует domain модель в DTO
func FromDomainSpecialDay(d *domain.SpecialDay) SpecialDayResponse {
	return SpecialDayResponse{
		ID:        d.ID,
		Date:      d.Date.Format(domain.DateFormat),
		Type:      string(d.Type),
		Name:      d.Name,
		IsOpen:    d.IsOpen,
		StartTime: timeStringPtr(d.CustomStartTime),
		EndTime:   timeStringPtr(d.CustomEndTime),
	}
}

// FromDomainManualBlock конвертирует domain модель в DTO
func FromDomainManualBlock(b *domain.ManualBlock) ManualBlockResponse {
	return ManualBlockResponse{
		ID:        b.ID,
		Date:      b.Date.Format(domain.DateFormat),
		Type:      string(b.Type),
		StartTime: timeStringPtr(b.StartTime),
		EndTime:   timeStringPtr(b.EndTime),
		Reason:    b.Reason,
	}
}

// FromDomainBreak конвертирует domain модель в DTO
func FromDomainBreak(b *domain.BusinessBreak) BreakResponse {
	return BreakResponse{
		ID:               b.ID,
		StartTime:        b.StartTime.String(),
		EndTime:          b.EndTime.String(),
		Name:             b.Name,
		AppliesToAllDays: b.AppliesToAllDays,
	}
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.TenantSetting) SettingsResponse {
	return SettingsResponse{
		SlotDurationMinutes:  s.SlotDurationMinutes,
		AdvanceBookingDays:   s.AdvanceBookingDays,
		MaxBookingsPerDay:    s.MaxBookingsPerDay,
		BookingBufferMinutes: s.BookingBufferMinutes,
		Timezone:             s.Timezone,
		AutoConfirmBookings:  s.AutoConfirmBookings,
	}
}

func parseTime(value string) (types.TimeString, error) {
	ts := types.TimeString(value)
	if err := ts.Validate(); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	return ts, nil
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(domain.DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return date, nil
}

func timeStringPtr(ts *types.TimeString) *string {
	if ts == nil {
		return nil
	}
	s := ts.String()
	return &s
}
