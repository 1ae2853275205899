package get_month_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/domain"
	calendarRepo "github.com/barberhub/booking-service/internal/infra/storage/calendar"
	serviceRepo "github.com/barberhub/booking-service/internal/infra/storage/service"
	tenantRepo "github.com/barberhub/booking-service/internal/infra/storage/tenant"
	"github.com/barberhub/booking-service/pkg/ptr"
	"github.com/barberhub/booking-service/pkg/types"
)

// UseCase use case для агрегации доступности по дням месяца
type UseCase struct {
	tenantRepo   TenantRepository
	serviceRepo  ServiceRepository
	calendarRepo CalendarRepository
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tenantRepository TenantRepository,
	serviceRepository ServiceRepository,
	calendarRepository CalendarRepository,
	bookingRepository BookingRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		tenantRepo:   tenantRepository,
		serviceRepo:  serviceRepository,
		calendarRepo: calendarRepository,
		bookingRepo:  bookingRepository,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет агрегацию доступности месяца
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetMonthAvailability: tenant=%s, service=%s, year=%d, month=%d",
		req.TenantID, req.ServiceID, req.Year, req.Month)

	// 1. Валидация входных данных до любых вычислений
	if err := validateRequest(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("GetMonthAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем тенанта
	tenant, err := uc.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("GetMonthAvailability: tenant %s not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("GetMonthAvailability: failed to get tenant %s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}
	if !tenant.IsActive {
		return nil, ErrTenantNotFound
	}

	// 3. Проверяем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetMonthAvailability: service %s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetMonthAvailability: failed to get service %s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsBookable(req.TenantID) {
		return nil, ErrServiceNotFound
	}

	// 4. Календарная конфигурация и бронирования за месяц одним набором запросов
	firstDay := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstDay.AddDate(0, 1, -1)

	month, err := uc.loadMonthData(ctx, req.TenantID, firstDay, lastDay)
	if err != nil {
		return nil, err
	}

	// 5. Посуточная агрегация
	resp := &Response{
		TenantID:  req.TenantID,
		ServiceID: req.ServiceID,
		Year:      req.Year,
		Month:     req.Month,
		Days:      make([]DayAvailability, 0, lastDay.Day()),
	}
	resp.Summary.TotalDaysInMonth = lastDay.Day()

	for date := firstDay; !date.After(lastDay); date = date.AddDate(0, 0, 1) {
		day := uc.aggregateDay(date, month)
		resp.Days = append(resp.Days, day)

		if day.ReasonCode != nil {
			resp.Summary.ClosedDays++
			continue
		}
		if day.HasAvailability {
			resp.Summary.AvailableDays++
		}
		resp.Summary.TotalAvailableSlots += day.AvailableSlots
		resp.Summary.TotalBookedSlots += day.BookedSlots
	}

	denominator := resp.Summary.TotalBookedSlots + resp.Summary.TotalAvailableSlots
	if denominator > 0 {
		resp.Summary.OccupationRate = float64(resp.Summary.TotalBookedSlots) / float64(denominator) * 100
	}

	uc.logger.Info("GetMonthAvailability: tenant=%s, %d-%02d: available days=%d, occupation=%.1f%%",
		req.TenantID, req.Year, req.Month, resp.Summary.AvailableDays, resp.Summary.OccupationRate)

	return resp, nil
}

// monthData предзагруженная конфигурация месяца, сгруппированная по датам
type monthData struct {
	hours       []*domain.BusinessHour
	specialDays map[string]*domain.SpecialDay
	blocks      map[string][]*domain.ManualBlock
	bookedCount map[string]int
	granularity int
}

func (uc *UseCase) loadMonthData(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*monthData, error) {
	hours, err := uc.calendarRepo.GetBusinessHours(ctx, tenantID)
	if err != nil {
		uc.logger.Error("GetMonthAvailability: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}

	specialDays, err := uc.calendarRepo.ListSpecialDays(ctx, tenantID, from, to)
	if err != nil {
		uc.logger.Error("GetMonthAvailability: failed to get special days: %v", err)
		return nil, fmt.Errorf("%w: failed to get special days: %v", ErrInternal, err)
	}

	blocks, err := uc.calendarRepo.ListManualBlocks(ctx, tenantID, from, to)
	if err != nil {
		uc.logger.Error("GetMonthAvailability: failed to get manual blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get manual blocks: %v", ErrInternal, err)
	}

	setting, err := uc.calendarRepo.GetTenantSetting(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, calendarRepo.ErrSettingsNotFound) {
			uc.logger.Error("GetMonthAvailability: failed to get settings: %v", err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		setting = domain.DefaultTenantSetting(tenantID)
	}

	bookings, err := uc.bookingRepo.GetByTenantWithFilter(ctx, domain.TenantBookingsFilter{
		TenantID:  tenantID,
		StartDate: &from,
		EndDate:   &to,
	})
	if err != nil {
		uc.logger.Error("GetMonthAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	data := &monthData{
		hours:       hours,
		specialDays: make(map[string]*domain.SpecialDay, len(specialDays)),
		blocks:      make(map[string][]*domain.ManualBlock),
		bookedCount: make(map[string]int),
		granularity: setting.SlotDurationMinutes,
	}

	for _, d := range specialDays {
		data.specialDays[dateKey(d.Date)] = d
	}
	for _, b := range blocks {
		key := dateKey(b.Date)
		data.blocks[key] = append(data.blocks[key], b)
	}
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		data.bookedCount[dateKey(b.BookingDate)]++
	}

	return data, nil
}

// aggregateDay считает грубую оценку доступности одного дня:
// totalSlots = floor(эффективное окно / гранулярность), занято - число
// активных бронирований на дату.
func (uc *UseCase) aggregateDay(date time.Time, month *monthData) DayAvailability {
	day := DayAvailability{Date: date}
	key := dateKey(date)

	window := effectiveWindowMinutes(month.specialDays[key], month.hours, month.blocks[key], date)
	if window.reason != "" {
		day.ReasonCode = ptr.Ptr(window.reason)
		return day
	}

	if month.granularity > 0 {
		day.TotalSlots = window.minutes / month.granularity
	}
	day.BookedSlots = month.bookedCount[key]

	day.AvailableSlots = day.TotalSlots - day.BookedSlots
	if day.AvailableSlots < 0 {
		day.AvailableSlots = 0
	}
	day.HasAvailability = day.AvailableSlots > 0

	return day
}

// dayWindow эффективное окно дня в минутах; reason непустой для закрытого дня
type dayWindow struct {
	minutes int
	reason  domain.ClosureReason
}

// effectiveWindowMinutes повторяет правила разрешения окна дня:
// закрытый особый день или блок на весь день закрывают день,
// открытый особый день переопределяет недельные часы своими кастомными.
func effectiveWindowMinutes(
	specialDay *domain.SpecialDay,
	hours []*domain.BusinessHour,
	blocks []*domain.ManualBlock,
	date time.Time,
) dayWindow {
	if specialDay != nil && !specialDay.IsOpen {
		return dayWindow{reason: specialDay.Type.ClosureReason()}
	}

	var weekday *domain.BusinessHour
	for _, h := range hours {
		if h.DayOfWeek == int(date.Weekday()) {
			weekday = h
			break
		}
	}

	var start, end types.TimeString
	if weekday != nil && weekday.IsOpen {
		start, end = weekday.OpenTime, weekday.CloseTime
	}
	if specialDay != nil && specialDay.IsOpen {
		if specialDay.CustomStartTime != nil {
			start = *specialDay.CustomStartTime
		}
		if specialDay.CustomEndTime != nil {
			end = *specialDay.CustomEndTime
		}
	}

	if start.IsZero() || end.IsZero() {
		return dayWindow{reason: domain.ReasonClosed}
	}

	for _, b := range blocks {
		if b.Type == domain.BlockFullDay {
			return dayWindow{reason: domain.ReasonBlocked}
		}
	}

	if !start.IsBefore(end) {
		return dayWindow{reason: domain.ReasonClosed}
	}

	return dayWindow{minutes: start.MinutesUntil(end)}
}

func dateKey(date time.Time) string {
	return date.Format(domain.DateFormat)
}
