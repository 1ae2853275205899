package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/domain"
	calendarRepo "github.com/barberhub/booking-service/internal/infra/storage/calendar"
	tenantRepo "github.com/barberhub/booking-service/internal/infra/storage/tenant"
	"github.com/barberhub/booking-service/pkg/types"
)

// Service сервис сводных показателей тенанта
type Service struct {
	tenantRepo   TenantRepository
	bookingRepo  BookingRepository
	customerRepo CustomerRepository
	calendarRepo CalendarRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса дашборда
func NewService(
	tenantRepository TenantRepository,
	bookingRepository BookingRepository,
	customerRepository CustomerRepository,
	calendarRepository CalendarRepository,
	logger Logger,
) *Service {
	return &Service{
		tenantRepo:   tenantRepository,
		bookingRepo:  bookingRepository,
		customerRepo: customerRepository,
		calendarRepo: calendarRepository,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetStats возвращает сводные показатели тенанта: бронирования и
// занятость на сегодня, выручку с начала недели и месяца по завершенным
// бронированиям и общее число клиентов.
func (s *Service) GetStats(ctx context.Context, tenantID uuid.UUID) (*StatsResponse, error) {
	s.logger.Info("GetStats: fetching dashboard stats for tenant=%s", tenantID)

	if tenantID == uuid.Nil {
		return nil, fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}

	if _, err := s.tenantRepo.GetByID(ctx, tenantID); err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("GetStats: tenant %s not found", tenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("GetStats: tenant lookup failed for %s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetStats - tenant lookup: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := today.AddDate(0, 0, -mondayOffset(today.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	todayBookings, err := s.bookingRepo.CountActiveOnDate(ctx, tenantID, today)
	if err != nil {
		s.logger.Error("GetStats: today bookings count failed for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetStats - today bookings: %v", ErrInternal, err)
	}

	weekRevenue, err := s.bookingRepo.TotalRevenueSince(ctx, tenantID, weekStart)
	if err != nil {
		s.logger.Error("GetStats: week revenue failed for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetStats - week revenue: %v", ErrInternal, err)
	}

	monthRevenue, err := s.bookingRepo.TotalRevenueSince(ctx, tenantID, monthStart)
	if err != nil {
		s.logger.Error("GetStats: month revenue failed for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetStats - month revenue: %v", ErrInternal, err)
	}

	totalCustomers, err := s.customerRepo.CountByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("GetStats: customers count failed for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetStats - customers count: %v", ErrInternal, err)
	}

	totalSlots, err := s.todaySlotEstimate(ctx, tenantID, today)
	if err != nil {
		return nil, err
	}

	occupancy := 0.0
	if totalSlots > 0 {
		occupancy = float64(todayBookings) / float64(totalSlots) * 100
		if occupancy > 100 {
			occupancy = 100
		}
	}

	return &StatsResponse{
		TenantID:       tenantID,
		Date:           today.Format(domain.DateFormat),
		TodayBookings:  todayBookings,
		TodayOccupancy: occupancy,
		WeekRevenue:    weekRevenue,
		MonthRevenue:   monthRevenue,
		TotalCustomers: totalCustomers,
	}, nil
}

// todaySlotEstimate грубая оценка числа слотов на сегодня:
// floor(минуты эффективного окна / гранулярность). Временные блокировки
// части дня в оценку не входят, блок на весь день закрывает день.
func (s *Service) todaySlotEstimate(ctx context.Context, tenantID uuid.UUID, today time.Time) (int, error) {
	setting, err := s.calendarRepo.GetTenantSetting(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, calendarRepo.ErrSettingsNotFound) {
			s.logger.Error("GetStats: settings lookup failed for tenant=%s: %v", tenantID, err)
			return 0, fmt.Errorf("%w: GetStats - settings: %v", ErrInternal, err)
		}
		setting = domain.DefaultTenantSetting(tenantID)
	}

	hours, err := s.calendarRepo.GetBusinessHours(ctx, tenantID)
	if err != nil {
		s.logger.Error("GetStats: business hours lookup failed for tenant=%s: %v", tenantID, err)
		return 0, fmt.Errorf("%w: GetStats - business hours: %v", ErrInternal, err)
	}

	specialDay, err := s.calendarRepo.GetSpecialDay(ctx, tenantID, today)
	if err != nil && !errors.Is(err, calendarRepo.ErrSpecialDayNotFound) {
		s.logger.Error("GetStats: special day lookup failed for tenant=%s: %v", tenantID, err)
		return 0, fmt.Errorf("%w: GetStats - special day: %v", ErrInternal, err)
	}

	blocks, err := s.calendarRepo.ListManualBlocks(ctx, tenantID, today, today)
	if err != nil {
		s.logger.Error("GetStats: blocks lookup failed for tenant=%s: %v", tenantID, err)
		return 0, fmt.Errorf("%w: GetStats - blocks: %v", ErrInternal, err)
	}

	for _, block := range blocks {
		if block.Type == domain.BlockFullDay {
			return 0, nil
		}
	}

	var weekdayHour *domain.BusinessHour
	for _, hour := range hours {
		if hour.DayOfWeek == int(today.Weekday()) {
			weekdayHour = hour
			break
		}
	}

	var start, end types.TimeString
	switch {
	case specialDay != nil && !specialDay.IsOpen:
		return 0, nil
	case specialDay != nil:
		if specialDay.CustomStartTime != nil {
			start = *specialDay.CustomStartTime
		} else if weekdayHour != nil && weekdayHour.IsOpen {
			start = weekdayHour.OpenTime
		}
		if specialDay.CustomEndTime != nil {
			end = *specialDay.CustomEndTime
		} else if weekdayHour != nil && weekdayHour.IsOpen {
			end = weekdayHour.CloseTime
		}
	case weekdayHour != nil && weekdayHour.IsOpen:
		start = weekdayHour.OpenTime
		end = weekdayHour.CloseTime
	default:
		return 0, nil
	}

	if start.IsZero() || end.IsZero() || !start.IsBefore(end) {
		return 0, nil
	}

	return start.MinutesUntil(end) / setting.SlotDurationMinutes, nil
}

// mondayOffset возвращает число дней от понедельника текущей недели
func mondayOffset(weekday time.Weekday) int {
	return (int(weekday) + 6) % 7
}
